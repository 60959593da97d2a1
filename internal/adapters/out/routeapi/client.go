// Package routeapi implements the RouteService port against a
// computeRoutes-style directions API. One leg is requested per consecutive
// address pair starting from the fixed warehouse origin, and departure and
// arrival timestamps are accumulated along the legs with a fixed service
// buffer at every stop but the last.
package routeapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"tripledger/internal/core/domain/model/trip"
	"tripledger/internal/pkg/errs"
)

const (
	requestTimeout = 30 * time.Second

	// stopServiceBuffer is the unloading time planned at each stop before
	// departing for the next one.
	stopServiceBuffer = 15 * time.Minute

	// defaultLegDuration stands in when the provider reports no duration
	// for a leg.
	defaultLegDuration = 15 * time.Minute

	// maxRouteTextLength caps turn-by-turn text per leg; longer routes are
	// cut to their first instructions.
	maxRouteTextLength    = 1500
	truncatedInstructions = 10

	fieldMask = "routes.duration,routes.distanceMeters," +
		"routes.legs.steps.navigationInstruction,routes.legs.steps.distanceMeters,routes.legs.steps.staticDuration"
)

// Client is the HTTP implementation of ports.RouteService.
type Client struct {
	httpClient    *http.Client
	endpoint      string
	apiKey        string
	originAddress string
}

// NewClient creates a route service client. originAddress is the warehouse
// every trip departs from.
func NewClient(endpoint, apiKey, originAddress string) (*Client, error) {
	if endpoint == "" {
		return nil, errs.NewValueIsRequiredError("endpoint")
	}
	if apiKey == "" {
		return nil, errs.NewValueIsRequiredError("apiKey")
	}
	if originAddress == "" {
		return nil, errs.NewValueIsRequiredError("originAddress")
	}

	return &Client{
		httpClient:    &http.Client{Timeout: requestTimeout},
		endpoint:      endpoint,
		apiKey:        apiKey,
		originAddress: originAddress,
	}, nil
}

// Plan computes ordered route segments covering every address in sequence.
func (c *Client) Plan(
	ctx context.Context,
	addresses []string,
	deliveryDate time.Time,
	startTime time.Time,
) ([]trip.RouteSegment, error) {
	if len(addresses) == 0 {
		return nil, errs.NewValueIsRequiredError("addresses")
	}

	if startTime.IsZero() {
		startTime = time.Date(
			deliveryDate.Year(), deliveryDate.Month(), deliveryDate.Day(),
			8, 0, 0, 0, deliveryDate.Location())
	}

	legs := make([]leg, 0, len(addresses))
	previous := c.originAddress
	for _, address := range addresses {
		routeLeg, err := c.computeLeg(ctx, previous, address)
		if err != nil {
			return nil, fmt.Errorf("route from %q to %q: %w", previous, address, err)
		}
		legs = append(legs, routeLeg)
		previous = address
	}

	segments := make([]trip.RouteSegment, 0, len(legs))
	current := startTime
	for i, routeLeg := range legs {
		duration := routeLeg.duration
		if duration <= 0 {
			duration = defaultLegDuration
		}

		departure := current
		arrival := departure.Add(duration)
		segments = append(segments, trip.RouteSegment{
			DepartureUnix: departure.Unix(),
			ArrivalUnix:   arrival.Unix(),
			RouteText:     routeLeg.text,
		})

		current = arrival
		if i < len(legs)-1 {
			current = current.Add(stopServiceBuffer)
		}
	}

	return segments, nil
}

type leg struct {
	duration time.Duration
	text     string
}

func (c *Client) computeLeg(ctx context.Context, origin, destination string) (leg, error) {
	payload := map[string]any{
		"origin":                   map[string]string{"address": origin},
		"destination":              map[string]string{"address": destination},
		"travelMode":               "DRIVE",
		"routingPreference":        "TRAFFIC_AWARE",
		"computeAlternativeRoutes": false,
		"languageCode":             "en-US",
		"units":                    "IMPERIAL",
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return leg{}, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return leg{}, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Goog-Api-Key", c.apiKey)
	req.Header.Set("X-Goog-FieldMask", fieldMask)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return leg{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return leg{}, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	var wire routesResponse
	if err := json.NewDecoder(resp.Body).Decode(&wire); err != nil {
		return leg{}, fmt.Errorf("decode response: %w", err)
	}
	if len(wire.Routes) == 0 {
		return leg{}, fmt.Errorf("no route found")
	}

	route := wire.Routes[0]
	return leg{
		duration: parseDuration(route.Duration),
		text:     formatInstructions(route),
	}, nil
}

type routesResponse struct {
	Routes []wireRoute `json:"routes"`
}

type wireRoute struct {
	Duration       string `json:"duration"`
	DistanceMeters int    `json:"distanceMeters"`

	Legs []struct {
		Steps []struct {
			DistanceMeters        float64 `json:"distanceMeters"`
			NavigationInstruction struct {
				Instructions string `json:"instructions"`
			} `json:"navigationInstruction"`
		} `json:"steps"`
	} `json:"legs"`
}

// parseDuration reads the provider's duration strings ("165s", "1h15m30s").
// Unparseable values yield zero and the caller's default applies.
func parseDuration(raw string) time.Duration {
	if raw == "" {
		return 0
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0
	}
	return d
}

func formatInstructions(route wireRoute) string {
	var instructions []string
	n := 0
	for _, routeLeg := range route.Legs {
		for _, step := range routeLeg.Steps {
			n++
			instruction := step.NavigationInstruction.Instructions
			if instruction == "" {
				instruction = "Continue straight"
			}

			miles := step.DistanceMeters / 1609.34
			if miles >= 0.1 {
				instructions = append(instructions, fmt.Sprintf("%d. %s (%.1f mi)", n, instruction, miles))
			} else {
				instructions = append(instructions, fmt.Sprintf("%d. %s", n, instruction))
			}
		}
	}

	if len(instructions) == 0 {
		return "Route directions not available"
	}

	text := strings.Join(instructions, "\n")
	if len(text) > maxRouteTextLength && len(instructions) > truncatedInstructions {
		text = strings.Join(instructions[:truncatedInstructions], "\n")
		text += "\n[Route continues with similar directions]"
	}
	return text
}
