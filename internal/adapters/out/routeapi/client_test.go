package routeapi_test

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"tripledger/internal/adapters/out/routeapi"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const warehouseOrigin = "159 E Main St, Bristol, CT, 06010"

type routeRequest struct {
	Origin      struct{ Address string `json:"address"` } `json:"origin"`
	Destination struct{ Address string `json:"address"` } `json:"destination"`
	TravelMode  string                                    `json:"travelMode"`
}

func routeResponse(durationSeconds int, instructions ...string) string {
	steps := make([]string, 0, len(instructions))
	for _, instruction := range instructions {
		steps = append(steps, fmt.Sprintf(
			`{"distanceMeters": 3218.68, "navigationInstruction": {"instructions": %q}}`, instruction))
	}
	return fmt.Sprintf(
		`{"routes": [{"duration": "%ds", "distanceMeters": 5000, "legs": [{"steps": [%s]}]}]}`,
		durationSeconds, strings.Join(steps, ","))
}

func TestNewClient_MissingParameters(t *testing.T) {
	_, err := routeapi.NewClient("", "key", warehouseOrigin)
	require.Error(t, err)

	_, err = routeapi.NewClient("http://routes", "", warehouseOrigin)
	require.Error(t, err)

	_, err = routeapi.NewClient("http://routes", "key", "")
	require.Error(t, err)
}

func TestClient_Plan(t *testing.T) {
	deliveryDate := time.Date(2025, 8, 5, 0, 0, 0, 0, time.UTC)
	startTime := time.Date(2025, 8, 5, 7, 0, 0, 0, time.UTC)

	t.Run("should chain legs from the warehouse origin with service buffers", func(t *testing.T) {
		var requests []routeRequest
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			require.Equal(t, "test-key", r.Header.Get("X-Goog-Api-Key"))
			require.NotEmpty(t, r.Header.Get("X-Goog-FieldMask"))

			var req routeRequest
			require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
			requests = append(requests, req)

			// 30 minutes to the first stop, 10 to the second
			if len(requests) == 1 {
				_, _ = w.Write([]byte(routeResponse(1800, "Head north on Main St")))
				return
			}
			_, _ = w.Write([]byte(routeResponse(600, "Turn left on Oak Ave")))
		}))
		t.Cleanup(server.Close)

		client, err := routeapi.NewClient(server.URL, "test-key", warehouseOrigin)
		require.NoError(t, err)

		segments, err := client.Plan(context.Background(),
			[]string{"100 First St, Hartford, CT", "200 Second St, New Haven, CT"},
			deliveryDate, startTime)

		require.NoError(t, err)
		require.Len(t, requests, 2)
		assert.Equal(t, warehouseOrigin, requests[0].Origin.Address)
		assert.Equal(t, "100 First St, Hartford, CT", requests[0].Destination.Address)
		assert.Equal(t, "100 First St, Hartford, CT", requests[1].Origin.Address)
		assert.Equal(t, "200 Second St, New Haven, CT", requests[1].Destination.Address)
		assert.Equal(t, "DRIVE", requests[0].TravelMode)

		require.Len(t, segments, 2)
		assert.Equal(t, startTime.Unix(), segments[0].DepartureUnix)
		assert.Equal(t, startTime.Add(30*time.Minute).Unix(), segments[0].ArrivalUnix)
		assert.Contains(t, segments[0].RouteText, "1. Head north on Main St")
		assert.Contains(t, segments[0].RouteText, "2.0 mi")

		// second leg departs after the 15 minute service buffer
		expectedDeparture := startTime.Add(30*time.Minute + 15*time.Minute)
		assert.Equal(t, expectedDeparture.Unix(), segments[1].DepartureUnix)
		assert.Equal(t, expectedDeparture.Add(10*time.Minute).Unix(), segments[1].ArrivalUnix)
	})

	t.Run("should default to 8 AM on the delivery date without a start time", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(routeResponse(600, "Head north")))
		}))
		t.Cleanup(server.Close)

		client, err := routeapi.NewClient(server.URL, "test-key", warehouseOrigin)
		require.NoError(t, err)

		segments, err := client.Plan(context.Background(),
			[]string{"100 First St, Hartford, CT"}, deliveryDate, time.Time{})

		require.NoError(t, err)
		require.Len(t, segments, 1)
		expected := time.Date(2025, 8, 5, 8, 0, 0, 0, time.UTC)
		assert.Equal(t, expected.Unix(), segments[0].DepartureUnix)
	})

	t.Run("should assume a default leg duration when the provider omits one", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"routes": [{"legs": [{"steps": []}]}]}`))
		}))
		t.Cleanup(server.Close)

		client, err := routeapi.NewClient(server.URL, "test-key", warehouseOrigin)
		require.NoError(t, err)

		segments, err := client.Plan(context.Background(),
			[]string{"100 First St, Hartford, CT"}, deliveryDate, startTime)

		require.NoError(t, err)
		require.Len(t, segments, 1)
		assert.Equal(t, startTime.Add(15*time.Minute).Unix(), segments[0].ArrivalUnix)
		assert.Equal(t, "Route directions not available", segments[0].RouteText)
	})

	t.Run("should fail when the provider finds no route", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"routes": []}`))
		}))
		t.Cleanup(server.Close)

		client, err := routeapi.NewClient(server.URL, "test-key", warehouseOrigin)
		require.NoError(t, err)

		_, err = client.Plan(context.Background(),
			[]string{"Nowhere"}, deliveryDate, startTime)

		require.Error(t, err)
		assert.Contains(t, err.Error(), "no route found")
		assert.Contains(t, err.Error(), "Nowhere")
	})

	t.Run("should fail on provider errors", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusTooManyRequests)
		}))
		t.Cleanup(server.Close)

		client, err := routeapi.NewClient(server.URL, "test-key", warehouseOrigin)
		require.NoError(t, err)

		_, err = client.Plan(context.Background(),
			[]string{"100 First St, Hartford, CT"}, deliveryDate, startTime)

		require.Error(t, err)
		assert.Contains(t, err.Error(), "429")
	})

	t.Run("should reject an empty address list", func(t *testing.T) {
		client, err := routeapi.NewClient("http://routes.invalid", "test-key", warehouseOrigin)
		require.NoError(t, err)

		_, err = client.Plan(context.Background(), nil, deliveryDate, startTime)

		require.Error(t, err)
	})

	t.Run("should truncate very long turn-by-turn text", func(t *testing.T) {
		instructions := make([]string, 30)
		for i := range instructions {
			instructions[i] = fmt.Sprintf("Continue on State Route %d toward the next waypoint junction", i)
		}
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(routeResponse(600, instructions...)))
		}))
		t.Cleanup(server.Close)

		client, err := routeapi.NewClient(server.URL, "test-key", warehouseOrigin)
		require.NoError(t, err)

		segments, err := client.Plan(context.Background(),
			[]string{"100 First St, Hartford, CT"}, deliveryDate, startTime)

		require.NoError(t, err)
		require.Len(t, segments, 1)
		assert.Contains(t, segments[0].RouteText, "10. Continue on State Route 9")
		assert.NotContains(t, segments[0].RouteText, "11. ")
		assert.Contains(t, segments[0].RouteText, "[Route continues with similar directions]")
	})
}
