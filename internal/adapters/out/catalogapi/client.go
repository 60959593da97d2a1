// Package catalogapi implements the OrderCatalogClient port against the
// wholesale order catalog's REST API. Unit identifiers arrive with embedded
// whitespace and quantities as strings or numbers; both are normalized here
// before any domain code sees them.
package catalogapi

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"tripledger/internal/core/domain/services"
	"tripledger/internal/core/ports"
	"tripledger/internal/pkg/errs"
)

const requestTimeout = 30 * time.Second

// Client is the HTTP implementation of ports.OrderCatalogClient.
type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
}

// NewClient creates an order catalog client.
func NewClient(baseURL, apiKey string) (*Client, error) {
	if baseURL == "" {
		return nil, errs.NewValueIsRequiredError("baseURL")
	}
	if apiKey == "" {
		return nil, errs.NewValueIsRequiredError("apiKey")
	}

	return &Client{
		httpClient: &http.Client{Timeout: requestTimeout},
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
	}, nil
}

// GetOrderDetail fetches the detail for one order reference.
func (c *Client) GetOrderDetail(ctx context.Context, orderRef string) (ports.OrderDetail, error) {
	if orderRef == "" {
		return ports.OrderDetail{}, errs.NewValueIsRequiredError("orderRef")
	}

	url := fmt.Sprintf("%s/orders/%s/", c.baseURL, orderRef)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return ports.OrderDetail{}, err
	}
	req.Header.Set("Authorization", "Token "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return ports.OrderDetail{}, fmt.Errorf("catalog order %s: %w", orderRef, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return ports.OrderDetail{}, fmt.Errorf("catalog order %s: %w", orderRef, ports.ErrOrderNotFound)
	}
	if resp.StatusCode != http.StatusOK {
		return ports.OrderDetail{}, fmt.Errorf("catalog order %s: unexpected status %d", orderRef, resp.StatusCode)
	}

	var wire orderResponse
	if err := json.NewDecoder(resp.Body).Decode(&wire); err != nil {
		return ports.OrderDetail{}, fmt.Errorf("catalog order %s: decode response: %w", orderRef, err)
	}

	return wire.toDetail(orderRef), nil
}

type orderResponse struct {
	DispensaryLocation struct {
		ID   json.Number `json:"id"`
		Name string      `json:"name"`

		Dispensary struct {
			Name string `json:"name"`
		} `json:"dispensary"`

		Address struct {
			StreetAddress1 string `json:"street_address_1"`
			City           string `json:"city"`
			State          string `json:"state"`
			PostalCode     string `json:"postal_code"`
		} `json:"address"`
	} `json:"dispensary_location"`

	Items []struct {
		ProductName string       `json:"product_name"`
		BatchRef    string       `json:"batch_ref"`
		Units       wireQuantity `json:"units"`
	} `json:"items"`
}

func (r *orderResponse) toDetail(orderRef string) ports.OrderDetail {
	detail := ports.OrderDetail{
		OrderRef:   orderRef,
		LocationID: r.DispensaryLocation.ID.String(),
		Address:    formatAddress(r),
	}

	dispensaryName := r.DispensaryLocation.Dispensary.Name
	locationName := r.DispensaryLocation.Name
	switch {
	case dispensaryName != "" && locationName != "":
		detail.LocationName = dispensaryName + " - " + locationName
	case dispensaryName != "":
		detail.LocationName = dispensaryName
	default:
		detail.LocationName = locationName
	}

	detail.LineItems = make([]services.LineItem, 0, len(r.Items))
	for _, item := range r.Items {
		detail.LineItems = append(detail.LineItems, services.LineItem{
			UnitID:   stripWhitespace(item.BatchRef),
			Quantity: float64(item.Units),
		})
	}
	return detail
}

func formatAddress(r *orderResponse) string {
	addr := r.DispensaryLocation.Address

	parts := make([]string, 0, 3)
	if addr.StreetAddress1 != "" {
		parts = append(parts, addr.StreetAddress1)
	}
	if addr.City != "" {
		parts = append(parts, addr.City)
	}
	region := strings.TrimSpace(addr.State + " " + addr.PostalCode)
	if region != "" {
		parts = append(parts, region)
	}
	return strings.Join(parts, ", ")
}

func stripWhitespace(s string) string {
	return strings.Join(strings.Fields(s), "")
}

// wireQuantity accepts a JSON number or numeric string; unparseable values
// decode to zero.
type wireQuantity float64

func (q *wireQuantity) UnmarshalJSON(data []byte) error {
	var f float64
	if err := json.Unmarshal(data, &f); err == nil {
		*q = wireQuantity(f)
		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("expected number or string, got %s", data)
	}

	var num json.Number = json.Number(strings.TrimSpace(s))
	parsed, err := num.Float64()
	if err != nil {
		*q = 0
		return nil
	}
	*q = wireQuantity(parsed)
	return nil
}
