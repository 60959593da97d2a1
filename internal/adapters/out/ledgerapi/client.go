// Package ledgerapi implements the LedgerClient port against the compliance
// ledger's action-based JSON API. Every call POSTs a single JSON document to
// one endpoint with an "action" discriminator; the provider signals outcome
// with a success flag rather than HTTP status codes, and encodes numbers and
// flags as strings or numbers interchangeably. The client normalizes all of
// that here so nothing above this package sees the wire quirks.
package ledgerapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"tripledger/internal/core/domain/model/kernel"
	"tripledger/internal/core/ports"
	"tripledger/internal/pkg/errs"
)

const (
	apiVersion     = "4.0"
	requestTimeout = 30 * time.Second

	actionLogin     = "login"
	actionInventory = "sync_inventory"
	actionSplit     = "inventory_split"
	actionMove      = "inventory_move"
	actionManifest  = "inventory_manifest"
)

// Client is the HTTP implementation of ports.LedgerClient.
type Client struct {
	httpClient *http.Client

	baseURL          string
	username         string
	password         string
	licenseNumber    string
	manifestLocation string
	training         bool
}

// NewClient creates a ledger client. manifestLocation is the sending
// license's location identifier stamped on every manifest. training routes
// all write actions to the provider's sandbox ledger.
func NewClient(
	baseURL string,
	username string,
	password string,
	licenseNumber string,
	manifestLocation string,
	training bool,
) (*Client, error) {
	if err := errors.Join(
		requireParam("baseURL", baseURL),
		requireParam("username", username),
		requireParam("password", password),
		requireParam("licenseNumber", licenseNumber),
		requireParam("manifestLocation", manifestLocation),
	); err != nil {
		return nil, err
	}

	return &Client{
		httpClient:       &http.Client{Timeout: requestTimeout},
		baseURL:          baseURL,
		username:         username,
		password:         password,
		licenseNumber:    licenseNumber,
		manifestLocation: manifestLocation,
		training:         training,
	}, nil
}

func requireParam(name, value string) error {
	if value == "" {
		return errs.NewValueIsRequiredError(name)
	}
	return nil
}

// Authenticate opens a ledger session.
func (c *Client) Authenticate(ctx context.Context) (ports.LedgerSession, error) {
	resp, err := c.post(ctx, map[string]any{
		"API":            apiVersion,
		"action":         actionLogin,
		"username":       c.username,
		"password":       c.password,
		"license_number": c.licenseNumber,
	})
	if err != nil {
		return "", fmt.Errorf("ledger login: %w", err)
	}

	if resp.SessionID == "" {
		if ledgerErr := resp.rejection(); ledgerErr != nil {
			return "", ledgerErr
		}
		return "", errors.New("ledger login response missing session id")
	}

	return ports.LedgerSession(resp.SessionID), nil
}

// SplitUnits submits one bulk split and returns the new unit identifiers.
func (c *Client) SplitUnits(
	ctx context.Context,
	session ports.LedgerSession,
	items []ports.SplitItem,
) ([]kernel.UnitID, error) {
	if len(items) == 0 {
		return nil, errs.NewValueIsRequiredError("items")
	}

	lines := make([]map[string]string, 0, len(items))
	for _, item := range items {
		lines = append(lines, map[string]string{
			"barcodeid":       item.UnitID.String(),
			"remove_quantity": strconv.FormatFloat(item.Quantity, 'f', 2, 64),
		})
	}

	resp, err := c.post(ctx, map[string]any{
		"API":       apiVersion,
		"action":    actionSplit,
		"sessionid": string(session),
		"data":      lines,
		"training":  c.trainingFlag(),
	})
	if err != nil {
		return nil, fmt.Errorf("ledger split: %w", err)
	}
	if ledgerErr := resp.rejection(); ledgerErr != nil {
		return nil, ledgerErr
	}

	ids, err := resp.unitIDList()
	if err != nil {
		return nil, fmt.Errorf("ledger split response: %w", err)
	}
	return ids, nil
}

// MoveUnits submits one bulk move of units into rooms.
func (c *Client) MoveUnits(
	ctx context.Context,
	session ports.LedgerSession,
	items []ports.MoveItem,
) error {
	if len(items) == 0 {
		return errs.NewValueIsRequiredError("items")
	}

	lines := make([]map[string]string, 0, len(items))
	for _, item := range items {
		lines = append(lines, map[string]string{
			"barcodeid": item.UnitID.String(),
			"room":      item.Room,
		})
	}

	resp, err := c.post(ctx, map[string]any{
		"API":       apiVersion,
		"action":    actionMove,
		"sessionid": string(session),
		"data":      lines,
		"training":  c.trainingFlag(),
	})
	if err != nil {
		return fmt.Errorf("ledger move: %w", err)
	}
	if ledgerErr := resp.rejection(); ledgerErr != nil {
		return ledgerErr
	}
	return nil
}

// FileManifest files the transport manifest for one stop and returns the
// ledger's manifest identifier.
func (c *Client) FileManifest(
	ctx context.Context,
	session ports.LedgerSession,
	req ports.ManifestRequest,
) (string, error) {
	if len(req.UnitIDs) == 0 {
		return "", errs.NewValueIsRequiredError("unitIDs")
	}

	unitIDs := make([]string, 0, len(req.UnitIDs))
	for _, id := range req.UnitIDs {
		unitIDs = append(unitIDs, id.String())
	}

	resp, err := c.post(ctx, map[string]any{
		"API":       apiVersion,
		"action":    actionManifest,
		"sessionid": string(session),
		"location":  c.manifestLocation,
		"stop_overview": map[string]any{
			"approximate_departure": strconv.FormatInt(req.DepartureUnix, 10),
			"approximate_arrival":   strconv.FormatInt(req.ArrivalUnix, 10),
			"approximate_route":     req.RouteText,
			"vendor_license":        req.VendorLicense,
			"stop_number":           strconv.Itoa(req.StopNumber),
			"barcodeid":             unitIDs,
		},
		"employee_id":   req.Driver1LedgerID,
		"employee_id_2": req.Driver2LedgerID,
		"vehicle_id":    req.VehicleLedgerID,
		"training":      c.trainingFlag(),
	})
	if err != nil {
		return "", fmt.Errorf("ledger manifest: %w", err)
	}
	if ledgerErr := resp.rejection(); ledgerErr != nil {
		return "", ledgerErr
	}

	manifestID, err := resp.manifestID()
	if err != nil {
		return "", fmt.Errorf("ledger manifest response: %w", err)
	}
	return manifestID, nil
}

// GetOnHandQuantities returns the on-hand quantity of every active
// inventory unit in one snapshot.
func (c *Client) GetOnHandQuantities(
	ctx context.Context,
	session ports.LedgerSession,
) (map[kernel.UnitID]float64, error) {
	resp, err := c.post(ctx, map[string]any{
		"API":       apiVersion,
		"action":    actionInventory,
		"sessionid": string(session),
		"active":    "1",
		"training":  c.trainingFlag(),
	})
	if err != nil {
		return nil, fmt.Errorf("ledger inventory: %w", err)
	}
	if ledgerErr := resp.rejection(); ledgerErr != nil {
		return nil, ledgerErr
	}

	quantities := make(map[kernel.UnitID]float64, len(resp.Inventory))
	for _, item := range resp.Inventory {
		id := strings.TrimSpace(item.ID)
		if id == "" {
			continue
		}
		quantities[kernel.UnitID(id)] = float64(item.RemainingQuantity)
	}
	return quantities, nil
}

func (c *Client) trainingFlag() string {
	if c.training {
		return "1"
	}
	return "0"
}

func (c *Client) post(ctx context.Context, payload map[string]any) (*envelope, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	return &env, nil
}
