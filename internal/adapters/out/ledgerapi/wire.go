package ledgerapi

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"tripledger/internal/core/domain/model/kernel"
	"tripledger/internal/core/ports"
)

// wireString accepts a JSON string or number and holds it as a string. The
// provider flips between the two encodings for flags and codes.
type wireString string

func (s *wireString) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err == nil {
		*s = wireString(str)
		return nil
	}

	var num json.Number
	if err := json.Unmarshal(data, &num); err != nil {
		return fmt.Errorf("expected string or number, got %s", data)
	}
	*s = wireString(num.String())
	return nil
}

// wireNumber accepts a JSON number or numeric string. Unparseable values
// decode to zero; the provider ships blank quantities for retired units.
type wireNumber float64

func (n *wireNumber) UnmarshalJSON(data []byte) error {
	var f float64
	if err := json.Unmarshal(data, &f); err == nil {
		*n = wireNumber(f)
		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("expected number or string, got %s", data)
	}

	parsed, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		*n = 0
		return nil
	}
	*n = wireNumber(parsed)
	return nil
}

type inventoryItem struct {
	ID                string     `json:"id"`
	ProductName       string     `json:"productname"`
	RemainingQuantity wireNumber `json:"remaining_quantity"`
	CurrentRoom       string     `json:"currentroom"`
}

// envelope is the shared response shape of every ledger action. barcode_id
// is a list of new unit ids on splits and a single manifest id string on
// manifests, so it stays raw until the caller knows which.
type envelope struct {
	Success   wireString      `json:"success"`
	Error     string          `json:"error"`
	ErrorCode wireString      `json:"errorcode"`
	SessionID string          `json:"sessionid"`
	BarcodeID json.RawMessage `json:"barcode_id"`
	Inventory []inventoryItem `json:"inventory"`
}

// rejection converts a non-success envelope into a *ports.LedgerError.
// Returns nil when the envelope reports success.
func (e *envelope) rejection() error {
	if e.Success == "1" {
		return nil
	}

	code := string(e.ErrorCode)
	if code == "" {
		code = "unknown"
	}
	message := e.Error
	if message == "" {
		message = "unknown ledger error"
	}
	return &ports.LedgerError{Code: code, Message: message}
}

func (e *envelope) unitIDList() ([]kernel.UnitID, error) {
	if len(e.BarcodeID) == 0 {
		return nil, nil
	}

	var raw []string
	if err := json.Unmarshal(e.BarcodeID, &raw); err != nil {
		return nil, fmt.Errorf("barcode_id is not a list: %w", err)
	}

	ids := make([]kernel.UnitID, 0, len(raw))
	for _, id := range raw {
		trimmed := strings.TrimSpace(id)
		if trimmed == "" {
			continue
		}
		ids = append(ids, kernel.UnitID(trimmed))
	}
	return ids, nil
}

func (e *envelope) manifestID() (string, error) {
	if len(e.BarcodeID) == 0 {
		return "", fmt.Errorf("barcode_id missing from response")
	}

	var id string
	if err := json.Unmarshal(e.BarcodeID, &id); err != nil {
		return "", fmt.Errorf("barcode_id is not a string: %w", err)
	}
	return strings.TrimSpace(id), nil
}
