package ports

import (
	"context"
	"errors"

	"tripledger/internal/core/domain/services"
)

// ErrOrderNotFound is returned when the order catalog has no detail for an
// order reference. During execution this is the critical per-stop failure:
// a stop the system could not even evaluate.
var ErrOrderNotFound = errors.New("order not found in catalog")

// OrderDetail is the catalog's view of one wholesale order, normalized at
// the client boundary: unit identifiers are whitespace-stripped, quantities
// are float64.
type OrderDetail struct {
	OrderRef     string
	LocationID   string
	LocationName string
	Address      string
	LineItems    []services.LineItem
}

// OrderCatalogClient is the contract with the external wholesale order
// catalog.
type OrderCatalogClient interface {
	// GetOrderDetail fetches the detail for one order reference.
	// Returns ErrOrderNotFound when the catalog does not know the order.
	GetOrderDetail(ctx context.Context, orderRef string) (OrderDetail, error)
}
