package services

import (
	"tripledger/internal/core/domain/model/kernel"
)

// LineItem is one order line as reported by the order catalog: a candidate
// ledger unit identifier and the quantity required from it.
type LineItem struct {
	UnitID   string
	Quantity float64
}

// RequirementAggregator is a domain service that folds all stops' line items
// into a single inventory requirement map for the trip.
//
// Business rules:
//   - Only identifiers accepted by the ledger unit predicate participate;
//     non-conforming identifiers are excluded and counted, never an error
//     by themselves.
//   - Quantities for the same unit are summed across stops, not
//     overwritten: two stops drawing on the same physical unit must jointly
//     stay within on-hand quantity.
//
// Example usage:
//
//	aggregator := NewRequirementAggregator()
//	requirements, dropped := aggregator.Aggregate(allLineItems)
//	for unitID, required := range requirements {
//	    // compare against the on-hand snapshot
//	}
type RequirementAggregator struct{}

// NewRequirementAggregator creates a new RequirementAggregator instance.
func NewRequirementAggregator() RequirementAggregator {
	return RequirementAggregator{}
}

// Aggregate builds the unit-to-total-required-quantity map across all line
// items of all stops. Returns the map and the count of line items dropped
// for carrying a non-conforming unit identifier.
func (RequirementAggregator) Aggregate(items []LineItem) (map[kernel.UnitID]float64, int) {
	requirements := make(map[kernel.UnitID]float64)
	dropped := 0

	for _, item := range items {
		if !kernel.IsValidUnitID(item.UnitID) {
			if item.UnitID != "" {
				dropped++
			}
			continue
		}
		requirements[kernel.UnitID(item.UnitID)] += item.Quantity
	}

	return requirements, dropped
}

// FilterAddressable returns the line items whose unit identifiers the
// ledger can address, preserving order. The validator and the stop
// processor both use this filter so they always agree on which items
// execution will submit.
func (RequirementAggregator) FilterAddressable(items []LineItem) []LineItem {
	addressable := make([]LineItem, 0, len(items))
	for _, item := range items {
		if kernel.IsValidUnitID(item.UnitID) {
			addressable = append(addressable, item)
		}
	}
	return addressable
}
