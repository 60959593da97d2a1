// Package services provides domain services for logic that spans multiple
// aggregates in the trip execution workflow.
//
// The package includes:
//   - RequirementAggregator: folds all stops' line items into a per-unit
//     inventory requirement map, filtered through the ledger unit predicate
//   - TripOutcomeReducer: reduces all stops' terminal outcomes into one
//     trip-level verdict
//
// Both services are pure: they take values and return values, leaving all
// persistence and external calls to the application layer.
package services
