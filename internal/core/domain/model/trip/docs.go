// Package trip contains the Trip aggregate: one planned delivery run with
// two drivers, a vehicle, an ordered set of stops and a write-once cached
// route plan.
//
// Trip carries two orthogonal state machines. Status expresses the business
// disposition of the shipment (pending, validated, partially_completed,
// completed); ExecutionStatus expresses job processing (pending, processing,
// completed, failed). A failed execution attempt changes only the latter,
// keeping the trip eligible for re-execution.
package trip
