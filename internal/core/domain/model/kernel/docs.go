// Package kernel contains shared value objects used across all domain
// aggregates.
//
// UUID identifies trips, stops, drivers and vehicles. UnitID is the
// compliance ledger's 16-digit handle for a physical inventory unit; its
// predicate IsValidUnitID is the single source of truth for which line
// items the ledger can address.
//
// All kernel types are immutable value objects constructed through factory
// functions that enforce their invariants.
package kernel
