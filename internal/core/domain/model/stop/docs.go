// Package stop contains the Stop aggregate: one order's association with a
// trip, bound to a sequence position and driven through the three-step
// ledger saga (split, move, manifest) with a checkpointed status after each
// step.
package stop
