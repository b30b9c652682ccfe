// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package stark

import "github.com/luxfi/uzkv/internal/field"

// traceLookup resolves a TraceOffset to a field element. It is the single
// indirection that lets evaluateConstraint run unchanged whether the
// backing values come from ood_trace_evals (at the out-of-domain point) or
// from a query's authenticated trace rows (at a domain position) — the AIR
// evaluator itself never knows which.
type traceLookup func(offset TraceOffset) (field.Fr, bool)

// evaluateConstraint computes Σⱼ coefficients[j]·cell[j]^powers[j] for one
// AirConstraint, where cell[j] is resolved via lookup. This flat weighted
// power sum (not a nested product) is the reading the VK schema's
// parallel, identically-indexed coefficients/offsets/powers arrays commit
// to: each index j names one term, not one factor of a larger product.
func evaluateConstraint(c AirConstraint, lookup traceLookup) (field.Fr, bool) {
	acc := field.FrZero()
	for j := range c.Coefficients {
		cell, ok := lookup(c.Offsets[j])
		if !ok {
			return field.Fr{}, false
		}
		term := c.Coefficients[j].Mul(cell.Pow(uint64(c.Powers[j])))
		acc = acc.Add(term)
	}
	return acc, true
}

// composeConstraints folds every constraint in vk into the single
// composition value the prover committed to (constraint_commitment and
// ood_constraint_eval are both singular, spec §4.8), weighting each
// constraint by a transcript-derived challenge so the composition binds
// all constraints simultaneously rather than checking each independently.
//
// A constraint contributes only when selectorActive reports its Selector
// as active. Both callers (verifyDeepConsistency at the out-of-domain
// point and verifyQuery at each query position) pass alwaysActive, so
// every constraint contributes everywhere: a constraint's Selector is
// parsed from the VK but does not restrict which rows it is checked on.
func composeConstraints(constraints []AirConstraint, challenges []field.Fr, lookup traceLookup, selectorActive func(DomainSelector) bool) (field.Fr, bool) {
	acc := field.FrZero()
	for i, c := range constraints {
		if !selectorActive(c.Selector) {
			continue
		}
		val, ok := evaluateConstraint(c, lookup)
		if !ok {
			return field.Fr{}, false
		}
		acc = acc.Add(challenges[i].Mul(val))
	}
	return acc, true
}

// alwaysActive treats every selector as in-scope. It is the selector
// oracle for both the out-of-domain DEEP check and the per-query
// composition check.
func alwaysActive(DomainSelector) bool { return true }
