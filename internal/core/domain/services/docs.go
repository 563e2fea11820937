// Package services contains domain services: pricing and settlement logic
// that spans the order, participant and payment aggregates.
//
// Both calculators are pure. All money arithmetic runs in decimals and is
// rounded to whole cents exactly once per derived figure, so recomputation
// from the same rows is always byte-stable.
package services
