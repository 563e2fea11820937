// Package participant implements the participant aggregate of a group-buy
// order: the buyer's participation request, their purchased item lines, and
// their pickup-slot reservation.
//
// Derived totals (weight, amount, quantities) are never stored; they are
// recomputed as pure functions of the item lines so that interleaved writers
// can always be reconciled from source rows.
package participant
