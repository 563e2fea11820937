// Package order implements the group-buy order aggregate.
//
// An Order pools purchases from one producer across many participants,
// organized by a sharer. The aggregate owns:
//   - the lifecycle Status state machine with role-based transition authority
//   - sharer-configured Settings (weight thresholds, take rate, logistics fee,
//     delivery option, approval and visibility flags)
//   - the DeliveryOption tagged union (producer pickup, producer delivery,
//     refrigerated carrier)
//   - the static PickupSlot configuration referenced by participants
//   - the effective-weight snapshot used for pricing, monotonic
//     non-decreasing once the order is locked
//   - the once-only platform commission invoice marker set on distribution
//
// Orders can only be created through NewOrder or RestoreOrder, which enforce
// all construction invariants.
package order
