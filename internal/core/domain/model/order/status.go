package order

import (
	"fmt"

	"groupbuy/internal/pkg/errs"
)

// Role identifies who is attempting an order-level operation.
// Transition authority is role-based: the sharer drives the commercial
// lifecycle, the producer drives fulfilment, participants never change
// order status.
type Role int

const (
	// RoleUnknown represents an invalid or undefined role.
	RoleUnknown Role = iota

	// RoleSharer is the organizer who aggregates participant demand.
	RoleSharer

	// RoleProducer is the seller fulfilling the pooled order.
	RoleProducer

	// RoleParticipant is an individual buying a portion of the order.
	RoleParticipant
)

// String returns the human-readable name of the role.
func (r Role) String() string {
	switch r {
	case RoleSharer:
		return "Sharer"
	case RoleProducer:
		return "Producer"
	case RoleParticipant:
		return "Participant"
	default:
		return "Unknown"
	}
}

// Status represents the lifecycle state of a group-buy order.
// It implements a state machine with defined transitions and per-transition
// authority to ensure orders follow the correct business workflow.
//
// State transitions:
//
//	Draft ──> Open ──> Locked ──> Confirmed ──> Preparing ──> Prepared
//	                                                              │
//	          Finished <── Distributed <── Delivered <────────────┘
//
// Cancelled is reachable from every non-finished state.
// The sharer drives Draft→Open, Open→Locked, Prepared→Delivered,
// Delivered→Distributed and Distributed→Finished; the producer drives
// Locked→Confirmed, Confirmed→Preparing and Preparing→Prepared.
type Status int

const (
	// Unknown represents an invalid or undefined status.
	// This value (0) helps catch uninitialized Status values.
	Unknown Status = iota

	// Draft is the initial status while the sharer configures the order.
	Draft

	// Open accepts participation requests and purchases.
	Open

	// Locked freezes participant items; the effective weight snapshot is taken.
	Locked

	// Confirmed means the producer has accepted the locked order.
	Confirmed

	// Preparing means the producer is assembling the order.
	Preparing

	// Prepared means the order is ready for handover.
	Prepared

	// Delivered means the sharer has received the goods; pickup slots
	// become selectable from here on.
	Delivered

	// Distributed means participants have retrieved their shares; entering
	// this state triggers the platform commission invoice exactly once.
	Distributed

	// Finished is the terminal success state.
	Finished

	// Cancelled is the terminal abort state, reachable from any
	// non-finished state.
	Cancelled
)

// getStatusStrings returns a map of Status values to their string representations.
func getStatusStrings() map[Status]string {
	return map[Status]string{
		Unknown:     "Unknown",
		Draft:       "Draft",
		Open:        "Open",
		Locked:      "Locked",
		Confirmed:   "Confirmed",
		Preparing:   "Preparing",
		Prepared:    "Prepared",
		Delivered:   "Delivered",
		Distributed: "Distributed",
		Finished:    "Finished",
		Cancelled:   "Cancelled",
	}
}

// transitionAuthority declares the adjacency graph together with the role
// allowed to drive each edge. Cancellation is handled separately because it
// is reachable from every non-terminal state.
func transitionAuthority() map[Status]map[Status]Role {
	return map[Status]map[Status]Role{
		Draft:       {Open: RoleSharer},
		Open:        {Locked: RoleSharer},
		Locked:      {Confirmed: RoleProducer},
		Confirmed:   {Preparing: RoleProducer},
		Preparing:   {Prepared: RoleProducer},
		Prepared:    {Delivered: RoleSharer},
		Delivered:   {Distributed: RoleSharer},
		Distributed: {Finished: RoleSharer},
	}
}

// Validate checks if the Status value is valid.
// Unknown (0) and out-of-range values are invalid.
func (s Status) Validate() error {
	if s <= Unknown || s > Cancelled {
		return errs.NewValueIsInvalidErrorWithCause("status", fmt.Errorf("%d is not a valid status", s))
	}
	return nil
}

// String returns the human-readable name of the status.
// Implements fmt.Stringer and is safe on any Status value.
func (s Status) String() string {
	if str, ok := getStatusStrings()[s]; ok {
		return str
	}
	return "Unknown"
}

// IsTerminal reports whether no further transitions are possible.
func (s Status) IsTerminal() bool {
	return s == Finished || s == Cancelled
}

// AtLeast reports whether the status has reached the given lifecycle stage.
// The forward chain is totally ordered, so integer comparison is valid for
// non-cancelled statuses.
func (s Status) AtLeast(stage Status) bool {
	if s == Cancelled {
		return false
	}
	return s >= stage
}

// TransitionTo returns the target status if the transition is declared in
// the adjacency graph and the actor holds the authority for that edge.
//
// Returns:
//   - (target, nil) on a valid transition
//   - (0, error) if the edge does not exist or the actor lacks authority
func (s Status) TransitionTo(target Status, by Role) (Status, error) {
	if err := target.Validate(); err != nil {
		return 0, err
	}

	if target == Cancelled {
		return s.cancel(by)
	}

	edges, ok := transitionAuthority()[s]
	if !ok {
		return 0, errs.NewConflictError(
			"transition",
			fmt.Sprintf("%s allows no further transitions", s),
		)
	}

	role, ok := edges[target]
	if !ok {
		return 0, errs.NewConflictError(
			"transition",
			fmt.Sprintf("%s cannot move to %s", s, target),
		)
	}

	if role != by {
		return 0, errs.NewConflictError(
			"transition",
			fmt.Sprintf("%s to %s is driven by the %s, not the %s", s, target, role, by),
		)
	}

	return target, nil
}

// cancel transitions to Cancelled. Any non-terminal state may be cancelled
// by the sharer.
func (s Status) cancel(by Role) (Status, error) {
	if s.IsTerminal() {
		return 0, errs.NewConflictError(
			"cancel",
			fmt.Sprintf("%s order cannot be cancelled", s),
		)
	}
	if by != RoleSharer {
		return 0, errs.NewConflictError(
			"cancel",
			fmt.Sprintf("cancellation is driven by the sharer, not the %s", by),
		)
	}
	return Cancelled, nil
}
