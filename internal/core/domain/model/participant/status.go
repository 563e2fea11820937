package participant

import (
	"fmt"

	"groupbuy/internal/pkg/errs"
)

// ParticipationStatus is the participation sub-machine:
//
//	Requested ──> Accepted | Rejected
//
// With auto-approval enabled on the order, new participants are created
// directly as Accepted.
type ParticipationStatus int

const (
	// ParticipationUnknown represents an invalid or undefined status.
	ParticipationUnknown ParticipationStatus = iota

	// ParticipationRequested awaits the sharer's review.
	ParticipationRequested

	// ParticipationAccepted allows purchasing and slot selection.
	ParticipationAccepted

	// ParticipationRejected is terminal for this request.
	ParticipationRejected
)

// Validate checks if the ParticipationStatus value is valid.
func (s ParticipationStatus) Validate() error {
	if s < ParticipationRequested || s > ParticipationRejected {
		return errs.NewValueIsInvalidErrorWithCause("participationStatus",
			fmt.Errorf("%d is not a valid participation status", s))
	}
	return nil
}

// String returns the human-readable name of the status.
func (s ParticipationStatus) String() string {
	switch s {
	case ParticipationRequested:
		return "Requested"
	case ParticipationAccepted:
		return "Accepted"
	case ParticipationRejected:
		return "Rejected"
	default:
		return "Unknown"
	}
}

// Review resolves a requested participation.
// Only Requested may be reviewed; Accepted and Rejected are terminal.
func (s ParticipationStatus) Review(approve bool) (ParticipationStatus, error) {
	if s != ParticipationRequested {
		return 0, errs.NewConflictError("review participation",
			fmt.Sprintf("%s participation cannot be reviewed", s))
	}
	if approve {
		return ParticipationAccepted, nil
	}
	return ParticipationRejected, nil
}

// PickupStatus is the pickup-slot sub-machine, independent per participant:
//
//	None ──> Requested ──> Accepted | Rejected
//
// With auto-approval enabled on the order, selection transitions directly
// to Accepted. Selecting a new slot releases the previous one, so every
// state may move back through a fresh selection.
type PickupStatus int

const (
	// PickupNone means no slot has been selected.
	PickupNone PickupStatus = iota

	// PickupRequested awaits the sharer's review.
	PickupRequested

	// PickupAccepted confirms the retrieval window.
	PickupAccepted

	// PickupRejected means the last selection was declined.
	PickupRejected
)

// String returns the human-readable name of the status.
func (s PickupStatus) String() string {
	switch s {
	case PickupNone:
		return "None"
	case PickupRequested:
		return "Requested"
	case PickupAccepted:
		return "Accepted"
	case PickupRejected:
		return "Rejected"
	default:
		return "Unknown"
	}
}

// Review resolves a requested slot selection.
func (s PickupStatus) Review(approve bool) (PickupStatus, error) {
	if s != PickupRequested {
		return 0, errs.NewConflictError("review pickup slot",
			fmt.Sprintf("%s slot selection cannot be reviewed", s))
	}
	if approve {
		return PickupAccepted, nil
	}
	return PickupRejected, nil
}
