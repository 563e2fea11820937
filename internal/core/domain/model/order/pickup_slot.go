package order

import (
	"fmt"
	"time"

	"groupbuy/internal/core/domain/model/kernel"
	"groupbuy/internal/pkg/errs"
)

// minimumNotice is how far in the future a same-day slot must start.
const minimumNotice = 30 * time.Minute

// noticeRounding is the boundary the notice cutoff is rounded up to.
const noticeRounding = 15 * time.Minute

// PickupSlot is a bookable day/time window for post-delivery retrieval.
// Slots are static sharer-configured data; they have no fixed capacity and
// any number of participants may share one. Reservation counts are always
// recomputed from participant rows, never pre-decremented.
type PickupSlot struct {
	id kernel.UUID

	// Exactly one of weekday and date is set: recurring slots carry a
	// weekday, one-off slots carry an explicit calendar date.
	weekday *time.Weekday
	date    *time.Time

	// startMinute and endMinute are minutes from midnight.
	startMinute int
	endMinute   int

	enabled  bool
	position int

	guard kernel.ConstructorGuard
}

// NewWeeklyPickupSlot creates a recurring slot on a weekday.
func NewWeeklyPickupSlot(id kernel.UUID, weekday time.Weekday, startMinute, endMinute, position int) (PickupSlot, error) {
	slot := PickupSlot{
		id:       id,
		weekday:  &weekday,
		enabled:  true,
		position: position,
		guard:    kernel.NewConstructorGuard(),
	}
	if err := slot.setWindow(startMinute, endMinute); err != nil {
		return PickupSlot{}, err
	}
	if err := id.Validate(); err != nil {
		return PickupSlot{}, err
	}
	return slot, nil
}

// NewDatedPickupSlot creates a one-off slot on an explicit date.
func NewDatedPickupSlot(id kernel.UUID, date time.Time, startMinute, endMinute, position int) (PickupSlot, error) {
	day := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())
	slot := PickupSlot{
		id:       id,
		date:     &day,
		enabled:  true,
		position: position,
		guard:    kernel.NewConstructorGuard(),
	}
	if err := slot.setWindow(startMinute, endMinute); err != nil {
		return PickupSlot{}, err
	}
	if err := id.Validate(); err != nil {
		return PickupSlot{}, err
	}
	return slot, nil
}

// RestorePickupSlot reconstructs a slot from persistence.
func RestorePickupSlot(
	id kernel.UUID,
	weekday *time.Weekday,
	date *time.Time,
	startMinute, endMinute, position int,
	enabled bool,
) (PickupSlot, error) {
	var slot PickupSlot
	var err error
	switch {
	case weekday != nil:
		slot, err = NewWeeklyPickupSlot(id, *weekday, startMinute, endMinute, position)
	case date != nil:
		slot, err = NewDatedPickupSlot(id, *date, startMinute, endMinute, position)
	default:
		return PickupSlot{}, errs.NewValueIsRequiredError("pickup slot day")
	}
	if err != nil {
		return PickupSlot{}, err
	}
	slot.enabled = enabled
	return slot, nil
}

func (s *PickupSlot) setWindow(startMinute, endMinute int) error {
	if startMinute < 0 || startMinute >= 24*60 {
		return errs.NewValueIsOutOfRangeError("slot start", startMinute, 0, 24*60-1)
	}
	if endMinute <= startMinute || endMinute > 24*60 {
		return errs.NewValueIsInvalidErrorWithCause("slot end",
			fmt.Errorf("%d does not follow start %d", endMinute, startMinute))
	}
	s.startMinute = startMinute
	s.endMinute = endMinute
	return nil
}

// Validate ensures the slot was created through a constructor.
func (s PickupSlot) Validate() error {
	return s.guard.Validate(errs.NewValueIsRequiredError("pickup slot"))
}

// ID returns the slot identifier.
func (s PickupSlot) ID() kernel.UUID { return s.id }

// Weekday returns the recurring weekday, or nil for dated slots.
func (s PickupSlot) Weekday() *time.Weekday { return s.weekday }

// Date returns the explicit date, or nil for weekly slots.
func (s PickupSlot) Date() *time.Time { return s.date }

// StartMinute returns the window start in minutes from midnight.
func (s PickupSlot) StartMinute() int { return s.startMinute }

// EndMinute returns the window end in minutes from midnight.
func (s PickupSlot) EndMinute() int { return s.endMinute }

// Enabled reports whether the slot is bookable at all.
func (s PickupSlot) Enabled() bool { return s.enabled }

// Position returns the sharer-configured display ordering.
func (s PickupSlot) Position() int { return s.position }

// Disable marks the slot as not bookable. Existing reservations stay.
func (s *PickupSlot) Disable() { s.enabled = false }

// Enable marks the slot as bookable again.
func (s *PickupSlot) Enable() { s.enabled = true }

// OccursOn reports whether the slot takes place on the given calendar day.
func (s PickupSlot) OccursOn(day time.Time) bool {
	if s.date != nil {
		y1, m1, d1 := s.date.Date()
		y2, m2, d2 := day.Date()
		return y1 == y2 && m1 == m2 && d1 == d2
	}
	if s.weekday != nil {
		return *s.weekday == day.Weekday()
	}
	return false
}

// StartOn returns the slot's opening instant on the given calendar day.
func (s PickupSlot) StartOn(day time.Time) time.Time {
	y, m, d := day.Date()
	return time.Date(y, m, d, 0, s.startMinute, 0, 0, day.Location())
}

// ValidateBookable checks that the slot can be reserved for the requested
// calendar day as seen at "now". Validation against a client-held snapshot
// is repeated at commit time against the latest state, so this function must
// stay pure over its inputs.
//
// Rules:
//   - the slot must be enabled and occur on the requested day
//   - the requested day must not be before today
//   - for same-day requests the slot must start no earlier than now plus
//     30 minutes, rounded up to the next 15-minute boundary
func (s PickupSlot) ValidateBookable(requestedDay, now time.Time) error {
	if !s.enabled {
		return errs.NewConflictError("select pickup slot", "slot is disabled")
	}
	if !s.OccursOn(requestedDay) {
		return errs.NewConflictError("select pickup slot",
			fmt.Sprintf("slot does not occur on %s", requestedDay.Format("2006-01-02")))
	}

	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	day := time.Date(requestedDay.Year(), requestedDay.Month(), requestedDay.Day(), 0, 0, 0, 0, now.Location())

	if day.Before(today) {
		return errs.NewValueIsInvalidErrorWithCause("pickup day",
			fmt.Errorf("%s is before today", day.Format("2006-01-02")))
	}

	if day.Equal(today) {
		cutoff := roundUpTo(now.Add(minimumNotice), noticeRounding)
		if s.StartOn(day).Before(cutoff) {
			return errs.NewValueIsInvalidErrorWithCause("pickup time",
				fmt.Errorf("slot starts before the %s notice cutoff", cutoff.Format("15:04")))
		}
	}

	return nil
}

// roundUpTo rounds t up to the next multiple of d. Instants already on a
// boundary are unchanged.
func roundUpTo(t time.Time, d time.Duration) time.Time {
	rounded := t.Truncate(d)
	if rounded.Equal(t) {
		return t
	}
	return rounded.Add(d)
}
