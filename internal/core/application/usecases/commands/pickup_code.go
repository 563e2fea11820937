package commands

import (
	"context"
	"crypto/rand"
	"time"

	"groupbuy/internal/core/domain/model/kernel"
	"groupbuy/internal/core/ports"
)

// pickupCodeAlphabet avoids 0/O, 1/I/L ambiguity: the code is read out loud
// at the pickup point.
const pickupCodeAlphabet = "23456789ABCDEFGHJKMNPQRSTUVWXYZ"

const pickupCodeLength = 6

func newPickupCode() (string, error) {
	buf := make([]byte, pickupCodeLength)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	for i, b := range buf {
		buf[i] = pickupCodeAlphabet[int(b)%len(pickupCodeAlphabet)]
	}
	return string(buf), nil
}

// ensurePickupCode issues a pickup code to a participant whose payment just
// reached a collected state. A row that already carries a code keeps it, so
// confirmation sweeps and purchase confirmations can both call this without
// coordination.
func ensurePickupCode(ctx context.Context, repo ports.ParticipantRepository, participantID kernel.UUID, now time.Time) error {
	row, err := repo.Get(ctx, participantID)
	if err != nil {
		return err
	}
	if row.PickupCode() != "" {
		return nil
	}

	code, err := newPickupCode()
	if err != nil {
		return err
	}
	if err = row.IssuePickupCode(code, now); err != nil {
		return err
	}
	return repo.Update(ctx, row)
}
