package bookingutils

import (
	"errors"
	"fmt"
	"scmsapi/pkg/schemas"
)

var ErrInvalidTransition = errors.New("invalid booking status transition")

// admin transitions only, confirmation is driven by payment recording
var adminTransitions = map[string][]string{
	schemas.BookingPending: {schemas.BookingApproved, schemas.BookingRejected},
}

func CanTransition(from string, to string) bool {
	for _, s := range adminTransitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

func CheckTransition(from string, to string) error {
	if !CanTransition(from, to) {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, from, to)
	}
	return nil
}

func IsTerminal(status string) bool {
	return status == schemas.BookingConfirmed || status == schemas.BookingRejected
}
