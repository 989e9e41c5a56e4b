package bookingutils

import (
	"testing"

	"scmsapi/pkg/schemas"

	"github.com/stretchr/testify/assert"
)

func TestCheckTransition(t *testing.T) {
	all := []string{schemas.BookingPending, schemas.BookingApproved, schemas.BookingRejected, schemas.BookingConfirmed}
	allowed := map[[2]string]bool{
		{schemas.BookingPending, schemas.BookingApproved}: true,
		{schemas.BookingPending, schemas.BookingRejected}: true,
	}

	for _, from := range all {
		for _, to := range all {
			err := CheckTransition(from, to)
			if allowed[[2]string{from, to}] {
				assert.NoError(t, err, "%s -> %s", from, to)
			} else {
				assert.ErrorIs(t, err, ErrInvalidTransition, "%s -> %s", from, to)
			}
		}
	}
}

func TestIsTerminal(t *testing.T) {
	assert.True(t, IsTerminal(schemas.BookingConfirmed))
	assert.True(t, IsTerminal(schemas.BookingRejected))
	assert.False(t, IsTerminal(schemas.BookingPending))
	assert.False(t, IsTerminal(schemas.BookingApproved))
}
