package bookingutils

import (
	"strings"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidators(t *testing.T) {
	v := NewValidator()

	type req struct {
		Name   string `json:"name" validate:"omitempty,maxgraphemes=3"`
		Status string `json:"status" validate:"omitempty,bookingstatus"`
		Code   string `json:"code" validate:"omitempty,couponcode"`
		Role   string `json:"role" validate:"omitempty,role"`
	}

	tests := []struct {
		name  string
		in    req
		field string // empty when valid
	}{
		{"valid", req{Name: "abc", Status: "approved", Code: "SAVE_20", Role: "member"}, ""},
		{"graphemes not bytes", req{Name: "👍🏽👍🏽👍🏽"}, ""},
		{"too many graphemes", req{Name: "abcd"}, "name"},
		{"confirmed is not an admin status", req{Status: "confirmed"}, "status"},
		{"coupon with spaces", req{Code: "SAVE 20"}, "code"},
		{"coupon too long", req{Code: strings.Repeat("A", 33)}, "code"},
		{"unknown role", req{Role: "owner"}, "role"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.Struct(&tt.in)
			if tt.field == "" {
				assert.NoError(t, err)
				return
			}
			var verrs validator.ValidationErrors
			require.ErrorAs(t, err, &verrs)
			assert.Equal(t, tt.field, verrs[0].Field())
		})
	}
}
