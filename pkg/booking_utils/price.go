package bookingutils

import (
	"errors"
	"math"
	"scmsapi/pkg/schemas"
)

var ErrInvalidFinalPrice = errors.New("invalid final price")

// FinalPrice applies a percentage coupon to a booking price. A nil coupon or a
// coupon without a positive discount leaves the price unchanged.
func FinalPrice(price float64, coupon *schemas.Coupon) float64 {
	if coupon == nil || coupon.DiscountAmount <= 0 {
		return price
	}
	return price - price*coupon.DiscountAmount/100
}

// ToMinorUnits converts a price to the processor's integer cents, rounding down.
func ToMinorUnits(price float64) (int64, error) {
	if math.IsNaN(price) || price <= 0 {
		return 0, ErrInvalidFinalPrice
	}
	// epsilon keeps 80.1 at 8010 instead of 8009.999...
	amount := int64(math.Floor(price*100 + 1e-6))
	if amount <= 0 {
		return 0, ErrInvalidFinalPrice
	}
	return amount, nil
}

func FromMinorUnits(amount int64) float64 {
	return float64(amount) / 100
}
