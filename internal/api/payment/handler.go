package payment

import (
	"context"
	"errors"
	"scmsapi/internal/api"
	bookingutils "scmsapi/pkg/booking_utils"
	"scmsapi/pkg/schemas"
	"scmsapi/pkg/utils"
	"time"
)

type Handler struct {
	*api.Handler
}

var errIntentMismatch = errors.New("payment intent does not belong to this booking")

// record stores a succeeded intent and confirms its booking. The caller must
// hold the booking lock.
func (h *Handler) record(ctx context.Context, bookingId string, userEmail string, intent *utils.PaymentIntent) (*schemas.Payment, bool, error) {

	if !intent.Succeeded() {
		return nil, false, errors.New("payment intent has not succeeded: " + intent.Status)
	}
	if intent.Metadata["bookingId"] != bookingId {
		return nil, false, errIntentMismatch
	}

	return h.Store.Payments.Record(ctx, &schemas.Payment{
		BookingId:       bookingId,
		UserEmail:       userEmail,
		Price:           bookingutils.FromMinorUnits(intent.Amount),
		Status:          schemas.PaymentPaid,
		PaymentIntentId: intent.Id,
		CouponCode:      intent.Metadata["couponCode"],
		CreatedAt:       time.Now().UTC(),
	})

}
