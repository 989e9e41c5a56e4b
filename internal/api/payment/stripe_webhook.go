package payment

import (
	"errors"
	"io"
	"net/http"
	"scmsapi/internal/api"
	"scmsapi/internal/store"
	"scmsapi/pkg/utils"

	"go.uber.org/zap"
)

// StripeWebhook confirms bookings for intents that succeeded even when the
// client never called RecordPayment.
func (h *Handler) StripeWebhook(w http.ResponseWriter, r *http.Request) {

	defer r.Body.Close()
	ctx := r.Context()
	resParams := &api.ResParams{W: w, R: r}

	payload, err := io.ReadAll(r.Body)
	if err != nil {
		resParams.Code = http.StatusBadRequest
		resParams.Err = err
		h.Res(resParams)
		return
	}

	event, err := h.Payments.ParseEvent(payload, r.Header.Get("Stripe-Signature"))
	if err != nil {
		resParams.Code = http.StatusUnauthorized
		resParams.Err = err
		h.Res(resParams)
		return
	}

	switch event.Type {

	case utils.EventPaymentIntentSucceeded:
		intent := event.Intent
		bookingId := intent.Metadata["bookingId"]
		if bookingId == "" {
			// not one of ours
			break
		}
		resParams.ReqData = bookingId

		unlock, err := h.Locker.Lock(ctx, bookingId)
		if errors.Is(err, utils.ErrBookingLocked) {
			// stripe retries
			resParams.Code = http.StatusTooManyRequests
			resParams.Err = err
			h.Res(resParams)
			return
		} else if err != nil {
			resParams.Code = http.StatusInternalServerError
			resParams.Err = err
			h.Res(resParams)
			return
		}
		defer h.Release(bookingId, unlock)

		_, created, err := h.record(ctx, bookingId, intent.Metadata["userEmail"], intent)
		if errors.Is(err, store.ErrNotFound) {
			// booking was cancelled after paying, nothing to confirm
			h.Logger.Warn("paid booking no longer exists",
				zap.String("booking_id", bookingId),
				zap.String("payment_intent", intent.Id),
			)
		} else if err != nil {
			resParams.Code = http.StatusInternalServerError
			resParams.Err = err
			h.Res(resParams)
			return
		} else if created {
			h.Logger.Info("payment recorded from webhook",
				zap.String("booking_id", bookingId),
				zap.String("payment_intent", intent.Id),
			)
		}

	}

	resParams.Code = http.StatusOK
	h.Res(resParams)

}
