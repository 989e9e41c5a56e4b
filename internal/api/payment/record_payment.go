package payment

import (
	"errors"
	"net/http"
	"scmsapi/internal/api"
	"scmsapi/pkg/utils"
)

// RecordPayment records a payment the client completed with Stripe. The intent
// is fetched from Stripe so only real charges confirm a booking.
func (h *Handler) RecordPayment(w http.ResponseWriter, r *http.Request) {

	defer r.Body.Close()
	ctx := r.Context()
	resParams := &api.ResParams{W: w, R: r}

	var reqData struct {
		BookingId       string `json:"bookingId" validate:"required"`
		PaymentIntentId string `json:"paymentIntentId" validate:"required"`
	}
	if err := h.Bind(r, &reqData); err != nil {
		resParams.Code = http.StatusBadRequest
		resParams.Err = err
		h.Res(resParams)
		return
	}
	resParams.ReqData = reqData

	booking, err := h.Store.Bookings.FindById(ctx, reqData.BookingId)
	if err != nil {
		api.StoreErr(resParams, err, "booking")
		h.Res(resParams)
		return
	}

	capability, err := h.Capability(ctx, booking.UserEmail)
	if err != nil {
		resParams.Code = http.StatusInternalServerError
		resParams.Err = err
		h.Res(resParams)
		return
	}
	if capability == api.CapOther {
		resParams.Code = http.StatusForbidden
		resParams.Err = errors.New("payment for another user's booking")
		resParams.ResData = &api.Message{Message: "forbidden access"}
		h.Res(resParams)
		return
	}

	intent, err := h.Payments.GetIntent(ctx, reqData.PaymentIntentId)
	if err != nil {
		resParams.Code = http.StatusInternalServerError
		resParams.Err = err
		h.Res(resParams)
		return
	}
	if !intent.Succeeded() || intent.Metadata["bookingId"] != reqData.BookingId {
		resParams.Code = http.StatusBadRequest
		resParams.Err = errIntentMismatch
		resParams.ResData = &api.Message{Message: "payment not verified"}
		h.Res(resParams)
		return
	}

	unlock, err := h.Locker.Lock(ctx, reqData.BookingId)
	if errors.Is(err, utils.ErrBookingLocked) {
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
	defer h.Release(reqData.BookingId, unlock)

	payment, created, err := h.record(ctx, reqData.BookingId, booking.UserEmail, intent)
	if err != nil {
		api.StoreErr(resParams, err, "booking")
		h.Res(resParams)
		return
	}

	resParams.ResData = payment
	resParams.Code = http.StatusOK
	if created {
		resParams.Code = http.StatusCreated
	}
	h.Res(resParams)

}
