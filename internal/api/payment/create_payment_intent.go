package payment

import (
	"errors"
	"fmt"
	"net/http"
	"scmsapi/internal/api"
	"scmsapi/internal/store"
	bookingutils "scmsapi/pkg/booking_utils"
	"scmsapi/pkg/schemas"
)

func (h *Handler) CreatePaymentIntent(w http.ResponseWriter, r *http.Request) {

	defer r.Body.Close()
	ctx := r.Context()
	resParams := &api.ResParams{W: w, R: r}

	var reqData struct {
		BookingId  string `json:"bookingId" validate:"required"`
		CouponCode string `json:"couponCode"`
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

	// confirmed is already paid and rejected will never be
	if booking.Status == schemas.BookingConfirmed || booking.Status == schemas.BookingRejected {
		resParams.Code = http.StatusConflict
		resParams.Err = fmt.Errorf("booking is %s", booking.Status)
		resParams.ResData = &api.Message{Message: "booking cannot be paid"}
		h.Res(resParams)
		return
	}

	// an unknown code just means no discount
	var coupon *schemas.Coupon
	if reqData.CouponCode != "" {
		coupon, err = h.Store.Coupons.FindByCode(ctx, reqData.CouponCode)
		if errors.Is(err, store.ErrNotFound) {
			coupon = nil
		} else if err != nil {
			resParams.Code = http.StatusInternalServerError
			resParams.Err = err
			h.Res(resParams)
			return
		}
	}

	finalPrice := bookingutils.FinalPrice(booking.Price, coupon)
	amount, err := bookingutils.ToMinorUnits(finalPrice)
	if err != nil {
		resParams.Code = http.StatusBadRequest
		resParams.Err = err
		h.Res(resParams)
		return
	}

	metadata := map[string]string{
		"bookingId": booking.Id.Hex(),
		"userEmail": booking.UserEmail,
	}
	if coupon != nil {
		metadata["couponCode"] = coupon.Code
	}

	intent, err := h.Payments.CreateIntent(ctx, amount, h.Currency, metadata)
	if err != nil {
		resParams.Code = http.StatusInternalServerError
		resParams.Err = err
		h.Res(resParams)
		return
	}

	resParams.ResData = &struct {
		ClientSecret    string  `json:"clientSecret"`
		FinalPrice      float64 `json:"finalPrice"`
		PaymentIntentId string  `json:"paymentIntentId"`
	}{
		ClientSecret:    intent.ClientSecret,
		FinalPrice:      finalPrice,
		PaymentIntentId: intent.Id,
	}
	resParams.Code = http.StatusOK
	h.Res(resParams)

}
