package booking

import (
	"context"
	"errors"
	"net/http"
	"scmsapi/internal/api"
	bookingutils "scmsapi/pkg/booking_utils"
	"scmsapi/pkg/schemas"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type statusReq struct {
	Status          string   `json:"status" validate:"required,bookingstatus"`
	DiscountedPrice *float64 `json:"discountedPrice" validate:"omitempty,gt=0"`
}

type approveReq struct {
	DiscountedPrice *float64 `json:"discountedPrice" validate:"omitempty,gt=0"`
}

func (h *Handler) UpdateStatus(w http.ResponseWriter, r *http.Request) {

	defer r.Body.Close()
	resParams := &api.ResParams{W: w, R: r}

	var reqData statusReq
	if err := h.Bind(r, &reqData); err != nil {
		resParams.Code = http.StatusBadRequest
		resParams.Err = err
		h.Res(resParams)
		return
	}
	resParams.ReqData = reqData

	if reqData.DiscountedPrice != nil && reqData.Status != schemas.BookingApproved {
		resParams.Code = http.StatusBadRequest
		resParams.Err = errors.New("discountedPrice only applies to approvals")
		h.Res(resParams)
		return
	}

	h.transition(resParams, reqData.Status, reqData.DiscountedPrice)

}

func (h *Handler) Approve(w http.ResponseWriter, r *http.Request) {

	defer r.Body.Close()
	resParams := &api.ResParams{W: w, R: r}

	var reqData approveReq
	if r.ContentLength != 0 {
		if err := h.Bind(r, &reqData); err != nil {
			resParams.Code = http.StatusBadRequest
			resParams.Err = err
			h.Res(resParams)
			return
		}
	}
	resParams.ReqData = reqData

	h.transition(resParams, schemas.BookingApproved, reqData.DiscountedPrice)

}

func (h *Handler) Reject(w http.ResponseWriter, r *http.Request) {

	resParams := &api.ResParams{W: w, R: r}
	h.transition(resParams, schemas.BookingRejected, nil)

}

// transition applies an admin decision under the booking lock. Approval
// promotes the owner to member in the same unit of work.
func (h *Handler) transition(resParams *api.ResParams, status string, discountedPrice *float64) {

	ctx := resParams.R.Context()
	id := chi.URLParam(resParams.R, "id")

	unlock := h.lock(resParams, id)
	if unlock == nil {
		return
	}
	defer h.Release(id, unlock)

	var booking *schemas.Booking
	var err error
	switch status {
	case schemas.BookingApproved:
		booking, _, err = h.Store.Bookings.Approve(ctx, id, discountedPrice, time.Now().UTC())
	case schemas.BookingRejected:
		booking, err = h.Store.Bookings.Reject(ctx, id)
	default:
		err = bookingutils.CheckTransition(schemas.BookingPending, status)
	}

	if errors.Is(err, bookingutils.ErrInvalidTransition) {
		resParams.Code = http.StatusConflict
		resParams.Err = err
		h.Res(resParams)
		return
	} else if err != nil {
		api.StoreErr(resParams, err, "booking")
		h.Res(resParams)
		return
	}

	h.notify(ctx, booking)

	resParams.ResData = booking
	resParams.Code = http.StatusOK
	h.Res(resParams)

}

// notify is best effort, the decision is already stored.
func (h *Handler) notify(ctx context.Context, booking *schemas.Booking) {

	if h.Notifier == nil {
		return
	}

	var err error
	if booking.Status == schemas.BookingApproved {
		err = h.Notifier.BookingApproved(ctx, booking)
	} else {
		err = h.Notifier.BookingRejected(ctx, booking)
	}
	if err != nil {
		h.Logger.Warn("booking notification failed",
			zap.String("booking_id", booking.Id.Hex()),
			zap.Error(err),
		)
	}

}
