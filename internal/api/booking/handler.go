package booking

import (
	"errors"
	"net/http"
	"scmsapi/internal/api"
	"scmsapi/pkg/schemas"
	"scmsapi/pkg/utils"

	"github.com/go-chi/chi/v5"
)

type Handler struct {
	*api.Handler
}

// owned loads the booking in the path and checks the caller is its owner or an
// admin. On failure the response is already written and nil is returned.
func (h *Handler) owned(resParams *api.ResParams) *schemas.Booking {

	ctx := resParams.R.Context()
	id := chi.URLParam(resParams.R, "id")

	booking, err := h.Store.Bookings.FindById(ctx, id)
	if err != nil {
		api.StoreErr(resParams, err, "booking")
		h.Res(resParams)
		return nil
	}

	capability, err := h.Capability(ctx, booking.UserEmail)
	if err != nil {
		resParams.Code = http.StatusInternalServerError
		resParams.Err = err
		h.Res(resParams)
		return nil
	}
	if capability == api.CapOther {
		resParams.Code = http.StatusForbidden
		resParams.Err = errors.New("booking belongs to another user")
		resParams.ResData = &api.Message{Message: "forbidden access"}
		h.Res(resParams)
		return nil
	}

	return booking

}

// lock takes the per booking lock. On failure the response is already written
// and nil is returned.
func (h *Handler) lock(resParams *api.ResParams, id string) func() error {

	unlock, err := h.Locker.Lock(resParams.R.Context(), id)
	if errors.Is(err, utils.ErrBookingLocked) {
		resParams.Code = http.StatusTooManyRequests
		resParams.Err = err
		h.Res(resParams)
		return nil
	} else if err != nil {
		resParams.Code = http.StatusInternalServerError
		resParams.Err = err
		h.Res(resParams)
		return nil
	}
	return unlock

}
