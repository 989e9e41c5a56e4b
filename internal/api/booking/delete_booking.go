package booking

import (
	"net/http"
	"scmsapi/internal/api"
)

// DeleteBooking cancels a booking. Owners may cancel their own.
func (h *Handler) DeleteBooking(w http.ResponseWriter, r *http.Request) {

	ctx := r.Context()
	resParams := &api.ResParams{W: w, R: r}

	booking := h.owned(resParams)
	if booking == nil {
		return
	}
	id := booking.Id.Hex()
	resParams.ReqData = id

	unlock := h.lock(resParams, id)
	if unlock == nil {
		return
	}
	defer h.Release(id, unlock)

	if err := h.Store.Bookings.Delete(ctx, id); err != nil {
		api.StoreErr(resParams, err, "booking")
		h.Res(resParams)
		return
	}

	resParams.ResData = &api.Message{Message: "booking deleted"}
	resParams.Code = http.StatusOK
	h.Res(resParams)

}
