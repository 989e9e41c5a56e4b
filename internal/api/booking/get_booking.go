package booking

import (
	"net/http"
	"scmsapi/internal/api"
)

func (h *Handler) GetBooking(w http.ResponseWriter, r *http.Request) {

	resParams := &api.ResParams{W: w, R: r}

	booking := h.owned(resParams)
	if booking == nil {
		return
	}

	resParams.ResData = booking
	resParams.Code = http.StatusOK
	h.Res(resParams)

}
