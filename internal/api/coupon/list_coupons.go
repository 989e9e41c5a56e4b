package coupon

import (
	"net/http"
	"scmsapi/internal/api"
)

func (h *Handler) ListCoupons(w http.ResponseWriter, r *http.Request) {

	resParams := &api.ResParams{W: w, R: r}

	coupons, err := h.Store.Coupons.List(r.Context())
	if err != nil {
		resParams.Code = http.StatusInternalServerError
		resParams.Err = err
		h.Res(resParams)
		return
	}

	resParams.ResData = coupons
	resParams.Code = http.StatusOK
	h.Res(resParams)

}
