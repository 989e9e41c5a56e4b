package coupon

import (
	"errors"
	"net/http"
	"scmsapi/internal/api"
	"scmsapi/internal/store"
)

type validateRes struct {
	Valid          bool     `json:"valid"`
	DiscountAmount *float64 `json:"discountAmount,omitempty"`
}

// ValidateCoupon reports whether a code exists. Codes match exactly.
func (h *Handler) ValidateCoupon(w http.ResponseWriter, r *http.Request) {

	defer r.Body.Close()
	resParams := &api.ResParams{W: w, R: r}

	var reqData struct {
		Code string `json:"code" validate:"required"`
	}
	if err := h.Bind(r, &reqData); err != nil {
		resParams.Code = http.StatusBadRequest
		resParams.Err = err
		h.Res(resParams)
		return
	}
	resParams.ReqData = reqData

	coupon, err := h.Store.Coupons.FindByCode(r.Context(), reqData.Code)
	if errors.Is(err, store.ErrNotFound) {
		resParams.ResData = &validateRes{Valid: false}
		resParams.Code = http.StatusOK
		h.Res(resParams)
		return
	} else if err != nil {
		resParams.Code = http.StatusInternalServerError
		resParams.Err = err
		h.Res(resParams)
		return
	}

	resParams.ResData = &validateRes{Valid: true, DiscountAmount: &coupon.DiscountAmount}
	resParams.Code = http.StatusOK
	h.Res(resParams)

}
