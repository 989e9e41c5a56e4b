package coupon

import (
	"errors"
	"net/http"
	"scmsapi/internal/api"
	"scmsapi/internal/store"

	"github.com/go-chi/chi/v5"
)

func (h *Handler) UpdateCoupon(w http.ResponseWriter, r *http.Request) {

	defer r.Body.Close()
	id := chi.URLParam(r, "id")
	resParams := &api.ResParams{W: w, R: r}

	var reqData store.CouponUpdate
	if err := h.Bind(r, &reqData); err != nil {
		resParams.Code = http.StatusBadRequest
		resParams.Err = err
		h.Res(resParams)
		return
	}
	resParams.ReqData = reqData

	if reqData.Empty() {
		resParams.Code = http.StatusBadRequest
		resParams.Err = errors.New("nothing to update")
		h.Res(resParams)
		return
	}

	coupon, err := h.Store.Coupons.Update(r.Context(), id, &reqData)
	if err != nil {
		api.StoreErr(resParams, err, "coupon")
		h.Res(resParams)
		return
	}

	resParams.ResData = coupon
	resParams.Code = http.StatusOK
	h.Res(resParams)

}

func (h *Handler) DeleteCoupon(w http.ResponseWriter, r *http.Request) {

	id := chi.URLParam(r, "id")
	resParams := &api.ResParams{W: w, R: r, ReqData: id}

	if err := h.Store.Coupons.Delete(r.Context(), id); err != nil {
		api.StoreErr(resParams, err, "coupon")
		h.Res(resParams)
		return
	}

	resParams.ResData = &api.Message{Message: "coupon deleted"}
	resParams.Code = http.StatusOK
	h.Res(resParams)

}
