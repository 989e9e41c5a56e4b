package coupon

import (
	"net/http"
	"scmsapi/internal/api"
	"scmsapi/pkg/schemas"
	"strings"
	"time"
)

func (h *Handler) CreateCoupon(w http.ResponseWriter, r *http.Request) {

	defer r.Body.Close()
	ctx := r.Context()
	resParams := &api.ResParams{W: w, R: r}

	var reqData struct {
		Code           string  `json:"code" validate:"required,couponcode"`
		DiscountAmount float64 `json:"discountAmount" validate:"required,gt=0,lte=100"`
		Description    string  `json:"description" validate:"omitempty,maxgraphemes=256"`
	}
	if err := h.Bind(r, &reqData); err != nil {
		resParams.Code = http.StatusBadRequest
		resParams.Err = err
		h.Res(resParams)
		return
	}
	resParams.ReqData = reqData

	coupon := &schemas.Coupon{
		Code:           reqData.Code,
		DiscountAmount: reqData.DiscountAmount,
		Description:    strings.TrimSpace(reqData.Description),
		CreatedAt:      time.Now().UTC(),
	}
	if err := h.Store.Coupons.Insert(ctx, coupon); err != nil {
		api.StoreErr(resParams, err, "coupon")
		h.Res(resParams)
		return
	}

	resParams.ResData = coupon
	resParams.Code = http.StatusCreated
	h.Res(resParams)

}
