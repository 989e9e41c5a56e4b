package court

import (
	"net/http"
	"scmsapi/internal/api"
	"scmsapi/pkg/schemas"
	"time"
)

func (h *Handler) CreateCourt(w http.ResponseWriter, r *http.Request) {

	defer r.Body.Close()
	ctx := r.Context()
	resParams := &api.ResParams{W: w, R: r}

	var reqData struct {
		Image string   `json:"image" validate:"omitempty,url"`
		Type  string   `json:"type" validate:"required,maxgraphemes=48"`
		Title string   `json:"title" validate:"required,maxgraphemes=96"`
		Slots []string `json:"slots" validate:"required,min=1,dive,required"`
		Price float64  `json:"price" validate:"required,gt=0"`
	}
	if err := h.Bind(r, &reqData); err != nil {
		resParams.Code = http.StatusBadRequest
		resParams.Err = err
		h.Res(resParams)
		return
	}
	resParams.ReqData = reqData

	court := &schemas.Court{
		Image:     reqData.Image,
		Type:      reqData.Type,
		Title:     reqData.Title,
		Slots:     reqData.Slots,
		Price:     reqData.Price,
		CreatedAt: time.Now().UTC(),
	}
	if err := h.Store.Courts.Insert(ctx, court); err != nil {
		resParams.Code = http.StatusInternalServerError
		resParams.Err = err
		h.Res(resParams)
		return
	}

	resParams.ResData = court
	resParams.Code = http.StatusCreated
	h.Res(resParams)

}
