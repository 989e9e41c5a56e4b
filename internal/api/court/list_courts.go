package court

import (
	"net/http"
	"scmsapi/internal/api"

	"github.com/go-chi/chi/v5"
)

func (h *Handler) ListCourts(w http.ResponseWriter, r *http.Request) {

	resParams := &api.ResParams{W: w, R: r}

	courts, err := h.Store.Courts.List(r.Context())
	if err != nil {
		resParams.Code = http.StatusInternalServerError
		resParams.Err = err
		h.Res(resParams)
		return
	}

	resParams.ResData = courts
	resParams.Code = http.StatusOK
	h.Res(resParams)

}

func (h *Handler) GetCourt(w http.ResponseWriter, r *http.Request) {

	id := chi.URLParam(r, "id")
	resParams := &api.ResParams{W: w, R: r, ReqData: id}

	court, err := h.Store.Courts.FindById(r.Context(), id)
	if err != nil {
		api.StoreErr(resParams, err, "court")
		h.Res(resParams)
		return
	}

	resParams.ResData = court
	resParams.Code = http.StatusOK
	h.Res(resParams)

}

func (h *Handler) CountCourts(w http.ResponseWriter, r *http.Request) {

	resParams := &api.ResParams{W: w, R: r}

	count, err := h.Store.Courts.Count(r.Context())
	if err != nil {
		resParams.Code = http.StatusInternalServerError
		resParams.Err = err
		h.Res(resParams)
		return
	}

	resParams.ResData = &struct {
		Count int64 `json:"count"`
	}{Count: count}
	resParams.Code = http.StatusOK
	h.Res(resParams)

}
