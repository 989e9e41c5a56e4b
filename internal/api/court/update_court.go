package court

import (
	"errors"
	"net/http"
	"scmsapi/internal/api"
	"scmsapi/internal/store"

	"github.com/go-chi/chi/v5"
)

func (h *Handler) UpdateCourt(w http.ResponseWriter, r *http.Request) {

	defer r.Body.Close()
	ctx := r.Context()
	id := chi.URLParam(r, "id")
	resParams := &api.ResParams{W: w, R: r}

	var reqData store.CourtUpdate
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

	court, err := h.Store.Courts.Update(ctx, id, &reqData)
	if err != nil {
		api.StoreErr(resParams, err, "court")
		h.Res(resParams)
		return
	}

	resParams.ResData = court
	resParams.Code = http.StatusOK
	h.Res(resParams)

}

func (h *Handler) DeleteCourt(w http.ResponseWriter, r *http.Request) {

	id := chi.URLParam(r, "id")
	resParams := &api.ResParams{W: w, R: r, ReqData: id}

	if err := h.Store.Courts.Delete(r.Context(), id); err != nil {
		api.StoreErr(resParams, err, "court")
		h.Res(resParams)
		return
	}

	resParams.ResData = &api.Message{Message: "court deleted"}
	resParams.Code = http.StatusOK
	h.Res(resParams)

}
