package user

import (
	"errors"
	"net/http"
	"scmsapi/internal/api"
	"scmsapi/internal/store"

	"github.com/go-chi/chi/v5"
)

func (h *Handler) UpdateUser(w http.ResponseWriter, r *http.Request) {

	defer r.Body.Close()
	ctx := r.Context()
	email := chi.URLParam(r, "email")
	resParams := &api.ResParams{W: w, R: r}

	var reqData store.UserUpdate
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

	user, err := h.Store.Users.UpdateByEmail(ctx, email, &reqData)
	if err != nil {
		api.StoreErr(resParams, err, "user")
		h.Res(resParams)
		return
	}

	resParams.ResData = user
	resParams.Code = http.StatusOK
	h.Res(resParams)

}
