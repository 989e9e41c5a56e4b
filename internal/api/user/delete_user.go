package user

import (
	"net/http"
	"scmsapi/internal/api"

	"github.com/go-chi/chi/v5"
)

// DeleteUser serves both /users/{id} and /members/{id}.
func (h *Handler) DeleteUser(w http.ResponseWriter, r *http.Request) {

	ctx := r.Context()
	id := chi.URLParam(r, "id")
	resParams := &api.ResParams{W: w, R: r, ReqData: id}

	if err := h.Store.Users.DeleteById(ctx, id); err != nil {
		api.StoreErr(resParams, err, "user")
		h.Res(resParams)
		return
	}

	resParams.ResData = &api.Message{Message: "user deleted"}
	resParams.Code = http.StatusOK
	h.Res(resParams)

}
