package user

import (
	"net/http"
	"scmsapi/internal/api"
)

func (h *Handler) ListMembers(w http.ResponseWriter, r *http.Request) {

	ctx := r.Context()
	search := r.URL.Query().Get("search")
	resParams := &api.ResParams{W: w, R: r, ReqData: search}

	members, err := h.Store.Users.ListMembers(ctx, search)
	if err != nil {
		resParams.Code = http.StatusInternalServerError
		resParams.Err = err
		h.Res(resParams)
		return
	}

	resParams.ResData = members
	resParams.Code = http.StatusOK
	h.Res(resParams)

}
