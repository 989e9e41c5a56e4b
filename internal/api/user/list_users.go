package user

import (
	"net/http"
	"scmsapi/internal/api"
	"scmsapi/internal/store"
)

// ListUsers returns every user to admins, filtered by ?email= or ?search=.
// Anyone else only sees their own record.
func (h *Handler) ListUsers(w http.ResponseWriter, r *http.Request) {

	ctx := r.Context()
	ident := api.IdentityFrom(ctx)
	resParams := &api.ResParams{W: w, R: r}

	filter := store.UserFilter{
		Email:  r.URL.Query().Get("email"),
		Search: r.URL.Query().Get("search"),
	}
	resParams.ReqData = filter

	admin, err := h.IsAdmin(ctx, ident.Email)
	if err != nil {
		resParams.Code = http.StatusInternalServerError
		resParams.Err = err
		h.Res(resParams)
		return
	}
	if !admin {
		filter = store.UserFilter{Email: ident.Email}
	}

	users, err := h.Store.Users.List(ctx, filter)
	if err != nil {
		resParams.Code = http.StatusInternalServerError
		resParams.Err = err
		h.Res(resParams)
		return
	}

	resParams.ResData = users
	resParams.Code = http.StatusOK
	h.Res(resParams)

}
