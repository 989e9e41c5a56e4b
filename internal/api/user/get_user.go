package user

import (
	"errors"
	"net/http"
	"scmsapi/internal/api"
	"scmsapi/pkg/config"
	"scmsapi/pkg/schemas"

	"github.com/go-chi/chi/v5"
)

// lookup loads the user named in the path, enforcing self or admin access.
// It writes the error response itself and returns nil on failure.
func (h *Handler) lookup(resParams *api.ResParams) *schemas.User {

	ctx := resParams.R.Context()
	email := chi.URLParam(resParams.R, "email")
	resParams.ReqData = email

	capability, err := h.Capability(ctx, email)
	if err != nil {
		resParams.Code = http.StatusInternalServerError
		resParams.Err = err
		h.Res(resParams)
		return nil
	}
	if capability == api.CapOther {
		resParams.Code = http.StatusForbidden
		resParams.Err = errors.New("user lookup of another account")
		resParams.ResData = &api.Message{Message: "forbidden access"}
		h.Res(resParams)
		return nil
	}

	user, err := h.Store.Users.FindByEmail(ctx, email)
	if err != nil {
		api.StoreErr(resParams, err, "user")
		h.Res(resParams)
		return nil
	}
	return user

}

func (h *Handler) GetUser(w http.ResponseWriter, r *http.Request) {

	resParams := &api.ResParams{W: w, R: r}

	user := h.lookup(resParams)
	if user == nil {
		return
	}

	resParams.ResData = user
	resParams.Code = http.StatusOK
	h.Res(resParams)

}

func (h *Handler) GetUserRole(w http.ResponseWriter, r *http.Request) {

	resParams := &api.ResParams{W: w, R: r}

	user := h.lookup(resParams)
	if user == nil {
		return
	}

	role := user.Role
	if role == "" {
		role = config.ROLE_USER
	}

	resParams.ResData = &struct {
		Role string `json:"role"`
	}{Role: role}
	resParams.Code = http.StatusOK
	h.Res(resParams)

}
