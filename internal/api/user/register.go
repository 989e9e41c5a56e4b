package user

import (
	"net/http"
	"scmsapi/internal/api"
	"scmsapi/pkg/config"
	"scmsapi/pkg/schemas"
	"time"
)

// Register stores the caller on first sign in. Calling it again is harmless.
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {

	defer r.Body.Close()
	ctx := r.Context()
	ident := api.IdentityFrom(ctx)
	resParams := &api.ResParams{W: w, R: r}

	var reqData struct {
		Name     string `json:"name" validate:"omitempty,maxgraphemes=64"`
		PhotoURL string `json:"photoURL" validate:"omitempty,url"`
	}

	if r.ContentLength != 0 {
		if err := h.Bind(r, &reqData); err != nil {
			resParams.Code = http.StatusBadRequest
			resParams.Err = err
			h.Res(resParams)
			return
		}
	}
	resParams.ReqData = reqData

	// fall back to the profile carried by the token
	if reqData.Name == "" {
		reqData.Name = ident.Name
	}
	if reqData.PhotoURL == "" {
		reqData.PhotoURL = ident.Picture
	}

	user := &schemas.User{
		Email:     ident.Email,
		Name:      reqData.Name,
		PhotoURL:  reqData.PhotoURL,
		Role:      config.ROLE_USER,
		CreatedAt: time.Now().UTC(),
	}
	created, err := h.Store.Users.InsertIfAbsent(ctx, user)
	if err != nil {
		resParams.Code = http.StatusInternalServerError
		resParams.Err = err
		h.Res(resParams)
		return
	}

	if !created {
		resParams.ResData = &api.Message{Message: "User already exists"}
		resParams.Code = http.StatusOK
		h.Res(resParams)
		return
	}

	resParams.ResData = user
	resParams.Code = http.StatusCreated
	h.Res(resParams)

}
