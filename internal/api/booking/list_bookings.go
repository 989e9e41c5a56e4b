package booking

import (
	"net/http"
	"scmsapi/internal/api"
	"scmsapi/internal/store"
)

// ListBookings filters by ?email=, ?status= and ?search= on the court title.
// Non admins are always scoped to their own bookings.
func (h *Handler) ListBookings(w http.ResponseWriter, r *http.Request) {

	ctx := r.Context()
	ident := api.IdentityFrom(ctx)
	resParams := &api.ResParams{W: w, R: r}

	query := r.URL.Query()
	filter := store.BookingFilter{
		UserEmail: query.Get("email"),
		Status:    query.Get("status"),
		Search:    query.Get("search"),
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
		filter.UserEmail = ident.Email
	}

	bookings, err := h.Store.Bookings.List(ctx, filter)
	if err != nil {
		resParams.Code = http.StatusInternalServerError
		resParams.Err = err
		h.Res(resParams)
		return
	}

	resParams.ResData = bookings
	resParams.Code = http.StatusOK
	h.Res(resParams)

}

// BookingSummary counts bookings per status. Admins see every booking unless
// they pass ?email=.
func (h *Handler) BookingSummary(w http.ResponseWriter, r *http.Request) {

	ctx := r.Context()
	ident := api.IdentityFrom(ctx)
	resParams := &api.ResParams{W: w, R: r}

	email := r.URL.Query().Get("email")
	admin, err := h.IsAdmin(ctx, ident.Email)
	if err != nil {
		resParams.Code = http.StatusInternalServerError
		resParams.Err = err
		h.Res(resParams)
		return
	}
	if !admin {
		email = ident.Email
	}
	resParams.ReqData = email

	counts, err := h.Store.Bookings.CountByStatus(ctx, email)
	if err != nil {
		resParams.Code = http.StatusInternalServerError
		resParams.Err = err
		h.Res(resParams)
		return
	}

	var total int64
	for _, c := range counts {
		total += c
	}

	resParams.ResData = &struct {
		Total    int64            `json:"total"`
		ByStatus map[string]int64 `json:"byStatus"`
	}{Total: total, ByStatus: counts}
	resParams.Code = http.StatusOK
	h.Res(resParams)

}
