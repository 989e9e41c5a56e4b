package payment

import (
	"net/http"
	"scmsapi/internal/api"
	"scmsapi/internal/store"
)

// filter scopes non admins to their own payments. Admins may narrow with ?email=.
func (h *Handler) filter(r *http.Request) (store.PaymentFilter, error) {

	ctx := r.Context()
	ident := api.IdentityFrom(ctx)

	admin, err := h.IsAdmin(ctx, ident.Email)
	if err != nil {
		return store.PaymentFilter{}, err
	}
	if !admin {
		return store.PaymentFilter{UserEmail: ident.Email}, nil
	}
	return store.PaymentFilter{UserEmail: r.URL.Query().Get("email")}, nil

}

func (h *Handler) ListPayments(w http.ResponseWriter, r *http.Request) {

	resParams := &api.ResParams{W: w, R: r}

	filter, err := h.filter(r)
	if err != nil {
		resParams.Code = http.StatusInternalServerError
		resParams.Err = err
		h.Res(resParams)
		return
	}
	resParams.ReqData = filter

	payments, err := h.Store.Payments.List(r.Context(), filter)
	if err != nil {
		resParams.Code = http.StatusInternalServerError
		resParams.Err = err
		h.Res(resParams)
		return
	}

	resParams.ResData = payments
	resParams.Code = http.StatusOK
	h.Res(resParams)

}

func (h *Handler) PaymentSummary(w http.ResponseWriter, r *http.Request) {

	resParams := &api.ResParams{W: w, R: r}

	filter, err := h.filter(r)
	if err != nil {
		resParams.Code = http.StatusInternalServerError
		resParams.Err = err
		h.Res(resParams)
		return
	}
	resParams.ReqData = filter

	total, count, err := h.Store.Payments.Total(r.Context(), filter)
	if err != nil {
		resParams.Code = http.StatusInternalServerError
		resParams.Err = err
		h.Res(resParams)
		return
	}

	resParams.ResData = &struct {
		TotalPaid float64 `json:"totalPaid"`
		Count     int64   `json:"count"`
	}{TotalPaid: total, Count: count}
	resParams.Code = http.StatusOK
	h.Res(resParams)

}
