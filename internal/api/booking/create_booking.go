package booking

import (
	"errors"
	"net/http"
	"scmsapi/internal/api"
	"scmsapi/pkg/schemas"
	"time"
)

func (h *Handler) CreateBooking(w http.ResponseWriter, r *http.Request) {

	defer r.Body.Close()
	ctx := r.Context()
	ident := api.IdentityFrom(ctx)
	resParams := &api.ResParams{W: w, R: r}

	var reqData struct {
		UserEmail  string   `json:"userEmail" validate:"required,email"`
		CourtId    string   `json:"courtId" validate:"required"`
		CourtTitle string   `json:"courtTitle" validate:"required"`
		CourtType  string   `json:"courtType" validate:"required"`
		Date       string   `json:"date" validate:"required"`
		Slots      []string `json:"slots" validate:"required,min=1,dive,required"`
		Price      float64  `json:"price" validate:"required,gt=0"`
		Status     string   `json:"status"` // ignored, new bookings are always pending
	}
	if err := h.Bind(r, &reqData); err != nil {
		resParams.Code = http.StatusBadRequest
		resParams.Err = err
		h.Res(resParams)
		return
	}
	resParams.ReqData = reqData

	// only admins may book on behalf of someone else
	if reqData.UserEmail != ident.Email {
		admin, err := h.IsAdmin(ctx, ident.Email)
		if err != nil {
			resParams.Code = http.StatusInternalServerError
			resParams.Err = err
			h.Res(resParams)
			return
		}
		if !admin {
			resParams.Code = http.StatusForbidden
			resParams.Err = errors.New("booking for another user")
			resParams.ResData = &api.Message{Message: "forbidden access"}
			h.Res(resParams)
			return
		}
	}

	booking := &schemas.Booking{
		UserEmail:  reqData.UserEmail,
		UserId:     ident.UID,
		CourtId:    reqData.CourtId,
		CourtTitle: reqData.CourtTitle,
		CourtType:  reqData.CourtType,
		Date:       reqData.Date,
		Slots:      reqData.Slots,
		Price:      reqData.Price,
		Status:     schemas.BookingPending,
		CreatedAt:  time.Now().UTC(),
	}
	if err := h.Store.Bookings.Insert(ctx, booking); err != nil {
		resParams.Code = http.StatusInternalServerError
		resParams.Err = err
		h.Res(resParams)
		return
	}

	resParams.ResData = booking
	resParams.Code = http.StatusCreated
	h.Res(resParams)

}
