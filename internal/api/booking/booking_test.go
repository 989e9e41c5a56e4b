package booking_test

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"scmsapi/internal/api/apitest"
	"scmsapi/internal/api/booking"
	"scmsapi/pkg/config"
	"scmsapi/pkg/schemas"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func router(env *apitest.Env) http.Handler {
	h := env.Handler
	bookingH := &booking.Handler{Handler: h}
	admin := func(f http.HandlerFunc) http.HandlerFunc { return h.AuthMiddleware(h.AdminOnly(f)) }

	r := chi.NewRouter()
	r.Post("/bookings", h.AuthMiddleware(bookingH.CreateBooking))
	r.Get("/bookings", h.AuthMiddleware(bookingH.ListBookings))
	r.Get("/bookings/summary", h.AuthMiddleware(bookingH.BookingSummary))
	r.Get("/bookings/{id}", h.AuthMiddleware(bookingH.GetBooking))
	r.Patch("/bookings/{id}", admin(bookingH.UpdateStatus))
	r.Post("/bookings/{id}/approve", admin(bookingH.Approve))
	r.Post("/bookings/{id}/reject", admin(bookingH.Reject))
	r.Delete("/bookings/{id}", h.AuthMiddleware(bookingH.DeleteBooking))
	return r
}

func validBooking(email string) map[string]any {
	return map[string]any{
		"userEmail":  email,
		"courtId":    "court-1",
		"courtTitle": "Center Court",
		"courtType":  "tennis",
		"date":       "2026-11-02",
		"slots":      []string{"09:00-10:00"},
		"price":      40,
	}
}

func TestCreateBooking(t *testing.T) {
	env := apitest.New(t)
	r := router(env)
	token := env.User(t, "ana@example.com", config.ROLE_USER)

	t.Run("starts pending", func(t *testing.T) {
		body := validBooking("ana@example.com")
		body["status"] = schemas.BookingConfirmed

		rec := apitest.Do(t, r, http.MethodPost, "/bookings", token, body)
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

		got := apitest.Decode[schemas.Booking](t, rec)
		assert.Equal(t, schemas.BookingPending, got.Status)
		assert.Equal(t, "uid-ana@example.com", got.UserId)
		assert.False(t, got.Id.IsZero())
	})

	for _, field := range []string{"userEmail", "courtId", "courtTitle", "courtType", "date", "slots", "price"} {
		t.Run("missing "+field, func(t *testing.T) {
			body := validBooking("ana@example.com")
			delete(body, field)

			rec := apitest.Do(t, r, http.MethodPost, "/bookings", token, body)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.JSONEq(t, `{"message":"Missing field: `+field+`"}`, rec.Body.String())
		})
	}

	t.Run("for someone else", func(t *testing.T) {
		rec := apitest.Do(t, r, http.MethodPost, "/bookings", token, validBooking("bob@example.com"))
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("admin for someone else", func(t *testing.T) {
		adminToken := env.User(t, "root@example.com", config.ROLE_ADMIN)
		rec := apitest.Do(t, r, http.MethodPost, "/bookings", adminToken, validBooking("bob@example.com"))
		assert.Equal(t, http.StatusCreated, rec.Code)
	})
}

func TestListBookingsScopesNonAdmins(t *testing.T) {
	env := apitest.New(t)
	r := router(env)
	anaToken := env.User(t, "ana@example.com", config.ROLE_USER)
	adminToken := env.User(t, "root@example.com", config.ROLE_ADMIN)

	env.Booking(t, "ana@example.com", 40, schemas.BookingPending)
	env.Booking(t, "bob@example.com", 40, schemas.BookingPending)
	env.Booking(t, "bob@example.com", 40, schemas.BookingApproved)

	// asking for bob's bookings still only returns ana's
	rec := apitest.Do(t, r, http.MethodGet, "/bookings?email=bob@example.com", anaToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	got := apitest.Decode[[]schemas.Booking](t, rec)
	require.Len(t, got, 1)
	assert.Equal(t, "ana@example.com", got[0].UserEmail)

	rec = apitest.Do(t, r, http.MethodGet, "/bookings", adminToken, nil)
	assert.Len(t, apitest.Decode[[]schemas.Booking](t, rec), 3)

	rec = apitest.Do(t, r, http.MethodGet, "/bookings?email=bob@example.com&status=approved", adminToken, nil)
	assert.Len(t, apitest.Decode[[]schemas.Booking](t, rec), 1)

	rec = apitest.Do(t, r, http.MethodGet, "/bookings?search=center", adminToken, nil)
	assert.Len(t, apitest.Decode[[]schemas.Booking](t, rec), 3)
}

func TestBookingSummary(t *testing.T) {
	env := apitest.New(t)
	r := router(env)
	anaToken := env.User(t, "ana@example.com", config.ROLE_USER)

	env.Booking(t, "ana@example.com", 40, schemas.BookingPending)
	env.Booking(t, "ana@example.com", 40, schemas.BookingConfirmed)
	env.Booking(t, "bob@example.com", 40, schemas.BookingPending)

	rec := apitest.Do(t, r, http.MethodGet, "/bookings/summary", anaToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	got := apitest.Decode[struct {
		Total    int64            `json:"total"`
		ByStatus map[string]int64 `json:"byStatus"`
	}](t, rec)
	assert.Equal(t, int64(2), got.Total)
	assert.Equal(t, int64(1), got.ByStatus[schemas.BookingPending])
	assert.Equal(t, int64(1), got.ByStatus[schemas.BookingConfirmed])
	assert.Equal(t, int64(0), got.ByStatus[schemas.BookingRejected])
}

func TestGetBookingOwnership(t *testing.T) {
	env := apitest.New(t)
	r := router(env)
	anaToken := env.User(t, "ana@example.com", config.ROLE_USER)
	bobToken := env.User(t, "bob@example.com", config.ROLE_USER)
	b := env.Booking(t, "ana@example.com", 40, schemas.BookingPending)

	rec := apitest.Do(t, r, http.MethodGet, "/bookings/"+b.Id.Hex(), anaToken, nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = apitest.Do(t, r, http.MethodGet, "/bookings/"+b.Id.Hex(), bobToken, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = apitest.Do(t, r, http.MethodGet, "/bookings/not-an-id", anaToken, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestApprovePromotesOwner(t *testing.T) {
	env := apitest.New(t)
	r := router(env)
	adminToken := env.User(t, "root@example.com", config.ROLE_ADMIN)
	env.User(t, "ana@example.com", config.ROLE_USER)
	b := env.Booking(t, "ana@example.com", 40, schemas.BookingPending)

	rec := apitest.Do(t, r, http.MethodPost, "/bookings/"+b.Id.Hex()+"/approve", adminToken, map[string]any{"discountedPrice": 30})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	got := apitest.Decode[schemas.Booking](t, rec)
	assert.Equal(t, schemas.BookingApproved, got.Status)
	require.NotNil(t, got.DiscountedPrice)
	assert.Equal(t, 30.0, *got.DiscountedPrice)

	user, err := env.Store.Users.FindByEmail(context.Background(), "ana@example.com")
	require.NoError(t, err)
	assert.Equal(t, config.ROLE_MEMBER, user.Role)
	assert.True(t, user.IsMember)
	assert.NotNil(t, user.MemberSince)

	assert.Equal(t, []string{b.Id.Hex()}, env.Notifier.Approved)
	assert.False(t, env.Locker.Held(b.Id.Hex()))
}

func TestApproveUnknownOwnerCreatesMember(t *testing.T) {
	env := apitest.New(t)
	r := router(env)
	adminToken := env.User(t, "root@example.com", config.ROLE_ADMIN)
	b := env.Booking(t, "new@example.com", 40, schemas.BookingPending)

	rec := apitest.Do(t, r, http.MethodPost, "/bookings/"+b.Id.Hex()+"/approve", adminToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	user, err := env.Store.Users.FindByEmail(context.Background(), "new@example.com")
	require.NoError(t, err)
	assert.Equal(t, config.ROLE_MEMBER, user.Role)
}

func TestApproveKeepsAdminRole(t *testing.T) {
	env := apitest.New(t)
	r := router(env)
	adminToken := env.User(t, "root@example.com", config.ROLE_ADMIN)
	b := env.Booking(t, "root@example.com", 40, schemas.BookingPending)

	rec := apitest.Do(t, r, http.MethodPost, "/bookings/"+b.Id.Hex()+"/approve", adminToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	user, err := env.Store.Users.FindByEmail(context.Background(), "root@example.com")
	require.NoError(t, err)
	assert.Equal(t, config.ROLE_ADMIN, user.Role)
	assert.True(t, user.IsMember)
}

func TestApproveIsAllOrNothing(t *testing.T) {
	env := apitest.New(t)
	r := router(env)
	adminToken := env.User(t, "root@example.com", config.ROLE_ADMIN)
	env.User(t, "ana@example.com", config.ROLE_USER)
	b := env.Booking(t, "ana@example.com", 40, schemas.BookingPending)
	env.DB.FailPromotion = errors.New("write conflict")

	rec := apitest.Do(t, r, http.MethodPost, "/bookings/"+b.Id.Hex()+"/approve", adminToken, nil)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"message":"internal server error"}`, rec.Body.String())

	got, err := env.Store.Bookings.FindById(context.Background(), b.Id.Hex())
	require.NoError(t, err)
	assert.Equal(t, schemas.BookingPending, got.Status)

	user, err := env.Store.Users.FindByEmail(context.Background(), "ana@example.com")
	require.NoError(t, err)
	assert.Equal(t, config.ROLE_USER, user.Role)
	assert.Empty(t, env.Notifier.Approved)
}

func TestTransitions(t *testing.T) {
	tests := []struct {
		name string
		from string
		path string
		body any
		code int
		want string
	}{
		{"approve pending", schemas.BookingPending, "/approve", nil, http.StatusOK, schemas.BookingApproved},
		{"reject pending", schemas.BookingPending, "/reject", nil, http.StatusOK, schemas.BookingRejected},
		{"approve approved", schemas.BookingApproved, "/approve", nil, http.StatusConflict, schemas.BookingApproved},
		{"reject confirmed", schemas.BookingConfirmed, "/reject", nil, http.StatusConflict, schemas.BookingConfirmed},
		{"approve rejected", schemas.BookingRejected, "/approve", nil, http.StatusConflict, schemas.BookingRejected},
		{"patch approve", schemas.BookingPending, "", map[string]any{"status": "approved"}, http.StatusOK, schemas.BookingApproved},
		{"patch reject", schemas.BookingPending, "", map[string]any{"status": "rejected"}, http.StatusOK, schemas.BookingRejected},
		{"patch confirm", schemas.BookingApproved, "", map[string]any{"status": "confirmed"}, http.StatusBadRequest, schemas.BookingApproved},
		{"patch discount on reject", schemas.BookingPending, "", map[string]any{"status": "rejected", "discountedPrice": 5}, http.StatusBadRequest, schemas.BookingPending},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := apitest.New(t)
			r := router(env)
			adminToken := env.User(t, "root@example.com", config.ROLE_ADMIN)
			b := env.Booking(t, "ana@example.com", 40, tt.from)

			method := http.MethodPost
			if tt.path == "" {
				method = http.MethodPatch
			}
			rec := apitest.Do(t, r, method, "/bookings/"+b.Id.Hex()+tt.path, adminToken, tt.body)
			assert.Equal(t, tt.code, rec.Code, rec.Body.String())

			got, err := env.Store.Bookings.FindById(context.Background(), b.Id.Hex())
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.Status)
		})
	}
}

func TestTransitionRequiresAdmin(t *testing.T) {
	env := apitest.New(t)
	r := router(env)
	anaToken := env.User(t, "ana@example.com", config.ROLE_USER)
	b := env.Booking(t, "ana@example.com", 40, schemas.BookingPending)

	rec := apitest.Do(t, r, http.MethodPatch, "/bookings/"+b.Id.Hex(), anaToken, map[string]any{"status": "approved"})
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = apitest.Do(t, r, http.MethodPost, "/bookings/"+b.Id.Hex()+"/approve", anaToken, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestConcurrentTransitionIsRefused(t *testing.T) {
	env := apitest.New(t)
	r := router(env)
	adminToken := env.User(t, "root@example.com", config.ROLE_ADMIN)
	b := env.Booking(t, "ana@example.com", 40, schemas.BookingPending)
	env.Locker.Hold(b.Id.Hex())

	rec := apitest.Do(t, r, http.MethodPost, "/bookings/"+b.Id.Hex()+"/reject", adminToken, nil)
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)

	got, err := env.Store.Bookings.FindById(context.Background(), b.Id.Hex())
	require.NoError(t, err)
	assert.Equal(t, schemas.BookingPending, got.Status)
}

func TestNotificationFailureDoesNotFailRequest(t *testing.T) {
	env := apitest.New(t)
	r := router(env)
	adminToken := env.User(t, "root@example.com", config.ROLE_ADMIN)
	b := env.Booking(t, "ana@example.com", 40, schemas.BookingPending)
	env.Notifier.Err = errors.New("ses throttled")

	rec := apitest.Do(t, r, http.MethodPost, "/bookings/"+b.Id.Hex()+"/reject", adminToken, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []string{b.Id.Hex()}, env.Notifier.Rejected)
}

func TestTransitionUnknownBooking(t *testing.T) {
	env := apitest.New(t)
	r := router(env)
	adminToken := env.User(t, "root@example.com", config.ROLE_ADMIN)

	rec := apitest.Do(t, r, http.MethodPost, "/bookings/65f000000000000000000000/approve", adminToken, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestDeleteBooking(t *testing.T) {
	env := apitest.New(t)
	r := router(env)
	anaToken := env.User(t, "ana@example.com", config.ROLE_USER)
	bobToken := env.User(t, "bob@example.com", config.ROLE_USER)
	b := env.Booking(t, "ana@example.com", 40, schemas.BookingPending)

	rec := apitest.Do(t, r, http.MethodDelete, "/bookings/"+b.Id.Hex(), bobToken, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = apitest.Do(t, r, http.MethodDelete, "/bookings/"+b.Id.Hex(), anaToken, nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = apitest.Do(t, r, http.MethodDelete, "/bookings/"+b.Id.Hex(), anaToken, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = apitest.Do(t, r, http.MethodDelete, "/bookings/garbage", anaToken, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
