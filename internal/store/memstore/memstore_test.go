package memstore

import (
	"context"
	"errors"
	"testing"
	"time"

	"scmsapi/internal/store"
	bookingutils "scmsapi/pkg/booking_utils"
	"scmsapi/pkg/config"
	"scmsapi/pkg/schemas"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr[T any](v T) *T { return &v }

func pendingBooking(t *testing.T, st *store.Store, email string) *schemas.Booking {
	b := &schemas.Booking{UserEmail: email, CourtTitle: "Court A", Date: "2026-11-02", Price: 20, Status: schemas.BookingPending}
	require.NoError(t, st.Bookings.Insert(context.Background(), b))
	return b
}

func TestUserRoleBookkeeping(t *testing.T) {
	ctx := context.Background()
	_, st := New()

	created, err := st.Users.InsertIfAbsent(ctx, &schemas.User{Email: "ana@example.com", Role: config.ROLE_USER})
	require.NoError(t, err)
	require.True(t, created)
	created, err = st.Users.InsertIfAbsent(ctx, &schemas.User{Email: "ana@example.com", Role: config.ROLE_ADMIN})
	require.NoError(t, err)
	assert.False(t, created)

	user, err := st.Users.UpdateByEmail(ctx, "ana@example.com", &store.UserUpdate{Role: ptr(config.ROLE_MEMBER)})
	require.NoError(t, err)
	require.NotNil(t, user.MemberSince)
	since := *user.MemberSince

	// becoming a member again keeps the original date
	user, err = st.Users.UpdateByEmail(ctx, "ana@example.com", &store.UserUpdate{Role: ptr(config.ROLE_MEMBER), Name: ptr("Ana")})
	require.NoError(t, err)
	assert.Equal(t, since, *user.MemberSince)
	assert.Equal(t, "Ana", user.Name)

	user, err = st.Users.UpdateByEmail(ctx, "ana@example.com", &store.UserUpdate{Role: ptr(config.ROLE_USER)})
	require.NoError(t, err)
	assert.False(t, user.IsMember)
	assert.Nil(t, user.MemberSince)

	_, err = st.Users.UpdateByEmail(ctx, "ghost@example.com", &store.UserUpdate{Name: ptr("x")})
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestReturnedDocumentsAreCopies(t *testing.T) {
	ctx := context.Background()
	_, st := New()
	b := pendingBooking(t, st, "ana@example.com")

	got, err := st.Bookings.FindById(ctx, b.Id.Hex())
	require.NoError(t, err)
	got.Status = schemas.BookingConfirmed

	again, err := st.Bookings.FindById(ctx, b.Id.Hex())
	require.NoError(t, err)
	assert.Equal(t, schemas.BookingPending, again.Status)
}

func TestApprovePreservesMemberSince(t *testing.T) {
	ctx := context.Background()
	_, st := New()
	first := pendingBooking(t, st, "ana@example.com")
	second := pendingBooking(t, st, "ana@example.com")

	_, user, err := st.Bookings.Approve(ctx, first.Id.Hex(), nil, time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Equal(t, config.ROLE_MEMBER, user.Role)

	_, user, err = st.Bookings.Approve(ctx, second.Id.Hex(), ptr(15.0), time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC), *user.MemberSince)

	_, _, err = st.Bookings.Approve(ctx, first.Id.Hex(), nil, time.Now())
	assert.ErrorIs(t, err, bookingutils.ErrInvalidTransition)

	_, err = st.Bookings.Reject(ctx, first.Id.Hex())
	assert.ErrorIs(t, err, bookingutils.ErrInvalidTransition)

	_, err = st.Bookings.Reject(ctx, "65f000000000000000000000")
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestFailedPromotionLeavesBookingPending(t *testing.T) {
	ctx := context.Background()
	db, st := New()
	b := pendingBooking(t, st, "ana@example.com")
	db.FailPromotion = errors.New("boom")

	_, _, err := st.Bookings.Approve(ctx, b.Id.Hex(), nil, time.Now())
	require.Error(t, err)

	got, err := st.Bookings.FindById(ctx, b.Id.Hex())
	require.NoError(t, err)
	assert.Equal(t, schemas.BookingPending, got.Status)
	_, err = st.Users.FindByEmail(ctx, "ana@example.com")
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestRecordPayment(t *testing.T) {
	ctx := context.Background()
	_, st := New()
	b := pendingBooking(t, st, "ana@example.com")

	p := &schemas.Payment{BookingId: b.Id.Hex(), UserEmail: "ana@example.com", Price: 20, Status: schemas.PaymentPaid, PaymentIntentId: "pi_1"}
	first, created, err := st.Payments.Record(ctx, p)
	require.NoError(t, err)
	assert.True(t, created)

	second, created, err := st.Payments.Record(ctx, &schemas.Payment{BookingId: b.Id.Hex(), PaymentIntentId: "pi_1", Price: 999})
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, first.Id, second.Id)
	assert.Equal(t, 20.0, second.Price)

	got, err := st.Bookings.FindById(ctx, b.Id.Hex())
	require.NoError(t, err)
	assert.Equal(t, schemas.BookingConfirmed, got.Status)

	total, count, err := st.Payments.Total(ctx, store.PaymentFilter{UserEmail: "ana@example.com"})
	require.NoError(t, err)
	assert.Equal(t, 20.0, total)
	assert.Equal(t, int64(1), count)

	_, _, err = st.Payments.Record(ctx, &schemas.Payment{BookingId: "65f000000000000000000000", PaymentIntentId: "pi_2"})
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestListOrdering(t *testing.T) {
	ctx := context.Background()
	_, st := New()

	for i, date := range []string{"2026-10-01", "2026-12-24", "2026-11-15"} {
		require.NoError(t, st.Bookings.Insert(ctx, &schemas.Booking{
			UserEmail:  "ana@example.com",
			Date:       date,
			CourtTitle: "Court",
			Status:     schemas.BookingPending,
			CreatedAt:  time.Unix(int64(i), 0),
		}))
	}

	list, err := st.Bookings.List(ctx, store.BookingFilter{})
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, []string{"2026-12-24", "2026-11-15", "2026-10-01"}, []string{list[0].Date, list[1].Date, list[2].Date})
}

func TestDeleteUnknownIds(t *testing.T) {
	ctx := context.Background()
	_, st := New()

	for _, id := range []string{"65f000000000000000000000", "not-hex"} {
		assert.ErrorIs(t, st.Bookings.Delete(ctx, id), store.ErrNotFound)
		assert.ErrorIs(t, st.Courts.Delete(ctx, id), store.ErrNotFound)
		assert.ErrorIs(t, st.Coupons.Delete(ctx, id), store.ErrNotFound)
		assert.ErrorIs(t, st.Announcements.Delete(ctx, id), store.ErrNotFound)
		assert.ErrorIs(t, st.Users.DeleteById(ctx, id), store.ErrNotFound)
	}
}

func TestCouponCodesAreUnique(t *testing.T) {
	ctx := context.Background()
	_, st := New()

	a := &schemas.Coupon{Code: "A", DiscountAmount: 10}
	require.NoError(t, st.Coupons.Insert(ctx, a))
	require.NoError(t, st.Coupons.Insert(ctx, &schemas.Coupon{Code: "B", DiscountAmount: 10}))
	assert.ErrorIs(t, st.Coupons.Insert(ctx, &schemas.Coupon{Code: "A"}), store.ErrDuplicate)

	_, err := st.Coupons.Update(ctx, a.Id.Hex(), &store.CouponUpdate{Code: ptr("B")})
	assert.ErrorIs(t, err, store.ErrDuplicate)

	// renaming to its own code is not a conflict
	_, err = st.Coupons.Update(ctx, a.Id.Hex(), &store.CouponUpdate{Code: ptr("A"), DiscountAmount: ptr(5.0)})
	assert.NoError(t, err)
}
