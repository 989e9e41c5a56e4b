package memstore

import (
	"context"
	"sort"
	"time"

	"scmsapi/internal/store"
	bookingutils "scmsapi/pkg/booking_utils"
	"scmsapi/pkg/config"
	"scmsapi/pkg/schemas"

	"go.mongodb.org/mongo-driver/v2/bson"
)

type bookings struct{ db *DB }

func bookingId(b *schemas.Booking) bson.ObjectID { return b.Id }

func matchBooking(b *schemas.Booking, filter store.BookingFilter) bool {
	if filter.UserEmail != "" && b.UserEmail != filter.UserEmail {
		return false
	}
	if filter.Status != "" && b.Status != filter.Status {
		return false
	}
	if filter.Search != "" && !containsFold(b.CourtTitle, filter.Search) {
		return false
	}
	return true
}

func (s *bookings) Insert(_ context.Context, booking *schemas.Booking) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	booking.Id = bson.NewObjectID()
	cp := *booking
	s.db.bookings = append(s.db.bookings, &cp)
	return nil
}

func (s *bookings) FindById(_ context.Context, id string) (*schemas.Booking, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	i := indexOf(s.db.bookings, id, bookingId)
	if i < 0 {
		return nil, store.ErrNotFound
	}
	cp := *s.db.bookings[i]
	return &cp, nil
}

func (s *bookings) List(_ context.Context, filter store.BookingFilter) ([]schemas.Booking, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	out := copyAll(s.db.bookings, func(b *schemas.Booking) bool { return matchBooking(b, filter) })
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Date != out[j].Date {
			return out[i].Date > out[j].Date
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (s *bookings) CountByStatus(_ context.Context, userEmail string) (map[string]int64, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	counts := map[string]int64{
		schemas.BookingPending:   0,
		schemas.BookingApproved:  0,
		schemas.BookingRejected:  0,
		schemas.BookingConfirmed: 0,
	}
	for _, b := range s.db.bookings {
		if userEmail == "" || b.UserEmail == userEmail {
			counts[b.Status]++
		}
	}
	return counts, nil
}

func (s *bookings) Delete(_ context.Context, id string) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	i := indexOf(s.db.bookings, id, bookingId)
	if i < 0 {
		return store.ErrNotFound
	}
	s.db.bookings = remove(s.db.bookings, i)
	return nil
}

func (s *bookings) Count(_ context.Context) (int64, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	return int64(len(s.db.bookings)), nil
}

func (s *bookings) Approve(_ context.Context, id string, discountedPrice *float64, now time.Time) (*schemas.Booking, *schemas.User, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	i := indexOf(s.db.bookings, id, bookingId)
	if i < 0 {
		return nil, nil, store.ErrNotFound
	}
	b := s.db.bookings[i]
	if err := bookingutils.CheckTransition(b.Status, schemas.BookingApproved); err != nil {
		return nil, nil, err
	}
	if s.db.FailPromotion != nil {
		// nothing written yet, same outcome as an aborted transaction
		return nil, nil, s.db.FailPromotion
	}

	b.Status = schemas.BookingApproved
	if discountedPrice != nil {
		dp := *discountedPrice
		b.DiscountedPrice = &dp
	}

	u := (&users{s.db}).find(b.UserEmail)
	if u == nil {
		u = &schemas.User{Id: bson.NewObjectID(), Email: b.UserEmail, CreatedAt: now}
		s.db.users = append(s.db.users, u)
	}
	if u.Role != config.ROLE_ADMIN {
		u.Role = config.ROLE_MEMBER
	}
	u.IsMember = true
	if u.MemberSince == nil {
		since := now
		u.MemberSince = &since
	}

	bc, uc := *b, *u
	return &bc, &uc, nil
}

func (s *bookings) Reject(_ context.Context, id string) (*schemas.Booking, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	i := indexOf(s.db.bookings, id, bookingId)
	if i < 0 {
		return nil, store.ErrNotFound
	}
	b := s.db.bookings[i]
	if err := bookingutils.CheckTransition(b.Status, schemas.BookingRejected); err != nil {
		return nil, err
	}
	b.Status = schemas.BookingRejected

	cp := *b
	return &cp, nil
}

// Payments

type payments struct{ db *DB }

func (s *payments) Record(_ context.Context, payment *schemas.Payment) (*schemas.Payment, bool, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	i := indexOf(s.db.bookings, payment.BookingId, bookingId)
	if i < 0 {
		return nil, false, store.ErrNotFound
	}

	var recorded *schemas.Payment
	for _, p := range s.db.payments {
		if p.PaymentIntentId == payment.PaymentIntentId {
			recorded = p
		}
	}
	created := recorded == nil
	if created {
		payment.Id = bson.NewObjectID()
		cp := *payment
		recorded = &cp
		s.db.payments = append(s.db.payments, recorded)
	}
	s.db.bookings[i].Status = schemas.BookingConfirmed

	cp := *recorded
	return &cp, created, nil
}

func (s *payments) List(_ context.Context, filter store.PaymentFilter) ([]schemas.Payment, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	out := copyAll(s.db.payments, func(p *schemas.Payment) bool {
		return filter.UserEmail == "" || p.UserEmail == filter.UserEmail
	})
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (s *payments) Total(ctx context.Context, filter store.PaymentFilter) (float64, int64, error) {
	list, _ := s.List(ctx, filter)
	var total float64
	for _, p := range list {
		total += p.Price
	}
	return total, int64(len(list)), nil
}

func (s *payments) Count(_ context.Context) (int64, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	return int64(len(s.db.payments)), nil
}
