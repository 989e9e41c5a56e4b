// Package memstore is an in-memory store.Store used by handler tests.
package memstore

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"scmsapi/internal/store"
	"scmsapi/pkg/config"
	"scmsapi/pkg/schemas"

	"go.mongodb.org/mongo-driver/v2/bson"
)

type DB struct {
	mu            sync.Mutex
	users         []*schemas.User
	courts        []*schemas.Court
	bookings      []*schemas.Booking
	payments      []*schemas.Payment
	coupons       []*schemas.Coupon
	announcements []*schemas.Announcement

	// FailPromotion makes the member promotion step of an approval fail, to
	// exercise the all-or-nothing behaviour of Approve.
	FailPromotion error
}

func New() (*DB, *store.Store) {
	db := &DB{}
	return db, &store.Store{
		Users:         &users{db},
		Courts:        &courts{db},
		Bookings:      &bookings{db},
		Payments:      &payments{db},
		Coupons:       &coupons{db},
		Announcements: &announcements{db},
	}
}

func containsFold(s string, sub string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(sub))
}

func indexOf[T any](docs []*T, id string, getId func(*T) bson.ObjectID) int {
	oid, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return -1
	}
	for i, d := range docs {
		if getId(d) == oid {
			return i
		}
	}
	return -1
}

func copyAll[T any](docs []*T, keep func(*T) bool) []T {
	out := []T{}
	for _, d := range docs {
		if keep == nil || keep(d) {
			out = append(out, *d)
		}
	}
	return out
}

func remove[T any](docs []*T, i int) []*T {
	return append(docs[:i], docs[i+1:]...)
}

// Users

type users struct{ db *DB }

func userId(u *schemas.User) bson.ObjectID { return u.Id }

func (s *users) find(email string) *schemas.User {
	for _, u := range s.db.users {
		if u.Email == email {
			return u
		}
	}
	return nil
}

func (s *users) FindByEmail(_ context.Context, email string) (*schemas.User, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	u := s.find(email)
	if u == nil {
		return nil, store.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (s *users) InsertIfAbsent(_ context.Context, user *schemas.User) (bool, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	if s.find(user.Email) != nil {
		return false, nil
	}
	user.Id = bson.NewObjectID()
	cp := *user
	s.db.users = append(s.db.users, &cp)
	return true, nil
}

func (s *users) List(_ context.Context, filter store.UserFilter) ([]schemas.User, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	out := copyAll(s.db.users, func(u *schemas.User) bool {
		if filter.Email != "" {
			return u.Email == filter.Email
		}
		if filter.Search != "" {
			return containsFold(u.Name, filter.Search) || containsFold(u.Email, filter.Search)
		}
		return true
	})
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (s *users) ListMembers(_ context.Context, search string) ([]schemas.User, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	out := copyAll(s.db.users, func(u *schemas.User) bool {
		return u.Role == config.ROLE_MEMBER && (search == "" || containsFold(u.Name, search))
	})
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i].MemberSince, out[j].MemberSince
		if a == nil || b == nil {
			return b == nil && a != nil
		}
		return a.After(*b)
	})
	return out, nil
}

func (s *users) UpdateByEmail(_ context.Context, email string, update *store.UserUpdate) (*schemas.User, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	u := s.find(email)
	if u == nil {
		return nil, store.ErrNotFound
	}
	update.Apply(u, time.Now().UTC())
	cp := *u
	return &cp, nil
}

func (s *users) EnsureRole(_ context.Context, email string, role string) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	if u := s.find(email); u != nil {
		u.Role = role
		return nil
	}
	s.db.users = append(s.db.users, &schemas.User{
		Id:        bson.NewObjectID(),
		Email:     email,
		Role:      role,
		CreatedAt: time.Now().UTC(),
	})
	return nil
}

func (s *users) DeleteById(_ context.Context, id string) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	i := indexOf(s.db.users, id, userId)
	if i < 0 {
		return store.ErrNotFound
	}
	s.db.users = remove(s.db.users, i)
	return nil
}

func (s *users) Count(_ context.Context, role string) (int64, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	return int64(len(copyAll(s.db.users, func(u *schemas.User) bool {
		return role == "" || u.Role == role
	}))), nil
}

// Courts

type courts struct{ db *DB }

func courtId(c *schemas.Court) bson.ObjectID { return c.Id }

func (s *courts) Insert(_ context.Context, court *schemas.Court) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	court.Id = bson.NewObjectID()
	cp := *court
	s.db.courts = append(s.db.courts, &cp)
	return nil
}

func (s *courts) FindById(_ context.Context, id string) (*schemas.Court, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	i := indexOf(s.db.courts, id, courtId)
	if i < 0 {
		return nil, store.ErrNotFound
	}
	cp := *s.db.courts[i]
	return &cp, nil
}

func (s *courts) List(_ context.Context) ([]schemas.Court, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	out := copyAll(s.db.courts, nil)
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (s *courts) Update(_ context.Context, id string, update *store.CourtUpdate) (*schemas.Court, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	i := indexOf(s.db.courts, id, courtId)
	if i < 0 {
		return nil, store.ErrNotFound
	}
	update.Apply(s.db.courts[i])
	cp := *s.db.courts[i]
	return &cp, nil
}

func (s *courts) Delete(_ context.Context, id string) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	i := indexOf(s.db.courts, id, courtId)
	if i < 0 {
		return store.ErrNotFound
	}
	s.db.courts = remove(s.db.courts, i)
	return nil
}

func (s *courts) Count(_ context.Context) (int64, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	return int64(len(s.db.courts)), nil
}

// Coupons

type coupons struct{ db *DB }

func couponId(c *schemas.Coupon) bson.ObjectID { return c.Id }

func (s *coupons) findCode(code string) *schemas.Coupon {
	for _, c := range s.db.coupons {
		if c.Code == code {
			return c
		}
	}
	return nil
}

func (s *coupons) Insert(_ context.Context, coupon *schemas.Coupon) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	if s.findCode(coupon.Code) != nil {
		return store.ErrDuplicate
	}
	coupon.Id = bson.NewObjectID()
	cp := *coupon
	s.db.coupons = append(s.db.coupons, &cp)
	return nil
}

func (s *coupons) FindByCode(_ context.Context, code string) (*schemas.Coupon, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	c := s.findCode(code)
	if c == nil {
		return nil, store.ErrNotFound
	}
	cp := *c
	return &cp, nil
}

func (s *coupons) List(_ context.Context) ([]schemas.Coupon, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	out := copyAll(s.db.coupons, nil)
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (s *coupons) Update(_ context.Context, id string, update *store.CouponUpdate) (*schemas.Coupon, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	i := indexOf(s.db.coupons, id, couponId)
	if i < 0 {
		return nil, store.ErrNotFound
	}
	if update.Code != nil {
		if c := s.findCode(*update.Code); c != nil && c != s.db.coupons[i] {
			return nil, store.ErrDuplicate
		}
	}
	update.Apply(s.db.coupons[i])
	cp := *s.db.coupons[i]
	return &cp, nil
}

func (s *coupons) Delete(_ context.Context, id string) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	i := indexOf(s.db.coupons, id, couponId)
	if i < 0 {
		return store.ErrNotFound
	}
	s.db.coupons = remove(s.db.coupons, i)
	return nil
}

// Announcements

type announcements struct{ db *DB }

func announcementId(a *schemas.Announcement) bson.ObjectID { return a.Id }

func (s *announcements) Insert(_ context.Context, a *schemas.Announcement) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	a.Id = bson.NewObjectID()
	cp := *a
	s.db.announcements = append(s.db.announcements, &cp)
	return nil
}

func (s *announcements) List(_ context.Context) ([]schemas.Announcement, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	out := copyAll(s.db.announcements, nil)
	sort.SliceStable(out, func(i, j int) bool { return out[i].PostAt.After(out[j].PostAt) })
	return out, nil
}

func (s *announcements) Update(_ context.Context, id string, update *store.AnnouncementUpdate) (*schemas.Announcement, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	i := indexOf(s.db.announcements, id, announcementId)
	if i < 0 {
		return nil, store.ErrNotFound
	}
	update.Apply(s.db.announcements[i])
	cp := *s.db.announcements[i]
	return &cp, nil
}

func (s *announcements) Delete(_ context.Context, id string) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	i := indexOf(s.db.announcements, id, announcementId)
	if i < 0 {
		return store.ErrNotFound
	}
	s.db.announcements = remove(s.db.announcements, i)
	return nil
}
