package store

import (
	"context"
	"errors"
	"scmsapi/pkg/config"
	"scmsapi/pkg/schemas"
	"time"
)

var (
	ErrNotFound  = errors.New("document not found")
	ErrDuplicate = errors.New("duplicate document")
)

// Store is the handle every request handler is built with. Each collection is
// behind its own interface so handlers can be tested against memstore.
type Store struct {
	Users         UserStore
	Courts        CourtStore
	Bookings      BookingStore
	Payments      PaymentStore
	Coupons       CouponStore
	Announcements AnnouncementStore
}

type UserFilter struct {
	Email  string
	Search string // name or email, case-insensitive substring
}

type BookingFilter struct {
	UserEmail string
	Status    string
	Search    string // court title, case-insensitive substring
}

type PaymentFilter struct {
	UserEmail string
}

type UserUpdate struct {
	Name     *string `json:"name" validate:"omitempty,maxgraphemes=64"`
	PhotoURL *string `json:"photoURL" validate:"omitempty,url"`
	Role     *string `json:"role" validate:"omitempty,role"`
}

func (u *UserUpdate) Empty() bool {
	return u.Name == nil && u.PhotoURL == nil && u.Role == nil
}

// Apply mirrors the membership bookkeeping of a role change: becoming a member
// keeps an existing memberSince or starts one now, becoming a plain user ends it.
func (u *UserUpdate) Apply(user *schemas.User, now time.Time) {
	if u.Name != nil {
		user.Name = *u.Name
	}
	if u.PhotoURL != nil {
		user.PhotoURL = *u.PhotoURL
	}
	if u.Role != nil {
		user.Role = *u.Role
		switch *u.Role {
		case config.ROLE_MEMBER:
			user.IsMember = true
			if user.MemberSince == nil {
				user.MemberSince = &now
			}
		case config.ROLE_USER:
			user.IsMember = false
			user.MemberSince = nil
		}
	}
}

type CourtUpdate struct {
	Image *string   `json:"image" validate:"omitempty,url"`
	Type  *string   `json:"type" validate:"omitempty,maxgraphemes=48"`
	Title *string   `json:"title" validate:"omitempty,maxgraphemes=96"`
	Slots *[]string `json:"slots" validate:"omitempty,min=1,dive,required"`
	Price *float64  `json:"price" validate:"omitempty,gt=0"`
}

func (u *CourtUpdate) Empty() bool {
	return u.Image == nil && u.Type == nil && u.Title == nil && u.Slots == nil && u.Price == nil
}

func (u *CourtUpdate) Apply(court *schemas.Court) {
	if u.Image != nil {
		court.Image = *u.Image
	}
	if u.Type != nil {
		court.Type = *u.Type
	}
	if u.Title != nil {
		court.Title = *u.Title
	}
	if u.Slots != nil {
		court.Slots = *u.Slots
	}
	if u.Price != nil {
		court.Price = *u.Price
	}
}

type CouponUpdate struct {
	Code           *string  `json:"code" validate:"omitempty,couponcode"`
	DiscountAmount *float64 `json:"discountAmount" validate:"omitempty,gt=0,lte=100"`
	Description    *string  `json:"description" validate:"omitempty,maxgraphemes=256"`
}

func (u *CouponUpdate) Empty() bool {
	return u.Code == nil && u.DiscountAmount == nil && u.Description == nil
}

func (u *CouponUpdate) Apply(coupon *schemas.Coupon) {
	if u.Code != nil {
		coupon.Code = *u.Code
	}
	if u.DiscountAmount != nil {
		coupon.DiscountAmount = *u.DiscountAmount
	}
	if u.Description != nil {
		coupon.Description = *u.Description
	}
}

type AnnouncementUpdate struct {
	Title   *string    `json:"title" validate:"omitempty,maxgraphemes=128"`
	Content *string    `json:"content" validate:"omitempty,maxgraphemes=4096"`
	PostAt  *time.Time `json:"postAt"`
}

func (u *AnnouncementUpdate) Empty() bool {
	return u.Title == nil && u.Content == nil && u.PostAt == nil
}

func (u *AnnouncementUpdate) Apply(a *schemas.Announcement) {
	if u.Title != nil {
		a.Title = *u.Title
	}
	if u.Content != nil {
		a.Content = *u.Content
	}
	if u.PostAt != nil {
		a.PostAt = *u.PostAt
	}
}

type UserStore interface {
	FindByEmail(ctx context.Context, email string) (*schemas.User, error)
	// InsertIfAbsent reports false when a user with the same email already exists.
	InsertIfAbsent(ctx context.Context, user *schemas.User) (bool, error)
	List(ctx context.Context, filter UserFilter) ([]schemas.User, error)
	ListMembers(ctx context.Context, search string) ([]schemas.User, error)
	UpdateByEmail(ctx context.Context, email string, update *UserUpdate) (*schemas.User, error)
	// EnsureRole upserts the user with the given role, used to seed the admin account.
	EnsureRole(ctx context.Context, email string, role string) error
	DeleteById(ctx context.Context, id string) error
	Count(ctx context.Context, role string) (int64, error)
}

type CourtStore interface {
	Insert(ctx context.Context, court *schemas.Court) error
	FindById(ctx context.Context, id string) (*schemas.Court, error)
	List(ctx context.Context) ([]schemas.Court, error)
	Update(ctx context.Context, id string, update *CourtUpdate) (*schemas.Court, error)
	Delete(ctx context.Context, id string) error
	Count(ctx context.Context) (int64, error)
}

type BookingStore interface {
	Insert(ctx context.Context, booking *schemas.Booking) error
	FindById(ctx context.Context, id string) (*schemas.Booking, error)
	List(ctx context.Context, filter BookingFilter) ([]schemas.Booking, error)
	CountByStatus(ctx context.Context, userEmail string) (map[string]int64, error)
	Delete(ctx context.Context, id string) error
	Count(ctx context.Context) (int64, error)
	// Approve moves a pending booking to approved and promotes its owner to
	// member as one unit of work.
	Approve(ctx context.Context, id string, discountedPrice *float64, now time.Time) (*schemas.Booking, *schemas.User, error)
	Reject(ctx context.Context, id string) (*schemas.Booking, error)
}

type PaymentStore interface {
	// Record stores the payment and confirms its booking as one unit of work.
	// Recording an already known payment intent returns the stored payment and false.
	Record(ctx context.Context, payment *schemas.Payment) (*schemas.Payment, bool, error)
	List(ctx context.Context, filter PaymentFilter) ([]schemas.Payment, error)
	Total(ctx context.Context, filter PaymentFilter) (float64, int64, error)
	Count(ctx context.Context) (int64, error)
}

type CouponStore interface {
	Insert(ctx context.Context, coupon *schemas.Coupon) error
	FindByCode(ctx context.Context, code string) (*schemas.Coupon, error)
	List(ctx context.Context) ([]schemas.Coupon, error)
	Update(ctx context.Context, id string, update *CouponUpdate) (*schemas.Coupon, error)
	Delete(ctx context.Context, id string) error
}

type AnnouncementStore interface {
	Insert(ctx context.Context, announcement *schemas.Announcement) error
	List(ctx context.Context) ([]schemas.Announcement, error)
	Update(ctx context.Context, id string, update *AnnouncementUpdate) (*schemas.Announcement, error)
	Delete(ctx context.Context, id string) error
}
