// Package apitest builds an api.Handler backed by memstore and in-process fakes
// of the external services.
package apitest

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"scmsapi/internal/api"
	"scmsapi/internal/identity"
	"scmsapi/internal/store"
	"scmsapi/internal/store/memstore"
	bookingutils "scmsapi/pkg/booking_utils"
	"scmsapi/pkg/schemas"
	"scmsapi/pkg/utils"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

const ValidSignature = "valid-signature"

var ErrBadToken = errors.New("token rejected")

type Verifier struct {
	mu     sync.Mutex
	tokens map[string]*identity.Identity
}

func (v *Verifier) Verify(_ context.Context, token string) (*identity.Identity, error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	ident, ok := v.tokens[token]
	if !ok {
		return nil, ErrBadToken
	}
	cp := *ident
	return &cp, nil
}

func (v *Verifier) add(token string, ident *identity.Identity) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.tokens[token] = ident
}

type CreatedIntent struct {
	Amount   int64
	Currency string
	Metadata map[string]string
}

// Processor keeps payment intents in memory. Webhook payloads are the json of
// a utils.PaymentEvent and are accepted only with ValidSignature.
type Processor struct {
	mu        sync.Mutex
	intents   map[string]*utils.PaymentIntent
	Created   []CreatedIntent
	CreateErr error
}

func (p *Processor) CreateIntent(_ context.Context, amount int64, currency string, metadata map[string]string) (*utils.PaymentIntent, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.CreateErr != nil {
		return nil, p.CreateErr
	}
	id := fmt.Sprintf("pi_%d", len(p.intents)+1)
	pi := &utils.PaymentIntent{
		Id:           id,
		ClientSecret: id + "_secret",
		Status:       "requires_payment_method",
		Amount:       amount,
		Metadata:     metadata,
	}
	p.intents[id] = pi
	p.Created = append(p.Created, CreatedIntent{Amount: amount, Currency: currency, Metadata: metadata})
	cp := *pi
	return &cp, nil
}

func (p *Processor) GetIntent(_ context.Context, id string) (*utils.PaymentIntent, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	pi, ok := p.intents[id]
	if !ok {
		return nil, fmt.Errorf("no such payment intent: %s", id)
	}
	cp := *pi
	return &cp, nil
}

func (p *Processor) ParseEvent(payload []byte, signature string) (*utils.PaymentEvent, error) {
	if signature != ValidSignature {
		return nil, errors.New("bad signature")
	}
	var event utils.PaymentEvent
	if err := json.Unmarshal(payload, &event); err != nil {
		return nil, err
	}
	return &event, nil
}

// Succeed marks an intent as paid, as the client side confirmation would.
func (p *Processor) Succeed(id string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.intents[id].Status = "succeeded"
}

// Put registers an intent directly.
func (p *Processor) Put(pi *utils.PaymentIntent) {
	p.mu.Lock()
	defer p.mu.Unlock()
	cp := *pi
	p.intents[pi.Id] = &cp
}

type Locker struct {
	mu   sync.Mutex
	held map[string]bool

	// ReleaseErr is returned by every unlock, the lock is still dropped.
	ReleaseErr error
}

func (l *Locker) Lock(_ context.Context, bookingId string) (func() error, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.held[bookingId] {
		return nil, utils.ErrBookingLocked
	}
	l.held[bookingId] = true
	return func() error {
		l.Release(bookingId)
		l.mu.Lock()
		defer l.mu.Unlock()
		return l.ReleaseErr
	}, nil
}

// Hold takes the lock as if another request were in flight.
func (l *Locker) Hold(bookingId string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.held[bookingId] = true
}

func (l *Locker) Release(bookingId string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.held, bookingId)
}

func (l *Locker) Held(bookingId string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.held[bookingId]
}

type Notifier struct {
	mu       sync.Mutex
	Approved []string
	Rejected []string
	Err      error
}

func (n *Notifier) BookingApproved(_ context.Context, booking *schemas.Booking) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.Approved = append(n.Approved, booking.Id.Hex())
	return n.Err
}

func (n *Notifier) BookingRejected(_ context.Context, booking *schemas.Booking) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.Rejected = append(n.Rejected, booking.Id.Hex())
	return n.Err
}

type Env struct {
	DB       *memstore.DB
	Store    *store.Store
	Handler  *api.Handler
	Verifier *Verifier
	Payments *Processor
	Locker   *Locker
	Notifier *Notifier
}

func New(t testing.TB) *Env {
	db, st := memstore.New()
	e := &Env{
		DB:       db,
		Store:    st,
		Verifier: &Verifier{tokens: map[string]*identity.Identity{}},
		Payments: &Processor{intents: map[string]*utils.PaymentIntent{}},
		Locker:   &Locker{held: map[string]bool{}},
		Notifier: &Notifier{},
	}
	e.Handler = &api.Handler{
		Logger:   zaptest.NewLogger(t),
		Validate: bookingutils.NewValidator(),
		Store:    st,
		Verifier: e.Verifier,
		Payments: e.Payments,
		Locker:   e.Locker,
		Notifier: e.Notifier,
		Currency: "usd",
	}
	return e
}

// Token issues a bearer token for email without creating a user record.
func (e *Env) Token(email string) string {
	token := "token-" + email
	e.Verifier.add(token, &identity.Identity{UID: "uid-" + email, Email: email, Name: email})
	return token
}

// User stores a user with the given role and returns a token for it.
func (e *Env) User(t testing.TB, email string, role string) string {
	require.NoError(t, e.Store.Users.EnsureRole(context.Background(), email, role))
	return e.Token(email)
}

// Booking stores a booking in the given status.
func (e *Env) Booking(t testing.TB, email string, price float64, status string) *schemas.Booking {
	b := &schemas.Booking{
		UserEmail:  email,
		CourtId:    "court-1",
		CourtTitle: "Center Court",
		CourtType:  "tennis",
		Date:       "2026-11-02",
		Slots:      []string{"09:00-10:00"},
		Price:      price,
		Status:     status,
		CreatedAt:  time.Now().UTC(),
	}
	require.NoError(t, e.Store.Bookings.Insert(context.Background(), b))
	return b
}

// Request builds a json request. A string body is sent as is.
func Request(t testing.TB, method string, path string, token string, body any) *http.Request {
	t.Helper()

	var r io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		r = bytes.NewBufferString(b)
	default:
		raw, err := json.Marshal(b)
		require.NoError(t, err)
		r = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, r)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return req
}

func Serve(h http.Handler, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

// Do sends a json request through h.
func Do(t testing.TB, h http.Handler, method string, path string, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	return Serve(h, Request(t, method, path, token, body))
}

// Decode unmarshals a recorded json response.
func Decode[T any](t testing.TB, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out
}
