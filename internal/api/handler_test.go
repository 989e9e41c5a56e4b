package api_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"scmsapi/internal/api"
	"scmsapi/internal/api/apitest"
	"scmsapi/pkg/config"
	"scmsapi/pkg/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func okHandler(w http.ResponseWriter, r *http.Request) {
	ident := api.IdentityFrom(r.Context())
	w.Write([]byte(ident.Email))
}

func TestAuthMiddleware(t *testing.T) {
	env := apitest.New(t)
	token := env.Token("ana@example.com")
	h := env.Handler.AuthMiddleware(okHandler)

	tests := []struct {
		name   string
		header string
		code   int
		body   string
	}{
		{"no header", "", http.StatusUnauthorized, `{"message":"unauthorized access"}`},
		{"not bearer", "Basic " + token, http.StatusUnauthorized, `{"message":"unauthorized access"}`},
		{"empty token", "Bearer ", http.StatusUnauthorized, `{"message":"unauthorized access"}`},
		{"unknown token", "Bearer nope", http.StatusForbidden, `{"message":"forbidden access"}`},
		{"valid token", "Bearer " + token, http.StatusOK, "ana@example.com"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			h(rec, req)

			assert.Equal(t, tt.code, rec.Code)
			assert.Equal(t, tt.body, strings.TrimSpace(rec.Body.String()))
		})
	}
}

func TestAdminOnly(t *testing.T) {
	env := apitest.New(t)
	h := env.Handler.AuthMiddleware(env.Handler.AdminOnly(okHandler))

	adminToken := env.User(t, "root@example.com", config.ROLE_ADMIN)
	memberToken := env.User(t, "mem@example.com", config.ROLE_MEMBER)
	strangerToken := env.Token("nobody@example.com")

	rec := apitest.Do(t, h, http.MethodGet, "/", adminToken, nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = apitest.Do(t, h, http.MethodGet, "/", memberToken, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.JSONEq(t, `{"message":"forbidden access"}`, rec.Body.String())

	// no user record at all
	rec = apitest.Do(t, h, http.MethodGet, "/", strangerToken, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestCapability(t *testing.T) {
	env := apitest.New(t)
	env.User(t, "root@example.com", config.ROLE_ADMIN)
	env.User(t, "ana@example.com", config.ROLE_USER)

	ctxFor := func(email string) context.Context {
		token := env.Token(email)
		ident, err := env.Verifier.Verify(context.Background(), token)
		require.NoError(t, err)
		return api.WithIdentity(context.Background(), ident)
	}

	tests := []struct {
		caller string
		owner  string
		want   api.Capability
	}{
		{"root@example.com", "ana@example.com", api.CapAdmin},
		{"root@example.com", "root@example.com", api.CapAdmin},
		{"ana@example.com", "ana@example.com", api.CapSelf},
		{"ana@example.com", "bob@example.com", api.CapOther},
		{"ana@example.com", "", api.CapOther},
		{"ghost@example.com", "ghost@example.com", api.CapSelf},
	}

	for _, tt := range tests {
		got, err := env.Handler.Capability(ctxFor(tt.caller), tt.owner)
		require.NoError(t, err)
		assert.Equal(t, tt.want, got, "%s on %s", tt.caller, tt.owner)
	}
}

func TestBind(t *testing.T) {
	env := apitest.New(t)

	type body struct {
		Name  string  `json:"name" validate:"required"`
		Price float64 `json:"price" validate:"omitempty,gt=0"`
	}

	bind := func(raw string) error {
		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(raw))
		var b body
		return env.Handler.Bind(req, &b)
	}

	assert.NoError(t, bind(`{"name":"x","price":3}`))
	assert.EqualError(t, bind(`{"price":3}`), "Missing field: name")
	assert.EqualError(t, bind(`{"name":"x","price":-1}`), "Invalid field: price")
	assert.ErrorContains(t, bind(`{"name":"x","other":1}`), "invalid request body")
	assert.ErrorContains(t, bind(`not json`), "invalid request body")
}

func TestResHidesUpstreamErrors(t *testing.T) {
	env := apitest.New(t)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	env.Handler.Res(&api.ResParams{
		W:       rec,
		R:       req,
		Code:    http.StatusInternalServerError,
		Err:     errors.New("connection refused to db-7.internal"),
		ResData: map[string]string{"secret": "x"},
	})

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"message":"internal server error"}`, rec.Body.String())
}

func TestResClientErrorMessage(t *testing.T) {
	env := apitest.New(t)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	env.Handler.Res(&api.ResParams{
		W:    rec,
		R:    req,
		Code: http.StatusBadRequest,
		Err:  errors.New("Missing field: price"),
	})

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"message":"Missing field: price"}`, rec.Body.String())
}

func TestReleaseLogsFailedUnlock(t *testing.T) {
	env := apitest.New(t)
	core, logs := observer.New(zap.WarnLevel)
	env.Handler.Logger = zap.New(core)

	unlock, err := env.Locker.Lock(context.Background(), "b1")
	require.NoError(t, err)
	env.Handler.Release("b1", unlock)
	assert.Zero(t, logs.Len())

	env.Locker.ReleaseErr = utils.ErrLockExpired
	unlock, err = env.Locker.Lock(context.Background(), "b1")
	require.NoError(t, err)
	env.Handler.Release("b1", unlock)

	require.Equal(t, 1, logs.Len())
	entry := logs.All()[0]
	assert.Equal(t, "booking lock not released", entry.Message)
	assert.Equal(t, "b1", entry.ContextMap()["booking_id"])
	assert.False(t, env.Locker.Held("b1"))
}
