package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"runtime"
	"scmsapi/internal/identity"
	"scmsapi/internal/store"
	"scmsapi/pkg/config"
	"scmsapi/pkg/utils"
	"strings"

	"github.com/go-chi/render"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

type Handler struct {
	Logger   *zap.Logger
	Validate *validator.Validate
	Store    *store.Store
	Verifier identity.Verifier
	Payments utils.PaymentProcessor
	Locker   utils.Locker
	Notifier utils.Notifier      // optional
	Images   utils.ImageUploader // optional
	Currency string
}

type ResParams struct {
	W       http.ResponseWriter
	R       *http.Request
	Code    int
	Err     error
	ReqData any // for logs
	ResData any
}

type Message struct {
	Message string `json:"message"`
}

type ctxKey string

const identityKey ctxKey = "identity"

func WithIdentity(ctx context.Context, ident *identity.Identity) context.Context {
	return context.WithValue(ctx, identityKey, ident)
}

// IdentityFrom returns the verified caller. Only valid behind AuthMiddleware.
func IdentityFrom(ctx context.Context) *identity.Identity {
	ident, _ := ctx.Value(identityKey).(*identity.Identity)
	return ident
}

func (h *Handler) AuthMiddleware(f http.HandlerFunc) http.HandlerFunc {

	return func(w http.ResponseWriter, r *http.Request) {
		resParams := &ResParams{W: w, R: r}

		header := r.Header.Get("Authorization")
		parts := strings.Split(header, " ")
		if len(parts) != 2 || parts[0] != "Bearer" || parts[1] == "" {
			resParams.Err = errors.New("missing token")
			resParams.Code = http.StatusUnauthorized
			resParams.ResData = &Message{Message: "unauthorized access"}
			h.Res(resParams)
			return
		}

		ident, err := h.Verifier.Verify(r.Context(), parts[1])
		if err != nil {
			resParams.Err = err
			resParams.Code = http.StatusForbidden
			resParams.ResData = &Message{Message: "forbidden access"}
			h.Res(resParams)
			return
		}

		f(w, r.WithContext(WithIdentity(r.Context(), ident)))
	}

}

// IsAdmin is the authorization policy: the caller's stored role must be admin.
// A caller without a user record is not an admin.
func (h *Handler) IsAdmin(ctx context.Context, email string) (bool, error) {
	user, err := h.Store.Users.FindByEmail(ctx, email)
	if errors.Is(err, store.ErrNotFound) {
		return false, nil
	} else if err != nil {
		return false, err
	}
	return user.Role == config.ROLE_ADMIN, nil
}

type Capability int

const (
	CapOther Capability = iota
	CapSelf
	CapAdmin
)

// Capability classifies the caller relative to a document owned by ownerEmail.
func (h *Handler) Capability(ctx context.Context, ownerEmail string) (Capability, error) {
	ident := IdentityFrom(ctx)
	admin, err := h.IsAdmin(ctx, ident.Email)
	if err != nil {
		return CapOther, err
	}
	if admin {
		return CapAdmin, nil
	}
	if ownerEmail != "" && ownerEmail == ident.Email {
		return CapSelf, nil
	}
	return CapOther, nil
}

// AdminOnly must be wrapped by AuthMiddleware.
func (h *Handler) AdminOnly(f http.HandlerFunc) http.HandlerFunc {

	return func(w http.ResponseWriter, r *http.Request) {
		resParams := &ResParams{W: w, R: r}

		ident := IdentityFrom(r.Context())
		admin, err := h.IsAdmin(r.Context(), ident.Email)
		if err != nil {
			resParams.Err = err
			resParams.Code = http.StatusInternalServerError
			h.Res(resParams)
			return
		}
		if !admin {
			resParams.Err = fmt.Errorf("%s is not an admin", ident.Email)
			resParams.Code = http.StatusForbidden
			resParams.ResData = &Message{Message: "forbidden access"}
			h.Res(resParams)
			return
		}

		f(w, r)
	}

}

// Bind decodes a json body into dst and validates it. The returned error is
// safe to show to the caller.
func (h *Handler) Bind(r *http.Request, dst any) error {

	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(dst); err != nil {
		return fmt.Errorf("invalid request body: %w", err)
	}

	if err := h.Validate.Struct(dst); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			fe := verrs[0]
			if fe.Tag() == "required" {
				return fmt.Errorf("Missing field: %s", fe.Field())
			}
			return fmt.Errorf("Invalid field: %s", fe.Field())
		}
		return err
	}

	return nil

}

// Release runs an unlock returned by Locker. A failed release leaves the
// booking locked until the ttl runs out.
func (h *Handler) Release(bookingId string, unlock func() error) {
	if err := unlock(); err != nil {
		h.Logger.Warn("booking lock not released",
			zap.String("booking_id", bookingId),
			zap.Error(err),
		)
	}
}

// StoreErr maps store errors onto response codes.
func StoreErr(resParams *ResParams, err error, what string) {
	resParams.Err = err
	switch {
	case errors.Is(err, store.ErrNotFound):
		resParams.Code = http.StatusNotFound
		resParams.ResData = &Message{Message: what + " not found"}
	case errors.Is(err, store.ErrDuplicate):
		resParams.Code = http.StatusConflict
		resParams.ResData = &Message{Message: what + " already exists"}
	default:
		resParams.Code = http.StatusInternalServerError
	}
}

func (h *Handler) Res(params *ResParams) {

	if params.Err != nil && errors.Is(params.Err, context.Canceled) {
		return
	}

	pc, file, line, ok := runtime.Caller(1)
	var caller string
	if !ok {
		caller = "unknown"
	}
	fn := runtime.FuncForPC(pc)
	caller = fmt.Sprintf("%s:%d (%s)", file, line, fn.Name())

	// handle logging
	if params.Code >= 500 {
		h.Logger.Error("Error at "+caller,
			zap.Error(params.Err),
			zap.Any("request_data", params.ReqData),
		)
		// never leak upstream errors
		params.ResData = &Message{Message: "internal server error"}
	} else if params.Code >= 400 {
		h.Logger.Warn("Warning at "+caller,
			zap.Error(params.Err),
			zap.Any("request_data", params.ReqData),
		)
		if params.ResData == nil {
			msg := http.StatusText(params.Code)
			if params.Err != nil {
				msg = params.Err.Error()
			}
			params.ResData = &Message{Message: msg}
		}
	}

	render.Status(params.R, params.Code)
	render.JSON(params.W, params.R, params.ResData)

}
