package identity

import (
	"context"
	"errors"
	"fmt"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/auth"
	"google.golang.org/api/option"
)

var ErrNoEmail = errors.New("token carries no email claim")

type Identity struct {
	UID     string `json:"uid"`
	Email   string `json:"email"`
	Name    string `json:"name,omitempty"`
	Picture string `json:"picture,omitempty"`
}

// Verifier checks a bearer token with the identity provider.
type Verifier interface {
	Verify(ctx context.Context, token string) (*Identity, error)
}

type FirebaseVerifier struct {
	client *auth.Client
}

func NewFirebaseVerifier(ctx context.Context, credentialsFile string) (*FirebaseVerifier, error) {

	app, err := firebase.NewApp(ctx, nil, option.WithCredentialsFile(credentialsFile))
	if err != nil {
		return nil, fmt.Errorf("init firebase app: %w", err)
	}

	client, err := app.Auth(ctx)
	if err != nil {
		return nil, fmt.Errorf("init firebase auth: %w", err)
	}

	return &FirebaseVerifier{client: client}, nil

}

func (v *FirebaseVerifier) Verify(ctx context.Context, token string) (*Identity, error) {

	decoded, err := v.client.VerifyIDToken(ctx, token)
	if err != nil {
		return nil, err
	}

	return FromClaims(decoded.UID, decoded.Claims)

}

// FromClaims builds an identity from decoded token claims. Email is required
// since every ownership check keys on it.
func FromClaims(uid string, claims map[string]any) (*Identity, error) {

	email, _ := claims["email"].(string)
	if email == "" {
		return nil, ErrNoEmail
	}
	name, _ := claims["name"].(string)
	picture, _ := claims["picture"].(string)

	return &Identity{
		UID:     uid,
		Email:   email,
		Name:    name,
		Picture: picture,
	}, nil

}
