package auth

import (
	"context"
	"errors"

	"google.golang.org/api/idtoken"
)

var (
	ErrGoogleNotConfigured = errors.New("google sign-in is not configured")
	ErrInvalidGoogleToken  = errors.New("invalid google credential")
)

// GoogleIdentity is the subset of the verified ID token this backend
// cares about.
type GoogleIdentity struct {
	Email string
	Name  string
}

// GoogleVerifier validates Google ID tokens against the configured
// OAuth client ID.
type GoogleVerifier struct {
	clientID string
}

func NewGoogleVerifier(clientID string) *GoogleVerifier {
	return &GoogleVerifier{clientID: clientID}
}

// Verify checks the credential's signature and audience and extracts
// the identity claims.
func (v *GoogleVerifier) Verify(ctx context.Context, credential string) (*GoogleIdentity, error) {
	if v.clientID == "" {
		return nil, ErrGoogleNotConfigured
	}

	payload, err := idtoken.Validate(ctx, credential, v.clientID)
	if err != nil {
		return nil, ErrInvalidGoogleToken
	}

	email, _ := payload.Claims["email"].(string)
	if email == "" {
		return nil, ErrInvalidGoogleToken
	}
	name, _ := payload.Claims["name"].(string)

	return &GoogleIdentity{Email: email, Name: name}, nil
}
