package auth

import (
	"context"
	"strings"

	"mealplanner/internal/shared"

	"google.golang.org/api/idtoken"
)

// Identity is the caller as asserted by Google.
type Identity struct {
	ExternalID string
	Name       string
	Email      string
	AvatarURL  *string
}

// GoogleVerifier validates Google ID tokens issued for one OAuth client.
type GoogleVerifier struct {
	clientID string
	validate func(ctx context.Context, token, audience string) (*idtoken.Payload, error)
}

// NewGoogleVerifier creates a verifier for tokens minted for clientID.
func NewGoogleVerifier(clientID string) *GoogleVerifier {
	return &GoogleVerifier{clientID: clientID, validate: idtoken.Validate}
}

// Verify validates credential and extracts the identity claims.
func (g *GoogleVerifier) Verify(ctx context.Context, credential string) (Identity, error) {
	if strings.TrimSpace(credential) == "" {
		return Identity{}, shared.Validation("credential is required")
	}

	payload, err := g.validate(ctx, credential, g.clientID)
	if err != nil {
		return Identity{}, shared.Unauthorized("invalid google credential", err)
	}

	id := Identity{
		ExternalID: payload.Subject,
		Name:       claim(payload, "name"),
		Email:      claim(payload, "email"),
	}
	if pic := claim(payload, "picture"); pic != "" {
		id.AvatarURL = &pic
	}
	if id.Name == "" {
		id.Name = id.Email
	}
	if id.ExternalID == "" || id.Email == "" {
		return Identity{}, shared.Unauthorized("google credential is missing subject or email", nil)
	}
	return id, nil
}

func claim(p *idtoken.Payload, name string) string {
	v, _ := p.Claims[name].(string)
	return v
}
