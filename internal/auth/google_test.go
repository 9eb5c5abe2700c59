package auth

import (
	"context"
	"errors"
	"testing"

	"mealplanner/internal/shared"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/idtoken"
)

func TestGoogleVerifier(t *testing.T) {
	var gotAudience string
	v := &GoogleVerifier{
		clientID: "client-123",
		validate: func(ctx context.Context, token, audience string) (*idtoken.Payload, error) {
			gotAudience = audience
			switch token {
			case "good":
				return &idtoken.Payload{Subject: "1089", Claims: map[string]interface{}{
					"email":   "ada@example.com",
					"name":    "Ada",
					"picture": "https://example.com/ada.png",
				}}, nil
			case "no-email":
				return &idtoken.Payload{Subject: "1089", Claims: map[string]interface{}{}}, nil
			default:
				return nil, errors.New("idtoken: invalid token")
			}
		},
	}
	ctx := context.Background()

	id, err := v.Verify(ctx, "good")
	require.NoError(t, err)
	assert.Equal(t, "client-123", gotAudience)
	assert.Equal(t, "1089", id.ExternalID)
	assert.Equal(t, "Ada", id.Name)
	assert.Equal(t, "ada@example.com", id.Email)
	require.NotNil(t, id.AvatarURL)
	assert.Equal(t, "https://example.com/ada.png", *id.AvatarURL)

	_, err = v.Verify(ctx, "forged")
	assert.True(t, shared.IsKind(err, shared.KindUnauthorized))

	_, err = v.Verify(ctx, "no-email")
	assert.True(t, shared.IsKind(err, shared.KindUnauthorized))

	_, err = v.Verify(ctx, "  ")
	assert.True(t, shared.IsKind(err, shared.KindValidation))
}
