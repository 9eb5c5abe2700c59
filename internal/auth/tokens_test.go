package auth

import (
	"strings"
	"testing"
	"time"

	"mealplanner/internal/shared"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testKey      = "0123456789abcdef0123456789abcdef"
	testIssuer   = "mealplanner"
	testAudience = "mealplanner-web"
)

func TestIssue(t *testing.T) {
	tokens := NewTokens(testKey, testIssuer, testAudience)
	subject := Subject{ID: uuid.New(), Email: "ada@example.com", Name: "Ada"}

	before := time.Now()
	session, err := tokens.Issue(subject)
	require.NoError(t, err)

	parts := strings.Split(session.Token, ".")
	require.Len(t, parts, 3)
	for i, p := range parts {
		assert.NotEmpty(t, p, "segment %d", i)
	}

	claims := &Claims{}
	_, _, err = jwt.NewParser().ParseUnverified(session.Token, claims)
	require.NoError(t, err)

	assert.Equal(t, subject.ID.String(), claims.Subject)
	assert.Equal(t, "ada@example.com", claims.Email)
	assert.Equal(t, "Ada", claims.Name)
	assert.Equal(t, testIssuer, claims.Issuer)
	assert.Equal(t, jwt.ClaimStrings{testAudience}, claims.Audience)
	_, err = uuid.Parse(claims.ID)
	assert.NoError(t, err, "jti should be a uuid")

	require.NotNil(t, claims.IssuedAt)
	require.NotNil(t, claims.ExpiresAt)
	assert.WithinDuration(t, before, claims.IssuedAt.Time, time.Second)
	assert.WithinDuration(t, claims.IssuedAt.Add(7*24*time.Hour), claims.ExpiresAt.Time, time.Second)
	assert.True(t, session.ExpiresAt.Equal(claims.ExpiresAt.Time))
}

func TestIssueUniqueTokenIDs(t *testing.T) {
	tokens := NewTokens(testKey, testIssuer, testAudience)
	subject := Subject{ID: uuid.New()}

	a, err := tokens.Issue(subject)
	require.NoError(t, err)
	b, err := tokens.Issue(subject)
	require.NoError(t, err)
	assert.NotEqual(t, a.Token, b.Token)
}

func TestVerify(t *testing.T) {
	tokens := NewTokens(testKey, testIssuer, testAudience)
	subject := Subject{ID: uuid.New(), Email: "ada@example.com", Name: "Ada"}
	session, err := tokens.Issue(subject)
	require.NoError(t, err)

	t.Run("Valid", func(t *testing.T) {
		claims, err := tokens.Verify(session.Token)
		require.NoError(t, err)
		assert.Equal(t, subject.ID, claims.UserID())
	})

	rejects := map[string]*Tokens{
		"WrongKey":      NewTokens("ffffffffffffffffffffffffffffffff", testIssuer, testAudience),
		"WrongIssuer":   NewTokens(testKey, "someone-else", testAudience),
		"WrongAudience": NewTokens(testKey, testIssuer, "another-app"),
	}
	for name, verifier := range rejects {
		t.Run(name, func(t *testing.T) {
			_, err := verifier.Verify(session.Token)
			assert.True(t, shared.IsKind(err, shared.KindUnauthorized), "got %v", err)
		})
	}

	t.Run("Expired", func(t *testing.T) {
		later := NewTokens(testKey, testIssuer, testAudience)
		later.now = func() time.Time { return time.Now().Add(SessionTTL + 2*time.Second) }
		_, err := later.Verify(session.Token)
		assert.True(t, shared.IsKind(err, shared.KindUnauthorized))
	})

	t.Run("NoneAlgorithm", func(t *testing.T) {
		unsigned, err := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{
			"sub": subject.ID.String(),
			"iss": testIssuer,
			"aud": testAudience,
			"exp": time.Now().Add(time.Hour).Unix(),
		}).SignedString(jwt.UnsafeAllowNoneSignatureType)
		require.NoError(t, err)

		_, err = tokens.Verify(unsigned)
		assert.True(t, shared.IsKind(err, shared.KindUnauthorized))
	})

	t.Run("Garbage", func(t *testing.T) {
		_, err := tokens.Verify("not.a.token")
		assert.Error(t, err)
	})
}
