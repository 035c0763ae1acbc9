package auth

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/dmitrijs2005/mediakeeper/internal/common"
	"github.com/dmitrijs2005/mediakeeper/internal/server/models"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	testKey = []byte("super-secret-signing-key")
	t0      = time.Unix(1_700_000_000, 0)
)

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func newTestCodec(ttl time.Duration) *Codec {
	return NewCodec(testKey, "mediakeeper", "clients", ttl).WithClock(fixedClock(t0))
}

func signMap(t *testing.T, method jwt.SigningMethod, key any, claims jwt.MapClaims) string {
	t.Helper()
	tok, err := jwt.NewWithClaims(method, claims).SignedString(key)
	require.NoError(t, err)
	return tok
}

func validMapClaims() jwt.MapClaims {
	return jwt.MapClaims{
		"name":  "alice",
		"roles": "Client",
		"sub":   "7",
		"iss":   "mediakeeper",
		"aud":   "clients",
		"exp":   t0.Add(time.Hour).Unix(),
	}
}

func TestIssueAndVerify_RoundTrip(t *testing.T) {
	t.Parallel()

	c := newTestCodec(time.Hour)
	want := Identity{ID: 42, Name: "alice", Role: models.RoleAdmin}

	tok, err := c.Issue(want)
	require.NoError(t, err)
	assert.Len(t, strings.Split(tok, "."), 3, "compact form has three segments")

	claims, err := c.Verify(tok)
	require.NoError(t, err)
	assert.Equal(t, "42", claims.Subject)
	assert.Equal(t, "mediakeeper", claims.Issuer)
	assert.Equal(t, jwt.ClaimStrings{"clients"}, claims.Audience)
	assert.Equal(t, t0.Add(time.Hour).Unix(), claims.ExpiresAt.Unix())

	got, err := c.Identity(claims)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestIssueAndVerify_FreeFunctions(t *testing.T) {
	t.Parallel()

	want := Identity{ID: 1, Name: "bob", Role: models.RoleClient}
	tok, err := Issue(want, testKey, "iss", "aud", time.Hour)
	require.NoError(t, err)

	got, err := Verify(tok, testKey, "iss", "aud")
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestIssue_HeaderUsesHS512(t *testing.T) {
	t.Parallel()

	tok, err := newTestCodec(time.Minute).Issue(Identity{ID: 1, Name: "a"})
	require.NoError(t, err)

	parsed, _, err := jwt.NewParser().ParseUnverified(tok, &Claims{})
	require.NoError(t, err)
	assert.Equal(t, "HS512", parsed.Header["alg"])
}

func TestIssue_RejectsZeroID(t *testing.T) {
	t.Parallel()

	_, err := newTestCodec(time.Minute).Issue(Identity{Name: "nobody"})
	require.Error(t, err)
}

func TestVerify_ExpiresExactlyAtTTL(t *testing.T) {
	t.Parallel()

	ttl := 90 * time.Second
	c := newTestCodec(ttl)
	tok, err := c.Issue(Identity{ID: 3, Name: "carol"})
	require.NoError(t, err)

	_, err = c.WithClock(fixedClock(t0.Add(ttl - time.Second))).Verify(tok)
	require.NoError(t, err, "one second before expiry is still valid")

	_, err = c.WithClock(fixedClock(t0.Add(ttl))).Verify(tok)
	require.Error(t, err)
	assert.ErrorIs(t, err, common.ErrTokenExpired)
	assert.ErrorIs(t, err, common.ErrInvalidToken, "expiry is a verification failure")

	_, err = c.WithClock(fixedClock(t0.Add(ttl + time.Hour))).Verify(tok)
	assert.ErrorIs(t, err, common.ErrTokenExpired)
}

func TestVerify_Failures(t *testing.T) {
	t.Parallel()

	c := newTestCodec(time.Hour)
	good, err := c.Issue(Identity{ID: 5, Name: "dave"})
	require.NoError(t, err)

	noName := validMapClaims()
	delete(noName, "name")
	zeroSub := validMapClaims()
	zeroSub["sub"] = "0"
	textSub := validMapClaims()
	textSub["sub"] = "alice"
	badRole := validMapClaims()
	badRole["roles"] = "Root"
	noExp := validMapClaims()
	delete(noExp, "exp")

	tests := []struct {
		name  string
		codec *Codec
		token string
	}{
		{"wrong key", NewCodec([]byte("other-key"), "mediakeeper", "clients", time.Hour).WithClock(fixedClock(t0)), good},
		{"wrong issuer", NewCodec(testKey, "someone-else", "clients", time.Hour).WithClock(fixedClock(t0)), good},
		{"wrong audience", NewCodec(testKey, "mediakeeper", "others", time.Hour).WithClock(fixedClock(t0)), good},
		{"two segments", c, "abc.def"},
		{"garbage", c, "not.a.jwt"},
		{"empty", c, ""},
		{"tampered payload", c, tamper(good)},
		{"wrong algorithm", c, signMap(t, jwt.SigningMethodHS256, testKey, validMapClaims())},
		{"alg none", c, signMap(t, jwt.SigningMethodNone, jwt.UnsafeAllowNoneSignatureType, validMapClaims())},
		{"missing name", c, signMap(t, jwt.SigningMethodHS512, testKey, noName)},
		{"zero subject", c, signMap(t, jwt.SigningMethodHS512, testKey, zeroSub)},
		{"non numeric subject", c, signMap(t, jwt.SigningMethodHS512, testKey, textSub)},
		{"unknown role", c, signMap(t, jwt.SigningMethodHS512, testKey, badRole)},
		{"missing expiry", c, signMap(t, jwt.SigningMethodHS512, testKey, noExp)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.codec.Verify(tt.token)
			require.Error(t, err)
			assert.True(t, errors.Is(err, common.ErrInvalidToken), "got %v", err)
			assert.False(t, errors.Is(err, common.ErrTokenExpired), "got %v", err)
		})
	}
}

func TestVerify_HandcraftedValidToken(t *testing.T) {
	t.Parallel()

	tok := signMap(t, jwt.SigningMethodHS512, testKey, validMapClaims())
	claims, err := newTestCodec(time.Hour).Verify(tok)
	require.NoError(t, err)
	assert.Equal(t, "alice", claims.Name)
	assert.Equal(t, models.RoleClient, claims.Role)
}

// tamper flips a character in the payload segment so the MAC no longer matches.
func tamper(tok string) string {
	parts := strings.Split(tok, ".")
	p := []byte(parts[1])
	if p[0] == 'A' {
		p[0] = 'B'
	} else {
		p[0] = 'A'
	}
	parts[1] = string(p)
	return strings.Join(parts, ".")
}
