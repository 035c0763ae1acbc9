// Package auth issues and verifies bearer tokens, hashes credentials and
// decides whether an identity may perform an operation.
package auth

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/dmitrijs2005/mediakeeper/internal/common"
	"github.com/dmitrijs2005/mediakeeper/internal/server/models"
	"github.com/golang-jwt/jwt/v5"
)

// Identity is the verified principal behind a request.
type Identity struct {
	ID   uint64
	Name string
	Role models.Role
}

func (i Identity) IsAdmin() bool { return i.Role == models.RoleAdmin }

// IdentityOf builds the token identity of an account.
func IdentityOf(a models.Account) Identity {
	return Identity{ID: a.ID, Name: a.Username, Role: a.Role}
}

// Claims is the token payload. Subject carries the decimal account id.
type Claims struct {
	Name string      `json:"name"`
	Role models.Role `json:"roles"`
	jwt.RegisteredClaims
}

var signingMethod = jwt.SigningMethodHS512

// Codec signs and verifies tokens for one issuer/audience pair.
type Codec struct {
	key      []byte
	issuer   string
	audience string
	ttl      time.Duration
	now      func() time.Time
}

func NewCodec(key []byte, issuer, audience string, ttl time.Duration) *Codec {
	return &Codec{
		key:      key,
		issuer:   issuer,
		audience: audience,
		ttl:      ttl,
		now:      time.Now,
	}
}

// WithClock returns a copy of c reading the current time from now.
func (c *Codec) WithClock(now func() time.Time) *Codec {
	cp := *c
	cp.now = now
	return &cp
}

// Issue signs a token for identity that expires ttl from now.
func (c *Codec) Issue(identity Identity) (string, error) {
	if identity.ID == 0 {
		return "", errors.New("cannot issue a token for id 0")
	}

	now := c.now()
	token := jwt.NewWithClaims(signingMethod, Claims{
		Name: identity.Name,
		Role: identity.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatUint(identity.ID, 10),
			Issuer:    c.issuer,
			Audience:  jwt.ClaimStrings{c.audience},
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(c.ttl)),
		},
	})

	tokenString, err := token.SignedString(c.key)
	if err != nil {
		return "", err
	}

	return tokenString, nil
}

// Verify checks signature, algorithm, issuer, audience and expiry and returns
// the claims. Expiry is exact: a token is dead at its exp second. Failures
// wrap common.ErrInvalidToken, expiry wraps common.ErrTokenExpired.
func (c *Codec) Verify(tokenString string) (*Claims, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims,
		func(t *jwt.Token) (any, error) {
			return c.key, nil
		},
		jwt.WithValidMethods([]string{signingMethod.Alg()}),
		jwt.WithIssuer(c.issuer),
		jwt.WithAudience(c.audience),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(c.now),
		jwt.WithLeeway(0),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, fmt.Errorf("%w: %v", common.ErrTokenExpired, err)
		}
		return nil, fmt.Errorf("%w: %v", common.ErrInvalidToken, err)
	}

	if !token.Valid {
		return nil, common.ErrInvalidToken
	}

	if _, err := c.Identity(claims); err != nil {
		return nil, err
	}

	return claims, nil
}

// Identity converts verified claims into an Identity.
func (c *Codec) Identity(claims *Claims) (Identity, error) {
	id, err := strconv.ParseUint(claims.Subject, 10, 64)
	if err != nil || id == 0 {
		return Identity{}, fmt.Errorf("%w: bad subject %q", common.ErrInvalidToken, claims.Subject)
	}
	if claims.Name == "" {
		return Identity{}, fmt.Errorf("%w: missing name", common.ErrInvalidToken)
	}
	return Identity{ID: id, Name: claims.Name, Role: claims.Role}, nil
}

// Issue is the one-shot form of Codec.Issue.
func Issue(identity Identity, key []byte, issuer, audience string, ttl time.Duration) (string, error) {
	return NewCodec(key, issuer, audience, ttl).Issue(identity)
}

// Verify is the one-shot form of Codec.Verify followed by Codec.Identity.
func Verify(tokenString string, key []byte, issuer, audience string) (Identity, error) {
	c := NewCodec(key, issuer, audience, 0)
	claims, err := c.Verify(tokenString)
	if err != nil {
		return Identity{}, err
	}
	return c.Identity(claims)
}
