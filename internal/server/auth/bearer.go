package auth

import (
	"fmt"
	"strings"

	"github.com/dmitrijs2005/mediakeeper/internal/common"
)

const bearerScheme = "bearer"

// BearerToken extracts the token from an Authorization header value of the
// form "Bearer <token>". The scheme is case-insensitive; anything else,
// including extra fields, reports ok=false.
func BearerToken(header string) (string, bool) {
	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, bearerScheme) {
		return "", false
	}
	if token == "" || strings.ContainsAny(token, " \t\r\n") {
		return "", false
	}
	return token, true
}

// Authenticator turns a raw Authorization header into an Identity.
type Authenticator struct {
	codec *Codec
}

func NewAuthenticator(codec *Codec) *Authenticator {
	return &Authenticator{codec: codec}
}

// Authenticate fails closed: a missing or malformed header and any token
// verification failure all report common.ErrorUnauthorized.
func (a *Authenticator) Authenticate(header string) (*Identity, error) {
	token, ok := BearerToken(header)
	if !ok {
		return nil, common.ErrorUnauthorized
	}

	claims, err := a.codec.Verify(token)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", common.ErrorUnauthorized, err)
	}

	id, err := a.codec.Identity(claims)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", common.ErrorUnauthorized, err)
	}
	return &id, nil
}
