package security

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const (
	TokenTypeAccess  = "access"
	TokenTypeRefresh = "refresh"

	// Subject aliases are the first bytes of the identifier's base64 form.
	// Lossy and collision-prone across similar identifiers; the real
	// identity always comes from the session record, never from the alias.
	subjectAliasLength = 10
)

var (
	ErrTokenExpired      = errors.New("token has expired")
	ErrTokenInvalid      = errors.New("invalid token")
	ErrInvalidAuthHeader = errors.New("invalid authorization header")
)

// TokenCodec signs and verifies tokens with a shared secret. It is purely
// cryptographic: registration state lives in the session directory.
type TokenCodec struct {
	secret []byte
	method jwt.SigningMethod
}

func NewTokenCodec(secret, algorithm string) (*TokenCodec, error) {
	method := jwt.GetSigningMethod(algorithm)
	if method == nil {
		return nil, fmt.Errorf("unknown signing algorithm %q", algorithm)
	}
	if _, ok := method.(*jwt.SigningMethodHMAC); !ok {
		return nil, fmt.Errorf("unsupported signing algorithm %q", algorithm)
	}
	return &TokenCodec{secret: []byte(secret), method: method}, nil
}

// Encode signs a copy of claims extended with an absolute expiry.
func (c *TokenCodec) Encode(claims map[string]any, ttl time.Duration) (string, error) {
	payload := jwt.MapClaims{}
	for k, v := range claims {
		payload[k] = v
	}
	payload["exp"] = jwt.NewNumericDate(time.Now().UTC().Add(ttl))
	return jwt.NewWithClaims(c.method, payload).SignedString(c.secret)
}

// Decode verifies signature and expiry and returns the claims.
// ErrTokenExpired is returned when the token is past its expiry; any other
// signature or structure failure maps to ErrTokenInvalid.
func (c *TokenCodec) Decode(token string) (map[string]any, error) {
	parsed, err := jwt.Parse(token, func(t *jwt.Token) (any, error) {
		if t.Method.Alg() != c.method.Alg() {
			return nil, ErrTokenInvalid
		}
		return c.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, ErrTokenInvalid
	}
	claims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		return nil, ErrTokenInvalid
	}
	return map[string]any(claims), nil
}

// SplitAuthHeader deconstructs an Authorization header into scheme and token.
func SplitAuthHeader(header string) (string, string, error) {
	parts := strings.Fields(header)
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", ErrInvalidAuthHeader
	}
	return parts[0], parts[1], nil
}

// BasicCredential encodes a login and password into the base64 blob a basic
// Authorization header carries after the scheme.
func BasicCredential(login, password string) string {
	return base64Encode(login + ":" + password)
}

// SubjectAlias derives the store-key namespace prefix for an identifier.
func SubjectAlias(identifier string) string {
	encoded := base64Encode(identifier)
	if len(encoded) > subjectAliasLength {
		return encoded[:subjectAliasLength]
	}
	return encoded
}
