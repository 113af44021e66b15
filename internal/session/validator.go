package session

import (
	"context"
	"errors"
	"net/http"

	"go-todo-rbac-service/internal/apperr"
	"go-todo-rbac-service/internal/security"
)

// Validator checks a token cryptographically and against the directory:
// signature, expiry, and a registered record of the expected type.
type Validator struct {
	codec *security.TokenCodec
	dir   *Directory
}

func NewValidator(codec *security.TokenCodec, dir *Directory) *Validator {
	return &Validator{codec: codec, dir: dir}
}

// Validate returns the decoded claims of a live token of tokenType.
// Failures carry the specific cause: expired signature, malformed token,
// or a missing/mismatched store record.
func (v *Validator) Validate(ctx context.Context, token, tokenType string) (map[string]any, error) {
	claims, err := v.codec.Decode(token)
	if err != nil {
		switch {
		case errors.Is(err, security.ErrTokenExpired):
			return nil, apperr.Wrap(apperr.KindExpiredSignature, http.StatusUnauthorized, "jwt_expired", err)
		case errors.Is(err, security.ErrTokenInvalid):
			return nil, apperr.Wrap(apperr.KindInvalidStructure, http.StatusUnauthorized, "jwt_invalid_structure", err)
		default:
			return nil, apperr.Wrap(apperr.KindGeneric, http.StatusInternalServerError, "generic_error", err)
		}
	}

	record, found, err := v.dir.Lookup(ctx, token)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindInvalidAccessToken, http.StatusUnauthorized, "jwt_invalid_access_token", err)
	}
	recordType, _ := record["type"].(string)
	if !found || recordType != tokenType {
		// A signed token with no live record of the right type reads as
		// expired to the caller; the original surfaces this as a 400.
		return nil, apperr.New(apperr.KindInvalidToken, http.StatusBadRequest, "jwt_expired")
	}
	return claims, nil
}
