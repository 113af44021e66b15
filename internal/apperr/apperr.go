// Package apperr carries classified, user-facing failures from the point of
// detection up to the HTTP layer. Every error holds a kind, an HTTP status
// and a localizable message key; handlers translate the key per request.
package apperr

import (
	"errors"
	"fmt"
)

type Kind string

const (
	KindInvalidHeader      Kind = "invalid_header"
	KindInvalidType        Kind = "invalid_type"
	KindInvalidStructure   Kind = "invalid_structure"
	KindInvalidCredentials Kind = "invalid_credentials"
	KindInactiveUser       Kind = "inactive_user"
	KindExpiredSignature   Kind = "expired_signature"
	KindInvalidToken       Kind = "invalid_token"
	KindInvalidAccessToken Kind = "invalid_access_token"
	KindNotFound           Kind = "not_found"
	KindAlreadyRevoked     Kind = "already_revoked"
	KindNotRevoked         Kind = "not_revoked"
	KindGeneric            Kind = "generic_error"
)

type Error struct {
	Kind       Kind
	Status     int
	MessageKey string
	cause      error
}

func New(kind Kind, status int, messageKey string) *Error {
	return &Error{Kind: kind, Status: status, MessageKey: messageKey}
}

func Wrap(kind Kind, status int, messageKey string, cause error) *Error {
	return &Error{Kind: kind, Status: status, MessageKey: messageKey, cause: cause}
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.Kind, e.cause)
	}
	return string(e.Kind)
}

func (e *Error) Unwrap() error { return e.cause }

// From extracts a classified error from err's chain.
func From(err error) (*Error, bool) {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

func IsKind(err error, kind Kind) bool {
	appErr, ok := From(err)
	return ok && appErr.Kind == kind
}
