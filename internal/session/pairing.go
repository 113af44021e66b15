package session

import (
	"context"
	"errors"
	"net/http"

	"go-todo-rbac-service/internal/apperr"
	"go-todo-rbac-service/internal/security"
)

// ErrUnpairedToken reports a pairing attempt against a token with no live
// session record.
var ErrUnpairedToken = errors.New("session record missing for pairing")

// Pairer links an access token and a refresh token so each record references
// its sibling, and tears both down together on revocation. Linking is two
// sequential read-modify-write cycles with no cross-key atomicity; a crash
// between them leaves one side linked and the other not.
type Pairer struct {
	dir       *Directory
	validator *Validator
}

func NewPairer(dir *Directory, validator *Validator) *Pairer {
	return &Pairer{dir: dir, validator: validator}
}

// Link sets each record's pair field to the sibling token. Each side is
// re-persisted with a TTL recomputed from that record's own type.
func (p *Pairer) Link(ctx context.Context, accessToken, refreshToken, identifier string) error {
	if err := p.relink(ctx, identifier, accessToken, refreshToken); err != nil {
		return err
	}
	return p.relink(ctx, identifier, refreshToken, accessToken)
}

func (p *Pairer) relink(ctx context.Context, identifier, target, sibling string) error {
	record, found, err := p.dir.LookupStrict(ctx, target, identifier)
	if err != nil {
		return err
	}
	if !found {
		return ErrUnpairedToken
	}
	record["pair"] = sibling
	return p.dir.persist(ctx, identifier, target, record)
}

// RevokePair validates both halves (access first, then refresh) and deletes
// their records. A pair failing validation is assumed to have already been
// torn down and surfaces as AlreadyRevoked.
func (p *Pairer) RevokePair(ctx context.Context, accessToken, refreshToken string) (bool, error) {
	if _, err := p.validator.Validate(ctx, accessToken, security.TokenTypeAccess); err != nil {
		return false, apperr.Wrap(apperr.KindAlreadyRevoked, http.StatusUnauthorized, "jwt_already_revoked", err)
	}
	if _, err := p.validator.Validate(ctx, refreshToken, security.TokenTypeRefresh); err != nil {
		return false, apperr.Wrap(apperr.KindAlreadyRevoked, http.StatusUnauthorized, "jwt_already_revoked", err)
	}
	if err := p.dir.RevokeMany(ctx, []string{accessToken, refreshToken}); err != nil {
		return false, err
	}
	return true, nil
}
