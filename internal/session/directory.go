// Package session owns the durable side of the token lifecycle: one session
// record per live token, keyed "<subject alias>:<token>" in the key-value
// store, plus the pairing that ties an access token to its refresh sibling.
package session

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"go-todo-rbac-service/internal/kvstore"
	"go-todo-rbac-service/internal/security"
)

type Lifetimes struct {
	Access  time.Duration
	Refresh time.Duration
}

type Directory struct {
	store     *kvstore.Store
	lifetimes Lifetimes
	logger    *slog.Logger
}

func NewDirectory(store *kvstore.Store, lifetimes Lifetimes, logger *slog.Logger) *Directory {
	return &Directory{store: store, lifetimes: lifetimes, logger: logger}
}

func (d *Directory) TTLFor(tokenType string) (time.Duration, error) {
	switch tokenType {
	case security.TokenTypeAccess:
		return d.lifetimes.Access, nil
	case security.TokenTypeRefresh:
		return d.lifetimes.Refresh, nil
	default:
		return 0, fmt.Errorf("unknown token type %q", tokenType)
	}
}

func recordKey(identifier, token string) string {
	return security.SubjectAlias(identifier) + ":" + token
}

// Register writes a fresh session record for token. The record's store
// expiration matches the token type's nominal lifetime. The pair field
// starts empty; Link fills it in shortly after within the issuing request.
func (d *Directory) Register(ctx context.Context, token, identifier, tokenType string, extra map[string]any) error {
	ttl, err := d.TTLFor(tokenType)
	if err != nil {
		return err
	}
	record := map[string]any{
		"pair":  "",
		"email": identifier,
		"type":  tokenType,
	}
	for k, v := range extra {
		record[k] = v
	}
	if err := d.store.Set(ctx, recordKey(identifier, token), record, ttl); err != nil {
		return err
	}
	d.logger.DebugContext(ctx, "session record registered", "type", tokenType)
	return nil
}

// Lookup scans for any alias-prefixed key ending in token and returns the
// first match. O(store size) in the worst case; fine at expected session
// counts.
func (d *Directory) Lookup(ctx context.Context, token string) (map[string]any, bool, error) {
	values, err := d.store.Search(ctx, "*:"+token)
	if err != nil {
		return nil, false, err
	}
	if len(values) == 0 {
		return nil, false, nil
	}
	return values[0], true, nil
}

// LookupStrict fetches the record by its exact key when the identifier is
// already known, avoiding the scan.
func (d *Directory) LookupStrict(ctx context.Context, token, identifier string) (map[string]any, bool, error) {
	return d.store.Get(ctx, recordKey(identifier, token))
}

// LookupAliased fetches the record by exact key when the caller already holds
// the alias, typically lifted from a decoded token's subject claim.
func (d *Directory) LookupAliased(ctx context.Context, token, alias string) (map[string]any, bool, error) {
	return d.store.Get(ctx, alias+":"+token)
}

// RevokeMany deletes every record filed under any alias for each token.
// Empty token strings are skipped.
func (d *Directory) RevokeMany(ctx context.Context, tokens []string) error {
	for _, token := range tokens {
		if token == "" {
			continue
		}
		pattern := "*:" + token
		values, err := d.store.Search(ctx, pattern)
		if err != nil {
			return err
		}
		if len(values) == 0 {
			continue
		}
		if err := d.store.DeletePattern(ctx, pattern, ""); err != nil {
			return err
		}
	}
	return nil
}

// persist rewrites an existing record, recomputing the TTL from the record's
// own type so access and refresh sides re-expire independently.
func (d *Directory) persist(ctx context.Context, identifier, token string, record map[string]any) error {
	tokenType, _ := record["type"].(string)
	ttl, err := d.TTLFor(tokenType)
	if err != nil {
		return err
	}
	return d.store.Set(ctx, recordKey(identifier, token), record, ttl)
}
