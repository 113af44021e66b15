package session

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"go-todo-rbac-service/internal/apperr"
	"go-todo-rbac-service/internal/kvstore"
	"go-todo-rbac-service/internal/security"
)

const testEmail = "admin@test.com"

type fixture struct {
	mr        *miniredis.Miniredis
	store     *kvstore.Store
	codec     *security.TokenCodec
	dir       *Directory
	validator *Validator
	pairer    *Pairer
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	store := kvstore.New(client)
	codec, err := security.NewTokenCodec("abcdefghijklmnopqrstuvwxyz123456", "HS256")
	if err != nil {
		t.Fatalf("new codec: %v", err)
	}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	dir := NewDirectory(store, Lifetimes{Access: time.Hour, Refresh: 7 * 24 * time.Hour}, logger)
	validator := NewValidator(codec, dir)
	return &fixture{
		mr:        mr,
		store:     store,
		codec:     codec,
		dir:       dir,
		validator: validator,
		pairer:    NewPairer(dir, validator),
	}
}

func (f *fixture) mintAndRegister(t *testing.T, tokenType string) string {
	t.Helper()
	ctx := context.Background()
	token, err := f.codec.Encode(map[string]any{
		"sub":  security.SubjectAlias(testEmail),
		"type": tokenType,
	}, time.Hour)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if err := f.dir.Register(ctx, token, testEmail, tokenType, nil); err != nil {
		t.Fatalf("register: %v", err)
	}
	return token
}

func TestRegisterAndLookup(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	token := f.mintAndRegister(t, security.TokenTypeAccess)

	record, found, err := f.dir.Lookup(ctx, token)
	if err != nil {
		t.Fatalf("lookup: %v", err)
	}
	if !found {
		t.Fatal("expected record")
	}
	if record["email"] != testEmail || record["type"] != "access" || record["pair"] != "" {
		t.Fatalf("unexpected record: %+v", record)
	}

	strict, found, err := f.dir.LookupStrict(ctx, token, testEmail)
	if err != nil || !found {
		t.Fatalf("lookup strict: found=%v err=%v", found, err)
	}
	if strict["email"] != testEmail {
		t.Fatalf("unexpected strict record: %+v", strict)
	}
}

func TestRegisterAppliesTypeLifetime(t *testing.T) {
	f := newFixture(t)

	access := f.mintAndRegister(t, security.TokenTypeAccess)
	refresh := f.mintAndRegister(t, security.TokenTypeRefresh)

	accessKey := security.SubjectAlias(testEmail) + ":" + access
	refreshKey := security.SubjectAlias(testEmail) + ":" + refresh
	if f.mr.TTL(accessKey) != time.Hour {
		t.Fatalf("expected 1h access ttl, got %v", f.mr.TTL(accessKey))
	}
	if f.mr.TTL(refreshKey) != 7*24*time.Hour {
		t.Fatalf("expected 7d refresh ttl, got %v", f.mr.TTL(refreshKey))
	}
}

func TestRegisterRejectsUnknownType(t *testing.T) {
	f := newFixture(t)
	if err := f.dir.Register(context.Background(), "tok", testEmail, "session", nil); err == nil {
		t.Fatal("expected error for unknown token type")
	}
}

func TestRevokeManyDeletesAcrossAliases(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	token := f.mintAndRegister(t, security.TokenTypeAccess)
	// Same token filed under another alias should also go away.
	if err := f.store.Set(ctx, "otheralias:"+token, map[string]any{"type": "access"}, 0); err != nil {
		t.Fatalf("set: %v", err)
	}

	if err := f.dir.RevokeMany(ctx, []string{token, ""}); err != nil {
		t.Fatalf("revoke many: %v", err)
	}
	if _, found, _ := f.dir.Lookup(ctx, token); found {
		t.Fatal("expected all records for token to be deleted")
	}
}

func TestLinkSetsMutualPairAndTTLs(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	access := f.mintAndRegister(t, security.TokenTypeAccess)
	refresh := f.mintAndRegister(t, security.TokenTypeRefresh)

	if err := f.pairer.Link(ctx, access, refresh, testEmail); err != nil {
		t.Fatalf("link: %v", err)
	}

	accessRec, _, err := f.dir.LookupStrict(ctx, access, testEmail)
	if err != nil {
		t.Fatalf("lookup access: %v", err)
	}
	refreshRec, _, err := f.dir.LookupStrict(ctx, refresh, testEmail)
	if err != nil {
		t.Fatalf("lookup refresh: %v", err)
	}
	if accessRec["pair"] != refresh {
		t.Fatalf("access pair = %v, want refresh token", accessRec["pair"])
	}
	if refreshRec["pair"] != access {
		t.Fatalf("refresh pair = %v, want access token", refreshRec["pair"])
	}

	// Each side keeps its own lifetime after relinking.
	alias := security.SubjectAlias(testEmail)
	if f.mr.TTL(alias+":"+access) != time.Hour {
		t.Fatalf("access ttl changed: %v", f.mr.TTL(alias+":"+access))
	}
	if f.mr.TTL(alias+":"+refresh) != 7*24*time.Hour {
		t.Fatalf("refresh ttl changed: %v", f.mr.TTL(alias+":"+refresh))
	}
}

func TestLinkFailsForMissingRecord(t *testing.T) {
	f := newFixture(t)
	access := f.mintAndRegister(t, security.TokenTypeAccess)

	err := f.pairer.Link(context.Background(), access, "never-registered", testEmail)
	if !errors.Is(err, ErrUnpairedToken) {
		t.Fatalf("expected ErrUnpairedToken, got %v", err)
	}
}

func TestValidateHappyPathAndTypeMismatch(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	access := f.mintAndRegister(t, security.TokenTypeAccess)

	claims, err := f.validator.Validate(ctx, access, security.TokenTypeAccess)
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if claims["sub"] != security.SubjectAlias(testEmail) {
		t.Fatalf("unexpected claims: %+v", claims)
	}

	// The same token is not valid as a refresh token.
	if _, err := f.validator.Validate(ctx, access, security.TokenTypeRefresh); !apperr.IsKind(err, apperr.KindInvalidToken) {
		t.Fatalf("expected KindInvalidToken for type mismatch, got %v", err)
	}
}

func TestValidateExpiredAndGarbageTokens(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	expired, err := f.codec.Encode(map[string]any{"sub": "x", "type": "access"}, -time.Minute)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if _, err := f.validator.Validate(ctx, expired, security.TokenTypeAccess); !apperr.IsKind(err, apperr.KindExpiredSignature) {
		t.Fatalf("expected KindExpiredSignature, got %v", err)
	}

	if _, err := f.validator.Validate(ctx, "garbage", security.TokenTypeAccess); !apperr.IsKind(err, apperr.KindInvalidStructure) {
		t.Fatalf("expected KindInvalidStructure, got %v", err)
	}
}

func TestValidateUnregisteredToken(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	token, err := f.codec.Encode(map[string]any{"sub": "x", "type": "access"}, time.Hour)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if _, err := f.validator.Validate(ctx, token, security.TokenTypeAccess); !apperr.IsKind(err, apperr.KindInvalidToken) {
		t.Fatalf("expected KindInvalidToken for unregistered token, got %v", err)
	}
}

func TestRevokePair(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	access := f.mintAndRegister(t, security.TokenTypeAccess)
	refresh := f.mintAndRegister(t, security.TokenTypeRefresh)
	if err := f.pairer.Link(ctx, access, refresh, testEmail); err != nil {
		t.Fatalf("link: %v", err)
	}

	ok, err := f.pairer.RevokePair(ctx, access, refresh)
	if err != nil || !ok {
		t.Fatalf("revoke pair: ok=%v err=%v", ok, err)
	}
	if _, found, _ := f.dir.Lookup(ctx, access); found {
		t.Fatal("access record should be gone")
	}
	if _, found, _ := f.dir.Lookup(ctx, refresh); found {
		t.Fatal("refresh record should be gone")
	}

	// Second revocation finds no live records and reads as already revoked.
	ok, err = f.pairer.RevokePair(ctx, access, refresh)
	if ok {
		t.Fatal("expected second revoke to fail")
	}
	if !apperr.IsKind(err, apperr.KindAlreadyRevoked) {
		t.Fatalf("expected KindAlreadyRevoked, got %v", err)
	}
}
