package kvstore

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func newStoreForTest(t *testing.T) (*Store, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return New(client), mr
}

func TestSetGetRoundTrip(t *testing.T) {
	store, _ := newStoreForTest(t)
	ctx := context.Background()

	value := map[string]any{"pair": "", "email": "user@test.com", "type": "access"}
	if err := store.Set(ctx, "abc:token1", value, time.Minute); err != nil {
		t.Fatalf("set: %v", err)
	}

	got, ok, err := store.Get(ctx, "abc:token1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if !ok {
		t.Fatal("expected key to exist")
	}
	if got["email"] != "user@test.com" || got["type"] != "access" {
		t.Fatalf("unexpected value: %+v", got)
	}
}

func TestGetMissingKey(t *testing.T) {
	store, _ := newStoreForTest(t)

	_, ok, err := store.Get(context.Background(), "nope")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if ok {
		t.Fatal("expected missing key")
	}
}

func TestSetAppliesTTL(t *testing.T) {
	store, mr := newStoreForTest(t)
	ctx := context.Background()

	if err := store.Set(ctx, "k", map[string]any{"a": "b"}, time.Minute); err != nil {
		t.Fatalf("set: %v", err)
	}
	if mr.TTL("k") != time.Minute {
		t.Fatalf("expected 1m ttl, got %v", mr.TTL("k"))
	}

	mr.FastForward(2 * time.Minute)
	_, ok, err := store.Get(ctx, "k")
	if err != nil {
		t.Fatalf("get after expiry: %v", err)
	}
	if ok {
		t.Fatal("expected key to be expired")
	}
}

func TestHas(t *testing.T) {
	store, _ := newStoreForTest(t)
	ctx := context.Background()

	if err := store.Set(ctx, "present", map[string]any{"x": "y"}, 0); err != nil {
		t.Fatalf("set: %v", err)
	}
	ok, err := store.Has(ctx, "present")
	if err != nil || !ok {
		t.Fatalf("expected present key, ok=%v err=%v", ok, err)
	}
	ok, err = store.Has(ctx, "absent")
	if err != nil || ok {
		t.Fatalf("expected absent key, ok=%v err=%v", ok, err)
	}
}

func TestSearchSkipsUndecodableAndEmptyValues(t *testing.T) {
	store, mr := newStoreForTest(t)
	ctx := context.Background()

	if err := store.Set(ctx, "alias1:tok", map[string]any{"type": "access"}, 0); err != nil {
		t.Fatalf("set: %v", err)
	}
	mr.Set("alias2:tok", "not-json")
	mr.Set("alias3:tok", "{}")

	values, err := store.Search(ctx, "*:tok")
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(values) != 1 {
		t.Fatalf("expected 1 decoded value, got %d", len(values))
	}
	if values[0]["type"] != "access" {
		t.Fatalf("unexpected value: %+v", values[0])
	}
}

func TestDeletePatternWithExclusion(t *testing.T) {
	store, mr := newStoreForTest(t)
	ctx := context.Background()

	for _, key := range []string{"a:tok", "b:tok", "keep-me:tok"} {
		if err := store.Set(ctx, key, map[string]any{"x": "y"}, 0); err != nil {
			t.Fatalf("set %s: %v", key, err)
		}
	}

	if err := store.DeletePattern(ctx, "*:tok", "keep-me"); err != nil {
		t.Fatalf("delete pattern: %v", err)
	}
	if mr.Exists("a:tok") || mr.Exists("b:tok") {
		t.Fatal("expected matching keys to be deleted")
	}
	if !mr.Exists("keep-me:tok") {
		t.Fatal("expected excluded key to survive")
	}
}

func TestResetExpiration(t *testing.T) {
	store, mr := newStoreForTest(t)
	ctx := context.Background()

	if err := store.Set(ctx, "k", map[string]any{"x": "y"}, time.Minute); err != nil {
		t.Fatalf("set: %v", err)
	}
	if err := store.ResetExpiration(ctx, "k", time.Hour); err != nil {
		t.Fatalf("reset expiration: %v", err)
	}
	if mr.TTL("k") != time.Hour {
		t.Fatalf("expected 1h ttl, got %v", mr.TTL("k"))
	}

	if err := store.ResetExpiration(ctx, "missing", time.Hour); !errors.Is(err, ErrKeyNotFound) {
		t.Fatalf("expected ErrKeyNotFound, got %v", err)
	}
}
