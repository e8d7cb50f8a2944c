package users

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func newTestRedisStore(t *testing.T) (*RedisStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return newRedisStore(client, ""), mr
}

func onboardedRecord(id int64) Record {
	rec := NewRecord(Identity{ID: id, Username: "alice", FirstName: "Alice"})
	rec.Name = "Alice"
	rec.Email = "alice@example.com"
	rec.TaskIndex = 0
	return rec
}

func mustEncode(t *testing.T, rec Record) string {
	t.Helper()
	data, err := Encode(rec)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	return string(data)
}

func TestRedisStoreLoadMissing(t *testing.T) {
	store, _ := newTestRedisStore(t)

	if _, err := store.Load(context.Background(), 1); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestRedisStoreSaveOverwrites(t *testing.T) {
	ctx := context.Background()
	store, mr := newTestRedisStore(t)

	if err := store.Save(ctx, NewRecord(Identity{ID: 100})); err != nil {
		t.Fatalf("save: %v", err)
	}
	rec := onboardedRecord(100)
	rec.TaskIndex = 2
	rec.Score = 1
	if err := store.Save(ctx, rec); err != nil {
		t.Fatalf("second save: %v", err)
	}

	got, err := store.Load(ctx, 100)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got != rec {
		t.Fatalf("expected %+v, got %+v", rec, got)
	}
	raw, err := mr.Get("quiz:user:100")
	if err != nil {
		t.Fatalf("raw get: %v", err)
	}
	if !strings.Contains(raw, `"task":2`) || !strings.Contains(raw, `"score":1`) {
		t.Fatalf("unexpected stored document %s", raw)
	}
	if ttl := mr.TTL("quiz:user:100"); ttl != 0 {
		t.Fatalf("records must not expire, ttl %v", ttl)
	}
}

func TestRedisStoreRejectsCorruptAndMismatchedDocuments(t *testing.T) {
	ctx := context.Background()
	store, mr := newTestRedisStore(t)

	if err := mr.Set("quiz:user:5", `{"id": 5}`); err != nil {
		t.Fatal(err)
	}
	if _, err := store.Load(ctx, 5); !errors.Is(err, ErrCorruptRecord) {
		t.Fatalf("expected ErrCorruptRecord for partial document, got %v", err)
	}

	if err := mr.Set("quiz:user:7", mustEncode(t, onboardedRecord(8))); err != nil {
		t.Fatal(err)
	}
	if _, err := store.Load(ctx, 7); !errors.Is(err, ErrCorruptRecord) {
		t.Fatalf("expected ErrCorruptRecord for foreign id, got %v", err)
	}
}

func TestRedisStoreListSkipsForeignAndCorruptKeys(t *testing.T) {
	ctx := context.Background()
	store, mr := newTestRedisStore(t)

	for _, id := range []int64{1, 2} {
		if err := store.Save(ctx, onboardedRecord(id)); err != nil {
			t.Fatalf("save %d: %v", id, err)
		}
	}
	for key, val := range map[string]string{
		"quiz:user:abc": "{}",
		"quiz:user:9":   `{"id": 9}`,
		"session:3":     mustEncode(t, onboardedRecord(3)),
	} {
		if err := mr.Set(key, val); err != nil {
			t.Fatal(err)
		}
	}

	recs, err := store.List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(recs) != 2 {
		t.Fatalf("expected 2 records, got %+v", recs)
	}
	for _, rec := range recs {
		if rec.ID != 1 && rec.ID != 2 {
			t.Fatalf("unexpected record %+v", rec)
		}
	}
}

func TestNewRedisStorePingsServer(t *testing.T) {
	ctx := context.Background()
	mr := miniredis.RunT(t)

	store, err := NewRedisStore(ctx, RedisConfig{Addr: mr.Addr(), Prefix: "dod:"})
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	if err := store.Save(ctx, onboardedRecord(4)); err != nil {
		t.Fatalf("save: %v", err)
	}
	if !mr.Exists("dod:4") {
		t.Fatal("expected record under the configured prefix")
	}
	if err := store.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	mr.Close()
	if _, err := NewRedisStore(ctx, RedisConfig{Addr: mr.Addr()}); err == nil {
		t.Fatal("expected ping failure against a stopped server")
	}
}
