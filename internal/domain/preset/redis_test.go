package preset

import (
	"context"
	"errors"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
)

func TestRedisStoreLifecycle(t *testing.T) {
	ctx := context.Background()
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("start miniredis: %v", err)
	}
	defer mr.Close()

	store, err := NewRedis(Config{
		TTL: time.Minute,
		Redis: &RedisConfig{
			Addr: mr.Addr(),
		},
	})
	if err != nil {
		t.Fatalf("NewRedis error: %v", err)
	}
	t.Cleanup(func() {
		_ = store.Close(ctx)
	})

	p := Preset{
		Name:             "crt",
		Source:           "abcd",
		Dest:             "dcba",
		Mode:             "png",
		HeaderProtection: true,
	}
	if err := store.Save(ctx, p); err != nil {
		t.Fatalf("Save error: %v", err)
	}

	got, err := store.Get(ctx, p.Name)
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if got.Source != p.Source || got.Mode != p.Mode || !got.HeaderProtection {
		t.Fatalf("unexpected preset: %+v", got)
	}

	list, err := store.List(ctx)
	if err != nil {
		t.Fatalf("List error: %v", err)
	}
	if len(list) != 1 || list[0].Name != p.Name {
		t.Fatalf("unexpected list: %v", list)
	}

	if err := store.Remove(ctx, p.Name); err != nil {
		t.Fatalf("Remove error: %v", err)
	}
	if _, err := store.Get(ctx, p.Name); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound after removal, got %v", err)
	}
}

func TestRedisStoreTTLExpiry(t *testing.T) {
	ctx := context.Background()
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("start miniredis: %v", err)
	}
	defer mr.Close()

	store, err := NewRedis(Config{
		TTL: time.Second,
		Redis: &RedisConfig{
			Addr: mr.Addr(),
		},
	})
	if err != nil {
		t.Fatalf("NewRedis error: %v", err)
	}

	if err := store.Save(ctx, Preset{Name: "ephemeral", Mode: "jpeg"}); err != nil {
		t.Fatalf("Save error: %v", err)
	}

	mr.FastForward(2 * time.Second)

	if _, err := store.Get(ctx, "ephemeral"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected expiry, got %v", err)
	}
}

func TestNewRedisRequiresAddr(t *testing.T) {
	if _, err := NewRedis(Config{Redis: &RedisConfig{}}); err == nil {
		t.Fatalf("expected error for missing address")
	}
	if _, err := NewRedis(Config{}); err == nil {
		t.Fatalf("expected error for missing redis config")
	}
}
