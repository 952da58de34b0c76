package redis

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"

	"cartflow/pkg/cart"
)

func newKV(t *testing.T, ttl time.Duration) (*KV, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return New(client, "cartflow:", ttl), mr
}

func TestKVMissingKey(t *testing.T) {
	kv, _ := newKV(t, 0)
	if _, err := kv.Get(context.Background(), "cart:abc"); !errors.Is(err, cart.ErrSlotEmpty) {
		t.Fatalf("expected ErrSlotEmpty, got %v", err)
	}
}

func TestKVSetGet(t *testing.T) {
	ctx := context.Background()
	kv, mr := newKV(t, time.Hour)
	if err := kv.Set(ctx, "cart:abc", []byte(`[]`)); err != nil {
		t.Fatalf("set: %v", err)
	}
	got, err := kv.Get(ctx, "cart:abc")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if string(got) != "[]" {
		t.Fatalf("expected [], got %s", got)
	}
	if !mr.Exists("cartflow:cart:abc") {
		t.Fatal("expected prefixed key in redis")
	}
	if ttl := mr.TTL("cartflow:cart:abc"); ttl != time.Hour {
		t.Fatalf("expected 1h ttl, got %s", ttl)
	}
	mr.FastForward(2 * time.Hour)
	if _, err := kv.Get(ctx, "cart:abc"); !errors.Is(err, cart.ErrSlotEmpty) {
		t.Fatalf("expected expired slot, got %v", err)
	}
}

func TestPersistenceOverRedis(t *testing.T) {
	ctx := context.Background()
	kv, _ := newKV(t, 0)
	p := cart.NewPersistence(kv, cart.SessionKey("s1"), nil)

	s := cart.Open(ctx, p, nil)
	s.AddItem(ctx, "Pizza", decimal.RequireFromString("30.00"))
	s.AddItem(ctx, "Pizza", decimal.RequireFromString("30.00"))

	got := cart.Open(ctx, p, nil).Snapshot()
	if len(got.Entries) != 1 || got.Entries[0].Quantity != 2 {
		t.Fatalf("unexpected restored cart: %+v", got)
	}
	if !got.Total.Equal(decimal.RequireFromString("60")) {
		t.Fatalf("expected total 60, got %s", got.Total)
	}
}

func TestKVBackendDown(t *testing.T) {
	kv, mr := newKV(t, 0)
	mr.Close()
	p := cart.NewPersistence(kv, cart.Key, nil)
	if c := p.Load(context.Background()); !c.IsEmpty() {
		t.Fatalf("expected empty cart when redis is unreachable, got %+v", c)
	}
}
