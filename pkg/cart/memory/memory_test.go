package memory

import (
	"context"
	"errors"
	"testing"

	"cartflow/pkg/cart"
)

func TestKV(t *testing.T) {
	ctx := context.Background()
	kv := New()
	if _, err := kv.Get(ctx, "cart"); !errors.Is(err, cart.ErrSlotEmpty) {
		t.Fatalf("expected ErrSlotEmpty, got %v", err)
	}
	if err := kv.Set(ctx, "cart", []byte(`[]`)); err != nil {
		t.Fatalf("set: %v", err)
	}
	got, err := kv.Get(ctx, "cart")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if string(got) != "[]" {
		t.Fatalf("expected [], got %s", got)
	}
	got[0] = 'x'
	again, _ := kv.Get(ctx, "cart")
	if string(again) != "[]" {
		t.Fatal("stored value was mutated through a returned slice")
	}
	if err := kv.Set(ctx, "cart", []byte(`[{}]`)); err != nil {
		t.Fatalf("overwrite: %v", err)
	}
	again, _ = kv.Get(ctx, "cart")
	if string(again) != "[{}]" {
		t.Fatalf("expected overwrite, got %s", again)
	}
}
