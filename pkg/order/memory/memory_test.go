package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"cartflow/pkg/order"
)

func TestRepository(t *testing.T) {
	ctx := context.Background()
	repo := New()
	placed := time.Date(2026, 10, 20, 20, 0, 0, 0, time.UTC)
	o := order.Order{
		ID:           "1",
		CustomerName: "Ana",
		Lines:        []order.Line{{Name: "Pizza", UnitPrice: decimal.NewFromInt(30), Quantity: 2}},
		Total:        decimal.NewFromInt(60),
		PlacedAt:     placed,
	}
	if err := repo.Create(ctx, o); err != nil {
		t.Fatalf("create: %v", err)
	}
	got, err := repo.Get(ctx, "1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.CustomerName != "Ana" || len(got.Lines) != 1 {
		t.Fatalf("unexpected order: %+v", got)
	}
	got.Lines[0].Quantity = 5
	again, _ := repo.Get(ctx, "1")
	if again.Lines[0].Quantity != 2 {
		t.Fatal("stored order was mutated through a returned value")
	}

	if err := repo.Create(ctx, order.Order{ID: "2", PlacedAt: placed.Add(time.Hour)}); err != nil {
		t.Fatalf("create: %v", err)
	}
	list, err := repo.List(ctx)
	if err != nil || len(list) != 2 {
		t.Fatalf("list: %v len=%d", err, len(list))
	}
	if list[0].ID != "2" {
		t.Fatalf("expected newest first, got %s", list[0].ID)
	}
	if _, err := repo.Get(ctx, "3"); !errors.Is(err, order.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
