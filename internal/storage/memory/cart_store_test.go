package memory_test

import (
	"context"
	"testing"

	"github.com/Chinenye997/IMS/internal/domain"
	"github.com/Chinenye997/IMS/internal/storage/memory"
)

func TestCartStore_SaveGetClear(t *testing.T) {
	ctx := context.Background()
	carts := memory.NewCartStore()

	items, err := carts.Get(ctx, "session-1")
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if len(items) != 0 {
		t.Fatalf("expected empty cart, got %d items", len(items))
	}

	saved := []domain.CartItem{
		{ProductID: "p1", Name: "Widget", UnitPriceMinor: 1500, Quantity: 2},
	}
	if err := carts.Save(ctx, "session-1", saved); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	items, err = carts.Get(ctx, "session-1")
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if len(items) != 1 || items[0].ProductID != "p1" || items[0].Quantity != 2 {
		t.Fatalf("unexpected cart contents: %+v", items)
	}

	// Корзины сессий изолированы друг от друга.
	other, err := carts.Get(ctx, "session-2")
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if len(other) != 0 {
		t.Fatalf("expected empty cart for another session, got %d items", len(other))
	}

	if err := carts.Clear(ctx, "session-1"); err != nil {
		t.Fatalf("clear failed: %v", err)
	}
	items, err = carts.Get(ctx, "session-1")
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if len(items) != 0 {
		t.Fatalf("expected cleared cart, got %d items", len(items))
	}
}

func TestCartStore_GetReturnsCopy(t *testing.T) {
	ctx := context.Background()
	carts := memory.NewCartStore()

	if err := carts.Save(ctx, "session-1", []domain.CartItem{{ProductID: "p1", Quantity: 1}}); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	items, err := carts.Get(ctx, "session-1")
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	items[0].Quantity = 99

	fresh, err := carts.Get(ctx, "session-1")
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if fresh[0].Quantity != 1 {
		t.Fatalf("stored cart mutated through returned slice: %+v", fresh)
	}
}
