package orderquery_test

import (
	"context"
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/Chinenye997/IMS/internal/domain"
	"github.com/Chinenye997/IMS/internal/service/orderquery"
	"github.com/Chinenye997/IMS/internal/service/requester"
	"github.com/Chinenye997/IMS/internal/service/sales"
	"github.com/Chinenye997/IMS/internal/storage/memory"
)

type fixture struct {
	products    *memory.ProductStore
	coordinator sales.Coordinator
	query       *orderquery.Service
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()

	products := memory.NewProductStore()
	for _, p := range []domain.Product{
		{ID: "p1", Name: "Laptop", PriceMinor: 250000, Quantity: 10, Active: true},
		{ID: "p2", Name: "Mouse", PriceMinor: 3000, Quantity: 20, Active: true, PhotoURL: "/img/mouse.png"},
	} {
		if err := products.Create(ctx, p); err != nil {
			t.Fatalf("create product failed: %v", err)
		}
	}

	orders := memory.NewOrderStore()
	saleStore := memory.NewSaleStore(products, memory.NewInvoiceSequencer(), orders)
	coordinator := sales.NewCoordinatorWithoutMetrics(products, products, saleStore, nil)
	directory := requester.NewStaticDirectory(map[string]string{
		"requester-1": "Ada Obi",
		"requester-2": "Chidi Eze",
	})

	return &fixture{
		products:    products,
		coordinator: coordinator,
		query:       orderquery.NewService(orders, products, directory, nil),
	}
}

func (f *fixture) sell(t *testing.T, requesterID string, method domain.PaymentMethod, lines ...domain.CartLine) domain.Order {
	t.Helper()
	order, err := f.coordinator.Submit(context.Background(), sales.SaleRequest{
		RequesterID:   requesterID,
		PaymentMethod: method,
		Lines:         lines,
	})
	if err != nil {
		t.Fatalf("submit failed: %v", err)
	}
	return order
}

func TestList_NewestFirstWithResolvedNames(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	f.sell(t, "requester-1", domain.PaymentMethodCash, domain.CartLine{ProductID: "p1", Quantity: 1})
	f.sell(t, "requester-2", domain.PaymentMethodTransfer, domain.CartLine{ProductID: "p2", Quantity: 2})

	summaries, err := f.query.List(ctx, "")
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(summaries) != 2 {
		t.Fatalf("expected 2 orders, got %d", len(summaries))
	}

	names := map[string]bool{}
	for _, s := range summaries {
		names[s.RequesterName] = true
	}
	if !names["Ada Obi"] || !names["Chidi Eze"] {
		t.Fatalf("expected resolved requester names, got %v", names)
	}
}

func TestList_SearchIsCaseInsensitiveContains(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	first := f.sell(t, "requester-1", domain.PaymentMethodCash, domain.CartLine{ProductID: "p1", Quantity: 1})
	f.sell(t, "requester-2", domain.PaymentMethodTransfer, domain.CartLine{ProductID: "p2", Quantity: 2})

	cases := []struct {
		search string
		want   int
	}{
		{"ada", 1},
		{"ADA OBI", 1},
		{"transfer", 1},
		{"completed", 2},
		{first.InvoiceNo, 1},
		{time.Now().UTC().Format("2006-01-02"), 2},
		{"no-such-thing", 0},
	}
	for _, tc := range cases {
		summaries, err := f.query.List(ctx, tc.search)
		if err != nil {
			t.Fatalf("list %q failed: %v", tc.search, err)
		}
		if len(summaries) != tc.want {
			t.Errorf("search %q: expected %d orders, got %d", tc.search, tc.want, len(summaries))
		}
	}
}

// Чтение истории идемпотентно: повторный запрос не меняет состояние.
func TestList_DoesNotMutateState(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	f.sell(t, "requester-1", domain.PaymentMethodCash, domain.CartLine{ProductID: "p1", Quantity: 1})

	for i := 0; i < 3; i++ {
		if _, err := f.query.List(ctx, ""); err != nil {
			t.Fatalf("list failed: %v", err)
		}
	}

	p1, err := f.products.Get(ctx, "p1")
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if p1.Quantity != 9 {
		t.Fatalf("reads must not touch stock, got %d", p1.Quantity)
	}
}

func TestGetByInvoice_Detail(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	order := f.sell(t, "requester-1", domain.PaymentMethodCash,
		domain.CartLine{ProductID: "p1", Quantity: 1},
		domain.CartLine{ProductID: "p2", Quantity: 2},
	)

	detail, err := f.query.GetByInvoice(ctx, order.InvoiceNo)
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if detail.RequesterName != "Ada Obi" {
		t.Fatalf("expected Ada Obi, got %s", detail.RequesterName)
	}
	if len(detail.Lines) != 2 {
		t.Fatalf("expected 2 lines, got %d", len(detail.Lines))
	}
	if detail.Lines[0].ProductName != "Laptop" {
		t.Fatalf("expected Laptop first (canonical product order), got %s", detail.Lines[0].ProductName)
	}
	if detail.Lines[0].ProductID != "p1" || detail.Lines[1].ProductID != "p2" {
		t.Fatalf("lines must carry product ids: %+v", detail.Lines)
	}
	if detail.Lines[1].PhotoURL != "/img/mouse.png" {
		t.Fatalf("expected resolved photo, got %q", detail.Lines[1].PhotoURL)
	}
	if detail.TotalAmountMinor != 256000 {
		t.Fatalf("expected total 256000, got %d", detail.TotalAmountMinor)
	}
	if detail.TotalAmount != "2560.00" {
		t.Fatalf("expected formatted total 2560.00, got %s", detail.TotalAmount)
	}
}

// Удалённый товар не ломает историю: позиция показывает "Unknown" без
// фото, но исторический id товара, количество и снимок цены сохраняются.
func TestGetByInvoice_DeletedProductShowsUnknown(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	order := f.sell(t, "requester-1", domain.PaymentMethodCash, domain.CartLine{ProductID: "p2", Quantity: 2})

	if err := f.products.Delete(ctx, "p2"); err != nil {
		t.Fatalf("delete failed: %v", err)
	}

	detail, err := f.query.GetByInvoice(ctx, order.InvoiceNo)
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if detail.Lines[0].ProductName != orderquery.UnknownName {
		t.Fatalf("expected Unknown product name, got %s", detail.Lines[0].ProductName)
	}
	if detail.Lines[0].ProductID != "p2" {
		t.Fatalf("historical product id must survive deletion, got %q", detail.Lines[0].ProductID)
	}
	if detail.Lines[0].PhotoURL != "" {
		t.Fatalf("deleted product must have no photo, got %q", detail.Lines[0].PhotoURL)
	}
	if detail.Lines[0].Quantity != 2 || detail.Lines[0].UnitPriceMinor != 3000 {
		t.Fatalf("historical snapshot must survive deletion: %+v", detail.Lines[0])
	}
}

// Повторное чтение детализации возвращает тот же результат.
func TestGetByInvoice_IdempotentRead(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	order := f.sell(t, "requester-1", domain.PaymentMethodCash,
		domain.CartLine{ProductID: "p1", Quantity: 1},
		domain.CartLine{ProductID: "p2", Quantity: 2},
	)

	first, err := f.query.GetByInvoice(ctx, order.InvoiceNo)
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	second, err := f.query.GetByInvoice(ctx, order.InvoiceNo)
	if err != nil {
		t.Fatalf("repeated get failed: %v", err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("repeated reads must match:\nfirst  %+v\nsecond %+v", first, second)
	}

	p1, err := f.products.Get(ctx, "p1")
	if err != nil {
		t.Fatalf("get product failed: %v", err)
	}
	if p1.Quantity != 9 {
		t.Fatalf("reads must not touch stock, got %d", p1.Quantity)
	}
}

func TestGetByInvoice_UnknownRequesterShowsUnknown(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	order := f.sell(t, "ghost-requester", domain.PaymentMethodCash, domain.CartLine{ProductID: "p1", Quantity: 1})

	detail, err := f.query.GetByInvoice(ctx, order.InvoiceNo)
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if detail.RequesterName != orderquery.UnknownName {
		t.Fatalf("expected Unknown requester, got %s", detail.RequesterName)
	}
}

func TestGetByInvoice_NotFound(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	if _, err := f.query.GetByInvoice(ctx, "InvoiceNo-404"); !errors.Is(err, domain.ErrOrderNotFound) {
		t.Fatalf("expected ErrOrderNotFound, got %v", err)
	}
}
