package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/Chinenye997/IMS/internal/domain"
)

// OrderStore — in-memory хранилище зафиксированных заказов. Реализует
// read-side (OrderRepository); запись идёт только через SaleStore
// этого же пакета.
type OrderStore struct {
	mu    sync.RWMutex
	items map[string]domain.Order
}

// NewOrderStore возвращает in-memory хранилище заказов для локальной
// разработки и тестов.
func NewOrderStore() *OrderStore {
	return &OrderStore{
		items: make(map[string]domain.Order),
	}
}

// insert сохраняет заказ с позициями. Вызывается sale store'ом после
// успешных списаний.
func (s *OrderStore) insert(order domain.Order) {
	s.mu.Lock()
	defer s.mu.Unlock()

	// Копируем позиции, чтобы заказ не мутировал через срез вызывающего.
	items := make([]domain.OrderItem, len(order.Items))
	copy(items, order.Items)
	order.Items = items
	s.items[order.ID] = order
}

// List возвращает заказы, новые первыми; limit <= 0 — без ограничения.
func (s *OrderStore) List(_ context.Context, limit int) ([]domain.Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]domain.Order, 0, len(s.items))
	for _, order := range s.items {
		result = append(result, cloneOrder(order))
	}

	sort.Slice(result, func(i, j int) bool {
		if !result[i].OrderDate.Equal(result[j].OrderDate) {
			return result[i].OrderDate.After(result[j].OrderDate)
		}
		return result[i].ID > result[j].ID
	})

	if limit > 0 && len(result) > limit {
		result = result[:limit]
	}

	return result, nil
}

// GetByInvoice возвращает заказ по номеру счёта или ErrOrderNotFound.
func (s *OrderStore) GetByInvoice(_ context.Context, invoiceNo string) (domain.Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, order := range s.items {
		if order.InvoiceNo == invoiceNo {
			return cloneOrder(order), nil
		}
	}
	return domain.Order{}, domain.ErrOrderNotFound
}

// TopSelling агрегирует проданные единицы по товарам, убывание.
func (s *OrderStore) TopSelling(_ context.Context, limit int) ([]domain.ProductSales, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	units := make(map[string]int)
	for _, order := range s.items {
		for _, item := range order.Items {
			units[item.ProductID] += item.Quantity
		}
	}

	result := make([]domain.ProductSales, 0, len(units))
	for productID, sold := range units {
		result = append(result, domain.ProductSales{ProductID: productID, UnitsSold: sold})
	}

	sort.Slice(result, func(i, j int) bool {
		if result[i].UnitsSold != result[j].UnitsSold {
			return result[i].UnitsSold > result[j].UnitsSold
		}
		return result[i].ProductID < result[j].ProductID
	})

	if limit > 0 && len(result) > limit {
		result = result[:limit]
	}

	return result, nil
}

func cloneOrder(order domain.Order) domain.Order {
	items := make([]domain.OrderItem, len(order.Items))
	copy(items, order.Items)
	order.Items = items
	return order
}

var _ domain.OrderRepository = (*OrderStore)(nil)
