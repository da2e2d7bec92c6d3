package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/Chinenye997/IMS/internal/domain"
)

// ProductStore — in-memory каталог. Один и тот же экземпляр реализует
// и ProductRepository, и StockLedger: остаток хранится в одном месте,
// поэтому каталог и леджер не могут разойтись.
type ProductStore struct {
	mu    sync.RWMutex
	items map[string]domain.Product
}

// NewProductStore возвращает in-memory каталог для локальной разработки и тестов.
func NewProductStore() *ProductStore {
	return &ProductStore{
		items: make(map[string]domain.Product),
	}
}

// Create сохраняет новый товар, если ID ещё не занят.
func (s *ProductStore) Create(_ context.Context, product domain.Product) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.items[product.ID]; exists {
		return domain.ErrProductExists
	}
	now := time.Now().UTC()
	if product.CreatedAt.IsZero() {
		product.CreatedAt = now
	}
	product.UpdatedAt = now
	// Сохраняем копию, чтобы избежать непредсказуемых мутаций извне.
	s.items[product.ID] = product
	return nil
}

// Get возвращает товар или ErrProductNotFound, если его нет.
func (s *ProductStore) Get(_ context.Context, id string) (domain.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	product, ok := s.items[id]
	if !ok {
		return domain.Product{}, domain.ErrProductNotFound
	}
	return product, nil
}

// List возвращает все товары, отсортированные по имени.
func (s *ProductStore) List(_ context.Context) ([]domain.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]domain.Product, 0, len(s.items))
	for _, product := range s.items {
		result = append(result, product)
	}

	sort.Slice(result, func(i, j int) bool {
		ni, nj := strings.ToLower(result[i].Name), strings.ToLower(result[j].Name)
		if ni != nj {
			return ni < nj
		}
		return result[i].ID < result[j].ID
	})

	return result, nil
}

// Update перезаписывает атрибуты товара. Остаток не трогаем: им владеет
// StockLedger, и параллельные продажи не должны терять свои списания.
func (s *ProductStore) Update(_ context.Context, product domain.Product) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, ok := s.items[product.ID]
	if !ok {
		return domain.ErrProductNotFound
	}
	product.Quantity = current.Quantity
	product.CreatedAt = current.CreatedAt
	product.UpdatedAt = time.Now().UTC()
	s.items[product.ID] = product
	return nil
}

// Delete удаляет товар из каталога.
func (s *ProductStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.items[id]; !ok {
		return domain.ErrProductNotFound
	}
	delete(s.items, id)
	return nil
}

// TotalStockValueMinor считает суммарную стоимость остатков каталога.
func (s *ProductStore) TotalStockValueMinor(_ context.Context) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var total int64
	for _, product := range s.items {
		total += product.PriceMinor * int64(product.Quantity)
	}
	return total, nil
}

var _ domain.ProductRepository = (*ProductStore)(nil)
