package memory

import (
	"context"
	"time"

	"github.com/Chinenye997/IMS/internal/domain"
)

// TryDecrement атомарно списывает amount единиц под мьютексом каталога.
// Проверка остатка и запись нового значения — одна критическая секция,
// поэтому два конкурентных списания не могут прочитать одно и то же
// устаревшее значение.
func (s *ProductStore) TryDecrement(_ context.Context, productID string, amount int) (int, error) {
	if amount <= 0 {
		return 0, &domain.QuantityError{ProductID: productID, Quantity: amount}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	product, ok := s.items[productID]
	if !ok {
		return 0, domain.ErrProductNotFound
	}
	if product.Quantity < amount {
		// Остаток не меняется; проигравший видит актуальное значение.
		return 0, &domain.StockError{
			ProductID: productID,
			Requested: amount,
			Available: product.Quantity,
		}
	}
	product.Quantity -= amount
	product.UpdatedAt = time.Now().UTC()
	s.items[productID] = product
	return product.Quantity, nil
}

// Increment пополняет остаток (приёмка или компенсация отката).
func (s *ProductStore) Increment(_ context.Context, productID string, amount int) error {
	if amount <= 0 {
		return &domain.QuantityError{ProductID: productID, Quantity: amount}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	product, ok := s.items[productID]
	if !ok {
		return domain.ErrProductNotFound
	}
	product.Quantity += amount
	product.UpdatedAt = time.Now().UTC()
	s.items[productID] = product
	return nil
}

var _ domain.StockLedger = (*ProductStore)(nil)
