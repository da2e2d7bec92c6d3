package memory

import (
	"context"
	"sync"

	"github.com/Chinenye997/IMS/internal/domain"
)

// cartStoreInMemory хранит корзины сессий в памяти процесса.
// Для продакшена используется redis-реализация; эта нужна для
// локальной разработки и тестов.
type cartStoreInMemory struct {
	mu    sync.RWMutex
	carts map[string][]domain.CartItem
}

// NewCartStore возвращает in-memory хранилище корзин.
func NewCartStore() domain.CartStore {
	return &cartStoreInMemory{
		carts: make(map[string][]domain.CartItem),
	}
}

// Get возвращает корзину сессии; пустой срез, если её нет.
func (s *cartStoreInMemory) Get(_ context.Context, sessionID string) ([]domain.CartItem, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	items := s.carts[sessionID]
	result := make([]domain.CartItem, len(items))
	copy(result, items)
	return result, nil
}

// Save перезаписывает корзину сессии.
func (s *cartStoreInMemory) Save(_ context.Context, sessionID string, items []domain.CartItem) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored := make([]domain.CartItem, len(items))
	copy(stored, items)
	s.carts[sessionID] = stored
	return nil
}

// Clear удаляет корзину сессии.
func (s *cartStoreInMemory) Clear(_ context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.carts, sessionID)
	return nil
}

var _ domain.CartStore = (*cartStoreInMemory)(nil)
