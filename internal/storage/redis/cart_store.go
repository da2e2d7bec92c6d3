package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/Chinenye997/IMS/internal/domain"
)

// Ключ корзины сессии: cart:{session_id} -> JSON-массив позиций.
const cartKeyPattern = "cart:%s"

// DefaultCartTTL — срок жизни брошенной корзины.
const DefaultCartTTL = 24 * time.Hour

// CartStore хранит сессионные корзины в Redis. Корзина — черновик:
// потеря по TTL безопасна, остатки ничего не резервируют.
type CartStore struct {
	client *redis.Client
	ttl    time.Duration
}

// New открывает подключение к Redis.
func New(addr string) *redis.Client {
	return redis.NewClient(&redis.Options{Addr: addr})
}

// NewCartStore создаёт redis-хранилище корзин. ttl <= 0 заменяется
// на DefaultCartTTL.
func NewCartStore(client *redis.Client, ttl time.Duration) *CartStore {
	if ttl <= 0 {
		ttl = DefaultCartTTL
	}
	return &CartStore{client: client, ttl: ttl}
}

// Get возвращает корзину сессии; пустой срез, если ключа нет.
func (s *CartStore) Get(ctx context.Context, sessionID string) ([]domain.CartItem, error) {
	raw, err := s.client.Get(ctx, cartKey(sessionID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return []domain.CartItem{}, nil
		}
		return nil, fmt.Errorf("get cart: %w", err)
	}

	var items []domain.CartItem
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, fmt.Errorf("decode cart: %w", err)
	}
	return items, nil
}

// Save перезаписывает корзину сессии и продлевает TTL.
func (s *CartStore) Save(ctx context.Context, sessionID string, items []domain.CartItem) error {
	raw, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("encode cart: %w", err)
	}
	if err := s.client.Set(ctx, cartKey(sessionID), raw, s.ttl).Err(); err != nil {
		return fmt.Errorf("save cart: %w", err)
	}
	return nil
}

// Clear удаляет корзину сессии.
func (s *CartStore) Clear(ctx context.Context, sessionID string) error {
	if err := s.client.Del(ctx, cartKey(sessionID)).Err(); err != nil {
		return fmt.Errorf("clear cart: %w", err)
	}
	return nil
}

// Ping проверяет доступность Redis.
func (s *CartStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

func cartKey(sessionID string) string {
	return fmt.Sprintf(cartKeyPattern, sessionID)
}

var _ domain.CartStore = (*CartStore)(nil)
