package cart

import (
	"context"
	"fmt"

	log "github.com/sirupsen/logrus"

	"github.com/Chinenye997/IMS/internal/domain"
	"github.com/Chinenye997/IMS/internal/service/sales"
)

// Service управляет сессионными корзинами и проводит checkout.
// Корзина — черновик: ничего не резервирует, остатки проверяются
// только в момент фиксации продажи.
type Service struct {
	carts       domain.CartStore
	products    domain.ProductRepository
	coordinator sales.Coordinator
	logger      *log.Entry
}

// Summary — корзина с посчитанной суммой.
type Summary struct {
	Items            []domain.CartItem `json:"items"`
	TotalAmountMinor int64             `json:"total_amount_minor"`
	TotalAmount      string            `json:"total_amount"`
}

// NewService создаёт сервис корзины.
func NewService(
	carts domain.CartStore,
	products domain.ProductRepository,
	coordinator sales.Coordinator,
	logger *log.Entry,
) *Service {
	if logger == nil {
		logger = log.New().WithField("component", "cart")
	}
	return &Service{
		carts:       carts,
		products:    products,
		coordinator: coordinator,
		logger:      logger,
	}
}

// Get возвращает корзину сессии с суммой по текущим ценам в корзине.
func (s *Service) Get(ctx context.Context, sessionID string) (Summary, error) {
	items, err := s.carts.Get(ctx, sessionID)
	if err != nil {
		return Summary{}, fmt.Errorf("load cart: %w", err)
	}
	return summarize(items), nil
}

// Add кладёт товар в корзину или увеличивает количество существующей
// строки. Цена в корзине — снимок каталога на момент добавления.
func (s *Service) Add(ctx context.Context, sessionID, productID string, quantity int) (Summary, error) {
	if quantity <= 0 {
		return Summary{}, &domain.QuantityError{ProductID: productID, Quantity: quantity}
	}

	product, err := s.products.Get(ctx, productID)
	if err != nil {
		return Summary{}, err
	}

	items, err := s.carts.Get(ctx, sessionID)
	if err != nil {
		return Summary{}, fmt.Errorf("load cart: %w", err)
	}

	if product.Quantity == 0 {
		return Summary{}, &domain.StockError{ProductID: productID, Requested: quantity, Available: 0}
	}

	found := false
	for i := range items {
		if items[i].ProductID == productID {
			items[i].Quantity = clampQuantity(items[i].Quantity+quantity, product.Quantity)
			found = true
			break
		}
	}
	if !found {
		items = append(items, domain.CartItem{
			ProductID:      product.ID,
			Name:           product.Name,
			PhotoURL:       product.PhotoURL,
			UnitPriceMinor: product.PriceMinor,
			Quantity:       clampQuantity(quantity, product.Quantity),
		})
	}

	if err := s.carts.Save(ctx, sessionID, items); err != nil {
		return Summary{}, fmt.Errorf("save cart: %w", err)
	}
	return summarize(items), nil
}

// UpdateQuantity выставляет количество строки; 0 удаляет строку.
func (s *Service) UpdateQuantity(ctx context.Context, sessionID, productID string, quantity int) (Summary, error) {
	if quantity < 0 {
		return Summary{}, &domain.QuantityError{ProductID: productID, Quantity: quantity}
	}

	items, err := s.carts.Get(ctx, sessionID)
	if err != nil {
		return Summary{}, fmt.Errorf("load cart: %w", err)
	}

	next := items[:0]
	found := false
	for _, item := range items {
		if item.ProductID == productID {
			found = true
			if quantity == 0 {
				continue
			}
			item.Quantity = quantity
		}
		next = append(next, item)
	}
	if !found {
		return Summary{}, &domain.ProductError{ProductID: productID}
	}

	if err := s.carts.Save(ctx, sessionID, next); err != nil {
		return Summary{}, fmt.Errorf("save cart: %w", err)
	}
	return summarize(next), nil
}

// Remove убирает строку из корзины.
func (s *Service) Remove(ctx context.Context, sessionID, productID string) (Summary, error) {
	return s.UpdateQuantity(ctx, sessionID, productID, 0)
}

// Checkout проводит продажу по содержимому корзины. Корзина очищается
// только после успешной фиксации: отказ оставляет её нетронутой,
// чтобы пользователь мог поправить количество и повторить.
func (s *Service) Checkout(ctx context.Context, sessionID string, req sales.RequesterInfo) (domain.Order, error) {
	items, err := s.carts.Get(ctx, sessionID)
	if err != nil {
		return domain.Order{}, fmt.Errorf("load cart: %w", err)
	}

	order, err := s.coordinator.Submit(ctx, sales.SaleRequest{
		RequesterID:   req.RequesterID,
		PaymentMethod: req.PaymentMethod,
		Lines:         domain.Lines(items),
	})
	if err != nil {
		return domain.Order{}, err
	}

	if err := s.carts.Clear(ctx, sessionID); err != nil {
		// Продажа уже зафиксирована; неочищенная корзина — мелочь,
		// о которой достаточно записи в логе.
		s.logger.WithError(err).WithField("session_id", sessionID).Warn("failed to clear cart after checkout")
	}
	return order, nil
}

// clampQuantity ограничивает строку корзины текущим остатком. Это
// UX-подстраховка на момент добавления; настоящую проверку делает
// координатор при фиксации продажи.
func clampQuantity(requested, available int) int {
	if requested > available {
		return available
	}
	return requested
}

func summarize(items []domain.CartItem) Summary {
	var total int64
	for _, item := range items {
		total += item.UnitPriceMinor * int64(item.Quantity)
	}
	return Summary{
		Items:            items,
		TotalAmountMinor: total,
		TotalAmount:      domain.FormatAmount(total),
	}
}
