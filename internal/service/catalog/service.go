package catalog

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"github.com/Chinenye997/IMS/internal/domain"
)

// Service управляет каталогом товаров и финансовой сводкой.
// Остатки сервис не меняет: продажи и пополнения идут через движок.
type Service struct {
	products domain.ProductRepository
	orders   domain.OrderRepository
	logger   *log.Entry
}

// FinanceReport — сводка для финансовой страницы.
type FinanceReport struct {
	StockValueMinor int64                 `json:"stock_value_minor"`
	StockValue      string                `json:"stock_value"`
	TopSellers      []domain.ProductSales `json:"top_sellers"`
}

// NewService создаёт сервис каталога.
func NewService(products domain.ProductRepository, orders domain.OrderRepository, logger *log.Entry) *Service {
	if logger == nil {
		logger = log.New().WithField("component", "catalog")
	}
	return &Service{
		products: products,
		orders:   orders,
		logger:   logger,
	}
}

// Create валидирует и сохраняет новый товар. Пустой ID генерируется.
func (s *Service) Create(ctx context.Context, product domain.Product) (domain.Product, error) {
	if product.ID == "" {
		product.ID = uuid.NewString()
	}
	if errs := product.ValidateInvariants(); len(errs) != 0 {
		return domain.Product{}, errs[0]
	}
	if err := s.products.Create(ctx, product); err != nil {
		return domain.Product{}, err
	}
	s.logger.WithFields(log.Fields{
		"product_id": product.ID,
		"name":       product.Name,
	}).Info("product created")
	return product, nil
}

// Get возвращает товар по ID.
func (s *Service) Get(ctx context.Context, id string) (domain.Product, error) {
	return s.products.Get(ctx, id)
}

// List возвращает каталог, отсортированный по имени.
func (s *Service) List(ctx context.Context) ([]domain.Product, error) {
	return s.products.List(ctx)
}

// Update перезаписывает атрибуты товара; остаток не меняется.
func (s *Service) Update(ctx context.Context, product domain.Product) error {
	if errs := product.ValidateInvariants(); len(errs) != 0 {
		return errs[0]
	}
	return s.products.Update(ctx, product)
}

// Delete удаляет товар. История продаж хранит собственные снимки
// позиций и переживает удаление.
func (s *Service) Delete(ctx context.Context, id string) error {
	if err := s.products.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.WithField("product_id", id).Info("product deleted")
	return nil
}

// Finances собирает стоимость остатков и лидеров продаж. Имена
// удалённых товаров замещаются на "Unknown".
func (s *Service) Finances(ctx context.Context, topLimit int) (FinanceReport, error) {
	stockValue, err := s.products.TotalStockValueMinor(ctx)
	if err != nil {
		return FinanceReport{}, fmt.Errorf("total stock value: %w", err)
	}

	top, err := s.orders.TopSelling(ctx, topLimit)
	if err != nil {
		return FinanceReport{}, fmt.Errorf("top selling: %w", err)
	}
	for i := range top {
		top[i].Name = s.productName(ctx, top[i].ProductID)
	}

	return FinanceReport{
		StockValueMinor: stockValue,
		StockValue:      domain.FormatAmount(stockValue),
		TopSellers:      top,
	}, nil
}

func (s *Service) productName(ctx context.Context, productID string) string {
	product, err := s.products.Get(ctx, productID)
	if err != nil {
		if !errors.Is(err, domain.ErrProductNotFound) {
			s.logger.WithError(err).WithField("product_id", productID).Warn("failed to resolve product name")
		}
		return "Unknown"
	}
	return product.Name
}
