package orderquery

import (
	"context"
	"errors"
	"fmt"
	"strings"

	log "github.com/sirupsen/logrus"

	"github.com/Chinenye997/IMS/internal/domain"
)

// UnknownName подставляется вместо имени, которое не удалось
// разрезолвить: удалённый товар или неизвестный инициатор.
const UnknownName = "Unknown"

// dateLayout — формат даты в витрине истории; поиск матчится по нему же.
const dateLayout = "2006-01-02"

// OrderSummary — строка витрины истории продаж.
type OrderSummary struct {
	InvoiceNo        string `json:"invoice_no"`
	RequesterName    string `json:"requester_name"`
	OrderDate        string `json:"order_date"`
	TotalAmountMinor int64  `json:"total_amount_minor"`
	TotalAmount      string `json:"total_amount"`
	PaymentMethod    string `json:"payment_method"`
	PaymentStatus    string `json:"payment_status"`
}

// OrderLine — позиция в детализации заказа. ProductID — исторический
// идентификатор из снимка позиции: он остаётся и после удаления товара.
type OrderLine struct {
	ProductID      string `json:"product_id"`
	ProductName    string `json:"product_name"`
	PhotoURL       string `json:"photo_url,omitempty"`
	Quantity       int    `json:"quantity"`
	UnitPriceMinor int64  `json:"unit_price_minor"`
	SubtotalMinor  int64  `json:"subtotal_minor"`
}

// OrderDetail — детализация заказа по номеру счёта.
type OrderDetail struct {
	OrderSummary
	Lines []OrderLine `json:"lines"`
}

// Service — read-side по истории продаж. Чтение никогда не меняет
// состояние: остатки, нумерацию и заказы трогает только координатор.
type Service struct {
	orders     domain.OrderRepository
	products   domain.ProductRepository
	requesters domain.RequesterDirectory
	logger     *log.Entry
}

// NewService создаёт сервис истории продаж.
func NewService(
	orders domain.OrderRepository,
	products domain.ProductRepository,
	requesters domain.RequesterDirectory,
	logger *log.Entry,
) *Service {
	if logger == nil {
		logger = log.New().WithField("component", "orderquery")
	}
	return &Service{
		orders:     orders,
		products:   products,
		requesters: requesters,
		logger:     logger,
	}
}

// List возвращает историю продаж, новые первыми. Непустой search
// фильтрует регистронезависимым вхождением по номеру счёта, имени
// инициатора, способу и статусу оплаты и дате. Фильтр применяется
// после резолва имён, чтобы поиск видел то же, что и витрина.
func (s *Service) List(ctx context.Context, search string) ([]OrderSummary, error) {
	orders, err := s.orders.List(ctx, 0)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}

	result := make([]OrderSummary, 0, len(orders))
	needle := strings.ToLower(strings.TrimSpace(search))
	for _, order := range orders {
		summary := s.summarize(ctx, order)
		if needle != "" && !matches(summary, needle) {
			continue
		}
		result = append(result, summary)
	}
	return result, nil
}

// GetByInvoice возвращает детализацию заказа. Имена удалённых товаров
// замещаются на "Unknown": исторические позиции хранят собственный
// снимок цены и количества и не зависят от текущего каталога.
func (s *Service) GetByInvoice(ctx context.Context, invoiceNo string) (OrderDetail, error) {
	order, err := s.orders.GetByInvoice(ctx, invoiceNo)
	if err != nil {
		return OrderDetail{}, err
	}

	detail := OrderDetail{
		OrderSummary: s.summarize(ctx, order),
		Lines:        make([]OrderLine, 0, len(order.Items)),
	}
	for _, item := range order.Items {
		name, photoURL := s.resolveProduct(ctx, item.ProductID)
		detail.Lines = append(detail.Lines, OrderLine{
			ProductID:      item.ProductID,
			ProductName:    name,
			PhotoURL:       photoURL,
			Quantity:       item.Quantity,
			UnitPriceMinor: item.UnitPriceMinor,
			SubtotalMinor:  item.SubtotalMinor,
		})
	}
	return detail, nil
}

func (s *Service) summarize(ctx context.Context, order domain.Order) OrderSummary {
	return OrderSummary{
		InvoiceNo:        order.InvoiceNo,
		RequesterName:    s.requesterName(ctx, order.RequesterID),
		OrderDate:        order.OrderDate.Format(dateLayout),
		TotalAmountMinor: order.TotalAmountMinor,
		TotalAmount:      domain.FormatAmount(order.TotalAmountMinor),
		PaymentMethod:    string(order.PaymentMethod),
		PaymentStatus:    string(order.PaymentStatus),
	}
}

func (s *Service) requesterName(ctx context.Context, requesterID string) string {
	name, err := s.requesters.DisplayName(ctx, requesterID)
	if err != nil {
		s.logger.WithError(err).WithField("requester_id", requesterID).Warn("failed to resolve requester name")
		return UnknownName
	}
	if name == "" {
		return UnknownName
	}
	return name
}

// resolveProduct резолвит имя и фото товара на момент чтения.
// Для удалённого товара возвращает "Unknown" и пустое фото.
func (s *Service) resolveProduct(ctx context.Context, productID string) (name, photoURL string) {
	product, err := s.products.Get(ctx, productID)
	if err != nil {
		if !errors.Is(err, domain.ErrProductNotFound) {
			s.logger.WithError(err).WithField("product_id", productID).Warn("failed to resolve product name")
		}
		return UnknownName, ""
	}
	return product.Name, product.PhotoURL
}

func matches(summary OrderSummary, needle string) bool {
	for _, field := range []string{
		summary.InvoiceNo,
		summary.RequesterName,
		summary.PaymentMethod,
		summary.PaymentStatus,
		summary.OrderDate,
	} {
		if strings.Contains(strings.ToLower(field), needle) {
			return true
		}
	}
	return false
}
