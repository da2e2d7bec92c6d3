package sales

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"github.com/Chinenye997/IMS/internal/domain"
	"github.com/Chinenye997/IMS/internal/metrics"
)

// Coordinator описывает интерфейс обработки продаж.
type Coordinator interface {
	// Submit проводит продажу по списку строк корзины: валидация,
	// слияние дублей, снимок цен из каталога и атомарная фиксация.
	// Либо заказ фиксируется целиком, либо не меняется ничего.
	Submit(ctx context.Context, req SaleRequest) (domain.Order, error)
	// SellProduct проводит продажу одной позиции (ручная продажа со
	// страницы товара).
	SellProduct(ctx context.Context, productID string, quantity int, req RequesterInfo) (domain.Order, error)
	// Restock пополняет остаток товара и возвращает новое значение.
	Restock(ctx context.Context, productID string, amount int) (int, error)
}

// SaleRequest — входные данные продажи.
type SaleRequest struct {
	RequesterID   string
	PaymentMethod domain.PaymentMethod
	Lines         []domain.CartLine
}

// RequesterInfo — инициатор и способ оплаты для ручной продажи.
type RequesterInfo struct {
	RequesterID   string
	PaymentMethod domain.PaymentMethod
}

// coordinator реализует последовательность обработки продажи:
// Validate → Coalesce → Price → Persist → Publish.
type coordinator struct {
	products  domain.ProductRepository
	ledger    domain.StockLedger
	sales     domain.SaleStore
	publisher domain.EventPublisher // опциональный Kafka publisher
	logger    *log.Entry
	metrics   *metrics.SalesMetrics
	now       func() time.Time
}

// NewCoordinator создаёт рабочий экземпляр координатора продаж.
func NewCoordinator(
	products domain.ProductRepository,
	ledger domain.StockLedger,
	sales domain.SaleStore,
	logger *log.Entry,
) Coordinator {
	if logger == nil {
		logger = log.New().WithField("component", "sales")
	}
	return &coordinator{
		products: products,
		ledger:   ledger,
		sales:    sales,
		logger:   logger,
		metrics:  metrics.NewSalesMetrics(),
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// NewCoordinatorWithPublisher создаёт координатор с публикацией событий в Kafka.
func NewCoordinatorWithPublisher(
	products domain.ProductRepository,
	ledger domain.StockLedger,
	sales domain.SaleStore,
	publisher domain.EventPublisher,
	logger *log.Entry,
) Coordinator {
	if logger == nil {
		logger = log.New().WithField("component", "sales")
	}
	return &coordinator{
		products:  products,
		ledger:    ledger,
		sales:     sales,
		publisher: publisher,
		logger:    logger,
		metrics:   metrics.NewSalesMetrics(),
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// NewCoordinatorWithoutMetrics создаёт координатор без метрик (для тестов).
func NewCoordinatorWithoutMetrics(
	products domain.ProductRepository,
	ledger domain.StockLedger,
	sales domain.SaleStore,
	logger *log.Entry,
) Coordinator {
	if logger == nil {
		logger = log.New().WithField("component", "sales")
	}
	return &coordinator{
		products: products,
		ledger:   ledger,
		sales:    sales,
		logger:   logger,
		metrics:  nil, // Отключаем метрики для тестов
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// Submit проводит продажу. Бизнес-отказ (пустая корзина, неизвестный
// товар, некорректное количество, нехватка остатка) возвращается
// отдельной ошибкой и не меняет ни остатков, ни нумерации счетов.
func (c *coordinator) Submit(ctx context.Context, req SaleRequest) (domain.Order, error) {
	start := c.now()
	if c.metrics != nil {
		c.metrics.RecordSaleSubmitted()
	}
	defer func() {
		if c.metrics != nil {
			c.metrics.RecordSaleDuration(time.Since(start))
			c.metrics.RecordSaleInFlightFinished()
		}
	}()

	order, err := c.submit(ctx, req)
	if err != nil {
		c.recordFailure(req, err)
		return domain.Order{}, err
	}

	if c.metrics != nil {
		c.metrics.RecordSaleCompleted()
		units := 0
		for _, item := range order.Items {
			units += item.Quantity
		}
		c.metrics.RecordUnitsSold(units)
	}

	c.logger.WithFields(log.Fields{
		"invoice_no":   order.InvoiceNo,
		"requester_id": order.RequesterID,
		"amount_minor": order.TotalAmountMinor,
		"items":        len(order.Items),
	}).Info("sale committed")

	c.publishSaleCompleted(order)
	return order, nil
}

func (c *coordinator) submit(ctx context.Context, req SaleRequest) (domain.Order, error) {
	if len(req.Lines) == 0 {
		return domain.Order{}, domain.ErrEmptyCart
	}
	for _, line := range req.Lines {
		if line.Quantity <= 0 {
			return domain.Order{}, &domain.QuantityError{ProductID: line.ProductID, Quantity: line.Quantity}
		}
	}

	// Дубли строк сливаются, позиции выстраиваются в канонический
	// порядок по возрастанию ID товара. Встречные продажи берут
	// строчные блокировки в одном порядке и не взаимоблокируются.
	lines := domain.CoalesceLines(req.Lines)

	requesterID := req.RequesterID
	if requesterID == "" {
		requesterID = domain.AnonymousRequester
	}
	method := req.PaymentMethod
	if method == "" {
		method = domain.PaymentMethodCash
	}

	now := c.now()
	orderID := uuid.NewString()
	order := domain.Order{
		ID:            orderID,
		RequesterID:   requesterID,
		OrderDate:     now,
		PaymentMethod: method,
		PaymentStatus: domain.PaymentStatusCompleted,
		PaidAt:        now,
	}

	// Снимок цен берётся из каталога на момент продажи; цена в
	// позиции фиксируется и не меняется при изменении каталога.
	for _, line := range lines {
		product, err := c.products.Get(ctx, line.ProductID)
		if err != nil {
			if errors.Is(err, domain.ErrProductNotFound) {
				return domain.Order{}, &domain.ProductError{ProductID: line.ProductID}
			}
			return domain.Order{}, fmt.Errorf("load product %s: %w", line.ProductID, err)
		}
		subtotal := product.PriceMinor * int64(line.Quantity)
		order.Items = append(order.Items, domain.OrderItem{
			ID:             uuid.NewString(),
			OrderID:        orderID,
			ProductID:      product.ID,
			Quantity:       line.Quantity,
			UnitPriceMinor: product.PriceMinor,
			SubtotalMinor:  subtotal,
		})
		order.TotalAmountMinor += subtotal
	}

	persisted, err := c.sales.PersistSale(ctx, order)
	if err != nil {
		// Товар мог исчезнуть между снимком цен и списанием.
		if errors.Is(err, domain.ErrProductNotFound) {
			return domain.Order{}, fmt.Errorf("%w: %w", domain.ErrUnknownProduct, err)
		}
		return domain.Order{}, err
	}
	return persisted, nil
}

// SellProduct — продажа одной позиции, минуя корзину.
func (c *coordinator) SellProduct(ctx context.Context, productID string, quantity int, req RequesterInfo) (domain.Order, error) {
	return c.Submit(ctx, SaleRequest{
		RequesterID:   req.RequesterID,
		PaymentMethod: req.PaymentMethod,
		Lines:         []domain.CartLine{{ProductID: productID, Quantity: quantity}},
	})
}

// Restock пополняет остаток и публикует событие.
func (c *coordinator) Restock(ctx context.Context, productID string, amount int) (int, error) {
	if err := c.ledger.Increment(ctx, productID, amount); err != nil {
		return 0, err
	}
	if c.metrics != nil {
		c.metrics.RecordRestock()
	}

	product, err := c.products.Get(ctx, productID)
	if err != nil {
		return 0, fmt.Errorf("load product after restock: %w", err)
	}

	c.logger.WithFields(log.Fields{
		"product_id": productID,
		"amount":     amount,
		"quantity":   product.Quantity,
	}).Info("stock replenished")

	if c.publisher != nil {
		event := domain.ProductRestockedEvent{
			ProductID:   productID,
			Amount:      amount,
			NewQuantity: product.Quantity,
			OccurredAt:  c.now(),
		}
		if err := c.publisher.PublishProductRestocked(event); err != nil {
			c.logger.WithError(err).WithField("product_id", productID).Warn("failed to publish restock event")
		}
	}
	return product.Quantity, nil
}

// recordFailure разводит бизнес-отказы и инфраструктурные сбои по
// разным метрикам и уровням логирования.
func (c *coordinator) recordFailure(req SaleRequest, err error) {
	if domain.IsRejection(err) {
		if c.metrics != nil {
			c.metrics.RecordSaleRejected(rejectionReason(err))
		}
		c.logger.WithError(err).WithField("requester_id", req.RequesterID).Info("sale rejected")
		return
	}
	if c.metrics != nil {
		c.metrics.RecordSaleFailed()
	}
	c.logger.WithError(err).WithField("requester_id", req.RequesterID).Error("sale failed")
}

// publishSaleCompleted отдаёт событие наружу после коммита. Ошибка
// публикации не влияет на уже зафиксированный заказ.
func (c *coordinator) publishSaleCompleted(order domain.Order) {
	if c.publisher == nil {
		return
	}
	event := domain.SaleCompletedEvent{
		OrderID:          order.ID,
		InvoiceNo:        order.InvoiceNo,
		RequesterID:      order.RequesterID,
		TotalAmountMinor: order.TotalAmountMinor,
		PaymentMethod:    string(order.PaymentMethod),
		ItemCount:        len(order.Items),
		OccurredAt:       c.now(),
	}
	if err := c.publisher.PublishSaleCompleted(event); err != nil {
		c.logger.WithError(err).WithField("invoice_no", order.InvoiceNo).Warn("failed to publish sale event")
	}
}

// rejectionReason — метка причины отказа для метрик.
func rejectionReason(err error) string {
	switch {
	case errors.Is(err, domain.ErrEmptyCart):
		return "empty_cart"
	case errors.Is(err, domain.ErrUnknownProduct), errors.Is(err, domain.ErrProductNotFound):
		return "unknown_product"
	case errors.Is(err, domain.ErrInsufficientStock):
		return "insufficient_stock"
	case errors.Is(err, domain.ErrQuantityInvalid):
		return "invalid_quantity"
	default:
		return "other"
	}
}
