package memory

import (
	"context"
	"fmt"

	"github.com/Chinenye997/IMS/internal/domain"
)

// saleStoreInMemory фиксирует продажу поверх in-memory хранилищ.
// Настоящих транзакций здесь нет, поэтому атомарность обеспечивается
// компенсацией: при любой ошибке уже выполненные списания возвращаются
// обратно, и остатки оказываются такими же, как до вызова.
type saleStoreInMemory struct {
	ledger    domain.StockLedger
	sequencer domain.InvoiceSequencer
	orders    *OrderStore
}

// NewSaleStore собирает in-memory фиксацию продаж из леджера, счётчика
// счетов и хранилища заказов.
func NewSaleStore(ledger domain.StockLedger, sequencer domain.InvoiceSequencer, orders *OrderStore) domain.SaleStore {
	return &saleStoreInMemory{
		ledger:    ledger,
		sequencer: sequencer,
		orders:    orders,
	}
}

// PersistSale списывает остатки по всем позициям, присваивает номер
// счёта и сохраняет заказ. Позиции должны приходить уже слитыми и в
// каноническом порядке по возрастанию ID товара — это исключает
// взаимную блокировку встречных продаж в постгрес-реализации, и здесь
// порядок сохраняется тем же для симметрии.
func (s *saleStoreInMemory) PersistSale(ctx context.Context, order domain.Order) (domain.Order, error) {
	done := make([]domain.OrderItem, 0, len(order.Items))
	for _, item := range order.Items {
		if _, err := s.ledger.TryDecrement(ctx, item.ProductID, item.Quantity); err != nil {
			s.compensate(ctx, done)
			return domain.Order{}, err
		}
		done = append(done, item)
	}

	// Номер выдаётся только после успешных списаний: бизнес-отказ
	// не расходует номер, нумерация остаётся сплошной.
	invoiceNo, err := s.sequencer.Next(ctx)
	if err != nil {
		s.compensate(ctx, done)
		return domain.Order{}, fmt.Errorf("next invoice number: %w", err)
	}
	order.InvoiceNo = invoiceNo

	s.orders.insert(order)
	return order, nil
}

// compensate возвращает уже списанные единицы. Ошибки игнорируем:
// товар точно существует, списание только что прошло.
func (s *saleStoreInMemory) compensate(ctx context.Context, done []domain.OrderItem) {
	for _, item := range done {
		_ = s.ledger.Increment(ctx, item.ProductID, item.Quantity)
	}
}

var _ domain.SaleStore = (*saleStoreInMemory)(nil)
