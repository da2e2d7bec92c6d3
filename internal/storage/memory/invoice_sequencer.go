package memory

import (
	"context"
	"sync/atomic"

	"github.com/Chinenye997/IMS/internal/domain"
)

// invoiceSequencerInMemory выдаёт номера из атомарного счётчика.
// Номер никогда не выводится из количества существующих заказов:
// count+1 под гонкой раздаёт дубликаты, а после удаления — регрессирует.
type invoiceSequencerInMemory struct {
	counter atomic.Int64
}

// NewInvoiceSequencer возвращает in-memory счётчик счетов, начинающийся с 1.
func NewInvoiceSequencer() domain.InvoiceSequencer {
	return &invoiceSequencerInMemory{}
}

// Next возвращает следующий номер счёта. Безопасен для конкурентных вызовов.
func (s *invoiceSequencerInMemory) Next(_ context.Context) (string, error) {
	return domain.FormatInvoiceNo(s.counter.Add(1)), nil
}

var _ domain.InvoiceSequencer = (*invoiceSequencerInMemory)(nil)
