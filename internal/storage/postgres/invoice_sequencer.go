package postgres

import (
	"context"
	"database/sql"

	"github.com/Chinenye997/IMS/internal/domain"
)

type invoiceSequencer struct {
	db *sql.DB
}

// NewInvoiceSequencer создаёт PostgreSQL-реализацию InvoiceSequencer
// поверх однострочной таблицы-счётчика.
func NewInvoiceSequencer(store *Store) domain.InvoiceSequencer {
	return &invoiceSequencer{db: store.DB()}
}

// Next атомарно инкрементирует счётчик и возвращает номер. Счётчик
// никогда не пересчитывается по существующим заказам: удаление заказа
// не возвращает номер в оборот, гонки раздачи исключены блокировкой
// строки счётчика.
func (s *invoiceSequencer) Next(ctx context.Context) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	seq, err := nextInvoiceSeqTx(ctx, s.db)
	if err != nil {
		return "", err
	}
	return domain.FormatInvoiceNo(seq), nil
}

func nextInvoiceSeqTx(ctx context.Context, db execer) (int64, error) {
	var seq int64
	err := db.QueryRowContext(ctx, `
		UPDATE invoice_counter
		SET last_value = last_value + 1
		WHERE id = 1
		RETURNING last_value
	`).Scan(&seq)
	if err != nil {
		return 0, mapTxError("next invoice number", err)
	}
	return seq, nil
}

var _ domain.InvoiceSequencer = (*invoiceSequencer)(nil)
