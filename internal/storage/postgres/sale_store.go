package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/Chinenye997/IMS/internal/domain"
)

// Транзакция продажи держит блокировки строк товаров и строки
// счётчика; ограничиваем ожидание чужих блокировок, чтобы затор
// не копился.
const saleLockTimeout = "2s"

type saleStore struct {
	db *sql.DB
}

// NewSaleStore создаёт PostgreSQL-реализацию SaleStore.
func NewSaleStore(store *Store) domain.SaleStore {
	return &saleStore{db: store.DB()}
}

// PersistSale фиксирует продажу одной транзакцией: условные списания
// по всем позициям, затем номер счёта, затем строки заказа. Любая
// ошибка откатывает транзакцию целиком — частично списанных остатков
// и заказов без позиций не бывает.
//
// Позиции должны приходить уже слитыми и отсортированными по
// возрастанию ID товара: встречные продажи берут строчные блокировки
// в одном порядке и не взаимоблокируются.
//
// Счётчик инкрементируется после успешных списаний, поэтому
// бизнес-отказ не расходует номер и нумерация остаётся сплошной.
// Блокировка строки счётчика живёт только от инкремента до коммита.
func (s *saleStore) PersistSale(ctx context.Context, order domain.Order) (domain.Order, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return domain.Order{}, mapTxError("begin sale tx", err)
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	if _, err := tx.ExecContext(ctx, fmt.Sprintf("SET LOCAL lock_timeout = '%s'", saleLockTimeout)); err != nil {
		return domain.Order{}, mapTxError("set lock timeout", err)
	}

	for _, item := range order.Items {
		if _, err := tryDecrementTx(ctx, tx, item.ProductID, item.Quantity); err != nil {
			return domain.Order{}, err
		}
	}

	seq, err := nextInvoiceSeqTx(ctx, tx)
	if err != nil {
		return domain.Order{}, err
	}
	order.InvoiceNo = domain.FormatInvoiceNo(seq)

	var paidAt sql.NullTime
	if !order.PaidAt.IsZero() {
		paidAt = sql.NullTime{Time: order.PaidAt, Valid: true}
	}
	if _, err := tx.ExecContext(ctx, `
		INSERT INTO orders (
			id, invoice_no, requester_id, order_date, total_amount_minor,
			payment_method, payment_status, paid_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
	`,
		order.ID, order.InvoiceNo, order.RequesterID, order.OrderDate,
		order.TotalAmountMinor, string(order.PaymentMethod),
		string(order.PaymentStatus), paidAt,
	); err != nil {
		return domain.Order{}, mapTxError("insert order", err)
	}

	for _, item := range order.Items {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO order_items (
				id, order_id, product_id, qty, unit_price_minor, subtotal_minor
			) VALUES ($1,$2,$3,$4,$5,$6)
		`,
			item.ID, order.ID, item.ProductID, item.Quantity,
			item.UnitPriceMinor, item.SubtotalMinor,
		); err != nil {
			return domain.Order{}, mapTxError("insert order item", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return domain.Order{}, mapTxError("commit sale", err)
	}
	committed = true
	return order, nil
}

var _ domain.SaleStore = (*saleStore)(nil)
