package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Chinenye997/IMS/internal/domain"
)

type stockLedger struct {
	db *sql.DB
}

// NewStockLedger создаёт PostgreSQL-реализацию StockLedger.
func NewStockLedger(store *Store) domain.StockLedger {
	return &stockLedger{db: store.DB()}
}

// TryDecrement списывает остаток условным UPDATE: проверка "хватает ли"
// и запись нового значения — одна строчная операция под блокировкой
// строки. Пара "прочитай количество, потом запиши" здесь невозможна,
// поэтому два конкурентных списания не продадут один и тот же остаток.
func (l *stockLedger) TryDecrement(ctx context.Context, productID string, amount int) (int, error) {
	if amount <= 0 {
		return 0, &domain.QuantityError{ProductID: productID, Quantity: amount}
	}

	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	return tryDecrementTx(ctx, l.db, productID, amount)
}

// Increment пополняет остаток товара.
func (l *stockLedger) Increment(ctx context.Context, productID string, amount int) error {
	if amount <= 0 {
		return &domain.QuantityError{ProductID: productID, Quantity: amount}
	}

	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	var quantity int
	err := l.db.QueryRowContext(ctx, `
		UPDATE products
		SET quantity = quantity + $2,
		    updated_at = NOW()
		WHERE id = $1
		RETURNING quantity
	`, productID, amount).Scan(&quantity)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.ErrProductNotFound
		}
		return mapTxError("increment stock", err)
	}
	return nil
}

// execer покрывает *sql.DB и *sql.Tx: списание используется и
// самостоятельно, и внутри транзакции продажи.
type execer interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func tryDecrementTx(ctx context.Context, db execer, productID string, amount int) (int, error) {
	var quantity int
	err := db.QueryRowContext(ctx, `
		UPDATE products
		SET quantity = quantity - $2,
		    updated_at = NOW()
		WHERE id = $1
		  AND quantity >= $2
		RETURNING quantity
	`, productID, amount).Scan(&quantity)
	if err == nil {
		return quantity, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return 0, mapTxError("decrement stock", err)
	}

	// UPDATE никого не задел: либо товара нет, либо остатка не хватает.
	var available int
	err = db.QueryRowContext(ctx, `SELECT quantity FROM products WHERE id = $1`, productID).Scan(&available)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, domain.ErrProductNotFound
		}
		return 0, fmt.Errorf("check product stock: %w", err)
	}
	return 0, &domain.StockError{
		ProductID: productID,
		Requested: amount,
		Available: available,
	}
}

var _ domain.StockLedger = (*stockLedger)(nil)
