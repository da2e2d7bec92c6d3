package domain

import "context"

// ProductRepository описывает требования к хранилищу каталога.
type ProductRepository interface {
	// Create сохраняет новый товар; ErrProductExists, если ID занят.
	Create(ctx context.Context, product Product) error
	// Get возвращает товар или ErrProductNotFound.
	Get(ctx context.Context, id string) (Product, error)
	// List возвращает все товары, отсортированные по имени.
	List(ctx context.Context) ([]Product, error)
	// Update перезаписывает атрибуты товара (кроме остатка — им
	// владеет StockLedger); ErrProductNotFound, если товара нет.
	Update(ctx context.Context, product Product) error
	// Delete удаляет товар. Исторические позиции заказов остаются.
	Delete(ctx context.Context, id string) error
	// TotalStockValueMinor считает Σ price * quantity по каталогу.
	TotalStockValueMinor(ctx context.Context) (int64, error)
}

// StockLedger — единственный источник истины по остаткам.
// Вместо пары "прочитай, потом запиши" выставляет атомарный
// примитив "спиши, если хватает", закрывая гонку check-then-act.
type StockLedger interface {
	// TryDecrement атомарно списывает amount единиц товара и
	// возвращает новый остаток. ErrProductNotFound — товара нет;
	// *StockError — остатка не хватает (остаток не меняется).
	// Конкурентные списания по одному товару линеаризуются: из двух
	// вызовов, суммарно превышающих остаток, проигравший видит уже
	// уменьшенное значение, а не устаревшее.
	TryDecrement(ctx context.Context, productID string, amount int) (int, error)
	// Increment пополняет остаток (возврат при откате, приёмка).
	// Всегда успешен, если товар существует.
	Increment(ctx context.Context, productID string, amount int) error
}

// InvoiceSequencer выдаёт строго возрастающие номера счетов.
// Два конкурентных вызова никогда не получают один номер; счётчик
// не пересчитывается по существующим строкам (count+1 под гонкой
// раздаёт дубликаты, а после удаления заказа — регрессирует).
type InvoiceSequencer interface {
	Next(ctx context.Context) (string, error)
}

// SaleStore атомарно фиксирует продажу: списывает остатки по всем
// позициям, присваивает номер счёта и сохраняет Order + OrderItems
// одной неделимой единицей работы. Любая ошибка откатывает всё:
// остатки возвращаются к значениям до вызова, строк заказа не остаётся.
// Номер счёта присваивается после успешных списаний, поэтому
// бизнес-отказ не расходует номер.
type SaleStore interface {
	PersistSale(ctx context.Context, order Order) (Order, error)
}

// OrderRepository — read-side по зафиксированным заказам.
type OrderRepository interface {
	// List возвращает заказы с позициями, новые первыми
	// (по дате заказа, затем по ID). limit <= 0 — без ограничения.
	List(ctx context.Context, limit int) ([]Order, error)
	// GetByInvoice возвращает заказ по номеру счёта или ErrOrderNotFound.
	GetByInvoice(ctx context.Context, invoiceNo string) (Order, error)
	// TopSelling агрегирует проданные единицы по товарам, убывание.
	TopSelling(ctx context.Context, limit int) ([]ProductSales, error)
}
