package domain

import "time"

// Product описывает товарную позицию каталога.
// Движок продаж читает цену и мутирует остаток; всё остальное
// (категории, фото, описания) принадлежит каталогу.
type Product struct {
	ID string `json:"id"`
	// Name — отображаемое имя товара.
	Name string `json:"name"`
	// PriceMinor — цена за единицу в минимальных денежных единицах
	// (фиксированная шкала 2: 1000 = 10.00).
	PriceMinor int64 `json:"price_minor"`
	// Quantity — остаток на складе; никогда не уходит в минус.
	Quantity int `json:"quantity"`
	// Active показывает, доступен ли товар в витрине.
	Active bool `json:"active"`
	// PhotoURL — ссылка на миниатюру товара (может быть пустой).
	PhotoURL    string    `json:"photo_url,omitempty"`
	Description string    `json:"description,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// ValidateInvariants проверяет базовые инварианты товара.
func (p *Product) ValidateInvariants() []error {
	var errs []error

	if p.Name == "" {
		errs = append(errs, ErrProductNameRequired)
	}
	if p.PriceMinor < 0 {
		errs = append(errs, ErrPriceNegative)
	}
	if p.Quantity < 0 {
		errs = append(errs, ErrQuantityNegative)
	}

	return errs
}

// ProductSales агрегирует продажи по товару (для отчёта top sellers).
type ProductSales struct {
	ProductID string `json:"product_id"`
	// Name резолвится на момент чтения; для удалённого товара — "Unknown".
	Name      string `json:"name"`
	UnitsSold int    `json:"units_sold"`
}
