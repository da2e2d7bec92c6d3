package domain

import "sort"

// CartLine — одна строка входного запроса на продажу: товар и количество.
// Не персистится движком; приходит от сессионной корзины или формы
// ручной продажи. Уникальность и положительность количества движок
// не доверяет вызывающему и проверяет сам.
type CartLine struct {
	ProductID string
	Quantity  int
}

// CoalesceLines сводит дубликаты товара в одну строку (суммируя
// количества) и сортирует результат по возрастанию ProductID.
// Канонический порядок обязателен: все конкурентные транзакции
// захватывают строки склада в одном и том же порядке, что ограничивает
// риск дедлоков; слияние дубликатов исключает две независимые проверки
// остатка по одному товару против устаревшего значения.
func CoalesceLines(lines []CartLine) []CartLine {
	totals := make(map[string]int, len(lines))
	for _, line := range lines {
		totals[line.ProductID] += line.Quantity
	}

	result := make([]CartLine, 0, len(totals))
	for id, qty := range totals {
		result = append(result, CartLine{ProductID: id, Quantity: qty})
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ProductID < result[j].ProductID })

	return result
}

// CartItem — строка сессионной корзины с данными для отображения.
// Снимок имени/цены делается при добавлении; движок при checkout
// использует только ProductID и Quantity.
type CartItem struct {
	ProductID string `json:"product_id"`
	Name      string `json:"name"`
	PhotoURL  string `json:"photo_url,omitempty"`
	// UnitPriceMinor — цена на момент добавления, только для витрины.
	UnitPriceMinor int64 `json:"unit_price_minor"`
	Quantity       int   `json:"quantity"`
}

// Lines проецирует корзину в входной список строк для Submit.
func Lines(items []CartItem) []CartLine {
	lines := make([]CartLine, 0, len(items))
	for _, item := range items {
		lines = append(lines, CartLine{ProductID: item.ProductID, Quantity: item.Quantity})
	}
	return lines
}
