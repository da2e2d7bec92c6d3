package domain

import (
	"fmt"
	"strconv"
	"strings"
)

// invoicePrefix — человекочитаемый префикс номера счёта.
const invoicePrefix = "InvoiceNo-"

// FormatInvoiceNo форматирует порядковый номер счёта: минимум три
// цифры с ведущими нулями, ширина растёт по мере необходимости
// (3-й заказ -> "InvoiceNo-003", 1234-й -> "InvoiceNo-1234").
func FormatInvoiceNo(seq int64) string {
	return fmt.Sprintf("%s%03d", invoicePrefix, seq)
}

// ParseInvoiceNo извлекает порядковый номер из строки счёта.
// Возвращает false для строк чужого формата.
func ParseInvoiceNo(invoiceNo string) (int64, bool) {
	raw, ok := strings.CutPrefix(invoiceNo, invoicePrefix)
	if !ok {
		return 0, false
	}
	seq, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || seq < 0 {
		return 0, false
	}
	return seq, true
}
