package domain

import "fmt"

// Денежные суммы хранятся как int64 в минимальных единицах с
// фиксированной шкалой 2, чтобы исключить накопление ошибок
// плавающей точки при суммировании позиций.

// FormatAmount форматирует сумму в минимальных единицах как
// десятичную строку со шкалой 2 (3000 -> "30.00", -5 -> "-0.05").
func FormatAmount(minor int64) string {
	sign := ""
	if minor < 0 {
		sign = "-"
		minor = -minor
	}
	return fmt.Sprintf("%s%d.%02d", sign, minor/100, minor%100)
}
