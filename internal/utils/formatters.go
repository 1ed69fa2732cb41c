package utils

import (
	"fmt"
	"regexp"
	"strings"
)

// FormatPhoneNumber форматирует номер телефона для отображения.
func FormatPhoneNumber(phone string) string {
	re := regexp.MustCompile(`[^\d+]`)
	cleanedPhone := re.ReplaceAllString(phone, "")

	if strings.HasPrefix(cleanedPhone, "+7") && len(cleanedPhone) == 12 {
		return fmt.Sprintf("+7 (%s) %s-%s-%s", cleanedPhone[2:5], cleanedPhone[5:8], cleanedPhone[8:10], cleanedPhone[10:12])
	}
	if len(cleanedPhone) == 11 && (cleanedPhone[0] == '8' || cleanedPhone[0] == '7') {
		return fmt.Sprintf("+7 (%s) %s-%s-%s", cleanedPhone[1:4], cleanedPhone[4:7], cleanedPhone[7:9], cleanedPhone[9:11])
	}
	if len(cleanedPhone) == 10 {
		return fmt.Sprintf("+7 (%s) %s-%s-%s", cleanedPhone[0:3], cleanedPhone[3:6], cleanedPhone[6:8], cleanedPhone[8:10])
	}
	return phone
}

// FormatMoney форматирует сумму в рублях без копеек, если они нулевые.
func FormatMoney(amount float64) string {
	if amount == float64(int64(amount)) {
		return fmt.Sprintf("%.0f ₽", amount)
	}
	return fmt.Sprintf("%.2f ₽", amount)
}
