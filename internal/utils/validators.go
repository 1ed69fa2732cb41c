package utils

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// ValidatePhoneNumber проверяет и нормализует номер телефона.
// Возвращает номер в формате +7XXXXXXXXXX или ошибку.
func ValidatePhoneNumber(phone string) (string, error) {
	phone = strings.TrimSpace(phone)
	digitsOnly := regexp.MustCompile(`[^\d+]`).ReplaceAllString(phone, "")

	if strings.HasPrefix(digitsOnly, "+") {
		if regexp.MustCompile(`^\+7\d{10}$`).MatchString(digitsOnly) {
			return digitsOnly, nil
		}
		return "", fmt.Errorf("поддерживаются только российские номера в формате +7XXXXXXXXXX или 8XXXXXXXXXX")
	}

	digitsOnly = regexp.MustCompile(`[^\d]`).ReplaceAllString(phone, "")
	if len(digitsOnly) == 11 && (digitsOnly[0] == '8' || digitsOnly[0] == '7') {
		return "+7" + digitsOnly[1:], nil
	}
	if len(digitsOnly) == 10 {
		return "+7" + digitsOnly, nil
	}
	return "", fmt.Errorf("неверный формат номера телефона")
}

// ParseStartTime разбирает время начала смены в формате "ДД.ММ ЧЧ:ММ"
// в заданном часовом поясе. Год подставляется текущий; если дата уже
// прошла, берётся следующий год.
func ParseStartTime(input string, now time.Time, loc *time.Location) (time.Time, error) {
	input = strings.TrimSpace(input)
	parsed, err := time.ParseInLocation("02.01 15:04", input, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("ожидается формат ДД.ММ ЧЧ:ММ, например 15.09 09:00")
	}
	candidate := time.Date(now.Year(), parsed.Month(), parsed.Day(),
		parsed.Hour(), parsed.Minute(), 0, 0, loc)
	if candidate.Before(now) {
		candidate = candidate.AddDate(1, 0, 0)
	}
	return candidate, nil
}

// ValidatePlaces разбирает количество мест в заказе.
func ValidatePlaces(input string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(input))
	if err != nil || n < 1 || n > 100 {
		return 0, fmt.Errorf("укажите число мест от 1 до 100")
	}
	return n, nil
}

// ValidateName проверяет введённое имя работника.
func ValidateName(input string) (string, error) {
	name := strings.TrimSpace(input)
	if len([]rune(name)) < 2 || len([]rune(name)) > 100 {
		return "", fmt.Errorf("имя должно быть от 2 до 100 символов")
	}
	return name, nil
}
