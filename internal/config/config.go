// Файл: internal/config/config.go
package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config хранит все конфигурационные параметры приложения.
type Config struct {
	TelegramToken string
	DatabaseURL   string
	AppEnv        string
	BotUsername   string
	City          string // город для карточек и ссылок на карты
	Timezone      *time.Location

	// Явный справочник админов вместо разбросанных глобальных списков.
	AdminChatIDs []int64
}

// LoadConfig загружает конфигурацию из переменных окружения.
func LoadConfig() (*Config, error) {
	cfg := &Config{
		TelegramToken: os.Getenv("TELEGRAM_APITOKEN"),
		DatabaseURL:   os.Getenv("DATABASE_URL"),
		AppEnv:        os.Getenv("ENV"),
		BotUsername:   os.Getenv("BOT_USERNAME"),
		City:          os.Getenv("CITY"),
	}

	if cfg.City == "" {
		cfg.City = "Екатеринбург"
	}

	tzName := os.Getenv("TIMEZONE")
	if tzName == "" {
		tzName = "Asia/Yekaterinburg"
	}
	loc, err := time.LoadLocation(tzName)
	if err != nil {
		log.Printf("Предупреждение: не удалось загрузить таймзону '%s': %v. Используется локальная.", tzName, err)
		loc = time.Local
	}
	cfg.Timezone = loc

	// ADMIN_CHAT_IDS: список chat_id через запятую
	adminIDsRaw := os.Getenv("ADMIN_CHAT_IDS")
	for _, part := range strings.Split(adminIDsRaw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		id, errParse := strconv.ParseInt(part, 10, 64)
		if errParse != nil {
			log.Printf("Предупреждение: некорректный ADMIN_CHAT_IDS элемент '%s': %v. Пропущен.", part, errParse)
			continue
		}
		cfg.AdminChatIDs = append(cfg.AdminChatIDs, id)
	}
	if len(cfg.AdminChatIDs) == 0 {
		log.Println("Предупреждение: ADMIN_CHAT_IDS не задан. Админ-функции будут недоступны.")
	}

	if cfg.TelegramToken == "" {
		log.Println("Критическая ошибка: TELEGRAM_APITOKEN не установлен.")
	}
	if cfg.DatabaseURL == "" {
		log.Println("Критическая ошибка: DATABASE_URL не установлен.")
	}
	if cfg.BotUsername == "" {
		log.Println("Предупреждение: BOT_USERNAME не установлен. Ссылки/QR на бота работать не будут.")
	}

	log.Println("Конфигурация загружена.")
	return cfg, nil
}

// IsAdmin проверяет, входит ли chat_id в справочник админов.
func (c *Config) IsAdmin(chatID int64) bool {
	for _, id := range c.AdminChatIDs {
		if id == chatID {
			return true
		}
	}
	return false
}
