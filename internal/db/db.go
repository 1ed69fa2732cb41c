// Файл: internal/db/db.go
package db

import (
	"database/sql"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	_ "github.com/lib/pq" // PostgreSQL driver
)

var DB *sql.DB // Глобальная переменная для хранения подключения к БД

// InitDB инициализирует соединение с базой данных и выполняет миграции.
func InitDB() error {
	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		return fmt.Errorf("DATABASE_URL не установлена")
	}

	var err error
	DB, err = sql.Open("postgres", dbURL)
	if err != nil {
		return fmt.Errorf("ошибка подключения к базе данных: %v", err)
	}

	DB.SetMaxOpenConns(50)
	DB.SetMaxIdleConns(20)
	DB.SetConnMaxLifetime(5 * time.Minute)

	if err := DB.Ping(); err != nil {
		return fmt.Errorf("ошибка проверки соединения с базой данных: %v", err)
	}

	log.Println("Успешное подключение к базе данных.")

	tx, err := DB.Begin()
	if err != nil {
		return fmt.Errorf("ошибка начала транзакции для создания таблиц: %v", err)
	}
	defer func() {
		if err != nil {
			log.Printf("Откат транзакции из-за ошибки: %v", err)
			tx.Rollback()
		}
	}()

	createTablesSQL := `
        CREATE TABLE IF NOT EXISTS workers (
            id SERIAL PRIMARY KEY,
            telegram_id BIGINT UNIQUE NOT NULL,
            telegram_login TEXT,
            name TEXT NOT NULL DEFAULT '',
            phone TEXT NOT NULL DEFAULT '',
            city TEXT,
            district TEXT NOT NULL DEFAULT '',
            citizenship TEXT NOT NULL DEFAULT '',
            country TEXT,
            rating DOUBLE PRECISION NOT NULL DEFAULT 0,
            status TEXT NOT NULL DEFAULT 'active',
            blocked_until TIMESTAMPTZ,
            cooldown_until TIMESTAMPTZ,
            created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
            updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
        );
        CREATE TABLE IF NOT EXISTS orders (
            id SERIAL PRIMARY KEY,
            client_name TEXT NOT NULL DEFAULT '',
            client_phone TEXT NOT NULL DEFAULT '',
            description TEXT NOT NULL DEFAULT '',
            address TEXT NOT NULL DEFAULT '',
            district TEXT NOT NULL DEFAULT '',
            start_time TIMESTAMPTZ NOT NULL,
            format TEXT NOT NULL,
            citizenship_required TEXT NOT NULL DEFAULT 'Любое',
            places_total INTEGER NOT NULL,
            places_taken INTEGER NOT NULL DEFAULT 0,
            features TEXT,
            status TEXT NOT NULL DEFAULT 'created',
            reason TEXT,
            created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
            updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
            CONSTRAINT orders_places_taken_range CHECK (places_taken >= 0 AND places_taken <= places_total)
        );
        CREATE TABLE IF NOT EXISTS shifts (
            id SERIAL PRIMARY KEY,
            order_id INTEGER NOT NULL REFERENCES orders(id) ON DELETE CASCADE,
            worker_id INTEGER NOT NULL REFERENCES workers(id) ON DELETE CASCADE,
            status TEXT NOT NULL DEFAULT 'accepted',
            start_time TIMESTAMPTZ NOT NULL,
            accepted_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
            arrived_at TIMESTAMPTZ,
            finished_at TIMESTAMPTZ,
            created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
            updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
        );
        CREATE TABLE IF NOT EXISTS transactions (
            id SERIAL PRIMARY KEY,
            worker_id INTEGER NOT NULL REFERENCES workers(id) ON DELETE CASCADE,
            order_id INTEGER NOT NULL REFERENCES orders(id) ON DELETE CASCADE,
            amount DOUBLE PRECISION NOT NULL,
            status TEXT NOT NULL DEFAULT 'unpaid',
            created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
            paid_at TIMESTAMPTZ
        );
        CREATE TABLE IF NOT EXISTS notifications_log (
            id SERIAL PRIMARY KEY,
            shift_id INTEGER NOT NULL REFERENCES shifts(id) ON DELETE CASCADE,
            kind TEXT NOT NULL,
            sent_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
            UNIQUE (shift_id, kind)
        );
        CREATE TABLE IF NOT EXISTS skipped_orders (
            id SERIAL PRIMARY KEY,
            worker_id INTEGER NOT NULL REFERENCES workers(id) ON DELETE CASCADE,
            order_id INTEGER NOT NULL REFERENCES orders(id) ON DELETE CASCADE,
            skipped_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
        );
    `
	_, err = tx.Exec(createTablesSQL)
	if err != nil {
		return fmt.Errorf("ошибка создания таблиц: %v", err)
	}

	err = tx.Commit()
	if err != nil {
		return fmt.Errorf("ошибка фиксации транзакции создания таблиц: %v", err)
	}
	log.Println("Создание таблиц (если не существуют) завершено.")

	if err = migrateDBSchema(); err != nil {
		return fmt.Errorf("ошибка выполнения миграции схемы: %v", err)
	}

	// Индексы создаём по одному: CREATE INDEX IF NOT EXISTS идемпотентен,
	// а ошибка одного индекса не должна валить остальные.
	createIndexesSQL := `
        CREATE INDEX IF NOT EXISTS idx_workers_telegram_id ON workers(telegram_id);
        CREATE INDEX IF NOT EXISTS idx_workers_status ON workers(status);
        CREATE INDEX IF NOT EXISTS idx_orders_status_start ON orders(status, start_time);
        CREATE INDEX IF NOT EXISTS idx_shifts_order_id ON shifts(order_id);
        CREATE INDEX IF NOT EXISTS idx_shifts_worker_status ON shifts(worker_id, status);
        CREATE INDEX IF NOT EXISTS idx_shifts_status_start ON shifts(status, start_time);
        CREATE UNIQUE INDEX IF NOT EXISTS idx_shifts_active_unique ON shifts(worker_id, order_id) WHERE status IN ('accepted','arrived');
        CREATE INDEX IF NOT EXISTS idx_transactions_worker_status ON transactions(worker_id, status);
        CREATE INDEX IF NOT EXISTS idx_notifications_log_shift_kind ON notifications_log(shift_id, kind);
        CREATE INDEX IF NOT EXISTS idx_skipped_orders_worker ON skipped_orders(worker_id, skipped_at);
    `
	for _, stmt := range strings.Split(strings.TrimSpace(createIndexesSQL), ";") {
		trimmedStmt := strings.TrimSpace(stmt)
		if trimmedStmt == "" {
			continue
		}
		if _, errIdx := DB.Exec(trimmedStmt); errIdx != nil {
			log.Printf("Предупреждение: ошибка при создании индекса ('%s'): %v.", trimmedStmt, errIdx)
		}
	}
	log.Println("Создание индексов (если не существуют) завершено.")

	log.Println("Инициализация базы данных успешно завершена.")
	return nil
}

// migrateDBSchema выполняет необходимые миграции схемы базы данных.
// Каждая миграция идемпотентна.
func migrateDBSchema() error {
	migrations := []struct {
		name string
		sql  string
	}{
		{
			name: "workers.cooldown_until",
			sql:  `ALTER TABLE workers ADD COLUMN IF NOT EXISTS cooldown_until TIMESTAMPTZ;`,
		},
		{
			name: "workers.blocked_until",
			sql:  `ALTER TABLE workers ADD COLUMN IF NOT EXISTS blocked_until TIMESTAMPTZ;`,
		},
		{
			name: "orders.reason",
			sql:  `ALTER TABLE orders ADD COLUMN IF NOT EXISTS reason TEXT;`,
		},
		{
			name: "transactions.paid_at",
			sql:  `ALTER TABLE transactions ADD COLUMN IF NOT EXISTS paid_at TIMESTAMPTZ;`,
		},
	}

	for _, migration := range migrations {
		if _, err := DB.Exec(migration.sql); err != nil {
			if strings.Contains(err.Error(), "already exists") {
				log.Printf("INFO: Миграция '%s' пропущена (объект уже существует). Детали: %v", migration.name, err)
				continue
			}
			return fmt.Errorf("ошибка миграции схемы ('%s'): %v", migration.name, err)
		}
	}

	log.Println("Миграция схемы базы данных успешно выполнена (или не требовалась).")
	return nil
}

// CloseDB закрывает соединение с базой данных.
func CloseDB() {
	if DB != nil {
		DB.Close()
		log.Println("Соединение с базой данных закрыто.")
	}
}
