package main

import (
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	tgbotapi "github.com/OvyFlash/telegram-bot-api"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"

	"github.com/ragshata/RabotaHULT/internal/api"
	"github.com/ragshata/RabotaHULT/internal/broadcast"
	"github.com/ragshata/RabotaHULT/internal/config"
	"github.com/ragshata/RabotaHULT/internal/db"
	"github.com/ragshata/RabotaHULT/internal/handlers"
	"github.com/ragshata/RabotaHULT/internal/lifecycle"
	"github.com/ragshata/RabotaHULT/internal/scheduler"
	"github.com/ragshata/RabotaHULT/internal/session"
	"github.com/ragshata/RabotaHULT/internal/telegram_api"
)

func main() {
	// --- Блок инициализации ---
	if err := godotenv.Load(); err != nil {
		log.Println("Предупреждение: не удалось загрузить файл .env. Переменные окружения должны быть установлены иным способом.")
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Критическая ошибка: не удалось загрузить конфигурацию: %v", err)
	}

	if err := db.InitDB(); err != nil {
		log.Fatalf("Критическая ошибка: не удалось инициализировать базу данных: %v", err)
	}
	defer db.CloseDB()

	if err := telegram_api.InitBot(cfg.TelegramToken, cfg.AppEnv == "dev"); err != nil {
		log.Fatalf("Критическая ошибка: не удалось инициализировать Telegram бота: %v", err)
	}
	botAPI := telegram_api.Client.GetAPI()

	// --- Доменные сервисы ---
	notifier := telegram_api.NewNotifier(telegram_api.Client)
	admins := lifecycle.StaticAdmins(cfg.AdminChatIDs)

	broadcaster := broadcast.New(notifier, admins, cfg.Timezone)
	manager := lifecycle.NewManager(notifier, admins, broadcaster, cfg.Timezone)

	sched := scheduler.New(manager, notifier, cfg.Timezone)
	if err := sched.Start(); err != nil {
		log.Fatalf("Критическая ошибка: не удалось запустить планировщик: %v", err)
	}
	defer sched.Stop()

	sessionManager := session.NewSessionManager()

	botHandler := handlers.NewBotHandler(handlers.HandlerDependencies{
		Config:         cfg,
		BotClient:      telegram_api.Client,
		SessionManager: sessionManager,
		Lifecycle:      manager,
		Broadcaster:    broadcaster,
	})

	// --- HTTP API для WebApp ---
	apiRouter := chi.NewRouter()
	apiRouter.Use(middleware.Logger)
	apiRouter.Use(middleware.Recoverer)

	api.SetupRoutes(apiRouter, api.ApiDependencies{
		Config:    cfg,
		Lifecycle: manager,
	})

	go func() {
		port := os.Getenv("PORT")
		if port == "" {
			port = "8080"
		}
		log.Printf("Запуск HTTP-сервера для WebApp API на порту %s", port)
		if err := http.ListenAndServe(":"+port, apiRouter); err != nil {
			log.Fatalf("КРИТИЧЕСКАЯ ОШИБКА: не удалось запустить HTTP-сервер: %v", err)
		}
	}()

	// --- Цикл обновлений бота ---
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60
	updates := botAPI.GetUpdatesChan(u)

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	log.Println("Бот, планировщик и API-сервер запущены и готовы к работе...")

	for {
		select {
		case update := <-updates:
			if update.Message != nil {
				log.Printf("[%s] %s", update.Message.From.UserName, update.Message.Text)
				go botHandler.HandleMessage(update)
			} else if update.CallbackQuery != nil {
				log.Printf("Callback от %s: %s", update.CallbackQuery.From.UserName, update.CallbackQuery.Data)
				go botHandler.HandleCallbackQuery(update)
			}
		case sig := <-stop:
			log.Printf("Получен сигнал %v, завершаем работу...", sig)
			return
		}
	}
}
