package api

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"sort"
	"strings"

	"github.com/google/uuid"

	"github.com/ragshata/RabotaHULT/internal/db"
	"github.com/ragshata/RabotaHULT/internal/models"
)

// WorkerContextKey — ключ работника в контексте запроса.
var WorkerContextKey = &contextKey{"Worker"}

// RequestIDContextKey — ключ идентификатора запроса.
var RequestIDContextKey = &contextKey{"RequestID"}

type contextKey struct {
	name string
}

// RequestIDMiddleware присваивает каждому запросу короткий ID для логов.
func RequestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		reqID := r.Header.Get("X-Request-ID")
		if reqID == "" {
			reqID = uuid.NewString()[:8]
		}
		w.Header().Set("X-Request-ID", reqID)
		ctx := context.WithValue(r.Context(), RequestIDContextKey, reqID)
		log.Printf("api[%s]: %s %s", reqID, r.Method, r.URL.Path)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// AuthMiddleware проверяет заголовок X-Telegram-Auth с initData
// и кладёт работника из БД в контекст запроса.
func AuthMiddleware(botToken string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("X-Telegram-Auth")
			if authHeader == "" {
				writeJSONError(w, http.StatusUnauthorized, "Unauthorized: Missing X-Telegram-Auth header")
				return
			}

			isValid, userData, err := validateInitData(authHeader, botToken)
			if err != nil || !isValid {
				log.Printf("AuthMiddleware: невалидный initData: %v", err)
				writeJSONError(w, http.StatusUnauthorized, "Unauthorized: Invalid initData")
				return
			}

			worker, err := db.GetWorkerByTelegramID(userData.ID)
			if err != nil {
				log.Printf("AuthMiddleware: работник не найден, TelegramID=%d: %v", userData.ID, err)
				writeJSONError(w, http.StatusUnauthorized, "Unauthorized: Worker not found")
				return
			}

			ctx := context.WithValue(r.Context(), WorkerContextKey, worker)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// AdminMiddleware пускает дальше только админов из конфига.
func AdminMiddleware(isAdmin func(int64) bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			worker, ok := r.Context().Value(WorkerContextKey).(models.Worker)
			if !ok || !isAdmin(worker.TelegramID) {
				writeJSONError(w, http.StatusForbidden, "Forbidden: Insufficient permissions")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// Структура для парсинга JSON из initData
type telegramUserData struct {
	ID        int64  `json:"id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Username  string `json:"username"`
}

// validateInitData проверяет подлинность данных от Telegram WebApp.
func validateInitData(initData, botToken string) (bool, telegramUserData, error) {
	var userData telegramUserData

	q, err := url.ParseQuery(initData)
	if err != nil {
		return false, userData, fmt.Errorf("failed to parse initData: %w", err)
	}

	hash := q.Get("hash")
	if hash == "" {
		return false, userData, fmt.Errorf("hash is not present in initData")
	}

	userJSON := q.Get("user")
	if userJSON == "" {
		return false, userData, fmt.Errorf("user data is not present in initData")
	}
	if err := json.Unmarshal([]byte(userJSON), &userData); err != nil {
		return false, userData, fmt.Errorf("failed to unmarshal user data: %w", err)
	}

	var pairs []string
	for k, v := range q {
		if k != "hash" {
			pairs = append(pairs, fmt.Sprintf("%s=%s", k, v[0]))
		}
	}
	sort.Strings(pairs)
	dataCheckString := strings.Join(pairs, "\n")

	secretKey := hmac.New(sha256.New, []byte("WebAppData"))
	secretKey.Write([]byte(botToken))

	h := hmac.New(sha256.New, secretKey.Sum(nil))
	h.Write([]byte(dataCheckString))
	calculatedHash := hex.EncodeToString(h.Sum(nil))

	return calculatedHash == hash, userData, nil
}
