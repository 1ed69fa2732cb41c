package api

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/ragshata/RabotaHULT/internal/constants"
	"github.com/ragshata/RabotaHULT/internal/db"
	"github.com/ragshata/RabotaHULT/internal/lifecycle"
	"github.com/ragshata/RabotaHULT/internal/models"
)

// jsonResponse — стандартная обёртка ответа API.
type jsonResponse struct {
	Status  string      `json:"status"` // "success" или "error"
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// WorkerProfileResponse — профиль работника для WebApp.
type WorkerProfileResponse struct {
	ID          int64   `json:"id"`
	Name        string  `json:"name"`
	Phone       string  `json:"phone"`
	District    string  `json:"district"`
	Citizenship string  `json:"citizenship"`
	Rating      float64 `json:"rating"`
	Status      string  `json:"status"`
	Balance     float64 `json:"balance"`
}

// OrderItem — карточка заказа в ленте.
type OrderItem struct {
	ID          int64  `json:"id"`
	Description string `json:"description"`
	Address     string `json:"address"`
	District    string `json:"district"`
	StartTime   string `json:"start_time"`
	Format      string `json:"format"`
	Citizenship string `json:"citizenship"`
	PlacesFree  int    `json:"places_free"`
	PlacesTotal int    `json:"places_total"`
}

// ShiftItem — смена работника.
type ShiftItem struct {
	ID          int64  `json:"id"`
	OrderID     int64  `json:"order_id"`
	Status      string `json:"status"`
	StartTime   string `json:"start_time"`
	Description string `json:"description"`
	Address     string `json:"address"`
	Format      string `json:"format"`
}

// OrdersFeedResponse — страница ленты.
type OrdersFeedResponse struct {
	Orders     []OrderItem `json:"orders"`
	Page       int         `json:"page"`
	TotalPages int         `json:"total_pages"`
}

func writeJSONError(w http.ResponseWriter, statusCode int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(jsonResponse{Status: "error", Message: message})
}

func writeJSONSuccess(w http.ResponseWriter, message string, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(jsonResponse{Status: "success", Message: message, Data: data})
}

func workerFromRequest(w http.ResponseWriter, r *http.Request) (models.Worker, bool) {
	worker, ok := r.Context().Value(WorkerContextKey).(models.Worker)
	if !ok {
		writeJSONError(w, http.StatusForbidden, "Worker data not found in context")
		return models.Worker{}, false
	}
	return worker, true
}

func orderToItem(o models.Order) OrderItem {
	return OrderItem{
		ID:          o.ID,
		Description: o.Description,
		Address:     o.Address,
		District:    o.District,
		StartTime:   o.StartTime.Format(time.RFC3339),
		Format:      o.Format,
		Citizenship: o.CitizenshipRequired,
		PlacesFree:  o.PlacesTotal - o.PlacesTaken,
		PlacesTotal: o.PlacesTotal,
	}
}

func shiftToItem(s models.Shift) ShiftItem {
	return ShiftItem{
		ID:          s.ID,
		OrderID:     s.OrderID,
		Status:      s.Status,
		StartTime:   s.StartTime.Format(time.RFC3339),
		Description: s.OrderDescription,
		Address:     s.OrderAddress,
		Format:      s.OrderFormat,
	}
}

// GetWorkerProfile отдаёт профиль с суммой невыплаченного баланса.
func GetWorkerProfile(w http.ResponseWriter, r *http.Request) {
	worker, ok := workerFromRequest(w, r)
	if !ok {
		return
	}
	balance, _, err := db.GetWorkerBalance(worker.ID, 0)
	if err != nil {
		log.Printf("GetWorkerProfile: ошибка баланса работника %d: %v", worker.ID, err)
		writeJSONError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	writeJSONSuccess(w, "", WorkerProfileResponse{
		ID:          worker.ID,
		Name:        worker.Name,
		Phone:       worker.Phone,
		District:    worker.District,
		Citizenship: worker.Citizenship,
		Rating:      worker.Rating,
		Status:      worker.Status,
		Balance:     balance,
	})
}

// GetOrdersFeed отдаёт страницу подходящих открытых заказов.
func GetOrdersFeed(w http.ResponseWriter, r *http.Request) {
	worker, ok := workerFromRequest(w, r)
	if !ok {
		return
	}
	// Страницы в API отдаются с единицы, в хранилище считаются с нуля.
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	if page < 1 {
		page = 1
	}

	orders, total, err := db.ListOpenOrdersForWorker(worker.ID, time.Now(), page-1, constants.ORDERS_PAGE_SIZE)
	if err != nil {
		log.Printf("GetOrdersFeed: ошибка ленты работника %d: %v", worker.ID, err)
		writeJSONError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	totalPages := (total + constants.ORDERS_PAGE_SIZE - 1) / constants.ORDERS_PAGE_SIZE
	if totalPages < 1 {
		totalPages = 1
	}
	items := make([]OrderItem, 0, len(orders))
	for _, o := range orders {
		items = append(items, orderToItem(o))
	}
	writeJSONSuccess(w, "", OrdersFeedResponse{Orders: items, Page: page, TotalPages: totalPages})
}

// GetWorkerShifts отдаёт смены работника по вкладке (accepted|done|cancelled).
func GetWorkerShifts(w http.ResponseWriter, r *http.Request) {
	worker, ok := workerFromRequest(w, r)
	if !ok {
		return
	}
	tab := r.URL.Query().Get("tab")
	if tab == "" {
		tab = constants.SHIFT_STATUS_ACCEPTED
	}
	shifts, err := db.ListWorkerShifts(worker.ID, tab)
	if err != nil {
		log.Printf("GetWorkerShifts: ошибка списка смен работника %d: %v", worker.ID, err)
		writeJSONError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	items := make([]ShiftItem, 0, len(shifts))
	for _, s := range shifts {
		items = append(items, shiftToItem(s))
	}
	writeJSONSuccess(w, "", items)
}

// ClaimOrderHandler записывает работника на заказ.
func ClaimOrderHandler(manager *lifecycle.Manager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		worker, ok := workerFromRequest(w, r)
		if !ok {
			return
		}
		orderID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
		if err != nil {
			writeJSONError(w, http.StatusBadRequest, "Invalid order id")
			return
		}
		shift, err := manager.Claim(worker.ID, orderID)
		if err != nil {
			writeLifecycleError(w, err)
			return
		}
		writeJSONSuccess(w, "Вы записаны на заказ", shiftToItem(shift))
	}
}

// ShiftActionHandler выполняет действие над сменой: arrive, complete, cancel.
func ShiftActionHandler(manager *lifecycle.Manager, action string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		worker, ok := workerFromRequest(w, r)
		if !ok {
			return
		}
		shiftID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
		if err != nil {
			writeJSONError(w, http.StatusBadRequest, "Invalid shift id")
			return
		}

		switch action {
		case "arrive":
			if err := manager.Arrive(shiftID, worker.ID); err != nil {
				writeLifecycleError(w, err)
				return
			}
			writeJSONSuccess(w, "Прибытие отмечено", nil)
		case "complete":
			amount, err := manager.Complete(shiftID, worker.ID)
			if err != nil {
				writeLifecycleError(w, err)
				return
			}
			writeJSONSuccess(w, "Смена завершена", map[string]float64{"amount": amount})
		case "cancel":
			penalty, err := manager.WorkerCancel(shiftID, worker.ID)
			if err != nil {
				writeLifecycleError(w, err)
				return
			}
			writeJSONSuccess(w, "Запись отменена", map[string]float64{"rating_delta": penalty.RatingDelta})
		default:
			writeJSONError(w, http.StatusNotFound, "Unknown action")
		}
	}
}

// GetUnpaidSummaryHandler — сводка задолженностей по работникам.
func GetUnpaidSummaryHandler(w http.ResponseWriter, _ *http.Request) {
	summaries, err := db.GetUnpaidSummary()
	if err != nil {
		log.Printf("GetUnpaidSummaryHandler: %v", err)
		writeJSONError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	type row struct {
		WorkerID int64   `json:"worker_id"`
		Name     string  `json:"name"`
		Phone    string  `json:"phone"`
		Total    float64 `json:"total"`
		TxCount  int     `json:"tx_count"`
	}
	rows := make([]row, 0, len(summaries))
	for _, s := range summaries {
		rows = append(rows, row{WorkerID: s.WorkerID, Name: s.Name, Phone: s.Phone, Total: s.Total, TxCount: s.TxCount})
	}
	writeJSONSuccess(w, "", rows)
}

// MarkWorkerPaidHandler отмечает все начисления работника выплаченными.
func MarkWorkerPaidHandler(w http.ResponseWriter, r *http.Request) {
	workerID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, "Invalid worker id")
		return
	}
	paid, err := db.MarkWorkerPaid(workerID)
	if err != nil {
		log.Printf("MarkWorkerPaidHandler: работник %d: %v", workerID, err)
		writeJSONError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	writeJSONSuccess(w, "Выплата отмечена", map[string]int64{"paid_count": paid})
}

// writeLifecycleError переводит доменные ошибки в HTTP-коды.
func writeLifecycleError(w http.ResponseWriter, err error) {
	code := http.StatusConflict
	if errors.Is(err, lifecycle.ErrNotFound) {
		code = http.StatusNotFound
	}
	writeJSONError(w, code, lifecycle.UserMessage(err))
}
