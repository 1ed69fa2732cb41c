package formatters

import (
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/ragshata/RabotaHULT/internal/constants"
	"github.com/ragshata/RabotaHULT/internal/models"
)

func sampleOrder() models.Order {
	return models.Order{
		ID:                  7,
		ClientName:          "ООО Стройка",
		ClientPhone:         "+79221234567",
		Description:         "Разгрузка фуры",
		Address:             "ул. Ленина, 1",
		District:            "Ленинский",
		StartTime:           time.Date(2026, 9, 15, 9, 0, 0, 0, time.UTC),
		Format:              constants.FORMAT_HOUR,
		CitizenshipRequired: constants.CITIZENSHIP_ANY,
		PlacesTotal:         4,
		PlacesTaken:         1,
		Status:              constants.ORDER_STATUS_CREATED,
	}
}

func TestFormatOrderCardForWorker(t *testing.T) {
	text := FormatOrderCardForWorker(sampleOrder(), time.UTC)

	assert.Contains(t, text, "Заказ #7")
	assert.Contains(t, text, "Разгрузка фуры")
	assert.Contains(t, text, "15.09 в 09:00")
	assert.Contains(t, text, "Свободно мест: 3 из 4")
	assert.Contains(t, text, "400 ₽/час")
	// гражданство "Любое" в карточке не показываем
	assert.NotContains(t, text, "Гражданство")
}

func TestFormatOrderCardForWorkerCitizenship(t *testing.T) {
	o := sampleOrder()
	o.CitizenshipRequired = constants.CITIZENSHIP_RF
	text := FormatOrderCardForWorker(o, time.UTC)
	assert.Contains(t, text, "Гражданство: РФ")
}

func TestFormatShiftCard(t *testing.T) {
	shift := models.Shift{
		ID:               3,
		Status:           constants.SHIFT_STATUS_ARRIVED,
		StartTime:        time.Date(2026, 9, 15, 9, 0, 0, 0, time.UTC),
		OrderDescription: "Разгрузка фуры",
		OrderAddress:     "ул. Ленина, 1",
		OrderDistrict:    "Ленинский",
		OrderFormat:      constants.FORMAT_SHIFT8,
		ArrivedAt:        sql.NullTime{Time: time.Date(2026, 9, 15, 8, 50, 0, 0, time.UTC), Valid: true},
	}
	text := FormatShiftCard(shift, time.UTC)

	assert.Contains(t, text, "Смена #3 — На месте")
	assert.Contains(t, text, "Смена 8 часов")
	assert.Contains(t, text, "На месте с 08:50")
}

func TestFormatBalance(t *testing.T) {
	history := []models.Transaction{
		{Amount: 1600, Status: constants.TX_STATUS_UNPAID, CreatedAt: time.Date(2026, 9, 10, 20, 0, 0, 0, time.UTC)},
		{Amount: 3500, Status: constants.TX_STATUS_PAID, CreatedAt: time.Date(2026, 9, 8, 20, 0, 0, 0, time.UTC)},
	}
	text := FormatBalance(1600, history, time.UTC)

	assert.Contains(t, text, "К выплате: 1600 ₽")
	assert.Contains(t, text, "10.09 — 1600 ₽ (ожидает выплаты)")
	assert.Contains(t, text, "08.09 — 3500 ₽ (выплачено)")
}

func TestFormatWorkerProfile(t *testing.T) {
	w := models.Worker{
		Name:        "Иванов Иван",
		Phone:       "+79221234567",
		City:        sql.NullString{String: "Екатеринбург", Valid: true},
		District:    "Кировский",
		Citizenship: constants.CITIZENSHIP_FOREIGN,
		Country:     sql.NullString{String: "Казахстан", Valid: true},
		Rating:      -0.5,
	}
	text := FormatWorkerProfile(w)

	assert.Contains(t, text, "Имя: Иванов Иван")
	assert.Contains(t, text, "Телефон: +7 (922) 123-45-67")
	assert.Contains(t, text, "Город: Екатеринбург")
	assert.Contains(t, text, "Район: Кировский")
	assert.Contains(t, text, "Гражданство: Иностранец (Казахстан)")
	assert.Contains(t, text, "Рейтинг: -0.5")
}

func TestFormatWorkerProfileWithoutCity(t *testing.T) {
	w := models.Worker{
		Name:        "Петров Пётр",
		Phone:       "+79220000000",
		District:    "Ленинский",
		Citizenship: constants.CITIZENSHIP_RF,
	}
	text := FormatWorkerProfile(w)

	assert.Contains(t, text, "Город: —")
	assert.Contains(t, text, "Гражданство: РФ")
}

func TestFormatUnpaidSummaryListEmpty(t *testing.T) {
	assert.Contains(t, FormatUnpaidSummaryList(nil), "Невыплаченных начислений нет")
}
