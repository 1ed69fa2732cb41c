package formatters

import (
	"fmt"
	"strings"
	"time"

	"github.com/ragshata/RabotaHULT/internal/constants"
	"github.com/ragshata/RabotaHULT/internal/models"
	"github.com/ragshata/RabotaHULT/internal/utils"
)

const (
	separator = "─ ─ ─ ─ ─ ─ ─ ─ ─ ─ ─ ─ ─"
)

// payDisplay — строка оплаты для карточки по формату заказа.
func payDisplay(format string) string {
	switch format {
	case constants.FORMAT_SHIFT8:
		return fmt.Sprintf("%s за смену", utils.FormatMoney(constants.SHIFT8_RATE))
	case constants.FORMAT_DAY12:
		return fmt.Sprintf("%s за день", utils.FormatMoney(constants.DAY12_RATE))
	default:
		return fmt.Sprintf("%s/час (минимум %d часа)", utils.FormatMoney(constants.HOUR_RATE), constants.HOUR_MIN_UNIT)
	}
}

// FormatOrderCardForWorker форматирует карточку заказа в ленте работника.
func FormatOrderCardForWorker(order models.Order, loc *time.Location) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("📦 Заказ #%d\n", order.ID))
	sb.WriteString(separator + "\n")
	sb.WriteString(fmt.Sprintf("📋 %s\n", order.Description))
	sb.WriteString(fmt.Sprintf("📍 %s (%s)\n", order.Address, order.District))
	sb.WriteString(fmt.Sprintf("🕒 Начало: %s\n", order.StartTime.In(loc).Format("02.01 в 15:04")))
	sb.WriteString(fmt.Sprintf("⏱ Формат: %s\n", constants.FormatDisplayMap[order.Format]))
	sb.WriteString(fmt.Sprintf("💰 Оплата: %s\n", payDisplay(order.Format)))
	sb.WriteString(fmt.Sprintf("👥 Свободно мест: %d из %d\n", order.PlacesTotal-order.PlacesTaken, order.PlacesTotal))
	if order.CitizenshipRequired != constants.CITIZENSHIP_ANY {
		sb.WriteString(fmt.Sprintf("🛂 Гражданство: %s\n", order.CitizenshipRequired))
	}
	if order.Features.Valid && order.Features.String != "" {
		sb.WriteString(fmt.Sprintf("❗ Особенности: %s\n", order.Features.String))
	}
	return sb.String()
}

// FormatOrderCardForAdmin — карточка заказа для администратора,
// с контактами клиента и списком записанных работников.
func FormatOrderCardForAdmin(order models.Order, assigned []models.Worker, loc *time.Location) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("📦 Заказ #%d — %s\n", order.ID, constants.OrderStatusDisplayMap[order.Status]))
	sb.WriteString(separator + "\n")
	sb.WriteString("👤 КЛИЕНТ:\n")
	sb.WriteString(fmt.Sprintf(" •  %s, %s\n", order.ClientName, utils.FormatPhoneNumber(order.ClientPhone)))
	sb.WriteString("\n📋 ДЕТАЛИ:\n")
	sb.WriteString(fmt.Sprintf(" •  %s\n", order.Description))
	sb.WriteString(fmt.Sprintf(" •  Адрес: %s (%s)\n", order.Address, order.District))
	sb.WriteString(fmt.Sprintf(" •  Начало: %s\n", order.StartTime.In(loc).Format("02.01 в 15:04")))
	sb.WriteString(fmt.Sprintf(" •  Формат: %s, гражданство: %s\n",
		constants.FormatDisplayMap[order.Format], order.CitizenshipRequired))
	sb.WriteString(fmt.Sprintf(" •  Места: %d из %d\n", order.PlacesTaken, order.PlacesTotal))
	if order.Features.Valid && order.Features.String != "" {
		sb.WriteString(fmt.Sprintf(" •  Особенности: %s\n", order.Features.String))
	}
	if order.Reason.Valid && order.Reason.String != "" {
		sb.WriteString(fmt.Sprintf(" •  Причина отмены: %s\n", order.Reason.String))
	}

	sb.WriteString("\n👷 ЗАПИСАНЫ:\n")
	if len(assigned) == 0 {
		sb.WriteString(" •  пока никого\n")
	}
	for _, w := range assigned {
		sb.WriteString(fmt.Sprintf(" •  %s (%s), рейтинг %.1f\n",
			w.Name, utils.FormatPhoneNumber(w.Phone), w.Rating))
	}
	return sb.String()
}

// FormatShiftCard форматирует карточку смены работника.
func FormatShiftCard(shift models.Shift, loc *time.Location) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("📅 Смена #%d — %s\n", shift.ID, constants.ShiftStatusDisplayMap[shift.Status]))
	sb.WriteString(separator + "\n")
	sb.WriteString(fmt.Sprintf("📋 %s\n", shift.OrderDescription))
	sb.WriteString(fmt.Sprintf("📍 %s (%s)\n", shift.OrderAddress, shift.OrderDistrict))
	sb.WriteString(fmt.Sprintf("🕒 Начало: %s\n", shift.StartTime.In(loc).Format("02.01 в 15:04")))
	sb.WriteString(fmt.Sprintf("⏱ Формат: %s\n", constants.FormatDisplayMap[shift.OrderFormat]))
	if shift.OrderFeatures.Valid && shift.OrderFeatures.String != "" {
		sb.WriteString(fmt.Sprintf("❗ Особенности: %s\n", shift.OrderFeatures.String))
	}
	if shift.ArrivedAt.Valid {
		sb.WriteString(fmt.Sprintf("✅ На месте с %s\n", shift.ArrivedAt.Time.In(loc).Format("15:04")))
	}
	return sb.String()
}

// FormatBalance форматирует баланс работника с последними начислениями.
func FormatBalance(total float64, history []models.Transaction, loc *time.Location) string {
	var sb strings.Builder

	sb.WriteString("💰 БАЛАНС\n")
	sb.WriteString(separator + "\n")
	sb.WriteString(fmt.Sprintf("К выплате: %s\n", utils.FormatMoney(total)))

	if len(history) > 0 {
		sb.WriteString("\nПоследние начисления:\n")
		for _, tx := range history {
			status := "ожидает выплаты"
			if tx.Status == constants.TX_STATUS_PAID {
				status = "выплачено"
			}
			sb.WriteString(fmt.Sprintf(" •  %s — %s (%s)\n",
				tx.CreatedAt.In(loc).Format("02.01"), utils.FormatMoney(tx.Amount), status))
		}
	}
	return sb.String()
}

// FormatWorkerCardForAdmin — карточка работника для админ-панели.
func FormatWorkerCardForAdmin(w models.Worker, shiftsDone int, now time.Time, loc *time.Location) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("👷 %s\n", w.Name))
	sb.WriteString(separator + "\n")
	sb.WriteString(fmt.Sprintf(" •  Телефон: %s\n", utils.FormatPhoneNumber(w.Phone)))
	sb.WriteString(fmt.Sprintf(" •  Район: %s\n", w.District))
	sb.WriteString(fmt.Sprintf(" •  Гражданство: %s\n", citizenshipDisplay(w)))
	sb.WriteString(fmt.Sprintf(" •  Рейтинг: %.1f\n", w.Rating))
	sb.WriteString(fmt.Sprintf(" •  Завершено смен: %d\n", shiftsDone))

	switch {
	case w.Status == constants.WORKER_STATUS_BLOCKED:
		sb.WriteString(" •  Статус: заблокирован вручную\n")
	case w.IsBlockedAt(now):
		sb.WriteString(fmt.Sprintf(" •  Статус: блокировка до %s\n", w.BlockedUntil.Time.In(loc).Format("02.01.2006")))
	default:
		sb.WriteString(" •  Статус: активен\n")
	}
	return sb.String()
}

// FormatWorkerProfile — карточка собственного профиля работника.
func FormatWorkerProfile(w models.Worker) string {
	var sb strings.Builder

	sb.WriteString("👤 ВАШ ПРОФИЛЬ\n")
	sb.WriteString(separator + "\n")
	sb.WriteString(fmt.Sprintf("🧾 Имя: %s\n", w.Name))
	sb.WriteString(fmt.Sprintf("📞 Телефон: %s\n", utils.FormatPhoneNumber(w.Phone)))
	city := "—"
	if w.City.Valid && w.City.String != "" {
		city = w.City.String
	}
	sb.WriteString(fmt.Sprintf("🏙 Город: %s\n", city))
	sb.WriteString(fmt.Sprintf("📍 Район: %s\n", w.District))
	sb.WriteString(fmt.Sprintf("🌍 Гражданство: %s\n", citizenshipDisplay(w)))
	sb.WriteString(fmt.Sprintf("⭐️ Рейтинг: %.1f\n", w.Rating))
	return sb.String()
}

func citizenshipDisplay(w models.Worker) string {
	if w.Citizenship == constants.CITIZENSHIP_FOREIGN && w.Country.Valid && w.Country.String != "" {
		return fmt.Sprintf("%s (%s)", w.Citizenship, w.Country.String)
	}
	return w.Citizenship
}

// FormatOrderConfirmation — сводка заказа на шаге подтверждения в мастере.
func FormatOrderConfirmation(order models.Order, loc *time.Location) string {
	var sb strings.Builder

	sb.WriteString("✨ Проверьте заказ перед публикацией\n")
	sb.WriteString(separator + "\n")
	sb.WriteString("👤 КЛИЕНТ:\n")
	sb.WriteString(fmt.Sprintf(" •  %s, %s\n", order.ClientName, utils.FormatPhoneNumber(order.ClientPhone)))
	sb.WriteString("\n📋 ЗАКАЗ:\n")
	sb.WriteString(fmt.Sprintf(" •  %s\n", order.Description))
	sb.WriteString(fmt.Sprintf(" •  Адрес: %s (%s)\n", order.Address, order.District))
	sb.WriteString(fmt.Sprintf(" •  Начало: %s\n", order.StartTime.In(loc).Format("02.01 в 15:04")))
	sb.WriteString(fmt.Sprintf(" •  Формат: %s\n", constants.FormatDisplayMap[order.Format]))
	sb.WriteString(fmt.Sprintf(" •  Мест: %d\n", order.PlacesTotal))
	sb.WriteString(fmt.Sprintf(" •  Гражданство: %s\n", order.CitizenshipRequired))
	if order.Features.Valid && order.Features.String != "" {
		sb.WriteString(fmt.Sprintf(" •  Особенности: %s\n", order.Features.String))
	}
	sb.WriteString(separator + "\n")
	sb.WriteString("После подтверждения заказ разослан всем подходящим работникам.")
	return sb.String()
}

// FormatUnpaidSummaryList — список работников с невыплаченными суммами.
func FormatUnpaidSummaryList(summaries []models.UnpaidSummary) string {
	if len(summaries) == 0 {
		return "💰 Невыплаченных начислений нет."
	}
	var sb strings.Builder
	sb.WriteString("💰 К ВЫПЛАТЕ\n")
	sb.WriteString(separator + "\n")
	for _, s := range summaries {
		sb.WriteString(fmt.Sprintf(" •  %s (%s) — %s за %d смен\n",
			s.Name, utils.FormatPhoneNumber(s.Phone), utils.FormatMoney(s.Total), s.TxCount))
	}
	return sb.String()
}
