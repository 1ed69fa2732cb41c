package session

import (
	"github.com/ragshata/RabotaHULT/internal/models"
)

// TempOrderData — черновик заказа в мастере создания у админа.
// Встраивает models.Order и добавляет поля, специфичные для сессии.
type TempOrderData struct {
	models.Order
	AdminChatID      int64
	CurrentMessageID int // сообщение мастера, которое редактируем на каждом шаге

	// Контекст админских действий над существующим заказом
	TargetOrderID int64  // заказ, к которому относится отмена/редактирование
	EditField     string // редактируемое поле заказа
}

// NewTempOrder создает новый черновик для указанного chatID.
func NewTempOrder(chatID int64) TempOrderData {
	return TempOrderData{
		AdminChatID: chatID,
	}
}
