package constants

import "time"

// Статусы заказа
// Order statuses
const (
	ORDER_STATUS_CREATED   = "created"
	ORDER_STATUS_STARTED   = "started"
	ORDER_STATUS_DONE      = "done"
	ORDER_STATUS_CANCELLED = "cancelled"
)

// Статусы смены
// Shift statuses
const (
	SHIFT_STATUS_ACCEPTED  = "accepted"
	SHIFT_STATUS_ARRIVED   = "arrived"
	SHIFT_STATUS_DONE      = "done"
	SHIFT_STATUS_CANCELLED = "cancelled"
	SHIFT_STATUS_NO_SHOW   = "no_show"
)

// Статусы транзакций (выплаты)
const (
	TX_STATUS_UNPAID = "unpaid"
	TX_STATUS_PAID   = "paid"
)

// Статусы работника
const (
	WORKER_STATUS_ACTIVE  = "active"
	WORKER_STATUS_BLOCKED = "blocked"
)

// Форматы заказа
const (
	FORMAT_HOUR   = "hour"
	FORMAT_SHIFT8 = "shift8"
	FORMAT_DAY12  = "day12"
)

// Гражданство (значения совпадают с тем, что показываем пользователю)
const (
	CITIZENSHIP_RF      = "РФ"
	CITIZENSHIP_FOREIGN = "Иностранец"
	CITIZENSHIP_ANY     = "Любое"
)

// Ставки оплаты
const (
	HOUR_RATE     = 400.0 // ₽ за час, минимум 4 часа
	HOUR_MIN_UNIT = 4     // минимальное количество оплачиваемых часов
	SHIFT8_RATE   = 3500.0
	DAY12_RATE    = 4800.0
)

// Плановая длительность смены по формату.
// Это именно плановая длительность для проверки пересечений,
// фактическая оплачиваемая длительность считается при завершении.
var FormatDurations = map[string]time.Duration{
	FORMAT_HOUR:   4 * time.Hour,
	FORMAT_SHIFT8: 8 * time.Hour,
	FORMAT_DAY12:  12 * time.Hour,
}

// FormatDuration возвращает плановую длительность формата.
// Неизвестный формат трактуем как почасовой (4 часа).
func FormatDuration(format string) time.Duration {
	if d, ok := FormatDurations[format]; ok {
		return d
	}
	return FormatDurations[FORMAT_HOUR]
}

// Отображаемые названия для карточек
var (
	OrderStatusDisplayMap = map[string]string{
		ORDER_STATUS_CREATED:   "Набор открыт",
		ORDER_STATUS_STARTED:   "Идёт работа",
		ORDER_STATUS_DONE:      "Завершён",
		ORDER_STATUS_CANCELLED: "Отменён",
	}
	ShiftStatusDisplayMap = map[string]string{
		SHIFT_STATUS_ACCEPTED:  "Записан",
		SHIFT_STATUS_ARRIVED:   "На месте",
		SHIFT_STATUS_DONE:      "Завершена",
		SHIFT_STATUS_CANCELLED: "Отменена",
		SHIFT_STATUS_NO_SHOW:   "Неявка",
	}
	FormatDisplayMap = map[string]string{
		FORMAT_HOUR:   "Почасовая",
		FORMAT_SHIFT8: "Смена 8 часов",
		FORMAT_DAY12:  "День 12 часов",
	}
)

// Виды уведомлений планировщика (notifications_log.kind)
const (
	NOTIFY_KIND_PRE2H     = "pre2h"
	NOTIFY_KIND_PRE30M    = "pre30m"
	NOTIFY_KIND_START_NOW = "start_now"
	NOTIFY_KIND_NO_SHOW   = "no_show"
	NOTIFY_KIND_AUTOPING  = "autoping"
)

// Временные окна жизненного цикла
const (
	SWEEP_INTERVAL        = 5 * time.Minute  // шаг планировщика и ширина окна напоминаний
	ARRIVE_WINDOW         = time.Hour        // "Я на месте": старт-1ч .. старт+1ч
	NO_SHOW_GRACE         = 15 * time.Minute // сколько ждём отметки прибытия после старта
	AUTOPING_DELAY        = 30 * time.Minute // автопинг спустя 30 минут после планового конца
	EARLY_CANCEL_WINDOW   = 2 * time.Hour    // "мягкая" отмена в течение 2 часов после записи
	FEED_MIN_LEAD         = time.Hour        // в ленте только заказы со стартом минимум через час
	SKIP_SUPPRESS_WINDOW  = 48 * time.Hour   // скрытие пропущенного заказа из ленты
	NO_SHOW_BLOCK_DAYS    = 7
	LATE_CANCEL_RATING    = -0.5
	EARLY_CANCEL_RATING   = -0.1
	NO_SHOW_RATING        = -1.0
)

// Параметры рассылки
const (
	BROADCAST_BATCH_SIZE = 10              // сообщений в пачке
	BROADCAST_BATCH_WAIT = 1 * time.Second // пауза между пачками
	BROADCAST_MAX_ERRORS = 5               // сколько примеров ошибок показываем админу
)

// Состояния сессий (FSM)
const (
	STATE_IDLE = "idle"

	// Онбординг работника
	STATE_ONBOARD_PHONE       = "onboard_phone"
	STATE_ONBOARD_NAME        = "onboard_name"
	STATE_ONBOARD_CITY        = "onboard_city"
	STATE_ONBOARD_DISTRICT    = "onboard_district"
	STATE_ONBOARD_CITIZENSHIP = "onboard_citizenship"
	STATE_ONBOARD_COUNTRY     = "onboard_country"

	// Мастер создания заказа админом
	STATE_ORDER_CLIENT_NAME  = "order_client_name"
	STATE_ORDER_CLIENT_PHONE = "order_client_phone"
	STATE_ORDER_DESCRIPTION  = "order_description"
	STATE_ORDER_ADDRESS      = "order_address"
	STATE_ORDER_DISTRICT     = "order_district"
	STATE_ORDER_START_TIME   = "order_start_time"
	STATE_ORDER_PLACES       = "order_places"
	STATE_ORDER_FORMAT       = "order_format"
	STATE_ORDER_CITIZENSHIP  = "order_citizenship"
	STATE_ORDER_FEATURES     = "order_features"
	STATE_ORDER_CONFIRM      = "order_confirm"

	// Редактирование профиля работника
	STATE_PROFILE_NAME        = "profile_name"
	STATE_PROFILE_PHONE       = "profile_phone"
	STATE_PROFILE_DISTRICT    = "profile_district"
	STATE_PROFILE_CITIZENSHIP = "profile_citizenship"
	STATE_PROFILE_COUNTRY     = "profile_country"

	// Отмена заказа админом (ввод причины)
	STATE_ADMIN_CANCEL_REASON = "admin_cancel_reason"

	// Редактирование заказа админом
	STATE_ADMIN_EDIT_VALUE = "admin_edit_value"
)

// Префиксы callback-данных
const (
	CALLBACK_ORDERS_PAGE      = "orders_page"
	CALLBACK_ORDER_CARD       = "order_card"
	CALLBACK_TAKE_ORDER       = "take_order"
	CALLBACK_SKIP_ORDER       = "skip_order"
	CALLBACK_SHIFTS_TAB       = "shifts_tab"
	CALLBACK_SHIFT_CARD       = "shift_card"
	CALLBACK_SHIFT_ARRIVE     = "shift_arrive"
	CALLBACK_SHIFT_DONE       = "shift_done"
	CALLBACK_SHIFT_CANCEL     = "shift_cancel"
	CALLBACK_SHIFT_STILL      = "shift_still"
	CALLBACK_SHIFT_ISSUE      = "shift_issue"
	CALLBACK_CITIZENSHIP      = "citizenship"
	CALLBACK_DISTRICT         = "district"
	CALLBACK_FORMAT           = "format"
	CALLBACK_ADMIN_PAY        = "admin_pay"
	CALLBACK_ADMIN_BROADCAST  = "admin_broadcast"
	CALLBACK_ADMIN_CANCEL     = "admin_cancel_order"
	CALLBACK_ADMIN_EDIT       = "admin_edit_order"
	CALLBACK_ADMIN_UNASSIGN   = "admin_unassign"
	CALLBACK_ADMIN_ASSIGN     = "admin_assign"
	CALLBACK_ADMIN_WORKERS    = "admin_workers_page"
	CALLBACK_ADMIN_WORKER     = "admin_worker_info"
	CALLBACK_ADMIN_W_TOGGLE   = "admin_worker_toggle"
	CALLBACK_ADMIN_W_PURGE    = "admin_worker_purge"
	CALLBACK_ADMIN_ORDER_QR   = "admin_order_qr"
	CALLBACK_CONFIRM_ORDER    = "confirm_order"
	CALLBACK_CANCEL_CREATION  = "create_order_cancel"
	CALLBACK_PROFILE_EDIT     = "profile_edit"
	CALLBACK_PAYOUT_INFO      = "payout_info"
	CALLBACK_BACK_TO_MAIN     = "back_to_main"
)

// Кнопки главного меню
const (
	MENU_NEW_ORDERS   = "📦 Новые заказы"
	MENU_MY_SHIFTS    = "📅 Мои смены"
	MENU_BALANCE      = "💰 Баланс"
	MENU_PROFILE      = "👤 Профиль"
	MENU_HELP         = "ℹ️ Помощь"
	MENU_ADMIN_CREATE = "➕ Создать заказ"
	MENU_ADMIN_PAYOUT = "💰 Выплаты"
	MENU_ADMIN_STAFF  = "👷 Рабочие"
	MENU_ADMIN_EXPORT = "📊 Выгрузка"
)

// Размеры страниц пагинации
const (
	ORDERS_PAGE_SIZE  = 5
	WORKERS_PAGE_SIZE = 10
)

// Районы Екатеринбурга, доступные в мастере создания заказа
var ValidDistricts = []string{
	"Академический",
	"Верх-Исетский",
	"Железнодорожный",
	"Кировский",
	"Ленинский",
	"Октябрьский",
	"Орджоникидзевский",
	"Чкаловский",
}
