package lifecycle

import "errors"

// Сентинельные ошибки жизненного цикла смен. Хендлеры и API
// сопоставляют их с пользовательскими сообщениями через UserMessage.
var (
	ErrNotFound           = errors.New("lifecycle: запись не найдена")
	ErrOrderNotOpen       = errors.New("lifecycle: заказ не открыт для набора")
	ErrCapacityFull       = errors.New("lifecycle: все места заняты")
	ErrCitizenship        = errors.New("lifecycle: не подходит по гражданству")
	ErrTimeConflict       = errors.New("lifecycle: пересечение по времени с другой сменой")
	ErrBlocked            = errors.New("lifecycle: работник заблокирован")
	ErrCooldown           = errors.New("lifecycle: работник на кулдауне")
	ErrAlreadyClaimed     = errors.New("lifecycle: смена по этому заказу уже взята")
	ErrCancelAfterStart   = errors.New("lifecycle: отмена после начала смены невозможна")
	ErrArriveWindow       = errors.New("lifecycle: отметка о прибытии вне допустимого окна")
	ErrTooEarlyToComplete = errors.New("lifecycle: минимальная длительность ещё не отработана")
	ErrShiftState         = errors.New("lifecycle: недопустимый статус смены для операции")
)

var userMessages = map[error]string{
	ErrNotFound:           "Запись не найдена. Обновите список и попробуйте снова.",
	ErrOrderNotOpen:       "Набор по этому заказу уже закрыт.",
	ErrCapacityFull:       "Все места по заказу уже заняты.",
	ErrCitizenship:        "Этот заказ не подходит вам по гражданству.",
	ErrTimeConflict:       "У вас уже есть смена, пересекающаяся по времени с этим заказом.",
	ErrBlocked:            "Ваш доступ к взятию смен временно ограничен.",
	ErrCooldown:           "Вы пока не можете брать новые смены. Попробуйте позже.",
	ErrAlreadyClaimed:     "Вы уже взяли смену по этому заказу.",
	ErrCancelAfterStart:   "Смену нельзя отменить после её начала. Обратитесь к администратору.",
	ErrArriveWindow:       "Отметиться можно не раньше чем за час до начала смены.",
	ErrTooEarlyToComplete: "Завершить смену можно только после минимального отработанного времени.",
	ErrShiftState:         "Статус смены уже изменился. Обновите карточку смены.",
}

// UserMessage возвращает текст для пользователя по ошибке жизненного цикла.
// Для неизвестных ошибок возвращает общее сообщение.
func UserMessage(err error) string {
	for sentinel, msg := range userMessages {
		if errors.Is(err, sentinel) {
			return msg
		}
	}
	return "Произошла ошибка. Попробуйте ещё раз позже."
}
