package session

import (
	"log"
	"sync"

	"github.com/ragshata/RabotaHULT/internal/constants"
)

// SessionManager управляет состояниями пользователей и черновиками
// внутри многошаговых диалогов (онбординг, мастер создания заказа).
type SessionManager struct {
	userStates     map[int64]string   // Ключ: chatID, Значение: текущее состояние
	userStateMutex sync.RWMutex       // Мьютекс для доступа к userStates и userHistory
	userHistory    map[int64][]string // Ключ: chatID, Значение: история состояний

	tempOrders      map[int64]TempOrderData
	tempOrdersMutex sync.RWMutex

	tempWorkers      map[int64]TempWorkerData
	tempWorkersMutex sync.RWMutex
}

// NewSessionManager создает и возвращает новый экземпляр SessionManager.
func NewSessionManager() *SessionManager {
	return &SessionManager{
		userStates:  make(map[int64]string),
		userHistory: make(map[int64][]string),
		tempOrders:  make(map[int64]TempOrderData),
		tempWorkers: make(map[int64]TempWorkerData),
	}
}

// --- Управление состоянием пользователя (User State) ---

// GetState возвращает текущее состояние пользователя.
// Если состояние не установлено, возвращает STATE_IDLE.
func (sm *SessionManager) GetState(chatID int64) string {
	sm.userStateMutex.RLock()
	defer sm.userStateMutex.RUnlock()
	state, ok := sm.userStates[chatID]
	if !ok {
		return constants.STATE_IDLE
	}
	return state
}

// SetState устанавливает новое состояние для пользователя и добавляет его в историю.
func (sm *SessionManager) SetState(chatID int64, state string) {
	sm.userStateMutex.Lock()
	defer sm.userStateMutex.Unlock()

	sm.userStates[chatID] = state
	// Не дублируем последнее состояние в истории
	historyLen := len(sm.userHistory[chatID])
	if historyLen == 0 || sm.userHistory[chatID][historyLen-1] != state {
		sm.userHistory[chatID] = append(sm.userHistory[chatID], state)
	}
	log.Printf("SessionManager.SetState: Состояние для chatID %d установлено: %s", chatID, state)
}

// PopState удаляет последнее состояние из истории и устанавливает предыдущее как текущее.
// Если история пуста или содержит одно состояние, устанавливает STATE_IDLE.
func (sm *SessionManager) PopState(chatID int64) string {
	sm.userStateMutex.Lock()
	defer sm.userStateMutex.Unlock()

	history, ok := sm.userHistory[chatID]
	if ok && len(history) > 1 {
		sm.userHistory[chatID] = history[:len(history)-1]
		newState := sm.userHistory[chatID][len(sm.userHistory[chatID])-1]
		sm.userStates[chatID] = newState
		return newState
	}

	sm.userStates[chatID] = constants.STATE_IDLE
	sm.userHistory[chatID] = []string{constants.STATE_IDLE}
	return constants.STATE_IDLE
}

// ClearState сбрасывает состояние пользователя к STATE_IDLE и очищает историю.
func (sm *SessionManager) ClearState(chatID int64) {
	sm.userStateMutex.Lock()
	defer sm.userStateMutex.Unlock()
	sm.userStates[chatID] = constants.STATE_IDLE
	sm.userHistory[chatID] = []string{constants.STATE_IDLE}
}

// --- Управление черновиками заказов (Temp Orders) ---

// GetTempOrder возвращает черновик заказа админа.
// Если черновика нет, создает новый пустой.
func (sm *SessionManager) GetTempOrder(chatID int64) TempOrderData {
	sm.tempOrdersMutex.RLock()
	order, exists := sm.tempOrders[chatID]
	sm.tempOrdersMutex.RUnlock()

	if !exists {
		newOrder := NewTempOrder(chatID)
		sm.tempOrdersMutex.Lock()
		sm.tempOrders[chatID] = newOrder
		sm.tempOrdersMutex.Unlock()
		return newOrder
	}
	return order
}

// UpdateTempOrder обновляет черновик заказа.
func (sm *SessionManager) UpdateTempOrder(chatID int64, orderData TempOrderData) {
	sm.tempOrdersMutex.Lock()
	defer sm.tempOrdersMutex.Unlock()
	sm.tempOrders[chatID] = orderData
}

// ClearTempOrder удаляет черновик заказа.
func (sm *SessionManager) ClearTempOrder(chatID int64) {
	sm.tempOrdersMutex.Lock()
	defer sm.tempOrdersMutex.Unlock()
	delete(sm.tempOrders, chatID)
	log.Printf("SessionManager.ClearTempOrder: Черновик заказа для chatID %d удален.", chatID)
}

// --- Управление черновиками анкет (Temp Workers) ---

// GetTempWorker возвращает черновик анкеты онбординга.
func (sm *SessionManager) GetTempWorker(chatID int64) TempWorkerData {
	sm.tempWorkersMutex.RLock()
	data, exists := sm.tempWorkers[chatID]
	sm.tempWorkersMutex.RUnlock()

	if !exists {
		newData := TempWorkerData{}
		sm.tempWorkersMutex.Lock()
		sm.tempWorkers[chatID] = newData
		sm.tempWorkersMutex.Unlock()
		return newData
	}
	return data
}

// UpdateTempWorker обновляет черновик анкеты.
func (sm *SessionManager) UpdateTempWorker(chatID int64, data TempWorkerData) {
	sm.tempWorkersMutex.Lock()
	defer sm.tempWorkersMutex.Unlock()
	sm.tempWorkers[chatID] = data
}

// ClearTempWorker удаляет черновик анкеты.
func (sm *SessionManager) ClearTempWorker(chatID int64) {
	sm.tempWorkersMutex.Lock()
	defer sm.tempWorkersMutex.Unlock()
	delete(sm.tempWorkers, chatID)
}
