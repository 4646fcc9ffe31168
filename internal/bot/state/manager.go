package state

import "sync"

// Conversation states
const (
	None             = "none"
	WaitingForSearch = "waiting_for_search"
	WaitingForMeal   = "waiting_for_meal"
	WaitingForAmount = "waiting_for_amount"
	WaitingForPhoto  = "waiting_for_photo"
)

// Temp data keys
const (
	KeyResults  = "results"
	KeyFoodID   = "food_id"
	KeyServing  = "serving"
	KeyQuantity = "quantity"
	KeyMeal     = "meal"
)

// StateManager keeps per-chat conversation state between updates.
type StateManager interface {
	SetUserState(userID int64, state string)
	GetUserState(userID int64) string
	SetTempData(userID int64, key, value string)
	GetTempData(userID int64, key string) (string, bool)
	ClearTempData(userID int64)
}

// Reset drops the state and the temp data of a chat.
func Reset(m StateManager, userID int64) {
	m.SetUserState(userID, None)
	m.ClearTempData(userID)
}

// Manager is the in-memory StateManager.
type Manager struct {
	userStates map[int64]string
	tempData   map[int64]map[string]string
	mu         sync.RWMutex
}

// NewManager creates a new in-memory state manager
func NewManager() *Manager {
	return &Manager{
		userStates: make(map[int64]string),
		tempData:   make(map[int64]map[string]string),
	}
}

// SetUserState sets the state for a user
func (m *Manager) SetUserState(userID int64, state string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.userStates[userID] = state
}

// GetUserState gets the state for a user
func (m *Manager) GetUserState(userID int64) string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	state, exists := m.userStates[userID]
	if !exists {
		return None
	}
	return state
}

// SetTempData sets temporary data for a user
func (m *Manager) SetTempData(userID int64, key, value string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.tempData[userID] == nil {
		m.tempData[userID] = make(map[string]string)
	}
	m.tempData[userID][key] = value
}

// GetTempData gets temporary data for a user
func (m *Manager) GetTempData(userID int64, key string) (string, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	value, exists := m.tempData[userID][key]
	return value, exists
}

// ClearTempData clears all temporary data for a user
func (m *Manager) ClearTempData(userID int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.tempData, userID)
}
