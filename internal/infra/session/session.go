package session

import (
	"errors"
	"time"
)

var (
	// ErrNotFound возвращается, когда сессии нет или она истекла
	ErrNotFound = errors.New("session: not found")

	// ErrStore возвращается при ошибке хранилища
	ErrStore = errors.New("session: store error")
)

// Session состояние диалога записи, ключ - ID разговора
type Session struct {
	ConversationID string            `json:"conversation_id"`
	State          string            `json:"state"`
	Data           map[string]string `json:"data"`
	UpdatedAt      time.Time         `json:"updated_at"`
}

// Get возвращает значение из контекста диалога
func (s *Session) Get(key string) string {
	if s.Data == nil {
		return ""
	}
	return s.Data[key]
}

// Set сохраняет значение в контексте диалога
func (s *Session) Set(key, value string) {
	if s.Data == nil {
		s.Data = make(map[string]string)
	}
	s.Data[key] = value
}
