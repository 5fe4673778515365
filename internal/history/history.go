package history

import (
	"sync"

	"travel-assistant/internal/llm"
)

// Manager keeps per-chat conversation context in memory. Context survives
// restarts only through the query cache, not through this manager.
type Manager struct {
	mu       sync.RWMutex
	sessions map[int64][]llm.Message
}

func NewManager() *Manager {
	return &Manager{sessions: make(map[int64][]llm.Message)}
}

// Reset drops the whole conversation for one chat.
func (m *Manager) Reset(chatID int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, chatID)
}

func (m *Manager) AppendUser(chatID int64, content string) {
	m.append(chatID, llm.Message{Role: "user", Content: content})
}

func (m *Manager) AppendAssistant(chatID int64, content string) {
	m.append(chatID, llm.Message{Role: "assistant", Content: content})
}

func (m *Manager) append(chatID int64, msg llm.Message) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[chatID] = append(m.sessions[chatID], msg)
}

// Messages returns a copy of the chat's context in order.
func (m *Manager) Messages(chatID int64) []llm.Message {
	m.mu.RLock()
	defer m.mu.RUnlock()
	es := m.sessions[chatID]
	out := make([]llm.Message, len(es))
	copy(out, es)
	return out
}
