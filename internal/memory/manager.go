package memory

import (
	"sync"

	"github.com/google/uuid"
)

const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// maxTurnsPerSession bounds how much history one session retains
const maxTurnsPerSession = 50

// Turn is one message in a conversation
type Turn struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Manager holds per-session conversation history in process memory.
// Sessions are identified by opaque ids; history persistence across
// processes is a deployment concern outside this core.
type Manager struct {
	mu       sync.RWMutex
	sessions map[string][]Turn
}

// NewManager creates an empty session memory manager
func NewManager() *Manager {
	return &Manager{sessions: make(map[string][]Turn)}
}

// NewSessionID generates a fresh opaque session identifier
func NewSessionID() string {
	return uuid.NewString()
}

// AddUserMessage appends a user turn to a session
func (m *Manager) AddUserMessage(sessionID, content string) {
	m.append(sessionID, Turn{Role: RoleUser, Content: content})
}

// AddAssistantMessage appends an assistant turn to a session
func (m *Manager) AddAssistantMessage(sessionID, content string) {
	m.append(sessionID, Turn{Role: RoleAssistant, Content: content})
}

func (m *Manager) append(sessionID string, turn Turn) {
	m.mu.Lock()
	defer m.mu.Unlock()

	turns := append(m.sessions[sessionID], turn)
	if len(turns) > maxTurnsPerSession {
		turns = turns[len(turns)-maxTurnsPerSession:]
	}
	m.sessions[sessionID] = turns
}

// History returns up to the k most recent turns of a session, in order.
// k <= 0 returns the full retained history.
func (m *Manager) History(sessionID string, k int) []Turn {
	m.mu.RLock()
	defer m.mu.RUnlock()

	turns := m.sessions[sessionID]
	if k > 0 && len(turns) > k {
		turns = turns[len(turns)-k:]
	}

	out := make([]Turn, len(turns))
	copy(out, turns)
	return out
}

// Import replaces a session's history with an existing conversation
func (m *Manager) Import(sessionID string, turns []Turn) {
	m.mu.Lock()
	defer m.mu.Unlock()

	copied := make([]Turn, len(turns))
	copy(copied, turns)
	if len(copied) > maxTurnsPerSession {
		copied = copied[len(copied)-maxTurnsPerSession:]
	}
	m.sessions[sessionID] = copied
}

// Clear drops a session's history
func (m *Manager) Clear(sessionID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, sessionID)
}
