package monitoring

import (
	"sync"
	"time"
)

// recentLimit bounds the in-memory interaction ring
const recentLimit = 100

// Interaction is one logged question/answer exchange
type Interaction struct {
	UserMessage string    `json:"user_message"`
	BotResponse string    `json:"bot_response"`
	QueryType   string    `json:"query_type"`
	DataSource  string    `json:"data_source"`
	UserID      int       `json:"user_id,omitempty"`
	Timestamp   time.Time `json:"timestamp"`
}

// Stats summarizes logged interactions. Percentages are rounded and
// zero-safe when nothing has been logged yet.
type Stats struct {
	TotalInteractions int            `json:"total_interactions"`
	QueryTypes        map[string]int `json:"query_types"`
	DataSources       map[string]int `json:"data_sources"`
}

// Monitor records chat interactions for operational visibility. Recording
// must never affect the user-facing path, so it holds everything in process
// memory and has no failure mode.
type Monitor struct {
	mu          sync.Mutex
	total       int
	byQueryType map[string]int
	bySource    map[string]int
	recent      []Interaction
}

// NewMonitor creates an empty interaction monitor
func NewMonitor() *Monitor {
	return &Monitor{
		byQueryType: make(map[string]int),
		bySource:    make(map[string]int),
	}
}

// Record logs one interaction
func (m *Monitor) Record(userMessage, botResponse, queryType, dataSource string, userID int) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.total++
	m.byQueryType[queryType]++
	m.bySource[dataSource]++

	m.recent = append(m.recent, Interaction{
		UserMessage: userMessage,
		BotResponse: botResponse,
		QueryType:   queryType,
		DataSource:  dataSource,
		UserID:      userID,
		Timestamp:   time.Now().UTC(),
	})
	if len(m.recent) > recentLimit {
		m.recent = m.recent[len(m.recent)-recentLimit:]
	}
}

// Stats returns percentage breakdowns by query type and data source
func (m *Monitor) Stats() Stats {
	m.mu.Lock()
	defer m.mu.Unlock()

	stats := Stats{
		TotalInteractions: m.total,
		QueryTypes:        make(map[string]int, len(m.byQueryType)),
		DataSources:       make(map[string]int, len(m.bySource)),
	}
	for queryType, count := range m.byQueryType {
		stats.QueryTypes[queryType] = percentage(count, m.total)
	}
	for source, count := range m.bySource {
		stats.DataSources[source] = percentage(count, m.total)
	}
	return stats
}

// Recent returns the most recently logged interactions, newest last
func (m *Monitor) Recent(n int) []Interaction {
	m.mu.Lock()
	defer m.mu.Unlock()

	recent := m.recent
	if n > 0 && len(recent) > n {
		recent = recent[len(recent)-n:]
	}
	out := make([]Interaction, len(recent))
	copy(out, recent)
	return out
}

func percentage(count, total int) int {
	if total == 0 {
		return 0
	}
	return int(float64(count)/float64(total)*100 + 0.5)
}
