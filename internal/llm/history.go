package llm

import (
	"sync"

	"github.com/xhyrom/jim/pkg/provider/llm"
)

// maxHistoryEntries bounds the per-user rolling conversation window.
const maxHistoryEntries = 10

// History is the per-user conversation memory: a rolling window of the last
// maxHistoryEntries messages. Safe for concurrent use.
type History struct {
	mu      sync.Mutex
	entries map[string][]llm.Message
}

// NewHistory creates an empty History.
func NewHistory() *History {
	return &History{entries: make(map[string][]llm.Message)}
}

// Append records one user/assistant exchange, dropping the oldest entries
// beyond the window.
func (h *History) Append(userID, userMessage, assistantMessage string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	msgs := append(h.entries[userID],
		llm.Message{Role: "user", Content: userMessage},
		llm.Message{Role: "assistant", Content: assistantMessage},
	)
	if len(msgs) > maxHistoryEntries {
		msgs = msgs[len(msgs)-maxHistoryEntries:]
	}
	h.entries[userID] = msgs
}

// Get returns a copy of the user's window, oldest first.
func (h *History) Get(userID string) []llm.Message {
	h.mu.Lock()
	defer h.mu.Unlock()

	msgs := h.entries[userID]
	out := make([]llm.Message, len(msgs))
	copy(out, msgs)
	return out
}

// Clear drops the user's window.
func (h *History) Clear(userID string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.entries, userID)
}
