package services

import (
	"log/slog"
	"sync"

	"coal-market-api/pkg/models"

	"github.com/google/uuid"
)

const subscriberBuffer = 32

// StreamHub はストリーミングで追加されたレコードを購読者に配信します。
type StreamHub struct {
	mu          sync.RWMutex
	subscribers map[string]chan models.PriceRecord
	logger      *slog.Logger
}

// NewStreamHub creates an empty hub.
func NewStreamHub(logger *slog.Logger) *StreamHub {
	if logger == nil {
		logger = slog.Default()
	}
	return &StreamHub{
		subscribers: make(map[string]chan models.PriceRecord),
		logger:      logger.With(slog.String("component", "stream.hub")),
	}
}

// Subscribe registers a subscriber. The channel is closed on Unsubscribe or when the
// subscriber falls behind.
func (h *StreamHub) Subscribe() (string, <-chan models.PriceRecord) {
	id := uuid.New().String()
	ch := make(chan models.PriceRecord, subscriberBuffer)

	h.mu.Lock()
	h.subscribers[id] = ch
	count := len(h.subscribers)
	h.mu.Unlock()

	h.logger.Info("subscriber registered", slog.String("subscriber_id", id), slog.Int("subscribers", count))
	return id, ch
}

// Unsubscribe removes a subscriber. Unknown IDs are ignored.
func (h *StreamHub) Unsubscribe(id string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if ch, ok := h.subscribers[id]; ok {
		close(ch)
		delete(h.subscribers, id)
	}
}

// Publish delivers a record to every subscriber without blocking.
func (h *StreamHub) Publish(record models.PriceRecord) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for id, ch := range h.subscribers {
		select {
		case ch <- record:
		default:
			h.logger.Warn("dropping slow subscriber", slog.String("subscriber_id", id))
			close(ch)
			delete(h.subscribers, id)
		}
	}
}

// Count returns the number of subscribers.
func (h *StreamHub) Count() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subscribers)
}
