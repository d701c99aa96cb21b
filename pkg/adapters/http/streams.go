package http

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"sync"

	"github.com/aretw0/formwork/pkg/domain"
	"github.com/aretw0/formwork/pkg/ports"
)

// StreamManager fans submit events out to the SSE clients watching a session.
type StreamManager struct {
	mu          sync.RWMutex
	subscribers map[string]map[chan<- string]struct{} // session key -> set of channels
}

func NewStreamManager() *StreamManager {
	return &StreamManager{
		subscribers: make(map[string]map[chan<- string]struct{}),
	}
}

// Subscribe registers a channel for the session key. The returned func
// unregisters and closes it.
func (sm *StreamManager) Subscribe(key string) (chan string, func()) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	ch := make(chan string, 10)
	if _, ok := sm.subscribers[key]; !ok {
		sm.subscribers[key] = make(map[chan<- string]struct{})
	}
	sm.subscribers[key][ch] = struct{}{}

	return ch, func() {
		sm.mu.Lock()
		defer sm.mu.Unlock()
		if subs, ok := sm.subscribers[key]; ok {
			delete(subs, ch)
			close(ch)
			if len(subs) == 0 {
				delete(sm.subscribers, key)
			}
		}
	}
}

// Broadcast sends msg to every subscriber of key without blocking.
func (sm *StreamManager) Broadcast(key string, msg string) {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	for ch := range sm.subscribers[key] {
		select {
		case ch <- msg:
		default:
			// Slow client.
			slog.Warn("SSE: client buffer full, dropping message", "session_key", key)
		}
	}
}

// Hooks returns lifecycle hooks broadcasting every submit event to the
// subscribers of its session, then calling next.
func (sm *StreamManager) Hooks(next domain.LifecycleHooks) domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnPublish: next.OnPublish,
		OnSubmit: func(ctx context.Context, e *domain.SubmitEvent) {
			if data, err := json.Marshal(e); err == nil {
				sm.Broadcast(ports.SessionKey(e.FormID, e.SessionID), string(data))
			}
			if next.OnSubmit != nil {
				next.OnSubmit(ctx, e)
			}
		},
	}
}

// SubscribeEvents handles the GET /events?form=...&session=... request (SSE).
func (s *Server) SubscribeEvents(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		writeError(w, http.StatusInternalServerError, "streaming not supported")
		return
	}

	formID := r.URL.Query().Get("form")
	sessionID := r.URL.Query().Get("session")
	if formID == "" || sessionID == "" {
		writeError(w, http.StatusBadRequest, "form and session are required")
		return
	}

	ch, cancel := s.Streams.Subscribe(ports.SessionKey(formID, sessionID))
	defer cancel()

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	fmt.Fprintf(w, "event: ping\ndata: connected\n\n")
	flusher.Flush()

	for {
		select {
		case <-r.Context().Done():
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			fmt.Fprintf(w, "event: submit\ndata: %s\n\n", msg)
			flusher.Flush()
		}
	}
}
