package domain

import (
	"context"
	"time"
)

// EventType defines the category of the event.
type EventType string

const (
	EventPublish EventType = "publish"
	EventSubmit  EventType = "submit"
)

// SubmitOutcome classifies how a page submission ended.
type SubmitOutcome string

const (
	OutcomeAccepted     SubmitOutcome = "accepted"
	OutcomeFormInvalid  SubmitOutcome = "form_invalid"
	OutcomeStateInvalid SubmitOutcome = "state_invalid"
	OutcomeFailed       SubmitOutcome = "failed"
)

// EventBase contains common fields for all events.
type EventBase struct {
	Timestamp time.Time `json:"timestamp"`
	Type      EventType `json:"type"`
	FormID    string    `json:"form_id"`
}

// PublishEvent is emitted after a form definition replaced the registered one.
type PublishEvent struct {
	EventBase
	Pages int `json:"pages"`
}

// SubmitEvent is emitted once per page submission.
type SubmitEvent struct {
	EventBase
	SessionID string         `json:"session_id"`
	Page      string         `json:"page"`
	Outcome   SubmitOutcome  `json:"outcome"`
	Next      string         `json:"next,omitempty"`
	Errors    int            `json:"errors,omitempty"`
	Changes   map[string]any `json:"changes,omitempty"`
}

// LifecycleHooks defines callbacks for engine observability.
type LifecycleHooks struct {
	OnPublish func(context.Context, *PublishEvent)
	OnSubmit  func(context.Context, *SubmitEvent)
}
