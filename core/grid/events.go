package grid

import (
	"time"
)

// EventType defines the lifecycle events emitted around query and export
// operations.
type EventType string

// Emitted event types.
const (
	QueryStart    EventType = "query:start"
	QuerySuccess  EventType = "query:success"
	QueryFailed   EventType = "query:failed"
	ExportStart   EventType = "export:start"
	ExportSuccess EventType = "export:success"
	ExportEmpty   EventType = "export:empty"
	ExportFailed  EventType = "export:failed"
	FilterSkipped EventType = "filter:skipped"
)

// Event is the payload published on the lifecycle event bus.
type Event struct {
	Type      EventType `json:"type"`
	Timestamp int64     `json:"timestamp"` // Unix milliseconds.
	Report    string    `json:"report,omitempty"`
	Session   string    `json:"session,omitempty"`
	Rows      *int      `json:"rows,omitempty"`
	Column    *string   `json:"column,omitempty"`
	Error     *string   `json:"error,omitempty"`
	Duration  *int64    `json:"duration,omitempty"` // Milliseconds.
}

// NewEvent creates an event stamped with the current time.
func NewEvent(eventType EventType, report, session string) Event {
	return Event{
		Type:      eventType,
		Timestamp: time.Now().UnixMilli(),
		Report:    report,
		Session:   session,
	}
}

// WithRows attaches a row count to the event.
func (e Event) WithRows(rows int) Event {
	e.Rows = &rows
	return e
}

// WithError attaches an error message to the event.
func (e Event) WithError(err error) Event {
	if err != nil {
		msg := err.Error()
		e.Error = &msg
	}
	return e
}

// WithDuration attaches an elapsed duration to the event.
func (e Event) WithDuration(start time.Time) Event {
	ms := time.Since(start).Milliseconds()
	e.Duration = &ms
	return e
}

// WithColumn attaches a column name to the event.
func (e Event) WithColumn(column string) Event {
	e.Column = &column
	return e
}
