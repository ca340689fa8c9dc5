package amqp

import (
	"encoding/json"
	"fmt"
	"time"

	"smartbudget/internal/core"
)

// EventType names an audit event.
type EventType string

const (
	EventEntryCreated  EventType = "entry.created"
	EventEntryUpdated  EventType = "entry.updated"
	EventEntryDeleted  EventType = "entry.deleted"
	EventCategoryAdded EventType = "category.added"
)

// Valid reports whether t is one of the known event types.
func (t EventType) Valid() bool {
	switch t {
	case EventEntryCreated, EventEntryUpdated, EventEntryDeleted, EventCategoryAdded:
		return true
	}
	return false
}

// Event is the audit message published after every ledger change.
// Entry events carry a full snapshot so consumers never read the database.
type Event struct {
	Type        EventType `json:"type"`
	EntryID     int64     `json:"entry_id,omitempty"`
	Date        string    `json:"date,omitempty"`
	Category    string    `json:"category,omitempty"`
	AmountCents int64     `json:"amount_cents,omitempty"`
	EntryType   string    `json:"entry_type,omitempty"`
	RequestID   string    `json:"request_id,omitempty"`
	Timestamp   time.Time `json:"timestamp"`
}

// NewEntryEvent snapshots e into an event of type t.
func NewEntryEvent(t EventType, e core.Entry) *Event {
	return &Event{
		Type:        t,
		EntryID:     e.ID,
		Date:        e.Date.String(),
		Category:    e.Category,
		AmountCents: e.Amount.Cents,
		EntryType:   string(e.Type),
		Timestamp:   time.Now().UTC(),
	}
}

// NewCategoryEvent records the creation of category name.
func NewCategoryEvent(name string) *Event {
	return &Event{
		Type:      EventCategoryAdded,
		Category:  name,
		Timestamp: time.Now().UTC(),
	}
}

// Entry rebuilds the entry carried by an entry event.
func (e *Event) Entry() (core.Entry, error) {
	if e.Type == EventCategoryAdded {
		return core.Entry{}, fmt.Errorf("event %s carries no entry", e.Type)
	}
	d, err := core.ParseDate(e.Date)
	if err != nil {
		return core.Entry{}, fmt.Errorf("event date %q: %w", e.Date, err)
	}
	return core.Entry{
		ID:       e.EntryID,
		Date:     d,
		Category: e.Category,
		Amount:   core.Money{Cents: e.AmountCents},
		Type:     core.EntryType(e.EntryType),
	}, nil
}

// ToJSON converts the event to JSON bytes
func (e *Event) ToJSON() ([]byte, error) {
	return json.Marshal(e)
}

// EventFromJSON decodes an event and rejects unknown types
func EventFromJSON(data []byte) (*Event, error) {
	var ev Event
	if err := json.Unmarshal(data, &ev); err != nil {
		return nil, err
	}
	if !ev.Type.Valid() {
		return nil, fmt.Errorf("unknown event type %q", ev.Type)
	}
	return &ev, nil
}
