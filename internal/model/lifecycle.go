package model

import "time"

type TicketEventType string

const (
	TicketEventIssued    TicketEventType = "ticket.issued"
	TicketEventConfirmed TicketEventType = "ticket.confirmed"
	TicketEventCheckedIn TicketEventType = "ticket.checked_in"
	TicketEventCancelled TicketEventType = "ticket.cancelled"
)

// TicketLifecycleEvent 交易提交後發送到 queue 的通知
type TicketLifecycleEvent struct {
	Type       TicketEventType `json:"type"`
	EventID    int             `json:"event_id"`
	TicketID   int             `json:"ticket_id,omitempty"`
	UserID     int             `json:"user_id,omitempty"`
	OccurredAt time.Time       `json:"occurred_at"`
}

func NewTicketLifecycleEvent(eventType TicketEventType, ticket *Ticket) *TicketLifecycleEvent {
	return &TicketLifecycleEvent{
		Type:       eventType,
		EventID:    ticket.EventID,
		TicketID:   ticket.ID,
		UserID:     ticket.UserID,
		OccurredAt: time.Now().UTC(),
	}
}
