package model

import "time"

// TicketStatus 票券狀態類型
type TicketStatus string

const (
	TicketStatusPending   TicketStatus = "PENDING"
	TicketStatusConfirmed TicketStatus = "CONFIRMED"
	TicketStatusUsed      TicketStatus = "USED"
	TicketStatusCancelled TicketStatus = "CANCELLED"
)

// CanTransitionTo 檢查是否可以轉換到目標狀態
func (s TicketStatus) CanTransitionTo(target TicketStatus) bool {
	transitions := map[TicketStatus][]TicketStatus{
		TicketStatusPending:   {TicketStatusConfirmed, TicketStatusCancelled},
		TicketStatusConfirmed: {TicketStatusUsed, TicketStatusCancelled},
		TicketStatusUsed:      {}, // 終態
		TicketStatusCancelled: {}, // 終態
	}

	allowed, ok := transitions[s]
	if !ok {
		return false
	}

	for _, status := range allowed {
		if status == target {
			return true
		}
	}
	return false
}

// HoldsCapacity PENDING 與 CONFIRMED 的票才會佔用活動容量
func (s TicketStatus) HoldsCapacity() bool {
	return s == TicketStatusPending || s == TicketStatusConfirmed
}

var ticketStatuses = []TicketStatus{
	TicketStatusPending,
	TicketStatusConfirmed,
	TicketStatusUsed,
	TicketStatusCancelled,
}

// TicketStatusesTo 可以轉換到 target 的來源狀態
func TicketStatusesTo(target TicketStatus) []TicketStatus {
	from := make([]TicketStatus, 0, len(ticketStatuses))
	for _, s := range ticketStatuses {
		if s.CanTransitionTo(target) {
			from = append(from, s)
		}
	}
	return from
}

// OutstandingTicketStatuses 佔用容量的狀態
func OutstandingTicketStatuses() []TicketStatus {
	statuses := make([]TicketStatus, 0, 2)
	for _, s := range ticketStatuses {
		if s.HoldsCapacity() {
			statuses = append(statuses, s)
		}
	}
	return statuses
}

// Ticket 票券模型
type Ticket struct {
	ID          int          `json:"id" db:"id"`
	EventID     int          `json:"event_id" db:"event_id"`
	UserID      int          `json:"user_id" db:"user_id"`
	QRCode      string       `json:"qr_code" db:"qr_code"`
	Status      TicketStatus `json:"status" db:"status"`
	Price       float64      `json:"price" db:"price"`
	CheckedInAt *time.Time   `json:"checked_in_at,omitempty" db:"checked_in_at"`
	CancelledAt *time.Time   `json:"cancelled_at,omitempty" db:"cancelled_at"`
	CreatedAt   time.Time    `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at" db:"updated_at"`
}

// CheckIn 入場紀錄，每張票最多一筆
type CheckIn struct {
	ID          int       `json:"id" db:"id"`
	TicketID    int       `json:"ticket_id" db:"ticket_id"`
	QRCode      string    `json:"qr_code" db:"qr_code"`
	CheckedInAt time.Time `json:"checked_in_at" db:"checked_in_at"`
}

// IssueTicketRequest 發票請求
type IssueTicketRequest struct {
	EventID int `json:"event_id" binding:"required"`
	UserID  int `json:"user_id" binding:"required"`
}

// CheckInRequest 入場驗票請求
type CheckInRequest struct {
	QRCode string `json:"qr_code" binding:"required"`
}
