package model

import "time"

// EventStatus 活動狀態類型
type EventStatus string

const (
	EventStatusDraft     EventStatus = "DRAFT"
	EventStatusPublished EventStatus = "PUBLISHED"
	EventStatusCancelled EventStatus = "CANCELLED"
)

// IsValid 驗證狀態是否有效
func (s EventStatus) IsValid() bool {
	switch s {
	case EventStatusDraft, EventStatusPublished, EventStatusCancelled:
		return true
	}
	return false
}

// CanTransitionTo 檢查是否可以轉換到目標狀態
func (s EventStatus) CanTransitionTo(target EventStatus) bool {
	transitions := map[EventStatus][]EventStatus{
		EventStatusDraft:     {EventStatusPublished, EventStatusCancelled},
		EventStatusPublished: {EventStatusCancelled},
		EventStatusCancelled: {},
	}

	for _, status := range transitions[s] {
		if status == target {
			return true
		}
	}
	return false
}

// Event 活動模型
type Event struct {
	ID          int         `json:"id" db:"id"`
	Title       string      `json:"title" db:"title"`
	Slug        string      `json:"slug" db:"slug"`
	Description string      `json:"description" db:"description"`
	Image       *string     `json:"image,omitempty" db:"image"`
	StartDate   time.Time   `json:"start_date" db:"start_date"`
	EndDate     *time.Time  `json:"end_date,omitempty" db:"end_date"`
	Location    string      `json:"location" db:"location"`
	Address     string      `json:"address" db:"address"`
	City        string      `json:"city" db:"city"`
	Country     string      `json:"country" db:"country"`
	Capacity    int         `json:"capacity" db:"capacity"`
	Price       *float64    `json:"price" db:"price"`
	Status      EventStatus `json:"status" db:"status"`
	Published   bool        `json:"published" db:"published"`
	Featured    bool        `json:"featured" db:"featured"`
	Tags        []string    `json:"tags" db:"tags"`
	OrganizerID int         `json:"organizer_id" db:"organizer_id"`
	CategoryID  int         `json:"category_id" db:"category_id"`
	CreatedAt   time.Time   `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time   `json:"updated_at" db:"updated_at"`
}

// IsFree price 為 NULL 代表免費活動
func (e *Event) IsFree() bool {
	return e.Price == nil
}

// PriceSnapshot 發票當下要寫入票券的價格
func (e *Event) PriceSnapshot() float64 {
	if e.Price == nil {
		return 0
	}
	return *e.Price
}

type UpdateEventParams struct {
	Title       *string
	Description *string
	Price       *float64
	ClearPrice  bool
	Featured    *bool
	Tags        []string
}

// Availability 活動容量概況，只反映已提交的票券
type Availability struct {
	EventID     int      `json:"event_id"`
	Capacity    int      `json:"capacity"`
	Outstanding int      `json:"outstanding"`
	Remaining   int      `json:"remaining"`
	Price       *float64 `json:"price"`
}

func NewAvailability(event *Event, outstanding int) Availability {
	remaining := event.Capacity - outstanding
	if remaining < 0 {
		remaining = 0
	}
	return Availability{
		EventID:     event.ID,
		Capacity:    event.Capacity,
		Outstanding: outstanding,
		Remaining:   remaining,
		Price:       event.Price,
	}
}
