package domain

import (
	"time"

	"github.com/google/uuid"
)

type EventStatus string

const (
	StatusUpcoming EventStatus = "upcoming"
	StatusToday    EventStatus = "today"
	StatusPast     EventStatus = "past"
)

type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

func (r Role) Valid() bool {
	return r == RoleUser || r == RoleAdmin
}

type Event struct {
	ID           uuid.UUID   `json:"id"`
	Title        string      `json:"title"`
	Description  string      `json:"description"`
	Date         time.Time   `json:"date"`
	Location     string      `json:"location"`
	MaxAttendees int         `json:"maxAttendees"`
	Image        *string     `json:"image,omitempty"`
	Status       EventStatus `json:"status"`
	TicketsSold  int         `json:"ticketsSold"`
	CreatorID    uuid.UUID   `json:"creatorId"`
	TicketIDs    []uuid.UUID `json:"ticketIds"`
	Version      int64       `json:"version"`
	CreatedAt    time.Time   `json:"createdAt"`
	UpdatedAt    time.Time   `json:"updatedAt"`
}

// Remaining returns how many tickets can still be reserved.
func (e *Event) Remaining() int {
	if e.TicketsSold >= e.MaxAttendees {
		return 0
	}
	return e.MaxAttendees - e.TicketsSold
}

// EventPatch carries the allow-listed fields of an update. Nil fields are left untouched.
type EventPatch struct {
	Title        *string
	Description  *string
	Date         *time.Time
	Location     *string
	MaxAttendees *int
	Image        *string
	Status       *EventStatus
}

// Apply copies the non-nil patch fields onto e.
func (p EventPatch) Apply(e *Event) {
	if p.Title != nil {
		e.Title = *p.Title
	}
	if p.Description != nil {
		e.Description = *p.Description
	}
	if p.Date != nil {
		e.Date = *p.Date
	}
	if p.Location != nil {
		e.Location = *p.Location
	}
	if p.MaxAttendees != nil {
		e.MaxAttendees = *p.MaxAttendees
	}
	if p.Image != nil {
		img := *p.Image
		e.Image = &img
	}
	if p.Status != nil {
		e.Status = *p.Status
	}
}

type Ticket struct {
	ID        uuid.UUID `json:"id"`
	EventID   uuid.UUID `json:"eventId"`
	UserID    uuid.UUID `json:"userId"`
	Quantity  int       `json:"quantity"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type TicketWithEvent struct {
	Ticket
	Event     Event `json:"event"`
	IsCreator bool  `json:"isCreator"`
}

type User struct {
	ID           uuid.UUID `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Role         Role      `json:"role"`
	CreatedAt    time.Time `json:"createdAt"`
}

// Categorized is the dashboard view of events split by status.
type Categorized struct {
	Upcoming []Event `json:"upcoming"`
	Today    []Event `json:"today"`
	Past     []Event `json:"past"`
}
