package httpgin

import (
	"time"

	"github.com/kirinyoku/eventhub/internal/domain"
)

type CreateEventRequest struct {
	Title        string  `json:"title" binding:"required,max=200"`
	Description  string  `json:"description" binding:"required,max=5000"`
	Date         string  `json:"date" binding:"required,eventdate"`
	Location     string  `json:"location" binding:"required,max=300"`
	MaxAttendees int     `json:"maxAttendees" binding:"required,gt=0"`
	Image        *string `json:"image" binding:"omitempty,max=2048"`
	// Status is accepted for compatibility and replaced by the value derived from Date.
	Status *string `json:"status" binding:"omitempty,oneof=upcoming today past"`
}

// UpdateEventRequest is a partial update. Version enables optimistic concurrency.
type UpdateEventRequest struct {
	Title        *string `json:"title" binding:"omitempty,min=1,max=200"`
	Description  *string `json:"description" binding:"omitempty,min=1,max=5000"`
	Date         *string `json:"date" binding:"omitempty,eventdate"`
	Location     *string `json:"location" binding:"omitempty,min=1,max=300"`
	MaxAttendees *int    `json:"maxAttendees" binding:"omitempty,gt=0"`
	Image        *string `json:"image" binding:"omitempty,max=2048"`
	Status       *string `json:"status" binding:"omitempty,oneof=upcoming today past"`
	Version      *int64  `json:"version" binding:"omitempty,gt=0"`
}

type ListEventsQuery struct {
	Status string `form:"status" binding:"omitempty,oneof=upcoming today past"`
}

type StatusQuery struct {
	Date string `form:"date" binding:"required"`
}

type RegisterRequest struct {
	Username string `json:"username" binding:"required,min=2,max=64"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6,max=72"`
	Role     string `json:"role" binding:"omitempty,oneof=user admin"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

type EventResponse struct {
	Message string        `json:"message"`
	Event   *domain.Event `json:"event"`
}

type EventsResponse struct {
	Message string         `json:"message"`
	Events  []domain.Event `json:"events"`
}

type CategorizedResponse struct {
	Message  string         `json:"message"`
	Upcoming []domain.Event `json:"upcoming"`
	Today    []domain.Event `json:"today"`
	Past     []domain.Event `json:"past"`
}

type CreateEventResponse struct {
	Message  string        `json:"message"`
	NewEvent *domain.Event `json:"newEvent"`
}

type UpdateEventResponse struct {
	Message      string        `json:"message"`
	UpdatedEvent *domain.Event `json:"updatedEvent"`
}

type BuyTicketResponse struct {
	Message string         `json:"message"`
	Event   *domain.Event  `json:"event"`
	Ticket  *domain.Ticket `json:"ticket"`
}

type CancelTicketResponse struct {
	Message      string         `json:"message"`
	UpdatedEvent *domain.Event  `json:"updatedEvent"`
	Ticket       *domain.Ticket `json:"ticket"`
}

type StatusResponse struct {
	Date   string             `json:"date"`
	Status domain.EventStatus `json:"status"`
}

type AuthResponse struct {
	Message string       `json:"message"`
	Token   string       `json:"token"`
	User    *domain.User `json:"user"`
}

type MeResponse struct {
	User *domain.User `json:"user"`
}

func (r UpdateEventRequest) patch() (domain.EventPatch, error) {
	p := domain.EventPatch{
		Title:        r.Title,
		Description:  r.Description,
		Location:     r.Location,
		MaxAttendees: r.MaxAttendees,
		Image:        r.Image,
	}

	if r.Date != nil {
		d, err := parseEventDate(*r.Date)
		if err != nil {
			return domain.EventPatch{}, err
		}
		p.Date = &d
	}

	if r.Status != nil {
		s := domain.EventStatus(*r.Status)
		p.Status = &s
	}

	return p, nil
}

func parseEventDate(raw string) (time.Time, error) {
	d, err := domain.ParseDate(raw, time.Local)
	if err != nil {
		return time.Time{}, domain.ValidationError{Field: "date", Reason: "must be an ISO-8601 date or date-time"}
	}
	return d, nil
}
