package httpgin

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/kirinyoku/eventhub/internal/domain"
	"github.com/kirinyoku/eventhub/internal/service/events"
)

// @Summary   List events
// @Tags      events
// @Security  BearerAuth
// @Param     status  query  string  false  "upcoming | today | past"
// @Success   200  {object}  EventsResponse
// @Failure   400  {object}  ErrorResponse
// @Failure   401  {object}  ErrorResponse
// @Router    /events [get]
func (h *handlers) listEvents(c *gin.Context) {
	var q ListEventsQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		badRequest(c, bindingMessage(err))
		return
	}

	var status *domain.EventStatus
	if q.Status != "" {
		s := domain.EventStatus(q.Status)
		status = &s
	}

	list, err := h.Services.Events.List(c.Request.Context(), status)
	if err != nil {
		respondErr(c, err)
		return
	}

	writeJSONWithCache(c, http.StatusOK, EventsResponse{
		Message: "Events fetched successfully",
		Events:  list,
	}, "private, max-age=5", true)
}

// @Summary   Events split by status
// @Tags      events
// @Security  BearerAuth
// @Success   200  {object}  CategorizedResponse
// @Router    /events/categorized [get]
func (h *handlers) categorizedEvents(c *gin.Context) {
	cat, err := h.Services.Events.Categorized(c.Request.Context())
	if err != nil {
		respondErr(c, err)
		return
	}

	writeJSONWithCache(c, http.StatusOK, CategorizedResponse{
		Message:  "Events categorized successfully",
		Upcoming: cat.Upcoming,
		Today:    cat.Today,
		Past:     cat.Past,
	}, "private, max-age=5", true)
}

// @Summary  Categorize a date
// @Tags     events
// @Param    date  query  string  true  "ISO-8601 date or date-time"
// @Success  200  {object}  StatusResponse
// @Failure  400  {object}  ErrorResponse
// @Router   /events/status [get]
func (h *handlers) eventStatus(c *gin.Context) {
	var q StatusQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		badRequest(c, bindingMessage(err))
		return
	}

	c.JSON(http.StatusOK, StatusResponse{
		Date:   q.Date,
		Status: h.Services.Events.Classify(q.Date),
	})
}

// @Summary   Get event
// @Tags      events
// @Security  BearerAuth
// @Param     id  path  string  true  "Event ID (uuid)"
// @Success   200  {object}  EventResponse
// @Failure   404  {object}  ErrorResponse
// @Router    /events/{id} [get]
func (h *handlers) getEvent(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	e, err := h.Services.Events.Get(c.Request.Context(), id)
	if err != nil {
		respondErr(c, err)
		return
	}

	writeJSONWithCache(c, http.StatusOK, EventResponse{
		Message: "Event fetched successfully",
		Event:   e,
	}, "private, max-age=5", true)
}

// @Summary   Create event
// @Tags      events
// @Security  BearerAuth
// @Param     req  body  CreateEventRequest  true  "event"
// @Success   201  {object}  CreateEventResponse
// @Failure   400  {object}  ErrorResponse
// @Failure   401  {object}  ErrorResponse
// @Router    /events [post]
func (h *handlers) createEvent(c *gin.Context) {
	var req CreateEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, bindingMessage(err))
		return
	}

	date, err := parseEventDate(req.Date)
	if err != nil {
		respondErr(c, err)
		return
	}

	claims := claimsFrom(c)

	e, err := h.Services.Events.Create(c.Request.Context(), claims.UserID, events.CreateInput{
		Title:        req.Title,
		Description:  req.Description,
		Date:         date,
		Location:     req.Location,
		MaxAttendees: req.MaxAttendees,
		Image:        req.Image,
	})
	if err != nil {
		respondErr(c, err)
		return
	}

	c.JSON(http.StatusCreated, CreateEventResponse{
		Message:  "Event created successfully",
		NewEvent: e,
	})
}

// @Summary   Update event
// @Tags      events
// @Security  BearerAuth
// @Param     id   path  string              true  "Event ID (uuid)"
// @Param     req  body  UpdateEventRequest  true  "fields to change"
// @Success   200  {object}  UpdateEventResponse
// @Failure   400  {object}  ErrorResponse
// @Failure   403  {object}  ErrorResponse
// @Failure   404  {object}  ErrorResponse
// @Failure   409  {object}  ErrorResponse  "version mismatch"
// @Router    /events/{id} [put]
func (h *handlers) updateEvent(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	var req UpdateEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, bindingMessage(err))
		return
	}

	patch, err := req.patch()
	if err != nil {
		respondErr(c, err)
		return
	}

	claims := claimsFrom(c)

	e, err := h.Services.Events.Update(
		c.Request.Context(),
		events.Actor{UserID: claims.UserID, Role: claims.Role},
		id,
		patch,
		req.Version,
	)
	if err != nil {
		respondErr(c, err)
		return
	}

	c.JSON(http.StatusOK, UpdateEventResponse{
		Message:      "Event updated successfully",
		UpdatedEvent: e,
	})
}

// @Summary   Delete event and its tickets
// @Tags      events
// @Security  BearerAuth
// @Param     id  path  string  true  "Event ID (uuid)"
// @Success   200  {object}  MessageResponse
// @Failure   403  {object}  ErrorResponse
// @Failure   404  {object}  ErrorResponse
// @Router    /events/{id} [delete]
func (h *handlers) deleteEvent(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.Services.Events.Delete(c.Request.Context(), id); err != nil {
		respondErr(c, err)
		return
	}

	c.JSON(http.StatusOK, MessageResponse{Message: "Event and associated tickets deleted successfully"})
}

func parseUUIDParam(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		badRequest(c, "invalid "+name)
		return uuid.Nil, false
	}
	return id, true
}
