package httpgin

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	redisx "github.com/kirinyoku/eventhub/internal/redis"
)

const idempotencyLockTTL = 60 * time.Second

// @Summary   Buy one ticket (idempotent with Idempotency-Key)
// @Tags      tickets
// @Security  BearerAuth
// @Param     id               path    string  true   "Event ID (uuid)"
// @Param     Idempotency-Key  header  string  false  "replays the first successful response"
// @Success   200  {object}  BuyTicketResponse
// @Failure   400  {object}  ErrorResponse  "no tickets available"
// @Failure   404  {object}  ErrorResponse
// @Failure   409  {object}  ErrorResponse  "concurrent update / idempotency key in progress"
// @Failure   429  {object}  ErrorResponse  "rate limited"
// @Router    /events/buy/{id} [post]
func (h *handlers) buyTicket(c *gin.Context) {
	eventID, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	claims := claimsFrom(c)
	ctx := c.Request.Context()

	idemKey := strings.TrimSpace(c.GetHeader("Idempotency-Key"))
	var storageKey string
	if h.Idempotency != nil && idemKey != "" {
		storageKey = redisx.KeyIdempotency("buy", claims.UserID.String(), eventID.String()+":"+idemKey)

		if payload, found, _ := h.Idempotency.GetResult(ctx, storageKey); found {
			c.Header("Idempotency-Key", idemKey)
			c.Data(http.StatusOK, "application/json; charset=utf-8", []byte(payload))
			return
		}

		locked, err := h.Idempotency.AcquireLock(ctx, storageKey, idempotencyLockTTL)
		if err != nil {
			respondErr(c, err)
			return
		}
		if !locked {
			if payload, found, _ := h.Idempotency.GetResult(ctx, storageKey); found {
				c.Header("Idempotency-Key", idemKey)
				c.Data(http.StatusOK, "application/json; charset=utf-8", []byte(payload))
				return
			}
			c.Header("Retry-After", "1")
			c.JSON(http.StatusConflict, ErrorResponse{Error: "idempotency key in progress"})
			return
		}
	}

	e, ticket, err := h.Services.Reservation.Reserve(ctx, eventID, claims.UserID)
	if err != nil {
		if storageKey != "" {
			_ = h.Idempotency.Release(ctx, storageKey)
		}
		respondErr(c, err)
		return
	}

	resp := BuyTicketResponse{
		Message: "Ticket purchased successfully",
		Event:   e,
		Ticket:  ticket,
	}

	if storageKey != "" {
		if b, err := json.Marshal(resp); err == nil {
			if err := h.Idempotency.SaveResult(ctx, storageKey, string(b)); err != nil {
				h.Logger.Warn("idempotency save failed", "key", storageKey, "err", err)
			}
		}
		c.Header("Idempotency-Key", idemKey)
	}

	c.JSON(http.StatusOK, resp)
}

// @Summary   Cancel one of the caller's tickets
// @Tags      tickets
// @Security  BearerAuth
// @Param     id  path  string  true  "Event ID (uuid)"
// @Success   200  {object}  CancelTicketResponse
// @Failure   400  {object}  ErrorResponse  "no tickets to cancel"
// @Failure   404  {object}  ErrorResponse
// @Router    /events/{id}/cancel [post]
func (h *handlers) cancelTicket(c *gin.Context) {
	eventID, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	claims := claimsFrom(c)

	e, ticket, err := h.Services.Reservation.Cancel(c.Request.Context(), eventID, claims.UserID)
	if err != nil {
		respondErr(c, err)
		return
	}

	c.JSON(http.StatusOK, CancelTicketResponse{
		Message:      "Ticket cancelled successfully",
		UpdatedEvent: e,
		Ticket:       ticket,
	})
}

// @Summary   Caller's outstanding tickets
// @Tags      tickets
// @Security  BearerAuth
// @Success   200  {array}  domain.TicketWithEvent
// @Router    /events/user/tickets [get]
func (h *handlers) userTickets(c *gin.Context) {
	claims := claimsFrom(c)

	list, err := h.Services.Ledger.ListForUser(c.Request.Context(), claims.UserID)
	if err != nil {
		respondErr(c, err)
		return
	}

	c.JSON(http.StatusOK, list)
}

// @Summary   Tickets of an event
// @Tags      tickets
// @Security  BearerAuth
// @Param     id  path  string  true  "Event ID (uuid)"
// @Success   200  {array}   domain.Ticket
// @Router    /events/tickets/{id} [get]
func (h *handlers) eventTickets(c *gin.Context) {
	eventID, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	list, err := h.Services.Ledger.ListForEvent(c.Request.Context(), eventID)
	if err != nil {
		respondErr(c, err)
		return
	}

	c.JSON(http.StatusOK, list)
}
