package reservation

import (
	"errors"
	"fmt"
	"time"
)

var (
	ErrEventNotFound    = errors.New("event not found")
	ErrTicketNotFound   = errors.New("ticket not found")
	ErrEventFull        = errors.New("event is fully booked")
	ErrNothingToCancel  = errors.New("no tickets to cancel")
	ErrConcurrentUpdate = errors.New("concurrent update, retry the request")
	ErrRateLimited      = errors.New("too many reservation attempts")
)

type RateLimitedError struct {
	RetryAfter time.Duration
}

func (e RateLimitedError) Error() string {
	return fmt.Sprintf("%s, retry in %s", ErrRateLimited, e.RetryAfter)
}

func (e RateLimitedError) Unwrap() error {
	return ErrRateLimited
}
