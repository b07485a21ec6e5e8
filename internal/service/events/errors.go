package events

import "errors"

var (
	ErrEventNotFound    = errors.New("event not found")
	ErrCreatorNotFound  = errors.New("creator not found")
	ErrVersionConflict  = errors.New("event was modified by someone else")
	ErrConcurrentUpdate = errors.New("concurrent update, retry the request")
	ErrForbidden        = errors.New("only the creator or an admin can change this event")
)
