package domain

import "github.com/google/uuid"

// ChangeKind tells listeners what happened to an event.
type ChangeKind string

const (
	ChangeCreated  ChangeKind = "created"
	ChangeUpdated  ChangeKind = "updated"
	ChangeDeleted  ChangeKind = "deleted"
	ChangeReserved ChangeKind = "reserved"
	ChangeCanceled ChangeKind = "canceled"
	ChangeStatuses ChangeKind = "statuses"
)

// EventChanged is the notification fanned out to live subscribers.
type EventChanged struct {
	Type    string     `json:"type"`
	Kind    ChangeKind `json:"kind"`
	EventID uuid.UUID  `json:"event_id"`
	TsUnix  int64      `json:"ts_unix"`
}

const EventChangedType = "event_changed"
