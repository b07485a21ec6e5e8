package redisx

import (
	"fmt"

	"github.com/google/uuid"
)

const ns = "eventhub:v1"

func KeyEvent(eventID uuid.UUID) string {
	return fmt.Sprintf("%s:event:%s", ns, eventID)
}

func KeyEventList() string {
	return ns + ":events:list"
}

func KeyRateLimit(scope, id string) string {
	return fmt.Sprintf("%s:rl:%s:%s", ns, scope, id)
}

func KeyIdempotency(scope, userID, idemKey string) string {
	return fmt.Sprintf("%s:idem:%s:%s:%s", ns, scope, userID, idemKey)
}

func KeyRevokedToken(jti string) string {
	return fmt.Sprintf("%s:revoked:%s", ns, jti)
}

func ChannelEventsChanged() string {
	return ns + ":events:changed"
}
