package live

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/kirinyoku/eventhub/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBroadcastReachesAllClients(t *testing.T) {
	h := NewHub(4)
	a, b := h.Register(), h.Register()

	id := uuid.New()
	require.NoError(t, h.PublishEventChanged(context.Background(), domain.ChangeCreated, id))

	for _, c := range []*Client{a, b} {
		msg := <-c.C
		assert.Equal(t, id, msg.EventID)
		assert.Equal(t, domain.ChangeCreated, msg.Kind)
	}
}

func TestBroadcastDropsForSlowClient(t *testing.T) {
	h := NewHub(1)
	slow := h.Register()

	assert.Equal(t, 1, h.Broadcast(domain.EventChanged{Kind: domain.ChangeUpdated}))
	assert.Equal(t, 0, h.Broadcast(domain.EventChanged{Kind: domain.ChangeDeleted}))

	msg := <-slow.C
	assert.Equal(t, domain.ChangeUpdated, msg.Kind)
	assert.Len(t, slow.C, 0)
}

func TestUnregisterClosesChannel(t *testing.T) {
	h := NewHub(1)
	c := h.Register()
	assert.Equal(t, 1, h.Len())

	h.Unregister(c)
	h.Unregister(c)

	_, open := <-c.C
	assert.False(t, open)
	assert.Equal(t, 0, h.Len())
}

func TestCloseDisconnectsEveryone(t *testing.T) {
	h := NewHub(1)
	c := h.Register()

	h.Close()

	_, open := <-c.C
	assert.False(t, open)

	late := h.Register()
	_, open = <-late.C
	assert.False(t, open)
	assert.Equal(t, 0, h.Broadcast(domain.EventChanged{}))
}
