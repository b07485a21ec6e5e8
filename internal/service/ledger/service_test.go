package ledger

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/kirinyoku/eventhub/internal/domain"
	"github.com/kirinyoku/eventhub/internal/repository/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func addUser(t *testing.T, store *memory.Store) uuid.UUID {
	t.Helper()
	u, err := store.Repos().Users.Create(context.Background(), &domain.User{
		Username: "u",
		Email:    uuid.NewString() + "@example.com",
		Role:     domain.RoleUser,
	})
	require.NoError(t, err)
	return u.ID
}

func addEvent(t *testing.T, store *memory.Store, creator uuid.UUID) *domain.Event {
	t.Helper()
	e, err := store.Repos().Events.Create(context.Background(), &domain.Event{
		Title:        "e",
		Date:         time.Now().AddDate(0, 0, 3),
		MaxAttendees: 10,
		Status:       domain.StatusUpcoming,
		CreatorID:    creator,
	})
	require.NoError(t, err)
	return e
}

func TestListForUser(t *testing.T) {
	store := memory.New()
	svc := New(store, nil)
	ctx := context.Background()

	alice, bob := addUser(t, store), addUser(t, store)
	own := addEvent(t, store, alice)
	foreign := addEvent(t, store, bob)
	cancelled := addEvent(t, store, bob)

	tickets := store.Repos().Tickets
	_, err := tickets.Increment(ctx, own.ID, alice)
	require.NoError(t, err)
	_, err = tickets.Increment(ctx, foreign.ID, alice)
	require.NoError(t, err)
	_, err = tickets.Increment(ctx, cancelled.ID, alice)
	require.NoError(t, err)
	_, err = tickets.Decrement(ctx, cancelled.ID, alice)
	require.NoError(t, err)

	list, err := svc.ListForUser(ctx, alice)
	require.NoError(t, err)
	require.Len(t, list, 2)

	byEvent := map[uuid.UUID]domain.TicketWithEvent{}
	for _, tw := range list {
		byEvent[tw.EventID] = tw
	}
	assert.True(t, byEvent[own.ID].IsCreator)
	assert.False(t, byEvent[foreign.ID].IsCreator)
	assert.Equal(t, foreign.Title, byEvent[foreign.ID].Event.Title)

	none, err := svc.ListForUser(ctx, bob)
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestListForEvent(t *testing.T) {
	store := memory.New()
	svc := New(store, nil)
	ctx := context.Background()

	alice, bob := addUser(t, store), addUser(t, store)
	e := addEvent(t, store, alice)

	_, err := store.Repos().Tickets.Increment(ctx, e.ID, alice)
	require.NoError(t, err)
	_, err = store.Repos().Tickets.Increment(ctx, e.ID, bob)
	require.NoError(t, err)
	_, err = store.Repos().Tickets.Decrement(ctx, e.ID, bob)
	require.NoError(t, err)

	list, err := svc.ListForEvent(ctx, e.ID)
	require.NoError(t, err)
	assert.Len(t, list, 2)

	list, err = svc.ListForEvent(ctx, uuid.New())
	require.NoError(t, err)
	assert.Empty(t, list)

	require.NoError(t, store.Repos().Events.Delete(ctx, e.ID))
	list, err = svc.ListForEvent(ctx, e.ID)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestOutstanding(t *testing.T) {
	store := memory.New()
	svc := New(store, nil)
	ctx := context.Background()

	alice := addUser(t, store)
	e := addEvent(t, store, alice)

	_, err := store.Repos().Events.IncrementSold(ctx, e.ID)
	require.NoError(t, err)
	_, err = store.Repos().Tickets.Increment(ctx, e.ID, alice)
	require.NoError(t, err)

	sold, held, err := svc.Outstanding(ctx, e.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, sold)
	assert.Equal(t, 1, held)

	_, _, err = svc.Outstanding(ctx, uuid.New())
	assert.ErrorIs(t, err, ErrEventNotFound)
}
