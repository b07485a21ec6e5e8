package memory

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/kirinyoku/eventhub/internal/domain"
	"github.com/kirinyoku/eventhub/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seed(t *testing.T, s *Store, capacity int) (*domain.User, *domain.Event) {
	t.Helper()
	ctx := context.Background()

	u, err := s.Repos().Users.Create(ctx, &domain.User{
		Username:     "alice",
		Email:        "Alice@Example.com",
		PasswordHash: "x",
		Role:         domain.RoleUser,
	})
	require.NoError(t, err)

	e, err := s.Repos().Events.Create(ctx, &domain.Event{
		Title:        "Go meetup",
		Date:         time.Now().Add(72 * time.Hour),
		Location:     "Berlin",
		MaxAttendees: capacity,
		Status:       domain.StatusUpcoming,
		CreatorID:    u.ID,
	})
	require.NoError(t, err)

	return u, e
}

func TestUserEmailIsCaseInsensitive(t *testing.T) {
	s := New()
	u, _ := seed(t, s, 1)

	assert.Equal(t, "alice@example.com", u.Email)

	got, err := s.Repos().Users.GetByEmail(context.Background(), "ALICE@example.COM")
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)

	_, err = s.Repos().Users.Create(context.Background(), &domain.User{Email: "alice@EXAMPLE.com"})
	assert.ErrorIs(t, err, repository.ErrConflict)
}

func TestIncrementSoldStopsAtCapacity(t *testing.T) {
	s := New()
	_, e := seed(t, s, 2)
	ctx := context.Background()

	_, err := s.Repos().Events.IncrementSold(ctx, e.ID)
	require.NoError(t, err)
	got, err := s.Repos().Events.IncrementSold(ctx, e.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, got.TicketsSold)

	_, err = s.Repos().Events.IncrementSold(ctx, e.ID)
	assert.ErrorIs(t, err, repository.ErrCapacityExceeded)

	_, err = s.Repos().Events.IncrementSold(ctx, uuid.New())
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestTicketIncrementDecrement(t *testing.T) {
	s := New()
	u, e := seed(t, s, 5)
	ctx := context.Background()
	tickets := s.Repos().Tickets

	first, err := tickets.Increment(ctx, e.ID, u.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, first.Quantity)

	second, err := tickets.Increment(ctx, e.ID, u.ID)
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, 2, second.Quantity)

	for range 2 {
		_, err = tickets.Decrement(ctx, e.ID, u.ID)
		require.NoError(t, err)
	}

	_, err = tickets.Decrement(ctx, e.ID, u.ID)
	assert.ErrorIs(t, err, repository.ErrNothingToCancel)

	_, err = tickets.Decrement(ctx, e.ID, uuid.New())
	assert.ErrorIs(t, err, repository.ErrNotFound)

	// Zero-quantity tickets stay on the event but leave the user's list.
	forEvent, err := tickets.ListForEvent(ctx, e.ID)
	require.NoError(t, err)
	require.Len(t, forEvent, 1)
	assert.Equal(t, 0, forEvent[0].Quantity)

	forUser, err := tickets.ListForUser(ctx, u.ID)
	require.NoError(t, err)
	assert.Empty(t, forUser)

	ev, err := s.Repos().Events.Get(ctx, e.ID)
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{first.ID}, ev.TicketIDs)
}

func TestWithinTxRollsBack(t *testing.T) {
	s := New()
	u, e := seed(t, s, 5)
	ctx := context.Background()
	boom := errors.New("boom")

	err := s.WithinTx(ctx, func(ctx context.Context, tx repository.Repos) error {
		if _, err := tx.Events.IncrementSold(ctx, e.ID); err != nil {
			return err
		}
		if _, err := tx.Tickets.Increment(ctx, e.ID, u.ID); err != nil {
			return err
		}
		return boom
	})
	require.ErrorIs(t, err, boom)

	got, err := s.Repos().Events.Get(ctx, e.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, got.TicketsSold)
	assert.Empty(t, got.TicketIDs)

	_, err = s.Repos().Tickets.Get(ctx, e.ID, u.ID)
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestUpdateChecksVersion(t *testing.T) {
	s := New()
	_, e := seed(t, s, 5)
	ctx := context.Background()

	stale := *e
	e.Title = "renamed"
	updated, err := s.Repos().Events.Update(ctx, e)
	require.NoError(t, err)
	assert.Equal(t, e.Version+1, updated.Version)

	stale.Title = "lost write"
	_, err = s.Repos().Events.Update(ctx, &stale)
	assert.ErrorIs(t, err, repository.ErrVersionConflict)
}

func TestDeleteCascadesTickets(t *testing.T) {
	s := New()
	u, e := seed(t, s, 5)
	ctx := context.Background()

	_, err := s.Repos().Tickets.Increment(ctx, e.ID, u.ID)
	require.NoError(t, err)

	require.NoError(t, s.Repos().Events.Delete(ctx, e.ID))

	_, err = s.Repos().Tickets.Get(ctx, e.ID, u.ID)
	assert.ErrorIs(t, err, repository.ErrNotFound)

	assert.ErrorIs(t, s.Repos().Events.Delete(ctx, e.ID), repository.ErrNotFound)
}

func TestRefreshStatuses(t *testing.T) {
	s := New()
	_, e := seed(t, s, 5)
	ctx := context.Background()

	later := e.Date.Add(48 * time.Hour)
	changed, err := s.Repos().Events.RefreshStatuses(ctx, later)
	require.NoError(t, err)
	assert.EqualValues(t, 1, changed)

	got, err := s.Repos().Events.Get(ctx, e.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusPast, got.Status)

	changed, err = s.Repos().Events.RefreshStatuses(ctx, later)
	require.NoError(t, err)
	assert.EqualValues(t, 0, changed)
}

func TestListFiltersByDateRange(t *testing.T) {
	s := New()
	_, e := seed(t, s, 5)
	ctx := context.Background()

	list, err := s.Repos().Events.List(ctx, repository.FilterForStatus(domain.StatusUpcoming, time.Now()))
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, e.ID, list[0].ID)

	list, err = s.Repos().Events.List(ctx, repository.FilterForStatus(domain.StatusPast, time.Now()))
	require.NoError(t, err)
	assert.Empty(t, list)

	list, err = s.Repos().Events.List(ctx, repository.EventFilter{})
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestConcurrentIncrementSoldNeverOversells(t *testing.T) {
	s := New()
	_, e := seed(t, s, 10)
	ctx := context.Background()

	var (
		wg sync.WaitGroup
		mu sync.Mutex
		ok int
	)
	for range 50 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := s.Repos().Events.IncrementSold(ctx, e.ID); err == nil {
				mu.Lock()
				ok++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	got, err := s.Repos().Events.Get(ctx, e.ID)
	require.NoError(t, err)
	assert.Equal(t, 10, ok)
	assert.Equal(t, 10, got.TicketsSold)
}
