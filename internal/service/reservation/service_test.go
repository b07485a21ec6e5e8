package reservation

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/kirinyoku/eventhub/internal/domain"
	"github.com/kirinyoku/eventhub/internal/repository/memory"
	redisrepo "github.com/kirinyoku/eventhub/internal/repository/redis"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingPublisher struct {
	mu   sync.Mutex
	msgs []domain.ChangeKind
}

func (p *recordingPublisher) PublishEventChanged(_ context.Context, kind domain.ChangeKind, _ uuid.UUID) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.msgs = append(p.msgs, kind)
	return nil
}

func (p *recordingPublisher) kinds() []domain.ChangeKind {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]domain.ChangeKind(nil), p.msgs...)
}

type fixture struct {
	store *memory.Store
	svc   *Service
	pub   *recordingPublisher
	event *domain.Event
}

func newUser(t *testing.T, store *memory.Store) uuid.UUID {
	t.Helper()
	u, err := store.Repos().Users.Create(context.Background(), &domain.User{
		Username: "u",
		Email:    uuid.NewString() + "@example.com",
		Role:     domain.RoleUser,
	})
	require.NoError(t, err)
	return u.ID
}

func setup(t *testing.T, capacity int) *fixture {
	t.Helper()

	store := memory.New()
	creator := newUser(t, store)

	e, err := store.Repos().Events.Create(context.Background(), &domain.Event{
		Title:        "Conf",
		Description:  "d",
		Date:         time.Now().Add(7 * 24 * time.Hour),
		Location:     "Lisbon",
		MaxAttendees: capacity,
		Status:       domain.StatusUpcoming,
		CreatorID:    creator,
	})
	require.NoError(t, err)

	pub := &recordingPublisher{}

	return &fixture{
		store: store,
		svc:   New(store, nil, pub, nil, nil, Config{}),
		pub:   pub,
		event: e,
	}
}

func (f *fixture) assertBalanced(t *testing.T) {
	t.Helper()
	ctx := context.Background()

	e, err := f.store.Repos().Events.Get(ctx, f.event.ID)
	require.NoError(t, err)
	sum, err := f.store.Repos().Tickets.SumQuantity(ctx, f.event.ID)
	require.NoError(t, err)

	assert.Equal(t, e.TicketsSold, sum)
	assert.LessOrEqual(t, e.TicketsSold, e.MaxAttendees)
}

func TestReserveCreatesThenIncrementsTicket(t *testing.T) {
	f := setup(t, 5)
	ctx := context.Background()
	user := newUser(t, f.store)

	e, ticket, err := f.svc.Reserve(ctx, f.event.ID, user)
	require.NoError(t, err)
	assert.Equal(t, 1, e.TicketsSold)
	assert.Equal(t, 1, ticket.Quantity)
	assert.Equal(t, []uuid.UUID{ticket.ID}, e.TicketIDs)
	assert.Equal(t, domain.StatusUpcoming, e.Status)

	e, ticket2, err := f.svc.Reserve(ctx, f.event.ID, user)
	require.NoError(t, err)
	assert.Equal(t, 2, e.TicketsSold)
	assert.Equal(t, ticket.ID, ticket2.ID)
	assert.Equal(t, 2, ticket2.Quantity)
	assert.Len(t, e.TicketIDs, 1)

	assert.Equal(t, []domain.ChangeKind{domain.ChangeReserved, domain.ChangeReserved}, f.pub.kinds())
	f.assertBalanced(t)
}

func TestReserveFullEventLeavesStateUnchanged(t *testing.T) {
	f := setup(t, 1)
	ctx := context.Background()
	a, b := newUser(t, f.store), newUser(t, f.store)

	_, _, err := f.svc.Reserve(ctx, f.event.ID, a)
	require.NoError(t, err)

	_, _, err = f.svc.Reserve(ctx, f.event.ID, b)
	assert.ErrorIs(t, err, ErrEventFull)

	e, err := f.store.Repos().Events.Get(ctx, f.event.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, e.TicketsSold)

	_, err = f.store.Repos().Tickets.Get(ctx, f.event.ID, b)
	assert.Error(t, err)

	assert.Len(t, f.pub.kinds(), 1)
	f.assertBalanced(t)
}

func TestReserveUnknownEvent(t *testing.T) {
	f := setup(t, 1)

	_, _, err := f.svc.Reserve(context.Background(), uuid.New(), newUser(t, f.store))
	assert.ErrorIs(t, err, ErrEventNotFound)
	assert.Empty(t, f.pub.kinds())
}

func TestCancelRoundTrip(t *testing.T) {
	f := setup(t, 3)
	ctx := context.Background()
	user := newUser(t, f.store)

	_, _, err := f.svc.Reserve(ctx, f.event.ID, user)
	require.NoError(t, err)

	e, ticket, err := f.svc.Cancel(ctx, f.event.ID, user)
	require.NoError(t, err)
	assert.Equal(t, 0, e.TicketsSold)
	assert.Equal(t, 0, ticket.Quantity)

	_, _, err = f.svc.Cancel(ctx, f.event.ID, user)
	assert.ErrorIs(t, err, ErrNothingToCancel)

	e, err = f.store.Repos().Events.Get(ctx, f.event.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, e.TicketsSold)
	f.assertBalanced(t)
}

func TestCancelWithoutTicket(t *testing.T) {
	f := setup(t, 3)
	ctx := context.Background()
	holder, other := newUser(t, f.store), newUser(t, f.store)

	_, _, err := f.svc.Reserve(ctx, f.event.ID, holder)
	require.NoError(t, err)

	_, _, err = f.svc.Cancel(ctx, f.event.ID, other)
	assert.ErrorIs(t, err, ErrTicketNotFound)

	_, _, err = f.svc.Cancel(ctx, uuid.New(), holder)
	assert.ErrorIs(t, err, ErrEventNotFound)

	e, err := f.store.Repos().Events.Get(ctx, f.event.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, e.TicketsSold)
	f.assertBalanced(t)
}

func TestSoldEqualsHeldAfterMixedSequence(t *testing.T) {
	f := setup(t, 4)
	ctx := context.Background()
	users := []uuid.UUID{newUser(t, f.store), newUser(t, f.store), newUser(t, f.store)}

	steps := []struct {
		user    int
		reserve bool
	}{
		{0, true}, {1, true}, {0, true}, {2, true}, {1, false},
		{2, true}, {0, false}, {1, false}, {1, true}, {2, false},
	}
	for _, st := range steps {
		if st.reserve {
			_, _, _ = f.svc.Reserve(ctx, f.event.ID, users[st.user])
		} else {
			_, _, _ = f.svc.Cancel(ctx, f.event.ID, users[st.user])
		}
		f.assertBalanced(t)
	}
}

func TestConcurrentReservationsForLastSeat(t *testing.T) {
	f := setup(t, 1)
	ctx := context.Background()

	const n = 20
	users := make([]uuid.UUID, n)
	for i := range users {
		users[i] = newUser(t, f.store)
	}

	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		ok   int
		full int
	)
	for _, u := range users {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _, err := f.svc.Reserve(ctx, f.event.ID, u)
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				ok++
			case errors.Is(err, ErrEventFull):
				full++
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, ok)
	assert.Equal(t, n-1, full)
	f.assertBalanced(t)
}

func TestReserveRateLimited(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	f := setup(t, 10)
	limiter := redisrepo.NewSlidingWindowLimiter(rdb, "reserve", 1, time.Minute)
	svc := New(f.store, redisrepo.New(rdb), nil, limiter, nil, Config{})
	user := newUser(t, f.store)

	_, _, err := svc.Reserve(context.Background(), f.event.ID, user)
	require.NoError(t, err)

	_, _, err = svc.Reserve(context.Background(), f.event.ID, user)
	require.ErrorIs(t, err, ErrRateLimited)

	var rl RateLimitedError
	require.ErrorAs(t, err, &rl)
	assert.Greater(t, rl.RetryAfter, time.Duration(0))
}
