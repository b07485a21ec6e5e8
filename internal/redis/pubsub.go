package redisx

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/kirinyoku/eventhub/internal/domain"
	"github.com/redis/go-redis/v9"
)

type EventsPubSub struct {
	rdb     *redis.Client
	channel string
}

func NewEventsPubSub(rdb *redis.Client) *EventsPubSub {
	return &EventsPubSub{
		rdb:     rdb,
		channel: ChannelEventsChanged(),
	}
}

// PublishEventChanged is a no-op on a nil receiver so callers can run without redis.
func (p *EventsPubSub) PublishEventChanged(ctx context.Context, kind domain.ChangeKind, eventID uuid.UUID) error {
	if p == nil {
		return nil
	}

	b, err := json.Marshal(domain.EventChanged{
		Type:    domain.EventChangedType,
		Kind:    kind,
		EventID: eventID,
		TsUnix:  time.Now().Unix(),
	})
	if err != nil {
		return err
	}

	return p.rdb.Publish(ctx, p.channel, b).Err()
}

// Subscribe delivers decoded messages to handler until ctx is done.
func (p *EventsPubSub) Subscribe(ctx context.Context, handler func(ctx context.Context, msg domain.EventChanged)) error {
	sub := p.rdb.Subscribe(ctx, p.channel)
	defer sub.Close()

	ch := sub.Channel(redis.WithChannelSize(256))
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case m, ok := <-ch:
			if !ok {
				return nil
			}
			var ev domain.EventChanged
			if err := json.Unmarshal([]byte(m.Payload), &ev); err != nil || ev.Type != domain.EventChangedType {
				slog.Warn("dropping malformed pubsub message", "channel", m.Channel, "err", err)
				continue
			}
			handler(ctx, ev)
		}
	}
}
