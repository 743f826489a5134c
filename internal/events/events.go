package events

import (
	"context"
	"encoding/json"
	"time"

	"peoplefinder/config"
	"peoplefinder/internal/database"
	"peoplefinder/internal/logger"

	"github.com/valkey-io/valkey-go"
)

const (
	ChannelAuth   = "auth"
	ChannelSearch = "search"

	channelPrefix  = "events:"
	publishTimeout = 5 * time.Second
)

type Event struct {
	ID        string         `json:"id"`
	Type      string         `json:"type"`
	Channel   string         `json:"channel,omitempty"`
	Action    string         `json:"action,omitempty"`
	UserID    string         `json:"userId,omitempty"`
	Data      map[string]any `json:"data,omitempty"`
	Timestamp time.Time      `json:"timestamp"`
}

// EventBus fans events out over valkey pub/sub so every instance of the
// service (and each websocket manager) sees the same stream.
type EventBus struct {
	cache  database.CacheClient
	config config.Config
	log    logger.Logger
	cancel context.CancelFunc
	ctx    context.Context
}

func New(cache database.CacheClient, config config.Config) *EventBus {
	ctx, cancel := context.WithCancel(context.Background())
	return &EventBus{
		cache:  cache,
		config: config,
		log:    logger.New("events"),
		ctx:    ctx,
		cancel: cancel,
	}
}

func (b *EventBus) Publish(channel string, event Event) error {
	log := b.log.Function("Publish")

	raw, err := json.Marshal(event)
	if err != nil {
		return log.Err("failed to marshal event", err, "event", event)
	}

	ctx, cancel := context.WithTimeout(b.ctx, publishTimeout)
	defer cancel()

	cmd := b.cache.B().Publish().Channel(channelPrefix + channel).Message(string(raw)).Build()
	if err := b.cache.Do(ctx, cmd).Error(); err != nil {
		return log.Err("failed to publish event", err, "channel", channel)
	}

	return nil
}

// Subscribe delivers events for channel until the bus closes or unsubscribe
// is called. Events that fail to decode are dropped with a warning.
func (b *EventBus) Subscribe(channel string) (<-chan Event, func()) {
	log := b.log.Function("Subscribe")

	out := make(chan Event, 16)
	ctx, cancel := context.WithCancel(b.ctx)

	go func() {
		defer close(out)

		cmd := b.cache.B().Subscribe().Channel(channelPrefix + channel).Build()
		err := b.cache.Receive(ctx, cmd, func(msg valkey.PubSubMessage) {
			var event Event
			if err := json.Unmarshal([]byte(msg.Message), &event); err != nil {
				log.Warn("dropping undecodable event", "channel", channel, "error", err)
				return
			}

			select {
			case out <- event:
			default:
				log.Warn("dropping event for slow subscriber", "channel", channel)
			}
		})
		if err != nil && ctx.Err() == nil {
			log.Er("subscription ended", err, "channel", channel)
		}
	}()

	return out, cancel
}

func (b *EventBus) Close() error {
	b.cancel()
	return nil
}
