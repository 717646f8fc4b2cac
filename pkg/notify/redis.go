package notify

import (
	"context"
	"encoding/json"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// DefaultChannel is the pub/sub channel used when none is configured.
const DefaultChannel = "sketchreveal:notifications"

// Redis publishes notifications on a pub/sub channel so that several
// server instances show the same messages. Publishing failures are logged,
// never returned.
type Redis struct {
	client  *redis.Client
	channel string
	origin  string
	logger  *log.Logger
}

// NewRedis creates a publisher. Each instance gets a random origin so it
// can skip its own messages when subscribed.
func NewRedis(client *redis.Client, channel string, logger *log.Logger) *Redis {
	if channel == "" {
		channel = DefaultChannel
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Redis{client: client, channel: channel, origin: uuid.NewString(), logger: logger}
}

// Origin identifies this publisher.
func (r *Redis) Origin() string { return r.origin }

// Notify implements Notifier.
func (r *Redis) Notify(ctx context.Context, n Notification) {
	if n.Origin == "" {
		n.Origin = r.origin
	}
	payload, err := json.Marshal(n)
	if err != nil {
		r.logger.Error("encode notification", "err", err)
		return
	}
	if err := r.client.Publish(ctx, r.channel, payload).Err(); err != nil {
		r.logger.Warn("publish notification", "channel", r.channel, "err", err)
	}
}

// Subscribe forwards notifications published by other instances to dst
// until ctx is done.
func (r *Redis) Subscribe(ctx context.Context, dst Notifier) error {
	sub := r.client.Subscribe(ctx, r.channel)
	defer sub.Close()

	if _, err := sub.Receive(ctx); err != nil {
		return err
	}
	msgs := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			return nil
		case msg, ok := <-msgs:
			if !ok {
				return nil
			}
			n, err := Decode(msg.Payload)
			if err != nil {
				r.logger.Debug("dropping malformed notification", "err", err)
				continue
			}
			if n.Origin == r.origin {
				continue
			}
			dst.Notify(ctx, n)
		}
	}
}

// Decode parses a published notification.
func Decode(payload string) (Notification, error) {
	var n Notification
	err := json.Unmarshal([]byte(payload), &n)
	return n, err
}
