// Package notifications publishes per-account events into Redis channels.
package notifications

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"outstagram/internal/middleware"
	"outstagram/internal/observability"

	"github.com/redis/go-redis/v9"
)

// Event types.
const (
	TypeFollowRequest  = "follow_request"
	TypeFollowAccepted = "follow_accepted"
	TypePostLiked      = "post_liked"
)

// Event is the JSON payload delivered on a user's channel.
type Event struct {
	Type          string    `json:"type"`
	ActorID       uint      `json:"actor_id"`
	ActorUsername string    `json:"actor_username,omitempty"`
	RequestID     uint      `json:"request_id,omitempty"`
	PostID        string    `json:"post_id,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}

// UserChannel returns the channel a user's notifications are published on.
func UserChannel(userID uint) string {
	return fmt.Sprintf("notifications:user:%d", userID)
}

// Notifier provides helpers to publish notifications into Redis channels.
// A nil client makes every publish a no-op.
type Notifier struct {
	rdb *redis.Client
}

// NewNotifier creates a new Notifier instance using the provided Redis client.
func NewNotifier(rdb *redis.Client) *Notifier {
	return &Notifier{rdb: rdb}
}

// PublishUser sends a raw payload to a user's channel.
func (n *Notifier) PublishUser(ctx context.Context, userID uint, payload string) error {
	if n == nil || n.rdb == nil {
		return nil
	}
	return n.rdb.Publish(ctx, UserChannel(userID), payload).Err()
}

// Notify publishes event to userID. Failures are logged and counted, never returned.
func (n *Notifier) Notify(ctx context.Context, userID uint, event Event) {
	if n == nil || n.rdb == nil {
		return
	}
	if event.CreatedAt.IsZero() {
		event.CreatedAt = time.Now().UTC()
	}

	payload, err := json.Marshal(event)
	if err == nil {
		err = n.PublishUser(ctx, userID, string(payload))
	}
	if err != nil {
		observability.NotificationsPublished.WithLabelValues(event.Type, "error").Inc()
		middleware.Logger.WarnContext(ctx, "notification publish failed",
			slog.String("type", event.Type),
			slog.Uint64("recipient_id", uint64(userID)),
			slog.String("error", err.Error()),
		)
		return
	}
	observability.NotificationsPublished.WithLabelValues(event.Type, "ok").Inc()
}
