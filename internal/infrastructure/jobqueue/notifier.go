package jobqueue

import (
	"context"
	"log/slog"
	"strconv"
	"time"

	"github.com/cricbid/auction-platform/internal/realtime"
)

// Enqueuer is the publish side of the webhook queue.
type Enqueuer interface {
	Enqueue(ctx context.Context, path string, payload any, delay time.Duration, deduplicationID string) error
}

// Broadcaster mirrors the session broadcast contract.
type Broadcaster interface {
	Publish(room string, event realtime.Event)
	CloseRoom(room string)
}

// webhookPaths maps broadcast events to outbound webhook endpoints. Only
// lifecycle outcomes leave the platform; ticks and bid updates stay on the
// realtime stream.
var webhookPaths = map[string]string{
	realtime.EventPlayerSold:       "/hooks/auction/player-sold",
	realtime.EventAuctionCompleted: "/hooks/auction/completed",
	realtime.EventAuctionCancelled: "/hooks/auction/cancelled",
}

// EventNotifier decorates a broadcaster: every event still reaches the
// realtime hub, and lifecycle outcomes are additionally queued as
// webhooks. Enqueueing runs off the session goroutine so a slow queue
// cannot stall the auction.
type EventNotifier struct {
	next    Broadcaster
	queue   Enqueuer
	logger  *slog.Logger
	timeout time.Duration
}

func NewEventNotifier(next Broadcaster, queue Enqueuer, logger *slog.Logger) *EventNotifier {
	if logger == nil {
		logger = slog.Default()
	}

	return &EventNotifier{
		next:    next,
		queue:   queue,
		logger:  logger,
		timeout: 15 * time.Second,
	}
}

func (n *EventNotifier) Publish(room string, event realtime.Event) {
	n.next.Publish(room, event)

	if n.queue == nil {
		return
	}
	path, ok := webhookPaths[event.Name]
	if !ok {
		return
	}

	dedupID := room + "/" + event.Name + "/" + strconv.FormatInt(event.At.UnixNano(), 10)
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), n.timeout)
		defer cancel()

		body := map[string]any{
			"event":   event.Name,
			"room":    room,
			"at":      event.At,
			"payload": event.Payload,
		}
		if err := n.queue.Enqueue(ctx, path, body, 0, dedupID); err != nil {
			n.logger.ErrorContext(ctx, "webhook enqueue failed",
				"event", event.Name,
				"room", room,
				"error", err,
			)
		}
	}()
}

func (n *EventNotifier) CloseRoom(room string) {
	n.next.CloseRoom(room)
}
