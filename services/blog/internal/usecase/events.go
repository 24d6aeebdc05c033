package usecase

import (
	"threadboard/pkg/logger"
	"threadboard/pkg/metrics"
	"threadboard/pkg/queue"
)

// EventPublisher is satisfied by *queue.Client.
type EventPublisher interface {
	PublishEngagementEvent(event queue.EngagementEvent) error
}

// notifier hands engagement events to the broker after the write has committed.
// Delivery is best effort and never affects the request.
type notifier struct {
	publisher EventPublisher
	logger    *logger.Logger
}

func (n *notifier) notify(event queue.EngagementEvent) {
	if n.publisher == nil || event.UserID == "" || event.UserID == event.ActorID {
		return
	}

	go func() {
		if err := n.publisher.PublishEngagementEvent(event); err != nil {
			metrics.EventsPublished.WithLabelValues(event.Type, "error").Inc()
			n.logger.Error("[ENGAGEMENT QUEUE] Failed to publish %s event for user_id=%s: %v", event.Type, event.UserID, err)
			return
		}
		metrics.EventsPublished.WithLabelValues(event.Type, "ok").Inc()
	}()
}
