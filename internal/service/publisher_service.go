package service

import (
	"context"
	"encoding/json"

	"howdy-portal-be/internal/pkg/logger"
	"howdy-portal-be/pkg/events"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
)

// IPublisherService emits portal events. Publishing is best effort and
// never fails the operation that triggered it.
type IPublisherService interface {
	Publish(ctx context.Context, event events.Event)
}

type publisherService struct {
	topicName string
	publisher message.Publisher
	logger    logger.ILogger
}

func NewPublisherService(topicName string, publisher message.Publisher, log logger.ILogger) IPublisherService {
	return &publisherService{
		topicName: topicName,
		publisher: publisher,
		logger:    log,
	}
}

func (s *publisherService) Publish(ctx context.Context, event events.Event) {
	payload, err := json.Marshal(events.BaseEvent{
		Type:       event.EventType(),
		Data:       event.Payload(),
		OccurredAt: event.Timestamp(),
	})
	if err != nil {
		s.logger.Warn("Publisher", "Failed to marshal event", map[string]interface{}{"type": event.EventType(), "error": err.Error()})
		return
	}

	msg := message.NewMessage(watermill.NewUUID(), payload)
	msg.SetContext(ctx)
	if err := s.publisher.Publish(s.topicName, msg); err != nil {
		s.logger.Warn("Publisher", "Failed to publish event", map[string]interface{}{"type": event.EventType(), "error": err.Error()})
	}
}
