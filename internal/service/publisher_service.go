package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"

	"partnerlab-agent-be/internal/pkg/logger"
	"partnerlab-agent-be/pkg/events"
)

type IPublisherService interface {
	Publish(ctx context.Context, event events.Event) error
}

// publisherService puts events on the in-process topic and, when configured,
// forwards them to an external bus.
type publisherService struct {
	publisher message.Publisher
	topicName string
	external  events.Publisher
	logger    logger.ILogger
}

func NewPublisherService(
	publisher message.Publisher,
	topicName string,
	external events.Publisher,
	log logger.ILogger,
) IPublisherService {
	return &publisherService{
		publisher: publisher,
		topicName: topicName,
		external:  external,
		logger:    log,
	}
}

func (p *publisherService) Publish(ctx context.Context, event events.Event) error {
	payload, err := events.Encode(event)
	if err != nil {
		return fmt.Errorf("encode event: %w", err)
	}

	msg := message.NewMessage(watermill.NewUUID(), payload)
	msg.SetContext(ctx)

	var errs []error
	if err := p.publisher.Publish(p.topicName, msg); err != nil {
		errs = append(errs, fmt.Errorf("publish to %s: %w", p.topicName, err))
	}
	if p.external != nil {
		if err := p.external.Publish(ctx, event); err != nil {
			errs = append(errs, err)
		}
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	p.logger.Debug("EVENTS", "Published event", map[string]interface{}{
		"type":       event.EventType(),
		"message_id": msg.UUID,
	})
	return nil
}
