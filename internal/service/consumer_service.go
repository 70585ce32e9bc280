package service

import (
	"context"
	"fmt"

	"github.com/ThreeDotsLabs/watermill/message"

	"partnerlab-agent-be/internal/pkg/logger"
	"partnerlab-agent-be/internal/pkg/mailer"
	"partnerlab-agent-be/internal/repository/specification"
	"partnerlab-agent-be/internal/repository/unitofwork"
	"partnerlab-agent-be/pkg/events"
)

type IConsumerService interface {
	Consume(ctx context.Context) error
}

// consumerService sends the requester a receipt for every stored request.
type consumerService struct {
	subscriber   message.Subscriber
	topicName    string
	uowFactory   unitofwork.RepositoryFactory
	emailService mailer.IEmailService
	logger       logger.ILogger
}

func NewConsumerService(
	subscriber message.Subscriber,
	topicName string,
	uowFactory unitofwork.RepositoryFactory,
	emailService mailer.IEmailService,
	log logger.ILogger,
) IConsumerService {
	return &consumerService{
		subscriber:   subscriber,
		topicName:    topicName,
		uowFactory:   uowFactory,
		emailService: emailService,
		logger:       log,
	}
}

func (cs *consumerService) Consume(ctx context.Context) error {
	messages, err := cs.subscriber.Subscribe(ctx, cs.topicName)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			cs.processMessage(ctx, msg)
		}
	}()

	return nil
}

// processMessage always acks: a receipt that cannot be sent is logged, not retried.
func (cs *consumerService) processMessage(ctx context.Context, msg *message.Message) {
	defer msg.Ack()

	event, err := events.Decode(msg.Payload)
	if err != nil {
		cs.logger.Error("EVENTS", "Failed to decode event", map[string]interface{}{
			"message_id": msg.UUID,
			"error":      err.Error(),
		})
		return
	}
	if event.EventType() != events.LabRequestSubmitted {
		return
	}

	id, err := requestIDFromPayload(event.Payload())
	if err != nil {
		cs.logger.Error("EVENTS", "Malformed submission event", map[string]interface{}{
			"message_id": msg.UUID,
			"error":      err.Error(),
		})
		return
	}

	uow := cs.uowFactory.NewUnitOfWork(ctx)
	request, err := uow.LabRequestRepository().FindOne(ctx, specification.ByID{ID: id})
	if err != nil {
		cs.logger.Error("EVENTS", "Failed to load submitted request", map[string]interface{}{
			"request_id": id,
			"error":      err.Error(),
		})
		return
	}
	if request == nil {
		cs.logger.Warn("EVENTS", "Submitted request no longer exists", map[string]interface{}{"request_id": id})
		return
	}

	_ = cs.emailService.SendRequestReceived(request.EmailAddress, mailer.Receipt{
		RequestID:   request.Id,
		CompanyName: request.Form.CompanyName,
		ProjectName: request.Form.ProjectName,
		StartDate:   request.Form.DesiredStartDate,
		Cloud:       request.Form.CloudProvider,
	})
}

func requestIDFromPayload(payload map[string]interface{}) (uint, error) {
	switch v := payload["request_id"].(type) {
	case float64:
		if v < 1 {
			return 0, fmt.Errorf("invalid request_id %v", v)
		}
		return uint(v), nil
	default:
		return 0, fmt.Errorf("request_id missing or not a number: %v", v)
	}
}
