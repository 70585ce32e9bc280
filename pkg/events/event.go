package events

import (
	"context"
	"encoding/json"
	"time"
)

const LabRequestSubmitted = "LAB_REQUEST_SUBMITTED"

// Event defines the contract for all system events.
type Event interface {
	// EventType returns the unique code for this event (e.g., "LAB_REQUEST_SUBMITTED").
	EventType() string

	// Payload returns the data associated with the event.
	Payload() map[string]interface{}

	// Timestamp returns when the event occurred.
	Timestamp() time.Time
}

// Publisher delivers events to a bus.
type Publisher interface {
	Publish(ctx context.Context, event Event) error
}

type BaseEvent struct {
	Type       string                 `json:"type"`
	Data       map[string]interface{} `json:"data"`
	OccurredAt time.Time              `json:"occurred_at"`
}

func (e BaseEvent) EventType() string {
	return e.Type
}

func (e BaseEvent) Payload() map[string]interface{} {
	return e.Data
}

func (e BaseEvent) Timestamp() time.Time {
	return e.OccurredAt
}

// NewLabRequestSubmitted describes a stored request for downstream reviewers.
func NewLabRequestSubmitted(id uint, email, company, project string, at time.Time) BaseEvent {
	return BaseEvent{
		Type: LabRequestSubmitted,
		Data: map[string]interface{}{
			"request_id":    id,
			"email_address": email,
			"company_name":  company,
			"project_name":  project,
		},
		OccurredAt: at,
	}
}

// Encode serializes any Event into the BaseEvent envelope.
func Encode(e Event) ([]byte, error) {
	return json.Marshal(BaseEvent{
		Type:       e.EventType(),
		Data:       e.Payload(),
		OccurredAt: e.Timestamp(),
	})
}

func Decode(data []byte) (BaseEvent, error) {
	var e BaseEvent
	err := json.Unmarshal(data, &e)
	return e, err
}
