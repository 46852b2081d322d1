package usecase

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"
	"gocloud.dev/pubsub"

	"github.com/souqdz/marketplace/internal/notifications/domain"
)

// JobEventKind identifies a job lifecycle transition.
type JobEventKind string

const (
	JobEventEnqueued  JobEventKind = "enqueued"
	JobEventCompleted JobEventKind = "completed"
	JobEventFailed    JobEventKind = "failed"
)

// JobEvent is published on every job lifecycle transition. Consumers can
// subscribe to drive dashboards or downstream integrations.
type JobEvent struct {
	JobID   uuid.UUID      `json:"job_id"`
	JobName domain.JobName `json:"job_name"`
	Kind    JobEventKind   `json:"kind"`
}

// TopicPublisher publishes job events to a gocloud.dev pubsub topic. The
// topic URL decides the backend, in-memory by default (mem://jobs).
type TopicPublisher struct {
	topic *pubsub.Topic
}

// NewTopicPublisher creates a TopicPublisher from an opened topic.
func NewTopicPublisher(topic *pubsub.Topic) *TopicPublisher {
	return &TopicPublisher{topic: topic}
}

// Publish encodes the event as JSON and sends it to the topic.
func (p *TopicPublisher) Publish(ctx context.Context, event JobEvent) error {
	body, err := json.Marshal(event)
	if err != nil {
		return err
	}
	return p.topic.Send(ctx, &pubsub.Message{
		Body: body,
		Metadata: map[string]string{
			"job_name": string(event.JobName),
			"kind":     string(event.Kind),
		},
	})
}
