package submission

import (
	"context"
	"encoding/json"

	"github.com/zeromicro/go-queue/kq"
)

// VerdictEvent is published after a submission is judged.
type VerdictEvent struct {
	SubmissionID string `json:"submission_id"`
	UserID       string `json:"user_id"`
	ProblemID    int    `json:"problem_id"`
	Language     string `json:"language"`
	Verdict      string `json:"verdict"`
	JudgedAt     string `json:"judged_at"`
}

// Publisher pushes verdict events to Kafka.
type Publisher struct {
	pusher *kq.Pusher
}

// NewPublisher creates a publisher for the given brokers and topic.
func NewPublisher(brokers []string, topic string) *Publisher {
	return &Publisher{pusher: kq.NewPusher(brokers, topic)}
}

// PublishVerdict pushes one event.
func (p *Publisher) PublishVerdict(ctx context.Context, ev VerdictEvent) error {
	body, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	return p.pusher.Push(ctx, string(body))
}

// Close flushes and stops the underlying pusher.
func (p *Publisher) Close() error {
	return p.pusher.Close()
}
