package feed

import (
	"context"
	"encoding/json"

	"github.com/rs/zerolog"
)

// Publisher pushes committed mutations to downstream observers (dashboards,
// the leaderboard). Delivery is fire-and-forget: nothing in the core reads
// back from the feed, and correctness never depends on a subscriber having
// seen a message.
type Publisher interface {
	Publish(ctx context.Context, topic string, payload any) error
}

// Topics published by the core.
const (
	TopicEvents        = "events"
	TopicRegistrations = "registrations"
	TopicNotifications = "notifications"
	TopicDonations     = "donations"
)

// LogPublisher writes feed messages to the log. Used in development and as
// the fallback when no broker is configured.
type LogPublisher struct {
	Logger zerolog.Logger
}

func NewLogPublisher(logger zerolog.Logger) *LogPublisher {
	return &LogPublisher{Logger: logger}
}

func (p *LogPublisher) Publish(_ context.Context, topic string, payload any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	p.Logger.Info().Str("topic", topic).RawJSON("payload", body).Msg("feed publish")
	return nil
}

var _ Publisher = (*LogPublisher)(nil)
