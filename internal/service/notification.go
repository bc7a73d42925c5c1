package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"server/internal/domain"
	"server/internal/infra/feed"
	"server/internal/infra/smtp"
	"server/internal/metrics"
)

// NotificationService dispatches durable notifications and serves the
// recipient-facing reads. Dispatch is exactly-once per dedupe key: the row is
// the source of truth, email and the change feed are best-effort copies.
type NotificationService interface {
	Dispatch(ctx context.Context, n domain.Notification) error
	List(ctx context.Context, userID string, unreadOnly bool) ([]domain.Notification, error)
	MarkRead(ctx context.Context, id, userID string) error
}

type notificationService struct {
	repo     domain.NotificationRepository
	profiles domain.ProfileRepository
	mailer   smtp.Mailer
	feed     feed.Publisher
	logger   zerolog.Logger
}

// NewNotificationService creates a NotificationService. mailer may be nil
// when email is not configured.
func NewNotificationService(repo domain.NotificationRepository, profiles domain.ProfileRepository, mailer smtp.Mailer, pub feed.Publisher, logger zerolog.Logger) NotificationService {
	return &notificationService{repo: repo, profiles: profiles, mailer: mailer, feed: pub, logger: logger}
}

func (s *notificationService) Dispatch(ctx context.Context, n domain.Notification) error {
	if n.DedupeKey == "" {
		return fmt.Errorf("%w: notification dedupe key is required", domain.ErrValidation)
	}

	created, err := s.repo.CreateOnce(ctx, &n)
	if err != nil {
		return fmt.Errorf("dispatch %s: %w", n.DedupeKey, err)
	}
	if !created {
		metrics.NotificationsDeduped.Inc()
		return nil
	}
	metrics.NotificationsEmitted.Inc()

	s.sendEmail(ctx, n)
	s.publish(ctx, n)
	return nil
}

// sendEmail mirrors the row to the recipient's inbox. Failures are logged and
// swallowed; the durable row already exists.
func (s *notificationService) sendEmail(ctx context.Context, n domain.Notification) {
	if s.mailer == nil {
		return
	}
	profile, err := s.profiles.GetByID(ctx, n.UserID)
	if err != nil || profile.Email == "" {
		s.logger.Warn().Err(err).Str("user_id", n.UserID).Msg("skip notification email, no recipient address")
		return
	}
	if err := s.mailer.SendEmail(profile.Email, n.Title, n.Message); err != nil {
		s.logger.Warn().Err(err).Str("dedupe_key", n.DedupeKey).Msg("notification email failed")
	}
}

func (s *notificationService) publish(ctx context.Context, n domain.Notification) {
	payload := map[string]any{
		"id":      n.ID,
		"user_id": n.UserID,
		"type":    n.Kind,
		"title":   n.Title,
	}
	if err := s.feed.Publish(ctx, feed.TopicNotifications, payload); err != nil {
		metrics.FeedPublishErrors.Inc()
		s.logger.Warn().Err(err).Str("topic", feed.TopicNotifications).Msg("feed publish failed")
	}
}

func (s *notificationService) List(ctx context.Context, userID string, unreadOnly bool) ([]domain.Notification, error) {
	return s.repo.ListByUser(ctx, userID, unreadOnly)
}

func (s *notificationService) MarkRead(ctx context.Context, id, userID string) error {
	return s.repo.MarkRead(ctx, id, userID)
}
