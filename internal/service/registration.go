package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"server/internal/domain"
	"server/internal/infra/feed"
	"server/internal/metrics"
)

// RegistrationService coordinates event sign-ups. Register is the
// check-and-reserve entry point: the capacity decision happens atomically in
// the repository transaction, bounded by the configured timeout, and the
// notification plus feed publish run after commit, best-effort.
type RegistrationService interface {
	Register(ctx context.Context, identity domain.Identity, eventID string) (*domain.Registration, error)
	Cancel(ctx context.Context, identity domain.Identity, eventID string) error
	MarkAttended(ctx context.Context, identity domain.Identity, eventID, volunteerID string) error
	ListByEvent(ctx context.Context, identity domain.Identity, eventID string) ([]domain.Registration, error)
	ListMine(ctx context.Context, identity domain.Identity) ([]domain.Registration, error)
}

type registrationService struct {
	registrations domain.RegistrationRepository
	events        domain.EventRepository
	notifier      NotificationService
	feed          feed.Publisher
	logger        zerolog.Logger
	timeout       time.Duration
}

// NewRegistrationService creates a RegistrationService. timeout bounds each
// Register transaction.
func NewRegistrationService(registrations domain.RegistrationRepository, events domain.EventRepository, notifier NotificationService, pub feed.Publisher, logger zerolog.Logger, timeout time.Duration) RegistrationService {
	return &registrationService{
		registrations: registrations,
		events:        events,
		notifier:      notifier,
		feed:          pub,
		logger:        logger,
		timeout:       timeout,
	}
}

func (s *registrationService) Register(ctx context.Context, identity domain.Identity, eventID string) (*domain.Registration, error) {
	if identity.Role != domain.RoleVolunteer {
		return nil, fmt.Errorf("%w: only volunteers can register", domain.ErrUnauthorized)
	}

	txCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	outcome, err := s.registrations.RegisterConfirmed(txCtx, eventID, identity.ID)
	if err != nil {
		reason := rejectReason(err)
		if errors.Is(err, context.DeadlineExceeded) {
			reason = "timeout"
			err = fmt.Errorf("%w: registration could not complete in %s", domain.ErrTimeout, s.timeout)
		}
		if reason != "" {
			metrics.RegistrationsRejected.WithLabelValues(reason).Inc()
		}
		return nil, err
	}
	metrics.RegistrationsConfirmed.Inc()

	reg := outcome.Registration
	s.afterRegister(context.WithoutCancel(ctx), identity, reg)
	return reg, nil
}

// afterRegister runs the post-commit side effects. The registration is
// already durable; nothing here can fail it.
func (s *registrationService) afterRegister(ctx context.Context, identity domain.Identity, reg *domain.Registration) {
	title := "the event"
	if event, err := s.events.GetByID(ctx, reg.EventID); err == nil {
		title = event.Title
	}

	err := s.notifier.Dispatch(ctx, domain.Notification{
		UserID:    identity.ID,
		Title:     "Registration Confirmed",
		Message:   fmt.Sprintf("You are registered for %s. See you there!", title),
		Kind:      domain.NotificationRegistration,
		RelatedID: reg.EventID,
		DedupeKey: "registration:" + reg.ID,
	})
	if err != nil {
		// the reconciliation worker re-derives this row from the ledger
		s.logger.Warn().Err(err).Str("registration_id", reg.ID).Msg("registration notification deferred to worker")
	}

	s.publish(ctx, map[string]any{
		"action":          "registered",
		"registration_id": reg.ID,
		"event_id":        reg.EventID,
		"volunteer_id":    reg.VolunteerID,
	})
}

func (s *registrationService) Cancel(ctx context.Context, identity domain.Identity, eventID string) error {
	if identity.Role != domain.RoleVolunteer {
		return fmt.Errorf("%w: only volunteers can cancel their registration", domain.ErrUnauthorized)
	}

	cancelled, err := s.registrations.Cancel(ctx, eventID, identity.ID)
	if err != nil {
		return err
	}
	if cancelled {
		s.publish(context.WithoutCancel(ctx), map[string]any{
			"action":       "cancelled",
			"event_id":     eventID,
			"volunteer_id": identity.ID,
		})
	}
	return nil
}

func (s *registrationService) MarkAttended(ctx context.Context, identity domain.Identity, eventID, volunteerID string) error {
	event, err := s.events.GetByID(ctx, eventID)
	if err != nil {
		return err
	}
	ownsEvent := identity.Role == domain.RoleNGO && event.CreatedBy == identity.ID
	if !ownsEvent && identity.ID != volunteerID {
		return fmt.Errorf("%w: only the hosting ngo or the volunteer can mark attendance", domain.ErrUnauthorized)
	}

	if err := s.registrations.MarkAttended(ctx, eventID, volunteerID); err != nil {
		return err
	}
	s.publish(context.WithoutCancel(ctx), map[string]any{
		"action":       "attended",
		"event_id":     eventID,
		"volunteer_id": volunteerID,
	})
	return nil
}

func (s *registrationService) ListByEvent(ctx context.Context, identity domain.Identity, eventID string) ([]domain.Registration, error) {
	event, err := s.events.GetByID(ctx, eventID)
	if err != nil {
		return nil, err
	}
	if identity.Role != domain.RoleNGO || event.CreatedBy != identity.ID {
		return nil, fmt.Errorf("%w: only the hosting ngo can list registrations", domain.ErrUnauthorized)
	}
	return s.registrations.ListByEvent(ctx, eventID)
}

// ListMine returns the caller's own registration history, cancelled rows
// included.
func (s *registrationService) ListMine(ctx context.Context, identity domain.Identity) ([]domain.Registration, error) {
	return s.registrations.ListByVolunteer(ctx, identity.ID)
}

func (s *registrationService) publish(ctx context.Context, payload map[string]any) {
	if err := s.feed.Publish(ctx, feed.TopicRegistrations, payload); err != nil {
		metrics.FeedPublishErrors.Inc()
		s.logger.Warn().Err(err).Str("topic", feed.TopicRegistrations).Msg("feed publish failed")
	}
}

// rejectReason maps a registration failure to its metrics label. Unknown
// errors return "" and are not counted as rejections.
func rejectReason(err error) string {
	switch {
	case errors.Is(err, domain.ErrCapacityExceeded):
		return "event_full"
	case errors.Is(err, domain.ErrAlreadyRegistered):
		return "already_registered"
	case errors.Is(err, domain.ErrEventNotOpen):
		return "event_not_open"
	case errors.Is(err, domain.ErrNotFound):
		return "not_found"
	}
	return ""
}
