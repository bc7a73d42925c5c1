package service

import (
	"context"
	"fmt"
	"time"

	"github.com/microcosm-cc/bluemonday"
	"github.com/rs/zerolog"

	"server/internal/domain"
	"server/internal/metrics"
	"server/internal/pkg/validate"
)

// LogHoursInput carries one volunteer time entry.
type LogHoursInput struct {
	EventID   string    `json:"event_id" validate:"required,uuid"`
	Hours     float64   `json:"hours" validate:"required,gt=0,lte=24"`
	EntryDate time.Time `json:"entry_date"`
	Notes     string    `json:"notes" validate:"max=500"`
}

// HoursService appends to the volunteer hours ledger.
type HoursService interface {
	Log(ctx context.Context, identity domain.Identity, input LogHoursInput) (*domain.HoursEntry, error)
	Total(ctx context.Context, volunteerID string) (float64, error)
}

type hoursService struct {
	hours     domain.HoursRepository
	notifier  NotificationService
	logger    zerolog.Logger
	now       domain.Clock
	sanitizer *bluemonday.Policy
}

// NewHoursService creates an HoursService.
func NewHoursService(hours domain.HoursRepository, notifier NotificationService, logger zerolog.Logger, now domain.Clock) HoursService {
	return &hoursService{
		hours:     hours,
		notifier:  notifier,
		logger:    logger,
		now:       now,
		sanitizer: bluemonday.StrictPolicy(),
	}
}

func (s *hoursService) Log(ctx context.Context, identity domain.Identity, input LogHoursInput) (*domain.HoursEntry, error) {
	if identity.Role != domain.RoleVolunteer {
		return nil, fmt.Errorf("%w: only volunteers can log hours", domain.ErrUnauthorized)
	}
	if err := validate.Struct(input); err != nil {
		return nil, fmt.Errorf("%w: %s", domain.ErrValidation, err)
	}

	entryDate := input.EntryDate
	if entryDate.IsZero() {
		entryDate = s.now()
	}
	if entryDate.After(s.now().Add(24 * time.Hour)) {
		return nil, fmt.Errorf("%w: entry_date cannot be in the future", domain.ErrValidation)
	}

	entry, err := s.hours.Append(ctx, &domain.HoursEntry{
		VolunteerID: identity.ID,
		EventID:     input.EventID,
		Hours:       input.Hours,
		EntryDate:   entryDate,
		Notes:       s.sanitizer.Sanitize(input.Notes),
	})
	if err != nil {
		return nil, err
	}
	metrics.HoursLogged.Inc()

	dispatchErr := s.notifier.Dispatch(context.WithoutCancel(ctx), domain.Notification{
		UserID:    identity.ID,
		Title:     "Hours Logged",
		Message:   fmt.Sprintf("Your %.1f volunteer hours were recorded. Thank you!", entry.Hours),
		Kind:      domain.NotificationHours,
		RelatedID: entry.EventID,
		DedupeKey: "hours:" + entry.ID,
	})
	if dispatchErr != nil {
		s.logger.Warn().Err(dispatchErr).Str("entry_id", entry.ID).Msg("hours notification deferred to worker")
	}
	return entry, nil
}

func (s *hoursService) Total(ctx context.Context, volunteerID string) (float64, error) {
	return s.hours.SumByVolunteer(ctx, volunteerID)
}
