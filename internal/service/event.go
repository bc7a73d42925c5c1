package service

import (
	"context"
	"fmt"
	"time"

	"github.com/microcosm-cc/bluemonday"
	"github.com/rs/zerolog"

	"server/internal/domain"
	"server/internal/infra/feed"
	"server/internal/metrics"
	"server/internal/pkg/validate"
)

// CreateEventInput carries the NGO-supplied event fields. Bounds follow the
// public form limits.
type CreateEventInput struct {
	Slug        string    `json:"slug" validate:"required,min=3,max=200,slug"`
	Title       string    `json:"title" validate:"required,min=3,max=200"`
	Description string    `json:"description" validate:"max=2000"`
	Location    string    `json:"location" validate:"required,min=3,max=300"`
	DateTime    time.Time `json:"date_time" validate:"required"`
	Capacity    int       `json:"capacity" validate:"required,min=1,max=10000"`
}

// UpdateEventInput carries a partial event edit; omitted fields keep their
// current value. The slug is immutable after creation.
type UpdateEventInput struct {
	Title       *string             `json:"title" validate:"omitempty,min=3,max=200"`
	Description *string             `json:"description" validate:"omitempty,max=2000"`
	Location    *string             `json:"location" validate:"omitempty,min=3,max=300"`
	DateTime    *time.Time          `json:"date_time"`
	Capacity    *int                `json:"capacity" validate:"omitempty,min=1,max=10000"`
	Status      *domain.EventStatus `json:"status"`
}

// EventService manages the event catalog.
type EventService interface {
	Create(ctx context.Context, identity domain.Identity, input CreateEventInput) (*domain.Event, error)
	Update(ctx context.Context, identity domain.Identity, id string, input UpdateEventInput) (*domain.Event, error)
	Get(ctx context.Context, id string) (*domain.Event, error)
	ListOpen(ctx context.Context, filter domain.EventFilter) ([]domain.Event, error)
}

type eventService struct {
	events    domain.EventRepository
	feed      feed.Publisher
	logger    zerolog.Logger
	now       domain.Clock
	sanitizer *bluemonday.Policy
}

// NewEventService creates an EventService.
func NewEventService(events domain.EventRepository, pub feed.Publisher, logger zerolog.Logger, now domain.Clock) EventService {
	return &eventService{
		events:    events,
		feed:      pub,
		logger:    logger,
		now:       now,
		sanitizer: bluemonday.StrictPolicy(),
	}
}

func (s *eventService) Create(ctx context.Context, identity domain.Identity, input CreateEventInput) (*domain.Event, error) {
	if identity.Role != domain.RoleNGO {
		return nil, fmt.Errorf("%w: only ngo accounts can create events", domain.ErrUnauthorized)
	}
	if err := validate.Struct(input); err != nil {
		return nil, fmt.Errorf("%w: %s", domain.ErrValidation, err)
	}
	if !input.DateTime.After(s.now()) {
		return nil, fmt.Errorf("%w: date_time must be in the future", domain.ErrValidation)
	}

	event := &domain.Event{
		Slug:        input.Slug,
		Title:       input.Title,
		Description: s.sanitizer.Sanitize(input.Description),
		Location:    input.Location,
		DateTime:    input.DateTime,
		Capacity:    input.Capacity,
		Status:      domain.EventStatusUpcoming,
		CreatedBy:   identity.ID,
	}

	created, err := s.events.Create(ctx, event)
	if err != nil {
		return nil, err
	}

	s.publish(ctx, map[string]any{
		"action":   "created",
		"event_id": created.ID,
		"slug":     created.Slug,
		"capacity": created.Capacity,
	})
	return created, nil
}

func (s *eventService) Update(ctx context.Context, identity domain.Identity, id string, input UpdateEventInput) (*domain.Event, error) {
	current, err := s.events.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if identity.Role != domain.RoleNGO || current.CreatedBy != identity.ID {
		return nil, fmt.Errorf("%w: only the hosting ngo can edit the event", domain.ErrUnauthorized)
	}
	if err := validate.Struct(input); err != nil {
		return nil, fmt.Errorf("%w: %s", domain.ErrValidation, err)
	}
	if input.Status != nil {
		switch *input.Status {
		case domain.EventStatusDraft, domain.EventStatusUpcoming,
			domain.EventStatusCompleted, domain.EventStatusCancelled:
		default:
			return nil, fmt.Errorf("%w: unknown status %q", domain.ErrValidation, *input.Status)
		}
	}

	upd := domain.EventUpdate{
		Title:    input.Title,
		Location: input.Location,
		DateTime: input.DateTime,
		Capacity: input.Capacity,
		Status:   input.Status,
	}
	if input.Description != nil {
		clean := s.sanitizer.Sanitize(*input.Description)
		upd.Description = &clean
	}

	updated, err := s.events.Update(ctx, id, upd)
	if err != nil {
		return nil, err
	}

	s.publish(ctx, map[string]any{
		"action":   "updated",
		"event_id": updated.ID,
		"slug":     updated.Slug,
		"capacity": updated.Capacity,
		"status":   updated.Status,
	})
	return updated, nil
}

func (s *eventService) Get(ctx context.Context, id string) (*domain.Event, error) {
	return s.events.GetByID(ctx, id)
}

func (s *eventService) ListOpen(ctx context.Context, filter domain.EventFilter) ([]domain.Event, error) {
	if filter.Window == "" {
		filter.Window = domain.EventWindowAll
	}
	if filter.Sort == "" {
		filter.Sort = domain.EventSortDate
	}
	return s.events.ListOpen(ctx, filter)
}

func (s *eventService) publish(ctx context.Context, payload map[string]any) {
	if err := s.feed.Publish(ctx, feed.TopicEvents, payload); err != nil {
		metrics.FeedPublishErrors.Inc()
		s.logger.Warn().Err(err).Str("topic", feed.TopicEvents).Msg("feed publish failed")
	}
}
