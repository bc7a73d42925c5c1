package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"server/internal/domain"
	"server/internal/infra/feed"
	"server/internal/metrics"
	"server/internal/pkg/validate"
)

// DonateInput carries one simulated donation.
type DonateInput struct {
	NGOID    string  `json:"ngo_id" validate:"required,uuid"`
	Amount   float64 `json:"amount" validate:"required,gte=1,lte=1000000"`
	Campaign string  `json:"campaign" validate:"required,min=2,max=100"`
}

// DonationService records donations. The donation row and both notifications
// (donor receipt, NGO credit) commit in one transaction.
type DonationService interface {
	Donate(ctx context.Context, identity domain.Identity, input DonateInput) (*domain.Donation, error)
	ListMine(ctx context.Context, identity domain.Identity) ([]domain.Donation, error)
}

type donationService struct {
	donations domain.DonationRepository
	profiles  domain.ProfileRepository
	feed      feed.Publisher
	logger    zerolog.Logger
}

// NewDonationService creates a DonationService.
func NewDonationService(donations domain.DonationRepository, profiles domain.ProfileRepository, pub feed.Publisher, logger zerolog.Logger) DonationService {
	return &donationService{donations: donations, profiles: profiles, feed: pub, logger: logger}
}

func (s *donationService) Donate(ctx context.Context, identity domain.Identity, input DonateInput) (*domain.Donation, error) {
	if identity.Role != domain.RoleDonor {
		return nil, fmt.Errorf("%w: only donor accounts can donate", domain.ErrUnauthorized)
	}
	if err := validate.Struct(input); err != nil {
		return nil, fmt.Errorf("%w: %s", domain.ErrValidation, err)
	}

	ngo, err := s.profiles.GetByID(ctx, input.NGOID)
	if err != nil {
		return nil, fmt.Errorf("resolve ngo: %w", err)
	}
	if ngo.Role != domain.RoleNGO {
		return nil, fmt.Errorf("%w: recipient is not an ngo account", domain.ErrValidation)
	}

	// ID is minted here so both dedupe keys are known before the insert.
	donationID := uuid.NewString()
	donation := &domain.Donation{
		ID:       donationID,
		DonorID:  identity.ID,
		NGOID:    input.NGOID,
		Amount:   input.Amount,
		Campaign: input.Campaign,
		Status:   "completed",
	}
	notifications := []domain.Notification{
		{
			UserID:    identity.ID,
			Title:     "Donation Successful",
			Message:   fmt.Sprintf("Thank you! Your donation of ₹%.2f to %s (%s) was recorded.", input.Amount, ngo.Name, input.Campaign),
			Kind:      domain.NotificationDonation,
			RelatedID: donationID,
			DedupeKey: "donation:" + donationID + ":donor",
		},
		{
			UserID:    input.NGOID,
			Title:     "Donation Received",
			Message:   fmt.Sprintf("%s donated ₹%.2f to your %s campaign.", identity.Name, input.Amount, input.Campaign),
			Kind:      domain.NotificationDonation,
			RelatedID: donationID,
			DedupeKey: "donation:" + donationID + ":ngo",
		},
	}

	created, err := s.donations.CreateWithNotifications(ctx, donation, notifications)
	if err != nil {
		return nil, err
	}
	metrics.DonationsRecorded.Inc()
	metrics.NotificationsEmitted.Add(float64(len(notifications)))

	payload := map[string]any{
		"action":      "donated",
		"donation_id": created.ID,
		"ngo_id":      created.NGOID,
		"amount":      created.Amount,
	}
	if err := s.feed.Publish(context.WithoutCancel(ctx), feed.TopicDonations, payload); err != nil {
		metrics.FeedPublishErrors.Inc()
		s.logger.Warn().Err(err).Str("donation_id", created.ID).Msg("feed publish failed")
	}
	return created, nil
}

// ListMine returns the caller's own donations.
func (s *donationService) ListMine(ctx context.Context, identity domain.Identity) ([]domain.Donation, error) {
	return s.donations.ListByDonor(ctx, identity.ID)
}
