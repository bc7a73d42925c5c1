package service

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"server/internal/domain"
)

func donorIdentity() domain.Identity {
	return domain.Identity{ID: "4d4d4d4d-1111-2222-3333-444455556666", Name: "Ravi", Role: domain.RoleDonor, Verified: true}
}

func validDonateInput() DonateInput {
	return DonateInput{NGOID: testNGOID, Amount: 500, Campaign: "Flood Relief"}
}

func TestDonate(t *testing.T) {
	ngoProfile := &domain.Profile{ID: testNGOID, Name: "Seva Trust", Role: domain.RoleNGO}

	t.Run("records donation with both notifications in one call", func(t *testing.T) {
		donations := new(mockDonationRepo)
		profiles := new(mockProfileRepo)
		pub := new(mockPublisher)

		profiles.On("GetByID", mock.Anything, testNGOID).Return(ngoProfile, nil)
		var gotNotifications []domain.Notification
		donations.On("CreateWithNotifications", mock.Anything, mock.Anything, mock.Anything).
			Run(func(args mock.Arguments) {
				gotNotifications = args.Get(2).([]domain.Notification)
			}).
			Return(&domain.Donation{ID: "d1", Amount: 500, NGOID: testNGOID}, nil)
		pub.On("Publish", mock.Anything, "donations", mock.Anything).Return(nil)

		svc := NewDonationService(donations, profiles, pub, zerolog.Nop())
		got, err := svc.Donate(context.Background(), donorIdentity(), validDonateInput())

		require.NoError(t, err)
		assert.Equal(t, 500.0, got.Amount)
		require.Len(t, gotNotifications, 2)
		donationID := gotNotifications[0].RelatedID
		assert.Equal(t, "donation:"+donationID+":donor", gotNotifications[0].DedupeKey)
		assert.Equal(t, "donation:"+donationID+":ngo", gotNotifications[1].DedupeKey)
		assert.Equal(t, donorIdentity().ID, gotNotifications[0].UserID)
		assert.Equal(t, testNGOID, gotNotifications[1].UserID)
	})

	t.Run("only donors can donate", func(t *testing.T) {
		svc := NewDonationService(new(mockDonationRepo), new(mockProfileRepo), new(mockPublisher), zerolog.Nop())
		_, err := svc.Donate(context.Background(), volunteerIdentity(), validDonateInput())
		assert.ErrorIs(t, err, domain.ErrUnauthorized)
	})

	t.Run("recipient must be an ngo account", func(t *testing.T) {
		profiles := new(mockProfileRepo)
		profiles.On("GetByID", mock.Anything, testNGOID).
			Return(&domain.Profile{ID: testNGOID, Role: domain.RoleVolunteer}, nil)

		svc := NewDonationService(new(mockDonationRepo), profiles, new(mockPublisher), zerolog.Nop())
		_, err := svc.Donate(context.Background(), donorIdentity(), validDonateInput())

		assert.ErrorIs(t, err, domain.ErrValidation)
	})

	t.Run("rejects out-of-range amounts", func(t *testing.T) {
		for _, amount := range []float64{0, 0.5, 1000001} {
			input := validDonateInput()
			input.Amount = amount

			svc := NewDonationService(new(mockDonationRepo), new(mockProfileRepo), new(mockPublisher), zerolog.Nop())
			_, err := svc.Donate(context.Background(), donorIdentity(), input)

			assert.ErrorIs(t, err, domain.ErrValidation, "amount=%v", amount)
		}
	})
}

func TestDonationsListMine(t *testing.T) {
	donations := new(mockDonationRepo)
	donations.On("ListByDonor", mock.Anything, donorIdentity().ID).Return([]domain.Donation{
		{ID: "d2", NGOID: testNGOID, Amount: 1000, Campaign: "Flood Relief"},
		{ID: "d1", NGOID: testNGOID, Amount: 500, Campaign: "Flood Relief"},
	}, nil)

	svc := NewDonationService(donations, new(mockProfileRepo), new(mockPublisher), zerolog.Nop())
	got, err := svc.ListMine(context.Background(), donorIdentity())

	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "d2", got[0].ID)
	donations.AssertExpectations(t)
}
