package service

import (
	"context"

	"server/internal/domain"
)

const (
	defaultLeaderboardSize = 10
	maxLeaderboardSize     = 50
)

// ProfileService serves profile reads and the volunteer leaderboard.
type ProfileService interface {
	Get(ctx context.Context, id string) (*domain.Profile, error)
	Leaderboard(ctx context.Context, limit int) ([]domain.Profile, error)
}

type profileService struct {
	profiles domain.ProfileRepository
}

// NewProfileService creates a ProfileService.
func NewProfileService(profiles domain.ProfileRepository) ProfileService {
	return &profileService{profiles: profiles}
}

func (s *profileService) Get(ctx context.Context, id string) (*domain.Profile, error) {
	return s.profiles.GetByID(ctx, id)
}

func (s *profileService) Leaderboard(ctx context.Context, limit int) ([]domain.Profile, error) {
	if limit <= 0 {
		limit = defaultLeaderboardSize
	}
	if limit > maxLeaderboardSize {
		limit = maxLeaderboardSize
	}
	return s.profiles.TopVolunteers(ctx, limit)
}
