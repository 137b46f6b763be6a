// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package resource

import (
	"context"
	"strings"
	"time"

	"github.com/taibuivan/riddlerush/internal/platform/apperr"
	"github.com/taibuivan/riddlerush/internal/platform/constants"
)

// MaxLeaderboardLimit caps the number of entries a caller may request.
const MaxLeaderboardLimit = 100

// Service validates input and delegates to a [Provider].
type Service struct {
	provider Provider
	now      func() time.Time
}

// NewService creates a service over provider.
func NewService(provider Provider) *Service {
	return &Service{provider: provider, now: time.Now}
}

// WithClock overrides the time source used for riddle windows.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// Now returns the service clock.
func (s *Service) Now() time.Time {
	return s.now()
}

// # Campaigns

func (s *Service) Campaigns(ctx context.Context) ([]Campaign, error) {
	return s.provider.ListCampaigns(ctx)
}

// Campaign finds one campaign in the list; the backend has no single-campaign
// endpoint.
func (s *Service) Campaign(ctx context.Context, id string) (*Campaign, error) {
	campaigns, err := s.provider.ListCampaigns(ctx)
	if err != nil {
		return nil, err
	}
	for i := range campaigns {
		if campaigns[i].ID == id {
			return &campaigns[i], nil
		}
	}
	return nil, apperr.NotFound("Campaign")
}

func (s *Service) CreateCampaign(ctx context.Context, input CampaignInput) (*Campaign, error) {
	input.Name = strings.TrimSpace(input.Name)
	input.Description = strings.TrimSpace(input.Description)

	if err := ValidateCampaign(input); err != nil {
		return nil, err
	}
	return s.provider.CreateCampaign(ctx, input)
}

// # Riddles

func (s *Service) Riddles(ctx context.Context, campaignID string) ([]Riddle, error) {
	return s.provider.ListRiddles(ctx, campaignID)
}

func (s *Service) CreateRiddle(ctx context.Context, campaignID string, input RiddleInput) (*Riddle, error) {
	input = normalizeRiddle(input)
	if err := ValidateRiddle(input, s.now()); err != nil {
		return nil, err
	}
	return s.provider.CreateRiddle(ctx, campaignID, input)
}

func (s *Service) UpdateRiddle(ctx context.Context, riddleID string, input RiddleInput) (*Riddle, error) {
	input = normalizeRiddle(input)
	if err := ValidateRiddle(input, s.now()); err != nil {
		return nil, err
	}
	return s.provider.UpdateRiddle(ctx, riddleID, input)
}

func (s *Service) DeleteRiddle(ctx context.Context, riddleID string) error {
	return s.provider.DeleteRiddle(ctx, riddleID)
}

// # Leaderboard

// Leaderboard returns the top entries of a campaign. Out of range limits fall
// back to the default.
func (s *Service) Leaderboard(ctx context.Context, campaignID string, limit int) ([]LeaderboardEntry, error) {
	if limit <= 0 || limit > MaxLeaderboardLimit {
		limit = constants.LeaderboardLimit
	}
	return s.provider.Leaderboard(ctx, campaignID, limit)
}

func normalizeRiddle(input RiddleInput) RiddleInput {
	input.Question = strings.TrimSpace(input.Question)
	input.Answer = strings.TrimSpace(input.Answer)
	return input
}
