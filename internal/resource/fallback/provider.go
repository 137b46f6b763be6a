// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package fallback

import (
	"context"
	"errors"

	"github.com/taibuivan/riddlerush/internal/platform/apperr"
	"github.com/taibuivan/riddlerush/internal/resource"
	"github.com/taibuivan/riddlerush/pkg/pointer"
	"github.com/taibuivan/riddlerush/pkg/slice"
)

// Provider serves resource.Provider from a [Store].
type Provider struct {
	store *Store
}

var _ resource.Provider = (*Provider)(nil)

// NewProvider adapts store.
func NewProvider(store *Store) *Provider {
	return &Provider{store: store}
}

func (p *Provider) ListCampaigns(_ context.Context) ([]resource.Campaign, error) {
	return slice.Map(p.store.Campaigns(), toCampaign), nil
}

func (p *Provider) CreateCampaign(ctx context.Context, input resource.CampaignInput) (*resource.Campaign, error) {
	status := CampaignDraft
	if input.IsActive {
		status = CampaignActive
	}

	created, err := p.store.AddCampaign(ctx, CampaignData{
		Name:        input.Name,
		Description: input.Description,
		Language:    input.Language,
		Status:      status,
	})
	if err != nil {
		return nil, translate(err)
	}
	return pointer.To(toCampaign(created)), nil
}

func (p *Provider) ListRiddles(_ context.Context, campaignID string) ([]resource.Riddle, error) {
	if _, err := p.store.Campaign(campaignID); err != nil {
		return nil, translate(err)
	}
	return slice.Map(p.store.CampaignQuestions(campaignID), toRiddle), nil
}

func (p *Provider) CreateRiddle(ctx context.Context, campaignID string, input resource.RiddleInput) (*resource.Riddle, error) {
	created, err := p.store.AddQuestion(ctx, QuestionData{
		CampaignID: campaignID,
		Question:   input.Question,
		AnswerType: answerType(input.IsAnswerStatic),
		Answer:     input.Answer,
		StartTime:  input.StartDate,
		EndTime:    input.EndDate,
	})
	if err != nil {
		return nil, translate(err)
	}
	return pointer.To(toRiddle(created)), nil
}

func (p *Provider) UpdateRiddle(ctx context.Context, riddleID string, input resource.RiddleInput) (*resource.Riddle, error) {
	updated, err := p.store.UpdateQuestion(ctx, riddleID, QuestionPatch{
		Question:   pointer.To(input.Question),
		AnswerType: pointer.To(answerType(input.IsAnswerStatic)),
		Answer:     pointer.To(input.Answer),
		StartTime:  pointer.To(input.StartDate),
		EndTime:    pointer.To(input.EndDate),
	})
	if err != nil {
		return nil, translate(err)
	}
	return pointer.To(toRiddle(updated)), nil
}

func (p *Provider) DeleteRiddle(ctx context.Context, riddleID string) error {
	if _, err := p.store.DeleteQuestion(ctx, riddleID); err != nil {
		return translate(err)
	}
	return nil
}

func (p *Provider) Leaderboard(_ context.Context, campaignID string, limit int) ([]resource.LeaderboardEntry, error) {
	if _, err := p.store.Campaign(campaignID); err != nil {
		return nil, translate(err)
	}

	entries := p.store.CampaignLeaderboard(campaignID)
	if limit > 0 && len(entries) > limit {
		entries = entries[:limit]
	}
	return slice.Map(entries, toLeaderboardEntry), nil
}

// # Mapping

func toCampaign(c Campaign) resource.Campaign {
	language := c.Language
	if language == "" {
		language = resource.LanguageEnglish
	}

	return resource.Campaign{
		ID:            c.ID,
		Name:          c.Name,
		Description:   c.Description,
		Language:      language,
		IsActive:      c.Status == CampaignActive,
		QuestionCount: pointer.To(c.QuestionCount),
		CreatedAt:     pointer.To(c.CreatedAt),
		Status:        string(c.Status),
	}
}

func toRiddle(q Question) resource.Riddle {
	return resource.Riddle{
		ID:             q.ID,
		CampaignID:     q.CampaignID,
		Question:       q.Question,
		Answer:         q.Answer,
		IsAnswerStatic: q.AnswerType == resource.AnswerStatic,
		StartDate:      q.StartTime,
		EndDate:        q.EndTime,
	}
}

func toLeaderboardEntry(e LeaderboardEntry) resource.LeaderboardEntry {
	return resource.LeaderboardEntry{
		ID:          e.ID,
		CampaignID:  e.CampaignID,
		Username:    e.Username,
		Score:       e.Score,
		CompletedAt: e.CompletedAt,
		TimeSpent:   e.TimeSpent,
	}
}

func answerType(static bool) resource.AnswerType {
	if static {
		return resource.AnswerStatic
	}
	return resource.AnswerAIValidated
}

// translate maps store errors; anything else is a storage failure.
func translate(err error) error {
	switch {
	case errors.Is(err, ErrCampaignNotFound):
		return apperr.NotFound("Campaign").WithCause(err)
	case errors.Is(err, ErrQuestionNotFound):
		return apperr.NotFound("Riddle").WithCause(err)
	default:
		return apperr.Internal(err)
	}
}
