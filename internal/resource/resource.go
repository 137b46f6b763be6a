// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package resource is the campaign, riddle and leaderboard layer of the admin.

Two interchangeable [Provider] implementations exist: the remote REST client
(package remote) and the local fallback store (package fallback). One is
chosen at startup; nothing above this package knows which.

Layers:

  - Provider: raw data access, remote or fallback.
  - Cached: a read-through cache over any Provider.
  - Service: input validation in front of the provider.
  - Handler: the /api/v1 JSON surface.
*/
package resource

import (
	"context"
	"time"
)

// # Provider

// Provider is the data layer contract shared by both implementations.
type Provider interface {
	ListCampaigns(ctx context.Context) ([]Campaign, error)
	CreateCampaign(ctx context.Context, input CampaignInput) (*Campaign, error)
	ListRiddles(ctx context.Context, campaignID string) ([]Riddle, error)
	CreateRiddle(ctx context.Context, campaignID string, input RiddleInput) (*Riddle, error)
	UpdateRiddle(ctx context.Context, riddleID string, input RiddleInput) (*Riddle, error)
	DeleteRiddle(ctx context.Context, riddleID string) error
	Leaderboard(ctx context.Context, campaignID string, limit int) ([]LeaderboardEntry, error)
}

// # Campaigns

// Language is a supported campaign language.
type Language string

const (
	LanguageEnglish Language = "en"
	LanguageArabic  Language = "ar"
)

// Campaign is a named set of riddles.
type Campaign struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description,omitempty"`
	Language    Language `json:"language"`
	IsActive    bool     `json:"is_active"`

	// Only the fallback store tracks these.
	QuestionCount *int       `json:"question_count,omitempty"`
	CreatedAt     *Timestamp `json:"created_at,omitempty"`
	Status        string     `json:"status,omitempty"`
}

// CampaignInput is the payload for creating a campaign.
type CampaignInput struct {
	Name        string   `json:"name"`
	Description string   `json:"description,omitempty"`
	Language    Language `json:"language"`
	IsActive    bool     `json:"is_active"`
}

// # Riddles

// Riddle is one timed question of a campaign.
type Riddle struct {
	ID             string    `json:"id"`
	CampaignID     string    `json:"campaign_id"`
	Question       string    `json:"question"`
	Answer         string    `json:"answer"`
	IsAnswerStatic bool      `json:"is_answer_static"`
	StartDate      Timestamp `json:"start_date"`
	EndDate        Timestamp `json:"end_date"`
}

// RiddleInput is the payload for creating or updating a riddle.
type RiddleInput struct {
	Question       string    `json:"question"`
	Answer         string    `json:"answer"`
	IsAnswerStatic bool      `json:"is_answer_static"`
	StartDate      Timestamp `json:"start_date"`
	EndDate        Timestamp `json:"end_date"`
}

// AnswerType names how an answer is checked.
type AnswerType string

const (
	AnswerStatic      AnswerType = "static"
	AnswerAIValidated AnswerType = "ai-validated"
)

// AnswerType reports how the riddle's answer is checked.
func (r Riddle) AnswerType() AnswerType {
	if r.IsAnswerStatic {
		return AnswerStatic
	}
	return AnswerAIValidated
}

// RiddleStatus is derived from the riddle's window and the clock.
type RiddleStatus string

const (
	StatusUpcoming RiddleStatus = "upcoming"
	StatusActive   RiddleStatus = "active"
	StatusEnded    RiddleStatus = "ended"
)

// StatusAt places now relative to the riddle's window. Both ends are inclusive.
func (r Riddle) StatusAt(now time.Time) RiddleStatus {
	switch {
	case now.Before(r.StartDate.Time):
		return StatusUpcoming
	case !now.After(r.EndDate.Time):
		return StatusActive
	default:
		return StatusEnded
	}
}

// # Leaderboard

// LeaderboardEntry is one player's result in a campaign.
type LeaderboardEntry struct {
	ID          string    `json:"id"`
	CampaignID  string    `json:"campaign_id"`
	Username    string    `json:"username"`
	Score       int       `json:"score"`
	CompletedAt Timestamp `json:"completed_at"`
	// TimeSpent is in seconds.
	TimeSpent int `json:"time_spent"`
}
