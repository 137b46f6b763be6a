// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package fallback is the local campaign store used when no backend is
available.

The whole aggregate lives in memory behind one mutex and is written back as
a single JSON snapshot under "riddlerush-storage" after every mutation. A
missing snapshot is replaced with the demo data in [Seed].

[Provider] adapts the store to resource.Provider.
*/
package fallback

import (
	"github.com/taibuivan/riddlerush/internal/resource"
)

// CampaignStatus is the lifecycle stage of a local campaign.
type CampaignStatus string

const (
	CampaignActive    CampaignStatus = "active"
	CampaignCompleted CampaignStatus = "completed"
	CampaignDraft     CampaignStatus = "draft"
)

// ViewMode is the remembered layout of the campaign list.
type ViewMode string

const (
	ViewGrid ViewMode = "grid"
	ViewList ViewMode = "list"
)

// Campaign is a locally stored campaign.
type Campaign struct {
	ID            string             `json:"id"`
	Name          string             `json:"name"`
	CreatedAt     resource.Timestamp `json:"createdAt"`
	Status        CampaignStatus     `json:"status"`
	Description   string             `json:"description,omitempty"`
	Language      resource.Language  `json:"language,omitempty"`
	QuestionCount int                `json:"questionCount"`
}

// Question is a locally stored riddle. Status is fixed when the question is
// added or rescheduled.
type Question struct {
	ID         string                `json:"id"`
	CampaignID string                `json:"campaignId"`
	Question   string                `json:"question"`
	AnswerType resource.AnswerType   `json:"answerType"`
	Answer     string                `json:"answer"`
	StartTime  resource.Timestamp    `json:"startTime"`
	EndTime    resource.Timestamp    `json:"endTime"`
	Status     resource.RiddleStatus `json:"status"`
}

// LeaderboardEntry is a locally stored result. TimeSpent is in seconds.
type LeaderboardEntry struct {
	ID          string             `json:"id"`
	CampaignID  string             `json:"campaignId"`
	Username    string             `json:"username"`
	Score       int                `json:"score"`
	CompletedAt resource.Timestamp `json:"completedAt"`
	TimeSpent   int                `json:"timeSpent"`
}

// Snapshot is the persisted aggregate.
type Snapshot struct {
	Campaigns   []Campaign         `json:"campaigns"`
	Questions   []Question         `json:"questions"`
	Leaderboard []LeaderboardEntry `json:"leaderboard"`
	ViewMode    ViewMode           `json:"viewMode"`
}

func (s Snapshot) clone() Snapshot {
	return Snapshot{
		Campaigns:   append([]Campaign(nil), s.Campaigns...),
		Questions:   append([]Question(nil), s.Questions...),
		Leaderboard: append([]LeaderboardEntry(nil), s.Leaderboard...),
		ViewMode:    s.ViewMode,
	}
}

// # Inputs

// CampaignData is a campaign before it is stored.
type CampaignData struct {
	Name        string
	Description string
	Language    resource.Language
	Status      CampaignStatus
}

// CampaignPatch changes the non-nil fields of a campaign.
type CampaignPatch struct {
	Name        *string
	Description *string
	Language    *resource.Language
	Status      *CampaignStatus
}

// QuestionData is a question before it is stored.
type QuestionData struct {
	CampaignID string
	Question   string
	AnswerType resource.AnswerType
	Answer     string
	StartTime  resource.Timestamp
	EndTime    resource.Timestamp
}

// QuestionPatch changes the non-nil fields of a question.
type QuestionPatch struct {
	Question   *string
	AnswerType *resource.AnswerType
	Answer     *string
	StartTime  *resource.Timestamp
	EndTime    *resource.Timestamp
}
