// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package fallback_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/riddlerush/internal/platform/apperr"
	"github.com/taibuivan/riddlerush/internal/platform/kv"
	"github.com/taibuivan/riddlerush/internal/resource"
	"github.com/taibuivan/riddlerush/internal/resource/fallback"
)

func newProvider(t *testing.T) *fallback.Provider {
	t.Helper()
	return fallback.NewProvider(openStore(t, kv.NewMemory()))
}

/*
TestProvider_Campaigns maps local campaigns onto the remote shape.
*/
func TestProvider_Campaigns(t *testing.T) {
	provider := newProvider(t)
	ctx := context.Background()

	campaigns, err := provider.ListCampaigns(ctx)
	require.NoError(t, err)
	require.Len(t, campaigns, 4)

	math := campaigns[0]
	assert.True(t, math.IsActive)
	assert.Equal(t, resource.LanguageEnglish, math.Language)
	require.NotNil(t, math.QuestionCount)
	assert.Equal(t, 2, *math.QuestionCount)
	assert.False(t, campaigns[2].IsActive, "drafts are inactive")

	created, err := provider.CreateCampaign(ctx, resource.CampaignInput{Name: "ألغاز", Language: resource.LanguageArabic})
	require.NoError(t, err)
	assert.Equal(t, "draft", created.Status)
	assert.Equal(t, resource.LanguageArabic, created.Language)
	assert.Equal(t, 0, *created.QuestionCount)
}

/*
TestProvider_Riddles round-trips a riddle through every operation.
*/
func TestProvider_Riddles(t *testing.T) {
	provider := newProvider(t)
	ctx := context.Background()

	input := resource.RiddleInput{
		Question:       "What gets wetter the more it dries?",
		Answer:         "A towel that soaks water",
		IsAnswerStatic: false,
		StartDate:      resource.Timestamp{Time: now.Add(time.Hour)},
		EndDate:        resource.Timestamp{Time: now.Add(2 * time.Hour)},
	}

	created, err := provider.CreateRiddle(ctx, "3", input)
	require.NoError(t, err)
	assert.Equal(t, "3", created.CampaignID)
	assert.Equal(t, resource.AnswerAIValidated, created.AnswerType())

	input.IsAnswerStatic = true
	input.Answer = "towel"
	updated, err := provider.UpdateRiddle(ctx, created.ID, input)
	require.NoError(t, err)
	assert.True(t, updated.IsAnswerStatic)

	riddles, err := provider.ListRiddles(ctx, "3")
	require.NoError(t, err)
	require.Len(t, riddles, 1)
	assert.Equal(t, "towel", riddles[0].Answer)

	require.NoError(t, provider.DeleteRiddle(ctx, created.ID))
	riddles, err = provider.ListRiddles(ctx, "3")
	require.NoError(t, err)
	assert.Empty(t, riddles)
}

/*
TestProvider_NotFound reports missing campaigns and riddles as 404s.
*/
func TestProvider_NotFound(t *testing.T) {
	provider := newProvider(t)
	ctx := context.Background()

	_, err := provider.ListRiddles(ctx, "missing")
	assert.Equal(t, "Campaign not found", err.Error())

	_, err = provider.CreateRiddle(ctx, "missing", resource.RiddleInput{})
	assert.True(t, apperr.HasCode(err, "NOT_FOUND"))

	err = provider.DeleteRiddle(ctx, "missing")
	assert.Equal(t, "Riddle not found", err.Error())

	_, err = provider.Leaderboard(ctx, "missing", 10)
	assert.True(t, apperr.HasCode(err, "NOT_FOUND"))
}

/*
TestProvider_Leaderboard truncates to the limit after ranking.
*/
func TestProvider_Leaderboard(t *testing.T) {
	provider := newProvider(t)

	entries, err := provider.Leaderboard(context.Background(), "4", 1)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "BlockchainPro", entries[0].Username)
	assert.Equal(t, 100, entries[0].Score)
}
