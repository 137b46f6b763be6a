// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package resource_test

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/riddlerush/internal/platform/apperr"
	"github.com/taibuivan/riddlerush/internal/resource"
)

func fieldErrors(t *testing.T, err error) map[string]string {
	t.Helper()
	if err == nil {
		return nil
	}
	ae := apperr.As(err)
	require.NotNil(t, ae)
	require.Equal(t, "VALIDATION_ERROR", ae.Code)

	out := make(map[string]string)
	for _, d := range ae.Details {
		if _, seen := out[d.Field]; !seen {
			out[d.Field] = d.Message
		}
	}
	return out
}

/*
TestValidateCampaign covers the campaign form rules.
*/
func TestValidateCampaign(t *testing.T) {
	valid := resource.CampaignInput{Name: "Math Riddles", Language: resource.LanguageEnglish}

	tests := []struct {
		name   string
		mutate func(*resource.CampaignInput)
		field  string
		msg    string
	}{
		{"valid", func(*resource.CampaignInput) {}, "", ""},
		{"arabic", func(in *resource.CampaignInput) { in.Language = resource.LanguageArabic }, "", ""},
		{"missing name", func(in *resource.CampaignInput) { in.Name = "  " }, "name", "Campaign name is required"},
		{"short name", func(in *resource.CampaignInput) { in.Name = "ab" }, "name", "Campaign name must be at least 3 characters"},
		{"long name", func(in *resource.CampaignInput) { in.Name = strings.Repeat("a", 51) }, "name", "Campaign name must be less than 50 characters"},
		{"long description", func(in *resource.CampaignInput) { in.Description = strings.Repeat("d", 501) }, "description", "Description must be less than 500 characters"},
		{"no language", func(in *resource.CampaignInput) { in.Language = "" }, "language", "Please select a language"},
		{"unsupported language", func(in *resource.CampaignInput) { in.Language = "fr" }, "language", "Please select a language"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			input := valid
			tt.mutate(&input)

			errs := fieldErrors(t, resource.ValidateCampaign(input))
			if tt.field == "" {
				assert.Empty(t, errs)
				return
			}
			assert.Equal(t, tt.msg, errs[tt.field])
		})
	}
}

/*
TestValidateRiddle covers the riddle form rules, including the cross-field ones.
*/
func TestValidateRiddle(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	valid := resource.RiddleInput{
		Question:       "What has keys but no locks?",
		Answer:         "keyboard",
		IsAnswerStatic: true,
		StartDate:      resource.Timestamp{Time: now.Add(time.Hour)},
		EndDate:        resource.Timestamp{Time: now.Add(2 * time.Hour)},
	}

	tests := []struct {
		name   string
		mutate func(*resource.RiddleInput)
		field  string
		msg    string
	}{
		{"valid", func(*resource.RiddleInput) {}, "", ""},
		{"missing question", func(in *resource.RiddleInput) { in.Question = "" }, "question", "Question is required"},
		{"short question", func(in *resource.RiddleInput) { in.Question = "Why?" }, "question", "Question must be at least 10 characters"},
		{"long question", func(in *resource.RiddleInput) { in.Question = strings.Repeat("q", 501) }, "question", "Question must be less than 500 characters"},
		{"missing answer", func(in *resource.RiddleInput) { in.Answer = "" }, "answer", "Answer is required"},
		{"static answer too long", func(in *resource.RiddleInput) { in.Answer = strings.Repeat("a", 101) }, "answer", "Answer length is invalid for the selected type"},
		{"ai answer too short", func(in *resource.RiddleInput) { in.IsAnswerStatic = false; in.Answer = "fire" }, "answer", "Answer length is invalid for the selected type"},
		{"ai answer ok", func(in *resource.RiddleInput) { in.IsAnswerStatic = false; in.Answer = "Something that burns" }, "", ""},
		{"missing start", func(in *resource.RiddleInput) { in.StartDate = resource.Timestamp{} }, "start_date", "Start time is required"},
		{"missing end", func(in *resource.RiddleInput) { in.EndDate = resource.Timestamp{} }, "end_date", "End time is required"},
		{"end before start", func(in *resource.RiddleInput) { in.EndDate = in.StartDate }, "end_date", "End time must be after start time"},
		{"start in past", func(in *resource.RiddleInput) { in.StartDate = resource.Timestamp{Time: now.Add(-time.Second)} }, "start_date", "Start time must be in the future"},
		{"start now", func(in *resource.RiddleInput) { in.StartDate = resource.Timestamp{Time: now} }, "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			input := valid
			tt.mutate(&input)

			errs := fieldErrors(t, resource.ValidateRiddle(input, now))
			if tt.field == "" {
				assert.Empty(t, errs)
				return
			}
			assert.Equal(t, tt.msg, errs[tt.field])
		})
	}
}
