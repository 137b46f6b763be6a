// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package resource

import (
	"time"
	"unicode/utf8"

	"golang.org/x/text/language"

	"github.com/taibuivan/riddlerush/internal/platform/validate"
)

// SupportedLanguages lists the campaign languages in display order.
var SupportedLanguages = []language.Tag{language.English, language.Arabic}

// ValidateCampaign checks a campaign before it is created.
func ValidateCampaign(input CampaignInput) error {
	v := &validate.Validator{}

	v.Required("name", input.Name, "Campaign name is required")
	if !v.Has("name") {
		v.MinLen("name", input.Name, 3, "Campaign name must be at least 3 characters").
			MaxLen("name", input.Name, 50, "Campaign name must be less than 50 characters")
	}
	v.MaxLen("description", input.Description, 500, "Description must be less than 500 characters")
	v.Language("language", string(input.Language), "Please select a language", SupportedLanguages...)

	return v.Err()
}

// answerBounds are the inclusive answer lengths per answer type.
var answerBounds = map[bool][2]int{
	true:  {1, 100},
	false: {10, 300},
}

// ValidateRiddle checks a riddle before it is created or updated. The
// window must lie ahead of now.
func ValidateRiddle(input RiddleInput, now time.Time) error {
	v := &validate.Validator{}

	v.Required("question", input.Question, "Question is required")
	if !v.Has("question") {
		v.MinLen("question", input.Question, 10, "Question must be at least 10 characters").
			MaxLen("question", input.Question, 500, "Question must be less than 500 characters")
	}

	v.Required("answer", input.Answer, "Answer is required")
	if !v.Has("answer") {
		bounds := answerBounds[input.IsAnswerStatic]
		n := utf8.RuneCountInString(input.Answer)
		v.Custom("answer", n < bounds[0] || n > bounds[1], "Answer length is invalid for the selected type")
	}

	v.Custom("start_date", input.StartDate.IsZero(), "Start time is required")
	v.Custom("end_date", input.EndDate.IsZero(), "End time is required")
	v.After("end_date", input.EndDate.Time, input.StartDate.Time, "End time must be after start time")
	v.Custom("start_date", !input.StartDate.IsZero() && input.StartDate.Before(now), "Start time must be in the future")

	return v.Err()
}
