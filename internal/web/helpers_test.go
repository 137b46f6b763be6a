// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package web_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/taibuivan/riddlerush/internal/identity"
	"github.com/taibuivan/riddlerush/internal/resource"
	"github.com/taibuivan/riddlerush/internal/web"
)

func TestFormatDate(t *testing.T) {
	assert.Equal(t, "15 Jan 2024", web.FormatDate(time.Date(2024, 1, 15, 9, 30, 0, 0, time.UTC)))
	assert.Equal(t, "3 Dec 2025", web.FormatDate(time.Date(2025, 12, 3, 0, 0, 0, 0, time.UTC)))
	assert.Empty(t, web.FormatDate(time.Time{}))
}

func TestFormatTime(t *testing.T) {
	assert.Equal(t, "3:00", web.FormatTime(180))
	assert.Equal(t, "2:05", web.FormatTime(125))
	assert.Equal(t, "0:09", web.FormatTime(9))
}

func TestRankIcon(t *testing.T) {
	assert.Equal(t, "🥇", web.RankIcon(0))
	assert.Equal(t, "🥈", web.RankIcon(1))
	assert.Equal(t, "🥉", web.RankIcon(2))
	assert.Equal(t, "#4", web.RankIcon(3))
}

func TestScoreTier(t *testing.T) {
	tests := map[int]string{100: "score-gold", 95: "score-gold", 94: "score-green", 85: "score-green", 70: "score-blue", 69: "score-muted"}
	for score, want := range tests {
		assert.Equal(t, want, web.ScoreTier(score), score)
	}
}

func TestStatusClass(t *testing.T) {
	assert.Equal(t, "badge-green", web.StatusClass(resource.StatusActive))
	assert.Equal(t, "badge-blue", web.StatusClass("completed"))
	assert.Equal(t, "badge-blue", web.StatusClass(resource.StatusEnded))
	assert.Equal(t, "badge-yellow", web.StatusClass(resource.StatusUpcoming))
	assert.Equal(t, "badge-gray", web.StatusClass("archived"))
}

func TestRoleTitle(t *testing.T) {
	assert.Equal(t, "Admin", web.RoleTitle(identity.RoleAdmin))
	assert.Equal(t, "Regular", web.RoleTitle(identity.RoleRegular))
}

func TestLanguageName(t *testing.T) {
	assert.Equal(t, "English", web.LanguageName(resource.LanguageEnglish))
	assert.Equal(t, "العربية", web.LanguageName(resource.LanguageArabic))
	assert.Equal(t, "??", web.LanguageName("??"))
}
