// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package web

import (
	"fmt"
	"html/template"
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/language/display"

	"github.com/taibuivan/riddlerush/internal/identity"
	"github.com/taibuivan/riddlerush/internal/resource"
	"github.com/taibuivan/riddlerush/pkg/pointer"
)

var titleCase = cases.Title(language.English)

// FormatDate renders t as "15 Jan 2024".
func FormatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format("2 Jan 2006")
}

// FormatTime renders a duration in seconds as m:ss.
func FormatTime(seconds int) string {
	return fmt.Sprintf("%d:%02d", seconds/60, seconds%60)
}

// RankIcon is the medal for the first three places and "#n" after.
func RankIcon(index int) string {
	switch index {
	case 0:
		return "🥇"
	case 1:
		return "🥈"
	case 2:
		return "🥉"
	default:
		return fmt.Sprintf("#%d", index+1)
	}
}

// ScoreTier buckets a score for styling.
func ScoreTier(score int) string {
	switch {
	case score >= 95:
		return "score-gold"
	case score >= 85:
		return "score-green"
	case score >= 70:
		return "score-blue"
	default:
		return "score-muted"
	}
}

// StatusClass maps campaign and riddle statuses onto badge styles.
func StatusClass(status any) string {
	switch fmt.Sprint(status) {
	case "active":
		return "badge-green"
	case "completed", "ended":
		return "badge-blue"
	case "draft", "upcoming":
		return "badge-yellow"
	default:
		return "badge-gray"
	}
}

// RoleTitle renders a role for display, e.g. "regular" as "Regular".
func RoleTitle(role identity.Role) string {
	return titleCase.String(string(role))
}

// LanguageName names a campaign language in that language.
func LanguageName(lang resource.Language) string {
	tag, err := language.Parse(string(lang))
	if err != nil {
		return strings.ToUpper(string(lang))
	}
	if name := display.Self.Name(tag); name != "" {
		return name
	}
	return strings.ToUpper(string(lang))
}

// datetimeLocal formats t for an <input type="datetime-local">. The page
// script rewrites it into the browser's zone from the instant attribute.
func datetimeLocal(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format("2006-01-02T15:04")
}

// instant formats t as RFC 3339 in UTC.
func instant(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}

var funcs = template.FuncMap{
	"formatDate":    FormatDate,
	"instant":       instant,
	"formatTime":    FormatTime,
	"rankIcon":      RankIcon,
	"scoreTier":     ScoreTier,
	"statusClass":   StatusClass,
	"roleTitle":     RoleTitle,
	"languageName":  LanguageName,
	"datetimeLocal": datetimeLocal,
	"upper":         strings.ToUpper,
	"deref":         pointer.Val[int],
	"inc":           func(i int) int { return i + 1 },
}
