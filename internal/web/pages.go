// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package web

import (
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/taibuivan/riddlerush/internal/platform/apperr"
	"github.com/taibuivan/riddlerush/internal/platform/constants"
	requestutil "github.com/taibuivan/riddlerush/internal/platform/request"
	"github.com/taibuivan/riddlerush/internal/resource"
	"github.com/taibuivan/riddlerush/internal/resource/fallback"
	"github.com/taibuivan/riddlerush/pkg/fold"
	"github.com/taibuivan/riddlerush/pkg/slice"
)

// # Login

type loginContent struct {
	BotName string
}

func (h *Handler) loginPage(writer http.ResponseWriter, request *http.Request) {
	h.render(writer, request, http.StatusOK, "login", "Sign in", loginContent{BotName: h.botName})
}

// loadingPage stands in for any page while the session is not settled yet.
// It reloads itself once the session watch reports a settled state.
func (h *Handler) loadingPage(writer http.ResponseWriter, request *http.Request) {
	h.render(writer, request, http.StatusOK, "loading", "Loading", nil)
}

// # Campaigns

type homeContent struct {
	Campaigns []resource.Campaign
	Query     string
	ViewMode  fallback.ViewMode
	LoadError string
	Languages []resource.Language
}

func (h *Handler) homePage(writer http.ResponseWriter, request *http.Request) {
	content := homeContent{
		Query:     strings.TrimSpace(request.URL.Query().Get("q")),
		ViewMode:  h.viewMode(request),
		Languages: []resource.Language{resource.LanguageEnglish, resource.LanguageArabic},
	}

	campaigns, err := h.service.Campaigns(request.Context())
	if err != nil {
		content.LoadError = "Failed to load campaigns"
	} else {
		content.Campaigns = filterCampaigns(campaigns, content.Query)
	}

	h.render(writer, request, http.StatusOK, "home", "Campaigns", content)
}

func filterCampaigns(campaigns []resource.Campaign, query string) []resource.Campaign {
	if query == "" {
		return campaigns
	}
	return slice.Filter(campaigns, func(c resource.Campaign) bool {
		return fold.Contains(c.Name, query)
	})
}

func (h *Handler) viewMode(request *http.Request) fallback.ViewMode {
	switch mode := fallback.ViewMode(request.URL.Query().Get("view")); mode {
	case fallback.ViewGrid, fallback.ViewList:
		return mode
	}
	if h.views != nil {
		return h.views.ViewMode()
	}
	return fallback.ViewGrid
}

func (h *Handler) setView(writer http.ResponseWriter, request *http.Request) {
	mode := fallback.ViewMode(request.FormValue("view"))

	if h.views == nil {
		seeOther(writer, request, constants.PathHome+"?view="+url.QueryEscape(string(mode)))
		return
	}
	if err := h.views.SetViewMode(request.Context(), mode); err != nil {
		h.notify(request.Context(), resource.Failed("Error changing view", apperr.ValidationError("Unknown view mode").WithCause(err)))
	}
	seeOther(writer, request, constants.PathHome)
}

func (h *Handler) createCampaign(writer http.ResponseWriter, request *http.Request) {
	ctx := request.Context()

	input := resource.CampaignInput{
		Name:        request.FormValue("name"),
		Description: request.FormValue("description"),
		Language:    resource.Language(request.FormValue("language")),
		IsActive:    request.FormValue("is_active") != "",
	}

	campaign, err := h.service.CreateCampaign(ctx, input)
	if err != nil {
		h.notify(ctx, resource.Failed("Error creating campaign", err))
		seeOther(writer, request, constants.PathHome)
		return
	}

	h.notify(ctx, resource.CampaignCreated(campaign.Name))
	seeOther(writer, request, campaignPath(campaign.ID))
}

// # Campaign Detail

type campaignContent struct {
	Campaign         resource.Campaign
	Riddles          []resource.RiddleView
	RiddlesError     string
	Leaderboard      []resource.LeaderboardEntry
	LeaderboardError string
}

func (h *Handler) campaignPage(writer http.ResponseWriter, request *http.Request) {
	ctx := request.Context()
	campaignID := requestutil.Param(request, "id")

	campaign, err := h.service.Campaign(ctx, campaignID)
	if err != nil {
		h.renderError(writer, request, err)
		return
	}

	content := campaignContent{Campaign: *campaign}

	riddles, err := h.service.Riddles(ctx, campaignID)
	if err != nil {
		content.RiddlesError = "Failed to load questions"
	} else {
		content.Riddles = resource.NewRiddleViews(riddles, h.service.Now())
	}

	entries, err := h.service.Leaderboard(ctx, campaignID, constants.LeaderboardLimit)
	if err != nil {
		content.LeaderboardError = "Failed to load leaderboard"
	} else {
		content.Leaderboard = entries
	}

	h.render(writer, request, http.StatusOK, "campaign", campaign.Name, content)
}

// # Riddles

func (h *Handler) createRiddle(writer http.ResponseWriter, request *http.Request) {
	ctx := request.Context()
	campaignID := requestutil.Param(request, "id")

	if _, err := h.service.CreateRiddle(ctx, campaignID, riddleFromForm(request)); err != nil {
		h.notify(ctx, resource.Failed("Error creating riddle", err))
	} else {
		h.notify(ctx, resource.RiddleSaved(true))
	}
	seeOther(writer, request, campaignPath(campaignID))
}

func (h *Handler) updateRiddle(writer http.ResponseWriter, request *http.Request) {
	ctx := request.Context()

	if _, err := h.service.UpdateRiddle(ctx, requestutil.Param(request, "id"), riddleFromForm(request)); err != nil {
		h.notify(ctx, resource.Failed("Error updating riddle", err))
	} else {
		h.notify(ctx, resource.RiddleSaved(false))
	}
	seeOther(writer, request, returnPath(request))
}

func (h *Handler) deleteRiddle(writer http.ResponseWriter, request *http.Request) {
	ctx := request.Context()

	if err := h.service.DeleteRiddle(ctx, requestutil.Param(request, "id")); err != nil {
		h.notify(ctx, resource.Failed("Error deleting riddle", err))
	} else {
		h.notify(ctx, resource.RiddleDeleted())
	}
	seeOther(writer, request, returnPath(request))
}

// riddleFromForm reads the riddle form. Times that do not parse are left
// empty so validation reports them as missing.
func riddleFromForm(request *http.Request) resource.RiddleInput {
	input := resource.RiddleInput{
		Question:       request.FormValue("question"),
		Answer:         request.FormValue("answer"),
		IsAnswerStatic: resource.AnswerType(request.FormValue("answer_type")) != resource.AnswerAIValidated,
	}
	if start, ok := formTime(request, "start_time"); ok {
		input.StartDate = start
	}
	if end, ok := formTime(request, "end_time"); ok {
		input.EndDate = end
	}
	return input
}

// maxZoneOffset bounds browser offsets; real zones stay within ±14h.
const maxZoneOffset = 14 * 60

// formTime reads a datetime-local field. The page script posts the
// browser's offset for that instant in "<field>_offset", in minutes as
// Date.getTimezoneOffset reports it (UTC minus local). Without it the
// value is read as UTC, matching how datetimeLocal renders it.
func formTime(request *http.Request, field string) (resource.Timestamp, bool) {
	loc := time.UTC
	if raw := request.FormValue(field + "_offset"); raw != "" {
		if offset, err := strconv.Atoi(raw); err == nil && offset >= -maxZoneOffset && offset <= maxZoneOffset {
			loc = time.FixedZone("", -offset*60)
		}
	}

	ts, err := resource.ParseTimestampIn(request.FormValue(field), loc)
	if err != nil {
		return resource.Timestamp{}, false
	}
	return resource.Timestamp{Time: ts.UTC()}, true
}

// # Errors

type errorContent struct {
	Heading string
	Message string
}

func (h *Handler) renderError(writer http.ResponseWriter, request *http.Request, err error) {
	ae := apperr.As(err)
	if ae == nil {
		ae = apperr.Internal(err)
	}

	content := errorContent{Heading: "Something went wrong", Message: "Something went wrong. Please try again."}
	if ae.HTTPStatus == http.StatusNotFound {
		content = errorContent{Heading: ae.Message, Message: "It may have been removed."}
	} else if ae.Code == apperr.CodeUpstream {
		content.Message = ae.Message
	}

	h.render(writer, request, ae.HTTPStatus, "error", content.Heading, content)
}

// # Paths

func campaignPath(id string) string {
	return "/campaign/" + url.PathEscape(id)
}

// returnPath sends riddle forms back to their campaign, falling back to home.
func returnPath(request *http.Request) string {
	if campaignID := request.FormValue("campaign_id"); campaignID != "" {
		return campaignPath(campaignID)
	}
	return constants.PathHome
}
