// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package resource

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/riddlerush/internal/notify"
	"github.com/taibuivan/riddlerush/internal/platform/constants"
	"github.com/taibuivan/riddlerush/internal/platform/ctxutil"
	requestutil "github.com/taibuivan/riddlerush/internal/platform/request"
	"github.com/taibuivan/riddlerush/internal/platform/respond"
)

// RiddleView is a riddle with its status resolved against the clock.
type RiddleView struct {
	Riddle
	AnswerType AnswerType   `json:"answer_type"`
	Status     RiddleStatus `json:"status"`
}

// NewRiddleViews resolves riddles at now.
func NewRiddleViews(riddles []Riddle, now time.Time) []RiddleView {
	views := make([]RiddleView, len(riddles))
	for i, r := range riddles {
		views[i] = RiddleView{Riddle: r, AnswerType: r.AnswerType(), Status: r.StatusAt(now)}
	}
	return views
}

// NotifierFunc finds the notifier of the browser behind ctx, or nil.
type NotifierFunc func(ctx context.Context) notify.Notifier

// Handler serves the campaign, riddle and leaderboard JSON API.
type Handler struct {
	service   *Service
	notifiers NotifierFunc
}

// NewHandler creates the API handler. notifiers may be nil.
func NewHandler(service *Service, notifiers NotifierFunc) *Handler {
	return &Handler{service: service, notifiers: notifiers}
}

// RegisterRoutes mounts the API on router. Access control is the caller's.
func (handler *Handler) RegisterRoutes(router chi.Router) {
	router.Route("/campaigns", func(r chi.Router) {
		r.Get("/", handler.listCampaigns)
		r.Post("/", handler.createCampaign)
		r.Get("/{id}", handler.getCampaign)
		r.Get("/{id}/riddles", handler.listRiddles)
		r.Post("/{id}/riddles", handler.createRiddle)
		r.Get("/{id}/leaderboard", handler.leaderboard)
	})

	router.Put("/riddles/{id}", handler.updateRiddle)
	router.Delete("/riddles/{id}", handler.deleteRiddle)
}

// # Campaigns

func (handler *Handler) listCampaigns(writer http.ResponseWriter, request *http.Request) {
	campaigns, err := handler.service.Campaigns(request.Context())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, campaigns)
}

func (handler *Handler) getCampaign(writer http.ResponseWriter, request *http.Request) {
	campaign, err := handler.service.Campaign(request.Context(), requestutil.Param(request, "id"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, campaign)
}

func (handler *Handler) createCampaign(writer http.ResponseWriter, request *http.Request) {
	var input CampaignInput
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	campaign, err := handler.service.CreateCampaign(request.Context(), input)
	if err != nil {
		handler.notify(request.Context(), Failed("Error creating campaign", err))
		respond.Error(writer, request, err)
		return
	}

	handler.notify(request.Context(), CampaignCreated(campaign.Name))
	respond.Created(writer, campaign)
}

// # Riddles

func (handler *Handler) listRiddles(writer http.ResponseWriter, request *http.Request) {
	riddles, err := handler.service.Riddles(request.Context(), requestutil.Param(request, "id"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, NewRiddleViews(riddles, handler.service.Now()))
}

func (handler *Handler) createRiddle(writer http.ResponseWriter, request *http.Request) {
	var input RiddleInput
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	riddle, err := handler.service.CreateRiddle(request.Context(), requestutil.Param(request, "id"), input)
	if err != nil {
		handler.notify(request.Context(), Failed("Error creating riddle", err))
		respond.Error(writer, request, err)
		return
	}

	handler.notify(request.Context(), RiddleSaved(true))
	respond.Created(writer, NewRiddleViews([]Riddle{*riddle}, handler.service.Now())[0])
}

func (handler *Handler) updateRiddle(writer http.ResponseWriter, request *http.Request) {
	var input RiddleInput
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	riddle, err := handler.service.UpdateRiddle(request.Context(), requestutil.Param(request, "id"), input)
	if err != nil {
		handler.notify(request.Context(), Failed("Error updating riddle", err))
		respond.Error(writer, request, err)
		return
	}

	handler.notify(request.Context(), RiddleSaved(false))
	respond.OK(writer, NewRiddleViews([]Riddle{*riddle}, handler.service.Now())[0])
}

func (handler *Handler) deleteRiddle(writer http.ResponseWriter, request *http.Request) {
	if err := handler.service.DeleteRiddle(request.Context(), requestutil.Param(request, "id")); err != nil {
		handler.notify(request.Context(), Failed("Error deleting riddle", err))
		respond.Error(writer, request, err)
		return
	}

	handler.notify(request.Context(), RiddleDeleted())
	respond.NoContent(writer)
}

// # Leaderboard

func (handler *Handler) leaderboard(writer http.ResponseWriter, request *http.Request) {
	limit := requestutil.QueryInt(request, "limit", constants.LeaderboardLimit)

	entries, err := handler.service.Leaderboard(request.Context(), requestutil.Param(request, "id"), limit)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, entries)
}

func (handler *Handler) notify(ctx context.Context, notification notify.Notification) {
	if handler.notifiers == nil {
		return
	}
	notifier := handler.notifiers(ctx)
	if notifier == nil {
		return
	}
	if err := notifier.Push(ctx, notification); err != nil {
		ctxutil.GetLogger(ctx).ErrorContext(ctx, "notification_push_failed", slog.Any("error", err))
	}
}
