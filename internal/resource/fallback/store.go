// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package fallback

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/taibuivan/riddlerush/internal/platform/constants"
	"github.com/taibuivan/riddlerush/internal/platform/kv"
	"github.com/taibuivan/riddlerush/internal/resource"
	"github.com/taibuivan/riddlerush/pkg/pointer"
)

var (
	ErrCampaignNotFound = errors.New("fallback: campaign not found")
	ErrQuestionNotFound = errors.New("fallback: question not found")
	ErrInvalidViewMode  = errors.New("fallback: invalid view mode")
)

// Store is the local aggregate. All methods are safe for concurrent use.
type Store struct {
	mu   sync.Mutex
	data Snapshot

	storage kv.Store
	logger  *slog.Logger
	now     func() time.Time
	newID   func() string
}

// Option customises a [Store].
type Option func(*Store)

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// WithLogger overrides the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Store) { s.logger = logger }
}

// Open loads the snapshot from storage. A missing snapshot is seeded and
// written; an unreadable one is logged and replaced by the seed.
func Open(ctx context.Context, storage kv.Store, opts ...Option) (*Store, error) {
	s := &Store{
		storage: storage,
		logger:  slog.Default(),
		now:     time.Now,
		newID:   func() string { return uuid.Must(uuid.NewV7()).String() },
	}
	for _, opt := range opts {
		opt(s)
	}

	var snapshot Snapshot
	err := kv.GetJSON(ctx, storage, constants.StorageKeyFallback, &snapshot)
	switch {
	case err == nil:
		s.data = snapshot
		s.logger.InfoContext(ctx, "fallback_store_loaded",
			slog.Int("campaigns", len(snapshot.Campaigns)),
			slog.Int("questions", len(snapshot.Questions)),
		)
		return s, nil

	case errors.Is(err, kv.ErrNotFound):
		s.logger.InfoContext(ctx, "fallback_store_seeded")

	case errors.Is(err, kv.ErrCorrupt):
		s.logger.WarnContext(ctx, "fallback_store_corrupt_reseeded", slog.Any("error", err))

	default:
		return nil, fmt.Errorf("fallback: load snapshot: %w", err)
	}

	seed := Seed()
	if err := s.save(ctx, seed); err != nil {
		return nil, err
	}
	s.data = seed
	return s, nil
}

// # Campaigns

// Campaigns returns every campaign in insertion order.
func (s *Store) Campaigns() []Campaign {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.data.Campaigns)
}

// Campaign returns one campaign.
func (s *Store) Campaign(id string) (Campaign, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.campaignIndex(id)
	if i < 0 {
		return Campaign{}, ErrCampaignNotFound
	}
	return s.data.Campaigns[i], nil
}

// AddCampaign stores a new campaign with no questions.
func (s *Store) AddCampaign(ctx context.Context, input CampaignData) (Campaign, error) {
	campaign := Campaign{
		ID:          s.newID(),
		Name:        input.Name,
		CreatedAt:   resource.Timestamp{Time: s.now().UTC()},
		Status:      cmp.Or(input.Status, CampaignDraft),
		Description: input.Description,
		Language:    input.Language,
	}

	err := s.mutate(ctx, func(next *Snapshot) error {
		next.Campaigns = append(next.Campaigns, campaign)
		return nil
	})
	return campaign, err
}

// UpdateCampaign applies patch to a campaign.
func (s *Store) UpdateCampaign(ctx context.Context, id string, patch CampaignPatch) (Campaign, error) {
	var updated Campaign
	err := s.mutate(ctx, func(next *Snapshot) error {
		i := slices.IndexFunc(next.Campaigns, func(c Campaign) bool { return c.ID == id })
		if i < 0 {
			return ErrCampaignNotFound
		}

		c := &next.Campaigns[i]
		pointer.Assign(&c.Name, patch.Name)
		pointer.Assign(&c.Description, patch.Description)
		pointer.Assign(&c.Language, patch.Language)
		pointer.Assign(&c.Status, patch.Status)
		updated = *c
		return nil
	})
	return updated, err
}

// DeleteCampaign removes a campaign with its questions and results.
func (s *Store) DeleteCampaign(ctx context.Context, id string) error {
	return s.mutate(ctx, func(next *Snapshot) error {
		before := len(next.Campaigns)
		next.Campaigns = slices.DeleteFunc(next.Campaigns, func(c Campaign) bool { return c.ID == id })
		if len(next.Campaigns) == before {
			return ErrCampaignNotFound
		}

		next.Questions = slices.DeleteFunc(next.Questions, func(q Question) bool { return q.CampaignID == id })
		next.Leaderboard = slices.DeleteFunc(next.Leaderboard, func(e LeaderboardEntry) bool { return e.CampaignID == id })
		return nil
	})
}

// # Questions

// CampaignQuestions returns the questions of one campaign.
func (s *Store) CampaignQuestions(campaignID string) []Question {
	s.mu.Lock()
	defer s.mu.Unlock()

	var questions []Question
	for _, q := range s.data.Questions {
		if q.CampaignID == campaignID {
			questions = append(questions, q)
		}
	}
	return questions
}

// AddQuestion stores a question and counts it on its campaign. The status is
// upcoming when the window starts later than now, active otherwise.
func (s *Store) AddQuestion(ctx context.Context, input QuestionData) (Question, error) {
	question := Question{
		ID:         s.newID(),
		CampaignID: input.CampaignID,
		Question:   input.Question,
		AnswerType: input.AnswerType,
		Answer:     input.Answer,
		StartTime:  input.StartTime,
		EndTime:    input.EndTime,
		Status:     s.initialStatus(input.StartTime),
	}

	err := s.mutate(ctx, func(next *Snapshot) error {
		i := slices.IndexFunc(next.Campaigns, func(c Campaign) bool { return c.ID == input.CampaignID })
		if i < 0 {
			return ErrCampaignNotFound
		}

		next.Questions = append(next.Questions, question)
		next.Campaigns[i].QuestionCount++
		return nil
	})
	return question, err
}

// UpdateQuestion applies patch to a question. Moving the start recomputes the
// status the way AddQuestion does.
func (s *Store) UpdateQuestion(ctx context.Context, id string, patch QuestionPatch) (Question, error) {
	var updated Question
	err := s.mutate(ctx, func(next *Snapshot) error {
		i := slices.IndexFunc(next.Questions, func(q Question) bool { return q.ID == id })
		if i < 0 {
			return ErrQuestionNotFound
		}

		q := &next.Questions[i]
		pointer.Assign(&q.Question, patch.Question)
		pointer.Assign(&q.AnswerType, patch.AnswerType)
		pointer.Assign(&q.Answer, patch.Answer)
		pointer.Assign(&q.EndTime, patch.EndTime)
		if patch.StartTime != nil && !patch.StartTime.Equal(q.StartTime.Time) {
			q.StartTime = *patch.StartTime
			q.Status = s.initialStatus(q.StartTime)
		}
		updated = *q
		return nil
	})
	return updated, err
}

// DeleteQuestion removes a question. The campaign's count never drops below zero.
func (s *Store) DeleteQuestion(ctx context.Context, id string) (Question, error) {
	var removed Question
	err := s.mutate(ctx, func(next *Snapshot) error {
		i := slices.IndexFunc(next.Questions, func(q Question) bool { return q.ID == id })
		if i < 0 {
			return ErrQuestionNotFound
		}
		removed = next.Questions[i]
		next.Questions = slices.Delete(next.Questions, i, i+1)

		if c := slices.IndexFunc(next.Campaigns, func(c Campaign) bool { return c.ID == removed.CampaignID }); c >= 0 {
			next.Campaigns[c].QuestionCount = max(0, next.Campaigns[c].QuestionCount-1)
		}
		return nil
	})
	return removed, err
}

// # Leaderboard

// AddLeaderboardEntry records a result. The entry's id is assigned here.
func (s *Store) AddLeaderboardEntry(ctx context.Context, entry LeaderboardEntry) (LeaderboardEntry, error) {
	entry.ID = s.newID()
	err := s.mutate(ctx, func(next *Snapshot) error {
		next.Leaderboard = append(next.Leaderboard, entry)
		return nil
	})
	return entry, err
}

// CampaignLeaderboard ranks a campaign's results by score, then by the
// shorter time spent.
func (s *Store) CampaignLeaderboard(campaignID string) []LeaderboardEntry {
	s.mu.Lock()
	var entries []LeaderboardEntry
	for _, e := range s.data.Leaderboard {
		if e.CampaignID == campaignID {
			entries = append(entries, e)
		}
	}
	s.mu.Unlock()

	slices.SortStableFunc(entries, func(a, b LeaderboardEntry) int {
		return cmp.Or(cmp.Compare(b.Score, a.Score), cmp.Compare(a.TimeSpent, b.TimeSpent))
	})
	return entries
}

// # View Mode

// ViewMode returns the remembered campaign list layout.
func (s *Store) ViewMode() ViewMode {
	s.mu.Lock()
	defer s.mu.Unlock()
	return cmp.Or(s.data.ViewMode, ViewGrid)
}

// SetViewMode remembers the campaign list layout.
func (s *Store) SetViewMode(ctx context.Context, mode ViewMode) error {
	if mode != ViewGrid && mode != ViewList {
		return ErrInvalidViewMode
	}
	return s.mutate(ctx, func(next *Snapshot) error {
		next.ViewMode = mode
		return nil
	})
}

// # Internals

// mutate applies change to a copy of the aggregate, persists the copy and
// only then installs it. A failed change or save leaves the store untouched.
func (s *Store) mutate(ctx context.Context, change func(next *Snapshot) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.data.clone()
	if err := change(&next); err != nil {
		return err
	}
	if err := s.save(ctx, next); err != nil {
		return err
	}
	s.data = next
	return nil
}

func (s *Store) save(ctx context.Context, snapshot Snapshot) error {
	if err := kv.SetJSON(ctx, s.storage, constants.StorageKeyFallback, snapshot, 0); err != nil {
		return fmt.Errorf("fallback: save snapshot: %w", err)
	}
	return nil
}

func (s *Store) campaignIndex(id string) int {
	return slices.IndexFunc(s.data.Campaigns, func(c Campaign) bool { return c.ID == id })
}

func (s *Store) initialStatus(start resource.Timestamp) resource.RiddleStatus {
	if start.After(s.now()) {
		return resource.StatusUpcoming
	}
	return resource.StatusActive
}
