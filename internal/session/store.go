// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package session

import (
	"context"
	"errors"
	"log/slog"
	"strconv"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/taibuivan/riddlerush/internal/identity"
	"github.com/taibuivan/riddlerush/internal/notify"
	"github.com/taibuivan/riddlerush/internal/platform/constants"
	"github.com/taibuivan/riddlerush/internal/platform/kv"
)

var (
	// ErrClosed is returned by Login on a store that has been evicted.
	ErrClosed = errors.New("session: store closed")

	// ErrSuperseded is returned by Login when a logout or close happened while
	// the exchange was in flight; its result was thrown away.
	ErrSuperseded = errors.New("session: login superseded")
)

// loginFlightKey groups overlapping logins of one epoch. A logout starts a
// new epoch, so later logins never join an exchange it superseded.
func loginFlightKey(epoch uint64) string {
	return "login:" + strconv.FormatUint(epoch, 10)
}

// Options configures a [Store].
type Options struct {
	// Storage is the browser-scoped key-value namespace.
	Storage kv.Store
	// Exchanger performs the identity exchange.
	Exchanger identity.Exchanger
	// Notifier receives login failures. Optional.
	Notifier notify.Notifier
	// Logger defaults to slog.Default().
	Logger *slog.Logger
	// ExchangeTimeout bounds one exchange; zero means no bound.
	ExchangeTimeout time.Duration
}

// Store is the single source of truth for one browser's session.
//
// # Concurrency
//
// All methods are safe for concurrent use. Overlapping Login calls share one
// exchange. Subscribers are notified in transition order.
type Store struct {
	mu      sync.Mutex
	current Session
	token   string

	// epoch changes on Logout and Close; an exchange that started in an older
	// epoch must not apply its result.
	epoch  uint64
	closed bool

	restoreOnce sync.Once
	flight      singleflight.Group

	emitMu      sync.Mutex
	subscribers map[int]func(Session)
	nextSubID   int

	storage         kv.Store
	exchanger       identity.Exchanger
	notifier        notify.Notifier
	logger          *slog.Logger
	exchangeTimeout time.Duration
}

// NewStore creates a store in the Initializing state.
func NewStore(opts Options) *Store {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Store{
		current:         Initial(),
		subscribers:     make(map[int]func(Session)),
		storage:         opts.Storage,
		exchanger:       opts.Exchanger,
		notifier:        opts.Notifier,
		logger:          logger,
		exchangeTimeout: opts.ExchangeTimeout,
	}
}

// # Reads

// Current returns the latest snapshot.
func (s *Store) Current() Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

// Token returns the bearer token of an authenticated session, or "".
func (s *Store) Token() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current.State != StateAuthenticated {
		return ""
	}
	return s.token
}

// Subscribe registers fn for every future transition and returns a function
// that removes it. fn runs synchronously and must not call back into the store.
func (s *Store) Subscribe(fn func(Session)) (cancel func()) {
	s.mu.Lock()
	id := s.nextSubID
	s.nextSubID++
	s.subscribers[id] = fn
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.subscribers, id)
		s.mu.Unlock()
	}
}

// # Restore

// Restore loads the persisted record once. Later calls return the current
// snapshot. It never fails: missing or corrupt records yield the anonymous
// session, and corrupt ones are deleted.
func (s *Store) Restore(ctx context.Context) Session {
	s.restoreOnce.Do(func() {
		next, token := s.readPersisted(ctx)

		s.mu.Lock()
		if s.closed || s.current.State != StateInitializing {
			s.mu.Unlock()
			return
		}
		s.token = token
		emit := s.transitionLocked(next)
		s.mu.Unlock()
		emit()
	})

	return s.Current()
}

func (s *Store) readPersisted(ctx context.Context) (Session, string) {
	var user identity.User
	userErr := kv.GetJSON(ctx, s.storage, constants.StorageKeyUser, &user)

	rawToken, tokenErr := s.storage.Get(ctx, constants.StorageKeyToken)

	for _, err := range []error{userErr, tokenErr} {
		if err != nil && !errors.Is(err, kv.ErrNotFound) && !errors.Is(err, kv.ErrCorrupt) {
			s.logger.WarnContext(ctx, "session_restore_read_failed", slog.Any("error", err))
			return Anonymous(), ""
		}
	}

	userMissing := errors.Is(userErr, kv.ErrNotFound)
	tokenMissing := errors.Is(tokenErr, kv.ErrNotFound) || (tokenErr == nil && len(rawToken) == 0)

	if userMissing && tokenMissing {
		s.logger.DebugContext(ctx, "session_restored", slog.String("state", StateUnauthenticated.String()))
		return Anonymous(), ""
	}

	corrupt := userErr != nil || tokenMissing || user.Validate() != nil
	if corrupt {
		s.logger.WarnContext(ctx, "session_record_corrupt",
			slog.Bool("user_missing", userMissing),
			slog.Bool("token_missing", tokenMissing),
		)
		s.clearPersisted(ctx)
		return Anonymous(), ""
	}

	s.logger.InfoContext(ctx, "session_restored",
		slog.String("state", StateAuthenticated.String()),
		slog.String("role", string(user.Role)),
	)
	return Authenticated(user), string(rawToken)
}

// # Login

// Login exchanges assertion for a backend session.
//
// The store shows Authenticating until the exchange settles. A failure leaves
// the anonymous session, pushes a notification and returns the exchange
// error. Login on an authenticated store does nothing. A Login that overlaps
// one in flight waits for that exchange and returns its outcome.
func (s *Store) Login(ctx context.Context, assertion identity.Assertion) (Session, error) {
	s.Restore(ctx)

	s.mu.Lock()
	if s.closed {
		current := s.current
		s.mu.Unlock()
		return current, ErrClosed
	}

	if s.current.State == StateAuthenticated {
		current := s.current
		s.mu.Unlock()
		s.logger.WarnContext(ctx, "login_ignored_already_authenticated")
		return current, nil
	}
	epoch := s.epoch
	s.mu.Unlock()

	result, err, shared := s.flight.Do(loginFlightKey(epoch), func() (any, error) {
		return s.runExchange(ctx, epoch, assertion)
	})
	if shared {
		s.logger.DebugContext(ctx, "login_joined_in_flight_exchange")
	}

	if errors.Is(err, ErrSuperseded) {
		return s.Current(), err
	}

	return result.(Session), err
}

// runExchange performs one exchange and applies its outcome. The exchange is
// detached from the caller's cancellation so a dropped connection does not
// abandon a login half way.
func (s *Store) runExchange(ctx context.Context, startEpoch uint64, assertion identity.Assertion) (Session, error) {
	s.mu.Lock()
	if s.closed || s.epoch != startEpoch {
		s.mu.Unlock()
		return Session{}, ErrSuperseded
	}
	if s.current.State == StateAuthenticated {
		current := s.current
		s.mu.Unlock()
		return current, nil
	}

	emit := s.transitionLocked(Authenticating())
	s.mu.Unlock()
	emit()

	exchangeCtx := context.WithoutCancel(ctx)
	if s.exchangeTimeout > 0 {
		var cancel context.CancelFunc
		exchangeCtx, cancel = context.WithTimeout(exchangeCtx, s.exchangeTimeout)
		defer cancel()
	}

	grant, exchangeErr := s.exchanger.Exchange(exchangeCtx, assertion)

	s.mu.Lock()
	if s.closed || s.epoch != startEpoch {
		s.mu.Unlock()
		s.logger.InfoContext(ctx, "login_result_discarded")
		return Session{}, ErrSuperseded
	}

	if exchangeErr != nil {
		s.token = ""
		emit := s.transitionLocked(Anonymous())
		s.mu.Unlock()
		emit()

		s.reportFailure(exchangeCtx, exchangeErr)
		return Anonymous(), exchangeErr
	}

	if err := s.persist(exchangeCtx, grant); err != nil {
		s.clearPersisted(exchangeCtx)
		s.token = ""
		emit := s.transitionLocked(Anonymous())
		s.mu.Unlock()
		emit()

		persistErr := &identity.ExchangeError{Message: "Could not save session", Cause: err}
		s.reportFailure(exchangeCtx, persistErr)
		return Anonymous(), persistErr
	}

	s.token = grant.Token
	next := Authenticated(grant.User)
	emit = s.transitionLocked(next)
	s.mu.Unlock()
	emit()

	s.logger.InfoContext(ctx, "login_succeeded",
		slog.Int64("telegram_id", grant.User.TelegramID),
		slog.String("role", string(grant.User.Role)),
	)
	return next, nil
}

func (s *Store) persist(ctx context.Context, grant identity.Grant) error {
	if err := s.storage.Set(ctx, constants.StorageKeyToken, []byte(grant.Token), 0); err != nil {
		return err
	}
	return kv.SetJSON(ctx, s.storage, constants.StorageKeyUser, grant.User, 0)
}

func (s *Store) reportFailure(ctx context.Context, err error) {
	message := identity.FailureMessage(err)
	s.logger.WarnContext(ctx, "login_failed", slog.String("message", message), slog.Any("error", err))

	if s.notifier == nil {
		return
	}
	if pushErr := s.notifier.Push(ctx, notify.Failure("Login failed", message)); pushErr != nil {
		s.logger.ErrorContext(ctx, "login_failure_notification_failed", slog.Any("error", pushErr))
	}
}

// # Logout

// Logout removes the persisted record and settles on the anonymous session.
// Storage errors are logged, never returned. An exchange still in flight is
// discarded when it completes.
func (s *Store) Logout(ctx context.Context) Session {
	s.Restore(ctx)

	s.mu.Lock()
	s.epoch++
	s.clearPersisted(ctx)
	s.token = ""
	next := Anonymous()
	emit := s.transitionLocked(next)
	s.mu.Unlock()
	emit()

	s.logger.InfoContext(ctx, "logout_completed")
	return next
}

// # Close

// Close detaches the store from its subscribers. Persisted data is kept; a
// later store for the same browser restores it. Results of an exchange still
// in flight are discarded.
func (s *Store) Close() {
	s.mu.Lock()
	s.closed = true
	s.epoch++
	s.subscribers = make(map[int]func(Session))
	s.mu.Unlock()
}

// # Internals

// clearPersisted removes both keys together.
func (s *Store) clearPersisted(ctx context.Context) {
	if err := s.storage.Delete(ctx, constants.StorageKeyUser, constants.StorageKeyToken); err != nil {
		s.logger.ErrorContext(ctx, "session_clear_failed", slog.Any("error", err))
	}
}

// transitionLocked installs next and returns the function that notifies
// subscribers. Callers hold mu, release it, then call the returned function.
// emitMu is taken before mu is released so notifications keep their order.
func (s *Store) transitionLocked(next Session) (emit func()) {
	s.current = next

	subscribers := make([]func(Session), 0, len(s.subscribers))
	for _, fn := range s.subscribers {
		subscribers = append(subscribers, fn)
	}

	s.emitMu.Lock()
	return func() {
		defer s.emitMu.Unlock()
		for _, fn := range subscribers {
			fn(next)
		}
	}
}
