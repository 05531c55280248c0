// Package session keeps one console session per shell window: its dialog
// queue, admin screens, reader pages and FAB menu.
package session

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"ainews-console/internal/backend"
	"ainews-console/internal/config"
	"ainews-console/internal/dialog"
	"ainews-console/internal/fab"
	"ainews-console/internal/reader"
	"ainews-console/internal/screen"
	"ainews-console/internal/storage"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// Header carries the session id on every console request and response.
const Header = "X-Console-Session"

var ErrUnknownSession = errors.New("session: unknown session")

type Session struct {
	ID      string
	Dialogs *dialog.Queue
	Screens map[string]*screen.Screen
	FAB     *fab.Menu
	Article *reader.ArticlePage
	Pricing *reader.PricingPage
	Account *reader.Account

	mu       sync.Mutex
	lastSeen time.Time
}

func (s *Session) Screen(name string) (*screen.Screen, error) {
	sc, ok := s.Screens[name]
	if !ok {
		return nil, screen.ErrNotFound
	}
	return sc, nil
}

func (s *Session) touch(now time.Time) {
	s.mu.Lock()
	s.lastSeen = now
	s.mu.Unlock()
}

func (s *Session) LastSeen() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastSeen
}

// Deps is everything a new session is built from.
type Deps struct {
	Registry *screen.Registry
	Client   *backend.Client
	Store    storage.LocalStore
	Menu     *fab.Table
	Demo     bool
	Log      *zap.Logger
}

// Store holds live sessions. Sessions idle for longer than the configured
// window are dropped by Sweep.
type Store struct {
	deps Deps
	idle time.Duration
	now  func() time.Time
	log  *zap.Logger

	mu       sync.RWMutex
	sessions map[string]*Session
	sweeper  *cron.Cron
}

func NewStore(deps Deps, idle time.Duration) *Store {
	if deps.Log == nil {
		deps.Log = zap.NewNop()
	}
	if deps.Menu == nil {
		deps.Menu = fab.DefaultTable()
	}
	return &Store{
		deps:     deps,
		idle:     idle,
		now:      time.Now,
		log:      deps.Log.Named("session"),
		sessions: make(map[string]*Session),
	}
}

// Create starts a fresh session with a new id.
func (st *Store) Create() *Session {
	id := uuid.NewString()
	log := st.log.With(zap.String("session", id))
	dialogs := dialog.NewQueue(log)
	userTokens := storage.UserTokens(st.deps.Store)
	adminTokens := storage.AdminTokens(st.deps.Store)

	s := &Session{
		ID:       id,
		Dialogs:  dialogs,
		Screens:  st.deps.Registry.Build(st.deps.Client, adminTokens, dialogs, log),
		FAB:      fab.New(st.deps.Menu),
		Article:  reader.NewArticlePage(st.deps.Client, userTokens, dialogs, st.deps.Demo, log),
		Pricing:  reader.NewPricingPage(st.deps.Client, st.deps.Demo, log),
		Account:  reader.NewAccount(st.deps.Client, userTokens, adminTokens, dialogs, log),
		lastSeen: st.now(),
	}

	st.mu.Lock()
	st.sessions[id] = s
	st.mu.Unlock()
	st.log.Debug("session created", zap.String("session", id))
	return s
}

// Get returns a live session and marks it as seen.
func (st *Store) Get(id string) (*Session, error) {
	st.mu.RLock()
	s, ok := st.sessions[id]
	st.mu.RUnlock()
	if !ok {
		return nil, ErrUnknownSession
	}
	s.touch(st.now())
	return s, nil
}

// GetOrCreate returns the session for id, or a new one when id is empty or
// no longer known.
func (st *Store) GetOrCreate(id string) (*Session, bool) {
	if id != "" {
		if s, err := st.Get(id); err == nil {
			return s, false
		}
	}
	return st.Create(), true
}

func (st *Store) Remove(id string) bool {
	st.mu.Lock()
	defer st.mu.Unlock()
	if _, ok := st.sessions[id]; !ok {
		return false
	}
	delete(st.sessions, id)
	return true
}

func (st *Store) Len() int {
	st.mu.RLock()
	defer st.mu.RUnlock()
	return len(st.sessions)
}

// IDs lists live session ids in order.
func (st *Store) IDs() []string {
	st.mu.RLock()
	defer st.mu.RUnlock()
	ids := make([]string, 0, len(st.sessions))
	for id := range st.sessions {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Sweep drops idle sessions and returns how many went.
func (st *Store) Sweep() int {
	if st.idle <= 0 {
		return 0
	}
	cutoff := st.now().Add(-st.idle)

	st.mu.Lock()
	defer st.mu.Unlock()
	removed := 0
	for id, s := range st.sessions {
		if s.LastSeen().Before(cutoff) {
			delete(st.sessions, id)
			removed++
		}
	}
	if removed > 0 {
		st.log.Info("idle sessions swept", zap.Int("removed", removed), zap.Int("live", len(st.sessions)))
	}
	return removed
}

// StartSweeper runs Sweep every minute.
func (st *Store) StartSweeper() error {
	st.mu.Lock()
	defer st.mu.Unlock()
	if st.sweeper != nil {
		return errors.New("session sweeper already running")
	}
	c := cron.New()
	if _, err := c.AddFunc("@every 1m", func() { st.Sweep() }); err != nil {
		return err
	}
	c.Start()
	st.sweeper = c
	return nil
}

func (st *Store) StopSweeper() {
	st.mu.Lock()
	c := st.sweeper
	st.sweeper = nil
	st.mu.Unlock()
	if c != nil {
		<-c.Stop().Done()
	}
}

// NewStoreFromConfig is the fx constructor; the idle sweeper follows the
// app lifecycle.
func NewStoreFromConfig(lc fx.Lifecycle, cfg *config.Config, registry *screen.Registry, client *backend.Client, store storage.LocalStore, log *zap.Logger) *Store {
	st := NewStore(Deps{
		Registry: registry,
		Client:   client,
		Store:    store,
		Demo:     cfg.DemoFallback,
		Log:      log,
	}, cfg.SessionIdle)
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			return st.StartSweeper()
		},
		OnStop: func(ctx context.Context) error {
			st.StopSweeper()
			return nil
		},
	})
	return st
}
