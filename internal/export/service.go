package export

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"ainews-console/internal/backend"
	"ainews-console/internal/config"
	"ainews-console/internal/dialog"
	"ainews-console/internal/screen"
	"ainews-console/internal/storage"

	"github.com/robfig/cron/v3"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

var ErrUnknownScreen = errors.New("export: unknown screen")

type ExportService interface {
	// Run fetches a fresh copy of the named screen and writes it to the
	// export directory, returning the file path.
	Run(ctx context.Context, name string) (string, error)
	// RunAll exports every registered screen, continuing past failures.
	RunAll(ctx context.Context) ([]string, error)

	InitializeScheduler(schedule string) error
	StopScheduler()
}

type ExportServiceImpl struct {
	registry *screen.Registry
	gw       screen.Gateway
	tokens   screen.TokenSource
	dir      string
	log      *zap.Logger
	now      func() time.Time

	mu        sync.Mutex
	scheduler *cron.Cron
}

func NewExportService(registry *screen.Registry, gw screen.Gateway, tokens screen.TokenSource, dir string, log *zap.Logger) *ExportServiceImpl {
	if log == nil {
		log = zap.NewNop()
	}
	return &ExportServiceImpl{
		registry: registry,
		gw:       gw,
		tokens:   tokens,
		dir:      dir,
		log:      log.Named("export"),
		now:      time.Now,
	}
}

func (s *ExportServiceImpl) Run(ctx context.Context, name string) (string, error) {
	def, ok := s.registry.Definition(name)
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrUnknownScreen, name)
	}
	// a throwaway screen: its dialogs have nobody to show them to
	sc, err := screen.New(def, s.gw, s.tokens, dialog.NewQueue(s.log), s.log)
	if err != nil {
		return "", err
	}
	if err := sc.Refresh(ctx); err != nil {
		return "", fmt.Errorf("load %s: %w", name, err)
	}
	blob, err := Screen(sc, s.now())
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return "", fmt.Errorf("create export dir: %w", err)
	}
	path := filepath.Join(s.dir, blob.Filename)
	if err := os.WriteFile(path, blob.Data, 0o644); err != nil {
		return "", fmt.Errorf("write export: %w", err)
	}
	s.log.Info("screen exported", zap.String("screen", name), zap.String("path", path), zap.Int("rows", len(sc.Records())))
	return path, nil
}

func (s *ExportServiceImpl) RunAll(ctx context.Context) ([]string, error) {
	var (
		paths []string
		errs  []error
	)
	for _, name := range s.registry.Names() {
		path, err := s.Run(ctx, name)
		if err != nil {
			s.log.Warn("scheduled export failed", zap.String("screen", name), zap.Error(err))
			errs = append(errs, err)
			continue
		}
		paths = append(paths, path)
	}
	return paths, errors.Join(errs...)
}

// InitializeScheduler starts exporting every screen on a standard 5-field
// cron schedule (or a descriptor such as "@daily").
func (s *ExportServiceImpl) InitializeScheduler(schedule string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.scheduler != nil {
		return fmt.Errorf("export scheduler already running")
	}
	c := cron.New()
	_, err := c.AddFunc(schedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
		defer cancel()
		paths, err := s.RunAll(ctx)
		s.log.Info("scheduled export finished", zap.Int("files", len(paths)), zap.Error(err))
	})
	if err != nil {
		return fmt.Errorf("invalid export schedule %q: %w", schedule, err)
	}
	c.Start()
	s.scheduler = c
	s.log.Info("export scheduler started", zap.String("schedule", schedule))
	return nil
}

func (s *ExportServiceImpl) StopScheduler() {
	s.mu.Lock()
	c := s.scheduler
	s.scheduler = nil
	s.mu.Unlock()
	if c == nil {
		return
	}
	<-c.Stop().Done()
	s.log.Info("export scheduler stopped")
}

// NewFromConfig wires scheduled exports into the console process. Nothing is
// scheduled when EXPORT_SCHEDULE is empty.
func NewFromConfig(lc fx.Lifecycle, cfg *config.Config, registry *screen.Registry, client *backend.Client, store storage.LocalStore, log *zap.Logger) ExportService {
	svc := NewExportService(registry, client, storage.AdminTokens(store), cfg.ExportDir, log)
	if cfg.ExportSchedule == "" {
		return svc
	}
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			return svc.InitializeScheduler(cfg.ExportSchedule)
		},
		OnStop: func(ctx context.Context) error {
			svc.StopScheduler()
			return nil
		},
	})
	return svc
}
