package admin

import (
	"context"
	"sort"
	"sync"

	"ainews-console/internal/backend"
	"ainews-console/internal/session"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

type AdminService interface {
	Summary(ctx context.Context, sess *session.Session) []ScreenCount
}

type AdminServiceImpl struct {
	log *zap.Logger
}

func NewAdminService(log *zap.Logger) AdminService {
	return &AdminServiceImpl{log: log.Named("admin")}
}

// Summary loads every screen of the session concurrently. A screen that
// fails reports its error; the others still count.
func (s *AdminServiceImpl) Summary(ctx context.Context, sess *session.Session) []ScreenCount {
	var (
		mu     sync.Mutex
		counts = make([]ScreenCount, 0, len(sess.Screens))
	)

	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(4)
	for name, sc := range sess.Screens {
		eg.Go(func() error {
			def := sc.Definition()
			c := ScreenCount{Name: name, Title: def.Title}
			if err := sc.EnsureLoaded(egCtx); err != nil {
				c.Error = backend.Message(err)
			}
			c.Total = sc.Count()
			c.Stale = sc.View().Stale

			mu.Lock()
			counts = append(counts, c)
			mu.Unlock()
			return nil
		})
	}
	_ = eg.Wait()

	sort.Slice(counts, func(i, j int) bool { return counts[i].Name < counts[j].Name })
	s.log.Debug("summary built", zap.Int("screens", len(counts)))
	return counts
}
