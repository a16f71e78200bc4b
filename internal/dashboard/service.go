package dashboard

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"github.com/unitflow/unitflow/internal/shared"
)

// RepositoryPort loads aggregation inputs.
type RepositoryPort interface {
	SalesBetween(ctx context.Context, from, to *time.Time) ([]SaleRecord, error)
	Items(ctx context.Context) ([]ItemRecord, error)
}

// Observer records how each report was served.
type Observer interface {
	ObserveDashboard(rangeKey, source string, took time.Duration)
}

const (
	// BuildTimeout bounds a shared report build independently of its callers.
	BuildTimeout = 20 * time.Second
	// WarmRangeTimeout bounds each range during Warm.
	WarmRangeTimeout = 20 * time.Second
)

// Report sources reported to the Observer.
const (
	SourceCache = "cache"
	SourceBuild = "build"
)

// Service builds dashboard reports and caches them per range and day.
type Service struct {
	repo     RepositoryPort
	cache    *Cache
	logger   *slog.Logger
	loc      *time.Location
	now      func() time.Time
	observer Observer
	group    singleflight.Group
}

// NewService wires the repository with an optional cache.
func NewService(repo RepositoryPort, cache *Cache, logger *slog.Logger, loc *time.Location) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	if loc == nil {
		loc = time.UTC
	}
	return &Service{repo: repo, cache: cache, logger: logger, loc: loc, now: time.Now}
}

// WithNow overrides the service clock for testing.
func (s *Service) WithNow(fn func() time.Time) {
	if fn != nil {
		s.now = fn
	}
}

// WithObserver attaches report metrics.
func (s *Service) WithObserver(o Observer) {
	s.observer = o
}

// Today returns the current business-calendar day.
func (s *Service) Today() time.Time {
	return shared.CalendarDate(s.now(), s.loc)
}

// Report returns the dashboard for rangeKey. Concurrent requests for the same
// cache key share one build.
func (s *Service) Report(ctx context.Context, rangeKey shared.RangeKey) (Report, error) {
	now := s.now()
	today := shared.CalendarDate(now, s.loc)
	rng := shared.ResolveRange(rangeKey, now, s.loc)

	key, err := s.cache.BuildKey(ctx, reportKey(string(rng.Key), today.Format(shared.DateLayout))...)
	if err != nil {
		s.logger.Warn("dashboard cache unavailable", slog.Any("error", err))
		start := time.Now()
		rep, err := s.build(ctx, rng, today)
		if err == nil {
			s.observe(rng.Key, SourceBuild, time.Since(start))
		}
		return rep, err
	}

	ch := s.group.DoChan(key, func() (any, error) {
		// The build outlives any single caller.
		buildCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), BuildTimeout)
		defer cancel()

		var rep Report
		start := time.Now()
		hit, err := s.cache.FetchJSON(buildCtx, key, &rep, func(ctx context.Context) (any, error) {
			return s.build(ctx, rng, today)
		})
		if err != nil {
			return Report{}, err
		}
		if hit {
			s.observe(rng.Key, SourceCache, 0)
		} else {
			s.observe(rng.Key, SourceBuild, time.Since(start))
		}
		return rep, nil
	})
	select {
	case <-ctx.Done():
		return Report{}, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return Report{}, res.Err
		}
		return res.Val.(Report), nil
	}
}

// Summary totals sales dated within [from, to].
func (s *Service) Summary(ctx context.Context, from, to time.Time) (Summary, error) {
	sales, err := s.repo.SalesBetween(ctx, &from, &to)
	if err != nil {
		return Summary{}, err
	}
	return Summarize(sales), nil
}

// Warm builds and caches the report for each key, or for every range when
// keys is empty. Each range gets its own WarmRangeTimeout.
func (s *Service) Warm(ctx context.Context, keys ...shared.RangeKey) error {
	if len(keys) == 0 {
		keys = shared.RangeKeys
	}
	for _, key := range keys {
		rangeCtx, cancel := context.WithTimeout(ctx, WarmRangeTimeout)
		_, err := s.Report(rangeCtx, key)
		cancel()
		if err != nil {
			return fmt.Errorf("warm %s: %w", key, err)
		}
	}
	return nil
}

func (s *Service) build(ctx context.Context, rng shared.DateRange, today time.Time) (Report, error) {
	var (
		sales []SaleRecord
		items []ItemRecord
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		sales, err = s.repo.SalesBetween(gctx, rng.From, rng.To)
		return err
	})
	g.Go(func() error {
		var err error
		items, err = s.repo.Items(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return Report{}, err
	}
	return BuildReport(rng, sales, items, today), nil
}

func (s *Service) observe(key shared.RangeKey, source string, took time.Duration) {
	if s.observer != nil {
		s.observer.ObserveDashboard(string(key), source, took)
	}
}
