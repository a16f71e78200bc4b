package targets

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/unitflow/unitflow/internal/dashboard"
	"github.com/unitflow/unitflow/internal/shared"
)

// StorePort abstracts target persistence for the service.
type StorePort interface {
	List(ctx context.Context) ([]Target, error)
	Get(ctx context.Context, id uuid.UUID) (Target, error)
	Save(ctx context.Context, t Target) error
	Replace(ctx context.Context, t Target) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// SummaryProvider totals sales dated within [from, to].
type SummaryProvider interface {
	Summary(ctx context.Context, from, to time.Time) (dashboard.Summary, error)
}

// Service manages targets and measures them against recorded sales.
type Service struct {
	store   StorePort
	metrics SummaryProvider
	logger  *slog.Logger
	loc     *time.Location
	now     func() time.Time
}

// NewService builds Service.
func NewService(store StorePort, metrics SummaryProvider, logger *slog.Logger, loc *time.Location) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	if loc == nil {
		loc = time.UTC
	}
	return &Service{store: store, metrics: metrics, logger: logger, loc: loc, now: time.Now}
}

// WithNow overrides the service clock for testing.
func (s *Service) WithNow(fn func() time.Time) {
	if fn != nil {
		s.now = fn
	}
}

func (s *Service) today() time.Time {
	return shared.CalendarDate(s.now(), s.loc)
}

func (s *Service) List(ctx context.Context) ([]Target, error) {
	return s.store.List(ctx)
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (Target, error) {
	return s.store.Get(ctx, id)
}

func (s *Service) Create(ctx context.Context, in TargetInput) (Target, error) {
	t, err := s.fromInput(in, s.today())
	if err != nil {
		return Target{}, err
	}
	t.ID = uuid.New()
	t.CreatedAt = s.now().UTC()
	t.UpdatedAt = t.CreatedAt
	if err := s.store.Save(ctx, t); err != nil {
		return Target{}, err
	}
	s.logger.Info("target created", slog.String("target_id", t.ID.String()), slog.String("type", string(t.Type)))
	return t, nil
}

func (s *Service) Update(ctx context.Context, id uuid.UUID, in TargetInput) (Target, error) {
	current, err := s.store.Get(ctx, id)
	if err != nil {
		return Target{}, err
	}
	// An omitted start_date keeps the current window.
	t, err := s.fromInput(in, current.StartDate)
	if err != nil {
		return Target{}, err
	}
	t.ID = current.ID
	t.CreatedAt = current.CreatedAt
	t.UpdatedAt = s.now().UTC()
	if err := s.store.Replace(ctx, t); err != nil {
		return Target{}, err
	}
	return t, nil
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	return s.store.Delete(ctx, id)
}

// Progress measures every target over its start date up to the earlier of
// its deadline and today. Percent is not capped at 100.
func (s *Service) Progress(ctx context.Context) ([]Progress, error) {
	list, err := s.store.List(ctx)
	if err != nil {
		return nil, err
	}
	today := s.today()

	type window struct{ from, to time.Time }
	summaries := make(map[window]dashboard.Summary)

	out := make([]Progress, 0, len(list))
	for _, t := range list {
		p := Progress{Target: t}
		end := t.Deadline
		if today.Before(end) {
			end = today
		}
		if !t.StartDate.After(end) {
			w := window{t.StartDate, end}
			sum, ok := summaries[w]
			if !ok {
				sum, err = s.metrics.Summary(ctx, w.from, w.to)
				if err != nil {
					return nil, fmt.Errorf("measure target %s: %w", t.ID, err)
				}
				summaries[w] = sum
			}
			p.Current = metric(t.Type, sum)
		}
		p.Percent = p.Current / t.TargetValue * 100
		p.Achieved = p.Current >= t.TargetValue
		p.DaysLeft = max(shared.DaysBetween(today, t.Deadline), 0)
		out = append(out, p)
	}
	return out, nil
}

func metric(typ Type, sum dashboard.Summary) float64 {
	switch typ {
	case TypeRevenue:
		return sum.Revenue
	case TypeProfit:
		return sum.Profit
	case TypeUnits:
		return float64(sum.Units)
	case TypeMargin:
		return sum.AvgMargin
	default:
		return 0
	}
}

func (s *Service) fromInput(in TargetInput, defaultStart time.Time) (Target, error) {
	in.Label = shared.TrimPtr(in.Label)
	if err := shared.Validate(in); err != nil {
		return Target{}, err
	}
	deadline, err := shared.ParseDate("deadline", in.Deadline)
	if err != nil {
		return Target{}, err
	}
	start := defaultStart
	if in.StartDate != "" {
		start, err = shared.ParseDate("start_date", in.StartDate)
		if err != nil {
			return Target{}, err
		}
	}
	if deadline.Before(start) {
		return Target{}, shared.NewValidationError("deadline", "must not precede start_date")
	}
	if in.Type == TypeMargin && in.TargetValue > 100 {
		return Target{}, shared.NewValidationError("target_value", "must be at most 100 for margin targets")
	}
	style := in.Style
	if style == "" {
		style = StyleProgressBar
	}
	return Target{
		Type:        in.Type,
		TargetValue: in.TargetValue,
		StartDate:   start,
		Deadline:    deadline,
		Style:       style,
		Label:       in.Label,
	}, nil
}
