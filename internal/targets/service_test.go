package targets

import (
	"context"
	"errors"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/unitflow/unitflow/internal/dashboard"
	"github.com/unitflow/unitflow/internal/shared"
)

type window struct{ from, to time.Time }

type fakeSummaries struct {
	byWindow map[window]dashboard.Summary
	calls    []window
	err      error
}

func (f *fakeSummaries) Summary(ctx context.Context, from, to time.Time) (dashboard.Summary, error) {
	f.calls = append(f.calls, window{from, to})
	if f.err != nil {
		return dashboard.Summary{}, f.err
	}
	return f.byWindow[window{from, to}], nil
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func newRedisStore(t *testing.T) (*Store, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewStore(client, ""), mr
}

func newTestService(t *testing.T, summaries SummaryProvider) (*Service, *miniredis.Miniredis) {
	store, mr := newRedisStore(t)
	svc := NewService(store, summaries, nil, time.UTC)
	svc.WithNow(func() time.Time { return time.Date(2024, 3, 20, 9, 30, 0, 0, time.UTC) })
	return svc, mr
}

func TestStoreRoundTrip(t *testing.T) {
	store, mr := newRedisStore(t)
	ctx := context.Background()

	later := Target{ID: uuid.New(), Type: TypeUnits, TargetValue: 10, Deadline: day(2024, 6, 30)}
	sooner := Target{ID: uuid.New(), Type: TypeRevenue, TargetValue: 5000, Deadline: day(2024, 3, 31)}
	require.NoError(t, store.Save(ctx, later))
	require.NoError(t, store.Save(ctx, sooner))

	assert.True(t, mr.Exists(DefaultKey))
	fields, err := mr.HKeys(DefaultKey)
	require.NoError(t, err)
	assert.Len(t, fields, 2)

	list, err := store.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, sooner.ID, list[0].ID)

	require.NoError(t, store.Delete(ctx, sooner.ID))
	_, err = store.Get(ctx, sooner.ID)
	assert.ErrorIs(t, err, shared.ErrNotFound)
	assert.ErrorIs(t, store.Delete(ctx, sooner.ID), shared.ErrNotFound)
}

func TestCreateDefaultsAndValidation(t *testing.T) {
	svc, _ := newTestService(t, &fakeSummaries{})
	ctx := context.Background()

	created, err := svc.Create(ctx, TargetInput{Type: TypeRevenue, TargetValue: 10000, Deadline: "2024-03-31"})
	require.NoError(t, err)
	assert.Equal(t, day(2024, 3, 20), created.StartDate)
	assert.Equal(t, StyleProgressBar, created.Style)
	assert.NotEqual(t, uuid.Nil, created.ID)

	_, err = svc.Create(ctx, TargetInput{Type: TypeProfit, TargetValue: 1, StartDate: "2024-04-01", Deadline: "2024-03-31"})
	var verr *shared.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields, "deadline")

	_, err = svc.Create(ctx, TargetInput{Type: "visits", TargetValue: 0, Deadline: "2024-03-31", Style: "pie"})
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields, "type")
	assert.Contains(t, verr.Fields, "target_value")
	assert.Contains(t, verr.Fields, "style")

	_, err = svc.Create(ctx, TargetInput{Type: TypeMargin, TargetValue: 120, Deadline: "2024-03-31"})
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields, "target_value")

	sameDay, err := svc.Create(ctx, TargetInput{Type: TypeUnits, TargetValue: 1, StartDate: "2024-03-31", Deadline: "2024-03-31", Style: StyleGauge})
	require.NoError(t, err)
	assert.Equal(t, StyleGauge, sameDay.Style)
}

func TestUpdateKeepsIdentity(t *testing.T) {
	svc, _ := newTestService(t, &fakeSummaries{})
	ctx := context.Background()

	created, err := svc.Create(ctx, TargetInput{Type: TypeRevenue, TargetValue: 100, Deadline: "2024-03-31"})
	require.NoError(t, err)

	updated, err := svc.Update(ctx, created.ID, TargetInput{Type: TypeProfit, TargetValue: 50, StartDate: "2024-03-01", Deadline: "2024-04-30", Style: StyleRing})
	require.NoError(t, err)
	assert.Equal(t, created.ID, updated.ID)
	assert.Equal(t, created.CreatedAt, updated.CreatedAt)
	assert.Equal(t, TypeProfit, updated.Type)

	stored, err := svc.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, StyleRing, stored.Style)

	_, err = svc.Update(ctx, uuid.New(), TargetInput{Type: TypeProfit, TargetValue: 50, Deadline: "2024-04-30"})
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestUpdateWithoutStartDateKeepsWindow(t *testing.T) {
	svc, _ := newTestService(t, &fakeSummaries{})
	ctx := context.Background()

	live, err := svc.Create(ctx, TargetInput{Type: TypeRevenue, TargetValue: 100, StartDate: "2024-02-01", Deadline: "2024-06-30"})
	require.NoError(t, err)
	updated, err := svc.Update(ctx, live.ID, TargetInput{Type: TypeRevenue, TargetValue: 200, Deadline: "2024-06-30"})
	require.NoError(t, err)
	assert.Equal(t, day(2024, 2, 1), updated.StartDate)
	assert.InDelta(t, 200, updated.TargetValue, 1e-9)

	label := "January push"
	expired, err := svc.Create(ctx, TargetInput{Type: TypeUnits, TargetValue: 5, StartDate: "2024-01-01", Deadline: "2024-01-31"})
	require.NoError(t, err)
	relabelled, err := svc.Update(ctx, expired.ID, TargetInput{Type: TypeUnits, TargetValue: 5, Deadline: "2024-01-31", Label: &label})
	require.NoError(t, err)
	assert.Equal(t, day(2024, 1, 1), relabelled.StartDate)
	require.NotNil(t, relabelled.Label)
	assert.Equal(t, label, *relabelled.Label)
}

func TestStoreReplaceDoesNotRecreateDeleted(t *testing.T) {
	store, mr := newRedisStore(t)
	ctx := context.Background()

	target := Target{ID: uuid.New(), Type: TypeUnits, TargetValue: 10, Deadline: day(2024, 6, 30)}
	assert.ErrorIs(t, store.Replace(ctx, target), shared.ErrNotFound)
	assert.False(t, mr.Exists(DefaultKey))

	require.NoError(t, store.Save(ctx, target))
	target.TargetValue = 12
	require.NoError(t, store.Replace(ctx, target))
	got, err := store.Get(ctx, target.ID)
	require.NoError(t, err)
	assert.InDelta(t, 12, got.TargetValue, 1e-9)

	require.NoError(t, store.Delete(ctx, target.ID))
	assert.ErrorIs(t, store.Replace(ctx, target), shared.ErrNotFound)
	_, err = store.Get(ctx, target.ID)
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestProgress(t *testing.T) {
	march := window{day(2024, 3, 1), day(2024, 3, 20)}
	feb := window{day(2024, 2, 1), day(2024, 2, 29)}
	summaries := &fakeSummaries{byWindow: map[window]dashboard.Summary{
		march: {Revenue: 1500, Profit: 300, Units: 2, AvgMargin: 20},
		feb:   {Revenue: 900, Profit: 300, Units: 1, AvgMargin: 33.3},
	}}
	svc, _ := newTestService(t, summaries)
	ctx := context.Background()

	mustCreate := func(in TargetInput) Target {
		t.Helper()
		target, err := svc.Create(ctx, in)
		require.NoError(t, err)
		return target
	}
	revenue := mustCreate(TargetInput{Type: TypeRevenue, TargetValue: 3000, StartDate: "2024-03-01", Deadline: "2024-03-31"})
	units := mustCreate(TargetInput{Type: TypeUnits, TargetValue: 2, StartDate: "2024-03-01", Deadline: "2024-04-15"})
	past := mustCreate(TargetInput{Type: TypeProfit, TargetValue: 200, StartDate: "2024-02-01", Deadline: "2024-02-29"})
	future := mustCreate(TargetInput{Type: TypeMargin, TargetValue: 25, StartDate: "2024-04-01", Deadline: "2024-04-30"})

	got, err := svc.Progress(ctx)
	require.NoError(t, err)
	require.Len(t, got, 4)

	byID := map[uuid.UUID]Progress{}
	for _, p := range got {
		byID[p.ID] = p
	}

	assert.InDelta(t, 1500, byID[revenue.ID].Current, 1e-9)
	assert.InDelta(t, 50, byID[revenue.ID].Percent, 1e-9)
	assert.Equal(t, 11, byID[revenue.ID].DaysLeft)
	assert.False(t, byID[revenue.ID].Achieved)

	assert.InDelta(t, 2, byID[units.ID].Current, 1e-9)
	assert.True(t, byID[units.ID].Achieved)

	assert.InDelta(t, 150, byID[past.ID].Percent, 1e-9)
	assert.True(t, byID[past.ID].Achieved)
	assert.Zero(t, byID[past.ID].DaysLeft)

	assert.Zero(t, byID[future.ID].Current)
	assert.False(t, byID[future.ID].Achieved)

	assert.ElementsMatch(t, []window{march, feb}, summaries.calls)
}

func TestProgressPropagatesErrors(t *testing.T) {
	svc, _ := newTestService(t, &fakeSummaries{err: errors.New("db down")})
	ctx := context.Background()
	_, err := svc.Create(ctx, TargetInput{Type: TypeRevenue, TargetValue: 1, StartDate: "2024-03-01", Deadline: "2024-03-31"})
	require.NoError(t, err)

	_, err = svc.Progress(ctx)
	assert.Error(t, err)
}
