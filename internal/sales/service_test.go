package sales

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/unitflow/unitflow/internal/shared"
)

type memoryItem struct {
	code     string
	status   string
	soldDate *time.Time
	cost     float64
}

// memoryRepo applies transactional writes to copies and publishes them only
// when the callback succeeds.
type memoryRepo struct {
	items     map[uuid.UUID]memoryItem
	customers map[uuid.UUID]string
	sales     map[uuid.UUID]Sale

	failMarkSold    error
	failMarkInStock error
}

type memoryTx struct {
	repo      *memoryRepo
	items     map[uuid.UUID]memoryItem
	customers map[uuid.UUID]string
	sales     map[uuid.UUID]Sale
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{
		items:     make(map[uuid.UUID]memoryItem),
		customers: make(map[uuid.UUID]string),
		sales:     make(map[uuid.UUID]Sale),
	}
}

func (r *memoryRepo) addItem(code string, cost float64) uuid.UUID {
	id := uuid.New()
	r.items[id] = memoryItem{code: code, status: itemStatusInStock, cost: cost}
	return id
}

func (r *memoryRepo) addCustomer(name string) uuid.UUID {
	id := uuid.New()
	r.customers[id] = name
	return id
}

func (r *memoryRepo) WithTx(ctx context.Context, fn func(context.Context, TxRepository) error) error {
	tx := &memoryTx{
		repo:      r,
		items:     maps.Clone(r.items),
		customers: r.customers,
		sales:     maps.Clone(r.sales),
	}
	if err := fn(ctx, tx); err != nil {
		return err
	}
	r.items = tx.items
	r.sales = tx.sales
	return nil
}

func (r *memoryRepo) hydrate(s Sale) Sale {
	if it, ok := r.items[s.ItemID]; ok {
		s.ItemCode = it.code
		cost := it.cost
		s.ItemCost = &cost
	}
	if s.CustomerID != nil {
		if name, ok := r.customers[*s.CustomerID]; ok {
			s.CustomerName = &name
		}
	}
	return s
}

func (r *memoryRepo) List(ctx context.Context, filters ListFilters) ([]Sale, int, error) {
	var out []Sale
	for _, s := range r.sales {
		if filters.From != nil && s.SaleDate.Before(*filters.From) {
			continue
		}
		if filters.To != nil && s.SaleDate.After(*filters.To) {
			continue
		}
		out = append(out, r.hydrate(s))
	}
	return out, len(out), nil
}

func (r *memoryRepo) Get(ctx context.Context, id uuid.UUID) (Sale, error) {
	s, ok := r.sales[id]
	if !ok {
		return Sale{}, fmt.Errorf("sale %w", shared.ErrNotFound)
	}
	return r.hydrate(s), nil
}

func (t *memoryTx) LockSale(ctx context.Context, id uuid.UUID) (Sale, error) {
	s, ok := t.sales[id]
	if !ok {
		return Sale{}, fmt.Errorf("sale %w", shared.ErrNotFound)
	}
	return s, nil
}

func (t *memoryTx) LockItem(ctx context.Context, id uuid.UUID) (ItemState, error) {
	it, ok := t.items[id]
	if !ok {
		return ItemState{}, fmt.Errorf("inventory item %w", shared.ErrNotFound)
	}
	return ItemState{ID: id, ItemCode: it.code, Status: it.status}, nil
}

func (t *memoryTx) CustomerExists(ctx context.Context, id uuid.UUID) (bool, error) {
	_, ok := t.customers[id]
	return ok, nil
}

func (t *memoryTx) InsertSale(ctx context.Context, s Sale) (uuid.UUID, error) {
	s.ID = uuid.New()
	t.sales[s.ID] = s
	return s.ID, nil
}

func (t *memoryTx) UpdateSale(ctx context.Context, s Sale) error {
	if _, ok := t.sales[s.ID]; !ok {
		return fmt.Errorf("sale %w", shared.ErrNotFound)
	}
	t.sales[s.ID] = s
	return nil
}

func (t *memoryTx) DeleteSale(ctx context.Context, id uuid.UUID) error {
	delete(t.sales, id)
	return nil
}

func (t *memoryTx) MarkItemSold(ctx context.Context, itemID uuid.UUID, soldDate time.Time) error {
	if t.repo.failMarkSold != nil {
		return t.repo.failMarkSold
	}
	it := t.items[itemID]
	it.status = itemStatusSold
	it.soldDate = &soldDate
	t.items[itemID] = it
	return nil
}

func (t *memoryTx) MarkItemInStock(ctx context.Context, itemID uuid.UUID) error {
	if t.repo.failMarkInStock != nil {
		return t.repo.failMarkInStock
	}
	it, ok := t.items[itemID]
	if !ok {
		return fmt.Errorf("inventory item %w", shared.ErrNotFound)
	}
	it.status = itemStatusInStock
	it.soldDate = nil
	t.items[itemID] = it
	return nil
}

type countingCache struct{ bumps int }

func (c *countingCache) Bump(ctx context.Context) error {
	c.bumps++
	return nil
}

func newTestService(repo *memoryRepo, cache shared.Invalidator) *Service {
	svc := NewService(repo, cache, nil, time.UTC)
	svc.WithNow(func() time.Time { return time.Date(2024, 3, 20, 10, 0, 0, 0, time.UTC) })
	return svc
}

func TestCreateMarksItemSold(t *testing.T) {
	repo := newMemoryRepo()
	itemID := repo.addItem("MB1", 700)
	customerID := repo.addCustomer("Dana")
	cache := &countingCache{}
	svc := newTestService(repo, cache)

	sale, err := svc.Create(context.Background(), SaleInput{ItemID: itemID, CustomerID: &customerID, SalePrice: 1000, SaleDate: "2024-03-18"})
	require.NoError(t, err)

	assert.Equal(t, PaymentCash, sale.PaymentMethod)
	assert.Equal(t, ChannelInPerson, sale.Channel)
	require.NotNil(t, sale.Profit())
	assert.InDelta(t, 300, *sale.Profit(), 0.001)
	require.NotNil(t, sale.CustomerName)
	assert.Equal(t, "Dana", *sale.CustomerName)

	item := repo.items[itemID]
	assert.Equal(t, itemStatusSold, item.status)
	require.NotNil(t, item.soldDate)
	assert.Equal(t, time.Date(2024, 3, 18, 0, 0, 0, 0, time.UTC), *item.soldDate)
	assert.Equal(t, 1, cache.bumps)
}

func TestCreateRejectsSoldOrMissingItem(t *testing.T) {
	repo := newMemoryRepo()
	itemID := repo.addItem("MB1", 700)
	svc := newTestService(repo, nil)
	ctx := context.Background()

	_, err := svc.Create(ctx, SaleInput{ItemID: itemID, SalePrice: 1000, SaleDate: "2024-03-18"})
	require.NoError(t, err)

	_, err = svc.Create(ctx, SaleInput{ItemID: itemID, SalePrice: 900, SaleDate: "2024-03-19"})
	assert.ErrorIs(t, err, shared.ErrConflict)
	assert.Len(t, repo.sales, 1)

	_, err = svc.Create(ctx, SaleInput{ItemID: uuid.New(), SalePrice: 900, SaleDate: "2024-03-19"})
	var verr *shared.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields, "item_id")
}

func TestCreateValidation(t *testing.T) {
	repo := newMemoryRepo()
	itemID := repo.addItem("MB1", 700)
	svc := newTestService(repo, nil)
	ctx := context.Background()

	_, err := svc.Create(ctx, SaleInput{ItemID: itemID, SalePrice: 0, SaleDate: "2024-03-18", Channel: "flea_market"})
	var verr *shared.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields, "sale_price")
	assert.Contains(t, verr.Fields, "channel")

	ghost := uuid.New()
	_, err = svc.Create(ctx, SaleInput{ItemID: itemID, CustomerID: &ghost, SalePrice: 10, SaleDate: "2024-03-18"})
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields, "customer_id")
	assert.Equal(t, itemStatusInStock, repo.items[itemID].status)
}

func TestCreateRollsBackWhenItemUpdateFails(t *testing.T) {
	repo := newMemoryRepo()
	itemID := repo.addItem("MB1", 700)
	repo.failMarkSold = errors.New("connection reset")
	cache := &countingCache{}
	svc := newTestService(repo, cache)

	_, err := svc.Create(context.Background(), SaleInput{ItemID: itemID, SalePrice: 1000, SaleDate: "2024-03-18"})
	require.Error(t, err)

	assert.Empty(t, repo.sales)
	assert.Equal(t, itemStatusInStock, repo.items[itemID].status)
	assert.Zero(t, cache.bumps)
}

func TestDeleteRevertsItem(t *testing.T) {
	repo := newMemoryRepo()
	itemID := repo.addItem("MB1", 700)
	svc := newTestService(repo, nil)
	ctx := context.Background()

	sale, err := svc.Create(ctx, SaleInput{ItemID: itemID, SalePrice: 1000, SaleDate: "2024-03-18"})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, sale.ID))
	assert.Empty(t, repo.sales)
	assert.Equal(t, itemStatusInStock, repo.items[itemID].status)
	assert.Nil(t, repo.items[itemID].soldDate)

	assert.ErrorIs(t, svc.Delete(ctx, sale.ID), shared.ErrNotFound)
}

func TestDeleteRollsBackWhenItemRevertFails(t *testing.T) {
	repo := newMemoryRepo()
	itemID := repo.addItem("MB1", 700)
	svc := newTestService(repo, nil)
	ctx := context.Background()

	sale, err := svc.Create(ctx, SaleInput{ItemID: itemID, SalePrice: 1000, SaleDate: "2024-03-18"})
	require.NoError(t, err)

	repo.failMarkInStock = errors.New("connection reset")
	require.Error(t, svc.Delete(ctx, sale.ID))

	assert.Contains(t, repo.sales, sale.ID)
	assert.Equal(t, itemStatusSold, repo.items[itemID].status)
	assert.NotNil(t, repo.items[itemID].soldDate)
}

func TestUpdateMovesSaleToAnotherItem(t *testing.T) {
	repo := newMemoryRepo()
	first := repo.addItem("MB1", 700)
	second := repo.addItem("MB2", 800)
	svc := newTestService(repo, nil)
	ctx := context.Background()

	sale, err := svc.Create(ctx, SaleInput{ItemID: first, SalePrice: 1000, SaleDate: "2024-03-18"})
	require.NoError(t, err)

	updated, err := svc.Update(ctx, sale.ID, SaleInput{ItemID: second, SalePrice: 1100, SaleDate: "2024-03-19", Channel: ChannelEbay})
	require.NoError(t, err)
	assert.Equal(t, second, updated.ItemID)
	assert.Equal(t, ChannelEbay, updated.Channel)

	assert.Equal(t, itemStatusInStock, repo.items[first].status)
	assert.Nil(t, repo.items[first].soldDate)
	assert.Equal(t, itemStatusSold, repo.items[second].status)
	assert.Equal(t, time.Date(2024, 3, 19, 0, 0, 0, 0, time.UTC), *repo.items[second].soldDate)
}

func TestUpdateRefusesSoldTarget(t *testing.T) {
	repo := newMemoryRepo()
	first := repo.addItem("MB1", 700)
	second := repo.addItem("MB2", 800)
	svc := newTestService(repo, nil)
	ctx := context.Background()

	sale, err := svc.Create(ctx, SaleInput{ItemID: first, SalePrice: 1000, SaleDate: "2024-03-18"})
	require.NoError(t, err)
	_, err = svc.Create(ctx, SaleInput{ItemID: second, SalePrice: 1000, SaleDate: "2024-03-18"})
	require.NoError(t, err)

	_, err = svc.Update(ctx, sale.ID, SaleInput{ItemID: second, SalePrice: 1000, SaleDate: "2024-03-18"})
	assert.ErrorIs(t, err, shared.ErrConflict)
	assert.Equal(t, itemStatusSold, repo.items[first].status)
}

func TestListUsesRange(t *testing.T) {
	repo := newMemoryRepo()
	svc := newTestService(repo, nil)
	ctx := context.Background()

	for _, date := range []string{"2024-03-20", "2024-03-02", "2024-02-10"} {
		_, err := svc.Create(ctx, SaleInput{ItemID: repo.addItem("X"+date, 1), SalePrice: 10, SaleDate: date})
		require.NoError(t, err)
	}

	cases := map[shared.RangeKey]int{
		shared.RangeToday:     1,
		shared.RangeWeek:      1,
		shared.RangeMonth:     2,
		shared.RangeLastMonth: 1,
		shared.RangeAll:       3,
	}
	for key, want := range cases {
		_, total, err := svc.List(ctx, key, ListFilters{})
		require.NoError(t, err)
		assert.Equal(t, want, total, string(key))
	}
}
