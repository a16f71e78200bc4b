package inventory

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/unitflow/unitflow/internal/shared"
)

// minModelYear is the oldest model year accepted for a unit.
const minModelYear = 2006

// RepositoryPort abstracts inventory persistence for the service.
type RepositoryPort interface {
	List(ctx context.Context, filters ListFilters) ([]Item, int, error)
	Get(ctx context.Context, id uuid.UUID) (Item, error)
	SupplierCode(ctx context.Context, supplierID uuid.UUID) (string, error)
	PurchaseOrderSupplier(ctx context.Context, poID uuid.UUID) (uuid.UUID, error)
	Create(ctx context.Context, item Item) (Item, error)
	Update(ctx context.Context, item Item) (Item, error)
	Delete(ctx context.Context, id uuid.UUID) error
	ListInStockBefore(ctx context.Context, cutoff time.Time) ([]Item, error)
}

// Service coordinates inventory item operations.
type Service struct {
	repo   RepositoryPort
	cache  shared.Invalidator
	logger *slog.Logger
	loc    *time.Location
	now    func() time.Time
}

// NewService builds Service. cache may be nil.
func NewService(repo RepositoryPort, cache shared.Invalidator, logger *slog.Logger, loc *time.Location) *Service {
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

func (s *Service) List(ctx context.Context, filters ListFilters) ([]Item, int, error) {
	return s.repo.List(ctx, filters)
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (Item, error) {
	return s.repo.Get(ctx, id)
}

// Create adds a unit. Items can only become sold through a sale, so the
// initial status may be anything but sold.
func (s *Service) Create(ctx context.Context, in ItemInput) (Item, error) {
	item, err := s.build(ctx, in)
	if err != nil {
		return Item{}, err
	}
	if item.Status == "" {
		item.Status = StatusInStock
	}
	if item.Status == StatusSold {
		return Item{}, shared.NewValidationError("status", "items are marked sold by recording a sale")
	}
	created, err := s.repo.Create(ctx, item)
	if err != nil {
		return Item{}, err
	}
	shared.NotifyChanged(ctx, s.cache, s.logger)
	return created, nil
}

// Update replaces an item's details. The sold state is owned by sales: an
// item cannot be moved into or out of sold here.
func (s *Service) Update(ctx context.Context, id uuid.UUID, in ItemInput) (Item, error) {
	current, err := s.repo.Get(ctx, id)
	if err != nil {
		return Item{}, err
	}
	item, err := s.build(ctx, in)
	if err != nil {
		return Item{}, err
	}
	if item.Status == "" {
		item.Status = current.Status
	}
	switch {
	case current.Status == StatusSold && item.Status != StatusSold:
		return Item{}, fmt.Errorf("%w: item %s is sold; delete the sale to return it to stock", shared.ErrConflict, current.ItemID)
	case current.Status != StatusSold && item.Status == StatusSold:
		return Item{}, shared.NewValidationError("status", "items are marked sold by recording a sale")
	}
	item.ID = id
	item.SoldDate = current.SoldDate

	updated, err := s.repo.Update(ctx, item)
	if err != nil {
		return Item{}, err
	}
	shared.NotifyChanged(ctx, s.cache, s.logger)
	return updated, nil
}

// Delete removes an item unless it has been sold.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	item, err := s.repo.Get(ctx, id)
	if err != nil {
		return err
	}
	if item.Status == StatusSold {
		return fmt.Errorf("%w: item %s is sold and cannot be deleted", shared.ErrConflict, item.ItemID)
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	shared.NotifyChanged(ctx, s.cache, s.logger)
	return nil
}

// Stale lists in-stock items held longer than days, oldest first.
func (s *Service) Stale(ctx context.Context, days int) ([]StaleItem, error) {
	if days < 0 {
		return nil, shared.NewValidationError("days", "must not be negative")
	}
	today := shared.CalendarDate(s.now(), s.loc)
	items, err := s.repo.ListInStockBefore(ctx, today.AddDate(0, 0, -(days+1)))
	if err != nil {
		return nil, err
	}
	out := make([]StaleItem, 0, len(items))
	for _, it := range items {
		out = append(out, StaleItem{
			ID:           it.ID,
			ItemID:       it.ItemID,
			Model:        it.Model,
			PurchaseCost: it.PurchaseCost,
			PurchaseDate: it.PurchaseDate,
			DaysHeld:     shared.DaysBetween(it.PurchaseDate, today),
		})
	}
	return out, nil
}

func (s *Service) build(ctx context.Context, in ItemInput) (Item, error) {
	in.SupplierItemNumber = strings.TrimSpace(in.SupplierItemNumber)
	in.Model = strings.TrimSpace(in.Model)
	in.ScreenSize = shared.TrimPtr(in.ScreenSize)
	in.Chip = shared.TrimPtr(in.Chip)
	in.RAM = shared.TrimPtr(in.RAM)
	in.Storage = shared.TrimPtr(in.Storage)
	in.ConditionSummary = shared.TrimPtr(in.ConditionSummary)
	in.Notes = shared.TrimPtr(in.Notes)
	if in.ConditionGrade != nil {
		g := Grade(strings.ToUpper(strings.TrimSpace(string(*in.ConditionGrade))))
		in.ConditionGrade = &g
		if g == "" {
			in.ConditionGrade = nil
		}
	}
	if err := shared.Validate(in); err != nil {
		return Item{}, err
	}
	if in.Year != nil {
		maxYear := s.now().In(s.loc).Year() + 1
		if *in.Year < minModelYear || *in.Year > maxYear {
			return Item{}, shared.NewValidationError("year", fmt.Sprintf("must be between %d and %d", minModelYear, maxYear))
		}
	}
	purchaseDate, err := shared.ParseDate("purchase_date", in.PurchaseDate)
	if err != nil {
		return Item{}, err
	}

	code, err := s.repo.SupplierCode(ctx, in.SupplierID)
	if errors.Is(err, shared.ErrNotFound) {
		return Item{}, shared.NewValidationError("supplier_id", "supplier does not exist")
	}
	if err != nil {
		return Item{}, err
	}
	if in.PurchaseOrderID != nil {
		owner, err := s.repo.PurchaseOrderSupplier(ctx, *in.PurchaseOrderID)
		if errors.Is(err, shared.ErrNotFound) {
			return Item{}, shared.NewValidationError("purchase_order_id", "purchase order does not exist")
		}
		if err != nil {
			return Item{}, err
		}
		if owner != in.SupplierID {
			return Item{}, shared.NewValidationError("purchase_order_id", "purchase order belongs to a different supplier")
		}
	}

	return Item{
		ItemID:             BuildItemID(code, in.SupplierItemNumber),
		SupplierID:         in.SupplierID,
		SupplierItemNumber: in.SupplierItemNumber,
		PurchaseOrderID:    in.PurchaseOrderID,
		Model:              in.Model,
		ScreenSize:         in.ScreenSize,
		Chip:               in.Chip,
		RAM:                in.RAM,
		Storage:            in.Storage,
		Year:               in.Year,
		ConditionGrade:     in.ConditionGrade,
		ConditionSummary:   in.ConditionSummary,
		PurchaseCost:       in.PurchaseCost,
		PurchaseDate:       purchaseDate,
		Status:             in.Status,
		Notes:              in.Notes,
	}, nil
}
