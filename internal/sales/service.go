package sales

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/unitflow/unitflow/internal/shared"
)

// RepositoryPort abstracts sale persistence for the service.
type RepositoryPort interface {
	WithTx(ctx context.Context, fn func(context.Context, TxRepository) error) error
	List(ctx context.Context, filters ListFilters) ([]Sale, int, error)
	Get(ctx context.Context, id uuid.UUID) (Sale, error)
}

// Service records sales and keeps the sold item's status in step with them.
// Every sale write and its item status change commit in one transaction.
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

// List returns sales in the requested date range.
func (s *Service) List(ctx context.Context, rangeKey shared.RangeKey, filters ListFilters) ([]Sale, int, error) {
	r := shared.ResolveRange(rangeKey, s.now(), s.loc)
	filters.From, filters.To = r.From, r.To
	return s.repo.List(ctx, filters)
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (Sale, error) {
	return s.repo.Get(ctx, id)
}

// Create records a sale and marks its item sold.
func (s *Service) Create(ctx context.Context, in SaleInput) (Sale, error) {
	sale, err := fromInput(in)
	if err != nil {
		return Sale{}, err
	}

	var id uuid.UUID
	err = s.repo.WithTx(ctx, func(ctx context.Context, tx TxRepository) error {
		if err := checkCustomer(ctx, tx, sale.CustomerID); err != nil {
			return err
		}
		if err := claimItem(ctx, tx, sale.ItemID); err != nil {
			return err
		}
		var err error
		id, err = tx.InsertSale(ctx, sale)
		if err != nil {
			return err
		}
		return tx.MarkItemSold(ctx, sale.ItemID, sale.SaleDate)
	})
	if err != nil {
		return Sale{}, err
	}
	shared.NotifyChanged(ctx, s.cache, s.logger)
	s.logger.Info("sale recorded", slog.String("sale_id", id.String()), slog.String("item_id", sale.ItemID.String()))
	return s.repo.Get(ctx, id)
}

// Update rewrites a sale. Moving it to another item returns the old item to
// stock and marks the new one sold; a new sale date is copied to the item.
func (s *Service) Update(ctx context.Context, id uuid.UUID, in SaleInput) (Sale, error) {
	sale, err := fromInput(in)
	if err != nil {
		return Sale{}, err
	}
	sale.ID = id

	err = s.repo.WithTx(ctx, func(ctx context.Context, tx TxRepository) error {
		current, err := tx.LockSale(ctx, id)
		if err != nil {
			return err
		}
		if err := checkCustomer(ctx, tx, sale.CustomerID); err != nil {
			return err
		}
		if current.ItemID != sale.ItemID {
			if err := claimItem(ctx, tx, sale.ItemID); err != nil {
				return err
			}
			if err := tx.MarkItemInStock(ctx, current.ItemID); err != nil && !errors.Is(err, shared.ErrNotFound) {
				return err
			}
		}
		if err := tx.UpdateSale(ctx, sale); err != nil {
			return err
		}
		return tx.MarkItemSold(ctx, sale.ItemID, sale.SaleDate)
	})
	if err != nil {
		return Sale{}, err
	}
	shared.NotifyChanged(ctx, s.cache, s.logger)
	return s.repo.Get(ctx, id)
}

// Delete removes a sale and returns its item to stock with no sold date.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	err := s.repo.WithTx(ctx, func(ctx context.Context, tx TxRepository) error {
		current, err := tx.LockSale(ctx, id)
		if err != nil {
			return err
		}
		if err := tx.DeleteSale(ctx, id); err != nil {
			return err
		}
		if err := tx.MarkItemInStock(ctx, current.ItemID); err != nil && !errors.Is(err, shared.ErrNotFound) {
			return err
		}
		return nil
	})
	if err != nil {
		return err
	}
	shared.NotifyChanged(ctx, s.cache, s.logger)
	s.logger.Info("sale deleted", slog.String("sale_id", id.String()))
	return nil
}

// claimItem locks the item and refuses it when missing or already sold.
func claimItem(ctx context.Context, tx TxRepository, itemID uuid.UUID) error {
	item, err := tx.LockItem(ctx, itemID)
	if errors.Is(err, shared.ErrNotFound) {
		return shared.NewValidationError("item_id", "inventory item does not exist")
	}
	if err != nil {
		return err
	}
	if item.Status == itemStatusSold {
		return fmt.Errorf("%w: item %s is already sold", shared.ErrConflict, item.ItemCode)
	}
	return nil
}

func checkCustomer(ctx context.Context, tx TxRepository, customerID *uuid.UUID) error {
	if customerID == nil {
		return nil
	}
	ok, err := tx.CustomerExists(ctx, *customerID)
	if err != nil {
		return err
	}
	if !ok {
		return shared.NewValidationError("customer_id", "customer does not exist")
	}
	return nil
}

func fromInput(in SaleInput) (Sale, error) {
	in.Notes = shared.TrimPtr(in.Notes)
	if in.CustomerID != nil && *in.CustomerID == uuid.Nil {
		in.CustomerID = nil
	}
	if err := shared.Validate(in); err != nil {
		return Sale{}, err
	}
	date, err := shared.ParseDate("sale_date", in.SaleDate)
	if err != nil {
		return Sale{}, err
	}
	pm := in.PaymentMethod
	if pm == "" {
		pm = PaymentCash
	}
	ch := in.Channel
	if ch == "" {
		ch = ChannelInPerson
	}
	return Sale{
		ItemID:        in.ItemID,
		CustomerID:    in.CustomerID,
		SalePrice:     in.SalePrice,
		SaleDate:      date,
		PaymentMethod: pm,
		Channel:       ch,
		Notes:         in.Notes,
	}, nil
}
