package purchaseorders

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/unitflow/unitflow/internal/shared"
)

// RepositoryPort abstracts purchase order persistence.
type RepositoryPort interface {
	List(ctx context.Context, filters ListFilters) ([]PurchaseOrder, int, error)
	Get(ctx context.Context, id uuid.UUID) (PurchaseOrder, error)
	SupplierExists(ctx context.Context, id uuid.UUID) (bool, error)
	Create(ctx context.Context, po PurchaseOrder) (PurchaseOrder, error)
	Update(ctx context.Context, po PurchaseOrder) (PurchaseOrder, error)
}

// Service implements purchase order use cases.
type Service struct {
	repo RepositoryPort
}

// NewService builds Service.
func NewService(repo RepositoryPort) *Service {
	return &Service{repo: repo}
}

func (s *Service) List(ctx context.Context, filters ListFilters) ([]PurchaseOrder, int, error) {
	return s.repo.List(ctx, filters)
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (PurchaseOrder, error) {
	return s.repo.Get(ctx, id)
}

func (s *Service) Create(ctx context.Context, in PurchaseOrderInput) (PurchaseOrder, error) {
	po, err := s.build(ctx, in)
	if err != nil {
		return PurchaseOrder{}, err
	}
	return s.repo.Create(ctx, po)
}

func (s *Service) Update(ctx context.Context, id uuid.UUID, in PurchaseOrderInput) (PurchaseOrder, error) {
	if _, err := s.repo.Get(ctx, id); err != nil {
		return PurchaseOrder{}, err
	}
	po, err := s.build(ctx, in)
	if err != nil {
		return PurchaseOrder{}, err
	}
	po.ID = id
	return s.repo.Update(ctx, po)
}

func (s *Service) build(ctx context.Context, in PurchaseOrderInput) (PurchaseOrder, error) {
	in.Number = strings.TrimSpace(in.Number)
	in.Notes = shared.TrimPtr(in.Notes)
	in.ExpectedDeliveryDate = shared.TrimPtr(in.ExpectedDeliveryDate)
	in.DeliveryDate = shared.TrimPtr(in.DeliveryDate)
	if err := shared.Validate(in); err != nil {
		return PurchaseOrder{}, err
	}

	orderDate, err := shared.ParseDate("order_date", in.OrderDate)
	if err != nil {
		return PurchaseOrder{}, err
	}
	expected, err := shared.ParseOptionalDate("expected_delivery_date", in.ExpectedDeliveryDate)
	if err != nil {
		return PurchaseOrder{}, err
	}
	delivered, err := shared.ParseOptionalDate("delivery_date", in.DeliveryDate)
	if err != nil {
		return PurchaseOrder{}, err
	}
	if delivered != nil && delivered.Before(orderDate) {
		return PurchaseOrder{}, shared.NewValidationError("delivery_date", "must not precede order_date")
	}

	ok, err := s.repo.SupplierExists(ctx, in.SupplierID)
	if err != nil {
		return PurchaseOrder{}, fmt.Errorf("check supplier: %w", err)
	}
	if !ok {
		return PurchaseOrder{}, shared.NewValidationError("supplier_id", "supplier does not exist")
	}

	status := in.Status
	if status == "" {
		status = StatusPending
	}
	return PurchaseOrder{
		Number:               in.Number,
		SupplierID:           in.SupplierID,
		OrderDate:            orderDate,
		ExpectedDeliveryDate: expected,
		DeliveryDate:         delivered,
		Status:               status,
		TotalAmount:          in.TotalAmount,
		Notes:                in.Notes,
	}, nil
}
