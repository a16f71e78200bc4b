package suppliers

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/unitflow/unitflow/internal/shared"
)

// RepositoryPort abstracts supplier persistence for the service.
type RepositoryPort interface {
	List(ctx context.Context, filters ListFilters) ([]Supplier, int, error)
	Get(ctx context.Context, id uuid.UUID) (Supplier, error)
	Create(ctx context.Context, s Supplier) (Supplier, error)
	Update(ctx context.Context, s Supplier) (Supplier, error)
}

// Service implements supplier use cases.
type Service struct {
	repo RepositoryPort
}

// NewService builds Service.
func NewService(repo RepositoryPort) *Service {
	return &Service{repo: repo}
}

func (s *Service) List(ctx context.Context, filters ListFilters) ([]Supplier, int, error) {
	return s.repo.List(ctx, filters)
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (Supplier, error) {
	return s.repo.Get(ctx, id)
}

// Create validates and stores a new supplier. Codes are stored upper case.
func (s *Service) Create(ctx context.Context, in SupplierInput) (Supplier, error) {
	sup, err := fromInput(in)
	if err != nil {
		return Supplier{}, err
	}
	return s.repo.Create(ctx, sup)
}

// Update replaces an existing supplier.
func (s *Service) Update(ctx context.Context, id uuid.UUID, in SupplierInput) (Supplier, error) {
	sup, err := fromInput(in)
	if err != nil {
		return Supplier{}, err
	}
	if _, err := s.repo.Get(ctx, id); err != nil {
		return Supplier{}, err
	}
	sup.ID = id
	return s.repo.Update(ctx, sup)
}

func fromInput(in SupplierInput) (Supplier, error) {
	in.Code = strings.ToUpper(strings.TrimSpace(in.Code))
	in.Name = strings.TrimSpace(in.Name)
	in.ContactName = shared.TrimPtr(in.ContactName)
	in.Email = shared.TrimPtr(in.Email)
	in.Phone = shared.TrimPtr(in.Phone)
	in.Website = shared.TrimPtr(in.Website)
	in.Notes = shared.TrimPtr(in.Notes)
	if err := shared.Validate(in); err != nil {
		return Supplier{}, err
	}
	typ := in.Type
	if typ == "" {
		typ = TypeOther
	}
	active := true
	if in.IsActive != nil {
		active = *in.IsActive
	}
	return Supplier{
		Code:        in.Code,
		Name:        in.Name,
		Type:        typ,
		ContactName: in.ContactName,
		Email:       in.Email,
		Phone:       in.Phone,
		Website:     in.Website,
		Notes:       in.Notes,
		IsActive:    active,
	}, nil
}
