package customers

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/unitflow/unitflow/internal/shared"
)

// RepositoryPort abstracts customer persistence.
type RepositoryPort interface {
	List(ctx context.Context, filters ListFilters) ([]Customer, int, error)
	Get(ctx context.Context, id uuid.UUID) (Customer, error)
	Create(ctx context.Context, c Customer) (Customer, error)
	Update(ctx context.Context, c Customer) (Customer, error)
}

// Service implements customer use cases.
type Service struct {
	repo  RepositoryPort
	cache shared.Invalidator
}

// NewService builds Service. Customer names feed the dashboard, so writes
// bump cache when it is set.
func NewService(repo RepositoryPort, cache shared.Invalidator) *Service {
	return &Service{repo: repo, cache: cache}
}

func (s *Service) List(ctx context.Context, filters ListFilters) ([]Customer, int, error) {
	return s.repo.List(ctx, filters)
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (Customer, error) {
	return s.repo.Get(ctx, id)
}

func (s *Service) Create(ctx context.Context, in CustomerInput) (Customer, error) {
	c, err := fromInput(in)
	if err != nil {
		return Customer{}, err
	}
	return s.repo.Create(ctx, c)
}

func (s *Service) Update(ctx context.Context, id uuid.UUID, in CustomerInput) (Customer, error) {
	c, err := fromInput(in)
	if err != nil {
		return Customer{}, err
	}
	if _, err := s.repo.Get(ctx, id); err != nil {
		return Customer{}, err
	}
	c.ID = id
	updated, err := s.repo.Update(ctx, c)
	if err != nil {
		return Customer{}, err
	}
	shared.NotifyChanged(ctx, s.cache, nil)
	return updated, nil
}

func fromInput(in CustomerInput) (Customer, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Phone = shared.TrimPtr(in.Phone)
	in.Email = shared.TrimPtr(in.Email)
	in.Notes = shared.TrimPtr(in.Notes)
	if in.Source != nil && strings.TrimSpace(string(*in.Source)) == "" {
		in.Source = nil
	}
	if err := shared.Validate(in); err != nil {
		return Customer{}, err
	}
	typ := in.Type
	if typ == "" {
		typ = TypeIndividual
	}
	return Customer{
		Name:   in.Name,
		Phone:  in.Phone,
		Email:  in.Email,
		Type:   typ,
		Source: in.Source,
		Notes:  in.Notes,
	}, nil
}
