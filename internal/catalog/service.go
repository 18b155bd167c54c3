package catalog

import (
	"context"
	"errors"
	"strings"

	"github.com/angelmondragon/scrappickup-backend/pkg/db/models"
	pkgerrors "github.com/angelmondragon/scrappickup-backend/pkg/errors"
	"github.com/google/uuid"
)

// Service exposes catalog reads.
type Service interface {
	List(ctx context.Context, location string) ([]ProductDTO, error)
	Resolve(ctx context.Context, location string, ids []uuid.UUID) (map[uuid.UUID]models.Product, error)
}

type service struct {
	repo Repository
}

// NewService builds the catalog service.
func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, errors.New("catalog repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) List(ctx context.Context, location string) ([]ProductDTO, error) {
	location = strings.TrimSpace(location)
	if location == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "location is required")
	}
	rows, err := s.repo.ListActive(ctx, location)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list catalog")
	}
	out := make([]ProductDTO, 0, len(rows))
	for _, row := range rows {
		out = append(out, FromModel(row))
	}
	return out, nil
}

// Resolve loads ids and checks that every one is an active product of
// location. The error details list the offending ids.
func (s *service) Resolve(ctx context.Context, location string, ids []uuid.UUID) (map[uuid.UUID]models.Product, error) {
	location = strings.TrimSpace(location)
	if location == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "location is required")
	}
	rows, err := s.repo.FindByIDs(ctx, ids)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load products")
	}

	found := make(map[uuid.UUID]models.Product, len(rows))
	for _, row := range rows {
		if row.Active && row.Location == location {
			found[row.ID] = row
		}
	}

	var unavailable []string
	for _, id := range ids {
		if _, ok := found[id]; !ok {
			unavailable = append(unavailable, id.String())
		}
	}
	if len(unavailable) > 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "products unavailable at location").
			WithDetails(map[string]any{"productIds": unavailable})
	}
	return found, nil
}
