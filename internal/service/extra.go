package service

import (
	"context"
	"fmt"
	"strings"

	"sejour-pms/internal/domain"
	"sejour-pms/internal/repository"
	"sejour-pms/internal/utils"
)

type extraService struct {
	extraRepo repository.ExtraRepository
	cache     CatalogCache
}

func NewExtraService(extraRepo repository.ExtraRepository, cache CatalogCache) ExtraService {
	if cache == nil {
		cache = NewNoopCatalogCache()
	}
	return &extraService{
		extraRepo: extraRepo,
		cache:     cache,
	}
}

func (s *extraService) ListExtras(ctx context.Context, etablissementID int32, actifOnly bool) ([]domain.Extra, error) {
	if extras, ok := s.cache.GetExtras(ctx, etablissementID, actifOnly); ok {
		return extras, nil
	}

	extras, err := s.extraRepo.List(ctx, etablissementID, actifOnly)
	if err != nil {
		return nil, err
	}
	if extras == nil {
		extras = []domain.Extra{}
	}
	s.cache.SetExtras(ctx, etablissementID, actifOnly, extras)
	return extras, nil
}

func (s *extraService) GetExtra(ctx context.Context, id int32) (*domain.Extra, error) {
	x, err := s.extraRepo.GetByID(ctx, id)
	if err != nil {
		return nil, notFound(err, "extra", id)
	}
	return x, nil
}

func validateExtra(x *domain.Extra) error {
	x.Nom = strings.TrimSpace(x.Nom)
	if x.Nom == "" {
		return fmt.Errorf("%w: nom is required", ErrValidation)
	}
	if x.EtablissementID == 0 {
		return fmt.Errorf("%w: etablissement_id is required", ErrValidation)
	}
	if x.PrixUnitaire.IsNegative() {
		return fmt.Errorf("%w: prix_unitaire must not be negative", ErrValidation)
	}
	if x.UniteMesure == "" {
		x.UniteMesure = domain.DefaultUniteMesure
	}
	return nil
}

func (s *extraService) CreateExtra(ctx context.Context, x *domain.Extra) error {
	if err := validateExtra(x); err != nil {
		return err
	}
	if err := s.extraRepo.Create(ctx, x); err != nil {
		return err
	}
	s.cache.InvalidateExtras(ctx, x.EtablissementID)
	return nil
}

func (s *extraService) UpdateExtra(ctx context.Context, x *domain.Extra) error {
	if err := validateExtra(x); err != nil {
		return err
	}
	existing, err := s.extraRepo.GetByID(ctx, x.ID)
	if err != nil {
		return notFound(err, "extra", x.ID)
	}
	if err := s.extraRepo.Update(ctx, x); err != nil {
		return notFound(err, "extra", x.ID)
	}
	s.cache.InvalidateExtras(ctx, x.EtablissementID)
	if existing.EtablissementID != x.EtablissementID {
		s.cache.InvalidateExtras(ctx, existing.EtablissementID)
	}
	return nil
}

// DeleteExtra deactivates the extra. Recorded consumption keeps its snapshot.
func (s *extraService) DeleteExtra(ctx context.Context, id int32) error {
	existing, err := s.extraRepo.GetByID(ctx, id)
	if err != nil {
		return notFound(err, "extra", id)
	}
	if err := s.extraRepo.Delete(ctx, id); err != nil {
		return notFound(err, "extra", id)
	}
	s.cache.InvalidateExtras(ctx, existing.EtablissementID)
	return nil
}

func (s *extraService) GetSummary(ctx context.Context, etablissementID int32, dateDebut, dateFin string) ([]domain.ExtraSummary, error) {
	for _, d := range []string{dateDebut, dateFin} {
		if d == "" {
			continue
		}
		if _, err := utils.ParseDate(d); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrValidation, err)
		}
	}
	summary, err := s.extraRepo.Summary(ctx, etablissementID, dateDebut, dateFin)
	if err != nil {
		return nil, err
	}
	if summary == nil {
		summary = []domain.ExtraSummary{}
	}
	return summary, nil
}
