package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"sejour-pms/internal/domain"
	"sejour-pms/internal/logger"
	"sejour-pms/internal/repository"

	"github.com/go-playground/validator/v10"
)

type consommationService struct {
	consoRepo  repository.ConsommationRepository
	sejourRepo repository.SejourRepository
	extraRepo  repository.ExtraRepository
	validate   *validator.Validate
}

func NewConsommationService(
	consoRepo repository.ConsommationRepository,
	sejourRepo repository.SejourRepository,
	extraRepo repository.ExtraRepository,
) ConsommationService {
	return &consommationService{
		consoRepo:  consoRepo,
		sejourRepo: sejourRepo,
		extraRepo:  extraRepo,
		validate:   validator.New(),
	}
}

// openSejour loads the stay and fails when it no longer accepts changes.
func (s *consommationService) openSejour(ctx context.Context, sejourID int32) (*domain.Sejour, error) {
	sejour, err := s.sejourRepo.GetByID(ctx, sejourID)
	if err != nil {
		return nil, notFound(err, "sejour", sejourID)
	}
	if sejour.IsClosed() {
		return nil, fmt.Errorf("sejour %d: %w", sejourID, ErrSejourClosed)
	}
	return sejour, nil
}

func (s *consommationService) ListConsommations(ctx context.Context, sejourID int32) ([]domain.Consommation, error) {
	if _, err := s.sejourRepo.GetByID(ctx, sejourID); err != nil {
		return nil, notFound(err, "sejour", sejourID)
	}
	list, err := s.consoRepo.ListBySejour(ctx, sejourID)
	if err != nil {
		return nil, err
	}
	if list == nil {
		list = []domain.Consommation{}
	}
	return list, nil
}

// checkExtra verifies the extra can be billed on a stay of the property.
func (s *consommationService) checkExtra(ctx context.Context, sejour *domain.Sejour, extraID int32) error {
	extra, err := s.extraRepo.GetByID(ctx, extraID)
	if err != nil {
		return notFound(err, "extra", extraID)
	}
	if !extra.Actif {
		return fmt.Errorf("%w: extra %d is inactive", ErrValidation, extraID)
	}
	if extra.EtablissementID != sejour.EtablissementID {
		return fmt.Errorf("%w: extra %d belongs to another etablissement", ErrValidation, extraID)
	}
	return nil
}

func (s *consommationService) AddConsommation(ctx context.Context, sejourID, extraID, quantite int32) (*domain.Consommation, error) {
	if quantite <= 0 {
		return nil, ErrInvalidQuantity
	}
	sejour, err := s.openSejour(ctx, sejourID)
	if err != nil {
		return nil, err
	}
	if err := s.checkExtra(ctx, sejour, extraID); err != nil {
		return nil, err
	}

	c := &domain.Consommation{
		SejourID: sejourID,
		ExtraID:  extraID,
		Quantite: quantite,
	}
	if err := s.consoRepo.Create(ctx, c); err != nil {
		return nil, err
	}
	logger.Info("Consommation added", "sejour_id", sejourID, "extra_id", extraID, "quantite", quantite)
	return c, nil
}

func (s *consommationService) UpdateConsommation(ctx context.Context, id, quantite int32) error {
	if quantite <= 0 {
		return ErrInvalidQuantity
	}
	c, err := s.consoRepo.GetByID(ctx, id)
	if err != nil {
		return notFound(err, "consommation", id)
	}
	if _, err := s.openSejour(ctx, c.SejourID); err != nil {
		return err
	}
	if err := s.consoRepo.UpdateQuantite(ctx, id, quantite); err != nil {
		return notFound(err, "consommation", id)
	}
	return nil
}

func (s *consommationService) DeleteConsommation(ctx context.Context, id int32) error {
	c, err := s.consoRepo.GetByID(ctx, id)
	if err != nil {
		return notFound(err, "consommation", id)
	}
	if _, err := s.openSejour(ctx, c.SejourID); err != nil {
		return err
	}
	if err := s.consoRepo.Delete(ctx, id); err != nil {
		return notFound(err, "consommation", id)
	}
	return nil
}

func (s *consommationService) ApplyBatch(ctx context.Context, sejourID int32, ops []domain.ConsommationOp) ([]domain.Consommation, error) {
	logger.EnterMethod("consommationService.ApplyBatch", "sejour_id", sejourID, "ops", len(ops))

	for i := range ops {
		if ops[i].Quantite <= 0 {
			return nil, fmt.Errorf("line %d: %w", i+1, ErrInvalidQuantity)
		}
		if err := s.validate.Struct(ops[i]); err != nil {
			return nil, fmt.Errorf("%w: line %d: %v", ErrValidation, i+1, err)
		}
	}

	sejour, err := s.openSejour(ctx, sejourID)
	if err != nil {
		logger.ExitMethodWithError("consommationService.ApplyBatch", err)
		return nil, err
	}
	for _, op := range ops {
		if op.Op == domain.ConsommationOpCreate {
			if err := s.checkExtra(ctx, sejour, op.ExtraID); err != nil {
				return nil, err
			}
		}
	}

	if len(ops) > 0 {
		if err := s.consoRepo.ApplyBatch(ctx, sejourID, ops); err != nil {
			logger.ExitMethodWithError("consommationService.ApplyBatch", err, "sejour_id", sejourID)
			if errors.Is(err, repository.ErrSejourClosed) {
				return nil, fmt.Errorf("sejour %d: %w", sejourID, ErrSejourClosed)
			}
			if errors.Is(err, sql.ErrNoRows) {
				return nil, fmt.Errorf("consommation of sejour %d: %w", sejourID, ErrNotFound)
			}
			return nil, err
		}
	}

	list, err := s.consoRepo.ListBySejour(ctx, sejourID)
	if err != nil {
		return nil, err
	}
	if list == nil {
		list = []domain.Consommation{}
	}
	logger.ExitMethod("consommationService.ApplyBatch", "sejour_id", sejourID, "lines", len(list))
	return list, nil
}
