package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"sejour-pms/internal/domain"
	"sejour-pms/internal/logger"
	"sejour-pms/internal/repository"
	"sejour-pms/internal/utils"
)

type sejourService struct {
	sejourRepo   repository.SejourRepository
	etabRepo     repository.EtablissementRepository
	personneRepo repository.PersonneRepository
	chambreRepo  repository.ChambreRepository
	consoRepo    repository.ConsommationRepository
	now          func() time.Time
}

func NewSejourService(
	sejourRepo repository.SejourRepository,
	etabRepo repository.EtablissementRepository,
	personneRepo repository.PersonneRepository,
	chambreRepo repository.ChambreRepository,
	consoRepo repository.ConsommationRepository,
) SejourService {
	return &sejourService{
		sejourRepo:   sejourRepo,
		etabRepo:     etabRepo,
		personneRepo: personneRepo,
		chambreRepo:  chambreRepo,
		consoRepo:    consoRepo,
		now:          time.Now,
	}
}

func (s *sejourService) ListSejours(ctx context.Context, filter domain.SejourFilter) ([]domain.Sejour, error) {
	list, err := s.sejourRepo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	if list == nil {
		list = []domain.Sejour{}
	}
	return list, nil
}

func (s *sejourService) GetSejourDetail(ctx context.Context, id int32) (*domain.SejourDetail, error) {
	sejour, err := s.sejourRepo.GetByID(ctx, id)
	if err != nil {
		return nil, notFound(err, "sejour", id)
	}

	personnes, err := s.personneRepo.ListBySejour(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load personnes: %w", err)
	}
	chambres, err := s.chambreRepo.ListBySejour(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load chambres: %w", err)
	}
	extras, err := s.consoRepo.ListBySejour(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load consommations: %w", err)
	}

	detail := &domain.SejourDetail{
		Sejour:    sejour,
		Personnes: personnes,
		Chambres:  chambres,
		Extras:    extras,
	}
	if detail.Personnes == nil {
		detail.Personnes = []domain.Personne{}
	}
	if detail.Chambres == nil {
		detail.Chambres = []domain.Chambre{}
	}
	if detail.Extras == nil {
		detail.Extras = []domain.Consommation{}
	}
	return detail, nil
}

// prepare validates dates and money fields and derives nombre_jours.
func (s *sejourService) prepare(sejour *domain.Sejour, personnes []domain.Personne) error {
	if sejour.EtablissementID == 0 {
		return fmt.Errorf("%w: etablissement_id is required", ErrValidation)
	}
	nights, err := utils.NightsBetween(sejour.DateArrivee, sejour.DateDepart)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrValidation, err)
	}
	sejour.NombreJours = nights

	if sejour.FactureHebergement.IsNegative() || sejour.ChargePlateforme.IsNegative() || sejour.TaxeSejour.IsNegative() {
		return fmt.Errorf("%w: amounts must not be negative", ErrValidation)
	}

	principal := false
	for i := range personnes {
		if personnes[i].Nom == "" {
			return fmt.Errorf("%w: personne %d has no nom", ErrValidation, i+1)
		}
		principal = principal || personnes[i].EstContactPrincipal
	}
	if !principal && len(personnes) > 0 {
		personnes[0].EstContactPrincipal = true
	}
	return nil
}

func (s *sejourService) CreateSejour(ctx context.Context, sejour *domain.Sejour, personnes []domain.Personne) error {
	logger.EnterMethod("sejourService.CreateSejour", "etablissement_id", sejour.EtablissementID)

	if err := s.prepare(sejour, personnes); err != nil {
		logger.ExitMethodWithError("sejourService.CreateSejour", err)
		return err
	}
	if _, err := s.etabRepo.GetByID(ctx, sejour.EtablissementID); err != nil {
		return notFound(err, "etablissement", sejour.EtablissementID)
	}
	if sejour.NumeroReservation == "" {
		numero, err := s.GenerateNumeroReservation(ctx, sejour.EtablissementID)
		if err != nil {
			return err
		}
		sejour.NumeroReservation = numero
	}
	sejour.Statut = domain.SejourStatusActive

	if err := s.sejourRepo.Create(ctx, sejour); err != nil {
		logger.ExitMethodWithError("sejourService.CreateSejour", err)
		return err
	}
	if len(personnes) > 0 {
		if err := s.personneRepo.ReplaceForSejour(ctx, sejour.ID, personnes); err != nil {
			logger.ExitMethodWithError("sejourService.CreateSejour", err, "sejour_id", sejour.ID)
			return fmt.Errorf("failed to save personnes: %w", err)
		}
	}

	logger.ExitMethod("sejourService.CreateSejour", "sejour_id", sejour.ID, "numero", sejour.NumeroReservation)
	return nil
}

// UpdateSejour rewrites the stay and, when personnes is non-nil, its
// occupants. Lifecycle fields are not touched; closing goes through
// CloseSejour.
func (s *sejourService) UpdateSejour(ctx context.Context, sejour *domain.Sejour, personnes []domain.Personne) error {
	existing, err := s.sejourRepo.GetByID(ctx, sejour.ID)
	if err != nil {
		return notFound(err, "sejour", sejour.ID)
	}
	if err := s.prepare(sejour, personnes); err != nil {
		return err
	}
	if sejour.NumeroReservation == "" {
		sejour.NumeroReservation = existing.NumeroReservation
	}
	sejour.Statut = existing.Statut
	if sejour.Statut == domain.SejourStatusActive && sejour.IsClosed() {
		sejour.Statut = domain.SejourStatusClosed
	}

	if err := s.sejourRepo.Update(ctx, sejour); err != nil {
		return notFound(err, "sejour", sejour.ID)
	}
	if personnes != nil {
		if err := s.personneRepo.ReplaceForSejour(ctx, sejour.ID, personnes); err != nil {
			return fmt.Errorf("failed to save personnes: %w", err)
		}
	}
	sejour.ClosedAt = existing.ClosedAt
	sejour.ClosedBy = existing.ClosedBy
	return nil
}

func (s *sejourService) DeleteSejour(ctx context.Context, id int32) error {
	if err := s.sejourRepo.Delete(ctx, id); err != nil {
		return notFound(err, "sejour", id)
	}
	return nil
}

func (s *sejourService) CloseSejour(ctx context.Context, id int32, closedBy string) (*domain.Sejour, error) {
	logger.EnterMethod("sejourService.CloseSejour", "sejour_id", id)

	sejour, err := s.sejourRepo.GetByID(ctx, id)
	if err != nil {
		err = notFound(err, "sejour", id)
		logger.ExitMethodWithError("sejourService.CloseSejour", err)
		return nil, err
	}
	if sejour.IsClosed() {
		return nil, fmt.Errorf("sejour %d: %w", id, ErrAlreadyClosed)
	}

	closedAt, err := s.sejourRepo.Close(ctx, id, closedBy)
	if err != nil {
		// Lost a race with another close.
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("sejour %d: %w", id, ErrAlreadyClosed)
		}
		logger.ExitMethodWithError("sejourService.CloseSejour", err)
		return nil, err
	}

	sejour.Statut = domain.SejourStatusClosed
	sejour.ClosedAt = &closedAt
	sejour.ClosedBy = closedBy

	logger.ExitMethod("sejourService.CloseSejour", "sejour_id", id)
	return sejour, nil
}

func (s *sejourService) GenerateNumeroReservation(ctx context.Context, etablissementID int32) (string, error) {
	etab, err := s.etabRepo.GetByID(ctx, etablissementID)
	if err != nil {
		return "", notFound(err, "etablissement", etablissementID)
	}
	seq, err := s.etabRepo.NextSequence(ctx, etablissementID)
	if err != nil {
		return "", fmt.Errorf("failed to advance reservation sequence: %w", err)
	}
	format := etab.FormatNumeroReservation
	if format == "" {
		format = domain.DefaultFormatNumeroReservation
	}
	return utils.FormatReservationNumber(format, s.now(), seq), nil
}

// ListStaleSejours returns active stays whose departure date is before asOf.
func (s *sejourService) ListStaleSejours(ctx context.Context, asOf time.Time) ([]domain.Sejour, error) {
	return s.sejourRepo.ListActiveDepartedBefore(ctx, asOf.Format(utils.DateLayout))
}
