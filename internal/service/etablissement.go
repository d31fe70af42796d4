package service

import (
	"context"
	"fmt"
	"strings"

	"sejour-pms/internal/domain"
	"sejour-pms/internal/logger"
	"sejour-pms/internal/repository"
	"sejour-pms/internal/utils"
)

type etablissementService struct {
	etabRepo    repository.EtablissementRepository
	chambreRepo repository.ChambreRepository
}

func NewEtablissementService(etabRepo repository.EtablissementRepository, chambreRepo repository.ChambreRepository) EtablissementService {
	return &etablissementService{
		etabRepo:    etabRepo,
		chambreRepo: chambreRepo,
	}
}

func (s *etablissementService) ListEtablissements(ctx context.Context, actifOnly bool) ([]domain.Etablissement, error) {
	list, err := s.etabRepo.List(ctx, actifOnly)
	if err != nil {
		return nil, err
	}
	if list == nil {
		list = []domain.Etablissement{}
	}
	return list, nil
}

func (s *etablissementService) GetEtablissement(ctx context.Context, id int32) (*domain.Etablissement, error) {
	e, err := s.etabRepo.GetByID(ctx, id)
	if err != nil {
		return nil, notFound(err, "etablissement", id)
	}
	return e, nil
}

func (s *etablissementService) CreateEtablissement(ctx context.Context, e *domain.Etablissement) error {
	if err := validateEtablissement(e); err != nil {
		return err
	}
	return s.etabRepo.Create(ctx, e)
}

func (s *etablissementService) UpdateEtablissement(ctx context.Context, e *domain.Etablissement) error {
	if err := validateEtablissement(e); err != nil {
		return err
	}
	if err := s.etabRepo.Update(ctx, e); err != nil {
		return notFound(err, "etablissement", e.ID)
	}
	return nil
}

func validateEtablissement(e *domain.Etablissement) error {
	e.NomEtablissement = strings.TrimSpace(e.NomEtablissement)
	if e.NomEtablissement == "" {
		return fmt.Errorf("%w: nom_etablissement is required", ErrValidation)
	}
	if e.TauxTaxeSejour.IsNegative() {
		return fmt.Errorf("%w: taux_taxe_sejour must not be negative", ErrValidation)
	}
	if e.FormatNumeroReservation != "" && !strings.Contains(e.FormatNumeroReservation, "{NUM}") {
		return fmt.Errorf("%w: format_numero_reservation must contain {NUM}", ErrValidation)
	}
	return nil
}

func (s *etablissementService) ListChambres(ctx context.Context, etablissementID int32) ([]domain.Chambre, error) {
	list, err := s.chambreRepo.List(ctx, etablissementID)
	if err != nil {
		return nil, err
	}
	if list == nil {
		list = []domain.Chambre{}
	}
	return list, nil
}

func (s *etablissementService) ListAvailableChambres(ctx context.Context, etablissementID int32, dateDebut, dateFin string) ([]domain.Chambre, error) {
	if dateDebut == "" || dateFin == "" {
		return nil, fmt.Errorf("%w: date_debut and date_fin are required", ErrValidation)
	}
	nights, err := utils.NightsBetween(dateDebut, dateFin)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}
	if nights == 0 {
		return nil, fmt.Errorf("%w: empty period", ErrValidation)
	}
	list, err := s.chambreRepo.ListAvailable(ctx, etablissementID, dateDebut, dateFin)
	if err != nil {
		return nil, err
	}
	if list == nil {
		list = []domain.Chambre{}
	}
	return list, nil
}

func validateChambre(c *domain.Chambre) error {
	c.Nom = strings.TrimSpace(c.Nom)
	if c.Nom == "" {
		return fmt.Errorf("%w: nom is required", ErrValidation)
	}
	if c.Capacite < 0 {
		return fmt.Errorf("%w: capacite must not be negative", ErrValidation)
	}
	if c.PrixParNuit.IsNegative() {
		return fmt.Errorf("%w: prix_par_nuit must not be negative", ErrValidation)
	}
	switch c.Statut {
	case "":
		c.Statut = domain.ChambreStatusDisponible
	case domain.ChambreStatusDisponible, domain.ChambreStatusOccupee, domain.ChambreStatusMaintenance:
	default:
		return fmt.Errorf("%w: unknown statut %q", ErrValidation, c.Statut)
	}
	return nil
}

func (s *etablissementService) CreateChambre(ctx context.Context, c *domain.Chambre) error {
	if err := validateChambre(c); err != nil {
		return err
	}
	if _, err := s.etabRepo.GetByID(ctx, c.EtablissementID); err != nil {
		return notFound(err, "etablissement", c.EtablissementID)
	}
	return s.chambreRepo.Create(ctx, c)
}

func (s *etablissementService) UpdateChambre(ctx context.Context, c *domain.Chambre) error {
	if err := validateChambre(c); err != nil {
		return err
	}
	if err := s.chambreRepo.Update(ctx, c); err != nil {
		return notFound(err, "chambre", c.ID)
	}
	return nil
}

func (s *etablissementService) DeleteChambre(ctx context.Context, id int32) error {
	if err := s.chambreRepo.Delete(ctx, id); err != nil {
		return notFound(err, "chambre", id)
	}
	logger.Info("Chambre deleted", "chambre_id", id)
	return nil
}
