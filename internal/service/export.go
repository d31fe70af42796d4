package service

import (
	"context"
	"fmt"
	"io"

	"sejour-pms/internal/logger"
	"sejour-pms/internal/repository"

	"github.com/xuri/excelize/v2"
)

const clientsSheet = "Clients"

var clientColumns = []string{
	"Nom", "Prénom", "Email", "Téléphone", "Pays",
	"N° réservation", "Établissement", "Arrivée", "Départ", "Contact principal",
}

type exportService struct {
	personneRepo repository.PersonneRepository
}

func NewExportService(personneRepo repository.PersonneRepository) ExportService {
	return &exportService{personneRepo: personneRepo}
}

func (s *exportService) ExportClients(ctx context.Context, search string, w io.Writer) (int, error) {
	clients, err := s.personneRepo.SearchClients(ctx, search)
	if err != nil {
		return 0, err
	}

	f := excelize.NewFile()
	defer func() {
		if err := f.Close(); err != nil {
			logger.Warn("Failed to close workbook", "error", err)
		}
	}()

	if err := f.SetSheetName("Sheet1", clientsSheet); err != nil {
		return 0, err
	}

	header, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"1E3A8A"}, Pattern: 1},
	})
	if err != nil {
		return 0, err
	}

	for i, title := range clientColumns {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return 0, err
		}
		if err := f.SetCellValue(clientsSheet, cell, title); err != nil {
			return 0, err
		}
	}
	last, _ := excelize.CoordinatesToCellName(len(clientColumns), 1)
	if err := f.SetCellStyle(clientsSheet, "A1", last, header); err != nil {
		return 0, err
	}

	for r, c := range clients {
		principal := "Non"
		if c.EstContactPrincipal {
			principal = "Oui"
		}
		row := []interface{}{
			c.Nom, c.Prenom, c.Email, c.Telephone, c.Pays,
			c.NumeroReservation, c.NomEtablissement, c.DateArrivee, c.DateDepart, principal,
		}
		cell, err := excelize.CoordinatesToCellName(1, r+2)
		if err != nil {
			return 0, err
		}
		if err := f.SetSheetRow(clientsSheet, cell, &row); err != nil {
			return 0, fmt.Errorf("failed to write row %d: %w", r+2, err)
		}
	}

	lastCol, _ := excelize.ColumnNumberToName(len(clientColumns))
	if err := f.SetColWidth(clientsSheet, "A", lastCol, 20); err != nil {
		return 0, err
	}

	if err := f.Write(w); err != nil {
		return 0, fmt.Errorf("failed to write workbook: %w", err)
	}
	logger.Info("Clients exported", "rows", len(clients), "search", search)
	return len(clients), nil
}
