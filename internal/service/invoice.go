package service

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"sejour-pms/internal/domain"
	"sejour-pms/internal/logger"
	"sejour-pms/internal/repository"
	"sejour-pms/internal/storage"

	"github.com/go-pdf/fpdf"
	"github.com/shopspring/decimal"
)

// Invoice is a rendered PDF invoice of a closed stay.
type Invoice struct {
	Numero     string
	Filename   string
	PDF        []byte
	ArchiveKey string
}

type InvoiceLine struct {
	Description  string
	Quantite     decimal.Decimal
	PrixUnitaire decimal.Decimal
	Montant      decimal.Decimal
}

// InvoiceData holds everything printed on an invoice.
type InvoiceData struct {
	Numero        string
	Devise        string
	Etablissement *domain.Etablissement
	Sejour        *domain.Sejour
	Client        *domain.Personne
	Lines         []InvoiceLine
	Total         decimal.Decimal
}

// BuildInvoice computes invoice lines: lodging, every consumption, then the
// platform fee and tourist tax when non-zero.
func BuildInvoice(etab *domain.Etablissement, sejour *domain.Sejour, personnes []domain.Personne, extras []domain.Consommation) *InvoiceData {
	data := &InvoiceData{
		Numero:        sejour.NumeroReservation,
		Devise:        etab.Devise,
		Etablissement: etab,
		Sejour:        sejour,
	}
	if data.Devise == "" {
		data.Devise = domain.DefaultDevise
	}
	for i := range personnes {
		if personnes[i].EstContactPrincipal {
			data.Client = &personnes[i]
			break
		}
	}
	if data.Client == nil && len(personnes) > 0 {
		data.Client = &personnes[0]
	}

	nuits := decimal.NewFromInt32(sejour.NombreJours)
	parNuit := sejour.FactureHebergement
	if sejour.NombreJours > 0 {
		parNuit = sejour.FactureHebergement.Div(nuits).Round(2)
	}
	data.Lines = append(data.Lines, InvoiceLine{
		Description:  "Hébergement",
		Quantite:     nuits,
		PrixUnitaire: parNuit,
		Montant:      sejour.FactureHebergement,
	})

	for _, x := range extras {
		data.Lines = append(data.Lines, InvoiceLine{
			Description:  x.Nom,
			Quantite:     decimal.NewFromInt32(x.Quantite),
			PrixUnitaire: x.PrixUnitaire,
			Montant:      domain.LineTotal(x.PrixUnitaire, x.Quantite),
		})
	}

	if sejour.ChargePlateforme.IsPositive() {
		data.Lines = append(data.Lines, InvoiceLine{
			Description:  "Frais de plateforme",
			Quantite:     decimal.NewFromInt(1),
			PrixUnitaire: sejour.ChargePlateforme,
			Montant:      sejour.ChargePlateforme,
		})
	}
	if sejour.TaxeSejour.IsPositive() {
		data.Lines = append(data.Lines, InvoiceLine{
			Description:  "Taxe de séjour",
			Quantite:     decimal.NewFromInt(1),
			PrixUnitaire: sejour.TaxeSejour,
			Montant:      sejour.TaxeSejour,
		})
	}

	total := decimal.Zero
	for _, l := range data.Lines {
		total = total.Add(l.Montant)
	}
	data.Total = total
	return data
}

type invoiceService struct {
	sejourRepo   repository.SejourRepository
	etabRepo     repository.EtablissementRepository
	personneRepo repository.PersonneRepository
	consoRepo    repository.ConsommationRepository
	storage      storage.StorageInterface
	email        EmailService
}

// NewInvoiceService builds the invoice service. archive may be nil, in which
// case rendered invoices are not kept.
func NewInvoiceService(
	sejourRepo repository.SejourRepository,
	etabRepo repository.EtablissementRepository,
	personneRepo repository.PersonneRepository,
	consoRepo repository.ConsommationRepository,
	archive storage.StorageInterface,
	email EmailService,
) InvoiceService {
	return &invoiceService{
		sejourRepo:   sejourRepo,
		etabRepo:     etabRepo,
		personneRepo: personneRepo,
		consoRepo:    consoRepo,
		storage:      archive,
		email:        email,
	}
}

func (s *invoiceService) load(ctx context.Context, sejourID int32) (*InvoiceData, error) {
	sejour, err := s.sejourRepo.GetByID(ctx, sejourID)
	if err != nil {
		return nil, notFound(err, "sejour", sejourID)
	}
	if !sejour.IsClosed() {
		return nil, fmt.Errorf("sejour %d: %w", sejourID, ErrSejourNotClosed)
	}
	etab, err := s.etabRepo.GetByID(ctx, sejour.EtablissementID)
	if err != nil {
		return nil, notFound(err, "etablissement", sejour.EtablissementID)
	}
	personnes, err := s.personneRepo.ListBySejour(ctx, sejourID)
	if err != nil {
		return nil, fmt.Errorf("failed to load personnes: %w", err)
	}
	extras, err := s.consoRepo.ListBySejour(ctx, sejourID)
	if err != nil {
		return nil, fmt.Errorf("failed to load consommations: %w", err)
	}
	return BuildInvoice(etab, sejour, personnes, extras), nil
}

func (s *invoiceService) GenerateInvoice(ctx context.Context, sejourID int32) (*Invoice, error) {
	logger.EnterMethod("invoiceService.GenerateInvoice", "sejour_id", sejourID)

	data, err := s.load(ctx, sejourID)
	if err != nil {
		logger.ExitMethodWithError("invoiceService.GenerateInvoice", err)
		return nil, err
	}

	var buf bytes.Buffer
	if err := RenderInvoicePDF(data, &buf); err != nil {
		logger.ExitMethodWithError("invoiceService.GenerateInvoice", err)
		return nil, fmt.Errorf("failed to render invoice: %w", err)
	}

	inv := &Invoice{
		Numero:   data.Numero,
		Filename: fmt.Sprintf("facture_%s.pdf", data.Numero),
		PDF:      buf.Bytes(),
	}

	if s.storage != nil {
		key := fmt.Sprintf("factures/%d/%s", data.Sejour.EtablissementID, inv.Filename)
		if err := s.storage.Save(ctx, key, bytes.NewReader(inv.PDF)); err != nil {
			// The invoice is still returned; only the archive copy is lost.
			logger.Warn("Failed to archive invoice", "sejour_id", sejourID, "key", key, "error", err)
		} else {
			inv.ArchiveKey = key
		}
	}

	logger.ExitMethod("invoiceService.GenerateInvoice", "sejour_id", sejourID, "size", len(inv.PDF))
	return inv, nil
}

func (s *invoiceService) SendInvoice(ctx context.Context, sejourID int32, email string) (string, error) {
	inv, err := s.GenerateInvoice(ctx, sejourID)
	if err != nil {
		return "", err
	}
	personnes, err := s.personneRepo.ListBySejour(ctx, sejourID)
	if err != nil {
		return "", fmt.Errorf("failed to load personnes: %w", err)
	}

	var clientName string
	for _, p := range personnes {
		if p.EstContactPrincipal {
			clientName = strings.TrimSpace(p.Prenom + " " + p.Nom)
			if email == "" {
				email = p.Email
			}
			break
		}
	}
	if email == "" {
		return "", fmt.Errorf("%w: no recipient email for sejour %d", ErrValidation, sejourID)
	}

	if err := s.email.SendInvoice(ctx, email, clientName, inv.Numero, inv.PDF); err != nil {
		return "", err
	}
	return email, nil
}

func formatMoney(d decimal.Decimal, devise string) string {
	return d.StringFixed(2) + " " + devise
}

// RenderInvoicePDF writes the A4 invoice to w.
func RenderInvoicePDF(data *InvoiceData, w io.Writer) error {
	pdf := fpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetTitle(tr("Facture "+data.Numero), false)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 18)
	pdf.CellFormat(0, 12, tr("FACTURE N° "+data.Numero), "", 1, "C", false, 0, "")
	pdf.Ln(4)

	etab := data.Etablissement
	pdf.SetFont("Helvetica", "B", 11)
	pdf.CellFormat(95, 6, tr(etab.NomEtablissement), "", 0, "L", false, 0, "")
	if data.Client != nil {
		pdf.CellFormat(95, 6, tr("Client: "+strings.TrimSpace(data.Client.Prenom+" "+data.Client.Nom)), "", 1, "R", false, 0, "")
	} else {
		pdf.Ln(6)
	}

	pdf.SetFont("Helvetica", "", 10)
	left := []string{etab.Adresse, strings.TrimSpace(etab.Ville + " " + etab.Pays), etab.Telephone, etab.Email}
	var right []string
	if data.Client != nil {
		right = []string{data.Client.Email, data.Client.Telephone, data.Client.Pays}
	}
	for i := 0; i < len(left) || i < len(right); i++ {
		var l, r string
		if i < len(left) {
			l = left[i]
		}
		if i < len(right) {
			r = right[i]
		}
		pdf.CellFormat(95, 5, tr(l), "", 0, "L", false, 0, "")
		pdf.CellFormat(95, 5, tr(r), "", 1, "R", false, 0, "")
	}
	if etab.NumeroIdentification != "" {
		pdf.CellFormat(0, 5, tr("N° identification: "+etab.NumeroIdentification), "", 1, "L", false, 0, "")
	}
	pdf.Ln(4)

	pdf.CellFormat(0, 5, tr(fmt.Sprintf("Séjour du %s au %s (%d nuit(s))",
		data.Sejour.DateArrivee, data.Sejour.DateDepart, data.Sejour.NombreJours)), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 5, tr("Date: "+time.Now().Format("02/01/2006")), "", 1, "L", false, 0, "")
	pdf.Ln(6)

	widths := []float64{85, 25, 40, 40}
	pdf.SetFont("Helvetica", "B", 10)
	pdf.SetFillColor(230, 230, 230)
	for i, h := range []string{"Description", "Quantité", "Prix unitaire", "Montant"} {
		align := "R"
		if i == 0 {
			align = "L"
		}
		pdf.CellFormat(widths[i], 8, tr(h), "1", 0, align, true, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Helvetica", "", 10)
	for _, l := range data.Lines {
		pdf.CellFormat(widths[0], 7, tr(l.Description), "1", 0, "L", false, 0, "")
		pdf.CellFormat(widths[1], 7, l.Quantite.String(), "1", 0, "R", false, 0, "")
		pdf.CellFormat(widths[2], 7, tr(formatMoney(l.PrixUnitaire, data.Devise)), "1", 0, "R", false, 0, "")
		pdf.CellFormat(widths[3], 7, tr(formatMoney(l.Montant, data.Devise)), "1", 1, "R", false, 0, "")
	}

	pdf.SetFont("Helvetica", "B", 11)
	pdf.CellFormat(widths[0]+widths[1]+widths[2], 8, "TOTAL", "1", 0, "R", true, 0, "")
	pdf.CellFormat(widths[3], 8, tr(formatMoney(data.Total, data.Devise)), "1", 1, "R", true, 0, "")

	pdf.Ln(12)
	pdf.SetFont("Helvetica", "I", 10)
	pdf.CellFormat(0, 6, "Merci pour votre confiance!", "", 1, "C", false, 0, "")

	return pdf.Output(w)
}
