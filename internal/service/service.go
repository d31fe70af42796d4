package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"time"

	"sejour-pms/internal/domain"
)

var (
	ErrNotFound        = errors.New("not found")
	ErrSejourClosed    = errors.New("sejour is closed")
	ErrSejourNotClosed = errors.New("sejour must be closed first")
	ErrAlreadyClosed   = errors.New("sejour already closed")
	ErrInvalidQuantity = errors.New("quantite must be greater than zero")
	ErrValidation      = errors.New("validation failed")
	ErrURLNotAllowed   = errors.New("url not allowed")
	ErrSyncFailed      = errors.New("calendar synchronization failed")
	ErrMailDisabled    = errors.New("mail delivery is not configured")
	ErrDeliveryFailed  = errors.New("delivery failed")
)

// notFound maps sql.ErrNoRows to ErrNotFound, naming the missing entity.
func notFound(err error, entity string, id int32) error {
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%s %d: %w", entity, id, ErrNotFound)
	}
	return err
}

type EtablissementService interface {
	ListEtablissements(ctx context.Context, actifOnly bool) ([]domain.Etablissement, error)
	GetEtablissement(ctx context.Context, id int32) (*domain.Etablissement, error)
	CreateEtablissement(ctx context.Context, e *domain.Etablissement) error
	UpdateEtablissement(ctx context.Context, e *domain.Etablissement) error
	ListChambres(ctx context.Context, etablissementID int32) ([]domain.Chambre, error)
	ListAvailableChambres(ctx context.Context, etablissementID int32, dateDebut, dateFin string) ([]domain.Chambre, error)
	CreateChambre(ctx context.Context, c *domain.Chambre) error
	UpdateChambre(ctx context.Context, c *domain.Chambre) error
	DeleteChambre(ctx context.Context, id int32) error
}

type SejourService interface {
	ListSejours(ctx context.Context, filter domain.SejourFilter) ([]domain.Sejour, error)
	GetSejourDetail(ctx context.Context, id int32) (*domain.SejourDetail, error)
	CreateSejour(ctx context.Context, s *domain.Sejour, personnes []domain.Personne) error
	UpdateSejour(ctx context.Context, s *domain.Sejour, personnes []domain.Personne) error
	DeleteSejour(ctx context.Context, id int32) error
	CloseSejour(ctx context.Context, id int32, closedBy string) (*domain.Sejour, error)
	GenerateNumeroReservation(ctx context.Context, etablissementID int32) (string, error)
	ListStaleSejours(ctx context.Context, asOf time.Time) ([]domain.Sejour, error)
}

type ExtraService interface {
	ListExtras(ctx context.Context, etablissementID int32, actifOnly bool) ([]domain.Extra, error)
	GetExtra(ctx context.Context, id int32) (*domain.Extra, error)
	CreateExtra(ctx context.Context, x *domain.Extra) error
	UpdateExtra(ctx context.Context, x *domain.Extra) error
	DeleteExtra(ctx context.Context, id int32) error
	GetSummary(ctx context.Context, etablissementID int32, dateDebut, dateFin string) ([]domain.ExtraSummary, error)
}

type ConsommationService interface {
	ListConsommations(ctx context.Context, sejourID int32) ([]domain.Consommation, error)
	AddConsommation(ctx context.Context, sejourID, extraID, quantite int32) (*domain.Consommation, error)
	UpdateConsommation(ctx context.Context, id, quantite int32) error
	DeleteConsommation(ctx context.Context, id int32) error
	// ApplyBatch applies creates and updates atomically and returns the
	// resulting consumption list of the stay.
	ApplyBatch(ctx context.Context, sejourID int32, ops []domain.ConsommationOp) ([]domain.Consommation, error)
}

type InvoiceService interface {
	GenerateInvoice(ctx context.Context, sejourID int32) (*Invoice, error)
	// SendInvoice mails the invoice to email, or to the principal contact
	// when email is empty, and returns the recipient.
	SendInvoice(ctx context.Context, sejourID int32, email string) (string, error)
}

type CalendarService interface {
	ListCalendars(ctx context.Context, etablissementID int32) ([]domain.CalendrierIcal, error)
	GetCalendar(ctx context.Context, id int32) (*domain.CalendrierIcal, error)
	CreateCalendar(ctx context.Context, c *domain.CalendrierIcal) error
	UpdateCalendar(ctx context.Context, c *domain.CalendrierIcal) error
	DeleteCalendar(ctx context.Context, id int32) error
	SyncCalendar(ctx context.Context, id int32) (*domain.SyncResult, error)
	SyncAll(ctx context.Context) (int, error)
	ListReservations(ctx context.Context, filter domain.ReservationFilter) ([]domain.ReservationIcal, error)
}

type NewsletterService interface {
	SendNewsletter(ctx context.Context, n *domain.Newsletter) error
	ListNewsletters(ctx context.Context, etablissementID int32) ([]domain.Newsletter, error)
}

type ExportService interface {
	// ExportClients writes an xlsx workbook and returns the number of rows.
	ExportClients(ctx context.Context, search string, w io.Writer) (int, error)
}

type ClientService interface {
	ListClients(ctx context.Context, search string) ([]domain.Client, error)
	GetClient(ctx context.Context, id int32) (*domain.Client, error)
}

// StatisticsService feeds the dashboards. An etablissementID of 0 covers
// every property; missing dates default to the last 30 days.
type StatisticsService interface {
	GetGlobal(ctx context.Context, etablissementID int32) (*domain.GlobalStats, error)
	GetOccupancy(ctx context.Context, f domain.StatsFilter) (*domain.OccupancyStats, error)
	GetRevenue(ctx context.Context, f domain.StatsFilter) (*domain.RevenueStats, error)
	GetTopCountries(ctx context.Context, etablissementID, limit int32) ([]domain.CountryStat, error)
	GetSejoursByOccupants(ctx context.Context, etablissementID, limit int32) ([]domain.SejourRanking, error)
	GetSejoursByRooms(ctx context.Context, etablissementID, limit int32) ([]domain.SejourRanking, error)
	GetMonthlyTrends(ctx context.Context, etablissementID, months int32) ([]domain.MonthlyTrend, error)
}

type ActivityService interface {
	Record(ctx context.Context, l *domain.ActivityLog) error
	ListRecent(ctx context.Context, limit int32) ([]domain.ActivityLog, error)
}

type EmailService interface {
	SendInvoice(ctx context.Context, to, clientName, numero string, pdf []byte) error
}

// NewsletterSender delivers one HTML message to one recipient.
type NewsletterSender interface {
	Send(ctx context.Context, to, subject, plainText, html string) error
}

// CatalogCache caches extras listings per property. Implementations swallow
// backend failures; a miss is always safe.
type CatalogCache interface {
	GetExtras(ctx context.Context, etablissementID int32, actifOnly bool) ([]domain.Extra, bool)
	SetExtras(ctx context.Context, etablissementID int32, actifOnly bool, extras []domain.Extra)
	InvalidateExtras(ctx context.Context, etablissementID int32)
}
