package repository

import (
	"context"
	"errors"
	"time"

	"sejour-pms/internal/domain"
)

// ErrSejourClosed is returned by writes that find the stay closed once its
// row is locked.
var ErrSejourClosed = errors.New("sejour is closed")

type EtablissementRepository interface {
	Create(ctx context.Context, e *domain.Etablissement) error
	GetByID(ctx context.Context, id int32) (*domain.Etablissement, error)
	List(ctx context.Context, actifOnly bool) ([]domain.Etablissement, error)
	Update(ctx context.Context, e *domain.Etablissement) error
	// NextSequence returns the current reservation sequence and advances it.
	NextSequence(ctx context.Context, id int32) (int32, error)
}

type SejourRepository interface {
	Create(ctx context.Context, s *domain.Sejour) error
	GetByID(ctx context.Context, id int32) (*domain.Sejour, error)
	List(ctx context.Context, filter domain.SejourFilter) ([]domain.Sejour, error)
	Update(ctx context.Context, s *domain.Sejour) error
	Delete(ctx context.Context, id int32) error
	Close(ctx context.Context, id int32, closedBy string) (time.Time, error)
	ListActiveDepartedBefore(ctx context.Context, date string) ([]domain.Sejour, error)
}

type PersonneRepository interface {
	Create(ctx context.Context, p *domain.Personne) error
	ListBySejour(ctx context.Context, sejourID int32) ([]domain.Personne, error)
	ReplaceForSejour(ctx context.Context, sejourID int32, personnes []domain.Personne) error
	SearchClients(ctx context.Context, term string) ([]domain.Client, error)
	GetClient(ctx context.Context, id int32) (*domain.Client, error)
}

type ChambreRepository interface {
	Create(ctx context.Context, c *domain.Chambre) error
	List(ctx context.Context, etablissementID int32) ([]domain.Chambre, error)
	ListBySejour(ctx context.Context, sejourID int32) ([]domain.Chambre, error)
	ListAvailable(ctx context.Context, etablissementID int32, dateDebut, dateFin string) ([]domain.Chambre, error)
	GetByID(ctx context.Context, id int32) (*domain.Chambre, error)
	Update(ctx context.Context, c *domain.Chambre) error
	Delete(ctx context.Context, id int32) error
}

type ExtraRepository interface {
	Create(ctx context.Context, e *domain.Extra) error
	GetByID(ctx context.Context, id int32) (*domain.Extra, error)
	List(ctx context.Context, etablissementID int32, actifOnly bool) ([]domain.Extra, error)
	Update(ctx context.Context, e *domain.Extra) error
	Delete(ctx context.Context, id int32) error
	Summary(ctx context.Context, etablissementID int32, dateDebut, dateFin string) ([]domain.ExtraSummary, error)
}

type ConsommationRepository interface {
	Create(ctx context.Context, c *domain.Consommation) error
	GetByID(ctx context.Context, id int32) (*domain.Consommation, error)
	ListBySejour(ctx context.Context, sejourID int32) ([]domain.Consommation, error)
	UpdateQuantite(ctx context.Context, id, quantite int32) error
	Delete(ctx context.Context, id int32) error
	// ApplyBatch runs every operation in one transaction; any failure rolls
	// back the whole batch.
	ApplyBatch(ctx context.Context, sejourID int32, ops []domain.ConsommationOp) error
}

type CalendarRepository interface {
	Create(ctx context.Context, c *domain.CalendrierIcal) error
	GetByID(ctx context.Context, id int32) (*domain.CalendrierIcal, error)
	List(ctx context.Context, etablissementID int32) ([]domain.CalendrierIcal, error)
	ListActive(ctx context.Context) ([]domain.CalendrierIcal, error)
	Update(ctx context.Context, c *domain.CalendrierIcal) error
	Delete(ctx context.Context, id int32) error
	UpdateSyncStatus(ctx context.Context, id int32, status domain.SyncStatus, message string) error
	UpsertReservations(ctx context.Context, calendrierID int32, reservations []domain.ReservationIcal) (int, error)
	ListReservations(ctx context.Context, filter domain.ReservationFilter) ([]domain.ReservationIcal, error)
}

type NewsletterRepository interface {
	Create(ctx context.Context, n *domain.Newsletter) error
	UpdateStatus(ctx context.Context, id int32, status domain.NewsletterStatus, errorMessage string) error
	List(ctx context.Context, etablissementID int32) ([]domain.Newsletter, error)
}

type ActivityLogRepository interface {
	Create(ctx context.Context, l *domain.ActivityLog) error
	List(ctx context.Context, limit int32) ([]domain.ActivityLog, error)
}

// StatisticsRepository computes dashboard aggregates. An etablissementID of 0
// covers every property. Cancelled stays are left out of every period figure.
type StatisticsRepository interface {
	Global(ctx context.Context, etablissementID int32) (*domain.GlobalStats, error)
	// Occupancy fills the room and night counts; the rate is left to the caller.
	Occupancy(ctx context.Context, f domain.StatsFilter) (*domain.OccupancyStats, error)
	Revenue(ctx context.Context, f domain.StatsFilter) (*domain.RevenueStats, error)
	TopCountries(ctx context.Context, etablissementID int32, limit int32) ([]domain.CountryStat, error)
	SejoursByOccupants(ctx context.Context, etablissementID int32, limit int32) ([]domain.SejourRanking, error)
	SejoursByRooms(ctx context.Context, etablissementID int32, limit int32) ([]domain.SejourRanking, error)
	MonthlyTrends(ctx context.Context, etablissementID int32, since string) ([]domain.MonthlyTrend, error)
}
