package http

import (
	"context"
	"time"

	"sejour-pms/internal/domain"
	"sejour-pms/internal/service"

	"github.com/stretchr/testify/mock"
)

// MockSejourService
type MockSejourService struct {
	mock.Mock
}

func (m *MockSejourService) ListSejours(ctx context.Context, filter domain.SejourFilter) ([]domain.Sejour, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]domain.Sejour), args.Error(1)
}
func (m *MockSejourService) GetSejourDetail(ctx context.Context, id int32) (*domain.SejourDetail, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.SejourDetail), args.Error(1)
}
func (m *MockSejourService) CreateSejour(ctx context.Context, s *domain.Sejour, personnes []domain.Personne) error {
	args := m.Called(ctx, s, personnes)
	return args.Error(0)
}
func (m *MockSejourService) UpdateSejour(ctx context.Context, s *domain.Sejour, personnes []domain.Personne) error {
	args := m.Called(ctx, s, personnes)
	return args.Error(0)
}
func (m *MockSejourService) DeleteSejour(ctx context.Context, id int32) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}
func (m *MockSejourService) CloseSejour(ctx context.Context, id int32, closedBy string) (*domain.Sejour, error) {
	args := m.Called(ctx, id, closedBy)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Sejour), args.Error(1)
}
func (m *MockSejourService) GenerateNumeroReservation(ctx context.Context, etablissementID int32) (string, error) {
	args := m.Called(ctx, etablissementID)
	return args.String(0), args.Error(1)
}
func (m *MockSejourService) ListStaleSejours(ctx context.Context, asOf time.Time) ([]domain.Sejour, error) {
	args := m.Called(ctx, asOf)
	return args.Get(0).([]domain.Sejour), args.Error(1)
}

// MockConsommationService
type MockConsommationService struct {
	mock.Mock
}

func (m *MockConsommationService) ListConsommations(ctx context.Context, sejourID int32) ([]domain.Consommation, error) {
	args := m.Called(ctx, sejourID)
	return args.Get(0).([]domain.Consommation), args.Error(1)
}
func (m *MockConsommationService) AddConsommation(ctx context.Context, sejourID, extraID, quantite int32) (*domain.Consommation, error) {
	args := m.Called(ctx, sejourID, extraID, quantite)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Consommation), args.Error(1)
}
func (m *MockConsommationService) UpdateConsommation(ctx context.Context, id, quantite int32) error {
	args := m.Called(ctx, id, quantite)
	return args.Error(0)
}
func (m *MockConsommationService) DeleteConsommation(ctx context.Context, id int32) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}
func (m *MockConsommationService) ApplyBatch(ctx context.Context, sejourID int32, ops []domain.ConsommationOp) ([]domain.Consommation, error) {
	args := m.Called(ctx, sejourID, ops)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Consommation), args.Error(1)
}

// MockInvoiceService
type MockInvoiceService struct {
	mock.Mock
}

func (m *MockInvoiceService) GenerateInvoice(ctx context.Context, sejourID int32) (*service.Invoice, error) {
	args := m.Called(ctx, sejourID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.Invoice), args.Error(1)
}
func (m *MockInvoiceService) SendInvoice(ctx context.Context, sejourID int32, email string) (string, error) {
	args := m.Called(ctx, sejourID, email)
	return args.String(0), args.Error(1)
}

// MockCalendarService
type MockCalendarService struct {
	mock.Mock
}

func (m *MockCalendarService) ListCalendars(ctx context.Context, etablissementID int32) ([]domain.CalendrierIcal, error) {
	args := m.Called(ctx, etablissementID)
	return args.Get(0).([]domain.CalendrierIcal), args.Error(1)
}
func (m *MockCalendarService) GetCalendar(ctx context.Context, id int32) (*domain.CalendrierIcal, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CalendrierIcal), args.Error(1)
}
func (m *MockCalendarService) CreateCalendar(ctx context.Context, c *domain.CalendrierIcal) error {
	args := m.Called(ctx, c)
	return args.Error(0)
}
func (m *MockCalendarService) UpdateCalendar(ctx context.Context, c *domain.CalendrierIcal) error {
	args := m.Called(ctx, c)
	return args.Error(0)
}
func (m *MockCalendarService) DeleteCalendar(ctx context.Context, id int32) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}
func (m *MockCalendarService) SyncCalendar(ctx context.Context, id int32) (*domain.SyncResult, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.SyncResult), args.Error(1)
}
func (m *MockCalendarService) SyncAll(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}
func (m *MockCalendarService) ListReservations(ctx context.Context, filter domain.ReservationFilter) ([]domain.ReservationIcal, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]domain.ReservationIcal), args.Error(1)
}

// MockActivityService
type MockActivityService struct {
	mock.Mock
}

func (m *MockActivityService) Record(ctx context.Context, l *domain.ActivityLog) error {
	args := m.Called(ctx, l)
	return args.Error(0)
}
func (m *MockActivityService) ListRecent(ctx context.Context, limit int32) ([]domain.ActivityLog, error) {
	args := m.Called(ctx, limit)
	return args.Get(0).([]domain.ActivityLog), args.Error(1)
}

// MockEtablissementService
type MockEtablissementService struct {
	mock.Mock
}

func (m *MockEtablissementService) ListEtablissements(ctx context.Context, actifOnly bool) ([]domain.Etablissement, error) {
	args := m.Called(ctx, actifOnly)
	return args.Get(0).([]domain.Etablissement), args.Error(1)
}
func (m *MockEtablissementService) GetEtablissement(ctx context.Context, id int32) (*domain.Etablissement, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Etablissement), args.Error(1)
}
func (m *MockEtablissementService) CreateEtablissement(ctx context.Context, e *domain.Etablissement) error {
	args := m.Called(ctx, e)
	return args.Error(0)
}
func (m *MockEtablissementService) UpdateEtablissement(ctx context.Context, e *domain.Etablissement) error {
	args := m.Called(ctx, e)
	return args.Error(0)
}
func (m *MockEtablissementService) ListChambres(ctx context.Context, etablissementID int32) ([]domain.Chambre, error) {
	args := m.Called(ctx, etablissementID)
	return args.Get(0).([]domain.Chambre), args.Error(1)
}
func (m *MockEtablissementService) ListAvailableChambres(ctx context.Context, etablissementID int32, dateDebut, dateFin string) ([]domain.Chambre, error) {
	args := m.Called(ctx, etablissementID, dateDebut, dateFin)
	return args.Get(0).([]domain.Chambre), args.Error(1)
}
func (m *MockEtablissementService) CreateChambre(ctx context.Context, c *domain.Chambre) error {
	args := m.Called(ctx, c)
	return args.Error(0)
}
func (m *MockEtablissementService) UpdateChambre(ctx context.Context, c *domain.Chambre) error {
	args := m.Called(ctx, c)
	return args.Error(0)
}
func (m *MockEtablissementService) DeleteChambre(ctx context.Context, id int32) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockClientService
type MockClientService struct {
	mock.Mock
}

func (m *MockClientService) ListClients(ctx context.Context, search string) ([]domain.Client, error) {
	args := m.Called(ctx, search)
	return args.Get(0).([]domain.Client), args.Error(1)
}
func (m *MockClientService) GetClient(ctx context.Context, id int32) (*domain.Client, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Client), args.Error(1)
}

// MockStatisticsService
type MockStatisticsService struct {
	mock.Mock
}

func (m *MockStatisticsService) GetGlobal(ctx context.Context, etablissementID int32) (*domain.GlobalStats, error) {
	args := m.Called(ctx, etablissementID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.GlobalStats), args.Error(1)
}
func (m *MockStatisticsService) GetOccupancy(ctx context.Context, f domain.StatsFilter) (*domain.OccupancyStats, error) {
	args := m.Called(ctx, f)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.OccupancyStats), args.Error(1)
}
func (m *MockStatisticsService) GetRevenue(ctx context.Context, f domain.StatsFilter) (*domain.RevenueStats, error) {
	args := m.Called(ctx, f)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.RevenueStats), args.Error(1)
}
func (m *MockStatisticsService) GetTopCountries(ctx context.Context, etablissementID, limit int32) ([]domain.CountryStat, error) {
	args := m.Called(ctx, etablissementID, limit)
	return args.Get(0).([]domain.CountryStat), args.Error(1)
}
func (m *MockStatisticsService) GetSejoursByOccupants(ctx context.Context, etablissementID, limit int32) ([]domain.SejourRanking, error) {
	args := m.Called(ctx, etablissementID, limit)
	return args.Get(0).([]domain.SejourRanking), args.Error(1)
}
func (m *MockStatisticsService) GetSejoursByRooms(ctx context.Context, etablissementID, limit int32) ([]domain.SejourRanking, error) {
	args := m.Called(ctx, etablissementID, limit)
	return args.Get(0).([]domain.SejourRanking), args.Error(1)
}
func (m *MockStatisticsService) GetMonthlyTrends(ctx context.Context, etablissementID, months int32) ([]domain.MonthlyTrend, error) {
	args := m.Called(ctx, etablissementID, months)
	return args.Get(0).([]domain.MonthlyTrend), args.Error(1)
}
