package service_test

import (
	"context"
	"time"

	"sejour-pms/internal/domain"

	"github.com/stretchr/testify/mock"
)

// MockEtablissementRepo
type MockEtablissementRepo struct {
	mock.Mock
}

func (m *MockEtablissementRepo) Create(ctx context.Context, e *domain.Etablissement) error {
	args := m.Called(ctx, e)
	return args.Error(0)
}
func (m *MockEtablissementRepo) GetByID(ctx context.Context, id int32) (*domain.Etablissement, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Etablissement), args.Error(1)
}
func (m *MockEtablissementRepo) List(ctx context.Context, actifOnly bool) ([]domain.Etablissement, error) {
	args := m.Called(ctx, actifOnly)
	return args.Get(0).([]domain.Etablissement), args.Error(1)
}
func (m *MockEtablissementRepo) Update(ctx context.Context, e *domain.Etablissement) error {
	args := m.Called(ctx, e)
	return args.Error(0)
}
func (m *MockEtablissementRepo) NextSequence(ctx context.Context, id int32) (int32, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(int32), args.Error(1)
}

// MockSejourRepo
type MockSejourRepo struct {
	mock.Mock
}

func (m *MockSejourRepo) Create(ctx context.Context, s *domain.Sejour) error {
	args := m.Called(ctx, s)
	return args.Error(0)
}
func (m *MockSejourRepo) GetByID(ctx context.Context, id int32) (*domain.Sejour, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Sejour), args.Error(1)
}
func (m *MockSejourRepo) List(ctx context.Context, filter domain.SejourFilter) ([]domain.Sejour, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]domain.Sejour), args.Error(1)
}
func (m *MockSejourRepo) Update(ctx context.Context, s *domain.Sejour) error {
	args := m.Called(ctx, s)
	return args.Error(0)
}
func (m *MockSejourRepo) Delete(ctx context.Context, id int32) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}
func (m *MockSejourRepo) Close(ctx context.Context, id int32, closedBy string) (time.Time, error) {
	args := m.Called(ctx, id, closedBy)
	return args.Get(0).(time.Time), args.Error(1)
}
func (m *MockSejourRepo) ListActiveDepartedBefore(ctx context.Context, date string) ([]domain.Sejour, error) {
	args := m.Called(ctx, date)
	return args.Get(0).([]domain.Sejour), args.Error(1)
}

// MockPersonneRepo
type MockPersonneRepo struct {
	mock.Mock
}

func (m *MockPersonneRepo) Create(ctx context.Context, p *domain.Personne) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}
func (m *MockPersonneRepo) ListBySejour(ctx context.Context, sejourID int32) ([]domain.Personne, error) {
	args := m.Called(ctx, sejourID)
	return args.Get(0).([]domain.Personne), args.Error(1)
}
func (m *MockPersonneRepo) ReplaceForSejour(ctx context.Context, sejourID int32, personnes []domain.Personne) error {
	args := m.Called(ctx, sejourID, personnes)
	return args.Error(0)
}
func (m *MockPersonneRepo) SearchClients(ctx context.Context, term string) ([]domain.Client, error) {
	args := m.Called(ctx, term)
	return args.Get(0).([]domain.Client), args.Error(1)
}
func (m *MockPersonneRepo) GetClient(ctx context.Context, id int32) (*domain.Client, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Client), args.Error(1)
}

// MockChambreRepo
type MockChambreRepo struct {
	mock.Mock
}

func (m *MockChambreRepo) Create(ctx context.Context, c *domain.Chambre) error {
	args := m.Called(ctx, c)
	return args.Error(0)
}
func (m *MockChambreRepo) List(ctx context.Context, etablissementID int32) ([]domain.Chambre, error) {
	args := m.Called(ctx, etablissementID)
	return args.Get(0).([]domain.Chambre), args.Error(1)
}
func (m *MockChambreRepo) ListBySejour(ctx context.Context, sejourID int32) ([]domain.Chambre, error) {
	args := m.Called(ctx, sejourID)
	return args.Get(0).([]domain.Chambre), args.Error(1)
}
func (m *MockChambreRepo) ListAvailable(ctx context.Context, etablissementID int32, dateDebut, dateFin string) ([]domain.Chambre, error) {
	args := m.Called(ctx, etablissementID, dateDebut, dateFin)
	return args.Get(0).([]domain.Chambre), args.Error(1)
}
func (m *MockChambreRepo) GetByID(ctx context.Context, id int32) (*domain.Chambre, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Chambre), args.Error(1)
}
func (m *MockChambreRepo) Update(ctx context.Context, c *domain.Chambre) error {
	args := m.Called(ctx, c)
	return args.Error(0)
}
func (m *MockChambreRepo) Delete(ctx context.Context, id int32) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockStatisticsRepo
type MockStatisticsRepo struct {
	mock.Mock
}

func (m *MockStatisticsRepo) Global(ctx context.Context, etablissementID int32) (*domain.GlobalStats, error) {
	args := m.Called(ctx, etablissementID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.GlobalStats), args.Error(1)
}
func (m *MockStatisticsRepo) Occupancy(ctx context.Context, f domain.StatsFilter) (*domain.OccupancyStats, error) {
	args := m.Called(ctx, f)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.OccupancyStats), args.Error(1)
}
func (m *MockStatisticsRepo) Revenue(ctx context.Context, f domain.StatsFilter) (*domain.RevenueStats, error) {
	args := m.Called(ctx, f)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.RevenueStats), args.Error(1)
}
func (m *MockStatisticsRepo) TopCountries(ctx context.Context, etablissementID int32, limit int32) ([]domain.CountryStat, error) {
	args := m.Called(ctx, etablissementID, limit)
	return args.Get(0).([]domain.CountryStat), args.Error(1)
}
func (m *MockStatisticsRepo) SejoursByOccupants(ctx context.Context, etablissementID int32, limit int32) ([]domain.SejourRanking, error) {
	args := m.Called(ctx, etablissementID, limit)
	return args.Get(0).([]domain.SejourRanking), args.Error(1)
}
func (m *MockStatisticsRepo) SejoursByRooms(ctx context.Context, etablissementID int32, limit int32) ([]domain.SejourRanking, error) {
	args := m.Called(ctx, etablissementID, limit)
	return args.Get(0).([]domain.SejourRanking), args.Error(1)
}
func (m *MockStatisticsRepo) MonthlyTrends(ctx context.Context, etablissementID int32, since string) ([]domain.MonthlyTrend, error) {
	args := m.Called(ctx, etablissementID, since)
	return args.Get(0).([]domain.MonthlyTrend), args.Error(1)
}

// MockExtraRepo
type MockExtraRepo struct {
	mock.Mock
}

func (m *MockExtraRepo) Create(ctx context.Context, e *domain.Extra) error {
	args := m.Called(ctx, e)
	return args.Error(0)
}
func (m *MockExtraRepo) GetByID(ctx context.Context, id int32) (*domain.Extra, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Extra), args.Error(1)
}
func (m *MockExtraRepo) List(ctx context.Context, etablissementID int32, actifOnly bool) ([]domain.Extra, error) {
	args := m.Called(ctx, etablissementID, actifOnly)
	return args.Get(0).([]domain.Extra), args.Error(1)
}
func (m *MockExtraRepo) Update(ctx context.Context, e *domain.Extra) error {
	args := m.Called(ctx, e)
	return args.Error(0)
}
func (m *MockExtraRepo) Delete(ctx context.Context, id int32) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}
func (m *MockExtraRepo) Summary(ctx context.Context, etablissementID int32, dateDebut, dateFin string) ([]domain.ExtraSummary, error) {
	args := m.Called(ctx, etablissementID, dateDebut, dateFin)
	return args.Get(0).([]domain.ExtraSummary), args.Error(1)
}

// MockConsommationRepo
type MockConsommationRepo struct {
	mock.Mock
}

func (m *MockConsommationRepo) Create(ctx context.Context, c *domain.Consommation) error {
	args := m.Called(ctx, c)
	return args.Error(0)
}
func (m *MockConsommationRepo) GetByID(ctx context.Context, id int32) (*domain.Consommation, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Consommation), args.Error(1)
}
func (m *MockConsommationRepo) ListBySejour(ctx context.Context, sejourID int32) ([]domain.Consommation, error) {
	args := m.Called(ctx, sejourID)
	return args.Get(0).([]domain.Consommation), args.Error(1)
}
func (m *MockConsommationRepo) UpdateQuantite(ctx context.Context, id, quantite int32) error {
	args := m.Called(ctx, id, quantite)
	return args.Error(0)
}
func (m *MockConsommationRepo) Delete(ctx context.Context, id int32) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}
func (m *MockConsommationRepo) ApplyBatch(ctx context.Context, sejourID int32, ops []domain.ConsommationOp) error {
	args := m.Called(ctx, sejourID, ops)
	return args.Error(0)
}

// MockCalendarRepo
type MockCalendarRepo struct {
	mock.Mock
}

func (m *MockCalendarRepo) Create(ctx context.Context, c *domain.CalendrierIcal) error {
	args := m.Called(ctx, c)
	return args.Error(0)
}
func (m *MockCalendarRepo) GetByID(ctx context.Context, id int32) (*domain.CalendrierIcal, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CalendrierIcal), args.Error(1)
}
func (m *MockCalendarRepo) List(ctx context.Context, etablissementID int32) ([]domain.CalendrierIcal, error) {
	args := m.Called(ctx, etablissementID)
	return args.Get(0).([]domain.CalendrierIcal), args.Error(1)
}
func (m *MockCalendarRepo) ListActive(ctx context.Context) ([]domain.CalendrierIcal, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.CalendrierIcal), args.Error(1)
}
func (m *MockCalendarRepo) Update(ctx context.Context, c *domain.CalendrierIcal) error {
	args := m.Called(ctx, c)
	return args.Error(0)
}
func (m *MockCalendarRepo) Delete(ctx context.Context, id int32) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}
func (m *MockCalendarRepo) UpdateSyncStatus(ctx context.Context, id int32, status domain.SyncStatus, message string) error {
	args := m.Called(ctx, id, status, message)
	return args.Error(0)
}
func (m *MockCalendarRepo) UpsertReservations(ctx context.Context, calendrierID int32, reservations []domain.ReservationIcal) (int, error) {
	args := m.Called(ctx, calendrierID, reservations)
	return args.Int(0), args.Error(1)
}
func (m *MockCalendarRepo) ListReservations(ctx context.Context, filter domain.ReservationFilter) ([]domain.ReservationIcal, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]domain.ReservationIcal), args.Error(1)
}

// MockNewsletterRepo
type MockNewsletterRepo struct {
	mock.Mock
}

func (m *MockNewsletterRepo) Create(ctx context.Context, n *domain.Newsletter) error {
	args := m.Called(ctx, n)
	return args.Error(0)
}
func (m *MockNewsletterRepo) UpdateStatus(ctx context.Context, id int32, status domain.NewsletterStatus, errorMessage string) error {
	args := m.Called(ctx, id, status, errorMessage)
	return args.Error(0)
}
func (m *MockNewsletterRepo) List(ctx context.Context, etablissementID int32) ([]domain.Newsletter, error) {
	args := m.Called(ctx, etablissementID)
	return args.Get(0).([]domain.Newsletter), args.Error(1)
}

// MockActivityLogRepo
type MockActivityLogRepo struct {
	mock.Mock
}

func (m *MockActivityLogRepo) Create(ctx context.Context, l *domain.ActivityLog) error {
	args := m.Called(ctx, l)
	return args.Error(0)
}
func (m *MockActivityLogRepo) List(ctx context.Context, limit int32) ([]domain.ActivityLog, error) {
	args := m.Called(ctx, limit)
	return args.Get(0).([]domain.ActivityLog), args.Error(1)
}

// MockEmailService
type MockEmailService struct {
	mock.Mock
}

func (m *MockEmailService) SendInvoice(ctx context.Context, to, clientName, numero string, pdf []byte) error {
	args := m.Called(ctx, to, clientName, numero, pdf)
	return args.Error(0)
}

// MockNewsletterSender
type MockNewsletterSender struct {
	mock.Mock
}

func (m *MockNewsletterSender) Send(ctx context.Context, to, subject, plainText, html string) error {
	args := m.Called(ctx, to, subject, plainText, html)
	return args.Error(0)
}

// MockFetcher
type MockFetcher struct {
	mock.Mock
}

func (m *MockFetcher) Fetch(ctx context.Context, url string) ([]byte, error) {
	args := m.Called(ctx, url)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

// MockCatalogCache
type MockCatalogCache struct {
	mock.Mock
}

func (m *MockCatalogCache) GetExtras(ctx context.Context, etablissementID int32, actifOnly bool) ([]domain.Extra, bool) {
	args := m.Called(ctx, etablissementID, actifOnly)
	if args.Get(0) == nil {
		return nil, args.Bool(1)
	}
	return args.Get(0).([]domain.Extra), args.Bool(1)
}
func (m *MockCatalogCache) SetExtras(ctx context.Context, etablissementID int32, actifOnly bool, extras []domain.Extra) {
	m.Called(ctx, etablissementID, actifOnly, extras)
}
func (m *MockCatalogCache) InvalidateExtras(ctx context.Context, etablissementID int32) {
	m.Called(ctx, etablissementID)
}
