package service

import (
	"context"
	"fmt"
	"time"

	"sejour-pms/internal/domain"
	"sejour-pms/internal/logger"
	"sejour-pms/internal/repository"
	"sejour-pms/internal/utils"

	"github.com/shopspring/decimal"
)

const (
	defaultStatsPeriodDays = 30
	defaultStatsLimit      = 10
	maxStatsLimit          = 100
	defaultTrendMonths     = 12
	maxTrendMonths         = 120
)

type statisticsService struct {
	repo repository.StatisticsRepository
	now  func() time.Time
}

func NewStatisticsService(repo repository.StatisticsRepository) StatisticsService {
	return &statisticsService{repo: repo, now: time.Now}
}

// period fills missing bounds with the last 30 days and returns its length
// in days, at least 1.
func (s *statisticsService) period(f *domain.StatsFilter) (int64, error) {
	today := s.now()
	if f.DateFin == "" {
		f.DateFin = today.Format("2006-01-02")
	}
	if f.DateDebut == "" {
		f.DateDebut = today.AddDate(0, 0, -defaultStatsPeriodDays).Format("2006-01-02")
	}
	days, err := utils.NightsBetween(f.DateDebut, f.DateFin)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrValidation, err)
	}
	if days == 0 {
		days = 1
	}
	return int64(days), nil
}

func clampLimit(n, def, max int32) int32 {
	if n <= 0 {
		return def
	}
	if n > max {
		return max
	}
	return n
}

func (s *statisticsService) GetGlobal(ctx context.Context, etablissementID int32) (*domain.GlobalStats, error) {
	return s.repo.Global(ctx, etablissementID)
}

// GetOccupancy returns booked room-nights over available room-nights, as a
// percentage rounded to two decimals.
func (s *statisticsService) GetOccupancy(ctx context.Context, f domain.StatsFilter) (*domain.OccupancyStats, error) {
	days, err := s.period(&f)
	if err != nil {
		return nil, err
	}
	o, err := s.repo.Occupancy(ctx, f)
	if err != nil {
		return nil, err
	}
	o.DateDebut, o.DateFin = f.DateDebut, f.DateFin
	o.TauxOccupation = decimal.Zero
	if o.TotalChambres > 0 {
		available := decimal.NewFromInt(o.TotalChambres * days)
		o.TauxOccupation = decimal.NewFromInt(o.TotalNuits).Mul(decimal.NewFromInt(100)).Div(available).Round(2)
	}
	logger.Debug("Occupancy computed", "etablissement_id", f.EtablissementID, "nuits", o.TotalNuits, "taux", o.TauxOccupation.String())
	return o, nil
}

func (s *statisticsService) GetRevenue(ctx context.Context, f domain.StatsFilter) (*domain.RevenueStats, error) {
	if _, err := s.period(&f); err != nil {
		return nil, err
	}
	rev, err := s.repo.Revenue(ctx, f)
	if err != nil {
		return nil, err
	}
	rev.DateDebut, rev.DateFin = f.DateDebut, f.DateFin
	rev.TotalRevenu = rev.TotalHebergement.Add(rev.TotalCharges).Add(rev.TotalTaxes).Add(rev.TotalExtras)
	return rev, nil
}

func (s *statisticsService) GetTopCountries(ctx context.Context, etablissementID, limit int32) ([]domain.CountryStat, error) {
	return s.repo.TopCountries(ctx, etablissementID, clampLimit(limit, defaultStatsLimit, maxStatsLimit))
}

func (s *statisticsService) GetSejoursByOccupants(ctx context.Context, etablissementID, limit int32) ([]domain.SejourRanking, error) {
	return s.repo.SejoursByOccupants(ctx, etablissementID, clampLimit(limit, defaultStatsLimit, maxStatsLimit))
}

func (s *statisticsService) GetSejoursByRooms(ctx context.Context, etablissementID, limit int32) ([]domain.SejourRanking, error) {
	return s.repo.SejoursByRooms(ctx, etablissementID, clampLimit(limit, defaultStatsLimit, maxStatsLimit))
}

// GetMonthlyTrends covers the stays arrived in the last months, newest month
// first.
func (s *statisticsService) GetMonthlyTrends(ctx context.Context, etablissementID, months int32) ([]domain.MonthlyTrend, error) {
	months = clampLimit(months, defaultTrendMonths, maxTrendMonths)
	since := s.now().AddDate(0, -int(months), 0).Format("2006-01-02")
	return s.repo.MonthlyTrends(ctx, etablissementID, since)
}
