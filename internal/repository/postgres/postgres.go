package postgres

import (
	"database/sql"

	"sejour-pms/internal/repository"

	_ "github.com/lib/pq"
)

type Store struct {
	db *sql.DB
	repository.EtablissementRepository
	repository.SejourRepository
	repository.PersonneRepository
	repository.ChambreRepository
	repository.ExtraRepository
	repository.ConsommationRepository
	repository.CalendarRepository
	repository.NewsletterRepository
	repository.ActivityLogRepository
	repository.StatisticsRepository
}

func NewStore(db *sql.DB) *Store {
	return &Store{
		db:                      db,
		EtablissementRepository: NewEtablissementRepository(db),
		SejourRepository:        NewSejourRepository(db),
		PersonneRepository:      NewPersonneRepository(db),
		ChambreRepository:       NewChambreRepository(db),
		ExtraRepository:         NewExtraRepository(db),
		ConsommationRepository:  NewConsommationRepository(db),
		CalendarRepository:      NewCalendarRepository(db),
		NewsletterRepository:    NewNewsletterRepository(db),
		ActivityLogRepository:   NewActivityLogRepository(db),
		StatisticsRepository:    NewStatisticsRepository(db),
	}
}

// DB exposes the pool for jobs that run housekeeping SQL directly.
func (s *Store) DB() *sql.DB {
	return s.db
}
