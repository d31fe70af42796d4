package service

import (
	"context"

	"sejour-pms/internal/domain"
	"sejour-pms/internal/repository"
)

const (
	defaultActivityLimit = 100
	maxActivityLimit     = 1000
)

type activityService struct {
	repo repository.ActivityLogRepository
}

func NewActivityService(repo repository.ActivityLogRepository) ActivityService {
	return &activityService{repo: repo}
}

func (s *activityService) Record(ctx context.Context, l *domain.ActivityLog) error {
	return s.repo.Create(ctx, l)
}

func (s *activityService) ListRecent(ctx context.Context, limit int32) ([]domain.ActivityLog, error) {
	switch {
	case limit <= 0:
		limit = defaultActivityLimit
	case limit > maxActivityLimit:
		limit = maxActivityLimit
	}
	list, err := s.repo.List(ctx, limit)
	if err != nil {
		return nil, err
	}
	if list == nil {
		list = []domain.ActivityLog{}
	}
	return list, nil
}
