package service

import (
	"context"
	"strings"

	"sejour-pms/internal/domain"
	"sejour-pms/internal/repository"
)

type clientService struct {
	personneRepo repository.PersonneRepository
}

// NewClientService exposes the occupants of every stay as the client list.
func NewClientService(personneRepo repository.PersonneRepository) ClientService {
	return &clientService{personneRepo: personneRepo}
}

func (s *clientService) ListClients(ctx context.Context, search string) ([]domain.Client, error) {
	list, err := s.personneRepo.SearchClients(ctx, strings.TrimSpace(search))
	if err != nil {
		return nil, err
	}
	if list == nil {
		list = []domain.Client{}
	}
	return list, nil
}

func (s *clientService) GetClient(ctx context.Context, id int32) (*domain.Client, error) {
	c, err := s.personneRepo.GetClient(ctx, id)
	if err != nil {
		return nil, notFound(err, "client", id)
	}
	return c, nil
}
