package service

import (
	"context"
	"fmt"

	"github.com/nlcsoft/invoicing/internal/entity"
)

func (s *Service) Clients(ctx context.Context) ([]entity.Client, error) {
	clients, err := s.repo.Clients(ctx)
	if err != nil {
		return nil, fmt.Errorf("list clients: %w", err)
	}

	return clients, nil
}

func (s *Service) Client(ctx context.Context, id int64) (entity.Client, error) {
	c, err := s.repo.Client(ctx, id)
	if err != nil {
		return entity.Client{}, fmt.Errorf("get client %d: %w", id, err)
	}

	return c, nil
}

func (s *Service) CreateClient(ctx context.Context, c entity.Client) (entity.Client, error) {
	err := validateClient(c)
	if err != nil {
		return entity.Client{}, err
	}

	created, err := s.repo.CreateClient(ctx, c)
	if err != nil {
		return entity.Client{}, fmt.Errorf("insert client: %w", err)
	}

	return created, nil
}

func (s *Service) UpdateClient(ctx context.Context, id int64, upd entity.ClientUpdate) (entity.Client, error) {
	err := validateClientUpdate(upd)
	if err != nil {
		return entity.Client{}, err
	}

	err = s.repo.UpdateClient(ctx, id, upd)
	if err != nil {
		return entity.Client{}, fmt.Errorf("update client %d: %w", id, err)
	}

	c, err := s.repo.Client(ctx, id)
	if err != nil {
		return entity.Client{}, fmt.Errorf("reload client %d: %w", id, err)
	}

	return c, nil
}

// DeleteClient refuses to remove a client that still owns invoices: invoices
// are the system of record and are never cascaded away from this side.
func (s *Service) DeleteClient(ctx context.Context, id int64) error {
	count, err := s.repo.CountClientInvoices(ctx, id)
	if err != nil {
		return fmt.Errorf("count client %d invoices: %w", id, err)
	}

	if count > 0 {
		return fmt.Errorf("%w: client %d still owns %d invoices", entity.ErrConflict, id, count)
	}

	err = s.repo.DeleteClient(ctx, id)
	if err != nil {
		return fmt.Errorf("delete client %d: %w", id, err)
	}

	return nil
}
