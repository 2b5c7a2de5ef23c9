package service

import (
	"context"
	"fmt"

	"github.com/nlcsoft/invoicing/internal/entity"
)

func (s *Service) Settings(ctx context.Context) (entity.Settings, error) {
	settings, err := s.repo.Settings(ctx)
	if err != nil {
		return entity.Settings{}, fmt.Errorf("get settings: %w", err)
	}

	return settings, nil
}

func (s *Service) SaveSettings(ctx context.Context, settings entity.Settings) (entity.Settings, error) {
	err := s.repo.SaveSettings(ctx, settings)
	if err != nil {
		return entity.Settings{}, fmt.Errorf("save settings: %w", err)
	}

	return settings, nil
}
