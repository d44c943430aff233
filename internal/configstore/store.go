// Package configstore собирает снимок конфигурации (лимиты и прайс-лист)
// из хранилища с кешированием в redis. Снимок неизменяем: перезагрузка
// конфигурации влияет только на последующие запросы.
package configstore

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/magabrotheeeer/contest-creator/internal/lib/sl"
	"github.com/magabrotheeeer/contest-creator/internal/models"
)

const snapshotKey = "config:snapshot"

// ConfigRepository читает лимиты и прайс-лист из хранилища.
type ConfigRepository interface {
	ListLimits(ctx context.Context) (models.LimitsConfig, error)
	ListPriceSchedule(ctx context.Context) (models.PriceSchedule, error)
}

// Cache описывает методы для кэширования данных.
type Cache interface {
	Get(key string, result any) (bool, error)
	Set(key string, value any, expiration time.Duration) error
	Invalidate(key string) error
}

// Store поставщик снимков конфигурации с кешированием (cache-aside).
type Store struct {
	repo  ConfigRepository
	cache Cache
	log   *slog.Logger
	ttl   time.Duration
}

// New создаёт Store; ttl задаёт время жизни кешированного снимка.
func New(repo ConfigRepository, cache Cache, log *slog.Logger, ttl time.Duration) *Store {
	return &Store{
		repo:  repo,
		cache: cache,
		log:   log,
		ttl:   ttl,
	}
}

// Snapshot возвращает снимок конфигурации, собирая его из хранилища
// при промахе кеша.
func (s *Store) Snapshot(ctx context.Context) (*models.ConfigSnapshot, error) {
	const op = "configstore.Snapshot"

	var cached models.ConfigSnapshot
	found, err := s.cache.Get(snapshotKey, &cached)
	if err != nil {
		s.log.Warn("failed to read snapshot from cache", sl.Err(err))
	}
	if found {
		return &cached, nil
	}

	limits, err := s.repo.ListLimits(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	schedule, err := s.repo.ListPriceSchedule(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	snapshot := &models.ConfigSnapshot{Limits: limits, Schedule: schedule}
	if err := s.cache.Set(snapshotKey, snapshot, s.ttl); err != nil {
		s.log.Warn("failed to cache snapshot", sl.Err(err))
	}
	return snapshot, nil
}

// Reload инвалидирует кешированный снимок: следующий Snapshot перечитает
// конфигурацию из хранилища.
func (s *Store) Reload(_ context.Context) error {
	if err := s.cache.Invalidate(snapshotKey); err != nil {
		return fmt.Errorf("configstore.Reload: %w", err)
	}
	return nil
}
