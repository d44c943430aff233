package repository

import (
	"context"
	"fmt"

	"github.com/magabrotheeeer/contest-creator/internal/models"
)

// ListLimits возвращает все административные лимиты на содержимое конкурса.
func (s *Storage) ListLimits(ctx context.Context) (models.LimitsConfig, error) {
	const op = "storage.ListLimits"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT name, value FROM contest_limits`
	rows, err := s.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	limits := make(models.LimitsConfig)
	for rows.Next() {
		var name string
		var value int64
		if err := rows.Scan(&name, &value); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		limits[models.LimitName(name)] = value
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return limits, nil
}

// ListPriceSchedule возвращает весь прайс-лист.
func (s *Storage) ListPriceSchedule(ctx context.Context) (models.PriceSchedule, error) {
	const op = "storage.ListPriceSchedule"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT line_item, price FROM price_schedule`
	rows, err := s.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	schedule := make(models.PriceSchedule)
	for rows.Next() {
		var item string
		var price int64
		if err := rows.Scan(&item, &price); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		schedule[models.LineItem(item)] = price
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return schedule, nil
}

// SetLimit обновляет значение лимита (административная операция).
func (s *Storage) SetLimit(ctx context.Context, name models.LimitName, value int64) error {
	const op = "storage.SetLimit"

	query := `INSERT INTO contest_limits (name, value) VALUES ($1, $2)
			  ON CONFLICT (name) DO UPDATE SET value = EXCLUDED.value`
	if _, err := s.DB.ExecContext(ctx, query, string(name), value); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// SetPrice обновляет цену позиции прайс-листа (административная операция).
func (s *Storage) SetPrice(ctx context.Context, item models.LineItem, price int64) error {
	const op = "storage.SetPrice"

	query := `INSERT INTO price_schedule (line_item, price) VALUES ($1, $2)
			  ON CONFLICT (line_item) DO UPDATE SET price = EXCLUDED.price`
	if _, err := s.DB.ExecContext(ctx, query, string(item), price); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}
