package repository

import (
	"context"
	"fmt"

	"github.com/magabrotheeeer/contest-creator/internal/models"
)

// SaveContest записывает сведения о завершённой покупке конкурса.
func (s *Storage) SaveContest(ctx context.Context, rec models.ContestRecord) error {
	const op = "storage.SaveContest"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `INSERT INTO contests (contest_id, session_id, creator, name, price_paid, oversized)
			  VALUES ($1, $2, $3, $4, $5, $6)`
	_, err := s.DB.ExecContext(ctx, query,
		rec.ContestID, rec.SessionID, rec.Creator, rec.Name, rec.PricePaid, rec.Oversized)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// ListContestsByCreator возвращает записи о конкурсах, купленных аккаунтом.
func (s *Storage) ListContestsByCreator(ctx context.Context, creator string) ([]*models.ContestRecord, error) {
	const op = "storage.ListContestsByCreator"

	query := `SELECT contest_id, session_id, creator, name, price_paid, oversized
			  FROM contests WHERE creator = $1 ORDER BY created_at`
	rows, err := s.DB.QueryContext(ctx, query, creator)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	var result []*models.ContestRecord
	for rows.Next() {
		var rec models.ContestRecord
		if err := rows.Scan(&rec.ContestID, &rec.SessionID, &rec.Creator,
			&rec.Name, &rec.PricePaid, &rec.Oversized); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, &rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}
