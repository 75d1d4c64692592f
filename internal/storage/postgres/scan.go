package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// IncrScanCount атомарно инкрементирует дневной счётчик сканирований меню
// и возвращает новое значение. Upsert выполняется на стороне БД: два
// конкурентных сканирования не могут потерять инкремент.
func (s *Storage) IncrScanCount(ctx context.Context, menuID uuid.UUID, day time.Time) (int64, error) {
	const op = "storage.postgres.IncrScanCount"

	query := `
        INSERT INTO scan_counters(menu_id, day, count)
        VALUES ($1, $2, 1)
        ON CONFLICT (menu_id, day)
        DO UPDATE SET count = scan_counters.count + 1
        RETURNING count
    `

	var count int64
	if err := s.db.QueryRow(ctx, query, menuID, dayKey(day)).Scan(&count); err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	return count, nil
}

// ScanCount возвращает текущее значение дневного счётчика (0, если записи нет).
func (s *Storage) ScanCount(ctx context.Context, menuID uuid.UUID, day time.Time) (int64, error) {
	const op = "storage.postgres.ScanCount"

	query := `
        SELECT count FROM scan_counters
        WHERE menu_id = $1 AND day = $2
    `

	var count int64
	err := s.db.QueryRow(ctx, query, menuID, dayKey(day)).Scan(&count)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, nil
		}

		return 0, fmt.Errorf("%s: %w", op, err)
	}

	return count, nil
}

// dayKey нормализует момент времени к календарному дню UTC.
// Один и тот же ключ используется и для инкремента, и для сравнения с лимитом.
func dayKey(t time.Time) time.Time {
	return t.UTC().Truncate(24 * time.Hour)
}
