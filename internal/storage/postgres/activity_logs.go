package postgres

import (
	"context"
	"fmt"

	"github.com/fitai/fitai/internal/storage"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

type activityLogsStorage struct {
	pool *pgxpool.Pool
}

func (s *activityLogsStorage) CreateLog(ctx context.Context, log *storage.ActivityLog) error {
	if log.ID == uuid.Nil {
		log.ID = uuid.New()
	}

	query := `
		INSERT INTO activity_logs (id, user_id, log_type, data, calories, log_date, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, NOW())
		RETURNING created_at
	`

	err := s.pool.QueryRow(ctx, query,
		log.ID,
		log.UserID,
		log.Type,
		log.Data,
		log.Calories,
		log.Date,
	).Scan(&log.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create log: %w", err)
	}
	return nil
}

func (s *activityLogsStorage) ListLogs(ctx context.Context, userID uuid.UUID, filter storage.LogFilter) ([]storage.ActivityLog, error) {
	w := &whereBuilder{}
	w.add("user_id = ?", userID)
	if filter.Type != "" {
		w.add("log_type = ?", filter.Type)
	}
	w.period("log_date", filter.Period)

	query := `SELECT id, user_id, log_type, data, calories, log_date, created_at FROM activity_logs` +
		w.sql() + ` ORDER BY log_date DESC, created_at DESC`
	query += w.limit(filter.Limit)

	rows, err := s.pool.Query(ctx, query, w.args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list logs: %w", err)
	}
	defer rows.Close()

	logs := []storage.ActivityLog{}
	for rows.Next() {
		var l storage.ActivityLog
		if err := rows.Scan(&l.ID, &l.UserID, &l.Type, &l.Data, &l.Calories, &l.Date, &l.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan log: %w", err)
		}
		logs = append(logs, l)
	}
	return logs, rows.Err()
}

func (s *activityLogsStorage) CountLogs(ctx context.Context, userID uuid.UUID, period storage.Period) (int, error) {
	w := &whereBuilder{}
	w.add("user_id = ?", userID)
	w.period("log_date", period)

	var count int
	if err := s.pool.QueryRow(ctx, `SELECT COUNT(*) FROM activity_logs`+w.sql(), w.args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count logs: %w", err)
	}
	return count, nil
}
