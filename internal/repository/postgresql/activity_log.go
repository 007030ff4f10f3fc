package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/hrm-suite/hrm-backend-go/internal/domain/activitylog"
	"github.com/hrm-suite/hrm-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

const activityLogSelect = `
	SELECT a.id, a.user_id, u.email, a.action, a.created_at, a.updated_at
	FROM activity_logs a
	JOIN users u ON u.id = a.user_id`

type activityLogRepository struct {
	db *database.DB
}

func NewActivityLogRepository(db *database.DB) activitylog.ActivityLogRepository {
	return &activityLogRepository{db: db}
}

func scanActivityLog(row pgx.Row) (activitylog.ActivityLog, error) {
	var a activitylog.ActivityLog
	err := row.Scan(&a.ID, &a.UserID, &a.UserEmail, &a.Action, &a.CreatedAt, &a.UpdatedAt)
	return a, err
}

// Create implements activitylog.ActivityLogRepository.
func (r *activityLogRepository) Create(ctx context.Context, log activitylog.ActivityLog) (activitylog.ActivityLog, error) {
	q := GetQuerier(ctx, r.db)

	id, err := uuid.NewV7()
	if err != nil {
		return activitylog.ActivityLog{}, fmt.Errorf("failed to generate activity log id: %w", err)
	}

	created, err := scanActivityLog(q.QueryRow(ctx, `
		WITH inserted AS (
			INSERT INTO activity_logs (id, user_id, action)
			VALUES ($1, $2, $3)
			RETURNING id, user_id, action, created_at, updated_at
		)
		SELECT a.id, a.user_id, u.email, a.action, a.created_at, a.updated_at
		FROM inserted a
		JOIN users u ON u.id = a.user_id
	`, id.String(), log.UserID, log.Action))
	if err != nil {
		return activitylog.ActivityLog{}, fmt.Errorf("failed to create activity log: %w", err)
	}
	return created, nil
}

// GetByID implements activitylog.ActivityLogRepository.
func (r *activityLogRepository) GetByID(ctx context.Context, id string) (activitylog.ActivityLog, error) {
	q := GetQuerier(ctx, r.db)

	a, err := scanActivityLog(q.QueryRow(ctx, activityLogSelect+` WHERE a.id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return activitylog.ActivityLog{}, activitylog.ErrActivityLogNotFound
		}
		return activitylog.ActivityLog{}, fmt.Errorf("failed to get activity log: %w", err)
	}
	return a, nil
}

// List implements activitylog.ActivityLogRepository.
func (r *activityLogRepository) List(ctx context.Context, filter activitylog.ActivityLogFilter) ([]activitylog.ActivityLog, int64, error) {
	q := GetQuerier(ctx, r.db)

	var userID *string
	if filter.UserID != nil && *filter.UserID != "" {
		userID = filter.UserID
	}

	var total int64
	if err := q.QueryRow(ctx, `
		SELECT COUNT(*) FROM activity_logs a WHERE $1::uuid IS NULL OR a.user_id = $1::uuid
	`, userID).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count activity logs: %w", err)
	}

	query := activityLogSelect + `
		WHERE $1::uuid IS NULL OR a.user_id = $1::uuid
		ORDER BY a.created_at DESC, a.id DESC`
	args := []interface{}{userID}
	if filter.Limit > 0 {
		page := max(filter.Page, 1)
		query += ` LIMIT $2 OFFSET $3`
		args = append(args, filter.Limit, (page-1)*filter.Limit)
	}

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query activity logs: %w", err)
	}
	defer rows.Close()

	var logs []activitylog.ActivityLog
	for rows.Next() {
		a, err := scanActivityLog(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan activity log: %w", err)
		}
		logs = append(logs, a)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to iterate activity logs: %w", err)
	}

	return logs, total, nil
}

// UpdateAction implements activitylog.ActivityLogRepository.
func (r *activityLogRepository) UpdateAction(ctx context.Context, id string, action string) (activitylog.ActivityLog, error) {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `UPDATE activity_logs SET action = $2, updated_at = NOW() WHERE id = $1`, id, action)
	if err != nil {
		return activitylog.ActivityLog{}, fmt.Errorf("failed to update activity log: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return activitylog.ActivityLog{}, activitylog.ErrActivityLogNotFound
	}
	return r.GetByID(ctx, id)
}

// Delete implements activitylog.ActivityLogRepository.
func (r *activityLogRepository) Delete(ctx context.Context, id string) error {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `DELETE FROM activity_logs WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete activity log: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return activitylog.ErrActivityLogNotFound
	}
	return nil
}
