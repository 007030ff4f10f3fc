package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/hrm-suite/hrm-backend-go/internal/domain/notification"
	"github.com/hrm-suite/hrm-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

const notificationColumns = `n.id, n.title, n.message, n.recipient_ids::text[], n.department_id,
	n.urgency, n.status, n.created_by, n.created_at, n.updated_at`

type notificationRepository struct {
	db *database.DB
}

func NewNotificationRepository(db *database.DB) notification.NotificationRepository {
	return &notificationRepository{db: db}
}

func scanNotification(row pgx.Row) (notification.Notification, error) {
	var n notification.Notification
	err := row.Scan(&n.ID, &n.Title, &n.Message, &n.RecipientIDs, &n.DepartmentID,
		&n.Urgency, &n.Status, &n.CreatedBy, &n.CreatedAt, &n.UpdatedAt)
	return n, err
}

func recipientArray(ids []string) []string {
	if ids == nil {
		return []string{}
	}
	return ids
}

// Create implements notification.NotificationRepository.
func (r *notificationRepository) Create(ctx context.Context, n notification.Notification) (notification.Notification, error) {
	q := GetQuerier(ctx, r.db)

	id, err := uuid.NewV7()
	if err != nil {
		return notification.Notification{}, fmt.Errorf("failed to generate notification id: %w", err)
	}
	n.ID = id.String()
	n.RecipientIDs = recipientArray(n.RecipientIDs)

	err = q.QueryRow(ctx, `
		INSERT INTO notifications (id, title, message, recipient_ids, department_id, urgency, status, created_by)
		VALUES ($1, $2, $3, $4::text[]::uuid[], $5, $6, $7, $8)
		RETURNING created_at, updated_at
	`, n.ID, n.Title, n.Message, n.RecipientIDs, n.DepartmentID, n.Urgency, n.Status, n.CreatedBy).Scan(&n.CreatedAt, &n.UpdatedAt)
	if err != nil {
		return notification.Notification{}, fmt.Errorf("failed to create notification: %w", err)
	}

	return n, nil
}

// GetByID implements notification.NotificationRepository.
func (r *notificationRepository) GetByID(ctx context.Context, id string) (notification.Notification, error) {
	q := GetQuerier(ctx, r.db)

	n, err := scanNotification(q.QueryRow(ctx, `SELECT `+notificationColumns+` FROM notifications n WHERE n.id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return notification.Notification{}, notification.ErrNotificationNotFound
		}
		return notification.Notification{}, fmt.Errorf("failed to get notification: %w", err)
	}
	return n, nil
}

// List implements notification.NotificationRepository.
func (r *notificationRepository) List(ctx context.Context, filter notification.NotificationFilter) ([]notification.Notification, int64, error) {
	q := GetQuerier(ctx, r.db)

	baseWhere := "1=1"
	args := []interface{}{}
	argIdx := 1

	if filter.Status != nil && *filter.Status != "" {
		baseWhere += fmt.Sprintf(" AND n.status = $%d", argIdx)
		args = append(args, *filter.Status)
		argIdx++
	}
	if filter.Urgency != nil && *filter.Urgency != "" {
		baseWhere += fmt.Sprintf(" AND n.urgency = $%d", argIdx)
		args = append(args, *filter.Urgency)
		argIdx++
	}
	if filter.DepartmentID != nil && *filter.DepartmentID != "" {
		baseWhere += fmt.Sprintf(" AND n.department_id = $%d", argIdx)
		args = append(args, *filter.DepartmentID)
		argIdx++
	}

	var total int64
	if err := q.QueryRow(ctx, `SELECT COUNT(*) FROM notifications n WHERE `+baseWhere, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count notifications: %w", err)
	}

	selectQuery := fmt.Sprintf(`
		SELECT %s
		FROM notifications n
		WHERE %s
		ORDER BY n.created_at DESC, n.id DESC
	`, notificationColumns, baseWhere)

	if filter.Limit > 0 {
		page := max(filter.Page, 1)
		selectQuery += fmt.Sprintf(" LIMIT $%d OFFSET $%d", argIdx, argIdx+1)
		args = append(args, filter.Limit, (page-1)*filter.Limit)
	}

	rows, err := q.Query(ctx, selectQuery, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query notifications: %w", err)
	}
	defer rows.Close()

	var notifications []notification.Notification
	for rows.Next() {
		n, err := scanNotification(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan notification: %w", err)
		}
		notifications = append(notifications, n)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to iterate notifications: %w", err)
	}

	return notifications, total, nil
}

// ListForEmployee implements notification.NotificationRepository.
func (r *notificationRepository) ListForEmployee(ctx context.Context, employeeID string, departmentID *string) ([]notification.Notification, error) {
	q := GetQuerier(ctx, r.db)

	rows, err := q.Query(ctx, `
		SELECT `+notificationColumns+`
		FROM notifications n
		WHERE n.status = 'active'
		  AND (
			(cardinality(n.recipient_ids) = 0 AND n.department_id IS NULL)
			OR $1::uuid = ANY (n.recipient_ids)
			OR ($2::uuid IS NOT NULL AND n.department_id = $2::uuid)
		  )
		ORDER BY n.created_at DESC, n.id DESC
	`, employeeID, departmentID)
	if err != nil {
		return nil, fmt.Errorf("failed to query employee notifications: %w", err)
	}
	defer rows.Close()

	notifications := make([]notification.Notification, 0)
	for rows.Next() {
		n, err := scanNotification(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan notification: %w", err)
		}
		notifications = append(notifications, n)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate employee notifications: %w", err)
	}

	return notifications, nil
}

// Update implements notification.NotificationRepository.
func (r *notificationRepository) Update(ctx context.Context, n notification.Notification) (notification.Notification, error) {
	q := GetQuerier(ctx, r.db)

	n.RecipientIDs = recipientArray(n.RecipientIDs)
	err := q.QueryRow(ctx, `
		UPDATE notifications
		SET title = $2, message = $3, recipient_ids = $4::text[]::uuid[], department_id = $5,
			urgency = $6, status = $7, updated_at = NOW()
		WHERE id = $1
		RETURNING created_by, created_at, updated_at
	`, n.ID, n.Title, n.Message, n.RecipientIDs, n.DepartmentID, n.Urgency, n.Status).Scan(&n.CreatedBy, &n.CreatedAt, &n.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return notification.Notification{}, notification.ErrNotificationNotFound
		}
		return notification.Notification{}, fmt.Errorf("failed to update notification: %w", err)
	}

	return n, nil
}

// Delete implements notification.NotificationRepository.
func (r *notificationRepository) Delete(ctx context.Context, id string) error {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `DELETE FROM notifications WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete notification: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return notification.ErrNotificationNotFound
	}
	return nil
}
