package db

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

// CreateNotification stores an in-app notification for a user.
func (db *DB) CreateNotification(ctx context.Context, userID uuid.UUID, userRole, title, message string) error {
	_, err := db.pool.Exec(ctx,
		`INSERT INTO notifications (user_id, user_role, title, message)
		 VALUES ($1, $2, $3, $4)`,
		userID, userRole, title, message)
	if err != nil {
		return fmt.Errorf("failed to create notification: %w", err)
	}
	return nil
}

// ListNotifications returns the user's notifications, newest first.
func (db *DB) ListNotifications(ctx context.Context, userID uuid.UUID, limit int) ([]*Notification, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT id, user_id, user_role, title, message, read, created_at
		 FROM notifications
		 WHERE user_id = $1
		 ORDER BY created_at DESC
		 LIMIT $2`,
		userID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list notifications: %w", err)
	}
	defer rows.Close()

	var out []*Notification
	for rows.Next() {
		var n Notification
		err := rows.Scan(&n.ID, &n.UserID, &n.UserRole, &n.Title, &n.Message, &n.Read, &n.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan notification: %w", err)
		}
		out = append(out, &n)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate notifications: %w", err)
	}
	return out, nil
}

// CountUnreadNotifications returns the user's unread notification count.
func (db *DB) CountUnreadNotifications(ctx context.Context, userID uuid.UUID) (int, error) {
	var n int
	err := db.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM notifications WHERE user_id = $1 AND read = FALSE`,
		userID,
	).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("failed to count unread notifications: %w", err)
	}
	return n, nil
}

// MarkNotificationRead marks one of the user's notifications as read.
// Returns false if no matching notification exists.
func (db *DB) MarkNotificationRead(ctx context.Context, id, userID uuid.UUID) (bool, error) {
	tag, err := db.pool.Exec(ctx,
		`UPDATE notifications SET read = TRUE WHERE id = $1 AND user_id = $2`,
		id, userID)
	if err != nil {
		return false, fmt.Errorf("failed to mark notification read: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

// MarkAllNotificationsRead marks all of the user's notifications as read.
func (db *DB) MarkAllNotificationsRead(ctx context.Context, userID uuid.UUID) error {
	_, err := db.pool.Exec(ctx,
		`UPDATE notifications SET read = TRUE WHERE user_id = $1 AND read = FALSE`,
		userID)
	if err != nil {
		return fmt.Errorf("failed to mark notifications read: %w", err)
	}
	return nil
}
