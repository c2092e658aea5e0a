package db

import (
	"context"
	"fmt"
	"time"
)

// RecordAuditEvent appends an entry to the administrative audit log.
func (db *DB) RecordAuditEvent(ctx context.Context, eventType, message, userEmail, ip string) error {
	_, err := db.pool.Exec(ctx,
		`INSERT INTO audit_events (event_type, message, user_email, ip)
		 VALUES ($1, $2, $3, $4)`,
		eventType, message, userEmail, ip)
	if err != nil {
		return fmt.Errorf("failed to record audit event: %w", err)
	}
	return nil
}

// ListAuditEvents returns recent audit entries, newest first. An empty
// eventType returns all types.
func (db *DB) ListAuditEvents(ctx context.Context, eventType string, limit int) ([]*AuditEvent, error) {
	query := `SELECT id, event_type, message, user_email, ip, created_at
		 FROM audit_events`
	args := []any{limit}
	if eventType != "" {
		query += ` WHERE event_type = $2`
		args = append(args, eventType)
	}
	query += ` ORDER BY created_at DESC LIMIT $1`

	rows, err := db.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list audit events: %w", err)
	}
	defer rows.Close()

	var out []*AuditEvent
	for rows.Next() {
		var e AuditEvent
		err := rows.Scan(&e.ID, &e.EventType, &e.Message, &e.UserEmail, &e.IP, &e.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan audit event: %w", err)
		}
		out = append(out, &e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate audit events: %w", err)
	}
	return out, nil
}

// AuditActivitySeries counts audit events per day over the trailing window,
// for the admin dashboard chart.
func (db *DB) AuditActivitySeries(ctx context.Context, days int) (map[string]int, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT created_at::date, COUNT(*)
		 FROM audit_events
		 WHERE created_at >= NOW() - ($1 || ' days')::interval
		 GROUP BY 1 ORDER BY 1`,
		days)
	if err != nil {
		return nil, fmt.Errorf("failed to query activity series: %w", err)
	}
	defer rows.Close()

	series := make(map[string]int)
	for rows.Next() {
		var day time.Time
		var n int
		if err := rows.Scan(&day, &n); err != nil {
			return nil, fmt.Errorf("failed to scan activity row: %w", err)
		}
		series[day.Format("2006-01-02")] = n
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate activity rows: %w", err)
	}
	return series, nil
}
