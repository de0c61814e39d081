package storage

import (
	"context"
	"fmt"
	"time"

	"telegram-journal-bot/internal/models"
)

// ReplaceSchedules swaps the user's schedule set for times in one transaction
// and updates the timezone when tz is non-empty. times must already be
// validated and deduplicated.
func (d *DB) ReplaceSchedules(ctx context.Context, chatID int64, times []string, tz string) error {
	tx, err := d.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if tz != "" {
		if _, err := tx.ExecContext(ctx, d.rebind(`UPDATE users SET timezone=? WHERE chat_id=?`), tz, chatID); err != nil {
			return fmt.Errorf("failed to update timezone for %d: %w", chatID, err)
		}
	}
	if _, err := tx.ExecContext(ctx, d.rebind(`DELETE FROM schedules WHERE chat_id=?`), chatID); err != nil {
		return fmt.Errorf("failed to clear schedules for %d: %w", chatID, err)
	}
	now := time.Now().Unix()
	for _, t := range times {
		if _, err := tx.ExecContext(ctx, d.rebind(`
            INSERT INTO schedules (chat_id, time_of_day, enabled, created_at)
            VALUES (?,?,?,?)
            ON CONFLICT(chat_id, time_of_day) DO UPDATE SET enabled=excluded.enabled`),
			chatID, t, true, now,
		); err != nil {
			return fmt.Errorf("failed to insert schedule %s for %d: %w", t, chatID, err)
		}
	}
	return tx.Commit()
}

// DeleteSchedules removes one time, or all of them when timeOfDay is empty.
func (d *DB) DeleteSchedules(ctx context.Context, chatID int64, timeOfDay string) (int64, error) {
	query, args := `DELETE FROM schedules WHERE chat_id=?`, []any{chatID}
	if timeOfDay != "" {
		query += ` AND time_of_day=?`
		args = append(args, timeOfDay)
	}
	res, err := d.ExecContext(ctx, d.rebind(query), args...)
	if err != nil {
		return 0, fmt.Errorf("failed to delete schedules for %d: %w", chatID, err)
	}
	return res.RowsAffected()
}

func (d *DB) ListSchedules(ctx context.Context, chatID int64) ([]models.Schedule, error) {
	rows, err := d.QueryContext(ctx, d.rebind(`
        SELECT chat_id, time_of_day, enabled FROM schedules
        WHERE chat_id=? ORDER BY time_of_day`), chatID)
	if err != nil {
		return nil, fmt.Errorf("failed to query schedules for %d: %w", chatID, err)
	}
	defer rows.Close()

	var res []models.Schedule
	for rows.Next() {
		var s models.Schedule
		if err := rows.Scan(&s.ChatID, &s.TimeOfDay, &s.Enabled); err != nil {
			return nil, fmt.Errorf("failed to scan schedule: %w", err)
		}
		res = append(res, s)
	}
	return res, rows.Err()
}

// ListScheduledPrompts returns every enabled schedule of an active user.
func (d *DB) ListScheduledPrompts(ctx context.Context) ([]models.ScheduledPrompt, error) {
	rows, err := d.QueryContext(ctx, d.rebind(`
        SELECT s.chat_id, s.time_of_day, u.timezone
        FROM schedules s JOIN users u ON u.chat_id = s.chat_id
        WHERE u.active = ? AND s.enabled = ?
        ORDER BY s.chat_id, s.time_of_day`), true, true)
	if err != nil {
		return nil, fmt.Errorf("failed to query scheduled prompts: %w", err)
	}
	defer rows.Close()

	var res []models.ScheduledPrompt
	for rows.Next() {
		var p models.ScheduledPrompt
		if err := rows.Scan(&p.ChatID, &p.TimeOfDay, &p.Timezone); err != nil {
			return nil, fmt.Errorf("failed to scan scheduled prompt: %w", err)
		}
		res = append(res, p)
	}
	return res, rows.Err()
}
