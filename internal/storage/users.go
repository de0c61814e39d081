package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"telegram-journal-bot/internal/models"
)

const userColumns = `id, chat_id, username, timezone, active, created_at`

// EnsureUser returns the user for chatID, creating it on first contact.
// created reports whether a new row was inserted.
func (d *DB) EnsureUser(ctx context.Context, chatID int64, username, timezone string) (u *models.User, created bool, err error) {
	res, err := d.ExecContext(ctx, d.rebind(`
        INSERT INTO users (chat_id, username, timezone, active, created_at)
        VALUES (?,?,?,?,?)
        ON CONFLICT(chat_id) DO NOTHING`),
		chatID, username, timezone, true, time.Now().Unix())
	if err != nil {
		return nil, false, fmt.Errorf("failed to insert user %d: %w", chatID, err)
	}
	n, _ := res.RowsAffected()
	if n == 0 && username != "" {
		if _, err := d.ExecContext(ctx, d.rebind(`UPDATE users SET username=? WHERE chat_id=?`), username, chatID); err != nil {
			return nil, false, fmt.Errorf("failed to update username for %d: %w", chatID, err)
		}
	}
	u, err = d.GetUser(ctx, chatID)
	return u, n > 0, err
}

// GetUser returns nil, nil when the user does not exist.
func (d *DB) GetUser(ctx context.Context, chatID int64) (*models.User, error) {
	u, err := scanUser(d.QueryRowContext(ctx, d.rebind(`SELECT `+userColumns+` FROM users WHERE chat_id=?`), chatID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user %d: %w", chatID, err)
	}
	return u, nil
}

func (d *DB) SetUserActive(ctx context.Context, chatID int64, active bool) error {
	_, err := d.ExecContext(ctx, d.rebind(`UPDATE users SET active=? WHERE chat_id=?`), active, chatID)
	if err != nil {
		return fmt.Errorf("failed to set active=%t for %d: %w", active, chatID, err)
	}
	return nil
}

// DeactivateUser marks the user inactive and deletes their schedules in one
// transaction.
func (d *DB) DeactivateUser(ctx context.Context, chatID int64) error {
	tx, err := d.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, d.rebind(`UPDATE users SET active=? WHERE chat_id=?`), false, chatID); err != nil {
		return fmt.Errorf("failed to deactivate %d: %w", chatID, err)
	}
	if _, err := tx.ExecContext(ctx, d.rebind(`DELETE FROM schedules WHERE chat_id=?`), chatID); err != nil {
		return fmt.Errorf("failed to clear schedules for %d: %w", chatID, err)
	}
	return tx.Commit()
}

func (d *DB) SetUserTimezone(ctx context.Context, chatID int64, timezone string) error {
	_, err := d.ExecContext(ctx, d.rebind(`UPDATE users SET timezone=? WHERE chat_id=?`), timezone, chatID)
	if err != nil {
		return fmt.Errorf("failed to set timezone for %d: %w", chatID, err)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(r rowScanner) (*models.User, error) {
	var (
		u       models.User
		created int64
	)
	if err := r.Scan(&u.ID, &u.ChatID, &u.Username, &u.Timezone, &u.Active, &created); err != nil {
		return nil, err
	}
	u.CreatedAt = time.Unix(created, 0).UTC()
	return &u, nil
}
