package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"telegram-journal-bot/internal/models"
)

// ListResponses returns the user's responses at or after since, oldest first,
// joined with the question category.
func (d *DB) ListResponses(ctx context.Context, chatID int64, since time.Time) ([]models.ResponseRecord, error) {
	rows, err := d.QueryContext(ctx, d.rebind(`
        SELECT r.id, r.chat_id, r.question_id, r.answer, r.session_id, r.responded_at, q.category
        FROM responses r JOIN questions q ON q.id = r.question_id
        WHERE r.chat_id = ? AND r.responded_at >= ?
        ORDER BY r.responded_at, r.id`), chatID, since.Unix())
	if err != nil {
		return nil, fmt.Errorf("failed to query responses for %d: %w", chatID, err)
	}
	defer rows.Close()

	var res []models.ResponseRecord
	for rows.Next() {
		var (
			rec     models.ResponseRecord
			session sql.NullString
			at      int64
			cat     string
		)
		if err := rows.Scan(&rec.ID, &rec.ChatID, &rec.QuestionID, &rec.Answer, &session, &at, &cat); err != nil {
			return nil, fmt.Errorf("failed to scan response: %w", err)
		}
		rec.SessionID = session.String
		rec.RespondedAt = time.Unix(at, 0).UTC()
		rec.Category = models.Category(cat)
		res = append(res, rec)
	}
	return res, rows.Err()
}

// CountResponses counts every stored response of the user.
func (d *DB) CountResponses(ctx context.Context, chatID int64) (int, error) {
	var n int
	err := d.QueryRowContext(ctx, d.rebind(`SELECT COUNT(*) FROM responses WHERE chat_id=?`), chatID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("failed to count responses for %d: %w", chatID, err)
	}
	return n, nil
}
