package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"telegram-journal-bot/internal/models"
)

// Tx is a transaction scoped to one user, see InUserTx.
type Tx struct {
	tx     *sql.Tx
	db     *DB
	chatID int64
}

// InUserTx runs fn inside a transaction holding the user's row lock. fn's
// writes commit together or not at all.
func (d *DB) InUserTx(ctx context.Context, chatID int64, fn func(tx *Tx) error) error {
	sqlTx, err := d.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin tx for %d: %w", chatID, err)
	}
	defer sqlTx.Rollback()

	if d.dialect == Postgres {
		var locked int64
		err := sqlTx.QueryRowContext(ctx, `SELECT chat_id FROM users WHERE chat_id=$1 FOR UPDATE`, chatID).Scan(&locked)
		if err != nil && !errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("failed to lock user %d: %w", chatID, err)
		}
	}

	if err := fn(&Tx{tx: sqlTx, db: d, chatID: chatID}); err != nil {
		return err
	}
	return sqlTx.Commit()
}

func (t *Tx) ConversationState(ctx context.Context) (models.ConversationState, error) {
	return t.db.conversationState(ctx, t.tx, t.chatID)
}

func (t *Tx) SaveConversationState(ctx context.Context, st models.ConversationState) error {
	return t.db.saveConversationState(ctx, t.tx, t.chatID, st)
}

// InsertResponse appends r for the transaction's user.
func (t *Tx) InsertResponse(ctx context.Context, r *models.Response) error {
	if r.RespondedAt.IsZero() {
		r.RespondedAt = time.Now()
	}
	_, err := t.tx.ExecContext(ctx, t.db.rebind(`
        INSERT INTO responses (chat_id, question_id, answer, session_id, responded_at)
        VALUES (?,?,?,?,?)`),
		t.chatID, r.QuestionID, r.Answer, nilIfEmpty(r.SessionID), r.RespondedAt.Unix())
	if err != nil {
		return fmt.Errorf("failed to insert response for %d: %w", t.chatID, err)
	}
	r.ChatID = t.chatID
	return nil
}

// GetConversationState reads outside of a transaction. A missing row is Idle.
func (d *DB) GetConversationState(ctx context.Context, chatID int64) (models.ConversationState, error) {
	return d.conversationState(ctx, d.DB, chatID)
}

func (d *DB) SaveConversationState(ctx context.Context, chatID int64, st models.ConversationState) error {
	return d.saveConversationState(ctx, d.DB, chatID, st)
}

func (d *DB) conversationState(ctx context.Context, q queryer, chatID int64) (models.ConversationState, error) {
	var (
		mode, session sql.NullString
		question      sql.NullInt64
	)
	err := q.QueryRowContext(ctx, d.rebind(`
        SELECT mode, current_question_id, session_id
        FROM conversation_states WHERE chat_id=?`), chatID,
	).Scan(&mode, &question, &session)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Idle{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get conversation state for %d: %w", chatID, err)
	}

	var (
		qid *int64
		sid *string
	)
	if question.Valid {
		qid = &question.Int64
	}
	if session.Valid {
		sid = &session.String
	}
	return models.StateFromColumns(mode.String, qid, sid), nil
}

func (d *DB) saveConversationState(ctx context.Context, q queryer, chatID int64, st models.ConversationState) error {
	mode, question, session := models.StateColumns(st)
	_, err := q.ExecContext(ctx, d.rebind(`
        INSERT INTO conversation_states (chat_id, current_question_id, session_id, mode, updated_at)
        VALUES (?,?,?,?,?)
        ON CONFLICT(chat_id) DO UPDATE SET current_question_id=excluded.current_question_id,
            session_id=excluded.session_id,
            mode=excluded.mode,
            updated_at=excluded.updated_at`),
		chatID, nullInt(question), nullString(session), nullString(mode), time.Now().Unix())
	if err != nil {
		return fmt.Errorf("failed to save conversation state for %d: %w", chatID, err)
	}
	return nil
}
