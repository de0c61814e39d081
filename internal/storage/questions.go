package storage

import (
	"context"
	"fmt"

	"telegram-journal-bot/internal/models"
)

// SeedQuestions inserts qs with their options unless any question row exists.
// It returns the number of inserted questions.
func (d *DB) SeedQuestions(ctx context.Context, qs []models.Question) (int, error) {
	tx, err := d.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	var existing int
	if err := tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM questions`).Scan(&existing); err != nil {
		return 0, fmt.Errorf("failed to count questions: %w", err)
	}
	if existing > 0 {
		return 0, nil
	}

	for _, q := range qs {
		var id int64
		err := tx.QueryRowContext(ctx, d.rebind(`
            INSERT INTO questions (category, question_text, response_type, ordinal, active)
            VALUES (?,?,?,?,?) RETURNING id`),
			string(q.Category), q.Text, responseType(q), q.Ordinal, q.Active,
		).Scan(&id)
		if err != nil {
			return 0, fmt.Errorf("failed to insert question %d: %w", q.Ordinal, err)
		}
		for pos, opt := range q.Options {
			if _, err := tx.ExecContext(ctx, d.rebind(`
                INSERT INTO question_options (question_id, position, label, polarity)
                VALUES (?,?,?,?)`),
				id, pos, opt.Label, opt.Polarity,
			); err != nil {
				return 0, fmt.Errorf("failed to insert option %q: %w", opt.Label, err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return len(qs), nil
}

// ListQuestions returns every question ordered by ordinal, options attached.
func (d *DB) ListQuestions(ctx context.Context) ([]models.Question, error) {
	rows, err := d.QueryContext(ctx, `
        SELECT id, category, question_text, response_type, ordinal, active
        FROM questions ORDER BY ordinal, id`)
	if err != nil {
		return nil, fmt.Errorf("failed to query questions: %w", err)
	}
	defer rows.Close()

	var (
		res   []models.Question
		index = map[int64]int{}
	)
	for rows.Next() {
		var (
			q   models.Question
			cat string
		)
		if err := rows.Scan(&q.ID, &cat, &q.Text, &q.ResponseType, &q.Ordinal, &q.Active); err != nil {
			return nil, fmt.Errorf("failed to scan question: %w", err)
		}
		q.Category = models.Category(cat)
		index[q.ID] = len(res)
		res = append(res, q)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	rows.Close()

	optRows, err := d.QueryContext(ctx, `
        SELECT question_id, label, polarity
        FROM question_options ORDER BY question_id, position`)
	if err != nil {
		return nil, fmt.Errorf("failed to query question options: %w", err)
	}
	defer optRows.Close()

	for optRows.Next() {
		var (
			qid int64
			opt models.Option
		)
		if err := optRows.Scan(&qid, &opt.Label, &opt.Polarity); err != nil {
			return nil, fmt.Errorf("failed to scan question option: %w", err)
		}
		if i, ok := index[qid]; ok {
			res[i].Options = append(res[i].Options, opt)
		}
	}
	return res, optRows.Err()
}

func responseType(q models.Question) string {
	if q.ResponseType == "" {
		return "yes_no"
	}
	return q.ResponseType
}
