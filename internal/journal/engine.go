// Package journal drives a user's walk through the question catalog.
package journal

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"

	"telegram-journal-bot/internal/logger"
	"telegram-journal-bot/internal/models"
	"telegram-journal-bot/internal/questions"
	"telegram-journal-bot/internal/storage"
	"telegram-journal-bot/internal/utils"
)

// SkipAnswer is the raw answer that skips a question without recording it.
const SkipAnswer = "skip"

// Store is the persistence the engine needs.
type Store interface {
	GetUser(ctx context.Context, chatID int64) (*models.User, error)
	GetConversationState(ctx context.Context, chatID int64) (models.ConversationState, error)
	InUserTx(ctx context.Context, chatID int64, fn func(tx *storage.Tx) error) error
}

// Prompt is a question ready to be shown to the user.
type Prompt struct {
	Question  models.Question
	Options   []models.Option
	SessionID string
}

// Step is the result of a submitted answer: either the next prompt or completion.
type Step struct {
	Next      *Prompt
	Completed bool
	Recorded  bool
	SessionID string
}

type Engine struct {
	store   Store
	catalog *questions.Catalog
	locks   *utils.KeyedMutex
	clock   clockwork.Clock
	log     *logger.Logger
	newID   func() string
}

type Option func(*Engine)

func WithClock(c clockwork.Clock) Option { return func(e *Engine) { e.clock = c } }

func WithLogger(l *logger.Logger) Option { return func(e *Engine) { e.log = l } }

// WithSessionIDs replaces the uuid session id generator.
func WithSessionIDs(fn func() string) Option { return func(e *Engine) { e.newID = fn } }

func NewEngine(st Store, catalog *questions.Catalog, opts ...Option) *Engine {
	e := &Engine{
		store:   st,
		catalog: catalog,
		locks:   utils.NewKeyedMutex(),
		clock:   clockwork.NewRealClock(),
		log:     logger.Nop(),
		newID:   uuid.NewString,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

func newPrompt(q models.Question, session string) *Prompt {
	return &Prompt{Question: q, Options: q.AnswerOptions(), SessionID: session}
}

// StartSession opens a new session at the first active question, replacing
// any state the user was in.
func (e *Engine) StartSession(ctx context.Context, chatID int64) (*Prompt, error) {
	unlock := e.locks.Lock(chatID)
	defer unlock()

	u, err := e.store.GetUser(ctx, chatID)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, ErrUserNotFound
	}
	if !u.Active {
		return nil, ErrInactiveUser
	}

	first, ok := e.catalog.First()
	if !ok {
		e.log.Error("Engine StartSession: catalog has no active question", "chat_id", chatID)
		return nil, ErrNoQuestions
	}

	session := e.newID()
	err = e.store.InUserTx(ctx, chatID, func(tx *storage.Tx) error {
		return tx.SaveConversationState(ctx, models.AwaitingAnswer{QuestionID: first.ID, SessionID: session})
	})
	if err != nil {
		return nil, fmt.Errorf("failed to start session for %d: %w", chatID, err)
	}

	e.log.Info("Engine StartSession succeeded", "chat_id", chatID, "session_id", session, "question_id", first.ID)
	return newPrompt(first, session), nil
}

// SubmitAnswer records raw for questionID and advances the session. The
// guard, the response insert and the state update share one transaction.
func (e *Engine) SubmitAnswer(ctx context.Context, chatID, questionID int64, raw string) (Step, error) {
	unlock := e.locks.Lock(chatID)
	defer unlock()

	var step Step
	err := e.store.InUserTx(ctx, chatID, func(tx *storage.Tx) error {
		st, err := tx.ConversationState(ctx)
		if err != nil {
			return err
		}
		awaiting, ok := st.(models.AwaitingAnswer)
		if !ok || awaiting.QuestionID != questionID {
			return fmt.Errorf("%w: question %d is not outstanding for %d", ErrStaleSession, questionID, chatID)
		}
		q, ok := e.catalog.Question(questionID)
		if !ok {
			return fmt.Errorf("%w: question %d left the catalog", ErrStaleSession, questionID)
		}

		if !isSkip(raw) {
			opt, ok := e.catalog.Option(questionID, raw)
			if !ok {
				return fmt.Errorf("%w: %q", ErrInvalidAnswer, raw)
			}
			err := tx.InsertResponse(ctx, &models.Response{
				QuestionID:  questionID,
				Answer:      opt.Label,
				SessionID:   awaiting.SessionID,
				RespondedAt: e.clock.Now(),
			})
			if err != nil {
				return err
			}
			step.Recorded = true
		}

		step.SessionID = awaiting.SessionID
		if next, ok := e.catalog.NextAfter(q.Ordinal); ok {
			step.Next = newPrompt(next, awaiting.SessionID)
			return tx.SaveConversationState(ctx, models.AwaitingAnswer{QuestionID: next.ID, SessionID: awaiting.SessionID})
		}
		step.Completed = true
		return tx.SaveConversationState(ctx, models.Idle{})
	})
	if err != nil {
		e.log.Debug("Engine SubmitAnswer rejected", "chat_id", chatID, "question_id", questionID, "error", err)
		return Step{}, err
	}

	e.log.Info("Engine SubmitAnswer succeeded", "chat_id", chatID, "question_id", questionID,
		"recorded", step.Recorded, "completed", step.Completed)
	return step, nil
}

// CurrentPrompt returns the outstanding question, or nil when not journaling.
func (e *Engine) CurrentPrompt(ctx context.Context, chatID int64) (*Prompt, error) {
	st, err := e.store.GetConversationState(ctx, chatID)
	if err != nil {
		return nil, err
	}
	awaiting, ok := st.(models.AwaitingAnswer)
	if !ok {
		return nil, nil
	}
	q, ok := e.catalog.Question(awaiting.QuestionID)
	if !ok {
		return nil, nil
	}
	return newPrompt(q, awaiting.SessionID), nil
}

// BeginTextInput makes the next plain message count as input.
func (e *Engine) BeginTextInput(ctx context.Context, chatID int64, input models.TextInput) error {
	unlock := e.locks.Lock(chatID)
	defer unlock()

	return e.store.InUserTx(ctx, chatID, func(tx *storage.Tx) error {
		return tx.SaveConversationState(ctx, models.AwaitingText{Input: input})
	})
}

// PendingTextInput reports which text value, if any, the user was asked for.
func (e *Engine) PendingTextInput(ctx context.Context, chatID int64) (models.TextInput, bool, error) {
	st, err := e.store.GetConversationState(ctx, chatID)
	if err != nil {
		return "", false, err
	}
	if aw, ok := st.(models.AwaitingText); ok {
		return aw.Input, true, nil
	}
	return "", false, nil
}

// ClearTextInput returns an AwaitingText user to Idle. Other states are kept.
func (e *Engine) ClearTextInput(ctx context.Context, chatID int64) error {
	unlock := e.locks.Lock(chatID)
	defer unlock()

	return e.store.InUserTx(ctx, chatID, func(tx *storage.Tx) error {
		st, err := tx.ConversationState(ctx)
		if err != nil {
			return err
		}
		if _, ok := st.(models.AwaitingText); !ok {
			return nil
		}
		return tx.SaveConversationState(ctx, models.Idle{})
	})
}

func isSkip(raw string) bool {
	return strings.EqualFold(strings.TrimSpace(raw), SkipAnswer)
}
