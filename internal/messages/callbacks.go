package messages

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// MaxCallbackData is Telegram's limit for callback_data, in bytes.
const MaxCallbackData = 64

const (
	ActionAnswer   = "answer"
	ActionSkip     = "skip"
	ActionJournal  = "journal"
	ActionSchedule = "schedule"
	ActionSettings = "settings"
	ActionConfirm  = "confirm"
)

var (
	ErrBadCallback     = errors.New("malformed callback data")
	ErrCallbackTooLong = errors.New("callback data exceeds 64 bytes")
)

// Callback is a decoded button token.
type Callback struct {
	Action     string
	QuestionID int64  // answer and skip only
	Value      string // answer label or menu value
}

// EncodeAnswer builds "answer:<qid>:<label>".
func EncodeAnswer(questionID int64, label string) (string, error) {
	s := fmt.Sprintf("%s:%d:%s", ActionAnswer, questionID, label)
	if len(s) > MaxCallbackData {
		return "", fmt.Errorf("%w: %q", ErrCallbackTooLong, s)
	}
	return s, nil
}

// EncodeSkip builds "skip:<qid>".
func EncodeSkip(questionID int64) string {
	return fmt.Sprintf("%s:%d", ActionSkip, questionID)
}

// EncodeMenu builds "<action>:<value>" for non-answer buttons.
func EncodeMenu(action, value string) string {
	return action + ":" + value
}

func DecodeCallback(data string) (Callback, error) {
	action, rest, ok := strings.Cut(data, ":")
	if !ok || action == "" {
		return Callback{}, fmt.Errorf("%w: %q", ErrBadCallback, data)
	}
	switch action {
	case ActionAnswer:
		idPart, label, ok := strings.Cut(rest, ":")
		id, err := strconv.ParseInt(idPart, 10, 64)
		if !ok || err != nil || label == "" {
			return Callback{}, fmt.Errorf("%w: %q", ErrBadCallback, data)
		}
		return Callback{Action: action, QuestionID: id, Value: label}, nil
	case ActionSkip:
		id, err := strconv.ParseInt(rest, 10, 64)
		if err != nil {
			return Callback{}, fmt.Errorf("%w: %q", ErrBadCallback, data)
		}
		return Callback{Action: action, QuestionID: id}, nil
	case ActionJournal, ActionSchedule, ActionSettings, ActionConfirm:
		return Callback{Action: action, Value: rest}, nil
	}
	return Callback{}, fmt.Errorf("%w: unknown action %q", ErrBadCallback, action)
}
