package models

// StateMode is the persisted tag of a ConversationState.
type StateMode string

const (
	ModeIdle             StateMode = ""
	ModeJournaling       StateMode = "journaling"
	ModeAwaitingTimezone StateMode = "awaiting-timezone-text"
	ModeAwaitingSchedule StateMode = "awaiting-schedule-text"
)

// ConversationState is one of Idle, AwaitingAnswer or AwaitingText.
// Code switches on the concrete type; storage flattens it into nullable columns.
type ConversationState interface {
	Mode() StateMode
	conversationState()
}

// Idle means no reply is expected from the user.
type Idle struct{}

// AwaitingAnswer means QuestionID is outstanding within SessionID.
type AwaitingAnswer struct {
	QuestionID int64
	SessionID  string
}

// TextInput names the free-text value a user was asked for.
type TextInput string

const (
	TextInputTimezone TextInput = "timezone"
	TextInputSchedule TextInput = "schedule"
)

// AwaitingText means the next plain message is a settings value.
type AwaitingText struct {
	Input TextInput
}

func (Idle) Mode() StateMode           { return ModeIdle }
func (AwaitingAnswer) Mode() StateMode { return ModeJournaling }

func (s AwaitingText) Mode() StateMode {
	if s.Input == TextInputSchedule {
		return ModeAwaitingSchedule
	}
	return ModeAwaitingTimezone
}

func (Idle) conversationState()           {}
func (AwaitingAnswer) conversationState() {}
func (AwaitingText) conversationState()   {}

// StateFromColumns rebuilds a state from its stored representation. A row that
// breaks "journaling iff question and session are set" is read as Idle.
func StateFromColumns(mode string, questionID *int64, sessionID *string) ConversationState {
	switch StateMode(mode) {
	case ModeJournaling:
		if questionID == nil || sessionID == nil || *sessionID == "" {
			return Idle{}
		}
		return AwaitingAnswer{QuestionID: *questionID, SessionID: *sessionID}
	case ModeAwaitingTimezone:
		return AwaitingText{Input: TextInputTimezone}
	case ModeAwaitingSchedule:
		return AwaitingText{Input: TextInputSchedule}
	}
	return Idle{}
}

// StateColumns is the inverse of StateFromColumns.
func StateColumns(s ConversationState) (mode *string, questionID *int64, sessionID *string) {
	switch st := s.(type) {
	case AwaitingAnswer:
		m := string(ModeJournaling)
		q, sid := st.QuestionID, st.SessionID
		return &m, &q, &sid
	case AwaitingText:
		m := string(st.Mode())
		return &m, nil, nil
	}
	return nil, nil, nil
}
