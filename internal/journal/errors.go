package journal

import "errors"

var (
	// ErrInactiveUser: the account is disabled.
	ErrInactiveUser = errors.New("journal: user is inactive")
	// ErrUserNotFound: no account for the chat; callers create it first.
	ErrUserNotFound = errors.New("journal: user not found")
	// ErrNoQuestions: the catalog has no active question.
	ErrNoQuestions = errors.New("journal: no questions available")
	// ErrStaleSession: the answer does not match the outstanding question.
	ErrStaleSession = errors.New("journal: stale session")
	// ErrInvalidAnswer: the answer is not one of the question's options.
	ErrInvalidAnswer = errors.New("journal: answer is not a valid option")
)
