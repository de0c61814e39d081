package logger

import "testing"

func TestNewModes(t *testing.T) {
	for _, mode := range []string{"dev", "prod", "PRODUCTION", ""} {
		l, err := New(mode)
		if err != nil {
			t.Fatalf("New(%q) error = %v", mode, err)
		}
		l.With("component", "test").Debug("hello", "k", 1)
	}
}

func TestNopDoesNotPanic(t *testing.T) {
	l := Nop()
	l.Info("ignored", "chat_id", 1)
	l.Warn("ignored")
	l.Error("ignored", "err", "x")
	l.Sync()
}
