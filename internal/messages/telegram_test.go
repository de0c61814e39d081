package messages

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

// newStalledTelegram serves getMe and holds every other method until the
// client goes away or the test ends.
func newStalledTelegram(t *testing.T) string {
	t.Helper()
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasSuffix(r.URL.Path, "/getMe") {
			io.WriteString(w, `{"ok":true,"result":{"id":1,"is_bot":true,"first_name":"Journal","username":"journal_bot"}}`)
			return
		}
		select {
		case <-release:
		case <-r.Context().Done():
		}
		io.WriteString(w, `{"ok":true,"result":{"message_id":1}}`)
	}))
	t.Cleanup(srv.Close)
	t.Cleanup(func() { close(release) })
	return srv.URL + "/bot%s/%s"
}

func TestTelegramTransportStopsAtContextDeadline(t *testing.T) {
	bot, err := NewBotAPI("token", newStalledTelegram(t), time.Minute)
	if err != nil {
		t.Fatalf("NewBotAPI failed: %v", err)
	}
	tr := NewTelegramTransport(bot, nil)

	calls := map[string]func(ctx context.Context) error{
		"send": func(ctx context.Context) error {
			_, err := tr.SendText(ctx, 1, "hello", Keyboard{Row(Button{Text: "a", Data: "b"})})
			return err
		},
		"edit": func(ctx context.Context) error {
			return tr.EditMessage(ctx, MessageRef{ChatID: 1, MessageID: 2}, "hello", nil)
		},
		"callback": func(ctx context.Context) error {
			return tr.AnswerCallback(ctx, "cb", "ok")
		},
	}
	for name, call := range calls {
		t.Run(name, func(t *testing.T) {
			ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
			defer cancel()

			start := time.Now()
			err := call(ctx)
			if !errors.Is(err, context.DeadlineExceeded) {
				t.Fatalf("expected deadline error, got %v", err)
			}
			if elapsed := time.Since(start); elapsed > 2*time.Second {
				t.Errorf("call returned after %s", elapsed)
			}
		})
	}
}

func TestTelegramTransportClientTimeout(t *testing.T) {
	bot, err := NewBotAPI("token", newStalledTelegram(t), 100*time.Millisecond)
	if err != nil {
		t.Fatalf("NewBotAPI failed: %v", err)
	}
	tr := NewTelegramTransport(bot, nil)

	start := time.Now()
	if _, err := tr.SendText(context.Background(), 1, "hello", nil); err == nil {
		t.Fatal("expected timeout error")
	}
	if elapsed := time.Since(start); elapsed > 2*time.Second {
		t.Errorf("SendText returned after %s", elapsed)
	}
}
