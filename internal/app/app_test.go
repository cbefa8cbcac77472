package app

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"waterbot/internal/config"
)

func testConfig(t *testing.T, baseURL string) config.Config {
	t.Helper()
	return config.Config{
		BotToken:   "TOKEN",
		ChatID:     "42",
		APIBaseURL: baseURL,
		LogLevel:   "error",
		LogFile:    filepath.Join(t.TempDir(), "app.log"),
	}
}

func TestNewRejectsInvalidConfig(t *testing.T) {
	t.Parallel()
	_, err := New(config.Config{LogLevel: "info"})
	if err == nil {
		t.Fatal("expected error")
	}
	msg := err.Error()
	if !strings.Contains(msg, "TELEGRAM_BOT_TOKEN") || !strings.Contains(msg, "TELEGRAM_CHAT_ID") {
		t.Fatalf("error %q does not name the missing settings", msg)
	}
}

func TestRunSendsCanaryThenStopsOnCancel(t *testing.T) {
	t.Parallel()
	ctx, cancel := context.WithCancel(context.Background())

	texts := make(chan string, 8)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			Text string `json:"text"`
		}
		_ = json.NewDecoder(r.Body).Decode(&body)
		texts <- body.Text
		_, _ = w.Write([]byte(`{"ok":true,"result":{"message_id":1}}`))
	}))
	defer srv.Close()
	defer cancel()

	a, err := New(testConfig(t, srv.URL+"/bot"))
	if err != nil {
		t.Fatalf("New error: %v", err)
	}
	defer a.Close()

	errCh := make(chan error, 1)
	go func() { errCh <- a.Run(ctx) }()

	select {
	case first := <-texts:
		if !strings.Contains(first, "Test message") {
			t.Errorf("first request text = %q, want the canary", first)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("no request reached the server")
	}

	// Let the canary send finish before stopping the loop.
	time.Sleep(100 * time.Millisecond)
	cancel()

	select {
	case err := <-errCh:
		if err != nil {
			t.Fatalf("Run error: %v", err)
		}
	case <-time.After(10 * time.Second):
		t.Fatal("Run did not stop after cancel")
	}
}

func TestRunFailsWhenCanaryRejected(t *testing.T) {
	t.Parallel()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"ok":false,"error_code":401,"description":"Unauthorized"}`))
	}))
	defer srv.Close()

	a, err := New(testConfig(t, srv.URL+"/bot"))
	if err != nil {
		t.Fatalf("New error: %v", err)
	}
	defer a.Close()

	if err := a.Run(context.Background()); err == nil {
		t.Fatal("expected Run to fail on a rejected test message")
	}
}
