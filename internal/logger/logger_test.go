package logger

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"testing"

	"mentorhub/internal/config"
)

type recordedPost struct {
	tag  string
	data map[string]any
}

type fakePoster struct {
	mu    sync.Mutex
	posts []recordedPost
	err   error
}

func (p *fakePoster) Post(tag string, message any) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	data, _ := message.(map[string]any)
	p.posts = append(p.posts, recordedPost{tag: tag, data: data})
	return p.err
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"INFO", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
		{"", slog.LevelInfo},
		{"nonsense", slog.LevelInfo},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := ParseLevel(tt.in); got != tt.want {
				t.Errorf("ParseLevel(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestNew_JSONFormat(t *testing.T) {
	var buf bytes.Buffer
	log := New(config.LogConfig{Level: "info", Format: "json"}, &buf)

	log.Info("favorites toggled", "owner_id", "abc")
	log.Debug("dropped")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 1 {
		t.Fatalf("expected 1 log line, got %d: %q", len(lines), buf.String())
	}

	var entry map[string]any
	if err := json.Unmarshal([]byte(lines[0]), &entry); err != nil {
		t.Fatalf("log line is not JSON: %v", err)
	}
	if entry["msg"] != "favorites toggled" {
		t.Errorf("unexpected msg: %v", entry["msg"])
	}
	if entry["owner_id"] != "abc" {
		t.Errorf("unexpected owner_id: %v", entry["owner_id"])
	}
}

func TestNew_TextFormat(t *testing.T) {
	var buf bytes.Buffer
	log := New(config.LogConfig{Level: "debug", Format: "text"}, &buf)

	log.Debug("starting", "port", "8080")

	out := buf.String()
	if !strings.Contains(out, "starting") || !strings.Contains(out, "port=8080") {
		t.Errorf("unexpected text output: %q", out)
	}
	if strings.Contains(out, "\x1b[") {
		t.Errorf("expected no color codes for a non-terminal writer, got %q", out)
	}
}

func TestNew_FansOutToExtraHandlers(t *testing.T) {
	var buf bytes.Buffer
	poster := &fakePoster{}

	log := New(config.LogConfig{Level: "info", Format: "json"}, &buf, NewFluentHandler(poster, slog.LevelWarn))

	log.Info("info only on console")
	log.Warn("warn everywhere", "user_id", "u1")

	if got := strings.Count(buf.String(), "\n"); got != 2 {
		t.Errorf("expected 2 console lines, got %d", got)
	}
	if len(poster.posts) != 1 {
		t.Fatalf("expected 1 fluent post, got %d", len(poster.posts))
	}
	if poster.posts[0].tag != "warn" {
		t.Errorf("expected tag warn, got %q", poster.posts[0].tag)
	}
	if poster.posts[0].data["user_id"] != "u1" {
		t.Errorf("expected user_id attr, got %v", poster.posts[0].data)
	}
}

func TestFluentHandler_AttrsAndGroups(t *testing.T) {
	poster := &fakePoster{}
	log := slog.New(NewFluentHandler(poster, slog.LevelDebug)).
		With("service", "mentorhub").
		WithGroup("http").
		With("method", "PUT")

	log.Error("request failed", "status", 500, "err", errors.New("boom"))

	if len(poster.posts) != 1 {
		t.Fatalf("expected 1 post, got %d", len(poster.posts))
	}
	data := poster.posts[0].data

	want := map[string]any{
		"service":     "mentorhub",
		"http.method": "PUT",
		"http.err":    "boom",
		"level":       "error",
		"message":     "request failed",
	}
	for k, v := range want {
		if data[k] != v {
			t.Errorf("data[%q] = %v, want %v", k, data[k], v)
		}
	}
	if data["http.status"] != int64(500) {
		t.Errorf("data[http.status] = %v (%T), want 500", data["http.status"], data["http.status"])
	}
	if _, ok := data["timestamp"]; !ok {
		t.Error("expected timestamp field")
	}
}

func TestFluentHandler_PostErrorIsSwallowed(t *testing.T) {
	poster := &fakePoster{err: errors.New("collector down")}
	h := NewFluentHandler(poster, nil)

	log := slog.New(h)
	log.Info("still fine")

	if len(poster.posts) != 1 {
		t.Fatalf("expected post attempt, got %d", len(poster.posts))
	}
	if h.Enabled(t.Context(), slog.LevelDebug) {
		t.Error("nil level should default to info")
	}
}

func TestFanout_Enabled(t *testing.T) {
	var buf bytes.Buffer
	h := Fanout(
		slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelError}),
		NewFluentHandler(&fakePoster{}, slog.LevelWarn),
	)

	if h.Enabled(t.Context(), slog.LevelInfo) {
		t.Error("expected info to be disabled")
	}
	if !h.Enabled(t.Context(), slog.LevelWarn) {
		t.Error("expected warn to be enabled by the fluent handler")
	}
}

func TestNewFluentClient_RequiresTagPrefix(t *testing.T) {
	_, err := NewFluentClient(config.FluentBitConfig{Enabled: true, Host: "localhost", Port: 24224}, "")
	if err == nil {
		t.Fatal("expected error for empty tag prefix")
	}
}
