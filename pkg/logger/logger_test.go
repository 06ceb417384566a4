package logger

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"xwscraper/pkg/config"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name    string
		cfg     *config.LoggingConfig
		wantErr bool
	}{
		{name: "info level", cfg: &config.LoggingConfig{Level: "info"}},
		{name: "debug level", cfg: &config.LoggingConfig{Level: "debug"}},
		{name: "empty level defaults to info", cfg: &config.LoggingConfig{}},
		{name: "invalid level", cfg: &config.LoggingConfig{Level: "invalid"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l, err := New(tt.cfg)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.NotNil(t, l)
		})
	}
}

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		level    string
		expected zerolog.Level
		wantErr  bool
	}{
		{"debug", zerolog.DebugLevel, false},
		{"DEBUG", zerolog.DebugLevel, false},
		{"info", zerolog.InfoLevel, false},
		{"warn", zerolog.WarnLevel, false},
		{"warning", zerolog.WarnLevel, false},
		{"error", zerolog.ErrorLevel, false},
		{"disabled", zerolog.Disabled, false},
		{"verbose", zerolog.InfoLevel, true},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			level, err := parseLogLevel(tt.level)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, level)
		})
	}
}

func TestConsoleOutput(t *testing.T) {
	var buf bytes.Buffer
	l, err := NewWithWriter(&config.LoggingConfig{Level: "debug"}, &buf)
	require.NoError(t, err)

	l.WithField("window", "2023-01").Info("Window completed")

	out := buf.String()
	assert.Contains(t, out, "Window completed")
	assert.Contains(t, out, "window")
	assert.Contains(t, out, "2023-01")
}

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	l, err := NewWithWriter(&config.LoggingConfig{Level: "warn"}, &buf)
	require.NoError(t, err)

	l.Debug("hidden debug")
	l.Info("hidden info")
	l.Warn("shown warning")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "shown warning")
}

func TestFileOutput(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "xwscraper.log")
	var console bytes.Buffer
	l, err := NewWithWriter(&config.LoggingConfig{Level: "info", File: path}, &console)
	require.NoError(t, err)

	l.InfoWithFields("Scrape finished", map[string]interface{}{
		"records":  31,
		"duration": 2 * time.Second,
	})

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	line := strings.TrimSpace(string(data))
	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(line), &entry))
	assert.Equal(t, "Scrape finished", entry["message"])
	assert.Equal(t, "xwscraper", entry["app"])
	assert.EqualValues(t, 31, entry["records"])
}

func TestWithFieldsDoesNotMutateParent(t *testing.T) {
	var buf bytes.Buffer
	parent, err := NewWithWriter(&config.LoggingConfig{Level: "info"}, &buf)
	require.NoError(t, err)

	child := parent.WithField("puzzle_type", "mini")
	child.Info("from child")
	parent.Info("from parent")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[0], "mini")
	assert.NotContains(t, lines[1], "mini")
}

func TestWithErrorNil(t *testing.T) {
	l, err := NewWithWriter(&config.LoggingConfig{Level: "info"}, &bytes.Buffer{})
	require.NoError(t, err)
	assert.Same(t, l, l.WithError(nil))
}

func TestGlobalLogger(t *testing.T) {
	tl := NewTestLogger()
	SetLogger(tl)
	t.Cleanup(func() { SetLogger(nil) })

	Info("global info")
	WithField("k", "v").Warn("global warn")
	WithError(errors.New("boom")).Error("global error")

	msgs := tl.GetMessages()
	require.Len(t, msgs, 3)
	assert.Equal(t, "INFO", msgs[0].Level)
	assert.Equal(t, "v", msgs[1].Fields["k"])
	assert.EqualError(t, msgs[2].Error, "boom")
}

func TestTestLoggerChaining(t *testing.T) {
	tl := NewTestLogger()
	tl.WithField("a", 1).WithFields(map[string]interface{}{"b": 2}).
		InfoWithFields("chained", map[string]interface{}{"c": 3})

	msgs := tl.GetMessages()
	require.Len(t, msgs, 1)
	assert.Equal(t, map[string]interface{}{"a": 1, "b": 2, "c": 3}, msgs[0].Fields)

	tl.Clear()
	assert.Empty(t, tl.GetMessages())
}

func TestHelpers(t *testing.T) {
	tl := NewTestLogger()

	LogRequest(tl, "GET", "/svc/crosswords/v3/puzzles.json", 200, time.Millisecond)
	LogRequest(tl, "GET", "/svc/crosswords/v6/game/1.json", 404, time.Millisecond)
	LogRequest(tl, "GET", "/svc/crosswords/v6/game/2.json", 503, time.Millisecond)
	LogWindow(tl, "daily", "2023-01-01", "2023-01-31", 31, nil)
	LogWindow(tl, "daily", "2023-02-01", "2023-02-28", 0, errors.New("boom"))
	LogScrapeProgress(tl, "daily", 1, 4)

	assert.Len(t, tl.GetMessagesByLevel("DEBUG"), 1)
	assert.Len(t, tl.GetMessagesByLevel("WARN"), 1)
	assert.Len(t, tl.GetMessagesByLevel("ERROR"), 2)
	assert.True(t, tl.HasMessage("Window completed"))
	assert.True(t, tl.HasError())

	progress := tl.GetMessages()[5]
	assert.Equal(t, "25.0%", progress.Fields["percentage"])
}

func TestNopLogger(t *testing.T) {
	l := NewNopLogger()
	assert.NotPanics(t, func() {
		l.WithField("k", "v").WithError(errors.New("x")).Info("nothing")
		l.ErrorWithFields("nothing", nil)
	})
}

func TestFieldsCombineOnEvent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fields.log")
	l, err := NewWithWriter(&config.LoggingConfig{Level: "debug", File: path}, &bytes.Buffer{})
	require.NoError(t, err)

	l.WithField("puzzle_type", "bonus").WithError(errors.New("boom")).
		DebugWithFields("Window failed", map[string]interface{}{"start": "2023-01-01"})

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(data), &entry))
	assert.Equal(t, "debug", entry["level"])
	assert.Equal(t, "bonus", entry["puzzle_type"])
	assert.Equal(t, "boom", entry["error"])
	assert.Equal(t, "2023-01-01", entry["start"])
}

func TestInitializeInstallsGlobal(t *testing.T) {
	t.Cleanup(func() { SetLogger(nil) })

	require.Error(t, Initialize(&config.LoggingConfig{Level: "loud"}))
	require.NoError(t, Initialize(&config.LoggingConfig{Level: "error"}))
	assert.IsType(t, &zerologLogger{}, GetLogger())
}
