package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"
)

func TestNewRunLogger(t *testing.T) {
	t.Run("successful creation with valid paths", func(t *testing.T) {
		tmpDir := t.TempDir()
		workDir := t.TempDir()

		logger, err := NewRunLogger(tmpDir, workDir, log.DebugLevel)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		defer logger.Close()

		if logger.Dir == "" {
			t.Error("expected Dir to be set")
		}
		if logger.RunID == "" {
			t.Error("expected RunID to be set")
		}
		if !strings.HasSuffix(logger.LogPath, logger.RunID+".jsonl") {
			t.Errorf("LogPath: got %q, want suffix %q", logger.LogPath, logger.RunID+".jsonl")
		}
		if _, err := os.Stat(logger.LogPath); err != nil {
			t.Errorf("log file not created: %v", err)
		}
	})

	t.Run("empty base dir returns error", func(t *testing.T) {
		_, err := NewRunLogger("", t.TempDir(), log.InfoLevel)
		if err == nil {
			t.Fatal("expected error for empty base dir, got nil")
		}
		if !strings.Contains(err.Error(), "empty") {
			t.Errorf("expected empty dir error, got %v", err)
		}
	})

	t.Run("creates log directory if missing", func(t *testing.T) {
		newLogDir := filepath.Join(t.TempDir(), "new-logs", "nested")

		logger, err := NewRunLogger(newLogDir, t.TempDir(), log.InfoLevel)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		defer logger.Close()

		if _, err := os.Stat(newLogDir); err != nil {
			t.Errorf("log directory not created: %v", err)
		}
	})
}

func TestRunLoggerWritesJSONL(t *testing.T) {
	logger, err := NewRunLogger(t.TempDir(), t.TempDir(), log.DebugLevel)
	if err != nil {
		t.Fatalf("NewRunLogger failed: %v", err)
	}

	logger.Logger().Debug("task added", "id", "T001")
	logger.Logger().Info("session ended", "tasks", 3)
	if err := logger.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	data, err := os.ReadFile(logger.LogPath)
	if err != nil {
		t.Fatalf("ReadFile failed: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 2 {
		t.Fatalf("got %d lines, want 2:\n%s", len(lines), data)
	}

	var first map[string]any
	if err := json.Unmarshal([]byte(lines[0]), &first); err != nil {
		t.Fatalf("line is not JSON: %v", err)
	}
	if first["msg"] != "task added" {
		t.Errorf("msg: got %v, want %q", first["msg"], "task added")
	}
	if first["id"] != "T001" {
		t.Errorf("id: got %v, want %q", first["id"], "T001")
	}
	if first["run"] != logger.RunID {
		t.Errorf("run: got %v, want %q", first["run"], logger.RunID)
	}
}

func TestRunLoggerClose(t *testing.T) {
	var nilLogger *RunLogger
	if err := nilLogger.Close(); err != nil {
		t.Errorf("Close on nil: got %v, want nil", err)
	}
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&buf, Options{
		Level:     log.WarnLevel,
		Formatter: log.LogfmtFormatter,
		Prefix:    "smarttask",
	})

	logger.Info("hidden")
	logger.Warn("shown", "id", "T002")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("info message logged at warn level: %q", out)
	}
	if !strings.Contains(out, "shown") || !strings.Contains(out, "id=T002") {
		t.Errorf("unexpected output: %q", out)
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want log.Level
	}{
		{"debug", log.DebugLevel},
		{"INFO", log.InfoLevel},
		{"warn", log.WarnLevel},
		{" Error ", log.ErrorLevel},
		{"fatal", log.FatalLevel},
		{"warning", log.InfoLevel},
		{"bogus", log.InfoLevel},
		{"", log.InfoLevel},
	}
	for _, tt := range tests {
		if got := ParseLevel(tt.in); got != tt.want {
			t.Errorf("ParseLevel(%q): got %v, want %v", tt.in, got, tt.want)
		}
	}
}

// Every level name the config accepts must select the same level here, and
// every name it rejects must fall back to info.
func TestParseLevelMatchesLogParseLevel(t *testing.T) {
	for _, name := range []string{"debug", "info", "warn", "warning", "error", "fatal", "loud", "DEBUG"} {
		want, err := log.ParseLevel(name)
		if err != nil {
			want = log.InfoLevel
		}
		if got := ParseLevel(name); got != want {
			t.Errorf("ParseLevel(%q): got %v, want %v", name, got, want)
		}
	}
}

func TestParseFormatter(t *testing.T) {
	tests := []struct {
		in   string
		want log.Formatter
	}{
		{"json", log.JSONFormatter},
		{"logfmt", log.LogfmtFormatter},
		{"text", log.TextFormatter},
		{"", log.TextFormatter},
	}
	for _, tt := range tests {
		if got := ParseFormatter(tt.in); got != tt.want {
			t.Errorf("ParseFormatter(%q): got %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestSlugify(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"my-project", "my-project"},
		{"My Project!", "My_Project"},
		{"a  b", "a_b"},
		{"", "project"},
		{"***", "project"},
		{"v1.2_x", "v1.2_x"},
	}
	for _, tt := range tests {
		if got := slugify(tt.in); got != tt.want {
			t.Errorf("slugify(%q): got %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestHashPath(t *testing.T) {
	a := hashPath("/home/user/one")
	b := hashPath("/home/user/two")
	if len(a) != 8 {
		t.Errorf("hash length: got %d, want 8", len(a))
	}
	if a == b {
		t.Error("different paths should hash differently")
	}
	if a != hashPath("/home/user/one") {
		t.Error("hash should be stable")
	}
}

func TestFindLogDir(t *testing.T) {
	base := t.TempDir()
	workDir := t.TempDir()

	dir, err := FindLogDir(base, workDir)
	if err != nil {
		t.Fatalf("FindLogDir failed: %v", err)
	}
	if !strings.HasPrefix(dir, base) {
		t.Errorf("got %q, want under %q", dir, base)
	}
	if _, err := os.Stat(dir); !os.IsNotExist(err) {
		t.Errorf("FindLogDir should not create %q", dir)
	}

	if _, err := FindLogDir("", workDir); err == nil {
		t.Error("expected error for empty base dir")
	}
}

func TestResolveBaseDir(t *testing.T) {
	if got := resolveBaseDir("/var/log/../log", "/work"); got != filepath.Clean("/var/log") {
		t.Errorf("absolute: got %q", got)
	}
	if got := resolveBaseDir("logs", "/work"); got != filepath.Join("/work", "logs") {
		t.Errorf("relative: got %q", got)
	}
}

func writeRun(t *testing.T, dir, name, content string, mod time.Time) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}
	if err := os.Chtimes(path, mod, mod); err != nil {
		t.Fatalf("Chtimes failed: %v", err)
	}
	return path
}

func TestFindLatestLog(t *testing.T) {
	t.Run("missing directory", func(t *testing.T) {
		got, err := FindLatestLog(filepath.Join(t.TempDir(), "absent"))
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if got != "" {
			t.Errorf("got %q, want empty", got)
		}
	})

	t.Run("picks newest jsonl", func(t *testing.T) {
		dir := t.TempDir()
		now := time.Now()
		writeRun(t, dir, "20250101-000000-1.jsonl", "{}\n", now.Add(-2*time.Hour))
		newest := writeRun(t, dir, "20250102-000000-2.jsonl", "{}\n", now.Add(-time.Hour))
		writeRun(t, dir, "notes.txt", "ignored", now)

		got, err := FindLatestLog(dir)
		if err != nil {
			t.Fatalf("FindLatestLog failed: %v", err)
		}
		if got != newest {
			t.Errorf("got %q, want %q", got, newest)
		}

		runs, err := FindLogRuns(dir)
		if err != nil {
			t.Fatalf("FindLogRuns failed: %v", err)
		}
		if len(runs) != 2 || runs[0].RunID != "20250102-000000-2" {
			t.Errorf("runs: got %+v", runs)
		}
	})
}

func TestTailLog(t *testing.T) {
	dir := t.TempDir()
	path := writeRun(t, dir, "run.jsonl", "one\ntwo\nthree\n", time.Now())

	tests := []struct {
		name string
		n    int
		want string
	}{
		{name: "all lines", n: 0, want: "one\ntwo\nthree\n"},
		{name: "last line", n: 1, want: "three\n"},
		{name: "last two", n: 2, want: "two\nthree\n"},
		{name: "more than available", n: 10, want: "one\ntwo\nthree\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			if err := TailLog(context.Background(), &buf, path, tt.n, false); err != nil {
				t.Fatalf("TailLog failed: %v", err)
			}
			if got := buf.String(); got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}

	t.Run("missing file", func(t *testing.T) {
		var buf bytes.Buffer
		if err := TailLog(context.Background(), &buf, filepath.Join(dir, "nope.jsonl"), 5, false); err == nil {
			t.Fatal("expected error for missing file")
		}
	})
}

type syncBuffer struct {
	mu  chan struct{}
	buf bytes.Buffer
}

func newSyncBuffer() *syncBuffer {
	return &syncBuffer{mu: make(chan struct{}, 1)}
}

func (s *syncBuffer) Write(p []byte) (int, error) {
	s.mu <- struct{}{}
	defer func() { <-s.mu }()
	return s.buf.Write(p)
}

func (s *syncBuffer) String() string {
	s.mu <- struct{}{}
	defer func() { <-s.mu }()
	return s.buf.String()
}

func TestTailLogFollow(t *testing.T) {
	old := followInterval
	followInterval = 5 * time.Millisecond
	defer func() { followInterval = old }()

	path := writeRun(t, t.TempDir(), "run.jsonl", "first\n", time.Now())
	ctx, cancel := context.WithCancel(context.Background())
	out := newSyncBuffer()

	done := make(chan error, 1)
	go func() {
		done <- TailLog(ctx, out, path, 0, true)
	}()

	f, err := os.OpenFile(path, os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		t.Fatalf("OpenFile failed: %v", err)
	}
	if _, err := f.WriteString("second\n"); err != nil {
		t.Fatalf("WriteString failed: %v", err)
	}
	f.Close()

	deadline := time.Now().Add(2 * time.Second)
	for !strings.Contains(out.String(), "second") && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	cancel()

	if err := <-done; err != nil {
		t.Fatalf("TailLog returned %v", err)
	}
	if got := out.String(); got != "first\nsecond\n" {
		t.Errorf("got %q, want %q", got, "first\nsecond\n")
	}
}
