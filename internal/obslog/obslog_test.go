package obslog

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/hailam/chesscore/internal/testutil"
)

func TestParseLevel(t *testing.T) {
	tests := map[string]zapcore.Level{
		"debug":   zapcore.DebugLevel,
		" WARN ":  zapcore.WarnLevel,
		"warning": zapcore.WarnLevel,
		"error":   zapcore.ErrorLevel,
		"":        zapcore.InfoLevel,
		"bogus":   zapcore.InfoLevel,
	}
	for in, want := range tests {
		testutil.AssertEqual(t, ParseLevel(in), want, in)
	}
}

func TestJSONOutput(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(Options{Level: "debug", Format: "json"}, &buf)
	testutil.AssertNoError(t, err, "new logger")

	logger.Debug("move applied", zap.String("move", "e4"))
	testutil.AssertNoError(t, logger.Sync(), "sync")

	var entry map[string]any
	testutil.AssertNoError(t, json.Unmarshal(buf.Bytes(), &entry), "decode entry")
	testutil.AssertEqual(t, entry["msg"], "move applied", "message")
	testutil.AssertEqual(t, entry["move"], "e4", "field")
	testutil.AssertEqual(t, entry["level"], "debug", "level")
}

func TestLevelFilters(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(Options{Level: "warn"}, &buf)
	testutil.AssertNoError(t, err, "new logger")

	logger.Info("hidden")
	logger.Warn("shown")
	testutil.AssertFalse(t, strings.Contains(buf.String(), "hidden"), "info filtered")
	testutil.AssertTrue(t, strings.Contains(buf.String(), "shown"), "warn written")
}

func TestFileOutput(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "chess.log")
	logger, err := New(Options{File: path}, &bytes.Buffer{})
	testutil.AssertNoError(t, err, "new logger")

	logger.Info("to file")
	testutil.AssertNoError(t, logger.Sync(), "sync")

	data, err := os.ReadFile(path)
	testutil.AssertNoError(t, err, "read log file")
	testutil.AssertTrue(t, strings.Contains(string(data), "to file"), "file content")
}
