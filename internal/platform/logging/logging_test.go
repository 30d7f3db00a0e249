package logging_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap"

	"fieldaudit/internal/platform/logging"
)

func TestNewWritesJSONLinesAtLevel(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "logs", "fieldaudit.log")
	log, err := logging.New(path, "info", false)
	if err != nil {
		t.Fatalf("new logger: %v", err)
	}
	log.Debug("hidden detail")
	log.Info("evaluation saved", zap.String("id", "eval_1"))
	_ = log.Sync()

	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	content := string(raw)
	if !strings.Contains(content, `"msg":"evaluation saved"`) || !strings.Contains(content, `"id":"eval_1"`) {
		t.Fatalf("info line missing: %s", content)
	}
	if !strings.Contains(content, `"level":"INFO"`) {
		t.Fatalf("level should be capitalized: %s", content)
	}
	if strings.Contains(content, "hidden detail") {
		t.Fatalf("debug line should be filtered at info level")
	}
}

func TestNewRejectsUnknownLevel(t *testing.T) {
	t.Parallel()
	if _, err := logging.New(filepath.Join(t.TempDir(), "x.log"), "chatty", false); err == nil {
		t.Fatalf("unknown level should fail")
	}
}
