package out_test

import (
	"context"
	"os"
	"path/filepath"
	"strconv"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	historyout "fieldaudit/internal/modules/history/adapter/out"
	historyport "fieldaudit/internal/modules/history/port/out"
)

func exerciseBackend(t *testing.T, backend historyport.Backend) {
	t.Helper()
	ctx := context.Background()

	if _, ok, err := backend.Get(ctx, "evaluations"); err != nil || ok {
		t.Fatalf("absent key should report ok=false, got ok=%t err=%v", ok, err)
	}
	if err := backend.Set(ctx, "evaluations", "[]"); err != nil {
		t.Fatalf("set: %v", err)
	}
	if err := backend.Set(ctx, "evaluations", `[{"id":"eval_1"}]`); err != nil {
		t.Fatalf("overwrite: %v", err)
	}
	value, ok, err := backend.Get(ctx, "evaluations")
	if err != nil || !ok || value != `[{"id":"eval_1"}]` {
		t.Fatalf("get after overwrite: %q ok=%t err=%v", value, ok, err)
	}

	for _, key := range []string{"evaluations_corrupt_2", "evaluations_corrupt_1", "other"} {
		if err := backend.Set(ctx, key, "x"); err != nil {
			t.Fatalf("set %s: %v", key, err)
		}
	}
	keys, err := backend.Keys(ctx, "evaluations_corrupt_")
	if err != nil {
		t.Fatalf("keys: %v", err)
	}
	if diff := cmp.Diff([]string{"evaluations_corrupt_1", "evaluations_corrupt_2"}, keys); diff != "" {
		t.Fatalf("keys mismatch (-want +got):\n%s", diff)
	}

	if err := backend.Remove(ctx, "evaluations"); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if _, ok, _ := backend.Get(ctx, "evaluations"); ok {
		t.Fatalf("removed key should be absent")
	}
	if err := backend.Remove(ctx, "never-set"); err != nil {
		t.Fatalf("removing an absent key should succeed: %v", err)
	}
}

func TestSQLiteBackend(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "nested", "fieldaudit.db")
	backend, err := historyout.NewSQLiteBackend(path)
	if err != nil {
		t.Fatalf("new sqlite backend: %v", err)
	}
	t.Cleanup(func() { _ = backend.Close() })
	exerciseBackend(t, backend)

	reopened, err := historyout.NewSQLiteBackend(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	t.Cleanup(func() { _ = reopened.Close() })
	if value, ok, err := reopened.Get(context.Background(), "other"); err != nil || !ok || value != "x" {
		t.Fatalf("values should survive reopen: %q ok=%t err=%v", value, ok, err)
	}
}

func TestMemoryBackend(t *testing.T) {
	t.Parallel()
	exerciseBackend(t, historyout.NewMemoryBackend())
}

func TestRedisBackend(t *testing.T) {
	addr := os.Getenv("FIELDAUDIT_REDIS_ADDR")
	if addr == "" {
		t.Skip("FIELDAUDIT_REDIS_ADDR not set")
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	backend, err := historyout.NewRedisBackend(ctx, historyout.RedisOptions{
		Addr:      addr,
		Namespace: "fieldaudit-test-" + strconv.FormatInt(time.Now().UnixNano(), 10),
	})
	if err != nil {
		t.Fatalf("new redis backend: %v", err)
	}
	t.Cleanup(func() {
		for _, key := range []string{"evaluations_corrupt_1", "evaluations_corrupt_2", "other"} {
			_ = backend.Remove(context.Background(), key)
		}
		_ = backend.Close()
	})
	exerciseBackend(t, backend)
}
