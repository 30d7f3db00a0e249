package service_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	evaldomain "fieldaudit/internal/modules/evaluation/domain"
	historyout "fieldaudit/internal/modules/history/adapter/out"
	"fieldaudit/internal/modules/history/domain"
	"fieldaudit/internal/modules/history/service"
	"fieldaudit/internal/platform/clock"
	apperrors "fieldaudit/internal/platform/errors"
	"fieldaudit/internal/platform/id"
)

var saveInstant = time.Date(2024, 3, 10, 14, 0, 0, 0, time.UTC)

type failingBackend struct {
	*historyout.MemoryBackend
	failSet       bool
	failSetPrefix string
	failGet       bool
}

func (f *failingBackend) Set(ctx context.Context, key, value string) error {
	if f.failSet || (f.failSetPrefix != "" && strings.HasPrefix(key, f.failSetPrefix)) {
		return errors.New("disk full")
	}
	return f.MemoryBackend.Set(ctx, key, value)
}

func (f *failingBackend) Get(ctx context.Context, key string) (string, bool, error) {
	if f.failGet {
		return "", false, errors.New("io error")
	}
	return f.MemoryBackend.Get(ctx, key)
}

func newService(backend *failingBackend, log *zap.Logger) *service.HistoryService {
	return service.NewHistoryService(clock.Fixed(saveInstant), id.Millis{Prefix: domain.IDPrefix}, backend, evaldomain.DefaultRegistry(), log)
}

func completeSession(date string) evaldomain.Session {
	opts := evaldomain.DefaultRegistryOptions()
	opts.SeedlingSamples = 4
	def := evaldomain.NewRegistry(opts).Describe(evaldomain.CategorySeedling)
	s := evaldomain.NewSession(def, evaldomain.TypePlanting, "592-B", date)
	s.Samples = []evaldomain.Status{evaldomain.StatusOK, evaldomain.StatusOK, evaldomain.StatusOK, evaldomain.StatusDeadSeedling}
	return s
}

func TestSaveStampsIDAndPrepends(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	svc := newService(&failingBackend{MemoryBackend: historyout.NewMemoryBackend()}, nil)

	input := completeSession("10/03/2024")
	first, err := svc.Save(ctx, input)
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	if first.ID != "eval_1710079200000" || first.SavedAt != saveInstant.UnixMilli() {
		t.Fatalf("unexpected stamp %s/%d", first.ID, first.SavedAt)
	}
	if input.Saved() {
		t.Fatalf("caller's session must not be modified")
	}

	second, err := svc.Save(ctx, completeSession("11/03/2024"))
	if err != nil {
		t.Fatalf("second save: %v", err)
	}
	if second.ID == first.ID {
		t.Fatalf("ids must be unique, both %s", first.ID)
	}
	if second.ID != "eval_1710079200001" {
		t.Fatalf("colliding id should bump one millisecond, got %s", second.ID)
	}

	all, err := svc.LoadAll(ctx)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(all) != 2 || all[0].ID != second.ID || all[1].ID != first.ID {
		t.Fatalf("newest save should come first: %+v", all)
	}
	if _, err := svc.Save(ctx, first); !errors.Is(err, apperrors.ErrAlreadySaved) {
		t.Fatalf("saving a saved session should fail, got %v", err)
	}
}

func TestSaveRejectsMalformedSession(t *testing.T) {
	t.Parallel()
	svc := newService(&failingBackend{MemoryBackend: historyout.NewMemoryBackend()}, nil)
	bad := completeSession("10/03/2024")
	bad.Samples = bad.Samples[:2]
	if _, err := svc.Save(context.Background(), bad); !errors.Is(err, apperrors.ErrInvalidInput) {
		t.Fatalf("sample length mismatch should be invalid input, got %v", err)
	}
}

func TestCorruptBlobIsBackedUpAndCleared(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	core, logs := observer.New(zap.WarnLevel)
	backend := &failingBackend{MemoryBackend: historyout.NewMemoryBackend()}
	svc := newService(backend, zap.New(core))

	if err := backend.Set(ctx, domain.StorageKey, "{broken"); err != nil {
		t.Fatalf("seed: %v", err)
	}
	all, err := svc.LoadAll(ctx)
	if err != nil {
		t.Fatalf("corruption must not surface as an error: %v", err)
	}
	if len(all) != 0 {
		t.Fatalf("corrupt store should load empty, got %d", len(all))
	}

	backupKey := domain.BackupKey(saveInstant)
	if value, ok, _ := backend.Get(ctx, backupKey); !ok || value != "{broken" {
		t.Fatalf("backup should hold the raw blob, got %q ok=%t", value, ok)
	}
	if _, ok, _ := backend.Get(ctx, domain.StorageKey); ok {
		t.Fatalf("primary key should be cleared")
	}
	if logs.FilterField(zap.String("backup_key", backupKey)).Len() != 1 {
		t.Fatalf("expected one warning naming the backup key, got %v", logs.All())
	}

	backups, err := svc.Backups(ctx)
	if err != nil {
		t.Fatalf("backups: %v", err)
	}
	if len(backups) != 1 || backups[0].Key != backupKey || !backups[0].CreatedAt.Equal(saveInstant) {
		t.Fatalf("unexpected backups %+v", backups)
	}

	if _, err := svc.Save(ctx, completeSession("10/03/2024")); err != nil {
		t.Fatalf("save after recovery: %v", err)
	}
	if all, _ := svc.LoadAll(ctx); len(all) != 1 {
		t.Fatalf("store should be usable after recovery, got %d", len(all))
	}
}

func TestFailedBackupKeepsCorruptBlob(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	backend := &failingBackend{MemoryBackend: historyout.NewMemoryBackend(), failSetPrefix: domain.BackupKeyPrefix}
	svc := newService(backend, nil)

	const truncated = `[{"id":"eval_1","areaCode":"592-B"`
	if err := backend.MemoryBackend.Set(ctx, domain.StorageKey, truncated); err != nil {
		t.Fatalf("seed: %v", err)
	}
	if _, err := svc.LoadAll(ctx); !errors.Is(err, apperrors.ErrStorageWrite) {
		t.Fatalf("failed backup should surface as a write error, got %v", err)
	}
	if _, err := svc.Save(ctx, completeSession("10/03/2024")); !errors.Is(err, apperrors.ErrStorageWrite) {
		t.Fatalf("save must not overwrite an unbacked corrupt blob, got %v", err)
	}
	if err := svc.Delete(ctx, "eval_1"); !errors.Is(err, apperrors.ErrStorageWrite) {
		t.Fatalf("delete must not overwrite an unbacked corrupt blob, got %v", err)
	}
	if value, ok, _ := backend.Get(ctx, domain.StorageKey); !ok || value != truncated {
		t.Fatalf("primary should still hold the corrupt blob, got %q ok=%t", value, ok)
	}
	if keys, _ := backend.Keys(ctx, domain.BackupKeyPrefix); len(keys) != 0 {
		t.Fatalf("no backup should exist, got %v", keys)
	}
}

func TestWriteFailureKeepsSessionUnsaved(t *testing.T) {
	t.Parallel()
	core, logs := observer.New(zap.ErrorLevel)
	backend := &failingBackend{MemoryBackend: historyout.NewMemoryBackend(), failSet: true}
	svc := newService(backend, zap.New(core))

	input := completeSession("10/03/2024")
	_, err := svc.Save(context.Background(), input)
	if !errors.Is(err, apperrors.ErrStorageWrite) {
		t.Fatalf("expected storage write error, got %v", err)
	}
	if !strings.Contains(err.Error(), "disk full") {
		t.Fatalf("cause should be kept: %v", err)
	}
	if input.Saved() {
		t.Fatalf("failed save must leave the session unsaved")
	}
	if logs.Len() == 0 {
		t.Fatalf("write failure should be logged")
	}
}

func TestReadFailureIsReturned(t *testing.T) {
	t.Parallel()
	svc := newService(&failingBackend{MemoryBackend: historyout.NewMemoryBackend(), failGet: true}, nil)
	if _, err := svc.LoadAll(context.Background()); err == nil || !strings.Contains(err.Error(), "io error") {
		t.Fatalf("expected read error, got %v", err)
	}
}

func TestDeleteAndGet(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	svc := newService(&failingBackend{MemoryBackend: historyout.NewMemoryBackend()}, nil)

	stored, err := svc.Save(ctx, completeSession("10/03/2024"))
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	got, err := svc.Get(ctx, stored.ID)
	if err != nil || got.ID != stored.ID {
		t.Fatalf("get: %+v %v", got, err)
	}
	if err := svc.Delete(ctx, "eval_missing"); err != nil {
		t.Fatalf("deleting an unknown id is a no-op: %v", err)
	}
	if all, _ := svc.LoadAll(ctx); len(all) != 1 {
		t.Fatalf("no-op delete must keep everything")
	}
	if err := svc.Delete(ctx, stored.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := svc.Get(ctx, stored.ID); !errors.Is(err, apperrors.ErrNotFound) {
		t.Fatalf("expected not found after delete, got %v", err)
	}
}

func TestGroupedByMonthAndResults(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	svc := newService(&failingBackend{MemoryBackend: historyout.NewMemoryBackend()}, nil)
	for _, date := range []string{"10/03/2024", "02/02/2024", "15/03/2024"} {
		if _, err := svc.Save(ctx, completeSession(date)); err != nil {
			t.Fatalf("save %s: %v", date, err)
		}
	}
	groups, err := svc.GroupedByMonth(ctx, evaldomain.GroupSeedlings)
	if err != nil {
		t.Fatalf("group: %v", err)
	}
	if keys := groups.Keys(); len(keys) != 2 || keys[0] != "2024-03" {
		t.Fatalf("unexpected months %v", keys)
	}
	if groups["2024-03"][0].Date != "15/03/2024" {
		t.Fatalf("latest date should lead the month")
	}
	if holes, _ := svc.GroupedByMonth(ctx, evaldomain.GroupHoles); len(holes) != 0 {
		t.Fatalf("no hole evaluations saved, got %v", holes.Keys())
	}
	if _, err := svc.GroupedByMonth(ctx, evaldomain.Group("trees")); !errors.Is(err, apperrors.ErrInvalidInput) {
		t.Fatalf("unknown group should fail, got %v", err)
	}

	results := svc.Results(groups["2024-03"][0])
	if results.QualityRate != 75 || results.ProblemCount != 1 {
		t.Fatalf("unexpected results %+v", results)
	}
}
