package domain_test

import (
	"errors"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	evaldomain "fieldaudit/internal/modules/evaluation/domain"
	"fieldaudit/internal/modules/history/domain"
	apperrors "fieldaudit/internal/platform/errors"
)

func saved(id, date string, savedAt int64, category evaldomain.Category) evaldomain.Session {
	return evaldomain.Session{ID: id, Date: date, SavedAt: savedAt, Category: category, AreaCode: "1-A"}
}

func TestMonthKey(t *testing.T) {
	t.Parallel()
	cases := map[string]string{
		"10/03/2024": "2024-03",
		"1/2/2023":   "2023-02",
		"31/12/1999": "1999-12",
		"2024-03-10": domain.InvalidDateKey,
		"10/13/2024": domain.InvalidDateKey,
		"":           domain.InvalidDateKey,
		"aa/03/2024": domain.InvalidDateKey,
	}
	for in, want := range cases {
		if got := domain.MonthKey(in); got != want {
			t.Fatalf("MonthKey(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestMonthLabel(t *testing.T) {
	t.Parallel()
	if got := domain.MonthLabel("2024-03"); got != "Março de 2024" {
		t.Fatalf("unexpected label %q", got)
	}
	if got := domain.MonthLabel(domain.InvalidDateKey); got != "Data Inválida" {
		t.Fatalf("invalid bucket label mismatch: %q", got)
	}
}

func TestGroupByMonthOrdersByDateThenSaveTime(t *testing.T) {
	t.Parallel()
	sessions := []evaldomain.Session{
		saved("a", "05/03/2024", 100, evaldomain.CategorySeedling),
		saved("b", "20/03/2024", 50, evaldomain.CategorySeedling),
		saved("c", "05/03/2024", 300, evaldomain.CategoryHoleQuality),
		saved("d", "28/02/2024", 999, evaldomain.CategoryHoleDistance),
		saved("e", "someday", 1, evaldomain.CategorySeedling),
		saved("f", "01/01/2025", 2, evaldomain.CategorySeedling),
	}

	groups := domain.GroupByMonth(sessions, evaldomain.GroupAll)
	if diff := cmp.Diff([]string{"2025-01", "2024-03", "2024-02", domain.InvalidDateKey}, groups.Keys()); diff != "" {
		t.Fatalf("month order mismatch (-want +got):\n%s", diff)
	}
	var march []string
	for _, s := range groups["2024-03"] {
		march = append(march, s.ID)
	}
	if diff := cmp.Diff([]string{"b", "c", "a"}, march); diff != "" {
		t.Fatalf("march order mismatch (-want +got):\n%s", diff)
	}
	if len(groups[domain.InvalidDateKey]) != 1 {
		t.Fatalf("malformed date should land in the invalid bucket")
	}
}

func TestGroupByMonthFiltersGroup(t *testing.T) {
	t.Parallel()
	sessions := []evaldomain.Session{
		saved("a", "05/03/2024", 1, evaldomain.CategorySeedling),
		saved("b", "06/03/2024", 2, evaldomain.CategoryHoleQuality),
		saved("c", "07/04/2024", 3, evaldomain.CategoryHoleDistance),
	}
	holes := domain.GroupByMonth(sessions, evaldomain.GroupHoles)
	if diff := cmp.Diff([]string{"2024-04", "2024-03"}, holes.Keys()); diff != "" {
		t.Fatalf("holes months mismatch (-want +got):\n%s", diff)
	}
	if len(holes["2024-03"]) != 1 || holes["2024-03"][0].ID != "b" {
		t.Fatalf("seedlings must be filtered out, got %+v", holes["2024-03"])
	}
	if len(domain.GroupByMonth(nil, evaldomain.GroupSeedlings)) != 0 {
		t.Fatalf("empty input gives no groups")
	}
}

func TestDecodeCollection(t *testing.T) {
	t.Parallel()
	for _, blob := range []string{"", "  ", "null", "[]"} {
		c, err := domain.DecodeCollection(blob)
		if err != nil || len(c) != 0 {
			t.Fatalf("blob %q should decode to empty, got %v %v", blob, c, err)
		}
	}
	for _, blob := range []string{"{not json", `{"id":"x"}`, `[{"samples": 3}]`} {
		if _, err := domain.DecodeCollection(blob); !errors.Is(err, apperrors.ErrStorageCorrupt) {
			t.Fatalf("blob %q should be corrupt, got %v", blob, err)
		}
	}

	in := domain.Collection{saved("eval_1", "01/01/2024", 1, evaldomain.CategorySeedling)}
	in[0].Samples = []evaldomain.Status{evaldomain.StatusOK}
	in[0].TotalSamples = 1
	blob, err := in.Encode()
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	out, err := domain.DecodeCollection(blob)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if diff := cmp.Diff(in, out); diff != "" {
		t.Fatalf("collection mismatch (-want +got):\n%s", diff)
	}
}

func TestCollectionEditing(t *testing.T) {
	t.Parallel()
	c := domain.Collection{saved("eval_1", "01/01/2024", 1, evaldomain.CategorySeedling)}
	c = c.Prepend(saved("eval_2", "02/01/2024", 2, evaldomain.CategoryHoleQuality))
	if c[0].ID != "eval_2" || !c.Has("eval_1") {
		t.Fatalf("prepend should put newest first: %+v", c)
	}
	rest, removed := c.Without("eval_1")
	if !removed || len(rest) != 1 || rest.Has("eval_1") {
		t.Fatalf("without should drop eval_1: %+v", rest)
	}
	if _, removed := rest.Without("missing"); removed {
		t.Fatalf("missing id must not report removal")
	}
	if got := c.Filter(evaldomain.GroupSeedlings); len(got) != 1 || got[0].ID != "eval_1" {
		t.Fatalf("filter mismatch: %+v", got)
	}
}

func TestBackupKeys(t *testing.T) {
	t.Parallel()
	at := time.UnixMilli(1710000000123)
	key := domain.BackupKey(at)
	if key != "evaluations_corrupt_1710000000123" {
		t.Fatalf("unexpected backup key %q", key)
	}
	b, ok := domain.ParseBackupKey(key)
	if !ok || !b.CreatedAt.Equal(at) {
		t.Fatalf("parse backup key: %+v %t", b, ok)
	}
	if _, ok := domain.ParseBackupKey(domain.StorageKey); ok {
		t.Fatalf("primary key is not a backup")
	}
}
