package usecase_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	evaldomain "fieldaudit/internal/modules/evaluation/domain"
	historyout "fieldaudit/internal/modules/history/adapter/out"
	historydomain "fieldaudit/internal/modules/history/domain"
	historydto "fieldaudit/internal/modules/history/dto"
	historyin "fieldaudit/internal/modules/history/port/in"
	historyservice "fieldaudit/internal/modules/history/service"
	historyusecase "fieldaudit/internal/modules/history/usecase"
	reportout "fieldaudit/internal/modules/report/adapter/out"
	reportdto "fieldaudit/internal/modules/report/dto"
	reportin "fieldaudit/internal/modules/report/port/in"
	"fieldaudit/internal/modules/report/service"
	"fieldaudit/internal/modules/report/usecase"
	"fieldaudit/internal/platform/clock"
	apperrors "fieldaudit/internal/platform/errors"
	"fieldaudit/internal/platform/id"
)

var exportedAt = time.Date(2024, 4, 2, 16, 0, 0, 0, time.UTC)

func setup(t *testing.T) (reportin.Usecase, historyin.Usecase, string) {
	t.Helper()
	dir := filepath.Join(t.TempDir(), "exports")
	registry := evaldomain.DefaultRegistry()
	history := historyusecase.NewInteractor(historyservice.NewHistoryService(
		clock.Fixed(exportedAt), id.Millis{Prefix: historydomain.IDPrefix}, historyout.NewMemoryBackend(), registry, nil,
	))
	svc := service.NewReportService(clock.Fixed(exportedAt), registry, dir, reportout.NewXLSXWriter(), reportout.NewMarkdownWriter())
	return usecase.NewInteractor(svc, history), history, dir
}

func seed(t *testing.T, history historyin.Usecase, evalType evaldomain.EvaluationType, date string, samples ...evaldomain.Status) {
	t.Helper()
	s := evaldomain.Session{
		AreaCode:     "592-B",
		Date:         date,
		Type:         evalType,
		Category:     evalType.Category(),
		TotalSamples: len(samples),
		Samples:      samples,
	}
	if _, err := history.Save(context.Background(), historydto.SaveInput{Session: s}); err != nil {
		t.Fatalf("seed: %v", err)
	}
}

func TestExportAllWritesEverySession(t *testing.T) {
	t.Parallel()
	uc, history, dir := setup(t)
	ctx := context.Background()

	if _, err := uc.ExportAll(ctx, reportdto.ExportAllInput{}); !errors.Is(err, apperrors.ErrNotFound) {
		t.Fatalf("empty history should have nothing to export, got %v", err)
	}

	seed(t, history, evaldomain.TypePlanting, "10/03/2024", evaldomain.StatusOK)
	seed(t, history, evaldomain.TypeHoleQuality, "11/02/2024", evaldomain.StatusNoBasin)

	out, err := uc.ExportAll(ctx, reportdto.ExportAllInput{})
	if err != nil {
		t.Fatalf("export all: %v", err)
	}
	if out.Format != "xlsx" || out.Rows != 2 || out.FileName != "Relatorio_Completo_02-04-2024" {
		t.Fatalf("unexpected export %+v", out)
	}
	if out.Path != filepath.Join(dir, "Relatorio_Completo_02-04-2024.xlsx") {
		t.Fatalf("unexpected path %s", out.Path)
	}
	if _, err := os.Stat(out.Path); err != nil {
		t.Fatalf("export file missing: %v", err)
	}
}

func TestExportMonthFiltersGroup(t *testing.T) {
	t.Parallel()
	uc, history, _ := setup(t)
	ctx := context.Background()
	seed(t, history, evaldomain.TypePlanting, "10/03/2024", evaldomain.StatusOK)
	seed(t, history, evaldomain.TypeHoleDistance, "12/03/2024", evaldomain.StatusBothProblem)
	seed(t, history, evaldomain.TypeHoleQuality, "13/03/2024", evaldomain.StatusOK)

	out, err := uc.ExportMonth(ctx, reportdto.ExportMonthInput{Format: "md", Group: "holes", Month: "2024-03"})
	if err != nil {
		t.Fatalf("export month: %v", err)
	}
	if out.Rows != 2 || out.FileName != "Relatorio_Covas_2024_03" || out.Format != "markdown" {
		t.Fatalf("unexpected export %+v", out)
	}
	content, err := os.ReadFile(out.Path)
	if err != nil {
		t.Fatalf("read export: %v", err)
	}
	if strings.Contains(string(content), "Avaliação de Plantio") {
		t.Fatalf("seedling evaluations must not be in a holes export")
	}

	if _, err := uc.ExportMonth(ctx, reportdto.ExportMonthInput{Group: "seedlings", Month: "2024-01"}); !errors.Is(err, apperrors.ErrNotFound) {
		t.Fatalf("empty month should be not found, got %v", err)
	}
	if _, err := uc.ExportMonth(ctx, reportdto.ExportMonthInput{Format: "pdf", Group: "seedlings", Month: "2024-03"}); !errors.Is(err, apperrors.ErrInvalidInput) {
		t.Fatalf("unknown format should be invalid input, got %v", err)
	}
	if got := uc.Formats(ctx); len(got) != 2 || got[0] != "markdown" || got[1] != "xlsx" {
		t.Fatalf("unexpected formats %v", got)
	}
}
