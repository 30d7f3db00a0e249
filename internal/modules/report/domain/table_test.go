package domain_test

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	evaldomain "fieldaudit/internal/modules/evaluation/domain"
	"fieldaudit/internal/modules/report/domain"
)

func session(id string, evalType evaldomain.EvaluationType, samples ...evaldomain.Status) evaldomain.Session {
	return evaldomain.Session{
		ID:           id,
		AreaCode:     "592-B",
		Date:         "10/03/2024",
		Type:         evalType,
		Category:     evalType.Category(),
		TotalSamples: len(samples),
		Samples:      samples,
	}
}

func TestBuildTableHeaders(t *testing.T) {
	t.Parallel()
	table := domain.BuildTable(evaldomain.DefaultRegistry(), nil)
	want := []string{
		"ID da Avaliação", "Código da Área", "Tipo de Avaliação", "Taxa de Qualidade (%)", "Taxa de Problemas (%)",
		"Mal Fixada (Qtd)", "Queimada por Adubo (Qtd)", "Queimada por Herbicida (Qtd)", "Coleto Afogado (Qtd)",
		"Muda Inclinada (Qtd)", "Muda Morta (Qtd)", "Coleto Exposto (Qtd)", "Ponteiro Quebrado (Qtd)", "Cova sem Muda (Qtd)",
		"Sem Adubo (Qtd)", "Adubo Exposto (Qtd)", "Sem Coroamento (Qtd)", "Sem Coveamento (Qtd)", "Sem Coveta (Qtd)",
		"Profundidade Errada (Qtd)",
		"Problema de Rua (Qtd)", "Problema de Linha (Qtd)",
	}
	if diff := cmp.Diff(want, table.Headers); diff != "" {
		t.Fatalf("headers mismatch (-want +got):\n%s", diff)
	}
	if len(table.Rows) != 0 {
		t.Fatalf("no sessions, no rows")
	}
}

func TestBuildTableRows(t *testing.T) {
	t.Parallel()
	sessions := []evaldomain.Session{
		session("eval_3", evaldomain.TypePlanting, evaldomain.StatusOK, evaldomain.StatusOK, evaldomain.StatusDeadSeedling),
		session("eval_2", evaldomain.TypeHoleQuality, evaldomain.StatusNoBasin, evaldomain.StatusOK),
		session("eval_1", evaldomain.TypeHoleDistance, evaldomain.StatusBothProblem, evaldomain.StatusLineProblem, evaldomain.StatusOK, evaldomain.StatusOK),
	}
	table := domain.BuildTable(evaldomain.DefaultRegistry(), sessions)
	if len(table.Rows) != 3 {
		t.Fatalf("expected 3 rows, got %d", len(table.Rows))
	}

	seedling := table.Rows[0].Cells()
	if diff := cmp.Diff([]string{"eval_3", "592-B", "Avaliação de Plantio", "66.7", "33.3"}, seedling[:5]); diff != "" {
		t.Fatalf("fixed cells mismatch (-want +got):\n%s", diff)
	}
	if seedling[10] != "1" {
		t.Fatalf("dead seedling column should be 1, got %s", seedling[10])
	}

	hole := table.Rows[1]
	for i, n := range hole.Counts {
		want := 0
		if table.Headers[5+i] == "Sem Coveta (Qtd)" {
			want = 1
		}
		if n != want {
			t.Fatalf("hole row column %q = %d, want %d", table.Headers[5+i], n, want)
		}
	}

	distance := table.Rows[2].Cells()
	street, line := distance[len(distance)-2], distance[len(distance)-1]
	if street != "1" || line != "2" {
		t.Fatalf("distance columns should double count both_problem, got street=%s line=%s", street, line)
	}
	if distance[3] != "50.0" || distance[4] != "50.0" {
		t.Fatalf("unexpected distance rates %v", distance[3:5])
	}
}

func TestFileNames(t *testing.T) {
	t.Parallel()
	if got := domain.FileNameAll(time.Date(2024, 3, 5, 18, 0, 0, 0, time.UTC)); got != "Relatorio_Completo_05-03-2024" {
		t.Fatalf("unexpected full export name %q", got)
	}
	if got := domain.FileNameMonth(evaldomain.GroupSeedlings, "2024-03"); got != "Relatorio_Mudas_2024_03" {
		t.Fatalf("unexpected month export name %q", got)
	}
	if got := domain.FileNameMonth(evaldomain.GroupHoles, "invalid-date"); got != "Relatorio_Covas_invalid-date" {
		t.Fatalf("unexpected invalid month name %q", got)
	}
}
