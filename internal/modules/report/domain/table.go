package domain

import (
	"fmt"
	"strconv"
	"time"

	evaldomain "fieldaudit/internal/modules/evaluation/domain"
)

const SheetName = "Relatório de Avaliações"

var fixedHeaders = []string{
	"ID da Avaliação",
	"Código da Área",
	"Tipo de Avaliação",
	"Taxa de Qualidade (%)",
	"Taxa de Problemas (%)",
}

// Distance kinds are headed differently from their status labels.
var countHeaders = map[evaldomain.Status]string{
	evaldomain.StatusStreetProblem: "Problema de Rua (Qtd)",
	evaldomain.StatusLineProblem:   "Problema de Linha (Qtd)",
}

type countColumn struct {
	category evaldomain.Category
	kind     evaldomain.Status
	header   string
}

// Row is one exported session. Counts line up with the count columns of the
// table it belongs to.
type Row struct {
	ID          string
	AreaCode    string
	TypeLabel   string
	QualityRate float64
	ProblemRate float64
	Counts      []int
}

type Table struct {
	Headers []string
	Rows    []Row
}

// BuildTable flattens sessions into one row each. Every problem kind of every
// category gets a column; kinds that do not apply to a row's category are 0.
func BuildTable(registry evaldomain.Registry, sessions []evaldomain.Session) Table {
	columns := countColumns(registry)
	table := Table{Headers: append([]string(nil), fixedHeaders...)}
	for _, c := range columns {
		table.Headers = append(table.Headers, c.header)
	}

	for _, s := range sessions {
		def := registry.Describe(s.Category)
		results := evaldomain.Aggregate(def, s)
		own := map[evaldomain.Status]int{}
		for _, kc := range evaldomain.BreakdownCounts(def, evaldomain.CountSamples(s)) {
			own[kc.Kind] = kc.Count
		}
		row := Row{
			ID:          s.ID,
			AreaCode:    s.AreaCode,
			TypeLabel:   s.Type.Label(),
			QualityRate: results.QualityRate,
			ProblemRate: results.ProblemRate,
			Counts:      make([]int, len(columns)),
		}
		for i, c := range columns {
			if c.category == s.Category {
				row.Counts[i] = own[c.kind]
			}
		}
		table.Rows = append(table.Rows, row)
	}
	return table
}

// Cells renders a row the way it appears in a sheet, rates with one decimal.
func (r Row) Cells() []string {
	out := []string{r.ID, r.AreaCode, r.TypeLabel, FormatRate(r.QualityRate), FormatRate(r.ProblemRate)}
	for _, n := range r.Counts {
		out = append(out, strconv.Itoa(n))
	}
	return out
}

func FormatRate(rate float64) string {
	return strconv.FormatFloat(rate, 'f', 1, 64)
}

func countColumns(registry evaldomain.Registry) []countColumn {
	var out []countColumn
	for _, category := range registry.Categories() {
		for _, kind := range registry.Describe(category).BreakdownKinds() {
			header, ok := countHeaders[kind]
			if !ok {
				header = evaldomain.LabelOf(kind).Label + " (Qtd)"
			}
			out = append(out, countColumn{category: category, kind: kind, header: header})
		}
	}
	return out
}

// FileNameAll names a full export after the local export date.
func FileNameAll(at time.Time) string {
	return "Relatorio_Completo_" + at.Format("02-01-2006")
}

// FileNameMonth names a month export after its history group and YYYY-MM key.
func FileNameMonth(group evaldomain.Group, monthKey string) string {
	year, month := monthKey, ""
	if len(monthKey) == len("2006-01") && monthKey[4] == '-' {
		year, month = monthKey[:4], monthKey[5:]
	}
	if month == "" {
		return fmt.Sprintf("Relatorio_%s_%s", group.Label(), monthKey)
	}
	return fmt.Sprintf("Relatorio_%s_%s_%s", group.Label(), year, month)
}

// Report is a table ready for a writer.
type Report struct {
	Title       string
	FileName    string
	GeneratedAt time.Time
	Table       Table
}
