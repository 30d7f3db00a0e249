package out

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"fieldaudit/internal/modules/report/domain"
	reportout "fieldaudit/internal/modules/report/port/out"
	"fieldaudit/internal/platform/markdown"
)

const FormatMarkdown = "markdown"

var reportBlock = markdown.Block{
	Start: "<!-- fieldaudit:report:start -->",
	End:   "<!-- fieldaudit:report:end -->",
}

// MarkdownWriter renders the table inside a managed block, so notes written
// around it survive a re-export to the same file.
type MarkdownWriter struct{}

func NewMarkdownWriter() reportout.Writer {
	return MarkdownWriter{}
}

func (MarkdownWriter) Format() string { return FormatMarkdown }

func (MarkdownWriter) Write(_ context.Context, dir string, report domain.Report) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create export dir: %w", err)
	}
	path := filepath.Join(dir, report.FileName+".md")

	doc := markdown.Document{Meta: map[string]any{}, Body: "# " + report.Title + "\n"}
	existing, err := os.ReadFile(path)
	switch {
	case err == nil:
		doc, err = markdown.Parse(string(existing))
		if err != nil {
			return "", fmt.Errorf("parse existing report %s: %w", path, err)
		}
	case !errors.Is(err, fs.ErrNotExist):
		return "", fmt.Errorf("read existing report: %w", err)
	}

	doc.Meta["title"] = report.Title
	doc.Meta["generated_at"] = report.GeneratedAt.Format(time.RFC3339)
	doc.Meta["evaluations"] = len(report.Table.Rows)
	doc.Body = reportBlock.Replace(doc.Body, renderTable(report.Table))

	rendered, err := doc.Render()
	if err != nil {
		return "", err
	}
	if err := os.WriteFile(path, []byte(rendered), 0o644); err != nil {
		return "", fmt.Errorf("write report: %w", err)
	}
	return path, nil
}

func renderTable(table domain.Table) string {
	var b strings.Builder
	writeRow(&b, table.Headers)
	sep := make([]string, len(table.Headers))
	for i := range sep {
		sep[i] = "---"
		if i >= 3 {
			sep[i] = "---:"
		}
	}
	writeRow(&b, sep)
	for _, row := range table.Rows {
		writeRow(&b, row.Cells())
	}
	return strings.TrimSuffix(b.String(), "\n")
}

func writeRow(b *strings.Builder, cells []string) {
	b.WriteString("|")
	for _, c := range cells {
		b.WriteString(" ")
		b.WriteString(strings.ReplaceAll(c, "|", `\|`))
		b.WriteString(" |")
	}
	b.WriteString("\n")
}
