package service

import (
	"context"
	"fmt"
	"sort"

	evaldomain "fieldaudit/internal/modules/evaluation/domain"
	"fieldaudit/internal/modules/report/domain"
	reportout "fieldaudit/internal/modules/report/port/out"
	"fieldaudit/internal/platform/clock"
	apperrors "fieldaudit/internal/platform/errors"
)

type ReportService struct {
	clock    clock.Clock
	registry evaldomain.Registry
	dir      string
	writers  map[string]reportout.Writer
}

func NewReportService(clock clock.Clock, registry evaldomain.Registry, dir string, writers ...reportout.Writer) *ReportService {
	byFormat := make(map[string]reportout.Writer, len(writers))
	for _, w := range writers {
		byFormat[w.Format()] = w
	}
	return &ReportService{clock: clock, registry: registry, dir: dir, writers: byFormat}
}

func (s *ReportService) Formats() []string {
	out := make([]string, 0, len(s.writers))
	for f := range s.writers {
		out = append(out, f)
	}
	sort.Strings(out)
	return out
}

func (s *ReportService) ExportAll(ctx context.Context, format string, sessions []evaldomain.Session) (domain.Report, string, error) {
	name := domain.FileNameAll(s.clock.Now())
	return s.export(ctx, format, name, sessions)
}

func (s *ReportService) ExportMonth(ctx context.Context, format string, group evaldomain.Group, month string, sessions []evaldomain.Session) (domain.Report, string, error) {
	if err := group.Validate(); err != nil {
		return domain.Report{}, "", err
	}
	return s.export(ctx, format, domain.FileNameMonth(group, month), sessions)
}

func (s *ReportService) export(ctx context.Context, format, name string, sessions []evaldomain.Session) (domain.Report, string, error) {
	writer, ok := s.writers[format]
	if !ok {
		return domain.Report{}, "", fmt.Errorf("%w: unsupported export format %q", apperrors.ErrInvalidInput, format)
	}
	if len(sessions) == 0 {
		return domain.Report{}, "", fmt.Errorf("%w: no evaluations to export", apperrors.ErrNotFound)
	}
	report := domain.Report{
		Title:       name,
		FileName:    name,
		GeneratedAt: s.clock.Now(),
		Table:       domain.BuildTable(s.registry, sessions),
	}
	path, err := writer.Write(ctx, s.dir, report)
	if err != nil {
		return domain.Report{}, "", fmt.Errorf("export %s: %w", format, err)
	}
	return report, path, nil
}
