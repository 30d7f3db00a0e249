package usecase

import (
	"context"
	"strings"

	evaldomain "fieldaudit/internal/modules/evaluation/domain"
	historydto "fieldaudit/internal/modules/history/dto"
	historyin "fieldaudit/internal/modules/history/port/in"
	reportdto "fieldaudit/internal/modules/report/dto"
	reportin "fieldaudit/internal/modules/report/port/in"
	"fieldaudit/internal/modules/report/service"
)

const defaultFormat = "xlsx"

type Interactor struct {
	svc     *service.ReportService
	history historyin.Usecase
}

func NewInteractor(svc *service.ReportService, history historyin.Usecase) reportin.Usecase {
	return &Interactor{svc: svc, history: history}
}

func (i *Interactor) Formats(_ context.Context) []string {
	return i.svc.Formats()
}

func (i *Interactor) ExportAll(ctx context.Context, input reportdto.ExportAllInput) (reportdto.ExportOutput, error) {
	sessions, err := i.history.Sessions(ctx, historydto.SessionsInput{})
	if err != nil {
		return reportdto.ExportOutput{}, err
	}
	format := formatOrDefault(input.Format)
	report, path, err := i.svc.ExportAll(ctx, format, sessions)
	if err != nil {
		return reportdto.ExportOutput{}, err
	}
	return reportdto.ExportOutput{Path: path, FileName: report.FileName, Format: format, Rows: len(report.Table.Rows)}, nil
}

func (i *Interactor) ExportMonth(ctx context.Context, input reportdto.ExportMonthInput) (reportdto.ExportOutput, error) {
	sessions, err := i.history.Sessions(ctx, historydto.SessionsInput{Group: input.Group, Month: input.Month})
	if err != nil {
		return reportdto.ExportOutput{}, err
	}
	format := formatOrDefault(input.Format)
	report, path, err := i.svc.ExportMonth(ctx, format, evaldomain.Group(input.Group), input.Month, sessions)
	if err != nil {
		return reportdto.ExportOutput{}, err
	}
	return reportdto.ExportOutput{Path: path, FileName: report.FileName, Format: format, Rows: len(report.Table.Rows)}, nil
}

func formatOrDefault(format string) string {
	format = strings.ToLower(strings.TrimSpace(format))
	if format == "" || format == "excel" {
		return defaultFormat
	}
	if format == "md" {
		return "markdown"
	}
	return format
}
