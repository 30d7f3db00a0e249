package in

import (
	"context"

	reportdto "fieldaudit/internal/modules/report/dto"
	reportin "fieldaudit/internal/modules/report/port/in"
)

type CLIHandler struct {
	usecase reportin.Usecase
}

func NewCLIHandler(usecase reportin.Usecase) CLIHandler {
	return CLIHandler{usecase: usecase}
}

func (h CLIHandler) Formats(ctx context.Context) []string {
	return h.usecase.Formats(ctx)
}

func (h CLIHandler) ExportAll(ctx context.Context, format string) (reportdto.ExportOutput, error) {
	return h.usecase.ExportAll(ctx, reportdto.ExportAllInput{Format: format})
}

func (h CLIHandler) ExportMonth(ctx context.Context, format, group, month string) (reportdto.ExportOutput, error) {
	return h.usecase.ExportMonth(ctx, reportdto.ExportMonthInput{Format: format, Group: group, Month: month})
}
