package in

import (
	"context"

	"fieldaudit/internal/modules/report/dto"
)

type Usecase interface {
	Formats(ctx context.Context) []string
	ExportAll(ctx context.Context, input dto.ExportAllInput) (dto.ExportOutput, error)
	ExportMonth(ctx context.Context, input dto.ExportMonthInput) (dto.ExportOutput, error)
}
