package in

import (
	"context"

	historydto "fieldaudit/internal/modules/history/dto"
	historyin "fieldaudit/internal/modules/history/port/in"
)

type CLIHandler struct {
	usecase historyin.Usecase
}

func NewCLIHandler(usecase historyin.Usecase) CLIHandler {
	return CLIHandler{usecase: usecase}
}

func (h CLIHandler) List(ctx context.Context, group string) ([]historydto.SummaryOutput, error) {
	return h.usecase.List(ctx, historydto.ListInput{Group: group})
}

func (h CLIHandler) ByMonth(ctx context.Context, group string) ([]historydto.MonthOutput, error) {
	return h.usecase.ByMonth(ctx, historydto.ListInput{Group: group})
}

func (h CLIHandler) Show(ctx context.Context, id string) (historydto.DetailOutput, error) {
	return h.usecase.Get(ctx, id)
}

func (h CLIHandler) Delete(ctx context.Context, id string) error {
	return h.usecase.Delete(ctx, id)
}

func (h CLIHandler) Backups(ctx context.Context) ([]historydto.BackupOutput, error) {
	return h.usecase.ListBackups(ctx)
}
