package in

import (
	"context"

	evaldomain "fieldaudit/internal/modules/evaluation/domain"
	"fieldaudit/internal/modules/history/dto"
)

type Usecase interface {
	Save(ctx context.Context, input dto.SaveInput) (dto.SaveOutput, error)
	Get(ctx context.Context, id string) (dto.DetailOutput, error)
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, input dto.ListInput) ([]dto.SummaryOutput, error)
	ByMonth(ctx context.Context, input dto.ListInput) ([]dto.MonthOutput, error)
	Sessions(ctx context.Context, input dto.SessionsInput) ([]evaldomain.Session, error)
	ListBackups(ctx context.Context) ([]dto.BackupOutput, error)
}
