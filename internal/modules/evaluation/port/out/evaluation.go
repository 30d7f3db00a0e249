package out

import (
	"context"

	"fieldaudit/internal/modules/evaluation/domain"
)

type ActiveStore interface {
	SaveActive(ctx context.Context, active domain.ActiveEvaluation) error
	LoadActive(ctx context.Context) (domain.ActiveEvaluation, error)
	ClearActive(ctx context.Context) error
}
