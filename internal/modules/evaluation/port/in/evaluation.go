package in

import (
	"context"

	"fieldaudit/internal/modules/evaluation/dto"
)

type Usecase interface {
	Types(ctx context.Context) ([]dto.TypeOutput, error)
	Start(ctx context.Context, input dto.StartInput) (dto.SessionOutput, error)
	Current(ctx context.Context) (dto.SessionOutput, error)
	Mark(ctx context.Context, input dto.MarkInput) (dto.SessionOutput, error)
	Focus(ctx context.Context, input dto.FocusInput) (dto.SessionOutput, error)
	Measure(ctx context.Context, input dto.MeasureInput) (dto.SessionOutput, error)
	Finish(ctx context.Context) (dto.ResultsOutput, error)
	Results(ctx context.Context, input dto.ResultsInput) (dto.ResultsOutput, error)
	Save(ctx context.Context) (dto.SaveOutput, error)
	Discard(ctx context.Context) error
}

// StartRules normalizes the setup form fields, returning an error for values
// that cannot be normalized.
type StartRules struct {
	AreaCode func(raw string) (string, error)
	Date     func(raw string) (string, error)
}
