package service

import (
	"context"
	"fmt"

	"fieldaudit/internal/modules/evaluation/domain"
	"fieldaudit/internal/platform/clock"
	apperrors "fieldaudit/internal/platform/errors"
)

type EvaluationService struct {
	clock    clock.Clock
	registry domain.Registry
}

func NewEvaluationService(clock clock.Clock, registry domain.Registry) *EvaluationService {
	return &EvaluationService{clock: clock, registry: registry}
}

func (s *EvaluationService) Definition(category domain.Category) domain.Definition {
	return s.registry.Describe(category)
}

func (s *EvaluationService) Start(_ context.Context, evalType domain.EvaluationType, areaCode, date string) (domain.ActiveEvaluation, error) {
	if err := evalType.Validate(); err != nil {
		return domain.ActiveEvaluation{}, err
	}
	area, err := domain.NormalizeAreaCode(areaCode)
	if err != nil {
		return domain.ActiveEvaluation{}, err
	}
	day, err := domain.NormalizeDate(date)
	if err != nil {
		return domain.ActiveEvaluation{}, err
	}
	def := s.registry.Describe(evalType.Category())
	if def.SampleCount <= 0 {
		return domain.ActiveEvaluation{}, fmt.Errorf("%w: %s has no samples configured", apperrors.ErrInvalidInput, def.Category)
	}
	return domain.NewActiveEvaluation(def, domain.NewSession(def, evalType, area, day), s.clock.Now()), nil
}

func (s *EvaluationService) Mark(_ context.Context, active *domain.ActiveEvaluation, index int, status domain.Status) error {
	return s.record(active, func(rec *domain.Recorder) error {
		return rec.SetStatus(index, status)
	})
}

func (s *EvaluationService) Select(_ context.Context, active *domain.ActiveEvaluation, index int) error {
	return s.record(active, func(rec *domain.Recorder) error {
		return rec.Select(index)
	})
}

func (s *EvaluationService) Measure(_ context.Context, active *domain.ActiveEvaluation, index int, field domain.Field, raw string) error {
	return s.record(active, func(rec *domain.Recorder) error {
		return rec.SetMeasurement(index, field, raw)
	})
}

// Finish locks the session for review. Status sessions must be fully
// evaluated; distance sessions are classified from their measurements.
// Finishing a locked session only recomputes its results.
func (s *EvaluationService) Finish(_ context.Context, active *domain.ActiveEvaluation) (domain.Results, error) {
	def := s.registry.Describe(active.Session.Category)
	if !active.Locked {
		rec := active.Recorder(def)
		if def.Distance != nil {
			if _, err := rec.Finalize(); err != nil {
				return domain.Results{}, err
			}
		} else if !rec.Complete() {
			return domain.Results{}, &domain.IncompleteError{Remaining: active.Session.TotalSamples - rec.EvaluatedCount()}
		}
		active.Sync(rec)
		active.Locked = true
	}
	return domain.Aggregate(def, active.Session), nil
}

func (s *EvaluationService) Results(session domain.Session) domain.Results {
	return domain.Aggregate(s.registry.Describe(session.Category), session)
}

func (s *EvaluationService) record(active *domain.ActiveEvaluation, apply func(*domain.Recorder) error) error {
	if active.Locked {
		return apperrors.ErrSessionLocked
	}
	rec := active.Recorder(s.registry.Describe(active.Session.Category))
	if err := apply(rec); err != nil {
		return err
	}
	active.Sync(rec)
	return nil
}
