package usecase

import (
	"context"
	"errors"
	"fmt"

	"fieldaudit/internal/modules/evaluation/domain"
	evaldto "fieldaudit/internal/modules/evaluation/dto"
	evalin "fieldaudit/internal/modules/evaluation/port/in"
	evalout "fieldaudit/internal/modules/evaluation/port/out"
	"fieldaudit/internal/modules/evaluation/service"
	historydto "fieldaudit/internal/modules/history/dto"
	historyin "fieldaudit/internal/modules/history/port/in"
	apperrors "fieldaudit/internal/platform/errors"
)

type Interactor struct {
	svc         *service.EvaluationService
	history     historyin.Usecase
	activeStore evalout.ActiveStore
}

func NewInteractor(svc *service.EvaluationService, history historyin.Usecase, activeStore evalout.ActiveStore) evalin.Usecase {
	return &Interactor{svc: svc, history: history, activeStore: activeStore}
}

func (i *Interactor) Types(_ context.Context) ([]evaldto.TypeOutput, error) {
	types := domain.EvaluationTypes()
	out := make([]evaldto.TypeOutput, 0, len(types))
	for _, t := range types {
		def := i.svc.Definition(t.Category())
		out = append(out, evaldto.TypeOutput{
			Type:        string(t),
			Label:       t.Label(),
			Category:    string(def.Category),
			SampleTerm:  def.Category.SampleTerm(),
			SampleCount: def.SampleCount,
		})
	}
	return out, nil
}

func (i *Interactor) Start(ctx context.Context, input evaldto.StartInput) (evaldto.SessionOutput, error) {
	if _, err := i.activeStore.LoadActive(ctx); err == nil {
		return evaldto.SessionOutput{}, apperrors.ErrActiveSessionExists
	} else if !errors.Is(err, apperrors.ErrNoActiveSession) {
		return evaldto.SessionOutput{}, err
	}

	active, err := i.svc.Start(ctx, domain.EvaluationType(input.Type), input.AreaCode, input.Date)
	if err != nil {
		return evaldto.SessionOutput{}, err
	}
	if err := i.activeStore.SaveActive(ctx, active); err != nil {
		return evaldto.SessionOutput{}, err
	}
	return i.sessionOutput(active), nil
}

func (i *Interactor) Current(ctx context.Context) (evaldto.SessionOutput, error) {
	active, err := i.activeStore.LoadActive(ctx)
	if err != nil {
		return evaldto.SessionOutput{}, err
	}
	return i.sessionOutput(active), nil
}

func (i *Interactor) Mark(ctx context.Context, input evaldto.MarkInput) (evaldto.SessionOutput, error) {
	return i.update(ctx, func(active *domain.ActiveEvaluation) error {
		return i.svc.Mark(ctx, active, input.Index, domain.Status(input.Status))
	})
}

func (i *Interactor) Focus(ctx context.Context, input evaldto.FocusInput) (evaldto.SessionOutput, error) {
	return i.update(ctx, func(active *domain.ActiveEvaluation) error {
		return i.svc.Select(ctx, active, input.Index)
	})
}

func (i *Interactor) Measure(ctx context.Context, input evaldto.MeasureInput) (evaldto.SessionOutput, error) {
	return i.update(ctx, func(active *domain.ActiveEvaluation) error {
		return i.svc.Measure(ctx, active, input.Index, domain.Field(input.Field), input.Raw)
	})
}

func (i *Interactor) Finish(ctx context.Context) (evaldto.ResultsOutput, error) {
	active, err := i.activeStore.LoadActive(ctx)
	if err != nil {
		return evaldto.ResultsOutput{}, err
	}
	results, err := i.svc.Finish(ctx, &active)
	if err != nil {
		return evaldto.ResultsOutput{}, err
	}
	if err := i.activeStore.SaveActive(ctx, active); err != nil {
		return evaldto.ResultsOutput{}, err
	}
	return resultsOutput(active.Session, results), nil
}

func (i *Interactor) Results(ctx context.Context, input evaldto.ResultsInput) (evaldto.ResultsOutput, error) {
	if input.ID == "" {
		active, err := i.activeStore.LoadActive(ctx)
		if err != nil {
			return evaldto.ResultsOutput{}, err
		}
		return resultsOutput(active.Session, i.svc.Results(active.Session)), nil
	}
	if i.history == nil {
		return evaldto.ResultsOutput{}, fmt.Errorf("history usecase is not configured")
	}
	detail, err := i.history.Get(ctx, input.ID)
	if err != nil {
		return evaldto.ResultsOutput{}, err
	}
	return resultsOutput(detail.Session, i.svc.Results(detail.Session)), nil
}

// Save stores a finished evaluation and clears the active slot.
func (i *Interactor) Save(ctx context.Context) (evaldto.SaveOutput, error) {
	if i.history == nil {
		return evaldto.SaveOutput{}, fmt.Errorf("history usecase is not configured")
	}
	active, err := i.activeStore.LoadActive(ctx)
	if err != nil {
		return evaldto.SaveOutput{}, err
	}
	if !active.Locked {
		return evaldto.SaveOutput{}, fmt.Errorf("%w: finish the evaluation before saving", apperrors.ErrIncomplete)
	}
	// An id on the active session means history already holds it and only
	// clearing the active slot failed last time.
	if !active.Session.Saved() {
		saved, err := i.history.Save(ctx, historydto.SaveInput{Session: active.Session})
		if err != nil {
			return evaldto.SaveOutput{}, err
		}
		active.Session.ID = saved.ID
		active.Session.SavedAt = saved.SavedAt.UnixMilli()
		if err := i.activeStore.SaveActive(ctx, active); err != nil {
			return evaldto.SaveOutput{}, err
		}
	}
	if err := i.activeStore.ClearActive(ctx); err != nil {
		return evaldto.SaveOutput{}, err
	}
	return evaldto.SaveOutput{ID: active.Session.ID, SavedAt: active.Session.SavedTime()}, nil
}

func (i *Interactor) Discard(ctx context.Context) error {
	if _, err := i.activeStore.LoadActive(ctx); err != nil {
		return err
	}
	return i.activeStore.ClearActive(ctx)
}

func (i *Interactor) update(ctx context.Context, apply func(*domain.ActiveEvaluation) error) (evaldto.SessionOutput, error) {
	active, err := i.activeStore.LoadActive(ctx)
	if err != nil {
		return evaldto.SessionOutput{}, err
	}
	if err := apply(&active); err != nil {
		return evaldto.SessionOutput{}, err
	}
	if err := i.activeStore.SaveActive(ctx, active); err != nil {
		return evaldto.SessionOutput{}, err
	}
	return i.sessionOutput(active), nil
}

func (i *Interactor) sessionOutput(active domain.ActiveEvaluation) evaldto.SessionOutput {
	s := active.Session
	def := i.svc.Definition(s.Category)
	rec := active.Recorder(def)
	out := evaldto.SessionOutput{
		AreaCode:       s.AreaCode,
		Date:           s.Date,
		Type:           string(s.Type),
		TypeLabel:      s.Type.Label(),
		Category:       string(s.Category),
		SampleTerm:     s.Category.SampleTerm(),
		StartedAt:      active.StartedAt,
		TotalSamples:   s.TotalSamples,
		EvaluatedCount: rec.EvaluatedCount(),
		Complete:       rec.Complete(),
		Locked:         active.Locked,
		Pass:           string(def.Pass),
		Unevaluated:    string(def.Unevaluated),
	}
	out.Focus, out.HasFocus = rec.Focus()
	if def.Distance != nil {
		out.MissingMeasurements = rec.MissingMeasurements()
	} else {
		for _, c := range def.Choices() {
			label := domain.LabelOf(c)
			out.Choices = append(out.Choices, evaldto.ChoiceOutput{Status: string(c), Label: label.Label, Short: label.Short})
		}
	}
	out.Samples = make([]evaldto.SampleOutput, len(s.Samples))
	for idx, status := range s.Samples {
		label := domain.LabelOf(status)
		sample := evaldto.SampleOutput{Index: idx, Status: string(status), Label: label.Label, Short: label.Short}
		if idx < len(s.Measurements) {
			sample.Street = s.Measurements[idx].Street
			sample.Line = s.Measurements[idx].Line
		}
		out.Samples[idx] = sample
	}
	return out
}

func resultsOutput(s domain.Session, r domain.Results) evaldto.ResultsOutput {
	out := evaldto.ResultsOutput{
		ID:           s.ID,
		AreaCode:     s.AreaCode,
		Date:         s.Date,
		TypeLabel:    s.Type.Label(),
		Category:     string(s.Category),
		SampleTerm:   s.Category.SampleTerm(),
		TotalSamples: r.TotalSamples,
		PassCount:    r.PassCount,
		ProblemCount: r.ProblemCount,
		QualityRate:  r.QualityRate,
		ProblemRate:  r.ProblemRate,
		Label:        string(r.Label()),
	}
	for _, d := range r.Breakdown {
		out.Breakdown = append(out.Breakdown, evaldto.ProblemOutput{
			Kind:       string(d.Kind),
			Label:      domain.LabelOf(d.Kind).Label,
			Count:      d.Count,
			Percentage: d.Percentage,
		})
	}
	return out
}
