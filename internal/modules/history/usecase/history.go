package usecase

import (
	"context"
	"fmt"

	evaldomain "fieldaudit/internal/modules/evaluation/domain"
	"fieldaudit/internal/modules/history/domain"
	historydto "fieldaudit/internal/modules/history/dto"
	historyin "fieldaudit/internal/modules/history/port/in"
	"fieldaudit/internal/modules/history/service"
	apperrors "fieldaudit/internal/platform/errors"
)

type Interactor struct {
	svc *service.HistoryService
}

func NewInteractor(svc *service.HistoryService) historyin.Usecase {
	return &Interactor{svc: svc}
}

func (i *Interactor) Save(ctx context.Context, input historydto.SaveInput) (historydto.SaveOutput, error) {
	stored, err := i.svc.Save(ctx, input.Session)
	if err != nil {
		return historydto.SaveOutput{}, err
	}
	return historydto.SaveOutput{ID: stored.ID, SavedAt: stored.SavedTime()}, nil
}

func (i *Interactor) Get(ctx context.Context, id string) (historydto.DetailOutput, error) {
	session, err := i.svc.Get(ctx, id)
	if err != nil {
		return historydto.DetailOutput{}, err
	}
	return historydto.DetailOutput{Summary: i.summarize(session), Session: session}, nil
}

func (i *Interactor) Delete(ctx context.Context, id string) error {
	return i.svc.Delete(ctx, id)
}

func (i *Interactor) List(ctx context.Context, input historydto.ListInput) ([]historydto.SummaryOutput, error) {
	collection, err := i.svc.List(ctx, evaldomain.Group(input.Group))
	if err != nil {
		return nil, err
	}
	out := make([]historydto.SummaryOutput, 0, len(collection))
	for _, s := range collection {
		out = append(out, i.summarize(s))
	}
	return out, nil
}

func (i *Interactor) ByMonth(ctx context.Context, input historydto.ListInput) ([]historydto.MonthOutput, error) {
	groups, err := i.svc.GroupedByMonth(ctx, evaldomain.Group(input.Group))
	if err != nil {
		return nil, err
	}
	out := make([]historydto.MonthOutput, 0, len(groups))
	for _, key := range groups.Keys() {
		month := historydto.MonthOutput{Key: key, Label: domain.MonthLabel(key)}
		for _, s := range groups[key] {
			month.Evaluations = append(month.Evaluations, i.summarize(s))
		}
		out = append(out, month)
	}
	return out, nil
}

func (i *Interactor) Sessions(ctx context.Context, input historydto.SessionsInput) ([]evaldomain.Session, error) {
	group := evaldomain.Group(input.Group)
	if input.Month == "" {
		collection, err := i.svc.List(ctx, group)
		if err != nil {
			return nil, err
		}
		return collection, nil
	}
	groups, err := i.svc.GroupedByMonth(ctx, group)
	if err != nil {
		return nil, err
	}
	sessions, ok := groups[input.Month]
	if !ok {
		return nil, fmt.Errorf("%w: no evaluations for month %s", apperrors.ErrNotFound, input.Month)
	}
	return sessions, nil
}

func (i *Interactor) ListBackups(ctx context.Context) ([]historydto.BackupOutput, error) {
	backups, err := i.svc.Backups(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]historydto.BackupOutput, 0, len(backups))
	for _, b := range backups {
		out = append(out, historydto.BackupOutput{Key: b.Key, CreatedAt: b.CreatedAt})
	}
	return out, nil
}

func (i *Interactor) summarize(s evaldomain.Session) historydto.SummaryOutput {
	results := i.svc.Results(s)
	return historydto.SummaryOutput{
		ID:           s.ID,
		AreaCode:     s.AreaCode,
		Date:         s.Date,
		Type:         string(s.Type),
		TypeLabel:    s.Type.Label(),
		Category:     string(s.Category),
		SavedAt:      s.SavedTime(),
		TotalSamples: s.TotalSamples,
		QualityRate:  results.QualityRate,
		ProblemRate:  results.ProblemRate,
		Label:        string(results.Label()),
	}
}
