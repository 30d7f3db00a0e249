package in_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	evalin "fieldaudit/internal/modules/evaluation/adapter/in"
	"fieldaudit/internal/modules/evaluation/domain"
	evaldto "fieldaudit/internal/modules/evaluation/dto"
	evalport "fieldaudit/internal/modules/evaluation/port/in"
	apperrors "fieldaudit/internal/platform/errors"
)

type recordingUsecase struct {
	evalport.Usecase
	start   evaldto.StartInput
	mark    evaldto.MarkInput
	measure evaldto.MeasureInput
}

func (r *recordingUsecase) Start(_ context.Context, input evaldto.StartInput) (evaldto.SessionOutput, error) {
	r.start = input
	return evaldto.SessionOutput{AreaCode: input.AreaCode, Date: input.Date}, nil
}

func (r *recordingUsecase) Mark(_ context.Context, input evaldto.MarkInput) (evaldto.SessionOutput, error) {
	r.mark = input
	return evaldto.SessionOutput{}, nil
}

func (r *recordingUsecase) Measure(_ context.Context, input evaldto.MeasureInput) (evaldto.SessionOutput, error) {
	r.measure = input
	return evaldto.SessionOutput{}, nil
}

var today = time.Date(2024, 7, 4, 12, 0, 0, 0, time.UTC)

var domainRules = evalport.StartRules{AreaCode: domain.NormalizeAreaCode, Date: domain.NormalizeDate}

func newHandler(t *testing.T, uc evalport.Usecase) evalin.CLIHandler {
	t.Helper()
	h, err := evalin.NewCLIHandler(uc, domainRules)
	if err != nil {
		t.Fatalf("new handler: %v", err)
	}
	return h
}

func TestStartNormalizesInput(t *testing.T) {
	t.Parallel()
	uc := &recordingUsecase{}
	h := newHandler(t, uc)

	cases := []struct {
		area, date       string
		wantArea, wantDt string
	}{
		{" 592-b ", "2024-03-10", "592-B", "10/03/2024"},
		{"7-K", "1/2/2024", "7-K", "01/02/2024"},
		{"10-a", "", "10-A", "04/07/2024"},
	}
	for _, tc := range cases {
		if _, err := h.Start(context.Background(), "planting", tc.area, tc.date, today); err != nil {
			t.Fatalf("start %q %q: %v", tc.area, tc.date, err)
		}
		if uc.start.AreaCode != tc.wantArea || uc.start.Date != tc.wantDt || uc.start.Type != "planting" {
			t.Fatalf("unexpected normalized input %+v", uc.start)
		}
	}
}

func TestStartRejectsInvalidForm(t *testing.T) {
	t.Parallel()
	h := newHandler(t, &recordingUsecase{})

	cases := map[string][3]string{
		"area code": {"planting", "592B", "10/03/2024"},
		"dd/mm":     {"planting", "592-B", "10-03-2024"},
		"required":  {"", "592-B", "10/03/2024"},
	}
	for want, in := range cases {
		_, err := h.Start(context.Background(), in[0], in[1], in[2], today)
		if !errors.Is(err, apperrors.ErrInvalidInput) {
			t.Fatalf("%v should be invalid input, got %v", in, err)
		}
		if !strings.Contains(err.Error(), want) {
			t.Fatalf("error %q should mention %q", err, want)
		}
	}
}

func TestSampleNumbersAreOneBased(t *testing.T) {
	t.Parallel()
	uc := &recordingUsecase{}
	h := newHandler(t, uc)
	if _, err := h.Mark(context.Background(), 1, " ok "); err != nil {
		t.Fatalf("mark: %v", err)
	}
	if uc.mark.Index != 0 || uc.mark.Status != "ok" {
		t.Fatalf("unexpected mark input %+v", uc.mark)
	}
	if _, err := h.Measure(context.Background(), 50, "LINE", "2,1"); err != nil {
		t.Fatalf("measure: %v", err)
	}
	if uc.measure.Index != 49 || uc.measure.Field != "line" || uc.measure.Raw != "2,1" {
		t.Fatalf("unexpected measure input %+v", uc.measure)
	}
}

func TestStartDelegatesToInjectedRules(t *testing.T) {
	t.Parallel()
	uc := &recordingUsecase{}
	var seen []string
	rules := evalport.StartRules{
		AreaCode: func(raw string) (string, error) {
			seen = append(seen, "area:"+raw)
			return "AREA", nil
		},
		Date: func(raw string) (string, error) {
			seen = append(seen, "date:"+raw)
			if raw == "never" {
				return "", errors.New("bad date")
			}
			return "DAY", nil
		},
	}
	h, err := evalin.NewCLIHandler(uc, rules)
	if err != nil {
		t.Fatalf("new handler: %v", err)
	}
	if _, err := h.Start(context.Background(), "planting", "x", "y", today); err != nil {
		t.Fatalf("start: %v", err)
	}
	if uc.start.AreaCode != "AREA" || uc.start.Date != "DAY" {
		t.Fatalf("start input should come from the rules, got %+v", uc.start)
	}
	if _, err := h.Start(context.Background(), "planting", "x", "never", today); !errors.Is(err, apperrors.ErrInvalidInput) {
		t.Fatalf("rule rejection should be invalid input, got %v", err)
	}
	if len(seen) == 0 || !strings.HasPrefix(seen[0], "area:") {
		t.Fatalf("rules were not consulted: %v", seen)
	}
}

func TestNewCLIHandlerRequiresRules(t *testing.T) {
	t.Parallel()
	if _, err := evalin.NewCLIHandler(&recordingUsecase{}, evalport.StartRules{AreaCode: domain.NormalizeAreaCode}); err == nil {
		t.Fatalf("missing date rule should fail construction")
	}
}
