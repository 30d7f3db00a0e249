package in

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	evaldto "fieldaudit/internal/modules/evaluation/dto"
	evalin "fieldaudit/internal/modules/evaluation/port/in"
	apperrors "fieldaudit/internal/platform/errors"
)

type startRequest struct {
	Type     string `validate:"required"`
	AreaCode string `validate:"required,areacode"`
	Date     string `validate:"required,fielddate"`
}

type CLIHandler struct {
	usecase  evalin.Usecase
	rules    evalin.StartRules
	validate *validator.Validate
}

func NewCLIHandler(usecase evalin.Usecase, rules evalin.StartRules) (CLIHandler, error) {
	if rules.AreaCode == nil || rules.Date == nil {
		return CLIHandler{}, errors.New("start rules are required")
	}
	v := validator.New(validator.WithRequiredStructEnabled())
	if err := v.RegisterValidation("areacode", normalizes(rules.AreaCode)); err != nil {
		return CLIHandler{}, fmt.Errorf("register areacode validation: %w", err)
	}
	if err := v.RegisterValidation("fielddate", normalizes(rules.Date)); err != nil {
		return CLIHandler{}, fmt.Errorf("register fielddate validation: %w", err)
	}
	return CLIHandler{usecase: usecase, rules: rules, validate: v}, nil
}

func normalizes(rule func(string) (string, error)) validator.Func {
	return func(fl validator.FieldLevel) bool {
		_, err := rule(fl.Field().String())
		return err == nil
	}
}

func (h CLIHandler) Types(ctx context.Context) ([]evaldto.TypeOutput, error) {
	return h.usecase.Types(ctx)
}

// Start checks the setup form and normalizes it: the area code is
// upper-cased and the date rendered as dd/mm/yyyy. An empty date means today.
func (h CLIHandler) Start(ctx context.Context, evalType, areaCode, date string, today time.Time) (evaldto.SessionOutput, error) {
	if strings.TrimSpace(date) == "" {
		date = today.Format("02/01/2006")
	}
	req := startRequest{Type: strings.TrimSpace(evalType), AreaCode: strings.TrimSpace(areaCode), Date: strings.TrimSpace(date)}
	if err := h.validate.Struct(req); err != nil {
		return evaldto.SessionOutput{}, describeValidation(err)
	}
	area, err := h.rules.AreaCode(req.AreaCode)
	if err != nil {
		return evaldto.SessionOutput{}, err
	}
	day, err := h.rules.Date(req.Date)
	if err != nil {
		return evaldto.SessionOutput{}, err
	}
	return h.usecase.Start(ctx, evaldto.StartInput{Type: req.Type, AreaCode: area, Date: day})
}

func (h CLIHandler) Show(ctx context.Context) (evaldto.SessionOutput, error) {
	return h.usecase.Current(ctx)
}

// Mark takes a 1-based sample number, the way samples are numbered on screen.
func (h CLIHandler) Mark(ctx context.Context, number int, status string) (evaldto.SessionOutput, error) {
	return h.usecase.Mark(ctx, evaldto.MarkInput{Index: number - 1, Status: strings.TrimSpace(status)})
}

func (h CLIHandler) Focus(ctx context.Context, number int) (evaldto.SessionOutput, error) {
	return h.usecase.Focus(ctx, evaldto.FocusInput{Index: number - 1})
}

func (h CLIHandler) Measure(ctx context.Context, number int, field, raw string) (evaldto.SessionOutput, error) {
	return h.usecase.Measure(ctx, evaldto.MeasureInput{Index: number - 1, Field: strings.ToLower(strings.TrimSpace(field)), Raw: raw})
}

func (h CLIHandler) Finish(ctx context.Context) (evaldto.ResultsOutput, error) {
	return h.usecase.Finish(ctx)
}

func (h CLIHandler) Results(ctx context.Context, id string) (evaldto.ResultsOutput, error) {
	return h.usecase.Results(ctx, evaldto.ResultsInput{ID: strings.TrimSpace(id)})
}

func (h CLIHandler) Save(ctx context.Context) (evaldto.SaveOutput, error) {
	return h.usecase.Save(ctx)
}

func (h CLIHandler) Discard(ctx context.Context) error {
	return h.usecase.Discard(ctx)
}

func describeValidation(err error) error {
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return fmt.Errorf("%w: %v", apperrors.ErrInvalidInput, err)
	}
	msgs := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		switch fe.Tag() {
		case "required":
			msgs = append(msgs, strings.ToLower(fe.Field())+" is required")
		case "areacode":
			msgs = append(msgs, fmt.Sprintf("area code %q must look like 592-B", fe.Value()))
		case "fielddate":
			msgs = append(msgs, fmt.Sprintf("date %q must be dd/mm/yyyy", fe.Value()))
		default:
			msgs = append(msgs, fe.Error())
		}
	}
	return fmt.Errorf("%w: %s", apperrors.ErrInvalidInput, strings.Join(msgs, "; "))
}
