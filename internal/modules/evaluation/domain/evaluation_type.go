package domain

import (
	"fmt"

	apperrors "fieldaudit/internal/platform/errors"
)

// EvaluationType is what the operator picks on the setup screen. Several
// types share the seedling category; the type label names the session.
type EvaluationType string

const (
	TypePlanting     EvaluationType = "planting"
	TypeSurvival15   EvaluationType = "survival_15"
	TypeSurvival30   EvaluationType = "survival_30"
	TypeSurvival60   EvaluationType = "survival_60"
	TypeSurvival120  EvaluationType = "survival_120"
	TypeHoleQuality  EvaluationType = "hole_quality"
	TypeHoleDistance EvaluationType = "hole_distance"
)

var evaluationTypes = []EvaluationType{
	TypePlanting,
	TypeSurvival15,
	TypeSurvival30,
	TypeSurvival60,
	TypeSurvival120,
	TypeHoleQuality,
	TypeHoleDistance,
}

// EvaluationTypes lists every type in setup-screen order.
func EvaluationTypes() []EvaluationType {
	out := make([]EvaluationType, len(evaluationTypes))
	copy(out, evaluationTypes)
	return out
}

func (t EvaluationType) Validate() error {
	for _, known := range evaluationTypes {
		if t == known {
			return nil
		}
	}
	return fmt.Errorf("%w: unsupported evaluation type %q", apperrors.ErrInvalidInput, string(t))
}

func (t EvaluationType) Category() Category {
	switch t {
	case TypeHoleQuality:
		return CategoryHoleQuality
	case TypeHoleDistance:
		return CategoryHoleDistance
	default:
		return CategorySeedling
	}
}
