package domain

import (
	"fmt"
	"slices"

	apperrors "fieldaudit/internal/platform/errors"
)

type Category string

const (
	CategorySeedling     Category = "seedling"
	CategoryHoleQuality  Category = "hole_quality"
	CategoryHoleDistance Category = "hole_distance"
)

func (c Category) Validate() error {
	switch c {
	case CategorySeedling, CategoryHoleQuality, CategoryHoleDistance:
		return nil
	default:
		return fmt.Errorf("%w: unsupported category %q", apperrors.ErrInvalidInput, string(c))
	}
}

// Group splits categories into the two history tabs.
type Group string

const (
	GroupAll       Group = ""
	GroupSeedlings Group = "seedlings"
	GroupHoles     Group = "holes"
)

func (g Group) Validate() error {
	switch g {
	case GroupAll, GroupSeedlings, GroupHoles:
		return nil
	default:
		return fmt.Errorf("%w: unsupported group %q", apperrors.ErrInvalidInput, string(g))
	}
}

func (c Category) Group() Group {
	if c == CategorySeedling {
		return GroupSeedlings
	}
	return GroupHoles
}

func (g Group) Includes(c Category) bool {
	return g == GroupAll || c.Group() == g
}

type Status string

const (
	StatusNotEvaluated Status = "not_evaluated"
	StatusOK           Status = "ok"

	StatusPoorlyFixed     Status = "poorly_fixed"
	StatusFertilizerBurn  Status = "fertilizer_burn"
	StatusHerbicideBurn   Status = "herbicide_burn"
	StatusDrownedCollar   Status = "drowned_collar"
	StatusLeaningSeedling Status = "leaning_seedling"
	StatusDeadSeedling    Status = "dead_seedling"
	StatusExposedCollar   Status = "exposed_collar"
	StatusBrokenTip       Status = "broken_tip"
	StatusEmptyHole       Status = "empty_hole"

	StatusNoFertilizer      Status = "no_fertilizer"
	StatusExposedFertilizer Status = "exposed_fertilizer"
	StatusNoCrowning        Status = "no_crowning"
	StatusNoDigging         Status = "no_digging"
	StatusNoBasin           Status = "no_basin"
	StatusWrongDepth        Status = "wrong_depth"

	StatusStreetProblem Status = "street_problem"
	StatusLineProblem   Status = "line_problem"
	StatusBothProblem   Status = "both_problem"
)

// Range is a closed interval.
type Range struct {
	Min float64
	Max float64
}

func (r Range) Contains(v float64) bool {
	return v >= r.Min && v <= r.Max
}

type DistanceRanges struct {
	Street Range
	Line   Range
}

// Definition describes one category. Vocabulary order is the display order:
// unevaluated, pass, then problem kinds.
type Definition struct {
	Category    Category
	SampleCount int
	Vocabulary  []Status
	Pass        Status
	Unevaluated Status
	Distance    *DistanceRanges
}

func (d Definition) IsPass(s Status) bool        { return s == d.Pass }
func (d Definition) IsUnevaluated(s Status) bool { return s == d.Unevaluated }

func (d Definition) Contains(s Status) bool {
	return slices.Contains(d.Vocabulary, s)
}

// Choices are the statuses an operator can pick: pass first, then problems.
func (d Definition) Choices() []Status {
	out := make([]Status, 0, len(d.Vocabulary))
	out = append(out, d.Pass)
	return append(out, d.ProblemKinds()...)
}

func (d Definition) ProblemKinds() []Status {
	out := make([]Status, 0, len(d.Vocabulary))
	for _, s := range d.Vocabulary {
		if s != d.Pass && s != d.Unevaluated {
			out = append(out, s)
		}
	}
	return out
}

// BreakdownKinds are the rows of the results breakdown. Distance sessions
// report street and line problems only; both_problem feeds each of them.
func (d Definition) BreakdownKinds() []Status {
	if d.Distance != nil {
		return []Status{StatusStreetProblem, StatusLineProblem}
	}
	return d.ProblemKinds()
}

// Registry is a read-only lookup of category definitions.
type Registry struct {
	defs map[Category]Definition
}

type RegistryOptions struct {
	SeedlingSamples     int
	HoleQualitySamples  int
	HoleDistanceSamples int
	Distance            DistanceRanges
}

func DefaultRegistryOptions() RegistryOptions {
	return RegistryOptions{
		SeedlingSamples:     200,
		HoleQualitySamples:  100,
		HoleDistanceSamples: 50,
		Distance: DistanceRanges{
			Street: Range{Min: 2.70, Max: 3.30},
			Line:   Range{Min: 1.70, Max: 2.30},
		},
	}
}

func DefaultRegistry() Registry {
	return NewRegistry(DefaultRegistryOptions())
}

func NewRegistry(opts RegistryOptions) Registry {
	distance := opts.Distance
	return Registry{defs: map[Category]Definition{
		CategorySeedling: {
			Category:    CategorySeedling,
			SampleCount: opts.SeedlingSamples,
			Vocabulary: []Status{
				StatusNotEvaluated,
				StatusOK,
				StatusPoorlyFixed,
				StatusFertilizerBurn,
				StatusHerbicideBurn,
				StatusDrownedCollar,
				StatusLeaningSeedling,
				StatusDeadSeedling,
				StatusExposedCollar,
				StatusBrokenTip,
				StatusEmptyHole,
			},
			Pass:        StatusOK,
			Unevaluated: StatusNotEvaluated,
		},
		CategoryHoleQuality: {
			Category:    CategoryHoleQuality,
			SampleCount: opts.HoleQualitySamples,
			Vocabulary: []Status{
				StatusNotEvaluated,
				StatusOK,
				StatusNoFertilizer,
				StatusExposedFertilizer,
				StatusNoCrowning,
				StatusNoDigging,
				StatusNoBasin,
				StatusWrongDepth,
			},
			Pass:        StatusOK,
			Unevaluated: StatusNotEvaluated,
		},
		CategoryHoleDistance: {
			Category:    CategoryHoleDistance,
			SampleCount: opts.HoleDistanceSamples,
			Vocabulary: []Status{
				StatusNotEvaluated,
				StatusOK,
				StatusStreetProblem,
				StatusLineProblem,
				StatusBothProblem,
			},
			Pass:        StatusOK,
			Unevaluated: StatusNotEvaluated,
			Distance:    &distance,
		},
	}}
}

// Describe returns the definition for c. Callers validate c first; an unknown
// category yields the zero Definition.
func (r Registry) Describe(c Category) Definition {
	def, ok := r.defs[c]
	if !ok {
		return Definition{}
	}
	def.Vocabulary = slices.Clone(def.Vocabulary)
	if def.Distance != nil {
		ranges := *def.Distance
		def.Distance = &ranges
	}
	return def
}

// Categories lists the registry in display order.
func (r Registry) Categories() []Category {
	return []Category{CategorySeedling, CategoryHoleQuality, CategoryHoleDistance}
}
