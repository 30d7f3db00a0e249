package domain

const QualityThreshold = 95.0

type QualityLabel string

const (
	QualityExcellent QualityLabel = "Excellent"
	QualityPoor      QualityLabel = "Poor"
)

func LabelFor(qualityRate float64) QualityLabel {
	if qualityRate >= QualityThreshold {
		return QualityExcellent
	}
	return QualityPoor
}

type ProblemDetail struct {
	Kind       Status
	Count      int
	Percentage float64
}

type Results struct {
	TotalSamples int
	PassCount    int
	ProblemCount int
	QualityRate  float64
	ProblemRate  float64
	// Breakdown holds only kinds that occurred, in registry order.
	Breakdown []ProblemDetail
}

func (r Results) Label() QualityLabel {
	return LabelFor(r.QualityRate)
}

func (r Results) Problem(kind Status) (ProblemDetail, bool) {
	for _, d := range r.Breakdown {
		if d.Kind == kind {
			return d, true
		}
	}
	return ProblemDetail{}, false
}

// Aggregate computes pass/problem statistics for a session. Every sample that
// is not a pass, unevaluated ones included, counts as a problem. For distance
// sessions a both_problem sample is counted in the street row and in the line
// row, so the breakdown may sum to more than ProblemCount.
func Aggregate(def Definition, s Session) Results {
	total := s.TotalSamples
	counts := CountSamples(s)

	pass := counts[def.Pass]
	problems := total - pass

	quality := 0.0
	if total > 0 {
		quality = float64(pass) / float64(total) * 100
	}

	out := Results{
		TotalSamples: total,
		PassCount:    pass,
		ProblemCount: problems,
		QualityRate:  quality,
		ProblemRate:  100 - quality,
	}
	for _, kc := range BreakdownCounts(def, counts) {
		if kc.Count == 0 {
			continue
		}
		out.Breakdown = append(out.Breakdown, ProblemDetail{Kind: kc.Kind, Count: kc.Count, Percentage: percentOf(kc.Count, total)})
	}
	return out
}

// KindCount pairs a breakdown kind with its count.
type KindCount struct {
	Kind  Status
	Count int
}

// BreakdownCounts walks the breakdown kinds of def in order, zeros included.
func BreakdownCounts(def Definition, counts map[Status]int) []KindCount {
	kinds := def.BreakdownKinds()
	out := make([]KindCount, 0, len(kinds))
	for _, kind := range kinds {
		n := counts[kind]
		if def.Distance != nil {
			n += counts[StatusBothProblem]
		}
		out = append(out, KindCount{Kind: kind, Count: n})
	}
	return out
}

// CountSamples tallies a session's samples by status.
func CountSamples(s Session) map[Status]int {
	counts := make(map[Status]int)
	for _, sample := range s.Samples {
		counts[sample]++
	}
	return counts
}

func percentOf(n, total int) float64 {
	if total <= 0 {
		return 0
	}
	return float64(n) / float64(total) * 100
}
