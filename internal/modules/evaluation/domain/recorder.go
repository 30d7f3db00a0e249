package domain

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	apperrors "fieldaudit/internal/platform/errors"
)

type Field string

const (
	FieldStreet Field = "street"
	FieldLine   Field = "line"
)

func (f Field) Validate() error {
	switch f {
	case FieldStreet, FieldLine:
		return nil
	default:
		return fmt.Errorf("%w: unsupported measurement field %q", apperrors.ErrInvalidInput, string(f))
	}
}

// IncompleteError reports how many samples or measurement pairs are still missing.
type IncompleteError struct {
	Remaining int
}

func (e *IncompleteError) Error() string {
	return fmt.Sprintf("%s: %d remaining", apperrors.ErrIncomplete, e.Remaining)
}

func (e *IncompleteError) Unwrap() error {
	return apperrors.ErrIncomplete
}

// Recorder mutates one session a sample at a time. Failed calls leave the
// session untouched.
type Recorder struct {
	def       Definition
	session   *Session
	evaluated int
	focus     int
}

func NewRecorder(def Definition, session *Session) *Recorder {
	r := &Recorder{def: def, session: session}
	r.recount()
	r.focus = r.firstUnevaluated(-1)
	return r
}

func (r *Recorder) Session() *Session { return r.session }

func (r *Recorder) EvaluatedCount() int { return r.evaluated }

func (r *Recorder) Complete() bool {
	return r.evaluated == r.session.TotalSamples
}

// Focus is the suggested next sample; ok is false once everything is evaluated.
func (r *Recorder) Focus() (int, bool) {
	if r.focus < 0 {
		return 0, false
	}
	return r.focus, true
}

// Select moves focus to index without changing any sample.
func (r *Recorder) Select(index int) error {
	if err := r.checkIndex(index); err != nil {
		return err
	}
	r.focus = index
	return nil
}

func (r *Recorder) SetStatus(index int, status Status) error {
	if r.def.Distance != nil {
		return fmt.Errorf("%w: %s samples are derived from measurements", apperrors.ErrInvalidInput, r.def.Category)
	}
	if err := r.checkIndex(index); err != nil {
		return err
	}
	if !r.def.Contains(status) {
		return fmt.Errorf("%w: %q is not a %s status", apperrors.ErrInvalidToken, string(status), r.def.Category)
	}
	r.session.Samples[index] = status
	r.recount()

	next := r.firstUnevaluated(index)
	if next < 0 {
		next = r.firstUnevaluated(-1)
	}
	r.focus = next
	return nil
}

// SetMeasurement parses raw into one side of a hole's spacing. An empty raw
// clears the side; a comma is accepted as decimal separator.
func (r *Recorder) SetMeasurement(index int, field Field, raw string) error {
	if r.def.Distance == nil {
		return fmt.Errorf("%w: %s sessions take statuses, not measurements", apperrors.ErrInvalidInput, r.def.Category)
	}
	if err := field.Validate(); err != nil {
		return err
	}
	if err := r.checkIndex(index); err != nil {
		return err
	}
	if index >= len(r.session.Measurements) {
		return fmt.Errorf("%w: %d has no measurement slot", apperrors.ErrInvalidIndex, index)
	}
	raw = strings.TrimSpace(raw)
	if raw == "" {
		r.assign(index, field, nil)
		return nil
	}
	value, err := ParseMeasurement(raw)
	if err != nil {
		return err
	}
	r.assign(index, field, &value)
	return nil
}

func ParseMeasurement(raw string) (float64, error) {
	value, err := strconv.ParseFloat(strings.ReplaceAll(strings.TrimSpace(raw), ",", "."), 64)
	if err != nil {
		var numErr *strconv.NumError
		if errors.As(err, &numErr) && errors.Is(numErr.Err, strconv.ErrRange) {
			return 0, fmt.Errorf("%w: %q is out of range", apperrors.ErrInvalidNumber, raw)
		}
		return 0, fmt.Errorf("%w: %q", apperrors.ErrInvalidNumber, raw)
	}
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return 0, fmt.Errorf("%w: %q", apperrors.ErrInvalidNumber, raw)
	}
	return value, nil
}

func (r *Recorder) assign(index int, field Field, value *float64) {
	m := r.session.Measurements[index]
	if field == FieldStreet {
		m.Street = value
	} else {
		m.Line = value
	}
	r.session.Measurements[index] = m
}

// MissingMeasurements counts pairs with at least one side absent.
func (r *Recorder) MissingMeasurements() int {
	missing := 0
	for _, m := range r.session.Measurements {
		if !m.Complete() {
			missing++
		}
	}
	return missing
}

// Finalize classifies every measured hole and writes the derived samples.
func (r *Recorder) Finalize() ([]Status, error) {
	if r.def.Distance == nil {
		return nil, fmt.Errorf("%w: only %s sessions are finalized from measurements", apperrors.ErrInvalidInput, CategoryHoleDistance)
	}
	if missing := r.MissingMeasurements(); missing > 0 {
		return nil, &IncompleteError{Remaining: missing}
	}
	samples := make([]Status, len(r.session.Measurements))
	for i, m := range r.session.Measurements {
		samples[i] = Classify(*r.def.Distance, *m.Street, *m.Line)
	}
	r.session.Samples = samples
	r.recount()
	r.focus = -1
	return append([]Status(nil), samples...), nil
}

// Classify applies the inclusive street and line ranges to one hole.
func Classify(ranges DistanceRanges, street, line float64) Status {
	streetOK := ranges.Street.Contains(street)
	lineOK := ranges.Line.Contains(line)
	switch {
	case streetOK && lineOK:
		return StatusOK
	case !streetOK && !lineOK:
		return StatusBothProblem
	case !streetOK:
		return StatusStreetProblem
	default:
		return StatusLineProblem
	}
}

func (r *Recorder) checkIndex(index int) error {
	if index < 0 || index >= r.session.TotalSamples || index >= len(r.session.Samples) {
		return fmt.Errorf("%w: %d not in [0, %d)", apperrors.ErrInvalidIndex, index, r.session.TotalSamples)
	}
	return nil
}

func (r *Recorder) recount() {
	n := 0
	for _, s := range r.session.Samples {
		if s != r.def.Unevaluated {
			n++
		}
	}
	r.evaluated = n
}

// firstUnevaluated returns the first unevaluated index strictly after from, or -1.
func (r *Recorder) firstUnevaluated(from int) int {
	for i := from + 1; i < len(r.session.Samples); i++ {
		if r.session.Samples[i] == r.def.Unevaluated {
			return i
		}
	}
	return -1
}
