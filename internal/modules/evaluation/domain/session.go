package domain

import (
	"strings"
	"time"
)

const SchemaVersion = 1

// Measurement is one hole's spacing; either side may still be missing.
type Measurement struct {
	Street *float64 `json:"street,omitempty"`
	Line   *float64 `json:"line,omitempty"`
}

func (m Measurement) Complete() bool {
	return m.Street != nil && m.Line != nil
}

// Session is one evaluation run over an area. ID and SavedAt stay empty until
// the history store saves it; SavedAt is unix milliseconds.
type Session struct {
	ID           string         `json:"id,omitempty"`
	SavedAt      int64          `json:"savedAt,omitempty"`
	AreaCode     string         `json:"areaCode"`
	Date         string         `json:"date"`
	Type         EvaluationType `json:"type"`
	Category     Category       `json:"category"`
	TotalSamples int            `json:"totalSamples"`
	Samples      []Status       `json:"samples"`
	Measurements []Measurement  `json:"measurements,omitempty"`
}

func (s Session) Saved() bool {
	return strings.TrimSpace(s.ID) != ""
}

func (s Session) SavedTime() time.Time {
	if s.SavedAt == 0 {
		return time.Time{}
	}
	return time.UnixMilli(s.SavedAt)
}

// Clone deep-copies the sample and measurement slices.
func (s Session) Clone() Session {
	out := s
	out.Samples = append([]Status(nil), s.Samples...)
	if s.Measurements != nil {
		out.Measurements = make([]Measurement, len(s.Measurements))
		for i, m := range s.Measurements {
			out.Measurements[i] = Measurement{Street: copyFloat(m.Street), Line: copyFloat(m.Line)}
		}
	}
	return out
}

func copyFloat(v *float64) *float64 {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}

// NewSession builds an unsaved session with every sample unevaluated.
// areaCode and date are validated by the caller.
func NewSession(def Definition, evalType EvaluationType, areaCode, date string) Session {
	samples := make([]Status, def.SampleCount)
	for i := range samples {
		samples[i] = def.Unevaluated
	}
	session := Session{
		AreaCode:     areaCode,
		Date:         date,
		Type:         evalType,
		Category:     def.Category,
		TotalSamples: def.SampleCount,
		Samples:      samples,
	}
	if def.Distance != nil {
		session.Measurements = make([]Measurement, def.SampleCount)
	}
	return session
}
