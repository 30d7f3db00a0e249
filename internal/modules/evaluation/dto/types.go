package dto

import "time"

type TypeOutput struct {
	Type        string
	Label       string
	Category    string
	SampleTerm  string
	SampleCount int
}

type StartInput struct {
	Type     string
	AreaCode string
	Date     string
}

type ChoiceOutput struct {
	Status string
	Label  string
	Short  string
}

type SampleOutput struct {
	Index  int
	Status string
	Label  string
	Short  string
	Street *float64
	Line   *float64
}

type SessionOutput struct {
	AreaCode       string
	Date           string
	Type           string
	TypeLabel      string
	Category       string
	SampleTerm     string
	StartedAt      time.Time
	TotalSamples   int
	EvaluatedCount int
	Complete       bool
	Locked         bool
	// Pass and Unevaluated are the category's status tokens.
	Pass        string
	Unevaluated string
	Focus       int
	HasFocus    bool
	// MissingMeasurements is only meaningful for hole distance sessions.
	MissingMeasurements int
	Choices             []ChoiceOutput
	Samples             []SampleOutput
}

type MarkInput struct {
	Index  int
	Status string
}

type MeasureInput struct {
	Index int
	Field string
	Raw   string
}

type FocusInput struct {
	Index int
}

// ResultsInput selects a saved evaluation; an empty ID means the active one.
type ResultsInput struct {
	ID string
}

type ProblemOutput struct {
	Kind       string
	Label      string
	Count      int
	Percentage float64
}

type ResultsOutput struct {
	ID           string
	AreaCode     string
	Date         string
	TypeLabel    string
	Category     string
	SampleTerm   string
	TotalSamples int
	PassCount    int
	ProblemCount int
	QualityRate  float64
	ProblemRate  float64
	Label        string
	Breakdown    []ProblemOutput
}

type SaveOutput struct {
	ID      string
	SavedAt time.Time
}
