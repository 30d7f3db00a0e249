package dto

import (
	"time"

	evaldomain "fieldaudit/internal/modules/evaluation/domain"
)

type SaveInput struct {
	Session evaldomain.Session
}

type SaveOutput struct {
	ID      string
	SavedAt time.Time
}

type SummaryOutput struct {
	ID           string
	AreaCode     string
	Date         string
	Type         string
	TypeLabel    string
	Category     string
	SavedAt      time.Time
	TotalSamples int
	QualityRate  float64
	ProblemRate  float64
	Label        string
}

type DetailOutput struct {
	Summary SummaryOutput
	Session evaldomain.Session
}

type ListInput struct {
	Group string
}

type MonthOutput struct {
	Key         string
	Label       string
	Evaluations []SummaryOutput
}

// SessionsInput selects sessions for export. An empty Month means every month.
type SessionsInput struct {
	Group string
	Month string
}

type BackupOutput struct {
	Key       string
	CreatedAt time.Time
}
