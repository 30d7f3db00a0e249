package domain

import "time"

// ActiveEvaluation is the single in-flight session kept between invocations.
// Focus is -1 when every sample is evaluated.
type ActiveEvaluation struct {
	Version   int       `json:"schema_version"`
	StartedAt time.Time `json:"started_at"`
	Locked    bool      `json:"locked"`
	Focus     int       `json:"focus"`
	Session   Session   `json:"session"`
}

func NewActiveEvaluation(def Definition, session Session, startedAt time.Time) ActiveEvaluation {
	active := ActiveEvaluation{Version: SchemaVersion, StartedAt: startedAt, Session: session, Focus: -1}
	for i, s := range session.Samples {
		if def.IsUnevaluated(s) {
			active.Focus = i
			break
		}
	}
	return active
}

// Recorder rebuilds a recorder over the active session, restoring the saved focus.
func (a *ActiveEvaluation) Recorder(def Definition) *Recorder {
	rec := NewRecorder(def, &a.Session)
	if a.Focus >= 0 {
		_ = rec.Select(a.Focus)
	}
	return rec
}

// Sync copies the recorder's focus back for persistence.
func (a *ActiveEvaluation) Sync(rec *Recorder) {
	if focus, ok := rec.Focus(); ok {
		a.Focus = focus
		return
	}
	a.Focus = -1
}
