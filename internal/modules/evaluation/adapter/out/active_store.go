package out

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"fieldaudit/internal/modules/evaluation/domain"
	evalout "fieldaudit/internal/modules/evaluation/port/out"
	apperrors "fieldaudit/internal/platform/errors"
)

// FileActiveStore keeps the in-flight evaluation as one JSON document.
type FileActiveStore struct {
	path string
}

func NewFileActiveStore(path string) evalout.ActiveStore {
	return &FileActiveStore{path: path}
}

func (s *FileActiveStore) SaveActive(_ context.Context, active domain.ActiveEvaluation) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("create active evaluation dir: %w", err)
	}
	payload, err := json.MarshalIndent(active, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal active evaluation: %w", err)
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, payload, 0o644); err != nil {
		return fmt.Errorf("write active evaluation: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("replace active evaluation: %w", err)
	}
	return nil
}

func (s *FileActiveStore) LoadActive(_ context.Context) (domain.ActiveEvaluation, error) {
	payload, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return domain.ActiveEvaluation{}, apperrors.ErrNoActiveSession
		}
		return domain.ActiveEvaluation{}, fmt.Errorf("read active evaluation: %w", err)
	}
	active := domain.ActiveEvaluation{}
	if err := json.Unmarshal(payload, &active); err != nil {
		return domain.ActiveEvaluation{}, fmt.Errorf("decode active evaluation: %w", err)
	}
	if active.Session.Category == "" {
		return domain.ActiveEvaluation{}, apperrors.ErrNoActiveSession
	}
	if len(active.Session.Samples) != active.Session.TotalSamples {
		return domain.ActiveEvaluation{}, fmt.Errorf("%w: active evaluation has %d samples for a total of %d", apperrors.ErrStorageCorrupt, len(active.Session.Samples), active.Session.TotalSamples)
	}
	return active, nil
}

func (s *FileActiveStore) ClearActive(_ context.Context) error {
	if err := os.Remove(s.path); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("clear active evaluation: %w", err)
	}
	return nil
}
