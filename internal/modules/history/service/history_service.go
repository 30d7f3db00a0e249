package service

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"

	evaldomain "fieldaudit/internal/modules/evaluation/domain"
	"fieldaudit/internal/modules/history/domain"
	historyout "fieldaudit/internal/modules/history/port/out"
	"fieldaudit/internal/platform/clock"
	apperrors "fieldaudit/internal/platform/errors"
	"fieldaudit/internal/platform/id"
)

type HistoryService struct {
	clock    clock.Clock
	idGen    id.Generator
	backend  historyout.Backend
	registry evaldomain.Registry
	log      *zap.Logger
}

func NewHistoryService(clock clock.Clock, idGen id.Generator, backend historyout.Backend, registry evaldomain.Registry, log *zap.Logger) *HistoryService {
	if log == nil {
		log = zap.NewNop()
	}
	return &HistoryService{clock: clock, idGen: idGen, backend: backend, registry: registry, log: log.Named("history")}
}

// LoadAll returns every saved session. A blob that fails to decode is copied
// to a backup key, the primary key is cleared and an empty collection is
// returned. Read failures and a failed backup are returned as errors and the
// primary key is left untouched.
func (s *HistoryService) LoadAll(ctx context.Context) (domain.Collection, error) {
	blob, ok, err := s.backend.Get(ctx, domain.StorageKey)
	if err != nil {
		return nil, fmt.Errorf("read evaluations: %w", err)
	}
	if !ok {
		return domain.Collection{}, nil
	}
	collection, err := domain.DecodeCollection(blob)
	if err == nil {
		return collection, nil
	}

	backupKey := domain.BackupKey(s.clock.Now())
	s.log.Warn("stored evaluations are corrupt, moving them aside",
		zap.String("key", domain.StorageKey),
		zap.String("backup_key", backupKey),
		zap.Int("bytes", len(blob)),
		zap.Error(err),
	)
	if setErr := s.backend.Set(ctx, backupKey, blob); setErr != nil {
		s.log.Error("back up corrupt evaluations", zap.String("backup_key", backupKey), zap.Error(setErr))
		return nil, fmt.Errorf("%w: back up corrupt evaluations: %w", apperrors.ErrStorageWrite, setErr)
	}
	if rmErr := s.backend.Remove(ctx, domain.StorageKey); rmErr != nil {
		s.log.Error("clear corrupt evaluations", zap.String("key", domain.StorageKey), zap.Error(rmErr))
	}
	return domain.Collection{}, nil
}

// Save stamps an id and save time on a copy of session and stores it first
// in the collection. The caller's session is never modified.
func (s *HistoryService) Save(ctx context.Context, session evaldomain.Session) (evaldomain.Session, error) {
	if session.Saved() {
		return evaldomain.Session{}, fmt.Errorf("%w: %s", apperrors.ErrAlreadySaved, session.ID)
	}
	if err := s.checkSaveable(session); err != nil {
		return evaldomain.Session{}, err
	}
	collection, err := s.LoadAll(ctx)
	if err != nil {
		return evaldomain.Session{}, err
	}

	at := s.clock.Now()
	newID := s.idGen.New(at)
	for collection.Has(newID) {
		at = at.Add(time.Millisecond)
		newID = s.idGen.New(at)
	}
	stored := session.Clone()
	stored.ID = newID
	stored.SavedAt = at.UnixMilli()

	if err := s.persist(ctx, collection.Prepend(stored)); err != nil {
		return evaldomain.Session{}, err
	}
	s.log.Debug("evaluation saved", zap.String("id", stored.ID), zap.String("area", stored.AreaCode))
	return stored, nil
}

func (s *HistoryService) Get(ctx context.Context, id string) (evaldomain.Session, error) {
	collection, err := s.LoadAll(ctx)
	if err != nil {
		return evaldomain.Session{}, err
	}
	found, ok := collection.Find(strings.TrimSpace(id))
	if !ok {
		return evaldomain.Session{}, fmt.Errorf("%w: evaluation %s", apperrors.ErrNotFound, id)
	}
	return found, nil
}

// Delete removes id; an unknown id is not an error and writes nothing.
func (s *HistoryService) Delete(ctx context.Context, id string) error {
	collection, err := s.LoadAll(ctx)
	if err != nil {
		return err
	}
	rest, removed := collection.Without(strings.TrimSpace(id))
	if !removed {
		return nil
	}
	if err := s.persist(ctx, rest); err != nil {
		return err
	}
	s.log.Debug("evaluation deleted", zap.String("id", id))
	return nil
}

func (s *HistoryService) List(ctx context.Context, group evaldomain.Group) (domain.Collection, error) {
	if err := group.Validate(); err != nil {
		return nil, err
	}
	collection, err := s.LoadAll(ctx)
	if err != nil {
		return nil, err
	}
	return collection.Filter(group), nil
}

func (s *HistoryService) GroupedByMonth(ctx context.Context, group evaldomain.Group) (domain.MonthGroups, error) {
	if err := group.Validate(); err != nil {
		return nil, err
	}
	collection, err := s.LoadAll(ctx)
	if err != nil {
		return nil, err
	}
	return domain.GroupByMonth(collection, group), nil
}

func (s *HistoryService) Backups(ctx context.Context) ([]domain.Backup, error) {
	keys, err := s.backend.Keys(ctx, domain.BackupKeyPrefix)
	if err != nil {
		return nil, fmt.Errorf("list backups: %w", err)
	}
	out := make([]domain.Backup, 0, len(keys))
	for _, key := range keys {
		if b, ok := domain.ParseBackupKey(key); ok {
			out = append(out, b)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (s *HistoryService) Results(session evaldomain.Session) evaldomain.Results {
	return evaldomain.Aggregate(s.registry.Describe(session.Category), session)
}

func (s *HistoryService) checkSaveable(session evaldomain.Session) error {
	if err := session.Category.Validate(); err != nil {
		return err
	}
	if err := session.Type.Validate(); err != nil {
		return err
	}
	if len(session.Samples) != session.TotalSamples {
		return fmt.Errorf("%w: %d samples for a total of %d", apperrors.ErrInvalidInput, len(session.Samples), session.TotalSamples)
	}
	return nil
}

func (s *HistoryService) persist(ctx context.Context, collection domain.Collection) error {
	blob, err := collection.Encode()
	if err != nil {
		return err
	}
	if err := s.backend.Set(ctx, domain.StorageKey, blob); err != nil {
		s.log.Error("write evaluations", zap.String("key", domain.StorageKey), zap.Int("count", len(collection)), zap.Error(err))
		return fmt.Errorf("%w: %w", apperrors.ErrStorageWrite, err)
	}
	return nil
}
