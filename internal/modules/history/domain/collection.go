package domain

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	evaldomain "fieldaudit/internal/modules/evaluation/domain"
	apperrors "fieldaudit/internal/platform/errors"
)

const (
	StorageKey      = "evaluations"
	BackupKeyPrefix = StorageKey + "_corrupt_"
	IDPrefix        = "eval_"
)

// Collection is every saved session, newest save first.
type Collection []evaldomain.Session

// DecodeCollection parses the stored blob. An empty blob is an empty collection.
func DecodeCollection(blob string) (Collection, error) {
	if strings.TrimSpace(blob) == "" {
		return Collection{}, nil
	}
	var out Collection
	if err := json.Unmarshal([]byte(blob), &out); err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrStorageCorrupt, err)
	}
	if out == nil {
		out = Collection{}
	}
	return out, nil
}

func (c Collection) Encode() (string, error) {
	if c == nil {
		c = Collection{}
	}
	payload, err := json.Marshal(c)
	if err != nil {
		return "", fmt.Errorf("encode evaluations: %w", err)
	}
	return string(payload), nil
}

func (c Collection) Find(id string) (evaldomain.Session, bool) {
	for _, s := range c {
		if s.ID == id {
			return s, true
		}
	}
	return evaldomain.Session{}, false
}

func (c Collection) Has(id string) bool {
	_, ok := c.Find(id)
	return ok
}

func (c Collection) Prepend(s evaldomain.Session) Collection {
	out := make(Collection, 0, len(c)+1)
	out = append(out, s)
	return append(out, c...)
}

// Without drops every session with id; removed reports whether any matched.
func (c Collection) Without(id string) (Collection, bool) {
	out := make(Collection, 0, len(c))
	removed := false
	for _, s := range c {
		if s.ID == id {
			removed = true
			continue
		}
		out = append(out, s)
	}
	return out, removed
}

func (c Collection) Filter(group evaldomain.Group) Collection {
	out := make(Collection, 0, len(c))
	for _, s := range c {
		if group.Includes(s.Category) {
			out = append(out, s)
		}
	}
	return out
}

// Backup is a copy of a blob that failed to decode.
type Backup struct {
	Key       string
	CreatedAt time.Time
}

func BackupKey(at time.Time) string {
	return BackupKeyPrefix + strconv.FormatInt(at.UnixMilli(), 10)
}

func ParseBackupKey(key string) (Backup, bool) {
	raw, ok := strings.CutPrefix(key, BackupKeyPrefix)
	if !ok {
		return Backup{}, false
	}
	ms, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return Backup{Key: key}, true
	}
	return Backup{Key: key, CreatedAt: time.UnixMilli(ms)}, true
}
