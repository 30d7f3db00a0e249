package id

import (
	"strconv"
	"time"
)

// Generator derives opaque identifiers from the save instant.
type Generator interface {
	New(at time.Time) string
}

// Millis renders ids as <prefix><unix millis>.
type Millis struct {
	Prefix string
}

func (g Millis) New(at time.Time) string {
	return g.Prefix + strconv.FormatInt(at.UnixMilli(), 10)
}
