package engine

import (
	crand "crypto/rand"
	"encoding/binary"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// record appends an entry to the cumulative history
func (e *GameEngine) record(entry HistoryEntry) {
	entry.ID = uuid.NewString()
	entry.Number = len(e.history) + 1
	entry.Status = e.status
	entry.Timestamp = time.Now()
	e.history = append(e.history, entry)
}

// NewSeed generates a random seed using crypto/rand.
func NewSeed() (int64, error) {
	var b [8]byte
	if _, err := crand.Read(b[:]); err != nil {
		return 0, fmt.Errorf("read random seed: %w", err)
	}
	return int64(binary.LittleEndian.Uint64(b[:])), nil
}
