package fog

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
)

// ErrSizeMismatch is returned when a snapshot does not fit the tracker.
var ErrSizeMismatch = errors.New("fog snapshot size does not match level")

// Snapshot is the saved form of the explored grid. Explored is a row-major bitset,
// least significant bit first; encoding/json stores it as base64.
type Snapshot struct {
	Width    int    `json:"width"`
	Height   int    `json:"height"`
	Explored []byte `json:"explored"`
}

// Snapshot captures the explored flags. Visibility is transient and not saved.
func (t *Tracker) Snapshot() Snapshot {
	bits := make([]byte, (len(t.explored)+7)/8)
	for i, e := range t.explored {
		if e {
			bits[i/8] |= 1 << (i % 8)
		}
	}
	return Snapshot{Width: t.width, Height: t.height, Explored: bits}
}

// Restore replaces the explored flags with the snapshot's and clears visibility.
func (t *Tracker) Restore(s Snapshot) error {
	if s.Width != t.width || s.Height != t.height {
		return fmt.Errorf("%w: snapshot %dx%d, level %dx%d", ErrSizeMismatch, s.Width, s.Height, t.width, t.height)
	}
	if len(s.Explored) != (len(t.explored)+7)/8 {
		return fmt.Errorf("%w: %d bitset bytes for %d tiles", ErrSizeMismatch, len(s.Explored), len(t.explored))
	}
	for i := range t.explored {
		t.explored[i] = s.Explored[i/8]&(1<<(i%8)) != 0
	}
	clear(t.visible)
	return nil
}

// Save writes the explored grid to path as JSON.
func (t *Tracker) Save(path string) error {
	data, err := json.Marshal(t.Snapshot())
	if err != nil {
		return fmt.Errorf("failed to encode fog snapshot: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write fog snapshot %s: %w", path, err)
	}
	return nil
}

// Load reads an explored grid saved by Save.
func (t *Tracker) Load(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read fog snapshot %s: %w", path, err)
	}
	var s Snapshot
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("failed to parse fog snapshot %s: %w", path, err)
	}
	return t.Restore(s)
}
