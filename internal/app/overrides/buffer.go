// Package overrides holds in-progress quantity edits keyed by holding id.
package overrides

import (
	"fmt"
	"math"
	"strings"
	"sync"

	"livetrack/internal/app/valuation"
	"livetrack/internal/domain/entity"
)

// Buffer mirrors what the user is typing for each holding's amount. It is
// reset from the committed amounts whenever the holdings list changes, and
// updated directly on every keystroke.
type Buffer struct {
	mu     sync.RWMutex
	inputs map[string]string
}

// NewBuffer returns an empty buffer.
func NewBuffer() *Buffer {
	return &Buffer{inputs: make(map[string]string)}
}

// Reconcile discards all edits and mirrors the committed amounts.
func (b *Buffer) Reconcile(holdings []entity.Holding) {
	next := make(map[string]string, len(holdings))
	for _, h := range holdings {
		next[h.ID] = valuation.CanonicalAmount(h.Amount)
	}
	b.mu.Lock()
	b.inputs = next
	b.mu.Unlock()
}

// Set records the raw input for a holding exactly as typed.
func (b *Buffer) Set(holdingID, raw string) {
	b.mu.Lock()
	b.inputs[holdingID] = raw
	b.mu.Unlock()
}

// Get returns the raw input for a holding.
func (b *Buffer) Get(holdingID string) (string, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	raw, ok := b.inputs[holdingID]
	return raw, ok
}

// Delete forgets the input for a holding.
func (b *Buffer) Delete(holdingID string) {
	b.mu.Lock()
	delete(b.inputs, holdingID)
	b.mu.Unlock()
}

// Snapshot returns a copy of the buffer suitable for a valuation.
func (b *Buffer) Snapshot() map[string]string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	out := make(map[string]string, len(b.inputs))
	for id, raw := range b.inputs {
		out[id] = raw
	}
	return out
}

// Commit validates the buffered input for a holding and returns the amount to
// persist. Unlike valuation, which tolerates anything, a commit rejects
// input that is empty, not a number or negative.
func (b *Buffer) Commit(holdingID string) (float64, error) {
	raw, ok := b.Get(holdingID)
	if !ok {
		return 0, fmt.Errorf("%w: no input for holding %s", entity.ErrInvalidAmount, holdingID)
	}
	return ValidateAmount(raw)
}

// ValidateAmount parses a raw amount strictly enough to be persisted.
func ValidateAmount(raw string) (float64, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return 0, fmt.Errorf("%w: empty input", entity.ErrInvalidAmount)
	}
	v := valuation.ParseAmount(trimmed)
	if v == 0 && !looksLikeZero(trimmed) {
		return 0, fmt.Errorf("%w: %q is not a number", entity.ErrInvalidAmount, raw)
	}
	if v < 0 || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("%w: %q must not be negative", entity.ErrInvalidAmount, raw)
	}
	return v, nil
}

func looksLikeZero(s string) bool {
	s = strings.Replace(s, ",", ".", 1)
	s = strings.TrimLeft(s, "+-")
	if s == "" {
		return false
	}
	seenDigit := false
	for i := 0; i < len(s); i++ {
		switch c := s[i]; {
		case c == '0':
			seenDigit = true
		case c == '.':
		default:
			return false
		}
	}
	return seenDigit
}
