// Package localstate keeps the portfolio label, profit goal and trade ledger
// in a YAML file on the local machine.
package localstate

import (
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"livetrack/internal/app/port"
	"livetrack/internal/domain/entity"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"
)

// DefaultProfitGoal is used until the user sets a goal.
const DefaultProfitGoal = 1000

// FileStore is a port.LocalStateStore backed by a single YAML file. Every
// mutation rewrites the whole file.
type FileStore struct {
	path        string
	defaultGoal float64
	logger      port.Logger

	mu    sync.Mutex
	state entity.LocalState
}

var _ port.LocalStateStore = (*FileStore)(nil)

// NewFileStore opens the state file at path. A missing file is not an error;
// the store starts empty and creates the file on the first write.
func NewFileStore(path string, defaultGoal float64, l port.Logger) (*FileStore, error) {
	if !validGoal(defaultGoal) {
		defaultGoal = DefaultProfitGoal
	}
	s := &FileStore{
		path:        path,
		defaultGoal: defaultGoal,
		logger:      l.With("component", "LocalStateStore", "path", path),
		state:       entity.LocalState{ProfitGoal: defaultGoal},
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		s.logger.Info("Local state file not found, starting empty")
		return s, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read local state %s: %w", path, err)
	}

	var st entity.LocalState
	if err := yaml.Unmarshal(data, &st); err != nil {
		return nil, fmt.Errorf("failed to parse local state %s: %w", path, err)
	}
	if !validGoal(st.ProfitGoal) {
		st.ProfitGoal = defaultGoal
	}
	s.state = st
	s.logger.Info("Local state loaded", "ledgerEntries", len(st.Ledger))
	return s, nil
}

// Load returns a copy of the current state.
func (s *FileStore) Load() (entity.LocalState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return cloneState(s.state), nil
}

// SetLabel renames the portfolio.
func (s *FileStore) SetLabel(label string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	next := cloneState(s.state)
	next.Label = strings.TrimSpace(label)
	return s.commitLocked(next)
}

// SetProfitGoal stores a new goal. It must be finite and positive.
func (s *FileStore) SetProfitGoal(goal float64) error {
	if !validGoal(goal) {
		return fmt.Errorf("%w: %v", entity.ErrInvalidGoal, goal)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	next := cloneState(s.state)
	next.ProfitGoal = goal
	return s.commitLocked(next)
}

// AddTrade appends a ledger row and returns it with its new id.
func (s *FileStore) AddTrade(entry entity.TradeEntry) (entity.TradeEntry, error) {
	entry.ID = uuid.NewString()
	s.mu.Lock()
	defer s.mu.Unlock()
	next := cloneState(s.state)
	next.Ledger = append(next.Ledger, entry)
	if err := s.commitLocked(next); err != nil {
		return entity.TradeEntry{}, err
	}
	return entry, nil
}

// DeleteTrade removes a ledger row.
func (s *FileStore) DeleteTrade(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	next := cloneState(s.state)
	for i, e := range next.Ledger {
		if e.ID == id {
			next.Ledger = append(next.Ledger[:i], next.Ledger[i+1:]...)
			return s.commitLocked(next)
		}
	}
	return fmt.Errorf("%w: %s", entity.ErrLedgerEntryNotFound, id)
}

// commitLocked writes next to disk and only then makes it current.
func (s *FileStore) commitLocked(next entity.LocalState) error {
	data, err := yaml.Marshal(next)
	if err != nil {
		return fmt.Errorf("failed to encode local state: %w", err)
	}
	if dir := filepath.Dir(s.path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create local state dir: %w", err)
		}
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.path), ".state-*.yml")
	if err != nil {
		return fmt.Errorf("failed to create temp state file: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("failed to write local state: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to write local state: %w", err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to replace local state: %w", err)
	}

	s.state = next
	s.logger.Debug("Local state saved", "ledgerEntries", len(next.Ledger))
	return nil
}

func cloneState(st entity.LocalState) entity.LocalState {
	st.Ledger = append([]entity.TradeEntry(nil), st.Ledger...)
	return st
}

func validGoal(g float64) bool {
	return g > 0 && !math.IsInf(g, 0) && !math.IsNaN(g)
}
