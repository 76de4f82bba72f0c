package model

import "sync"

// State is the live, process-wide mirror of a GameSave. The reconciler
// replaces it wholesale on load and snapshots it on save; gameplay code
// mutates individual fields in between. The zero value is an empty game.
type State struct {
	mu   sync.RWMutex
	save GameSave
}

// NewState creates a State with zero counters and empty collections
func NewState() *State {
	return &State{save: NewGameSave()}
}

// Snapshot returns a deep copy of the current state
func (s *State) Snapshot() GameSave {
	s.mu.RLock()
	defer s.mu.RUnlock()
	snap := s.save.Clone()
	snap.LastSaved = nil
	return snap
}

// Replace overwrites every field from save, defaulting absent values
func (s *State) Replace(save GameSave) {
	next := save.Clone().Normalized()
	next.LastSaved = nil

	s.mu.Lock()
	s.save = next
	s.mu.Unlock()
}

// Potatoes returns the spendable currency
func (s *State) Potatoes() float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.save.Potatoes
}

// AllTimePotatoes returns the lifetime counter
func (s *State) AllTimePotatoes() float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.save.AllTimePotatoes
}

// Harvest adds n potatoes to both the spendable and the lifetime counters.
// Non-positive amounts are ignored.
func (s *State) Harvest(n float64) {
	if nonNegative(n) == 0 {
		return
	}
	s.mu.Lock()
	s.save.Potatoes += n
	s.save.AllTimePotatoes += n
	s.mu.Unlock()
}

// Spend removes n spendable potatoes. It reports false, leaving state
// untouched, when the balance is insufficient.
func (s *State) Spend(n float64) bool {
	if nonNegative(n) == 0 {
		return n == 0
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.save.Potatoes < n {
		return false
	}
	s.save.Potatoes -= n
	return true
}

// SetBuilding records the state of one building
func (s *State) SetBuilding(id string, value any) {
	s.set(&s.save.Buildings, id, value)
}

// SetUpgrade records the state of one upgrade
func (s *State) SetUpgrade(id string, value any) {
	s.set(&s.save.Upgrades, id, value)
}

// SetSkin records the state of one skin
func (s *State) SetSkin(id string, value any) {
	s.set(&s.save.Skins, id, value)
}

// set writes one collection entry, creating the collection on a zero State
func (s *State) set(c *Collection, id string, value any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if *c == nil {
		*c = Collection{}
	}
	(*c)[id] = value
}
