package personality

import (
	"fmt"
	"sync"
)

const (
	minSquadSize = 2
	maxSquadSize = 3
)

// Registry is an in-memory index of personalities and squads, keyed by id.
// Safe for concurrent use.
type Registry struct {
	mu     sync.RWMutex
	byID   map[string]Personality
	squads map[string]Squad
}

func NewRegistry(personalities []Personality) *Registry {
	r := &Registry{
		byID:   make(map[string]Personality, len(personalities)),
		squads: make(map[string]Squad),
	}
	for _, p := range personalities {
		r.byID[p.ID] = p
	}
	return r
}

func (r *Registry) Lookup(id string) (Personality, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.byID[id]
	return p, ok
}

func (r *Registry) LookupSquad(id string) (Squad, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.squads[id]
	return s, ok
}

func (r *Registry) All() []Personality {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Personality, 0, len(r.byID))
	for _, p := range r.byID {
		out = append(out, p)
	}
	return out
}

// AddSquad registers a squad of 2-3 known personalities.
func (r *Registry) AddSquad(id, name string, memberIDs []string) (Squad, error) {
	if len(memberIDs) < minSquadSize || len(memberIDs) > maxSquadSize {
		return Squad{}, fmt.Errorf("squad needs %d-%d members, got %d", minSquadSize, maxSquadSize, len(memberIDs))
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	members := make([]Personality, 0, len(memberIDs))
	for _, mid := range memberIDs {
		p, ok := r.byID[mid]
		if !ok {
			return Squad{}, fmt.Errorf("unknown personality %q", mid)
		}
		members = append(members, p)
	}
	s := Squad{ID: id, Name: name, Members: members}
	r.squads[id] = s
	return s, nil
}
