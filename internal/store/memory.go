package store

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/eodozzy/real-estate-investment-manager/internal/model"
)

// MemoryStore is an in-memory Store used for tests and diskless runs.
type MemoryStore struct {
	mu        sync.Mutex
	props     map[string]*model.Property
	comps     map[string][]*model.RentalComp
	snapshots map[string][]*model.AnalysisSnapshot
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		props:     make(map[string]*model.Property),
		comps:     make(map[string][]*model.RentalComp),
		snapshots: make(map[string][]*model.AnalysisSnapshot),
	}
}

func (s *MemoryStore) SaveProperty(p *model.Property) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	if p.CreatedAt.IsZero() {
		p.CreatedAt = now
	}
	p.UpdatedAt = now
	cp := *p
	s.props[p.ID] = &cp
	return nil
}

func (s *MemoryStore) GetProperty(id string) (*model.Property, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.props[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (s *MemoryStore) ListProperties(status model.PropertyStatus) ([]*model.Property, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var props []*model.Property
	for _, p := range s.props {
		if status != "" && p.Status != status {
			continue
		}
		cp := *p
		props = append(props, &cp)
	}
	sort.Slice(props, func(i, j int) bool { return props[i].CreatedAt.Before(props[j].CreatedAt) })
	return props, nil
}

func (s *MemoryStore) DeleteProperty(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.props[id]; !ok {
		return ErrNotFound
	}
	delete(s.props, id)
	delete(s.comps, id)
	delete(s.snapshots, id)
	return nil
}

func (s *MemoryStore) TransitionStatus(id string, next model.PropertyStatus) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.props[id]
	if !ok {
		return ErrNotFound
	}
	if !p.Status.CanTransitionTo(next) {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, p.Status, next)
	}
	p.Status = next
	p.UpdatedAt = time.Now()
	return nil
}

func (s *MemoryStore) AddComp(c *model.RentalComp) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if c.NotedAt.IsZero() {
		c.NotedAt = time.Now()
	}
	cp := *c
	s.comps[c.PropertyID] = append(s.comps[c.PropertyID], &cp)
	return nil
}

func (s *MemoryStore) ListComps(propertyID string) ([]*model.RentalComp, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	comps := make([]*model.RentalComp, 0, len(s.comps[propertyID]))
	for _, c := range s.comps[propertyID] {
		cp := *c
		comps = append(comps, &cp)
	}
	return comps, nil
}

func (s *MemoryStore) RecordAnalysis(snap *model.AnalysisSnapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if snap.ComputedAt.IsZero() {
		snap.ComputedAt = time.Now()
	}
	cp := *snap
	s.snapshots[snap.PropertyID] = append(s.snapshots[snap.PropertyID], &cp)
	return nil
}

func (s *MemoryStore) LatestAnalysis(propertyID string, year int) (*model.AnalysisSnapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var latest *model.AnalysisSnapshot
	for _, snap := range s.snapshots[propertyID] {
		if snap.AnalysisYear != year {
			continue
		}
		if latest == nil || snap.ComputedAt.After(latest.ComputedAt) {
			latest = snap
		}
	}
	if latest == nil {
		return nil, ErrNotFound
	}
	cp := *latest
	return &cp, nil
}

func (s *MemoryStore) Close() error { return nil }
