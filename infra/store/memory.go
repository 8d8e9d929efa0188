// Package store provides the repository backends: an in-memory store
// for tests and single-process use, and a SQLite store for durable
// planning data.
package store

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/citadelmro/capplan/core/model"
	"github.com/citadelmro/capplan/core/repository"
)

// MemoryStore keeps datasets in process memory. All methods return
// copies so callers can hold snapshots across recomputations.
type MemoryStore struct {
	mu       sync.RWMutex
	datasets map[model.Category][]model.Project
	depts    []model.Department
}

// NewMemoryStore returns an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{datasets: make(map[model.Category][]model.Project)}
}

// ListProjects implements repository.Repository.
func (s *MemoryStore) ListProjects(_ context.Context, category model.Category) ([]model.Project, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return copyProjects(s.datasets[category]), nil
}

// ListDepartments implements repository.Repository.
func (s *MemoryStore) ListDepartments(_ context.Context) ([]model.Department, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]model.Department(nil), s.depts...), nil
}

// UpsertProject inserts or replaces the project keyed by number within
// its category.
func (s *MemoryStore) UpsertProject(_ context.Context, p model.Project) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	p.Hours = copyHours(p.Hours)
	s.mu.Lock()
	defer s.mu.Unlock()
	set := s.datasets[p.Category]
	for i, existing := range set {
		if existing.Number == p.Number && p.Number != "" {
			set[i] = p
			return nil
		}
	}
	s.datasets[p.Category] = append(set, p)
	return nil
}

// DeleteProject removes the project with the given number.
func (s *MemoryStore) DeleteProject(_ context.Context, category model.Category, number string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	set := s.datasets[category]
	for i, p := range set {
		if p.Number == number {
			s.datasets[category] = append(set[:i], set[i+1:]...)
			return nil
		}
	}
	return repository.ErrNotFound
}

// ReplaceDataset swaps an entire category.
func (s *MemoryStore) ReplaceDataset(_ context.Context, category model.Category, projects []model.Project) error {
	cp := copyProjects(projects)
	for i := range cp {
		if cp[i].ID == "" {
			cp[i].ID = uuid.NewString()
		}
		cp[i].Category = category
	}
	s.mu.Lock()
	s.datasets[category] = cp
	s.mu.Unlock()
	return nil
}

// SaveDepartments replaces the department set.
func (s *MemoryStore) SaveDepartments(_ context.Context, depts []model.Department) error {
	s.mu.Lock()
	s.depts = append([]model.Department(nil), depts...)
	s.mu.Unlock()
	return nil
}

// Close implements repository.Repository.
func (s *MemoryStore) Close() error { return nil }

func copyProjects(in []model.Project) []model.Project {
	out := make([]model.Project, len(in))
	for i, p := range in {
		p.Hours = copyHours(p.Hours)
		out[i] = p
	}
	return out
}

func copyHours(in map[string]float64) map[string]float64 {
	out := make(map[string]float64, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}
