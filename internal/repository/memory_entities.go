package repository

import (
	"context"
	"sync"

	"github.com/google/uuid"
)

// Memory repos support the import pipeline and admin APIs when DB is
// disabled, and back the unit tests. Semantics mirror the Postgres
// implementations: upsert-by-natural-key never creates a second row for
// the same name.

// MemoryAgentsRepo in-memory AgentsRepo
type MemoryAgentsRepo struct {
	mu     sync.Mutex
	byName map[string]string // agent_name -> agent_id
}

func NewMemoryAgentsRepo() *MemoryAgentsRepo {
	return &MemoryAgentsRepo{byName: map[string]string{}}
}

func (r *MemoryAgentsRepo) UpsertByName(_ context.Context, agentName string) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if id, ok := r.byName[agentName]; ok {
		return id, nil
	}
	id := uuid.NewString()
	r.byName[agentName] = id
	return id, nil
}

// Count test helper
func (r *MemoryAgentsRepo) Count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.byName)
}

// NameOf reverse lookup for joined queries
func (r *MemoryAgentsRepo) NameOf(id string) (string, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for name, agentID := range r.byName {
		if agentID == id {
			return name, true
		}
	}
	return "", false
}

// MemoryLOBsRepo in-memory LOBsRepo
type MemoryLOBsRepo struct {
	mu     sync.Mutex
	byName map[string]string // category_name -> lob_id
}

func NewMemoryLOBsRepo() *MemoryLOBsRepo {
	return &MemoryLOBsRepo{byName: map[string]string{}}
}

func (r *MemoryLOBsRepo) UpsertByName(_ context.Context, categoryName string) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if id, ok := r.byName[categoryName]; ok {
		return id, nil
	}
	id := uuid.NewString()
	r.byName[categoryName] = id
	return id, nil
}

func (r *MemoryLOBsRepo) Count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.byName)
}

func (r *MemoryLOBsRepo) NameOf(id string) (string, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for name, lobID := range r.byName {
		if lobID == id {
			return name, true
		}
	}
	return "", false
}

// MemoryCarriersRepo in-memory CarriersRepo
type MemoryCarriersRepo struct {
	mu     sync.Mutex
	byName map[string]string // company_name -> carrier_id
}

func NewMemoryCarriersRepo() *MemoryCarriersRepo {
	return &MemoryCarriersRepo{byName: map[string]string{}}
}

func (r *MemoryCarriersRepo) UpsertByName(_ context.Context, companyName string) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if id, ok := r.byName[companyName]; ok {
		return id, nil
	}
	id := uuid.NewString()
	r.byName[companyName] = id
	return id, nil
}

func (r *MemoryCarriersRepo) Count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.byName)
}

func (r *MemoryCarriersRepo) NameOf(id string) (string, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for name, carrierID := range r.byName {
		if carrierID == id {
			return name, true
		}
	}
	return "", false
}
