package repository

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"policy-data/internal/domain"
)

// MemoryPoliciesRepo in-memory PoliciesRepo
// Joined name fields are resolved through the sibling memory repos, the same
// shape the Postgres implementation produces with LEFT JOINs.
type MemoryPoliciesRepo struct {
	mu       sync.Mutex
	policies map[string]*domain.Policy // policy_id -> Policy
	byNumber map[string]string         // policy_number -> policy_id
	order    []string

	users    *MemoryUsersRepo
	agents   *MemoryAgentsRepo
	accounts *MemoryAccountsRepo
	lobs     *MemoryLOBsRepo
	carriers *MemoryCarriersRepo
}

func NewMemoryPoliciesRepo(
	users *MemoryUsersRepo,
	agents *MemoryAgentsRepo,
	accounts *MemoryAccountsRepo,
	lobs *MemoryLOBsRepo,
	carriers *MemoryCarriersRepo,
) *MemoryPoliciesRepo {
	return &MemoryPoliciesRepo{
		policies: map[string]*domain.Policy{},
		byNumber: map[string]string{},
		users:    users,
		agents:   agents,
		accounts: accounts,
		lobs:     lobs,
		carriers: carriers,
	}
}

func (r *MemoryPoliciesRepo) Insert(_ context.Context, policy *domain.Policy) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byNumber[policy.PolicyNumber]; ok {
		return "", fmt.Errorf("%w: %s", ErrDuplicatePolicy, policy.PolicyNumber)
	}

	id := uuid.NewString()
	p := *policy
	p.PolicyID = id
	r.policies[id] = &p
	r.byNumber[policy.PolicyNumber] = id
	r.order = append(r.order, id)
	return id, nil
}

func (r *MemoryPoliciesRepo) ListByUser(_ context.Context, userID string) ([]*domain.Policy, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := []*domain.Policy{}
	for _, id := range r.order {
		p := r.policies[id]
		if p.UserID != userID {
			continue
		}
		out = append(out, r.withNames(p))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].PolicyNumber < out[j].PolicyNumber })
	return out, nil
}

func (r *MemoryPoliciesRepo) ListAll(_ context.Context) ([]*domain.Policy, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]*domain.Policy, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.withNames(r.policies[id]))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].PolicyNumber < out[j].PolicyNumber })
	return out, nil
}

func (r *MemoryPoliciesRepo) AggregateByUser(_ context.Context) ([]*domain.PolicyAggregate, error) {
	r.mu.Lock()
	counts := map[string]int{}
	for _, p := range r.policies {
		counts[p.UserID]++
	}
	r.mu.Unlock()

	out := make([]*domain.PolicyAggregate, 0, len(counts))
	for userID, n := range counts {
		a := &domain.PolicyAggregate{UserID: userID, TotalPolicies: n}
		if u, ok := r.users.Get(userID); ok {
			a.UserName = u.FirstName
			if u.Email.Valid {
				a.UserEmail = u.Email.String
			}
		}
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].TotalPolicies != out[j].TotalPolicies {
			return out[i].TotalPolicies > out[j].TotalPolicies
		}
		return out[i].UserName < out[j].UserName
	})
	return out, nil
}

// Count test helper
func (r *MemoryPoliciesRepo) Count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.policies)
}

func (r *MemoryPoliciesRepo) withNames(p *domain.Policy) *domain.Policy {
	copied := *p
	if name, ok := r.lobs.NameOf(p.PolicyCategoryID); ok {
		copied.CategoryName = sql.NullString{String: name, Valid: true}
	}
	if name, ok := r.carriers.NameOf(p.CompanyCollectionID); ok {
		copied.CompanyName = sql.NullString{String: name, Valid: true}
	}
	if name, ok := r.agents.NameOf(p.AgentID); ok {
		copied.AgentName = sql.NullString{String: name, Valid: true}
	}
	if a, ok := r.accounts.Get(p.AccountID); ok {
		copied.AccountName = sql.NullString{String: a.AccountName, Valid: true}
	}
	return &copied
}

// MemoryMessagesRepo in-memory MessagesRepo
type MemoryMessagesRepo struct {
	mu       sync.Mutex
	messages []*domain.ScheduledMessage
}

func NewMemoryMessagesRepo() *MemoryMessagesRepo {
	return &MemoryMessagesRepo{}
}

func (r *MemoryMessagesRepo) Insert(_ context.Context, msg *domain.ScheduledMessage) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	id := uuid.NewString()
	m := *msg
	m.MessageID = id
	if m.InsertedAt.IsZero() {
		m.InsertedAt = time.Now()
	}
	r.messages = append(r.messages, &m)
	return id, nil
}

// Messages test helper
func (r *MemoryMessagesRepo) Messages() []*domain.ScheduledMessage {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*domain.ScheduledMessage, len(r.messages))
	copy(out, r.messages)
	return out
}
