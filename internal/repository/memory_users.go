package repository

import (
	"context"
	"strings"
	"sync"

	"github.com/google/uuid"

	"policy-data/internal/domain"
)

// MemoryUsersRepo in-memory UsersRepo
type MemoryUsersRepo struct {
	mu      sync.Mutex
	users   map[string]*domain.User // user_id -> User
	byEmail map[string]string       // email -> user_id
	order   []string                // insertion order, keeps FindByFirstName deterministic
}

func NewMemoryUsersRepo() *MemoryUsersRepo {
	return &MemoryUsersRepo{
		users:   map[string]*domain.User{},
		byEmail: map[string]string{},
	}
}

func (r *MemoryUsersRepo) UpsertByEmail(_ context.Context, user *domain.User) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	email := user.Email.String
	if id, ok := r.byEmail[email]; ok {
		// Full overwrite: the last row for a given email wins.
		u := *user
		u.UserID = id
		r.users[id] = &u
		return id, nil
	}

	id := uuid.NewString()
	u := *user
	u.UserID = id
	r.users[id] = &u
	r.byEmail[email] = id
	r.order = append(r.order, id)
	return id, nil
}

func (r *MemoryUsersRepo) Insert(_ context.Context, user *domain.User) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	id := uuid.NewString()
	u := *user
	u.UserID = id
	r.users[id] = &u
	r.order = append(r.order, id)
	return id, nil
}

func (r *MemoryUsersRepo) FindByFirstName(_ context.Context, firstName string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	needle := strings.ToLower(firstName)
	for _, id := range r.order {
		u := r.users[id]
		if strings.Contains(strings.ToLower(u.FirstName), needle) {
			copied := *u
			return &copied, nil
		}
	}
	return nil, ErrUserNotFound
}

// Get test helper
func (r *MemoryUsersRepo) Get(id string) (*domain.User, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, false
	}
	copied := *u
	return &copied, true
}

// Count test helper
func (r *MemoryUsersRepo) Count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.users)
}

// MemoryAccountsRepo in-memory AccountsRepo
type MemoryAccountsRepo struct {
	mu       sync.Mutex
	accounts map[string]*domain.Account // account_id -> Account
	byName   map[string]string          // account_name -> account_id
}

func NewMemoryAccountsRepo() *MemoryAccountsRepo {
	return &MemoryAccountsRepo{
		accounts: map[string]*domain.Account{},
		byName:   map[string]string{},
	}
}

func (r *MemoryAccountsRepo) UpsertByName(_ context.Context, accountName, userID string) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if id, ok := r.byName[accountName]; ok {
		// Owning user follows the last occurrence of the account name.
		r.accounts[id].UserID = userID
		return id, nil
	}

	id := uuid.NewString()
	r.accounts[id] = &domain.Account{AccountID: id, AccountName: accountName, UserID: userID}
	r.byName[accountName] = id
	return id, nil
}

// Get test helper
func (r *MemoryAccountsRepo) Get(id string) (*domain.Account, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.accounts[id]
	if !ok {
		return nil, false
	}
	copied := *a
	return &copied, true
}

// Count test helper
func (r *MemoryAccountsRepo) Count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.accounts)
}
