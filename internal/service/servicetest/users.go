package servicetest

import (
	"context"
	"strings"
	"time"

	"github.com/iliyamo/wedding-marketplace/internal/model"
	"github.com/iliyamo/wedding-marketplace/internal/repository"
	"github.com/iliyamo/wedding-marketplace/internal/utils"
)

func (s *Store) Users() *Users   { return &Users{s} }
func (s *Store) Tokens() *Tokens { return &Tokens{s} }

// Users mirrors repository.UserRepo.
type Users struct{ s *Store }

func (u *Users) Create(_ context.Context, nu repository.NewUser, cost int) (uint64, error) {
	email := strings.ToLower(strings.TrimSpace(nu.Email))
	hash, err := utils.HashPassword(nu.Password, cost)
	if err != nil {
		return 0, err
	}
	u.s.mu.Lock()
	defer u.s.mu.Unlock()
	for _, existing := range u.s.users {
		if existing.Email == email {
			return 0, repository.ErrEmailExists
		}
	}
	now := u.s.tick()
	user := model.User{ID: u.s.id(), Name: strings.TrimSpace(nu.Name), Email: email, PasswordHash: hash,
		Role: nu.Role, Phone: nu.Phone, Location: nu.Location, CreatedAt: now, UpdatedAt: now}
	u.s.users = append(u.s.users, user)
	return user.ID, nil
}

func (u *Users) GetByEmail(_ context.Context, email string) (model.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	u.s.mu.Lock()
	defer u.s.mu.Unlock()
	for _, user := range u.s.users {
		if user.Email == email {
			return user, nil
		}
	}
	return model.User{}, repository.ErrNotFound
}

func (u *Users) GetByID(_ context.Context, id uint64) (model.User, error) {
	u.s.mu.Lock()
	defer u.s.mu.Unlock()
	for _, user := range u.s.users {
		if user.ID == id {
			return user, nil
		}
	}
	return model.User{}, repository.ErrNotFound
}

type refreshToken struct {
	userID  uint64
	exp     time.Time
	revoked bool
}

// Tokens mirrors repository.TokenRepo.  Expiry is checked against the
// wall clock, like the SQL version.
type Tokens struct{ s *Store }

func (t *Tokens) StoreRefresh(_ context.Context, userID uint64, hash string, exp time.Time) error {
	t.s.mu.Lock()
	defer t.s.mu.Unlock()
	if t.s.tokens == nil {
		t.s.tokens = map[string]*refreshToken{}
	}
	t.s.tokens[hash] = &refreshToken{userID: userID, exp: exp}
	return nil
}

func (t *Tokens) ValidateRefresh(_ context.Context, hash string) (uint64, error) {
	t.s.mu.Lock()
	defer t.s.mu.Unlock()
	tok, ok := t.s.tokens[hash]
	if !ok || tok.revoked || time.Now().After(tok.exp) {
		return 0, repository.ErrNotFound
	}
	return tok.userID, nil
}

func (t *Tokens) RevokeByHash(_ context.Context, hash string) error {
	t.s.mu.Lock()
	defer t.s.mu.Unlock()
	if tok, ok := t.s.tokens[hash]; ok {
		tok.revoked = true
	}
	return nil
}

func (t *Tokens) RevokeAllForUser(_ context.Context, userID uint64) error {
	t.s.mu.Lock()
	defer t.s.mu.Unlock()
	for _, tok := range t.s.tokens {
		if tok.userID == userID {
			tok.revoked = true
		}
	}
	return nil
}
