package users

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"DemoShop/internal/apperr"
	"DemoShop/internal/memstore"
)

// MemStore keeps users in a sharded map. Usernames and emails are guarded
// by unique indexes that are claimed before a record is written, so two
// concurrent writers can never both take the same value.
type MemStore struct {
	users      *memstore.Map[User]
	byUsername *memstore.UniqueIndex
	byEmail    *memstore.UniqueIndex

	hashCost int
	now      func() time.Time
	newID    func() string
}

type Option func(*MemStore)

func WithHashCost(cost int) Option {
	return func(s *MemStore) { s.hashCost = cost }
}

func WithClock(now func() time.Time) Option {
	return func(s *MemStore) { s.now = now }
}

func NewMemStore(opts ...Option) *MemStore {
	s := &MemStore{
		users:      memstore.NewMap[User](),
		byUsername: memstore.NewUniqueIndex(),
		byEmail:    memstore.NewUniqueIndex(),
		hashCost:   bcrypt.DefaultCost,
		now:        func() time.Time { return time.Now().UTC() },
		newID:      func() string { return "u_" + uuid.NewString() },
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

func (s *MemStore) Ping(ctx context.Context) error { return nil }

func (s *MemStore) Count() int { return s.users.Len() }

func (s *MemStore) List(ctx context.Context) ([]User, error) {
	out := make([]User, 0, s.users.Len())
	for _, u := range s.users.All() {
		out = append(out, u.clone())
	}
	return out, nil
}

func (s *MemStore) Get(ctx context.Context, id string) (User, bool, error) {
	u, ok := s.users.Get(id)
	if !ok {
		return User{}, false, nil
	}
	return u.clone(), true, nil
}

func (s *MemStore) GetByUsername(ctx context.Context, username string) (User, bool, error) {
	return s.findFirst(func(u User) bool { return u.Username == username })
}

func (s *MemStore) GetByEmail(ctx context.Context, email string) (User, bool, error) {
	return s.findFirst(func(u User) bool { return u.Email == email })
}

func (s *MemStore) findFirst(match func(User) bool) (User, bool, error) {
	for _, u := range s.users.All() {
		if match(u) {
			return u.clone(), true, nil
		}
	}
	return User{}, false, nil
}

func (s *MemStore) Authenticate(ctx context.Context, username, password string) (User, bool, error) {
	u, ok, _ := s.findFirst(func(u User) bool { return u.Username == username })
	if !ok {
		return User{}, false, nil
	}

	err := bcrypt.CompareHashAndPassword(u.PasswordHash, []byte(password))
	switch {
	case err == nil:
		return u, true, nil
	case errors.Is(err, bcrypt.ErrMismatchedHashAndPassword):
		return User{}, false, nil
	default:
		return User{}, false, fmt.Errorf("authenticate %q: %w", username, err)
	}
}

func (s *MemStore) Create(ctx context.Context, d Draft) (User, error) {
	if d.Role == "" {
		d.Role = RoleUser
	}
	if err := validateDraft(d, true); err != nil {
		return User{}, err
	}

	hash, err := s.hash(d.Password)
	if err != nil {
		return User{}, err
	}

	id := s.newID()
	if ok, _ := s.byUsername.Reserve(d.Username, id); !ok {
		return User{}, apperr.Conflict(entity, "username")
	}
	if ok, _ := s.byEmail.Reserve(d.Email, id); !ok {
		s.byUsername.Release(d.Username, id)
		return User{}, apperr.Conflict(entity, "email")
	}

	now := s.now()
	u := User{
		ID:           id,
		Username:     d.Username,
		Email:        d.Email,
		PasswordHash: hash,
		FirstName:    d.FirstName,
		LastName:     d.LastName,
		Role:         d.Role,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if !s.users.PutIfAbsent(id, u) {
		s.byUsername.Release(d.Username, id)
		s.byEmail.Release(d.Email, id)
		return User{}, fmt.Errorf("create user: id %q already in use", id)
	}
	return u.clone(), nil
}

// Update replaces username, email and names. The password changes only if
// d.Password is non-empty; the role never changes.
func (s *MemStore) Update(ctx context.Context, id string, d Draft) (User, error) {
	if err := validateDraft(d, false); err != nil {
		return User{}, err
	}
	if _, ok := s.users.Get(id); !ok {
		return User{}, apperr.NotFound(entity)
	}

	var hash []byte
	if d.Password != "" {
		h, err := s.hash(d.Password)
		if err != nil {
			return User{}, err
		}
		hash = h
	}

	// Index claims and releases happen under the record's shard lock.
	u, found, err := s.users.Update(id, func(cur User) (User, error) {
		okName, freshName := s.byUsername.Reserve(d.Username, id)
		if !okName {
			return cur, apperr.Conflict(entity, "username")
		}
		okEmail, _ := s.byEmail.Reserve(d.Email, id)
		if !okEmail {
			if freshName {
				s.byUsername.Release(d.Username, id)
			}
			return cur, apperr.Conflict(entity, "email")
		}

		prevName, prevEmail := cur.Username, cur.Email
		cur.Username = d.Username
		cur.Email = d.Email
		cur.FirstName = d.FirstName
		cur.LastName = d.LastName
		if hash != nil {
			cur.PasswordHash = hash
		}
		cur.UpdatedAt = s.now()

		if prevName != cur.Username {
			s.byUsername.Release(prevName, id)
		}
		if prevEmail != cur.Email {
			s.byEmail.Release(prevEmail, id)
		}
		return cur, nil
	})
	if err != nil {
		return User{}, err
	}
	if !found {
		return User{}, apperr.NotFound(entity)
	}
	return u.clone(), nil
}

// Delete removes the user for good. ADMIN users cannot be deleted.
func (s *MemStore) Delete(ctx context.Context, id string) error {
	u, found, err := s.users.Delete(id, func(u User) error {
		if u.Role == RoleAdmin {
			return apperr.Forbidden(entity, "Cannot delete admin user")
		}
		return nil
	})
	if err != nil {
		return err
	}
	if !found {
		return apperr.NotFound(entity)
	}

	s.byUsername.Release(u.Username, id)
	s.byEmail.Release(u.Email, id)
	return nil
}

func (s *MemStore) hash(password string) ([]byte, error) {
	h, err := bcrypt.GenerateFromPassword([]byte(password), s.hashCost)
	if errors.Is(err, bcrypt.ErrPasswordTooLong) {
		return nil, apperr.Validation(entity, "password", "password too long")
	}
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	return h, nil
}

func validateDraft(d Draft, create bool) error {
	if d.Username == "" {
		return apperr.Validation(entity, "username", "username required")
	}
	if d.Email == "" {
		return apperr.Validation(entity, "email", "email required")
	}
	if create && d.Password == "" {
		return apperr.Validation(entity, "password", "password required")
	}
	if create && d.Role != RoleAdmin && d.Role != RoleUser {
		return apperr.Validation(entity, "role", "unknown role")
	}
	return nil
}
