package user

import (
	"context"
	"database/sql"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taskhive/taskhive-api/internal/domain"
	"github.com/taskhive/taskhive-api/internal/service/access"
	"github.com/taskhive/taskhive-api/internal/store"
)

// fakeUserStore is an in-memory store.UserStore.
type fakeUserStore struct {
	mu    sync.Mutex
	users map[uuid.UUID]*domain.User
}

func newFakeUserStore(users ...*domain.User) *fakeUserStore {
	s := &fakeUserStore{users: make(map[uuid.UUID]*domain.User)}
	for _, u := range users {
		copied := *u
		s.users[u.ID] = &copied
	}
	return s
}

func (s *fakeUserStore) Create(ctx context.Context, user *domain.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	copied := *user
	s.users[user.ID] = &copied
	return nil
}

func (s *fakeUserStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if u, ok := s.users[id]; ok {
		copied := *u
		return &copied, nil
	}
	return nil, store.ErrUserNotFound
}

func (s *fakeUserStore) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.Email == email {
			copied := *u
			return &copied, nil
		}
	}
	return nil, store.ErrUserNotFound
}

func (s *fakeUserStore) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	_, err := s.GetByEmail(ctx, email)
	return err == nil, nil
}

func (s *fakeUserStore) List(ctx context.Context, page store.Page) ([]*domain.User, int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*domain.User, 0, len(s.users))
	for _, u := range s.users {
		copied := *u
		out = append(out, &copied)
	}
	return out, len(out), nil
}

func (s *fakeUserStore) Update(ctx context.Context, user *domain.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[user.ID]; !ok {
		return store.ErrUserNotFound
	}
	if user.Password != "" {
		user.HashedPassword = "rehashed:" + user.Password
		user.Password = ""
	}
	copied := *user
	s.users[user.ID] = &copied
	return nil
}

func (s *fakeUserStore) SetRoles(ctx context.Context, userID uuid.UUID, roles []domain.Role) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[userID]
	if !ok {
		return store.ErrUserNotFound
	}
	u.Roles = append([]domain.Role(nil), roles...)
	return nil
}

func (s *fakeUserStore) Delete(ctx context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[id]; !ok {
		return store.ErrUserNotFound
	}
	delete(s.users, id)
	return nil
}

func (s *fakeUserStore) WithTx(tx *sql.Tx) store.UserStore { return s }

// fakeRoleStore serves the fixed role set.
type fakeRoleStore struct {
	roles map[domain.RoleName]*domain.Role
}

func newFakeRoleStore() *fakeRoleStore {
	return &fakeRoleStore{roles: map[domain.RoleName]*domain.Role{
		domain.RoleUser:  {ID: uuid.New(), Name: domain.RoleUser},
		domain.RoleAdmin: {ID: uuid.New(), Name: domain.RoleAdmin},
	}}
}

func (s *fakeRoleStore) GetByName(ctx context.Context, name domain.RoleName) (*domain.Role, error) {
	if r, ok := s.roles[name]; ok {
		copied := *r
		return &copied, nil
	}
	return nil, store.ErrRoleNotFound
}

type fixture struct {
	svc   *Service
	users *fakeUserStore
	alice *domain.User
	bob   *domain.User
}

func newFixture(t *testing.T) fixture {
	t.Helper()

	alice := &domain.User{
		ID:             uuid.New(),
		Email:          "alice@example.com",
		Username:       "alice",
		HashedPassword: "$2a$10$alicehash",
		Roles:          []domain.Role{{ID: uuid.New(), Name: domain.RoleUser}},
	}
	bob := &domain.User{
		ID:             uuid.New(),
		Email:          "bob@example.com",
		Username:       "bob",
		HashedPassword: "$2a$10$bobhash",
		Roles:          []domain.Role{{ID: uuid.New(), Name: domain.RoleUser}},
	}
	users := newFakeUserStore(alice, bob)
	return fixture{
		svc:   NewService(users, newFakeRoleStore(), nil),
		users: users,
		alice: alice,
		bob:   bob,
	}
}

func principal(id uuid.UUID, roles ...string) access.Principal {
	return access.Principal{ID: id, Roles: roles}
}

func admin() access.Principal {
	return access.Principal{ID: uuid.New(), Roles: []string{"ROLE_ADMIN"}}
}

func TestList(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	f := newFixture(t)

	_, _, err := f.svc.List(ctx, principal(f.alice.ID, "ROLE_USER"), store.Page{})
	assert.ErrorIs(t, err, domain.ErrForbidden)

	users, total, err := f.svc.List(ctx, admin(), store.Page{})
	require.NoError(t, err)
	assert.Equal(t, 2, total)
	assert.Len(t, users, 2)
}

func TestGet(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	f := newFixture(t)

	t.Run("self lookup", func(t *testing.T) {
		t.Parallel()
		u, err := f.svc.Get(ctx, principal(f.alice.ID, "ROLE_USER"), f.alice.ID)
		require.NoError(t, err)
		assert.Equal(t, "alice@example.com", u.Email)
	})

	t.Run("stranger is forbidden", func(t *testing.T) {
		t.Parallel()
		_, err := f.svc.Get(ctx, principal(f.bob.ID, "ROLE_USER"), f.alice.ID)
		assert.ErrorIs(t, err, domain.ErrForbidden)
	})

	t.Run("admin may look up anyone", func(t *testing.T) {
		t.Parallel()
		u, err := f.svc.Get(ctx, admin(), f.bob.ID)
		require.NoError(t, err)
		assert.Equal(t, f.bob.ID, u.ID)
	})

	t.Run("unknown user", func(t *testing.T) {
		t.Parallel()
		_, err := f.svc.Get(ctx, admin(), uuid.New())
		assert.ErrorIs(t, err, store.ErrUserNotFound)
	})
}

func TestUpdate(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("owner updates their profile", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t)
		u, err := f.svc.Update(ctx, principal(f.alice.ID, "ROLE_USER"), f.alice.ID, UpdateParams{
			Email:    "alice@new.example.com",
			Username: "alice2",
		})
		require.NoError(t, err)
		assert.Equal(t, "alice@new.example.com", u.Email)
		assert.Equal(t, "alice2", u.Username)

		stored, err := f.users.GetByID(ctx, f.alice.ID)
		require.NoError(t, err)
		assert.Equal(t, "alice2", stored.Username)
		// Password untouched.
		assert.Equal(t, "$2a$10$alicehash", stored.HashedPassword)
	})

	t.Run("new password is rehashed", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t)
		_, err := f.svc.Update(ctx, principal(f.alice.ID, "ROLE_USER"), f.alice.ID, UpdateParams{
			Email:    "alice@example.com",
			Username: "alice",
			Password: "brand-new-password",
		})
		require.NoError(t, err)

		stored, err := f.users.GetByID(ctx, f.alice.ID)
		require.NoError(t, err)
		assert.Equal(t, "rehashed:brand-new-password", stored.HashedPassword)
	})

	t.Run("taken email is rejected", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t)
		_, err := f.svc.Update(ctx, principal(f.alice.ID, "ROLE_USER"), f.alice.ID, UpdateParams{
			Email:    "bob@example.com",
			Username: "alice",
		})
		assert.ErrorIs(t, err, store.ErrEmailExists)
	})

	t.Run("keeping the same email is not a collision", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t)
		_, err := f.svc.Update(ctx, principal(f.alice.ID, "ROLE_USER"), f.alice.ID, UpdateParams{
			Email:    "alice@example.com",
			Username: "alice-renamed",
		})
		assert.NoError(t, err)
	})

	t.Run("stranger is forbidden", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t)
		_, err := f.svc.Update(ctx, principal(f.bob.ID, "ROLE_USER"), f.alice.ID, UpdateParams{
			Email:    "hijacked@example.com",
			Username: "mallory",
		})
		assert.ErrorIs(t, err, domain.ErrForbidden)
	})

	t.Run("admin may update anyone", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t)
		u, err := f.svc.Update(ctx, admin(), f.bob.ID, UpdateParams{
			Email:    "bob@example.com",
			Username: "robert",
		})
		require.NoError(t, err)
		assert.Equal(t, "robert", u.Username)
	})
}

func TestChangeRole(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("admin promotes a user", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t)
		u, err := f.svc.ChangeRole(ctx, admin(), f.alice.ID, domain.RoleAdmin)
		require.NoError(t, err)
		assert.Equal(t, []string{"ROLE_ADMIN"}, u.RoleNames())

		// The old role set is replaced, not extended.
		stored, err := f.users.GetByID(ctx, f.alice.ID)
		require.NoError(t, err)
		assert.Len(t, stored.Roles, 1)
		assert.True(t, stored.HasRole(domain.RoleAdmin))
	})

	t.Run("non-admin is forbidden", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t)
		_, err := f.svc.ChangeRole(ctx, principal(f.alice.ID, "ROLE_USER"), f.alice.ID, domain.RoleAdmin)
		assert.ErrorIs(t, err, domain.ErrForbidden)
	})

	t.Run("unknown user", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t)
		_, err := f.svc.ChangeRole(ctx, admin(), uuid.New(), domain.RoleAdmin)
		assert.ErrorIs(t, err, store.ErrUserNotFound)
	})

	t.Run("unknown role is a validation failure", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t)
		_, err := f.svc.ChangeRole(ctx, admin(), f.alice.ID, domain.RoleName("ROLE_WIZARD"))
		assert.ErrorIs(t, err, domain.ErrInvalidRole)
	})
}

func TestDelete(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("owner deletes their account", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t)
		require.NoError(t, f.svc.Delete(ctx, principal(f.alice.ID, "ROLE_USER"), f.alice.ID))

		_, err := f.users.GetByID(ctx, f.alice.ID)
		assert.ErrorIs(t, err, store.ErrUserNotFound)
	})

	t.Run("stranger is forbidden", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t)
		err := f.svc.Delete(ctx, principal(f.bob.ID, "ROLE_USER"), f.alice.ID)
		assert.ErrorIs(t, err, domain.ErrForbidden)
	})

	t.Run("admin deletes anyone once", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t)
		require.NoError(t, f.svc.Delete(ctx, admin(), f.bob.ID))
		assert.ErrorIs(t, f.svc.Delete(ctx, admin(), f.bob.ID), store.ErrUserNotFound)
	})
}
