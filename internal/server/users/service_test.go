package users

import (
	"context"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pocketorg/organizer/internal/server/auth"
	"github.com/pocketorg/organizer/internal/server/config"
	"github.com/pocketorg/organizer/internal/shared"
)

type memoryRepository struct {
	users map[string]*User
	next  int
}

func newMemoryRepository() *memoryRepository {
	return &memoryRepository{users: make(map[string]*User)}
}

func (r *memoryRepository) Create(_ context.Context, user *User) (*User, error) {
	if _, ok := r.users[user.Login]; ok {
		return nil, shared.ErrorLoginAlreadyExists
	}
	r.next++
	user.ID = "u-" + strconv.Itoa(r.next)
	user.CreatedAt = time.Now()
	r.users[user.Login] = user
	return user, nil
}

func (r *memoryRepository) GetByLogin(_ context.Context, login string) (*User, error) {
	user, ok := r.users[login]
	if !ok {
		return nil, shared.ErrorNotFound
	}
	return user, nil
}

func testConfig() *config.Config {
	cfg := &config.Config{}
	cfg.LoadDefaults()
	cfg.SecretKey = "unit-test-secret"
	return cfg
}

func TestService_Register(t *testing.T) {
	ctx := context.Background()

	t.Run("issues a valid token", func(t *testing.T) {
		s := NewService(newMemoryRepository(), testConfig())

		token, err := s.Register(ctx, "alice", "longenoughpassword")
		require.NoError(t, err)

		claims, err := auth.ParseToken(token, []byte("unit-test-secret"))
		require.NoError(t, err)
		assert.Equal(t, "alice", claims.Login)
		assert.NotEmpty(t, claims.UserID)
	})

	t.Run("rejects short login", func(t *testing.T) {
		s := NewService(newMemoryRepository(), testConfig())
		_, err := s.Register(ctx, "ab", "longenoughpassword")
		assert.ErrorIs(t, err, shared.ErrorInvalidLoginFormat)
	})

	t.Run("rejects short password", func(t *testing.T) {
		s := NewService(newMemoryRepository(), testConfig())
		_, err := s.Register(ctx, "alice", "short")
		assert.ErrorIs(t, err, shared.ErrorInvalidPasswordFormat)
	})

	t.Run("rejects duplicate login", func(t *testing.T) {
		s := NewService(newMemoryRepository(), testConfig())
		_, err := s.Register(ctx, "alice", "longenoughpassword")
		require.NoError(t, err)
		_, err = s.Register(ctx, "alice", "otherpassword123")
		assert.ErrorIs(t, err, shared.ErrorLoginAlreadyExists)
	})
}

func TestService_Login(t *testing.T) {
	ctx := context.Background()
	s := NewService(newMemoryRepository(), testConfig())
	_, err := s.Register(ctx, "alice", "longenoughpassword")
	require.NoError(t, err)

	t.Run("valid credentials", func(t *testing.T) {
		token, err := s.Login(ctx, "alice", "longenoughpassword")
		require.NoError(t, err)
		assert.NotEmpty(t, token)
	})

	t.Run("wrong password", func(t *testing.T) {
		_, err := s.Login(ctx, "alice", "wrongpassword")
		assert.ErrorIs(t, err, shared.ErrorInvalidLoginPassword)
	})

	t.Run("unknown login", func(t *testing.T) {
		_, err := s.Login(ctx, "nobody", "longenoughpassword")
		assert.ErrorIs(t, err, shared.ErrorInvalidLoginPassword)
	})
}
