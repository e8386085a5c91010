package usecases

import (
	"context"
	"errors"
	"strings"
	"testing"

	"ecowattch-server/auth"
	"ecowattch-server/entities"
	"ecowattch-server/repositories"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func newAccountUseCase(t *testing.T, store *repositories.MemoryStore) *AccountUseCase {
	t.Helper()
	hasher, err := auth.NewHasher(bcrypt.MinCost)
	require.NoError(t, err)
	return NewAccountUseCase(store.Users(), hasher)
}

func TestAccountUseCase_Signup(t *testing.T) {
	ctx := context.Background()
	store := repositories.NewMemoryStore(true)
	uc := newAccountUseCase(t, store)

	require.NoError(t, uc.Signup(ctx, "alice", "s3cret", entities.DormTinsley))

	stored, err := store.Users().FindByUsername(ctx, "alice")
	require.NoError(t, err)
	assert.NotEqual(t, "s3cret", stored.PasswordHash)
	assert.True(t, uc.Hasher.Verify("s3cret", stored.PasswordHash))
	assert.Equal(t, entities.DefaultSpendablePoints, stored.Balance())

	t.Run("duplicate leaves the record intact", func(t *testing.T) {
		err := uc.Signup(ctx, "alice", "other", entities.DormSechrist)
		assert.ErrorIs(t, err, entities.ErrConflict)

		again, err := store.Users().FindByUsername(ctx, "alice")
		require.NoError(t, err)
		assert.Equal(t, stored.PasswordHash, again.PasswordHash)
		assert.Equal(t, entities.DormTinsley, *again.DormName)
	})

	t.Run("validation", func(t *testing.T) {
		assert.ErrorIs(t, uc.Signup(ctx, "", "pw", ""), entities.ErrValidation)
		assert.ErrorIs(t, uc.Signup(ctx, "bob", "", ""), entities.ErrValidation)
		assert.ErrorIs(t, uc.Signup(ctx, "bob", "pw", "Hogwarts"), entities.ErrValidation)
	})

	t.Run("password length counts bytes", func(t *testing.T) {
		assert.ErrorIs(t, uc.Signup(ctx, "bob", strings.Repeat("é", 40), ""), entities.ErrValidation)
		assert.ErrorIs(t, uc.Signup(ctx, "bob", strings.Repeat("a", 73), ""), entities.ErrValidation)
		require.NoError(t, uc.Signup(ctx, "bob", strings.Repeat("é", 36), ""))
	})

	t.Run("dorm is optional", func(t *testing.T) {
		require.NoError(t, uc.Signup(ctx, "nodorm", "pw", ""))
		u, err := store.Users().FindByUsername(ctx, "nodorm")
		require.NoError(t, err)
		assert.Nil(t, u.DormName)
	})
}

func TestAccountUseCase_Login(t *testing.T) {
	ctx := context.Background()
	store := repositories.NewMemoryStore(true)
	uc := newAccountUseCase(t, store)
	require.NoError(t, uc.Signup(ctx, "alice", "s3cret", entities.DormGabaldon))

	profile, err := uc.Login(ctx, "alice", "s3cret")
	require.NoError(t, err)
	assert.Equal(t, "alice", profile.Username)
	assert.Equal(t, entities.DormGabaldon, *profile.DormName)
	assert.Equal(t, 100, profile.SpendablePoints)

	_, err = uc.Login(ctx, "alice", "wrong")
	assert.ErrorIs(t, err, entities.ErrInvalidCredentials)

	_, err = uc.Login(ctx, "ghost", "s3cret")
	assert.ErrorIs(t, err, entities.ErrInvalidCredentials)

	_, err = uc.Login(ctx, "", "s3cret")
	assert.ErrorIs(t, err, entities.ErrValidation)
}

type failingUsers struct {
	repositories.UserRepository
	err error
}

func (f failingUsers) FindByUsername(context.Context, string) (*entities.User, error) {
	return nil, f.err
}

func TestAccountUseCase_LoginStoreError(t *testing.T) {
	hasher, err := auth.NewHasher(bcrypt.MinCost)
	require.NoError(t, err)
	boom := errors.New("connection refused")
	uc := NewAccountUseCase(failingUsers{err: boom}, hasher)

	_, err = uc.Login(context.Background(), "alice", "pw")
	assert.ErrorIs(t, err, boom)
	assert.NotErrorIs(t, err, entities.ErrInvalidCredentials)
}

func TestAccountUseCase_LoginDriftMode(t *testing.T) {
	ctx := context.Background()
	store := repositories.NewMemoryStore(false)
	uc := newAccountUseCase(t, store)
	require.NoError(t, uc.Signup(ctx, "alice", "pw", ""))

	profile, err := uc.Login(ctx, "alice", "pw")
	require.NoError(t, err)
	assert.Equal(t, 100, profile.SpendablePoints)
}
