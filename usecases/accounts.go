package usecases

import (
	"context"
	"errors"
	"fmt"

	"ecowattch-server/auth"
	"ecowattch-server/entities"
	"ecowattch-server/repositories"
)

type AccountUseCase struct {
	UserRepo repositories.UserRepository
	Hasher   *auth.Hasher
}

func NewAccountUseCase(userRepo repositories.UserRepository, hasher *auth.Hasher) *AccountUseCase {
	return &AccountUseCase{
		UserRepo: userRepo,
		Hasher:   hasher,
	}
}

// Signup creates a user with a hashed password and the default balance.
// dorm may be empty; otherwise it must be one of the competing dorms.
func (uc *AccountUseCase) Signup(ctx context.Context, username, password, dorm string) error {
	if username == "" || password == "" {
		return fmt.Errorf("%w: username and password are required", entities.ErrValidation)
	}
	if len(password) > auth.MaxPasswordBytes {
		return fmt.Errorf("%w: password must be at most %d bytes", entities.ErrValidation, auth.MaxPasswordBytes)
	}

	user := &entities.User{Username: username}
	if dorm != "" {
		if !entities.IsCompetingDorm(dorm) {
			return fmt.Errorf("%w: unknown dormitory %q", entities.ErrValidation, dorm)
		}
		user.DormName = &dorm
	}

	hashed, err := uc.Hasher.Hash(password)
	if err != nil {
		return err
	}
	user.PasswordHash = hashed

	return uc.UserRepo.Create(ctx, user)
}

// Login verifies the password and returns the profile. An unknown user and
// a wrong password are indistinguishable: both yield ErrInvalidCredentials.
func (uc *AccountUseCase) Login(ctx context.Context, username, password string) (*entities.Profile, error) {
	if username == "" || password == "" {
		return nil, fmt.Errorf("%w: username and password are required", entities.ErrValidation)
	}

	user, err := uc.UserRepo.FindByUsername(ctx, username)
	if errors.Is(err, entities.ErrNotFound) {
		return nil, entities.ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}

	if !uc.Hasher.Verify(password, user.PasswordHash) {
		return nil, entities.ErrInvalidCredentials
	}

	return &entities.Profile{
		Username:        user.Username,
		DormName:        user.DormName,
		SpendablePoints: user.Balance(),
	}, nil
}
