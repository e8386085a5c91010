package usecases

import (
	"context"
	"errors"
	"fmt"

	"ecowattch-server/entities"
	"ecowattch-server/repositories"
)

// StandingsNotifier is told when dorm totals change.
type StandingsNotifier interface {
	StandingsChanged(ctx context.Context)
}

type PointsUseCase struct {
	UserRepo repositories.UserRepository
	DormRepo repositories.DormRepository
	Notifier StandingsNotifier
}

func NewPointsUseCase(userRepo repositories.UserRepository, dormRepo repositories.DormRepository, notifier StandingsNotifier) *PointsUseCase {
	return &PointsUseCase{
		UserRepo: userRepo,
		DormRepo: dormRepo,
		Notifier: notifier,
	}
}

// IncrementDormPoints adds the deltas to the competing dorms in one statement.
// Dorm names outside the allow-list and negative deltas are rejected before
// touching the store, so totals only grow.
func (uc *PointsUseCase) IncrementDormPoints(ctx context.Context, deltas []entities.DormDelta) error {
	for _, d := range deltas {
		if !entities.IsCompetingDorm(d.DormName) {
			return fmt.Errorf("%w: unknown dormitory %q", entities.ErrValidation, d.DormName)
		}
		if d.Delta < 0 {
			return fmt.Errorf("%w: points for %s must not be negative", entities.ErrValidation, d.DormName)
		}
	}
	if err := uc.DormRepo.IncrementPoints(ctx, deltas); err != nil {
		return err
	}
	if uc.Notifier != nil {
		uc.Notifier.StandingsChanged(ctx)
	}
	return nil
}

// Standings returns all dorms ordered by total, highest first.
func (uc *PointsUseCase) Standings(ctx context.Context) ([]entities.Dorm, error) {
	return uc.DormRepo.List(ctx)
}

// UpdateUserPoints overwrites a user's balance. persisted is false when the
// deployment has no balance column and the write was only acknowledged.
func (uc *PointsUseCase) UpdateUserPoints(ctx context.Context, username string, value int) (persisted bool, err error) {
	if username == "" {
		return false, fmt.Errorf("%w: username is required", entities.ErrValidation)
	}
	if value < 0 {
		return false, fmt.Errorf("%w: spendablePoints must not be negative", entities.ErrValidation)
	}
	return uc.UserRepo.WriteSpendablePoints(ctx, username, value)
}

// purchaseAttempts bounds how often Purchase re-reads a balance that another
// write changed under it.
const purchaseAttempts = 3

// Purchase deducts amount from the user's balance and returns the new total.
// The deduction only applies to the balance that was read, so the total
// returned is always the one stored. A balance that keeps moving is retried
// a few times before giving up with ErrBalanceChanged.
func (uc *PointsUseCase) Purchase(ctx context.Context, username, palette string, amount int) (int, error) {
	if username == "" || palette == "" {
		return 0, fmt.Errorf("%w: username and paletteName are required", entities.ErrValidation)
	}
	if amount <= 0 {
		return 0, fmt.Errorf("%w: pointsToDeduct must be positive", entities.ErrValidation)
	}

	if _, err := uc.UserRepo.FindByUsername(ctx, username); err != nil {
		return 0, err
	}

	for attempt := 0; attempt < purchaseAttempts; attempt++ {
		balance, err := uc.UserRepo.ReadSpendablePoints(ctx, username)
		if err != nil {
			return 0, err
		}
		if balance < amount {
			return 0, entities.ErrInsufficientBalance
		}

		_, err = uc.UserRepo.DeductSpendablePoints(ctx, username, balance, amount)
		if errors.Is(err, entities.ErrBalanceChanged) {
			continue
		}
		if err != nil {
			return 0, err
		}
		return balance - amount, nil
	}
	return 0, entities.ErrBalanceChanged
}
