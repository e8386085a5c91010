package repositories

import (
	"context"

	"ecowattch-server/entities"
)

// UserRepository persists accounts and their spendable balance. Balance
// methods degrade when the deployment has no SpendablePoints column:
// reads return entities.DefaultSpendablePoints and writes report
// persisted == false without touching the row.
//
// DeductSpendablePoints only applies when the stored balance still equals
// expected; otherwise it returns entities.ErrBalanceChanged.
type UserRepository interface {
	FindByUsername(ctx context.Context, username string) (*entities.User, error)
	Create(ctx context.Context, user *entities.User) error
	ReadSpendablePoints(ctx context.Context, username string) (int, error)
	WriteSpendablePoints(ctx context.Context, username string, value int) (persisted bool, err error)
	DeductSpendablePoints(ctx context.Context, username string, expected, amount int) (persisted bool, err error)
}

type DormRepository interface {
	IncrementPoints(ctx context.Context, deltas []entities.DormDelta) error
	List(ctx context.Context) ([]entities.Dorm, error)
}

type OfferingRepository interface {
	List(ctx context.Context) ([]entities.Offering, error)
}
