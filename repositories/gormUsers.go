package repositories

import (
	"context"
	"errors"
	"fmt"

	"ecowattch-server/db"
	"ecowattch-server/entities"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const (
	colUsername        = "Username"
	colSpendablePoints = "SpendablePoints"
)

type userGormRepository struct {
	db     db.Database
	schema db.Schema
}

// NewUserGormRepository returns a UserRepository bound to the pool. schema is
// the result of db.DetectSchema and decides whether the balance column is used.
func NewUserGormRepository(database db.Database, schema db.Schema) UserRepository {
	return &userGormRepository{db: database, schema: schema}
}

func byUsername(username string) clause.Eq {
	return clause.Eq{Column: clause.Column{Name: colUsername}, Value: username}
}

func (r *userGormRepository) FindByUsername(ctx context.Context, username string) (*entities.User, error) {
	columns := []string{colUsername, "PasswordHash", "DormName"}
	if r.schema.HasSpendablePoints {
		columns = append(columns, colSpendablePoints)
	}

	var user entities.User
	res := r.db.GetDB().WithContext(ctx).
		Select(columns).
		Where(byUsername(username)).
		Find(&user)
	if res.Error != nil {
		return nil, fmt.Errorf("failed to get user by username: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, entities.ErrNotFound
	}
	return &user, nil
}

// Create inserts user after checking the name is free. A unique violation
// from a concurrent signup is reported as ErrConflict too.
func (r *userGormRepository) Create(ctx context.Context, user *entities.User) error {
	var count int64
	if err := r.db.GetDB().WithContext(ctx).
		Model(&entities.User{}).
		Where(byUsername(user.Username)).
		Count(&count).Error; err != nil {
		return fmt.Errorf("failed to check username: %w", err)
	}
	if count > 0 {
		return entities.ErrConflict
	}

	tx := r.db.GetDB().WithContext(ctx)
	if r.schema.HasSpendablePoints {
		if user.SpendablePoints == nil {
			points := entities.DefaultSpendablePoints
			user.SpendablePoints = &points
		}
	} else {
		user.SpendablePoints = nil
		tx = tx.Omit(colSpendablePoints)
	}

	if err := tx.Create(user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return entities.ErrConflict
		}
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

func (r *userGormRepository) ReadSpendablePoints(ctx context.Context, username string) (int, error) {
	if !r.schema.HasSpendablePoints {
		return entities.DefaultSpendablePoints, nil
	}

	var user entities.User
	res := r.db.GetDB().WithContext(ctx).
		Select(colSpendablePoints).
		Where(byUsername(username)).
		Find(&user)
	if res.Error != nil {
		return 0, fmt.Errorf("failed to read spendable points: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return 0, entities.ErrNotFound
	}
	return user.Balance(), nil
}

func (r *userGormRepository) WriteSpendablePoints(ctx context.Context, username string, value int) (bool, error) {
	if !r.schema.HasSpendablePoints {
		return false, nil
	}

	res := r.db.GetDB().WithContext(ctx).
		Model(&entities.User{}).
		Where(byUsername(username)).
		Update(colSpendablePoints, value)
	if res.Error != nil {
		return false, fmt.Errorf("failed to write spendable points: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return false, entities.ErrNotFound
	}
	return true, nil
}

// DeductSpendablePoints writes expected-amount only if the row still holds
// expected, so the caller's reported total is the stored one. Zero matched
// rows means another write got there first.
func (r *userGormRepository) DeductSpendablePoints(ctx context.Context, username string, expected, amount int) (bool, error) {
	if !r.schema.HasSpendablePoints {
		return false, nil
	}
	if amount > expected {
		return false, entities.ErrInsufficientBalance
	}

	res := r.db.GetDB().WithContext(ctx).
		Model(&entities.User{}).
		Where(byUsername(username)).
		Where("COALESCE(?, ?) = ?", clause.Column{Name: colSpendablePoints}, entities.DefaultSpendablePoints, expected).
		Update(colSpendablePoints, expected-amount)
	if res.Error != nil {
		return false, fmt.Errorf("failed to deduct spendable points: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return false, entities.ErrBalanceChanged
	}
	return true, nil
}
