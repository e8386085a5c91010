package repositories

import (
	"context"
	"fmt"

	"ecowattch-server/db"
	"ecowattch-server/entities"
)

type offeringGormRepository struct {
	db db.Database
}

func NewOfferingGormRepository(database db.Database) OfferingRepository {
	return &offeringGormRepository{db: database}
}

func (r *offeringGormRepository) List(ctx context.Context) ([]entities.Offering, error) {
	var offerings []entities.Offering
	if err := r.db.GetDB().WithContext(ctx).Find(&offerings).Error; err != nil {
		return nil, fmt.Errorf("failed to list offerings: %w", err)
	}
	return offerings, nil
}
