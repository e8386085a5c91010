package repositories

import (
	"context"
	"fmt"
	"strings"

	"ecowattch-server/db"
	"ecowattch-server/entities"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type dormGormRepository struct {
	db db.Database
}

func NewDormGormRepository(database db.Database) DormRepository {
	return &dormGormRepository{db: database}
}

// IncrementPoints adds every delta in a single UPDATE:
//
//	TotalPoints = TotalPoints + CASE DormName WHEN ? THEN ? ... ELSE 0 END
//	WHERE DormName IN (...)
//
// Rows outside deltas are never touched.
func (r *dormGormRepository) IncrementPoints(ctx context.Context, deltas []entities.DormDelta) error {
	if len(deltas) == 0 {
		return nil
	}

	name := clause.Column{Name: "DormName"}
	total := clause.Column{Name: "TotalPoints"}

	var sb strings.Builder
	sb.WriteString("? + CASE ?")
	vars := make([]interface{}, 0, 2+2*len(deltas))
	vars = append(vars, total, name)
	names := make([]interface{}, 0, len(deltas))
	for _, d := range deltas {
		sb.WriteString(" WHEN ? THEN ?")
		vars = append(vars, d.DormName, d.Delta)
		names = append(names, d.DormName)
	}
	sb.WriteString(" ELSE 0 END")

	err := r.db.GetDB().WithContext(ctx).
		Model(&entities.Dorm{}).
		Where(clause.IN{Column: name, Values: names}).
		Update("TotalPoints", gorm.Expr(sb.String(), vars...)).Error
	if err != nil {
		return fmt.Errorf("failed to increment dorm points: %w", err)
	}
	return nil
}

// List returns the standings, highest total first.
func (r *dormGormRepository) List(ctx context.Context) ([]entities.Dorm, error) {
	var dorms []entities.Dorm
	err := r.db.GetDB().WithContext(ctx).
		Order(clause.OrderByColumn{Column: clause.Column{Name: "TotalPoints"}, Desc: true}).
		Find(&dorms).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list dorms: %w", err)
	}
	return dorms, nil
}
