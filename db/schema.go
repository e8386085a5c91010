package db

import (
	"context"
	"errors"
	"fmt"

	"ecowattch-server/confs"
	"ecowattch-server/entities"

	"gorm.io/gorm"
)

// Schema records which optional columns exist in the connected database.
// It is detected once at startup and treated as immutable afterwards.
type Schema struct {
	HasSpendablePoints bool
}

// FullSchema is the schema of a deployment that carries every column.
var FullSchema = Schema{HasSpendablePoints: true}

// ErrUsersTableMissing is returned when the Users table is not visible in the
// connection's current schema.
var ErrUsersTableMissing = errors.New("users table not found")

// currentSchema is the SQL function naming the connection's schema per dialect.
var currentSchema = map[string]string{
	confs.DriverPostgres: "CURRENT_SCHEMA()",
	confs.DriverMySQL:    "DATABASE()",
}

// DetectSchema checks for the optional Users.SpendablePoints column. Lookup
// errors are returned rather than read as "column absent".
func DetectSchema(ctx context.Context, gdb *gorm.DB) (Schema, error) {
	if err := ctx.Err(); err != nil {
		return Schema{}, err
	}
	fn, ok := currentSchema[gdb.Dialector.Name()]
	if !ok {
		return Schema{}, fmt.Errorf("schema detection not supported for %q", gdb.Dialector.Name())
	}
	table := entities.User{}.TableName()

	var tables int64
	err := gdb.WithContext(ctx).
		Raw("SELECT count(*) FROM information_schema.tables WHERE table_schema = "+fn+" AND table_name = ?", table).
		Scan(&tables).Error
	if err != nil {
		return Schema{}, fmt.Errorf("failed to look up users table: %w", err)
	}
	if tables == 0 {
		return Schema{}, ErrUsersTableMissing
	}

	var columns int64
	err = gdb.WithContext(ctx).
		Raw("SELECT count(*) FROM information_schema.columns WHERE table_schema = "+fn+" AND table_name = ? AND column_name = ?", table, "SpendablePoints").
		Scan(&columns).Error
	if err != nil {
		return Schema{}, fmt.Errorf("failed to look up SpendablePoints column: %w", err)
	}
	return Schema{HasSpendablePoints: columns > 0}, nil
}
