package db

import (
	"context"
	"fmt"
	"strings"
	"time"

	"ecowattch-server/confs"
	"ecowattch-server/logger"

	"github.com/go-sql-driver/mysql"
	"github.com/jackc/pgx/v5"
	gormmysql "gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// Connect opens the connection pool for the configured driver, sizes it,
// and verifies it with a ping.
func Connect(ctx context.Context, cfg confs.Database, log *logger.Logger) (Database, error) {
	dialector, err := Dialector(cfg)
	if err != nil {
		return nil, err
	}

	gdb, err := gorm.Open(dialector, &gorm.Config{
		Logger:                 logger.NewGormLogger(log, 200*time.Millisecond),
		PrepareStmt:            true,
		SkipDefaultTransaction: true,
		TranslateError:         true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := gdb.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database instance: %w", err)
	}

	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	pingCtx, cancel := context.WithTimeout(ctx, cfg.ConnectTimeout)
	defer cancel()
	if err := sqlDB.PingContext(pingCtx); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	log.Info("database connection established",
		"driver", cfg.Driver,
		"max_open_conns", cfg.MaxOpenConns,
		"max_idle_conns", cfg.MaxIdleConns,
	)

	return &GormDatabase{DB: gdb}, nil
}

// Dialector builds the gorm dialector for cfg.Driver. DB_URL wins over the
// individual connection fields.
func Dialector(cfg confs.Database) (gorm.Dialector, error) {
	switch cfg.Driver {
	case confs.DriverPostgres:
		dsn, err := PostgresDSN(cfg)
		if err != nil {
			return nil, err
		}
		return postgres.Open(dsn), nil
	case confs.DriverMySQL:
		dsn, err := MySQLDSN(cfg)
		if err != nil {
			return nil, err
		}
		return gormmysql.Open(dsn), nil
	default:
		return nil, fmt.Errorf("no SQL dialector for driver %q", cfg.Driver)
	}
}

// PostgresDSN returns a pgx connection string. Remote hosts default to
// sslmode=require, local ones to disable.
func PostgresDSN(cfg confs.Database) (string, error) {
	if cfg.URL != "" {
		pc, err := pgx.ParseConfig(cfg.URL)
		if err != nil {
			return "", fmt.Errorf("invalid DB_URL: %w", err)
		}
		dsn := cfg.URL
		if !strings.Contains(dsn, "sslmode=") {
			dsn = appendQuery(dsn, "sslmode="+sslModeFor(pc.Host, cfg.SSLMode))
		}
		if !strings.Contains(dsn, "connect_timeout=") {
			dsn = appendQuery(dsn, fmt.Sprintf("connect_timeout=%d", timeoutSeconds(cfg.ConnectTimeout)))
		}
		return dsn, nil
	}

	if cfg.Host == "" || cfg.Port == "" || cfg.User == "" || cfg.Name == "" {
		return "", fmt.Errorf("missing required database configuration: DB_URL or (DB_HOST, DB_PORT, DB_USER, DB_DATABASE)")
	}

	return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s connect_timeout=%d TimeZone=UTC",
		cfg.Host, cfg.User, cfg.Password, cfg.Name, cfg.Port, sslModeFor(cfg.Host, cfg.SSLMode), timeoutSeconds(cfg.ConnectTimeout)), nil
}

// MySQLDSN returns a go-sql-driver DSN. ClientFoundRows makes UPDATE report
// matched rather than changed rows, so writing an unchanged balance still
// counts as finding the user.
func MySQLDSN(cfg confs.Database) (string, error) {
	var mc *mysql.Config
	if cfg.URL != "" {
		parsed, err := mysql.ParseDSN(strings.TrimPrefix(cfg.URL, "mysql://"))
		if err != nil {
			return "", fmt.Errorf("invalid DB_URL: %w", err)
		}
		mc = parsed
	} else {
		if cfg.Host == "" || cfg.Port == "" || cfg.User == "" || cfg.Name == "" {
			return "", fmt.Errorf("missing required database configuration: DB_URL or (DB_HOST, DB_PORT, DB_USER, DB_DATABASE)")
		}
		mc = mysql.NewConfig()
		mc.User = cfg.User
		mc.Passwd = cfg.Password
		mc.Net = "tcp"
		mc.Addr = cfg.Host + ":" + cfg.Port
		mc.DBName = cfg.Name
	}

	mc.ParseTime = true
	mc.ClientFoundRows = true
	if mc.Timeout == 0 {
		mc.Timeout = cfg.ConnectTimeout
	}
	return mc.FormatDSN(), nil
}

func sslModeFor(host, configured string) string {
	if configured != "" {
		return configured
	}
	if host == "localhost" || host == "127.0.0.1" {
		return "disable"
	}
	return "require"
}

func appendQuery(dsn, kv string) string {
	if strings.Contains(dsn, "?") {
		return dsn + "&" + kv
	}
	return dsn + "?" + kv
}

func timeoutSeconds(d time.Duration) int {
	s := int(d / time.Second)
	if s <= 0 {
		return 10
	}
	return s
}
