// Package database opens the SQL handle shared by the gorm identity
// repository and the sqlx session store, and runs the embedded migrations.
package database

import (
	"context"
	"database/sql"
	"fmt"
	"io/fs"

	"github.com/frahmantamala/performance-dashboard/db"
	"github.com/frahmantamala/performance-dashboard/internal"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
	"github.com/pressly/goose/v3"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

const migrationsTable = "schema_migrations"

// DriverName maps a configured driver to its database/sql driver name.
func DriverName(driver string) (string, error) {
	switch driver {
	case internal.DriverPostgres:
		return "pgx", nil
	case internal.DriverSQLite:
		return "sqlite3", nil
	default:
		return "", fmt.Errorf("unknown database driver %q", driver)
	}
}

func Open(cfg internal.DatabaseConfig) (*sqlx.DB, error) {
	driverName, err := DriverName(cfg.Driver)
	if err != nil {
		return nil, err
	}

	dbConn, err := sqlx.Open(driverName, cfg.Source)
	if err != nil {
		return nil, fmt.Errorf("failed to open db connection: %w", err)
	}

	dbConn.SetMaxIdleConns(cfg.MaxIdleConns)
	dbConn.SetMaxOpenConns(cfg.MaxOpenConns)
	dbConn.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	// verify connection; close underlying *sql.DB on failure
	if err := dbConn.Ping(); err != nil {
		_ = dbConn.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return dbConn, nil
}

// Gorm wraps an open handle so gorm shares its pool instead of dialing again.
func Gorm(conn *sql.DB, driver string) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch driver {
	case internal.DriverPostgres:
		dialector = postgres.New(postgres.Config{Conn: conn})
	case internal.DriverSQLite:
		dialector = &sqlite.Dialector{Conn: conn}
	default:
		return nil, fmt.Errorf("unknown database driver %q", driver)
	}

	gdb, err := gorm.Open(dialector, &gorm.Config{
		Logger:         gormlogger.Default.LogMode(gormlogger.Warn),
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open gorm: %w", err)
	}
	return gdb, nil
}

// MigrationsFS returns the embedded migrations for driver, rooted at the
// migration files.
func MigrationsFS(driver string) (fs.FS, error) {
	switch driver {
	case internal.DriverPostgres:
		return fs.Sub(db.Migrations, "migrations/postgres")
	case internal.DriverSQLite:
		return fs.Sub(db.Migrations, "migrations/sqlite")
	default:
		return nil, fmt.Errorf("unknown database driver %q", driver)
	}
}

func gooseDialect(driver string) (string, error) {
	switch driver {
	case internal.DriverPostgres:
		return "postgres", nil
	case internal.DriverSQLite:
		return "sqlite3", nil
	default:
		return "", fmt.Errorf("unknown database driver %q", driver)
	}
}

// Migrate runs goose command ("up", "down", "status", ...) against conn. An
// empty dir uses the embedded migrations; otherwise files are read from dir
// on disk.
func Migrate(ctx context.Context, conn *sql.DB, driver, command, dir string) error {
	dialect, err := gooseDialect(driver)
	if err != nil {
		return err
	}
	if err := goose.SetDialect(dialect); err != nil {
		return fmt.Errorf("goose dialect: %w", err)
	}
	goose.SetTableName(migrationsTable)

	if dir == "" {
		migrations, err := MigrationsFS(driver)
		if err != nil {
			return err
		}
		goose.SetBaseFS(migrations)
		defer goose.SetBaseFS(nil)
		dir = "."
	}

	if err := goose.RunContext(ctx, command, conn, dir); err != nil {
		return fmt.Errorf("goose %s: %w", command, err)
	}
	return nil
}
