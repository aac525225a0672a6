package main

import (
	"errors"
	"fmt"
	"net/url"
	"path/filepath"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/database/sqlite3"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/spf13/pflag"

	"github.com/BariVakhidov/guestlist/internal/config"
)

const (
	migrationUp   = "up"
	migrationDown = "down"
)

func mustMigrateUp(m *migrate.Migrate) {
	if err := m.Up(); err != nil {
		if errors.Is(err, migrate.ErrNoChange) {
			fmt.Println("no migrations to apply")
			return
		}

		panic(err)
	}

	fmt.Println("migrations applied successfully")
}

func mustMigrateDown(m *migrate.Migrate) {
	if err := m.Down(); err != nil {
		if errors.Is(err, migrate.ErrNoChange) {
			fmt.Println("no migrations to apply")
			return
		}

		panic(err)
	}

	fmt.Println("migrations downed successfully")
}

func main() {
	var driver, dsn, migrationsPath, migrationsTable, migrationType string
	pflag.StringVar(&migrationType, "migration-type", migrationUp, "migration type: up or down")
	pflag.StringVar(&driver, "driver", config.DriverPostgres, "database driver: postgres or sqlite")
	pflag.StringVar(&dsn, "dsn", "", "postgres connection string or sqlite file path")
	pflag.StringVar(&migrationsPath, "migrations-path", "", "path to migrations (defaults to ./migrations/<driver>)")
	pflag.StringVar(&migrationsTable, "migrations-table", "migrations", "name of migrations table")
	pflag.Parse()

	if dsn == "" {
		panic("dsn is required")
	}
	if migrationsPath == "" {
		migrationsPath = filepath.Join("migrations", driver)
	}

	databaseURL, err := dbURL(driver, dsn, migrationsTable)
	if err != nil {
		panic(err)
	}

	m, err := migrate.New(fmt.Sprintf("file://%s", migrationsPath), databaseURL)
	if err != nil {
		panic(err)
	}

	if migrationType == migrationDown {
		mustMigrateDown(m)
		return
	}

	mustMigrateUp(m)
}

func dbURL(driver, dsn, migrationsTable string) (string, error) {
	switch driver {
	case config.DriverSQLite:
		return fmt.Sprintf("sqlite3://%s?x-migrations-table=%s", dsn, migrationsTable), nil
	case config.DriverPostgres:
		u, err := url.Parse(dsn)
		if err != nil {
			return "", fmt.Errorf("invalid dsn: %w", err)
		}
		q := u.Query()
		q.Set("x-migrations-table", migrationsTable)
		u.RawQuery = q.Encode()
		return u.String(), nil
	}

	return "", fmt.Errorf("unknown driver %q", driver)
}
