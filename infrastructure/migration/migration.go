// Package migration runs the embedded schema migrations for the staging and
// canonical tables. Migrations are embedded at build time so deployments need
// no external migration files.
package migration

import (
	"embed"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/sirupsen/logrus"
)

//go:embed sql/*.sql
var migrationFiles embed.FS

// Up applies all pending migrations against the given DSN. Already-applied
// migrations are a no-op, so this is safe to run on every startup.
func Up(dsn string) error {
	source, err := iofs.New(migrationFiles, "sql")
	if err != nil {
		return fmt.Errorf("loading embedded migrations: %w", err)
	}

	m, err := migrate.NewWithSourceInstance("iofs", source, dsn)
	if err != nil {
		return fmt.Errorf("initializing migrator: %w", err)
	}
	defer func() {
		srcErr, dbErr := m.Close()
		if srcErr != nil {
			logrus.WithError(srcErr).Warn("Error closing migration source")
		}
		if dbErr != nil {
			logrus.WithError(dbErr).Warn("Error closing migration database handle")
		}
	}()

	if err := m.Up(); err != nil {
		if errors.Is(err, migrate.ErrNoChange) {
			logrus.Info("Database schema already up to date")
			return nil
		}
		return fmt.Errorf("applying migrations: %w", err)
	}

	logrus.Info("Database migrations applied")
	return nil
}
