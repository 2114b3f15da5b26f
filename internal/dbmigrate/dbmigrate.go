// Package dbmigrate lists the per-module bun migrators in dependency order.
package dbmigrate

import (
	"context"
	"fmt"

	rostermigrations "github.com/Black-And-White-Club/frolf-fantasy/app/modules/roster/infrastructure/repositories/migrations"
	scoringmigrations "github.com/Black-And-White-Club/frolf-fantasy/app/modules/scoring/infrastructure/repositories/migrations"
	tournamentmigrations "github.com/Black-And-White-Club/frolf-fantasy/app/modules/tournament/infrastructure/repositories/migrations"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/migrate"
)

// ModuleMigrator pairs a module name with its migrator. Each module keeps its
// own bookkeeping tables.
type ModuleMigrator struct {
	Name     string
	Migrator *migrate.Migrator
}

// Migrators returns the module migrators. Later modules reference tables of
// earlier ones, so migrate in order and roll back in reverse.
func Migrators(db *bun.DB) []ModuleMigrator {
	modules := []struct {
		name       string
		migrations *migrate.Migrations
	}{
		{"tournament", tournamentmigrations.Migrations},
		{"scoring", scoringmigrations.Migrations},
		{"roster", rostermigrations.Migrations},
	}

	out := make([]ModuleMigrator, 0, len(modules))
	for _, m := range modules {
		out = append(out, ModuleMigrator{
			Name: m.name,
			Migrator: migrate.NewMigrator(db, m.migrations,
				migrate.WithTableName("bun_migrations_"+m.name),
				migrate.WithLocksTableName("bun_migration_locks_"+m.name),
			),
		})
	}
	return out
}

// Up initializes and applies every module's pending migrations.
func Up(ctx context.Context, db *bun.DB) error {
	for _, m := range Migrators(db) {
		if err := m.Migrator.Init(ctx); err != nil {
			return fmt.Errorf("init %s: %w", m.Name, err)
		}
		if err := m.Migrator.Lock(ctx); err != nil {
			return fmt.Errorf("lock %s: %w", m.Name, err)
		}
		_, err := m.Migrator.Migrate(ctx)
		if unlockErr := m.Migrator.Unlock(ctx); unlockErr != nil && err == nil {
			err = unlockErr
		}
		if err != nil {
			return fmt.Errorf("migrate %s: %w", m.Name, err)
		}
	}
	return nil
}
