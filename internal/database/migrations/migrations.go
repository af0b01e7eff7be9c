package migrations

import "github.com/uptrace/bun/migrate"

// Migrations contains all registered database migrations.
var Migrations = migrate.NewMigrations()
