package migrations

import "github.com/uptrace/bun/migrate"

// DbMigrations - registered database migrations
var DbMigrations = migrate.NewMigrations()
