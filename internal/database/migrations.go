package database

import (
	"embed"

	migrate "github.com/rubenv/sql-migrate"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// Migrate applies the embedded schema migrations to the sqlite store.
func (s *DB) Migrate() (int, error) {
	log := s.log.Function("Migrate")

	sqlDB, err := s.SQL.DB()
	if err != nil {
		return 0, log.Err("failed to get database handle for migration", err)
	}

	source := &migrate.EmbedFileSystemMigrationSource{
		FileSystem: migrationsFS,
		Root:       "migrations",
	}

	applied, err := migrate.Exec(sqlDB, "sqlite3", source, migrate.Up)
	if err != nil {
		return 0, log.Err("failed to apply migrations", err)
	}

	log.Info("Applied migrations", "count", applied)
	return applied, nil
}
