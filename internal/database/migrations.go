package database

import (
	"embed"

	migrate "github.com/rubenv/sql-migrate"
)

//go:embed migrations/*.sql
var migrationFiles embed.FS

var migrationSet = migrate.MigrationSet{TableName: "schema_migrations"}

func migrationSource() migrate.MigrationSource {
	return &migrate.EmbedFileSystemMigrationSource{
		FileSystem: migrationFiles,
		Root:       "migrations",
	}
}

// MigrateUp applies every pending migration and returns how many ran.
func (s *DB) MigrateUp() (int, error) {
	return s.migrate(migrate.Up, 0)
}

// MigrateDown rolls back at most steps migrations; steps <= 0 rolls back all.
func (s *DB) MigrateDown(steps int) (int, error) {
	return s.migrate(migrate.Down, steps)
}

func (s *DB) migrate(direction migrate.MigrationDirection, max int) (int, error) {
	log := s.log.Function("migrate")

	sqlDB, err := s.SQL.DB()
	if err != nil {
		return 0, log.Err("failed to get database from GORM", err)
	}

	s.lock.Lock()
	defer s.lock.Unlock()

	applied, err := migrationSet.ExecMax(sqlDB, "sqlite3", migrationSource(), direction, max)
	if err != nil {
		return applied, log.Err("failed to apply migrations", err, "direction", direction, "applied", applied)
	}

	log.Info("Applied migrations", "direction", direction, "applied", applied)
	return applied, nil
}
