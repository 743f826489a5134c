package initialize

import (
	"peoplefinder/config"
	"peoplefinder/internal/database"
	"peoplefinder/internal/logger"
)

// InitializeTables brings the sqlite store up to the current schema. The
// people data itself lives upstream; the only local tables are the session
// store and the migration ledger.
func InitializeTables(db database.DB, config config.Config, log logger.Logger) error {
	log = log.Function("InitializeTables")
	log.Info("Initializing session store schema", "dbPath", config.DatabaseDbPath)

	applied, err := db.Migrate()
	if err != nil {
		return log.Err("failed to apply migrations", err)
	}

	log.Info("Table initialization complete", "migrationsApplied", applied)
	return nil
}
