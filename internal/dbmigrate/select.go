// Package dbmigrate runs the goose migrations in migrations/.
package dbmigrate

import (
	"fmt"

	"github.com/fitai/fitai/internal/config"
)

const DefaultMigrationsDir = "migrations"

// Selection is the database URL chosen for DDL and where it came from.
type Selection struct {
	URL     string
	Source  string
	Warning string
}

// SelectDatabaseURL picks the URL for migrations: DIRECT, then DATABASE_URL,
// then POOLED with a warning. With requireDirect only DATABASE_URL_DIRECT is
// accepted.
func SelectDatabaseURL(cfg *config.Config, requireDirect bool) (Selection, error) {
	switch {
	case cfg.DatabaseURLDirect != "":
		return Selection{URL: cfg.DatabaseURLDirect, Source: "DATABASE_URL_DIRECT"}, nil
	case requireDirect:
		return Selection{}, fmt.Errorf("DATABASE_URL_DIRECT is required for startup migrations")
	case cfg.DatabaseURLRaw != "":
		return Selection{URL: cfg.DatabaseURLRaw, Source: "DATABASE_URL"}, nil
	case cfg.DatabaseURLPooled != "":
		return Selection{
			URL:     cfg.DatabaseURLPooled,
			Source:  "DATABASE_URL_POOLED",
			Warning: "running DDL through a pooled connection; set DATABASE_URL_DIRECT",
		}, nil
	}
	return Selection{}, fmt.Errorf("no database URL configured (set DATABASE_URL_DIRECT or DATABASE_URL)")
}
