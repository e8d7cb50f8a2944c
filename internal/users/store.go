package users

import (
	"context"
	"fmt"
	"strings"
)

// Store loads and overwrites whole user records keyed by Telegram id.
type Store interface {
	// Load returns ErrNotFound when the user never issued /start.
	Load(ctx context.Context, id int64) (Record, error)
	// Save replaces the stored record, creating storage on first use.
	Save(ctx context.Context, rec Record) error
	// List returns every stored record in unspecified order.
	List(ctx context.Context) ([]Record, error)
	Close() error
}

const (
	// DriverFile keeps one JSON document per user in a directory.
	DriverFile = "file"
	// DriverPostgres keeps records in the quiz_users table.
	DriverPostgres = "postgres"
	// DriverRedis keeps one JSON document per user key.
	DriverRedis = "redis"
)

// checkLoaded applies the checks every backend runs on a stored record:
// the record invariants and that it belongs to the requested id.
func checkLoaded(id int64, rec Record) error {
	if err := rec.Validate(); err != nil {
		return err
	}
	if rec.ID != id {
		return fmt.Errorf("%w: stored id %d", ErrCorruptRecord, rec.ID)
	}
	return nil
}

// NormalizeDriver maps an empty or aliased driver name to a known one.
func NormalizeDriver(driver string) (string, error) {
	d := strings.ToLower(strings.TrimSpace(driver))
	switch d {
	case "", "json", DriverFile:
		return DriverFile, nil
	case "pg", "postgresql", DriverPostgres:
		return DriverPostgres, nil
	case DriverRedis:
		return DriverRedis, nil
	}
	return "", fmt.Errorf("users: unknown storage driver %q; allowed: file, postgres, redis", driver)
}
