package database

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"

	"github.com/m3rciful/quizbot/core/logger"
)

const (
	readyTimeout = 30 * time.Second
	previewLimit = 6
)

// migrationFile is one *.up.sql script; version is its numeric prefix.
type migrationFile struct {
	version uint64
	name    string
}

// RunMigrations waits for postgres and applies every pending up migration.
// An already current schema is not an error.
func RunMigrations(cfg Config) error {
	ctx, cancel := context.WithTimeout(context.Background(), readyTimeout)
	defer cancel()
	if err := WaitForPostgres(ctx, cfg.DSN()); err != nil {
		logger.MIG.Error("db not ready", slog.String("event", "db.migrate"), slog.String("err", err.Error()))
		return fmt.Errorf("database not ready: %w", err)
	}

	dir, err := migrationsDir(cfg)
	if err != nil {
		return fmt.Errorf("resolve migrations dir: %w", err)
	}
	files := scanMigrations(dir)
	logger.MIG.Debug("migrations resolved", previewAttrs("resolve", dir, names(files))...)

	m, err := migrate.New("file://"+filepath.ToSlash(dir), cfg.URL())
	if err != nil {
		logger.MIG.Error("init failed", slog.String("event", "db.migrate"), slog.String("err", err.Error()))
		return fmt.Errorf("failed to initialize migrations: %w", err)
	}
	defer func() { _, _ = m.Close() }()

	from, _, _ := m.Version()
	start := time.Now()
	upErr := m.Up()
	took := logger.Took(start)
	if upErr != nil && !errors.Is(upErr, migrate.ErrNoChange) {
		logger.MIG.Error("migration failed",
			slog.String("event", "apply"),
			slog.String("err", upErr.Error()),
			slog.Duration("duration", took),
		)
		return fmt.Errorf("migration execution failed: %w", upErr)
	}

	to := from
	if upErr == nil {
		to, _, _ = m.Version()
	}
	applied := appliedBetween(files, uint64(from), uint64(to))
	if len(applied) > 0 {
		logger.MIG.Debug("applied files", previewAttrs("apply", "", applied)...)
	}
	logger.MIG.Info("migrations summary",
		slog.String("event", "summary"),
		slog.Uint64("from_ver", uint64(from)),
		slog.Uint64("to_ver", uint64(to)),
		slog.Int("files", len(applied)),
		slog.Duration("duration", took),
	)
	return nil
}

func previewAttrs(event, dir string, files []string) []any {
	attrs := []any{slog.String("event", event), slog.Int("files_total", len(files))}
	if dir != "" {
		attrs = append(attrs, slog.String("path", dir))
	}
	if len(files) > 0 {
		attrs = append(attrs, slog.String("files_preview", logger.Preview(files, previewLimit)))
	}
	return attrs
}

func migrationsDir(cfg Config) (string, error) {
	dir := cfg.MigrationsDir
	if dir == "" {
		dir = "migrations"
	}
	return filepath.Abs(dir)
}

// scanMigrations lists up scripts in dir ordered by version. An unreadable
// dir yields nothing; migrate.New reports the real error.
func scanMigrations(dir string) []migrationFile {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil
	}
	var files []migrationFile
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasSuffix(name, ".up.sql") {
			continue
		}
		prefix, _, _ := strings.Cut(name, "_")
		v, _ := strconv.ParseUint(prefix, 10, 64)
		files = append(files, migrationFile{version: v, name: name})
	}
	sort.Slice(files, func(i, j int) bool {
		if files[i].version != files[j].version {
			return files[i].version < files[j].version
		}
		return files[i].name < files[j].name
	})
	return files
}

// appliedBetween names the scripts with from < version <= to.
func appliedBetween(files []migrationFile, from, to uint64) []string {
	var out []string
	for _, f := range files {
		if f.version > from && f.version <= to {
			out = append(out, f.name)
		}
	}
	return out
}

func names(files []migrationFile) []string {
	out := make([]string, len(files))
	for i, f := range files {
		out[i] = f.name
	}
	return out
}
