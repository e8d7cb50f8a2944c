package users

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/m3rciful/quizbot/core/logger"
)

// FileStore keeps one <id>.json document per user inside Dir.
type FileStore struct {
	dir string
}

// NewFileStore returns a store rooted at dir. The directory is created lazily on Save.
func NewFileStore(dir string) *FileStore {
	if strings.TrimSpace(dir) == "" {
		dir = "users"
	}
	return &FileStore{dir: dir}
}

func (s *FileStore) path(id int64) string {
	return filepath.Join(s.dir, strconv.FormatInt(id, 10)+".json")
}

// Load reads the document for id.
func (s *FileStore) Load(ctx context.Context, id int64) (Record, error) {
	data, err := os.ReadFile(s.path(id))
	if errors.Is(err, fs.ErrNotExist) {
		return Record{}, ErrNotFound
	}
	if err != nil {
		return Record{}, fmt.Errorf("users: read %d: %w", id, err)
	}
	rec, err := Decode(data)
	if err != nil {
		return Record{}, fmt.Errorf("users: load %d: %w", id, err)
	}
	if err := checkLoaded(id, rec); err != nil {
		return Record{}, fmt.Errorf("users: load %d: %w", id, err)
	}
	return rec, nil
}

// Save overwrites the document through a temp file and rename so readers never see half a record.
func (s *FileStore) Save(ctx context.Context, rec Record) error {
	data, err := Encode(rec)
	if err != nil {
		return fmt.Errorf("users: encode %d: %w", rec.ID, err)
	}
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("users: create dir: %w", err)
	}
	tmp, err := os.CreateTemp(s.dir, strconv.FormatInt(rec.ID, 10)+".*.tmp")
	if err != nil {
		return fmt.Errorf("users: save %d: %w", rec.ID, err)
	}
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("users: save %d: %w", rec.ID, err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("users: save %d: %w", rec.ID, err)
	}
	if err := os.Rename(tmp.Name(), s.path(rec.ID)); err != nil {
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("users: save %d: %w", rec.ID, err)
	}
	logger.Debug(ctx, "store", "store.save",
		slog.String("driver", DriverFile),
		slog.Int64("user_id", rec.ID),
		slog.Int("task_index", rec.TaskIndex),
		slog.Int("score", rec.Score),
	)
	return nil
}

// List decodes every document in the directory. Corrupt files are skipped and logged.
func (s *FileStore) List(ctx context.Context) ([]Record, error) {
	entries, err := os.ReadDir(s.dir)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("users: list: %w", err)
	}
	var out []Record
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasSuffix(name, ".json") {
			continue
		}
		id, err := strconv.ParseInt(strings.TrimSuffix(name, ".json"), 10, 64)
		if err != nil {
			continue
		}
		rec, err := s.Load(ctx, id)
		if err != nil {
			logger.Warn(ctx, "store", "store.list.skip",
				slog.String("driver", DriverFile),
				slog.Int64("user_id", id),
				slog.String("err", err.Error()),
			)
			continue
		}
		out = append(out, rec)
	}
	return out, nil
}

// Close is a no-op for the file store.
func (s *FileStore) Close() error { return nil }
