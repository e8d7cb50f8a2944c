// Package quiz holds the ordered task catalog the bot walks every user through.
package quiz

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/m3rciful/quizbot/core/logger"

	"gopkg.in/yaml.v3"
)

// ErrCatalogUnavailable reports a tasks file that cannot be read or parsed.
var ErrCatalogUnavailable = errors.New("quiz: catalog unavailable")

// Task is a single quiz question. The short keys match the tasks file format.
type Task struct {
	Question string   `json:"q" yaml:"q"`
	Choices  []string `json:"a" yaml:"a"`
	Answer   string   `json:"r" yaml:"r"`
	Photo    string   `json:"p" yaml:"p"`
	Comment  string   `json:"c" yaml:"c"`
}

// Catalog is the immutable ordered list of tasks.
type Catalog struct {
	tasks []Task
	dir   string
}

// NewCatalog builds a catalog from tasks already in memory.
func NewCatalog(tasks []Task) (*Catalog, error) {
	if err := validate(tasks); err != nil {
		return nil, err
	}
	return &Catalog{tasks: cloneTasks(tasks)}, nil
}

// Load reads a JSON or YAML tasks file. The format is chosen by extension;
// anything other than .yaml/.yml is decoded as JSON.
func Load(path string) (*Catalog, error) {
	start := time.Now()
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: read %s: %v", ErrCatalogUnavailable, path, err)
	}

	var tasks []Task
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &tasks)
	default:
		err = json.Unmarshal(data, &tasks)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: parse %s: %v", ErrCatalogUnavailable, path, err)
	}

	cat, err := NewCatalog(tasks)
	if err != nil {
		return nil, err
	}
	if abs, err := filepath.Abs(filepath.Dir(path)); err == nil {
		cat.dir = abs
	}

	logger.Quiz.LogAttrs(context.Background(), slog.LevelInfo, "catalog loaded",
		slog.String("event", "quiz.load"),
		slog.String("path", path),
		slog.Int("tasks", len(tasks)),
		slog.Duration("duration", logger.Took(start)),
	)
	return cat, nil
}

func validate(tasks []Task) error {
	if len(tasks) == 0 {
		return fmt.Errorf("%w: no tasks", ErrCatalogUnavailable)
	}
	for i, t := range tasks {
		if strings.TrimSpace(t.Question) == "" {
			return fmt.Errorf("%w: task %d has no question", ErrCatalogUnavailable, i)
		}
		if t.Answer == "" {
			return fmt.Errorf("%w: task %d has no correct answer", ErrCatalogUnavailable, i)
		}
	}
	return nil
}

// Len returns the number of tasks.
func (c *Catalog) Len() int {
	return len(c.tasks)
}

// Task returns the task at index i.
func (c *Catalog) Task(i int) (Task, bool) {
	if i < 0 || i >= len(c.tasks) {
		return Task{}, false
	}
	t := c.tasks[i]
	t.Choices = append([]string(nil), t.Choices...)
	return t, true
}

// Tasks returns a copy of all tasks in order.
func (c *Catalog) Tasks() []Task {
	return cloneTasks(c.tasks)
}

// Dir is the directory of the tasks file; relative photo paths resolve against it.
func (c *Catalog) Dir() string {
	return c.dir
}

func cloneTasks(in []Task) []Task {
	out := make([]Task, len(in))
	for i, t := range in {
		t.Choices = append([]string(nil), t.Choices...)
		out[i] = t
	}
	return out
}
