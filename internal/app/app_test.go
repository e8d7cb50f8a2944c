package app

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/m3rciful/quizbot/core/logger"
	"github.com/m3rciful/quizbot/internal/users"
)

const tasksJSON = `[
  {"q": "6*7?", "a": ["42", "24"], "r": "42", "p": "", "c": "Классика."}
]`

func writeFile(t *testing.T, dir, name, body string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("BOT_TOKEN", "123:abc")
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Quiz.TasksFile != "tasks.json" {
		t.Fatalf("unexpected tasks file %q", cfg.Quiz.TasksFile)
	}
	if cfg.Storage.Driver != users.DriverFile || cfg.Storage.Dir != "users" {
		t.Fatalf("unexpected storage %+v", cfg.Storage)
	}
	if cfg.CoreConfig().Telegram.Token != "123:abc" {
		t.Fatalf("core config not populated: %+v", cfg.CoreConfig().Telegram)
	}
}

func TestLoadConfigYAMLAndEnv(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "config.yaml", `
telegram:
  token: "from-yaml"
  admin_id: 77
quiz:
  tasks_file: quiz.yaml
storage:
  driver: json
  dir: data/users
  redis:
    addr: redis:6379
`)
	t.Setenv("STORAGE_DIR", "/var/lib/quiz")
	t.Setenv("REDIS_PREFIX", "q:")

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Telegram.Token != "from-yaml" || cfg.Telegram.AdminID != 77 {
		t.Fatalf("unexpected telegram section %+v", cfg.Telegram)
	}
	if cfg.Quiz.TasksFile != "quiz.yaml" {
		t.Fatalf("unexpected tasks file %q", cfg.Quiz.TasksFile)
	}
	if cfg.Storage.Driver != users.DriverFile || cfg.Storage.Dir != "/var/lib/quiz" {
		t.Fatalf("unexpected storage %+v", cfg.Storage)
	}
	if cfg.Storage.Redis.Addr != "redis:6379" || cfg.Storage.Redis.Prefix != "q:" {
		t.Fatalf("unexpected redis %+v", cfg.Storage.Redis)
	}
}

func TestExampleConfigKeepsQuickAnswers(t *testing.T) {
	t.Setenv("BOT_TOKEN", "123:abc")
	cfg, err := LoadConfig(filepath.Join("..", "..", "config.example.yaml"))
	if err != nil {
		t.Fatalf("load example: %v", err)
	}
	if cfg.RateLimit.IntervalMS != 0 {
		t.Fatalf("example config must not rate limit answers, interval %dms", cfg.RateLimit.IntervalMS)
	}
	if cfg.Storage.Driver != users.DriverFile {
		t.Fatalf("unexpected example driver %q", cfg.Storage.Driver)
	}
}

func TestLoadConfigRejectsUnknownDriver(t *testing.T) {
	t.Setenv("BOT_TOKEN", "123:abc")
	t.Setenv("STORAGE_DRIVER", "mongo")
	if _, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatalf("expected unknown driver error")
	}
}

func TestLoadConfigPostgresNeedsDatabase(t *testing.T) {
	t.Setenv("BOT_TOKEN", "123:abc")
	t.Setenv("STORAGE_DRIVER", "pg")
	_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	if err == nil || !strings.Contains(err.Error(), "database") {
		t.Fatalf("expected database error, got %v", err)
	}
}

func TestBootstrapFileStoreWiresRoutes(t *testing.T) {
	dir := t.TempDir()
	cfg := &Config{}
	cfg.Telegram.Token = "123:abc"
	cfg.Logging.Dir = filepath.Join(dir, "logs")
	cfg.Quiz.TasksFile = writeFile(t, dir, "tasks.json", tasksJSON)
	cfg.Storage.Dir = filepath.Join(dir, "users")
	if err := cfg.Normalize(); err != nil {
		t.Fatalf("normalize: %v", err)
	}

	application, err := Bootstrap(cfg)
	if err != nil {
		t.Fatalf("bootstrap: %v", err)
	}
	t.Cleanup(func() {
		_ = application.Close()
		_ = logger.Shutdown()
	})

	opts, err := application.TelegramRunOptions()
	if err != nil {
		t.Fatalf("run options: %v", err)
	}
	// /start, /help, /stats and the text route.
	if len(opts.Routes) != 4 {
		t.Fatalf("expected 4 routes, got %d", len(opts.Routes))
	}
	names := make([]string, 0, len(opts.Middlewares))
	for _, mw := range opts.Middlewares {
		names = append(names, mw.Name)
	}
	if names[len(names)-1] != "serialize" {
		t.Fatalf("expected per-user serialization last, got %v", names)
	}
	if opts.OnStop == nil {
		t.Fatalf("expected OnStop to close the store")
	}
}

func TestBootstrapFailsOnMissingCatalog(t *testing.T) {
	dir := t.TempDir()
	cfg := &Config{}
	cfg.Telegram.Token = "123:abc"
	cfg.Logging.Dir = filepath.Join(dir, "logs")
	cfg.Quiz.TasksFile = filepath.Join(dir, "nope.json")
	if err := cfg.Normalize(); err != nil {
		t.Fatalf("normalize: %v", err)
	}
	if _, err := Bootstrap(cfg); err == nil {
		t.Fatalf("expected catalog error")
	}
}

func TestBootstrapWiresRateLimitWhenIntervalSet(t *testing.T) {
	dir := t.TempDir()
	cfg := &Config{}
	cfg.Telegram.Token = "123:abc"
	cfg.Logging.Dir = filepath.Join(dir, "logs")
	cfg.Quiz.TasksFile = writeFile(t, dir, "tasks.json", tasksJSON)
	cfg.Storage.Dir = filepath.Join(dir, "users")
	cfg.RateLimit.IntervalMS = 500
	if err := cfg.Normalize(); err != nil {
		t.Fatalf("normalize: %v", err)
	}

	application, err := Bootstrap(cfg)
	if err != nil {
		t.Fatalf("bootstrap: %v", err)
	}
	t.Cleanup(func() {
		_ = application.Close()
		_ = logger.Shutdown()
	})

	opts, err := application.TelegramRunOptions()
	if err != nil {
		t.Fatalf("run options: %v", err)
	}
	found := false
	for _, mw := range opts.Middlewares {
		if mw.Name == "rate_limit" {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected rate_limit middleware when interval is set")
	}
}
