// Package app assembles the quiz bot from configuration: logger, catalog,
// user store, conversation service and Telegram routes.
package app

import (
	"fmt"
	"strings"

	coreconfig "github.com/m3rciful/quizbot/core/config"
	coredatabase "github.com/m3rciful/quizbot/core/database"
	"github.com/m3rciful/quizbot/internal/users"
)

const (
	defaultTasksFile  = "tasks.json"
	defaultStorageDir = "users"
)

// QuizConfig locates the task catalog.
type QuizConfig struct {
	TasksFile string `yaml:"tasks_file" envconfig:"QUIZ_TASKS_FILE"`
}

// StorageConfig selects and configures the user store.
type StorageConfig struct {
	Driver string            `yaml:"driver" envconfig:"STORAGE_DRIVER"`
	Dir    string            `yaml:"dir" envconfig:"STORAGE_DIR"`
	Redis  users.RedisConfig `yaml:"redis"`
}

// Config is the bot configuration: the shared core plus quiz settings.
type Config struct {
	coreconfig.Config `yaml:",inline"`

	Quiz     QuizConfig          `yaml:"quiz"`
	Storage  StorageConfig       `yaml:"storage"`
	Database coredatabase.Config `yaml:"database"`
}

// CoreConfig exposes the embedded core configuration.
func (c *Config) CoreConfig() *coreconfig.Config {
	return &c.Config
}

// LoadConfig reads path (optional) and the environment, then normalizes.
func LoadConfig(path string) (*Config, error) {
	var cfg Config
	if err := coreconfig.Decode(path, &cfg); err != nil {
		return nil, err
	}
	if err := cfg.Normalize(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Normalize validates the core section and fills quiz defaults.
func (c *Config) Normalize() error {
	if err := coreconfig.Normalize(&c.Config); err != nil {
		return err
	}
	if strings.TrimSpace(c.Quiz.TasksFile) == "" {
		c.Quiz.TasksFile = defaultTasksFile
	}
	driver, err := users.NormalizeDriver(c.Storage.Driver)
	if err != nil {
		return err
	}
	c.Storage.Driver = driver
	if strings.TrimSpace(c.Storage.Dir) == "" {
		c.Storage.Dir = defaultStorageDir
	}
	if driver == users.DriverPostgres {
		if strings.TrimSpace(c.Database.Host) == "" || strings.TrimSpace(c.Database.Name) == "" {
			return fmt.Errorf("database.host and database.name are required for storage.driver %q", driver)
		}
		if strings.TrimSpace(c.Database.Port) == "" {
			c.Database.Port = "5432"
		}
	}
	return nil
}
