package blockflow

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/petrijr/blockflow/internal/engine"
	"github.com/petrijr/blockflow/internal/persistence"
)

// Store drivers accepted in StoreConfig.Driver.
const (
	DriverMemory   = "memory"
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
	DriverRedis    = "redis"
	DriverMongo    = "mongo"
)

// Default timings of an editor session.
const (
	DefaultValidationDelay = 300 * time.Millisecond
	DefaultAutosaveDelay   = engine.DefaultAutosaveDelay
)

// Config configures an Editor and the store behind it.
type Config struct {
	// ValidationDelay is the quiet period after the last edit before findings
	// are recomputed.
	ValidationDelay time.Duration `yaml:"validation_delay" validate:"gte=0"`

	// AutosaveDelay is the quiet period before an autosave fires. It must be
	// longer than ValidationDelay.
	AutosaveDelay time.Duration `yaml:"autosave_delay" validate:"gt=0,gtfield=ValidationDelay"`

	// StorageKey names the snapshot slot.
	StorageKey string `yaml:"storage_key" validate:"required,max=256"`

	WorkflowName string `yaml:"workflow_name" validate:"required"`
	Version      string `yaml:"version" validate:"required"`

	// ReportDanglingEdges adds an error finding for every edge whose
	// endpoints are not both nodes of the graph.
	ReportDanglingEdges bool `yaml:"report_dangling_edges"`

	Store StoreConfig `yaml:"store"`
}

// StoreConfig selects the SnapshotStore backend.
type StoreConfig struct {
	Driver string `yaml:"driver" validate:"oneof=memory sqlite postgres redis mongo"`

	// DSN is a file path for sqlite, a pgx DSN for postgres, a redis:// URL
	// for redis and a mongodb:// URI for mongo. Unused for memory.
	DSN string `yaml:"dsn" validate:"required_unless=Driver memory"`

	// RedisPrefix and RedisTTL only apply to the redis driver.
	RedisPrefix string        `yaml:"redis_prefix"`
	RedisTTL    time.Duration `yaml:"redis_ttl" validate:"gte=0"`

	// MongoDatabase and MongoCollection only apply to the mongo driver.
	MongoDatabase   string `yaml:"mongo_database"`
	MongoCollection string `yaml:"mongo_collection"`
}

// DefaultConfig returns the configuration used when nothing is overridden.
func DefaultConfig() Config {
	return Config{
		ValidationDelay: DefaultValidationDelay,
		AutosaveDelay:   DefaultAutosaveDelay,
		StorageKey:      persistence.DefaultKey,
		WorkflowName:    engine.DefaultWorkflowName,
		Version:         engine.DefaultVersion,
		Store: StoreConfig{
			Driver: DriverSQLite,
			DSN:    "blockflow.db",
		},
	}
}

// LoadConfig reads a YAML file over DefaultConfig and validates the result.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

var configValidate = validator.New()

// Validate checks the struct constraints of cfg.
func (c Config) Validate() error {
	err := configValidate.Struct(c)
	if err == nil {
		return nil
	}

	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		return fmt.Errorf("validation error: %w", err)
	}

	msgs := make([]string, 0, len(validationErrs))
	for _, e := range validationErrs {
		msgs = append(msgs, formatConfigError(e))
	}
	return fmt.Errorf("%w:\n  - %s", ErrInvalidConfig, strings.Join(msgs, "\n  - "))
}

func formatConfigError(e validator.FieldError) string {
	field := strings.TrimPrefix(e.Namespace(), "Config.")

	switch e.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "required_unless":
		return fmt.Sprintf("%s is required unless %s", field, e.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of [%s] (got: %v)", field, e.Param(), e.Value())
	case "gt", "gte":
		return fmt.Sprintf("%s must be %s %s (got: %v)", field, e.Tag(), e.Param(), e.Value())
	case "gtfield":
		return fmt.Sprintf("%s must be greater than %s (got: %v)", field, e.Param(), e.Value())
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", field, e.Param())
	default:
		return fmt.Sprintf("%s failed validation '%s'", field, e.Tag())
	}
}

func (c Config) controllerConfig(store persistence.SnapshotStore, obs Observer) engine.Config {
	return engine.Config{
		Store:         store,
		Key:           c.StorageKey,
		WorkflowName:  c.WorkflowName,
		Version:       c.Version,
		AutosaveDelay: c.AutosaveDelay,
		Observer:      obs,
	}
}
