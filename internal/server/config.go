package server

import (
	"fmt"
	"time"

	"github.com/ilyakaznacheev/cleanenv"

	"github.com/scrankin/spotfire-community/internal/api"
)

// Config holds the mock server configuration, populated from the
// environment.
type Config struct {
	Host string `env:"MOCK_SPOTFIRE_HOST" env-default:"0.0.0.0"`
	Port uint16 `env:"MOCK_SPOTFIRE_PORT" env-default:"8080"`

	// JobFinishAfter is how long a started job stays InProgress before a
	// status query observes it as Finished.
	JobFinishAfter time.Duration `env:"MOCK_SPOTFIRE_JOB_FINISH_AFTER" env-default:"1s"`

	// DefinitionNotFound selects how a missed job definition lookup is
	// reported: "failed-response" or "http-error".
	DefinitionNotFound string `env:"MOCK_SPOTFIRE_DEFINITION_NOT_FOUND" env-default:"failed-response"`
}

// LoadConfig reads the configuration from the environment.
func LoadConfig() (*Config, error) {
	var cfg Config
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("failed to read environment: %w", err)
	}
	if _, err := cfg.definitionNotFoundPolicy(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Addr returns the listen address.
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

func (c *Config) definitionNotFoundPolicy() (api.DefinitionNotFoundPolicy, error) {
	switch c.DefinitionNotFound {
	case "failed-response":
		return api.DefinitionNotFoundFailedResponse, nil
	case "http-error":
		return api.DefinitionNotFoundError, nil
	default:
		return 0, fmt.Errorf("invalid definition-not-found policy: %q", c.DefinitionNotFound)
	}
}
