package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// DefaultEnvFile is the dotenv file read from the current directory.
const DefaultEnvFile = ".env"

// Env holds the settings that can be overridden from the environment.
// Secrets such as the API token belong here rather than in .simprofile,
// which is meant to be shareable.
type Env struct {
	BaseURL   string `env:"SIMPROFILE_BASE_URL"`
	APIToken  string `env:"SIMPROFILE_API_TOKEN"`
	Proxy     string `env:"SIMPROFILE_PROXY"`
	UserAgent string `env:"SIMPROFILE_USER_AGENT"`
	Cookie    string `env:"SIMPROFILE_COOKIE"`
	DBDir     string `env:"SIMPROFILE_DB_DIR"`
	User      string `env:"SIMPROFILE_USER"`
}

// LoadEnv reads the environment overrides.
// Variables from the dotenv file at dotenvPath are used when the process
// environment does not set them; a missing file is not an error.
// The process environment is never modified.
func LoadEnv(dotenvPath string) (Env, error) {
	environ := make(map[string]string)

	if dotenvPath != "" {
		vars, err := godotenv.Read(dotenvPath)
		if err != nil && !errors.Is(err, os.ErrNotExist) {
			return Env{}, fmt.Errorf("read %s: %w", dotenvPath, err)
		}
		for k, v := range vars {
			environ[k] = v
		}
	}

	for _, kv := range os.Environ() {
		if k, v, ok := strings.Cut(kv, "="); ok {
			environ[k] = v
		}
	}

	return parseEnv(environ)
}

// parseEnv parses the overrides from the given variables.
func parseEnv(environ map[string]string) (Env, error) {
	var e Env
	if err := env.ParseWithOptions(&e, env.Options{Environment: environ}); err != nil {
		return Env{}, fmt.Errorf("parse env: %w", err)
	}
	return e, nil
}

// ApplyEnv copies the set overrides into the config.
func (c *Config) ApplyEnv(e Env) {
	if e.BaseURL != "" {
		c.BaseURL = e.BaseURL
	}
	if e.APIToken != "" {
		c.APIToken = e.APIToken
	}
	if e.Proxy != "" {
		c.ProxyAddress = e.Proxy
	}
	if e.UserAgent != "" {
		c.UserAgent = e.UserAgent
	}
	if e.Cookie != "" {
		c.Cookie = e.Cookie
	}
	if e.DBDir != "" {
		c.DBDir = e.DBDir
	}
	if e.User != "" {
		c.DefaultUser = e.User
	}
}
