// Package config resolves runtime settings from the environment with an
// optional YAML overlay file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/joho/godotenv"
	env "github.com/netflix/go-env"
	yaml "gopkg.in/yaml.v3"
)

// DefaultFile is the overlay looked for in the working directory.
const DefaultFile = "quaero.yaml"

// Config carries every setting the CLI and server need.
type Config struct {
	TavilyAPIKey  string `env:"TAVILY_API_KEY"`
	OpenAIAPIKey  string `env:"OPENAI_API_KEY"`
	OpenAIBaseURL string `env:"OPENAI_BASE_URL"`
	Model         string `env:"OPENAI_MODEL,default=gpt-4o-mini"`

	Addr      string `env:"QUAERO_ADDR,default=:8080"`
	StaticDir string `env:"QUAERO_STATIC_DIR"`
	DBPath    string `env:"QUAERO_DB_PATH,default=data/vendor.db"`

	DemoLockOutput string `env:"DEMO_LOCK_OUTPUT"`
	DemoAnswer     string `env:"DEMO_ANSWER"`
	DemoSourcesStr string `env:"DEMO_SOURCES"`

	DemoSources []string
}

// fileConfig is the overlay schema. Only set fields override the
// environment.
type fileConfig struct {
	LLM struct {
		BaseURL string `yaml:"base"`
		Model   string `yaml:"model"`
		APIKey  string `yaml:"key"`
	} `yaml:"llm"`

	Search struct {
		TavilyKey string `yaml:"tavilyKey"`
	} `yaml:"search"`

	Server struct {
		Addr      string `yaml:"addr"`
		StaticDir string `yaml:"staticDir"`
	} `yaml:"server"`

	DBPath string `yaml:"dbPath"`

	Demo struct {
		Lock    bool     `yaml:"lock"`
		Answer  string   `yaml:"answer"`
		Sources []string `yaml:"sources"`
	} `yaml:"demo"`
}

// Load reads .env (best effort), the process environment, and an optional
// overlay file. An empty path means DefaultFile, which may be absent.
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if _, err := env.UnmarshalFromEnviron(&cfg); err != nil {
		return nil, fmt.Errorf("parse environment: %w", err)
	}

	if cfg.DemoSourcesStr != "" {
		for _, s := range strings.Split(cfg.DemoSourcesStr, ",") {
			if t := strings.TrimSpace(s); t != "" {
				cfg.DemoSources = append(cfg.DemoSources, t)
			}
		}
	}

	explicit := path != ""
	if path == "" {
		path = DefaultFile
	}
	if err := applyFile(&cfg, path); err != nil {
		if explicit || !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
	}
	return &cfg, nil
}

// applyFile overlays file values onto cfg. The file supplies defaults: a
// value whose environment variable is explicitly set is left alone.
func applyFile(cfg *Config, path string) error {
	b, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	var fc fileConfig
	if err := yaml.Unmarshal(b, &fc); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}

	set := func(dst *string, val, envKey string) {
		if val == "" {
			return
		}
		if _, ok := os.LookupEnv(envKey); ok {
			return
		}
		*dst = val
	}
	set(&cfg.OpenAIBaseURL, fc.LLM.BaseURL, "OPENAI_BASE_URL")
	set(&cfg.Model, fc.LLM.Model, "OPENAI_MODEL")
	set(&cfg.OpenAIAPIKey, fc.LLM.APIKey, "OPENAI_API_KEY")
	set(&cfg.TavilyAPIKey, fc.Search.TavilyKey, "TAVILY_API_KEY")
	set(&cfg.Addr, fc.Server.Addr, "QUAERO_ADDR")
	set(&cfg.StaticDir, fc.Server.StaticDir, "QUAERO_STATIC_DIR")
	set(&cfg.DBPath, fc.DBPath, "QUAERO_DB_PATH")
	set(&cfg.DemoAnswer, fc.Demo.Answer, "DEMO_ANSWER")

	if fc.Demo.Lock && cfg.DemoLockOutput == "" {
		cfg.DemoLockOutput = "1"
	}
	if len(fc.Demo.Sources) > 0 && cfg.DemoSourcesStr == "" {
		cfg.DemoSources = fc.Demo.Sources
	}
	return nil
}

// DemoLocked reports whether server output is pinned to the demo answer.
func (c *Config) DemoLocked() bool {
	return c.DemoLockOutput == "1"
}

// MaskedKey renders a key safe for logs: first and last four characters
// around an ellipsis, or "(unset)".
func MaskedKey(key string) string {
	if key == "" {
		return "(unset)"
	}
	if len(key) <= 8 {
		return key[:1] + "..."
	}
	return key[:4] + "..." + key[len(key)-4:]
}
