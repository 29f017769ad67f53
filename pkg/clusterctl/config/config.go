package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v2"
)

const (
	VersionV1 = "v1"

	ProviderEKS = "eks"
	ProviderGKE = "gke"
)

type Config struct {
	Version        string    `yaml:"version"`
	CurrentContext string    `yaml:"current-context,omitempty"`
	Contexts       []Context `yaml:"contexts,omitempty"`
	Settings       Settings  `yaml:"settings,omitempty"`
}

type Settings struct {
	OutputFormat string `yaml:"output-format,omitempty"`
	// Timeout is a Go duration string such as "30s".
	Timeout string `yaml:"timeout,omitempty"`
}

// Context names a backend and the provider defaults used against it.
type Context struct {
	Name                  string `yaml:"name"`
	Server                string `yaml:"server"`
	BaseURL               string `yaml:"base-url,omitempty"`
	Provider              string `yaml:"provider,omitempty"`
	Region                string `yaml:"region,omitempty"`
	Profile               string `yaml:"profile,omitempty"`
	Project               string `yaml:"project,omitempty"`
	Zone                  string `yaml:"zone,omitempty"`
	CAFile                string `yaml:"ca-file,omitempty"`
	InsecureSkipTLSVerify bool   `yaml:"insecure-skip-tls-verify,omitempty"`
}

func DefaultConfig() Config {
	return Config{
		Version: VersionV1,
		Settings: Settings{
			OutputFormat: "table",
			Timeout:      "30s",
		},
	}
}

func Load(path string) (*Config, error) {
	if path == "" {
		return nil, errors.New("config path is required")
	}
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var cfg Config
	if err := yaml.Unmarshal(content, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if cfg.Version == "" {
		cfg.Version = VersionV1
	}
	return &cfg, nil
}

func Save(path string, cfg *Config) error {
	if cfg == nil {
		return errors.New("config is nil")
	}
	if cfg.Version == "" {
		cfg.Version = VersionV1
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("failed to create config dir: %w", err)
	}
	content, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	return os.WriteFile(path, content, 0o600)
}

func (c *Config) FindContext(name string) (*Context, error) {
	for i := range c.Contexts {
		if c.Contexts[i].Name == name {
			return &c.Contexts[i], nil
		}
	}
	return nil, fmt.Errorf("context not found: %s", name)
}

// SetContext adds ctx or replaces the context of the same name.
func (c *Config) SetContext(ctx Context) {
	for i := range c.Contexts {
		if c.Contexts[i].Name == ctx.Name {
			c.Contexts[i] = ctx
			return
		}
	}
	c.Contexts = append(c.Contexts, ctx)
}

func (c *Config) DeleteContext(name string) error {
	for i := range c.Contexts {
		if c.Contexts[i].Name == name {
			c.Contexts = append(c.Contexts[:i], c.Contexts[i+1:]...)
			if c.CurrentContext == name {
				c.CurrentContext = ""
			}
			return nil
		}
	}
	return fmt.Errorf("context not found: %s", name)
}

func (c *Config) CurrentContextOrDefault() string {
	if c.CurrentContext != "" {
		return c.CurrentContext
	}
	if len(c.Contexts) > 0 {
		return c.Contexts[0].Name
	}
	return ""
}

// TimeoutOrDefault parses Settings.Timeout, returning def when unset.
func (c *Config) TimeoutOrDefault(def time.Duration) (time.Duration, error) {
	if strings.TrimSpace(c.Settings.Timeout) == "" {
		return def, nil
	}
	d, err := time.ParseDuration(c.Settings.Timeout)
	if err != nil {
		return 0, fmt.Errorf("invalid timeout %q: %w", c.Settings.Timeout, err)
	}
	return d, nil
}

func (c *Config) Validate() error {
	if c.Version == "" {
		return errors.New("config version missing")
	}
	seen := map[string]bool{}
	for _, ctx := range c.Contexts {
		if strings.TrimSpace(ctx.Name) == "" {
			return errors.New("context name cannot be empty")
		}
		if seen[ctx.Name] {
			return fmt.Errorf("duplicate context %s", ctx.Name)
		}
		seen[ctx.Name] = true
		if strings.TrimSpace(ctx.Server) == "" {
			return fmt.Errorf("context %s server is required", ctx.Name)
		}
		switch ctx.Provider {
		case "", ProviderEKS, ProviderGKE:
		default:
			return fmt.Errorf("context %s has unknown provider %q", ctx.Name, ctx.Provider)
		}
	}
	if c.CurrentContext != "" {
		if _, err := c.FindContext(c.CurrentContext); err != nil {
			return fmt.Errorf("current-context: %w", err)
		}
	}
	if _, err := c.TimeoutOrDefault(0); err != nil {
		return err
	}
	return nil
}
