package config

import (
	"fmt"
	"os"
	"regexp"
	"time"

	"gopkg.in/yaml.v3"
)

// matches $(VAR_NAME)
var envPattern = regexp.MustCompile(`\$\(([A-Za-z0-9_]+)\)`)

// replaces $(VAR) with os.Getenv(VAR)
func expandEnvVars(s string) string {
	return envPattern.ReplaceAllStringFunc(s, func(m string) string {
		key := mapEnvKey(envPattern.FindStringSubmatch(m)[1])
		return os.Getenv(key)
	})
}

func Load(path string) (*Config, error) {
	// read raw YAML file
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	// expand $(ENV_VAR) placeholders
	expanded := expandEnvVars(string(data))

	// unmarshal into struct
	var cfg Config
	if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return nil, fmt.Errorf("unmarshalling yaml: %w", err)
	}

	applyDefaults(&cfg)

	return &cfg, nil
}

// applyDefaults fills the fields a minimal config file may omit. The catalog
// naming defaults match what the export workflow writes on disk.
func applyDefaults(cfg *Config) {
	if cfg.Server.Listen == "" {
		cfg.Server.Listen = ":8080"
	}
	if cfg.Server.ShutdownTimeout <= 0 {
		cfg.Server.ShutdownTimeout = 5 * time.Second
	}

	if cfg.Catalog.Root == "" {
		cfg.Catalog.Root = "restore-points"
	}
	if cfg.Catalog.NamePrefix == "" {
		cfg.Catalog.NamePrefix = "vm-export-"
	}
	if cfg.Catalog.ArtifactExt == "" {
		cfg.Catalog.ArtifactExt = ".ova"
	}
	if cfg.Catalog.ManifestName == "" {
		cfg.Catalog.ManifestName = "vm_export_tasks.csv"
	}

	if cfg.Prism.Timeout <= 0 {
		cfg.Prism.Timeout = 30 * time.Second
	}
	if cfg.Prism.PageSize <= 0 {
		cfg.Prism.PageSize = 1000
	}
	if cfg.Prism.ExcludeProject == "" {
		cfg.Prism.ExcludeProject = "_internal"
	}

	// KeepLast is left alone: zero or negative means the sweep keeps
	// everything, which is the right behavior for an unset value.
	if cfg.Retention.Cron == "" {
		cfg.Retention.Cron = "0 3 * * *"
	}

	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "text"
	}

	if cfg.ConfigReload.Method == "" {
		cfg.ConfigReload.Method = "fsnotify"
	}
	if cfg.ConfigReload.Debounce <= 0 {
		cfg.ConfigReload.Debounce = 500 * time.Millisecond
	}
}
