package config

import "time"

type Config struct {
	Server       ServerConfig    `yaml:"server"`
	Catalog      CatalogConfig   `yaml:"catalog"`
	Prism        PrismConfig     `yaml:"prism"`
	Retention    RetentionConfig `yaml:"retention"`
	Logging      LoggingConfig   `yaml:"logging"`
	ConfigReload ReloadConfig    `yaml:"configReload"`
}

type ServerConfig struct {
	Listen          string        `yaml:"listen"`          // e.g. ":8080"
	ShutdownTimeout time.Duration `yaml:"shutdownTimeout"` // e.g. 5s
}

// CatalogConfig locates the restore-point tree and the naming conventions
// the export workflow uses inside it.
type CatalogConfig struct {
	Root         string `yaml:"root"`         // parent dir of all restore points
	NamePrefix   string `yaml:"namePrefix"`   // restore point dirs: <prefix><timestamp>
	ArtifactExt  string `yaml:"artifactExt"`  // exported VM files: <vm-uuid><ext>
	ManifestName string `yaml:"manifestName"` // per-restore-point task record file
}

type PrismConfig struct {
	Endpoint           string        `yaml:"endpoint"`  // e.g. https://prism.example:9440
	CredsFile          string        `yaml:"credsFile"` // KEY=VALUE file with USER/PASS/PRISM
	Timeout            time.Duration `yaml:"timeout"`
	PageSize           int           `yaml:"pageSize"`
	ExcludeProject     string        `yaml:"excludeProject"`
	InsecureSkipVerify bool          `yaml:"insecureSkipVerify"`
}

type RetentionConfig struct {
	Enabled  bool   `yaml:"enabled"`
	KeepLast int    `yaml:"keepLast"`
	Cron     string `yaml:"cron"` // standard 5-field cron spec
}

type LoggingConfig struct {
	Level  string `yaml:"level"`  // "info", "debug", etc.
	Format string `yaml:"format"` // "json", "text"
}

type ReloadConfig struct {
	Enabled  bool          `yaml:"enabled"`
	Method   string        `yaml:"method"`   // "fsnotify"
	Debounce time.Duration `yaml:"debounce"` // settle time after a config change
}
