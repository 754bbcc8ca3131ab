// Package config loads the sheetscript project file.
//
// Settings are layered with koanf: built-in defaults, then sheetscript.yaml,
// then SHEETSCRIPT_ environment variables, then explicitly set flags.
package config

import (
	"time"

	"github.com/leapstack-labs/sheetscript/internal/job"
)

// Config holds all CLI configuration.
type Config struct {
	// ProjectRoot is the directory relative paths resolve against.
	ProjectRoot string `koanf:"-"`

	OutputFormat      string                 `koanf:"output"`
	Verbose           bool                   `koanf:"verbose"`
	LogLevel          string                 `koanf:"log_level"`
	LogFormat         string                 `koanf:"log_format"`
	Concurrency       int                    `koanf:"concurrency"`
	StrictIdentifiers bool                   `koanf:"strict_identifiers"`
	OutputDir         string                 `koanf:"output_dir"`
	Server            ServerConfig           `koanf:"server"`
	Watch             WatchConfig            `koanf:"watch"`
	Document          DocumentConfig         `koanf:"document"`
	Lint              LintConfig             `koanf:"lint"`
	Profiles          map[string]job.Profile `koanf:"profiles"`
	Jobs              []job.Job              `koanf:"jobs"`
}

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	Addr            string        `koanf:"addr"`
	ReadTimeout     time.Duration `koanf:"read_timeout"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
	MaxBodyBytes    int64         `koanf:"max_body_bytes"`
}

// WatchConfig configures the watch command.
type WatchConfig struct {
	Debounce time.Duration `koanf:"debounce"`
}

// DocumentConfig configures the document dialect.
type DocumentConfig struct {
	// DateConstructor is "new Date" or "ISODate".
	DateConstructor string `koanf:"date_constructor"`
}

// LintConfig configures input lint rules.
type LintConfig struct {
	Disable  []string          `koanf:"disable"`
	Severity map[string]string `koanf:"severity"`
}

// Default configuration values.
const (
	DefaultOutput          = "auto" // Auto-detect: TTY=text, non-TTY=markdown
	DefaultLogLevel        = "warn"
	DefaultLogFormat       = "text"
	DefaultConcurrency     = 4
	DefaultOutputDir       = "out"
	DefaultAddr            = ":8080"
	DefaultReadTimeout     = 10 * time.Second
	DefaultShutdownTimeout = 5 * time.Second
	DefaultMaxBodyBytes    = 10 << 20
	DefaultDebounce        = 300 * time.Millisecond
	DefaultDateConstructor = "new Date"
)

// ConfigFileNames are the project file names searched for, in order.
var ConfigFileNames = []string{"sheetscript.yaml", "sheetscript.yml"}

// Default returns a Config populated with defaults only.
func Default() *Config {
	return &Config{
		OutputFormat:      DefaultOutput,
		LogLevel:          DefaultLogLevel,
		LogFormat:         DefaultLogFormat,
		Concurrency:       DefaultConcurrency,
		StrictIdentifiers: true,
		OutputDir:         DefaultOutputDir,
		Server: ServerConfig{
			Addr:            DefaultAddr,
			ReadTimeout:     DefaultReadTimeout,
			ShutdownTimeout: DefaultShutdownTimeout,
			MaxBodyBytes:    DefaultMaxBodyBytes,
		},
		Watch:    WatchConfig{Debounce: DefaultDebounce},
		Document: DocumentConfig{DateConstructor: DefaultDateConstructor},
	}
}
