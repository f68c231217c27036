// Package config centralizes the converter's configuration.
//
// Values are layered, lowest precedence first:
//
//  1. built-in defaults (the env-default tags below)
//  2. an optional config file (-config or SCRYFALL_CONFIG; YAML, JSON, TOML
//     or .env by extension)
//  3. SCRYFALL_* environment variables
//  4. explicit command-line flags
//
// Layers 1 to 3 are read by cleanenv. Flags are defined before parsing so
// that -help lists every knob.
//
// Typical usage:
//
//	cfg, err := config.Load() // os.Args and the process environment
//
// For tests, prefer LoadFromArgs with a private FlagSet:
//
//	fs := flag.NewFlagSet("test", flag.ContinueOnError)
//	cfg, err := config.LoadFromArgs(fs, []string{"-in=cards.json", "-parallelism=4"})
package config

import (
	"flag"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// MaxParallelism is the hard cap on concurrent batch workers.
const MaxParallelism = 50

// ConfigPathEnv names the environment variable consulted when -config is not
// given.
const ConfigPathEnv = "SCRYFALL_CONFIG"

// Metrics backends.
const (
	MetricsNone        = "none"
	MetricsPushgateway = "pushgateway"
)

// Config holds all process configuration. It is a plain value and safe to
// copy after loading.
type Config struct {
	// IO
	InputPath   string `yaml:"input"   json:"input"   toml:"input"   env:"SCRYFALL_INPUT"`   // bulk JSON file, "-" for stdin
	OutputPath  string `yaml:"output"  json:"output"  toml:"output"  env:"SCRYFALL_OUTPUT"`  // SQL script; empty selects DefaultOutputPath
	SkippedPath string `yaml:"skipped" json:"skipped" toml:"skipped" env:"SCRYFALL_SKIPPED"` // optional CSV report of skipped records

	// Throughput
	Parallelism int `yaml:"parallelism" json:"parallelism" toml:"parallelism" env:"SCRYFALL_PARALLELISM" env-default:"1"`
	BatchSize   int `yaml:"batch_size"  json:"batch_size"  toml:"batch_size"  env:"SCRYFALL_BATCH_SIZE"  env-default:"1000"`

	// Output shape
	Schema     string `yaml:"schema"      json:"schema"      toml:"schema"      env:"SCRYFALL_SCHEMA"      env-default:"scryfall"`
	EmitSchema bool   `yaml:"emit_schema" json:"emit_schema" toml:"emit_schema" env:"SCRYFALL_EMIT_SCHEMA" env-default:"false"`

	// Metrics
	Job            string `yaml:"job"             json:"job"             toml:"job"             env:"SCRYFALL_JOB"             env-default:"scryfall-sql"`
	MetricsBackend string `yaml:"metrics_backend" json:"metrics_backend" toml:"metrics_backend" env:"SCRYFALL_METRICS_BACKEND" env-default:"none"`
	PushgatewayURL string `yaml:"pushgateway_url" json:"pushgateway_url" toml:"pushgateway_url" env:"SCRYFALL_PUSHGATEWAY_URL"`

	Verbose bool `yaml:"verbose" json:"verbose" toml:"verbose" env:"SCRYFALL_VERBOSE" env-default:"false"`
}

// Defaults returns the built-in defaults; it matches the env-default tags.
func Defaults() Config {
	return Config{
		Parallelism:    1,
		BatchSize:      1000,
		Schema:         "scryfall",
		Job:            "scryfall-sql",
		MetricsBackend: MetricsNone,
	}
}

// DefaultOutputPath returns output/output-<unix seconds>.sql.
func DefaultOutputPath(now time.Time) string {
	return "output/output-" + strconv.FormatInt(now.Unix(), 10) + ".sql"
}

// Workers returns Parallelism clamped to [1, MaxParallelism].
func (c Config) Workers() int {
	switch {
	case c.Parallelism < 1:
		return 1
	case c.Parallelism > MaxParallelism:
		return MaxParallelism
	}
	return c.Parallelism
}

// bindFlags defines every flag on fs, bound to c and defaulting to c's
// current values.
func bindFlags(fs *flag.FlagSet, c *Config) {
	fs.StringVar(&c.InputPath, "in", c.InputPath, "Path to the Scryfall bulk JSON file (\"-\" for stdin)")
	fs.StringVar(&c.OutputPath, "out", c.OutputPath, "Path of the SQL script to write (default output/output-<epoch>.sql)")
	fs.StringVar(&c.SkippedPath, "skipped", c.SkippedPath, "Optional CSV file listing skipped records")
	fs.IntVar(&c.Parallelism, "parallelism", c.Parallelism, fmt.Sprintf("Concurrent batch workers (max %d)", MaxParallelism))
	fs.IntVar(&c.BatchSize, "batch", c.BatchSize, "Records per batch")
	fs.StringVar(&c.Schema, "schema", c.Schema, "Target schema for tables and enum types")
	fs.BoolVar(&c.EmitSchema, "emit-schema", c.EmitSchema, "Write CREATE SCHEMA/TYPE/TABLE statements before the transaction")
	fs.StringVar(&c.Job, "job", c.Job, "Job name used for metrics grouping")
	fs.StringVar(&c.MetricsBackend, "metrics-backend", c.MetricsBackend, "Metrics backend: none|pushgateway")
	fs.StringVar(&c.PushgatewayURL, "pushgateway-url", c.PushgatewayURL, "Prometheus Pushgateway URL")
	fs.BoolVar(&c.Verbose, "v", c.Verbose, "Verbose per-batch and per-skip logging")
}

// LoadFromArgs defines the flags on fs, parses args, reads the file and
// environment layers with cleanenv, and finally applies the flags that were
// set explicitly. An empty OutputPath is replaced by DefaultOutputPath.
func LoadFromArgs(fs *flag.FlagSet, args []string) (*Config, error) {
	cli := Defaults()
	bindFlags(fs, &cli)
	configPath := fs.String("config", "", "Optional config file (YAML, JSON, TOML or .env); also "+ConfigPathEnv)

	if args == nil {
		args = []string{}
	}
	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	path := *configPath
	if path == "" {
		path = os.Getenv(ConfigPathEnv)
	}

	var cfg Config
	if path != "" {
		if err := cleanenv.ReadConfig(path, &cfg); err != nil {
			return nil, fmt.Errorf("config: read %s: %w", path, err)
		}
	} else if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("config: read env: %w", err)
	}

	// Replay explicit flags over the file and environment layers.
	over := flag.NewFlagSet(fs.Name(), flag.ContinueOnError)
	bindFlags(over, &cfg)
	var setErr error
	fs.Visit(func(f *flag.Flag) {
		if setErr != nil || f.Name == "config" {
			return
		}
		if err := over.Set(f.Name, f.Value.String()); err != nil {
			setErr = fmt.Errorf("config: flag -%s: %w", f.Name, err)
		}
	})
	if setErr != nil {
		return nil, setErr
	}

	if cfg.OutputPath == "" {
		cfg.OutputPath = DefaultOutputPath(time.Now())
	}
	return &cfg, nil
}

// Load is the production entry point: flag.CommandLine and os.Args[1:].
func Load() (*Config, error) {
	return LoadFromArgs(flag.CommandLine, os.Args[1:])
}
