// Package config merges ChillMCP settings from defaults, an optional YAML
// file, the environment and command-line flags, in that order of precedence.
package config

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"math"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"

	"github.com/vthunder/chillmcp/internal/gauge"
	"github.com/vthunder/chillmcp/internal/otel"
)

const (
	TransportStdio = "stdio"
	TransportSSE   = "sse"
)

var (
	ErrInvalidTransport = errors.New("transport must be stdio or sse")
	ErrCooldownTooLong  = errors.New("boss alertness cooldown is too long")
)

// maxCooldownSeconds is the longest cooldown a time.Duration can hold.
const maxCooldownSeconds = math.MaxInt64 / int64(time.Second)

// Config is the merged startup configuration
type Config struct {
	// BossAlertness is the chance, in percent, that a break raises the alert.
	BossAlertness int `yaml:"boss_alertness" env:"CHILL_BOSS_ALERTNESS"`
	// BossAlertnessCooldown is the alert cooldown in seconds.
	BossAlertnessCooldown int `yaml:"boss_alertness_cooldown" env:"CHILL_BOSS_ALERTNESS_COOLDOWN"`

	Transport   string `yaml:"transport" env:"CHILL_TRANSPORT"`
	SSEAddr     string `yaml:"sse_addr" env:"CHILL_SSE_ADDR"`
	ActivityLog string `yaml:"activity_log" env:"CHILL_ACTIVITY_LOG"`

	Telemetry Telemetry `yaml:"telemetry" envPrefix:"CHILL_OTEL_"`
}

// Telemetry configures OpenTelemetry export
type Telemetry struct {
	Enabled  bool   `yaml:"enabled" env:"ENABLED"`
	Exporter string `yaml:"exporter" env:"EXPORTER"`
	Endpoint string `yaml:"endpoint" env:"ENDPOINT"`

	// MetricInterval is how often metrics are exported, e.g. "30s".
	MetricInterval time.Duration `yaml:"metric_interval" env:"METRIC_INTERVAL"`
}

// Default returns the built-in settings
func Default() Config {
	return Config{
		BossAlertness:         50,
		BossAlertnessCooldown: 300,
		Transport:             TransportStdio,
		SSEAddr:               ":8080",
	}
}

// Load builds the configuration for a process started with args (without
// the program name). It returns flag.ErrHelp when -h was requested.
func Load(args []string) (Config, error) {
	return load(args, os.Stderr)
}

func load(args []string, usage io.Writer) (Config, error) {
	cfg := Default()

	fs := flag.NewFlagSet("chill-mcp", flag.ContinueOnError)
	fs.SetOutput(usage)
	configPath := fs.String("config", os.Getenv("CHILL_CONFIG"), "Path to a YAML config file")
	alertness := fs.Int("boss_alertness", cfg.BossAlertness, "Boss alertness increase probability (0-100, percentage)")
	cooldown := fs.Int("boss_alertness_cooldown", cfg.BossAlertnessCooldown, "Boss Alert Level auto-decrease interval (seconds)")
	transport := fs.String("transport", cfg.Transport, "MCP transport: stdio or sse")
	sseAddr := fs.String("sse_addr", cfg.SSEAddr, "Listen address for the sse transport")
	activityLog := fs.String("activity_log", cfg.ActivityLog, "Path of the JSONL activity journal (empty disables it)")
	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	if *configPath != "" {
		if err := loadFile(*configPath, &cfg); err != nil {
			return Config{}, err
		}
	}

	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}

	// Only flags given explicitly override the file and environment.
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "boss_alertness":
			cfg.BossAlertness = *alertness
		case "boss_alertness_cooldown":
			cfg.BossAlertnessCooldown = *cooldown
		case "transport":
			cfg.Transport = *transport
		case "sse_addr":
			cfg.SSEAddr = *sseAddr
		case "activity_log":
			cfg.ActivityLog = *activityLog
		}
	})

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func loadFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}
	return nil
}

// Validate rejects settings the server cannot start with. Nothing is clamped.
func (c Config) Validate() error {
	if int64(c.BossAlertnessCooldown) > maxCooldownSeconds {
		return fmt.Errorf("%w: at most %d seconds (got %d)",
			ErrCooldownTooLong, maxCooldownSeconds, c.BossAlertnessCooldown)
	}
	if err := c.Gauge().Validate(); err != nil {
		return err
	}
	if c.Transport != TransportStdio && c.Transport != TransportSSE {
		return fmt.Errorf("%w (got %q)", ErrInvalidTransport, c.Transport)
	}
	return nil
}

// Gauge returns the state controller settings
func (c Config) Gauge() gauge.Config {
	return gauge.Config{
		AlertRiseProbability: c.BossAlertness,
		AlertCooldown:        time.Duration(c.BossAlertnessCooldown) * time.Second,
	}
}

// OTel returns the telemetry settings for the given server version
func (c Config) OTel(version string) otel.Config {
	return otel.Config{
		Enabled:  c.Telemetry.Enabled,
		Exporter: c.Telemetry.Exporter,
		Endpoint: c.Telemetry.Endpoint,
		Version:  version,

		MetricInterval: c.Telemetry.MetricInterval,
	}
}
