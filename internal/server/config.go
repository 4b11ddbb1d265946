package server

import (
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
)

const (
	defaultAddress    = "localhost"
	defaultPort       = 8080
	defaultLogLevel   = "info"
	defaultRoundDelay = "10s"
)

// Config represents the complete server configuration
type Config struct {
	Server *ServerSettings `hcl:"server,block"`
	Game   *GameSettings   `hcl:"game,block"`
}

// ServerSettings contains listener and logging configuration
type ServerSettings struct {
	Address  string `hcl:"address,optional"`
	Port     int    `hcl:"port,optional"`
	LogLevel string `hcl:"log_level,optional"`
}

// GameSettings configures the shared table
type GameSettings struct {
	RoundDelay  string `hcl:"round_delay,optional"`
	Seed        *int64 `hcl:"seed,optional"`
	SendBuffer  int    `hcl:"send_buffer,optional"`
	HistorySize int    `hcl:"history_size,optional"`
	HistoryFile string `hcl:"history_file,optional"`
}

// DefaultConfig returns the configuration used when no file is present
func DefaultConfig() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

// LoadConfig loads configuration from an HCL file. A missing file yields the
// defaults.
func LoadConfig(filename string) (*Config, error) {
	src, err := os.ReadFile(filename)
	if os.IsNotExist(err) {
		return DefaultConfig(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}
	return ParseConfig(src, filename)
}

// ParseConfig decodes HCL source and applies defaults for missing values
func ParseConfig(src []byte, filename string) (*Config, error) {
	parser := hclparse.NewParser()
	file, diags := parser.ParseHCL(src, filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL file: %s", diags.Error())
	}

	var cfg Config
	diags = gohcl.DecodeBody(file.Body, nil, &cfg)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode HCL: %s", diags.Error())
	}

	cfg.applyDefaults()
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Server == nil {
		c.Server = &ServerSettings{}
	}
	if c.Game == nil {
		c.Game = &GameSettings{}
	}
	if c.Server.Address == "" {
		c.Server.Address = defaultAddress
	}
	if c.Server.Port == 0 {
		c.Server.Port = defaultPort
	}
	if c.Server.LogLevel == "" {
		c.Server.LogLevel = defaultLogLevel
	}
	if c.Game.RoundDelay == "" {
		c.Game.RoundDelay = defaultRoundDelay
	}
	if c.Game.SendBuffer == 0 {
		c.Game.SendBuffer = defaultSendBuffer
	}
	if c.Game.HistorySize == 0 {
		c.Game.HistorySize = defaultHistorySize
	}
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid port: %d", c.Server.Port)
	}
	if _, err := log.ParseLevel(c.Server.LogLevel); err != nil {
		return fmt.Errorf("invalid log level %q", c.Server.LogLevel)
	}

	delay, err := time.ParseDuration(c.Game.RoundDelay)
	if err != nil {
		return fmt.Errorf("invalid round delay %q: %w", c.Game.RoundDelay, err)
	}
	if delay <= 0 {
		return fmt.Errorf("round delay must be positive, got %s", delay)
	}
	if c.Game.SendBuffer < 1 {
		return fmt.Errorf("send buffer must be positive, got %d", c.Game.SendBuffer)
	}
	if c.Game.HistorySize < 1 {
		return fmt.Errorf("history size must be positive, got %d", c.Game.HistorySize)
	}
	return nil
}

// Address returns the full listen address
func (c *Config) Address() string {
	return fmt.Sprintf("%s:%d", c.Server.Address, c.Server.Port)
}

// RoundDelay returns the parsed round delay. Call Validate first.
func (c *Config) RoundDelay() time.Duration {
	d, _ := time.ParseDuration(c.Game.RoundDelay)
	return d
}

// Level returns the parsed log level, defaulting to info.
func (c *Config) Level() log.Level {
	level, err := log.ParseLevel(c.Server.LogLevel)
	if err != nil {
		return log.InfoLevel
	}
	return level
}
