package config

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// EnvPrefix is the prefix for environment overrides, e.g.
// GROUPSENSE_PROBE_TIMEOUT_MS.
const EnvPrefix = "GROUPSENSE"

// Config represents the complete groupsense configuration
type Config struct {
	Probe     ProbeConfig     `mapstructure:"probe" yaml:"probe"`
	Transport TransportConfig `mapstructure:"transport" yaml:"transport"`
	Room      RoomConfig      `mapstructure:"room" yaml:"room"`
	History   HistoryConfig   `mapstructure:"history" yaml:"history"`
	Logging   LoggingConfig   `mapstructure:"logging" yaml:"logging"`
	TUI       TUIConfig       `mapstructure:"tui" yaml:"tui"`
}

// ProbeConfig controls the active group probe
type ProbeConfig struct {
	// Command is sent to the server to request a membership listing (default: "group")
	Command string `mapstructure:"command" yaml:"command"`
	// TimeoutMs bounds how long a probe waits for the status line (default: 3000)
	TimeoutMs int `mapstructure:"timeout_ms" yaml:"timeout_ms"`
	// IntervalSeconds re-probes an unchecked group periodically while connected.
	// 0 disables periodic probing.
	IntervalSeconds int `mapstructure:"interval_seconds" yaml:"interval_seconds"`
}

// Timeout returns the probe timeout as a time.Duration
func (c *ProbeConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutMs) * time.Millisecond
}

// Interval returns the periodic probe interval (0 means disabled)
func (c *ProbeConfig) Interval() time.Duration {
	return time.Duration(c.IntervalSeconds) * time.Second
}

// TransportConfig selects where server output comes from and where commands go
type TransportConfig struct {
	// Kind is one of: stdin, file, follow, tcp, websocket, exec (default: "stdin")
	Kind string `mapstructure:"kind" yaml:"kind"`
	// Path is the client log for file and follow
	Path string `mapstructure:"path" yaml:"path"`
	// FromStart makes follow replay the existing log before tailing
	FromStart bool `mapstructure:"from_start" yaml:"from_start"`
	// Address is host:port for tcp
	Address string `mapstructure:"address" yaml:"address"`
	// URL is the ws:// or wss:// relay for websocket
	URL string `mapstructure:"url" yaml:"url"`
	// ExecCommand is the client command line for exec, split on whitespace
	ExecCommand string `mapstructure:"exec_command" yaml:"exec_command"`
	// TmuxTarget is the pane running the client, for sending commands in
	// stdin, file and follow modes
	TmuxTarget string `mapstructure:"tmux_target" yaml:"tmux_target"`
	// TmuxSocket selects a tmux server started with -L; empty is the default server
	TmuxSocket string `mapstructure:"tmux_socket" yaml:"tmux_socket"`
	// DialTimeoutMs bounds connection setup for tcp and websocket (default: 10000)
	DialTimeoutMs int `mapstructure:"dial_timeout_ms" yaml:"dial_timeout_ms"`
}

// DialTimeout returns the dial timeout as a time.Duration
func (c *TransportConfig) DialTimeout() time.Duration {
	return time.Duration(c.DialTimeoutMs) * time.Millisecond
}

// ExecArgs splits ExecCommand into an argument vector
func (c *TransportConfig) ExecArgs() []string {
	return strings.Fields(c.ExecCommand)
}

// RoomConfig controls passive room tracking
type RoomConfig struct {
	// Enabled feeds lines to the room watcher so broken groups can be detected (default: true)
	Enabled bool `mapstructure:"enabled" yaml:"enabled"`
}

// HistoryConfig controls the recent-line buffer
type HistoryConfig struct {
	// Lines is how many recent server lines are kept for display (default: 200)
	Lines int `mapstructure:"lines" yaml:"lines"`
}

// LoggingConfig controls debug logging behavior
type LoggingConfig struct {
	// Enabled controls whether logging is written to a file (default: true)
	Enabled bool `mapstructure:"enabled" yaml:"enabled"`
	// Level is the log level: "debug", "info", "warn", "error" (default: "info")
	Level string `mapstructure:"level" yaml:"level"`
	// Dir is the log directory. Empty means the state directory.
	Dir string `mapstructure:"dir" yaml:"dir"`
	// MaxSizeMB is the maximum log file size in megabytes before rotation (default: 10)
	MaxSizeMB int `mapstructure:"max_size_mb" yaml:"max_size_mb"`
	// MaxBackups is the number of backup log files to keep (default: 3)
	MaxBackups int `mapstructure:"max_backups" yaml:"max_backups"`
	// Compress gzips rotated log files (default: false)
	Compress bool `mapstructure:"compress" yaml:"compress"`
}

// TUIConfig controls the terminal UI
type TUIConfig struct {
	// Enabled shows the live panel when stdout is a terminal (default: true)
	Enabled bool `mapstructure:"enabled" yaml:"enabled"`
	// RefreshMs is the redraw interval (default: 500)
	RefreshMs int `mapstructure:"refresh_ms" yaml:"refresh_ms"`
	// HistoryRows is how many recent lines the panel shows (default: 10)
	HistoryRows int `mapstructure:"history_rows" yaml:"history_rows"`
}

// Refresh returns the redraw interval as a time.Duration
func (c *TUIConfig) Refresh() time.Duration {
	return time.Duration(c.RefreshMs) * time.Millisecond
}

// Default returns a Config with sensible default values
func Default() *Config {
	return &Config{
		Probe: ProbeConfig{
			Command:         "group",
			TimeoutMs:       3000,
			IntervalSeconds: 0,
		},
		Transport: TransportConfig{
			Kind:          "stdin",
			DialTimeoutMs: 10000,
		},
		Room: RoomConfig{
			Enabled: true,
		},
		History: HistoryConfig{
			Lines: 200,
		},
		Logging: LoggingConfig{
			Enabled:    true,
			Level:      "info",
			MaxSizeMB:  10,
			MaxBackups: 3,
		},
		TUI: TUIConfig{
			Enabled:     true,
			RefreshMs:   500,
			HistoryRows: 10,
		},
	}
}

// SetDefaults registers default values with viper
func SetDefaults() {
	defaults := Default()

	// Probe defaults
	viper.SetDefault("probe.command", defaults.Probe.Command)
	viper.SetDefault("probe.timeout_ms", defaults.Probe.TimeoutMs)
	viper.SetDefault("probe.interval_seconds", defaults.Probe.IntervalSeconds)

	// Transport defaults
	viper.SetDefault("transport.kind", defaults.Transport.Kind)
	viper.SetDefault("transport.path", defaults.Transport.Path)
	viper.SetDefault("transport.from_start", defaults.Transport.FromStart)
	viper.SetDefault("transport.address", defaults.Transport.Address)
	viper.SetDefault("transport.url", defaults.Transport.URL)
	viper.SetDefault("transport.exec_command", defaults.Transport.ExecCommand)
	viper.SetDefault("transport.tmux_target", defaults.Transport.TmuxTarget)
	viper.SetDefault("transport.tmux_socket", defaults.Transport.TmuxSocket)
	viper.SetDefault("transport.dial_timeout_ms", defaults.Transport.DialTimeoutMs)

	// Room defaults
	viper.SetDefault("room.enabled", defaults.Room.Enabled)

	// History defaults
	viper.SetDefault("history.lines", defaults.History.Lines)

	// Logging defaults
	viper.SetDefault("logging.enabled", defaults.Logging.Enabled)
	viper.SetDefault("logging.level", defaults.Logging.Level)
	viper.SetDefault("logging.dir", defaults.Logging.Dir)
	viper.SetDefault("logging.max_size_mb", defaults.Logging.MaxSizeMB)
	viper.SetDefault("logging.max_backups", defaults.Logging.MaxBackups)
	viper.SetDefault("logging.compress", defaults.Logging.Compress)

	// TUI defaults
	viper.SetDefault("tui.enabled", defaults.TUI.Enabled)
	viper.SetDefault("tui.refresh_ms", defaults.TUI.RefreshMs)
	viper.SetDefault("tui.history_rows", defaults.TUI.HistoryRows)
}

// BindEnv makes every key overridable from GROUPSENSE_* environment variables
func BindEnv() {
	viper.SetEnvPrefix(EnvPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()
}

// Load reads the configuration from viper into a Config struct and validates it
func Load() (*Config, error) {
	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	if errs := cfg.Validate(); len(errs) > 0 {
		return nil, ValidationErrors(errs)
	}

	return &cfg, nil
}

// Get returns the current configuration (convenience function)
func Get() *Config {
	cfg, err := Load()
	if err != nil {
		return Default()
	}
	return cfg
}

// ConfigDir returns the path to the user's config directory
func ConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "groupsense")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ".groupsense"
	}
	return filepath.Join(home, ".config", "groupsense")
}

// ConfigFile returns the path to the config file
func ConfigFile() string {
	return filepath.Join(ConfigDir(), "config.yaml")
}

// StateDir returns the directory for logs and other runtime files
func StateDir() string {
	if xdg := os.Getenv("XDG_STATE_HOME"); xdg != "" {
		return filepath.Join(xdg, "groupsense")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ".groupsense"
	}
	return filepath.Join(home, ".local", "state", "groupsense")
}

// LogDir returns the configured log directory, falling back to StateDir
func (c *LoggingConfig) LogDir() string {
	if c.Dir != "" {
		return c.Dir
	}
	return StateDir()
}
