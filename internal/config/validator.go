package config

import (
	"fmt"
	"net"
	"slices"
	"strings"
)

// ValidationError represents a single validation failure
type ValidationError struct {
	Field   string // The config field path (e.g., "probe.timeout_ms")
	Value   any    // The invalid value
	Message string // Human-readable error description
}

// Error implements the error interface for ValidationError
func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s (got: %v)", e.Field, e.Message, e.Value)
}

// ValidationErrors is a collection of validation errors
type ValidationErrors []ValidationError

// Error implements the error interface for ValidationErrors
func (e ValidationErrors) Error() string {
	if len(e) == 0 {
		return ""
	}
	if len(e) == 1 {
		return e[0].Error()
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%d validation errors:\n", len(e)))
	for i, err := range e {
		sb.WriteString(fmt.Sprintf("  %d. %s\n", i+1, err.Error()))
	}
	return sb.String()
}

// ValidLogLevels returns the list of valid log levels
func ValidLogLevels() []string {
	return []string{"debug", "info", "warn", "error"}
}

// ValidTransportKinds returns the list of valid transport kinds.
// These must match the kinds accepted by session.Open (kept separate so
// config has no internal imports).
func ValidTransportKinds() []string {
	return []string{"stdin", "file", "follow", "tcp", "websocket", "exec"}
}

// Validate checks the Config for invalid values and returns all validation errors found
func (c *Config) Validate() []ValidationError {
	var errors []ValidationError

	errors = append(errors, c.validateProbe()...)
	errors = append(errors, c.validateTransport()...)
	errors = append(errors, c.validateHistory()...)
	errors = append(errors, c.validateLogging()...)
	errors = append(errors, c.validateTUI()...)

	return errors
}

// validateProbe validates the ProbeConfig
func (c *Config) validateProbe() []ValidationError {
	var errors []ValidationError

	if strings.TrimSpace(c.Probe.Command) == "" {
		errors = append(errors, ValidationError{
			Field:   "probe.command",
			Value:   c.Probe.Command,
			Message: "must not be empty",
		})
	} else if strings.ContainsAny(c.Probe.Command, "\r\n") {
		errors = append(errors, ValidationError{
			Field:   "probe.command",
			Value:   c.Probe.Command,
			Message: "must be a single line",
		})
	}

	const maxProbeTimeoutMs = 60000
	if c.Probe.TimeoutMs <= 0 {
		errors = append(errors, ValidationError{
			Field:   "probe.timeout_ms",
			Value:   c.Probe.TimeoutMs,
			Message: "must be positive",
		})
	} else if c.Probe.TimeoutMs > maxProbeTimeoutMs {
		errors = append(errors, ValidationError{
			Field:   "probe.timeout_ms",
			Value:   c.Probe.TimeoutMs,
			Message: fmt.Sprintf("exceeds maximum of %dms", maxProbeTimeoutMs),
		})
	}

	if c.Probe.IntervalSeconds < 0 {
		errors = append(errors, ValidationError{
			Field:   "probe.interval_seconds",
			Value:   c.Probe.IntervalSeconds,
			Message: "must be non-negative",
		})
	}

	return errors
}

// validateTransport validates the TransportConfig, including the fields the
// selected kind requires
func (c *Config) validateTransport() []ValidationError {
	var errors []ValidationError
	t := c.Transport

	if !slices.Contains(ValidTransportKinds(), t.Kind) {
		errors = append(errors, ValidationError{
			Field:   "transport.kind",
			Value:   t.Kind,
			Message: fmt.Sprintf("must be one of: %s", strings.Join(ValidTransportKinds(), ", ")),
		})
		return errors
	}

	switch t.Kind {
	case "file", "follow":
		if t.Path == "" {
			errors = append(errors, ValidationError{
				Field:   "transport.path",
				Value:   t.Path,
				Message: fmt.Sprintf("is required for %s", t.Kind),
			})
		}
	case "tcp":
		if _, _, err := net.SplitHostPort(t.Address); err != nil {
			errors = append(errors, ValidationError{
				Field:   "transport.address",
				Value:   t.Address,
				Message: "must be host:port",
			})
		}
	case "websocket":
		if !strings.HasPrefix(t.URL, "ws://") && !strings.HasPrefix(t.URL, "wss://") {
			errors = append(errors, ValidationError{
				Field:   "transport.url",
				Value:   t.URL,
				Message: "must start with ws:// or wss://",
			})
		}
	case "exec":
		if len(t.ExecArgs()) == 0 {
			errors = append(errors, ValidationError{
				Field:   "transport.exec_command",
				Value:   t.ExecCommand,
				Message: "is required for exec",
			})
		}
	}

	if t.TmuxSocket != "" && t.TmuxTarget == "" {
		errors = append(errors, ValidationError{
			Field:   "transport.tmux_socket",
			Value:   t.TmuxSocket,
			Message: "requires transport.tmux_target",
		})
	}

	if t.DialTimeoutMs < 0 {
		errors = append(errors, ValidationError{
			Field:   "transport.dial_timeout_ms",
			Value:   t.DialTimeoutMs,
			Message: "must be non-negative",
		})
	}

	return errors
}

// validateHistory validates the HistoryConfig
func (c *Config) validateHistory() []ValidationError {
	var errors []ValidationError

	const maxHistoryLines = 100000
	if c.History.Lines <= 0 {
		errors = append(errors, ValidationError{
			Field:   "history.lines",
			Value:   c.History.Lines,
			Message: "must be positive",
		})
	} else if c.History.Lines > maxHistoryLines {
		errors = append(errors, ValidationError{
			Field:   "history.lines",
			Value:   c.History.Lines,
			Message: fmt.Sprintf("exceeds maximum of %d", maxHistoryLines),
		})
	}

	return errors
}

// validateLogging validates the LoggingConfig
func (c *Config) validateLogging() []ValidationError {
	var errors []ValidationError

	if c.Logging.Level != "" && !slices.Contains(ValidLogLevels(), c.Logging.Level) {
		errors = append(errors, ValidationError{
			Field:   "logging.level",
			Value:   c.Logging.Level,
			Message: fmt.Sprintf("must be one of: %s", strings.Join(ValidLogLevels(), ", ")),
		})
	}

	if c.Logging.MaxSizeMB <= 0 {
		errors = append(errors, ValidationError{
			Field:   "logging.max_size_mb",
			Value:   c.Logging.MaxSizeMB,
			Message: "must be positive",
		})
	}

	const maxLogSizeMB = 1000 // 1GB
	if c.Logging.MaxSizeMB > maxLogSizeMB {
		errors = append(errors, ValidationError{
			Field:   "logging.max_size_mb",
			Value:   c.Logging.MaxSizeMB,
			Message: fmt.Sprintf("exceeds maximum of %dMB", maxLogSizeMB),
		})
	}

	if c.Logging.MaxBackups < 0 {
		errors = append(errors, ValidationError{
			Field:   "logging.max_backups",
			Value:   c.Logging.MaxBackups,
			Message: "must be non-negative",
		})
	}

	return errors
}

// validateTUI validates the TUIConfig
func (c *Config) validateTUI() []ValidationError {
	var errors []ValidationError

	const minRefreshMs = 50
	if c.TUI.RefreshMs < minRefreshMs {
		errors = append(errors, ValidationError{
			Field:   "tui.refresh_ms",
			Value:   c.TUI.RefreshMs,
			Message: fmt.Sprintf("must be at least %dms", minRefreshMs),
		})
	}

	if c.TUI.HistoryRows < 0 {
		errors = append(errors, ValidationError{
			Field:   "tui.history_rows",
			Value:   c.TUI.HistoryRows,
			Message: "must be non-negative",
		})
	}

	return errors
}
