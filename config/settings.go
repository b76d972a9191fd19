package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/morikuni/failure/v2"
)

// Port bounds for the bridge listeners. Anything below 1024 would need
// elevated privileges; anything above 65535 is not a port.
const (
	MinPort = 1024
	MaxPort = 65535
)

// Defaults for a fresh settings file.
const (
	DefaultCommandPort      = 6400
	DefaultStatePort        = 6401
	DefaultBindAddress      = "127.0.0.1"
	DefaultSocketTimeout    = 60 * time.Second
	DefaultStateSendTimeout = 5 * time.Second
)

// Settings is the bridge configuration. It is loaded once at startup and
// passed explicitly into the components that need it.
type Settings struct {
	// CommandPort is the TCP port the command listener binds to.
	CommandPort int `json:"commandPort"`

	// StatePort is the TCP port the state publisher binds to.
	StatePort int `json:"statePort"`

	// BindAddress is the address both listeners bind to.
	BindAddress string `json:"bindAddress"`

	// SocketTimeout bounds reads on a command connection, in seconds.
	SocketTimeoutSec int `json:"socketTimeout"`

	// StateSendTimeoutSec bounds writes to a state subscriber, in seconds.
	StateSendTimeoutSec int `json:"stateSendTimeout"`
}

// DefaultSettings returns a settings value with every field at its default.
func DefaultSettings() Settings {
	return Settings{
		CommandPort:         DefaultCommandPort,
		StatePort:           DefaultStatePort,
		BindAddress:         DefaultBindAddress,
		SocketTimeoutSec:    int(DefaultSocketTimeout / time.Second),
		StateSendTimeoutSec: int(DefaultStateSendTimeout / time.Second),
	}
}

// SocketTimeout returns the read timeout as a duration.
func (s Settings) SocketTimeout() time.Duration {
	return time.Duration(s.SocketTimeoutSec) * time.Second
}

// StateSendTimeout returns the state write timeout as a duration.
func (s Settings) StateSendTimeout() time.Duration {
	return time.Duration(s.StateSendTimeoutSec) * time.Second
}

// ManagementPort is the HTTP management port, derived from the command port.
func (s Settings) ManagementPort() int {
	return s.CommandPort + 1
}

// CommandAddr returns the command listener address in host:port form.
func (s Settings) CommandAddr() string {
	return fmt.Sprintf("%s:%d", s.BindAddress, s.CommandPort)
}

// StateAddr returns the state publisher address in host:port form.
func (s Settings) StateAddr() string {
	return fmt.Sprintf("%s:%d", s.BindAddress, s.StatePort)
}

// Validate normalizes the settings in place and returns human-readable
// warnings for conditions that are suspicious but not fatal. Ports are
// clamped into [MinPort, MaxPort], timeouts are floored at one second, and
// an empty bind address falls back to the default. Equal command and state
// ports produce a warning but both values are kept.
func (s *Settings) Validate() []string {
	var warnings []string

	if clamped := clampPort(s.CommandPort); clamped != s.CommandPort {
		warnings = append(warnings, fmt.Sprintf("commandPort %d out of range, clamped to %d", s.CommandPort, clamped))
		s.CommandPort = clamped
	}
	if clamped := clampPort(s.StatePort); clamped != s.StatePort {
		warnings = append(warnings, fmt.Sprintf("statePort %d out of range, clamped to %d", s.StatePort, clamped))
		s.StatePort = clamped
	}
	if s.CommandPort == s.StatePort {
		warnings = append(warnings, fmt.Sprintf("commandPort and statePort are both %d; the listeners cannot share a port", s.CommandPort))
	}
	if s.BindAddress == "" {
		s.BindAddress = DefaultBindAddress
	}
	if s.SocketTimeoutSec < 1 {
		s.SocketTimeoutSec = 1
	}
	if s.StateSendTimeoutSec < 1 {
		s.StateSendTimeoutSec = 1
	}

	return warnings
}

func clampPort(p int) int {
	if p < MinPort {
		return MinPort
	}
	if p > MaxPort {
		return MaxPort
	}
	return p
}

// LoadSettings reads settings from path. A missing file is not an error:
// the parent directories are created, defaults are persisted there, and the
// defaults are returned. Loaded settings are always validated; warnings are
// returned alongside so the caller can log them.
func LoadSettings(path string) (Settings, []string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			s := DefaultSettings()
			if err := SaveSettings(path, s); err != nil {
				return Settings{}, nil, err
			}
			return s, nil, nil
		}
		return Settings{}, nil, failure.Translate(err, ReadFailed,
			failure.Message("Failed to read settings file"),
			failure.Context{"path": path},
		)
	}

	var s Settings
	if err := json.Unmarshal(data, &s); err != nil {
		return Settings{}, nil, failure.Translate(err, ParseFailed,
			failure.Message("Failed to parse settings file"),
			failure.Context{"path": path},
		)
	}

	warnings := s.Validate()
	return s, warnings, nil
}

// SaveSettings validates s and writes it to path, creating parent
// directories as needed.
func SaveSettings(path string, s Settings) error {
	s.Validate()

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return failure.Translate(err, WriteFailed,
			failure.Message("Failed to create settings directory"),
			failure.Context{"path": path},
		)
	}

	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return failure.Translate(err, WriteFailed)
	}
	data = append(data, '\n')

	if err := os.WriteFile(path, data, 0644); err != nil {
		return failure.Translate(err, WriteFailed,
			failure.Message("Failed to write settings file"),
			failure.Context{"path": path},
		)
	}
	return nil
}
