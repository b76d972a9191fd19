package config

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/morikuni/failure/v2"
	"github.com/samber/lo"
)

// Historical spellings of the server entry key inside umcpServers. Older
// setup tooling wrote "unityMCP"; newer files use "umcp". Readers accept
// both; writers preserve whichever key a file already has and use KeyUMCP
// for new files.
const (
	KeyUnityMCP = "unityMCP"
	KeyUMCP     = "umcp"
)

// serverKeys in lookup order.
var serverKeys = []string{KeyUMCP, KeyUnityMCP}

// ServerEntry is the launch description an MCP client uses to start the
// bridge: the command to run and its arguments.
type ServerEntry struct {
	Command string   `json:"command"`
	Args    []string `json:"args"`
}

// ClientConfig mirrors the external client config file:
//
//	{"umcpServers": {"umcp": {"command": ..., "args": [...]}}}
type ClientConfig struct {
	Servers map[string]ServerEntry `json:"umcpServers"`
}

// Entry returns the bridge server entry and the key it was found under.
func (c *ClientConfig) Entry() (ServerEntry, string, bool) {
	for _, key := range serverKeys {
		if entry, ok := c.Servers[key]; ok {
			return entry, key, true
		}
	}
	return ServerEntry{}, "", false
}

// SetEntry stores entry under the key already present in the file, or under
// KeyUMCP when neither spelling exists yet.
func (c *ClientConfig) SetEntry(entry ServerEntry) string {
	if c.Servers == nil {
		c.Servers = make(map[string]ServerEntry)
	}
	key, ok := lo.Find(serverKeys, func(k string) bool {
		_, present := c.Servers[k]
		return present
	})
	if !ok {
		key = KeyUMCP
	}
	c.Servers[key] = entry
	return key
}

// LoadClientConfig reads a client config file. A missing file yields an
// empty config rather than an error so callers can install into it.
func LoadClientConfig(path string) (*ClientConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &ClientConfig{Servers: make(map[string]ServerEntry)}, nil
		}
		return nil, failure.Translate(err, ReadFailed,
			failure.Message("Failed to read client config"),
			failure.Context{"path": path},
		)
	}

	var cfg ClientConfig
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, failure.Translate(err, ParseFailed,
			failure.Message("Failed to parse client config"),
			failure.Context{"path": path},
		)
	}
	if cfg.Servers == nil {
		cfg.Servers = make(map[string]ServerEntry)
	}
	return &cfg, nil
}

// SaveClientConfig writes cfg to path, creating parent directories.
func SaveClientConfig(path string, cfg *ClientConfig) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return failure.Translate(err, WriteFailed,
			failure.Message("Failed to create client config directory"),
			failure.Context{"path": path},
		)
	}

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return failure.Translate(err, WriteFailed)
	}
	data = append(data, '\n')

	if err := os.WriteFile(path, data, 0644); err != nil {
		return failure.Translate(err, WriteFailed,
			failure.Message("Failed to write client config"),
			failure.Context{"path": path},
		)
	}
	return nil
}

// Install writes (or updates) the bridge entry in the client config at
// path. The key used is returned for reporting.
func Install(path string, entry ServerEntry) (string, error) {
	cfg, err := LoadClientConfig(path)
	if err != nil {
		return "", err
	}
	key := cfg.SetEntry(entry)
	if err := SaveClientConfig(path, cfg); err != nil {
		return "", err
	}
	return key, nil
}
