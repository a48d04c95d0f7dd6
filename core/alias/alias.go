package alias

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"storectl/core/storage"
)

// Alias is a named reference to an S3-compatible endpoint with credentials.
type Alias struct {
	Name      string `json:"name"`
	Endpoint  string `json:"endpoint"`
	AccessKey string `json:"access_key"`
	SecretKey string `json:"secret_key"`
	Region    string `json:"region"`
	// PathStyle forces path-style bucket addressing; self-hosted services
	// generally require it.
	PathStyle bool `json:"path_style"`
}

// StorageConfig resolves the alias into a storage connection configuration.
func (a Alias) StorageConfig() storage.Config {
	return storage.Config{
		Endpoint:       a.Endpoint,
		AccessKey:      a.AccessKey,
		SecretKey:      a.SecretKey,
		UseSSL:         !strings.HasPrefix(a.Endpoint, "http://"),
		Region:         a.Region,
		PathStyle:      a.PathStyle,
		TimeoutSeconds: 30,
	}
}

// Manager loads and persists the alias store.
type Manager struct {
	path    string
	aliases map[string]Alias
}

type storeFile struct {
	Aliases map[string]Alias `json:"aliases"`
}

// NewManager opens the alias store at the default location
// (~/.config/storectl/aliases.json), creating an empty store if absent.
func NewManager() (*Manager, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return nil, fmt.Errorf("failed to resolve config dir: %w", err)
	}
	return NewManagerAt(filepath.Join(dir, "storectl", "aliases.json"))
}

// NewManagerAt opens the alias store at an explicit path.
func NewManagerAt(path string) (*Manager, error) {
	m := &Manager{path: path, aliases: map[string]Alias{}}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return m, nil
		}
		return nil, fmt.Errorf("failed to read alias store: %w", err)
	}

	var file storeFile
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse alias store %s: %w", path, err)
	}
	if file.Aliases != nil {
		m.aliases = file.Aliases
	}
	return m, nil
}

// Get returns the alias by name.
func (m *Manager) Get(name string) (Alias, error) {
	a, ok := m.aliases[name]
	if !ok {
		return Alias{}, fmt.Errorf("alias %q not found", name)
	}
	return a, nil
}

// Set adds or replaces an alias and persists the store.
func (m *Manager) Set(a Alias) error {
	if a.Name == "" {
		return fmt.Errorf("alias name must not be empty")
	}
	if a.Endpoint == "" {
		return fmt.Errorf("alias %q: endpoint must not be empty", a.Name)
	}
	m.aliases[a.Name] = a
	return m.save()
}

// Remove deletes an alias and persists the store.
func (m *Manager) Remove(name string) error {
	if _, ok := m.aliases[name]; !ok {
		return fmt.Errorf("alias %q not found", name)
	}
	delete(m.aliases, name)
	return m.save()
}

// List returns all aliases sorted by name.
func (m *Manager) List() []Alias {
	names := make([]string, 0, len(m.aliases))
	for name := range m.aliases {
		names = append(names, name)
	}
	sort.Strings(names)

	out := make([]Alias, 0, len(names))
	for _, name := range names {
		out = append(out, m.aliases[name])
	}
	return out
}

func (m *Manager) save() error {
	if err := os.MkdirAll(filepath.Dir(m.path), 0o700); err != nil {
		return fmt.Errorf("failed to create config dir: %w", err)
	}

	data, err := json.MarshalIndent(storeFile{Aliases: m.aliases}, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode alias store: %w", err)
	}

	// Credentials live in this file; keep it owner-only.
	if err := os.WriteFile(m.path, data, 0o600); err != nil {
		return fmt.Errorf("failed to write alias store: %w", err)
	}
	return nil
}
