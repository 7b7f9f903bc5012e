package config

import (
	"encoding/json"
	"os"
	"sync"
	"time"

	"github.com/bassamadnan/mailsort/classify"
)

// Settings controls how many messages are fetched and how the classifier
// paces its calls to the model endpoint.
type Settings struct {
	MaxResults         int64    `json:"maxResults"`
	Models             []string `json:"models"`
	ItemDelayMs        int      `json:"itemDelayMs"`
	RateLimitBackoffMs int      `json:"rateLimitBackoffMs"`
}

// ItemDelay is the pause inserted between messages of a batch.
func (s Settings) ItemDelay() time.Duration {
	return time.Duration(s.ItemDelayMs) * time.Millisecond
}

// RateLimitBackoff is the pause taken after a rate-limited model attempt.
func (s Settings) RateLimitBackoff() time.Duration {
	return time.Duration(s.RateLimitBackoffMs) * time.Millisecond
}

func defaultSettings() *Settings {
	return &Settings{
		MaxResults:         15,
		Models:             append([]string(nil), classify.DefaultModels...),
		ItemDelayMs:        500,
		RateLimitBackoffMs: 1000,
	}
}

// Manager handles loading, saving, and accessing settings.
type Manager struct {
	filePath string
	settings *Settings
	mu       sync.RWMutex
}

// NewManager creates a settings manager backed by the given JSON file. A
// missing file is created with defaults.
func NewManager(filePath string) (*Manager, error) {
	m := &Manager{
		filePath: filePath,
		settings: defaultSettings(),
	}
	if err := m.LoadSettings(); err != nil {
		return nil, err
	}
	return m, nil
}

// LoadSettings loads settings from the JSON file, creating it with defaults
// when absent.
func (m *Manager) LoadSettings() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	data, err := os.ReadFile(m.filePath)
	if err != nil {
		if os.IsNotExist(err) {
			m.settings = defaultSettings()
			return m.saveSettings()
		}
		return err
	}

	settings := defaultSettings()
	if err := json.Unmarshal(data, settings); err != nil {
		return err
	}
	m.settings = settings
	return nil
}

// saveSettings writes the current settings to the JSON file.
func (m *Manager) saveSettings() error {
	data, err := json.MarshalIndent(m.settings, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(m.filePath, data, 0644)
}

// Get returns a copy of the current settings.
func (m *Manager) Get() Settings {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s := *m.settings
	s.Models = append([]string(nil), m.settings.Models...)
	return s
}
