package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewManagerCreatesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.json")

	m, err := NewManager(path)
	require.NoError(t, err)

	s := m.Get()
	assert.Equal(t, int64(15), s.MaxResults)
	assert.Equal(t, []string{"gemini-2.0-flash", "gemini-1.5-pro"}, s.Models)
	assert.Equal(t, 500*time.Millisecond, s.ItemDelay())
	assert.Equal(t, time.Second, s.RateLimitBackoff())

	// The defaults were persisted for the next run.
	_, err = os.Stat(path)
	assert.NoError(t, err)
}

func TestNewManagerReadsExistingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.json")
	contents := `{"maxResults": 5, "models": ["gemini-2.0-flash"], "itemDelayMs": 100, "rateLimitBackoffMs": 200}`
	require.NoError(t, os.WriteFile(path, []byte(contents), 0644))

	m, err := NewManager(path)
	require.NoError(t, err)

	s := m.Get()
	assert.Equal(t, int64(5), s.MaxResults)
	assert.Equal(t, []string{"gemini-2.0-flash"}, s.Models)
	assert.Equal(t, 100*time.Millisecond, s.ItemDelay())
	assert.Equal(t, 200*time.Millisecond, s.RateLimitBackoff())
}

func TestGetReturnsCopy(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.json")
	m, err := NewManager(path)
	require.NoError(t, err)

	s := m.Get()
	s.Models[0] = "mutated"
	assert.Equal(t, "gemini-2.0-flash", m.Get().Models[0])
}

func TestNewManagerRejectsMalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0644))

	_, err := NewManager(path)
	assert.Error(t, err)
}
