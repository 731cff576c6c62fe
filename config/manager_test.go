package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestNewManager_NoConfigFile(t *testing.T) {
	tmpDir := t.TempDir()
	configFile := filepath.Join(tmpDir, "config.yaml")

	mgr, err := NewManager(configFile)
	require.NoError(t, err)
	require.NotNil(t, mgr)

	assert.Equal(t, configFile, mgr.ConfigPath())
	assert.Equal(t, "standard", mgr.Get("approval.mode"))
	assert.Equal(t, 120, mgr.Get("approval.timeout_seconds"))
}

func TestNewManager_WithExistingConfig(t *testing.T) {
	tmpDir := t.TempDir()
	configFile := filepath.Join(tmpDir, "config.yaml")

	configContent := `
approval:
  mode: trusted
  timeout_seconds: 15
`
	require.NoError(t, os.WriteFile(configFile, []byte(configContent), 0644))

	mgr, err := NewManager(configFile)
	require.NoError(t, err)

	assert.Equal(t, "trusted", mgr.Get("approval.mode"))
	assert.Equal(t, 15, mgr.Get("approval.timeout_seconds"))
}

func TestManager_SetPersists(t *testing.T) {
	tmpDir := t.TempDir()
	configFile := filepath.Join(tmpDir, "nested", "config.yaml")

	mgr, err := NewManager(configFile)
	require.NoError(t, err)

	require.NoError(t, mgr.Set("approval.mode", "strict"))

	// File exists and contains the value.
	data, err := os.ReadFile(configFile)
	require.NoError(t, err)

	var onDisk map[string]interface{}
	require.NoError(t, yaml.Unmarshal(data, &onDisk))

	approval, ok := onDisk["approval"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "strict", approval["mode"])

	// A fresh manager sees the persisted value.
	mgr2, err := NewManager(configFile)
	require.NoError(t, err)
	assert.Equal(t, "strict", mgr2.Get("approval.mode"))
}

func TestManager_Reset(t *testing.T) {
	tmpDir := t.TempDir()
	configFile := filepath.Join(tmpDir, "config.yaml")

	mgr, err := NewManager(configFile)
	require.NoError(t, err)

	require.NoError(t, mgr.Set("approval.mode", "trusted"))
	require.NoError(t, mgr.Reset())

	_, err = os.Stat(configFile)
	assert.True(t, os.IsNotExist(err))
	assert.Equal(t, "standard", mgr.Get("approval.mode"))
}

func TestManager_Config(t *testing.T) {
	tmpDir := t.TempDir()
	configFile := filepath.Join(tmpDir, "config.yaml")

	mgr, err := NewManager(configFile)
	require.NoError(t, err)

	cfg, err := mgr.Config()
	require.NoError(t, err)
	assert.Equal(t, ModeStandard, cfg.Approval.Mode)

	require.NoError(t, mgr.Set("approval.mode", "yolo"))
	_, err = mgr.Config()
	require.Error(t, err)
}

func TestManager_HasKey(t *testing.T) {
	tmpDir := t.TempDir()
	mgr, err := NewManager(filepath.Join(tmpDir, "config.yaml"))
	require.NoError(t, err)

	assert.True(t, mgr.HasKey("approval.mode"))
	assert.False(t, mgr.HasKey("does.not.exist"))
}

func TestParseValue(t *testing.T) {
	assert.Equal(t, true, ParseValue("true"))
	assert.Equal(t, false, ParseValue("false"))
	assert.Equal(t, []string{"a", "b"}, ParseValue("[a, b]"))
	assert.Equal(t, "standard", ParseValue("standard"))
}
