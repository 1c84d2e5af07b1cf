package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func withTempXDG(t *testing.T) string {
	t.Helper()
	tmpDir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", tmpDir)
	return tmpDir
}

func TestBackupUserConfig_NoConfigExists(t *testing.T) {
	withTempXDG(t)

	backupPath, err := BackupUserConfig()
	require.NoError(t, err)
	assert.Empty(t, backupPath)
}

func TestBackupUserConfig_BacksUpExistingConfig(t *testing.T) {
	withTempXDG(t)
	configPath := GetUserConfigPath()
	require.NoError(t, os.MkdirAll(filepath.Dir(configPath), 0755))

	content := "version: 1\nembeddings:\n  provider: ollama\n"
	require.NoError(t, os.WriteFile(configPath, []byte(content), 0644))

	backupPath, err := BackupUserConfig()
	require.NoError(t, err)
	require.NotEmpty(t, backupPath)

	data, err := os.ReadFile(backupPath)
	require.NoError(t, err)
	assert.Equal(t, content, string(data))
}

func TestListUserConfigBackups_NoConfigDir(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(t.TempDir(), "missing"))

	backups, err := ListUserConfigBackups()
	require.NoError(t, err)
	assert.Empty(t, backups)
}

func TestBackupUserConfig_CleansUpBeyondMaxBackups(t *testing.T) {
	withTempXDG(t)
	configPath := GetUserConfigPath()
	require.NoError(t, os.MkdirAll(filepath.Dir(configPath), 0755))
	require.NoError(t, os.WriteFile(configPath, []byte("version: 1\n"), 0644))

	for i := 0; i < MaxBackups+2; i++ {
		_, err := BackupUserConfig()
		require.NoError(t, err)
	}

	backups, err := ListUserConfigBackups()
	require.NoError(t, err)
	assert.LessOrEqual(t, len(backups), MaxBackups)
}

func TestRestoreUserConfig(t *testing.T) {
	withTempXDG(t)
	configPath := GetUserConfigPath()
	require.NoError(t, os.MkdirAll(filepath.Dir(configPath), 0755))

	original := "version: 1\ncrawl:\n  max_pages: 10\n"
	require.NoError(t, os.WriteFile(configPath, []byte(original), 0644))

	backupPath, err := BackupUserConfig()
	require.NoError(t, err)
	require.NotEmpty(t, backupPath)

	require.NoError(t, os.WriteFile(configPath, []byte("version: 1\ncrawl:\n  max_pages: 999\n"), 0644))

	require.NoError(t, RestoreUserConfig(backupPath))

	data, err := os.ReadFile(configPath)
	require.NoError(t, err)
	assert.Equal(t, original, string(data))
}

func TestRestoreUserConfig_MissingBackupErrors(t *testing.T) {
	withTempXDG(t)
	err := RestoreUserConfig(filepath.Join(t.TempDir(), "nonexistent.bak"))
	assert.Error(t, err)
}
