package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		"TASKBOARD_AUTH_URL", "TASKBOARD_TASK_URL", "TASKBOARD_NOTIFICATION_URL",
		"TASKBOARD_STATE_PATH", "TASKBOARD_LOG_LEVEL", "TASKBOARD_LOG_FILE", "TASKBOARD_LOG_CONSOLE",
	} {
		t.Setenv(k, "")
	}
}

func TestLoadFile_MissingFileUsesDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := LoadFile(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)

	assert.Equal(t, DefaultAuthServiceURL, cfg.AuthServiceURL)
	assert.Equal(t, DefaultTaskServiceURL, cfg.TaskServiceURL)
	assert.Equal(t, DefaultNotificationServiceURL, cfg.NotificationServiceURL)
	assert.Equal(t, 50, cfg.NotificationLimit)
	assert.Equal(t, 30*time.Second, cfg.RequestTimeout())
	assert.True(t, cfg.TaskNotifications)
}

func TestLoadFile_EachServiceOverridableIndependently(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("task_service_url: http://tasks.internal:9000/api/v1/\n"), 0644))

	cfg, err := LoadFile(path)
	require.NoError(t, err)

	assert.Equal(t, "http://tasks.internal:9000/api/v1", cfg.TaskServiceURL)
	assert.Equal(t, DefaultAuthServiceURL, cfg.AuthServiceURL)
	assert.Equal(t, DefaultNotificationServiceURL, cfg.NotificationServiceURL)
}

func TestLoadFile_EnvOverridesFile(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("auth_service_url: http://file:1\n"), 0644))
	t.Setenv("TASKBOARD_AUTH_URL", "http://env:2")
	t.Setenv("TASKBOARD_LOG_CONSOLE", "true")

	cfg, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "http://env:2", cfg.AuthServiceURL)
	assert.True(t, cfg.LogConsole)
}

func TestLoadFile_RejectsBadYAMLAndURLs(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()

	bad := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("auth_service_url: [\n"), 0644))
	_, err := LoadFile(bad)
	assert.Error(t, err)

	notURL := filepath.Join(dir, "url.yaml")
	require.NoError(t, os.WriteFile(notURL, []byte("notification_service_url: localhost:8083\n"), 0644))
	_, err = LoadFile(notURL)
	assert.ErrorContains(t, err, "notification_service_url")
}

func TestConfig_Set(t *testing.T) {
	cfg := DefaultConfig()

	require.NoError(t, cfg.Set("notification_limit", "10"))
	assert.Equal(t, 10, cfg.NotificationLimit)

	require.NoError(t, cfg.Set("task_notifications", "false"))
	assert.False(t, cfg.TaskNotifications)

	assert.Error(t, cfg.Set("notification_limit", "many"))
	assert.Error(t, cfg.Set("color", "blue"))
	assert.Error(t, cfg.Set("auth_service_url", "ftp://x"))
}

func TestConfig_SaveFileRoundTrip(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "sub", "config.yaml")

	cfg := DefaultConfig()
	cfg.NotificationServiceURL = "http://notify:8083/api/v1"
	require.NoError(t, cfg.SaveFile(path))

	loaded, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "http://notify:8083/api/v1", loaded.NotificationServiceURL)
}
