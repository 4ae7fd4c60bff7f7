package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// chdir isolates Load from any .env in the package directory.
func chdir(t *testing.T, dir string) {
	t.Helper()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { os.Chdir(wd) })
}

func TestLoadDefaults(t *testing.T) {
	chdir(t, t.TempDir())

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "resources", cfg.Paths.ResourcesDir)
	assert.Equal(t, "https://github.com", cfg.Git.Host)
	assert.Equal(t, 5*time.Minute, cfg.Git.CloneTimeout.Duration)
	assert.Equal(t, 90*time.Minute, cfg.Build.Timeout.Duration)
	assert.Equal(t, DefaultSourceDirs, cfg.Build.SourceDirs)
	assert.False(t, cfg.Archive.S3.Enabled)
	assert.Equal(t, "miner.db", cfg.Database.DatabaseName)
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)
	path := filepath.Join(dir, "miner.toml")
	content := `
[paths]
resourcesDir = "/data/resources"

[build]
timeout = "45m"
sourceDirs = ["src/main/java"]

[verify]
timeoutFloor = "2m"
timeoutSlack = 1.5
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "/data/resources", cfg.Paths.ResourcesDir)
	assert.Equal(t, "tmp_mine", cfg.Paths.TmpMineDir, "unset keys keep defaults")
	assert.Equal(t, 45*time.Minute, cfg.Build.Timeout.Duration)
	assert.Equal(t, []string{"src/main/java"}, cfg.Build.SourceDirs)
	assert.Equal(t, "mvn", cfg.Build.Maven)
	assert.Equal(t, 2*time.Minute, cfg.Verify.TimeoutFloor.Duration)
}

func TestLoadEnv(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("MINER_GRADLE=/opt/gradle/bin/gradle\n"), 0644))
	t.Cleanup(func() { os.Unsetenv("MINER_GRADLE") })
	t.Setenv("MINER_GIT_HOST", "https://git.example.com")
	t.Setenv("MINER_SOURCE_DIRS", "src, lib/src ,")
	t.Setenv("MINER_S3_ENDPOINT", "minio:9000")
	t.Setenv("MINER_S3_BUCKET", "archives")
	t.Setenv("MINER_S3_USE_SSL", "true")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "https://git.example.com", cfg.Git.Host)
	assert.Equal(t, []string{"src", "lib/src"}, cfg.Build.SourceDirs)
	assert.Equal(t, "/opt/gradle/bin/gradle", cfg.Build.Gradle)
	assert.True(t, cfg.Archive.S3.Enabled)
	assert.True(t, cfg.Archive.S3.UseSSL)
	assert.Equal(t, "archives", cfg.Archive.S3.Bucket)
}

func TestLoadErrors(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		chdir(t, t.TempDir())
		_, err := Load(filepath.Join(t.TempDir(), "missing.toml"))
		assert.Error(t, err)
	})

	t.Run("bad duration", func(t *testing.T) {
		chdir(t, t.TempDir())
		t.Setenv("MINER_BUILD_TIMEOUT", "forever")
		_, err := Load("")
		assert.Error(t, err)
	})

	t.Run("s3 without bucket", func(t *testing.T) {
		chdir(t, t.TempDir())
		t.Setenv("MINER_S3_ENDPOINT", "minio:9000")
		_, err := Load("")
		assert.Error(t, err)
	})
}

func TestVerifyTimeout(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, 170*time.Second, cfg.VerifyTimeout(100))
	assert.Equal(t, 60*time.Second, cfg.VerifyTimeout(0))
}
