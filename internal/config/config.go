// config.go - Miner configuration management

package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"
)

// Duration reads "90m" style values from TOML.
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

type ConfigPaths struct {
	ResourcesDir   string `toml:"resourcesDir"`
	TmpMineDir     string `toml:"tmpMineDir"`
	TmpEvaluateDir string `toml:"tmpEvaluateDir"`
	LogsDir        string `toml:"logsDir"`
}

type ConfigLog struct {
	Level string `toml:"level"`
}

type ConfigGit struct {
	Host            string   `toml:"host"`
	Token           string   `toml:"-"`
	CloneTimeout    Duration `toml:"cloneTimeout"`
	ClonesPerMinute float64  `toml:"clonesPerMinute"`
}

type ConfigBuild struct {
	Maven      string   `toml:"maven"`
	Gradle     string   `toml:"gradle"`
	Timeout    Duration `toml:"timeout"`
	SourceDirs []string `toml:"sourceDirs"`
	// LineCacheSize bounds how many source files stay in memory while harvesting.
	LineCacheSize int `toml:"lineCacheSize"`
}

// ConfigVerify sets the rebuild deadline to Floor + Slack x the recorded build time.
type ConfigVerify struct {
	TimeoutFloor Duration `toml:"timeoutFloor"`
	TimeoutSlack float64  `toml:"timeoutSlack"`
}

type ConfigS3 struct {
	Enabled   bool   `toml:"enabled"`
	Endpoint  string `toml:"endpoint"`
	Region    string `toml:"region"`
	AccessKey string `toml:"-"`
	SecretKey string `toml:"-"`
	Bucket    string `toml:"bucket"`
	Prefix    string `toml:"prefix"`
	UseSSL    bool   `toml:"useSSL"`
}

type ConfigArchive struct {
	// IgnorePatterns are gitignore-style patterns left out of archives, on top of .git.
	IgnorePatterns []string `toml:"ignorePatterns"`
	S3             ConfigS3 `toml:"s3"`
}

type ConfigMetrics struct {
	Address string `toml:"address"`
}

// Config is the complete miner configuration.
type Config struct {
	Paths    ConfigPaths    `toml:"paths"`
	Log      ConfigLog      `toml:"log"`
	Git      ConfigGit      `toml:"git"`
	Build    ConfigBuild    `toml:"build"`
	Verify   ConfigVerify   `toml:"verify"`
	Archive  ConfigArchive  `toml:"archive"`
	Metrics  ConfigMetrics  `toml:"metrics"`
	Database DatabaseConfig `toml:"database"`
}

var DefaultSourceDirs = []string{
	"src",
	"src/main/java",
	"src/main/resources",
	"app",
	"app/src/main/java",
}

var DefaultConfigPaths = ConfigPaths{
	ResourcesDir:   "resources",
	TmpMineDir:     "tmp_mine",
	TmpEvaluateDir: "tmp_evaluate",
	LogsDir:        "logs",
}

// DefaultConfig returns the configuration used when nothing is overridden.
func DefaultConfig() *Config {
	sourceDirs := make([]string, len(DefaultSourceDirs))
	copy(sourceDirs, DefaultSourceDirs)
	return &Config{
		Paths: DefaultConfigPaths,
		Log:   ConfigLog{Level: "info"},
		Git: ConfigGit{
			Host:         "https://github.com",
			CloneTimeout: Duration{5 * time.Minute},
		},
		Build: ConfigBuild{
			Maven:         "mvn",
			Gradle:        "gradle",
			Timeout:       Duration{90 * time.Minute},
			SourceDirs:    sourceDirs,
			LineCacheSize: 256,
		},
		Verify: ConfigVerify{
			TimeoutFloor: Duration{60 * time.Second},
			TimeoutSlack: 1.1,
		},
		Archive: ConfigArchive{
			S3: ConfigS3{Region: "us-east-1"},
		},
		Database: *DefaultDatabaseConfig(DefaultConfigPaths.ResourcesDir),
	}
}

// Load builds the configuration from defaults, the optional TOML file at path, then a .env
// file in the working directory and MINER_* environment variables.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := toml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}
	if err := applyEnv(cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects settings the pipeline cannot run with.
func (c *Config) Validate() error {
	switch {
	case c.Paths.ResourcesDir == "":
		return errors.New("paths.resourcesDir is required")
	case c.Paths.TmpMineDir == "" || c.Paths.TmpEvaluateDir == "":
		return errors.New("paths.tmpMineDir and paths.tmpEvaluateDir are required")
	case c.Git.Host == "":
		return errors.New("git.host is required")
	case c.Git.CloneTimeout.Duration <= 0:
		return errors.New("git.cloneTimeout must be positive")
	case c.Build.Timeout.Duration <= 0:
		return errors.New("build.timeout must be positive")
	case len(c.Build.SourceDirs) == 0:
		return errors.New("build.sourceDirs must not be empty")
	case c.Verify.TimeoutFloor.Duration < 0 || c.Verify.TimeoutSlack <= 0:
		return errors.New("verify.timeoutFloor must not be negative and verify.timeoutSlack must be positive")
	case c.Archive.S3.Enabled && (c.Archive.S3.Endpoint == "" || c.Archive.S3.Bucket == ""):
		return errors.New("archive.s3 needs an endpoint and a bucket when enabled")
	}
	return nil
}

// VerifyTimeout is the rebuild deadline for a project whose mining build took buildSeconds.
func (c *Config) VerifyTimeout(buildSeconds int) time.Duration {
	extra := time.Duration(float64(buildSeconds) * c.Verify.TimeoutSlack * float64(time.Second))
	return c.Verify.TimeoutFloor.Duration + extra
}
