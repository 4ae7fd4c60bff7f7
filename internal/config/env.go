package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

const envPrefix = "MINER_"

func applyEnv(cfg *Config) error {
	setString(&cfg.Paths.ResourcesDir, "RESOURCES_DIR")
	setString(&cfg.Paths.TmpMineDir, "TMP_MINE_DIR")
	setString(&cfg.Paths.TmpEvaluateDir, "TMP_EVALUATE_DIR")
	setString(&cfg.Paths.LogsDir, "LOGS_DIR")
	setString(&cfg.Log.Level, "LOG_LEVEL")
	setString(&cfg.Git.Host, "GIT_HOST")
	setString(&cfg.Git.Token, "GITHUB_TOKEN")
	setString(&cfg.Build.Maven, "MAVEN")
	setString(&cfg.Build.Gradle, "GRADLE")
	setString(&cfg.Metrics.Address, "METRICS_ADDR")
	setString(&cfg.Database.DataDir, "DB_DIR")

	if raw := lookup("SOURCE_DIRS"); raw != "" {
		var dirs []string
		for _, dir := range strings.Split(raw, ",") {
			if dir = strings.TrimSpace(dir); dir != "" {
				dirs = append(dirs, dir)
			}
		}
		cfg.Build.SourceDirs = dirs
	}
	if err := setDuration(&cfg.Build.Timeout, "BUILD_TIMEOUT"); err != nil {
		return err
	}
	if err := setDuration(&cfg.Git.CloneTimeout, "CLONE_TIMEOUT"); err != nil {
		return err
	}

	s3 := &cfg.Archive.S3
	setString(&s3.Endpoint, "S3_ENDPOINT")
	setString(&s3.Region, "S3_REGION")
	setString(&s3.AccessKey, "S3_ACCESS_KEY")
	setString(&s3.SecretKey, "S3_SECRET_KEY")
	setString(&s3.Bucket, "S3_BUCKET")
	setString(&s3.Prefix, "S3_PREFIX")
	if lookup("S3_ENDPOINT") != "" {
		s3.Enabled = true
	}
	if raw := lookup("S3_USE_SSL"); raw != "" {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			return fmt.Errorf("invalid %sS3_USE_SSL: %w", envPrefix, err)
		}
		s3.UseSSL = v
	}
	return nil
}

func lookup(key string) string {
	return strings.TrimSpace(os.Getenv(envPrefix + key))
}

func setString(dst *string, key string) {
	if v := lookup(key); v != "" {
		*dst = v
	}
}

func setDuration(dst *Duration, key string) error {
	raw := lookup(key)
	if raw == "" {
		return nil
	}
	v, err := time.ParseDuration(raw)
	if err != nil {
		return fmt.Errorf("invalid %s%s: %w", envPrefix, key, err)
	}
	dst.Duration = v
	return nil
}
