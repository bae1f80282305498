// Package config loads daemon configuration from the environment, with an
// optional TOML file providing values the environment does not set.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"
)

type Config struct {
	DatabaseURL string // CONFIGD_DATABASE_URL (required)
	HTTPAddr    string // CONFIGD_HTTP_ADDR (default ":8080")
	NATSURL     string // CONFIGD_NATS_URL (optional, empty = no events)
	AuthToken   string // CONFIGD_AUTH_TOKEN (optional, empty = auth disabled)

	// Snapshot settings
	SnapshotInterval   time.Duration // CONFIGD_SNAPSHOT_INTERVAL (default 3m; 0 = disabled)
	SnapshotS3Bucket   string        // CONFIGD_SNAPSHOT_S3_BUCKET (enables S3 when set)
	SnapshotS3Endpoint string        // CONFIGD_SNAPSHOT_S3_ENDPOINT (custom endpoint for MinIO)
	SnapshotS3Region   string        // CONFIGD_SNAPSHOT_S3_REGION (default "us-east-1")
	SnapshotS3Key      string        // CONFIGD_SNAPSHOT_S3_KEY (default "configd/snapshot.jsonl")
	SnapshotGitRepo    string        // CONFIGD_SNAPSHOT_GIT_REPO (enables git when set; path to clone)
	SnapshotGitFile    string        // CONFIGD_SNAPSHOT_GIT_FILE (default "configd.jsonl")
	SnapshotGitBranch  string        // CONFIGD_SNAPSHOT_GIT_BRANCH (default "main")
}

// fileConfig mirrors Config for the optional TOML file named by
// CONFIGD_CONFIG_FILE. Environment variables take precedence over it.
type fileConfig struct {
	DatabaseURL string `toml:"database_url"`
	HTTPAddr    string `toml:"http_addr"`
	NATSURL     string `toml:"nats_url"`
	AuthToken   string `toml:"auth_token"`

	SnapshotInterval   string `toml:"snapshot_interval"`
	SnapshotS3Bucket   string `toml:"snapshot_s3_bucket"`
	SnapshotS3Endpoint string `toml:"snapshot_s3_endpoint"`
	SnapshotS3Region   string `toml:"snapshot_s3_region"`
	SnapshotS3Key      string `toml:"snapshot_s3_key"`
	SnapshotGitRepo    string `toml:"snapshot_git_repo"`
	SnapshotGitFile    string `toml:"snapshot_git_file"`
	SnapshotGitBranch  string `toml:"snapshot_git_branch"`
}

func Load() (*Config, error) {
	var fc fileConfig
	if path := os.Getenv("CONFIGD_CONFIG_FILE"); path != "" {
		if _, err := toml.DecodeFile(path, &fc); err != nil {
			return nil, fmt.Errorf("CONFIGD_CONFIG_FILE: %w", err)
		}
	}

	c := &Config{
		DatabaseURL:        firstOf(os.Getenv("CONFIGD_DATABASE_URL"), fc.DatabaseURL),
		HTTPAddr:           firstOf(os.Getenv("CONFIGD_HTTP_ADDR"), fc.HTTPAddr, ":8080"),
		NATSURL:            firstOf(os.Getenv("CONFIGD_NATS_URL"), fc.NATSURL),
		AuthToken:          firstOf(os.Getenv("CONFIGD_AUTH_TOKEN"), fc.AuthToken),
		SnapshotS3Bucket:   firstOf(os.Getenv("CONFIGD_SNAPSHOT_S3_BUCKET"), fc.SnapshotS3Bucket),
		SnapshotS3Endpoint: firstOf(os.Getenv("CONFIGD_SNAPSHOT_S3_ENDPOINT"), fc.SnapshotS3Endpoint),
		SnapshotS3Region:   firstOf(os.Getenv("CONFIGD_SNAPSHOT_S3_REGION"), fc.SnapshotS3Region, "us-east-1"),
		SnapshotS3Key:      firstOf(os.Getenv("CONFIGD_SNAPSHOT_S3_KEY"), fc.SnapshotS3Key, "configd/snapshot.jsonl"),
		SnapshotGitRepo:    firstOf(os.Getenv("CONFIGD_SNAPSHOT_GIT_REPO"), fc.SnapshotGitRepo),
		SnapshotGitFile:    firstOf(os.Getenv("CONFIGD_SNAPSHOT_GIT_FILE"), fc.SnapshotGitFile, "configd.jsonl"),
		SnapshotGitBranch:  firstOf(os.Getenv("CONFIGD_SNAPSHOT_GIT_BRANCH"), fc.SnapshotGitBranch, "main"),
	}
	if c.DatabaseURL == "" {
		return nil, fmt.Errorf("CONFIGD_DATABASE_URL is required")
	}

	intervalStr := firstOf(os.Getenv("CONFIGD_SNAPSHOT_INTERVAL"), fc.SnapshotInterval, "3m")
	d, err := time.ParseDuration(intervalStr)
	if err != nil {
		return nil, fmt.Errorf("CONFIGD_SNAPSHOT_INTERVAL: %w", err)
	}
	c.SnapshotInterval = d

	return c, nil
}

func firstOf(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
