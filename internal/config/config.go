package config

import (
	"fmt"
	"os"
	"time"
)

type Config struct {
	DataFile  string // GATHER_DATA_FILE (required; path to the page file)
	HTTPAddr  string // GATHER_HTTP_ADDR (default ":8080")
	NATSURL   string // GATHER_NATS_URL (optional, empty = no events)
	AuthToken string // GATHER_AUTH_TOKEN (optional, empty = auth disabled)

	// Sync settings
	SyncInterval   time.Duration // GATHER_SYNC_INTERVAL (default 3m; 0 = disabled)
	SyncS3Bucket   string        // GATHER_SYNC_S3_BUCKET (enables S3 when set)
	SyncS3Endpoint string        // GATHER_SYNC_S3_ENDPOINT (custom endpoint for MinIO)
	SyncS3Region   string        // GATHER_SYNC_S3_REGION (default "us-east-1")
	SyncS3Key      string        // GATHER_SYNC_S3_KEY (default "gather/backup.jsonl")
	SyncGitRepo    string        // GATHER_SYNC_GIT_REPO (enables git when set; path to clone)
	SyncGitFile    string        // GATHER_SYNC_GIT_FILE (default "events.jsonl")
	SyncGitBranch  string        // GATHER_SYNC_GIT_BRANCH (default "main")
}

func Load() (*Config, error) {
	c := &Config{
		DataFile:       os.Getenv("GATHER_DATA_FILE"),
		HTTPAddr:       envOrDefault("GATHER_HTTP_ADDR", ":8080"),
		NATSURL:        os.Getenv("GATHER_NATS_URL"),
		AuthToken:      os.Getenv("GATHER_AUTH_TOKEN"),
		SyncS3Bucket:   os.Getenv("GATHER_SYNC_S3_BUCKET"),
		SyncS3Endpoint: os.Getenv("GATHER_SYNC_S3_ENDPOINT"),
		SyncS3Region:   envOrDefault("GATHER_SYNC_S3_REGION", "us-east-1"),
		SyncS3Key:      envOrDefault("GATHER_SYNC_S3_KEY", "gather/backup.jsonl"),
		SyncGitRepo:    os.Getenv("GATHER_SYNC_GIT_REPO"),
		SyncGitFile:    envOrDefault("GATHER_SYNC_GIT_FILE", "events.jsonl"),
		SyncGitBranch:  envOrDefault("GATHER_SYNC_GIT_BRANCH", "main"),
	}
	if c.DataFile == "" {
		return nil, fmt.Errorf("GATHER_DATA_FILE is required")
	}

	intervalStr := envOrDefault("GATHER_SYNC_INTERVAL", "3m")
	if intervalStr != "" {
		d, err := time.ParseDuration(intervalStr)
		if err != nil {
			return nil, fmt.Errorf("GATHER_SYNC_INTERVAL: %w", err)
		}
		c.SyncInterval = d
	}

	return c, nil
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
