package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/dvigh8/10k-parser/internal/index"
)

type Config struct {
	// Directories
	UploadDir string
	DataDir   string

	// Worker pool
	WorkerCount  int
	MaxQueueSize int

	// Job state
	JobTTL time.Duration

	// How many leading pages are scanned for the filing's index.
	IndexScanPages int
}

func Load() Config {
	cfg := Config{
		UploadDir: envOr("UPLOAD_DIR", "uploads"),
		DataDir:   envOr("DATA_DIR", "data"),

		WorkerCount:  envInt("WORKER_COUNT", 2),
		MaxQueueSize: envInt("MAX_QUEUE_SIZE", 32),

		JobTTL: envDuration("JOB_TTL", 1*time.Hour),

		IndexScanPages: envInt("INDEX_SCAN_PAGES", index.DefaultScanPages),
	}

	if cfg.WorkerCount <= 0 {
		cfg.WorkerCount = 2
	}
	if cfg.MaxQueueSize <= 0 {
		cfg.MaxQueueSize = 32
	}
	if cfg.JobTTL <= 0 {
		cfg.JobTTL = 1 * time.Hour
	}

	return cfg
}

func (c Config) Validate() error {
	if c.UploadDir == "" {
		return fmt.Errorf("UPLOAD_DIR is required")
	}
	if c.DataDir == "" {
		return fmt.Errorf("DATA_DIR is required")
	}
	if c.IndexScanPages <= 0 {
		return fmt.Errorf("INDEX_SCAN_PAGES must be positive")
	}
	return nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
