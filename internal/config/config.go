package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	StoreDriver string
	DBPath      string
	PostgresURL string
	OutputDir   string

	S3Bucket     string
	S3Prefix     string
	AWSRegion    string
	AWSAccessKey string
	AWSSecretKey string

	UsageLogCapacity      int
	SemanticMinConfidence float64
	PositionTolerance     float64
	HighConfidenceField   float64

	ReportSchedule string
	ReportOnStart  bool
}

func Load() (Config, error) {
	_ = godotenv.Load()

	cwd, err := os.Getwd()
	if err != nil {
		return Config{}, err
	}

	cfg := Config{
		StoreDriver: strings.ToLower(strings.TrimSpace(getEnv("STORE_DRIVER", "sqlite"))),
		DBPath:      getEnv("DB_PATH", filepath.Join(cwd, "data", "docmatch.db")),
		PostgresURL: getEnv("POSTGRES_URL", ""),
		OutputDir:   getEnv("OUTPUT_DIR", filepath.Join(cwd, "out")),

		S3Bucket:     getEnv("S3_BUCKET", ""),
		S3Prefix:     getEnv("S3_PREFIX", "docmatch/"),
		AWSRegion:    getEnv("AWS_REGION", "us-east-1"),
		AWSAccessKey: getEnv("AWS_ACCESS_KEY_ID", ""),
		AWSSecretKey: getEnv("AWS_SECRET_ACCESS_KEY", ""),

		UsageLogCapacity:      getEnvInt("USAGE_LOG_CAPACITY", 1000),
		SemanticMinConfidence: getEnvFloat("SEMANTIC_MIN_CONFIDENCE", 0.7),
		PositionTolerance:     getEnvFloat("POSITION_TOLERANCE", 50),
		HighConfidenceField:   getEnvFloat("HIGH_CONFIDENCE_FIELD", 0.8),

		ReportSchedule: getEnv("REPORT_SCHEDULE", "@hourly"),
		ReportOnStart:  getEnvBool("REPORT_ON_START", true),
	}
	if cfg.StoreDriver == "" {
		cfg.StoreDriver = "sqlite"
	}

	return cfg, nil
}

func (c Config) Require(name, value string) error {
	if strings.TrimSpace(value) == "" {
		return fmt.Errorf("missing required env var: %s", name)
	}
	return nil
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	value := getEnv(key, "")
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvFloat(key string, fallback float64) float64 {
	value := getEnv(key, "")
	if value == "" {
		return fallback
	}
	parsed, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvBool(key string, fallback bool) bool {
	value := strings.ToLower(strings.TrimSpace(getEnv(key, "")))
	if value == "" {
		return fallback
	}
	if value == "1" || value == "true" || value == "yes" || value == "on" {
		return true
	}
	if value == "0" || value == "false" || value == "no" || value == "off" {
		return false
	}
	return fallback
}
