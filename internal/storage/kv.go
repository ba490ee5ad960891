package storage

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"docmatch/internal/config"
)

var ErrUnsupportedDriver = errors.New("unsupported store driver")

// KV is the byte-level store behind the learning state. A missing key is
// reported as ok=false with a nil error.
type KV interface {
	Get(ctx context.Context, key string) (value []byte, ok bool, err error)
	Put(ctx context.Context, key string, value []byte) error
	Close() error
}

// Open builds the backend named by cfg.StoreDriver.
func Open(ctx context.Context, cfg config.Config) (KV, error) {
	switch cfg.StoreDriver {
	case "sqlite":
		return OpenSQLite(cfg.DBPath)
	case "memory":
		return NewMemory(), nil
	case "postgres":
		if err := cfg.Require("POSTGRES_URL", cfg.PostgresURL); err != nil {
			return nil, err
		}
		return OpenPostgres(ctx, cfg.PostgresURL)
	case "s3":
		if err := cfg.Require("S3_BUCKET", cfg.S3Bucket); err != nil {
			return nil, err
		}
		return NewS3(ctx, S3Config{
			Bucket:    cfg.S3Bucket,
			Prefix:    cfg.S3Prefix,
			Region:    cfg.AWSRegion,
			AccessKey: cfg.AWSAccessKey,
			SecretKey: cfg.AWSSecretKey,
		})
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedDriver, cfg.StoreDriver)
	}
}

// Memory is an in-process KV, used by tests and the memory driver.
type Memory struct {
	mu   sync.RWMutex
	data map[string][]byte
}

func NewMemory() *Memory {
	return &Memory{data: map[string][]byte{}}
}

func (m *Memory) Get(_ context.Context, key string) ([]byte, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	value, ok := m.data[key]
	if !ok {
		return nil, false, nil
	}
	return append([]byte(nil), value...), true, nil
}

func (m *Memory) Put(_ context.Context, key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = append([]byte(nil), value...)
	return nil
}

func (m *Memory) Close() error { return nil }
