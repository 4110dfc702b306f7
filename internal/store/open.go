package store

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/mmcdole/locker/internal/domain"
)

// Backend names accepted by Open
const (
	BackendBolt   = "bolt"
	BackendSQLite = "sqlite"
	BackendRedis  = "redis"
	BackendMemory = "memory"
)

// Options selects and configures a backend
type Options struct {
	Backend string // bolt (default), sqlite, redis, memory
	Dir     string // data directory for bolt and sqlite
	Redis   RedisOptions
}

// Open creates the configured backend
func Open(ctx context.Context, opts Options) (domain.LockerStore, error) {
	var (
		s   domain.LockerStore
		err error
	)
	switch strings.ToLower(strings.TrimSpace(opts.Backend)) {
	case "", BackendBolt:
		s, err = NewBoltStore(opts.Dir)
	case BackendMemory:
		s, err = NewBoltStore("")
	case BackendSQLite:
		if opts.Dir == "" {
			return nil, fmt.Errorf("sqlite backend needs a data directory")
		}
		if err := os.MkdirAll(opts.Dir, 0755); err != nil {
			return nil, err
		}
		s, err = NewSQLiteStore(filepath.Join(opts.Dir, "locker.sqlite"))
	case BackendRedis:
		s, err = NewRedisStore(ctx, opts.Redis)
	default:
		return nil, fmt.Errorf("unknown locker backend: %q", opts.Backend)
	}
	if err != nil {
		return nil, err
	}
	return s, nil
}
