package store

import (
	"context"

	"github.com/m-mizutani/goerr/v2"
)

// Backend names accepted by Open.
const (
	BackendMemory = "memory"
	BackendFile   = "file"
	BackendRedis  = "redis"
	BackendSQLite = "sqlite"
)

// Options select and configure a backend.
type Options struct {
	Backend    string
	FilePath   string
	RedisAddr  string
	SQLitePath string
}

// Open builds the backend named by opts.Backend. An empty name means file.
func Open(ctx context.Context, opts Options) (KV, error) {
	switch opts.Backend {
	case "", BackendFile:
		if opts.FilePath == "" {
			return nil, goerr.New("file store requires a path")
		}
		return NewFile(opts.FilePath), nil
	case BackendMemory:
		return NewMemory(), nil
	case BackendRedis:
		if opts.RedisAddr == "" {
			return nil, goerr.New("redis store requires an address")
		}
		return DialRedis(ctx, opts.RedisAddr)
	case BackendSQLite:
		if opts.SQLitePath == "" {
			return nil, goerr.New("sqlite store requires a path")
		}
		return OpenSQLite(ctx, opts.SQLitePath)
	default:
		return nil, goerr.New("unknown store backend", goerr.V("backend", opts.Backend))
	}
}
