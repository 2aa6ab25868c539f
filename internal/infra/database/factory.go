package database

import (
	"context"
	"fmt"
)

type Options struct {
	Driver      string // sqlite, postgres, redis, memory
	SQLitePath  string
	DatabaseURL string
	RedisURL    string
}

// OpenKV builds the backend selected by opts.Driver.
func OpenKV(ctx context.Context, opts Options) (KVStore, error) {
	switch opts.Driver {
	case "memory":
		return NewMemoryStore(), nil
	case "redis":
		return NewRedisStore(ctx, opts.RedisURL)
	case "sqlite", "":
		db, err := OpenSQL(ctx, "sqlite", opts.SQLitePath)
		if err != nil {
			return nil, err
		}
		return NewSQLStore(ctx, db, DialectSQLite)
	case "postgres":
		db, err := OpenSQL(ctx, "postgres", opts.DatabaseURL)
		if err != nil {
			return nil, err
		}
		return NewSQLStore(ctx, db, DialectPostgres)
	}
	return nil, fmt.Errorf("unknown store driver %q", opts.Driver)
}
