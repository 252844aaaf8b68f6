package database

import (
	"context"
	"fmt"
)

const (
	DriverMemory   = "memory"
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// Gateway is a string key/value store. Each Set replaces the whole value atomically.
type Gateway interface {
	Get(ctx context.Context, key string) (value string, found bool, err error)
	Set(ctx context.Context, key, value string) error
	Ping(ctx context.Context) error
	Close() error
}

type Options struct {
	Driver      string
	SQLitePath  string
	PostgresDSN string
}

// Open returns the gateway for opts.Driver.
func Open(ctx context.Context, opts Options) (Gateway, error) {
	switch opts.Driver {
	case DriverMemory:
		return NewMemoryGateway(), nil
	case DriverSQLite, "":
		return NewSQLiteGateway(ctx, opts.SQLitePath)
	case DriverPostgres:
		return NewPostgreSQLGateway(ctx, opts.PostgresDSN)
	default:
		return nil, fmt.Errorf("unknown storage driver %q", opts.Driver)
	}
}
