package posts

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
)

// Open connects to the store named by dsn, creates the posts table if it is
// missing and returns the repository for it. The pool is capped at a single
// connection; the caller owns the returned *sql.DB and must close it.
func Open(ctx context.Context, dsn string) (*sql.DB, Repository, error) {
	d, source, err := dialectFor(dsn)
	if err != nil {
		return nil, nil, err
	}

	sqlDB, err := sql.Open(d.driver, source)
	if err != nil {
		return nil, nil, fmt.Errorf("open %s: %w", d.name, err)
	}
	sqlDB.SetMaxOpenConns(1)
	sqlDB.SetMaxIdleConns(1)
	sqlDB.SetConnMaxLifetime(0)

	if err := sqlDB.PingContext(ctx); err != nil {
		_ = sqlDB.Close()
		return nil, nil, fmt.Errorf("ping %s: %w", d.name, err)
	}

	if d.name == sqlite.name {
		if _, err := sqlDB.ExecContext(ctx, "PRAGMA busy_timeout=5000"); err != nil {
			_ = sqlDB.Close()
			return nil, nil, fmt.Errorf("set sqlite pragma: %w", err)
		}
	}

	if _, err := sqlDB.ExecContext(ctx, d.schema); err != nil {
		_ = sqlDB.Close()
		return nil, nil, fmt.Errorf("create posts table: %w", err)
	}

	return sqlDB, &sqlRepository{db: sqlDB, d: d}, nil
}

func dialectFor(dsn string) (dialect, string, error) {
	switch {
	case strings.HasPrefix(dsn, "postgres://"), strings.HasPrefix(dsn, "postgresql://"):
		return postgres, dsn, nil
	case strings.HasPrefix(dsn, "sqlite://"):
		return sqlite, strings.TrimPrefix(dsn, "sqlite://"), nil
	case strings.HasPrefix(dsn, "file:"), dsn == ":memory:":
		return sqlite, dsn, nil
	case isKeyValueDSN(dsn):
		return postgres, dsn, nil
	}
	return dialect{}, "", fmt.Errorf("%w: %q", ErrUnsupportedDialect, redact(dsn))
}

// isKeyValueDSN reports whether dsn looks like a libpq "host=... dbname=..."
// connection string.
func isKeyValueDSN(dsn string) bool {
	fields := strings.Fields(dsn)
	if len(fields) == 0 {
		return false
	}
	for _, field := range fields {
		key, _, ok := strings.Cut(field, "=")
		if !ok || key == "" {
			return false
		}
	}
	return true
}

func redact(dsn string) string {
	if i := strings.Index(dsn, "@"); i >= 0 {
		return "***" + dsn[i:]
	}
	return dsn
}
