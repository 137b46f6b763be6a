// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package migration applies the admin schema with golang-migrate before the
// postgres key-value backend starts serving.
//
// The schema ships inside the binary. MIGRATION_PATH points at a directory
// that replaces it, for operators who patch the schema out of band.
package migration

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strings"

	"github.com/golang-migrate/migrate/v4"
	// pgx5 driver registers the "pgx5" scheme for golang-migrate.
	_ "github.com/golang-migrate/migrate/v4/database/pgx/v5"
	"github.com/golang-migrate/migrate/v4/source/iofs"
)

//go:embed sql/*.sql
var embedded embed.FS

// Source returns the migration files: the directory at path when set, the
// embedded schema otherwise.
func Source(path string) fs.FS {
	if path != "" {
		return os.DirFS(path)
	}
	schema, err := fs.Sub(embedded, "sql")
	if err != nil {
		panic(err)
	}
	return schema
}

// RunUp applies every pending UP migration found in files.
func RunUp(dsn string, files fs.FS, logger *slog.Logger) error {
	source, err := iofs.New(files, ".")
	if err != nil {
		return fmt.Errorf("migration: failed to read migrations: %w", err)
	}

	migrator, err := migrate.NewWithSourceInstance("iofs", source, ToPgx5DSN(dsn))
	if err != nil {
		return fmt.Errorf("migration: failed to initialize: %w", err)
	}
	defer func() {
		sourceErr, dbErr := migrator.Close()
		if err := errors.Join(sourceErr, dbErr); err != nil {
			logger.Error("migration_close_failed", slog.Any("error", err))
		}
	}()

	migrator.Log = &migrateLogger{logger: logger}

	from, isDirty, err := migrator.Version()
	switch {
	case errors.Is(err, migrate.ErrNilVersion):
		from = 0
	case err != nil:
		return fmt.Errorf("migration: failed to get current version: %w", err)
	case isDirty:
		return fmt.Errorf("migration: schema is dirty at version %d, fix it by hand", from)
	}

	if err := migrator.Up(); err != nil {
		if errors.Is(err, migrate.ErrNoChange) {
			logger.Info("migration_up_to_date", slog.Uint64("version", uint64(from)))
			return nil
		}
		return fmt.Errorf("migration: up failed: %w", err)
	}

	to, _, _ := migrator.Version()
	logger.Info("migration_applied",
		slog.Uint64("from_version", uint64(from)),
		slog.Uint64("to_version", uint64(to)),
	)
	return nil
}

// ToPgx5DSN rewrites postgres:// and postgresql:// URLs to the pgx5:// scheme
// the migrate driver registers. Other values pass through untouched.
func ToPgx5DSN(dsn string) string {
	for _, prefix := range []string{"postgres://", "postgresql://"} {
		if rest, ok := strings.CutPrefix(dsn, prefix); ok {
			return "pgx5://" + rest
		}
	}
	return dsn
}

type migrateLogger struct {
	logger *slog.Logger
}

func (l *migrateLogger) Printf(format string, args ...any) {
	l.logger.Debug("migration_step", slog.String("detail", strings.TrimSpace(fmt.Sprintf(format, args...))))
}

func (l *migrateLogger) Verbose() bool {
	return l.logger.Enabled(context.Background(), slog.LevelDebug)
}
