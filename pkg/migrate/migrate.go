package migrate

import (
	"context"
	"database/sql"
	"fmt"
	"io/fs"
	"math"
	"strconv"
	"sync"

	"github.com/pressly/goose/v3"
)

const DefaultDir = "pkg/migrate/migrations"

// goose keeps its dialect and base filesystem in package globals.
var gooseMu sync.Mutex

// Source names where migrations are read from: a directory on disk, or a directory
// inside FS when FS is set.
type Source struct {
	FS  fs.FS
	Dir string
}

// DirSource reads migrations from dir on the local filesystem.
func DirSource(dir string) Source {
	return Source{Dir: dir}
}

func (s Source) String() string {
	if s.FS != nil {
		return "embedded:" + s.Dir
	}
	return s.Dir
}

// GooseDialect maps a gorm dialector name onto the goose dialect. Migrations are written
// to run on both Postgres and SQLite.
func GooseDialect(gormDialect string) (string, error) {
	switch gormDialect {
	case "postgres":
		return "postgres", nil
	case "sqlite", "sqlite3":
		return "sqlite3", nil
	default:
		return "", fmt.Errorf("unsupported dialect %q", gormDialect)
	}
}

// Run executes a goose command (up, down, status, redo, reset) against src.
func Run(ctx context.Context, db *sql.DB, dialect string, src Source, command string, args ...string) error {
	return withGoose(db, dialect, src, func() error {
		if err := goose.RunContext(ctx, command, db, src.Dir, args...); err != nil {
			return fmt.Errorf("goose %s: %w", command, err)
		}
		return nil
	})
}

// MigrateToVersion moves the schema up or down until it sits at targetVersion.
func MigrateToVersion(ctx context.Context, db *sql.DB, dialect string, src Source, targetVersion string) error {
	if targetVersion == "" {
		return fmt.Errorf("targetVersion is required")
	}
	target, err := strconv.ParseInt(targetVersion, 10, 64)
	if err != nil {
		return fmt.Errorf("invalid version %q (expected YYYYMMDDHHMMSS): %w", targetVersion, err)
	}

	return withGoose(db, dialect, src, func() error {
		current, err := goose.GetDBVersionContext(ctx, db)
		if err != nil {
			return fmt.Errorf("get db version: %w", err)
		}
		switch {
		case current == target:
			return nil
		case current < target:
			if err := goose.UpToContext(ctx, db, src.Dir, target); err != nil {
				return fmt.Errorf("goose up-to %d: %w", target, err)
			}
		default:
			if err := goose.DownToContext(ctx, db, src.Dir, target); err != nil {
				return fmt.Errorf("goose down-to %d: %w", target, err)
			}
		}
		return nil
	})
}

// Pending lists the versions in src that are newer than the database version.
func Pending(ctx context.Context, db *sql.DB, dialect string, src Source) ([]int64, error) {
	var versions []int64
	err := withGoose(db, dialect, src, func() error {
		current, err := goose.GetDBVersionContext(ctx, db)
		if err != nil {
			return fmt.Errorf("get db version: %w", err)
		}
		migrations, err := goose.CollectMigrations(src.Dir, current, math.MaxInt64)
		if err != nil {
			return fmt.Errorf("collect migrations: %w", err)
		}
		for _, m := range migrations {
			if m.Version > current {
				versions = append(versions, m.Version)
			}
		}
		return nil
	})
	return versions, err
}

func withGoose(db *sql.DB, dialect string, src Source, fn func() error) error {
	if db == nil {
		return fmt.Errorf("db is required")
	}
	if src.Dir == "" {
		return fmt.Errorf("migrations dir is required")
	}
	gooseDialect, err := GooseDialect(dialect)
	if err != nil {
		return err
	}

	gooseMu.Lock()
	defer gooseMu.Unlock()

	if err := goose.SetDialect(gooseDialect); err != nil {
		return fmt.Errorf("set goose dialect: %w", err)
	}
	if src.FS != nil {
		goose.SetBaseFS(src.FS)
		defer goose.SetBaseFS(nil)
	}
	return fn()
}
