package postgres

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"path"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	migrationsGlob    = "migrations/*.sql"
	migrationLockKey  = int64(20240611)
	migrationTableDDL = `
CREATE TABLE IF NOT EXISTS schema_migrations (
    version BIGINT PRIMARY KEY,
    name TEXT NOT NULL,
    applied_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
)`
)

var (
	//go:embed migrations/*.sql
	migrationsFS embed.FS

	migrationFilePattern = regexp.MustCompile(`^(\d+)_([a-zA-Z0-9_]+)\.(up|down)\.sql$`)
)

// Migration par up/down de una versión del esquema.
type Migration struct {
	Version int64
	Name    string
	UpSQL   string
	DownSQL string
}

// MigrationStatus versión actual y cantidad de migraciones aplicadas.
type MigrationStatus struct {
	Version int64
	Applied int
	Pending int
}

// Migrator aplica las migraciones embebidas bajo un advisory lock.
type Migrator struct {
	pool       *pgxpool.Pool
	migrations []Migration
}

// NewMigrator carga las migraciones embebidas.
func NewMigrator(pool *pgxpool.Pool) (*Migrator, error) {
	migrations, err := LoadMigrations(migrationsFS)
	if err != nil {
		return nil, err
	}
	return &Migrator{pool: pool, migrations: migrations}, nil
}

// Up aplica las migraciones pendientes. steps=0 aplica todas.
func (m *Migrator) Up(ctx context.Context, steps int) (int, error) {
	n := 0
	err := m.locked(ctx, func(conn *pgxpool.Conn) error {
		applied, err := appliedVersions(ctx, conn)
		if err != nil {
			return err
		}
		for _, mig := range m.migrations {
			if applied[mig.Version] {
				continue
			}
			if err := applyOne(ctx, conn, mig, true); err != nil {
				return err
			}
			n++
			if steps > 0 && n >= steps {
				break
			}
		}
		return nil
	})
	return n, err
}

// Down revierte migraciones; steps<=0 revierte solo la última.
func (m *Migrator) Down(ctx context.Context, steps int) (int, error) {
	if steps <= 0 {
		steps = 1
	}
	byVersion := make(map[int64]Migration, len(m.migrations))
	for _, mig := range m.migrations {
		byVersion[mig.Version] = mig
	}

	n := 0
	err := m.locked(ctx, func(conn *pgxpool.Conn) error {
		rows, err := conn.Query(ctx, `SELECT version FROM schema_migrations ORDER BY version DESC LIMIT $1`, steps)
		if err != nil {
			return fmt.Errorf("query applied migrations: %w", err)
		}
		versions, err := pgx.CollectRows(rows, pgx.RowTo[int64])
		if err != nil {
			return fmt.Errorf("scan applied migrations: %w", err)
		}
		for _, v := range versions {
			mig, ok := byVersion[v]
			if !ok {
				return fmt.Errorf("cannot rollback unknown migration version %d", v)
			}
			if err := applyOne(ctx, conn, mig, false); err != nil {
				return err
			}
			n++
		}
		return nil
	})
	return n, err
}

// Status devuelve la versión actual del esquema.
func (m *Migrator) Status(ctx context.Context) (MigrationStatus, error) {
	queryCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if _, err := m.pool.Exec(queryCtx, migrationTableDDL); err != nil {
		return MigrationStatus{}, fmt.Errorf("ensure migration table: %w", err)
	}
	var st MigrationStatus
	if err := m.pool.QueryRow(queryCtx, `SELECT COALESCE(MAX(version), 0), COUNT(*) FROM schema_migrations`).
		Scan(&st.Version, &st.Applied); err != nil {
		return MigrationStatus{}, fmt.Errorf("query migration status: %w", err)
	}
	st.Pending = len(m.migrations) - st.Applied
	if st.Pending < 0 {
		st.Pending = 0
	}
	return st, nil
}

func (m *Migrator) locked(ctx context.Context, fn func(conn *pgxpool.Conn) error) error {
	conn, err := m.pool.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("acquire db connection: %w", err)
	}
	defer conn.Release()

	lockCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if _, err := conn.Exec(lockCtx, "SELECT pg_advisory_lock($1)", migrationLockKey); err != nil {
		return fmt.Errorf("acquire migration lock: %w", err)
	}
	defer func() {
		_, _ = conn.Exec(context.WithoutCancel(ctx), "SELECT pg_advisory_unlock($1)", migrationLockKey)
	}()

	if _, err := conn.Exec(ctx, migrationTableDDL); err != nil {
		return fmt.Errorf("ensure migration table: %w", err)
	}
	return fn(conn)
}

func appliedVersions(ctx context.Context, conn *pgxpool.Conn) (map[int64]bool, error) {
	rows, err := conn.Query(ctx, `SELECT version FROM schema_migrations`)
	if err != nil {
		return nil, fmt.Errorf("query applied migrations: %w", err)
	}
	versions, err := pgx.CollectRows(rows, pgx.RowTo[int64])
	if err != nil {
		return nil, fmt.Errorf("scan applied migrations: %w", err)
	}
	out := make(map[int64]bool, len(versions))
	for _, v := range versions {
		out[v] = true
	}
	return out, nil
}

// applyOne ejecuta una migración y su registro en la misma transacción.
func applyOne(ctx context.Context, conn *pgxpool.Conn, mig Migration, up bool) error {
	dir, body := "down", mig.DownSQL
	if up {
		dir, body = "up", mig.UpSQL
	}

	tx, err := conn.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin migration tx (%s %d): %w", dir, mig.Version, err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err := tx.Exec(ctx, body); err != nil {
		return fmt.Errorf("execute %s migration %d_%s: %w", dir, mig.Version, mig.Name, err)
	}
	if up {
		_, err = tx.Exec(ctx, `INSERT INTO schema_migrations (version, name, applied_at) VALUES ($1, $2, NOW())`, mig.Version, mig.Name)
	} else {
		_, err = tx.Exec(ctx, `DELETE FROM schema_migrations WHERE version = $1`, mig.Version)
	}
	if err != nil {
		return fmt.Errorf("record %s migration %d_%s: %w", dir, mig.Version, mig.Name, err)
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit %s migration %d_%s: %w", dir, mig.Version, mig.Name, err)
	}
	return nil
}

// LoadMigrations lee los pares NNNN_nombre.(up|down).sql, ordenados por versión.
func LoadMigrations(fsys fs.FS) ([]Migration, error) {
	files, err := fs.Glob(fsys, migrationsGlob)
	if err != nil {
		return nil, fmt.Errorf("list migrations: %w", err)
	}
	if len(files) == 0 {
		return nil, errors.New("no migration files found")
	}

	byVersion := make(map[int64]*Migration)
	for _, file := range files {
		base := path.Base(file)
		matches := migrationFilePattern.FindStringSubmatch(base)
		if len(matches) != 4 {
			return nil, fmt.Errorf("invalid migration file name: %s", base)
		}
		version, err := strconv.ParseInt(matches[1], 10, 64)
		if err != nil {
			return nil, fmt.Errorf("parse migration version from %s: %w", base, err)
		}
		raw, err := fs.ReadFile(fsys, file)
		if err != nil {
			return nil, fmt.Errorf("read migration file %s: %w", file, err)
		}
		body := strings.TrimSpace(string(raw))
		if body == "" {
			return nil, fmt.Errorf("migration file is empty: %s", base)
		}

		mig, ok := byVersion[version]
		if !ok {
			mig = &Migration{Version: version, Name: matches[2]}
			byVersion[version] = mig
		} else if mig.Name != matches[2] {
			return nil, fmt.Errorf("migration name mismatch for version %d: %s vs %s", version, mig.Name, matches[2])
		}

		target := &mig.DownSQL
		if matches[3] == "up" {
			target = &mig.UpSQL
		}
		if *target != "" {
			return nil, fmt.Errorf("duplicate %s migration for version %d", matches[3], version)
		}
		*target = body
	}

	out := make([]Migration, 0, len(byVersion))
	for _, mig := range byVersion {
		if mig.UpSQL == "" || mig.DownSQL == "" {
			return nil, fmt.Errorf("migration %d_%s must have both up and down files", mig.Version, mig.Name)
		}
		out = append(out, *mig)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Version < out[j].Version })
	return out, nil
}
