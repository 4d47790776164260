package database

import (
	"database/sql"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gorm.io/gorm"

	"github.com/nexable/smartcookly/backend/internal/models"
)

const rollbackSuffix = "_rollback.sql"

// ErrNoMigrations is returned by Rollback when nothing has been applied.
var ErrNoMigrations = errors.New("no migrations to rollback")

// RunMigrations brings the schema up to date. SQLite databases are
// auto-migrated from the models; PostgreSQL runs the SQL files in migrationsDir.
func RunMigrations(db *gorm.DB, migrationsDir string) error {
	if db.Dialector.Name() == "sqlite" {
		log.Printf("Using GORM auto-migration for SQLite")
		return db.AutoMigrate(models.All()...)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("failed to get database handle: %w", err)
	}
	_, err = NewMigrator(sqlDB, migrationsDir).Up()
	return err
}

// Migrator applies numbered .sql files in name order and records them in
// schema_migrations. A file NAME_rollback.sql undoes NAME.sql.
type Migrator struct {
	db  *sql.DB
	dir string
}

func NewMigrator(db *sql.DB, dir string) *Migrator {
	return &Migrator{db: db, dir: dir}
}

func (m *Migrator) ensureTable() error {
	_, err := m.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version VARCHAR(255) PRIMARY KEY,
			name VARCHAR(255) NOT NULL,
			applied_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("failed to create schema_migrations table: %w", err)
	}
	return nil
}

// files lists forward migrations sorted by name.
func (m *Migrator) files() ([]string, error) {
	entries, err := os.ReadDir(m.dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read migrations directory: %w", err)
	}

	var names []string
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || filepath.Ext(name) != ".sql" || strings.HasSuffix(name, rollbackSuffix) {
			continue
		}
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

func version(name string) string {
	v, _, _ := strings.Cut(name, "_")
	return strings.TrimSuffix(v, ".sql")
}

// Up applies every pending migration, each in its own transaction, and
// returns the names it applied.
func (m *Migrator) Up() ([]string, error) {
	if err := m.ensureTable(); err != nil {
		return nil, err
	}
	names, err := m.files()
	if err != nil {
		return nil, err
	}

	var applied []string
	for _, name := range names {
		var count int
		if err := m.db.QueryRow("SELECT COUNT(*) FROM schema_migrations WHERE version = $1", version(name)).Scan(&count); err != nil {
			return applied, fmt.Errorf("failed to check migration status: %w", err)
		}
		if count > 0 {
			log.Printf("Skipping migration %s (already applied)", name)
			continue
		}

		content, err := os.ReadFile(filepath.Join(m.dir, name))
		if err != nil {
			return applied, fmt.Errorf("failed to read migration file %s: %w", name, err)
		}

		err = m.inTx(func(tx *sql.Tx) error {
			if _, err := tx.Exec(string(content)); err != nil {
				return fmt.Errorf("failed to execute migration %s: %w", name, err)
			}
			if _, err := tx.Exec("INSERT INTO schema_migrations (version, name) VALUES ($1, $2)", version(name), name); err != nil {
				return fmt.Errorf("failed to record migration %s: %w", name, err)
			}
			return nil
		})
		if err != nil {
			return applied, err
		}
		applied = append(applied, name)
		log.Printf("Applied migration %s", name)
	}
	return applied, nil
}

// Rollback undoes the most recent migration with its rollback file.
func (m *Migrator) Rollback() (string, error) {
	if err := m.ensureTable(); err != nil {
		return "", err
	}

	var ver, name string
	err := m.db.QueryRow("SELECT version, name FROM schema_migrations ORDER BY version DESC LIMIT 1").Scan(&ver, &name)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrNoMigrations
	}
	if err != nil {
		return "", fmt.Errorf("failed to get last migration: %w", err)
	}

	rollbackPath := filepath.Join(m.dir, strings.TrimSuffix(name, ".sql")+rollbackSuffix)
	content, err := os.ReadFile(rollbackPath)
	if err != nil {
		return "", fmt.Errorf("failed to read rollback file: %w", err)
	}

	err = m.inTx(func(tx *sql.Tx) error {
		if _, err := tx.Exec(string(content)); err != nil {
			return fmt.Errorf("failed to execute rollback %s: %w", rollbackPath, err)
		}
		if _, err := tx.Exec("DELETE FROM schema_migrations WHERE version = $1", ver); err != nil {
			return fmt.Errorf("failed to remove migration record: %w", err)
		}
		return nil
	})
	if err != nil {
		return "", err
	}
	log.Printf("Rolled back migration %s", name)
	return name, nil
}

func (m *Migrator) inTx(fn func(*sql.Tx) error) error {
	tx, err := m.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit()
}
