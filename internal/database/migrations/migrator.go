package migrations

import (
	"embed"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"

	"github.com/vladimiradmaev/calorie-tracker/internal/logger"
	"gorm.io/gorm"
)

// Files holds the SQL migrations shipped with the binary.
//
//go:embed sql/*.sql
var Files embed.FS

// Migration represents a database migration
type Migration struct {
	ID string
	Up func(*gorm.DB) error
}

// MigrationRecord represents a record of executed migrations
type MigrationRecord struct {
	ID        string `gorm:"primaryKey"`
	CreatedAt int64  `gorm:"autoCreateTime"`
}

func (MigrationRecord) TableName() string { return "schema_migrations" }

// Migrator runs registered migrations in id order, each at most once.
type Migrator struct {
	migrations map[string]Migration
}

func New() *Migrator {
	return &Migrator{migrations: make(map[string]Migration)}
}

// Register adds a new migration to the registry
func (m *Migrator) Register(id string, up func(*gorm.DB) error) {
	m.migrations[id] = Migration{ID: id, Up: up}
}

// LoadSQL registers every .sql file in dir. Statements are separated by ";".
func (m *Migrator) LoadSQL(fsys fs.FS, dir string) error {
	files, err := fs.ReadDir(fsys, dir)
	if err != nil {
		return fmt.Errorf("failed to read migrations directory: %w", err)
	}

	for _, file := range files {
		if file.IsDir() || !strings.HasSuffix(file.Name(), ".sql") {
			continue
		}
		id := strings.TrimSuffix(file.Name(), ".sql")
		content, err := fs.ReadFile(fsys, path.Join(dir, file.Name()))
		if err != nil {
			return fmt.Errorf("failed to read migration file %s: %w", file.Name(), err)
		}

		statements := splitStatements(string(content))
		m.Register(id, func(db *gorm.DB) error {
			for _, stmt := range statements {
				if err := db.Exec(stmt).Error; err != nil {
					return err
				}
			}
			return nil
		})
	}
	return nil
}

func splitStatements(sql string) []string {
	var out []string
	for _, part := range strings.Split(sql, ";") {
		var lines []string
		for _, line := range strings.Split(part, "\n") {
			if strings.HasPrefix(strings.TrimSpace(line), "--") {
				continue
			}
			lines = append(lines, line)
		}
		if stmt := strings.TrimSpace(strings.Join(lines, "\n")); stmt != "" {
			out = append(out, stmt)
		}
	}
	return out
}

// Run executes all pending migrations, each inside its own transaction.
func (m *Migrator) Run(db *gorm.DB) error {
	if err := db.AutoMigrate(&MigrationRecord{}); err != nil {
		return fmt.Errorf("failed to create migrations table: %w", err)
	}

	ids := make([]string, 0, len(m.migrations))
	for id := range m.migrations {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	var executed []MigrationRecord
	if err := db.Find(&executed).Error; err != nil {
		return fmt.Errorf("failed to get executed migrations: %w", err)
	}
	done := make(map[string]bool, len(executed))
	for _, r := range executed {
		done[r.ID] = true
	}

	for _, id := range ids {
		if done[id] {
			continue
		}
		migration := m.migrations[id]
		logger.Info("Running migration", "id", id)
		err := db.Transaction(func(tx *gorm.DB) error {
			if err := migration.Up(tx); err != nil {
				return err
			}
			return tx.Create(&MigrationRecord{ID: id}).Error
		})
		if err != nil {
			return fmt.Errorf("failed to run migration %s: %w", id, err)
		}
	}
	return nil
}
