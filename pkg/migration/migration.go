// Package migration runs schema migrations in registration order and tracks
// applied migrations in a table, grouped by batch for rollback.
package migration

import (
	"fmt"
	"time"

	"gorm.io/gorm"
)

const table = "splatmarket_migrations"

// Migration is one reversible schema change.
type Migration struct {
	Name string
	Up   func(db *gorm.DB) error
	Down func(db *gorm.DB) error
}

type record struct {
	ID        uint   `gorm:"primaryKey"`
	Name      string `gorm:"uniqueIndex;size:255"`
	Batch     int
	AppliedAt time.Time
}

func (record) TableName() string { return table }

var registry []Migration

// Register adds a migration. Call order defines run order.
func Register(m Migration) {
	registry = append(registry, m)
}

func ensureTable(db *gorm.DB) error {
	return db.AutoMigrate(&record{})
}

func appliedSet(db *gorm.DB) (map[string]record, int, error) {
	var records []record
	if err := db.Order("id").Find(&records).Error; err != nil {
		return nil, 0, err
	}

	applied := make(map[string]record, len(records))
	maxBatch := 0
	for _, r := range records {
		applied[r.Name] = r
		if r.Batch > maxBatch {
			maxBatch = r.Batch
		}
	}
	return applied, maxBatch, nil
}

// Run applies every pending migration as one new batch. Returns the names
// that were applied.
func Run(db *gorm.DB) ([]string, error) {
	if err := ensureTable(db); err != nil {
		return nil, err
	}

	applied, maxBatch, err := appliedSet(db)
	if err != nil {
		return nil, err
	}

	batch := maxBatch + 1
	var ran []string

	for _, m := range registry {
		if _, ok := applied[m.Name]; ok {
			continue
		}

		if err := m.Up(db); err != nil {
			return ran, fmt.Errorf("migration %q: %w", m.Name, err)
		}

		rec := record{Name: m.Name, Batch: batch, AppliedAt: time.Now()}
		if err := db.Create(&rec).Error; err != nil {
			return ran, fmt.Errorf("migration %q: record: %w", m.Name, err)
		}
		ran = append(ran, m.Name)
	}

	return ran, nil
}

// Rollback reverts the most recent batch in reverse registration order.
func Rollback(db *gorm.DB) ([]string, error) {
	if err := ensureTable(db); err != nil {
		return nil, err
	}

	applied, maxBatch, err := appliedSet(db)
	if err != nil {
		return nil, err
	}
	if maxBatch == 0 {
		return nil, nil
	}

	var reverted []string
	for i := len(registry) - 1; i >= 0; i-- {
		m := registry[i]
		rec, ok := applied[m.Name]
		if !ok || rec.Batch != maxBatch {
			continue
		}

		if m.Down != nil {
			if err := m.Down(db); err != nil {
				return reverted, fmt.Errorf("rollback %q: %w", m.Name, err)
			}
		}

		if err := db.Delete(&record{}, "name = ?", m.Name).Error; err != nil {
			return reverted, fmt.Errorf("rollback %q: record: %w", m.Name, err)
		}
		reverted = append(reverted, m.Name)
	}

	return reverted, nil
}

// Status is the applied/pending state of one registered migration.
type Status struct {
	Name    string
	Applied bool
	Batch   int
}

// StatusAll reports the state of every registered migration in order.
func StatusAll(db *gorm.DB) ([]Status, error) {
	if err := ensureTable(db); err != nil {
		return nil, err
	}

	applied, _, err := appliedSet(db)
	if err != nil {
		return nil, err
	}

	out := make([]Status, 0, len(registry))
	for _, m := range registry {
		st := Status{Name: m.Name}
		if rec, ok := applied[m.Name]; ok {
			st.Applied = true
			st.Batch = rec.Batch
		}
		out = append(out, st)
	}
	return out, nil
}
