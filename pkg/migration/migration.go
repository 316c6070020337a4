// Package migration runs registered schema migrations in batches and records
// which have been applied.
//
//	func init() {
//	    migration.Register("20260301000000_create_users_table", CreateUsers{})
//	}
//
//	eatn migrate            // apply pending
//	eatn migrate:rollback   // undo the last batch
//	eatn migrate:status
package migration

import (
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/shashiranjanraj/eatn/pkg/logger"
)

// Migration is one reversible schema step.
type Migration interface {
	Up(db *gorm.DB) error
	Down(db *gorm.DB) error
}

type record struct {
	ID    uint      `gorm:"primaryKey;autoIncrement"`
	Name  string    `gorm:"uniqueIndex;size:255;not null"`
	Batch int       `gorm:"not null"`
	RunAt time.Time `gorm:"autoCreateTime"`
}

func (record) TableName() string { return "eatn_migrations" }

type entry struct {
	name string
	m    Migration
}

var registry []entry

// Register adds m under a timestamp-prefixed name. Pending migrations run in
// name order regardless of registration order.
func Register(name string, m Migration) {
	registry = append(registry, entry{name: name, m: m})
}

// Runner applies and tracks migrations on one database.
type Runner struct {
	db  *gorm.DB
	out io.Writer
}

// New returns a Runner that reports progress to out.
func New(db *gorm.DB, out io.Writer) *Runner {
	if out == nil {
		out = io.Discard
	}
	return &Runner{db: db, out: out}
}

func (r *Runner) ensureTable() error {
	if err := r.db.AutoMigrate(&record{}); err != nil {
		return fmt.Errorf("migration: ensure table: %w", err)
	}
	return nil
}

func (r *Runner) applied() (map[string]record, error) {
	var rows []record
	if err := r.db.Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make(map[string]record, len(rows))
	for _, rec := range rows {
		out[rec.Name] = rec
	}
	return out, nil
}

func sorted() []entry {
	all := append([]entry(nil), registry...)
	sort.Slice(all, func(i, j int) bool { return all[i].name < all[j].name })
	return all
}

// Run applies every pending migration as one new batch and returns how many ran.
func (r *Runner) Run() (int, error) {
	if err := r.ensureTable(); err != nil {
		return 0, err
	}
	done, err := r.applied()
	if err != nil {
		return 0, fmt.Errorf("migration: fetch applied: %w", err)
	}

	batch := 1
	for _, rec := range done {
		if rec.Batch >= batch {
			batch = rec.Batch + 1
		}
	}

	ran := 0
	for _, e := range sorted() {
		if _, ok := done[e.name]; ok {
			continue
		}
		fmt.Fprintf(r.out, "  ▶ Migrating: %s\n", e.name)
		if err := e.m.Up(r.db); err != nil {
			return ran, fmt.Errorf("migration: %s up: %w", e.name, err)
		}
		if err := r.db.Create(&record{Name: e.name, Batch: batch}).Error; err != nil {
			return ran, fmt.Errorf("migration: record %s: %w", e.name, err)
		}
		ran++
	}

	if ran == 0 {
		fmt.Fprintln(r.out, "Nothing to migrate.")
		return 0, nil
	}
	logger.Info("migration: done", "ran", ran, "batch", batch)
	return ran, nil
}

// Rollback reverses the most recent batch and returns how many were undone.
func (r *Runner) Rollback() (int, error) {
	if err := r.ensureTable(); err != nil {
		return 0, err
	}

	var last record
	err := r.db.Order("batch DESC, id DESC").First(&last).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		fmt.Fprintln(r.out, "Nothing to roll back.")
		return 0, nil
	}
	if err != nil {
		return 0, err
	}

	var rows []record
	if err := r.db.Where("batch = ?", last.Batch).Order("id DESC").Find(&rows).Error; err != nil {
		return 0, err
	}

	known := make(map[string]Migration, len(registry))
	for _, e := range registry {
		known[e.name] = e.m
	}

	undone := 0
	for _, rec := range rows {
		m, ok := known[rec.Name]
		if !ok {
			return undone, fmt.Errorf("migration: cannot roll back %s: not registered", rec.Name)
		}
		fmt.Fprintf(r.out, "  ◀ Rolling back: %s\n", rec.Name)
		if err := m.Down(r.db); err != nil {
			return undone, fmt.Errorf("migration: %s down: %w", rec.Name, err)
		}
		if err := r.db.Delete(&rec).Error; err != nil {
			return undone, err
		}
		undone++
	}
	logger.Info("migration: rolled back", "count", undone, "batch", last.Batch)
	return undone, nil
}

// Status prints every registered migration and its batch.
func (r *Runner) Status() error {
	if err := r.ensureTable(); err != nil {
		return err
	}
	done, err := r.applied()
	if err != nil {
		return err
	}

	fmt.Fprintf(r.out, "%-50s  %-8s  %s\n", "Migration", "Status", "Batch")
	fmt.Fprintln(r.out, strings.Repeat("─", 70))
	for _, e := range sorted() {
		if rec, ok := done[e.name]; ok {
			fmt.Fprintf(r.out, "%-50s  %-8s  %d\n", e.name, "Ran", rec.Batch)
		} else {
			fmt.Fprintf(r.out, "%-50s  %-8s  -\n", e.name, "Pending")
		}
	}
	return nil
}
