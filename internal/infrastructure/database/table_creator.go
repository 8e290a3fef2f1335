// Package database provides schema creation for the studio store
package database

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/AtRiskMedia/tractstack-studio/internal/infrastructure/security"
)

// TableCreator handles the creation of the database schema.
type TableCreator struct{}

// NewTableCreator creates a new TableCreator.
func NewTableCreator() *TableCreator {
	return &TableCreator{}
}

// CreateSchema executes all necessary queries to build the tables and indexes.
func (tc *TableCreator) CreateSchema(db *sql.DB) error {
	for _, tableSQL := range tables {
		if _, err := db.Exec(tableSQL); err != nil {
			return fmt.Errorf("failed to create table for query [%s]: %w", tableSQL, err)
		}
	}

	for _, indexSQL := range indexes {
		if _, err := db.Exec(indexSQL); err != nil {
			return fmt.Errorf("failed to create index for query [%s]: %w", indexSQL, err)
		}
	}
	return nil
}

// SeedInitialContent stores version 1 of a site when the site has no saved
// versions yet. payload must be canonical site JSON.
func (tc *TableCreator) SeedInitialContent(db *sql.DB, siteID, entryPointPageID string, payload []byte) (bool, error) {
	var exists bool
	err := db.QueryRow(`SELECT EXISTS(SELECT 1 FROM site_versions WHERE site_id = ?)`, siteID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check for site %s: %w", siteID, err)
	}
	if exists {
		return false, nil
	}

	_, err = db.Exec(`INSERT INTO site_versions (id, site_id, version, entry_point_page_id, payload, saved_at) VALUES (?, ?, ?, ?, ?, ?)`,
		security.GenerateULID(), siteID, 1, entryPointPageID, string(payload), time.Now().UTC().Format(time.RFC3339Nano))
	if err != nil {
		return false, fmt.Errorf("failed to insert initial version of site %s: %w", siteID, err)
	}
	return true, nil
}

var tables = []string{
	`CREATE TABLE IF NOT EXISTS site_versions (id TEXT PRIMARY KEY, site_id TEXT NOT NULL, version INTEGER NOT NULL, entry_point_page_id TEXT NOT NULL DEFAULT '', payload TEXT NOT NULL, saved_at TEXT NOT NULL, UNIQUE(site_id, version))`,
}

var indexes = []string{
	`CREATE INDEX IF NOT EXISTS idx_site_versions_site_id ON site_versions(site_id)`,
	`CREATE INDEX IF NOT EXISTS idx_site_versions_saved_at ON site_versions(saved_at)`,
}
