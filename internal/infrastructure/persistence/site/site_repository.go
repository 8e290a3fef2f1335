// Package site provides the saved-version repository for studio documents
package site

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/AtRiskMedia/tractstack-studio/internal/domain/repositories"
	"github.com/AtRiskMedia/tractstack-studio/internal/infrastructure/observability/logging"
	"github.com/AtRiskMedia/tractstack-studio/internal/infrastructure/persistence/database"
	"github.com/AtRiskMedia/tractstack-studio/internal/infrastructure/security"
)

const selectColumns = `id, site_id, version, entry_point_page_id, payload, saved_at`

type SiteRepository struct {
	db     *sql.DB
	logger *logging.ChanneledLogger
	now    func() time.Time
}

func NewSiteRepository(db *sql.DB, logger *logging.ChanneledLogger) *SiteRepository {
	return &SiteRepository{
		db:     db,
		logger: logger,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

var _ repositories.SiteRepository = (*SiteRepository)(nil)

// StoreVersion inserts payload as version MAX(version)+1 of the site.
func (r *SiteRepository) StoreVersion(ctx context.Context, siteID, entryPointPageID string, payload []byte) (*repositories.SiteVersion, error) {
	start := time.Now()
	r.logger.Database().Debug("Storing site version", "siteId", siteID, "bytes", len(payload))

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var current sql.NullInt64
	if err := tx.QueryRowContext(ctx, `SELECT MAX(version) FROM site_versions WHERE site_id = ?`, siteID).Scan(&current); err != nil {
		r.logger.Database().Error("Site version lookup failed", "error", err.Error(), "siteId", siteID)
		return nil, fmt.Errorf("failed to read current version: %w", err)
	}

	version := &repositories.SiteVersion{
		ID:               security.GenerateULID(),
		SiteID:           siteID,
		Version:          int(current.Int64) + 1,
		EntryPointPageID: entryPointPageID,
		Payload:          append([]byte(nil), payload...),
		SavedAt:          r.now(),
	}

	query := `INSERT INTO site_versions (` + selectColumns + `) VALUES (?, ?, ?, ?, ?, ?)`
	_, err = tx.ExecContext(ctx, query,
		version.ID, version.SiteID, version.Version, version.EntryPointPageID,
		string(version.Payload), version.SavedAt.Format(time.RFC3339Nano))
	if err != nil {
		r.logger.Database().Error("Site version insert failed", "error", err.Error(), "siteId", siteID)
		return nil, fmt.Errorf("failed to insert site version: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit site version: %w", err)
	}

	duration := time.Since(start)
	r.logger.Database().Info("Site version stored", "siteId", siteID, "version", version.Version, "duration", duration)
	database.CheckAndLogSlowQuery(r.logger, query, duration, siteID)
	return version, nil
}

func (r *SiteRepository) FindLatest(ctx context.Context, siteID string) (*repositories.SiteVersion, error) {
	query := `SELECT ` + selectColumns + ` FROM site_versions WHERE site_id = ? ORDER BY version DESC LIMIT 1`
	return r.findOne(ctx, query, siteID)
}

func (r *SiteRepository) FindVersion(ctx context.Context, siteID string, version int) (*repositories.SiteVersion, error) {
	query := `SELECT ` + selectColumns + ` FROM site_versions WHERE site_id = ? AND version = ?`
	return r.findOne(ctx, query, siteID, version)
}

// ListVersions returns every saved version of a site, newest first.
func (r *SiteRepository) ListVersions(ctx context.Context, siteID string) ([]*repositories.SiteVersion, error) {
	start := time.Now()
	query := `SELECT ` + selectColumns + ` FROM site_versions WHERE site_id = ? ORDER BY version DESC`

	rows, err := r.db.QueryContext(ctx, query, siteID)
	if err != nil {
		r.logger.Database().Error("Site version list failed", "error", err.Error(), "siteId", siteID)
		return nil, fmt.Errorf("failed to list site versions: %w", err)
	}
	defer rows.Close()

	var versions []*repositories.SiteVersion
	for rows.Next() {
		v, err := scanVersion(rows)
		if err != nil {
			return nil, err
		}
		versions = append(versions, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate site versions: %w", err)
	}

	database.CheckAndLogSlowQuery(r.logger, query, time.Since(start), siteID)
	return versions, nil
}

func (r *SiteRepository) findOne(ctx context.Context, query string, args ...any) (*repositories.SiteVersion, error) {
	start := time.Now()
	v, err := scanVersion(r.db.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repositories.ErrSiteNotFound
	}
	if err != nil {
		r.logger.Database().Error("Site version query failed", "error", err.Error())
		return nil, err
	}
	database.CheckAndLogSlowQuery(r.logger, query, time.Since(start), v.SiteID)
	return v, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanVersion(row scanner) (*repositories.SiteVersion, error) {
	var (
		v        repositories.SiteVersion
		payload  string
		savedStr string
	)
	if err := row.Scan(&v.ID, &v.SiteID, &v.Version, &v.EntryPointPageID, &payload, &savedStr); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to scan site version: %w", err)
	}
	v.Payload = []byte(payload)
	if saved, err := time.Parse(time.RFC3339Nano, savedStr); err == nil {
		v.SavedAt = saved
	}
	return &v, nil
}
