// Package repositories defines the repository interfaces for studio documents.
// These repositories abstract the data persistence details, ensuring the core
// application is clean and decoupled from the database.
package repositories

import (
	"context"
	"errors"
	"time"
)

// ErrSiteNotFound is returned when a site or a requested version has never
// been saved.
var ErrSiteNotFound = errors.New("site not found")

// SiteVersion is one saved copy of a site document.
type SiteVersion struct {
	ID               string    `json:"id"`
	SiteID           string    `json:"siteId"`
	Version          int       `json:"version"`
	EntryPointPageID string    `json:"entryPointPageId"`
	Payload          []byte    `json:"-"`
	SavedAt          time.Time `json:"savedAt"`
}

type SiteRepository interface {
	// StoreVersion saves payload as the next version of the site and returns
	// the stored record.
	StoreVersion(ctx context.Context, siteID, entryPointPageID string, payload []byte) (*SiteVersion, error)
	FindLatest(ctx context.Context, siteID string) (*SiteVersion, error)
	FindVersion(ctx context.Context, siteID string, version int) (*SiteVersion, error)
	ListVersions(ctx context.Context, siteID string) ([]*SiteVersion, error)
}
