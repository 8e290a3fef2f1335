// Package services provides application-level orchestration services
package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/AtRiskMedia/tractstack-studio/internal/application/editor"
	"github.com/AtRiskMedia/tractstack-studio/internal/domain/repositories"
	domainservices "github.com/AtRiskMedia/tractstack-studio/internal/domain/services"
	"github.com/AtRiskMedia/tractstack-studio/internal/infrastructure/messaging"
	"github.com/AtRiskMedia/tractstack-studio/internal/infrastructure/observability/logging"
)

// ErrInvalidSiteID is returned for an empty site id.
var ErrInvalidSiteID = errors.New("invalid site id")

// StudioOptions tunes the editors the service creates.
type StudioOptions struct {
	StructureCapacity int
	DetailCapacity    int
	IDGenerator       editor.IDGenerator
	Clock             func() time.Time
}

// siteSession is one open site. mu serializes every editor call so only one
// commit is ever in flight.
type siteSession struct {
	mu     sync.Mutex
	editor *editor.Editor
}

// StudioService owns the open editors, one per site id.
type StudioService struct {
	repo        repositories.SiteRepository
	broadcaster messaging.Broadcaster
	resolver    *domainservices.StyleResolver
	normalizer  *domainservices.SiteNormalizer
	logger      *logging.ChanneledLogger
	opts        StudioOptions

	mu       sync.Mutex
	sessions map[string]*siteSession
}

// NewStudioService creates a new studio service. broadcaster may be nil.
func NewStudioService(
	repo repositories.SiteRepository,
	broadcaster messaging.Broadcaster,
	resolver *domainservices.StyleResolver,
	normalizer *domainservices.SiteNormalizer,
	logger *logging.ChanneledLogger,
	opts StudioOptions,
) *StudioService {
	return &StudioService{
		repo:        repo,
		broadcaster: broadcaster,
		resolver:    resolver,
		normalizer:  normalizer,
		logger:      logger,
		opts:        opts,
		sessions:    make(map[string]*siteSession),
	}
}

// session returns the open session for a site, loading the latest saved
// version on first use.
func (s *StudioService) session(ctx context.Context, siteID string) (*siteSession, error) {
	if siteID == "" {
		return nil, ErrInvalidSiteID
	}

	s.mu.Lock()
	sess, ok := s.sessions[siteID]
	s.mu.Unlock()
	if ok {
		return sess, nil
	}

	// Load outside the service lock so open sites are not blocked on I/O.
	start := time.Now()
	ed := editor.New(editor.Options{
		Resolver:          s.resolver,
		Normalizer:        s.normalizer,
		Logger:            s.logger.WithSite(logging.ChannelEditor, siteID),
		StructureCapacity: s.opts.StructureCapacity,
		DetailCapacity:    s.opts.DetailCapacity,
		IDGenerator:       s.opts.IDGenerator,
		Clock:             s.opts.Clock,
	})

	latest, err := s.repo.FindLatest(ctx, siteID)
	switch {
	case errors.Is(err, repositories.ErrSiteNotFound):
		s.logger.Editor().Info("No saved version, starting from an empty site", "siteId", siteID)
	case err != nil:
		return nil, fmt.Errorf("failed to load site %s: %w", siteID, err)
	default:
		in, err := loadInputFromVersion(latest)
		if err != nil {
			return nil, err
		}
		ed.Load(in)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if existing, ok := s.sessions[siteID]; ok {
		// another caller opened the site while we were loading
		return existing, nil
	}
	ed.SetOnChange(s.forward(siteID))
	sess = &siteSession{editor: ed}
	s.sessions[siteID] = sess

	s.logger.Editor().Info("Site opened", "siteId", siteID, "duration", time.Since(start))
	return sess, nil
}

func loadInputFromVersion(v *repositories.SiteVersion) (editor.LoadInput, error) {
	var raw any
	if err := json.Unmarshal(v.Payload, &raw); err != nil {
		return editor.LoadInput{}, fmt.Errorf("failed to decode version %d of site %s: %w", v.Version, v.SiteID, err)
	}
	savedAt := v.SavedAt
	return editor.LoadInput{
		Site:                 raw,
		EntryPointPageID:     v.EntryPointPageID,
		CurrentVersionNumber: v.Version,
		LastSavedAt:          &savedAt,
	}, nil
}

func (s *StudioService) forward(siteID string) func(editor.ChangeEvent) {
	return func(ev editor.ChangeEvent) {
		if s.broadcaster == nil {
			return
		}
		s.broadcaster.Broadcast(siteID, messaging.Event{
			Type:    string(ev.Kind),
			At:      ev.Meta.Timestamp,
			Payload: ev,
		})
	}
}

// Open returns the state of a site, opening it if needed.
func (s *StudioService) Open(ctx context.Context, siteID string) (editor.EditorState, error) {
	var state editor.EditorState
	err := s.Do(ctx, siteID, func(ed *editor.Editor) error {
		state = ed.State()
		return nil
	})
	return state, err
}

// Do runs fn against the site's editor while holding the site lock.
func (s *StudioService) Do(ctx context.Context, siteID string, fn func(*editor.Editor) error) error {
	sess, err := s.session(ctx, siteID)
	if err != nil {
		return err
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()
	return fn(sess.editor)
}

// Import replaces the site document without saving it.
func (s *StudioService) Import(ctx context.Context, siteID string, in editor.LoadInput) (editor.EditorState, error) {
	var state editor.EditorState
	err := s.Do(ctx, siteID, func(ed *editor.Editor) error {
		ed.Load(in)
		state = ed.State()
		return nil
	})
	if err == nil {
		s.logger.Editor().Info("Site imported", "siteId", siteID, "pages", len(state.Site.Pages))
	}
	return state, err
}

// Save stores the current document as the next version and acknowledges it
// to the editor.
func (s *StudioService) Save(ctx context.Context, siteID string) (*repositories.SiteVersion, error) {
	var saved *repositories.SiteVersion
	err := s.Do(ctx, siteID, func(ed *editor.Editor) error {
		payload, err := json.Marshal(ed.Site().Raw())
		if err != nil {
			return fmt.Errorf("failed to encode site %s: %w", siteID, err)
		}
		v, err := s.repo.StoreVersion(ctx, siteID, ed.EntryPointPageID(), payload)
		if err != nil {
			return fmt.Errorf("failed to save site %s: %w", siteID, err)
		}
		ed.MarkAsSaved(editor.VersionInfo{VersionNumber: v.Version, SavedAt: v.SavedAt})
		saved = v
		return nil
	})
	if err != nil {
		s.logger.LogError(logging.ChannelEditor, "save", err, siteID, nil)
		return nil, err
	}
	s.logger.Editor().Info("Site saved", "siteId", siteID, "version", saved.Version)
	return saved, nil
}

// Versions lists the saved versions of a site, newest first.
func (s *StudioService) Versions(ctx context.Context, siteID string) ([]*repositories.SiteVersion, error) {
	if siteID == "" {
		return nil, ErrInvalidSiteID
	}
	return s.repo.ListVersions(ctx, siteID)
}

// LoadVersion replaces the document with a saved version. The editor then
// reports that version as current and has no unsaved changes.
func (s *StudioService) LoadVersion(ctx context.Context, siteID string, version int) (editor.EditorState, error) {
	v, err := s.repo.FindVersion(ctx, siteID, version)
	if err != nil {
		return editor.EditorState{}, err
	}
	in, err := loadInputFromVersion(v)
	if err != nil {
		return editor.EditorState{}, err
	}
	return s.Import(ctx, siteID, in)
}

// Close drops an open site. Unsaved changes are lost.
func (s *StudioService) Close(siteID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.sessions[siteID]; !ok {
		return false
	}
	delete(s.sessions, siteID)
	s.logger.Editor().Info("Site closed", "siteId", siteID)
	return true
}

// OpenSites returns the ids of the open sites in sorted order.
func (s *StudioService) OpenSites() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	ids := make([]string, 0, len(s.sessions))
	for id := range s.sessions {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Presets lists the style preset ids available to SetStyleID.
func (s *StudioService) Presets() []string {
	return s.resolver.Catalog().IDs()
}
