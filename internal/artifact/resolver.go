package artifact

import (
	"context"
	"fmt"

	"nostressia/internal/logger"
	"nostressia/internal/ml"
)

type Resolver struct {
	cache  *Cache
	user   []Locator
	global []Locator
	log    *logger.Logger
}

// NewResolver resolves personalized, then global, then the default artifact.
func NewResolver(cache *Cache, registry Registry, defaultURL string, log *logger.Logger) *Resolver {
	global := []Locator{GlobalLocator{Registry: registry}, DefaultLocator{URL: defaultURL}}
	return &Resolver{
		cache:  cache,
		user:   append([]Locator{PersonalizedLocator{Registry: registry}}, global...),
		global: global,
		log:    log.With("component", "ArtifactResolver"),
	}
}

// Resolve loads the highest-priority artifact available for the user. A
// located artifact that fails to load is reported, not skipped.
func (r *Resolver) Resolve(ctx context.Context, userID uint) (*ml.Artifact, Location, error) {
	loc, err := r.locate(ctx, r.user, userID)
	if err != nil {
		return nil, Location{}, err
	}
	art, err := r.cache.Load(ctx, loc.URL)
	if err != nil {
		return nil, loc, err
	}
	r.log.Debug("artifact resolved", "user_id", userID, "scope", loc.Scope, "location", loc.URL)
	return art, loc, nil
}

// RequiredHistoryDays reads window+1 from the global artifact. It returns 0
// when there is no global artifact or it cannot be loaded.
func (r *Resolver) RequiredHistoryDays(ctx context.Context) int {
	loc, err := r.locate(ctx, r.global, 0)
	if err != nil {
		r.log.Debug("no global artifact for history window", "error", err)
		return 0
	}
	art, err := r.cache.Load(ctx, loc.URL)
	if err != nil {
		r.log.Warn("failed to load global artifact for history window", "location", loc.URL, "error", err)
		return 0
	}
	return art.RequiredHistoryDays()
}

func (r *Resolver) locate(ctx context.Context, chain []Locator, userID uint) (Location, error) {
	for _, l := range chain {
		loc, ok, err := l.Locate(ctx, userID)
		if err != nil {
			return Location{}, fmt.Errorf("locate model artifact: %w", err)
		}
		if ok {
			return loc, nil
		}
	}
	return Location{}, &UnavailableError{Err: ErrNoArtifact}
}
