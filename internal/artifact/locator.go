package artifact

import (
	"context"

	"nostressia/internal/models"
)

// Location is where an artifact lives and which registry scope it came from.
type Location struct {
	URL       string
	Scope     string
	RecordID  uint
	Milestone *int
}

// Locator finds the artifact location for a user. ok is false when the
// locator has nothing to offer.
type Locator interface {
	Locate(ctx context.Context, userID uint) (loc Location, ok bool, err error)
}

// Registry is the read side of the model registry. Both methods return
// (nil, nil) when no active record exists.
type Registry interface {
	ActiveGlobal(ctx context.Context) (*models.ModelRecord, error)
	ActivePersonalized(ctx context.Context, userID uint) (*models.ModelRecord, error)
}

type PersonalizedLocator struct {
	Registry Registry
}

func (l PersonalizedLocator) Locate(ctx context.Context, userID uint) (Location, bool, error) {
	rec, err := l.Registry.ActivePersonalized(ctx, userID)
	if err != nil || rec == nil {
		return Location{}, false, err
	}
	return fromRecord(rec), true, nil
}

type GlobalLocator struct {
	Registry Registry
}

func (l GlobalLocator) Locate(ctx context.Context, _ uint) (Location, bool, error) {
	rec, err := l.Registry.ActiveGlobal(ctx)
	if err != nil || rec == nil {
		return Location{}, false, err
	}
	return fromRecord(rec), true, nil
}

// DefaultLocator always points at one configured legacy artifact.
type DefaultLocator struct {
	URL string
}

func (l DefaultLocator) Locate(context.Context, uint) (Location, bool, error) {
	if l.URL == "" {
		return Location{}, false, nil
	}
	return Location{URL: l.URL, Scope: models.ScopeGlobal}, true, nil
}

func fromRecord(rec *models.ModelRecord) Location {
	return Location{
		URL:       rec.ArtifactURL,
		Scope:     rec.Scope,
		RecordID:  rec.ID,
		Milestone: rec.Milestone,
	}
}
