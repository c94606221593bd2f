package artifact

import (
	"errors"
	"fmt"
)

// ErrNoArtifact means no locator produced an artifact location.
var ErrNoArtifact = errors.New("no model artifact configured")

// UnavailableError is an operational failure to fetch or decode an artifact.
type UnavailableError struct {
	Location string
	Err      error
}

func (e *UnavailableError) Error() string {
	if e.Location == "" {
		return fmt.Sprintf("model artifact unavailable: %v", e.Err)
	}
	return fmt.Sprintf("model artifact unavailable at %s: %v", e.Location, e.Err)
}

func (e *UnavailableError) Unwrap() error { return e.Err }
