package ai

import (
	"context"

	"github.com/junsung-park97/matetrip-frontend-sub001/internal/matching"
	"github.com/junsung-park97/matetrip-frontend-sub001/internal/matetrip"
)

// Greeting is a drafted accompany-request message.
type Greeting struct {
	Message string
	Raw     string
}

// Composer drafts a greeting for the given matched post, using the viewer
// profile and the overlap keywords for personalization.
type Composer interface {
	Compose(ctx context.Context, viewer *matetrip.Profile, entry matching.Entry) (*Greeting, error)
}
