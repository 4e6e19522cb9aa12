// Package filtering runs sequential, stat-reporting filter steps over
// reconciled matching entries before they are shown to the user.
package filtering

import (
	"context"
	"fmt"

	"github.com/junsung-park97/matetrip-frontend-sub001/internal/matching"
	"github.com/junsung-park97/matetrip-frontend-sub001/internal/matetrip"
	"go.uber.org/zap"
)

// Filter represents a single filtering step applied to matching entries.
type Filter interface {
	Name() string
	Disable(reason string)
	IsEnabled() bool

	Validate(cfg *Config) error
	Apply(ctx context.Context, deps Deps, entries []matching.Entry) ([]matching.Entry, Step, error)
}

// Deps aggregates dependencies shared across all filtering steps.
type Deps struct {
	Client *matetrip.Client
	Logger *zap.Logger
	Viewer *matetrip.Profile
}

// Step describes the result of executing a filtering step.
type Step struct {
	Initial int
	Dropped int
	Left    int
}

// Config contains configuration settings consumed by the filters.
type Config struct {
	// Statuses lists post statuses allowed through the status filter. Empty
	// means the default of recruiting-only.
	Statuses []string
	// MinScore drops entries whose normalized score falls below it.
	MinScore int
	// ExcludeFile points to the user's file of hidden post ids.
	ExcludeFile string
}

// Status represents runtime information about a filter.
type Status struct {
	Name    string
	Enabled bool
	Reason  string
	Details map[string]string
}

// statusProvider is implemented by filters that can supply detailed status information.
type statusProvider interface {
	Status() Status
}

// DisableByName marks a filter with the provided name as disabled while keeping it in the list.
func DisableByName(steps []Filter, name, reason string) {
	for _, step := range steps {
		if step.Name() == name {
			step.Disable(reason)
		}
	}
}

// Run executes the supplied filters sequentially, returning the remaining entries.
func Run(ctx context.Context, cfg *Config, deps Deps, steps []Filter, entries []matching.Entry) ([]matching.Entry, error) {
	for _, step := range steps {
		if !step.IsEnabled() {
			continue
		}
		if err := step.Validate(cfg); err != nil {
			return nil, fmt.Errorf("%s: %w", step.Name(), err)
		}
	}

	for _, step := range steps {
		if !step.IsEnabled() {
			if deps.Logger != nil {
				deps.Logger.Info("filter disabled", zap.String("name", step.Name()))
			}
			continue
		}

		next, info, err := step.Apply(ctx, deps, entries)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", step.Name(), err)
		}

		if deps.Logger != nil {
			deps.Logger.Info("filter step",
				zap.String("name", step.Name()),
				zap.Int("initial", info.Initial),
				zap.Int("dropped", info.Dropped),
				zap.Int("left", info.Left),
			)
		}

		entries = next
	}

	return entries, nil
}

// Describe returns status entries for the provided filters.
func Describe(steps []Filter) []Status {
	statuses := make([]Status, 0, len(steps))
	for _, step := range steps {
		if reporter, ok := step.(statusProvider); ok {
			statuses = append(statuses, reporter.Status())
			continue
		}

		statuses = append(statuses, Status{
			Name:    step.Name(),
			Enabled: step.IsEnabled(),
		})
	}
	return statuses
}
