package filtering

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/junsung-park97/matetrip-frontend-sub001/internal/matching"
	"github.com/junsung-park97/matetrip-frontend-sub001/internal/matetrip"
)

type statusFilter struct {
	allowed []string
}

// NewStatus creates a filter that keeps only posts in an allowed status,
// recruiting-only by default.
func NewStatus() Filter {
	return &statusFilter{}
}

func (f *statusFilter) Name() string { return "status" }

func (f *statusFilter) Disable(string) {}

func (f *statusFilter) IsEnabled() bool { return true }

func (f *statusFilter) Validate(cfg *Config) error {
	f.allowed = nil
	if cfg != nil {
		f.allowed = append(f.allowed, cfg.Statuses...)
	}
	if len(f.allowed) == 0 {
		f.allowed = []string{matetrip.StatusRecruiting}
	}
	return nil
}

func (f *statusFilter) Apply(_ context.Context, deps Deps, entries []matching.Entry) ([]matching.Entry, Step, error) {
	initial := len(entries)

	allowed := make(map[string]struct{}, len(f.allowed))
	for _, status := range f.allowed {
		allowed[status] = struct{}{}
	}

	var kept []matching.Entry
	var excluded []string
	for _, entry := range entries {
		if _, ok := allowed[entry.Post.Status]; ok {
			kept = append(kept, entry)
			continue
		}
		excluded = append(excluded, entry.Post.ID)
	}

	if deps.Logger != nil && len(excluded) > 0 {
		deps.Logger.Info("excluding posts not open for recruiting",
			zap.Strings("excluded_posts", excluded),
			zap.Int("posts_left", len(kept)),
		)
	}

	return kept, Step{Initial: initial, Dropped: len(excluded), Left: len(kept)}, nil
}

func (f *statusFilter) Status() Status {
	details := map[string]string{}
	if len(f.allowed) > 0 {
		details["statuses"] = strings.Join(f.allowed, ",")
	}
	return Status{Name: f.Name(), Enabled: true, Details: details}
}

type ownPostsFilter struct {
	disabled bool
	reason   string
}

// NewOwnPosts creates a filter that removes posts written by the viewer.
// The recommendation service occasionally returns the viewer's own posts when
// profiles are similar enough.
func NewOwnPosts() Filter {
	return &ownPostsFilter{}
}

func (f *ownPostsFilter) Name() string { return "own_posts" }

func (f *ownPostsFilter) Disable(reason string) {
	f.disabled = true
	f.reason = reason
}

func (f *ownPostsFilter) IsEnabled() bool { return !f.disabled }

func (f *ownPostsFilter) Validate(*Config) error { return nil }

func (f *ownPostsFilter) Apply(_ context.Context, deps Deps, entries []matching.Entry) ([]matching.Entry, Step, error) {
	initial := len(entries)
	if deps.Viewer == nil {
		return entries, Step{}, fmt.Errorf("viewer profile is required")
	}

	var kept []matching.Entry
	var excluded []string
	for _, entry := range entries {
		if matching.WrittenBy(entry.Post, deps.Viewer.ID) {
			excluded = append(excluded, entry.Post.ID)
			continue
		}
		kept = append(kept, entry)
	}

	if deps.Logger != nil && len(excluded) > 0 {
		deps.Logger.Info("excluding posts written by the viewer",
			zap.Strings("excluded_posts", excluded),
			zap.Int("posts_left", len(kept)),
		)
	}

	return kept, Step{Initial: initial, Dropped: len(excluded), Left: len(kept)}, nil
}

func (f *ownPostsFilter) Status() Status {
	return Status{Name: f.Name(), Enabled: f.IsEnabled(), Reason: f.reason}
}

type minScoreFilter struct {
	minScore int
}

// NewMinScore creates a filter that drops entries below the configured score floor.
func NewMinScore() Filter {
	return &minScoreFilter{}
}

func (f *minScoreFilter) Name() string { return "min_score" }

func (f *minScoreFilter) Disable(string) {}

func (f *minScoreFilter) IsEnabled() bool { return true }

func (f *minScoreFilter) Validate(cfg *Config) error {
	f.minScore = 0
	if cfg != nil {
		f.minScore = cfg.MinScore
	}
	if f.minScore < 0 || f.minScore > 100 {
		return fmt.Errorf("min score must be within [0,100], got %d", f.minScore)
	}
	return nil
}

func (f *minScoreFilter) Apply(_ context.Context, deps Deps, entries []matching.Entry) ([]matching.Entry, Step, error) {
	initial := len(entries)
	if f.minScore == 0 {
		return entries, Step{Initial: initial, Dropped: 0, Left: initial}, nil
	}

	var kept []matching.Entry
	var excluded []string
	for _, entry := range entries {
		if entry.Info.Score < f.minScore {
			excluded = append(excluded, entry.Post.ID)
			continue
		}
		kept = append(kept, entry)
	}

	if deps.Logger != nil && len(excluded) > 0 {
		deps.Logger.Info("excluding posts below minimum score",
			zap.Int("min_score", f.minScore),
			zap.Strings("excluded_posts", excluded),
			zap.Int("posts_left", len(kept)),
		)
	}

	return kept, Step{Initial: initial, Dropped: len(excluded), Left: len(kept)}, nil
}

func (f *minScoreFilter) Status() Status {
	return Status{
		Name:    f.Name(),
		Enabled: true,
		Details: map[string]string{"min_score": strconv.Itoa(f.minScore)},
	}
}

type excludeFileFilter struct {
	path string
}

// NewExcludeFile creates a filter that removes posts recorded in the user's
// exclude file (hidden or already contacted).
func NewExcludeFile() Filter {
	return &excludeFileFilter{}
}

func (f *excludeFileFilter) Name() string { return "exclude_file" }

func (f *excludeFileFilter) Disable(string) {}

func (f *excludeFileFilter) IsEnabled() bool { return true }

func (f *excludeFileFilter) Validate(cfg *Config) error {
	f.path = ""
	if cfg != nil {
		f.path = strings.TrimSpace(cfg.ExcludeFile)
	}
	return nil
}

func (f *excludeFileFilter) Apply(_ context.Context, deps Deps, entries []matching.Entry) ([]matching.Entry, Step, error) {
	initial := len(entries)
	if f.path == "" {
		return entries, Step{Initial: initial, Dropped: 0, Left: initial}, nil
	}

	excluded, err := matetrip.GetExcludedPostsFromFile(f.path)
	if err != nil {
		return nil, Step{}, fmt.Errorf("getting excluded posts from file: %w", err)
	}

	hidden := make(map[string]struct{})
	for _, id := range excluded.PostIDs() {
		hidden[id] = struct{}{}
	}

	var kept []matching.Entry
	var removed []string
	for _, entry := range entries {
		if _, ok := hidden[entry.Post.ID]; ok {
			removed = append(removed, entry.Post.ID)
			continue
		}
		kept = append(kept, entry)
	}

	if deps.Logger != nil && len(removed) > 0 {
		deps.Logger.Info("excluding posts based on exclude file",
			zap.String("path", f.path),
			zap.Strings("excluded_posts", removed),
			zap.Int("posts_left", len(kept)),
		)
	}

	return kept, Step{Initial: initial, Dropped: len(removed), Left: len(kept)}, nil
}

func (f *excludeFileFilter) Status() Status {
	details := map[string]string{}
	if f.path != "" {
		details["path"] = f.path
	}
	return Status{Name: f.Name(), Enabled: true, Details: details}
}
