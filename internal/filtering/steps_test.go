package filtering

import (
	"context"
	"path/filepath"
	"testing"

	"go.uber.org/zap"

	"github.com/junsung-park97/matetrip-frontend-sub001/internal/matching"
	"github.com/junsung-park97/matetrip-frontend-sub001/internal/matetrip"
)

func makeEntries(posts ...*matetrip.Post) []matching.Entry {
	entries := make([]matching.Entry, 0, len(posts))
	for _, post := range posts {
		entries = append(entries, matching.Entry{Post: post})
	}
	return entries
}

func testDeps() Deps {
	return Deps{
		Logger: zap.NewNop(),
		Viewer: &matetrip.Profile{ID: "me"},
	}
}

func TestStatusFilterDefaultsToRecruiting(t *testing.T) {
	t.Parallel()

	filter := NewStatus()
	if err := filter.Validate(&Config{}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	entries := makeEntries(
		&matetrip.Post{ID: "p1", Status: matetrip.StatusRecruiting},
		&matetrip.Post{ID: "p2", Status: matetrip.StatusFilled},
		&matetrip.Post{ID: "p3", Status: matetrip.StatusCompleted},
	)

	kept, step, err := filter.Apply(context.Background(), testDeps(), entries)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(kept) != 1 || kept[0].Post.ID != "p1" {
		t.Fatalf("unexpected entries: %+v", kept)
	}
	if step.Initial != 3 || step.Dropped != 2 || step.Left != 1 {
		t.Fatalf("unexpected step stats: %+v", step)
	}
}

func TestStatusFilterConfiguredStatuses(t *testing.T) {
	t.Parallel()

	filter := NewStatus()
	cfg := &Config{Statuses: []string{matetrip.StatusRecruiting, matetrip.StatusFilled}}
	if err := filter.Validate(cfg); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	entries := makeEntries(
		&matetrip.Post{ID: "p1", Status: matetrip.StatusFilled},
		&matetrip.Post{ID: "p2", Status: matetrip.StatusCompleted},
	)

	kept, _, err := filter.Apply(context.Background(), testDeps(), entries)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(kept) != 1 || kept[0].Post.ID != "p1" {
		t.Fatalf("unexpected entries: %+v", kept)
	}
}

func TestOwnPostsFilter(t *testing.T) {
	t.Parallel()

	filter := NewOwnPosts()
	if err := filter.Validate(nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	entries := makeEntries(
		&matetrip.Post{ID: "mine", WriterID: "me"},
		&matetrip.Post{ID: "theirs", WriterID: "other"},
		&matetrip.Post{ID: "profile", WriterProfile: &matetrip.WriterProfile{ID: "me"}},
	)

	kept, step, err := filter.Apply(context.Background(), testDeps(), entries)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(kept) != 1 || kept[0].Post.ID != "theirs" {
		t.Fatalf("unexpected entries: %+v", kept)
	}
	if step.Dropped != 2 {
		t.Fatalf("expected 2 dropped, got %d", step.Dropped)
	}
}

func TestOwnPostsFilterRequiresViewer(t *testing.T) {
	t.Parallel()

	filter := NewOwnPosts()
	deps := Deps{Logger: zap.NewNop()}

	if _, _, err := filter.Apply(context.Background(), deps, nil); err == nil {
		t.Fatalf("expected error when viewer profile is missing")
	}
}

func TestMinScoreFilter(t *testing.T) {
	t.Parallel()

	filter := NewMinScore()
	if err := filter.Validate(&Config{MinScore: 70}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	entries := []matching.Entry{
		{Post: &matetrip.Post{ID: "low"}, Info: matching.Info{Score: 69}},
		{Post: &matetrip.Post{ID: "edge"}, Info: matching.Info{Score: 70}},
		{Post: &matetrip.Post{ID: "high"}, Info: matching.Info{Score: 95}},
	}

	kept, step, err := filter.Apply(context.Background(), testDeps(), entries)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(kept) != 2 || kept[0].Post.ID != "edge" || kept[1].Post.ID != "high" {
		t.Fatalf("unexpected entries: %+v", kept)
	}
	if step.Initial != 3 || step.Dropped != 1 || step.Left != 2 {
		t.Fatalf("unexpected step stats: %+v", step)
	}
}

func TestMinScoreFilterValidation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		score   int
		wantErr bool
	}{
		{name: "zero", score: 0},
		{name: "hundred", score: 100},
		{name: "negative", score: -1, wantErr: true},
		{name: "over hundred", score: 101, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			err := NewMinScore().Validate(&Config{MinScore: tt.score})
			if tt.wantErr && err == nil {
				t.Fatalf("expected validation error for %d", tt.score)
			}
			if !tt.wantErr && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
}

func TestExcludeFileFilter(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "excluded.json")
	hidden := &matetrip.ExcludedPosts{Items: []*matetrip.ExcludedPost{{ID: "hidden"}}}
	if err := hidden.ToFile(path); err != nil {
		t.Fatalf("write exclude file: %v", err)
	}

	filter := NewExcludeFile()
	if err := filter.Validate(&Config{ExcludeFile: path}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	entries := makeEntries(
		&matetrip.Post{ID: "hidden"},
		&matetrip.Post{ID: "visible"},
	)

	kept, _, err := filter.Apply(context.Background(), testDeps(), entries)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(kept) != 1 || kept[0].Post.ID != "visible" {
		t.Fatalf("unexpected entries: %+v", kept)
	}
}

func TestExcludeFileFilterNoPath(t *testing.T) {
	t.Parallel()

	filter := NewExcludeFile()
	if err := filter.Validate(&Config{}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	entries := makeEntries(&matetrip.Post{ID: "p1"})
	kept, _, err := filter.Apply(context.Background(), testDeps(), entries)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(kept) != 1 {
		t.Fatalf("expected passthrough, got %d entries", len(kept))
	}
}

func TestDisableByName(t *testing.T) {
	t.Parallel()

	steps := []Filter{NewStatus(), NewOwnPosts()}
	DisableByName(steps, "own_posts", "requested by flag")

	for _, step := range steps {
		if step.Name() == "own_posts" && step.IsEnabled() {
			t.Fatalf("own_posts filter must be disabled")
		}
		if step.Name() == "status" && !step.IsEnabled() {
			t.Fatalf("status filter must stay enabled")
		}
	}
}

func TestRunStopsOnInvalidConfig(t *testing.T) {
	t.Parallel()

	steps := []Filter{NewStatus(), NewMinScore()}
	cfg := &Config{MinScore: 300}

	if _, err := Run(context.Background(), cfg, testDeps(), steps, nil); err == nil {
		t.Fatalf("expected validation error")
	}
}

func TestRunAppliesSequentially(t *testing.T) {
	t.Parallel()

	steps := []Filter{NewStatus(), NewOwnPosts(), NewMinScore()}
	cfg := &Config{MinScore: 50}

	entries := []matching.Entry{
		{Post: &matetrip.Post{ID: "keep", Status: matetrip.StatusRecruiting}, Info: matching.Info{Score: 80}},
		{Post: &matetrip.Post{ID: "closed", Status: matetrip.StatusCompleted}, Info: matching.Info{Score: 90}},
		{Post: &matetrip.Post{ID: "mine", Status: matetrip.StatusRecruiting, WriterID: "me"}, Info: matching.Info{Score: 99}},
		{Post: &matetrip.Post{ID: "weak", Status: matetrip.StatusRecruiting}, Info: matching.Info{Score: 10}},
	}

	kept, err := Run(context.Background(), cfg, testDeps(), steps, entries)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(kept) != 1 || kept[0].Post.ID != "keep" {
		t.Fatalf("unexpected entries: %+v", kept)
	}
}
