package matching

import (
	"github.com/junsung-park97/matetrip-frontend-sub001/internal/matetrip"
)

// Info is the canonical, display-ready matching result for one (viewer, post)
// pair. Percentages are already normalized and clamped to [0,100]; optional
// dimensions stay nil when the candidate did not carry them.
type Info struct {
	Score         int
	VectorScore   *int
	StyleScore    *int
	TendencyScore *int
	MbtiScore     *int
	Styles        []string
	Tendencies    []string
}

// Entry pairs a post with the matching info derived from the first candidate
// that resolved to it.
type Entry struct {
	Post *matetrip.Post
	Info Info
}

// Reconcile merges matching candidates with the post catalog into a
// deduplicated ordered list of entries. Candidates are visited in input
// order; the first candidate resolving to a post wins it, and later
// candidates mapping to an already-seen post are dropped rather than merged.
// Malformed candidates degrade to zero values and never abort the run.
func Reconcile(candidates []*matetrip.MatchCandidate, catalog []*matetrip.Post) []Entry {
	seen := make(map[string]struct{})

	var entries []Entry
	for _, candidate := range candidates {
		if candidate == nil {
			continue
		}

		for _, post := range ResolvePosts(candidate, catalog) {
			if post == nil {
				continue
			}
			if _, ok := seen[post.ID]; ok {
				continue
			}
			seen[post.ID] = struct{}{}

			entries = append(entries, Entry{
				Post: post,
				Info: buildInfo(candidate),
			})
		}
	}

	return entries
}

func buildInfo(candidate *matetrip.MatchCandidate) Info {
	return Info{
		Score:         ClampPercent(ToPercent(candidate.Score)),
		VectorScore:   optionalPercent(candidate.VectorScore),
		StyleScore:    optionalPercent(candidate.StyleScore),
		TendencyScore: optionalPercent(candidate.TendencyScore),
		MbtiScore:     optionalPercent(candidate.MbtiScore),
		Styles:        NormalizeOverlap(candidate.OverlappingTravelStyles),
		Tendencies:    NormalizeOverlap(candidate.OverlappingTendencies),
	}
}

func optionalPercent(value *float64) *int {
	if value == nil {
		return nil
	}

	percent := ClampPercent(ToPercent(value))
	return &percent
}
