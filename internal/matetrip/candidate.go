package matetrip

import (
	"fmt"
	"net/url"

	"github.com/mitchellh/mapstructure"
)

const MatchingSearchPath = "/matching/search"

type Candidates struct {
	Items []*MatchCandidate
}

// MatchCandidate is a scored association between the viewing user and another
// user, as produced by the recommendation service. Score fields may arrive as
// fractions in [0,1] or as percentages in [0,100]; the overlap fields may be a
// string, a labeled object, an array mixing both, or absent entirely. They are
// kept raw here and canonicalized by the matching package.
type MatchCandidate struct {
	UserID        string   `json:"userId,omitempty"`
	Score         *float64 `json:"score,omitempty"`
	VectorScore   *float64 `json:"vectorScore,omitempty"`
	StyleScore    *float64 `json:"styleScore,omitempty"`
	TendencyScore *float64 `json:"tendencyScore,omitempty"`
	MbtiScore     *float64 `json:"mbtiScore,omitempty"`

	OverlappingTravelStyles interface{} `json:"overlappingTravelStyles,omitempty"`
	OverlappingTendencies   interface{} `json:"overlappingTendencies,omitempty"`

	RecruitingPosts []*Post `json:"recruitingPosts,omitempty"`
}

func (c *Candidates) Len() int {
	return len(c.Items)
}

func (c *Client) searchMatches(userID string) (*Candidates, error) {
	if userID == "" {
		return nil, fmt.Errorf("user id is required")
	}

	apiURLMatching := fmt.Sprintf("%s%s", c.APIURL, MatchingSearchPath)

	q := url.Values{}
	q.Set("userId", userID)

	var payload interface{}
	if err := c.getJSON(apiURLMatching, q, &payload); err != nil {
		return nil, err
	}

	return DecodeCandidates(payload)
}

// DecodeCandidates turns a raw matching-search payload into typed candidates.
// The payload may be a bare array or an object wrapping the array under
// "matches"; both produce identical results.
func DecodeCandidates(payload interface{}) (*Candidates, error) {
	items := candidateItems(payload)

	var candidates []*MatchCandidate
	cfg := &mapstructure.DecoderConfig{
		Metadata: nil,
		Result:   &candidates,
		TagName:  "json",
	}
	decoder, err := mapstructure.NewDecoder(cfg)
	if err != nil {
		return nil, err
	}
	if err := decoder.Decode(items); err != nil {
		return nil, fmt.Errorf("decoding matching candidates: %w", err)
	}

	return &Candidates{Items: candidates}, nil
}

func candidateItems(payload interface{}) []interface{} {
	switch v := payload.(type) {
	case nil:
		return nil
	case []interface{}:
		return v
	case map[string]interface{}:
		if wrapped, ok := v["matches"]; ok {
			return candidateItems(wrapped)
		}
	}

	return nil
}
