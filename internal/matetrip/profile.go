package matetrip

import (
	"fmt"
)

// Profile is the viewing user as reported by the session endpoint. Its ID
// decides when matching fetches happen at all; it is never part of the
// reconciliation computation itself.
type Profile struct {
	ID           string   `json:"id,omitempty"`
	Nickname     string   `json:"nickname,omitempty"`
	MBTI         string   `json:"mbti,omitempty"`
	TravelStyles []string `json:"travelStyles,omitempty"`
	Tendencies   []string `json:"tendencies,omitempty"`
}

// MyProfile returns the profile of the authenticated user.
func (c *Client) MyProfile() (*Profile, error) {
	apiURLMe := fmt.Sprintf("%s/users/me", c.APIURL)

	var profile *Profile
	if err := c.getJSON(apiURLMe, nil, &profile); err != nil {
		return nil, err
	}

	if profile == nil || profile.ID == "" {
		return nil, fmt.Errorf("session is not authenticated")
	}

	return profile, nil
}
