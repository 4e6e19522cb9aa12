package matetrip

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"go.uber.org/zap"
)

const (
	apiURL    = "https://api.matetrip.kr"
	userAgent = "junsung-park97/matetrip (junsung.park97@gmail.com)"
	// Max value for search per page.
	perPage = "100"
)

type Client struct {
	// ctx used only for http requests right now
	ctx        context.Context
	token      string
	logger     *zap.Logger
	HTTPClient *http.Client
	UserAgent  string
	APIURL     string

	contentMu    sync.RWMutex
	contentCache map[string]presignedURL
}

func New(ctx context.Context, logger *zap.Logger, token string) *Client {
	return &Client{
		ctx:    ctx,
		token:  token,
		APIURL: apiURL,
		HTTPClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		logger:    logger,
		UserAgent: userAgent,
	}
}

// SearchPosts returns recruiting posts matching the given params.
func (c *Client) SearchPosts(params *SearchParams) (*Posts, error) {
	return c.searchPosts(params)
}

// SearchMatches returns matching candidates for the given user. The endpoint
// historically returned a bare array and now wraps it under "matches"; both
// shapes are accepted.
func (c *Client) SearchMatches(userID string) (*Candidates, error) {
	return c.searchMatches(userID)
}

// RequestAccompany sends an accompany request for every given post.
func (c *Client) RequestAccompany(posts *Posts, message string) error {
	for _, p := range posts.Items {
		if err := c.postParticipation(p.ID, message); err != nil {
			return err
		}
	}

	return nil
}

func (c *Client) postParticipation(postID, message string) error {
	if postID == "" {
		return fmt.Errorf("post id is required")
	}

	url := fmt.Sprintf("%s/posts/%s/participation", c.APIURL, postID)

	return c.postJSON(url, map[string]string{"message": message}, nil)
}
