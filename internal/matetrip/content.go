package matetrip

import (
	"fmt"
	"time"
)

// presigned URLs are short-lived; refresh slightly before the server-side
// expiry to avoid handing out a URL that dies mid-render.
const presignedExpiryMargin = 30 * time.Second

type presignedURL struct {
	url     string
	expires time.Time
}

type presignedResponse struct {
	URL       string `json:"url"`
	ExpiresIn int    `json:"expiresIn"`
}

// ContentURL resolves an opaque image identifier into a time-limited display
// URL. Responses are cached in-process until shortly before they expire.
func (c *Client) ContentURL(contentID string) (string, error) {
	if contentID == "" {
		return "", fmt.Errorf("content id is required")
	}

	c.contentMu.RLock()
	cached, ok := c.contentCache[contentID]
	c.contentMu.RUnlock()
	if ok && time.Now().Before(cached.expires) {
		return cached.url, nil
	}

	apiURLContent := fmt.Sprintf("%s/contents/%s/presigned-url", c.APIURL, contentID)

	var resp presignedResponse
	if err := c.getJSON(apiURLContent, nil, &resp); err != nil {
		return "", err
	}

	if resp.URL == "" {
		return "", fmt.Errorf("empty presigned url for content %s", contentID)
	}

	expires := time.Now().Add(time.Duration(resp.ExpiresIn) * time.Second)
	if margin := expires.Add(-presignedExpiryMargin); margin.After(time.Now()) {
		expires = margin
	}

	c.contentMu.Lock()
	if c.contentCache == nil {
		c.contentCache = make(map[string]presignedURL)
	}
	c.contentCache[contentID] = presignedURL{url: resp.URL, expires: expires}
	c.contentMu.Unlock()

	return resp.URL, nil
}
