package matetrip

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

// Post statuses as served by the API.
const (
	StatusRecruiting = "모집중"
	StatusFilled     = "모집완료"
	StatusCompleted  = "완료"
)

const (
	PostIDField       = "ID"
	PostWriterIDField = "WriterID"
)

type Posts struct {
	Items []*Post
}

// Writer is the inline author summary attached to a post.
type Writer struct {
	ID       string `json:"id,omitempty"`
	Nickname string `json:"nickname,omitempty"`
}

// WriterProfile is the detailed author profile some endpoints embed instead of
// (or in addition to) Writer.
type WriterProfile struct {
	ID           string   `json:"id,omitempty"`
	Nickname     string   `json:"nickname,omitempty"`
	TravelStyles []string `json:"travelStyles,omitempty"`
	Tendencies   []string `json:"tendencies,omitempty"`
}

// Post is a travel-companion recruiting post. Depending on the endpoint the
// author may be exposed as writerId, writer.id or writerProfile.id; any subset
// of the three can be present.
type Post struct {
	ID            string         `json:"id,omitempty"`
	Title         string         `json:"title,omitempty"`
	Location      string         `json:"location,omitempty"`
	StartDate     string         `json:"startDate,omitempty"`
	EndDate       string         `json:"endDate,omitempty"`
	Keywords      []string       `json:"keywords,omitempty"`
	ImageID       string         `json:"imageId,omitempty"`
	Capacity      int            `json:"capacity,omitempty"`
	Participation []*Writer      `json:"participation,omitempty"`
	Status        string         `json:"status,omitempty"`
	WriterID      string         `json:"writerId,omitempty"`
	Writer        *Writer        `json:"writer,omitempty"`
	WriterProfile *WriterProfile `json:"writerProfile,omitempty"`
}

// Period renders the travel date range for display.
func (p *Post) Period() string {
	if p.StartDate == "" && p.EndDate == "" {
		return ""
	}
	return fmt.Sprintf("%s ~ %s", p.StartDate, p.EndDate)
}

// WriterNickname returns the author nickname from whichever field carries it.
func (p *Post) WriterNickname() string {
	if p.Writer != nil && p.Writer.Nickname != "" {
		return p.Writer.Nickname
	}
	if p.WriterProfile != nil && p.WriterProfile.Nickname != "" {
		return p.WriterProfile.Nickname
	}
	return ""
}

func (p *Post) GetStringField(name string) string {
	switch name {
	case PostIDField:
		return p.ID
	case PostWriterIDField:
		return p.WriterID

	default:
		return ""
	}
}

func (p *Posts) Len() int {
	return len(p.Items)
}

func (p *Posts) FindByID(id string) *Post {
	for _, post := range p.Items {
		if post.ID == id {
			return post
		}
	}
	return nil
}

func (p *Posts) DumpToTmpFile() (string, error) {
	file, err := os.CreateTemp("", "posts_*.json")
	if err != nil {
		return "", err
	}
	defer file.Close()

	enc := json.NewEncoder(file)
	enc.SetIndent("", "  ")
	if err := enc.Encode(p); err != nil {
		return "", err
	}
	return file.Name(), nil
}

// Exclude removes posts from the list matching the given field values.
func (p *Posts) Exclude(name string, targets []string) []string {
	var excluded []string
	for _, target := range targets {
		for idx, post := range p.Items {
			if post.GetStringField(name) == target {
				p.RemoveByIndex(idx)
				excluded = append(excluded, post.ID)
				break
			}
		}
	}
	return excluded
}

// RemoveByIndex removes a post from the list by index. Do not preserve order.
func (p *Posts) RemoveByIndex(idx int) {
	p.Items[idx] = p.Items[len(p.Items)-1]
	p.Items = p.Items[:len(p.Items)-1]
}

type ExcludedPosts struct {
	Items []*ExcludedPost
}

type ExcludedPost struct {
	ID             string
	Title          string
	WriterNickname string
	ExcludedAt     time.Time
}

func (p *Posts) ToExcluded() *ExcludedPosts {
	excluded := &ExcludedPosts{}
	for _, post := range p.Items {
		excluded.Items = append(excluded.Items, &ExcludedPost{
			ID:             post.ID,
			Title:          post.Title,
			WriterNickname: post.WriterNickname(),
			ExcludedAt:     time.Now().UTC(),
		})
	}
	return excluded
}

func GetExcludedPostsFromFile(path string) (*ExcludedPosts, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	stat, err := file.Stat()
	if err != nil {
		return nil, err
	}

	if stat.Size() == 0 {
		return &ExcludedPosts{}, nil
	}

	var excluded ExcludedPosts
	if err := json.NewDecoder(file).Decode(&excluded); err != nil {
		return nil, err
	}
	return &excluded, nil
}

func (e *ExcludedPosts) Append(s *ExcludedPosts) {
	e.Items = append(e.Items, s.Items...)
}

func (e *ExcludedPosts) PostIDs() []string {
	ids := make([]string, 0)
	for _, post := range e.Items {
		ids = append(ids, post.ID)
	}
	return ids
}

func (e *ExcludedPosts) ToFile(path string) error {
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return err
	}
	defer file.Close()

	enc := json.NewEncoder(file)
	enc.SetIndent("", "  ")
	if err := enc.Encode(e); err != nil {
		return err
	}
	return nil
}
