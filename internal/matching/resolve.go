package matching

import (
	"strings"

	"github.com/junsung-park97/matetrip-frontend-sub001/internal/matetrip"
)

// WriterIdentities gathers every identity key under which the post's author
// may be known. Depending on the endpoint a post exposes writerId, writer.id,
// writerProfile.id or any subset; absent fields are dropped.
func WriterIdentities(post *matetrip.Post) []string {
	if post == nil {
		return nil
	}

	candidates := []string{post.WriterID}
	if post.Writer != nil {
		candidates = append(candidates, post.Writer.ID)
	}
	if post.WriterProfile != nil {
		candidates = append(candidates, post.WriterProfile.ID)
	}

	var ids []string
	for _, id := range candidates {
		if id = strings.TrimSpace(id); id != "" {
			ids = append(ids, id)
		}
	}

	return ids
}

// WrittenBy reports whether any of the post's writer-identity fields equals
// the given user id.
func WrittenBy(post *matetrip.Post, userID string) bool {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return false
	}

	for _, id := range WriterIdentities(post) {
		if id == userID {
			return true
		}
	}

	return false
}

// ResolvePosts determines which posts a candidate is associated with. Posts
// embedded in the candidate payload win outright; otherwise the catalog is
// scanned for posts whose writer-identity set contains the candidate's user
// id. Zero matches is a valid outcome, not an error.
func ResolvePosts(candidate *matetrip.MatchCandidate, catalog []*matetrip.Post) []*matetrip.Post {
	if candidate == nil {
		return nil
	}

	if len(candidate.RecruitingPosts) > 0 {
		return candidate.RecruitingPosts
	}

	var posts []*matetrip.Post
	for _, post := range catalog {
		if WrittenBy(post, candidate.UserID) {
			posts = append(posts, post)
		}
	}

	return posts
}
