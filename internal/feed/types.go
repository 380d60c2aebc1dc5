package feed

import "time"

// View is one viewer's history on a post. There is at most one View per
// (post, viewer) and Count is at least 1 once it exists.
type View struct {
	ViewerID     string    `json:"viewerId"`
	LastViewedAt time.Time `json:"lastViewedAt"`
	Count        int       `json:"viewCount"`
}

// Like records a user liking a post.
type Like struct {
	UserID  string    `json:"userId"`
	LikedAt time.Time `json:"likedAt"`
}

// Post is a ranking candidate as returned by a CandidateSource.
type Post struct {
	ID        string    `json:"id"`
	AuthorID  string    `json:"authorId"`
	Content   string    `json:"content"`
	Media     []string  `json:"media"`
	CreatedAt time.Time `json:"createdAt"`
	IsDeleted bool      `json:"isDeleted"`
	Views     []View    `json:"views"`
	Likes     []Like    `json:"likes"`
}

// ViewCount returns how many times viewerID has seen the post, 0 when there
// is no record.
func (p *Post) ViewCount(viewerID string) int {
	if viewerID == "" {
		return 0
	}
	for _, v := range p.Views {
		if v.ViewerID == viewerID {
			return v.Count
		}
	}
	return 0
}

// UserSummary is what an AuthorResolver knows about a user.
type UserSummary struct {
	ID            string `json:"id"`
	DisplayName   string `json:"displayName"`
	Avatar        string `json:"avatar"`
	FollowerCount int64  `json:"followerCount"`
}

// AuthorSummary is the author block attached to a ranked post, seen from the
// viewer's side.
type AuthorSummary struct {
	UserSummary
	IsFollowed bool `json:"isFollowed"`
	FollowsYou bool `json:"followsYou"`
}

// RankedPost is a Post augmented for one feed request. It is never stored.
type RankedPost struct {
	Post
	Author       AuthorSummary `json:"author"`
	Tier         Tier          `json:"tier"`
	Priority     float64       `json:"priority"`
	CommentCount int64         `json:"commentCount"`
}

// Request asks for one page of a viewer's feed. An empty ViewerID is an
// anonymous viewer.
type Request struct {
	ViewerID string
	Page     int
	PageSize int
}

// Pagination is the page/pages/total triple returned with every page.
type Pagination struct {
	Total int `json:"total"`
	Page  int `json:"page"`
	Pages int `json:"pages"`
}

// Page is the result of ranking one feed request.
type Page struct {
	Items      []RankedPost `json:"items"`
	Pagination Pagination   `json:"pagination"`
}
