package models

import "time"

// FeedPost is one row of a feed or user-post page. Media are flattened into
// a single ordered list per post and IsLiked reflects only the viewer's like.
type FeedPost struct {
	ID             string       `json:"id"`
	Caption        string       `json:"caption"`
	Category       PostCategory `json:"category"`
	AuthorID       uint         `json:"author_id"`
	AuthorUsername string       `json:"author_username"`
	Highlighted    bool         `json:"highlighted"`
	CreatedAt      time.Time    `json:"created_at"`
	MediaURLs      []string     `json:"media_urls"`
	IsLiked        bool         `json:"is_liked"`
}

// RelationState is one side of a relationship between two accounts.
type RelationState string

const (
	RelationNone     RelationState = "none"
	RelationPending  RelationState = "pending"
	RelationAccepted RelationState = "accepted"
)

// Score maps the state onto the 0 / 0.5 / 1 scale used by profiles.
func (s RelationState) Score() float64 {
	switch s {
	case RelationAccepted:
		return 1
	case RelationPending:
		return 0.5
	default:
		return 0
	}
}

// Relationship is the pairwise state between A and B.
type Relationship struct {
	AFollowsB RelationState
	BFollowsA RelationState
}

// ProfileView is the aggregated profile payload.
type ProfileView struct {
	ID             uint       `json:"id"`
	Username       string     `json:"username"`
	FullName       string     `json:"fullname"`
	Bio            *string    `json:"bio,omitempty"`
	DateOfBirth    *time.Time `json:"date_of_birth,omitempty"`
	PostsCount     int64      `json:"posts_count"`
	FollowersCount int64      `json:"followers_count"`
	FollowingCount int64      `json:"following_count"`
	TheyFollowYou  float64    `json:"they_follow_you"`
	YouFollowThem  float64    `json:"you_follow_them"`
	Mutual         bool       `json:"mutual"`
}

// LikeView is one entry in a post's like list.
type LikeView struct {
	UserID   uint      `json:"user_id"`
	Username string    `json:"username"`
	LikedAt  time.Time `json:"liked_at"`
}

// CommentView is a comment with its author handle and viewer-specific like state.
type CommentView struct {
	ID             uint      `json:"id"`
	PostID         string    `json:"post_id"`
	AuthorID       uint      `json:"author_id"`
	AuthorUsername string    `json:"author_username"`
	Content        string    `json:"content"`
	CreatedAt      time.Time `json:"created_at"`
	LikeCount      int64     `json:"like_count"`
	IsLiked        bool      `json:"is_liked"`
}

// FollowRequestView is a pending request with the counterpart's handle.
type FollowRequestView struct {
	ID                  uint         `json:"id"`
	RequesterID         uint         `json:"requester_id"`
	RequestedID         uint         `json:"requested_id"`
	CounterpartUsername string       `json:"username"`
	Status              FollowStatus `json:"status"`
	CreatedAt           time.Time    `json:"created_at"`
}

// AccountSummary is the short form used in follower/following lists.
type AccountSummary struct {
	ID       uint   `json:"id"`
	Username string `json:"username"`
	FullName string `json:"fullname"`
}
