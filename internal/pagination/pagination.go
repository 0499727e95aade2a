// Package pagination holds the fixed page sizes and the 1-indexed page math
// shared by every paginated listing.
package pagination

import (
	"math"

	"outstagram/internal/models"
)

// Page sizes per listing. They are constants: callers pick the page, never the size.
const (
	FeedPageSize          = 10
	UserPostsPageSize     = 12
	PostLikesPageSize     = 20
	CommentsPageSize      = 20
	FollowRequestPageSize = 20
	FollowListPageSize    = 20
)

// Page is a validated window into an ordered listing.
type Page struct {
	Number int
	Size   int

	beyond bool
}

// New validates a 1-indexed page number against a fixed size.
func New(number, size int) (Page, error) {
	if number < 1 {
		return Page{}, models.NewInvalidPageError(number)
	}
	return Page{Number: number, Size: size, beyond: number-1 > math.MaxInt/size}, nil
}

// Beyond reports whether the page starts past any offset a listing can hold.
// Such a page is always empty and callers skip the read.
func (p Page) Beyond() bool {
	return p.beyond
}

// Offset is the number of rows skipped before this page. It is zero for a
// Beyond page, which must not be queried.
func (p Page) Offset() int {
	if p.beyond {
		return 0
	}
	return (p.Number - 1) * p.Size
}

// Limit is the maximum number of rows on this page.
func (p Page) Limit() int {
	return p.Size
}
