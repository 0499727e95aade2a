package models

import (
	"time"
)

// PostCategory is the closed set of categories a post can be filed under.
type PostCategory string

const (
	CategoryTech          PostCategory = "tech"
	CategoryEntertainment PostCategory = "entertainment"
	CategoryBusiness      PostCategory = "business"
	CategoryVlog          PostCategory = "vlog"
	CategoryLifestyle     PostCategory = "lifestyle"
)

// Categories lists every valid PostCategory in display order.
var Categories = []PostCategory{
	CategoryTech,
	CategoryEntertainment,
	CategoryBusiness,
	CategoryVlog,
	CategoryLifestyle,
}

// Valid reports whether c is one of the known categories.
func (c PostCategory) Valid() bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

// ParseCategory turns a raw query value into a category filter. An empty
// string means "no filter" and yields nil.
func ParseCategory(raw string) (*PostCategory, error) {
	if raw == "" {
		return nil, nil
	}
	c := PostCategory(raw)
	if !c.Valid() {
		return nil, NewInvalidCategoryError(raw)
	}
	return &c, nil
}

// Post represents a post. IDs are UUID strings generated on create.
type Post struct {
	ID          string       `gorm:"primaryKey;type:varchar(36)" json:"id"`
	Caption     string       `gorm:"type:text;not null" json:"caption"`
	Category    PostCategory `gorm:"type:varchar(20);not null;index" json:"category"`
	AuthorID    uint         `gorm:"not null;index:idx_posts_author_created,priority:1" json:"author_id"`
	Author      User         `gorm:"foreignKey:AuthorID;constraint:OnDelete:CASCADE" json:"-"`
	Highlighted bool         `gorm:"not null" json:"highlighted"`
	CreatedAt   time.Time    `gorm:"index:idx_posts_author_created,priority:2;index" json:"created_at"`
	MediaURLs   []MediaURL   `gorm:"foreignKey:PostID;constraint:OnDelete:CASCADE" json:"-"`
}

func (Post) TableName() string {
	return "posts"
}

// MediaURL is one attachment of a post. Position keeps insertion order.
type MediaURL struct {
	PostID   string `gorm:"primaryKey;type:varchar(36)" json:"post_id"`
	URL      string `gorm:"primaryKey;size:2048" json:"url"`
	Position int    `gorm:"not null" json:"position"`
}

func (MediaURL) TableName() string {
	return "media_urls"
}

// PostLike is a presence record: the row exists exactly while the liker likes the post.
type PostLike struct {
	PostID    string    `gorm:"primaryKey;type:varchar(36)" json:"post_id"`
	LikerID   uint      `gorm:"primaryKey" json:"liker_id"`
	Post      Post      `gorm:"foreignKey:PostID;constraint:OnDelete:CASCADE" json:"-"`
	Liker     User      `gorm:"foreignKey:LikerID;constraint:OnDelete:CASCADE" json:"-"`
	CreatedAt time.Time `json:"created_at"`
}

func (PostLike) TableName() string {
	return "post_likes"
}
