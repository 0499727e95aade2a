package repository

import (
	"context"
	"errors"
	"strings"
	"time"

	"outstagram/internal/models"
	"outstagram/internal/observability"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// mediaSeparator joins a post's media URLs inside the aggregate column. It is a
// control character, so it cannot appear in a validated URL.
const mediaSeparator = "\x1f"

// PostQuery scopes a page of posts.
type PostQuery struct {
	AuthorIDs []uint
	Category  *models.PostCategory
	ViewerID  uint
	Limit     int
	Offset    int
}

// PostRepository defines the interface for post data operations
type PostRepository interface {
	// Create stores the post and its media attachments atomically, in the given order.
	Create(ctx context.Context, post *models.Post, mediaURLs []string) error
	GetByID(ctx context.Context, id string) (*models.Post, error)
	GetFeedPost(ctx context.Context, id string, viewerID uint) (*models.FeedPost, error)
	// List returns one row per post, newest first, with media and the viewer's like folded in.
	List(ctx context.Context, q PostQuery) ([]models.FeedPost, error)
	CountByAuthor(ctx context.Context, authorID uint) (int64, error)
	Delete(ctx context.Context, id string) error
}

type postRepository struct {
	db *gorm.DB
}

// NewPostRepository creates a new post repository
func NewPostRepository(db *gorm.DB) PostRepository {
	return &postRepository{db: db}
}

// feedRow is the flat shape returned by the joined feed query.
type feedRow struct {
	ID             string              `gorm:"column:id"`
	Caption        string              `gorm:"column:caption"`
	Category       models.PostCategory `gorm:"column:category"`
	AuthorID       uint                `gorm:"column:author_id"`
	AuthorUsername string              `gorm:"column:author_username"`
	Highlighted    bool                `gorm:"column:highlighted"`
	CreatedAt      time.Time           `gorm:"column:created_at"`
	MediaURLs      *string             `gorm:"column:media_urls"`
	IsLiked        bool                `gorm:"column:is_liked"`
}

func (row feedRow) toFeedPost() models.FeedPost {
	media := []string{}
	if row.MediaURLs != nil && *row.MediaURLs != "" {
		media = strings.Split(*row.MediaURLs, mediaSeparator)
	}
	return models.FeedPost{
		ID:             row.ID,
		Caption:        row.Caption,
		Category:       row.Category,
		AuthorID:       row.AuthorID,
		AuthorUsername: row.AuthorUsername,
		Highlighted:    row.Highlighted,
		CreatedAt:      row.CreatedAt,
		MediaURLs:      media,
		IsLiked:        row.IsLiked,
	}
}

func (r *postRepository) Create(ctx context.Context, post *models.Post, mediaURLs []string) error {
	err := conn(ctx, r.db).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(post).Error; err != nil {
			return err
		}
		if len(mediaURLs) == 0 {
			return nil
		}
		media := make([]models.MediaURL, len(mediaURLs))
		for i, u := range mediaURLs {
			media[i] = models.MediaURL{PostID: post.ID, URL: u, Position: i}
		}
		return tx.Create(&media).Error
	})
	if err != nil {
		if isUniqueViolation(err) {
			return models.NewValidationError("media URLs must be unique within a post")
		}
		return models.NewInternalError(err)
	}
	return nil
}

func (r *postRepository) GetByID(ctx context.Context, id string) (*models.Post, error) {
	var post models.Post
	if err := conn(ctx, r.db).Where("id = ?", id).First(&post).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewPostNotFoundError(id)
		}
		return nil, models.NewInternalError(err)
	}
	return &post, nil
}

// feedQuery selects one row per post. Media are aggregated by a correlated
// subquery and the like flag is an EXISTS on the viewer's row, so neither can
// multiply rows.
func (r *postRepository) feedQuery(ctx context.Context, viewerID uint) *gorm.DB {
	db := conn(ctx, r.db)

	agg := "string_agg(media_urls.url, ? ORDER BY media_urls.position)"
	if isDialect(db, "sqlite") {
		agg = "group_concat(media_urls.url, ? ORDER BY media_urls.position)"
	}

	return db.Table("posts").
		Select("posts.id, posts.caption, posts.category, posts.author_id, posts.highlighted, posts.created_at, "+
			"users.username AS author_username, "+
			"(SELECT "+agg+" FROM media_urls WHERE media_urls.post_id = posts.id) AS media_urls, "+
			"EXISTS(SELECT 1 FROM post_likes WHERE post_likes.post_id = posts.id AND post_likes.liker_id = ?) AS is_liked",
			mediaSeparator, viewerID).
		Joins("JOIN users ON users.id = posts.author_id")
}

func (r *postRepository) GetFeedPost(ctx context.Context, id string, viewerID uint) (*models.FeedPost, error) {
	var rows []feedRow
	if err := r.feedQuery(ctx, viewerID).Where("posts.id = ?", id).Limit(1).Scan(&rows).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	if len(rows) == 0 {
		return nil, models.NewPostNotFoundError(id)
	}
	post := rows[0].toFeedPost()
	return &post, nil
}

func (r *postRepository) List(ctx context.Context, q PostQuery) ([]models.FeedPost, error) {
	if len(q.AuthorIDs) == 0 {
		return []models.FeedPost{}, nil
	}
	defer observability.TrackQuery("list", "posts")()

	query := r.feedQuery(ctx, q.ViewerID).Where("posts.author_id IN ?", q.AuthorIDs)
	if q.Category != nil {
		query = query.Where("posts.category = ?", *q.Category)
	}

	var rows []feedRow
	if err := query.
		Order("posts.created_at DESC, posts.id DESC").
		Limit(q.Limit).
		Offset(q.Offset).
		Scan(&rows).Error; err != nil {
		return nil, models.NewInternalError(err)
	}

	posts := make([]models.FeedPost, len(rows))
	for i, row := range rows {
		posts[i] = row.toFeedPost()
	}
	return posts, nil
}

func (r *postRepository) CountByAuthor(ctx context.Context, authorID uint) (int64, error) {
	var n int64
	if err := conn(ctx, r.db).Model(&models.Post{}).Where("author_id = ?", authorID).Count(&n).Error; err != nil {
		return 0, models.NewInternalError(err)
	}
	return n, nil
}

// Delete removes the post with its media, likes and comments.
func (r *postRepository) Delete(ctx context.Context, id string) error {
	err := conn(ctx, r.db).Transaction(func(tx *gorm.DB) error {
		commentIDs := tx.Model(&models.Comment{}).Select("id").Where("post_id = ?", id)
		if err := tx.Where("comment_id IN (?)", commentIDs).Delete(&models.CommentLike{}).Error; err != nil {
			return err
		}
		if err := tx.Where("post_id = ?", id).Delete(&models.Comment{}).Error; err != nil {
			return err
		}
		if err := tx.Where("post_id = ?", id).Delete(&models.PostLike{}).Error; err != nil {
			return err
		}
		if err := tx.Where("post_id = ?", id).Delete(&models.MediaURL{}).Error; err != nil {
			return err
		}
		result := tx.Where("id = ?", id).Delete(&models.Post{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return models.NewPostNotFoundError(id)
		}
		return nil
	})
	if err != nil {
		if models.HasCode(err, models.CodePostNotFound) {
			return err
		}
		return models.NewInternalError(err)
	}
	return nil
}
