package repository

import (
	"context"
	"errors"

	"outstagram/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// CommentRepository defines the interface for comment data operations
type CommentRepository interface {
	Create(ctx context.Context, comment *models.Comment) error
	GetByID(ctx context.Context, id uint) (*models.Comment, error)
	GetView(ctx context.Context, id, viewerID uint) (*models.CommentView, error)
	ListByPost(ctx context.Context, postID string, viewerID uint, limit, offset int) ([]models.CommentView, error)
	Delete(ctx context.Context, id uint) error
}

type commentRepository struct {
	db *gorm.DB
}

// NewCommentRepository creates a new comment repository
func NewCommentRepository(db *gorm.DB) CommentRepository {
	return &commentRepository{db: db}
}

func (r *commentRepository) Create(ctx context.Context, comment *models.Comment) error {
	if err := conn(ctx, r.db).Omit(clause.Associations).Create(comment).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *commentRepository) GetByID(ctx context.Context, id uint) (*models.Comment, error) {
	var comment models.Comment
	if err := conn(ctx, r.db).First(&comment, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Comment", id)
		}
		return nil, models.NewInternalError(err)
	}
	return &comment, nil
}

func (r *commentRepository) viewQuery(ctx context.Context, viewerID uint) *gorm.DB {
	return conn(ctx, r.db).
		Table("comments").
		Select("comments.id, comments.post_id, comments.author_id, users.username AS author_username, "+
			"comments.content, comments.created_at, "+
			"(SELECT COUNT(*) FROM comment_likes WHERE comment_likes.comment_id = comments.id) AS like_count, "+
			"EXISTS(SELECT 1 FROM comment_likes WHERE comment_likes.comment_id = comments.id AND comment_likes.liker_id = ?) AS is_liked",
			viewerID).
		Joins("JOIN users ON users.id = comments.author_id")
}

func (r *commentRepository) GetView(ctx context.Context, id, viewerID uint) (*models.CommentView, error) {
	var views []models.CommentView
	if err := r.viewQuery(ctx, viewerID).Where("comments.id = ?", id).Limit(1).Scan(&views).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	if len(views) == 0 {
		return nil, models.NewNotFoundError("Comment", id)
	}
	return &views[0], nil
}

func (r *commentRepository) ListByPost(ctx context.Context, postID string, viewerID uint, limit, offset int) ([]models.CommentView, error) {
	var views []models.CommentView
	err := r.viewQuery(ctx, viewerID).
		Where("comments.post_id = ?", postID).
		Order("comments.created_at DESC, comments.id DESC").
		Limit(limit).
		Offset(offset).
		Scan(&views).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return views, nil
}

func (r *commentRepository) Delete(ctx context.Context, id uint) error {
	err := conn(ctx, r.db).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("comment_id = ?", id).Delete(&models.CommentLike{}).Error; err != nil {
			return err
		}
		result := tx.Delete(&models.Comment{}, id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return models.NewNotFoundError("Comment", id)
		}
		return nil
	})
	if err != nil {
		if models.HasCode(err, models.CodeNotFound) {
			return err
		}
		return models.NewInternalError(err)
	}
	return nil
}
