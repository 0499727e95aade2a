package repository

import (
	"context"

	"outstagram/internal/models"

	"gorm.io/gorm"
)

// LikeRepository stores post and comment likes as presence rows.
type LikeRepository interface {
	IsPostLiked(ctx context.Context, postID string, likerID uint) (bool, error)
	// LikePost fails with ALREADY_LIKED when the row exists.
	LikePost(ctx context.Context, postID string, likerID uint) error
	// UnlikePost reports whether a row was removed.
	UnlikePost(ctx context.Context, postID string, likerID uint) (bool, error)
	ListPostLikes(ctx context.Context, postID string, limit, offset int) ([]models.LikeView, error)
	IsCommentLiked(ctx context.Context, commentID, likerID uint) (bool, error)
	LikeComment(ctx context.Context, commentID, likerID uint) error
	UnlikeComment(ctx context.Context, commentID, likerID uint) (bool, error)
}

type likeRepository struct {
	db *gorm.DB
}

// NewLikeRepository creates a new like repository
func NewLikeRepository(db *gorm.DB) LikeRepository {
	return &likeRepository{db: db}
}

func (r *likeRepository) IsPostLiked(ctx context.Context, postID string, likerID uint) (bool, error) {
	var n int64
	if err := conn(ctx, r.db).Model(&models.PostLike{}).
		Where("post_id = ? AND liker_id = ?", postID, likerID).
		Count(&n).Error; err != nil {
		return false, models.NewInternalError(err)
	}
	return n > 0, nil
}

func (r *likeRepository) LikePost(ctx context.Context, postID string, likerID uint) error {
	like := models.PostLike{PostID: postID, LikerID: likerID}
	if err := conn(ctx, r.db).Omit("Post", "Liker").Create(&like).Error; err != nil {
		if isUniqueViolation(err) {
			return models.NewAlreadyLikedError()
		}
		return models.NewInternalError(err)
	}
	return nil
}

func (r *likeRepository) UnlikePost(ctx context.Context, postID string, likerID uint) (bool, error) {
	result := conn(ctx, r.db).
		Where("post_id = ? AND liker_id = ?", postID, likerID).
		Delete(&models.PostLike{})
	if result.Error != nil {
		return false, models.NewInternalError(result.Error)
	}
	return result.RowsAffected > 0, nil
}

func (r *likeRepository) ListPostLikes(ctx context.Context, postID string, limit, offset int) ([]models.LikeView, error) {
	var likes []models.LikeView
	err := conn(ctx, r.db).
		Table("post_likes").
		Select("users.id AS user_id, users.username, post_likes.created_at AS liked_at").
		Joins("JOIN users ON users.id = post_likes.liker_id").
		Where("post_likes.post_id = ?", postID).
		Order("post_likes.created_at DESC, post_likes.liker_id DESC").
		Limit(limit).
		Offset(offset).
		Scan(&likes).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return likes, nil
}

func (r *likeRepository) IsCommentLiked(ctx context.Context, commentID, likerID uint) (bool, error) {
	var n int64
	if err := conn(ctx, r.db).Model(&models.CommentLike{}).
		Where("comment_id = ? AND liker_id = ?", commentID, likerID).
		Count(&n).Error; err != nil {
		return false, models.NewInternalError(err)
	}
	return n > 0, nil
}

func (r *likeRepository) LikeComment(ctx context.Context, commentID, likerID uint) error {
	like := models.CommentLike{CommentID: commentID, LikerID: likerID}
	if err := conn(ctx, r.db).Omit("Comment", "Liker").Create(&like).Error; err != nil {
		if isUniqueViolation(err) {
			return models.NewAlreadyLikedError()
		}
		return models.NewInternalError(err)
	}
	return nil
}

func (r *likeRepository) UnlikeComment(ctx context.Context, commentID, likerID uint) (bool, error) {
	result := conn(ctx, r.db).
		Where("comment_id = ? AND liker_id = ?", commentID, likerID).
		Delete(&models.CommentLike{})
	if result.Error != nil {
		return false, models.NewInternalError(result.Error)
	}
	return result.RowsAffected > 0, nil
}
