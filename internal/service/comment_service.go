package service

import (
	"context"

	"outstagram/internal/models"
	"outstagram/internal/pagination"
	"outstagram/internal/repository"
	"outstagram/internal/validation"
)

// CommentService provides comment business logic.
type CommentService struct {
	tx       repository.Transactor
	posts    repository.PostRepository
	comments repository.CommentRepository
	likes    repository.LikeRepository
}

// NewCommentService returns a new CommentService.
func NewCommentService(
	tx repository.Transactor,
	posts repository.PostRepository,
	comments repository.CommentRepository,
	likes repository.LikeRepository,
) *CommentService {
	return &CommentService{tx: tx, posts: posts, comments: comments, likes: likes}
}

// Add creates a comment on postID.
func (s *CommentService) Add(ctx context.Context, postID string, authorID uint, content string) (*models.CommentView, error) {
	if err := validation.ValidateCommentContent(content); err != nil {
		return nil, models.NewValidationError(err.Error())
	}

	var view *models.CommentView
	err := s.tx.ReadWrite(ctx, func(ctx context.Context) error {
		if _, err := s.posts.GetByID(ctx, postID); err != nil {
			return err
		}
		comment := &models.Comment{PostID: postID, AuthorID: authorID, Content: content}
		if err := s.comments.Create(ctx, comment); err != nil {
			return err
		}
		var err error
		view, err = s.comments.GetView(ctx, comment.ID, authorID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return view, nil
}

// List returns one page of comments on postID, newest first.
func (s *CommentService) List(ctx context.Context, postID string, viewerID uint, page int) ([]models.CommentView, error) {
	p, err := pagination.New(page, pagination.CommentsPageSize)
	if err != nil {
		return nil, err
	}

	var views []models.CommentView
	err = s.tx.ReadOnly(ctx, func(ctx context.Context) error {
		if _, err := s.posts.GetByID(ctx, postID); err != nil {
			return err
		}
		if p.Beyond() {
			views = []models.CommentView{}
			return nil
		}
		views, err = s.comments.ListByPost(ctx, postID, viewerID, p.Limit(), p.Offset())
		return err
	})
	if err != nil {
		return nil, err
	}
	return views, nil
}

// ToggleLike flips likerID's like on a comment and returns the resulting state.
func (s *CommentService) ToggleLike(ctx context.Context, commentID, likerID uint) (bool, error) {
	var liked bool
	err := s.tx.ReadWrite(ctx, func(ctx context.Context) error {
		if _, err := s.comments.GetByID(ctx, commentID); err != nil {
			return err
		}
		exists, err := s.likes.IsCommentLiked(ctx, commentID, likerID)
		if err != nil {
			return err
		}
		if exists {
			liked = false
			_, err = s.likes.UnlikeComment(ctx, commentID, likerID)
			return err
		}
		liked = true
		return s.likes.LikeComment(ctx, commentID, likerID)
	})
	if err != nil {
		return false, err
	}
	return liked, nil
}

// Delete removes a comment. The comment's author and the post's author may delete it.
func (s *CommentService) Delete(ctx context.Context, commentID, viewerID uint) error {
	return s.tx.ReadWrite(ctx, func(ctx context.Context) error {
		comment, err := s.comments.GetByID(ctx, commentID)
		if err != nil {
			return err
		}
		if comment.AuthorID != viewerID {
			post, err := s.posts.GetByID(ctx, comment.PostID)
			if err != nil {
				return err
			}
			if post.AuthorID != viewerID {
				return models.NewForbiddenError("You can only delete your own comments")
			}
		}
		return s.comments.Delete(ctx, commentID)
	})
}
