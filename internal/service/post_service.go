package service

import (
	"context"
	"strings"

	"outstagram/internal/models"
	"outstagram/internal/notifications"
	"outstagram/internal/pagination"
	"outstagram/internal/repository"
	"outstagram/internal/validation"

	"github.com/google/uuid"
)

// CreatePostInput is the payload accepted by PostService.Create.
type CreatePostInput struct {
	Caption     string   `json:"caption"`
	Category    string   `json:"category"`
	MediaURLs   []string `json:"media_urls"`
	Highlighted bool     `json:"highlighted"`
}

// PostService provides post and post-like business logic.
type PostService struct {
	tx       repository.Transactor
	posts    repository.PostRepository
	likes    repository.LikeRepository
	users    repository.UserRepository
	notifier Notifier
}

// NewPostService returns a new PostService. notifier may be nil.
func NewPostService(
	tx repository.Transactor,
	posts repository.PostRepository,
	likes repository.LikeRepository,
	users repository.UserRepository,
	notifier Notifier,
) *PostService {
	return &PostService{
		tx:       tx,
		posts:    posts,
		likes:    likes,
		users:    users,
		notifier: notifierOrNoop(notifier),
	}
}

// Create validates and stores a post for authorID.
func (s *PostService) Create(ctx context.Context, authorID uint, in CreatePostInput) (*models.FeedPost, error) {
	if strings.TrimSpace(in.Category) == "" {
		return nil, models.NewValidationError("category is required")
	}
	category, err := models.ParseCategory(in.Category)
	if err != nil {
		return nil, err
	}
	if err := validation.ValidateCaption(in.Caption); err != nil {
		return nil, models.NewValidationError(err.Error())
	}
	if err := validation.ValidateMediaURLs(in.MediaURLs); err != nil {
		return nil, models.NewValidationError(err.Error())
	}

	post := &models.Post{
		ID:          uuid.NewString(),
		Caption:     in.Caption,
		Category:    *category,
		AuthorID:    authorID,
		Highlighted: in.Highlighted,
	}
	if err := s.posts.Create(ctx, post, in.MediaURLs); err != nil {
		return nil, err
	}
	return s.posts.GetFeedPost(ctx, post.ID, authorID)
}

// Get returns a single post annotated for viewerID.
func (s *PostService) Get(ctx context.Context, postID string, viewerID uint) (*models.FeedPost, error) {
	return s.posts.GetFeedPost(ctx, postID, viewerID)
}

// Delete removes a post. Only its author may delete it.
func (s *PostService) Delete(ctx context.Context, postID string, viewerID uint) error {
	return s.tx.ReadWrite(ctx, func(ctx context.Context) error {
		post, err := s.posts.GetByID(ctx, postID)
		if err != nil {
			return err
		}
		if post.AuthorID != viewerID {
			return models.NewForbiddenError("You can only delete your own posts")
		}
		return s.posts.Delete(ctx, postID)
	})
}

// ToggleLike flips likerID's like on postID and returns the resulting state.
func (s *PostService) ToggleLike(ctx context.Context, postID string, likerID uint) (bool, error) {
	var (
		liked    bool
		authorID uint
	)
	err := s.tx.ReadWrite(ctx, func(ctx context.Context) error {
		post, err := s.posts.GetByID(ctx, postID)
		if err != nil {
			return err
		}
		authorID = post.AuthorID

		exists, err := s.likes.IsPostLiked(ctx, postID, likerID)
		if err != nil {
			return err
		}
		if exists {
			_, err = s.likes.UnlikePost(ctx, postID, likerID)
			liked = false
			return err
		}
		liked = true
		return s.likes.LikePost(ctx, postID, likerID)
	})
	if err != nil {
		return false, err
	}
	if liked {
		s.notifyLiked(ctx, postID, authorID, likerID)
	}
	return liked, nil
}

// Like adds a like and fails with ALREADY_LIKED when one exists.
func (s *PostService) Like(ctx context.Context, postID string, likerID uint) error {
	var authorID uint
	err := s.tx.ReadWrite(ctx, func(ctx context.Context) error {
		post, err := s.posts.GetByID(ctx, postID)
		if err != nil {
			return err
		}
		authorID = post.AuthorID
		return s.likes.LikePost(ctx, postID, likerID)
	})
	if err != nil {
		return err
	}
	s.notifyLiked(ctx, postID, authorID, likerID)
	return nil
}

// Unlike removes a like if present.
func (s *PostService) Unlike(ctx context.Context, postID string, likerID uint) error {
	return s.tx.ReadWrite(ctx, func(ctx context.Context) error {
		if _, err := s.posts.GetByID(ctx, postID); err != nil {
			return err
		}
		_, err := s.likes.UnlikePost(ctx, postID, likerID)
		return err
	})
}

// ListLikes returns one page of the accounts that liked postID, newest first.
func (s *PostService) ListLikes(ctx context.Context, postID string, page int) ([]models.LikeView, error) {
	p, err := pagination.New(page, pagination.PostLikesPageSize)
	if err != nil {
		return nil, err
	}

	var likes []models.LikeView
	err = s.tx.ReadOnly(ctx, func(ctx context.Context) error {
		if _, err := s.posts.GetByID(ctx, postID); err != nil {
			return err
		}
		if p.Beyond() {
			likes = []models.LikeView{}
			return nil
		}
		likes, err = s.likes.ListPostLikes(ctx, postID, p.Limit(), p.Offset())
		return err
	})
	if err != nil {
		return nil, err
	}
	return likes, nil
}

func (s *PostService) notifyLiked(ctx context.Context, postID string, authorID, likerID uint) {
	if authorID == likerID {
		return
	}
	event := notifications.Event{Type: notifications.TypePostLiked, ActorID: likerID, PostID: postID}
	if liker, err := s.users.GetByID(ctx, likerID); err == nil {
		event.ActorUsername = liker.Username
	}
	s.notifier.Notify(ctx, authorID, event)
}
