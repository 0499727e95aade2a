package service

import (
	"context"
	"time"

	"outstagram/internal/models"
	"outstagram/internal/observability"
	"outstagram/internal/pagination"
	"outstagram/internal/repository"

	"go.opentelemetry.io/otel/attribute"
)

// ProfileService aggregates an account's public fields, counts, relationship
// to the viewer and post listing.
type ProfileService struct {
	tx      repository.Transactor
	users   repository.UserRepository
	posts   repository.PostRepository
	follows repository.FollowRepository
	graph   *GraphService
	feed    *FeedComposer
}

// NewProfileService returns a new ProfileService.
func NewProfileService(
	tx repository.Transactor,
	users repository.UserRepository,
	posts repository.PostRepository,
	follows repository.FollowRepository,
	graph *GraphService,
	feed *FeedComposer,
) *ProfileService {
	return &ProfileService{
		tx:      tx,
		users:   users,
		posts:   posts,
		follows: follows,
		graph:   graph,
		feed:    feed,
	}
}

// GetProfile builds the profile of handle as seen by viewerID.
func (s *ProfileService) GetProfile(ctx context.Context, handle string, viewerID uint) (*models.ProfileView, error) {
	ctx, span := observability.StartSpan(ctx, "profile.get",
		attribute.String("profile.username", handle),
		attribute.Int64("viewer.id", int64(viewerID)),
	)
	defer span.End()

	var view *models.ProfileView
	err := s.tx.ReadOnly(ctx, func(ctx context.Context) error {
		target, err := s.resolve(ctx, handle)
		if err != nil {
			return err
		}

		postsCount, err := s.posts.CountByAuthor(ctx, target.ID)
		if err != nil {
			return err
		}
		followers, err := s.follows.CountFollowers(ctx, target.ID)
		if err != nil {
			return err
		}
		following, err := s.follows.CountFollowing(ctx, target.ID)
		if err != nil {
			return err
		}
		rel, err := s.graph.RelationshipState(ctx, viewerID, target.ID)
		if err != nil {
			return err
		}
		mutual, err := s.graph.Mutual(ctx, viewerID, target.ID)
		if err != nil {
			return err
		}

		view = &models.ProfileView{
			ID:             target.ID,
			Username:       target.Username,
			FullName:       target.FullName,
			Bio:            target.Bio,
			DateOfBirth:    target.DateOfBirth,
			PostsCount:     postsCount,
			FollowersCount: followers,
			FollowingCount: following,
			TheyFollowYou:  rel.BFollowsA.Score(),
			YouFollowThem:  rel.AFollowsB.Score(),
			Mutual:         mutual,
		}
		return nil
	})
	if err != nil {
		span.SetError(err)
		return nil, err
	}
	return view, nil
}

// GetUserPosts lists handle's posts regardless of any follow relationship.
func (s *ProfileService) GetUserPosts(ctx context.Context, handle string, viewerID uint, page int) (posts []models.FeedPost, err error) {
	p, err := pagination.New(page, pagination.UserPostsPageSize)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	defer func() { observability.ObserveCompose("user_posts", start, len(posts), err) }()

	err = s.tx.ReadOnly(ctx, func(ctx context.Context) error {
		target, err := s.resolve(ctx, handle)
		if err != nil {
			return err
		}
		posts, err = s.feed.authorPosts(ctx, target.ID, viewerID, p)
		return err
	})
	if err != nil {
		if models.HasCode(err, models.CodeAccountNotFound) {
			return nil, err
		}
		return nil, models.NewFeedUnavailableError(err)
	}
	return posts, nil
}

// Dashboard lists the viewer's own posts.
func (s *ProfileService) Dashboard(ctx context.Context, viewerID uint, page int) (posts []models.FeedPost, err error) {
	p, err := pagination.New(page, pagination.UserPostsPageSize)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	defer func() { observability.ObserveCompose("dashboard", start, len(posts), err) }()

	err = s.tx.ReadOnly(ctx, func(ctx context.Context) error {
		posts, err = s.feed.authorPosts(ctx, viewerID, viewerID, p)
		return err
	})
	if err != nil {
		return nil, models.NewFeedUnavailableError(err)
	}
	return posts, nil
}

func (s *ProfileService) resolve(ctx context.Context, handle string) (*models.User, error) {
	user, err := s.users.GetByUsername(ctx, handle)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, models.NewAccountNotFoundError(handle)
	}
	return user, nil
}
