package seed

import (
	"context"
	"fmt"
	"time"

	"outstagram/internal/middleware"
	"outstagram/internal/models"

	"gorm.io/gorm"
)

// Result counts what a seeding run wrote.
type Result struct {
	Users          int
	Posts          int
	FollowRequests int
	Likes          int
	Comments       int
}

// Seeder populates a database with a fake social network.
type Seeder struct {
	db      *gorm.DB
	opts    Options
	factory *Factory
}

// NewSeeder returns a Seeder for db.
func NewSeeder(db *gorm.DB, opts Options) (*Seeder, error) {
	f, err := NewFactory(db, opts)
	if err != nil {
		return nil, err
	}
	return &Seeder{db: db, opts: f.opts, factory: f}, nil
}

// Run creates accounts, their posts, follow edges between them, then likes
// and comments from random accounts.
func (s *Seeder) Run(ctx context.Context) (*Result, error) {
	start := time.Now()
	res := &Result{}

	users := make([]*models.User, 0, s.opts.Users)
	for i := 0; i < s.opts.Users; i++ {
		u, err := s.factory.CreateUser(ctx)
		if err != nil {
			return res, fmt.Errorf("create user: %w", err)
		}
		users = append(users, u)
	}
	res.Users = len(users)

	if err := s.seedFollows(ctx, users, res); err != nil {
		return res, err
	}

	for _, author := range users {
		for i := 0; i < s.opts.PostsPerUser; i++ {
			post := s.factory.BuildPost(author)
			if err := s.factory.CreatePost(ctx, post); err != nil {
				return res, fmt.Errorf("create post: %w", err)
			}
			res.Posts++

			if err := s.seedEngagement(ctx, post, users, res); err != nil {
				return res, err
			}
		}
	}

	middleware.Logger.InfoContext(ctx, "seeding complete",
		"users", res.Users,
		"posts", res.Posts,
		"follow_requests", res.FollowRequests,
		"likes", res.Likes,
		"comments", res.Comments,
		"duration", time.Since(start).String(),
	)
	return res, nil
}

// seedFollows gives every account up to FollowsPerUser outgoing requests to
// distinct accounts. A request is accepted with probability AcceptRate,
// otherwise left pending or rejected.
func (s *Seeder) seedFollows(ctx context.Context, users []*models.User, res *Result) error {
	for i, requester := range users {
		sent := 0
		for _, j := range s.factory.rng.Perm(len(users)) {
			if sent >= s.opts.FollowsPerUser {
				break
			}
			if j == i {
				continue
			}

			status := models.FollowStatusAccepted
			if s.factory.rng.Float64() >= s.opts.AcceptRate {
				status = models.FollowStatusPending
				if s.factory.rng.Intn(3) == 0 {
					status = models.FollowStatusRejected
				}
			}
			if _, err := s.factory.Follow(ctx, requester.ID, users[j].ID, status); err != nil {
				return fmt.Errorf("follow %d -> %d: %w", requester.ID, users[j].ID, err)
			}
			sent++
			res.FollowRequests++
		}
	}
	return nil
}

func (s *Seeder) seedEngagement(ctx context.Context, post *models.Post, users []*models.User, res *Result) error {
	liked := 0
	for _, j := range s.factory.rng.Perm(len(users)) {
		if liked >= s.opts.LikesPerPost {
			break
		}
		if users[j].ID == post.AuthorID {
			continue
		}
		if err := s.factory.Like(ctx, post.ID, users[j].ID, post.CreatedAt.Add(time.Duration(liked+1)*time.Minute)); err != nil {
			return fmt.Errorf("like post: %w", err)
		}
		liked++
	}
	res.Likes += liked

	for i := 0; i < s.opts.CommentsPerPost && len(users) > 0; i++ {
		author := users[s.factory.rng.Intn(len(users))]
		if _, err := s.factory.CreateComment(ctx, post, author.ID); err != nil {
			return fmt.Errorf("create comment: %w", err)
		}
		res.Comments++
	}
	return nil
}

// ClearAll deletes every row the seeder can create, children first.
func ClearAll(ctx context.Context, db *gorm.DB) error {
	tables := []interface{}{
		&models.CommentLike{},
		&models.Comment{},
		&models.PostLike{},
		&models.MediaURL{},
		&models.Post{},
		&models.Friendship{},
		&models.FollowRequest{},
		&models.User{},
	}
	tx := db.WithContext(ctx).Session(&gorm.Session{AllowGlobalUpdate: true})
	for _, m := range tables {
		if err := tx.Delete(m).Error; err != nil {
			return fmt.Errorf("clear %T: %w", m, err)
		}
	}
	return nil
}
