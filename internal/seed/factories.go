package seed

import (
	"context"
	"fmt"
	"math/rand"
	"regexp"
	"strings"
	"time"

	"outstagram/internal/auth"
	"outstagram/internal/models"
	"outstagram/internal/validation"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var handleUnsafe = regexp.MustCompile(`[^a-z0-9]+`)

// Factory builds domain entities and persists them to the database.
type Factory struct {
	db    *gorm.DB
	opts  Options
	faker *gofakeit.Faker
	rng   *rand.Rand
	now   func() time.Time

	passwordHash string
	seq          int
}

// NewFactory creates a Factory bound to db. The seeded password is hashed
// once and shared by every account the factory creates.
func NewFactory(db *gorm.DB, opts Options) (*Factory, error) {
	if err := opts.normalize(); err != nil {
		return nil, err
	}

	seed := opts.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	cost := bcrypt.DefaultCost
	if opts.FastHash {
		cost = bcrypt.MinCost
	}
	hash, err := auth.NewPasswordHasher(cost).Hash(opts.Password)
	if err != nil {
		return nil, fmt.Errorf("hash seed password: %w", err)
	}

	return &Factory{
		db:           db,
		opts:         opts,
		faker:        gofakeit.New(seed),
		rng:          rand.New(rand.NewSource(seed)), // #nosec G404: acceptable for seeding
		now:          time.Now,
		passwordHash: hash,
	}, nil
}

// handle derives a unique, valid username from a fake name.
func (f *Factory) handle() string {
	f.seq++
	base := handleUnsafe.ReplaceAllString(strings.ToLower(f.faker.Username()), "")
	if len(base) > 24 {
		base = base[:24]
	}
	h := fmt.Sprintf("%s_%d", base, f.seq)
	if validation.ValidateUsername(h) != nil {
		h = fmt.Sprintf("user%d", f.seq)
	}
	return h
}

// BuildUser constructs an account without persisting it.
func (f *Factory) BuildUser(overrides ...func(*models.User)) *models.User {
	username := f.handle()
	bio := f.faker.Sentence(8)
	dob := f.faker.DateRange(
		time.Date(1960, 1, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2006, 1, 1, 0, 0, 0, 0, time.UTC),
	)

	user := &models.User{
		Username:     username,
		FullName:     f.faker.Name(),
		Email:        username + "@example.com",
		PasswordHash: f.passwordHash,
		Bio:          &bio,
		DateOfBirth:  &dob,
	}
	for _, override := range overrides {
		override(user)
	}
	return user
}

// CreateUser builds and persists an account.
func (f *Factory) CreateUser(ctx context.Context, overrides ...func(*models.User)) (*models.User, error) {
	user := f.BuildUser(overrides...)
	if err := f.db.WithContext(ctx).Create(user).Error; err != nil {
		return nil, err
	}
	return user, nil
}

// BuildPost constructs a post for author, with up to MaxMediaPerPost
// attachments and a created_at spread over the last MaxDays days.
func (f *Factory) BuildPost(author *models.User, overrides ...func(*models.Post)) *models.Post {
	back := time.Duration(f.rng.Int63n(int64(f.opts.MaxDays) * int64(24*time.Hour)))
	post := &models.Post{
		ID:          uuid.NewString(),
		Caption:     f.faker.Sentence(10),
		Category:    models.Categories[f.rng.Intn(len(models.Categories))],
		AuthorID:    author.ID,
		Highlighted: f.rng.Intn(10) == 0,
		CreatedAt:   f.now().Add(-back).UTC().Truncate(time.Second),
	}

	for i, n := 0, f.rng.Intn(f.opts.MaxMediaPerPost+1); i < n; i++ {
		post.MediaURLs = append(post.MediaURLs, models.MediaURL{
			PostID:   post.ID,
			URL:      fmt.Sprintf("https://picsum.photos/seed/%s/1080/1080", uuid.NewString()),
			Position: i,
		})
	}

	for _, override := range overrides {
		override(post)
	}
	return post
}

// CreatePost persists post and its media.
func (f *Factory) CreatePost(ctx context.Context, post *models.Post) error {
	return f.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(post).Error; err != nil {
			return err
		}
		if len(post.MediaURLs) == 0 {
			return nil
		}
		return tx.Create(&post.MediaURLs).Error
	})
}

// Follow records requester -> requested in the given state. Accepted edges
// are folded into the pair's friendship row the same way approvals are.
func (f *Factory) Follow(ctx context.Context, requesterID, requestedID uint, status models.FollowStatus) (*models.FollowRequest, error) {
	req := &models.FollowRequest{RequesterID: requesterID, RequestedID: requestedID, Status: status}

	err := f.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(req).Error; err != nil {
			return err
		}
		if status != models.FollowStatusAccepted {
			return nil
		}

		low, high := models.FriendshipPair(requesterID, requestedID)
		var existing models.Friendship
		err := tx.Where("user_low_id = ? AND user_high_id = ?", low, high).Limit(1).Find(&existing).Error
		if err != nil {
			return err
		}
		if existing.ID == 0 {
			fr := models.NewFriendship(requesterID, requestedID)
			return tx.Omit(clause.Associations).Create(&fr).Error
		}
		if existing.AddFollow(requesterID, requestedID) {
			return tx.Model(&existing).Update("direction", existing.Direction).Error
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return req, nil
}

// Like records likerID liking postID. Repeated likes are ignored.
func (f *Factory) Like(ctx context.Context, postID string, likerID uint, at time.Time) error {
	like := &models.PostLike{PostID: postID, LikerID: likerID, CreatedAt: at}
	return f.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Omit(clause.Associations).
		Create(like).Error
}

// CreateComment adds a fake comment by author on post, after the post was made.
func (f *Factory) CreateComment(ctx context.Context, post *models.Post, authorID uint) (*models.Comment, error) {
	since := f.now().Sub(post.CreatedAt)
	at := post.CreatedAt
	if since > 0 {
		at = at.Add(time.Duration(f.rng.Int63n(int64(since))))
	}

	comment := &models.Comment{
		PostID:    post.ID,
		AuthorID:  authorID,
		Content:   f.faker.Sentence(f.rng.Intn(12) + 3),
		CreatedAt: at.UTC().Truncate(time.Second),
	}
	if err := f.db.WithContext(ctx).Omit(clause.Associations).Create(comment).Error; err != nil {
		return nil, err
	}
	return comment, nil
}
