package repository

import (
	"context"
	"errors"

	"outstagram/internal/cache"
	"outstagram/internal/models"

	"gorm.io/gorm"
)

// UserRepository defines persistence operations for accounts.
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id uint) (*models.User, error)
	// GetByUsername returns nil, nil when no account has the handle.
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	// GetByEmail returns nil, nil when no account has the address.
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	// GetCredentials loads the account with its password hash, bypassing the cache.
	GetCredentials(ctx context.Context, username string) (*models.User, error)
}

type userRepository struct {
	db    *gorm.DB
	cache *cache.Cache
}

// NewUserRepository returns a UserRepository. c may wrap a nil client.
func NewUserRepository(db *gorm.DB, c *cache.Cache) UserRepository {
	return &userRepository{db: db, cache: c}
}

func (r *userRepository) Create(ctx context.Context, user *models.User) error {
	if err := conn(ctx, r.db).Create(user).Error; err != nil {
		if isUniqueViolation(err) {
			return models.NewConflictError("username or email already registered")
		}
		return models.NewInternalError(err)
	}
	return nil
}

// aside reads through the account cache. Inside a transaction it goes
// straight to the database so reads stay within the transaction's snapshot.
func (r *userRepository) aside(ctx context.Context, key string, dest *models.User, fetch func() error) error {
	if inTx(ctx) {
		return fetch()
	}
	return r.cache.Aside(ctx, "user", key, dest, cache.UserTTL, fetch)
}

func (r *userRepository) GetByID(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	err := r.aside(ctx, cache.UserKey(id), &user, func() error {
		if err := conn(ctx, r.db).First(&user, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return models.NewNotFoundError("User", id)
			}
			return models.NewInternalError(err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &user, nil
}

var errUserMissing = errors.New("user missing")

func (r *userRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	var user models.User
	err := r.aside(ctx, cache.UsernameKey(username), &user, func() error {
		if err := conn(ctx, r.db).Where("username = ?", username).First(&user).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return errUserMissing
			}
			return models.NewInternalError(err)
		}
		return nil
	})
	if errors.Is(err, errUserMissing) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	if err := conn(ctx, r.db).Where("email = ?", email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, models.NewInternalError(err)
	}
	return &user, nil
}

func (r *userRepository) GetCredentials(ctx context.Context, username string) (*models.User, error) {
	var user models.User
	if err := conn(ctx, r.db).Where("username = ?", username).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, models.NewInternalError(err)
	}
	return &user, nil
}
