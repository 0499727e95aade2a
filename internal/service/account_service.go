package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"outstagram/internal/auth"
	"outstagram/internal/models"
	"outstagram/internal/repository"
	"outstagram/internal/validation"
)

// RegisterInput is the payload accepted by AccountService.Register.
type RegisterInput struct {
	Username    string     `json:"username"`
	FullName    string     `json:"fullname"`
	Email       string     `json:"email"`
	Password    string     `json:"password"`
	Bio         *string    `json:"bio,omitempty"`
	DateOfBirth *time.Time `json:"date_of_birth,omitempty"`
}

// Session is returned on successful login.
type Session struct {
	Token string       `json:"token"`
	User  *models.User `json:"user"`
}

// AccountService handles registration, login and account lookup.
type AccountService struct {
	users  repository.UserRepository
	hasher PasswordHasher
	tokens TokenIssuer
}

// NewAccountService returns a new AccountService.
func NewAccountService(users repository.UserRepository, hasher PasswordHasher, tokens TokenIssuer) *AccountService {
	return &AccountService{users: users, hasher: hasher, tokens: tokens}
}

// Register validates and creates an account.
func (s *AccountService) Register(ctx context.Context, in RegisterInput) (*models.User, error) {
	in.Username = strings.TrimSpace(in.Username)
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))

	if err := validation.ValidateUsername(in.Username); err != nil {
		return nil, models.NewValidationError(err.Error())
	}
	if err := validation.ValidateFullName(in.FullName); err != nil {
		return nil, models.NewValidationError(err.Error())
	}
	if err := validation.ValidateEmail(in.Email); err != nil {
		return nil, models.NewValidationError(err.Error())
	}
	if err := validation.ValidatePassword(in.Password); err != nil {
		return nil, models.NewValidationError(err.Error())
	}
	if in.DateOfBirth != nil && in.DateOfBirth.After(time.Now()) {
		return nil, models.NewValidationError("date of birth cannot be in the future")
	}

	if existing, err := s.users.GetByUsername(ctx, in.Username); err != nil {
		return nil, err
	} else if existing != nil {
		return nil, models.NewConflictError("username already taken")
	}
	if existing, err := s.users.GetByEmail(ctx, in.Email); err != nil {
		return nil, err
	} else if existing != nil {
		return nil, models.NewConflictError("email already registered")
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, models.NewInternalError(err)
	}

	user := &models.User{
		Username:     in.Username,
		FullName:     strings.TrimSpace(in.FullName),
		Email:        in.Email,
		PasswordHash: hash,
		Bio:          in.Bio,
		DateOfBirth:  in.DateOfBirth,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// Login checks credentials and issues an access token.
func (s *AccountService) Login(ctx context.Context, username, password string) (*Session, error) {
	user, err := s.users.GetCredentials(ctx, strings.TrimSpace(username))
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, models.NewUnauthorizedError("Invalid credentials")
	}
	if err := s.hasher.Verify(user.PasswordHash, password); err != nil {
		if errors.Is(err, auth.ErrPasswordMismatch) {
			return nil, models.NewUnauthorizedError("Invalid credentials")
		}
		return nil, models.NewInternalError(err)
	}

	token, err := s.tokens.Issue(user.ID, user.Username)
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return &Session{Token: token, User: user}, nil
}

// Me returns the caller's account.
func (s *AccountService) Me(ctx context.Context, viewerID uint) (*models.User, error) {
	return s.users.GetByID(ctx, viewerID)
}
