package server

import (
	"context"

	"outstagram/internal/models"

	"github.com/gofiber/fiber/v2"
)

// GetProfile handles GET /api/users/:username
// @Summary Profile
// @Description Account details, counts and the relationship between the caller and the account
// @Tags users
// @Produce json
// @Param username path string true "Account handle"
// @Success 200 {object} models.ProfileView
// @Failure 404 {object} models.ErrorResponse
// @Security BearerAuth
// @Router /users/{username} [get]
func (s *Server) GetProfile(c *fiber.Ctx) error {
	profile, err := s.profiles.GetProfile(c.UserContext(), c.Params("username"), viewerID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(profile)
}

// GetUserPosts handles GET /api/users/:username/posts
// @Summary Posts by an account
// @Description Newest first, 12 per page. Not restricted by follow status.
// @Tags users
// @Produce json
// @Param username path string true "Account handle"
// @Param page query int false "Page number (1-based)"
// @Success 200 {array} models.FeedPost
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Failure 503 {object} models.ErrorResponse
// @Security BearerAuth
// @Router /users/{username}/posts [get]
func (s *Server) GetUserPosts(c *fiber.Ctx) error {
	page, err := parsePage(c)
	if err != nil {
		return respondError(c, err)
	}

	posts, err := s.profiles.GetUserPosts(c.UserContext(), c.Params("username"), viewerID(c), page)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(posts)
}

// GetDashboard handles GET /api/dashboard
// @Summary The caller's own posts
// @Tags users
// @Produce json
// @Param page query int false "Page number (1-based)"
// @Success 200 {array} models.FeedPost
// @Failure 400 {object} models.ErrorResponse
// @Security BearerAuth
// @Router /dashboard [get]
func (s *Server) GetDashboard(c *fiber.Ctx) error {
	page, err := parsePage(c)
	if err != nil {
		return respondError(c, err)
	}

	posts, err := s.profiles.Dashboard(c.UserContext(), viewerID(c), page)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(posts)
}

// GetFollowers handles GET /api/users/:username/followers
// @Summary Followers
// @Tags follows
// @Produce json
// @Param username path string true "Account handle"
// @Param page query int false "Page number (1-based)"
// @Success 200 {array} models.AccountSummary
// @Failure 404 {object} models.ErrorResponse
// @Security BearerAuth
// @Router /users/{username}/followers [get]
func (s *Server) GetFollowers(c *fiber.Ctx) error {
	return s.listAccounts(c, s.follows.Followers)
}

// GetFollowing handles GET /api/users/:username/following
// @Summary Accounts followed
// @Tags follows
// @Produce json
// @Param username path string true "Account handle"
// @Param page query int false "Page number (1-based)"
// @Success 200 {array} models.AccountSummary
// @Failure 404 {object} models.ErrorResponse
// @Security BearerAuth
// @Router /users/{username}/following [get]
func (s *Server) GetFollowing(c *fiber.Ctx) error {
	return s.listAccounts(c, s.follows.Following)
}

type accountLister func(ctx context.Context, handle string, page int) ([]models.AccountSummary, error)

func (s *Server) listAccounts(c *fiber.Ctx, list accountLister) error {
	page, err := parsePage(c)
	if err != nil {
		return respondError(c, err)
	}

	accounts, err := list(c.UserContext(), c.Params("username"), page)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(accounts)
}

// SendFollowRequest handles POST /api/users/:username/follow
// @Summary Request to follow an account
// @Tags follows
// @Produce json
// @Param username path string true "Account handle"
// @Success 201 {object} models.FollowRequest
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Failure 409 {object} models.ErrorResponse
// @Security BearerAuth
// @Router /users/{username}/follow [post]
func (s *Server) SendFollowRequest(c *fiber.Ctx) error {
	req, err := s.follows.Send(c.UserContext(), viewerID(c), c.Params("username"))
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(req)
}
