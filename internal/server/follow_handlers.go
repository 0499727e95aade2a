package server

import (
	"context"

	"outstagram/internal/models"

	"github.com/gofiber/fiber/v2"
)

// GetIncomingRequests handles GET /api/follow-requests/incoming
// @Summary Pending requests addressed to the caller
// @Tags follows
// @Produce json
// @Param page query int false "Page number (1-based)"
// @Success 200 {array} models.FollowRequestView
// @Failure 400 {object} models.ErrorResponse
// @Security BearerAuth
// @Router /follow-requests/incoming [get]
func (s *Server) GetIncomingRequests(c *fiber.Ctx) error {
	return s.listRequests(c, s.follows.ListIncoming)
}

// GetOutgoingRequests handles GET /api/follow-requests/outgoing
// @Summary Pending requests sent by the caller
// @Tags follows
// @Produce json
// @Param page query int false "Page number (1-based)"
// @Success 200 {array} models.FollowRequestView
// @Failure 400 {object} models.ErrorResponse
// @Security BearerAuth
// @Router /follow-requests/outgoing [get]
func (s *Server) GetOutgoingRequests(c *fiber.Ctx) error {
	return s.listRequests(c, s.follows.ListOutgoing)
}

func (s *Server) listRequests(c *fiber.Ctx, list func(context.Context, uint, int) ([]models.FollowRequestView, error)) error {
	page, err := parsePage(c)
	if err != nil {
		return respondError(c, err)
	}

	requests, err := list(c.UserContext(), viewerID(c), page)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(requests)
}

// ApproveFollowRequest handles POST /api/follow-requests/:id/approve
// @Summary Approve a follow request
// @Description Accepts the request and records the friendship in one transaction
// @Tags follows
// @Produce json
// @Param id path int true "Follow request ID"
// @Success 200 {object} models.FollowRequest
// @Failure 403 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Failure 409 {object} models.ErrorResponse
// @Failure 500 {object} models.ErrorResponse
// @Security BearerAuth
// @Router /follow-requests/{id}/approve [post]
func (s *Server) ApproveFollowRequest(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return nil
	}

	req, err := s.follows.Approve(c.UserContext(), viewerID(c), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(req)
}

// RejectFollowRequest handles POST /api/follow-requests/:id/reject
// @Summary Reject a follow request
// @Tags follows
// @Produce json
// @Param id path int true "Follow request ID"
// @Success 200 {object} models.FollowRequest
// @Failure 403 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Failure 409 {object} models.ErrorResponse
// @Security BearerAuth
// @Router /follow-requests/{id}/reject [post]
func (s *Server) RejectFollowRequest(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return nil
	}

	req, err := s.follows.Reject(c.UserContext(), viewerID(c), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(req)
}
