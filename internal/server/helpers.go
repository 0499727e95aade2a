package server

import (
	"errors"
	"strconv"
	"strings"

	"outstagram/internal/middleware"
	"outstagram/internal/models"

	"github.com/gofiber/fiber/v2"
)

// errResponseWritten is a sentinel indicating the HTTP response was already
// committed by a helper. Handlers must return nil (not this error) to avoid
// Fiber's ErrorHandler overwriting the response.
var errResponseWritten = errors.New("response already written")

// statusByCode is the single AppError code -> HTTP status table.
var statusByCode = map[string]int{
	models.CodeValidation:              fiber.StatusBadRequest,
	models.CodeInvalidPage:             fiber.StatusBadRequest,
	models.CodeInvalidCategory:         fiber.StatusBadRequest,
	models.CodeSelfFollow:              fiber.StatusBadRequest,
	models.CodeUnauthorized:            fiber.StatusUnauthorized,
	models.CodeForbidden:               fiber.StatusForbidden,
	models.CodeAccountNotFound:         fiber.StatusNotFound,
	models.CodePostNotFound:            fiber.StatusNotFound,
	models.CodeNotFound:                fiber.StatusNotFound,
	models.CodeAlreadyLiked:            fiber.StatusConflict,
	models.CodeAlreadyFollowing:        fiber.StatusConflict,
	models.CodeFollowPending:           fiber.StatusConflict,
	models.CodeConflict:                fiber.StatusConflict,
	models.CodeRelationshipWriteFailed: fiber.StatusInternalServerError,
	models.CodeInternal:                fiber.StatusInternalServerError,
	models.CodeFeedUnavailable:         fiber.StatusServiceUnavailable,
}

func statusFor(err error) int {
	if status, ok := statusByCode[models.CodeOf(err)]; ok {
		return status
	}
	return fiber.StatusInternalServerError
}

// respondError maps err onto its status and writes the standard error body.
// Errors without a code are treated as internal.
func respondError(c *fiber.Ctx, err error) error {
	if models.CodeOf(err) == "" {
		err = models.NewInternalError(err)
	}
	status := statusFor(err)
	if status >= fiber.StatusInternalServerError {
		middleware.Logger.ErrorContext(c.UserContext(), "request failed",
			"path", c.Path(),
			"status", status,
			"error", err.Error(),
		)
	}
	return models.RespondWithError(c, status, err)
}

// parsePage reads the 1-based page query parameter. A missing page means 1;
// anything that is not an integer is an invalid page. Range checks happen in
// the services.
func parsePage(c *fiber.Ctx) (int, error) {
	raw := strings.TrimSpace(c.Query("page"))
	if raw == "" {
		return 1, nil
	}
	page, err := strconv.Atoi(raw)
	if err != nil {
		return 0, &models.AppError{
			Code:    models.CodeInvalidPage,
			Message: "page must be a positive integer",
			Err:     err,
		}
	}
	return page, nil
}

// parseID extracts a route parameter by name as a positive uint.
// On failure it writes a 400 JSON response and returns errResponseWritten.
// Callers should check: if err != nil { return nil }
func parseID(c *fiber.Ctx, param string) (uint, error) {
	id, err := c.ParamsInt(param)
	if err != nil || id <= 0 {
		_ = models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid "+param))
		return 0, errResponseWritten
	}
	return uint(id), nil
}

// viewerID returns the authenticated caller set by AuthRequired.
func viewerID(c *fiber.Ctx) uint {
	id, _ := c.Locals("userID").(uint)
	return id
}
