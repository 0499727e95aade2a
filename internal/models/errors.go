package models

import (
	"errors"
	"fmt"
)

// Error codes carried by AppError.
const (
	CodeValidation              = "VALIDATION_ERROR"
	CodeInvalidPage             = "INVALID_PAGE"
	CodeInvalidCategory         = "INVALID_CATEGORY"
	CodeAccountNotFound         = "ACCOUNT_NOT_FOUND"
	CodePostNotFound            = "POST_NOT_FOUND"
	CodeNotFound                = "NOT_FOUND"
	CodeAlreadyLiked            = "ALREADY_LIKED"
	CodeAlreadyFollowing        = "ALREADY_FOLLOWING"
	CodeFollowPending           = "FOLLOW_PENDING"
	CodeSelfFollow              = "SELF_FOLLOW"
	CodeConflict                = "CONFLICT"
	CodeRelationshipWriteFailed = "RELATIONSHIP_WRITE_FAILED"
	CodeFeedUnavailable         = "FEED_UNAVAILABLE"
	CodeUnauthorized            = "UNAUTHORIZED"
	CodeForbidden               = "FORBIDDEN"
	CodeInternal                = "INTERNAL_ERROR"
)

// ErrorResponse represents a standardized API error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	Details string `json:"details,omitempty"`
}

// AppError represents a custom application error
type AppError struct {
	Code    string
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// HasCode reports whether err wraps an AppError with the given code.
func HasCode(err error, code string) bool {
	var appErr *AppError
	return errors.As(err, &appErr) && appErr.Code == code
}

// CodeOf returns the AppError code in err's chain, or "" if there is none.
func CodeOf(err error) string {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return ""
}

func NewValidationError(message string) *AppError {
	return &AppError{Code: CodeValidation, Message: message}
}

func NewInvalidPageError(page int) *AppError {
	return &AppError{
		Code:    CodeInvalidPage,
		Message: fmt.Sprintf("page must be 1 or greater, got %d", page),
	}
}

func NewInvalidCategoryError(category string) *AppError {
	return &AppError{
		Code:    CodeInvalidCategory,
		Message: fmt.Sprintf("unknown category %q", category),
	}
}

func NewAccountNotFoundError(handle string) *AppError {
	return &AppError{
		Code:    CodeAccountNotFound,
		Message: fmt.Sprintf("account %q not found", handle),
	}
}

func NewPostNotFoundError(postID string) *AppError {
	return &AppError{
		Code:    CodePostNotFound,
		Message: fmt.Sprintf("post %s not found", postID),
	}
}

func NewNotFoundError(resource string, id interface{}) *AppError {
	return &AppError{
		Code:    CodeNotFound,
		Message: fmt.Sprintf("%s with ID %v not found", resource, id),
	}
}

func NewAlreadyLikedError() *AppError {
	return &AppError{Code: CodeAlreadyLiked, Message: "post already liked"}
}

func NewAlreadyFollowingError(handle string) *AppError {
	return &AppError{
		Code:    CodeAlreadyFollowing,
		Message: fmt.Sprintf("already following %s", handle),
	}
}

func NewFollowPendingError(handle string) *AppError {
	return &AppError{
		Code:    CodeFollowPending,
		Message: fmt.Sprintf("follow request to %s is already pending", handle),
	}
}

func NewSelfFollowError() *AppError {
	return &AppError{Code: CodeSelfFollow, Message: "cannot follow yourself"}
}

func NewConflictError(message string) *AppError {
	return &AppError{Code: CodeConflict, Message: message}
}

// NewRelationshipWriteFailedError hides the cause from callers; Err keeps it for logs.
func NewRelationshipWriteFailedError(err error) *AppError {
	return &AppError{
		Code:    CodeRelationshipWriteFailed,
		Message: "could not update relationship",
		Err:     err,
	}
}

func NewFeedUnavailableError(err error) *AppError {
	return &AppError{
		Code:    CodeFeedUnavailable,
		Message: "feed is temporarily unavailable",
		Err:     err,
	}
}

func NewUnauthorizedError(message string) *AppError {
	return &AppError{Code: CodeUnauthorized, Message: message}
}

func NewForbiddenError(message string) *AppError {
	return &AppError{Code: CodeForbidden, Message: message}
}

func NewInternalError(err error) *AppError {
	return &AppError{
		Code:    CodeInternal,
		Message: "Internal server error",
		Err:     err,
	}
}
