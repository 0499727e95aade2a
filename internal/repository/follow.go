package repository

import (
	"context"
	"errors"

	"outstagram/internal/models"

	"gorm.io/gorm"
)

// FollowRepository covers follow requests and the friendships they materialize.
type FollowRepository interface {
	Create(ctx context.Context, req *models.FollowRequest) error
	GetByID(ctx context.Context, id uint) (*models.FollowRequest, error)
	// ListBetween returns every request in either direction between a and b.
	ListBetween(ctx context.Context, a, b uint) ([]models.FollowRequest, error)
	AcceptedFolloweeIDs(ctx context.Context, followerID uint) ([]uint, error)
	CountFollowers(ctx context.Context, userID uint) (int64, error)
	CountFollowing(ctx context.Context, userID uint) (int64, error)
	ListIncoming(ctx context.Context, userID uint, limit, offset int) ([]models.FollowRequestView, error)
	ListOutgoing(ctx context.Context, userID uint, limit, offset int) ([]models.FollowRequestView, error)
	ListFollowers(ctx context.Context, userID uint, limit, offset int) ([]models.AccountSummary, error)
	ListFollowing(ctx context.Context, userID uint, limit, offset int) ([]models.AccountSummary, error)
	// TransitionStatus moves a request from one status to another and reports
	// whether the row was still in the from state.
	TransitionStatus(ctx context.Context, id uint, from, to models.FollowStatus) (bool, error)
	// GetFriendship returns nil, nil when the pair has no friendship yet.
	GetFriendship(ctx context.Context, a, b uint) (*models.Friendship, error)
	CreateFriendship(ctx context.Context, f *models.Friendship) error
	UpdateFriendshipDirection(ctx context.Context, f *models.Friendship) error
}

type followRepository struct {
	db *gorm.DB
}

// NewFollowRepository creates a new follow repository
func NewFollowRepository(db *gorm.DB) FollowRepository {
	return &followRepository{db: db}
}

func (r *followRepository) Create(ctx context.Context, req *models.FollowRequest) error {
	if err := conn(ctx, r.db).Create(req).Error; err != nil {
		if isUniqueViolation(err) {
			return models.NewConflictError("follow request already exists")
		}
		return models.NewInternalError(err)
	}
	return nil
}

func (r *followRepository) GetByID(ctx context.Context, id uint) (*models.FollowRequest, error) {
	var req models.FollowRequest
	if err := conn(ctx, r.db).First(&req, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("FollowRequest", id)
		}
		return nil, models.NewInternalError(err)
	}
	return &req, nil
}

func (r *followRepository) ListBetween(ctx context.Context, a, b uint) ([]models.FollowRequest, error) {
	var reqs []models.FollowRequest
	if err := conn(ctx, r.db).
		Where("(requester_id = ? AND requested_id = ?) OR (requester_id = ? AND requested_id = ?)", a, b, b, a).
		Order("id ASC").
		Find(&reqs).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return reqs, nil
}

func (r *followRepository) AcceptedFolloweeIDs(ctx context.Context, followerID uint) ([]uint, error) {
	var ids []uint
	if err := conn(ctx, r.db).
		Model(&models.FollowRequest{}).
		Where("requester_id = ? AND status = ?", followerID, models.FollowStatusAccepted).
		Distinct().
		Pluck("requested_id", &ids).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return ids, nil
}

func (r *followRepository) CountFollowers(ctx context.Context, userID uint) (int64, error) {
	var n int64
	if err := conn(ctx, r.db).
		Model(&models.FollowRequest{}).
		Where("requested_id = ? AND status = ?", userID, models.FollowStatusAccepted).
		Count(&n).Error; err != nil {
		return 0, models.NewInternalError(err)
	}
	return n, nil
}

func (r *followRepository) CountFollowing(ctx context.Context, userID uint) (int64, error) {
	var n int64
	if err := conn(ctx, r.db).
		Model(&models.FollowRequest{}).
		Where("requester_id = ? AND status = ?", userID, models.FollowStatusAccepted).
		Count(&n).Error; err != nil {
		return 0, models.NewInternalError(err)
	}
	return n, nil
}

// listPending joins the counterpart's handle: the requester for incoming,
// the requested account for outgoing.
func (r *followRepository) listPending(ctx context.Context, ownColumn, counterpartColumn string, userID uint, limit, offset int) ([]models.FollowRequestView, error) {
	var views []models.FollowRequestView
	err := conn(ctx, r.db).
		Table("follow_requests").
		Select("follow_requests.id, follow_requests.requester_id, follow_requests.requested_id, "+
			"follow_requests.status, follow_requests.created_at, users.username AS counterpart_username").
		Joins("JOIN users ON users.id = follow_requests."+counterpartColumn).
		Where("follow_requests."+ownColumn+" = ? AND follow_requests.status = ?", userID, models.FollowStatusPending).
		Order("follow_requests.created_at DESC, follow_requests.id DESC").
		Limit(limit).
		Offset(offset).
		Scan(&views).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return views, nil
}

func (r *followRepository) ListIncoming(ctx context.Context, userID uint, limit, offset int) ([]models.FollowRequestView, error) {
	return r.listPending(ctx, "requested_id", "requester_id", userID, limit, offset)
}

func (r *followRepository) ListOutgoing(ctx context.Context, userID uint, limit, offset int) ([]models.FollowRequestView, error) {
	return r.listPending(ctx, "requester_id", "requested_id", userID, limit, offset)
}

func (r *followRepository) listAccepted(ctx context.Context, ownColumn, counterpartColumn string, userID uint, limit, offset int) ([]models.AccountSummary, error) {
	var out []models.AccountSummary
	err := conn(ctx, r.db).
		Table("follow_requests").
		Select("users.id, users.username, users.full_name").
		Joins("JOIN users ON users.id = follow_requests."+counterpartColumn).
		Where("follow_requests."+ownColumn+" = ? AND follow_requests.status = ?", userID, models.FollowStatusAccepted).
		Order("follow_requests.updated_at DESC, follow_requests.id DESC").
		Limit(limit).
		Offset(offset).
		Scan(&out).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return out, nil
}

func (r *followRepository) ListFollowers(ctx context.Context, userID uint, limit, offset int) ([]models.AccountSummary, error) {
	return r.listAccepted(ctx, "requested_id", "requester_id", userID, limit, offset)
}

func (r *followRepository) ListFollowing(ctx context.Context, userID uint, limit, offset int) ([]models.AccountSummary, error) {
	return r.listAccepted(ctx, "requester_id", "requested_id", userID, limit, offset)
}

func (r *followRepository) TransitionStatus(ctx context.Context, id uint, from, to models.FollowStatus) (bool, error) {
	result := conn(ctx, r.db).
		Model(&models.FollowRequest{}).
		Where("id = ? AND status = ?", id, from).
		Update("status", to)
	if result.Error != nil {
		return false, models.NewInternalError(result.Error)
	}
	return result.RowsAffected == 1, nil
}

func (r *followRepository) GetFriendship(ctx context.Context, a, b uint) (*models.Friendship, error) {
	low, high := models.FriendshipPair(a, b)

	var f models.Friendship
	if err := conn(ctx, r.db).
		Where("user_low_id = ? AND user_high_id = ?", low, high).
		First(&f).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, models.NewInternalError(err)
	}
	return &f, nil
}

func (r *followRepository) CreateFriendship(ctx context.Context, f *models.Friendship) error {
	if err := conn(ctx, r.db).Create(f).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *followRepository) UpdateFriendshipDirection(ctx context.Context, f *models.Friendship) error {
	if err := conn(ctx, r.db).
		Model(&models.Friendship{}).
		Where("id = ?", f.ID).
		Update("direction", f.Direction).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}
