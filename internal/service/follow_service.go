package service

import (
	"context"
	"log/slog"

	"outstagram/internal/middleware"
	"outstagram/internal/models"
	"outstagram/internal/notifications"
	"outstagram/internal/observability"
	"outstagram/internal/pagination"
	"outstagram/internal/repository"

	"go.opentelemetry.io/otel/attribute"
)

// FollowService provides follow-request and friendship business logic.
type FollowService struct {
	tx       repository.Transactor
	users    repository.UserRepository
	follows  repository.FollowRepository
	notifier Notifier
}

// NewFollowService returns a new FollowService. notifier may be nil.
func NewFollowService(
	tx repository.Transactor,
	users repository.UserRepository,
	follows repository.FollowRepository,
	notifier Notifier,
) *FollowService {
	return &FollowService{
		tx:       tx,
		users:    users,
		follows:  follows,
		notifier: notifierOrNoop(notifier),
	}
}

// Send creates a pending request from requesterID to the account named handle.
func (s *FollowService) Send(ctx context.Context, requesterID uint, handle string) (*models.FollowRequest, error) {
	var req *models.FollowRequest
	err := s.tx.ReadWrite(ctx, func(ctx context.Context) error {
		target, err := s.users.GetByUsername(ctx, handle)
		if err != nil {
			return err
		}
		if target == nil {
			return models.NewAccountNotFoundError(handle)
		}
		if target.ID == requesterID {
			return models.NewSelfFollowError()
		}

		existing, err := s.follows.ListBetween(ctx, requesterID, target.ID)
		if err != nil {
			return err
		}
		for _, r := range existing {
			if r.RequesterID != requesterID {
				continue
			}
			switch r.Status {
			case models.FollowStatusPending:
				return models.NewFollowPendingError(handle)
			case models.FollowStatusAccepted:
				return models.NewAlreadyFollowingError(handle)
			}
		}

		req = &models.FollowRequest{
			RequesterID: requesterID,
			RequestedID: target.ID,
			Status:      models.FollowStatusPending,
		}
		return s.follows.Create(ctx, req)
	})
	if err != nil {
		return nil, err
	}

	event := notifications.Event{Type: notifications.TypeFollowRequest, ActorID: requesterID, RequestID: req.ID}
	if requester, err := s.users.GetByID(ctx, requesterID); err == nil {
		event.ActorUsername = requester.Username
	}
	s.notifier.Notify(ctx, req.RequestedID, event)
	return req, nil
}

// Approve accepts a pending request addressed to viewerID. The status change
// and the friendship row commit together or not at all.
func (s *FollowService) Approve(ctx context.Context, viewerID, requestID uint) (*models.FollowRequest, error) {
	ctx, span := observability.StartSpan(ctx, "follow.approve",
		attribute.Int64("viewer.id", int64(viewerID)),
		attribute.Int64("follow_request.id", int64(requestID)),
	)
	defer span.End()

	var req *models.FollowRequest
	err := s.tx.ReadWrite(ctx, func(ctx context.Context) error {
		var err error
		req, err = s.pendingAddressedTo(ctx, viewerID, requestID)
		if err != nil {
			return err
		}

		moved, err := s.follows.TransitionStatus(ctx, req.ID, models.FollowStatusPending, models.FollowStatusAccepted)
		if err != nil {
			return models.NewRelationshipWriteFailedError(err)
		}
		if !moved {
			return models.NewConflictError("follow request is no longer pending")
		}
		if err := s.linkFriendship(ctx, req.RequesterID, req.RequestedID); err != nil {
			return models.NewRelationshipWriteFailedError(err)
		}
		req.Status = models.FollowStatusAccepted
		return nil
	})
	if err != nil {
		span.SetError(err)
		// A failed commit surfaces as a bare driver error.
		if models.CodeOf(err) == "" {
			err = models.NewRelationshipWriteFailedError(err)
		}
		if models.HasCode(err, models.CodeRelationshipWriteFailed) {
			observability.RelationshipWrites.WithLabelValues("rolled_back").Inc()
			middleware.Logger.ErrorContext(ctx, "follow approval rolled back",
				slog.Uint64("follow_request_id", uint64(requestID)),
				slog.String("error", err.Error()),
			)
		}
		return nil, err
	}
	observability.RelationshipWrites.WithLabelValues("committed").Inc()

	event := notifications.Event{Type: notifications.TypeFollowAccepted, ActorID: viewerID, RequestID: req.ID}
	if approver, err := s.users.GetByID(ctx, viewerID); err == nil {
		event.ActorUsername = approver.Username
	}
	s.notifier.Notify(ctx, req.RequesterID, event)
	return req, nil
}

// Reject declines a pending request addressed to viewerID.
func (s *FollowService) Reject(ctx context.Context, viewerID, requestID uint) (*models.FollowRequest, error) {
	var req *models.FollowRequest
	err := s.tx.ReadWrite(ctx, func(ctx context.Context) error {
		var err error
		req, err = s.pendingAddressedTo(ctx, viewerID, requestID)
		if err != nil {
			return err
		}
		moved, err := s.follows.TransitionStatus(ctx, req.ID, models.FollowStatusPending, models.FollowStatusRejected)
		if err != nil {
			return err
		}
		if !moved {
			return models.NewConflictError("follow request is no longer pending")
		}
		req.Status = models.FollowStatusRejected
		return nil
	})
	if err != nil {
		return nil, err
	}
	return req, nil
}

// ListIncoming returns pending requests addressed to viewerID.
func (s *FollowService) ListIncoming(ctx context.Context, viewerID uint, page int) ([]models.FollowRequestView, error) {
	p, err := pagination.New(page, pagination.FollowRequestPageSize)
	if err != nil {
		return nil, err
	}
	if p.Beyond() {
		return []models.FollowRequestView{}, nil
	}
	return s.follows.ListIncoming(ctx, viewerID, p.Limit(), p.Offset())
}

// ListOutgoing returns pending requests sent by viewerID.
func (s *FollowService) ListOutgoing(ctx context.Context, viewerID uint, page int) ([]models.FollowRequestView, error) {
	p, err := pagination.New(page, pagination.FollowRequestPageSize)
	if err != nil {
		return nil, err
	}
	if p.Beyond() {
		return []models.FollowRequestView{}, nil
	}
	return s.follows.ListOutgoing(ctx, viewerID, p.Limit(), p.Offset())
}

// Followers lists the accounts following handle.
func (s *FollowService) Followers(ctx context.Context, handle string, page int) ([]models.AccountSummary, error) {
	return s.listAccounts(ctx, handle, page, s.follows.ListFollowers)
}

// Following lists the accounts handle follows.
func (s *FollowService) Following(ctx context.Context, handle string, page int) ([]models.AccountSummary, error) {
	return s.listAccounts(ctx, handle, page, s.follows.ListFollowing)
}

func (s *FollowService) listAccounts(
	ctx context.Context,
	handle string,
	page int,
	list func(context.Context, uint, int, int) ([]models.AccountSummary, error),
) ([]models.AccountSummary, error) {
	p, err := pagination.New(page, pagination.FollowListPageSize)
	if err != nil {
		return nil, err
	}

	var out []models.AccountSummary
	err = s.tx.ReadOnly(ctx, func(ctx context.Context) error {
		user, err := s.users.GetByUsername(ctx, handle)
		if err != nil {
			return err
		}
		if user == nil {
			return models.NewAccountNotFoundError(handle)
		}
		if p.Beyond() {
			out = []models.AccountSummary{}
			return nil
		}
		out, err = list(ctx, user.ID, p.Limit(), p.Offset())
		return err
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (s *FollowService) pendingAddressedTo(ctx context.Context, viewerID, requestID uint) (*models.FollowRequest, error) {
	req, err := s.follows.GetByID(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if req.RequestedID != viewerID {
		return nil, models.NewForbiddenError("You can only answer follow requests sent to you")
	}
	if req.Status != models.FollowStatusPending {
		return nil, models.NewConflictError("follow request is not pending")
	}
	return req, nil
}

// linkFriendship records followerID -> followeeID on the pair's friendship,
// creating the row or upgrading it to mutual.
func (s *FollowService) linkFriendship(ctx context.Context, followerID, followeeID uint) error {
	existing, err := s.follows.GetFriendship(ctx, followerID, followeeID)
	if err != nil {
		return err
	}
	if existing == nil {
		f := models.NewFriendship(followerID, followeeID)
		return s.follows.CreateFriendship(ctx, &f)
	}
	if existing.AddFollow(followerID, followeeID) {
		return s.follows.UpdateFriendshipDirection(ctx, existing)
	}
	return nil
}
