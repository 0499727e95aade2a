package service

import (
	"context"
	"errors"
	"testing"

	"outstagram/internal/models"
	"outstagram/internal/notifications"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFollowService_SendPrechecks(t *testing.T) {
	const me uint = 1
	target := &models.User{ID: 2, Username: "bo"}

	tests := []struct {
		name     string
		handle   string
		existing []models.FollowRequest
		code     string
	}{
		{"unknown handle", "ghost", nil, models.CodeAccountNotFound},
		{"self", "me", nil, models.CodeSelfFollow},
		{"pending", "bo", []models.FollowRequest{{RequesterID: me, RequestedID: 2, Status: models.FollowStatusPending}}, models.CodeFollowPending},
		{"accepted", "bo", []models.FollowRequest{{RequesterID: me, RequestedID: 2, Status: models.FollowStatusAccepted}}, models.CodeAlreadyFollowing},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			users := &userRepoStub{
				getByUsernameFn: func(_ context.Context, handle string) (*models.User, error) {
					switch handle {
					case "bo":
						return target, nil
					case "me":
						return &models.User{ID: me, Username: "me"}, nil
					}
					return nil, nil
				},
			}
			follows := &followRepoStub{
				listBetweenFn: func(context.Context, uint, uint) ([]models.FollowRequest, error) {
					return tt.existing, nil
				},
				createFn: func(context.Context, *models.FollowRequest) error {
					t.Fatal("request written despite failed pre-check")
					return nil
				},
			}
			notifier := &recordingNotifier{}
			svc := NewFollowService(&passthroughTx{}, users, follows, notifier)

			_, err := svc.Send(context.Background(), me, tt.handle)
			assert.True(t, models.HasCode(err, tt.code), "got %v", err)
			assert.Empty(t, notifier.sent())
		})
	}
}

func TestFollowService_SendAfterIncomingOrRejected(t *testing.T) {
	const me uint = 1
	users := &userRepoStub{
		getByUsernameFn: func(context.Context, string) (*models.User, error) {
			return &models.User{ID: 2, Username: "bo"}, nil
		},
		getByIDFn: func(_ context.Context, id uint) (*models.User, error) {
			return &models.User{ID: id, Username: "me"}, nil
		},
	}
	var created *models.FollowRequest
	follows := &followRepoStub{
		listBetweenFn: func(context.Context, uint, uint) ([]models.FollowRequest, error) {
			return []models.FollowRequest{
				{RequesterID: 2, RequestedID: me, Status: models.FollowStatusPending},
				{RequesterID: me, RequestedID: 2, Status: models.FollowStatusRejected},
			}, nil
		},
		createFn: func(_ context.Context, req *models.FollowRequest) error {
			req.ID = 77
			created = req
			return nil
		},
	}
	notifier := &recordingNotifier{}
	svc := NewFollowService(&passthroughTx{}, users, follows, notifier)

	req, err := svc.Send(context.Background(), me, "bo")
	require.NoError(t, err)
	assert.Same(t, created, req)
	assert.Equal(t, models.FollowStatusPending, req.Status)

	sent := notifier.sent()
	require.Len(t, sent, 1)
	assert.Equal(t, uint(2), sent[0].To)
	assert.Equal(t, notifications.TypeFollowRequest, sent[0].Event.Type)
	assert.Equal(t, uint(77), sent[0].Event.RequestID)
	assert.Equal(t, "me", sent[0].Event.ActorUsername)
}

func TestFollowService_ApproveGuards(t *testing.T) {
	tests := []struct {
		name string
		req  *models.FollowRequest
		code string
	}{
		{"not addressed to viewer", &models.FollowRequest{ID: 5, RequesterID: 1, RequestedID: 3, Status: models.FollowStatusPending}, models.CodeForbidden},
		{"already accepted", &models.FollowRequest{ID: 5, RequesterID: 1, RequestedID: 2, Status: models.FollowStatusAccepted}, models.CodeConflict},
		{"rejected", &models.FollowRequest{ID: 5, RequesterID: 1, RequestedID: 2, Status: models.FollowStatusRejected}, models.CodeConflict},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			follows := &followRepoStub{
				getByIDFn: func(context.Context, uint) (*models.FollowRequest, error) { return tt.req, nil },
			}
			svc := NewFollowService(&passthroughTx{}, &userRepoStub{}, follows, nil)

			_, err := svc.Approve(context.Background(), 2, 5)
			assert.True(t, models.HasCode(err, tt.code), "got %v", err)
		})
	}
}

func TestFollowService_ApproveWriteFailure(t *testing.T) {
	follows := &followRepoStub{
		getByIDFn: func(context.Context, uint) (*models.FollowRequest, error) {
			return &models.FollowRequest{ID: 5, RequesterID: 1, RequestedID: 2, Status: models.FollowStatusPending}, nil
		},
		transitionStatusFn: func(context.Context, uint, models.FollowStatus, models.FollowStatus) (bool, error) {
			return true, nil
		},
		getFriendshipFn: func(context.Context, uint, uint) (*models.Friendship, error) { return nil, nil },
		createFriendshipFn: func(context.Context, *models.Friendship) error {
			return models.NewInternalError(errors.New("disk full"))
		},
	}
	notifier := &recordingNotifier{}
	svc := NewFollowService(&passthroughTx{}, &userRepoStub{}, follows, notifier)

	_, err := svc.Approve(context.Background(), 2, 5)
	assert.True(t, models.HasCode(err, models.CodeRelationshipWriteFailed))
	assert.Empty(t, notifier.sent())
}

func TestFollowService_LinkFriendship(t *testing.T) {
	tests := []struct {
		name       string
		existing   *models.Friendship
		follower   uint
		followee   uint
		wantCreate *models.FriendshipDirection
		wantUpdate *models.FriendshipDirection
	}{
		{"new pair low follows high", nil, 1, 2, ptr(models.DirectionLowFollowsHigh), nil},
		{"new pair high follows low", nil, 2, 1, ptr(models.DirectionHighFollowsLow), nil},
		{"reverse edge upgrades", &models.Friendship{ID: 1, UserLowID: 1, UserHighID: 2, Direction: models.DirectionLowFollowsHigh}, 2, 1, nil, ptr(models.DirectionMutual)},
		{"same edge untouched", &models.Friendship{ID: 1, UserLowID: 1, UserHighID: 2, Direction: models.DirectionLowFollowsHigh}, 1, 2, nil, nil},
		{"mutual untouched", &models.Friendship{ID: 1, UserLowID: 1, UserHighID: 2, Direction: models.DirectionMutual}, 2, 1, nil, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var created, updated *models.Friendship
			follows := &followRepoStub{
				getFriendshipFn: func(context.Context, uint, uint) (*models.Friendship, error) {
					if tt.existing == nil {
						return nil, nil
					}
					f := *tt.existing
					return &f, nil
				},
				createFriendshipFn: func(_ context.Context, f *models.Friendship) error {
					created = f
					return nil
				},
				updateFriendshipDirectionFn: func(_ context.Context, f *models.Friendship) error {
					updated = f
					return nil
				},
			}
			svc := NewFollowService(&passthroughTx{}, &userRepoStub{}, follows, nil)

			require.NoError(t, svc.linkFriendship(context.Background(), tt.follower, tt.followee))

			if tt.wantCreate == nil {
				assert.Nil(t, created)
			} else {
				require.NotNil(t, created)
				assert.Equal(t, *tt.wantCreate, created.Direction)
				assert.Less(t, created.UserLowID, created.UserHighID)
			}
			if tt.wantUpdate == nil {
				assert.Nil(t, updated)
			} else {
				require.NotNil(t, updated)
				assert.Equal(t, *tt.wantUpdate, updated.Direction)
			}
		})
	}
}

func TestFollowService_ListsValidatePage(t *testing.T) {
	svc := NewFollowService(&passthroughTx{}, &userRepoStub{}, &followRepoStub{}, nil)

	_, err := svc.ListIncoming(context.Background(), 1, 0)
	assert.True(t, models.HasCode(err, models.CodeInvalidPage))
	_, err = svc.ListOutgoing(context.Background(), 1, -1)
	assert.True(t, models.HasCode(err, models.CodeInvalidPage))
	_, err = svc.Followers(context.Background(), "ana", 0)
	assert.True(t, models.HasCode(err, models.CodeInvalidPage))
}

func ptr[T any](v T) *T {
	return &v
}
