package service

import (
	"context"
	"errors"
	"testing"

	"outstagram/internal/models"
	"outstagram/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGraphService_RelationshipState(t *testing.T) {
	const a, b uint = 1, 2
	req := func(from, to uint, status models.FollowStatus) models.FollowRequest {
		return models.FollowRequest{RequesterID: from, RequestedID: to, Status: status}
	}

	tests := []struct {
		name   string
		reqs   []models.FollowRequest
		aToB   models.RelationState
		bToA   models.RelationState
		scores [2]float64
	}{
		{"no requests", nil, models.RelationNone, models.RelationNone, [2]float64{0, 0}},
		{"a pending", []models.FollowRequest{req(a, b, models.FollowStatusPending)},
			models.RelationPending, models.RelationNone, [2]float64{0.5, 0}},
		{"b accepted", []models.FollowRequest{req(b, a, models.FollowStatusAccepted)},
			models.RelationNone, models.RelationAccepted, [2]float64{0, 1}},
		{"both accepted", []models.FollowRequest{
			req(a, b, models.FollowStatusAccepted),
			req(b, a, models.FollowStatusAccepted),
		}, models.RelationAccepted, models.RelationAccepted, [2]float64{1, 1}},
		{"rejected counts as none", []models.FollowRequest{req(a, b, models.FollowStatusRejected)},
			models.RelationNone, models.RelationNone, [2]float64{0, 0}},
		{"re-request after rejection", []models.FollowRequest{
			req(a, b, models.FollowStatusRejected),
			req(a, b, models.FollowStatusPending),
		}, models.RelationPending, models.RelationNone, [2]float64{0.5, 0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &followRepoStub{
				listBetweenFn: func(_ context.Context, x, y uint) ([]models.FollowRequest, error) {
					assert.Equal(t, a, x)
					assert.Equal(t, b, y)
					return tt.reqs, nil
				},
			}
			rel, err := NewGraphService(repo).RelationshipState(context.Background(), a, b)
			require.NoError(t, err)
			assert.Equal(t, tt.aToB, rel.AFollowsB)
			assert.Equal(t, tt.bToA, rel.BFollowsA)
			assert.Equal(t, tt.scores, [2]float64{rel.AFollowsB.Score(), rel.BFollowsA.Score()})
		})
	}
}

func TestGraphService_SelfIsNone(t *testing.T) {
	g := NewGraphService(&followRepoStub{})
	rel, err := g.RelationshipState(context.Background(), 4, 4)
	require.NoError(t, err)
	assert.Equal(t, models.RelationNone, rel.AFollowsB)

	mutual, err := g.Mutual(context.Background(), 4, 4)
	require.NoError(t, err)
	assert.False(t, mutual)
}

func newStubComposer(follows *followRepoStub, posts *postRepoStub) (*FeedComposer, *passthroughTx) {
	tx := &passthroughTx{}
	return NewFeedComposer(tx, NewGraphService(follows), posts), tx
}

func TestFeedComposer_ValidatesBeforeStoreAccess(t *testing.T) {
	tests := []struct {
		name     string
		page     int
		category string
		code     string
	}{
		{"page zero", 0, "", models.CodeInvalidPage},
		{"negative page", -3, "tech", models.CodeInvalidPage},
		{"unknown category", 1, "not-a-real-category", models.CodeInvalidCategory},
		{"category case matters", 1, "Tech", models.CodeInvalidCategory},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			follows := &followRepoStub{
				acceptedFolloweeIDsFn: func(context.Context, uint) ([]uint, error) {
					t.Fatal("store read before validation")
					return nil, nil
				},
			}
			composer, tx := newStubComposer(follows, &postRepoStub{})

			_, err := composer.ComposeFeed(context.Background(), 1, tt.category, tt.page)
			require.Error(t, err)
			assert.True(t, models.HasCode(err, tt.code), "got %v", err)
			assert.Zero(t, tx.calls)
		})
	}
}

func TestFeedComposer_EmptyFolloweesYieldEmptyPage(t *testing.T) {
	follows := &followRepoStub{
		acceptedFolloweeIDsFn: func(context.Context, uint) ([]uint, error) { return nil, nil },
	}
	posts := &postRepoStub{
		listFn: func(context.Context, repository.PostQuery) ([]models.FeedPost, error) {
			t.Fatal("posts listed for a viewer who follows nobody")
			return nil, nil
		},
	}
	composer, _ := newStubComposer(follows, posts)

	feed, err := composer.ComposeFeed(context.Background(), 1, "", 1)
	require.NoError(t, err)
	assert.NotNil(t, feed)
	assert.Empty(t, feed)
}

func TestFeedComposer_PassesPageWindowAndFilter(t *testing.T) {
	var got repository.PostQuery
	follows := &followRepoStub{
		acceptedFolloweeIDsFn: func(_ context.Context, viewer uint) ([]uint, error) {
			assert.Equal(t, uint(9), viewer)
			return []uint{3, 4}, nil
		},
	}
	posts := &postRepoStub{
		listFn: func(_ context.Context, q repository.PostQuery) ([]models.FeedPost, error) {
			got = q
			return []models.FeedPost{{ID: "p1"}}, nil
		},
	}
	composer, tx := newStubComposer(follows, posts)

	feed, err := composer.ComposeFeed(context.Background(), 9, "vlog", 3)
	require.NoError(t, err)
	assert.Len(t, feed, 1)
	assert.Equal(t, 1, tx.calls)

	assert.Equal(t, []uint{3, 4}, got.AuthorIDs)
	assert.Equal(t, uint(9), got.ViewerID)
	assert.Equal(t, 10, got.Limit)
	assert.Equal(t, 20, got.Offset)
	require.NotNil(t, got.Category)
	assert.Equal(t, models.CategoryVlog, *got.Category)
}

func TestFeedComposer_StorageFailureIsFeedUnavailable(t *testing.T) {
	boom := models.NewInternalError(errors.New("connection reset"))

	t.Run("graph read fails", func(t *testing.T) {
		composer, _ := newStubComposer(&followRepoStub{
			acceptedFolloweeIDsFn: func(context.Context, uint) ([]uint, error) { return nil, boom },
		}, &postRepoStub{})

		feed, err := composer.ComposeFeed(context.Background(), 1, "", 1)
		assert.Nil(t, feed)
		assert.True(t, models.HasCode(err, models.CodeFeedUnavailable))
		assert.ErrorIs(t, err, boom)
	})

	t.Run("post read fails", func(t *testing.T) {
		composer, _ := newStubComposer(&followRepoStub{
			acceptedFolloweeIDsFn: func(context.Context, uint) ([]uint, error) { return []uint{2}, nil },
		}, &postRepoStub{
			listFn: func(context.Context, repository.PostQuery) ([]models.FeedPost, error) {
				return []models.FeedPost{{ID: "partial"}}, boom
			},
		})

		feed, err := composer.ComposeFeed(context.Background(), 1, "", 1)
		assert.Nil(t, feed, "no partial results")
		assert.True(t, models.HasCode(err, models.CodeFeedUnavailable))
	})
}
