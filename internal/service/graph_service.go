package service

import (
	"context"

	"outstagram/internal/models"
	"outstagram/internal/repository"
)

// GraphService resolves who follows whom. It never writes.
type GraphService struct {
	follows repository.FollowRepository
}

// NewGraphService returns a new GraphService.
func NewGraphService(follows repository.FollowRepository) *GraphService {
	return &GraphService{follows: follows}
}

// AcceptedFollowees returns every account viewerID follows with an accepted request.
func (g *GraphService) AcceptedFollowees(ctx context.Context, viewerID uint) ([]uint, error) {
	return g.follows.AcceptedFolloweeIDs(ctx, viewerID)
}

// RelationshipState classifies the requests between a and b in both directions.
// Rejected requests count as none.
func (g *GraphService) RelationshipState(ctx context.Context, a, b uint) (models.Relationship, error) {
	rel := models.Relationship{AFollowsB: models.RelationNone, BFollowsA: models.RelationNone}
	if a == b {
		return rel, nil
	}

	reqs, err := g.follows.ListBetween(ctx, a, b)
	if err != nil {
		return rel, err
	}
	for _, req := range reqs {
		state := relationOf(req.Status)
		switch req.RequesterID {
		case a:
			rel.AFollowsB = stronger(rel.AFollowsB, state)
		case b:
			rel.BFollowsA = stronger(rel.BFollowsA, state)
		}
	}
	return rel, nil
}

// Mutual reports whether the friendship between a and b runs both ways.
func (g *GraphService) Mutual(ctx context.Context, a, b uint) (bool, error) {
	if a == b {
		return false, nil
	}
	f, err := g.follows.GetFriendship(ctx, a, b)
	if err != nil || f == nil {
		return false, err
	}
	return f.Mutual(), nil
}

func relationOf(status models.FollowStatus) models.RelationState {
	switch status {
	case models.FollowStatusAccepted:
		return models.RelationAccepted
	case models.FollowStatusPending:
		return models.RelationPending
	default:
		return models.RelationNone
	}
}

// stronger keeps the higher of two states; a re-sent request can coexist
// with an older rejected one.
func stronger(x, y models.RelationState) models.RelationState {
	if y.Score() > x.Score() {
		return y
	}
	return x
}
