package service

import (
	"context"
	"time"

	"outstagram/internal/models"
	"outstagram/internal/observability"
	"outstagram/internal/pagination"
	"outstagram/internal/repository"

	"go.opentelemetry.io/otel/attribute"
)

// FeedComposer builds paginated post listings: the follow-scoped feed and the
// single-author listing behind profiles and the dashboard.
type FeedComposer struct {
	tx    repository.Transactor
	graph *GraphService
	posts repository.PostRepository
}

// NewFeedComposer returns a new FeedComposer.
func NewFeedComposer(tx repository.Transactor, graph *GraphService, posts repository.PostRepository) *FeedComposer {
	return &FeedComposer{tx: tx, graph: graph, posts: posts}
}

// ComposeFeed returns one page of posts written by the accounts viewerID
// follows, newest first. Page and category are validated before any read.
func (f *FeedComposer) ComposeFeed(ctx context.Context, viewerID uint, category string, page int) (posts []models.FeedPost, err error) {
	p, err := pagination.New(page, pagination.FeedPageSize)
	if err != nil {
		return nil, err
	}
	filter, err := models.ParseCategory(category)
	if err != nil {
		return nil, err
	}
	if p.Beyond() {
		return []models.FeedPost{}, nil
	}

	start := time.Now()
	ctx, span := observability.StartSpan(ctx, "feed.compose",
		attribute.Int64("viewer.id", int64(viewerID)),
		attribute.Int("page", page),
		attribute.String("category", category),
	)
	defer func() {
		span.SetError(err)
		span.AddAttributes(attribute.Int("rows", len(posts)))
		span.End()
		observability.ObserveCompose("feed", start, len(posts), err)
	}()

	err = f.tx.ReadOnly(ctx, func(ctx context.Context) error {
		followees, err := f.graph.AcceptedFollowees(ctx, viewerID)
		if err != nil {
			return err
		}
		if len(followees) == 0 {
			posts = []models.FeedPost{}
			return nil
		}
		posts, err = f.posts.List(ctx, repository.PostQuery{
			AuthorIDs: followees,
			Category:  filter,
			ViewerID:  viewerID,
			Limit:     p.Limit(),
			Offset:    p.Offset(),
		})
		return err
	})
	if err != nil {
		return nil, models.NewFeedUnavailableError(err)
	}
	return posts, nil
}

// authorPosts lists one page of authorID's posts annotated for viewerID. It
// joins any transaction already carried by ctx.
func (f *FeedComposer) authorPosts(ctx context.Context, authorID, viewerID uint, p pagination.Page) ([]models.FeedPost, error) {
	if p.Beyond() {
		return []models.FeedPost{}, nil
	}
	return f.posts.List(ctx, repository.PostQuery{
		AuthorIDs: []uint{authorID},
		ViewerID:  viewerID,
		Limit:     p.Limit(),
		Offset:    p.Offset(),
	})
}
