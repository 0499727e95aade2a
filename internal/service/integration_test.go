package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"testing"
	"time"

	"outstagram/internal/cache"
	"outstagram/internal/models"
	"outstagram/internal/notifications"
	"outstagram/internal/repository"
	"outstagram/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type harness struct {
	db       *gorm.DB
	notifier *recordingNotifier
	feed     *FeedComposer
	profiles *ProfileService
	posts    *PostService
	comments *CommentService
	follows  *FollowService
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	db := testutil.NewDB(t)

	tx := repository.NewTransactor(db)
	users := repository.NewUserRepository(db, cache.New(nil))
	postRepo := repository.NewPostRepository(db)
	likeRepo := repository.NewLikeRepository(db)
	commentRepo := repository.NewCommentRepository(db)
	followRepo := repository.NewFollowRepository(db)

	graph := NewGraphService(followRepo)
	feed := NewFeedComposer(tx, graph, postRepo)
	notifier := &recordingNotifier{}

	return &harness{
		db:       db,
		notifier: notifier,
		feed:     feed,
		profiles: NewProfileService(tx, users, postRepo, followRepo, graph, feed),
		posts:    NewPostService(tx, postRepo, likeRepo, users, notifier),
		comments: NewCommentService(tx, postRepo, commentRepo, likeRepo),
		follows:  NewFollowService(tx, users, followRepo, notifier),
	}
}

func (h *harness) requestStatus(t *testing.T, id uint) models.FollowStatus {
	t.Helper()
	var req models.FollowRequest
	require.NoError(t, h.db.First(&req, id).Error)
	return req.Status
}

func TestComposeFeed_FolloweesOnlyOneRowPerPost(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	v := testutil.CreateUser(t, h.db, "viewer")
	a := testutil.CreateUser(t, h.db, "author_a")
	b := testutil.CreateUser(t, h.db, "author_b")
	stranger := testutil.CreateUser(t, h.db, "stranger")
	pendingOnly := testutil.CreateUser(t, h.db, "pending_only")

	testutil.CreateFollow(t, h.db, v.ID, a.ID, models.FollowStatusAccepted)
	testutil.CreateFollow(t, h.db, v.ID, b.ID, models.FollowStatusAccepted)
	testutil.CreateFollow(t, h.db, v.ID, pendingOnly.ID, models.FollowStatusPending)

	a1 := testutil.CreatePost(t, h.db, a.ID, models.CategoryTech, testutil.Base.Add(-2*time.Hour),
		"https://cdn.example.com/a1-1.jpg", "https://cdn.example.com/a1-2.jpg")
	a2 := testutil.CreatePost(t, h.db, a.ID, models.CategoryVlog, testutil.Base.Add(-time.Hour))
	b1 := testutil.CreatePost(t, h.db, b.ID, models.CategoryTech, testutil.Base)
	testutil.CreatePost(t, h.db, stranger.ID, models.CategoryTech, testutil.Base.Add(time.Hour))
	testutil.CreatePost(t, h.db, pendingOnly.ID, models.CategoryTech, testutil.Base.Add(time.Hour))

	// likes from others must not multiply rows or flip the viewer's flag
	testutil.LikePost(t, h.db, a1.ID, stranger.ID)
	testutil.LikePost(t, h.db, a1.ID, b.ID)
	testutil.LikePost(t, h.db, b1.ID, v.ID)

	feed, err := h.feed.ComposeFeed(ctx, v.ID, "", 1)
	require.NoError(t, err)
	require.Len(t, feed, 3)

	assert.Equal(t, []string{b1.ID, a2.ID, a1.ID}, []string{feed[0].ID, feed[1].ID, feed[2].ID})
	assert.Equal(t, []string{"https://cdn.example.com/a1-1.jpg", "https://cdn.example.com/a1-2.jpg"}, feed[2].MediaURLs)
	assert.Equal(t, "author_a", feed[2].AuthorUsername)
	assert.Equal(t, "author_b", feed[0].AuthorUsername)
	assert.True(t, feed[0].IsLiked)
	assert.False(t, feed[2].IsLiked)

	tech, err := h.feed.ComposeFeed(ctx, v.ID, "tech", 1)
	require.NoError(t, err)
	require.Len(t, tech, 2)
	assert.Equal(t, b1.ID, tech[0].ID)
	assert.Equal(t, a1.ID, tech[1].ID)

	_, err = h.feed.ComposeFeed(ctx, v.ID, "", 0)
	assert.True(t, models.HasCode(err, models.CodeInvalidPage))
	_, err = h.feed.ComposeFeed(ctx, v.ID, "not-a-real-category", 1)
	assert.True(t, models.HasCode(err, models.CodeInvalidCategory))
}

func TestComposeFeed_NoFolloweesIsEmpty(t *testing.T) {
	h := newHarness(t)
	v := testutil.CreateUser(t, h.db, "loner")
	other := testutil.CreateUser(t, h.db, "other")
	testutil.CreateFollow(t, h.db, v.ID, other.ID, models.FollowStatusRejected)
	testutil.CreatePost(t, h.db, other.ID, models.CategoryTech, testutil.Base)

	feed, err := h.feed.ComposeFeed(context.Background(), v.ID, "", 1)
	require.NoError(t, err)
	assert.Empty(t, feed)
}

func TestComposeFeed_PagesNeverGoBackInTime(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	v := testutil.CreateUser(t, h.db, "viewer")
	a := testutil.CreateUser(t, h.db, "prolific")
	b := testutil.CreateUser(t, h.db, "steady")
	testutil.CreateFollow(t, h.db, v.ID, a.ID, models.FollowStatusAccepted)
	testutil.CreateFollow(t, h.db, v.ID, b.ID, models.FollowStatusAccepted)

	// timestamps collide in groups of three to exercise the tie-break
	for i := 0; i < 23; i++ {
		author := a.ID
		if i%2 == 0 {
			author = b.ID
		}
		testutil.CreatePost(t, h.db, author, models.CategoryBusiness,
			testutil.Base.Add(-time.Duration(i/3)*time.Minute), fmt.Sprintf("https://cdn.example.com/%d.jpg", i))
	}

	var all []models.FeedPost
	for page := 1; page <= 3; page++ {
		got, err := h.feed.ComposeFeed(ctx, v.ID, "", page)
		require.NoError(t, err)
		all = append(all, got...)
	}
	require.Len(t, all, 23)

	seen := map[string]bool{}
	for i, p := range all {
		assert.False(t, seen[p.ID], "post %s repeated across pages", p.ID)
		seen[p.ID] = true
		assert.Len(t, p.MediaURLs, 1)
		if i > 0 {
			assert.False(t, p.CreatedAt.After(all[i-1].CreatedAt), "item %d is newer than item %d", i, i-1)
		}
	}

	last, err := h.feed.ComposeFeed(ctx, v.ID, "", 3)
	require.NoError(t, err)
	assert.Len(t, last, 3)

	past, err := h.feed.ComposeFeed(ctx, v.ID, "", 4)
	require.NoError(t, err)
	assert.Empty(t, past)

	again, err := h.feed.ComposeFeed(ctx, v.ID, "", 1)
	require.NoError(t, err)
	assert.Equal(t, all[:10], again, "repeated calls return the same order")
}

func TestTogglePostLike_FlipsAndRestores(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	author := testutil.CreateUser(t, h.db, "author")
	fan := testutil.CreateUser(t, h.db, "fan")
	post := testutil.CreatePost(t, h.db, author.ID, models.CategoryTech, testutil.Base)

	liked, err := h.posts.ToggleLike(ctx, post.ID, fan.ID)
	require.NoError(t, err)
	assert.True(t, liked)

	view, err := h.posts.Get(ctx, post.ID, fan.ID)
	require.NoError(t, err)
	assert.True(t, view.IsLiked)

	liked, err = h.posts.ToggleLike(ctx, post.ID, fan.ID)
	require.NoError(t, err)
	assert.False(t, liked)

	view, err = h.posts.Get(ctx, post.ID, fan.ID)
	require.NoError(t, err)
	assert.False(t, view.IsLiked)

	sent := h.notifier.sent()
	require.Len(t, sent, 1)
	assert.Equal(t, author.ID, sent[0].To)
	assert.Equal(t, notifications.TypePostLiked, sent[0].Event.Type)
	assert.Equal(t, "fan", sent[0].Event.ActorUsername)

	_, err = h.posts.ToggleLike(ctx, post.ID, author.ID)
	require.NoError(t, err)
	assert.Len(t, h.notifier.sent(), 1, "liking your own post notifies nobody")

	_, err = h.posts.ToggleLike(ctx, "missing", fan.ID)
	assert.True(t, models.HasCode(err, models.CodePostNotFound))
}

func TestStrictLikeAndLikeList(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	author := testutil.CreateUser(t, h.db, "author")
	fan := testutil.CreateUser(t, h.db, "fan")
	post := testutil.CreatePost(t, h.db, author.ID, models.CategoryTech, testutil.Base)

	require.NoError(t, h.posts.Like(ctx, post.ID, fan.ID))
	assert.True(t, models.HasCode(h.posts.Like(ctx, post.ID, fan.ID), models.CodeAlreadyLiked))

	likes, err := h.posts.ListLikes(ctx, post.ID, 1)
	require.NoError(t, err)
	require.Len(t, likes, 1)
	assert.Equal(t, "fan", likes[0].Username)

	require.NoError(t, h.posts.Unlike(ctx, post.ID, fan.ID))
	require.NoError(t, h.posts.Unlike(ctx, post.ID, fan.ID))

	likes, err = h.posts.ListLikes(ctx, post.ID, 1)
	require.NoError(t, err)
	assert.Empty(t, likes)

	_, err = h.posts.ListLikes(ctx, post.ID, 0)
	assert.True(t, models.HasCode(err, models.CodeInvalidPage))
}

func TestCreateAndDeletePost(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	author := testutil.CreateUser(t, h.db, "author")
	other := testutil.CreateUser(t, h.db, "other")

	created, err := h.posts.Create(ctx, author.ID, CreatePostInput{
		Caption:   "launch day",
		Category:  "business",
		MediaURLs: []string{"https://cdn.example.com/2.jpg", "https://cdn.example.com/1.jpg"},
	})
	require.NoError(t, err)
	assert.Equal(t, "author", created.AuthorUsername)
	assert.Equal(t, []string{"https://cdn.example.com/2.jpg", "https://cdn.example.com/1.jpg"}, created.MediaURLs)

	_, err = h.posts.Create(ctx, author.ID, CreatePostInput{Category: "gossip"})
	assert.True(t, models.HasCode(err, models.CodeInvalidCategory))
	_, err = h.posts.Create(ctx, author.ID, CreatePostInput{Category: ""})
	assert.True(t, models.HasCode(err, models.CodeValidation))
	_, err = h.posts.Create(ctx, author.ID, CreatePostInput{Category: "tech", MediaURLs: []string{"ftp://x/y"}})
	assert.True(t, models.HasCode(err, models.CodeValidation))

	assert.True(t, models.HasCode(h.posts.Delete(ctx, created.ID, other.ID), models.CodeForbidden))
	require.NoError(t, h.posts.Delete(ctx, created.ID, author.ID))

	_, err = h.posts.Get(ctx, created.ID, author.ID)
	assert.True(t, models.HasCode(err, models.CodePostNotFound))
}

func TestSendFollowRequest_NeverDuplicates(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	a := testutil.CreateUser(t, h.db, "alpha")
	b := testutil.CreateUser(t, h.db, "beta")

	req, err := h.follows.Send(ctx, a.ID, "beta")
	require.NoError(t, err)

	_, err = h.follows.Send(ctx, a.ID, "beta")
	assert.True(t, models.HasCode(err, models.CodeFollowPending))

	_, err = h.follows.Approve(ctx, b.ID, req.ID)
	require.NoError(t, err)

	_, err = h.follows.Send(ctx, a.ID, "beta")
	assert.True(t, models.HasCode(err, models.CodeAlreadyFollowing))

	var n int64
	h.db.Model(&models.FollowRequest{}).Where("requester_id = ? AND requested_id = ?", a.ID, b.ID).Count(&n)
	assert.Equal(t, int64(1), n)

	_, err = h.follows.Send(ctx, a.ID, "alpha")
	assert.True(t, models.HasCode(err, models.CodeSelfFollow))
	_, err = h.follows.Send(ctx, a.ID, "nobody")
	assert.True(t, models.HasCode(err, models.CodeAccountNotFound))
}

func TestApproveFollowRequest_AtomicOnFailure(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	a := testutil.CreateUser(t, h.db, "alpha")
	b := testutil.CreateUser(t, h.db, "beta")
	req := testutil.CreateFollow(t, h.db, a.ID, b.ID, models.FollowStatusPending)

	const hook = "test:fail_friendships"
	require.NoError(t, h.db.Callback().Create().Before("gorm:create").Register(hook, func(tx *gorm.DB) {
		if tx.Statement.Table == "friendships" {
			_ = tx.AddError(errors.New("forced friendship failure"))
		}
	}))

	_, err := h.follows.Approve(ctx, b.ID, req.ID)
	require.Error(t, err)
	assert.True(t, models.HasCode(err, models.CodeRelationshipWriteFailed))
	assert.Equal(t, models.FollowStatusPending, h.requestStatus(t, req.ID))

	var friendships int64
	h.db.Model(&models.Friendship{}).Count(&friendships)
	assert.Zero(t, friendships)
	assert.Empty(t, h.notifier.sent())

	require.NoError(t, h.db.Callback().Create().Remove(hook))

	approved, err := h.follows.Approve(ctx, b.ID, req.ID)
	require.NoError(t, err)
	assert.Equal(t, models.FollowStatusAccepted, approved.Status)
	assert.Equal(t, models.FollowStatusAccepted, h.requestStatus(t, req.ID))

	h.db.Model(&models.Friendship{}).Count(&friendships)
	assert.Equal(t, int64(1), friendships)

	sent := h.notifier.sent()
	require.Len(t, sent, 1)
	assert.Equal(t, a.ID, sent[0].To)
	assert.Equal(t, notifications.TypeFollowAccepted, sent[0].Event.Type)
}

func TestApproveAndRejectGuards(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	a := testutil.CreateUser(t, h.db, "alpha")
	b := testutil.CreateUser(t, h.db, "beta")
	req := testutil.CreateFollow(t, h.db, a.ID, b.ID, models.FollowStatusPending)

	_, err := h.follows.Approve(ctx, a.ID, req.ID)
	assert.True(t, models.HasCode(err, models.CodeForbidden))
	_, err = h.follows.Approve(ctx, b.ID, 9999)
	assert.True(t, models.HasCode(err, models.CodeNotFound))

	rejected, err := h.follows.Reject(ctx, b.ID, req.ID)
	require.NoError(t, err)
	assert.Equal(t, models.FollowStatusRejected, rejected.Status)

	_, err = h.follows.Approve(ctx, b.ID, req.ID)
	assert.True(t, models.HasCode(err, models.CodeConflict))

	// a rejected request does not block a new one
	again, err := h.follows.Send(ctx, a.ID, "beta")
	require.NoError(t, err)
	assert.NotEqual(t, req.ID, again.ID)

	incoming, err := h.follows.ListIncoming(ctx, b.ID, 1)
	require.NoError(t, err)
	require.Len(t, incoming, 1)
	assert.Equal(t, again.ID, incoming[0].ID)
	assert.Equal(t, "alpha", incoming[0].CounterpartUsername)

	outgoing, err := h.follows.ListOutgoing(ctx, a.ID, 1)
	require.NoError(t, err)
	require.Len(t, outgoing, 1)
	assert.Equal(t, "beta", outgoing[0].CounterpartUsername)
}

func TestGetProfile_RelationshipScalarsAndMutual(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	a := testutil.CreateUser(t, h.db, "alpha")
	b := testutil.CreateUser(t, h.db, "beta")
	c := testutil.CreateUser(t, h.db, "gamma")
	testutil.CreatePost(t, h.db, b.ID, models.CategoryTech, testutil.Base)
	testutil.CreatePost(t, h.db, b.ID, models.CategoryVlog, testutil.Base.Add(time.Minute))

	profile, err := h.profiles.GetProfile(ctx, "beta", a.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), profile.PostsCount)
	assert.Zero(t, profile.TheyFollowYou)
	assert.Zero(t, profile.YouFollowThem)
	assert.False(t, profile.Mutual)

	aToB, err := h.follows.Send(ctx, a.ID, "beta")
	require.NoError(t, err)

	profile, err = h.profiles.GetProfile(ctx, "beta", a.ID)
	require.NoError(t, err)
	assert.Equal(t, 0.5, profile.YouFollowThem)
	assert.Zero(t, profile.FollowersCount, "pending requests are not followers")

	_, err = h.follows.Approve(ctx, b.ID, aToB.ID)
	require.NoError(t, err)
	bToA, err := h.follows.Send(ctx, b.ID, "alpha")
	require.NoError(t, err)

	profile, err = h.profiles.GetProfile(ctx, "beta", a.ID)
	require.NoError(t, err)
	assert.Equal(t, 1.0, profile.YouFollowThem)
	assert.Equal(t, 0.5, profile.TheyFollowYou)
	assert.False(t, profile.Mutual)
	assert.Equal(t, int64(1), profile.FollowersCount)

	_, err = h.follows.Approve(ctx, a.ID, bToA.ID)
	require.NoError(t, err)

	profile, err = h.profiles.GetProfile(ctx, "beta", a.ID)
	require.NoError(t, err)
	assert.Equal(t, 1.0, profile.YouFollowThem)
	assert.Equal(t, 1.0, profile.TheyFollowYou)
	assert.True(t, profile.Mutual)
	assert.Equal(t, int64(1), profile.FollowersCount)
	assert.Equal(t, int64(1), profile.FollowingCount)

	var friendships []models.Friendship
	require.NoError(t, h.db.Find(&friendships).Error)
	require.Len(t, friendships, 1, "one row per pair")
	assert.Equal(t, models.DirectionMutual, friendships[0].Direction)

	seenByStranger, err := h.profiles.GetProfile(ctx, "beta", c.ID)
	require.NoError(t, err)
	assert.Zero(t, seenByStranger.YouFollowThem)
	assert.False(t, seenByStranger.Mutual)

	followers, err := h.follows.Followers(ctx, "beta", 1)
	require.NoError(t, err)
	require.Len(t, followers, 1)
	assert.Equal(t, "alpha", followers[0].Username)

	_, err = h.profiles.GetProfile(ctx, "nobody", a.ID)
	assert.True(t, models.HasCode(err, models.CodeAccountNotFound))
	_, err = h.follows.Following(ctx, "nobody", 1)
	assert.True(t, models.HasCode(err, models.CodeAccountNotFound))
}

func TestGetUserPostsAndDashboard(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	owner := testutil.CreateUser(t, h.db, "owner")
	viewer := testutil.CreateUser(t, h.db, "viewer")
	for i := 0; i < 14; i++ {
		testutil.CreatePost(t, h.db, owner.ID, models.CategoryLifestyle, testutil.Base.Add(time.Duration(i)*time.Minute),
			"https://cdn.example.com/a.jpg", "https://cdn.example.com/b.jpg", "https://cdn.example.com/c.jpg")
	}

	first, err := h.profiles.GetUserPosts(ctx, "owner", viewer.ID, 1)
	require.NoError(t, err)
	require.Len(t, first, 12)
	for _, p := range first {
		assert.Len(t, p.MediaURLs, 3)
	}
	testutil.LikePost(t, h.db, first[0].ID, viewer.ID)

	first, err = h.profiles.GetUserPosts(ctx, "owner", viewer.ID, 1)
	require.NoError(t, err)
	assert.True(t, first[0].IsLiked)

	second, err := h.profiles.GetUserPosts(ctx, "owner", viewer.ID, 2)
	require.NoError(t, err)
	assert.Len(t, second, 2)

	dash, err := h.profiles.Dashboard(ctx, owner.ID, 1)
	require.NoError(t, err)
	assert.Len(t, dash, 12)
	assert.False(t, dash[0].IsLiked)

	_, err = h.profiles.GetUserPosts(ctx, "nobody", viewer.ID, 1)
	assert.True(t, models.HasCode(err, models.CodeAccountNotFound))
	_, err = h.profiles.GetUserPosts(ctx, "owner", viewer.ID, 0)
	assert.True(t, models.HasCode(err, models.CodeInvalidPage))
}

func TestListings_PageBeyondAnyOffsetIsEmpty(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	v := testutil.CreateUser(t, h.db, "viewer")
	a := testutil.CreateUser(t, h.db, "author")
	fan := testutil.CreateUser(t, h.db, "fan")
	testutil.CreateFollow(t, h.db, v.ID, a.ID, models.FollowStatusAccepted)
	testutil.CreateFollow(t, h.db, fan.ID, a.ID, models.FollowStatusPending)

	var newest *models.Post
	for i := 0; i < 25; i++ {
		newest = testutil.CreatePost(t, h.db, a.ID, models.CategoryTech, testutil.Base,
			"https://cdn.example.com/1.jpg", "https://cdn.example.com/2.jpg", "https://cdn.example.com/3.jpg")
	}
	testutil.LikePost(t, h.db, newest.ID, v.ID)
	_, err := h.comments.Add(ctx, newest.ID, v.ID, "first")
	require.NoError(t, err)

	first, err := h.feed.ComposeFeed(ctx, v.ID, "", 1)
	require.NoError(t, err)
	require.Len(t, first, 10)

	for _, page := range []int{math.MaxInt / 5, math.MaxInt / 6, math.MaxInt} {
		t.Run(fmt.Sprintf("page %d", page), func(t *testing.T) {
			feed, err := h.feed.ComposeFeed(ctx, v.ID, "", page)
			require.NoError(t, err)
			assert.NotNil(t, feed)
			assert.Empty(t, feed)

			posts, err := h.profiles.GetUserPosts(ctx, "author", v.ID, page)
			require.NoError(t, err)
			assert.Empty(t, posts)

			dash, err := h.profiles.Dashboard(ctx, a.ID, page)
			require.NoError(t, err)
			assert.Empty(t, dash)

			likes, err := h.posts.ListLikes(ctx, newest.ID, page)
			require.NoError(t, err)
			assert.Empty(t, likes)

			comments, err := h.comments.List(ctx, newest.ID, v.ID, page)
			require.NoError(t, err)
			assert.Empty(t, comments)

			incoming, err := h.follows.ListIncoming(ctx, a.ID, page)
			require.NoError(t, err)
			assert.Empty(t, incoming)

			outgoing, err := h.follows.ListOutgoing(ctx, fan.ID, page)
			require.NoError(t, err)
			assert.Empty(t, outgoing)

			followers, err := h.follows.Followers(ctx, "author", page)
			require.NoError(t, err)
			assert.Empty(t, followers)

			_, err = h.profiles.GetUserPosts(ctx, "nobody", v.ID, page)
			assert.True(t, models.HasCode(err, models.CodeAccountNotFound))
			_, err = h.posts.ListLikes(ctx, "missing", page)
			assert.True(t, models.HasCode(err, models.CodePostNotFound))
		})
	}
}

func TestComments(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	author := testutil.CreateUser(t, h.db, "author")
	commenter := testutil.CreateUser(t, h.db, "commenter")
	stranger := testutil.CreateUser(t, h.db, "stranger")
	post := testutil.CreatePost(t, h.db, author.ID, models.CategoryTech, testutil.Base)

	c, err := h.comments.Add(ctx, post.ID, commenter.ID, "great post")
	require.NoError(t, err)
	assert.Equal(t, "commenter", c.AuthorUsername)

	_, err = h.comments.Add(ctx, post.ID, commenter.ID, "   ")
	assert.True(t, models.HasCode(err, models.CodeValidation))
	_, err = h.comments.Add(ctx, "missing", commenter.ID, "hello")
	assert.True(t, models.HasCode(err, models.CodePostNotFound))

	liked, err := h.comments.ToggleLike(ctx, c.ID, author.ID)
	require.NoError(t, err)
	assert.True(t, liked)

	list, err := h.comments.List(ctx, post.ID, author.ID, 1)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, int64(1), list[0].LikeCount)
	assert.True(t, list[0].IsLiked)

	liked, err = h.comments.ToggleLike(ctx, c.ID, author.ID)
	require.NoError(t, err)
	assert.False(t, liked)

	assert.True(t, models.HasCode(h.comments.Delete(ctx, c.ID, stranger.ID), models.CodeForbidden))
	require.NoError(t, h.comments.Delete(ctx, c.ID, author.ID), "post author may remove comments")

	list, err = h.comments.List(ctx, post.ID, author.ID, 1)
	require.NoError(t, err)
	assert.Empty(t, list)
}
