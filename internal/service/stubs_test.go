package service

import (
	"context"
	"sync"

	"outstagram/internal/models"
	"outstagram/internal/notifications"
	"outstagram/internal/repository"
)

// passthroughTx runs fn inline, counting how often a unit of work was opened.
type passthroughTx struct {
	calls int
}

func (p *passthroughTx) ReadOnly(ctx context.Context, fn func(context.Context) error) error {
	p.calls++
	return fn(ctx)
}

func (p *passthroughTx) ReadWrite(ctx context.Context, fn func(context.Context) error) error {
	p.calls++
	return fn(ctx)
}

type followRepoStub struct {
	createFn                    func(context.Context, *models.FollowRequest) error
	getByIDFn                   func(context.Context, uint) (*models.FollowRequest, error)
	listBetweenFn               func(context.Context, uint, uint) ([]models.FollowRequest, error)
	acceptedFolloweeIDsFn       func(context.Context, uint) ([]uint, error)
	countFollowersFn            func(context.Context, uint) (int64, error)
	countFollowingFn            func(context.Context, uint) (int64, error)
	listIncomingFn              func(context.Context, uint, int, int) ([]models.FollowRequestView, error)
	listOutgoingFn              func(context.Context, uint, int, int) ([]models.FollowRequestView, error)
	listFollowersFn             func(context.Context, uint, int, int) ([]models.AccountSummary, error)
	listFollowingFn             func(context.Context, uint, int, int) ([]models.AccountSummary, error)
	transitionStatusFn          func(context.Context, uint, models.FollowStatus, models.FollowStatus) (bool, error)
	getFriendshipFn             func(context.Context, uint, uint) (*models.Friendship, error)
	createFriendshipFn          func(context.Context, *models.Friendship) error
	updateFriendshipDirectionFn func(context.Context, *models.Friendship) error
}

var _ repository.FollowRepository = (*followRepoStub)(nil)

func (s *followRepoStub) Create(ctx context.Context, req *models.FollowRequest) error {
	return s.createFn(ctx, req)
}
func (s *followRepoStub) GetByID(ctx context.Context, id uint) (*models.FollowRequest, error) {
	return s.getByIDFn(ctx, id)
}
func (s *followRepoStub) ListBetween(ctx context.Context, a, b uint) ([]models.FollowRequest, error) {
	return s.listBetweenFn(ctx, a, b)
}
func (s *followRepoStub) AcceptedFolloweeIDs(ctx context.Context, id uint) ([]uint, error) {
	return s.acceptedFolloweeIDsFn(ctx, id)
}
func (s *followRepoStub) CountFollowers(ctx context.Context, id uint) (int64, error) {
	return s.countFollowersFn(ctx, id)
}
func (s *followRepoStub) CountFollowing(ctx context.Context, id uint) (int64, error) {
	return s.countFollowingFn(ctx, id)
}
func (s *followRepoStub) ListIncoming(ctx context.Context, id uint, limit, offset int) ([]models.FollowRequestView, error) {
	return s.listIncomingFn(ctx, id, limit, offset)
}
func (s *followRepoStub) ListOutgoing(ctx context.Context, id uint, limit, offset int) ([]models.FollowRequestView, error) {
	return s.listOutgoingFn(ctx, id, limit, offset)
}
func (s *followRepoStub) ListFollowers(ctx context.Context, id uint, limit, offset int) ([]models.AccountSummary, error) {
	return s.listFollowersFn(ctx, id, limit, offset)
}
func (s *followRepoStub) ListFollowing(ctx context.Context, id uint, limit, offset int) ([]models.AccountSummary, error) {
	return s.listFollowingFn(ctx, id, limit, offset)
}
func (s *followRepoStub) TransitionStatus(ctx context.Context, id uint, from, to models.FollowStatus) (bool, error) {
	return s.transitionStatusFn(ctx, id, from, to)
}
func (s *followRepoStub) GetFriendship(ctx context.Context, a, b uint) (*models.Friendship, error) {
	return s.getFriendshipFn(ctx, a, b)
}
func (s *followRepoStub) CreateFriendship(ctx context.Context, f *models.Friendship) error {
	return s.createFriendshipFn(ctx, f)
}
func (s *followRepoStub) UpdateFriendshipDirection(ctx context.Context, f *models.Friendship) error {
	return s.updateFriendshipDirectionFn(ctx, f)
}

type postRepoStub struct {
	createFn        func(context.Context, *models.Post, []string) error
	getByIDFn       func(context.Context, string) (*models.Post, error)
	getFeedPostFn   func(context.Context, string, uint) (*models.FeedPost, error)
	listFn          func(context.Context, repository.PostQuery) ([]models.FeedPost, error)
	countByAuthorFn func(context.Context, uint) (int64, error)
	deleteFn        func(context.Context, string) error
}

var _ repository.PostRepository = (*postRepoStub)(nil)

func (s *postRepoStub) Create(ctx context.Context, post *models.Post, media []string) error {
	return s.createFn(ctx, post, media)
}
func (s *postRepoStub) GetByID(ctx context.Context, id string) (*models.Post, error) {
	return s.getByIDFn(ctx, id)
}
func (s *postRepoStub) GetFeedPost(ctx context.Context, id string, viewerID uint) (*models.FeedPost, error) {
	return s.getFeedPostFn(ctx, id, viewerID)
}
func (s *postRepoStub) List(ctx context.Context, q repository.PostQuery) ([]models.FeedPost, error) {
	return s.listFn(ctx, q)
}
func (s *postRepoStub) CountByAuthor(ctx context.Context, id uint) (int64, error) {
	return s.countByAuthorFn(ctx, id)
}
func (s *postRepoStub) Delete(ctx context.Context, id string) error {
	return s.deleteFn(ctx, id)
}

type userRepoStub struct {
	createFn         func(context.Context, *models.User) error
	getByIDFn        func(context.Context, uint) (*models.User, error)
	getByUsernameFn  func(context.Context, string) (*models.User, error)
	getByEmailFn     func(context.Context, string) (*models.User, error)
	getCredentialsFn func(context.Context, string) (*models.User, error)
}

var _ repository.UserRepository = (*userRepoStub)(nil)

func (s *userRepoStub) Create(ctx context.Context, user *models.User) error {
	return s.createFn(ctx, user)
}
func (s *userRepoStub) GetByID(ctx context.Context, id uint) (*models.User, error) {
	return s.getByIDFn(ctx, id)
}
func (s *userRepoStub) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	return s.getByUsernameFn(ctx, username)
}
func (s *userRepoStub) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return s.getByEmailFn(ctx, email)
}
func (s *userRepoStub) GetCredentials(ctx context.Context, username string) (*models.User, error) {
	return s.getCredentialsFn(ctx, username)
}

type hasherStub struct {
	hashFn   func(string) (string, error)
	verifyFn func(string, string) error
}

func (h hasherStub) Hash(password string) (string, error) { return h.hashFn(password) }
func (h hasherStub) Verify(hash, password string) error  { return h.verifyFn(hash, password) }

type issuerStub struct {
	issueFn func(uint, string) (string, error)
}

func (i issuerStub) Issue(userID uint, username string) (string, error) {
	return i.issueFn(userID, username)
}

// recordingNotifier keeps every event it is asked to deliver.
type recordingNotifier struct {
	mu     sync.Mutex
	events []sentEvent
}

type sentEvent struct {
	To    uint
	Event notifications.Event
}

func (r *recordingNotifier) Notify(_ context.Context, userID uint, event notifications.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, sentEvent{To: userID, Event: event})
}

func (r *recordingNotifier) sent() []sentEvent {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]sentEvent(nil), r.events...)
}
