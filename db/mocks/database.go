package mocks

import (
	"context"
	"database/sql"
	"time"

	appDb "github.com/billix/billix-be/db"
	"github.com/billix/billix-be/model"
	"github.com/stretchr/testify/mock"
)

// Database is a testify mock of db.Database
type Database struct {
	mock.Mock
}

var _ appDb.Database = (*Database)(nil)

func (m *Database) CreateUser(ctx context.Context, user *model.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *Database) GetUser(ctx context.Context, id string) (*model.User, error) {
	args := m.Called(ctx, id)
	val, _ := args.Get(0).(*model.User)
	return val, args.Error(1)
}

func (m *Database) CreateGroup(ctx context.Context, req *appDb.CreateGroup) (string, error) {
	args := m.Called(ctx, req)
	return args.String(0), args.Error(1)
}

func (m *Database) GetGroupsByIds(ctx context.Context, ids []string, opts *appDb.GetGroupsQueryOpts) ([]*model.GroupWithMembership, error) {
	args := m.Called(ctx, ids, opts)
	val, _ := args.Get(0).([]*model.GroupWithMembership)
	return val, args.Error(1)
}

func (m *Database) CreateMembership(ctx context.Context, membership *model.Membership) error {
	args := m.Called(ctx, membership)
	return args.Error(0)
}

func (m *Database) DeleteMembership(ctx context.Context, membership *model.Membership) error {
	args := m.Called(ctx, membership)
	return args.Error(0)
}

func (m *Database) GetMembershipsForUser(ctx context.Context, userId string) ([]*model.Membership, error) {
	args := m.Called(ctx, userId)
	val, _ := args.Get(0).([]*model.Membership)
	return val, args.Error(1)
}

func (m *Database) CreatePost(ctx context.Context, req *appDb.CreatePost) (string, error) {
	args := m.Called(ctx, req)
	return args.String(0), args.Error(1)
}

func (m *Database) GetPostById(ctx context.Context, id string, opts *appDb.PostQueryOpts) (*model.Post, error) {
	args := m.Called(ctx, id, opts)
	val, _ := args.Get(0).(*model.Post)
	return val, args.Error(1)
}

func (m *Database) GetPosts(ctx context.Context, query *appDb.PostsListQuery) ([]*model.Post, error) {
	args := m.Called(ctx, query)
	val, _ := args.Get(0).([]*model.Post)
	return val, args.Error(1)
}

func (m *Database) MarkPostAsDeleted(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *Database) CreateComment(ctx context.Context, req *appDb.CreateComment) (string, error) {
	args := m.Called(ctx, req)
	return args.String(0), args.Error(1)
}

func (m *Database) GetCommentById(ctx context.Context, id string) (*model.Comment, error) {
	args := m.Called(ctx, id)
	val, _ := args.Get(0).(*model.Comment)
	return val, args.Error(1)
}

func (m *Database) GetCommentForest(ctx context.Context, postId string) ([]*model.CommentTree, error) {
	args := m.Called(ctx, postId)
	val, _ := args.Get(0).([]*model.CommentTree)
	return val, args.Error(1)
}

func (m *Database) MarkCommentAsDeleted(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *Database) CreateReport(ctx context.Context, report *model.Report) error {
	args := m.Called(ctx, report)
	return args.Error(0)
}

func (m *Database) React(ctx context.Context, postId string, userId string, reaction model.ReactionType) error {
	args := m.Called(ctx, postId, userId, reaction)
	return args.Error(0)
}

func (m *Database) GetReactionCounts(ctx context.Context, postId string) (map[model.ReactionType]int64, error) {
	args := m.Called(ctx, postId)
	val, _ := args.Get(0).(map[model.ReactionType]int64)
	return val, args.Error(1)
}

func (m *Database) GetUserReaction(ctx context.Context, postId string, userId string) (model.ReactionType, error) {
	args := m.Called(ctx, postId, userId)
	return args.Get(0).(model.ReactionType), args.Error(1)
}

func (m *Database) GetRewardAccount(ctx context.Context, userId string) (*model.RewardAccount, error) {
	args := m.Called(ctx, userId)
	val, _ := args.Get(0).(*model.RewardAccount)
	return val, args.Error(1)
}

func (m *Database) EarnPoints(ctx context.Context, change *appDb.PointsChange) (*model.RewardAccount, error) {
	args := m.Called(ctx, change)
	val, _ := args.Get(0).(*model.RewardAccount)
	return val, args.Error(1)
}

func (m *Database) SpendPoints(ctx context.Context, change *appDb.PointsChange) (*model.RewardAccount, error) {
	args := m.Called(ctx, change)
	val, _ := args.Get(0).(*model.RewardAccount)
	return val, args.Error(1)
}

func (m *Database) GetTransactions(ctx context.Context, query *appDb.TransactionsListQuery) ([]*model.RewardTransaction, error) {
	args := m.Called(ctx, query)
	val, _ := args.Get(0).([]*model.RewardTransaction)
	return val, args.Error(1)
}

func (m *Database) HasTransaction(ctx context.Context, userId string, source model.TransactionSource, referenceId string) (bool, error) {
	args := m.Called(ctx, userId, source, referenceId)
	return args.Bool(0), args.Error(1)
}

func (m *Database) SumEarnedPoints(ctx context.Context, userId string, from time.Time, to time.Time) (int64, error) {
	args := m.Called(ctx, userId, from, to)
	return args.Get(0).(int64), args.Error(1)
}

func (m *Database) EnterGiveaway(ctx context.Context, entry *model.GiveawayEntry, costPoints int64) (*model.RewardAccount, error) {
	args := m.Called(ctx, entry, costPoints)
	val, _ := args.Get(0).(*model.RewardAccount)
	return val, args.Error(1)
}

func (m *Database) GetGiveawayEntryCount(ctx context.Context, week string) (int64, error) {
	args := m.Called(ctx, week)
	return args.Get(0).(int64), args.Error(1)
}

func (m *Database) HasGiveawayEntry(ctx context.Context, week string, userId string) (bool, error) {
	args := m.Called(ctx, week, userId)
	return args.Bool(0), args.Error(1)
}

func (m *Database) GetGiveawayDraw(ctx context.Context, week string) (*model.GiveawayDraw, error) {
	args := m.Called(ctx, week)
	val, _ := args.Get(0).(*model.GiveawayDraw)
	return val, args.Error(1)
}

func (m *Database) DrawGiveaway(ctx context.Context, req *appDb.DrawGiveaway) (*model.GiveawayDraw, error) {
	args := m.Called(ctx, req)
	val, _ := args.Get(0).(*model.GiveawayDraw)
	return val, args.Error(1)
}

func (m *Database) CreateReliefRequest(ctx context.Context, req *model.ReliefRequest) error {
	args := m.Called(ctx, req)
	return args.Error(0)
}

func (m *Database) GetReliefRequest(ctx context.Context, id string) (*model.ReliefRequest, error) {
	args := m.Called(ctx, id)
	val, _ := args.Get(0).(*model.ReliefRequest)
	return val, args.Error(1)
}

func (m *Database) GetReliefRequests(ctx context.Context, query *appDb.ReliefListQuery) ([]*model.ReliefRequest, error) {
	args := m.Called(ctx, query)
	val, _ := args.Get(0).([]*model.ReliefRequest)
	return val, args.Error(1)
}

func (m *Database) TransitionReliefRequest(ctx context.Context, transition *appDb.ReliefTransition) error {
	args := m.Called(ctx, transition)
	return args.Error(0)
}

func (m *Database) AcceptReliefRequest(ctx context.Context, id string, feeCents int64) error {
	args := m.Called(ctx, id, feeCents)
	return args.Error(0)
}

func (m *Database) DonateToRelief(ctx context.Context, donation *model.ReliefDonation) error {
	args := m.Called(ctx, donation)
	return args.Error(0)
}

func (m *Database) GetDonations(ctx context.Context, reliefRequestId string) ([]*model.ReliefDonation, error) {
	args := m.Called(ctx, reliefRequestId)
	val, _ := args.Get(0).([]*model.ReliefDonation)
	return val, args.Error(1)
}

func (m *Database) ExpireReliefRequests(ctx context.Context, now time.Time) (int64, error) {
	args := m.Called(ctx, now)
	return args.Get(0).(int64), args.Error(1)
}

func (m *Database) CreateSwap(ctx context.Context, swap *model.Swap, organizerContributionCents int64) error {
	args := m.Called(ctx, swap, organizerContributionCents)
	return args.Error(0)
}

func (m *Database) GetSwap(ctx context.Context, id string) (*model.Swap, error) {
	args := m.Called(ctx, id)
	val, _ := args.Get(0).(*model.Swap)
	return val, args.Error(1)
}

func (m *Database) GetSwapParticipants(ctx context.Context, swapId string) ([]*model.SwapParticipant, error) {
	args := m.Called(ctx, swapId)
	val, _ := args.Get(0).([]*model.SwapParticipant)
	return val, args.Error(1)
}

func (m *Database) GetSwaps(ctx context.Context, query *appDb.SwapListQuery) ([]*model.Swap, error) {
	args := m.Called(ctx, query)
	val, _ := args.Get(0).([]*model.Swap)
	return val, args.Error(1)
}

func (m *Database) JoinSwap(ctx context.Context, req *appDb.JoinSwap) (*model.Swap, error) {
	args := m.Called(ctx, req)
	val, _ := args.Get(0).(*model.Swap)
	return val, args.Error(1)
}

func (m *Database) LeaveSwap(ctx context.Context, swapId string, userId string) error {
	args := m.Called(ctx, swapId, userId)
	return args.Error(0)
}

func (m *Database) TransitionSwap(ctx context.Context, id string, from []model.SwapStatus, to model.SwapStatus) error {
	args := m.Called(ctx, id, from, to)
	return args.Error(0)
}

func (m *Database) MarkParticipantPaid(ctx context.Context, swapId string, userId string) (*model.Swap, error) {
	args := m.Called(ctx, swapId, userId)
	val, _ := args.Get(0).(*model.Swap)
	return val, args.Error(1)
}

func (m *Database) BoostSwap(ctx context.Context, req *appDb.BoostSwap) (*model.Swap, error) {
	args := m.Called(ctx, req)
	val, _ := args.Get(0).(*model.Swap)
	return val, args.Error(1)
}

func (m *Database) CancelStaleSwaps(ctx context.Context, now time.Time) (int64, error) {
	args := m.Called(ctx, now)
	return args.Get(0).(int64), args.Error(1)
}

func (m *Database) CreateClaim(ctx context.Context, claim *model.ProtectionClaim) error {
	args := m.Called(ctx, claim)
	return args.Error(0)
}

func (m *Database) GetClaim(ctx context.Context, id string) (*model.ProtectionClaim, error) {
	args := m.Called(ctx, id)
	val, _ := args.Get(0).(*model.ProtectionClaim)
	return val, args.Error(1)
}

func (m *Database) GetClaimsForSwap(ctx context.Context, swapId string) ([]*model.ProtectionClaim, error) {
	args := m.Called(ctx, swapId)
	val, _ := args.Get(0).([]*model.ProtectionClaim)
	return val, args.Error(1)
}

func (m *Database) ResolveClaim(ctx context.Context, id string, status model.ClaimStatus, resolvedAt time.Time) error {
	args := m.Called(ctx, id, status, resolvedAt)
	return args.Error(0)
}

func (m *Database) GetSQLDB() *sql.DB {
	args := m.Called()
	val, _ := args.Get(0).(*sql.DB)
	return val
}

func (m *Database) Close() error {
	return m.Called().Error(0)
}
