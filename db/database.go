package db

import (
	"context"
	"database/sql"
	"time"

	"github.com/billix/billix-be/model"

	_ "github.com/go-sql-driver/mysql"
)

type Database interface {
	UserDatabase
	GroupDatabase
	PostDatabase
	ReactionDatabase
	RewardsDatabase
	ReliefDatabase
	SwapDatabase
	GetSQLDB() *sql.DB
	Close() error
}

type UserDatabase interface {
	CreateUser(ctx context.Context, user *model.User) error
	// GetUser returns nil, nil when there is no profile
	GetUser(ctx context.Context, id string) (*model.User, error)
}

type CreateGroup struct {
	Name        string
	Description string
	ParentId    string
}

type GetGroupsQueryOpts struct {
	ForUserId string
}

type GroupDatabase interface {
	CreateGroup(ctx context.Context, req *CreateGroup) (groupId string, err error)
	GetGroupsByIds(ctx context.Context, ids []string, opts *GetGroupsQueryOpts) ([]*model.GroupWithMembership, error)
	CreateMembership(ctx context.Context, membership *model.Membership) error
	DeleteMembership(ctx context.Context, membership *model.Membership) error
	GetMembershipsForUser(ctx context.Context, userId string) ([]*model.Membership, error)
}

type CreateContentMetadata struct {
	CreatorId    string
	Visibility   model.Visibility
	CreatorAlias string // only required if visibility is hidden
}

type CreatePost struct {
	*CreateContentMetadata
	Title           string
	Content         string
	BillCategory    string
	BillAmountCents *int64
	ImageBlobNames  []string
	Groups          []string
}

type CreateComment struct {
	*CreateContentMetadata
	PostId   string
	ParentId string
	Content  string
}

type PostQueryOpts struct {
	ReactionHistoryOf string
}

// PostKey is the keyset position of the last post on the previous page
type PostKey struct {
	CreatedAt time.Time
	Id        string
}

type ByReactionPaging struct {
	MaxReactionTotal *int64
	LastId           string
}

type PostsListQuery struct {
	GroupIds   []string
	CreatorId  string
	Before     *PostKey
	ByReaction *ByReactionPaging
	Limit      int
	*PostQueryOpts
}

type PostDatabase interface {
	CreatePost(ctx context.Context, req *CreatePost) (postId string, err error)
	// GetPostById returns nil, nil when the post does not exist
	GetPostById(ctx context.Context, id string, opts *PostQueryOpts) (*model.Post, error)
	GetPosts(ctx context.Context, query *PostsListQuery) ([]*model.Post, error)
	MarkPostAsDeleted(ctx context.Context, id string) error
	CreateComment(ctx context.Context, req *CreateComment) (commentId string, err error)
	GetCommentById(ctx context.Context, id string) (*model.Comment, error)
	GetCommentForest(ctx context.Context, postId string) ([]*model.CommentTree, error)
	MarkCommentAsDeleted(ctx context.Context, id string) error
	CreateReport(ctx context.Context, report *model.Report) error
}

type ReactionDatabase interface {
	// React replaces the user's reaction on a post. model.ReactionNone removes it.
	React(ctx context.Context, postId string, userId string, reaction model.ReactionType) error
	GetReactionCounts(ctx context.Context, postId string) (map[model.ReactionType]int64, error)
	GetUserReaction(ctx context.Context, postId string, userId string) (model.ReactionType, error)
}

type PointsChange struct {
	UserId      string
	Points      int64
	Source      model.TransactionSource
	ReferenceId string
}

type TransactionsListQuery struct {
	UserId string
	Before *PostKey
	Limit  int
}

type RewardsDatabase interface {
	// GetRewardAccount returns an empty account for users who never earned points
	GetRewardAccount(ctx context.Context, userId string) (*model.RewardAccount, error)
	EarnPoints(ctx context.Context, change *PointsChange) (*model.RewardAccount, error)
	SpendPoints(ctx context.Context, change *PointsChange) (*model.RewardAccount, error)
	GetTransactions(ctx context.Context, query *TransactionsListQuery) ([]*model.RewardTransaction, error)
	HasTransaction(ctx context.Context, userId string, source model.TransactionSource, referenceId string) (bool, error)
	// SumEarnedPoints totals points earned in [from, to)
	SumEarnedPoints(ctx context.Context, userId string, from time.Time, to time.Time) (int64, error)

	// EnterGiveaway fails with a duplicate key error on a second entry for the same week
	EnterGiveaway(ctx context.Context, entry *model.GiveawayEntry, costPoints int64) (*model.RewardAccount, error)
	GetGiveawayEntryCount(ctx context.Context, week string) (int64, error)
	HasGiveawayEntry(ctx context.Context, week string, userId string) (bool, error)
	// GetGiveawayDraw returns nil, nil when the week was not drawn
	GetGiveawayDraw(ctx context.Context, week string) (*model.GiveawayDraw, error)
	// DrawGiveaway returns nil, nil when the week had no entries
	DrawGiveaway(ctx context.Context, req *DrawGiveaway) (*model.GiveawayDraw, error)
}

type DrawGiveaway struct {
	Week        string
	PrizePoints int64
	// Pick returns an index in [0, n)
	Pick    func(n int64) int64
	DrawnAt time.Time
}

type ReliefListQuery struct {
	Statuses     []model.ReliefStatus
	BillCategory string
	RequesterId  string
	HelperId     string
	Before       *PostKey
	Limit        int
}

type ReliefTransition struct {
	Id   string
	From []model.ReliefStatus
	To   model.ReliefStatus
	// SetHelper updates helper_id together with the status. An empty value clears it.
	SetHelper *string
}

type ReliefDatabase interface {
	CreateReliefRequest(ctx context.Context, req *model.ReliefRequest) error
	GetReliefRequest(ctx context.Context, id string) (*model.ReliefRequest, error)
	GetReliefRequests(ctx context.Context, query *ReliefListQuery) ([]*model.ReliefRequest, error)
	// TransitionReliefRequest only applies when the row is still in one of From
	TransitionReliefRequest(ctx context.Context, transition *ReliefTransition) error
	AcceptReliefRequest(ctx context.Context, id string, feeCents int64) error
	DonateToRelief(ctx context.Context, donation *model.ReliefDonation) error
	GetDonations(ctx context.Context, reliefRequestId string) ([]*model.ReliefDonation, error)
	ExpireReliefRequests(ctx context.Context, now time.Time) (int64, error)
}

type SwapListQuery struct {
	Statuses     []model.SwapStatus
	BillCategory string
	Now          time.Time
	Offset       int
	Limit        int
}

type JoinSwap struct {
	SwapId            string
	UserId            string
	ContributionCents int64
}

type BoostSwap struct {
	SwapId      string
	OrganizerId string
	CostPoints  int64
	Now         time.Time
}

type SwapDatabase interface {
	CreateSwap(ctx context.Context, swap *model.Swap, organizerContributionCents int64) error
	GetSwap(ctx context.Context, id string) (*model.Swap, error)
	GetSwapParticipants(ctx context.Context, swapId string) ([]*model.SwapParticipant, error)
	GetSwaps(ctx context.Context, query *SwapListQuery) ([]*model.Swap, error)
	JoinSwap(ctx context.Context, req *JoinSwap) (*model.Swap, error)
	LeaveSwap(ctx context.Context, swapId string, userId string) error
	TransitionSwap(ctx context.Context, id string, from []model.SwapStatus, to model.SwapStatus) error
	MarkParticipantPaid(ctx context.Context, swapId string, userId string) (*model.Swap, error)
	BoostSwap(ctx context.Context, req *BoostSwap) (*model.Swap, error)
	CancelStaleSwaps(ctx context.Context, now time.Time) (int64, error)
	CreateClaim(ctx context.Context, claim *model.ProtectionClaim) error
	GetClaim(ctx context.Context, id string) (*model.ProtectionClaim, error)
	GetClaimsForSwap(ctx context.Context, swapId string) ([]*model.ProtectionClaim, error)
	ResolveClaim(ctx context.Context, id string, status model.ClaimStatus, resolvedAt time.Time) error
}
