package model

import "time"

type Tier string

const (
	TierBronze   Tier = "BRONZE"
	TierSilver   Tier = "SILVER"
	TierGold     Tier = "GOLD"
	TierPlatinum Tier = "PLATINUM"
)

type TransactionKind string

const (
	TransactionEarn  TransactionKind = "EARN"
	TransactionSpend TransactionKind = "SPEND"
)

type TransactionSource string

const (
	SourceQuiz          TransactionSource = "QUIZ"
	SourcePost          TransactionSource = "POST"
	SourceDailyCheckIn  TransactionSource = "DAILY_CHECK_IN"
	SourceRedemption    TransactionSource = "REDEMPTION"
	SourceDonation      TransactionSource = "DONATION"
	SourceBoost         TransactionSource = "BOOST"
	SourceConnectionFee TransactionSource = "CONNECTION_FEE"
	SourceRefund        TransactionSource = "REFUND"
	SourceGiveaway      TransactionSource = "GIVEAWAY"
	SourceGiveawayPrize TransactionSource = "GIVEAWAY_PRIZE"
)

type RewardTransaction struct {
	Id          string            `db:"id" json:"id"`
	UserId      string            `db:"user_id" json:"userId"`
	Kind        TransactionKind   `db:"kind" json:"kind"`
	Source      TransactionSource `db:"source" json:"source"`
	Points      int64             `db:"points" json:"points"`
	ReferenceId string            `db:"reference_id" json:"referenceId,omitempty"`
	CreatedAt   time.Time         `db:"created_at" json:"createdAt"`
}

// RewardAccount is the persisted running balance for a user
type RewardAccount struct {
	UserId         string    `db:"user_id" json:"userId"`
	Points         int64     `db:"points" json:"points"`
	LifetimePoints int64     `db:"lifetime_points" json:"lifetimePoints"`
	UpdatedAt      time.Time `db:"updated_at" json:"updatedAt"`
}

type Balance struct {
	*RewardAccount
	Tier             Tier    `json:"tier"`
	TierProgress     float64 `json:"tierProgress"`
	NextTier         Tier    `json:"nextTier,omitempty"`
	PointsToNextTier int64   `json:"pointsToNextTier"`
}

type Season struct {
	Id       string    `json:"id"`
	Name     string    `json:"name"`
	StartsAt time.Time `json:"startsAt"`
	EndsAt   time.Time `json:"endsAt"`
}

// SeasonProgress counts only points earned within the season
type SeasonProgress struct {
	*Season
	Points            int64   `json:"points"`
	Level             int     `json:"level"`
	MaxLevel          int     `json:"maxLevel"`
	LevelProgress     float64 `json:"levelProgress"`
	PointsToNextLevel int64   `json:"pointsToNextLevel"`
}

type GiveawayEntry struct {
	UserId    string    `db:"user_id" json:"userId"`
	Week      string    `db:"week" json:"week"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
}

type GiveawayDraw struct {
	Week        string    `db:"week" json:"week"`
	WinnerId    string    `db:"winner_id" json:"winnerId"`
	Entries     int64     `db:"entries" json:"entries"`
	PrizePoints int64     `db:"prize_points" json:"prizePoints"`
	DrawnAt     time.Time `db:"drawn_at" json:"drawnAt"`
}

type Giveaway struct {
	Week            string        `json:"week"`
	EndsAt          time.Time     `json:"endsAt"`
	EntryCostPoints int64         `json:"entryCostPoints"`
	PrizePoints     int64         `json:"prizePoints"`
	Entries         int64         `json:"entries"`
	Entered         bool          `json:"entered"`
	LastDraw        *GiveawayDraw `json:"lastDraw,omitempty"`
}

type CatalogItemKind string

const (
	CatalogGiftCard    CatalogItemKind = "GIFT_CARD"
	CatalogVirtualGood CatalogItemKind = "VIRTUAL_GOOD"
)

type CatalogItem struct {
	Id               string          `yaml:"id" json:"id"`
	Name             string          `yaml:"name" json:"name"`
	Kind             CatalogItemKind `yaml:"kind" json:"kind"`
	PointsCost       int64           `yaml:"pointsCost" json:"pointsCost"`
	DollarValueCents int64           `yaml:"dollarValueCents" json:"dollarValueCents"`
}
