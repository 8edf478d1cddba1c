package model

import "time"

type SwapStatus string

const (
	SwapRecruiting SwapStatus = "RECRUITING"
	SwapFilled     SwapStatus = "FILLED"
	SwapInProgress SwapStatus = "IN_PROGRESS"
	SwapCompleted  SwapStatus = "COMPLETED"
	SwapCancelled  SwapStatus = "CANCELLED"
)

type Swap struct {
	Id                string     `json:"id"`
	OrganizerId       string     `json:"organizerId"`
	BillCategory      string     `json:"billCategory"`
	Title             string     `json:"title"`
	TargetAmountCents int64      `json:"targetAmountCents"`
	MaxParticipants   int        `json:"maxParticipants"`
	Status            SwapStatus `json:"status"`
	BoostedUntil      *time.Time `json:"boostedUntil,omitempty"`
	Deadline          time.Time  `json:"deadline"`
	CreatedAt         time.Time  `json:"createdAt"`
	UpdatedAt         time.Time  `json:"updatedAt"`
}

func (s *Swap) IsBoosted(now time.Time) bool {
	return s.BoostedUntil != nil && s.BoostedUntil.After(now)
}

type SwapParticipant struct {
	SwapId            string    `db:"swap_id" json:"swapId"`
	UserId            string    `db:"user_id" json:"userId"`
	ContributionCents int64     `db:"contribution_cents" json:"contributionCents"`
	Paid              bool      `db:"paid" json:"paid"`
	JoinedAt          time.Time `db:"joined_at" json:"joinedAt"`
}

type SwapWithParticipants struct {
	*Swap
	Participants        []*SwapParticipant `json:"participants"`
	RemainingCents      int64              `json:"remainingCents"`
	ContributionOptions []int64            `json:"contributionOptions"`
}

type ClaimStatus string

const (
	ClaimSubmitted ClaimStatus = "SUBMITTED"
	ClaimApproved  ClaimStatus = "APPROVED"
	ClaimDenied    ClaimStatus = "DENIED"
)

type ProtectionClaim struct {
	Id          string      `json:"id"`
	SwapId      string      `json:"swapId"`
	ClaimantId  string      `json:"claimantId"`
	Reason      string      `json:"reason"`
	AmountCents int64       `json:"amountCents"`
	Status      ClaimStatus `json:"status"`
	CreatedAt   time.Time   `json:"createdAt"`
	ResolvedAt  *time.Time  `json:"resolvedAt,omitempty"`
}
