package model

import "time"

type ReliefStatus string

const (
	ReliefOpen      ReliefStatus = "OPEN"
	ReliefMatched   ReliefStatus = "MATCHED"
	ReliefAccepted  ReliefStatus = "ACCEPTED"
	ReliefFulfilled ReliefStatus = "FULFILLED"
	ReliefCancelled ReliefStatus = "CANCELLED"
	ReliefExpired   ReliefStatus = "EXPIRED"
)

type Urgency string

const (
	UrgencyLow    Urgency = "LOW"
	UrgencyMedium Urgency = "MEDIUM"
	UrgencyHigh   Urgency = "HIGH"
)

func (u Urgency) IsValid() bool {
	return u == UrgencyLow || u == UrgencyMedium || u == UrgencyHigh
}

type ReliefRequest struct {
	Id                 string       `json:"id"`
	RequesterId        string       `json:"requesterId"`
	HelperId           string       `json:"helperId,omitempty"`
	BillCategory       string       `json:"billCategory"`
	AmountCents        int64        `json:"amountCents"`
	Description        string       `json:"description"`
	Urgency            Urgency      `json:"urgency"`
	Status             ReliefStatus `json:"status"`
	DocumentBlobNames  []string     `json:"documentBlobNames"`
	ConnectionFeeCents int64        `json:"connectionFeeCents"`
	CreatedAt          time.Time    `json:"createdAt"`
	UpdatedAt          time.Time    `json:"updatedAt"`
	ExpiresAt          time.Time    `json:"expiresAt"`
}

func (rr *ReliefRequest) IsParty(userId string) bool {
	return userId != "" && (rr.RequesterId == userId || rr.HelperId == userId)
}

type ReliefDonation struct {
	Id              string    `db:"id" json:"id"`
	ReliefRequestId string    `db:"relief_request_id" json:"reliefRequestId"`
	DonorId         string    `db:"donor_id" json:"donorId"`
	Dollars         int64     `db:"dollars" json:"dollars"`
	PointsSpent     int64     `db:"points_spent" json:"pointsSpent"`
	CreatedAt       time.Time `db:"created_at" json:"createdAt"`
}
