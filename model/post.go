package model

import (
	"time"
)

type Visibility string

const (
	VisibilityNormal Visibility = "NORMAL"
	VisibilityHidden Visibility = "HIDDEN"
)

func (v Visibility) IsValid() bool {
	return v == VisibilityNormal || v == VisibilityHidden
}

type Status string

const (
	StatusPosted  Status = "POSTED"
	StatusDeleted Status = "DELETED"
)

type ReactionType string

const (
	ReactionNone       ReactionType = ""
	ReactionLike       ReactionType = "LIKE"
	ReactionHelpful    ReactionType = "HELPFUL"
	ReactionRelatable  ReactionType = "RELATABLE"
	ReactionSavedMoney ReactionType = "SAVED_MONEY"
)

var ReactionTypes = []ReactionType{ReactionLike, ReactionHelpful, ReactionRelatable, ReactionSavedMoney}

func (rt ReactionType) IsValid() bool {
	for _, t := range ReactionTypes {
		if rt == t {
			return true
		}
	}
	return false
}

type ContentMetadata struct {
	Creator      *DisplayableUser `json:"creator"`
	UserReaction ReactionType     `json:"userReaction,omitempty"`
	Status       Status           `json:"status"`
	Visibility   Visibility       `json:"visibility"`
	CreatedAt    time.Time        `json:"createdAt"`
	UpdatedAt    time.Time        `json:"updatedAt"`
}

func (cm *ContentMetadata) IsCreator(user *User) bool {
	return user != nil && cm.Creator != nil && cm.Creator.User != nil && cm.Creator.User.Id == user.Id
}

func (cm *ContentMetadata) MakeDisplayableFor(user *User) *ContentMetadata {
	if user != nil && (user.IsAdmin || cm.IsCreator(user)) {
		return cm
	}

	switch cm.Visibility {
	case VisibilityHidden:
		cm.Creator = &DisplayableUser{AnonymousUser: cm.Creator.AnonymousUser}
	case VisibilityNormal:
		cm.Creator = &DisplayableUser{User: cm.Creator.User.MakeDisplayableFor(user)}
	}

	return cm
}

func (cm *ContentMetadata) CanDelete(user *User) bool {
	return user != nil && (user.IsAdmin || cm.IsCreator(user))
}

type Post struct {
	*ContentMetadata
	Id              string   `json:"id"`
	Title           string   `json:"title"`
	Content         string   `json:"content"`
	BillCategory    string   `json:"billCategory,omitempty"`
	BillAmountCents *int64   `json:"billAmountCents,omitempty"`
	ImageBlobNames  []string `json:"imageBlobNames"`
	ReactionTotal   int64    `json:"reactionTotal"`
	CommentCount    int64    `json:"commentCount"`
	Groups          []*Group `json:"groups"`
}

// MakeDisplayableFor mutates the object
func (p *Post) MakeDisplayableFor(user *User) *Post {
	p.ContentMetadata = p.ContentMetadata.MakeDisplayableFor(user)
	return p
}

type Comment struct {
	*ContentMetadata
	Id       string `json:"id"`
	PostId   string `json:"postId"`
	ParentId string `json:"-"`
	Content  string `json:"content"`
}

type CommentTree struct {
	*Comment
	Children []*CommentTree `json:"children"`
}

// MakeDisplayableFor mutates the object
func (ct *CommentTree) MakeDisplayableFor(user *User) *CommentTree {
	ct.ContentMetadata = ct.ContentMetadata.MakeDisplayableFor(user)
	for i, child := range ct.Children {
		ct.Children[i] = child.MakeDisplayableFor(user)
	}
	return ct
}

type Reaction struct {
	PostId    string       `db:"post_id" json:"postId"`
	UserId    string       `db:"user_id" json:"userId"`
	Type      ReactionType `db:"type" json:"type"`
	CreatedAt time.Time    `db:"created_at" json:"createdAt"`
}

// ReactionCounts is the aggregated view of every reaction on a post
type ReactionCounts struct {
	PostId       string                 `json:"postId"`
	Counts       map[ReactionType]int64 `json:"counts"`
	Total        int64                  `json:"total"`
	UserReaction ReactionType           `json:"userReaction,omitempty"`
}

type Report struct {
	Id         string    `db:"id" json:"id"`
	PostId     string    `db:"post_id" json:"postId"`
	ReporterId string    `db:"reporter_id" json:"reporterId"`
	Reason     string    `db:"reason" json:"reason"`
	CreatedAt  time.Time `db:"created_at" json:"createdAt"`
}
