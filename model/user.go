package model

import "time"

// User holds the local profile data relevant to the application (outside of the identity provider)
type User struct {
	Id          string    `db:"id" json:"id"`
	DisplayName string    `db:"display_name" json:"displayName"`
	IsAdmin     bool      `db:"is_admin" json:"isAdmin"`
	Avatar      string    `db:"avatar" json:"avatar"`
	CreatedAt   time.Time `db:"created_at,omitempty" json:"createdAt"`
}

// MakeDisplayableFor returns a copy of the user that is safe to show to viewer
func (u *User) MakeDisplayableFor(viewer *User) *User {
	if u == nil {
		return nil
	}
	displayable := *u
	if viewer == nil || (viewer.Id != u.Id && !viewer.IsAdmin) {
		displayable.IsAdmin = false
	}
	return &displayable
}

type AnonymousUser struct {
	DisplayName string `json:"displayName"`
	Avatar      string `json:"avatar"`
}

type DisplayableUser struct {
	*AnonymousUser `json:"anonymousUser,omitempty"`
	*User          `json:"user,omitempty"`
}
