package model

import (
	"database/sql"
	"time"
)

type Group struct {
	Id          string         `db:"id" json:"id"`
	Name        string         `db:"name" json:"name"`
	Description string         `db:"description" json:"description"`
	ParentId    sql.NullString `db:"parent_id" json:"-"`
	CreatedAt   time.Time      `db:"created_at,omitempty" json:"createdAt"`
}

// ParentIdOrRoot returns the empty string for top level groups
func (g *Group) ParentIdOrRoot() string {
	if !g.ParentId.Valid {
		return ""
	}
	return g.ParentId.String
}

type GroupWithMembership struct {
	*Group   `db:",inline"`
	IsMember bool `db:"is_member" json:"isMember"`
}

type GroupPosInTree struct {
	Children []*Group `json:"children"`
	Path     []*Group `json:"path"`
}

type Membership struct {
	UserId    string    `db:"user_id" json:"userId"`
	GroupId   string    `db:"group_id" json:"groupId"`
	CreatedAt time.Time `db:"created_at,omitempty" json:"createdAt"`
}
