package planetscale

import (
	"context"
	"database/sql"
	"time"

	appDb "github.com/billix/billix-be/db"
	"github.com/billix/billix-be/db/dao"
	"github.com/billix/billix-be/model"
	"github.com/upper/db/v4"
)

type GroupDB struct {
	sess db.Session
}

func getGroupDB(sess db.Session) *GroupDB {
	return &GroupDB{sess}
}

func (gdb *GroupDB) CreateGroup(ctx context.Context, req *appDb.CreateGroup) (string, error) {
	id := newId()
	_, err := gdb.sess.SQL().
		InsertInto("community_group").
		Columns("id", "name", "description", "parent_id").
		Values(id, req.Name, req.Description, dao.NullableString(req.ParentId)).
		ExecContext(ctx)
	if err != nil {
		return "", err
	}
	return id, nil
}

type flattenedGroup struct {
	Id          string         `db:"id"`
	Name        string         `db:"name"`
	Description string         `db:"description"`
	ParentId    sql.NullString `db:"parent_id"`
	CreatedAt   time.Time      `db:"created_at"`
	IsMember    bool           `db:"is_member"`
}

// GetGroupsByIds gets groups. nil ids gets all groups
func (gdb *GroupDB) GetGroupsByIds(ctx context.Context, ids []string, opts *appDb.GetGroupsQueryOpts) ([]*model.GroupWithMembership, error) {
	if ids != nil && len(ids) == 0 {
		return []*model.GroupWithMembership{}, nil
	}
	forUserId := ""
	if opts != nil {
		forUserId = opts.ForUserId
	}
	query := gdb.sess.SQL().
		Select("g.id", "g.name", "g.description", "g.parent_id", "g.created_at", db.Raw("m.user_id IS NOT NULL AS is_member")).
		From("community_group AS g").
		LeftJoin("membership AS m").On("g.id = m.group_id AND m.user_id = ?", forUserId)
	if ids != nil {
		query = query.Where("g.id IN ?", ids)
	}

	var flattenedGroups []flattenedGroup
	if err := query.
		OrderBy("g.name").
		IteratorContext(ctx).
		All(&flattenedGroups); err != nil {
		return nil, err
	}

	groups := make([]*model.GroupWithMembership, len(flattenedGroups))
	for i, flattened := range flattenedGroups {
		groups[i] = &model.GroupWithMembership{
			Group: &model.Group{
				Id:          flattened.Id,
				Name:        flattened.Name,
				Description: flattened.Description,
				ParentId:    flattened.ParentId,
				CreatedAt:   flattened.CreatedAt,
			},
			IsMember: flattened.IsMember,
		}
	}
	return groups, nil
}

func (gdb *GroupDB) CreateMembership(ctx context.Context, membership *model.Membership) error {
	_, err := gdb.sess.WithContext(ctx).
		Collection("membership").
		Insert(membership)
	return err
}

func (gdb *GroupDB) DeleteMembership(ctx context.Context, membership *model.Membership) error {
	return gdb.sess.WithContext(ctx).
		Collection("membership").
		Find("user_id = ? AND group_id = ?", membership.UserId, membership.GroupId).
		Delete()
}

func (gdb *GroupDB) GetMembershipsForUser(ctx context.Context, userId string) ([]*model.Membership, error) {
	var memberships []*model.Membership
	err := gdb.sess.WithContext(ctx).
		Collection("membership").
		Find("user_id = ?", userId).
		All(&memberships)
	return memberships, err
}
