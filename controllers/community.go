package controllers

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/billix/billix-be/db"
	"github.com/billix/billix-be/logging"
	"github.com/billix/billix-be/model"
	"github.com/billix/billix-be/util"
	"github.com/sirupsen/logrus"
)

const MaxGroupNameLen = 64

type groupTree struct {
	adjList         map[string][]*model.Group
	parentAdjList   map[string]*model.Group
	byId            map[string]*model.Group
	mostRecentGroup *time.Time
	createdAt       time.Time
}

func (gt *groupTree) isNewer(tree *groupTree) bool {
	if gt.mostRecentGroup == nil {
		return false
	}
	if tree.mostRecentGroup == nil {
		return true
	}
	return !gt.mostRecentGroup.Before(*tree.mostRecentGroup)
}

// GroupController serves the group forest from an in-memory copy that is
// rebuilt by RefreshTree
type GroupController struct {
	db             db.GroupDatabase
	cachedTree     *groupTree
	cachedTreeLock sync.RWMutex
	log            *logrus.Entry
}

func NewGroupController(c context.Context, db db.GroupDatabase) (*GroupController, error) {
	controller := &GroupController{
		db:  db,
		log: logging.Component("group-tree"),
	}
	if err := controller.RefreshTree(c); err != nil {
		return nil, err
	}
	return controller, nil
}

func (gc *GroupController) CreateGroup(c context.Context, req *db.CreateGroup) (string, *util.HTTPError) {
	req.Name = util.SanitizeText(req.Name)
	req.Description = util.SanitizeText(req.Description)
	if len(req.Name) == 0 || len(req.Name) > MaxGroupNameLen {
		return "", &util.HTTPError{
			Status:  http.StatusBadRequest,
			Message: "group name must be between 1 and 64 characters",
		}
	}
	if req.ParentId != "" && !gc.GroupsExist([]string{req.ParentId}) {
		return "", &util.HTTPError{
			Status:  http.StatusBadRequest,
			Message: "parent group does not exist",
		}
	}

	id, err := gc.db.CreateGroup(c, req)
	if err != nil {
		if db.IsDupKeyErr(err) {
			return "", &util.HTTPError{
				Status:  http.StatusConflict,
				Message: "a group with that name already exists",
			}
		}
		return "", util.BuildDbHTTPErr(err)
	}
	gc.attemptToRefreshTree(c)

	return id, nil
}

func (gc *GroupController) GetGroups(c context.Context, opts *db.GetGroupsQueryOpts) ([]*model.GroupWithMembership, *util.HTTPError) {
	groups, err := gc.db.GetGroupsByIds(c, nil, opts)
	if err != nil {
		return nil, util.BuildDbHTTPErr(err)
	}
	return groups, nil
}

func (gc *GroupController) GetGroupById(c context.Context, id string, opts *db.GetGroupsQueryOpts) (*model.GroupWithMembership, *util.HTTPError) {
	groups, err := gc.db.GetGroupsByIds(c, []string{id}, opts)
	if err != nil {
		return nil, util.BuildDbHTTPErr(err)
	}
	if len(groups) == 0 {
		return nil, &util.HTTPError{
			Status:  http.StatusNotFound,
			Message: "group not found",
		}
	}
	return groups[0], nil
}

func (gc *GroupController) GetGroupPos(id string) (*model.GroupPosInTree, *util.HTTPError) {
	gc.cachedTreeLock.RLock()
	defer gc.cachedTreeLock.RUnlock()
	tree := gc.cachedTree

	if _, ok := tree.byId[id]; !ok {
		return nil, &util.HTTPError{
			Status:  http.StatusNotFound,
			Message: "group not found",
		}
	}

	children := []*model.Group{}
	if tree.adjList[id] != nil {
		children = tree.adjList[id]
	}

	parents := []*model.Group{} // DON'T return nil slice
	for parent := tree.parentAdjList[id]; parent != nil; parent = tree.parentAdjList[parent.Id] {
		parents = append(parents, parent)
	}

	return &model.GroupPosInTree{
		Children: children,
		Path:     parents,
	}, nil
}

// GroupsExist checks ids against the cached tree
func (gc *GroupController) GroupsExist(ids []string) bool {
	gc.cachedTreeLock.RLock()
	defer gc.cachedTreeLock.RUnlock()
	for _, id := range ids {
		if _, ok := gc.cachedTree.byId[id]; !ok {
			return false
		}
	}
	return true
}

// SetMemberships joins (true) or leaves (false) each group. Joining a group
// twice is not an error.
func (gc *GroupController) SetMemberships(c context.Context, userId string, memberships map[string]bool) *util.HTTPError {
	ids := make([]string, 0, len(memberships))
	for id := range memberships {
		ids = append(ids, id)
	}
	if !gc.GroupsExist(ids) {
		return &util.HTTPError{
			Status:  http.StatusBadRequest,
			Message: "one or more groups do not exist",
		}
	}

	for groupId, isMember := range memberships {
		membership := &model.Membership{UserId: userId, GroupId: groupId}
		if isMember {
			if err := gc.db.CreateMembership(c, membership); err != nil && !db.IsDupKeyErr(err) {
				return util.BuildDbHTTPErr(err)
			}
			continue
		}
		if err := gc.db.DeleteMembership(c, membership); err != nil {
			return util.BuildDbHTTPErr(err)
		}
	}
	return nil
}

func (gc *GroupController) GetMemberships(c context.Context, userId string) ([]*model.Membership, *util.HTTPError) {
	memberships, err := gc.db.GetMembershipsForUser(c, userId)
	if err != nil {
		return nil, util.BuildDbHTTPErr(err)
	}
	if memberships == nil {
		memberships = []*model.Membership{}
	}
	return memberships, nil
}

func (gc *GroupController) attemptToRefreshTree(c context.Context) {
	if err := gc.RefreshTree(c); err != nil {
		gc.log.WithError(err).Error("an error occurred while updating the cached tree")
	}
}

func (gc *GroupController) RefreshTree(c context.Context) error {
	allGroups, err := gc.db.GetGroupsByIds(c, nil, &db.GetGroupsQueryOpts{})
	if err != nil {
		return err
	}
	newTree := buildTreeFromGroups(groupsWithMembershipToGroups(allGroups))

	// start of cachedTreeLock
	gc.cachedTreeLock.Lock()
	defer gc.cachedTreeLock.Unlock()
	if gc.cachedTree == nil || newTree.isNewer(gc.cachedTree) || len(newTree.byId) != len(gc.cachedTree.byId) {
		gc.cachedTree = newTree
	}
	// end of cachedTreeLock
	return nil
}

func groupsWithMembershipToGroups(groupsWithMembership []*model.GroupWithMembership) []*model.Group {
	groups := make([]*model.Group, len(groupsWithMembership))
	for i, group := range groupsWithMembership {
		groups[i] = group.Group
	}
	return groups
}

func buildTreeFromGroups(groups []*model.Group) *groupTree {
	var mostRecent *time.Time
	adjList := make(map[string][]*model.Group)
	byId := make(map[string]*model.Group)
	parentAdjList := make(map[string]*model.Group)
	for _, group := range groups {
		byId[group.Id] = group
		if mostRecent == nil || group.CreatedAt.After(*mostRecent) {
			createdAt := group.CreatedAt
			mostRecent = &createdAt
		}
		adjList[group.ParentIdOrRoot()] = append(adjList[group.ParentIdOrRoot()], group)
	}

	for _, group := range groups {
		parentAdjList[group.Id] = byId[group.ParentIdOrRoot()]
	}
	return &groupTree{
		createdAt:       time.Now(),
		adjList:         adjList,
		parentAdjList:   parentAdjList,
		byId:            byId,
		mostRecentGroup: mostRecent,
	}
}
