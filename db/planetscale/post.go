package planetscale

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	appDb "github.com/billix/billix-be/db"
	"github.com/billix/billix-be/db/dao"
	"github.com/billix/billix-be/model"
	"github.com/billix/billix-be/util"
	"github.com/upper/db/v4"
)

type PostDB struct {
	sess db.Session
}

func getPostDB(sess db.Session) *PostDB {
	return &PostDB{sess}
}

func (pdb *PostDB) CreatePost(ctx context.Context, post *appDb.CreatePost) (string, error) {
	postId := newId()
	imageBlobNames, err := marshalStringList(post.ImageBlobNames)
	if err != nil {
		return "", err
	}
	err = pdb.sess.TxContext(ctx, func(sess db.Session) error {
		if _, err := sess.SQL().
			InsertInto("post").
			Columns("id", "creator_id", "creator_alias", "visibility", "title", "content", "bill_category", "bill_amount_cents", "image_blob_names").
			Values(postId, post.CreatorId, post.CreatorAlias, post.Visibility, post.Title, post.Content, post.BillCategory, dao.NullableInt64(post.BillAmountCents), imageBlobNames).
			ExecContext(ctx); err != nil {
			return err
		}

		batchInserter := sess.SQL().
			InsertInto("post_group").
			Columns("post_id", "group_id").
			Batch(len(post.Groups))
		for _, groupId := range post.Groups {
			batchInserter.Values(postId, groupId)
		}
		batchInserter.Done()
		return batchInserter.Wait()
	}, nil)
	return postId, err
}

func (pdb *PostDB) MarkPostAsDeleted(ctx context.Context, id string) error {
	_, err := pdb.sess.SQL().ExecContext(ctx, db.Raw(`
UPDATE post
	SET status = 'DELETED', content = '', image_blob_names = JSON_ARRAY()
	WHERE id = ?
`, id))
	return err
}

func (pdb *PostDB) CreateComment(ctx context.Context, req *appDb.CreateComment) (string, error) {
	commentId := newId()
	err := pdb.sess.TxContext(ctx, func(sess db.Session) error {
		if _, err := sess.SQL().
			InsertInto("comment").
			Columns("id", "post_id", "parent_id", "creator_id", "creator_alias", "visibility", "content").
			Values(commentId, req.PostId, dao.NullableString(req.ParentId), req.CreatorId, req.CreatorAlias, req.Visibility, req.Content).
			ExecContext(ctx); err != nil {
			return err
		}
		_, err := sess.SQL().
			Update("post").
			Set("comment_count = comment_count + ?", 1).
			Where("id = ?", req.PostId).
			ExecContext(ctx)
		return err
	}, &sql.TxOptions{})
	return commentId, err
}

func (pdb *PostDB) MarkCommentAsDeleted(ctx context.Context, id string) error {
	_, err := pdb.sess.SQL().ExecContext(ctx, db.Raw(`
UPDATE comment
	SET status = 'DELETED', content = ''
	WHERE id = ?
`, id))
	return err
}

func (pdb *PostDB) CreateReport(ctx context.Context, report *model.Report) error {
	if report.Id == "" {
		report.Id = newId()
	}
	_, err := pdb.sess.SQL().
		InsertInto("report").
		Columns("id", "post_id", "reporter_id", "reason").
		Values(report.Id, report.PostId, report.ReporterId, report.Reason).
		ExecContext(ctx)
	return err
}

type flattenedContent struct {
	CreatorId          string           `db:"creator_id"`
	CreatorDisplayName string           `db:"display_name"`
	CreatorAvatar      string           `db:"avatar"`
	CreatorIsAdmin     bool             `db:"is_admin"`
	CreatorAlias       string           `db:"creator_alias"`
	Visibility         model.Visibility `db:"visibility"`
	Status             model.Status     `db:"status"`
	CreatedAt          time.Time        `db:"created_at"`
	UpdatedAt          time.Time        `db:"updated_at"`
}

type flattenedPost struct {
	flattenedContent `db:",inline"`
	Id               string         `db:"id"`
	Title            string         `db:"title"`
	Content          string         `db:"content"`
	BillCategory     string         `db:"bill_category"`
	BillAmountCents  sql.NullInt64  `db:"bill_amount_cents"`
	ImageBlobNames   string         `db:"image_blob_names"`
	ReactionTotal    int64          `db:"reaction_total"`
	CommentCount     int64          `db:"comment_count"`
	UserReaction     sql.NullString `db:"user_reaction"`
	GroupIdsStr      string         `db:"group_ids"`
	GroupNamesStr    string         `db:"group_names"`
}

var postColumns = []interface{}{
	"p.id",
	"p.creator_id",
	"person.display_name",
	"person.avatar",
	"person.is_admin",
	"p.creator_alias",
	"p.visibility",
	"p.status",
	"p.title",
	"p.content",
	"p.bill_category",
	"p.bill_amount_cents",
	"p.image_blob_names",
	"p.reaction_total",
	"p.comment_count",
	"p.created_at",
	"p.updated_at",
	db.Raw("ANY_VALUE(r.type) AS user_reaction"),
	db.Raw("JSON_ARRAYAGG(g.id) AS group_ids"),
	db.Raw("JSON_ARRAYAGG(g.name) AS group_names"),
}

func (pdb *PostDB) GetPostById(ctx context.Context, id string, opts *appDb.PostQueryOpts) (*model.Post, error) {
	reactionHistoryOf := ""
	if opts != nil {
		reactionHistoryOf = opts.ReactionHistoryOf
	}
	var post flattenedPost
	if err := pdb.sess.SQL().
		Select(postColumns...).
		From("post AS p").
		Join("person").On("p.creator_id = person.id").
		LeftJoin("post_group AS pg").On("p.id = pg.post_id").
		LeftJoin("community_group AS g").On("pg.group_id = g.id").
		LeftJoin("reaction AS r").On("r.post_id = p.id AND r.user_id = ?", reactionHistoryOf).
		Where("p.id = ?", id).
		GroupBy("p.id", "person.id").
		IteratorContext(ctx).
		One(&post); err != nil {
		if err == db.ErrNoMoreRows {
			return nil, nil
		}
		return nil, err
	}
	return buildPostFromFlattened(&post)
}

// GetPosts pages through posted content newest first, or by reaction total
// when query.ByReaction is set
func (pdb *PostDB) GetPosts(ctx context.Context, query *appDb.PostsListQuery) ([]*model.Post, error) {
	if query.GroupIds != nil && len(query.GroupIds) == 0 {
		return []*model.Post{}, nil
	}

	ids := pdb.sess.SQL().
		Select("p.id").
		From("post AS p").
		LeftJoin("post_group AS pg").On("p.id = pg.post_id").
		Where("p.status = ?", model.StatusPosted)
	if query.GroupIds != nil {
		ids = ids.And("pg.group_id IN ?", query.GroupIds)
	}
	if query.CreatorId != "" {
		ids = ids.And("p.creator_id = ?", query.CreatorId)
	}

	var order []interface{}
	if query.ByReaction != nil {
		if query.ByReaction.MaxReactionTotal != nil {
			max := *query.ByReaction.MaxReactionTotal
			ids = ids.And("(p.reaction_total < ? OR (p.reaction_total = ? AND p.id < ?))", max, max, query.ByReaction.LastId)
		}
		order = []interface{}{"p.reaction_total DESC", "p.id DESC"}
	} else {
		if query.Before != nil {
			ids = ids.And("(p.created_at < ? OR (p.created_at = ? AND p.id < ?))", query.Before.CreatedAt, query.Before.CreatedAt, query.Before.Id)
		}
		order = []interface{}{"p.created_at DESC", "p.id DESC"}
	}

	reactionHistoryOf := ""
	if query.PostQueryOpts != nil {
		reactionHistoryOf = query.ReactionHistoryOf
	}

	var flattenedPosts []flattenedPost
	if err := pdb.sess.SQL().
		Select(postColumns...).
		From(ids.GroupBy("p.id").OrderBy(order...).Limit(query.Limit)).
		As("p_ids").
		Join("post AS p").On("p_ids.id = p.id").
		Join("person").On("p.creator_id = person.id").
		LeftJoin("post_group AS pg").On("p.id = pg.post_id").
		LeftJoin("community_group AS g").On("pg.group_id = g.id").
		LeftJoin("reaction AS r").On("r.post_id = p.id AND r.user_id = ?", reactionHistoryOf).
		GroupBy("p.id", "person.id").
		OrderBy(order...).
		IteratorContext(ctx).
		All(&flattenedPosts); err != nil {
		return nil, err
	}
	posts := make([]*model.Post, len(flattenedPosts))
	for i, flattened := range flattenedPosts {
		post, err := buildPostFromFlattened(&flattened)
		if err != nil {
			return nil, err
		}
		posts[i] = post
	}
	return posts, nil
}

func buildPostFromFlattened(post *flattenedPost) (*model.Post, error) {
	var groupIds []*string
	if err := json.Unmarshal([]byte(post.GroupIdsStr), &groupIds); err != nil {
		return nil, err
	}

	var groupNames []*string
	if err := json.Unmarshal([]byte(post.GroupNamesStr), &groupNames); err != nil {
		return nil, err
	}

	// a post without groups aggregates to [null]
	groups := make([]*model.Group, 0, len(groupIds))
	for i, groupId := range groupIds {
		if groupId == nil || i >= len(groupNames) || groupNames[i] == nil {
			continue
		}
		groups = append(groups, &model.Group{
			Id:   *groupId,
			Name: *groupNames[i],
		})
	}

	imageBlobNames, err := unmarshalStringList(post.ImageBlobNames)
	if err != nil {
		return nil, err
	}

	metadata := buildContentMetadataFromFlattened(&post.flattenedContent)
	metadata.UserReaction = model.ReactionType(dao.StringOrEmpty(post.UserReaction))
	return &model.Post{
		ContentMetadata: metadata,
		Id:              post.Id,
		Title:           post.Title,
		Content:         post.Content,
		BillCategory:    post.BillCategory,
		BillAmountCents: dao.Int64Ptr(post.BillAmountCents),
		ImageBlobNames:  imageBlobNames,
		ReactionTotal:   post.ReactionTotal,
		CommentCount:    post.CommentCount,
		Groups:          groups,
	}, nil
}

type flattenedComment struct {
	flattenedContent `db:",inline"`
	Id               string         `db:"id"`
	PostId           string         `db:"post_id"`
	ParentId         sql.NullString `db:"parent_id"`
	Content          string         `db:"content"`
}

var commentColumns = []interface{}{
	"c.id",
	"c.post_id",
	"c.parent_id",
	"c.content",
	"c.creator_id",
	"person.display_name",
	"person.avatar",
	"person.is_admin",
	"c.creator_alias",
	"c.visibility",
	"c.status",
	"c.created_at",
	"c.updated_at",
}

func (pdb *PostDB) GetCommentById(ctx context.Context, id string) (*model.Comment, error) {
	var comment flattenedComment
	if err := pdb.sess.SQL().
		Select(commentColumns...).
		From("comment AS c").
		Join("person").On("c.creator_id = person.id").
		Where("c.id = ?", id).
		IteratorContext(ctx).
		One(&comment); err != nil {
		if err == db.ErrNoMoreRows {
			return nil, nil
		}
		return nil, err
	}
	return buildCommentFromFlattened(&comment), nil
}

func (pdb *PostDB) GetCommentForest(ctx context.Context, postId string) ([]*model.CommentTree, error) {
	var flattenedComments []flattenedComment
	if err := pdb.sess.SQL().
		Select(commentColumns...).
		From("comment AS c").
		Join("person").On("c.creator_id = person.id").
		Where("c.post_id = ?", postId).
		OrderBy("c.created_at", "c.id").
		IteratorContext(ctx).
		All(&flattenedComments); err != nil {
		return nil, err
	}

	comments := make([]*model.Comment, len(flattenedComments))
	for i, flattenedComment := range flattenedComments {
		comments[i] = buildCommentFromFlattened(&flattenedComment)
	}

	return buildCommentForest(comments), nil
}

func buildCommentFromFlattened(comment *flattenedComment) *model.Comment {
	return &model.Comment{
		ContentMetadata: buildContentMetadataFromFlattened(&comment.flattenedContent),
		Id:              comment.Id,
		PostId:          comment.PostId,
		ParentId:        dao.StringOrEmpty(comment.ParentId),
		Content:         comment.Content,
	}
}

func buildContentMetadataFromFlattened(content *flattenedContent) *model.ContentMetadata {
	avatar := content.CreatorAvatar
	if avatar == "" {
		avatar = util.Avatar(content.CreatorId)
	}
	return &model.ContentMetadata{
		Creator: &model.DisplayableUser{
			User: &model.User{
				Id:          content.CreatorId,
				DisplayName: content.CreatorDisplayName,
				IsAdmin:     content.CreatorIsAdmin,
				Avatar:      avatar,
			},
			AnonymousUser: &model.AnonymousUser{
				DisplayName: content.CreatorAlias,
				Avatar:      util.Avatar(content.CreatorAlias),
			},
		},
		Status:     content.Status,
		Visibility: content.Visibility,
		CreatedAt:  content.CreatedAt,
		UpdatedAt:  content.UpdatedAt,
	}
}

// buildCommentForest nests comments under their parents. Top level comments
// have an empty parent id.
func buildCommentForest(comments []*model.Comment) []*model.CommentTree {
	adj := make(map[string][]*model.Comment)
	for _, comment := range comments {
		adj[comment.ParentId] = append(adj[comment.ParentId], comment)
	}
	return buildCommentForestFromAdjList(adj, "")
}

func buildCommentForestFromAdjList(adj map[string][]*model.Comment, rootId string) []*model.CommentTree {
	comments, ok := adj[rootId]
	if !ok {
		return []*model.CommentTree{}
	}
	forest := make([]*model.CommentTree, len(comments))
	for i, comment := range comments {
		forest[i] = &model.CommentTree{
			Comment:  comment,
			Children: buildCommentForestFromAdjList(adj, comment.Id),
		}
	}
	return forest
}
