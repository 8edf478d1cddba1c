package planetscale

import (
	"context"
	"database/sql"
	"errors"

	appDb "github.com/billix/billix-be/db"
	"github.com/billix/billix-be/model"
	"github.com/upper/db/v4"
)

// React retries once when a concurrent first reaction from the same user won
// the insert. FOR UPDATE cannot lock a row that does not exist yet.
func (pdb *PostDB) React(ctx context.Context, postId string, userId string, reaction model.ReactionType) error {
	err := pdb.react(ctx, postId, userId, reaction)
	if appDb.IsDupKeyErr(err) {
		return pdb.react(ctx, postId, userId, reaction)
	}
	return err
}

func (pdb *PostDB) react(ctx context.Context, postId string, userId string, reaction model.ReactionType) error {
	return pdb.sess.TxContext(ctx, func(sess db.Session) error {
		row, err := sess.SQL().QueryRowContext(ctx, `SELECT type FROM reaction
																WHERE post_id = ? AND user_id = ?
															FOR UPDATE`,
			postId, userId)
		if err != nil {
			return err
		}
		var previous model.ReactionType
		if err := row.Scan(&previous); err != nil && !errors.Is(err, sql.ErrNoRows) {
			return err
		}

		if previous == reaction {
			return nil
		}

		var totalChange int
		switch {
		case reaction == model.ReactionNone:
			if _, err := sess.SQL().
				DeleteFrom("reaction").
				Where("post_id = ? AND user_id = ?", postId, userId).
				ExecContext(ctx); err != nil {
				return err
			}
			totalChange = -1
		case previous == model.ReactionNone:
			if _, err := sess.SQL().
				InsertInto("reaction").
				Columns("post_id", "user_id", "type").
				Values(postId, userId, reaction).
				ExecContext(ctx); err != nil {
				return err
			}
			totalChange = 1
		default:
			// switching type keeps the total
			_, err := sess.SQL().
				Update("reaction").
				Set("type", reaction).
				Where("post_id = ? AND user_id = ?", postId, userId).
				ExecContext(ctx)
			return err
		}

		_, err = sess.SQL().
			Update("post").
			Set("reaction_total = reaction_total + ?", totalChange).
			Where("id = ?", postId).
			ExecContext(ctx)
		return err
	}, &sql.TxOptions{Isolation: sql.LevelReadCommitted})
}

type reactionCount struct {
	Type  model.ReactionType `db:"type"`
	Count int64              `db:"count"`
}

func (pdb *PostDB) GetReactionCounts(ctx context.Context, postId string) (map[model.ReactionType]int64, error) {
	var rows []reactionCount
	if err := pdb.sess.SQL().
		Select("type", db.Raw("COUNT(*) AS count")).
		From("reaction").
		Where("post_id = ?", postId).
		GroupBy("type").
		IteratorContext(ctx).
		All(&rows); err != nil {
		return nil, err
	}
	counts := make(map[model.ReactionType]int64, len(model.ReactionTypes))
	for _, reactionType := range model.ReactionTypes {
		counts[reactionType] = 0
	}
	for _, row := range rows {
		counts[row.Type] = row.Count
	}
	return counts, nil
}

func (pdb *PostDB) GetUserReaction(ctx context.Context, postId string, userId string) (model.ReactionType, error) {
	row, err := pdb.sess.SQL().QueryRowContext(ctx, `SELECT type FROM reaction WHERE post_id = ? AND user_id = ?`, postId, userId)
	if err != nil {
		return model.ReactionNone, err
	}
	var reaction model.ReactionType
	if err := row.Scan(&reaction); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.ReactionNone, nil
		}
		return model.ReactionNone, err
	}
	return reaction, nil
}
