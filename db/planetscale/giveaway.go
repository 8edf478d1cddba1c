package planetscale

import (
	"context"
	"database/sql"
	"time"

	appDb "github.com/billix/billix-be/db"
	"github.com/billix/billix-be/model"
	"github.com/upper/db/v4"
)

func (rdb *RewardsDB) SumEarnedPoints(ctx context.Context, userId string, from time.Time, to time.Time) (int64, error) {
	row, err := rdb.sess.SQL().QueryRowContext(ctx, `SELECT COALESCE(SUM(points), 0) FROM reward_transaction
															WHERE user_id = ? AND kind = ? AND created_at >= ? AND created_at < ?`,
		userId, model.TransactionEarn, from, to)
	if err != nil {
		return 0, err
	}
	var total int64
	if err := row.Scan(&total); err != nil {
		return 0, err
	}
	return total, nil
}

func (rdb *RewardsDB) EnterGiveaway(ctx context.Context, entry *model.GiveawayEntry, costPoints int64) (*model.RewardAccount, error) {
	var account *model.RewardAccount
	err := rdb.sess.TxContext(ctx, func(sess db.Session) error {
		if _, err := sess.SQL().
			InsertInto("giveaway_entry").
			Columns("user_id", "week").
			Values(entry.UserId, entry.Week).
			ExecContext(ctx); err != nil {
			return err
		}
		var err error
		account, err = spendPoints(ctx, sess, &appDb.PointsChange{
			UserId:      entry.UserId,
			Points:      costPoints,
			Source:      model.SourceGiveaway,
			ReferenceId: entry.Week,
		})
		return err
	}, &sql.TxOptions{Isolation: sql.LevelReadCommitted})
	return account, err
}

func (rdb *RewardsDB) GetGiveawayEntryCount(ctx context.Context, week string) (int64, error) {
	return countGiveawayEntries(ctx, rdb.sess, week)
}

func (rdb *RewardsDB) HasGiveawayEntry(ctx context.Context, week string, userId string) (bool, error) {
	row, err := rdb.sess.SQL().QueryRowContext(ctx, "SELECT COUNT(*) FROM giveaway_entry WHERE week = ? AND user_id = ?", week, userId)
	if err != nil {
		return false, err
	}
	var count int
	if err := row.Scan(&count); err != nil {
		return false, err
	}
	return count > 0, nil
}

func (rdb *RewardsDB) GetGiveawayDraw(ctx context.Context, week string) (*model.GiveawayDraw, error) {
	var draw model.GiveawayDraw
	if err := rdb.sess.SQL().
		SelectFrom("giveaway_draw").
		Where("week = ?", week).
		IteratorContext(ctx).
		One(&draw); err != nil {
		if err == db.ErrNoMoreRows {
			return nil, nil
		}
		return nil, err
	}
	return &draw, nil
}

// DrawGiveaway picks the winner and credits the prize in one transaction. The
// draw row is keyed by week so a second draw fails with a duplicate key error.
func (rdb *RewardsDB) DrawGiveaway(ctx context.Context, req *appDb.DrawGiveaway) (*model.GiveawayDraw, error) {
	var draw *model.GiveawayDraw
	err := rdb.sess.TxContext(ctx, func(sess db.Session) error {
		entries, err := countGiveawayEntries(ctx, sess, req.Week)
		if err != nil || entries == 0 {
			return err
		}

		row, err := sess.SQL().QueryRowContext(ctx, `SELECT user_id FROM giveaway_entry WHERE week = ?
															ORDER BY user_id LIMIT 1 OFFSET ?`,
			req.Week, req.Pick(entries))
		if err != nil {
			return err
		}
		var winnerId string
		if err := row.Scan(&winnerId); err != nil {
			return err
		}

		if _, err := sess.SQL().
			InsertInto("giveaway_draw").
			Columns("week", "winner_id", "entries", "prize_points", "drawn_at").
			Values(req.Week, winnerId, entries, req.PrizePoints, req.DrawnAt).
			ExecContext(ctx); err != nil {
			return err
		}
		if _, err := earnPoints(ctx, sess, &appDb.PointsChange{
			UserId:      winnerId,
			Points:      req.PrizePoints,
			Source:      model.SourceGiveawayPrize,
			ReferenceId: req.Week,
		}); err != nil {
			return err
		}
		draw = &model.GiveawayDraw{
			Week:        req.Week,
			WinnerId:    winnerId,
			Entries:     entries,
			PrizePoints: req.PrizePoints,
			DrawnAt:     req.DrawnAt,
		}
		return nil
	}, nil)
	return draw, err
}

func countGiveawayEntries(ctx context.Context, sess db.Session, week string) (int64, error) {
	row, err := sess.SQL().QueryRowContext(ctx, "SELECT COUNT(*) FROM giveaway_entry WHERE week = ?", week)
	if err != nil {
		return 0, err
	}
	var count int64
	if err := row.Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}
