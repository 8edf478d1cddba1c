package planetscale

import (
	"context"
	"database/sql"

	"github.com/billix/billix-be/app/rewards"
	appDb "github.com/billix/billix-be/db"
	"github.com/billix/billix-be/model"
	"github.com/upper/db/v4"
)

type RewardsDB struct {
	sess db.Session
}

func getRewardsDB(sess db.Session) *RewardsDB {
	return &RewardsDB{sess}
}

func (rdb *RewardsDB) GetRewardAccount(ctx context.Context, userId string) (*model.RewardAccount, error) {
	return readRewardAccount(ctx, rdb.sess, userId, false)
}

func (rdb *RewardsDB) EarnPoints(ctx context.Context, change *appDb.PointsChange) (*model.RewardAccount, error) {
	var account *model.RewardAccount
	err := rdb.sess.TxContext(ctx, func(sess db.Session) error {
		var err error
		account, err = earnPoints(ctx, sess, change)
		return err
	}, nil)
	return account, err
}

func (rdb *RewardsDB) SpendPoints(ctx context.Context, change *appDb.PointsChange) (*model.RewardAccount, error) {
	var account *model.RewardAccount
	err := rdb.sess.TxContext(ctx, func(sess db.Session) error {
		var err error
		account, err = spendPoints(ctx, sess, change)
		return err
	}, &sql.TxOptions{Isolation: sql.LevelReadCommitted})
	return account, err
}

func (rdb *RewardsDB) GetTransactions(ctx context.Context, query *appDb.TransactionsListQuery) ([]*model.RewardTransaction, error) {
	selector := rdb.sess.SQL().
		Select("*").
		From("reward_transaction").
		Where("user_id = ?", query.UserId)
	if query.Before != nil {
		selector = selector.And("(created_at < ? OR (created_at = ? AND id < ?))", query.Before.CreatedAt, query.Before.CreatedAt, query.Before.Id)
	}
	var transactions []*model.RewardTransaction
	if err := selector.
		OrderBy("created_at DESC", "id DESC").
		Limit(query.Limit).
		IteratorContext(ctx).
		All(&transactions); err != nil {
		return nil, err
	}
	if transactions == nil {
		transactions = []*model.RewardTransaction{}
	}
	return transactions, nil
}

func (rdb *RewardsDB) HasTransaction(ctx context.Context, userId string, source model.TransactionSource, referenceId string) (bool, error) {
	row, err := rdb.sess.SQL().QueryRowContext(ctx, `SELECT COUNT(*) FROM reward_transaction
															WHERE user_id = ? AND source = ? AND reference_id = ?`,
		userId, source, referenceId)
	if err != nil {
		return false, err
	}
	var count int
	if err := row.Scan(&count); err != nil {
		return false, err
	}
	return count > 0, nil
}

// readRewardAccount returns a zero balance account when the user has no row yet
func readRewardAccount(ctx context.Context, sess db.Session, userId string, lock bool) (*model.RewardAccount, error) {
	selector := sess.SQL().
		Select("*").
		From("reward_account").
		Where("user_id = ?", userId)
	if lock {
		selector = selector.Amend(forUpdate)
	}
	var account model.RewardAccount
	if err := selector.IteratorContext(ctx).One(&account); err != nil {
		if err == db.ErrNoMoreRows {
			return &model.RewardAccount{UserId: userId}, nil
		}
		return nil, err
	}
	return &account, nil
}

func insertTransaction(ctx context.Context, sess db.Session, kind model.TransactionKind, change *appDb.PointsChange) error {
	_, err := sess.SQL().
		InsertInto("reward_transaction").
		Columns("id", "user_id", "kind", "source", "points", "reference_id").
		Values(newId(), change.UserId, kind, change.Source, change.Points, change.ReferenceId).
		ExecContext(ctx)
	return err
}

// earnPoints must run inside a transaction. A repeated (user, source, reference)
// fails with a duplicate key error before the balance moves.
func earnPoints(ctx context.Context, sess db.Session, change *appDb.PointsChange) (*model.RewardAccount, error) {
	if err := insertTransaction(ctx, sess, model.TransactionEarn, change); err != nil {
		return nil, err
	}
	if _, err := sess.SQL().ExecContext(ctx, `INSERT INTO reward_account (user_id, points, lifetime_points) VALUES (?, ?, ?)
													ON DUPLICATE KEY UPDATE points = points + ?, lifetime_points = lifetime_points + ?`,
		change.UserId, change.Points, change.Points, change.Points, change.Points); err != nil {
		return nil, err
	}
	return readRewardAccount(ctx, sess, change.UserId, false)
}

// spendPoints must run inside a transaction
func spendPoints(ctx context.Context, sess db.Session, change *appDb.PointsChange) (*model.RewardAccount, error) {
	account, err := readRewardAccount(ctx, sess, change.UserId, true)
	if err != nil {
		return nil, err
	}
	if account.Points < change.Points {
		return nil, rewards.ErrInsufficientPoints
	}
	if _, err := sess.SQL().
		Update("reward_account").
		Set("points = points - ?", change.Points).
		Where("user_id = ?", change.UserId).
		ExecContext(ctx); err != nil {
		return nil, err
	}
	if err := insertTransaction(ctx, sess, model.TransactionSpend, change); err != nil {
		return nil, err
	}
	account.Points -= change.Points
	return account, nil
}
