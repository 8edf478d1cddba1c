package planetscale

import (
	"context"
	"database/sql"
	"time"

	swapRules "github.com/billix/billix-be/app/swap"
	appDb "github.com/billix/billix-be/db"
	"github.com/billix/billix-be/db/dao"
	"github.com/billix/billix-be/model"
	"github.com/upper/db/v4"
)

type SwapDB struct {
	sess db.Session
}

func getSwapDB(sess db.Session) *SwapDB {
	return &SwapDB{sess}
}

type flattenedSwap struct {
	Id                string           `db:"id"`
	OrganizerId       string           `db:"organizer_id"`
	BillCategory      string           `db:"bill_category"`
	Title             string           `db:"title"`
	TargetAmountCents int64            `db:"target_amount_cents"`
	MaxParticipants   int              `db:"max_participants"`
	Status            model.SwapStatus `db:"status"`
	BoostedUntil      sql.NullTime     `db:"boosted_until"`
	Deadline          time.Time        `db:"deadline"`
	CreatedAt         time.Time        `db:"created_at"`
	UpdatedAt         time.Time        `db:"updated_at"`
}

type flattenedListedSwap struct {
	flattenedSwap `db:",inline"`
	Boosted       bool `db:"boosted"`
}

func buildSwapFromFlattened(flattened *flattenedSwap) *model.Swap {
	return &model.Swap{
		Id:                flattened.Id,
		OrganizerId:       flattened.OrganizerId,
		BillCategory:      flattened.BillCategory,
		Title:             flattened.Title,
		TargetAmountCents: flattened.TargetAmountCents,
		MaxParticipants:   flattened.MaxParticipants,
		Status:            flattened.Status,
		BoostedUntil:      dao.TimePtr(flattened.BoostedUntil),
		Deadline:          flattened.Deadline,
		CreatedAt:         flattened.CreatedAt,
		UpdatedAt:         flattened.UpdatedAt,
	}
}

func (sdb *SwapDB) CreateSwap(ctx context.Context, swap *model.Swap, organizerContributionCents int64) error {
	if swap.Id == "" {
		swap.Id = newId()
	}
	return sdb.sess.TxContext(ctx, func(sess db.Session) error {
		if _, err := sess.SQL().
			InsertInto("swap").
			Columns("id", "organizer_id", "bill_category", "title", "target_amount_cents", "max_participants", "status", "deadline").
			Values(swap.Id, swap.OrganizerId, swap.BillCategory, swap.Title, swap.TargetAmountCents, swap.MaxParticipants, swap.Status, swap.Deadline).
			ExecContext(ctx); err != nil {
			return err
		}
		return insertParticipant(ctx, sess, swap.Id, swap.OrganizerId, organizerContributionCents)
	}, nil)
}

func (sdb *SwapDB) GetSwap(ctx context.Context, id string) (*model.Swap, error) {
	var flattened flattenedSwap
	if err := sdb.sess.SQL().
		Select("*").
		From("swap").
		Where("id = ?", id).
		IteratorContext(ctx).
		One(&flattened); err != nil {
		if err == db.ErrNoMoreRows {
			return nil, nil
		}
		return nil, err
	}
	return buildSwapFromFlattened(&flattened), nil
}

func (sdb *SwapDB) GetSwapParticipants(ctx context.Context, swapId string) ([]*model.SwapParticipant, error) {
	return getParticipants(ctx, sdb.sess, swapId)
}

// GetSwaps lists the marketplace with actively boosted swaps first
func (sdb *SwapDB) GetSwaps(ctx context.Context, query *appDb.SwapListQuery) ([]*model.Swap, error) {
	selector := sdb.sess.SQL().
		Select("*", db.Raw("(boosted_until IS NOT NULL AND boosted_until > ?) AS boosted", query.Now)).
		From("swap").
		Where("status IN ?", toInterfaces(query.Statuses))
	if query.BillCategory != "" {
		selector = selector.And("bill_category = ?", query.BillCategory)
	}
	var flattenedSwaps []flattenedListedSwap
	if err := selector.
		OrderBy("boosted DESC", "created_at DESC", "id DESC").
		Limit(query.Limit).
		Offset(query.Offset).
		IteratorContext(ctx).
		All(&flattenedSwaps); err != nil {
		return nil, err
	}
	swaps := make([]*model.Swap, len(flattenedSwaps))
	for i, flattened := range flattenedSwaps {
		swaps[i] = buildSwapFromFlattened(&flattened.flattenedSwap)
	}
	return swaps, nil
}

// JoinSwap locks the swap row so concurrent joins cannot overfill it. The
// swap moves to FILLED when the last seat or the last cent is taken.
func (sdb *SwapDB) JoinSwap(ctx context.Context, req *appDb.JoinSwap) (*model.Swap, error) {
	var swap *model.Swap
	err := sdb.sess.TxContext(ctx, func(sess db.Session) error {
		var err error
		swap, err = lockSwap(ctx, sess, req.SwapId)
		if err != nil {
			return err
		}
		participants, err := getParticipants(ctx, sess, req.SwapId)
		if err != nil {
			return err
		}
		if err := swapRules.ValidateJoin(swap, participants, req.UserId, req.ContributionCents); err != nil {
			return err
		}
		if err := insertParticipant(ctx, sess, req.SwapId, req.UserId, req.ContributionCents); err != nil {
			return err
		}

		participants = append(participants, &model.SwapParticipant{
			SwapId:            req.SwapId,
			UserId:            req.UserId,
			ContributionCents: req.ContributionCents,
		})
		if swapRules.IsFull(swap, participants) {
			if err := setSwapStatus(ctx, sess, swap.Id, model.SwapFilled); err != nil {
				return err
			}
			swap.Status = model.SwapFilled
		}
		return nil
	}, nil)
	return swap, err
}

func (sdb *SwapDB) LeaveSwap(ctx context.Context, swapId string, userId string) error {
	return sdb.sess.TxContext(ctx, func(sess db.Session) error {
		swap, err := lockSwap(ctx, sess, swapId)
		if err != nil {
			return err
		}
		if swap.OrganizerId == userId {
			return swapRules.ErrOrganizerLeave
		}
		if swap.Status != model.SwapRecruiting {
			return swapRules.ErrNotRecruiting
		}
		res, err := sess.SQL().
			DeleteFrom("swap_participant").
			Where("swap_id = ? AND user_id = ?", swapId, userId).
			ExecContext(ctx)
		if err := requireRowsAffected(res, err); err != nil {
			if err == appDb.ErrStaleState {
				return swapRules.ErrNotParticipant
			}
			return err
		}
		return nil
	}, nil)
}

func (sdb *SwapDB) TransitionSwap(ctx context.Context, id string, from []model.SwapStatus, to model.SwapStatus) error {
	return requireRowsAffected(sdb.sess.SQL().
		Update("swap").
		Set("status", to).
		Where("id = ? AND status IN ?", id, toInterfaces(from)).
		ExecContext(ctx))
}

// MarkParticipantPaid completes the swap once every participant has paid
func (sdb *SwapDB) MarkParticipantPaid(ctx context.Context, swapId string, userId string) (*model.Swap, error) {
	var swap *model.Swap
	err := sdb.sess.TxContext(ctx, func(sess db.Session) error {
		var err error
		swap, err = lockSwap(ctx, sess, swapId)
		if err != nil {
			return err
		}
		if swap.Status != model.SwapInProgress {
			return swapRules.ErrInvalidTransition
		}
		participants, err := getParticipants(ctx, sess, swapId)
		if err != nil {
			return err
		}
		participant := swapRules.FindParticipant(participants, userId)
		if participant == nil {
			return swapRules.ErrNotParticipant
		}
		if participant.Paid {
			return nil
		}
		if _, err := sess.SQL().
			Update("swap_participant").
			Set("paid", true).
			Where("swap_id = ? AND user_id = ?", swapId, userId).
			ExecContext(ctx); err != nil {
			return err
		}
		participant.Paid = true
		if swapRules.AllPaid(participants) {
			if err := setSwapStatus(ctx, sess, swapId, model.SwapCompleted); err != nil {
				return err
			}
			swap.Status = model.SwapCompleted
		}
		return nil
	}, nil)
	return swap, err
}

// BoostSwap charges the organizer and extends the boost window
func (sdb *SwapDB) BoostSwap(ctx context.Context, req *appDb.BoostSwap) (*model.Swap, error) {
	var swap *model.Swap
	err := sdb.sess.TxContext(ctx, func(sess db.Session) error {
		var err error
		swap, err = lockSwap(ctx, sess, req.SwapId)
		if err != nil {
			return err
		}
		if swap.OrganizerId != req.OrganizerId {
			return swapRules.ErrNotOrganizer
		}
		if swap.Status != model.SwapRecruiting {
			return swapRules.ErrNotRecruiting
		}
		if _, err := spendPoints(ctx, sess, &appDb.PointsChange{
			UserId:      req.OrganizerId,
			Points:      req.CostPoints,
			Source:      model.SourceBoost,
			ReferenceId: newId(),
		}); err != nil {
			return err
		}
		boostedUntil := swapRules.BoostedUntil(swap.BoostedUntil, req.Now)
		if _, err := sess.SQL().
			Update("swap").
			Set("boosted_until", boostedUntil).
			Where("id = ?", swap.Id).
			ExecContext(ctx); err != nil {
			return err
		}
		swap.BoostedUntil = &boostedUntil
		return nil
	}, &sql.TxOptions{Isolation: sql.LevelReadCommitted})
	return swap, err
}

func (sdb *SwapDB) CancelStaleSwaps(ctx context.Context, now time.Time) (int64, error) {
	res, err := sdb.sess.SQL().
		Update("swap").
		Set("status", model.SwapCancelled).
		Where("status = ? AND deadline < ?", model.SwapRecruiting, now).
		ExecContext(ctx)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

type flattenedClaim struct {
	Id          string            `db:"id"`
	SwapId      string            `db:"swap_id"`
	ClaimantId  string            `db:"claimant_id"`
	Reason      string            `db:"reason"`
	AmountCents int64             `db:"amount_cents"`
	Status      model.ClaimStatus `db:"status"`
	CreatedAt   time.Time         `db:"created_at"`
	ResolvedAt  sql.NullTime      `db:"resolved_at"`
}

func buildClaimFromFlattened(flattened *flattenedClaim) *model.ProtectionClaim {
	return &model.ProtectionClaim{
		Id:          flattened.Id,
		SwapId:      flattened.SwapId,
		ClaimantId:  flattened.ClaimantId,
		Reason:      flattened.Reason,
		AmountCents: flattened.AmountCents,
		Status:      flattened.Status,
		CreatedAt:   flattened.CreatedAt,
		ResolvedAt:  dao.TimePtr(flattened.ResolvedAt),
	}
}

// CreateClaim allows one open claim per claimant and swap
func (sdb *SwapDB) CreateClaim(ctx context.Context, claim *model.ProtectionClaim) error {
	if claim.Id == "" {
		claim.Id = newId()
	}
	return sdb.sess.TxContext(ctx, func(sess db.Session) error {
		if _, err := lockSwap(ctx, sess, claim.SwapId); err != nil {
			return err
		}
		row, err := sess.SQL().QueryRowContext(ctx, `SELECT COUNT(*) FROM protection_claim
															WHERE swap_id = ? AND claimant_id = ? AND status = ?`,
			claim.SwapId, claim.ClaimantId, model.ClaimSubmitted)
		if err != nil {
			return err
		}
		var open int
		if err := row.Scan(&open); err != nil {
			return err
		}
		if open > 0 {
			return swapRules.ErrClaimOpen
		}
		_, err = sess.SQL().
			InsertInto("protection_claim").
			Columns("id", "swap_id", "claimant_id", "reason", "amount_cents", "status").
			Values(claim.Id, claim.SwapId, claim.ClaimantId, claim.Reason, claim.AmountCents, claim.Status).
			ExecContext(ctx)
		return err
	}, nil)
}

func (sdb *SwapDB) GetClaim(ctx context.Context, id string) (*model.ProtectionClaim, error) {
	var flattened flattenedClaim
	if err := sdb.sess.SQL().
		Select("*").
		From("protection_claim").
		Where("id = ?", id).
		IteratorContext(ctx).
		One(&flattened); err != nil {
		if err == db.ErrNoMoreRows {
			return nil, nil
		}
		return nil, err
	}
	return buildClaimFromFlattened(&flattened), nil
}

func (sdb *SwapDB) GetClaimsForSwap(ctx context.Context, swapId string) ([]*model.ProtectionClaim, error) {
	var flattenedClaims []flattenedClaim
	if err := sdb.sess.SQL().
		Select("*").
		From("protection_claim").
		Where("swap_id = ?", swapId).
		OrderBy("created_at DESC").
		IteratorContext(ctx).
		All(&flattenedClaims); err != nil {
		return nil, err
	}
	claims := make([]*model.ProtectionClaim, len(flattenedClaims))
	for i, flattened := range flattenedClaims {
		claims[i] = buildClaimFromFlattened(&flattened)
	}
	return claims, nil
}

func (sdb *SwapDB) ResolveClaim(ctx context.Context, id string, status model.ClaimStatus, resolvedAt time.Time) error {
	return requireRowsAffected(sdb.sess.SQL().
		Update("protection_claim").
		Set(map[string]interface{}{
			"status":      status,
			"resolved_at": resolvedAt,
		}).
		Where("id = ? AND status = ?", id, model.ClaimSubmitted).
		ExecContext(ctx))
}

func lockSwap(ctx context.Context, sess db.Session, id string) (*model.Swap, error) {
	var flattened flattenedSwap
	if err := sess.SQL().
		Select("*").
		From("swap").
		Where("id = ?", id).
		Amend(forUpdate).
		IteratorContext(ctx).
		One(&flattened); err != nil {
		if err == db.ErrNoMoreRows {
			return nil, swapRules.ErrSwapNotFound
		}
		return nil, err
	}
	return buildSwapFromFlattened(&flattened), nil
}

func getParticipants(ctx context.Context, sess db.Session, swapId string) ([]*model.SwapParticipant, error) {
	var participants []*model.SwapParticipant
	if err := sess.SQL().
		Select("*").
		From("swap_participant").
		Where("swap_id = ?", swapId).
		OrderBy("joined_at", "user_id").
		IteratorContext(ctx).
		All(&participants); err != nil {
		return nil, err
	}
	if participants == nil {
		participants = []*model.SwapParticipant{}
	}
	return participants, nil
}

func insertParticipant(ctx context.Context, sess db.Session, swapId string, userId string, contributionCents int64) error {
	_, err := sess.SQL().
		InsertInto("swap_participant").
		Columns("swap_id", "user_id", "contribution_cents").
		Values(swapId, userId, contributionCents).
		ExecContext(ctx)
	return err
}

func setSwapStatus(ctx context.Context, sess db.Session, id string, status model.SwapStatus) error {
	_, err := sess.SQL().
		Update("swap").
		Set("status", status).
		Where("id = ?", id).
		ExecContext(ctx)
	return err
}
