package planetscale

import (
	"context"
	"database/sql"
	"time"

	"github.com/billix/billix-be/app/relief"
	appDb "github.com/billix/billix-be/db"
	"github.com/billix/billix-be/db/dao"
	"github.com/billix/billix-be/model"
	"github.com/upper/db/v4"
)

type ReliefDB struct {
	sess db.Session
}

func getReliefDB(sess db.Session) *ReliefDB {
	return &ReliefDB{sess}
}

type flattenedReliefRequest struct {
	Id                 string             `db:"id"`
	RequesterId        string             `db:"requester_id"`
	HelperId           sql.NullString     `db:"helper_id"`
	BillCategory       string             `db:"bill_category"`
	AmountCents        int64              `db:"amount_cents"`
	Description        string             `db:"description"`
	Urgency            model.Urgency      `db:"urgency"`
	Status             model.ReliefStatus `db:"status"`
	DocumentBlobNames  string             `db:"document_blob_names"`
	ConnectionFeeCents int64              `db:"connection_fee_cents"`
	CreatedAt          time.Time          `db:"created_at"`
	UpdatedAt          time.Time          `db:"updated_at"`
	ExpiresAt          time.Time          `db:"expires_at"`
}

func buildReliefRequestFromFlattened(flattened *flattenedReliefRequest) (*model.ReliefRequest, error) {
	documents, err := unmarshalStringList(flattened.DocumentBlobNames)
	if err != nil {
		return nil, err
	}
	return &model.ReliefRequest{
		Id:                 flattened.Id,
		RequesterId:        flattened.RequesterId,
		HelperId:           dao.StringOrEmpty(flattened.HelperId),
		BillCategory:       flattened.BillCategory,
		AmountCents:        flattened.AmountCents,
		Description:        flattened.Description,
		Urgency:            flattened.Urgency,
		Status:             flattened.Status,
		DocumentBlobNames:  documents,
		ConnectionFeeCents: flattened.ConnectionFeeCents,
		CreatedAt:          flattened.CreatedAt,
		UpdatedAt:          flattened.UpdatedAt,
		ExpiresAt:          flattened.ExpiresAt,
	}, nil
}

func (rdb *ReliefDB) CreateReliefRequest(ctx context.Context, req *model.ReliefRequest) error {
	if req.Id == "" {
		req.Id = newId()
	}
	documents, err := marshalStringList(req.DocumentBlobNames)
	if err != nil {
		return err
	}
	_, err = rdb.sess.SQL().
		InsertInto("relief_request").
		Columns("id", "requester_id", "bill_category", "amount_cents", "description", "urgency", "status", "document_blob_names", "expires_at").
		Values(req.Id, req.RequesterId, req.BillCategory, req.AmountCents, req.Description, req.Urgency, req.Status, documents, req.ExpiresAt).
		ExecContext(ctx)
	return err
}

func (rdb *ReliefDB) GetReliefRequest(ctx context.Context, id string) (*model.ReliefRequest, error) {
	var flattened flattenedReliefRequest
	if err := rdb.sess.SQL().
		Select("*").
		From("relief_request").
		Where("id = ?", id).
		IteratorContext(ctx).
		One(&flattened); err != nil {
		if err == db.ErrNoMoreRows {
			return nil, nil
		}
		return nil, err
	}
	return buildReliefRequestFromFlattened(&flattened)
}

func (rdb *ReliefDB) GetReliefRequests(ctx context.Context, query *appDb.ReliefListQuery) ([]*model.ReliefRequest, error) {
	selector := rdb.sess.SQL().
		Select("*").
		From("relief_request").
		Where("1 = 1")
	if len(query.Statuses) > 0 {
		selector = selector.And("status IN ?", toInterfaces(query.Statuses))
	}
	if query.BillCategory != "" {
		selector = selector.And("bill_category = ?", query.BillCategory)
	}
	if query.RequesterId != "" {
		selector = selector.And("requester_id = ?", query.RequesterId)
	}
	if query.HelperId != "" {
		selector = selector.And("helper_id = ?", query.HelperId)
	}
	if query.Before != nil {
		selector = selector.And("(created_at < ? OR (created_at = ? AND id < ?))", query.Before.CreatedAt, query.Before.CreatedAt, query.Before.Id)
	}

	var flattenedRequests []flattenedReliefRequest
	if err := selector.
		OrderBy("created_at DESC", "id DESC").
		Limit(query.Limit).
		IteratorContext(ctx).
		All(&flattenedRequests); err != nil {
		return nil, err
	}
	requests := make([]*model.ReliefRequest, len(flattenedRequests))
	for i, flattened := range flattenedRequests {
		request, err := buildReliefRequestFromFlattened(&flattened)
		if err != nil {
			return nil, err
		}
		requests[i] = request
	}
	return requests, nil
}

func (rdb *ReliefDB) TransitionReliefRequest(ctx context.Context, transition *appDb.ReliefTransition) error {
	set := map[string]interface{}{"status": transition.To}
	if transition.SetHelper != nil {
		set["helper_id"] = dao.NullableString(*transition.SetHelper)
	}
	return requireRowsAffected(rdb.sess.SQL().
		Update("relief_request").
		Set(set).
		Where("id = ? AND status IN ?", transition.Id, toInterfaces(transition.From)).
		ExecContext(ctx))
}

// AcceptReliefRequest moves a matched request to accepted and charges the
// connection fee to both parties
func (rdb *ReliefDB) AcceptReliefRequest(ctx context.Context, id string, feeCents int64) error {
	return rdb.sess.TxContext(ctx, func(sess db.Session) error {
		request, err := lockReliefRequest(ctx, sess, id)
		if err != nil {
			return err
		}
		if request.Status != model.ReliefMatched {
			return appDb.ErrStaleState
		}
		if _, err := sess.SQL().
			Update("relief_request").
			Set(map[string]interface{}{
				"status":               model.ReliefAccepted,
				"connection_fee_cents": feeCents,
			}).
			Where("id = ?", id).
			ExecContext(ctx); err != nil {
			return err
		}

		_, err = sess.SQL().
			InsertInto("relief_fee").
			Columns("id", "relief_request_id", "user_id", "fee_cents").
			Values(newId(), id, request.RequesterId, feeCents).
			Values(newId(), id, request.HelperId.String, feeCents).
			ExecContext(ctx)
		return err
	}, nil)
}

// DonateToRelief spends the donor's points and records the donation in one
// transaction
func (rdb *ReliefDB) DonateToRelief(ctx context.Context, donation *model.ReliefDonation) error {
	if donation.Id == "" {
		donation.Id = newId()
	}
	return rdb.sess.TxContext(ctx, func(sess db.Session) error {
		request, err := lockReliefRequest(ctx, sess, donation.ReliefRequestId)
		if err != nil {
			return err
		}
		if !relief.AcceptsDonations(request.Status) {
			return appDb.ErrStaleState
		}
		if _, err := spendPoints(ctx, sess, &appDb.PointsChange{
			UserId:      donation.DonorId,
			Points:      donation.PointsSpent,
			Source:      model.SourceDonation,
			ReferenceId: donation.Id,
		}); err != nil {
			return err
		}
		_, err = sess.SQL().
			InsertInto("relief_donation").
			Columns("id", "relief_request_id", "donor_id", "dollars", "points_spent").
			Values(donation.Id, donation.ReliefRequestId, donation.DonorId, donation.Dollars, donation.PointsSpent).
			ExecContext(ctx)
		return err
	}, &sql.TxOptions{Isolation: sql.LevelReadCommitted})
}

func (rdb *ReliefDB) GetDonations(ctx context.Context, reliefRequestId string) ([]*model.ReliefDonation, error) {
	var donations []*model.ReliefDonation
	if err := rdb.sess.SQL().
		Select("*").
		From("relief_donation").
		Where("relief_request_id = ?", reliefRequestId).
		OrderBy("created_at DESC").
		IteratorContext(ctx).
		All(&donations); err != nil {
		return nil, err
	}
	if donations == nil {
		donations = []*model.ReliefDonation{}
	}
	return donations, nil
}

func (rdb *ReliefDB) ExpireReliefRequests(ctx context.Context, now time.Time) (int64, error) {
	res, err := rdb.sess.SQL().
		Update("relief_request").
		Set("status", model.ReliefExpired).
		Where("status IN ? AND expires_at < ?", toInterfaces(relief.SourcesFor(model.ReliefExpired)), now).
		ExecContext(ctx)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func lockReliefRequest(ctx context.Context, sess db.Session, id string) (*flattenedReliefRequest, error) {
	var request flattenedReliefRequest
	if err := sess.SQL().
		Select("*").
		From("relief_request").
		Where("id = ?", id).
		Amend(forUpdate).
		IteratorContext(ctx).
		One(&request); err != nil {
		if err == db.ErrNoMoreRows {
			return nil, relief.ErrRequestNotFound
		}
		return nil, err
	}
	return &request, nil
}

