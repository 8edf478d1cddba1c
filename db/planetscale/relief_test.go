package planetscale

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	appDb "github.com/billix/billix-be/db"
	"github.com/billix/billix-be/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var reliefColumns = []string{"id", "requester_id", "helper_id", "bill_category", "amount_cents", "description", "urgency", "status", "document_blob_names", "connection_fee_cents", "created_at", "updated_at", "expires_at"}

const lockReliefQuery = "SELECT \\* FROM .relief_request. WHERE .+ FOR UPDATE"

func reliefRows(status model.ReliefStatus, helperId interface{}) *sqlmock.Rows {
	return sqlmock.NewRows(reliefColumns).AddRow(
		"relief-1", "requester", helperId, "WATER", int64(12000), "Water bill after a leak",
		string(model.UrgencyHigh), string(status), "[]", int64(0), testNow, testNow, testNow,
	)
}

func TestAcceptChargesFeeToBothParties(t *testing.T) {
	sess, mock := newMockSession(t)
	rdb := getReliefDB(sess)

	mock.ExpectBegin()
	mock.ExpectQuery(lockReliefQuery).WillReturnRows(reliefRows(model.ReliefMatched, "helper"))
	mock.ExpectExec("UPDATE .relief_request. SET").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO .relief_fee.").
		WithArgs(
			sqlmock.AnyArg(), "relief-1", "requester", int64(299),
			sqlmock.AnyArg(), "relief-1", "helper", int64(299),
		).
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectCommit()

	require.NoError(t, rdb.AcceptReliefRequest(context.Background(), "relief-1", 299))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAcceptUnmatchedRequestIsStale(t *testing.T) {
	sess, mock := newMockSession(t)
	rdb := getReliefDB(sess)

	mock.ExpectBegin()
	mock.ExpectQuery(lockReliefQuery).WillReturnRows(reliefRows(model.ReliefOpen, nil))
	mock.ExpectRollback()

	err := rdb.AcceptReliefRequest(context.Background(), "relief-1", 299)
	assert.ErrorIs(t, err, appDb.ErrStaleState)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDonationToClosedRequestSpendsNothing(t *testing.T) {
	sess, mock := newMockSession(t)
	rdb := getReliefDB(sess)

	mock.ExpectBegin()
	mock.ExpectQuery(lockReliefQuery).WillReturnRows(reliefRows(model.ReliefFulfilled, "helper"))
	mock.ExpectRollback()

	err := rdb.DonateToRelief(context.Background(), &model.ReliefDonation{
		ReliefRequestId: "relief-1",
		DonorId:         "donor",
		Dollars:         5,
		PointsSpent:     500,
	})
	assert.ErrorIs(t, err, appDb.ErrStaleState)
	assert.NoError(t, mock.ExpectationsWereMet())
}
