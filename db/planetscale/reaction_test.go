package planetscale

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/billix/billix-be/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	currentReactionQuery = "SELECT type FROM reaction WHERE post_id = \\? AND user_id = \\? FOR UPDATE"
	reactionTotalUpdate  = "UPDATE .post. SET reaction_total = reaction_total \\+ \\?"
)

func TestReactKeepsReactionTotalInStep(t *testing.T) {
	tests := []struct {
		name     string
		previous model.ReactionType
		next     model.ReactionType
		expect   func(mock sqlmock.Sqlmock)
	}{
		{
			name: "first reaction",
			next: model.ReactionLike,
			expect: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec("INSERT INTO .reaction.").WillReturnResult(sqlmock.NewResult(0, 1))
				mock.ExpectExec(reactionTotalUpdate).WithArgs(1, "post-1").WillReturnResult(sqlmock.NewResult(0, 1))
			},
		},
		{
			name:     "removed reaction",
			previous: model.ReactionLike,
			next:     model.ReactionNone,
			expect: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec("DELETE FROM .reaction.").WillReturnResult(sqlmock.NewResult(0, 1))
				mock.ExpectExec(reactionTotalUpdate).WithArgs(-1, "post-1").WillReturnResult(sqlmock.NewResult(0, 1))
			},
		},
		{
			name:     "switched type",
			previous: model.ReactionLike,
			next:     model.ReactionHelpful,
			expect: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec("UPDATE .reaction. SET .type. = \\?").WillReturnResult(sqlmock.NewResult(0, 1))
			},
		},
		{
			name:     "same type",
			previous: model.ReactionLike,
			next:     model.ReactionLike,
			expect:   func(mock sqlmock.Sqlmock) {},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sess, mock := newMockSession(t)
			pdb := getPostDB(sess)

			rows := sqlmock.NewRows([]string{"type"})
			if tt.previous != model.ReactionNone {
				rows.AddRow(string(tt.previous))
			}
			mock.ExpectBegin()
			mock.ExpectQuery(currentReactionQuery).WithArgs("post-1", "u1").WillReturnRows(rows)
			tt.expect(mock)
			mock.ExpectCommit()

			require.NoError(t, pdb.React(context.Background(), "post-1", "u1", tt.next))
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestConcurrentFirstReactionRetriesAsUpdate(t *testing.T) {
	sess, mock := newMockSession(t)
	pdb := getPostDB(sess)

	mock.ExpectBegin()
	mock.ExpectQuery(currentReactionQuery).WillReturnRows(sqlmock.NewRows([]string{"type"}))
	mock.ExpectExec("INSERT INTO .reaction.").WillReturnError(dupEntryErr)
	mock.ExpectRollback()

	mock.ExpectBegin()
	mock.ExpectQuery(currentReactionQuery).WillReturnRows(sqlmock.NewRows([]string{"type"}).AddRow(string(model.ReactionHelpful)))
	mock.ExpectExec("UPDATE .reaction. SET .type. = \\?").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	require.NoError(t, pdb.React(context.Background(), "post-1", "u1", model.ReactionLike))
	assert.NoError(t, mock.ExpectationsWereMet())
}
