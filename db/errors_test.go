package db

import (
	"errors"
	"fmt"
	"testing"

	"github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/assert"
)

func TestIsDupKeyErr(t *testing.T) {
	dupErr := &mysql.MySQLError{Number: 1062, Message: "Duplicate entry 'a-b' for key 'membership.PRIMARY'"}
	assert.True(t, IsDupKeyErr(dupErr))
	assert.True(t, IsDupKeyErr(fmt.Errorf("insert: %w", dupErr)))
	assert.False(t, IsDupKeyErr(&mysql.MySQLError{Number: 1452, Message: "Cannot add or update a child row"}))
	assert.False(t, IsDupKeyErr(errors.New("Duplicate entry")))
	assert.False(t, IsDupKeyErr(nil))
}

func TestGetDupKey(t *testing.T) {
	dupErr := &mysql.MySQLError{Number: 1062, Message: "Duplicate entry 'a-b' for key 'membership.PRIMARY'"}
	assert.Equal(t, "membership.PRIMARY", GetDupKey(dupErr))
	assert.Equal(t, "", GetDupKey(errors.New("boom")))
}
