package db

import (
	"errors"
	"regexp"

	"github.com/go-sql-driver/mysql"
)

const mysqlDupEntryErrNumber = 1062

var dupKeyRegexp = regexp.MustCompile(`(for key ')((.)+)(')`)

func IsDupKeyErr(err error) bool {
	var mysqlErr *mysql.MySQLError
	if !errors.As(err, &mysqlErr) {
		return false
	}
	return mysqlErr.Number == mysqlDupEntryErrNumber
}

// GetDupKey returns the name of the violated key or the empty string
func GetDupKey(err error) string {
	var mysqlErr *mysql.MySQLError
	if !errors.As(err, &mysqlErr) {
		return ""
	}
	match := dupKeyRegexp.FindStringSubmatch(mysqlErr.Message)
	if len(match) < 3 {
		return ""
	}
	return match[2]
}

// ErrStaleState is returned by conditional updates when the row was no longer
// in one of the expected states
var ErrStaleState = errors.New("row is no longer in the expected state")
