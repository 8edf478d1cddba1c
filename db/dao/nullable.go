package dao

import (
	"database/sql"
	"time"
)

type NullInt64 struct {
	sql.NullInt64
}

// AsInt if the value is null, returns -1
func (ni *NullInt64) AsInt() int64 {
	if !ni.NullInt64.Valid {
		return -1
	}
	return ni.NullInt64.Int64
}

// Int64Ptr maps SQL NULL to a nil pointer
func Int64Ptr(ni sql.NullInt64) *int64 {
	if !ni.Valid {
		return nil
	}
	val := ni.Int64
	return &val
}

func TimePtr(nt sql.NullTime) *time.Time {
	if !nt.Valid {
		return nil
	}
	val := nt.Time
	return &val
}

// StringOrEmpty maps SQL NULL to the empty string
func StringOrEmpty(ns sql.NullString) string {
	if !ns.Valid {
		return ""
	}
	return ns.String
}

// NullableString stores the empty string as NULL
func NullableString(val string) sql.NullString {
	return sql.NullString{String: val, Valid: val != ""}
}

func NullableInt64(val *int64) sql.NullInt64 {
	if val == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: *val, Valid: true}
}

func NullableTime(val *time.Time) sql.NullTime {
	if val == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *val, Valid: true}
}
