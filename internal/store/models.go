package store

import (
	"database/sql"
	"time"
)

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func toNullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}

func fromNullString(ns sql.NullString) string {
	if !ns.Valid {
		return ""
	}
	return ns.String
}

func unixUTC(sec int64) time.Time {
	return time.Unix(sec, 0).UTC()
}
