package store

import (
	"database/sql"
	"strings"
	"time"
)

// milli converts a time to the unix-millisecond integer stored in the
// database.
func milli(t time.Time) int64 {
	return t.UnixMilli()
}

// milliPtr converts an optional time, mapping nil to a NULL column.
func milliPtr(t *time.Time) any {
	if t == nil {
		return nil
	}
	return t.UnixMilli()
}

func fromMilli(ms int64) time.Time {
	return time.UnixMilli(ms).UTC()
}

func fromMilliPtr(ns sql.NullInt64) *time.Time {
	if !ns.Valid {
		return nil
	}
	t := fromMilli(ns.Int64)
	return &t
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

// isUniqueViolation reports whether err is a SQLite unique-constraint
// failure. modernc.org/sqlite exposes no typed constraint error, so
// the message is the only signal.
func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}
