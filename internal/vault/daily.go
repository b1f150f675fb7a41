package vault

import (
	"path"
	"time"
)

// DailyPath returns the vault-relative path of the daily note for t.
func DailyPath(dir string, t time.Time) string {
	return path.Join(dir, t.Format("2006-01-02")+".org")
}

// DailyTitle renders the canonical heading of a daily note.
func DailyTitle(t time.Time) string {
	return t.Format("Monday, 02 January 2006")
}
