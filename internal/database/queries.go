package database

import (
	"strconv"
	"strings"
)

// Admin session queries, written with ? placeholders.
const (
	UpsertSessionQuery = `
		INSERT INTO admin_sessions (id, admin_authenticated, login_time, expires_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET
			admin_authenticated = excluded.admin_authenticated,
			login_time = excluded.login_time,
			expires_at = excluded.expires_at
	`
	GetSessionQuery = `
		SELECT id, admin_authenticated, login_time, expires_at
		FROM admin_sessions
		WHERE id = ?
	`
	DeleteSessionQuery       = `DELETE FROM admin_sessions WHERE id = ?`
	PurgeExpiredSessionQuery = `DELETE FROM admin_sessions WHERE expires_at <= ?`
)

// Rebind converts ? placeholders to $1, $2, ... for postgres and leaves other
// dialects untouched.
func Rebind(dialect, query string) string {
	if dialect != DialectPostgres {
		return query
	}
	var b strings.Builder
	b.Grow(len(query) + 8)
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
