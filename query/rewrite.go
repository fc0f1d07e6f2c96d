package query

import (
	"regexp"

	"ledgerdash/storage"
)

// SQLiteUUIDExpr evaluates to a random version 4 UUID in SQLite.
const SQLiteUUIDExpr = "(lower(hex(randomblob(4))) || '-' || lower(hex(randomblob(2))) || '-4' || " +
	"substr(lower(hex(randomblob(2))), 2) || '-' || substr('89ab', (random() & 3) + 1, 1) || " +
	"substr(lower(hex(randomblob(2))), 2) || '-' || lower(hex(randomblob(6))))"

var (
	ilikeRe      = regexp.MustCompile(`(?i)\bILIKE\b`)
	textCastRe   = regexp.MustCompile(`(?i)::text\b`)
	intCastRe    = regexp.MustCompile(`(?i)::integer\b`)
	uuidGenRe    = regexp.MustCompile(`(?i)\buuid_generate_v4\(\)`)
	onConflictRe = regexp.MustCompile(`(?is)^(\s*)INSERT\s+INTO(.*?)\s*ON\s+CONFLICT\s*(?:\([^)]*\))?\s*DO\s+NOTHING`)
)

// RewritePostgresToSQLite translates the Postgres idioms used by hand-written
// dashboard queries. ILIKE becomes LIKE, which relies on SQLite's LIKE being
// case-insensitive for ASCII text; columns with a custom collation or
// non-ASCII data will not match the way Postgres would.
func RewritePostgresToSQLite(sql string) string {
	sql = ilikeRe.ReplaceAllString(sql, "LIKE")
	sql = textCastRe.ReplaceAllString(sql, "")
	sql = intCastRe.ReplaceAllString(sql, "")
	return uuidGenRe.ReplaceAllLiteralString(sql, SQLiteUUIDExpr)
}

// RewritePostgresToMySQL does the same for MySQL, whose default collations
// compare case-insensitively. UUID() yields version 1 identifiers.
func RewritePostgresToMySQL(sql string) string {
	sql = ilikeRe.ReplaceAllString(sql, "LIKE")
	sql = textCastRe.ReplaceAllString(sql, "")
	sql = intCastRe.ReplaceAllString(sql, "")
	sql = uuidGenRe.ReplaceAllLiteralString(sql, "UUID()")
	return onConflictRe.ReplaceAllString(sql, "${1}INSERT IGNORE INTO${2}")
}

// RewriterFor returns the rewriter from source to target, or nil when
// statements can be sent unchanged or no rewriter exists.
func RewriterFor(source, target storage.Dialect) func(string) string {
	if source == "" || source == target {
		return nil
	}
	if source != storage.Postgres {
		return nil
	}
	switch target {
	case storage.SQLite:
		return RewritePostgresToSQLite
	case storage.MySQL:
		return RewritePostgresToMySQL
	}
	return nil
}
