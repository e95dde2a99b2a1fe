// Package journal persists organize outcomes in SQLite.
//
// Every organize call, whether it moved, skipped, or failed, is recorded so
// the CLI can answer "what happened to my files" after the fact. The Store
// manages database connections, schema initialization, stats queries, and
// retention. The database is an audit trail, not coordination state; the
// daemon never reads it on the hot path.
//
// Schema changes bump the version in schema.go; users clear the database to
// adopt the new schema.
package journal
