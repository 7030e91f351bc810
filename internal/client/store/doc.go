// Package store opens the client's SQLite database and keeps it at the
// current schema.
//
// Open configures a single pooled connection so connection-scoped pragmas
// (foreign_keys in particular) hold for every statement the process runs.
// Migrate then applies pending schema versions with foreign-key enforcement
// off, repairs or rejects rows that would violate a foreign key, seeds the
// protected administrator and switches enforcement back on. Migrate runs on
// every Open and is safe to repeat.
package store
