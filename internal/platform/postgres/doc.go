// Package postgres provides PostgreSQL-backed implementations of the
// store interfaces. All stores accept a store.DBTX so they can run
// against either a *sql.DB or an open transaction, and they translate
// driver-level errors into the sentinel errors defined in the store
// package via MapError.
package postgres
