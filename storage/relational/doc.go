// Package relational implements storage.GraphStore on a SQL database through gorm.
//
// Two dialects are supported:
//
//   - postgres: connections come from a pgx pool bounded by MaxConnections
//   - sqlite: a single connection, suitable for local runs and tests
//
// Duplicate works and edges are absorbed with ON CONFLICT DO NOTHING.
// Contributor indices are assigned by the store inside a transaction that
// holds a table lock on postgres, so concurrent loads never leave gaps.
package relational
