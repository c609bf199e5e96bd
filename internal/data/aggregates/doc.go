// Package aggregates contains the write side of the study store.
//
// Implementations compose table-level repos from internal/data/repos and own
// the transaction boundary of every write. All writes share one TxRunner, so
// at most one transaction is in flight against the single connection.
package aggregates
