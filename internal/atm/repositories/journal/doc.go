// Package journal persists the append-only transaction history. Records are
// ordered by a monotonically increasing seq.
package journal
