// Package writer implements the idempotent ticker loader.
//
// A load writes one partition (the UTC date of the run) at most once:
//   - the partition row count is checked first, and any existing row skips the load
//   - otherwise every row is inserted inside a single transaction
//
// Writers use append-only semantics (never update, only insert).
package writer
