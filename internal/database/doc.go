// Package database provides the destination stores for ticker partitions.
//
// Two backends are supported:
//   - Snowflake through database/sql and gosnowflake (SQLStore)
//   - PostgreSQL through a pgx connection pool (PgStore)
//
// Every table and column identifier is double-quoted, so names are
// case-sensitive and reserved words such as TYPE and ACTIVE are safe.
package database
