// Package job runs one fetch-and-load cycle as an explicit state machine.
//
//	Pending -> Fetching -> Aggregated -> CheckPartition -> Skipped
//	                                                    -> Loading -> Committed
//
// Failure edges: Pending -> Failed (configuration or connection),
// Fetching -> PartialFailure, CheckPartition -> LoadFailure and
// Loading -> LoadFailure. A partially fetched batch is never loaded.
package job
