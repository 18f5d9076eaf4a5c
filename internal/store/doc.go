// Package store caches imported event logs in SQLite.
//
// Logs are content-addressed: the primary key of a log is its
// digest.LogID, so importing the same log twice stores it once. Every
// import run is recorded separately under a UUIDv7 run ID, which sorts by
// creation time.
//
// # Database Configuration
//
//   - WAL mode: Concurrent reads during writes
//   - synchronous=NORMAL: Balance durability/performance
//   - busy_timeout=5000: Wait for locks up to 5 seconds
//   - foreign_keys=ON: Deleting a log removes its events and import runs
//
// Reads are ordered by (case_seq, seq), the order the log had when saved.
package store
