// Package store provides a SQLite-backed record store that creates tables on
// first use and reads and writes rows by primary key.
//
// The store maps ordered records (internal/record) onto tables:
//   - Tables: created lazily from the first record pushed, schema fixed after
//   - Keys: Sequential (store-assigned integer) or RandomUUID (text), chosen at
//     creation and enforced on every insert afterwards
//   - Ids: always returned to callers as strings
//
// # Push Routing
//
// Push picks the operation from two facts:
//   - table absent: create the table from the record, then insert
//   - table present, record has an id: update that row
//   - table present, no id: insert a new row
//
// An id in a record pushed to a missing table is ignored.
//
// # Statements
//
// Every statement binds values through placeholders and quotes identifiers,
// so field values and names never become SQL text. Booleans bind as the text
// "True" or "False".
//
// # Concurrency
//
// The store assumes a single writer. It holds one connection, so calls from
// several goroutines are serialized, but two processes writing the same file
// rely on SQLite locking and busy_timeout only.
//
// # Database Configuration
//
//   - WAL mode by default: concurrent reads during writes
//   - synchronous=NORMAL: balance durability/performance
//   - busy_timeout=5000 by default: wait for locks up to 5 seconds
//   - foreign_keys=ON
package store
