// Package storage provides the durable local key-value storage backing the
// K-MATO session and cart stores.
//
// Three backends are provided:
//   - MemoryStore: process-lifetime only, for tests and ephemeral runs.
//   - FileStore: a single JSON file rewritten atomically on each write; the
//     default for the CLI, playing the role browser localStorage plays for
//     the web client.
//   - SQLStore: any database/sql driver (PostgreSQL, MySQL, SQLite); the CLI
//     registers the pure-Go sqlite driver for it.
//
// Store methods are deliberately synchronous and context-free: every consumer
// writes a few hundred bytes per mutation, and the persisted copy must be
// current the moment the mutating call returns.
package storage
