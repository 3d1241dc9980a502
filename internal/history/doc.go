// Package history persists scoring runs in a SQLite database so earlier
// results can be listed and inspected.
//
// Each run stores its corpus totals and one row per scored utterance. Writers
// in separate processes are serialized by a lock file beside the database;
// transient SQLITE_BUSY failures are retried with backoff. The schema is
// versioned through schema_version; after editing schema.sql, bump
// schemaVersion.
package history
