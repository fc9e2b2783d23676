// Package store provides SQLite-backed persistence for named system
// structures.
//
// Each record holds the canonical JSON of a structure together with its
// fingerprint, so a stored document can be checked against the hash it
// was saved under.
//
// # Records
//
//   - name: caller-chosen key, UNIQUE; saving under an existing name replaces
//     the document
//   - id: UUIDv7 assigned on first save and kept across replacements
//   - revision: starts at 1 and increases only when the fingerprint changes
//   - fingerprint: structure.Fingerprint of the document
//
// Listing order is by name (COLLATE BINARY), never by insertion time.
//
// # Schema
//
// schema.sql creates the base table; later changes are numbered migrations
// tracked in PRAGMA user_version. Open applies whatever is pending, so any
// older catalogue can be opened in place.
package store
