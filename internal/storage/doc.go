// Package storage persists the engine's JSON blobs in two key/value
// backends at once.
//
// # Overview
//
// A Backend is a plain byte store (SQLite, Redis, or process memory). The
// Adapter composes a durable primary Backend with a volatile secondary one:
//
//   - Write mirrors every value to both backends. A failing primary never
//     prevents the secondary write, so at least one copy survives the
//     current process.
//   - Read prefers the primary and falls back to the secondary when the key
//     is missing or the stored payload is not valid JSON.
//   - Remove deletes from both.
//
// Backend failures never reach the caller. They are wrapped in
// ErrStorageUnavailable and logged; the stores above keep working from
// memory.
//
// # Keys
//
// Logical keys (see ProgressKey, SessionKey, DirectoryKey) are namespaced by
// the Adapter prefix before they reach a Backend.
package storage
