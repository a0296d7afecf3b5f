// Package session owns the user directory and the single active session.
//
// The directory maps email to User and is persisted as one blob under
// storage.DirectoryKey; the active session is persisted separately under
// storage.SessionKey so it survives restarts. A Store moves between two
// states, signed out and signed in, and tells its observers whenever the
// signed-in user changes.
package session
