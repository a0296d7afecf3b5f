// Package progress tracks how far a learner got through each module of the
// catalog.
//
// A Store holds one record per catalog module for the user it is scoped to
// (or the anonymous bucket) and writes the whole set through to storage on
// every mutation. Completion is a ratchet: once a module reached 100% only
// an explicit reset brings it below that again.
package progress
