// Package cli provides the interactive LearnKeeper command-line client.
//
// It wires configuration, storage, the session and progress stores, and an
// interactive REPL that plays the part of the sign-in form and the audio
// player: commands report playback positions, mark modules as finished,
// and show, reset, export or import progress.
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
// See App and runREPL for details.
package cli
