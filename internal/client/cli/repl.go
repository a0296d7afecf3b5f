package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = fmt.Println

// execIface defines the minimal command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	isLoggedIn() bool
	SignUp(ctx context.Context) error
	SignIn(ctx context.Context) error
	SignOut(ctx context.Context) error
	WhoAmI(ctx context.Context) error
	Photo(ctx context.Context, args []string) error
	Listen(ctx context.Context, args []string) error
	Ended(ctx context.Context, args []string) error
	Resume(ctx context.Context, args []string) error
	Progress(ctx context.Context) error
	Overall(ctx context.Context) error
	Last(ctx context.Context) error
	Next(ctx context.Context) error
	Reset(ctx context.Context, args []string) error
	ResetAll(ctx context.Context) error
	Export(ctx context.Context, args []string) error
	Import(ctx context.Context, args []string) error
	Modules(ctx context.Context) error
}

// runREPL starts a simple read–eval–print loop for the LearnKeeper CLI.
//
// It reads a line from reader, parses the first token as the command and
// dispatches to methods on 'a'. Command handlers share reader for their own
// prompts. The loop exits on EOF, on context cancellation, or when the user
// types "exit" or "quit".
//
// Prompt & Commands
//
// The prompt shows the current status (from statusFn) and accepts:
//
//	  - help                            - show available commands
//	  - signup | signin                 - (signed out) create an account / authenticate
//	  - whoami | photo <file|-> | signout - (signed in) profile and session
//	  - listen <module> <elapsed> <total> - report a playback position
//	  - ended <module>                  - the player finished a module
//	  - resume <module> <total>         - where playback should restart
//	  - progress | overall | last | next - inspect progress
//	  - reset <module> | resetall       - clear progress
//	  - export <file> | import <file>   - move progress between profiles
//	  - modules                         - list the catalog
//	  - exit | quit                     - leave the program
//
// Errors returned by command handlers are printed and the loop goes on.
func runREPL(ctx context.Context, a execIface, statusFn func() string, reader *bufio.Reader) {
	for {
		if ctx.Err() != nil {
			return
		}

		printlnFn(fmt.Sprintf("lk %s> ", statusFn()))
		line, err := reader.ReadString('\n')
		if err != nil && (!errors.Is(err, io.EOF) || line == "") {
			return
		}
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd, args := parts[0], parts[1:]

		var cmdErr error
		switch cmd {
		case "help":
			if a.isLoggedIn() {
				printlnFn("Available commands: whoami, photo, signout, listen, ended, resume, (p)rogress, overall, last, next, reset, resetall, export, import, modules, exit")
			} else {
				printlnFn("Available commands: signup, signin, listen, ended, resume, (p)rogress, overall, last, next, reset, resetall, export, import, modules, exit")
			}

		case "signup", "register":
			cmdErr = a.SignUp(ctx)
		case "signin", "login":
			cmdErr = a.SignIn(ctx)
		case "signout", "logout":
			cmdErr = a.SignOut(ctx)
		case "whoami":
			cmdErr = a.WhoAmI(ctx)
		case "photo":
			cmdErr = a.Photo(ctx, args)
		case "listen":
			cmdErr = a.Listen(ctx, args)
		case "ended":
			cmdErr = a.Ended(ctx, args)
		case "resume":
			cmdErr = a.Resume(ctx, args)
		case "p", "progress":
			cmdErr = a.Progress(ctx)
		case "overall":
			cmdErr = a.Overall(ctx)
		case "last":
			cmdErr = a.Last(ctx)
		case "next":
			cmdErr = a.Next(ctx)
		case "reset":
			cmdErr = a.Reset(ctx, args)
		case "resetall":
			cmdErr = a.ResetAll(ctx)
		case "export":
			cmdErr = a.Export(ctx, args)
		case "import":
			cmdErr = a.Import(ctx, args)
		case "modules":
			cmdErr = a.Modules(ctx)

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}

		if cmdErr != nil {
			printlnFn("Error:", cmdErr)
		}
		if err != nil {
			return
		}
	}
}
