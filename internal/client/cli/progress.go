package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"text/tabwriter"
	"time"

	"github.com/dmitrijs2005/learnkeeper/internal/progress"
)

func parseModule(arg string) (int, error) {
	id, err := strconv.Atoi(arg)
	if err != nil {
		return 0, fmt.Errorf("module must be a number, got %q", arg)
	}
	return id, nil
}

// parseSeconds accepts plain seconds ("81.5") or a Go duration ("1m21s").
func parseSeconds(arg string) (time.Duration, error) {
	if secs, err := strconv.ParseFloat(arg, 64); err == nil {
		return time.Duration(secs * float64(time.Second)), nil
	}
	d, err := time.ParseDuration(arg)
	if err != nil {
		return 0, fmt.Errorf("invalid time %q", arg)
	}
	return d, nil
}

func (a *App) printModule(p progress.ModuleProgress) {
	title := ""
	if m, ok := a.progress.Catalog().Lookup(p.ModuleID); ok {
		title = m.Title
	}
	status := ""
	if p.PermanentlyCompleted {
		status = " (completed)"
	}
	fmt.Fprintf(a.out, "Module %d %s: %d%%%s\n", p.ModuleID, title, p.ProgressPercentage, status)
}

// Listen reports a playback position: listen <module> <elapsed> <total>.
func (a *App) Listen(ctx context.Context, args []string) error {
	if len(args) != 3 {
		return errors.New("usage: listen <module> <elapsed> <total>")
	}
	id, err := parseModule(args[0])
	if err != nil {
		return err
	}
	elapsed, err := parseSeconds(args[1])
	if err != nil {
		return err
	}
	total, err := parseSeconds(args[2])
	if err != nil {
		return err
	}

	rec, err := a.progress.UpdateAudioProgress(ctx, id, progress.PercentFromPlayback(elapsed, total))
	if err != nil {
		return err
	}
	a.printModule(rec)
	return nil
}

// Ended is the player's terminal signal: ended <module>.
func (a *App) Ended(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return errors.New("usage: ended <module>")
	}
	id, err := parseModule(args[0])
	if err != nil {
		return err
	}

	rec, err := a.progress.MarkAudioCompleted(ctx, id)
	if err != nil {
		return err
	}
	a.printModule(rec)
	if next, ok := a.progress.NextIncomplete(id); ok {
		fmt.Fprintf(a.out, "Continue to Module %d\n", next)
	} else if a.progress.Overall() >= 100 {
		fmt.Fprintln(a.out, "All modules completed!")
	}
	return nil
}

// Resume tells where playback of a module should start: resume <module> <total>.
func (a *App) Resume(ctx context.Context, args []string) error {
	if len(args) != 2 {
		return errors.New("usage: resume <module> <total>")
	}
	id, err := parseModule(args[0])
	if err != nil {
		return err
	}
	total, err := parseSeconds(args[1])
	if err != nil {
		return err
	}
	if !a.progress.Catalog().Contains(id) {
		return fmt.Errorf("%w: %d", progress.ErrUnknownModule, id)
	}

	rec := a.progress.Module(id)
	pos := progress.ResumePosition(rec.ProgressPercentage, total)
	if pos == 0 {
		fmt.Fprintf(a.out, "Module %d: start from the beginning\n", id)
		return nil
	}
	fmt.Fprintf(a.out, "Module %d: resume at %s\n", id, pos.Round(time.Second))
	return nil
}

// Progress prints every module of the catalog.
func (a *App) Progress(ctx context.Context) error {
	snap := a.progress.Snapshot()

	tw := tabwriter.NewWriter(a.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tMODULE\tPROGRESS\tCOMPLETED\tLAST ACCESSED")
	for _, m := range a.progress.Catalog().Modules() {
		rec := snap[m.ID]
		last := "-"
		if !rec.LastAccessed.IsZero() {
			last = rec.LastAccessed.Local().Format("2006-01-02 15:04")
		}
		fmt.Fprintf(tw, "%d\t%s\t%d%%\t%t\t%s\n", m.ID, m.Title, rec.ProgressPercentage, rec.PermanentlyCompleted, last)
	}
	return tw.Flush()
}

func (a *App) Overall(ctx context.Context) error {
	fmt.Fprintf(a.out, "Overall progress: %d%%\n", a.progress.Overall())
	return nil
}

// Last prints the most recently accessed module.
func (a *App) Last(ctx context.Context) error {
	rec, ok := a.progress.LastAccessed()
	if !ok {
		fmt.Fprintln(a.out, "Nothing started yet")
		return nil
	}
	a.printModule(rec)
	return nil
}

// Next suggests the module to continue with.
func (a *App) Next(ctx context.Context) error {
	current := 0
	if rec, ok := a.progress.LastAccessed(); ok {
		current = rec.ModuleID
		if !rec.Completed() {
			fmt.Fprintf(a.out, "Continue Module %d\n", current)
			return nil
		}
	}

	next, ok := a.progress.NextIncomplete(current)
	if !ok {
		fmt.Fprintln(a.out, "All modules completed!")
		return nil
	}
	fmt.Fprintf(a.out, "Continue to Module %d\n", next)
	return nil
}

func (a *App) Reset(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return errors.New("usage: reset <module>")
	}
	id, err := parseModule(args[0])
	if err != nil {
		return err
	}
	if err := a.progress.Reset(ctx, id); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Module %d reset\n", id)
	return nil
}

func (a *App) ResetAll(ctx context.Context) error {
	a.progress.ResetAll(ctx)
	fmt.Fprintln(a.out, "All progress reset")
	return nil
}

// Modules lists the catalog with its resources.
func (a *App) Modules(ctx context.Context) error {
	for _, m := range a.progress.Catalog().Modules() {
		fmt.Fprintf(a.out, "%d. %s\n", m.ID, m.Title)
		for _, r := range m.Resources {
			fmt.Fprintf(a.out, "   [%s] %s\n", r.Kind, r.Title)
		}
	}
	return nil
}

// Export writes the progress export to a file: export <file>.
func (a *App) Export(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return errors.New("usage: export <file>")
	}
	data, err := a.progress.Export()
	if err != nil {
		return err
	}
	if err := os.WriteFile(args[0], data, 0o600); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Progress exported to", args[0])
	return nil
}

// Import merges a progress export from a file: import <file>.
func (a *App) Import(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return errors.New("usage: import <file>")
	}
	data, err := os.ReadFile(args[0])
	if err != nil {
		return err
	}
	if err := a.progress.Import(ctx, data); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Progress imported")
	return nil
}
