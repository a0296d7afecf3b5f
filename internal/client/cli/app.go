package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/dmitrijs2005/learnkeeper/internal/client/config"
	"github.com/dmitrijs2005/learnkeeper/internal/credential"
	"github.com/dmitrijs2005/learnkeeper/internal/logging"
	"github.com/dmitrijs2005/learnkeeper/internal/progress"
	"github.com/dmitrijs2005/learnkeeper/internal/session"
	"github.com/dmitrijs2005/learnkeeper/internal/storage"
)

type App struct {
	config   *config.Config
	storage  *storage.Adapter
	sessions *session.Store
	progress *progress.Store
	log      logging.Logger
	reader   *bufio.Reader
	out      io.Writer
}

// NewApp opens the configured storage backend and builds the stores on top
// of it. The caller owns the App and must Close it.
func NewApp(ctx context.Context, c *config.Config, logger logging.Logger) (*App, error) {
	backend, err := openBackend(ctx, c)
	if err != nil {
		return nil, fmt.Errorf("open %s storage: %w", c.StorageBackend, err)
	}

	hasher, err := credential.New(credential.DefaultParams)
	if err != nil {
		_ = backend.Close()
		return nil, err
	}

	st := storage.NewAdapter(backend, storage.NewMemoryBackend(0), logger, storage.WithPrefix(c.KeyPrefix))
	return newApp(ctx, c, st, hasher, logger, os.Stdin, os.Stdout), nil
}

func newApp(ctx context.Context, c *config.Config, st *storage.Adapter, hasher session.Hasher,
	logger logging.Logger, in io.Reader, out io.Writer) *App {

	sessions := session.NewStore(ctx, st, hasher, logger,
		session.WithDelay(c.SignInDelay),
		session.WithAttemptLimit(c.SignInAttempts, time.Minute),
		session.WithMaxPhotoBytes(c.MaxPhotoBytes),
	)
	tracker := progress.NewStore(ctx, st, sessions.UserID(), logger,
		progress.WithCatalog(progress.NewCatalog(c.ModuleCount)),
	)

	// progress follows whoever is signed in
	sessions.OnChange(func(userID string) {
		tracker.Scope(ctx, userID)
	})

	return &App{
		config:   c,
		storage:  st,
		sessions: sessions,
		progress: tracker,
		log:      logger.With("component", "cli"),
		reader:   bufio.NewReader(in),
		out:      out,
	}
}

// Run starts the REPL and blocks until the user leaves.
func (a *App) Run(ctx context.Context) {
	fmt.Fprintln(a.out, "Welcome to LearnKeeper (type 'help' for commands)")
	runREPL(ctx, a, a.getStatus, a.reader)
}

func (a *App) Close() error {
	return a.storage.Close()
}

func (a *App) isLoggedIn() bool {
	_, ok := a.sessions.Current()
	return ok
}

func (a *App) getStatus() string {
	who := "guest"
	if s, ok := a.sessions.Current(); ok {
		who = s.Email
	}
	return fmt.Sprintf("(%s %d%%)", who, a.progress.Overall())
}
