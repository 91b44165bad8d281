package cli

import (
	"bufio"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/dmitrijs2005/csomedia/internal/client/client"
	"github.com/dmitrijs2005/csomedia/internal/client/config"
	"github.com/dmitrijs2005/csomedia/internal/client/repositories/history"
	"github.com/dmitrijs2005/csomedia/internal/logging"
)

// maxMessageBytes matches the server's default gRPC message ceiling.
const maxMessageBytes = 80 << 20

// ErrUsage is returned for malformed command lines.
var ErrUsage = errors.New("usage error")

type App struct {
	config  *config.Config
	client  client.Client
	history history.Repository
	logger  logging.Logger
	reader  *bufio.Reader
	out     io.Writer
	errOut  io.Writer
	db      *sql.DB
}

func NewApp(ctx context.Context, c *config.Config) (*App, error) {

	logger := logging.New(os.Stderr, "text", c.LogLevel)

	token := c.AccessToken
	if token == "" && isTerminal(int(os.Stdin.Fd())) {
		t, err := GetToken(os.Stderr)
		if err != nil {
			return nil, fmt.Errorf("read token: %w", err)
		}
		token = t
	}

	apiClient, err := client.NewMediaClientService(c.ServerEndpointAddr, token, maxMessageBytes)
	if err != nil {
		return nil, err
	}

	db, err := history.Open(ctx, c.HistoryDSN)
	if err != nil {
		_ = apiClient.Close()
		return nil, fmt.Errorf("error initializing history database: %w", err)
	}

	return &App{
		config:  c,
		client:  apiClient,
		history: history.NewSQLiteRepository(db),
		logger:  logger,
		reader:  bufio.NewReader(os.Stdin),
		out:     os.Stdout,
		errOut:  os.Stderr,
		db:      db,
	}, nil
}

// Close releases the connection and the history database.
func (a *App) Close() error {
	var errs []error
	if a.client != nil {
		errs = append(errs, a.client.Close())
	}
	if a.db != nil {
		errs = append(errs, a.db.Close())
	}
	return errors.Join(errs...)
}

// Run executes the sub-command in args and returns the process exit code.
func (a *App) Run(ctx context.Context, args []string) int {
	defer func() {
		if err := a.Close(); err != nil {
			a.logger.Warn(ctx, "close failed", "error", err)
		}
	}()

	if err := runCommand(ctx, a, args, a.out); err != nil {
		fmt.Fprintln(a.errOut, "error:", err)
		if errors.Is(err, ErrUsage) {
			return 2
		}
		return 1
	}
	return 0
}
