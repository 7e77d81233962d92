package ui

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/quorum-sh/quorum/internal/api"
	"github.com/quorum-sh/quorum/internal/config"
	"github.com/quorum-sh/quorum/internal/draft"
	"github.com/quorum-sh/quorum/internal/tui"
)

var (
	// Version is set at build time
	Version = "dev"
	// Commit is set at build time
	Commit = "none"
)

// App holds the CLI application state.
type App struct {
	config *config.Config
	client *api.Client
	store  *draft.Store
	root   *cobra.Command
	debug  bool // Enable debug logging
}

// NewApp creates a new CLI application with the given config.
func NewApp(cfg *config.Config) (*App, error) {
	client, err := api.New(cfg.Server.APIURL)
	if err != nil {
		return nil, fmt.Errorf("creating api client: %w", err)
	}
	a := &App{
		config: cfg,
		client: client,
	}

	// Draft recovery is best-effort: a broken cache never blocks the app.
	store, err := draft.Open(cfg.Storage.DraftPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "warning: draft store unavailable: %v\n", err)
	} else {
		a.store = store
	}

	a.root = &cobra.Command{
		Use:   "quorum",
		Short: "Find a time everyone can make",
		Long: `Quorum plans group events from the terminal.

Running it with no arguments opens the planner: pick days and a time
window, drag over the grid to mark when you're free, and create a room.
Share the room link and watch everyone's availability converge live.`,
		RunE: func(_ *cobra.Command, _ []string) error {
			return tui.Run(a.config, a.client, a.store, a.debug)
		},
	}

	// Add global flags
	a.root.PersistentFlags().BoolVar(&a.debug, "debug", false, "Enable debug logging (logs to quorum-debug.log)")

	a.root.AddCommand(a.versionCmd())
	a.root.AddCommand(a.configCmd())
	a.root.AddCommand(a.createCmd())
	a.root.AddCommand(a.joinCmd())
	a.root.AddCommand(a.showCmd())
	a.root.AddCommand(a.deleteCmd())
	a.root.AddCommand(a.announceCmd())

	return a, nil
}

func (a *App) versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version number",
		Run: func(_ *cobra.Command, _ []string) {
			fmt.Printf("quorum %s (commit: %s)\n", Version, Commit)
		},
	}
}

func (a *App) createCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "create",
		Short: "Plan a new event",
		Long: `Open the planner on a fresh event.

Same as running quorum with no arguments, except any saved draft from an
abandoned planning session is ignored.`,
		RunE: func(_ *cobra.Command, _ []string) error {
			return tui.Run(a.config, a.client, nil, a.debug)
		},
	}
}

// Close releases the application's resources.
func (a *App) Close() error {
	if a.store != nil {
		return a.store.Close()
	}
	return nil
}

// Execute runs the CLI application.
func (a *App) Execute() error {
	return a.root.Execute()
}
