package main

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/acrane/todo/internal/config"
	"github.com/acrane/todo/internal/idalloc"
	"github.com/acrane/todo/internal/logging"
	"github.com/acrane/todo/internal/presenter"
	"github.com/acrane/todo/internal/remote"
	"github.com/acrane/todo/internal/store"
	"github.com/acrane/todo/internal/syncer"
	"github.com/acrane/todo/internal/ui"
)

// Version information set via ldflags
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

var rootCmd = &cobra.Command{
	Use:   "todo",
	Short: "A terminal todo list",
	Long: `A terminal todo list backed by a local SQLite store.

On first run the list is seeded from a remote todos endpoint; after that the
local store is the source of truth and the network is never consulted.`,
	Version:      fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date),
	SilenceUsage: true,
	RunE:         runTUI,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func runTUI(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logw := logging.File(cfg.LogFile)

	st, err := store.Open(cfg.Database, logging.Component(logw, "store"))
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer st.Close()
	logging.Component(logw, "main").Printf("database at %s", st.Path())

	client := remote.New(cfg.Endpoint, nil)
	manager := syncer.New(st, client, logging.Component(logw, "sync"))
	ids := idalloc.New(st, logging.Component(logw, "idalloc"))
	pres := presenter.New(st, ids, manager, nil, logging.Component(logw, "presenter"))

	app := ui.NewApp(pres)
	p := tea.NewProgram(app, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("run ui: %w", err)
	}

	// Let fire-and-forget writes land before the process exits.
	pres.Wait()
	manager.Wait()
	return nil
}
