package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/acrane/todo/internal/config"
	"github.com/acrane/todo/internal/remote"
	"github.com/acrane/todo/internal/store"
)

var (
	importForce bool
	resetYes    bool
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "Print all stored tasks",
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := openStore()
		if err != nil {
			return err
		}
		defer st.Close()

		tasks, err := st.FetchAll()
		if err != nil {
			return err
		}
		for _, t := range tasks {
			check := " "
			if t.Completed {
				check = "x"
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%4d [%s] %s\n", t.ID, check, t.Todo)
		}
		return nil
	},
}

var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Fetch the remote todos and store them",
	Long: `Fetches the remote task list and bulk-inserts it into the local store.

The store must be empty, since imported ids could collide with local ones;
pass --force to wipe it first.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		st, err := store.Open(cfg.Database, nil)
		if err != nil {
			return fmt.Errorf("open store: %w", err)
		}
		defer st.Close()

		if !st.IsEmpty() {
			if !importForce {
				return fmt.Errorf("store is not empty; pass --force to replace its contents")
			}
			st.DeleteAll()
		}

		tasks, err := remote.New(cfg.Endpoint, nil).GetTodos(cmd.Context())
		if err != nil {
			return fmt.Errorf("fetch todos: %w", err)
		}
		if err := st.InsertMany(tasks); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Imported %d tasks\n", len(tasks))
		return nil
	},
}

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Delete every stored task",
	RunE: func(cmd *cobra.Command, args []string) error {
		if !resetYes {
			return fmt.Errorf("refusing to delete all tasks without --yes")
		}
		st, err := openStore()
		if err != nil {
			return err
		}
		defer st.Close()

		st.DeleteAll()
		fmt.Fprintln(cmd.OutOrStdout(), "All tasks deleted")
		return nil
	},
}

func openStore() (*store.Store, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	st, err := store.Open(cfg.Database, nil)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}
	return st, nil
}

func init() {
	importCmd.Flags().BoolVar(&importForce, "force", false, "replace existing tasks")
	resetCmd.Flags().BoolVar(&resetYes, "yes", false, "confirm deletion")

	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(importCmd)
	rootCmd.AddCommand(resetCmd)

	// Keep subcommand errors off the TUI log path; they go to stderr.
	rootCmd.SetErr(os.Stderr)
}
