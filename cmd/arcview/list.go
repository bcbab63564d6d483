package main

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"charm.land/lipgloss/v2"
	"charm.land/lipgloss/v2/table"
	"github.com/spf13/cobra"

	"arcview/internal/app"
	"arcview/internal/state"
)

var errStatsNeedHistory = errors.New("--stats reads the history database, which is disabled")

func newListCmd(f *flags) *cobra.Command {
	var stats bool
	cmd := &cobra.Command{
		Use:   "list",
		Short: "Print the puzzle identifiers of the configured source",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := f.config(cmd)
			if err != nil {
				return err
			}
			if stats && !cfg.History {
				return errStatsNeedHistory
			}
			ids, err := app.NewStore(cfg).ListIdentifiers(cmd.Context())
			if err != nil {
				return err
			}
			if !stats {
				for _, id := range ids {
					fmt.Fprintln(cmd.OutOrStdout(), id)
				}
				return nil
			}
			progress, summary, err := loadProgress(cmd.Context(), cfg.StatePath)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), progressTable(ids, progress))
			fmt.Fprintf(cmd.OutOrStdout(), "%d sessions, %d visits, %d/%d puzzles solved\n",
				summary.Sessions, summary.Visits, summary.Solved, len(ids))
			return nil
		},
	}
	cmd.Flags().BoolVar(&stats, "stats", false, "include visit and submission counts from the history database")
	return cmd
}

func loadProgress(ctx context.Context, path string) (map[string]state.PuzzleProgress, state.Summary, error) {
	db, err := state.NewSQLite(path)
	if err != nil {
		return nil, state.Summary{}, err
	}
	defer db.Close()
	if err := db.EnsureSchema(ctx); err != nil {
		return nil, state.Summary{}, err
	}
	progress, err := db.GetProgressMap(ctx)
	if err != nil {
		return nil, state.Summary{}, err
	}
	summary, err := db.GetSummary(ctx)
	return progress, summary, err
}

func progressTable(ids []string, progress map[string]state.PuzzleProgress) string {
	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("PUZZLE", "VISITS", "ATTEMPTS", "SOLVED")
	for _, id := range ids {
		p := progress[id]
		solved := ""
		if p.Passes > 0 {
			solved = "yes"
		}
		t.Row(id, strconv.Itoa(p.Visits), strconv.Itoa(p.Attempts), solved)
	}
	return t.String()
}
