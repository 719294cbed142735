package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var dropForce bool

// dropCmd deletes the history store.
var dropCmd = &cobra.Command{
	Use:   "drop",
	Short: "Delete the history store",
	Long:  "Permanently delete the season history and the stored last run. Every recorded snapshot will be lost; re-run 'poolstats record' per season to rebuild.",
	Args:  cobra.NoArgs,
	RunE:  runDrop,
}

func init() {
	dropCmd.Flags().BoolVarP(&dropForce, "force", "f", false, "skip confirmation prompt")
}

func runDrop(cmd *cobra.Command, args []string) error {
	targets := []string{historyPath}
	if backend == backendJSON {
		targets = append(targets, lastRunPath())
	} else {
		targets = append(targets, historyPath+"-wal", historyPath+"-shm")
	}
	if !dropForce {
		for _, t := range targets {
			fmt.Fprintf(os.Stderr, "This will permanently delete: %s\n", t)
		}
		fmt.Fprintf(os.Stderr, "Re-run with --force to confirm.\n")
		return nil
	}
	for _, t := range targets {
		if err := os.Remove(t); err != nil {
			if os.IsNotExist(err) {
				fmt.Fprintf(os.Stdout, "%s does not exist, nothing to drop.\n", t)
				continue
			}
			return fmt.Errorf("remove %s: %w", t, err)
		}
		fmt.Fprintf(os.Stdout, "Deleted: %s\n", t)
	}
	return nil
}
