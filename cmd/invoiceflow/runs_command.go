package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"invoiceflow/internal/config"
	"invoiceflow/internal/runlog"
)

func newRunsCommand(configFlag *string) *cobra.Command {
	var runLogFile string

	cmd := &cobra.Command{
		Use:   "runs",
		Short: "List recorded pipeline runs",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, _, err := config.Load(*configFlag)
			if err != nil {
				return err
			}
			if runLogFile != "" {
				cfg.Paths.RunLogFile = runLogFile
			}

			journal := runlog.NewJournal(cfg.Paths.RunLogFile)
			if journal == nil {
				fmt.Fprintln(cmd.OutOrStdout(), "No run log configured. Set paths.run_log_file or pass --run-log-file.")
				return nil
			}
			entries, err := journal.Read()
			if err != nil {
				return err
			}
			if len(entries) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No runs recorded yet.")
				return nil
			}

			rows := make([][]string, 0, len(entries))
			for _, e := range entries {
				rows = append(rows, []string{
					e.RunID,
					e.Timestamp.Format(time.RFC3339),
					e.Input,
					fmt.Sprintf("%d/%d", e.Succeeded, e.FilesProcessed),
					fmt.Sprintf("%.1fs", e.DurationSeconds),
				})
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable([]string{"Run", "Timestamp", "Input", "Succeeded", "Duration"}, rows, 4, 5))
			return nil
		},
	}

	cmd.Flags().StringVar(&runLogFile, "run-log-file", "", "Path to the run log file")
	return cmd
}
