package commands

import (
	"fmt"

	"github.com/spf13/cobra"
	"proxy-log-analyzer/internal/aggregator"
)

// newTrafficCommand creates the 'traffic' subcommand summing response lengths
// Usage: proxy-log-analyzer traffic [--file access.log]
func newTrafficCommand(opts *scanOptions) *cobra.Command {
	return &cobra.Command{
		Use:     "traffic",
		Aliases: []string{"t"},
		Short:   "Sum the length of all log entries",
		Long: `Sum the length of all allowed log entries to calculate the data size passed
through the proxy, printed with binary units (KiB, MiB, ...).

Example:
  proxy-log-analyzer traffic --file access.log -p date -i '^2023-10'`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			entries, err := opts.scan(cmd)
			if err != nil {
				return err
			}

			if err := opts.printer(cmd).Traffic(aggregator.TotalTraffic(entries)); err != nil {
				return fmt.Errorf("failed to print traffic: %w", err)
			}
			return nil
		},
	}
}
