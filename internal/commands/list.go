package commands

import (
	"github.com/spf13/cobra"
)

// newListCommand creates the 'list' subcommand printing every allowed entry
// Usage: proxy-log-analyzer list [--file access.log]
func newListCommand(opts *scanOptions) *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"l"},
		Short:   "List log entries as a table",
		Long: `Parse the input and print one row per entry with its ordinal, time, agent,
client IP, status, method, schema, length, request and referrer.

Nothing is printed when no entry passes the filter.

Example:
  proxy-log-analyzer list --file access.log -p status -e '^2'`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			entries, err := opts.scan(cmd)
			if err != nil {
				return err
			}
			return opts.printer(cmd).Entries(entries)
		},
	}
}
