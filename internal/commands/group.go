package commands

import (
	"github.com/spf13/cobra"
	"proxy-log-analyzer/internal/aggregator"
	"proxy-log-analyzer/internal/config"
	"proxy-log-analyzer/internal/models"
)

// newGroupCommand creates the 'group' subcommand counting entries per parameter value
// Usage: proxy-log-analyzer group <parameter> [--top N]
func newGroupCommand(opts *scanOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "group <parameter>",
		Aliases: []string{"g"},
		Short:   "Group log entries by a parameter and count each group",
		Long: `Group log entries using the parameter specified. After grouping the number of
items of each group and its share of all entries are displayed, highest count
first. Groups with equal counts keep the order in which they first appeared.

With --top only the first N groups are printed; percentages are still computed
against all entries.

Parameters: time, date, agent, client, status, method, schema, req, ref

Example:
  proxy-log-analyzer group client --file access.log --top 10`,
		Args:      cobra.ExactArgs(1),
		ValidArgs: models.Tokens(),
		RunE: func(cmd *cobra.Command, args []string) error {
			parameter, err := models.ParseLogParameter(args[0])
			if err != nil {
				return err
			}

			entries, err := opts.scan(cmd)
			if err != nil {
				return err
			}

			report := aggregator.GroupBy(entries, parameter, opts.settings.Top)
			return opts.printer(cmd).Groups(report)
		},
	}

	cmd.Flags().IntP(config.KeyTop, "t", 0, config.TopDescription)

	return cmd
}
