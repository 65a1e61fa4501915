// Package commands implements the CLI commands for the proxy log analyzer
package commands

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"
	"proxy-log-analyzer/internal/config"
	"proxy-log-analyzer/internal/filter"
	"proxy-log-analyzer/internal/models"
	"proxy-log-analyzer/internal/output"
	"proxy-log-analyzer/internal/parser"
	"proxy-log-analyzer/internal/source"
)

// scanOptions carries the settings resolved before a subcommand runs
type scanOptions struct {
	cfgFile   string
	settings  config.Settings
	parameter *models.LogParameter
}

// NewRootCommand creates the root command with the scan flags shared by all subcommands
// Usage: proxy-log-analyzer [--file access.log] [-p status -i '^5'] <list|group|traffic|sql>
func NewRootCommand() *cobra.Command {
	opts := &scanOptions{}

	cmd := &cobra.Command{
		Use:   config.AppName,
		Short: "A CLI tool for analyzing nginx proxy access logs",
		Long: `Proxy Log Analyzer parses multi-line nginx proxy access records, each closed by a
"pattern: NGINXPROXYACCESS" line, and reports on them.

Entries can be filtered with include/exclude regular expressions applied to one
parameter (--parameter), then listed, grouped with counts and percentages,
summed into total traffic, or queried with read-only SQL.

Parameters: time, date, agent, client, status, method, schema, req, ref

Examples:
  proxy-log-analyzer list --file access.log
  proxy-log-analyzer group status --file "logs/**/*.log" --top 5
  cat access.log | proxy-log-analyzer traffic -p method -i '^GET$'
  proxy-log-analyzer sql -f access.log "SELECT clientip, COUNT(*) FROM entries GROUP BY clientip"`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return opts.resolve(cmd)
		},
	}

	flags := cmd.PersistentFlags()
	flags.StringVar(&opts.cfgFile, "config", "", config.ConfigDescription)
	flags.StringArrayP(config.KeyFiles, "f", nil, config.FileDescription)
	flags.StringP(config.KeyInclude, "i", "", config.IncludeDescription)
	flags.StringP(config.KeyExclude, "e", "", config.ExcludeDescription)
	flags.StringP(config.KeyParameter, "p", "", config.ParameterDescription)
	flags.StringP(config.KeyOutput, "o", config.DefaultOutputFormat, config.OutputDescription)
	flags.BoolP(config.KeyVerbose, "v", false, config.VerboseDescription)

	cmd.RegisterFlagCompletionFunc(config.KeyParameter, completeParameters)
	cmd.RegisterFlagCompletionFunc(config.KeyOutput, func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		return []string{config.FormatTable, config.FormatJSON, config.FormatYAML}, cobra.ShellCompDirectiveNoFileComp
	})

	cmd.AddCommand(newListCommand(opts))
	cmd.AddCommand(newGroupCommand(opts))
	cmd.AddCommand(newTrafficCommand(opts))
	cmd.AddCommand(newSQLCommand(opts))

	return cmd
}

// resolve merges flags, environment and config file into opts and installs the logger
func (o *scanOptions) resolve(cmd *cobra.Command) error {
	v, err := config.NewViper(o.cfgFile)
	if err != nil {
		return err
	}

	if err := v.BindPFlags(cmd.Flags()); err != nil {
		return fmt.Errorf("failed to bind flags: %w", err)
	}

	settings, err := config.Load(v)
	if err != nil {
		return err
	}
	o.settings = settings

	level := slog.LevelWarn
	if settings.Verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level})))

	o.parameter = nil
	if settings.Parameter != "" {
		p, err := models.ParseLogParameter(settings.Parameter)
		if err != nil {
			return err
		}
		o.parameter = &p
	}

	return nil
}

// scan reads the configured inputs and returns the entries passing the filter
func (o *scanOptions) scan(cmd *cobra.Command) ([]models.LogEntry, error) {
	reader, err := source.Open(o.settings.Files, cmd.InOrStdin())
	if err != nil {
		return nil, fmt.Errorf("failed to open input: %w", err)
	}
	defer reader.Close()

	criteria := filter.New(o.settings.Include, o.settings.Exclude)
	entries := parser.Convert(reader.Lines(), criteria, o.parameter)

	if err := reader.Err(); err != nil {
		slog.Warn("input read stopped early, reporting entries parsed so far", "error", err)
	}

	slog.Debug("scan complete",
		"files", reader.Paths(),
		"entries", len(entries),
		"include", criteria.Include(),
		"exclude", criteria.Exclude())

	return entries, nil
}

// printer returns the output printer for the resolved format
func (o *scanOptions) printer(cmd *cobra.Command) *output.Printer {
	return output.NewPrinter(cmd.OutOrStdout(), o.settings.Output)
}

// completeParameters offers the parameter tokens for shell completion
func completeParameters(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	return models.Tokens(), cobra.ShellCompDirectiveNoFileComp
}
