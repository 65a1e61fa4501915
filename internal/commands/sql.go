package commands

import (
	"bufio"
	"fmt"
	"io"
	"log/slog"
	"regexp"
	"strings"

	"github.com/spf13/cobra"
	"proxy-log-analyzer/internal/config"
	"proxy-log-analyzer/internal/database"
	"proxy-log-analyzer/internal/output"
)

// newSQLCommand creates the 'sql' subcommand running read-only queries over the parsed entries
// Usage: proxy-log-analyzer sql --file access.log ["SELECT ..."]
func newSQLCommand(opts *scanOptions) *cobra.Command {
	return &cobra.Command{
		Use:     "sql [query]",
		Aliases: []string{"q"},
		Short:   "Execute read-only SQL queries against the parsed entries",
		Long: `Load the allowed entries into an in-memory SQLite table and execute SQL queries
against it. Nothing is written to disk.

Table entries:
  line INTEGER, timestamp TEXT (RFC 3339, NULL if unparseable), date TEXT,
  agent TEXT, clientip TEXT, status INTEGER, method TEXT, schema TEXT,
  length INTEGER, request TEXT, referrer TEXT

SECURITY: Only read-only queries are allowed. Write operations (INSERT, UPDATE, DELETE,
CREATE, DROP, etc.) are blocked.

Example queries:
  # Bytes served per client
  SELECT clientip, SUM(length) AS bytes FROM entries GROUP BY clientip ORDER BY bytes DESC;

  # Server errors per hour
  SELECT strftime('%Y-%m-%d %H:00', timestamp) AS hour, COUNT(*) FROM entries
  WHERE status >= 500 GROUP BY hour;

Without a query an interactive prompt is started; this requires --file input
because standard input is then used for the prompt.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var query string
			if len(args) == 1 {
				query = args[0]
			}
			return runSQLCommand(cmd, opts, query)
		},
	}
}

// runSQLCommand executes the query logic
func runSQLCommand(cmd *cobra.Command, opts *scanOptions, query string) error {
	if query == "" && len(opts.settings.Files) == 0 {
		return fmt.Errorf("interactive mode requires --file input, standard input is used for the prompt")
	}

	if query != "" {
		if err := ValidateReadOnlyQuery(query); err != nil {
			return fmt.Errorf("query validation failed: %w", err)
		}
	}

	entries, err := opts.scan(cmd)
	if err != nil {
		return err
	}

	db, err := database.Initialize(config.InMemoryDatabase)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer db.Close()

	count, err := database.InsertLogEntries(db, entries)
	if err != nil {
		return fmt.Errorf("failed to insert log entries: %w", err)
	}
	slog.Debug("entries loaded", "table", config.EntriesTableName, "count", count)

	printer := opts.printer(cmd)

	if query != "" {
		return executeSingleQuery(db, printer, query)
	}

	return enterInteractiveMode(db, printer, cmd.InOrStdin(), cmd.OutOrStdout(), count)
}

// executeSingleQuery runs a single SQL query and displays results
func executeSingleQuery(db database.DB, printer *output.Printer, query string) error {
	slog.Debug("executing query", "query", query)

	result, err := database.ExecuteQuery(db, query)
	if err != nil {
		return fmt.Errorf("query execution failed: %w", err)
	}

	return printer.Query(result)
}

// enterInteractiveMode reads queries line by line until exit, quit or end of input
func enterInteractiveMode(db database.DB, printer *output.Printer, in io.Reader, out io.Writer, count int64) error {
	fmt.Fprintf(out, "Loaded %d entries into table '%s'.\n", count, config.EntriesTableName)
	fmt.Fprintln(out, "Interactive SQL query mode. Type 'exit' or 'quit' to exit.")
	fmt.Fprintln(out, "SECURITY: Only read-only queries (SELECT, WITH, EXPLAIN) are allowed.")
	fmt.Fprintln(out, "Example queries:")
	fmt.Fprintln(out, "  SELECT status, COUNT(*) FROM entries GROUP BY status;")
	fmt.Fprintln(out, "  SELECT request FROM entries WHERE length > 1048576;")
	fmt.Fprintln(out)

	scanner := bufio.NewScanner(in)

	for {
		fmt.Fprint(out, "sql> ")

		if !scanner.Scan() {
			break
		}

		input := strings.TrimSpace(scanner.Text())

		if input == "exit" || input == "quit" {
			fmt.Fprintln(out, "Goodbye!")
			break
		}

		if input == "" {
			continue
		}

		if err := ValidateReadOnlyQuery(input); err != nil {
			fmt.Fprintf(out, "Error: %v\n\n", err)
			continue
		}

		if err := executeSingleQuery(db, printer, input); err != nil {
			fmt.Fprintf(out, "Error: %v\n\n", err)
			continue
		}
		fmt.Fprintln(out)
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("error reading input: %w", err)
	}

	return nil
}

var (
	singleLineComment = regexp.MustCompile(`--.*`)
	multiLineComment  = regexp.MustCompile(`(?s)/\*.*?\*/`)

	// allowedPrefixes are the read-only statement kinds
	allowedPrefixes = []string{"select", "with", "explain"}

	// allowedPragmas are PRAGMA statements that only read state
	allowedPragmas = []string{
		"pragma table_info(",
		"pragma index_list(",
		"pragma index_info(",
		"pragma schema_version",
		"pragma user_version",
		"pragma database_list",
		"pragma compile_options",
	}

	// forbiddenKeywords indicate write or transaction control operations
	forbiddenKeywords = []string{
		"insert", "update", "delete", "drop", "create", "alter",
		"truncate", "replace", "merge", "upsert",
		"attach", "detach", "vacuum", "reindex",
		"begin", "commit", "rollback", "savepoint",
	}

	forbiddenKeywordPatterns = compileKeywordPatterns(forbiddenKeywords)
)

// compileKeywordPatterns builds whole-word matchers for keywords
func compileKeywordPatterns(keywords []string) map[string]*regexp.Regexp {
	patterns := make(map[string]*regexp.Regexp, len(keywords))
	for _, keyword := range keywords {
		patterns[keyword] = regexp.MustCompile(`\b` + regexp.QuoteMeta(keyword) + `\b`)
	}
	return patterns
}

// ValidateReadOnlyQuery ensures the SQL query is a single read-only statement
// Prevents data modification, schema changes, attaching files and transaction control
func ValidateReadOnlyQuery(query string) error {
	normalizedQuery := strings.TrimSpace(strings.ToLower(query))
	normalizedQuery = singleLineComment.ReplaceAllString(normalizedQuery, "")
	normalizedQuery = multiLineComment.ReplaceAllString(normalizedQuery, "")
	normalizedQuery = strings.TrimSpace(normalizedQuery)

	if normalizedQuery == "" {
		return fmt.Errorf("empty query")
	}

	queryStartsWithAllowed := false
	for _, prefix := range allowedPrefixes {
		if strings.HasPrefix(normalizedQuery, prefix) {
			queryStartsWithAllowed = true
			break
		}
	}

	if strings.HasPrefix(normalizedQuery, "pragma") {
		pragmaAllowed := false
		for _, allowedPragma := range allowedPragmas {
			if strings.HasPrefix(normalizedQuery, allowedPragma) {
				pragmaAllowed = true
				break
			}
		}

		if !pragmaAllowed {
			return fmt.Errorf("PRAGMA statement not allowed. Only read-only PRAGMA statements are permitted")
		}
		queryStartsWithAllowed = true
	}

	if !queryStartsWithAllowed {
		return fmt.Errorf("only read-only queries are allowed (SELECT, WITH, EXPLAIN, and read-only PRAGMA)")
	}

	// Whole words only, so columns such as "updated" or "created_at" stay usable
	for _, keyword := range forbiddenKeywords {
		if forbiddenKeywordPatterns[keyword].MatchString(normalizedQuery) {
			return fmt.Errorf("forbidden keyword '%s' detected. Only read-only operations are allowed", strings.ToUpper(keyword))
		}
	}

	// One statement plus the empty remainder after a trailing semicolon
	statements := strings.Split(normalizedQuery, ";")
	if len(statements) > 2 || (len(statements) == 2 && strings.TrimSpace(statements[1]) != "") {
		return fmt.Errorf("multiple statements not allowed. Please execute one query at a time")
	}

	return nil
}
