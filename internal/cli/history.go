package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/renderer"
	"github.com/olekukonko/tablewriter/tw"
	"github.com/spf13/cobra"

	"github.com/roach88/exprsql/internal/store"
)

// HistoryOptions holds flags for the history command.
type HistoryOptions struct {
	*RootOptions
	Cache string
	Limit int
}

// HistoryEntry is one cached compilation in JSON output.
type HistoryEntry struct {
	Seq      int64    `json:"seq"`
	ID       string   `json:"id"`
	Hash     string   `json:"hash"`
	Dialect  string   `json:"dialect"`
	Table    string   `json:"table,omitempty"`
	Source   string   `json:"source"`
	SQL      string   `json:"sql"`
	Warnings []string `json:"warnings,omitempty"`
}

// HistoryReport is the JSON payload of history.
type HistoryReport struct {
	Entries []HistoryEntry `json:"entries"`
	Total   int            `json:"total"`
}

// NewHistoryCommand creates the history command.
func NewHistoryCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &HistoryOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List cached compilations",
		Long: `List compilations stored in a cache database, most recent first.

Text output is a markdown table.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runHistory(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Cache, "cache", "", "SQLite cache database path (required)")
	cmd.Flags().IntVarP(&opts.Limit, "limit", "n", 20, "maximum entries to show (0 for all)")
	_ = cmd.MarkFlagRequired("cache")

	return cmd
}

func runHistory(opts *HistoryOptions, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	st, err := store.Open(opts.Cache)
	if err != nil {
		return commandError(formatter, ErrCodeCache, err.Error())
	}
	defer st.Close()

	ctx := cmd.Context()
	entries, err := st.List(ctx, opts.Limit)
	if err != nil {
		return commandError(formatter, ErrCodeCache, err.Error())
	}
	total, err := st.Count(ctx)
	if err != nil {
		return commandError(formatter, ErrCodeCache, err.Error())
	}

	formatter.VerboseLog("Showing %d of %d cached compilation(s)", len(entries), total)

	if opts.Format == "json" {
		report := HistoryReport{Entries: make([]HistoryEntry, len(entries)), Total: total}
		for i, e := range entries {
			report.Entries[i] = HistoryEntry{
				Seq:      e.Seq,
				ID:       e.ID,
				Hash:     e.Hash,
				Dialect:  e.Dialect,
				Table:    e.Table,
				Source:   e.Source,
				SQL:      e.SQL,
				Warnings: e.Warnings,
			}
		}
		return formatter.Success(report)
	}

	if len(entries) == 0 {
		fmt.Fprintln(formatter.Writer, "No cached compilations")
		return nil
	}
	renderHistoryTable(formatter, entries)
	fmt.Fprintf(formatter.Writer, "\n%d of %d cached compilation(s)\n", len(entries), total)
	return nil
}

// renderHistoryTable writes entries as a markdown table.
func renderHistoryTable(f *OutputFormatter, entries []store.Entry) {
	table := tablewriter.NewTable(f.Writer,
		tablewriter.WithRenderer(renderer.NewMarkdown()),
		tablewriter.WithAlignment([]tw.Align{tw.AlignRight, tw.AlignNone, tw.AlignNone, tw.AlignNone, tw.AlignNone, tw.AlignNone}),
		tablewriter.WithHeaderAutoFormat(tw.Off),
	)
	table.Header([]string{"Seq", "Hash", "Dialect", "Table", "Predicate", "SQL"})

	for _, e := range entries {
		table.Append([]string{
			strconv.FormatInt(e.Seq, 10),
			shortHash(e.Hash),
			e.Dialect,
			e.Table,
			escapePipes(e.Source),
			escapePipes(e.SQL),
		})
	}

	table.Render()
}

func shortHash(h string) string {
	if len(h) > 12 {
		return h[:12]
	}
	return h
}

// escapePipes keeps || in predicates from splitting markdown cells.
func escapePipes(s string) string {
	return strings.ReplaceAll(s, "|", `\|`)
}
