package cli

import (
	"context"
	"fmt"
	"io"
	"runtime"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

// CompileOptions holds flags for the compile command.
type CompileOptions struct {
	*RootOptions
	SourceOptions
	Dialect    string // dialect name
	QuoteNames bool   // quote column names
	Workers    int    // concurrent compilations
	Cache      string // cache database path
}

// CompileReport is the JSON payload of compile and watch.
type CompileReport struct {
	Results []PredicateResult `json:"results"`
	Failed  int               `json:"failed"`
}

// NewCompileCommand creates the compile command.
func NewCompileCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &CompileOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "compile [predicate...]",
		Short: "Compile predicates to SQL WHERE fragments",
		Long: `Compile Go-syntax predicates to SQL for the selected dialect.

Predicates come from arguments and from a YAML batch file (--file). With
--schema and --table, columns are typed so that enum comparisons and
boolean columns render correctly. With --cache, results are memoized in a
SQLite database keyed by the predicate's canonical hash.`,
		Example: `  exprsql compile --schema people.yaml --table people 'x.IsActive && x.Age > 5'
  exprsql compile --var limit=18 'x.Age >= limit'
  exprsql compile --file predicates.yaml --workers 4 --cache cache.db`,
		SilenceUsage:  true, // Don't print usage on errors - we handle our own error output
		SilenceErrors: true, // Don't print errors - we handle our own error output
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCompile(opts, args, cmd)
		},
	}

	opts.SourceOptions.addFlags(cmd)
	addDialectFlags(cmd, opts)

	return cmd
}

func addDialectFlags(cmd *cobra.Command, opts *CompileOptions) {
	cmd.Flags().StringVar(&opts.Dialect, "dialect", "firebird", "SQL dialect (firebird|generic)")
	cmd.Flags().BoolVar(&opts.QuoteNames, "quote-names", false, "quote column names")
	cmd.Flags().IntVarP(&opts.Workers, "workers", "w", runtime.GOMAXPROCS(0), "predicates compiled concurrently")
	cmd.Flags().StringVar(&opts.Cache, "cache", "", "SQLite cache database path")
}

func (o *CompileOptions) sessionConfig() sessionConfig {
	return sessionConfig{
		source:     &o.SourceOptions,
		dialect:    o.Dialect,
		quoteNames: o.QuoteNames,
		cachePath:  o.Cache,
	}
}

func runCompile(opts *CompileOptions, args []string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(), // Verbose logs go to stderr to avoid corrupting JSON
		Verbose:   opts.Verbose,
	}

	preds, err := opts.predicates(args)
	if err != nil {
		code, msg := loadErrorCode(err)
		return commandError(formatter, code, msg)
	}

	sess, err := newSession(opts.sessionConfig())
	if err != nil {
		code, msg := loadErrorCode(err)
		return commandError(formatter, code, msg)
	}
	defer sess.close()

	formatter.VerboseLog("Compiling %d predicate(s) for %s", len(preds), sess.dialect.Name())

	report, err := compileAll(cmd.Context(), sess, preds, opts.Workers)
	if err != nil {
		return commandError(formatter, ErrCodeGeneric, err.Error())
	}
	return outputCompileReport(formatter, report)
}

// compileAll compiles preds concurrently. Results keep the input order.
func compileAll(ctx context.Context, sess *session, preds []Predicate, workers int) (CompileReport, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	if workers < 1 {
		workers = 1
	}

	results := make([]PredicateResult, len(preds))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, p := range preds {
		i, p := i, p
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			results[i] = sess.compile(ctx, p)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return CompileReport{}, err
	}

	report := CompileReport{Results: results}
	for _, r := range results {
		if !r.OK() {
			report.Failed++
		}
	}
	return report, nil
}

// outputCompileReport writes the report and maps failures to exit code 1.
func outputCompileReport(f *OutputFormatter, report CompileReport) error {
	if f.Format == "json" {
		if report.Failed > 0 {
			_ = f.Failure(report, ErrCodeCompile, fmt.Sprintf("%d of %d predicate(s) failed", report.Failed, len(report.Results)))
		} else {
			_ = f.Success(report)
		}
	} else {
		for _, r := range report.Results {
			writeResultText(f.Writer, r, true)
		}
		fmt.Fprintf(f.Writer, "\nCompiled %d predicate(s), %d failed\n", len(report.Results)-report.Failed, report.Failed)
	}

	if report.Failed > 0 {
		return NewExitError(ExitFailure, fmt.Sprintf("%d predicate(s) failed", report.Failed))
	}
	return nil
}

// writeResultText prints one result. withSQL adds the rendered SQL line.
func writeResultText(w io.Writer, r PredicateResult, withSQL bool) {
	if !r.OK() {
		fmt.Fprintf(w, "%s %s\n  %s\n", failMark(), r.Name, r.Source)
		fmt.Fprintf(w, "  [%s] %s\n", r.Error.Code, r.Error.Message)
		if errs, ok := r.Error.Details.([]string); ok {
			for _, e := range errs {
				fmt.Fprintf(w, "    - %s\n", e)
			}
		}
	} else {
		fmt.Fprintf(w, "%s %s\n  %s\n", okMark(), r.Name, r.Source)
		if withSQL {
			suffix := ""
			if r.Cached {
				suffix = " (cached)"
			}
			fmt.Fprintf(w, "  %s%s\n", r.SQL, suffix)
		}
	}
	for _, warning := range r.Warnings {
		fmt.Fprintf(w, "  %s: %s\n", warnMark(), warning)
	}
}
