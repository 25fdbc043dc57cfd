package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// ValidateOptions holds flags for the validate command.
type ValidateOptions struct {
	*RootOptions
	SourceOptions
}

// ValidationReport is the JSON payload of validate.
type ValidationReport struct {
	Results []PredicateResult `json:"results"`
	Invalid int               `json:"invalid"`
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ValidateOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "validate [predicate...]",
		Short: "Check predicates without compiling them",
		Long: `Parse predicates and check their structure without rendering SQL.

Reports syntax errors, unknown columns and enum members, methods called
with the wrong number of arguments, and warnings such as ordering
comparisons against nil. Exits with status 1 when any predicate is invalid.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(opts, args, cmd)
		},
	}

	opts.SourceOptions.addFlags(cmd)

	return cmd
}

func runValidate(opts *ValidateOptions, args []string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	preds, err := opts.predicates(args)
	if err != nil {
		code, msg := loadErrorCode(err)
		return commandError(formatter, code, msg)
	}

	sess, err := newSession(sessionConfig{source: &opts.SourceOptions})
	if err != nil {
		code, msg := loadErrorCode(err)
		return commandError(formatter, code, msg)
	}
	defer sess.close()

	report := ValidationReport{Results: make([]PredicateResult, len(preds))}
	for i, p := range preds {
		formatter.VerboseLog("Validating %s", p.Name)
		_, report.Results[i] = sess.check(p)
		if !report.Results[i].OK() {
			report.Invalid++
		}
	}

	if opts.Format == "json" {
		if report.Invalid > 0 {
			_ = formatter.Failure(report, ErrCodeValidation, fmt.Sprintf("%d of %d predicate(s) invalid", report.Invalid, len(preds)))
		} else {
			_ = formatter.Success(report)
		}
	} else {
		for _, r := range report.Results {
			writeResultText(formatter.Writer, r, false)
		}
		if report.Invalid == 0 {
			fmt.Fprintf(formatter.Writer, "\n%s All %d predicate(s) valid\n", okMark(), len(preds))
		} else {
			fmt.Fprintf(formatter.Writer, "\n%s %d of %d predicate(s) invalid\n", failMark(), report.Invalid, len(preds))
		}
	}

	if report.Invalid > 0 {
		return NewExitError(ExitFailure, fmt.Sprintf("%d predicate(s) invalid", report.Invalid))
	}
	return nil
}
