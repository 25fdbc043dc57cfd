package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/roach88/exprsql/internal/dialect"
	"github.com/roach88/exprsql/internal/expr"
	"github.com/roach88/exprsql/internal/firebird"
	"github.com/roach88/exprsql/internal/ir"
	"github.com/roach88/exprsql/internal/parse"
	"github.com/roach88/exprsql/internal/schema"
	"github.com/roach88/exprsql/internal/sqlexpr"
	"github.com/roach88/exprsql/internal/store"
)

// SourceOptions are the flags shared by every command that reads
// predicates.
type SourceOptions struct {
	Schema string   // schema file (.yaml, .yml or .cue)
	Table  string   // default table for predicates that name none
	Param  string   // lambda parameter name
	Vars   []string // captured variables as name=value
	File   string   // YAML batch file
}

func (o *SourceOptions) addFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&o.Schema, "schema", "", "schema file typing columns and enums (.yaml or .cue)")
	cmd.Flags().StringVar(&o.Table, "table", "", "table the predicates filter")
	cmd.Flags().StringVar(&o.Param, "param", parse.DefaultParam, "predicate parameter name")
	cmd.Flags().StringArrayVar(&o.Vars, "var", nil, "captured variable as name=value (repeatable)")
	cmd.Flags().StringVarP(&o.File, "file", "f", "", "YAML batch file of named predicates")
}

// predicates collects predicates from args followed by the batch file.
func (o *SourceOptions) predicates(args []string) ([]Predicate, error) {
	preds := make([]Predicate, 0, len(args))
	for i, src := range args {
		preds = append(preds, Predicate{Name: fmt.Sprintf("arg%d", i+1), Where: src, Table: o.Table})
	}
	if o.File != "" {
		b, err := LoadBatch(o.File)
		if err != nil {
			return nil, err
		}
		for _, p := range b.Predicates {
			if p.Table == "" {
				p.Table = o.Table
			}
			preds = append(preds, p)
		}
	}
	if len(preds) == 0 {
		return nil, &LoadError{Code: ErrCodeGeneric, Message: "no predicates given: pass them as arguments or with --file"}
	}
	return preds, nil
}

// sqlCompiler renders a predicate tree.
type sqlCompiler interface {
	Compile(e expr.Expr) (string, error)
}

// session carries what a command needs to turn predicate source into SQL.
type session struct {
	schema   *schema.Schema
	param    string
	vars     map[string]ir.IRValue
	dialect  dialect.Provider
	compiler sqlCompiler
	cache    *store.Store
}

type sessionConfig struct {
	source     *SourceOptions
	dialect    string
	quoteNames bool
	cachePath  string
}

func newSession(cfg sessionConfig) (*session, error) {
	s, err := loadSchema(cfg.source.Schema)
	if err != nil {
		return nil, err
	}
	vars, err := ParseVars(cfg.source.Vars)
	if err != nil {
		return nil, err
	}

	sess := &session{schema: s, param: cfg.source.Param, vars: vars}

	switch cfg.dialect {
	case "", "firebird":
		sess.dialect = dialect.NewFirebird(dialect.FirebirdOptions{QuoteNames: cfg.quoteNames})
		sess.compiler = firebird.New(sess.dialect)
	default:
		d, ok := dialect.Lookup(cfg.dialect)
		if !ok {
			return nil, &LoadError{Code: ErrCodeDialect, Message: fmt.Sprintf("unknown dialect %q", cfg.dialect)}
		}
		sess.dialect = d
		if d.Name() == dialect.Generic.Name() {
			sess.compiler = sqlexpr.New(d)
		} else {
			sess.compiler = firebird.New(d)
		}
	}

	if cfg.cachePath != "" {
		st, err := store.Open(cfg.cachePath)
		if err != nil {
			return nil, &LoadError{Code: ErrCodeCache, Message: err.Error()}
		}
		sess.cache = st
	}

	slog.Debug("session ready", "dialect", sess.dialect.Name(), "schema", cfg.source.Schema, "cache", cfg.cachePath)
	return sess, nil
}

func (s *session) close() {
	if s.cache != nil {
		if err := s.cache.Close(); err != nil {
			slog.Warn("closing cache", "error", err)
		}
	}
}

// parseOptions builds parser options for a predicate's table.
func (s *session) parseOptions(table string) (parse.Options, error) {
	opts := parse.Options{Param: s.param, Schema: s.schema, Vars: s.vars}
	if table == "" {
		return opts, nil
	}
	if s.schema == nil {
		return opts, &LoadError{Code: ErrCodeSchema, Message: fmt.Sprintf("table %q given without --schema", table)}
	}
	t, err := s.schema.Table(table)
	if err != nil {
		return opts, &LoadError{Code: ErrCodeSchema, Message: err.Error()}
	}
	opts.Table = t
	return opts, nil
}

// PredicateResult is the outcome of checking or compiling one predicate.
type PredicateResult struct {
	Name     string    `json:"name"`
	Source   string    `json:"source"`
	Table    string    `json:"table,omitempty"`
	SQL      string    `json:"sql,omitempty"`
	Hash     string    `json:"hash,omitempty"`
	Cached   bool      `json:"cached,omitempty"`
	Warnings []string  `json:"warnings,omitempty"`
	Error    *CLIError `json:"error,omitempty"`
}

// OK reports whether the predicate succeeded.
func (r PredicateResult) OK() bool { return r.Error == nil }

func (r *PredicateResult) fail(code, message string, details any) {
	r.Error = &CLIError{Code: code, Message: message, Details: details}
}

// check parses and validates p. The tree is nil when the result failed.
func (s *session) check(p Predicate) (expr.Expr, PredicateResult) {
	res := PredicateResult{Name: p.Name, Source: p.Where, Table: p.Table}

	opts, err := s.parseOptions(p.Table)
	if err != nil {
		code, msg := loadErrorCode(err)
		res.fail(code, msg, nil)
		return nil, res
	}

	tree, err := parse.Parse(p.Where, opts)
	if err != nil {
		var pe *parse.ParseError
		if errors.As(err, &pe) {
			res.fail(ErrCodeParse, pe.Message, map[string]int{"column": pe.Pos})
		} else {
			res.fail(ErrCodeParse, err.Error(), nil)
		}
		return nil, res
	}

	v := expr.Validate(tree)
	res.Warnings = v.Warnings
	if !v.IsValid {
		res.fail(ErrCodeValidation, fmt.Sprintf("%d validation error(s)", len(v.Errors)), v.Errors)
		return nil, res
	}
	return tree, res
}

// compile checks p, then renders it, consulting the cache when open.
func (s *session) compile(ctx context.Context, p Predicate) PredicateResult {
	tree, res := s.check(p)
	if tree == nil {
		return res
	}

	if s.cache != nil {
		hash, err := ir.PredicateHash(s.dialect.Name(), expr.Canonical(tree))
		if err != nil {
			res.fail(ErrCodeCache, err.Error(), nil)
			return res
		}
		res.Hash = hash

		entry, ok, err := s.cache.Get(ctx, hash)
		if err != nil {
			res.fail(ErrCodeCache, err.Error(), nil)
			return res
		}
		if ok {
			slog.Debug("cache hit", "name", p.Name, "hash", hash)
			res.SQL = entry.SQL
			res.Cached = true
			return res
		}
	}

	sql, err := s.compiler.Compile(tree)
	if err != nil {
		res.fail(ErrCodeCompile, err.Error(), map[string]string{"reason": string(sqlexpr.ErrorCode(err))})
		return res
	}
	res.SQL = sql
	slog.Debug("compiled predicate", "name", p.Name, "sql", sql)

	if s.cache != nil {
		_, inserted, err := s.cache.Put(ctx, store.Entry{
			Hash:     res.Hash,
			Dialect:  s.dialect.Name(),
			Table:    p.Table,
			Source:   p.Where,
			SQL:      sql,
			Warnings: res.Warnings,
		})
		if err != nil {
			res.fail(ErrCodeCache, err.Error(), nil)
			return res
		}
		slog.Debug("cache put", "name", p.Name, "hash", res.Hash, "inserted", inserted)
	}
	return res
}
