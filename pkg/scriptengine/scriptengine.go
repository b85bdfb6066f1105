// Package scriptengine executes the restricted transformation dialect used by
// script mode. A script is a sequence of table rebindings whose row
// expressions are evaluated by govaluate with only the row's own columns in
// scope. No statement can reach the filesystem, the network, or anything else
// in the host process.
//
// Example script:
//
//	adults = filter(people, "age >= 18")
//	adults = derive(adults, "bonus", "salary * 0.1")
//	df = sort(adults, "bonus", "desc")
//	return df
package scriptengine

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/Knetic/govaluate"

	"github.com/sheetflow/sheetflow-backend/pkg/dataframe"
	"github.com/sheetflow/sheetflow-backend/pkg/errs"
)

// Scope is the set of tables visible to a script, keyed by binding name.
type Scope map[string]*dataframe.Table

// Result holds the selected output table and the full final scope. SQL-style
// callers use Table; the multi-table workflow endpoint returns Scope whole.
type Result struct {
	Table *dataframe.Table
	Scope Scope
}

// Run executes script against a copy of the given bindings. Output selection:
// an explicit `return name` wins, then a binding named df, then the target of
// the last assignment.
func Run(tables map[string]*dataframe.Table, script string, maxStatements int) (*Result, error) {
	const op errs.Op = "scriptengine.Run"

	scope := make(Scope, len(tables))
	for name, table := range tables {
		scope[name] = table
	}

	var (
		lastAssigned string
		returned     string
		statements   int
	)

	for lineNo, line := range strings.Split(script, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		statements++
		if maxStatements > 0 && statements > maxStatements {
			return nil, errs.E(op, errs.InvalidRequest,
				fmt.Errorf("script exceeds %d statements", maxStatements))
		}

		if name, ok := strings.CutPrefix(line, "return "); ok {
			returned = strings.TrimSpace(name)
			if _, ok := scope[returned]; !ok {
				return nil, errs.E(op, fmt.Errorf("line %d: return of unbound table %q", lineNo+1, returned))
			}
			break
		}

		name, table, err := evalAssignment(scope, line)
		if err != nil {
			return nil, errs.E(op, fmt.Errorf("line %d: %w", lineNo+1, err))
		}
		scope[name] = table
		lastAssigned = name
	}

	out := &Result{Scope: scope}
	switch {
	case returned != "":
		out.Table = scope[returned]
	case scope["df"] != nil:
		out.Table = scope["df"]
	case lastAssigned != "":
		out.Table = scope[lastAssigned]
	default:
		return nil, errs.E(op, "script did not produce a result table")
	}

	return out, nil
}

func evalAssignment(scope Scope, line string) (string, *dataframe.Table, error) {
	name, call, ok := strings.Cut(line, "=")
	if !ok {
		return "", nil, fmt.Errorf("expected `name = verb(...)` or `return name`, got %q", line)
	}
	name = strings.TrimSpace(name)
	if name == "" || strings.ContainsAny(name, " \t") {
		return "", nil, fmt.Errorf("invalid binding name %q", name)
	}

	verb, args, err := parseCall(strings.TrimSpace(call))
	if err != nil {
		return "", nil, err
	}
	if len(args) == 0 {
		return "", nil, fmt.Errorf("%s needs a source table argument", verb)
	}

	src, ok := scope[args[0]]
	if !ok {
		return "", nil, fmt.Errorf("unbound table %q", args[0])
	}
	args = args[1:]

	table, err := applyVerb(src, verb, args)
	if err != nil {
		return "", nil, fmt.Errorf("%s: %w", verb, err)
	}
	return name, table, nil
}

func applyVerb(src *dataframe.Table, verb string, args []string) (*dataframe.Table, error) {
	switch verb {
	case "filter":
		if len(args) != 1 {
			return nil, fmt.Errorf("want filter(table, \"expr\")")
		}
		expr, err := govaluate.NewEvaluableExpression(args[0])
		if err != nil {
			return nil, fmt.Errorf("parsing expression: %w", err)
		}
		return src.Filter(func(rec dataframe.Record) (bool, error) {
			v, err := expr.Evaluate(rec)
			if err != nil {
				return false, err
			}
			keep, ok := v.(bool)
			if !ok {
				return false, fmt.Errorf("expression is not a condition: %v", v)
			}
			return keep, nil
		})

	case "derive":
		if len(args) != 2 {
			return nil, fmt.Errorf("want derive(table, \"column\", \"expr\")")
		}
		expr, err := govaluate.NewEvaluableExpression(args[1])
		if err != nil {
			return nil, fmt.Errorf("parsing expression: %w", err)
		}
		return src.WithColumn(args[0], func(rec dataframe.Record) (interface{}, error) {
			return expr.Evaluate(rec)
		})

	case "select":
		if len(args) == 0 {
			return nil, fmt.Errorf("want select(table, \"col\", ...)")
		}
		return src.Select(args...)

	case "drop":
		if len(args) == 0 {
			return nil, fmt.Errorf("want drop(table, \"col\", ...)")
		}
		return src.Drop(args...)

	case "rename":
		if len(args) != 2 {
			return nil, fmt.Errorf("want rename(table, \"old\", \"new\")")
		}
		return src.Rename(args[0], args[1])

	case "sort":
		switch len(args) {
		case 1:
			return src.SortBy(args[0], false)
		case 2:
			switch args[1] {
			case "asc":
				return src.SortBy(args[0], false)
			case "desc":
				return src.SortBy(args[0], true)
			default:
				return nil, fmt.Errorf("sort direction must be asc or desc, got %q", args[1])
			}
		default:
			return nil, fmt.Errorf("want sort(table, \"col\"[, \"desc\"])")
		}

	case "head":
		if len(args) != 1 {
			return nil, fmt.Errorf("want head(table, n)")
		}
		n, err := strconv.Atoi(args[0])
		if err != nil {
			return nil, fmt.Errorf("row count: %w", err)
		}
		return src.Head(n), nil

	default:
		return nil, fmt.Errorf("unknown verb %q", verb)
	}
}

// parseCall splits `verb(arg, "arg two", ...)` into its verb and arguments.
// Double-quoted arguments may contain commas and parentheses.
func parseCall(call string) (string, []string, error) {
	open := strings.IndexByte(call, '(')
	if open < 0 || !strings.HasSuffix(call, ")") {
		return "", nil, fmt.Errorf("expected `verb(...)`, got %q", call)
	}
	verb := strings.TrimSpace(call[:open])
	if verb == "" {
		return "", nil, fmt.Errorf("missing verb in %q", call)
	}

	args, err := splitArgs(call[open+1 : len(call)-1])
	if err != nil {
		return "", nil, err
	}
	return verb, args, nil
}

func splitArgs(s string) ([]string, error) {
	var (
		args     []string
		current  strings.Builder
		inQuotes bool
	)

	flush := func() {
		arg := strings.TrimSpace(current.String())
		current.Reset()
		if arg != "" {
			args = append(args, unquote(arg))
		}
	}

	for _, r := range s {
		switch {
		case r == '"':
			inQuotes = !inQuotes
			current.WriteRune(r)
		case r == ',' && !inQuotes:
			flush()
		default:
			current.WriteRune(r)
		}
	}
	if inQuotes {
		return nil, fmt.Errorf("unterminated quote in arguments %q", s)
	}
	flush()

	return args, nil
}

func unquote(arg string) string {
	if len(arg) >= 2 && strings.HasPrefix(arg, `"`) && strings.HasSuffix(arg, `"`) {
		return arg[1 : len(arg)-1]
	}
	return arg
}
