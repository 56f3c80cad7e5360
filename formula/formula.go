// Package formula is the concrete binding behind column.FormulaEvaluator
// (spec §4.9): it compiles a formula string with
// github.com/casbin/govaluate, resolving column names as parameters and
// registering AND, OR, SEARCH, COUNT, SUM, MAX, AVG as govaluate functions.
// The same Evaluator backs both computed Formula columns and WHERE-clause
// evaluation in the search pipeline, since both are "compile a formula
// string, evaluate against a row's data map" per the spec's binding
// contract.
package formula

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/casbin/govaluate"

	"github.com/foliant-db/foliant/column"
	"github.com/foliant-db/foliant/ferrors"
)

// Evaluator implements column.FormulaEvaluator.
type Evaluator struct{}

// New builds a formula Evaluator.
func New() *Evaluator {
	return &Evaluator{}
}

// compiled holds the parsed source and the column-name lookup validated at
// Compile time. The expression itself is reparsed on every Eval call so
// SEARCH can close over that call's row data (govaluate bakes function
// implementations into the expression at parse time, not at Evaluate time).
type compiled struct {
	source     string
	resultType string
	byName     map[string]*column.Config
}

// Compile parses source, validating that every bare identifier it
// references names a declared column (SchemaError otherwise, per §4.6's
// "validate that every referenced column exists ... collect all violations
// before returning" discipline extended to formula compile time).
func (e *Evaluator) Compile(source string, resultType string, columns map[string]*column.Config) (column.CompiledFormula, error) {
	byName := make(map[string]*column.Config, len(columns))
	for _, cfg := range columns {
		byName[cfg.Name] = cfg
	}

	probe, err := govaluate.NewEvaluableExpressionWithFunctions(source, stubFunctions())
	if err != nil {
		return nil, ferrors.FormulaError.Wrap(err, "parsing formula")
	}
	var errs ferrors.List
	for _, v := range probe.Vars() {
		if _, ok := byName[v]; !ok {
			errs.Add(ferrors.SchemaError.New("formula references unknown column " + v))
		}
	}
	if err := errs.Err(); err != nil {
		return nil, err
	}

	return &compiled{source: source, resultType: resultType, byName: byName}, nil
}

// Eval evaluates a compiled formula against data, resolving column
// parameters by name and binding SEARCH to data for this specific row.
func (e *Evaluator) Eval(expr column.CompiledFormula, data column.RowData, columns map[string]*column.Config) (string, error) {
	c, ok := expr.(*compiled)
	if !ok {
		return "", ferrors.FormulaError.New("invalid compiled formula handle")
	}

	ge, err := govaluate.NewEvaluableExpressionWithFunctions(c.source, rowFunctions(data, columns))
	if err != nil {
		return "", ferrors.FormulaError.Wrap(err, "parsing formula")
	}

	params := make(map[string]interface{}, len(c.byName))
	for name, cfg := range c.byName {
		params[name] = coerceParam(data[cfg.ID])
	}

	result, err := ge.Evaluate(params)
	if err != nil {
		return "", ferrors.FormulaError.Wrap(err, "evaluating formula")
	}
	return formatResult(result, c.resultType)
}

// joinValues concatenates a column's value list for use as a parameter or
// as SEARCH's haystack, space-joined the same way the text indexer
// aggregates a row's textual columns (§4.5).
func joinValues(vl column.ValueList) string {
	parts := make([]string, len(vl))
	for i, e := range vl {
		parts[i] = e.Value()
	}
	return strings.Join(parts, " ")
}

// coerceParam resolves a column's row value to a govaluate parameter:
// a bare float when the sole value parses as one, the joined string
// otherwise.
func coerceParam(vl column.ValueList) interface{} {
	if len(vl) == 1 {
		if f, err := strconv.ParseFloat(vl[0].Value(), 64); err == nil {
			return f
		}
		return vl[0].Value()
	}
	return joinValues(vl)
}

func stubFunctions() map[string]govaluate.ExpressionFunction {
	stub := func(args ...interface{}) (interface{}, error) { return nil, nil }
	return map[string]govaluate.ExpressionFunction{
		"AND": stub, "OR": stub, "SEARCH": stub,
		"COUNT": stub, "SUM": stub, "MAX": stub, "AVG": stub,
	}
}

// rowFunctions builds the real function set for one Eval call, closing over
// this row's data and the folder's columns-by-id map so SEARCH can resolve
// its column-name argument against the row's actual text.
func rowFunctions(data column.RowData, columns map[string]*column.Config) map[string]govaluate.ExpressionFunction {
	return map[string]govaluate.ExpressionFunction{
		"AND": func(args ...interface{}) (interface{}, error) {
			for _, a := range args {
				if !truthy(a) {
					return false, nil
				}
			}
			return true, nil
		},
		"OR": func(args ...interface{}) (interface{}, error) {
			for _, a := range args {
				if truthy(a) {
					return true, nil
				}
			}
			return false, nil
		},
		"COUNT": func(args ...interface{}) (interface{}, error) {
			return float64(len(args)), nil
		},
		"SUM": func(args ...interface{}) (interface{}, error) {
			var sum float64
			for _, a := range args {
				sum += toFloat(a)
			}
			return sum, nil
		},
		"MAX": func(args ...interface{}) (interface{}, error) {
			if len(args) == 0 {
				return 0.0, nil
			}
			m := toFloat(args[0])
			for _, a := range args[1:] {
				if f := toFloat(a); f > m {
					m = f
				}
			}
			return m, nil
		},
		"AVG": func(args ...interface{}) (interface{}, error) {
			if len(args) == 0 {
				return 0.0, nil
			}
			var sum float64
			for _, a := range args {
				sum += toFloat(a)
			}
			return sum / float64(len(args)), nil
		},
		"SEARCH": func(args ...interface{}) (interface{}, error) {
			if len(args) < 2 {
				return false, ferrors.FormulaError.New("SEARCH requires a column name and a term")
			}
			colName, _ := args[0].(string)
			term, _ := args[1].(string)
			for _, cfg := range columns {
				if cfg.Name != colName {
					continue
				}
				haystack := strings.ToLower(joinValues(data[cfg.ID]))
				return strings.Contains(haystack, strings.ToLower(term)), nil
			}
			return false, nil
		},
	}
}

// truthy treats booleans, non-zero numbers, and non-empty/non-"false"
// strings as true, matching the "1"/"0" string-encoded boolean convention
// the rest of the system uses for Check-format results.
func truthy(v interface{}) bool {
	switch t := v.(type) {
	case bool:
		return t
	case float64:
		return t != 0
	case string:
		low := strings.ToLower(strings.TrimSpace(t))
		return low != "" && low != "0" && low != "false"
	default:
		return false
	}
}

func toFloat(v interface{}) float64 {
	switch t := v.(type) {
	case float64:
		return t
	case bool:
		if t {
			return 1
		}
		return 0
	case string:
		f, _ := strconv.ParseFloat(t, 64)
		return f
	default:
		return 0
	}
}

// formatResult renders a govaluate result as the string encoding the rest
// of the system expects: Check formulas as "1"/"0", Number as a decimal
// string, Text/Date as the natural string form.
func formatResult(result interface{}, resultType string) (string, error) {
	switch resultType {
	case column.FormulaFormatCheck:
		if truthy(result) {
			return "1", nil
		}
		return "0", nil
	case column.FormulaFormatNumber:
		return strconv.FormatFloat(toFloat(result), 'f', -1, 64), nil
	default:
		if s, ok := result.(string); ok {
			return s, nil
		}
		return fmt.Sprintf("%v", result), nil
	}
}
