// Formula columns never validate raw input; their value is always derived.
// Evaluation is delegated to whatever FormulaEvaluator is bound on the
// ValidateContext (the formula package, kept out of this package's import
// graph to avoid a cycle — see context.go).
package column

import "github.com/foliant-db/foliant/ferrors"

func validateFormula(cfg *Config, _ []string, ctx *ValidateContext) (ValueList, error) {
	if ctx == nil || ctx.Formula == nil {
		return nil, ferrors.FormulaError.New("no formula evaluator bound for column " + cfg.Name)
	}
	compiled, err := ctx.Formula.Compile(cfg.FormulaSource, cfg.FormulaFormat, ctx.ColumnsByID)
	if err != nil {
		return nil, ferrors.FormulaError.Wrap(err, "compiling formula for column "+cfg.Name)
	}
	result, err := ctx.Formula.Eval(compiled, ctx.RowData, ctx.ColumnsByID)
	if err != nil {
		return nil, ferrors.FormulaError.Wrap(err, "evaluating formula for column "+cfg.Name)
	}
	return NewValueList(result), nil
}
