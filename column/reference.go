// Reference and Stats are both derived-through-a-Link kinds: Reference
// mirrors a single column from the linked item, Stats aggregates a column
// across every item reached through a many-Link. Neither accepts direct
// input; both are recomputed by the caller whenever the underlying Link
// changes, the same recompute-on-write discipline original_source applies
// to its own rollup columns.
package column

import (
	"strconv"
	"strings"

	"github.com/foliant-db/foliant/ferrors"
)

// validateStats resolves every value reached through LinkColumn's target(s)
// for RelatedColumn via the ResolveStatsValues callback (bound by the item
// store, which alone can cross into another folder's partitions), then
// reduces them with StatsFunction. This runs entirely in-process rather
// than through the formula evaluator: aggregating "every item reached
// through a many-Link" needs storage access the formula package never has.
func validateStats(cfg *Config, _ []string, ctx *ValidateContext) (ValueList, error) {
	if ctx == nil || ctx.ResolveStatsValues == nil {
		return nil, ferrors.SchemaError.New("no stats resolver bound for column " + cfg.Name)
	}
	values, err := ctx.ResolveStatsValues(cfg.LinkColumn, cfg.RelatedColumn)
	if err != nil {
		return nil, ferrors.FormulaError.Wrap(err, "resolving stats for column "+cfg.Name)
	}
	result, err := ReduceStats(cfg.StatsFunction, values)
	if err != nil {
		return nil, ferrors.FormulaError.Wrap(err, "reducing stats for column "+cfg.Name)
	}
	return NewValueList(result), nil
}

// ReduceStats applies one of the closed set of stats functions (§4.2) to a
// related column's values pulled through a Link. Exported so the search
// pipeline can call the identical reduction when it recomputes STATS
// columns at read time (§4.7 step 2).
func ReduceStats(fn string, values []string) (string, error) {
	switch fn {
	case StatsCOUNT, StatsCOUNTALL:
		return strconv.Itoa(len(values)), nil
	case StatsCOUNTA:
		n := 0
		for _, v := range values {
			if strings.TrimSpace(v) != "" {
				n++
			}
		}
		return strconv.Itoa(n), nil
	case StatsSUM, StatsAVG, StatsMAX, StatsMIN:
		nums, err := toFloats(fn, values)
		if err != nil {
			return "", err
		}
		return strconv.FormatFloat(reduceNumeric(fn, nums), 'f', -1, 64), nil
	case StatsAND, StatsOR, StatsXOR:
		return reduceBoolean(fn, values), nil
	default:
		return "", ferrors.SchemaError.New("unknown stats function " + fn)
	}
}

func toFloats(fn string, values []string) ([]float64, error) {
	out := make([]float64, 0, len(values))
	for _, v := range values {
		if strings.TrimSpace(v) == "" {
			continue
		}
		n, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return nil, validationErr(fn, ferrors.ReasonFormatMismatch, "not a number: "+v)
		}
		out = append(out, n)
	}
	return out, nil
}

func reduceNumeric(fn string, nums []float64) float64 {
	if len(nums) == 0 {
		return 0
	}
	switch fn {
	case StatsMAX:
		m := nums[0]
		for _, n := range nums[1:] {
			if n > m {
				m = n
			}
		}
		return m
	case StatsMIN:
		m := nums[0]
		for _, n := range nums[1:] {
			if n < m {
				m = n
			}
		}
		return m
	case StatsAVG:
		var sum float64
		for _, n := range nums {
			sum += n
		}
		return sum / float64(len(nums))
	default: // StatsSUM
		var sum float64
		for _, n := range nums {
			sum += n
		}
		return sum
	}
}

func reduceBoolean(fn string, values []string) string {
	trues := 0
	for _, v := range values {
		if strings.EqualFold(strings.TrimSpace(v), "true") {
			trues++
		}
	}
	var result bool
	switch fn {
	case StatsAND:
		result = trues == len(values) && len(values) > 0
	case StatsOR:
		result = trues > 0
	case StatsXOR:
		result = trues%2 == 1
	}
	if result {
		return "1"
	}
	return "0"
}

// renderReference looks up the pulled-through remote value from the
// RenderContext table the search pipeline populates, keyed by this
// Reference column's own id (Reference columns never store a value of
// their own — see dispatch.go's KindReference case — so there is nothing
// in values to key off).
func renderReference(cfg *Config, _ ValueList, rctx *RenderContext) (interface{}, error) {
	if rctx != nil && rctx.ReferenceValues != nil {
		if v, ok := rctx.ReferenceValues[cfg.ID]; ok {
			return v, nil
		}
	}
	return "", nil
}
