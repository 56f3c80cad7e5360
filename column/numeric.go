// Grounded on original_source/src/storage/columns/number.rs and
// src/storage/fields/number.rs. Uses spf13/cast for loose string->numeric
// coercion, the teacher's own (previously unused) direct dependency.
package column

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/spf13/cast"

	"github.com/foliant-db/foliant/ferrors"
)

func validateNumber(cfg *Config, inputs []string) (ValueList, error) {
	out := make(ValueList, 0, len(inputs))
	for _, raw := range inputs {
		n, err := cast.ToInt64E(strings.TrimSpace(raw))
		if err != nil {
			return nil, validationErr(cfg.Name, ferrors.ReasonFormatMismatch, "not an integer: "+raw)
		}
		if err := rangeCheck(cfg, float64(n)); err != nil {
			return nil, validationErr(cfg.Name, ferrors.ReasonOutOfRange, err.Error())
		}
		out = append(out, Entry{"VALUE": strconv.FormatInt(n, 10)})
	}
	return out, nil
}

func rangeCheck(cfg *Config, v float64) error {
	if cfg.Minimum != nil && v < *cfg.Minimum {
		return fmt.Errorf("%v is below minimum %v", v, *cfg.Minimum)
	}
	if cfg.Maximum != nil && v > *cfg.Maximum {
		return fmt.Errorf("%v is above maximum %v", v, *cfg.Maximum)
	}
	return nil
}

var currencyStrip = regexp.MustCompile(`[^0-9.\-]`)

func validateCurrency(cfg *Config, inputs []string) (ValueList, error) {
	decimals := cfg.NumberDecimals
	if decimals == 0 {
		decimals = 2
	}
	out := make(ValueList, 0, len(inputs))
	for _, raw := range inputs {
		stripped := currencyStrip.ReplaceAllString(raw, "")
		n, err := cast.ToFloat64E(stripped)
		if err != nil {
			return nil, validationErr(cfg.Name, ferrors.ReasonFormatMismatch, "not a currency amount: "+raw)
		}
		rounded := roundTo(n, decimals)
		formatted := cfg.CurrencySymbol + strconv.FormatFloat(rounded, 'f', decimals, 64)
		out = append(out, Entry{"VALUE": formatted})
	}
	return out, nil
}

func validatePercentage(cfg *Config, inputs []string) (ValueList, error) {
	decimals := cfg.NumberDecimals
	if decimals == 0 {
		decimals = 2
	}
	out := make(ValueList, 0, len(inputs))
	for _, raw := range inputs {
		n, err := cast.ToFloat64E(strings.TrimSuffix(strings.TrimSpace(raw), "%"))
		if err != nil {
			return nil, validationErr(cfg.Name, ferrors.ReasonFormatMismatch, "not a percentage: "+raw)
		}
		out = append(out, Entry{"VALUE": strconv.FormatFloat(roundTo(n, decimals), 'f', decimals, 64)})
	}
	return out, nil
}

func validateRating(cfg *Config, inputs []string) (ValueList, error) {
	min, max := 0.0, 5.0
	if cfg.Minimum != nil {
		min = *cfg.Minimum
	}
	if cfg.Maximum != nil {
		max = *cfg.Maximum
	}
	out := make(ValueList, 0, len(inputs))
	for _, raw := range inputs {
		n, err := cast.ToInt64E(strings.TrimSpace(raw))
		if err != nil {
			return nil, validationErr(cfg.Name, ferrors.ReasonFormatMismatch, "not an integer rating: "+raw)
		}
		if float64(n) < min || float64(n) > max {
			return nil, validationErr(cfg.Name, ferrors.ReasonOutOfRange,
				fmt.Sprintf("%d is outside [%v,%v]", n, min, max))
		}
		out = append(out, Entry{"VALUE": strconv.FormatInt(n, 10)})
	}
	return out, nil
}

var durationRE = regexp.MustCompile(`^(\d+):(\d{1,2})(?::(\d{1,2})(?:\.(\d+))?)?$`)

func validateDuration(cfg *Config, inputs []string) (ValueList, error) {
	out := make(ValueList, 0, len(inputs))
	for _, raw := range inputs {
		m := durationRE.FindStringSubmatch(strings.TrimSpace(raw))
		if m == nil {
			return nil, validationErr(cfg.Name, ferrors.ReasonFormatMismatch, "expected HH:MM[:SS[.fff]]: "+raw)
		}
		minutes, _ := strconv.Atoi(m[2])
		if minutes >= 60 {
			return nil, validationErr(cfg.Name, ferrors.ReasonFormatMismatch, "minutes must be < 60")
		}
		if m[3] != "" {
			seconds, _ := strconv.Atoi(m[3])
			if seconds >= 60 {
				return nil, validationErr(cfg.Name, ferrors.ReasonFormatMismatch, "seconds must be < 60")
			}
		}
		out = append(out, Entry{"VALUE": raw})
	}
	return out, nil
}

func roundTo(v float64, decimals int) float64 {
	p := math.Pow(10, float64(decimals))
	return math.Round(v*p) / p
}

// renderIntList renders Number/GenerateNumber values as YAML integers.
func renderIntList(cfg *Config, values ValueList) (interface{}, error) {
	if cfg.IsSet {
		out := make([]int64, 0, len(values))
		for _, v := range values {
			n, _ := strconv.ParseInt(v.Value(), 10, 64)
			out = append(out, n)
		}
		return out, nil
	}
	if len(values) == 0 {
		return nil, nil
	}
	n, _ := strconv.ParseInt(values[0].Value(), 10, 64)
	return n, nil
}

// renderNumericList renders Currency/Percentage/Rating/Duration values;
// these stay strings (Currency carries its symbol, Duration its own
// format) except Rating which is numeric.
func renderNumericList(cfg *Config, values ValueList) (interface{}, error) {
	if cfg.Type == KindRating {
		return renderIntList(cfg, values)
	}
	return renderScalarOrList(cfg, values)
}

func renderBoolList(cfg *Config, values ValueList) (interface{}, error) {
	if cfg.IsSet {
		out := make([]bool, 0, len(values))
		for _, v := range values {
			out = append(out, v.Value() == "true")
		}
		return out, nil
	}
	if len(values) == 0 {
		return nil, nil
	}
	return values[0].Value() == "true", nil
}
