// Grounded on original_source/src/storage/columns/text.rs and
// src/storage/fields/text.rs: SmallText/LongText validate non-emptiness
// when required (the shared Required check in dispatch.go already covers
// "no values at all"; here we additionally reject an empty string value),
// Text stores whatever values it is given, and Language stores a
// detected ISO code.
package column

import (
	"strings"

	"github.com/foliant-db/foliant/ferrors"
)

func validateSmallText(cfg *Config, inputs []string) (ValueList, error) {
	for _, v := range inputs {
		if cfg.Required && strings.TrimSpace(v) == "" {
			return nil, validationErr(cfg.Name, ferrors.ReasonRequired, "value must not be empty")
		}
	}
	return NewValueList(inputs...), nil
}

func validateLongText(cfg *Config, inputs []string) (ValueList, error) {
	return validateSmallText(cfg, inputs)
}

// validateTextAggregate stores the values supplied by the caller unchecked.
// It does not aggregate sibling columns itself, and the item store passes
// only the raw input for the column; the aggregate text is rebuilt at read
// time by search's baseRowData.
func validateTextAggregate(cfg *Config, inputs []string) (ValueList, error) {
	return NewValueList(inputs...), nil
}

func validateLanguage(cfg *Config, inputs []string, ctx *ValidateContext) (ValueList, error) {
	if len(inputs) > 0 && inputs[0] != "" {
		return NewValueList(inputs[0]), nil
	}
	text := aggregateRowText(ctx)
	code := ""
	if ctx != nil && ctx.DetectLanguage != nil && text != "" {
		code = ctx.DetectLanguage(text)
	}
	return NewValueList(code), nil
}

// aggregateRowText concatenates every sibling SmallText/LongText/Text value
// currently in the row, for Language detection when no explicit code is
// supplied.
func aggregateRowText(ctx *ValidateContext) string {
	if ctx == nil || ctx.RowData == nil || ctx.ColumnsByID == nil {
		return ""
	}
	var sb strings.Builder
	for id, cfg := range ctx.ColumnsByID {
		switch cfg.Type {
		case KindSmallText, KindLongText, KindText:
			for _, v := range ctx.RowData[id] {
				sb.WriteString(v.Value())
				sb.WriteByte(' ')
			}
		}
	}
	return strings.TrimSpace(sb.String())
}
