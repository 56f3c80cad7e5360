package column

import (
	"strconv"

	"github.com/foliant-db/foliant/ferrors"
)

// Validate is the single dispatch point for column validation. It first
// enforces the generic Required/is_set policy shared by every kind, then
// dispatches to the kind-specific normalizer.
func Validate(cfg *Config, inputs []string, ctx *ValidateContext) (ValueList, error) {
	if cfg.Required && len(inputs) == 0 {
		return nil, validationErr(cfg.Name, ferrors.ReasonRequired, "a value is required")
	}
	if cfg.IsSet {
		if cfg.SetMax != nil && len(inputs) > *cfg.SetMax {
			return nil, validationErr(cfg.Name, ferrors.ReasonSetCardinalityViolation,
				"at most "+strconv.Itoa(*cfg.SetMax)+" values allowed")
		}
		if cfg.SetMin != nil && len(inputs) < *cfg.SetMin {
			return nil, validationErr(cfg.Name, ferrors.ReasonSetCardinalityViolation,
				"at least "+strconv.Itoa(*cfg.SetMin)+" values required")
		}
	} else if len(inputs) > 1 {
		return nil, validationErr(cfg.Name, ferrors.ReasonTooManyValues, "column is not a set")
	}

	switch cfg.Type {
	case KindSmallText:
		return validateSmallText(cfg, inputs)
	case KindLongText:
		return validateLongText(cfg, inputs)
	case KindText:
		return validateTextAggregate(cfg, inputs)
	case KindLanguage:
		return validateLanguage(cfg, inputs, ctx)
	case KindCheckbox:
		return validateCheckbox(cfg, inputs)
	case KindSelect:
		return validateSelect(cfg, inputs)
	case KindSet:
		return NewValueList(inputs...), nil
	case KindNumber:
		return validateNumber(cfg, inputs)
	case KindCurrency:
		return validateCurrency(cfg, inputs)
	case KindPercentage:
		return validatePercentage(cfg, inputs)
	case KindRating:
		return validateRating(cfg, inputs)
	case KindDuration:
		return validateDuration(cfg, inputs)
	case KindDate:
		return validateDate(cfg, inputs)
	case KindCreatedTime:
		return validateCreatedTime(cfg, inputs, ctx)
	case KindLastModifiedTime:
		return validateLastModifiedTime(cfg, inputs, ctx)
	case KindCreatedBy:
		return validateCreatedBy(cfg, inputs, ctx)
	case KindLastModifiedBy:
		return validateLastModifiedBy(cfg, inputs, ctx)
	case KindGenerateId:
		return validateGenerateId(cfg, inputs, ctx)
	case KindGenerateNumber:
		return validateGenerateNumber(cfg, inputs, ctx)
	case KindPhone:
		return validatePhone(cfg, inputs)
	case KindEmail:
		return validateEmail(cfg, inputs)
	case KindUrl:
		return validateUrl(cfg, inputs)
	case KindFormula:
		return validateFormula(cfg, inputs, ctx)
	case KindStats:
		return validateStats(cfg, inputs, ctx)
	case KindLink:
		return validateLink(cfg, inputs, ctx)
	case KindReference:
		return ValueList{}, nil
	case KindObject:
		return validateObject(cfg, inputs)
	case KindFile:
		return validateFile(cfg, inputs)
	default:
		return nil, ferrors.SchemaError.New("unknown column kind " + string(cfg.Type))
	}
}

// Render is the single dispatch point for rendering a column's stored
// values into a YAML-serializable Go value (scalar, map, or slice), per the
// result serializer contract in spec §4.8.
func Render(cfg *Config, values ValueList, rctx *RenderContext) (interface{}, error) {
	switch cfg.Type {
	case KindLink:
		return renderLink(cfg, values, rctx)
	case KindReference:
		return renderReference(cfg, values, rctx)
	case KindObject:
		return renderObject(cfg, values)
	case KindSet:
		return values.Strings(), nil
	case KindNumber, KindGenerateNumber:
		return renderIntList(cfg, values)
	case KindCurrency, KindPercentage, KindRating, KindDuration:
		return renderNumericList(cfg, values)
	case KindCheckbox:
		return renderBoolList(cfg, values)
	case KindFile:
		return renderFile(cfg, values)
	default:
		return renderScalarOrList(cfg, values)
	}
}

// renderScalarOrList returns a bare scalar for non-set columns and a slice
// for set columns, which is how every plain text-like kind renders.
func renderScalarOrList(cfg *Config, values ValueList) (interface{}, error) {
	if cfg.IsSet {
		return values.Strings(), nil
	}
	if len(values) == 0 {
		return "", nil
	}
	return values[0].Value(), nil
}

// MaterializeConfig encodes a Config's kind-specific fields into the flat
// string map persisted in the folder schema record.
func MaterializeConfig(cfg *Config) (map[string]string, error) {
	out := materializeShared(cfg)
	switch cfg.Type {
	case KindSelect:
		materializeSelect(cfg, out)
	case KindDate:
		materializeDate(cfg, out)
	case KindCurrency, KindPercentage:
		materializeNumeric(cfg, out)
	case KindRating, KindNumber:
		materializeRange(cfg, out)
	case KindFormula:
		materializeFormula(cfg, out)
	case KindLink:
		materializeLink(cfg, out)
	case KindReference:
		materializeReference(cfg, out)
	case KindStats:
		materializeStatsConfig(cfg, out)
	case KindObject:
		out["mode"] = cfg.Mode
	case KindGenerateNumber:
		out["sequence"] = strconv.FormatInt(cfg.Sequence, 10)
	}
	return out, nil
}

// HydrateConfig is the inverse of MaterializeConfig.
func HydrateConfig(flat map[string]string) (*Config, error) {
	cfg, err := hydrateShared(flat)
	if err != nil {
		return nil, err
	}
	switch cfg.Type {
	case KindSelect:
		hydrateSelect(cfg, flat)
	case KindDate:
		if err := hydrateDate(cfg, flat); err != nil {
			return nil, err
		}
	case KindCurrency, KindPercentage:
		hydrateNumeric(cfg, flat)
	case KindRating, KindNumber:
		hydrateRange(cfg, flat)
	case KindFormula:
		hydrateFormula(cfg, flat)
	case KindLink:
		hydrateLink(cfg, flat)
	case KindReference:
		hydrateReference(cfg, flat)
	case KindStats:
		hydrateStatsConfig(cfg, flat)
	case KindObject:
		cfg.Mode = flat["mode"]
	case KindGenerateNumber:
		if v, ok := flat["sequence"]; ok {
			n, _ := strconv.ParseInt(v, 10, 64)
			cfg.Sequence = n
		}
	}
	return cfg, nil
}
