package column

import (
	"strconv"

	"github.com/foliant-db/foliant/ferrors"
)

func validateCreatedBy(cfg *Config, _ []string, ctx *ValidateContext) (ValueList, error) {
	return NewValueList(ambientUser(ctx)), nil
}

func validateLastModifiedBy(cfg *Config, _ []string, ctx *ValidateContext) (ValueList, error) {
	return NewValueList(ambientUser(ctx)), nil
}

func ambientUser(ctx *ValidateContext) string {
	if ctx != nil {
		return ctx.UserID
	}
	return ""
}

func validateGenerateId(cfg *Config, _ []string, ctx *ValidateContext) (ValueList, error) {
	if ctx == nil || ctx.GenerateID == nil {
		return nil, ferrors.SchemaError.New("GenerateId column has no id generator bound")
	}
	return NewValueList(ctx.GenerateID()), nil
}

func validateGenerateNumber(cfg *Config, _ []string, ctx *ValidateContext) (ValueList, error) {
	if ctx == nil || ctx.AdvanceSequence == nil {
		return nil, ferrors.SchemaError.New("GenerateNumber column has no sequence bound")
	}
	n, err := ctx.AdvanceSequence(cfg.ID)
	if err != nil {
		return nil, err
	}
	return NewValueList(strconv.FormatInt(n, 10)), nil
}
