package column

import (
	"strings"

	"github.com/foliant-db/foliant/ferrors"
)

func validateCheckbox(cfg *Config, inputs []string) (ValueList, error) {
	out := make(ValueList, 0, len(inputs))
	for _, raw := range inputs {
		v := strings.ToLower(strings.TrimSpace(raw))
		switch v {
		case "true", "1", "yes":
			out = append(out, Entry{"VALUE": "true"})
		case "false", "0", "no", "":
			out = append(out, Entry{"VALUE": "false"})
		default:
			return nil, validationErr(cfg.Name, ferrors.ReasonFormatMismatch, "not a boolean: "+raw)
		}
	}
	return out, nil
}

// validateSelect checks each input against the configured option set and
// stores it by option id, so a later rename of an option's display name
// never invalidates existing items.
func validateSelect(cfg *Config, inputs []string) (ValueList, error) {
	out := make(ValueList, 0, len(inputs))
	for _, raw := range inputs {
		opt, ok := resolveOption(cfg, raw)
		if !ok {
			return nil, validationErr(cfg.Name, ferrors.ReasonUnknownOption, "not a configured option: "+raw)
		}
		out = append(out, Entry{"VALUE": opt.ID})
	}
	return out, nil
}

// resolveOption matches raw against a configured option's id or name.
func resolveOption(cfg *Config, raw string) (SelectOption, bool) {
	for _, opt := range cfg.Options {
		if opt.ID == raw || opt.Name == raw {
			return opt, true
		}
	}
	return SelectOption{}, false
}
