// Object stores an arbitrary structured blob, parsed per its configured
// Mode (yaml or json) purely to validate well-formedness; the raw text is
// what gets persisted and re-rendered, not a re-encoded form, so a user's
// formatting and key order survive a round trip.
package column

import (
	"encoding/json"

	"gopkg.in/yaml.v2"

	"github.com/foliant-db/foliant/ferrors"
)

func validateObject(cfg *Config, inputs []string) (ValueList, error) {
	out := make(ValueList, 0, len(inputs))
	for _, raw := range inputs {
		var v interface{}
		var err error
		switch cfg.Mode {
		case ObjectModeJSON:
			err = json.Unmarshal([]byte(raw), &v)
		default:
			err = yaml.Unmarshal([]byte(raw), &v)
		}
		if err != nil {
			return nil, validationErr(cfg.Name, ferrors.ReasonFormatMismatch, "not valid "+cfg.Mode+": "+err.Error())
		}
		out = append(out, Entry{"VALUE": raw})
	}
	return out, nil
}

// renderObject parses the raw stored text per the column's Mode and returns
// the native value, so the result serializer (§4.8) nests it as a mapping
// rather than an escaped string.
func renderObject(cfg *Config, values ValueList) (interface{}, error) {
	if len(values) == 0 {
		return nil, nil
	}
	raw := values[0].Value()
	var v interface{}
	var err error
	switch cfg.Mode {
	case ObjectModeJSON:
		err = json.Unmarshal([]byte(raw), &v)
	default:
		err = yaml.Unmarshal([]byte(raw), &v)
	}
	if err != nil {
		return nil, ferrors.CorruptRecord.Wrap(err, "stored object value for column "+cfg.Name)
	}
	return v, nil
}
