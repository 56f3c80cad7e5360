// Grounded on original_source/src/storage/columns/date.rs: four date
// formats crossed with a 12- or 24-hour time, padded to midnight
// (00:00:00+0000, or 12:00:00am+0000 in 12-hour mode) when no time is
// present so the stored string round-trips through re-validation unchanged.
package column

import (
	"strings"
	"time"

	"github.com/foliant-db/foliant/ferrors"
)

func dateLayout(cfg *Config) (dateFmt, sep string, is12h bool) {
	switch cfg.DateFormat {
	case DateFormatUS:
		dateFmt = "01/02/2006"
	case DateFormatEuropean:
		dateFmt = "02/01/2006"
	case DateFormatISO:
		dateFmt = "2006-01-02"
	default: // Friendly
		dateFmt = "02-Jan-2006"
	}
	sep = " "
	if cfg.DateFormat == DateFormatISO {
		sep = "T"
	}
	is12h = cfg.TimeFormat == TimeFormat12
	return
}

func timeLayout(is12h bool) string {
	if is12h {
		return "03:04:05pm-0700"
	}
	return "15:04:05-0700"
}

func validateDate(cfg *Config, inputs []string) (ValueList, error) {
	dateFmt, sep, is12h := dateLayout(cfg)
	timeFmt := timeLayout(is12h)
	layout := dateFmt + sep + timeFmt

	out := make(ValueList, 0, len(inputs))
	for _, raw := range inputs {
		candidate := raw
		if !hasTimeComponent(raw, sep) {
			if is12h {
				candidate = raw + sep + "12:00:00am+0000"
			} else {
				candidate = raw + sep + "00:00:00+0000"
			}
		}
		if _, err := time.Parse(layout, candidate); err != nil {
			return nil, validationErr(cfg.Name, ferrors.ReasonFormatMismatch,
				"date \""+raw+"\" does not match configured format: "+err.Error())
		}
		out = append(out, Entry{"VALUE": candidate})
	}
	return out, nil
}

// hasTimeComponent reports whether raw already carries the date/time
// separator, meaning the caller supplied an explicit time-of-day.
func hasTimeComponent(raw, sep string) bool {
	return strings.Contains(raw, sep)
}

func validateCreatedTime(cfg *Config, _ []string, ctx *ValidateContext) (ValueList, error) {
	return NewValueList(now(ctx).UTC().Format(time.RFC3339)), nil
}

func validateLastModifiedTime(cfg *Config, _ []string, ctx *ValidateContext) (ValueList, error) {
	return NewValueList(now(ctx).UTC().Format(time.RFC3339)), nil
}

func now(ctx *ValidateContext) time.Time {
	if ctx != nil && ctx.Now != nil {
		return ctx.Now()
	}
	return time.Now()
}
