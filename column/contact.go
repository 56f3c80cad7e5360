package column

import (
	"net/url"
	"regexp"

	"github.com/foliant-db/foliant/ferrors"
)

var (
	phoneRE = regexp.MustCompile(`^\+?[0-9][0-9\-\s().]{5,20}$`)
	emailRE = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
)

func validatePhone(cfg *Config, inputs []string) (ValueList, error) {
	for _, v := range inputs {
		if !phoneRE.MatchString(v) {
			return nil, validationErr(cfg.Name, ferrors.ReasonFormatMismatch, "not a phone number: "+v)
		}
	}
	return NewValueList(inputs...), nil
}

func validateEmail(cfg *Config, inputs []string) (ValueList, error) {
	for _, v := range inputs {
		if !emailRE.MatchString(v) {
			return nil, validationErr(cfg.Name, ferrors.ReasonFormatMismatch, "not an email address: "+v)
		}
	}
	return NewValueList(inputs...), nil
}

func validateUrl(cfg *Config, inputs []string) (ValueList, error) {
	for _, v := range inputs {
		u, err := url.Parse(v)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return nil, validationErr(cfg.Name, ferrors.ReasonFormatMismatch, "not a URL: "+v)
		}
	}
	return NewValueList(inputs...), nil
}
