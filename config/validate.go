package config

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"text/template"

	"github.com/pagevault/pagevault/icon"
	"github.com/pagevault/pagevault/key"
	"github.com/samber/lo"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

// InvalidValueError is returned for a value a field does not accept.
type InvalidValueError struct {
	Key   string
	Value any
	Err   error
}

func (e *InvalidValueError) Error() string {
	return fmt.Sprintf("invalid value %v for %s: %v", e.Value, e.Key, e.Err)
}

func (e *InvalidValueError) Unwrap() error {
	return e.Err
}

type check func(value any) error

var checks = map[string]check{
	key.CaptureTitleTimeout:       positive,
	key.CaptureDeferredImagesIdle: nonNegative,
	key.CaptureBrowserWidth:       positive,
	key.CaptureBrowserHeight:      positive,
	key.CaptureBrowserArgs:        browserArgs,
	key.HandlersDisabled:          handlerNames,
	key.SyncCommitMessage:         commitTemplate,
	key.IconsVariant:              oneOf(icon.AvailableVariants()...),
	key.LogsLevel:                 logLevel,
}

func positive(value any) error {
	if value.(int) <= 0 {
		return errors.New("must be greater than zero")
	}
	return nil
}

func nonNegative(value any) error {
	if value.(int) < 0 {
		return errors.New("must not be negative")
	}
	return nil
}

func browserArgs(value any) error {
	for _, arg := range value.([]string) {
		if !strings.HasPrefix(arg, "-") {
			return fmt.Errorf("%q is not a flag", arg)
		}
	}
	return nil
}

func handlerNames(value any) error {
	for _, name := range value.([]string) {
		if name == "" || strings.ContainsAny(name, `/\`) {
			return fmt.Errorf("%q is not a handler name", name)
		}
	}
	return nil
}

func commitTemplate(value any) error {
	_, err := template.New("message").Parse(value.(string))
	return err
}

func oneOf(options ...string) check {
	return func(value any) error {
		if !lo.Contains(options, value.(string)) {
			return fmt.Errorf("expected one of %s", strings.Join(options, ", "))
		}
		return nil
	}
}

func logLevel(value any) error {
	_, err := logrus.ParseLevel(value.(string))
	return err
}

// Parse converts raw command line values to the type of the field's default
// and validates the result.
func Parse(name string, raw []string) (any, error) {
	field, ok := Default[name]
	if !ok {
		return nil, fmt.Errorf("unknown key %s", name)
	}
	if len(raw) == 0 {
		return nil, &InvalidValueError{Key: name, Value: raw, Err: errors.New("no value given")}
	}

	var value any
	switch field.Value.(type) {
	case string:
		value = raw[0]
	case int:
		parsed, err := strconv.Atoi(raw[0])
		if err != nil {
			return nil, &InvalidValueError{Key: name, Value: raw[0], Err: errors.New("not an integer")}
		}
		value = parsed
	case bool:
		parsed, err := strconv.ParseBool(raw[0])
		if err != nil {
			return nil, &InvalidValueError{Key: name, Value: raw[0], Err: errors.New("not a boolean")}
		}
		value = parsed
	case []string:
		value = lo.Compact(raw)
	default:
		return nil, fmt.Errorf("%s has an unsupported type", name)
	}

	if err := Validate(name, value); err != nil {
		return nil, err
	}
	return value, nil
}

// Validate reports whether value is acceptable for the named field.
func Validate(name string, value any) error {
	c, ok := checks[name]
	if !ok {
		return nil
	}
	if err := c(value); err != nil {
		return &InvalidValueError{Key: name, Value: value, Err: err}
	}
	return nil
}

// current reads the value of a field with the type of its default.
func current(field Field) any {
	switch field.Value.(type) {
	case int:
		return viper.GetInt(field.Key)
	case bool:
		return viper.GetBool(field.Key)
	case []string:
		return viper.GetStringSlice(field.Key)
	default:
		return viper.GetString(field.Key)
	}
}

// Rejected lists values from the config file or environment that were
// replaced by their defaults during Setup.
var Rejected []error

// rejectInvalid falls back to the default for every field whose current value fails validation.
func rejectInvalid() {
	Rejected = nil
	for _, name := range lo.Keys(Default) {
		field := Default[name]
		if err := Validate(name, current(field)); err != nil {
			Rejected = append(Rejected, err)
			viper.Set(name, field.Value)
		}
	}
}
