// Copyright 2026 The Gantry Authors
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/pflag"
)

// FlagBinder is implemented by types that bind their own flags
// manually. When a struct field's type implements FlagBinder,
// [BindFlags] calls AddFlags instead of reflecting struct tags.
type FlagBinder interface {
	AddFlags(flagSet *pflag.FlagSet)
}

// FlagsFromParams creates a [pflag.FlagSet] with flags bound to the
// tagged fields of params. params must be a pointer to a struct.
// Panics on invalid input (programming error, not runtime data).
func FlagsFromParams(name string, params any) *pflag.FlagSet {
	flagSet := pflag.NewFlagSet(name, pflag.ContinueOnError)
	if err := BindFlags(params, flagSet); err != nil {
		panic(fmt.Sprintf("cli.FlagsFromParams(%q): %v", name, err))
	}
	return flagSet
}

// BindFlags registers pflag entries for each tagged field in params.
// params must be a pointer to a struct.
//
// # Struct tags
//
// Three tags control flag binding:
//
//   - flag:"name" or flag:"name,n" — the long flag name and optional
//     single-character shorthand. Fields without a flag tag are skipped.
//   - desc:"help text" — the flag's help description.
//   - default:"value" — the default value, parsed according to the
//     field's Go type. If omitted, the type's zero value is used.
//
// # Supported field types
//
// string, bool, int, int64, float64, [time.Duration], []string.
//
// # Struct composition
//
// Struct fields (embedded or named) that implement [FlagBinder] are
// bound via AddFlags; other embedded structs are bound recursively.
// This is how [JSONOutput] contributes its --json flag and how
// [WorkspaceConfig] and [ArgSetConfig] contribute their shared flags.
func BindFlags(params any, flagSet *pflag.FlagSet) error {
	value := reflect.ValueOf(params)
	if value.Kind() != reflect.Ptr || value.Elem().Kind() != reflect.Struct {
		return fmt.Errorf("params must be a pointer to a struct, got %T", params)
	}
	return bindStructFields(value.Elem(), flagSet)
}

// bindStructFields walks the fields of structValue and registers a
// flag for each tagged one. FlagBinder takes precedence over tag
// reflection so shared param structs control their own registration.
func bindStructFields(structValue reflect.Value, flagSet *pflag.FlagSet) error {
	structType := structValue.Type()

	for i := range structType.NumField() {
		field := structType.Field(i)
		fieldValue := structValue.Field(i)

		if field.Type.Kind() == reflect.Struct && field.IsExported() && fieldValue.CanAddr() {
			if binder, ok := fieldValue.Addr().Interface().(FlagBinder); ok {
				binder.AddFlags(flagSet)
				continue
			}
		}

		// Embedded structs without FlagBinder contribute their own
		// tagged fields.
		if field.Anonymous && field.Type.Kind() == reflect.Struct {
			if err := bindStructFields(fieldValue, flagSet); err != nil {
				return fmt.Errorf("embedded %s: %w", field.Name, err)
			}
			continue
		}

		flagTag := field.Tag.Get("flag")
		if flagTag == "" {
			continue
		}
		if !fieldValue.CanAddr() {
			return fmt.Errorf("field %s: not addressable", field.Name)
		}

		name, shorthand, _ := strings.Cut(flagTag, ",")
		err := bindField(fieldValue, flagSet, name, shorthand,
			field.Tag.Get("desc"), field.Tag.Get("default"))
		if err != nil {
			return fmt.Errorf("field %s: %w", field.Name, err)
		}
	}

	return nil
}

// bindField registers one flag for the field at fieldValue, dispatching
// on the field's Go type.
func bindField(fieldValue reflect.Value, flagSet *pflag.FlagSet, name, shorthand, description, defaultTag string) error {
	switch target := fieldValue.Addr().Interface().(type) {
	case *string:
		flagSet.StringVarP(target, name, shorthand, defaultTag, description)
		return nil

	case *bool:
		return bindParsed(flagSet.BoolVarP, target, name, shorthand, description, defaultTag, strconv.ParseBool)

	case *int:
		return bindParsed(flagSet.IntVarP, target, name, shorthand, description, defaultTag, strconv.Atoi)

	case *int64:
		return bindParsed(flagSet.Int64VarP, target, name, shorthand, description, defaultTag, func(s string) (int64, error) {
			return strconv.ParseInt(s, 10, 64)
		})

	case *float64:
		return bindParsed(flagSet.Float64VarP, target, name, shorthand, description, defaultTag, func(s string) (float64, error) {
			return strconv.ParseFloat(s, 64)
		})

	case *time.Duration:
		return bindParsed(flagSet.DurationVarP, target, name, shorthand, description, defaultTag, time.ParseDuration)

	case *[]string:
		var defaultValue []string
		if defaultTag != "" {
			defaultValue = strings.Split(defaultTag, ",")
		}
		flagSet.StringSliceVarP(target, name, shorthand, defaultValue, description)
		return nil

	default:
		return fmt.Errorf("unsupported type %s for flag --%s", fieldValue.Type(), name)
	}
}

// bindParsed registers a flag whose default tag must parse as T. An
// empty tag means the zero value.
func bindParsed[T any](register func(*T, string, string, T, string), target *T, name, shorthand, description, defaultTag string, parse func(string) (T, error)) error {
	var defaultValue T
	if defaultTag != "" {
		parsed, err := parse(defaultTag)
		if err != nil {
			return fmt.Errorf("default for --%s: %w", name, err)
		}
		defaultValue = parsed
	}
	register(target, name, shorthand, defaultValue, description)
	return nil
}
