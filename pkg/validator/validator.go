// Package validator checks loaded settings with go-playground/validator and
// reports every failing field as an apperr suggestion.
package validator

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	gvalidator "github.com/go-playground/validator/v10"

	"github.com/milan604/netservice/pkg/apperr"
)

// Validator validates structs, naming fields by their mapstructure or json tag.
type Validator struct {
	v *gvalidator.Validate
}

// New returns a ready Validator.
func New() *Validator {
	v := gvalidator.New(gvalidator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(fieldName)
	return &Validator{v: v}
}

func fieldName(f reflect.StructField) string {
	for _, key := range []string{"mapstructure", "json"} {
		name, _, _ := strings.Cut(f.Tag.Get(key), ",")
		if name != "" && name != "-" {
			return name
		}
	}
	return f.Name
}

// Struct validates s. It returns nil when s is valid, otherwise an
// ErrorCodeInvalidConfig error with one suggestion per failing field.
func (vi *Validator) Struct(s any) *apperr.AppError {
	err := vi.v.Struct(s)
	if err == nil {
		return nil
	}
	var fields gvalidator.ValidationErrors
	if !errors.As(err, &fields) {
		return apperr.New(apperr.ErrorCodeInvalidConfig).Wrap(err)
	}
	out := apperr.New(apperr.ErrorCodeInvalidConfig)
	for _, fe := range fields {
		out.AddSuggestion(fe.Namespace(), message(fe))
	}
	return out
}

var comparisons = map[string]string{
	"gt":  "greater than",
	"gte": "at least",
	"lt":  "less than",
	"lte": "at most",
}

func message(fe gvalidator.FieldError) string {
	name := fe.Namespace()
	switch tag := fe.Tag(); tag {
	case "required":
		return name + " is required"
	case "url":
		return name + " must be an absolute URL"
	case "hostname_port":
		return name + " must be host:port"
	case "oneof":
		return fmt.Sprintf("%s must be one of [%s]", name, fe.Param())
	case "gt", "gte", "lt", "lte":
		return fmt.Sprintf("%s must be %s %s (%s)", name, comparisons[tag], fe.Param(), tag)
	default:
		return fmt.Sprintf("%s failed %q validation", name, tag)
	}
}
