// Package validate implements struct-tag driven request validation.
// Rules are declared in a `validate` tag, pipe separated:
//
//	type JoinRequest struct {
//		Email    string `json:"email" validate:"required|email"`
//		Password string `json:"password" validate:"required|min:4"`
//	}
package validate

import (
	"fmt"
	"net/mail"
	"net/url"
	"reflect"
	"strconv"
	"strings"
)

// Errors maps field names (json tag when present) to the first failing rule's
// message.
type Errors map[string]string

func (e Errors) Error() string {
	parts := make([]string, 0, len(e))
	for field, msg := range e {
		parts = append(parts, field+": "+msg)
	}
	return strings.Join(parts, "; ")
}

// Struct validates v against its `validate` tags. Returns nil when every
// field passes, otherwise an Errors map.
func Struct(v interface{}) Errors {
	rv := reflect.ValueOf(v)
	for rv.Kind() == reflect.Ptr {
		if rv.IsNil() {
			return Errors{"_": "nil value"}
		}
		rv = rv.Elem()
	}
	if rv.Kind() != reflect.Struct {
		return Errors{"_": "not a struct"}
	}

	errs := Errors{}
	rt := rv.Type()

	for i := 0; i < rt.NumField(); i++ {
		field := rt.Field(i)
		tag := field.Tag.Get("validate")
		if tag == "" || tag == "-" {
			continue
		}

		name := fieldName(field)
		value := rv.Field(i)
		rules := strings.Split(tag, "|")

		if hasRule(rules, "nullable") && isZero(value) {
			continue
		}

		for _, rule := range rules {
			if rule == "nullable" {
				continue
			}
			if msg := apply(rule, value); msg != "" {
				errs[name] = msg
				break
			}
		}
	}

	if len(errs) == 0 {
		return nil
	}
	return errs
}

func fieldName(field reflect.StructField) string {
	jsonTag := field.Tag.Get("json")
	if jsonTag == "" || jsonTag == "-" {
		return field.Name
	}
	if idx := strings.Index(jsonTag, ","); idx >= 0 {
		jsonTag = jsonTag[:idx]
	}
	if jsonTag == "" {
		return field.Name
	}
	return jsonTag
}

func hasRule(rules []string, name string) bool {
	for _, r := range rules {
		if r == name {
			return true
		}
	}
	return false
}

// apply runs one rule against a value, returning "" on pass.
func apply(rule string, value reflect.Value) string {
	name, arg := rule, ""
	if idx := strings.Index(rule, ":"); idx >= 0 {
		name, arg = rule[:idx], rule[idx+1:]
	}

	for value.Kind() == reflect.Ptr {
		if value.IsNil() {
			if name == "required" {
				return "field is required"
			}
			return ""
		}
		value = value.Elem()
	}

	switch name {
	case "required":
		if isZero(value) {
			return "field is required"
		}
	case "email":
		s := value.String()
		if _, err := mail.ParseAddress(s); err != nil {
			return "must be a valid email address"
		}
	case "url":
		s := value.String()
		u, err := url.Parse(s)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return "must be a valid URL"
		}
	case "boolean":
		if value.Kind() != reflect.Bool {
			return "must be a boolean"
		}
	case "integer":
		if !isInt(value) {
			return "must be an integer"
		}
	case "numeric":
		if !isInt(value) && !isFloat(value) {
			return "must be numeric"
		}
	case "min":
		return compare(value, arg, func(have, want float64) bool { return have >= want },
			fmt.Sprintf("must be at least %s", arg))
	case "max":
		return compare(value, arg, func(have, want float64) bool { return have <= want },
			fmt.Sprintf("must be at most %s", arg))
	case "gte":
		return numericCompare(value, arg, func(have, want float64) bool { return have >= want },
			fmt.Sprintf("must be greater than or equal to %s", arg))
	case "lte":
		return numericCompare(value, arg, func(have, want float64) bool { return have <= want },
			fmt.Sprintf("must be less than or equal to %s", arg))
	case "in":
		options := strings.Split(arg, ",")
		s := stringify(value)
		for _, opt := range options {
			if s == opt {
				return ""
			}
		}
		return "must be one of: " + strings.Join(options, ", ")
	}

	return ""
}

// compare sizes strings and slices by length, numbers by value.
func compare(value reflect.Value, arg string, ok func(have, want float64) bool, msg string) string {
	want, err := strconv.ParseFloat(arg, 64)
	if err != nil {
		return ""
	}

	var have float64
	switch {
	case value.Kind() == reflect.String:
		have = float64(len(value.String()))
	case value.Kind() == reflect.Slice || value.Kind() == reflect.Map:
		have = float64(value.Len())
	case isInt(value):
		have = float64(value.Int())
	case isFloat(value):
		have = value.Float()
	default:
		return ""
	}

	if !ok(have, want) {
		return msg
	}
	return ""
}

// numericCompare only applies to numeric kinds.
func numericCompare(value reflect.Value, arg string, ok func(have, want float64) bool, msg string) string {
	want, err := strconv.ParseFloat(arg, 64)
	if err != nil {
		return ""
	}

	var have float64
	switch {
	case isInt(value):
		have = float64(value.Int())
	case isFloat(value):
		have = value.Float()
	default:
		return "must be numeric"
	}

	if !ok(have, want) {
		return msg
	}
	return ""
}

func isZero(v reflect.Value) bool {
	switch v.Kind() {
	case reflect.Ptr, reflect.Interface:
		return v.IsNil()
	case reflect.Slice, reflect.Map:
		return v.IsNil() || v.Len() == 0
	default:
		return v.IsZero()
	}
}

func isInt(v reflect.Value) bool {
	switch v.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return true
	}
	return false
}

func isFloat(v reflect.Value) bool {
	return v.Kind() == reflect.Float32 || v.Kind() == reflect.Float64
}

func stringify(v reflect.Value) string {
	switch {
	case v.Kind() == reflect.String:
		return v.String()
	case isInt(v):
		return strconv.FormatInt(v.Int(), 10)
	case isFloat(v):
		return strconv.FormatFloat(v.Float(), 'f', -1, 64)
	case v.Kind() == reflect.Bool:
		return strconv.FormatBool(v.Bool())
	}
	return fmt.Sprint(v.Interface())
}
