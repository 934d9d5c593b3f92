// estat-mcp - e-Stat Government Statistics Client and MCP Server
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/estat-mcp

// Package validation checks e-Stat query structs with go-playground/validator
// before anything is sent upstream.
//
// Custom tags:
//
//	statsid     table ID: 1-20 ASCII letters or digits (empty passes)
//	estatcodes  comma-separated axis codes
//	estatlevel  hierarchy level or range: "1", "1-3", "-2", "2-"
//	estatperiod yyyy, yyyymm or a range of either joined by "-"
//	notblank    not empty after trimming whitespace
//
// Field names in messages are the json tag names, so errors read the same
// as the HTTP query parameters and MCP tool arguments.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"
)

var (
	validate     *validator.Validate
	validateOnce sync.Once

	statsIDPattern = regexp.MustCompile(`^[A-Za-z0-9]{1,20}$`)
	codePattern    = regexp.MustCompile(`^[A-Za-z0-9_]{1,32}$`)
	levelPattern   = regexp.MustCompile(`^(\d{1,2}|\d{1,2}-\d{0,2}|-\d{1,2})$`)
	periodPattern  = regexp.MustCompile(`^(\d{4}|\d{6})(-(\d{4}|\d{6}))?$`)
)

// maxCodesPerFilter bounds comma-joined filter lists. e-Stat rejects
// requests with more than 100 codes on one axis.
const maxCodesPerFilter = 100

// FieldError is one failed constraint.
type FieldError struct {
	Field   string
	Tag     string
	Param   string
	Value   any
	Message string
}

func (e FieldError) Error() string { return e.Message }

// RequestError collects every failed constraint of one struct.
type RequestError struct {
	Fields []FieldError
}

func (e *RequestError) Error() string {
	if len(e.Fields) == 0 {
		return "validation failed"
	}
	msgs := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		msgs[i] = f.Message
	}
	return strings.Join(msgs, "; ")
}

// First returns the first failed field, which callers report as the
// offending parameter.
func (e *RequestError) First() FieldError {
	if len(e.Fields) == 0 {
		return FieldError{Field: "request", Message: "validation failed"}
	}
	return e.Fields[0]
}

// GetValidator returns the shared validator with custom tags registered.
func GetValidator() *validator.Validate {
	validateOnce.Do(func() {
		v := validator.New(validator.WithRequiredStructEnabled())
		v.RegisterTagNameFunc(jsonFieldName)

		mustRegister(v, "notblank", validators.NotBlank)
		mustRegister(v, "statsid", func(fl validator.FieldLevel) bool {
			s := fl.Field().String()
			return s == "" || statsIDPattern.MatchString(s)
		})
		mustRegister(v, "estatcodes", validCodeList)
		mustRegister(v, "estatlevel", func(fl validator.FieldLevel) bool {
			s := fl.Field().String()
			return s != "-" && levelPattern.MatchString(s)
		})
		mustRegister(v, "estatperiod", func(fl validator.FieldLevel) bool {
			return periodPattern.MatchString(fl.Field().String())
		})

		validate = v
	})
	return validate
}

func mustRegister(v *validator.Validate, tag string, fn validator.Func) {
	if err := v.RegisterValidation(tag, fn); err != nil {
		panic(fmt.Sprintf("validation: register %s: %v", tag, err))
	}
}

func jsonFieldName(f reflect.StructField) string {
	name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
	if name == "-" || name == "" {
		return f.Name
	}
	return name
}

func validCodeList(fl validator.FieldLevel) bool {
	parts := strings.Split(fl.Field().String(), ",")
	if len(parts) > maxCodesPerFilter {
		return false
	}
	for _, p := range parts {
		if !codePattern.MatchString(strings.TrimSpace(p)) {
			return false
		}
	}
	return true
}

// ValidateStruct returns nil or a *RequestError describing every failure.
func ValidateStruct(s any) error {
	err := GetValidator().Struct(s)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return &RequestError{Fields: []FieldError{{Field: "request", Tag: "invalid", Message: err.Error()}}}
	}

	out := &RequestError{Fields: make([]FieldError, len(verrs))}
	for i, fe := range verrs {
		out.Fields[i] = FieldError{
			Field:   fe.Field(),
			Tag:     fe.Tag(),
			Param:   fe.Param(),
			Value:   fe.Value(),
			Message: translate(fe),
		}
	}
	return out
}

var messages = map[string]string{
	"required":         "%s is required",
	"notblank":         "%s must not be blank",
	"statsid":          "%s must be 1-20 letters or digits",
	"estatcodes":       "%s must be a comma-separated list of codes",
	"estatlevel":       "%s must be a level such as 1, 1-3, -2 or 2-",
	"estatperiod":      "%s must be yyyy, yyyymm or a range joined by '-'",
	"numeric":          "%s must contain only digits",
	"printascii":       "%s must be printable ASCII",
	"required_without": "%s is required when %s is not set",
}

func translate(fe validator.FieldError) string {
	field, tag, param := fe.Field(), fe.Tag(), fe.Param()

	switch tag {
	case "required_without":
		return fmt.Sprintf(messages[tag], field, jsonName(param))
	case "min", "max":
		unit := ""
		if fe.Kind() == reflect.String {
			unit = " characters"
		}
		bound := "at least"
		if tag == "max" {
			bound = "at most"
		}
		return fmt.Sprintf("%s must be %s %s%s", field, bound, param, unit)
	}
	if tmpl, ok := messages[tag]; ok {
		return fmt.Sprintf(tmpl, field)
	}
	return fmt.Sprintf("%s failed %s validation", field, tag)
}

// jsonName turns a Go field name used as a tag parameter into the snake
// case name shown to callers ("DatasetID" -> "dataset_id").
func jsonName(goName string) string {
	var b strings.Builder
	runes := []rune(goName)
	for i, r := range runes {
		upper := r >= 'A' && r <= 'Z'
		if upper && i > 0 {
			prevLower := runes[i-1] >= 'a' && runes[i-1] <= 'z'
			nextLower := i+1 < len(runes) && runes[i+1] >= 'a' && runes[i+1] <= 'z'
			if prevLower || nextLower {
				b.WriteByte('_')
			}
		}
		if upper {
			r += 'a' - 'A'
		}
		b.WriteRune(r)
	}
	return b.String()
}
