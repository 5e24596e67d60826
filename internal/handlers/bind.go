// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"html"
	"io"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/microcosm-cc/bluemonday"

	"votehub/internal/models"
)

// maxBodyBytes caps request bodies; every payload here is a handful of fields.
const maxBodyBytes = 1 << 20

const nonFieldErrors = "non_field_errors"

// Validation messages, worded the way API clients already expect them.
const (
	msgRequired     = "This field is required."
	msgBlank        = "This field may not be blank."
	msgNull         = "This field may not be null."
	msgNotString    = "Not a valid string."
	msgNotBool      = "Must be a valid boolean."
	msgDateFormat   = "Date has wrong format. Use one of these formats instead: YYYY-MM-DD."
	msgInvalidEmail = "Enter a valid email address."
	msgInvalid      = "Invalid value."
)

func invalidPK(raw string) string {
	return fmt.Sprintf("Invalid pk %q - object does not exist.", raw)
}

// field holds one bound request value. Set reports whether the key was
// present, Null whether it was an explicit JSON null.
type field[T any] struct {
	Set   bool
	Null  bool
	Value T
}

// Ptr returns the value, or nil when the field was absent or null.
func (f field[T]) Ptr() *T {
	if !f.Set || f.Null {
		return nil
	}
	v := f.Value
	return &v
}

// fieldErrors maps a field name to its messages. It is the 400 body.
type fieldErrors map[string][]string

func (fe fieldErrors) add(name, msg string) {
	fe[name] = append(fe[name], msg)
}

func (fe fieldErrors) has(name string) bool {
	return len(fe[name]) > 0
}

// validationError carries field errors out to the response writer.
type validationError struct {
	fields fieldErrors
}

func (e *validationError) Error() string {
	return fmt.Sprintf("validation failed: %v", map[string][]string(e.fields))
}

// parseError reports a body that is not valid JSON.
type parseError struct {
	err error
}

func (e *parseError) Error() string {
	return "JSON parse error - " + e.err.Error()
}

func (e *parseError) Unwrap() error { return e.err }

// rule controls the presence and emptiness checks of one field.
type rule struct {
	required   bool
	allowNull  bool
	allowBlank bool
	noTrim     bool
}

// payload is a decoded JSON object being bound field by field. Partial
// payloads (PATCH) skip required checks.
type payload struct {
	raw     map[string]json.RawMessage
	partial bool
	errs    fieldErrors
}

// decodePayload reads the request body as a JSON object. An empty body is
// an empty object.
func decodePayload(r *http.Request, partial bool) (*payload, error) {
	p := &payload{raw: map[string]json.RawMessage{}, partial: partial, errs: fieldErrors{}}
	if r.Body == nil {
		return p, nil
	}

	data, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes+1))
	if err != nil {
		return nil, &parseError{err: err}
	}
	if len(data) > maxBodyBytes {
		return nil, &parseError{err: errors.New("request body too large")}
	}
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return p, nil
	}

	var shape any
	if err := json.Unmarshal(data, &shape); err != nil {
		return nil, &parseError{err: err}
	}
	if _, ok := shape.(map[string]any); !ok {
		fe := fieldErrors{}
		if shape == nil {
			fe.add(nonFieldErrors, "No data provided")
		} else {
			fe.add(nonFieldErrors, "Invalid data. Expected a dictionary, but got "+jsonKind(data)+".")
		}
		return nil, &validationError{fields: fe}
	}
	if err := json.Unmarshal(data, &p.raw); err != nil {
		return nil, &parseError{err: err}
	}
	return p, nil
}

// err returns the collected field errors, if any.
func (p *payload) err() error {
	if len(p.errs) == 0 {
		return nil
	}
	return &validationError{fields: p.errs}
}

// take applies the presence and null rules. It returns the raw value
// only when there is something left to decode.
func (p *payload) take(name string, r rule) (json.RawMessage, bool, bool) {
	raw, set := p.raw[name]
	if !set {
		if r.required && !p.partial {
			p.errs.add(name, msgRequired)
		}
		return nil, false, false
	}
	if string(raw) == "null" {
		if !r.allowNull {
			p.errs.add(name, msgNull)
		}
		return nil, true, true
	}
	return raw, true, false
}

func bindString(p *payload, name string, r rule) field[string] {
	raw, set, null := p.take(name, r)
	f := field[string]{Set: set, Null: null}
	if raw == nil {
		return f
	}

	switch raw[0] {
	case '"':
		if err := json.Unmarshal(raw, &f.Value); err != nil {
			p.errs.add(name, msgNotString)
			return f
		}
	case '{', '[', 't', 'f':
		p.errs.add(name, msgNotString)
		return f
	default:
		f.Value = string(raw)
	}

	if !r.noTrim {
		f.Value = strings.TrimSpace(f.Value)
	}
	if f.Value == "" && !r.allowBlank {
		p.errs.add(name, msgBlank)
	}
	return f
}

var (
	trueValues  = map[string]bool{"t": true, "y": true, "yes": true, "true": true, "on": true, "1": true}
	falseValues = map[string]bool{"f": true, "n": true, "no": true, "false": true, "off": true, "0": true}
)

func bindBool(p *payload, name string, r rule) field[bool] {
	raw, set, null := p.take(name, r)
	f := field[bool]{Set: set, Null: null}
	if raw == nil {
		return f
	}

	token := string(raw)
	if raw[0] == '"' {
		var s string
		if err := json.Unmarshal(raw, &s); err == nil {
			token = s
		}
	}
	token = strings.ToLower(strings.TrimSpace(token))
	switch {
	case trueValues[token]:
		f.Value = true
	case falseValues[token]:
		f.Value = false
	default:
		p.errs.add(name, msgNotBool)
	}
	return f
}

// bindPK binds a primary-key reference. Existence is checked separately
// with checkPK once the whole payload is bound.
func bindPK(p *payload, name string, r rule) field[uuid.UUID] {
	raw, set, null := p.take(name, r)
	f := field[uuid.UUID]{Set: set, Null: null}
	if raw == nil {
		return f
	}

	if raw[0] != '"' {
		p.errs.add(name, "Incorrect type. Expected pk value, received "+jsonKind(raw)+".")
		return f
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		p.errs.add(name, msgNotString)
		return f
	}
	id, err := uuid.Parse(strings.TrimSpace(s))
	if err != nil {
		p.errs.add(name, invalidPK(s))
		return f
	}
	f.Value = id
	return f
}

func bindDate(p *payload, name string, r rule) field[models.Date] {
	raw, set, null := p.take(name, r)
	f := field[models.Date]{Set: set, Null: null}
	if raw == nil {
		return f
	}

	var s string
	if raw[0] != '"' || json.Unmarshal(raw, &s) != nil {
		p.errs.add(name, msgDateFormat)
		return f
	}
	d, err := models.ParseDate(strings.TrimSpace(s))
	if err != nil {
		p.errs.add(name, msgDateFormat)
		return f
	}
	f.Value = d
	return f
}

// checkPK records the does-not-exist message when a bound key points at
// no visible row.
func checkPK(p *payload, name string, f field[uuid.UUID], exists func(uuid.UUID) (bool, error)) error {
	if !f.Set || f.Null || p.errs.has(name) {
		return nil
	}
	ok, err := exists(f.Value)
	if err != nil {
		return err
	}
	if !ok {
		p.errs.add(name, invalidPK(f.Value.String()))
	}
	return nil
}

// jsonKind names the JSON type of raw the way error messages report it.
func jsonKind(raw []byte) string {
	if len(raw) == 0 {
		return "NoneType"
	}
	switch raw[0] {
	case '[':
		return "list"
	case '{':
		return "dict"
	case '"':
		return "str"
	case 't', 'f':
		return "bool"
	case 'n':
		return "NoneType"
	}
	if bytes.ContainsAny(raw, ".eE") {
		return "float"
	}
	return "int"
}

var validate = newValidator()

// newValidator reports fields by their JSON names and sees through
// field[T] so struct tags apply to the bound value.
func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	v.RegisterCustomTypeFunc(fieldValue[string], field[string]{})
	v.RegisterCustomTypeFunc(fieldValue[bool], field[bool]{})
	v.RegisterCustomTypeFunc(fieldValue[uuid.UUID], field[uuid.UUID]{})
	v.RegisterCustomTypeFunc(fieldValue[models.Date], field[models.Date]{})
	return v
}

func fieldValue[T any](v reflect.Value) any {
	f, ok := v.Interface().(field[T])
	if !ok || !f.Set || f.Null {
		return nil
	}
	return f.Value
}

// check runs the struct's validate tags. Fields that already failed
// binding are not reported twice.
func (p *payload) check(in any) {
	var verrs validator.ValidationErrors
	if !errors.As(validate.Struct(in), &verrs) {
		return
	}
	for _, fe := range verrs {
		if p.errs.has(fe.Field()) {
			continue
		}
		p.errs.add(fe.Field(), validationMessage(fe))
	}
}

func validationMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "min":
		return "Ensure this field has at least " + fe.Param() + " characters."
	case "max":
		return "Ensure this field has no more than " + fe.Param() + " characters."
	case "email":
		return msgInvalidEmail
	}
	return msgInvalid
}

var strict = bluemonday.StrictPolicy()

// stripMarkup removes every HTML tag from free text and leaves the
// remaining text unescaped for JSON output.
func stripMarkup(s string) string {
	return strings.TrimSpace(html.UnescapeString(strict.Sanitize(s)))
}
