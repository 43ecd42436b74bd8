// Package request decodes and validates incoming requests. Failures are
// returned as *apperr.ValidationError keyed by the JSON field name.
package request

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"reflect"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/pennywise/internal/apperr"
	"github.com/MrJamesThe3rd/pennywise/internal/auth"
)

// ErrBadID is returned for path ids that are not UUIDs; no such record can exist.
var ErrBadID = apperr.NotFound("Resource not found")

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}

		return name
	})

	v.RegisterCustomTypeFunc(func(field reflect.Value) any {
		d, ok := field.Interface().(decimal.Decimal)
		if !ok {
			return nil
		}

		f, _ := d.Float64()

		return f
	}, decimal.Decimal{})

	return v
}

// Decode reads a JSON body into dst, rejecting unknown fields, then validates it.
func Decode(r *http.Request, dst any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()

	if err := dec.Decode(dst); err != nil {
		return decodeError(err)
	}

	return Validate(dst)
}

func decodeError(err error) error {
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) && typeErr.Field != "" {
		return apperr.Invalid(typeErr.Field, fmt.Sprintf("The %s field has an invalid type.", attribute(typeErr.Field)))
	}

	if errors.Is(err, io.EOF) {
		return apperr.Invalid("body", "The request body is required.")
	}

	if name, ok := strings.CutPrefix(err.Error(), "json: unknown field "); ok {
		name = strings.Trim(name, `"`)
		return apperr.Invalid(name, fmt.Sprintf("The %s field is not allowed.", attribute(name)))
	}

	return apperr.Invalid("body", "The request body must be valid JSON.")
}

// Validate runs the struct's validate tags.
func Validate(v any) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return fmt.Errorf("validating request: %w", err)
	}

	out := &apperr.ValidationError{}
	for _, fe := range fieldErrs {
		out.Add(key(fe), message(fe))
	}

	return out
}

// key turns "createRequest.transactions[0].amount" into "transactions.0.amount".
func key(fe validator.FieldError) string {
	ns := fe.Namespace()
	if _, rest, ok := strings.Cut(ns, "."); ok {
		ns = rest
	}

	return strings.NewReplacer("[", ".", "]", "").Replace(ns)
}

func attribute(field string) string {
	return strings.ReplaceAll(field, "_", " ")
}

func message(fe validator.FieldError) string {
	attr := attribute(fe.Field())

	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("The %s field is required.", attr)
	case "email":
		return fmt.Sprintf("The %s field must be a valid email address.", attr)
	case "max":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("The %s field must not be greater than %s characters.", attr, fe.Param())
		}

		return fmt.Sprintf("The %s field must not be greater than %s.", attr, fe.Param())
	case "min", "gte":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("The %s field must be at least %s characters.", attr, fe.Param())
		}

		return fmt.Sprintf("The %s field must be at least %s.", attr, fe.Param())
	case "oneof":
		return fmt.Sprintf("The selected %s is invalid.", attr)
	case "uuid":
		return fmt.Sprintf("The %s field must be a valid UUID.", attr)
	case "datetime":
		return fmt.Sprintf("The %s field must be a valid date (YYYY-MM-DD).", attr)
	case "eqfield":
		return fmt.Sprintf("The %s field must match %s.", attr, strings.ToLower(fe.Param()))
	}

	return fmt.Sprintf("The %s field is invalid.", attr)
}

// UserID returns the authenticated caller. Routes using it sit behind auth.Middleware.
func UserID(r *http.Request) uuid.UUID {
	id, _ := auth.FromContext(r.Context())
	return id.UserID
}

// PathID parses the named chi URL parameter.
func PathID(r *http.Request, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(chi.URLParam(r, name))
	if err != nil {
		return uuid.Nil, ErrBadID
	}

	return id, nil
}

// Date parses a value already checked by the datetime=2006-01-02 tag.
func Date(s string) time.Time {
	t, _ := time.Parse(time.DateOnly, s)
	return t
}

func OptionalDate(s *string) *time.Time {
	if s == nil {
		return nil
	}

	t := Date(*s)

	return &t
}

// UUID parses a value already checked by the uuid tag.
func UUID(s string) uuid.UUID {
	id, _ := uuid.Parse(s)
	return id
}

func OptionalUUID(s *string) *uuid.UUID {
	if s == nil {
		return nil
	}

	id := UUID(*s)

	return &id
}
