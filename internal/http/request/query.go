package request

import (
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/pennywise/internal/apperr"
)

// Query reads optional filters from the query string, collecting every
// malformed value before reporting.
type Query struct {
	values url.Values
	errs   apperr.ValidationError
}

func NewQuery(r *http.Request) *Query {
	return &Query{values: r.URL.Query()}
}

func (q *Query) Values() url.Values { return q.values }

// Has reports whether key is present, even with an empty value.
func (q *Query) Has(key string) bool {
	return q.values.Has(key)
}

func (q *Query) Date(key string) *time.Time {
	s := strings.TrimSpace(q.values.Get(key))
	if s == "" {
		return nil
	}

	t, err := time.Parse(time.DateOnly, s)
	if err != nil {
		q.errs.Add(key, fmt.Sprintf("The %s field must be a valid date (YYYY-MM-DD).", attribute(key)))
		return nil
	}

	return &t
}

// RequiredDate is Date with a presence check.
func (q *Query) RequiredDate(key string) time.Time {
	if strings.TrimSpace(q.values.Get(key)) == "" {
		q.errs.Add(key, fmt.Sprintf("The %s field is required.", attribute(key)))
		return time.Time{}
	}

	if t := q.Date(key); t != nil {
		return *t
	}

	return time.Time{}
}

func (q *Query) UUID(key string) *uuid.UUID {
	s := strings.TrimSpace(q.values.Get(key))
	if s == "" {
		return nil
	}

	id, err := uuid.Parse(s)
	if err != nil {
		q.errs.Add(key, fmt.Sprintf("The %s field must be a valid UUID.", attribute(key)))
		return nil
	}

	return &id
}

// Bool accepts 1/0, true/false, on/off and yes/no. An empty value is false.
func (q *Query) Bool(key string) *bool {
	if !q.values.Has(key) {
		return nil
	}

	switch strings.ToLower(strings.TrimSpace(q.values.Get(key))) {
	case "1", "true", "on", "yes":
		b := true
		return &b
	case "", "0", "false", "off", "no":
		b := false
		return &b
	}

	q.errs.Add(key, fmt.Sprintf("The %s field must be true or false.", attribute(key)))

	return nil
}

// Err returns the collected errors, or nil.
func (q *Query) Err() error {
	if q.errs.Empty() {
		return nil
	}

	return &q.errs
}
