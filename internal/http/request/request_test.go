package request_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/pennywise/internal/apperr"
	"github.com/MrJamesThe3rd/pennywise/internal/http/request"
)

type entry struct {
	Amount *decimal.Decimal `json:"amount" validate:"required,gte=0"`
	Date   string           `json:"date" validate:"required,datetime=2006-01-02"`
}

type createRequest struct {
	Name       string  `json:"name" validate:"required,max=5"`
	Type       string  `json:"type" validate:"required,oneof=income expense"`
	CategoryID *string `json:"category_id" validate:"omitempty,uuid"`
	Entries    []entry `json:"entries" validate:"dive"`
}

func post(body string) *http.Request {
	return httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
}

func fields(t *testing.T, err error) map[string][]string {
	t.Helper()

	var ve *apperr.ValidationError
	require.ErrorAs(t, err, &ve)

	return ve.Fields
}

func TestDecode(t *testing.T) {
	var req createRequest
	err := request.Decode(post(`{"name":"Food","type":"expense","entries":[{"amount":"12.50","date":"2024-01-02"},{"amount":0,"date":"2024-01-03"}]}`), &req)
	require.NoError(t, err)

	assert.Equal(t, "Food", req.Name)
	require.Len(t, req.Entries, 2)
	assert.True(t, decimal.RequireFromString("12.5").Equal(*req.Entries[0].Amount))
	assert.True(t, req.Entries[1].Amount.IsZero())
}

func TestDecode_Errors(t *testing.T) {
	tests := []struct {
		name string
		body string
		want map[string][]string
	}{
		{
			name: "MissingFields",
			body: `{}`,
			want: map[string][]string{
				"name": {"The name field is required."},
				"type": {"The type field is required."},
			},
		},
		{
			name: "Rules",
			body: `{"name":"Groceries","type":"gift","category_id":"nope"}`,
			want: map[string][]string{
				"name":        {"The name field must not be greater than 5 characters."},
				"type":        {"The selected type is invalid."},
				"category_id": {"The category id field must be a valid UUID."},
			},
		},
		{
			name: "NestedEntries",
			body: `{"name":"Food","type":"income","entries":[{"amount":-1,"date":"02/01/2024"}]}`,
			want: map[string][]string{
				"entries.0.amount": {"The amount field must be at least 0."},
				"entries.0.date":   {"The date field must be a valid date (YYYY-MM-DD)."},
			},
		},
		{
			name: "UnknownField",
			body: `{"name":"Food","type":"income","user_id":"x"}`,
			want: map[string][]string{"user_id": {"The user id field is not allowed."}},
		},
		{
			name: "WrongType",
			body: `{"name":12,"type":"income"}`,
			want: map[string][]string{"name": {"The name field has an invalid type."}},
		},
		{
			name: "Empty",
			body: ``,
			want: map[string][]string{"body": {"The request body is required."}},
		},
		{
			name: "Malformed",
			body: `{"name":`,
			want: map[string][]string{"body": {"The request body must be valid JSON."}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var req createRequest
			err := request.Decode(post(tt.body), &req)
			assert.Equal(t, tt.want, fields(t, err))
		})
	}
}

func TestQuery(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/?start_date=2024-01-01&is_completed=yes&active&category_id=bad&end_date=01-02-2024", nil)

	q := request.NewQuery(r)

	start := q.Date("start_date")
	require.NotNil(t, start)
	assert.Equal(t, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), *start)

	yes, no := true, false
	assert.Equal(t, &yes, q.Bool("is_completed"))
	assert.Equal(t, &no, q.Bool("active"))
	assert.True(t, q.Has("active"))
	assert.Nil(t, q.Bool("upcoming"))

	assert.Nil(t, q.UUID("category_id"))
	assert.Nil(t, q.Date("end_date"))
	assert.Equal(t, map[string][]string{
		"category_id": {"The category id field must be a valid UUID."},
		"end_date":    {"The end date field must be a valid date (YYYY-MM-DD)."},
	}, fields(t, q.Err()))
}

func TestQuery_RequiredDate(t *testing.T) {
	q := request.NewQuery(httptest.NewRequest(http.MethodGet, "/?end_date=2024-02-01", nil))

	q.RequiredDate("start_date")
	end := q.RequiredDate("end_date")

	assert.Equal(t, time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC), end)
	assert.Equal(t, map[string][]string{"start_date": {"The start date field is required."}}, fields(t, q.Err()))
}

func TestQuery_NoErrors(t *testing.T) {
	q := request.NewQuery(httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Nil(t, q.Date("start_date"))
	assert.NoError(t, q.Err())
}
