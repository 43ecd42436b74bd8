package reminder_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MrJamesThe3rd/pennywise/internal/auth"
	reminderHandler "github.com/MrJamesThe3rd/pennywise/internal/http/reminder"
	"github.com/MrJamesThe3rd/pennywise/internal/reminder"
)

type mocks struct {
	repo         *reminder.MockRepository
	categories   *reminder.MockCategoryChecker
	transactions *reminder.MockTransactionChecker
}

func setup(t *testing.T, userID uuid.UUID) (mocks, http.Handler) {
	t.Helper()

	ctrl := gomock.NewController(t)
	m := mocks{
		repo:         reminder.NewMockRepository(ctrl),
		categories:   reminder.NewMockCategoryChecker(ctrl),
		transactions: reminder.NewMockTransactionChecker(ctrl),
	}

	svc := reminder.NewService(m.repo, m.categories, m.transactions)

	r := chi.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			next.ServeHTTP(w, req.WithContext(auth.WithIdentity(req.Context(), auth.Identity{UserID: userID})))
		})
	})
	r.Route("/reminders", reminderHandler.NewHandler(svc).Routes)

	return m, r
}

func serve(h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(method, path, strings.NewReader(body)))

	return rec
}

func TestCreate(t *testing.T) {
	userID, categoryID := uuid.New(), uuid.New()
	later := time.Now().UTC().AddDate(0, 0, 2).Format(time.DateOnly)

	tests := []struct {
		name       string
		body       string
		setupMock  func(m mocks)
		wantStatus int
		wantBody   string
	}{
		{
			name: "Success",
			body: `{"category_id":"` + categoryID.String() + `","title":"Pay rent","due_date":"` + later + `"}`,
			setupMock: func(m mocks) {
				m.categories.EXPECT().EnsureOwned(gomock.Any(), userID, categoryID).Return(nil)
				m.repo.EXPECT().CreateReminder(gomock.Any(), gomock.Any()).Return(nil)
			},
			wantStatus: http.StatusCreated,
			wantBody:   `"is_completed":false`,
		},
		{
			name:       "DueInPast",
			body:       `{"category_id":"` + categoryID.String() + `","title":"Pay rent","due_date":"2000-01-01"}`,
			setupMock:  func(mocks) {},
			wantStatus: http.StatusUnprocessableEntity,
			wantBody:   "The due date must be a date after or equal to today.",
		},
		{
			name:       "MissingTitle",
			body:       `{"category_id":"` + categoryID.String() + `","due_date":"` + later + `"}`,
			setupMock:  func(mocks) {},
			wantStatus: http.StatusUnprocessableEntity,
			wantBody:   "The title field is required.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, h := setup(t, userID)
			tt.setupMock(m)

			rec := serve(h, http.MethodPost, "/reminders", tt.body)
			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Contains(t, rec.Body.String(), tt.wantBody)
		})
	}
}

func TestComplete(t *testing.T) {
	userID, id := uuid.New(), uuid.New()
	m, h := setup(t, userID)

	m.repo.EXPECT().GetReminder(gomock.Any(), id).Return(&reminder.Reminder{ID: id, UserID: userID}, nil)
	m.repo.EXPECT().UpdateReminder(gomock.Any(), gomock.Any()).Return(nil)

	rec := serve(h, http.MethodPatch, "/reminders/"+id.String()+"/complete", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Reminder marked as completed")
	assert.Contains(t, rec.Body.String(), `"is_completed":true`)
}

func TestList_Filters(t *testing.T) {
	userID := uuid.New()
	m, h := setup(t, userID)

	m.repo.EXPECT().ListReminders(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, f reminder.ListFilter) ([]*reminder.Reminder, error) {
			require.NotNil(t, f.IsCompleted)
			assert.False(t, *f.IsCompleted)
			assert.NotNil(t, f.DueFrom)
			assert.Equal(t, 15, f.Limit)

			return []*reminder.Reminder{{Title: "a"}}, nil
		})
	m.repo.EXPECT().CountReminders(gomock.Any(), gomock.Any()).Return(1, nil)

	rec := serve(h, http.MethodGet, "/reminders?is_completed=0&upcoming=1", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"total":1`)
}

func TestUpcoming(t *testing.T) {
	userID := uuid.New()
	m, h := setup(t, userID)

	m.repo.EXPECT().ListReminders(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, f reminder.ListFilter) ([]*reminder.Reminder, error) {
			assert.Equal(t, reminder.UpcomingLimit, f.Limit)
			return []*reminder.Reminder{{Title: "a"}, {Title: "b"}}, nil
		})

	rec := serve(h, http.MethodGet, "/reminders/upcoming", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"title":"b"`)
}
