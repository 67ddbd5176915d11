package upsert_date_exception

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/salon-booking-service/internal/domain"
	"github.com/m04kA/salon-booking-service/internal/api/middleware"
	"github.com/m04kA/salon-booking-service/internal/service/schedule"
	"github.com/m04kA/salon-booking-service/internal/service/schedule/models"
	"github.com/m04kA/salon-booking-service/pkg/logger"
)

type fakeService struct {
	gotUser int64
	gotDate time.Time
	err     error
}

func (f *fakeService) UpsertDateException(_ context.Context, userID, _ int64, date time.Time, req *models.DateExceptionRequest) (*models.DateExceptionResponse, error) {
	f.gotUser, f.gotDate = userID, date
	if f.err != nil {
		return nil, f.err
	}
	return &models.DateExceptionResponse{Date: date.Format(domain.DateFormat), DayOff: req.DayOff}, nil
}

func put(svc *fakeService, date, body string) *httptest.ResponseRecorder {
	return send(svc, date, body, true)
}

func send(svc *fakeService, date, body string, withUser bool) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPut, "/api/v1/staff/7/schedule/exceptions/"+date, strings.NewReader(body))
	req = mux.SetURLVars(req, map[string]string{"staffId": "7", "date": date})
	if withUser {
		req = req.WithContext(middleware.WithUserID(req.Context(), 100))
	}
	rec := httptest.NewRecorder()
	NewHandler(svc, logger.NewNop()).Handle(rec, req)
	return rec
}

func TestHandle(t *testing.T) {
	svc := &fakeService{}

	rec := put(svc, "2025-12-25", `{"dayOff":true,"reason":"Natal"}`)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, time.Date(2025, 12, 25, 0, 0, 0, 0, time.UTC), svc.gotDate)
	assert.Equal(t, int64(100), svc.gotUser)
	assert.Contains(t, rec.Body.String(), `"dayOff":true`)
}

func TestHandle_Errors(t *testing.T) {
	assert.Equal(t, http.StatusBadRequest, put(&fakeService{}, "25-12-2025", `{"dayOff":true}`).Code)
	assert.Equal(t, http.StatusBadRequest, put(&fakeService{}, "2025-12-25", `[]`).Code)
	assert.Equal(t, http.StatusBadRequest, put(&fakeService{err: schedule.ErrInvalidInput}, "2025-12-25", `{}`).Code)
	assert.Equal(t, http.StatusNotFound, put(&fakeService{err: schedule.ErrStaffNotFound}, "2025-12-25", `{}`).Code)
	assert.Equal(t, http.StatusForbidden, put(&fakeService{err: schedule.ErrAccessDenied}, "2025-12-25", `{}`).Code)
	assert.Equal(t, http.StatusUnauthorized, send(&fakeService{}, "2025-12-25", `{}`, false).Code)
	assert.Equal(t, http.StatusInternalServerError, put(&fakeService{err: errors.New("db")}, "2025-12-25", `{}`).Code)
}
