package upsert_weekly_entry

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

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
	gotUser    int64
	gotWeekday domain.Weekday
	gotReq     *models.WeeklyEntryRequest
	err        error
}

func (f *fakeService) UpsertWeeklyEntry(_ context.Context, userID, _ int64, weekday domain.Weekday, req *models.WeeklyEntryRequest) (*models.WeeklyEntryResponse, error) {
	f.gotUser, f.gotWeekday, f.gotReq = userID, weekday, req
	if f.err != nil {
		return nil, f.err
	}
	return &models.WeeklyEntryResponse{Weekday: int(weekday), WeekdayName: weekday.String(), Active: req.Active}, nil
}

func put(svc *fakeService, weekday, body string) *httptest.ResponseRecorder {
	return send(svc, weekday, body, true)
}

func send(svc *fakeService, weekday, body string, withUser bool) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPut, "/api/v1/staff/7/schedule/weekly/"+weekday, strings.NewReader(body))
	req = mux.SetURLVars(req, map[string]string{"staffId": "7", "weekday": weekday})
	if withUser {
		req = req.WithContext(middleware.WithUserID(req.Context(), 100))
	}
	rec := httptest.NewRecorder()
	NewHandler(svc, logger.NewNop()).Handle(rec, req)
	return rec
}

const body = `{"active":true,"workStart":"09:00","workEnd":"18:00"}`

func TestHandle(t *testing.T) {
	for weekday, want := range map[string]domain.Weekday{"2": domain.Wednesday, "saturday": domain.Saturday} {
		svc := &fakeService{}
		rec := put(svc, weekday, body)

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, want, svc.gotWeekday)
		assert.Equal(t, int64(100), svc.gotUser)
		require.NotNil(t, svc.gotReq.WorkStart)
		assert.Equal(t, "09:00", *svc.gotReq.WorkStart)
	}
}

func TestHandle_Errors(t *testing.T) {
	assert.Equal(t, http.StatusBadRequest, put(&fakeService{}, "9", body).Code)
	assert.Equal(t, http.StatusBadRequest, put(&fakeService{}, "1", `{"active":"yes"}`).Code)
	assert.Equal(t, http.StatusBadRequest, put(&fakeService{err: schedule.ErrInvalidInput}, "1", body).Code)
	assert.Equal(t, http.StatusNotFound, put(&fakeService{err: schedule.ErrStaffNotFound}, "1", body).Code)
	assert.Equal(t, http.StatusForbidden, put(&fakeService{err: schedule.ErrAccessDenied}, "1", body).Code)
	assert.Equal(t, http.StatusUnauthorized, send(&fakeService{}, "1", body, false).Code)
	assert.Equal(t, http.StatusInternalServerError, put(&fakeService{err: errors.New("db")}, "1", body).Code)
}
