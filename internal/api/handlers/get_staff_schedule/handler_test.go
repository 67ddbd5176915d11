package get_staff_schedule

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"

	"github.com/m04kA/salon-booking-service/internal/service/schedule"
	"github.com/m04kA/salon-booking-service/internal/service/schedule/models"
	"github.com/m04kA/salon-booking-service/pkg/logger"
)

type fakeService struct{ err error }

func (f *fakeService) GetStaffSchedule(_ context.Context, staffID int64) (*models.StaffScheduleResponse, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &models.StaffScheduleResponse{StaffID: staffID, Name: "Ana"}, nil
}

func get(svc *fakeService, staffID string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/api/v1/staff/"+staffID+"/schedule", nil)
	req = mux.SetURLVars(req, map[string]string{"staffId": staffID})
	rec := httptest.NewRecorder()
	NewHandler(svc, logger.NewNop()).Handle(rec, req)
	return rec
}

func TestHandle(t *testing.T) {
	rec := get(&fakeService{}, "7")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"name":"Ana"`)

	assert.Equal(t, http.StatusBadRequest, get(&fakeService{}, "x").Code)
	assert.Equal(t, http.StatusNotFound, get(&fakeService{err: schedule.ErrStaffNotFound}, "7").Code)
	assert.Equal(t, http.StatusInternalServerError, get(&fakeService{err: errors.New("db")}, "7").Code)
}
