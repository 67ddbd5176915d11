package get_staff_bookings

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/salon-booking-service/internal/api/middleware"
	"github.com/m04kA/salon-booking-service/internal/service/bookings"
	"github.com/m04kA/salon-booking-service/internal/service/bookings/models"
	"github.com/m04kA/salon-booking-service/pkg/logger"
)

type fakeService struct {
	gotUser  int64
	gotStaff int64
	gotDate  time.Time
	err      error
}

func (f *fakeService) GetStaffBookings(_ context.Context, userID, staffID int64, date time.Time) (*models.BookingListResponse, error) {
	f.gotUser, f.gotStaff, f.gotDate = userID, staffID, date
	if f.err != nil {
		return nil, f.err
	}
	return &models.BookingListResponse{Bookings: []models.BookingResponse{{ID: 1}, {ID: 2}}}, nil
}

func request(staffID, query string, withUser bool) *http.Request {
	req := httptest.NewRequest(http.MethodGet, "/api/v1/staff/"+staffID+"/bookings?"+query, nil)
	req = mux.SetURLVars(req, map[string]string{"staffId": staffID})
	if withUser {
		req = req.WithContext(middleware.WithUserID(req.Context(), 100))
	}
	return req
}

func get(svc *fakeService, staffID, query string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	NewHandler(svc, logger.NewNop()).Handle(rec, request(staffID, query, true))
	return rec
}

func TestHandle(t *testing.T) {
	svc := &fakeService{}

	rec := get(svc, "7", "date=2025-10-13")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, int64(100), svc.gotUser)
	assert.Equal(t, int64(7), svc.gotStaff)
	assert.Equal(t, time.Date(2025, 10, 13, 0, 0, 0, 0, time.UTC), svc.gotDate)
	assert.Contains(t, rec.Body.String(), `"bookings":[`)
}

func TestHandle_Errors(t *testing.T) {
	assert.Equal(t, http.StatusBadRequest, get(&fakeService{}, "-1", "date=2025-10-13").Code)
	assert.Equal(t, http.StatusBadRequest, get(&fakeService{}, "7", "").Code)
	assert.Equal(t, http.StatusBadRequest, get(&fakeService{}, "7", "date=tomorrow").Code)
	assert.Equal(t, http.StatusNotFound, get(&fakeService{err: bookings.ErrStaffNotFound}, "7", "date=2025-10-13").Code)
	assert.Equal(t, http.StatusForbidden, get(&fakeService{err: bookings.ErrAccessDenied}, "7", "date=2025-10-13").Code)
	assert.Equal(t, http.StatusInternalServerError, get(&fakeService{err: errors.New("db")}, "7", "date=2025-10-13").Code)
}

func TestHandle_MissingUser(t *testing.T) {
	svc := &fakeService{}
	rec := httptest.NewRecorder()

	NewHandler(svc, logger.NewNop()).Handle(rec, request("7", "date=2025-10-13", false))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Zero(t, svc.gotStaff)
}
