package get_booking

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"

	"github.com/m04kA/salon-booking-service/internal/api/middleware"
	"github.com/m04kA/salon-booking-service/internal/service/bookings"
	"github.com/m04kA/salon-booking-service/internal/service/bookings/models"
	"github.com/m04kA/salon-booking-service/pkg/logger"
)

type fakeService struct {
	gotID, gotUser int64
	calls          int
	err            error
}

func (f *fakeService) GetByID(_ context.Context, id int64, userID int64) (*models.BookingResponse, error) {
	f.gotID, f.gotUser = id, userID
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return &models.BookingResponse{ID: id, ClientID: 42, Status: "pending"}, nil
}

func get(svc *fakeService, id string, withUser bool) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/api/v1/bookings/"+id, nil)
	req = mux.SetURLVars(req, map[string]string{"bookingId": id})
	if withUser {
		req = req.WithContext(middleware.WithUserID(req.Context(), 42))
	}
	rec := httptest.NewRecorder()
	NewHandler(svc, logger.NewNop()).Handle(rec, req)
	return rec
}

func TestHandle(t *testing.T) {
	svc := &fakeService{}
	rec := get(svc, "5", true)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, int64(5), svc.gotID)
	assert.Equal(t, int64(42), svc.gotUser)
	assert.Contains(t, rec.Body.String(), `"status":"pending"`)
}

func TestHandle_Errors(t *testing.T) {
	tests := []struct {
		name     string
		id       string
		withUser bool
		err      error
		status   int
	}{
		{name: "bad id", id: "x", withUser: true, status: http.StatusBadRequest},
		{name: "no user", id: "5", withUser: false, status: http.StatusUnauthorized},
		{name: "not found", id: "5", withUser: true, err: bookings.ErrBookingNotFound, status: http.StatusNotFound},
		{name: "neither client nor manager", id: "5", withUser: true, err: bookings.ErrAccessDenied, status: http.StatusForbidden},
		{name: "internal", id: "5", withUser: true, err: errors.New("db"), status: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := get(&fakeService{err: tt.err}, tt.id, tt.withUser)
			assert.Equal(t, tt.status, rec.Code)
		})
	}
}

func TestHandle_MissingUserSkipsService(t *testing.T) {
	svc := &fakeService{}

	rec := get(svc, "x", false)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Zero(t, svc.calls)
}
