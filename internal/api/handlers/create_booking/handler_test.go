package create_booking

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/salon-booking-service/internal/api/middleware"
	"github.com/m04kA/salon-booking-service/internal/domain"
	createBooking "github.com/m04kA/salon-booking-service/internal/usecase/create_booking"
	"github.com/m04kA/salon-booking-service/pkg/logger"
)

type fakeUseCase struct {
	got *createBooking.Request
	err error
}

func (f *fakeUseCase) Execute(_ context.Context, req *createBooking.Request) (*createBooking.Response, error) {
	f.got = req
	if f.err != nil {
		return nil, f.err
	}
	loc := time.FixedZone("-03", -3*60*60)
	return &createBooking.Response{
		ID:              100,
		ShopID:          3,
		StaffID:         req.StaffID,
		ClientID:        req.ClientID,
		Date:            req.Date,
		StartTime:       req.StartTime,
		StartsAt:        time.Date(2025, 10, 13, 10, 0, 0, 0, loc),
		DurationMinutes: 45,
		Services:        []domain.BookedService{{ServiceID: 1, Name: "Corte", DurationMinutes: 45}},
		Status:          domain.StatusPending,
		CreatedAt:       time.Date(2025, 10, 1, 12, 0, 0, 0, time.UTC),
		UpdatedAt:       time.Date(2025, 10, 1, 12, 0, 0, 0, time.UTC),
	}, nil
}

func post(uc *fakeUseCase, body string, withUser bool) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/api/v1/bookings", strings.NewReader(body))
	if withUser {
		req = req.WithContext(middleware.WithUserID(req.Context(), 42))
	}
	rec := httptest.NewRecorder()
	NewHandler(uc, logger.NewNop()).Handle(rec, req)
	return rec
}

const validBody = `{"staffId":7,"date":"2025-10-13","startTime":"10:00","serviceIds":[1]}`

func TestHandle_Created(t *testing.T) {
	uc := &fakeUseCase{}

	rec := post(uc, validBody, true)

	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, int64(42), uc.got.ClientID)
	assert.Equal(t, int64(7), uc.got.StaffID)
	assert.Equal(t, "10:00", uc.got.StartTime.String())
	assert.Equal(t, time.Date(2025, 10, 13, 0, 0, 0, 0, time.UTC), uc.got.Date)

	var body BookingResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, int64(100), body.ID)
	assert.Equal(t, "2025-10-13", body.Date)
	assert.Equal(t, "2025-10-13T10:00:00-03:00", body.StartsAt)
	assert.Equal(t, "pending", body.Status)
	require.Len(t, body.Services, 1)
	assert.Equal(t, "Corte", body.Services[0].Name)
}

func TestHandle_RequestErrors(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		withUser bool
		status   int
	}{
		{name: "no user", body: validBody, withUser: false, status: http.StatusUnauthorized},
		{name: "broken json", body: `{"staffId":`, withUser: true, status: http.StatusBadRequest},
		{name: "unknown field", body: `{"staffId":7,"price":10}`, withUser: true, status: http.StatusBadRequest},
		{name: "bad date", body: `{"staffId":7,"date":"13/10/2025","startTime":"10:00","serviceIds":[1]}`, withUser: true, status: http.StatusBadRequest},
		{name: "bad time", body: `{"staffId":7,"date":"2025-10-13","startTime":"10h","serviceIds":[1]}`, withUser: true, status: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uc := &fakeUseCase{}
			rec := post(uc, tt.body, tt.withUser)
			assert.Equal(t, tt.status, rec.Code)
			assert.Nil(t, uc.got)
		})
	}
}

func TestHandle_UseCaseErrors(t *testing.T) {
	tests := []struct {
		err    error
		status int
	}{
		{err: createBooking.ErrSlotNotAvailable, status: http.StatusConflict},
		{err: createBooking.ErrStaffNotFound, status: http.StatusNotFound},
		{err: createBooking.ErrServiceNotOffered, status: http.StatusBadRequest},
		{err: createBooking.ErrInvalidDate, status: http.StatusBadRequest},
		{err: createBooking.ErrInvalidInput, status: http.StatusBadRequest},
		{err: errors.New("boom"), status: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			rec := post(&fakeUseCase{err: tt.err}, validBody, true)
			assert.Equal(t, tt.status, rec.Code)
		})
	}
}
