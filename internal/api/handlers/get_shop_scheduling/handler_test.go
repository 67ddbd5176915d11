package get_shop_scheduling

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"

	"github.com/m04kA/salon-booking-service/internal/service/schedule/models"
	"github.com/m04kA/salon-booking-service/pkg/logger"
)

type fakeService struct{ err error }

func (f *fakeService) GetShopSettings(_ context.Context, shopID int64) (*models.ShopSettingsResponse, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &models.ShopSettingsResponse{ShopID: shopID, GranularityMinutes: 30, Timezone: "America/Fortaleza"}, nil
}

func get(svc *fakeService, shopID string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/api/v1/shops/"+shopID+"/scheduling", nil)
	req = mux.SetURLVars(req, map[string]string{"shopId": shopID})
	rec := httptest.NewRecorder()
	NewHandler(svc, logger.NewNop()).Handle(rec, req)
	return rec
}

func TestHandle(t *testing.T) {
	rec := get(&fakeService{}, "3")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"shopId":3,"granularityMinutes":30,"timezone":"America/Fortaleza"}`, rec.Body.String())

	assert.Equal(t, http.StatusBadRequest, get(&fakeService{}, "0").Code)
	assert.Equal(t, http.StatusInternalServerError, get(&fakeService{err: errors.New("db")}, "3").Code)
}
