package handler

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/projectreach/reach_go_server/internal/model"
	"github.com/projectreach/reach_go_server/internal/pkg/response"
	"github.com/projectreach/reach_go_server/internal/testutil"
)

func setupDonorHandler(t *testing.T) (*DonorHandler, *testContext, func()) {
	db := testutil.SetupTestDB(t)
	_, donorService, donationService := newTestServices(db, &stubGateway{})
	handler := NewDonorHandler(donorService, donationService)

	cleanup := func() {
		testutil.CleanupTestDB(t, db)
	}
	return handler, &testContext{DB: db}, cleanup
}

func donorRouter(h *DonorHandler) *gin.Engine {
	r := gin.New()
	r.GET("/donors", h.List)
	r.GET("/donors/:id", h.Get)
	r.GET("/donors/:id/summary", h.Summary)
	r.GET("/donors/:id/donations", h.Donations)
	r.PUT("/donors/:id", h.Update)
	return r
}

func TestDonorHandler_List(t *testing.T) {
	handler, tc, cleanup := setupDonorHandler(t)
	defer cleanup()

	testutil.TestDonor(t, tc.DB)
	testutil.TestDonor(t, tc.DB)

	r := donorRouter(handler)
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/donors", nil)
	r.ServeHTTP(w, req)

	resp := parseResponse(t, w)
	require.Equal(t, response.CodeSuccess, resp.Code)

	data := resp.Data.(map[string]interface{})
	assert.Equal(t, float64(2), data["total"])
}

func TestDonorHandler_Summary(t *testing.T) {
	handler, tc, cleanup := setupDonorHandler(t)
	defer cleanup()

	donor := testutil.TestDonor(t, tc.DB)
	testutil.TestDonation(t, tc.DB, donor.ID, testutil.WithAmount(20))
	testutil.TestDonation(t, tc.DB, donor.ID, testutil.WithAmount(35))

	r := donorRouter(handler)
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, fmt.Sprintf("/donors/%d/summary", donor.ID), nil)
	r.ServeHTTP(w, req)

	resp := parseResponse(t, w)
	require.Equal(t, response.CodeSuccess, resp.Code)

	data := resp.Data.(map[string]interface{})
	assert.Equal(t, float64(55), data["total_donated"])
	assert.Equal(t, float64(2), data["donation_count"])
}

func TestDonorHandler_GetNotFound(t *testing.T) {
	handler, _, cleanup := setupDonorHandler(t)
	defer cleanup()

	r := donorRouter(handler)
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/donors/9999", nil)
	r.ServeHTTP(w, req)

	resp := parseResponse(t, w)
	assert.Equal(t, response.CodeResourceNotFound, resp.Code)
}

func TestDonorHandler_Update(t *testing.T) {
	handler, tc, cleanup := setupDonorHandler(t)
	defer cleanup()

	donor := testutil.TestDonor(t, tc.DB, testutil.WithDonorName("旧名字"))

	body, _ := json.Marshal(map[string]string{"name": "新名字"})

	r := donorRouter(handler)
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPut, fmt.Sprintf("/donors/%d", donor.ID), bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	resp := parseResponse(t, w)
	require.Equal(t, response.CodeSuccess, resp.Code)

	var got model.Donor
	require.NoError(t, tc.DB.First(&got, donor.ID).Error)
	assert.Equal(t, "新名字", got.Name)
}
