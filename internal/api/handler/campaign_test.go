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

func setupCampaignHandler(t *testing.T) (*CampaignHandler, *testContext, func()) {
	db := testutil.SetupTestDB(t)
	campaignService, _, _ := newTestServices(db, &stubGateway{})
	handler := NewCampaignHandler(campaignService)

	cleanup := func() {
		testutil.CleanupTestDB(t, db)
	}
	return handler, &testContext{DB: db}, cleanup
}

func campaignRouter(h *CampaignHandler) *gin.Engine {
	r := gin.New()
	r.GET("/campaigns", h.List)
	r.GET("/campaigns/:id", h.Get)
	r.GET("/campaigns/:id/progress", h.Progress)
	r.GET("/campaigns/:id/donations", h.Donations)
	r.POST("/campaigns", h.Create)
	r.PUT("/campaigns/:id", h.Update)
	r.DELETE("/campaigns/:id", h.Delete)
	return r
}

func TestCampaignHandler_List(t *testing.T) {
	handler, tc, cleanup := setupCampaignHandler(t)
	defer cleanup()

	for i := 0; i < 3; i++ {
		testutil.TestCampaign(t, tc.DB)
	}

	r := campaignRouter(handler)
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/campaigns?page=1&page_size=2", nil)
	r.ServeHTTP(w, req)

	resp := parseResponse(t, w)
	assert.Equal(t, response.CodeSuccess, resp.Code)

	data := resp.Data.(map[string]interface{})
	assert.Equal(t, float64(3), data["total"])
	assert.Len(t, data["items"], 2)
}

func TestCampaignHandler_Get(t *testing.T) {
	handler, tc, cleanup := setupCampaignHandler(t)
	defer cleanup()

	campaign := testutil.TestCampaign(t, tc.DB, testutil.WithGoal(500))

	r := campaignRouter(handler)
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, fmt.Sprintf("/campaigns/%d", campaign.ID), nil)
	r.ServeHTTP(w, req)

	resp := parseResponse(t, w)
	require.Equal(t, response.CodeSuccess, resp.Code)

	data := resp.Data.(map[string]interface{})
	assert.Equal(t, campaign.Name, data["name"])
	assert.Equal(t, float64(500), data["goal_amount"])
}

func TestCampaignHandler_GetNotFound(t *testing.T) {
	handler, _, cleanup := setupCampaignHandler(t)
	defer cleanup()

	r := campaignRouter(handler)
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/campaigns/9999", nil)
	r.ServeHTTP(w, req)

	resp := parseResponse(t, w)
	assert.Equal(t, response.CodeResourceNotFound, resp.Code)
}

func TestCampaignHandler_Progress(t *testing.T) {
	handler, tc, cleanup := setupCampaignHandler(t)
	defer cleanup()

	campaign := testutil.TestCampaign(t, tc.DB, testutil.WithGoal(1000))
	tc.DB.Model(campaign).Update("current_amount", 250)

	r := campaignRouter(handler)
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, fmt.Sprintf("/campaigns/%d/progress", campaign.ID), nil)
	r.ServeHTTP(w, req)

	resp := parseResponse(t, w)
	require.Equal(t, response.CodeSuccess, resp.Code)

	data := resp.Data.(map[string]interface{})
	assert.Equal(t, float64(250), data["current_amount"])
	assert.Equal(t, float64(25), data["progress_percentage"])
}

func TestCampaignHandler_Create(t *testing.T) {
	handler, tc, cleanup := setupCampaignHandler(t)
	defer cleanup()

	body, _ := json.Marshal(map[string]interface{}{
		"name":        "图书角计划",
		"description": "为乡村学校添置图书",
		"goal_amount": 2000,
	})

	r := campaignRouter(handler)
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/campaigns", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	resp := parseResponse(t, w)
	require.Equal(t, response.CodeSuccess, resp.Code)

	var count int64
	tc.DB.Model(&model.Campaign{}).Count(&count)
	assert.Equal(t, int64(1), count)
}

func TestCampaignHandler_CreateInvalidBody(t *testing.T) {
	handler, _, cleanup := setupCampaignHandler(t)
	defer cleanup()

	r := campaignRouter(handler)
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/campaigns", bytes.NewReader([]byte(`{"name":""}`)))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	resp := parseResponse(t, w)
	assert.Equal(t, response.CodeParamError, resp.Code)
}

func TestCampaignHandler_UpdateClose(t *testing.T) {
	handler, tc, cleanup := setupCampaignHandler(t)
	defer cleanup()

	campaign := testutil.TestCampaign(t, tc.DB)

	body, _ := json.Marshal(map[string]interface{}{"status": "closed"})

	r := campaignRouter(handler)
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPut, fmt.Sprintf("/campaigns/%d", campaign.ID), bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	resp := parseResponse(t, w)
	require.Equal(t, response.CodeSuccess, resp.Code)

	var got model.Campaign
	require.NoError(t, tc.DB.First(&got, campaign.ID).Error)
	assert.Equal(t, model.CampaignStatusClosed, got.Status)
}

func TestCampaignHandler_UpdateFinalizedRejected(t *testing.T) {
	handler, tc, cleanup := setupCampaignHandler(t)
	defer cleanup()

	campaign := testutil.TestCampaign(t, tc.DB,
		testutil.WithCampaignStatus(model.CampaignStatusFinished))

	body, _ := json.Marshal(map[string]interface{}{"status": "closed"})

	r := campaignRouter(handler)
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPut, fmt.Sprintf("/campaigns/%d", campaign.ID), bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	resp := parseResponse(t, w)
	assert.Equal(t, response.CodeParamError, resp.Code)

	// 终态不可变
	var got model.Campaign
	require.NoError(t, tc.DB.First(&got, campaign.ID).Error)
	assert.Equal(t, model.CampaignStatusFinished, got.Status)
}

func TestCampaignHandler_Delete(t *testing.T) {
	handler, tc, cleanup := setupCampaignHandler(t)
	defer cleanup()

	campaign := testutil.TestCampaign(t, tc.DB)

	r := campaignRouter(handler)
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodDelete, fmt.Sprintf("/campaigns/%d", campaign.ID), nil)
	r.ServeHTTP(w, req)

	resp := parseResponse(t, w)
	require.Equal(t, response.CodeSuccess, resp.Code)

	var count int64
	tc.DB.Model(&model.Campaign{}).Where("id = ?", campaign.ID).Count(&count)
	assert.Equal(t, int64(0), count)
}

func TestCampaignHandler_Donations(t *testing.T) {
	handler, tc, cleanup := setupCampaignHandler(t)
	defer cleanup()

	campaign := testutil.TestCampaign(t, tc.DB)
	donor := testutil.TestDonor(t, tc.DB)
	testutil.TestDonation(t, tc.DB, donor.ID,
		testutil.WithCampaign(campaign.ID), testutil.WithAmount(30))
	testutil.TestDonation(t, tc.DB, donor.ID,
		testutil.WithCampaign(campaign.ID), testutil.WithAmount(70))

	r := campaignRouter(handler)
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, fmt.Sprintf("/campaigns/%d/donations", campaign.ID), nil)
	r.ServeHTTP(w, req)

	resp := parseResponse(t, w)
	require.Equal(t, response.CodeSuccess, resp.Code)

	data := resp.Data.(map[string]interface{})
	assert.Equal(t, float64(2), data["total_donations"])
	assert.Equal(t, float64(100), data["total_amount"])
}
