package handler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"voucherwall/internal/model"
	"voucherwall/internal/service"
)

func setupRouter(t *testing.T) (*gin.Engine, *gorm.DB) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{Logger: logger.Discard})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	if sqlDB, err2 := db.DB(); err2 == nil {
		sqlDB.SetMaxOpenConns(1)
	}
	if err := db.AutoMigrate(&model.Campaign{}, &model.Voucher{}); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}

	campaignSvc := service.NewCampaignService(db)
	voucherSvc := service.NewVoucherService(db, service.NewCodeGenerator(1))
	campaignH := NewCampaignHandler(campaignSvc)
	voucherH := NewVoucherHandler(campaignSvc, voucherSvc)

	r := gin.New()
	api := r.Group("/api")
	api.POST("/campaigns", campaignH.Create)
	api.GET("/campaigns", campaignH.List)
	api.GET("/campaigns/:id", campaignH.Get)
	api.DELETE("/campaigns/:id", campaignH.Delete)
	api.POST("/campaigns/:id/vouchers", voucherH.Generate)
	api.GET("/campaigns/:id/vouchers", voucherH.List)
	api.GET("/campaigns/:id/vouchers/download", voucherH.Download)
	return r, db
}

func doJSON(t *testing.T, r *gin.Engine, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("failed to encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeData(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()

	var resp struct {
		Success bool                   `json:"success"`
		Data    map[string]interface{} `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response %q: %v", w.Body.String(), err)
	}
	if !resp.Success {
		t.Fatalf("expected success envelope, got %q", w.Body.String())
	}
	return resp.Data
}

func summerCampaignBody() map[string]interface{} {
	return map[string]interface{}{
		"name":      "Summer",
		"prefix":    "SUMMER",
		"amount":    100,
		"currency":  "SEK",
		"validFrom": "2024-06-01T00:00:00Z",
		"validTo":   "2024-08-31T00:00:00Z",
	}
}

func seedCampaign(t *testing.T, db *gorm.DB, name, prefix string) *model.Campaign {
	t.Helper()
	c := &model.Campaign{
		Name:      name,
		Prefix:    prefix,
		Amount:    100,
		Currency:  "SEK",
		ValidFrom: time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC),
		ValidTo:   time.Date(2024, 8, 31, 0, 0, 0, 0, time.UTC),
	}
	if err := db.Create(c).Error; err != nil {
		t.Fatalf("failed to seed campaign: %v", err)
	}
	return c
}

func TestCreateCampaign(t *testing.T) {
	r, _ := setupRouter(t)

	w := doJSON(t, r, http.MethodPost, "/api/campaigns", summerCampaignBody())
	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
	}

	data := decodeData(t, w)
	if data["id"] == nil || data["id"].(float64) < 1 {
		t.Errorf("expected assigned id, got %v", data["id"])
	}
	if data["prefix"] != "SUMMER" {
		t.Errorf("prefix = %v", data["prefix"])
	}
}

func TestCreateCampaignValidation(t *testing.T) {
	r, _ := setupRouter(t)

	tests := []struct {
		name  string
		mutate func(m map[string]interface{})
	}{
		{"missing name", func(m map[string]interface{}) { delete(m, "name") }},
		{"lowercase prefix", func(m map[string]interface{}) { m["prefix"] = "summer" }},
		{"zero amount", func(m map[string]interface{}) { m["amount"] = 0 }},
		{"bad currency", func(m map[string]interface{}) { m["currency"] = "SEKK" }},
		{"window inverted", func(m map[string]interface{}) {
			m["validFrom"] = "2024-08-31T00:00:00Z"
			m["validTo"] = "2024-06-01T00:00:00Z"
		}},
	}

	for _, tc := range tests {
		body := summerCampaignBody()
		tc.mutate(body)
		w := doJSON(t, r, http.MethodPost, "/api/campaigns", body)
		if w.Code != http.StatusUnprocessableEntity {
			t.Errorf("%s: status = %d, want 422", tc.name, w.Code)
		}
	}
}

func TestGetCampaign(t *testing.T) {
	r, db := setupRouter(t)
	c := seedCampaign(t, db, "Summer", "SUMMER")

	w := doJSON(t, r, http.MethodGet, "/api/campaigns/1", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	data := decodeData(t, w)
	if uint(data["id"].(float64)) != c.ID {
		t.Errorf("id = %v, want %d", data["id"], c.ID)
	}

	w = doJSON(t, r, http.MethodGet, "/api/campaigns/999", nil)
	if w.Code != http.StatusNotFound {
		t.Errorf("missing campaign: status = %d, want 404", w.Code)
	}
}

func TestListCampaigns(t *testing.T) {
	r, db := setupRouter(t)
	seedCampaign(t, db, "One", "ONE")
	seedCampaign(t, db, "Two", "TWO")
	seedCampaign(t, db, "Three", "THREE")

	w := doJSON(t, r, http.MethodGet, "/api/campaigns?page=1&limit=2", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}

	data := decodeData(t, w)
	campaigns := data["campaigns"].([]interface{})
	if len(campaigns) != 2 {
		t.Errorf("expected 2 campaigns, got %d", len(campaigns))
	}
	pagination := data["pagination"].(map[string]interface{})
	if pagination["total"].(float64) != 3 || pagination["pages"].(float64) != 2 {
		t.Errorf("pagination = %v", pagination)
	}
}

func TestDeleteCampaign(t *testing.T) {
	r, db := setupRouter(t)
	seedCampaign(t, db, "Doomed", "DOOM")

	w := doJSON(t, r, http.MethodDelete, "/api/campaigns/1", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}

	w = doJSON(t, r, http.MethodGet, "/api/campaigns/1", nil)
	if w.Code != http.StatusNotFound {
		t.Errorf("deleted campaign still readable: status = %d", w.Code)
	}

	w = doJSON(t, r, http.MethodDelete, "/api/campaigns/1", nil)
	if w.Code != http.StatusNotFound {
		t.Errorf("deleting missing campaign: status = %d, want 404", w.Code)
	}
}
