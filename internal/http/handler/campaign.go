package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	basichttp "voucherwall/internal/http"
	"voucherwall/internal/model"
	"voucherwall/internal/service"
)

type CampaignHandler struct {
	campaigns *service.CampaignService
}

func NewCampaignHandler(campaigns *service.CampaignService) *CampaignHandler {
	return &CampaignHandler{campaigns: campaigns}
}

type CreateCampaignRequest struct {
	Name      string    `json:"name" binding:"required,min=1,max=100"`
	Prefix    string    `json:"prefix" binding:"required,min=1,max=10,uppercase"`
	Amount    float64   `json:"amount" binding:"required,gt=0"`
	Currency  string    `json:"currency" binding:"required,len=3,uppercase"`
	ValidFrom time.Time `json:"validFrom" binding:"required"`
	ValidTo   time.Time `json:"validTo" binding:"required,gtfield=ValidFrom"`
}

func (h *CampaignHandler) Create(c *gin.Context) {
	var req CreateCampaignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		basichttp.Fail(c, http.StatusUnprocessableEntity, "VALIDATION_FAILED", "invalid request")
		return
	}

	campaign := &model.Campaign{
		Name:      req.Name,
		Prefix:    req.Prefix,
		Amount:    req.Amount,
		Currency:  req.Currency,
		ValidFrom: req.ValidFrom,
		ValidTo:   req.ValidTo,
	}

	if err := h.campaigns.Create(campaign); err != nil {
		basichttp.Fail(c, http.StatusInternalServerError, "INTERNAL_ERROR", "create failed")
		return
	}

	basichttp.JSON(c, http.StatusCreated, campaign)
}

func (h *CampaignHandler) List(c *gin.Context) {
	page := queryInt(c, "page", 1)
	limit := queryInt(c, "limit", 20)
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}

	result, err := h.campaigns.List(page, limit)
	if err != nil {
		basichttp.Fail(c, http.StatusInternalServerError, "INTERNAL_ERROR", "query failed")
		return
	}

	basichttp.OK(c, result)
}

func (h *CampaignHandler) Get(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}

	campaign, err := h.campaigns.GetByID(id)
	if err != nil {
		basichttp.Fail(c, http.StatusInternalServerError, "INTERNAL_ERROR", "query failed")
		return
	}
	if campaign == nil {
		basichttp.Fail(c, http.StatusNotFound, "NOT_FOUND", "campaign not found")
		return
	}

	basichttp.OK(c, campaign)
}

func (h *CampaignHandler) Delete(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}

	deleted, err := h.campaigns.Delete(id)
	if err != nil {
		basichttp.Fail(c, http.StatusInternalServerError, "INTERNAL_ERROR", "delete failed")
		return
	}
	if deleted == 0 {
		basichttp.Fail(c, http.StatusNotFound, "NOT_FOUND", "campaign not found")
		return
	}

	basichttp.OK(c, gin.H{"id": id, "deleted": true})
}

func paramID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		basichttp.Fail(c, http.StatusUnprocessableEntity, "VALIDATION_FAILED", "invalid campaign id")
		return 0, false
	}
	return uint(id), true
}

func queryInt(c *gin.Context, key string, def int) int {
	if v := c.Query(key); v != "" {
		if x, err := strconv.Atoi(v); err == nil {
			return x
		}
	}
	return def
}
