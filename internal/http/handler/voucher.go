package handler

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	basichttp "voucherwall/internal/http"
	"voucherwall/internal/service"
)

type VoucherHandler struct {
	campaigns *service.CampaignService
	vouchers  *service.VoucherService
}

func NewVoucherHandler(campaigns *service.CampaignService, vouchers *service.VoucherService) *VoucherHandler {
	return &VoucherHandler{campaigns: campaigns, vouchers: vouchers}
}

type GenerateVouchersRequest struct {
	Count int `json:"count" binding:"required,min=1,max=100000"`
}

func (h *VoucherHandler) Generate(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}

	var req GenerateVouchersRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		basichttp.Fail(c, http.StatusUnprocessableEntity, "VALIDATION_FAILED", "invalid request")
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

	inserted, err := h.vouchers.Generate(id, req.Count)
	if err != nil {
		zap.L().Error("voucher generation failed",
			zap.Uint("campaign_id", id),
			zap.Int("count", req.Count),
			zap.Error(err))
		basichttp.Fail(c, http.StatusInternalServerError, "INTERNAL_ERROR", "failed to generate vouchers")
		return
	}

	basichttp.JSONWithMessage(c, http.StatusCreated,
		fmt.Sprintf("%d vouchers generated successfully", inserted),
		gin.H{
			"insertedCount": inserted,
			"count":         req.Count,
			"campaignId":    id,
		})
}

func (h *VoucherHandler) List(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}

	page := queryInt(c, "page", 1)
	limit := queryInt(c, "limit", 50)
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 50
	}
	if limit > 100 {
		limit = 100
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

	result, err := h.vouchers.List(id, campaign.Prefix, page, limit)
	if err != nil {
		basichttp.Fail(c, http.StatusInternalServerError, "INTERNAL_ERROR", "query failed")
		return
	}

	basichttp.OK(c, result)
}

func (h *VoucherHandler) Download(c *gin.Context) {
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

	vouchers, err := h.vouchers.Export(id, campaign.Prefix)
	if err != nil {
		basichttp.Fail(c, http.StatusInternalServerError, "INTERNAL_ERROR", "query failed")
		return
	}
	if len(vouchers) == 0 {
		basichttp.Fail(c, http.StatusNotFound, "NOT_FOUND", "No vouchers found for this campaign")
		return
	}

	c.Header("Content-Type", "text/csv")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", campaign.Name+"-vouchers.csv"))
	c.Status(http.StatusOK)

	if err := service.WriteVoucherCSV(c.Writer, vouchers); err != nil {
		// Headers are already out; nothing left but to log it.
		zap.L().Error("csv export write failed",
			zap.Uint("campaign_id", id),
			zap.Error(err))
	}
}
