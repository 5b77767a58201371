package main

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"voucherwall/internal/config"
	"voucherwall/internal/db"
	"voucherwall/internal/http/handler"
	mw "voucherwall/internal/http/middleware"
	"voucherwall/internal/service"
)

func main() {
	cfg := config.Load()

	logger, _ := zap.NewProduction()
	defer logger.Sync()
	zap.ReplaceGlobals(logger)

	database, err := db.Open(cfg)
	if err != nil {
		zap.L().Fatal("failed to open database", zap.Error(err))
	}

	if err := db.AutoMigrate(database); err != nil {
		zap.L().Fatal("failed to run automigrate", zap.Error(err))
	}

	campaignSvc := service.NewCampaignService(database)
	voucherSvc := service.NewVoucherService(database, service.NewCodeGenerator(0))

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(mw.RequestLogger())
	r.Use(mw.RateLimit(cfg.RateLimitRPS, cfg.RateLimitBurst))
	r.Use(mw.CORS())
	// Security headers (lightweight)
	r.Use(func(c *gin.Context) {
		c.Writer.Header().Set("X-Content-Type-Options", "nosniff")
		c.Writer.Header().Set("X-Frame-Options", "DENY")
		c.Next()
	})

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	campaignH := handler.NewCampaignHandler(campaignSvc)
	voucherH := handler.NewVoucherHandler(campaignSvc, voucherSvc)

	api := r.Group("/api")
	api.POST("/campaigns", campaignH.Create)
	api.GET("/campaigns", campaignH.List)
	api.GET("/campaigns/:id", campaignH.Get)
	api.DELETE("/campaigns/:id", campaignH.Delete)
	api.POST("/campaigns/:id/vouchers", voucherH.Generate)
	api.GET("/campaigns/:id/vouchers", voucherH.List)
	api.GET("/campaigns/:id/vouchers/download", voucherH.Download)

	addr := fmt.Sprintf("0.0.0.0:%d", cfg.Port)
	if err := http.ListenAndServe(addr, r); err != nil {
		zap.L().Fatal("server error", zap.Error(err))
	}
}
