package main

import (
	"context"
	"log"

	"github.com/propellur/moca-patient-portal/internal/cart"
	"github.com/propellur/moca-patient-portal/internal/config"
	"github.com/propellur/moca-patient-portal/internal/db"
	"github.com/propellur/moca-patient-portal/internal/handler"
	"github.com/propellur/moca-patient-portal/internal/logger"
	"github.com/propellur/moca-patient-portal/internal/metrics"
	"github.com/propellur/moca-patient-portal/internal/middleware"
	"github.com/propellur/moca-patient-portal/internal/order"
	"github.com/propellur/moca-patient-portal/internal/prescription"
	"github.com/propellur/moca-patient-portal/internal/user"

	"github.com/gin-gonic/gin"
)

func main() {
	cfg := config.LoadConfig()

	logger.Init(cfg.AppEnv)
	defer logger.Sync()

	database := db.InitDB(cfg)
	defer database.Close()

	counters := &metrics.Orders{}

	userRepo := user.NewRepository(database)
	userSvc := user.NewService(userRepo, cfg)

	prescriptionRepo := prescription.NewRepository(database)
	prescriptionSvc := prescription.NewService(prescriptionRepo)

	orderRepo := order.NewRepository(database)
	orderSvc := order.NewService(orderRepo, counters)

	cartRepo := cart.NewRepository(database)
	cartSvc := cart.NewService(cartRepo, prescriptionSvc, orderSvc)

	if err := userSvc.EnsureAdmin(context.Background(), cfg.AdminEmail, cfg.AdminPassword); err != nil {
		log.Fatalf("failed to seed admin account: %v", err)
	}

	authHdl := handler.NewAuthHandler(userSvc)
	prescriptionHdl := handler.NewPrescriptionHandler(prescriptionSvc)
	cartHdl := handler.NewCartHandler(cartSvc)
	orderHdl := handler.NewOrderHandler(orderSvc, counters)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.RequestLogging())

	// Public routes (strict rate tier)
	public := r.Group("/")
	public.Use(middleware.RateLimit(true))
	public.POST("/auth/code", authHdl.RequestCode)
	public.POST("/auth/verify", authHdl.VerifyCode)
	public.POST("/admin/login", authHdl.AdminLogin)

	// Authenticated routes
	auth := r.Group("/")
	auth.Use(middleware.AuthMiddleware(), middleware.RateLimit(false))

	auth.GET("/prescriptions", prescriptionHdl.List)
	auth.GET("/cart", cartHdl.Get)
	auth.POST("/cart/items", cartHdl.Add)
	auth.DELETE("/cart/items/:prescriptionId", cartHdl.Remove)
	auth.DELETE("/cart", cartHdl.Clear)
	auth.POST("/checkout", cartHdl.Checkout)
	auth.GET("/orders/mine", orderHdl.GetMyOrders)
	auth.GET("/orders/:orderId", orderHdl.GetDetail)

	// Admin routes
	admin := auth.Group("/admin")
	admin.Use(middleware.AdminOnly())
	admin.GET("/orders", orderHdl.GetAllOrders)
	admin.POST("/orders/:orderId/processing", orderHdl.AdvanceToProcessing)
	admin.POST("/orders/:orderId/ship", orderHdl.AdvanceToShipped)
	admin.GET("/metrics", orderHdl.Metrics)

	log.Printf("patient portal listening on port %s", cfg.AppPort)
	if err := r.Run(":" + cfg.AppPort); err != nil {
		log.Fatal(err)
	}
}
