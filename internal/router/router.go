package router

import (
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	"invoiceflow/internal/handler"
	"invoiceflow/internal/middleware"

	_ "invoiceflow/docs" // swagger docs
)

// Setup configures the Gin engine with all routes and middleware.
func Setup(
	log *zap.Logger,
	allowedOrigins []string,
	invoiceH *handler.InvoiceHandler,
	healthH *handler.HealthHandler,
) *gin.Engine {
	r := gin.New()

	// Global middleware
	r.Use(middleware.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(log))
	r.Use(middleware.CORS(allowedOrigins))

	// Health checks
	r.GET("/healthz", healthH.Liveness)
	r.GET("/readyz", healthH.Readiness)

	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	v1 := r.Group("/api/v1")

	invoices := v1.Group("/invoices")
	invoices.GET("", invoiceH.List)
	invoices.POST("/process", invoiceH.Process)
	invoices.GET("/display", invoiceH.Display)
	invoices.GET("/lookup", invoiceH.Lookup)
	invoices.GET("/export", invoiceH.Export)
	invoices.GET("/:id/source", invoiceH.Source)
	invoices.POST("/:id/regenerate", invoiceH.Regenerate)
	invoices.PUT("/:id", invoiceH.Update)
	invoices.PUT("/:id/edit", invoiceH.SaveEdit)
	invoices.PATCH("/:id/line-items/:line", invoiceH.EditLineItem)
	invoices.DELETE("/:id", invoiceH.Delete)

	return r
}
