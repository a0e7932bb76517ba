package handlers

import (
	portssvc "github.com/SscSPs/ledger_settlement/internal/core/ports/services"
	"github.com/SscSPs/ledger_settlement/internal/middleware"
	"github.com/gin-gonic/gin"
)

// RegisterRoutes sets up all application routes, injecting dependencies using interfaces
func RegisterRoutes(
	r *gin.Engine,
	services *portssvc.ServiceContainer,
) {

	// Add health check route
	r.GET("/health", func(c *gin.Context) {
		c.String(200, "OK")
	})

	setupAPIV1Routes(r, services)
}

// setupAPIV1Routes configures the /api/v1 group and delegates to specific entity route registrations
func setupAPIV1Routes(
	r *gin.Engine,
	service *portssvc.ServiceContainer,
) {
	// Identity is asserted upstream; the header only feeds audit fields.
	v1 := r.Group("/api/v1", middleware.CallerIdentity())

	registerLedgerEntryRoutes(v1, service.LedgerEntry)
	registerPaymentRoutes(v1, service.Payment)
	registerChequeRoutes(v1, service.Cheque)
	registerReportingRoutes(v1, service.Reporting)
}
