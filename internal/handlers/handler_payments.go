package handlers

import (
	"log/slog"
	"net/http"

	portssvc "github.com/SscSPs/ledger_settlement/internal/core/ports/services"
	"github.com/SscSPs/ledger_settlement/internal/dto"
	"github.com/SscSPs/ledger_settlement/internal/middleware"
	"github.com/gin-gonic/gin"
)

// paymentHandler handles HTTP requests related to payments.
type paymentHandler struct {
	paymentService portssvc.PaymentSvcFacade
}

// newPaymentHandler creates a new paymentHandler.
func newPaymentHandler(ps portssvc.PaymentSvcFacade) *paymentHandler {
	return &paymentHandler{
		paymentService: ps,
	}
}

// registerPaymentRoutes registers routes related to payments.
func registerPaymentRoutes(rg *gin.RouterGroup, paymentService portssvc.PaymentSvcFacade) {
	h := newPaymentHandler(paymentService)

	payments := rg.Group("/payments")
	{
		payments.POST("", h.createPayment)
		payments.GET("", h.listPayments)
		payments.POST("/preview", h.previewFIFO)
		payments.GET("/:id", h.getPayment)
		payments.DELETE("/:id", h.deletePayment)
	}
}

// createPayment godoc
// @Summary Record a payment
// @Description Records a receipt or disbursement against one entry, FIFO over open entries, or manual allocations
// @Tags payments
// @Accept  json
// @Produce  json
// @Param   payment body dto.CreatePaymentRequest true "Payment details"
// @Success 201 {object} dto.PaymentResponse
// @Failure 400 {object} map[string]string "Invalid input format or validation error"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Target entry not found"
// @Failure 409 {object} map[string]string "Concurrent modification"
// @Failure 500 {object} map[string]string "Failed to record payment"
// @Router /payments [post]
func (h *paymentHandler) createPayment(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CreatePaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeBindError(c, logger, err)
		return
	}

	userID, ok := requireCaller(c, logger)
	if !ok {
		return
	}

	logger = logger.With(slog.String("user_id", userID), slog.String("client", req.ClientName))
	logger.Info("Received request to record payment",
		slog.String("amount", req.Amount.String()),
		slog.String("direction", string(req.Direction)),
		slog.String("allocation_method", string(req.AllocationMethod)))

	payment, allocations, err := h.paymentService.CreatePayment(c.Request.Context(), req, userID)
	if err != nil {
		writeServiceError(c, logger, err, "Failed to record payment")
		return
	}

	logger.Info("Payment recorded successfully",
		slog.String("payment_id", payment.PaymentID),
		slog.Int("allocation_count", payment.AllocationCount))
	c.JSON(http.StatusCreated, dto.ToPaymentResponse(payment, allocations))
}

// getPayment godoc
// @Summary Get a payment with its allocations
// @Tags payments
// @Produce  json
// @Param   id path string true "Payment ID"
// @Success 200 {object} dto.PaymentResponse
// @Failure 404 {object} map[string]string "Payment not found"
// @Failure 500 {object} map[string]string "Failed to retrieve payment"
// @Router /payments/{id} [get]
func (h *paymentHandler) getPayment(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	paymentID := c.Param("id")
	logger = logger.With(slog.String("payment_id", paymentID))

	payment, allocations, err := h.paymentService.GetPayment(c.Request.Context(), paymentID)
	if err != nil {
		writeServiceError(c, logger, err, "Failed to retrieve payment")
		return
	}
	c.JSON(http.StatusOK, dto.ToPaymentResponse(payment, allocations))
}

// listPayments godoc
// @Summary List a client's payments
// @Tags payments
// @Produce  json
// @Param   client query string true "Client name"
// @Param   limit query int false "Page size" default(20)
// @Param   nextToken query string false "Token of the next page"
// @Success 200 {object} dto.ListPaymentsResponse
// @Failure 400 {object} map[string]string "Invalid query parameters"
// @Failure 500 {object} map[string]string "Failed to list payments"
// @Router /payments [get]
func (h *paymentHandler) listPayments(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var params dto.ListPaymentsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		writeBindError(c, logger, err)
		return
	}
	logger = logger.With(slog.String("client", params.ClientName), slog.Int("limit", params.Limit))

	res, err := h.paymentService.ListPayments(c.Request.Context(), params)
	if err != nil {
		writeServiceError(c, logger, err, "Failed to list payments")
		return
	}
	c.JSON(http.StatusOK, res)
}

// previewFIFO godoc
// @Summary Preview a FIFO allocation
// @Description Shows how a payment would be spread over the client's open entries without recording anything
// @Tags payments
// @Accept  json
// @Produce  json
// @Param   preview body dto.PreviewFIFORequest true "Payment to preview"
// @Success 200 {object} dto.FIFOPreviewResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 500 {object} map[string]string "Failed to preview allocation"
// @Router /payments/preview [post]
func (h *paymentHandler) previewFIFO(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.PreviewFIFORequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeBindError(c, logger, err)
		return
	}
	logger = logger.With(slog.String("client", req.ClientName), slog.String("amount", req.Amount.String()))

	result, err := h.paymentService.PreviewFIFO(c.Request.Context(), req.ClientName, req.Direction, req.Amount)
	if err != nil {
		writeServiceError(c, logger, err, "Failed to preview allocation")
		return
	}

	c.JSON(http.StatusOK, dto.FIFOPreviewResponse{
		Allocations:      dto.ToAllocationResponses(result.Allocations),
		TotalAllocated:   result.TotalAllocated,
		RemainingPayment: result.RemainingPayment,
	})
}

// deletePayment godoc
// @Summary Delete a payment
// @Description Reverses every allocation of the payment and removes it with its journal
// @Tags payments
// @Param   id path string true "Payment ID"
// @Success 204 "No Content"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Payment not found"
// @Failure 409 {object} map[string]string "Concurrent modification"
// @Failure 422 {object} map[string]string "Reversal would corrupt settlement totals"
// @Failure 500 {object} map[string]string "Failed to delete payment"
// @Router /payments/{id} [delete]
func (h *paymentHandler) deletePayment(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	paymentID := c.Param("id")

	userID, ok := requireCaller(c, logger)
	if !ok {
		return
	}

	logger = logger.With(slog.String("user_id", userID), slog.String("payment_id", paymentID))
	logger.Info("Received request to delete payment")

	if err := h.paymentService.DeletePayment(c.Request.Context(), paymentID, userID); err != nil {
		writeServiceError(c, logger, err, "Failed to delete payment")
		return
	}

	logger.Info("Payment deleted")
	c.Status(http.StatusNoContent)
}
