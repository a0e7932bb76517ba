package handlers

import (
	"log/slog"
	"net/http"

	portssvc "github.com/SscSPs/ledger_settlement/internal/core/ports/services"
	"github.com/SscSPs/ledger_settlement/internal/dto"
	"github.com/SscSPs/ledger_settlement/internal/middleware"
	"github.com/gin-gonic/gin"
)

// chequeHandler handles HTTP requests related to cheques.
type chequeHandler struct {
	chequeService portssvc.ChequeSvcFacade
}

// newChequeHandler creates a new chequeHandler.
func newChequeHandler(cs portssvc.ChequeSvcFacade) *chequeHandler {
	return &chequeHandler{
		chequeService: cs,
	}
}

// registerChequeRoutes registers routes related to cheques.
func registerChequeRoutes(rg *gin.RouterGroup, chequeService portssvc.ChequeSvcFacade) {
	h := newChequeHandler(chequeService)

	cheques := rg.Group("/cheques")
	{
		cheques.POST("", h.createCheque)
		cheques.GET("", h.listCheques)
		cheques.GET("/:id", h.getCheque)
		cheques.POST("/:id/transition", h.transitionCheque)
		cheques.DELETE("/:id", h.deleteCheque)
	}
}

// createCheque godoc
// @Summary Register a cheque
// @Tags cheques
// @Accept  json
// @Produce  json
// @Param   cheque body dto.CreateChequeRequest true "Cheque details"
// @Success 201 {object} dto.ChequeResponse
// @Failure 400 {object} map[string]string "Invalid input format or validation error"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Failed to register cheque"
// @Router /cheques [post]
func (h *chequeHandler) createCheque(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CreateChequeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeBindError(c, logger, err)
		return
	}

	userID, ok := requireCaller(c, logger)
	if !ok {
		return
	}

	logger = logger.With(slog.String("user_id", userID), slog.String("cheque_number", req.ChequeNumber))
	logger.Info("Received request to register cheque")

	cheque, err := h.chequeService.CreateCheque(c.Request.Context(), req, userID)
	if err != nil {
		writeServiceError(c, logger, err, "Failed to register cheque")
		return
	}

	logger.Info("Cheque registered", slog.String("cheque_id", cheque.ChequeID))
	c.JSON(http.StatusCreated, dto.ToChequeResponse(cheque))
}

// getCheque godoc
// @Summary Get a cheque
// @Tags cheques
// @Produce  json
// @Param   id path string true "Cheque ID"
// @Success 200 {object} dto.ChequeResponse
// @Failure 404 {object} map[string]string "Cheque not found"
// @Failure 500 {object} map[string]string "Failed to retrieve cheque"
// @Router /cheques/{id} [get]
func (h *chequeHandler) getCheque(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	chequeID := c.Param("id")
	logger = logger.With(slog.String("cheque_id", chequeID))

	cheque, err := h.chequeService.GetCheque(c.Request.Context(), chequeID)
	if err != nil {
		writeServiceError(c, logger, err, "Failed to retrieve cheque")
		return
	}
	c.JSON(http.StatusOK, dto.ToChequeResponse(cheque))
}

// listCheques godoc
// @Summary List cheques by status
// @Tags cheques
// @Produce  json
// @Param   status query string false "Cheque status" default(pending)
// @Param   limit query int false "Page size" default(20)
// @Param   nextToken query string false "Token of the next page"
// @Success 200 {object} dto.ListChequesResponse
// @Failure 400 {object} map[string]string "Invalid query parameters"
// @Failure 500 {object} map[string]string "Failed to list cheques"
// @Router /cheques [get]
func (h *chequeHandler) listCheques(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var params dto.ListChequesParams
	if err := c.ShouldBindQuery(&params); err != nil {
		writeBindError(c, logger, err)
		return
	}
	logger = logger.With(slog.String("status", string(params.Status)), slog.Int("limit", params.Limit))

	res, err := h.chequeService.ListCheques(c.Request.Context(), params)
	if err != nil {
		writeServiceError(c, logger, err, "Failed to list cheques")
		return
	}
	c.JSON(http.StatusOK, res)
}

// transitionCheque godoc
// @Summary Change a cheque's status
// @Description Moves a cheque along its lifecycle. Endorsing requires an endorsee name.
// @Tags cheques
// @Accept  json
// @Produce  json
// @Param   id path string true "Cheque ID"
// @Param   transition body dto.TransitionChequeRequest true "Target status"
// @Success 200 {object} dto.ChequeResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Cheque not found"
// @Failure 409 {object} map[string]string "Transition not allowed from the current status"
// @Failure 500 {object} map[string]string "Failed to change cheque status"
// @Router /cheques/{id}/transition [post]
func (h *chequeHandler) transitionCheque(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	chequeID := c.Param("id")
	var req dto.TransitionChequeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeBindError(c, logger, err)
		return
	}

	userID, ok := requireCaller(c, logger)
	if !ok {
		return
	}

	logger = logger.With(
		slog.String("user_id", userID),
		slog.String("cheque_id", chequeID),
		slog.String("target_status", string(req.Status)),
	)
	logger.Info("Received request to change cheque status")

	cheque, err := h.chequeService.TransitionCheque(c.Request.Context(), chequeID, req, userID)
	if err != nil {
		writeServiceError(c, logger, err, "Failed to change cheque status")
		return
	}

	logger.Info("Cheque status changed")
	c.JSON(http.StatusOK, dto.ToChequeResponse(cheque))
}

// deleteCheque godoc
// @Summary Delete a pending cheque
// @Tags cheques
// @Param   id path string true "Cheque ID"
// @Success 204 "No Content"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Cheque not found"
// @Failure 409 {object} map[string]string "Cheque is no longer pending"
// @Failure 500 {object} map[string]string "Failed to delete cheque"
// @Router /cheques/{id} [delete]
func (h *chequeHandler) deleteCheque(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	chequeID := c.Param("id")

	userID, ok := requireCaller(c, logger)
	if !ok {
		return
	}

	logger = logger.With(slog.String("user_id", userID), slog.String("cheque_id", chequeID))
	logger.Info("Received request to delete cheque")

	if err := h.chequeService.DeleteCheque(c.Request.Context(), chequeID, userID); err != nil {
		writeServiceError(c, logger, err, "Failed to delete cheque")
		return
	}

	logger.Info("Cheque deleted")
	c.Status(http.StatusNoContent)
}
