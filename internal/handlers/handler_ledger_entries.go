package handlers

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/SscSPs/ledger_settlement/internal/core/domain"
	portssvc "github.com/SscSPs/ledger_settlement/internal/core/ports/services"
	"github.com/SscSPs/ledger_settlement/internal/dto"
	"github.com/SscSPs/ledger_settlement/internal/middleware"
	"github.com/gin-gonic/gin"
)

// ledgerEntryHandler handles HTTP requests related to ledger entries.
type ledgerEntryHandler struct {
	entryService portssvc.LedgerEntrySvcFacade
}

// newLedgerEntryHandler creates a new ledgerEntryHandler.
func newLedgerEntryHandler(es portssvc.LedgerEntrySvcFacade) *ledgerEntryHandler {
	return &ledgerEntryHandler{
		entryService: es,
	}
}

// registerLedgerEntryRoutes registers routes related to ledger entries.
func registerLedgerEntryRoutes(rg *gin.RouterGroup, entryService portssvc.LedgerEntrySvcFacade) {
	h := newLedgerEntryHandler(entryService)

	entries := rg.Group("/entries")
	{
		entries.POST("", h.recordEntry)
		entries.GET("", h.listEntries)
		entries.GET("/open", h.listOpenEntries)
		entries.GET("/:id", h.getEntry)
		entries.GET("/:id/journals", h.getEntryJournals)
		entries.POST("/:id/discount", h.applyDiscount)
		entries.POST("/:id/writeoff", h.applyWriteoff)
		entries.DELETE("/:id", h.deleteEntry)
	}
}

// recordEntry godoc
// @Summary Record a ledger entry
// @Description Records an income, expense or equity transaction and posts its journal
// @Tags entries
// @Accept  json
// @Produce  json
// @Param   entry body dto.CreateLedgerEntryRequest true "Entry details"
// @Success 201 {object} dto.RecordEntryResponse
// @Failure 400 {object} map[string]string "Invalid input format or validation error"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 409 {object} map[string]string "Concurrent modification"
// @Failure 500 {object} map[string]string "Failed to record entry"
// @Router /entries [post]
func (h *ledgerEntryHandler) recordEntry(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CreateLedgerEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeBindError(c, logger, err)
		return
	}

	userID, ok := requireCaller(c, logger)
	if !ok {
		return
	}

	logger = logger.With(slog.String("user_id", userID))
	logger.Info("Received request to record ledger entry",
		slog.String("type", string(req.Type)),
		slog.String("category", req.Category))

	entry, journal, err := h.entryService.RecordEntry(c.Request.Context(), req, userID)
	if err != nil {
		writeServiceError(c, logger, err, "Failed to record entry")
		return
	}

	logger.Info("Ledger entry recorded successfully",
		slog.String("entry_id", entry.ID),
		slog.String("entry_number", journal.EntryNumber))
	c.JSON(http.StatusCreated, dto.RecordEntryResponse{
		Entry:   dto.ToLedgerEntryResponse(entry),
		Journal: dto.ToJournalResponse(journal),
	})
}

// getEntry godoc
// @Summary Get a ledger entry
// @Tags entries
// @Produce  json
// @Param   id path string true "Entry ID"
// @Success 200 {object} dto.LedgerEntryResponse
// @Failure 404 {object} map[string]string "Entry not found"
// @Failure 500 {object} map[string]string "Failed to retrieve entry"
// @Router /entries/{id} [get]
func (h *ledgerEntryHandler) getEntry(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	entryID := c.Param("id")
	logger = logger.With(slog.String("entry_id", entryID))

	entry, err := h.entryService.GetLedgerEntry(c.Request.Context(), entryID)
	if err != nil {
		writeServiceError(c, logger, err, "Failed to retrieve entry")
		return
	}
	c.JSON(http.StatusOK, dto.ToLedgerEntryResponse(entry))
}

// getEntryJournals godoc
// @Summary List the journals of a ledger entry
// @Description Returns the original posting followed by any discount and write-off journals
// @Tags entries
// @Produce  json
// @Param   id path string true "Entry ID"
// @Success 200 {array} dto.JournalResponse
// @Failure 404 {object} map[string]string "Entry not found"
// @Failure 500 {object} map[string]string "Failed to retrieve journals"
// @Router /entries/{id}/journals [get]
func (h *ledgerEntryHandler) getEntryJournals(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	entryID := c.Param("id")
	logger = logger.With(slog.String("entry_id", entryID))

	journals, err := h.entryService.GetEntryJournals(c.Request.Context(), entryID)
	if err != nil {
		writeServiceError(c, logger, err, "Failed to retrieve journals")
		return
	}
	c.JSON(http.StatusOK, dto.ToJournalResponses(journals))
}

// listEntries godoc
// @Summary List a client's ledger entries
// @Tags entries
// @Produce  json
// @Param   client query string true "Client name"
// @Param   limit query int false "Page size" default(20)
// @Param   nextToken query string false "Token of the next page"
// @Success 200 {object} dto.ListLedgerEntriesResponse
// @Failure 400 {object} map[string]string "Invalid query parameters"
// @Failure 500 {object} map[string]string "Failed to list entries"
// @Router /entries [get]
func (h *ledgerEntryHandler) listEntries(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var params dto.ListLedgerEntriesParams
	if err := c.ShouldBindQuery(&params); err != nil {
		writeBindError(c, logger, err)
		return
	}
	logger = logger.With(slog.String("client", params.ClientName), slog.Int("limit", params.Limit))

	res, err := h.entryService.ListEntries(c.Request.Context(), params)
	if err != nil {
		writeServiceError(c, logger, err, "Failed to list entries")
		return
	}
	c.JSON(http.StatusOK, res)
}

// listOpenEntries godoc
// @Summary List a client's open entries
// @Description Tracked entries with a remaining balance, oldest first, in the order FIFO allocation uses
// @Tags entries
// @Produce  json
// @Param   client query string true "Client name"
// @Param   type query string false "income or expense" default(income)
// @Success 200 {array} dto.LedgerEntryResponse
// @Failure 400 {object} map[string]string "Invalid query parameters"
// @Failure 500 {object} map[string]string "Failed to list open entries"
// @Router /entries/open [get]
func (h *ledgerEntryHandler) listOpenEntries(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var params dto.ListOpenEntriesParams
	if err := c.ShouldBindQuery(&params); err != nil {
		writeBindError(c, logger, err)
		return
	}
	logger = logger.With(slog.String("client", params.ClientName), slog.String("type", params.Type))

	entries, err := h.entryService.ListOpenEntries(c.Request.Context(), params.ClientName, domain.EntryType(params.Type))
	if err != nil {
		writeServiceError(c, logger, err, "Failed to list open entries")
		return
	}
	c.JSON(http.StatusOK, dto.ToListLedgerEntryResponse(entries))
}

// applyDiscount godoc
// @Summary Grant a settlement discount
// @Tags entries
// @Accept  json
// @Produce  json
// @Param   id path string true "Entry ID"
// @Param   discount body dto.SettlementAdjustmentRequest true "Discount details"
// @Success 200 {object} dto.LedgerEntryResponse
// @Failure 400 {object} map[string]string "Invalid input or amount above the remaining balance"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Entry not found"
// @Failure 409 {object} map[string]string "Concurrent modification"
// @Failure 500 {object} map[string]string "Failed to apply discount"
// @Router /entries/{id}/discount [post]
func (h *ledgerEntryHandler) applyDiscount(c *gin.Context) {
	h.adjust(c, "discount", h.entryService.ApplyDiscount)
}

// applyWriteoff godoc
// @Summary Write off part of an entry
// @Tags entries
// @Accept  json
// @Produce  json
// @Param   id path string true "Entry ID"
// @Param   writeoff body dto.SettlementAdjustmentRequest true "Write-off details"
// @Success 200 {object} dto.LedgerEntryResponse
// @Failure 400 {object} map[string]string "Invalid input or amount above the remaining balance"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Entry not found"
// @Failure 409 {object} map[string]string "Concurrent modification"
// @Failure 500 {object} map[string]string "Failed to apply write-off"
// @Router /entries/{id}/writeoff [post]
func (h *ledgerEntryHandler) applyWriteoff(c *gin.Context) {
	h.adjust(c, "write-off", h.entryService.ApplyWriteoff)
}

type adjustFunc func(ctx context.Context, id string, req dto.SettlementAdjustmentRequest, userID string) (*domain.LedgerEntry, error)

func (h *ledgerEntryHandler) adjust(c *gin.Context, kind string, apply adjustFunc) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	entryID := c.Param("id")
	var req dto.SettlementAdjustmentRequest
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
		slog.String("entry_id", entryID),
		slog.String("adjustment", kind),
	)
	logger.Info("Received request to adjust ledger entry", slog.String("amount", req.Amount.String()))

	entry, err := apply(c.Request.Context(), entryID, req, userID)
	if err != nil {
		writeServiceError(c, logger, err, "Failed to apply "+kind)
		return
	}

	logger.Info("Ledger entry adjusted", slog.String("remaining_balance", entry.RemainingBalance.String()))
	c.JSON(http.StatusOK, dto.ToLedgerEntryResponse(entry))
}

// deleteEntry godoc
// @Summary Delete a ledger entry
// @Description Removes an entry and its journals. Entries with recorded payments cannot be deleted.
// @Tags entries
// @Param   id path string true "Entry ID"
// @Success 204 "No Content"
// @Failure 400 {object} map[string]string "Entry has payments"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Entry not found"
// @Failure 500 {object} map[string]string "Failed to delete entry"
// @Router /entries/{id} [delete]
func (h *ledgerEntryHandler) deleteEntry(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	entryID := c.Param("id")

	userID, ok := requireCaller(c, logger)
	if !ok {
		return
	}

	logger = logger.With(slog.String("user_id", userID), slog.String("entry_id", entryID))
	logger.Info("Received request to delete ledger entry")

	if err := h.entryService.DeleteEntry(c.Request.Context(), entryID, userID); err != nil {
		writeServiceError(c, logger, err, "Failed to delete entry")
		return
	}

	logger.Info("Ledger entry deleted")
	c.Status(http.StatusNoContent)
}
