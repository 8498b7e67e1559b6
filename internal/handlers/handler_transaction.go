package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gigbridge/gigbridge_backend/internal/apperrors"
	"github.com/gigbridge/gigbridge_backend/internal/core/domain"
	portssvc "github.com/gigbridge/gigbridge_backend/internal/core/ports/services"
	"github.com/gigbridge/gigbridge_backend/internal/dto"
	"github.com/gigbridge/gigbridge_backend/internal/middleware"
	"github.com/gin-gonic/gin"
)

// transactionHandler handles HTTP requests for balances, withdrawals and
// ledger history.
type transactionHandler struct {
	paymentService portssvc.PaymentSvcFacade
	ledgerService  portssvc.LedgerSvcFacade
}

// newTransactionHandler creates a new transactionHandler.
func newTransactionHandler(ps portssvc.PaymentSvcFacade, ls portssvc.LedgerSvcFacade) *transactionHandler {
	return &transactionHandler{
		paymentService: ps,
		ledgerService:  ls,
	}
}

// registerTransactionRoutes registers the money-movement routes.
func registerTransactionRoutes(rg *gin.RouterGroup, paymentService portssvc.PaymentSvcFacade, ledgerService portssvc.LedgerSvcFacade) {
	h := newTransactionHandler(paymentService, ledgerService)

	rg.POST("/withdrawals", h.initiateWithdrawal)
	rg.GET("/balance", h.getBalance)

	transactions := rg.Group("/transactions")
	{
		transactions.GET("", h.listTransactions)
		transactions.POST("", h.appendTransaction)
		transactions.POST("/:transaction_id/status", h.updateTransactionStatus)
		transactions.POST("/:transaction_id/review", h.reviewTransaction)
	}
}

// appendTransaction records a manual ledger adjustment (refund, commission,
// bonus, dispute refund). Admin only.
func (h *transactionHandler) appendTransaction(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.AppendEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for AppendTransaction", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	actor, ok := middleware.GetActorFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	entry, err := h.ledgerService.AppendEntry(c.Request.Context(), actor, req.ToLedgerEntry())
	if err != nil {
		respondWithError(c, err)
		return
	}

	logger.Info("Ledger adjustment appended", slog.String("entry_id", entry.EntryID), slog.String("type", string(entry.Type)))
	c.JSON(http.StatusCreated, dto.ToLedgerEntryResponse(entry))
}

// initiateWithdrawal appends a pending withdrawal for the caller after a
// serialized balance check.
func (h *transactionHandler) initiateWithdrawal(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.WithdrawalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for InitiateWithdrawal", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	actor, ok := middleware.GetActorFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	entry, err := h.paymentService.InitiateWithdrawal(c.Request.Context(), actor, req)
	if err != nil {
		logger.Warn("Withdrawal rejected", slog.String("error", err.Error()))
		respondWithError(c, err)
		return
	}

	logger.Info("Withdrawal initiated", slog.String("entry_id", entry.EntryID))
	c.JSON(http.StatusAccepted, dto.ToLedgerEntryResponse(entry))
}

// getBalance reports the caller's available balance derived from the ledger.
func (h *transactionHandler) getBalance(c *gin.Context) {
	actor, ok := middleware.GetActorFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	balance, err := h.ledgerService.ComputeBalance(c.Request.Context(), actor.UserID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.BalanceResponse{UserID: actor.UserID, Balance: balance})
}

// listTransactions returns a page of the caller's ledger history, newest first.
func (h *transactionHandler) listTransactions(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var params dto.ListEntriesParams
	if err := c.ShouldBindQuery(&params); err != nil {
		logger.Warn("Failed to bind query for ListTransactions", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + err.Error()})
		return
	}

	actor, ok := middleware.GetActorFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	resp, err := h.ledgerService.ListUserEntries(c.Request.Context(), actor.UserID, params)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// updateTransactionStatus is the payment-provider callback confirming or
// failing an asynchronous transfer. The provider authenticates with an
// admin-role credential; the service rejects anyone else.
func (h *transactionHandler) updateTransactionStatus(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.EntryStatusUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for UpdateTransactionStatus", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	actor, ok := middleware.GetActorFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	entryID := c.Param("transaction_id")
	entry, err := h.ledgerService.TransitionEntryStatus(c.Request.Context(), actor, entryID, domain.EntryStatus(req.Status))
	if err != nil {
		if errors.Is(err, apperrors.ErrInvalidTransition) {
			logger.Warn("Rejected entry status transition", slog.String("entry_id", entryID), slog.String("target", req.Status))
		}
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToLedgerEntryResponse(entry))
}

// reviewTransaction updates admin flag/verify metadata on a completed entry.
func (h *transactionHandler) reviewTransaction(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.EntryReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for ReviewTransaction", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	actor, ok := middleware.GetActorFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	entry, err := h.ledgerService.ReviewEntry(c.Request.Context(), actor, c.Param("transaction_id"), req)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToLedgerEntryResponse(entry))
}
