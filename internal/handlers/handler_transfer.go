package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/aurumgold/aurum_backend/internal/apperrors"
	"github.com/aurumgold/aurum_backend/internal/core/domain"
	portssvc "github.com/aurumgold/aurum_backend/internal/core/ports/services"
	"github.com/aurumgold/aurum_backend/internal/dto"
	"github.com/aurumgold/aurum_backend/internal/middleware"
	"github.com/gin-gonic/gin"
)

// transferHandler handles HTTP requests for Aurum transfers.
type transferHandler struct {
	transferService portssvc.TransferSvcFacade
	userService     portssvc.UserSvcFacade
}

// newTransferHandler creates a new transferHandler.
func newTransferHandler(transferService portssvc.TransferSvcFacade, userService portssvc.UserSvcFacade) *transferHandler {
	return &transferHandler{
		transferService: transferService,
		userService:     userService,
	}
}

// settlementActor is recorded on audit fields when the settlement processor
// resolves a pending return.
const settlementActor = "settlement-processor"

// registerTransferRoutes registers transfer specific routes. Settlement is only
// reachable through the service-key group, user JWTs cannot settle returns.
func registerTransferRoutes(group, machine *gin.RouterGroup, rateLimit gin.HandlerFunc, services *portssvc.ServiceContainer) {
	h := newTransferHandler(services.Transfer, services.User)

	transfers := group.Group("/transfers", rateLimit)
	{
		transfers.POST("/purchase", h.purchase)
		transfers.POST("/send", h.send)
		transfers.POST("/return", h.returnAurum)
	}

	machine.POST("/transfers/returns/:transactionID/settle", h.settleReturn)
}

// purchase godoc
// @Summary Buy Aurum with USD
// @Description Converts a USD amount into Aurum at the current rate and credits the caller's account.
// @Tags transfers
// @Accept json
// @Produce json
// @Param purchase body dto.PurchaseRequest true "Purchase details"
// @Success 201 {object} dto.TransactionResponse
// @Failure 400 {object} ErrorResponse "Invalid request or validation failure"
// @Failure 401 {object} ErrorResponse
// @Failure 503 {object} ErrorResponse "Gold rate unavailable"
// @Failure 500 {object} ErrorResponse
// @Router /transfers/purchase [post]
func (h *transferHandler) purchase(c *gin.Context) {
	var req dto.PurchaseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body"})
		return
	}
	h.applyTransfer(c, domain.PurchaseIntent{USDAmount: req.USDAmount})
}

// send godoc
// @Summary Send Aurum to another user
// @Description Debits the caller and credits the recipient atomically.
// @Tags transfers
// @Accept json
// @Produce json
// @Param send body dto.SendRequest true "Send details"
// @Success 201 {object} dto.TransactionResponse
// @Failure 400 {object} ErrorResponse "Invalid request, validation failure or insufficient balance"
// @Failure 401 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /transfers/send [post]
func (h *transferHandler) send(c *gin.Context) {
	var req dto.SendRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body"})
		return
	}
	h.applyTransfer(c, domain.SendIntent{
		RecipientEmail: req.RecipientEmail,
		Amount:         req.Amount,
		Notes:          req.Notes,
	})
}

// returnAurum godoc
// @Summary Return Aurum for a bank payout
// @Description Debits the caller immediately and records a pending payout to their bank account.
// @Tags transfers
// @Accept json
// @Produce json
// @Param return body dto.ReturnRequest true "Return details"
// @Success 201 {object} dto.TransactionResponse
// @Failure 400 {object} ErrorResponse "Invalid request, validation failure or insufficient balance"
// @Failure 401 {object} ErrorResponse
// @Failure 503 {object} ErrorResponse "Gold rate unavailable"
// @Failure 500 {object} ErrorResponse
// @Router /transfers/return [post]
func (h *transferHandler) returnAurum(c *gin.Context) {
	var req dto.ReturnRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body"})
		return
	}
	h.applyTransfer(c, domain.ReturnIntent{
		Amount:      req.Amount,
		BankAccount: req.BankAccount,
		Notes:       req.Notes,
	})
}

// applyTransfer resolves the caller's account, applies the intent and writes
// the common success or error response.
func (h *transferHandler) applyTransfer(c *gin.Context, intent domain.TransferIntent) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	account, err := h.userService.GetAccountForUser(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, ErrorResponse{Error: "Account not found"})
			return
		}
		logger.Error("Failed to resolve caller account", slog.String("error", err.Error()), slog.String("user_id", userID))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to apply transfer"})
		return
	}

	txn, err := h.transferService.ApplyTransfer(c.Request.Context(), account.AccountID, intent)
	if err != nil {
		h.respondTransferError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToTransactionResponse(txn))
}

// settleReturn godoc
// @Summary Settle a pending return
// @Description Approves or rejects a pending return. Rejection re-credits the held amount.
// @Tags transfers
// @Accept json
// @Produce json
// @Param transactionID path string true "Transaction ID of the pending return"
// @Param settle body dto.SettleReturnRequest true "Settlement decision"
// @Success 200 {object} dto.TransactionResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse "Service API key missing or invalid"
// @Failure 404 {object} ErrorResponse "Transaction not found"
// @Failure 409 {object} ErrorResponse "Transaction is not a pending return"
// @Failure 500 {object} ErrorResponse
// @Security ApiKeyAuth
// @Router /transfers/returns/{transactionID}/settle [post]
func (h *transferHandler) settleReturn(c *gin.Context) {
	transactionID := c.Param("transactionID")

	var req dto.SettleReturnRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body"})
		return
	}

	txn, err := h.transferService.SettleReturn(c.Request.Context(), transactionID, *req.Approve, settlementActor)
	if err != nil {
		h.respondTransferError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTransactionResponse(txn))
}

// respondTransferError maps service errors to HTTP responses. Validation and
// balance failures are surfaced verbatim, infrastructure failures are not.
func (h *transferHandler) respondTransferError(c *gin.Context, err error) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	switch {
	case errors.Is(err, apperrors.ErrValidation), errors.Is(err, apperrors.ErrInsufficientBalance):
		logger.Warn("Transfer rejected", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
	case errors.Is(err, apperrors.ErrRateUnavailable):
		logger.Warn("Transfer rejected, rate unavailable", slog.String("error", err.Error()))
		c.JSON(http.StatusServiceUnavailable, ErrorResponse{Error: "Gold rate is currently unavailable, please retry"})
	case errors.Is(err, apperrors.ErrNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "Transaction not found"})
	case errors.Is(err, apperrors.ErrConflict):
		c.JSON(http.StatusConflict, ErrorResponse{Error: err.Error()})
	default:
		logger.Error("Failed to apply transfer", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to apply transfer"})
	}
}
