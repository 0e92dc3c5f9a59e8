package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/aurumgold/aurum_backend/internal/apperrors"
	portssvc "github.com/aurumgold/aurum_backend/internal/core/ports/services"
	"github.com/aurumgold/aurum_backend/internal/dto"
	"github.com/aurumgold/aurum_backend/internal/middleware"
	"github.com/gin-gonic/gin"
)

// transactionHandler handles HTTP requests for transaction history.
type transactionHandler struct {
	historyService portssvc.HistorySvcFacade
	userService    portssvc.UserSvcFacade
}

// newTransactionHandler creates a new transactionHandler.
func newTransactionHandler(historyService portssvc.HistorySvcFacade, userService portssvc.UserSvcFacade) *transactionHandler {
	return &transactionHandler{
		historyService: historyService,
		userService:    userService,
	}
}

// registerTransactionRoutes registers transaction history routes.
func registerTransactionRoutes(group *gin.RouterGroup, services *portssvc.ServiceContainer) {
	h := newTransactionHandler(services.History, services.User)
	group.GET("/transactions", h.listTransactions)
}

// listTransactions godoc
// @Summary List the caller's transactions
// @Description Returns a page of the caller's transactions, newest first, with token-based pagination.
// @Tags transactions
// @Produce json
// @Param limit query int false "Page size (default 20, max 100)"
// @Param nextToken query string false "Pagination token from a previous response"
// @Param since query string false "RFC3339 lower bound on creation time"
// @Success 200 {object} dto.ListTransactionsResponse
// @Failure 400 {object} ErrorResponse "Invalid query parameters or pagination token"
// @Failure 401 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /transactions [get]
func (h *transactionHandler) listTransactions(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var params dto.ListTransactionsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid query parameters"})
		return
	}

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
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to list transactions"})
		return
	}

	resp, err := h.historyService.ListTransactions(c.Request.Context(), account.AccountID, params)
	if err != nil {
		if errors.Is(err, apperrors.ErrValidation) {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
			return
		}
		logger.Error("Failed to list transactions", slog.String("error", err.Error()), slog.String("account_id", account.AccountID))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to list transactions"})
		return
	}

	c.JSON(http.StatusOK, resp)
}
