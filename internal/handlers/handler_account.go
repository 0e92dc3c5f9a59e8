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

// accountHandler handles HTTP requests for the caller's Aurum account.
type accountHandler struct {
	userService portssvc.UserSvcFacade
}

// newAccountHandler creates a new accountHandler.
func newAccountHandler(userService portssvc.UserSvcFacade) *accountHandler {
	return &accountHandler{
		userService: userService,
	}
}

// registerAccountRoutes registers account specific routes.
func registerAccountRoutes(group *gin.RouterGroup, services *portssvc.ServiceContainer) {
	h := newAccountHandler(services.User)

	accounts := group.Group("/accounts")
	{
		accounts.GET("/me", h.getMyAccount)
	}
}

// getMyAccount godoc
// @Summary Get the caller's account
// @Description Returns the caller's Aurum account with its current balance.
// @Tags accounts
// @Produce json
// @Success 200 {object} dto.AccountResponse
// @Failure 401 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse "Account not found"
// @Failure 500 {object} ErrorResponse
// @Router /accounts/me [get]
func (h *accountHandler) getMyAccount(c *gin.Context) {
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
		logger.Error("Failed to get account", slog.String("error", err.Error()), slog.String("user_id", userID))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to get account"})
		return
	}

	c.JSON(http.StatusOK, dto.ToAccountResponse(account))
}
