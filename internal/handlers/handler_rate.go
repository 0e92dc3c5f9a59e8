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

// rateHandler handles HTTP requests for gold rate quotes.
type rateHandler struct {
	rateService portssvc.RateSvcFacade
	assetCode   string
}

// newRateHandler creates a new rateHandler.
func newRateHandler(rateService portssvc.RateSvcFacade, assetCode string) *rateHandler {
	return &rateHandler{
		rateService: rateService,
		assetCode:   assetCode,
	}
}

// marketDataActor is recorded on audit fields for quotes delivered by the feed.
const marketDataActor = "market-data-feed"

// registerRateRoutes registers rate specific routes. Quote ingestion is only
// reachable through the service-key group, user JWTs cannot write quotes.
func registerRateRoutes(group, machine *gin.RouterGroup, services *portssvc.ServiceContainer, assetCode string) {
	h := newRateHandler(services.Rate, assetCode)

	group.GET("/rates/current", h.currentRate)
	machine.POST("/rates", h.ingestRate)
}

// currentRate godoc
// @Summary Get the current gold rate
// @Description Returns the newest rate quote within the staleness bound.
// @Tags rates
// @Produce json
// @Success 200 {object} dto.RateResponse
// @Failure 401 {object} ErrorResponse
// @Failure 503 {object} ErrorResponse "No sufficiently fresh quote"
// @Failure 500 {object} ErrorResponse
// @Router /rates/current [get]
func (h *rateHandler) currentRate(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	quote, err := h.rateService.CurrentRate(c.Request.Context(), h.assetCode)
	if err != nil {
		if errors.Is(err, apperrors.ErrRateUnavailable) {
			c.JSON(http.StatusServiceUnavailable, ErrorResponse{Error: "Gold rate is currently unavailable, please retry"})
			return
		}
		logger.Error("Failed to get current rate", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to get current rate"})
		return
	}

	c.JSON(http.StatusOK, dto.ToRateResponse(*quote))
}

// ingestRate godoc
// @Summary Ingest a rate quote
// @Description Records a quote delivered by the market-data feed.
// @Tags rates
// @Accept json
// @Produce json
// @Param rate body dto.IngestRateRequest true "Rate quote"
// @Success 201 {object} dto.RateResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse "Service API key missing or invalid"
// @Failure 500 {object} ErrorResponse
// @Security ApiKeyAuth
// @Router /rates [post]
func (h *rateHandler) ingestRate(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.IngestRateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body"})
		return
	}

	quote, err := h.rateService.IngestRate(c.Request.Context(), req, marketDataActor)
	if err != nil {
		if errors.Is(err, apperrors.ErrValidation) {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
			return
		}
		logger.Error("Failed to ingest rate quote", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to ingest rate quote"})
		return
	}

	c.JSON(http.StatusCreated, dto.ToRateResponse(*quote))
}
