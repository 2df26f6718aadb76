package http

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/panellens/backend/internal/domain"
	"github.com/panellens/backend/internal/infrastructure/export"
	"github.com/panellens/backend/internal/infrastructure/logger"
	"github.com/panellens/backend/internal/usecase"
	"go.uber.org/zap"
)

const version = "1.0.0"

// Handler holds dependencies for HTTP handlers
type Handler struct {
	shipments *usecase.ShipmentService
	auth      *usecase.AuthService
	cookie    CookieConfig
}

// CookieConfig controls the session cookie
type CookieConfig struct {
	Name   string
	Secure bool
}

// NewHandler creates a new HTTP handler
func NewHandler(shipments *usecase.ShipmentService, auth *usecase.AuthService, cookie CookieConfig) *Handler {
	if cookie.Name == "" {
		cookie.Name = "panellens_session"
	}
	return &Handler{
		shipments: shipments,
		auth:      auth,
		cookie:    cookie,
	}
}

// HealthCheck returns the health status of the API
func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "panellens-backend",
		"version": version,
	})
}

type loginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// Login checks credentials and sets the session cookie
func (h *Handler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, fmt.Errorf("%w: %v", domain.ErrInvalidRequest, err))
		return
	}

	session, err := h.auth.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		respondError(c, err)
		return
	}

	maxAge := int(time.Until(session.ExpiresAt).Seconds())
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(h.cookie.Name, session.Token, maxAge, "/", "", h.cookie.Secure, true)
	c.JSON(http.StatusOK, session)
}

// Logout ends the current session and clears the cookie
func (h *Handler) Logout(c *gin.Context) {
	if err := h.auth.Logout(c.Request.Context(), sessionToken(c, h.cookie.Name)); err != nil {
		logger.FromContext(c).Warn("logout failed", zap.Error(err))
	}
	c.SetCookie(h.cookie.Name, "", -1, "/", "", h.cookie.Secure, true)
	c.Status(http.StatusNoContent)
}

// InferProduct infers the product for a single shipment row
func (h *Handler) InferProduct(c *gin.Context) {
	var row domain.Record
	if err := c.ShouldBindJSON(&row); err != nil || row == nil {
		respondError(c, fmt.Errorf("%w: body must be a JSON object", domain.ErrInvalidRequest))
		return
	}

	c.JSON(http.StatusOK, h.shipments.Inferrer().Infer(row))
}

// EnrichTable adds inferred_product and inference_confidence to a table of shipment rows
func (h *Handler) EnrichTable(c *gin.Context) {
	var table domain.Table
	if err := c.ShouldBindJSON(&table); err != nil {
		respondError(c, fmt.Errorf("%w: %v", domain.ErrInvalidRequest, err))
		return
	}
	if len(table.Columns) == 0 {
		respondError(c, fmt.Errorf("%w: columns are required", domain.ErrInvalidRequest))
		return
	}

	c.JSON(http.StatusOK, h.shipments.Inferrer().Enrich(table))
}

// ListShipments returns stored shipments matching the query filters
func (h *Handler) ListShipments(c *gin.Context) {
	filter, ok := bindFilter(c)
	if !ok {
		return
	}

	rows, err := h.shipments.Query(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"shipments": rows, "count": len(rows)})
}

// ShipmentSummary returns shipped units per inferred product
func (h *Handler) ShipmentSummary(c *gin.Context) {
	filter, ok := bindFilter(c)
	if !ok {
		return
	}

	summaries, err := h.shipments.Summary(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"products": summaries})
}

// FilterOptions returns the values available for each dashboard filter
func (h *Handler) FilterOptions(c *gin.Context) {
	options, err := h.shipments.FilterOptions(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, options)
}

// ExportShipments streams the filtered, enriched shipments as a CSV attachment
func (h *Handler) ExportShipments(c *gin.Context) {
	filter, ok := bindFilter(c)
	if !ok {
		return
	}

	table, err := h.shipments.Table(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}

	c.Header("Content-Type", "text/csv; charset=utf-8")
	c.Header("Content-Disposition", `attachment; filename="shipments.csv"`)
	c.Status(http.StatusOK)
	if err := export.WriteCSV(c.Writer, table); err != nil {
		logger.FromContext(c).Error("CSV export failed", zap.Error(err))
		_ = c.Error(err)
	}
}

func bindFilter(c *gin.Context) (domain.ShipmentFilter, bool) {
	var filter domain.ShipmentFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		respondError(c, fmt.Errorf("%w: %v", domain.ErrInvalidRequest, err))
		return filter, false
	}
	return filter, true
}

// respondError maps domain errors to HTTP status codes
func respondError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	message := "internal server error"

	switch {
	case errors.Is(err, domain.ErrInvalidRequest),
		errors.Is(err, domain.ErrInvalidShipment),
		errors.Is(err, domain.ErrUnsupportedFilterColumn):
		status = http.StatusBadRequest
		message = err.Error()
	case errors.Is(err, domain.ErrInvalidCredentials),
		errors.Is(err, domain.ErrUnauthenticated):
		status = http.StatusUnauthorized
		message = err.Error()
	case errors.Is(err, domain.ErrRateLimited):
		status = http.StatusTooManyRequests
		message = err.Error()
	default:
		logger.FromContext(c).Error("request failed", zap.Error(err))
	}

	_ = c.Error(err)
	c.JSON(status, gin.H{"error": message})
}
