package http

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/nurpe/contracts-service/internal/auth"
	"github.com/nurpe/contracts-service/internal/model"
	"github.com/nurpe/contracts-service/internal/service"
)

const (
	contentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	contentTypePDF  = "application/pdf"
)

type Handler struct {
	contracts *service.ContractService
	auth      *auth.Service
	log       zerolog.Logger
}

func NewHandler(contracts *service.ContractService, authService *auth.Service, log zerolog.Logger) *Handler {
	return &Handler{contracts: contracts, auth: authService, log: log}
}

func (h *Handler) Register(router *gin.Engine, authMiddleware gin.HandlerFunc) {
	public := router.Group("/auth")
	public.POST("/sign-up", h.signUp)
	public.POST("/sign-in", h.signIn)

	protected := router.Group("/")
	protected.Use(authMiddleware)
	protected.GET("/auth/session", h.session)
	protected.GET("/dashboard", h.dashboard)
	protected.GET("/alerts", h.alerts)

	protected.GET("/contracts", h.listContracts)
	protected.POST("/contracts", h.createContract)
	protected.GET("/contracts/export", h.exportContracts)
	protected.GET("/contracts/:id", h.getContract)
	protected.PATCH("/contracts/:id", h.updateContract)
	protected.PUT("/contracts/:id/notes", h.updateNotes)
	protected.DELETE("/contracts/:id", h.removeContract)
	protected.GET("/contracts/:id/statement", h.contractStatement)
	protected.POST("/contracts/:id/invoices", h.addInvoice)

	protected.DELETE("/invoices/:id", h.removeInvoice)
}

func (h *Handler) handleError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidInput), errors.Is(err, auth.ErrInvalidInput):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, auth.ErrInvalidCredentials), errors.Is(err, auth.ErrInvalidToken), errors.Is(err, auth.ErrUserNotFound):
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
	case errors.Is(err, auth.ErrEmailTaken):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	default:
		h.log.Error().Err(err).Str("path", c.FullPath()).Msg("request failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}

func (h *Handler) sendFile(c *gin.Context, contentType string, result *service.ExportResult) {
	c.Header("Content-Type", contentType)
	c.Header("Content-Disposition", "attachment; filename=\""+result.FileName+"\"")
	c.Data(http.StatusOK, contentType, result.Content)
}

// parseDate accepts a calendar date or a full timestamp; empty input is an error.
func parseDate(raw string) (model.Date, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return model.Date{}, service.ErrInvalidInput
	}
	d, err := model.ParseDate(raw)
	if err != nil {
		return model.Date{}, service.ErrInvalidInput
	}
	return d, nil
}

func parseOptionalDate(raw *string) (*model.Date, error) {
	if raw == nil {
		return nil, nil
	}
	d, err := parseDate(*raw)
	if err != nil {
		return nil, err
	}
	return &d, nil
}
