package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/nurpe/contracts-service/internal/model"
	"github.com/nurpe/contracts-service/internal/service"
)

type createContractRequest struct {
	Municipality string   `json:"municipality" binding:"required"`
	Object       string   `json:"object" binding:"required"`
	StartDate    string   `json:"startDate" binding:"required"`
	EndDate      string   `json:"endDate" binding:"required"`
	TotalValue   *float64 `json:"totalValue" binding:"required"`
	Notes        string   `json:"notes"`
}

type updateContractRequest struct {
	Municipality *string  `json:"municipality"`
	Object       *string  `json:"object"`
	StartDate    *string  `json:"startDate"`
	EndDate      *string  `json:"endDate"`
	TotalValue   *float64 `json:"totalValue"`
	Notes        *string  `json:"notes"`
}

type updateNotesRequest struct {
	Notes string `json:"notes"`
}

type addInvoiceRequest struct {
	Number string   `json:"number" binding:"required"`
	Value  *float64 `json:"value" binding:"required"`
	Date   string   `json:"date" binding:"required"`
}

func (h *Handler) dashboard(c *gin.Context) {
	c.JSON(http.StatusOK, newDashboardView(h.contracts.Dashboard()))
}

func (h *Handler) alerts(c *gin.Context) {
	alerts := h.contracts.Alerts()
	views := make([]alertView, 0, len(alerts))
	for _, alert := range alerts {
		views = append(views, newAlertView(alert))
	}
	c.JSON(http.StatusOK, gin.H{"alerts": views})
}

func (h *Handler) listContracts(c *gin.Context) {
	summaries := h.contracts.ListContracts()
	views := make([]summaryView, 0, len(summaries))
	for _, summary := range summaries {
		views = append(views, newSummaryView(summary))
	}
	c.JSON(http.StatusOK, gin.H{"contracts": views})
}

func (h *Handler) getContract(c *gin.Context) {
	detail, err := h.contracts.GetContract(c.Param("id"))
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, newDetailView(detail))
}

func (h *Handler) createContract(c *gin.Context) {
	var req createContractRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	start, err := parseDate(req.StartDate)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid startDate"})
		return
	}
	end, err := parseDate(req.EndDate)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid endDate"})
		return
	}

	contract, err := h.contracts.CreateContract(service.CreateContractInput{
		Municipality: req.Municipality,
		Object:       req.Object,
		StartDate:    start,
		EndDate:      end,
		TotalValue:   *req.TotalValue,
		Notes:        req.Notes,
	})
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusCreated, contract)
}

func (h *Handler) updateContract(c *gin.Context) {
	var req updateContractRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	start, err := parseOptionalDate(req.StartDate)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid startDate"})
		return
	}
	end, err := parseOptionalDate(req.EndDate)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid endDate"})
		return
	}

	contract, err := h.contracts.UpdateContract(c.Param("id"), model.ContractPatch{
		Municipality: req.Municipality,
		Object:       req.Object,
		StartDate:    start,
		EndDate:      end,
		TotalValue:   req.TotalValue,
		Notes:        req.Notes,
	})
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, contract)
}

func (h *Handler) updateNotes(c *gin.Context) {
	var req updateNotesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	contract, err := h.contracts.UpdateNotes(c.Param("id"), req.Notes)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, contract)
}

// removeContract answers 204 for unknown ids too; removal is idempotent.
func (h *Handler) removeContract(c *gin.Context) {
	h.contracts.RemoveContract(c.Param("id"))
	c.Status(http.StatusNoContent)
}

func (h *Handler) addInvoice(c *gin.Context) {
	var req addInvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	date, err := parseDate(req.Date)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid date"})
		return
	}

	invoice, err := h.contracts.AddInvoice(c.Param("id"), service.AddInvoiceInput{
		Number: req.Number,
		Value:  *req.Value,
		Date:   date,
	})
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusCreated, invoice)
}

func (h *Handler) removeInvoice(c *gin.Context) {
	h.contracts.RemoveInvoice(c.Param("id"))
	c.Status(http.StatusNoContent)
}

func (h *Handler) exportContracts(c *gin.Context) {
	result, err := h.contracts.ExportContracts()
	if err != nil {
		h.handleError(c, err)
		return
	}
	h.sendFile(c, contentTypeXLSX, result)
}

func (h *Handler) contractStatement(c *gin.Context) {
	result, err := h.contracts.ContractStatement(c.Param("id"))
	if err != nil {
		h.handleError(c, err)
		return
	}
	h.sendFile(c, contentTypePDF, result)
}
