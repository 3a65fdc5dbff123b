package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/ywpark/brickpay-api/internal/models"
	"github.com/ywpark/brickpay-api/internal/repository"
	"github.com/ywpark/brickpay-api/internal/services"
)

// ExportHandler serves file downloads of plans and adjustment summaries
type ExportHandler struct {
	exportSvc      *services.ExportService
	installmentSvc *services.InstallmentService
	adjustmentSvc  *services.AdjustmentService
	repos          *repository.Repositories
}

// NewExportHandler creates a new export handler
func NewExportHandler(exportSvc *services.ExportService, installmentSvc *services.InstallmentService, adjustmentSvc *services.AdjustmentService, repos *repository.Repositories) *ExportHandler {
	return &ExportHandler{
		exportSvc:      exportSvc,
		installmentSvc: installmentSvc,
		adjustmentSvc:  adjustmentSvc,
		repos:          repos,
	}
}

func (h *ExportHandler) loadContract(c *gin.Context) (*models.Contract, bool) {
	contractID, ok := paramUint(c, "contract_id")
	if !ok {
		return nil, false
	}
	contract, err := h.repos.Contract.FindByIDWithDetails(c.Request.Context(), contractID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "contract not found"})
		return nil, false
	}
	return contract, true
}

func (h *ExportHandler) loadSummary(c *gin.Context, contract *models.Contract) (*services.AdjustmentSummary, bool) {
	asOf := time.Now()
	if raw := c.Query("as_of"); raw != "" {
		parsed, err := time.Parse("2006-01-02", raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "as_of must be YYYY-MM-DD"})
			return nil, false
		}
		asOf = parsed
	}

	summary, err := h.adjustmentSvc.Summary(c.Request.Context(), contract, asOf)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return nil, false
	}
	return summary, true
}

func sendFile(c *gin.Context, data []byte, filename, contentType string) {
	c.Header("Content-Disposition", "attachment; filename="+filename)
	c.Data(http.StatusOK, contentType, data)
}

// AdjustmentCSV downloads the adjustment summary as CSV
func (h *ExportHandler) AdjustmentCSV(c *gin.Context) {
	contract, ok := h.loadContract(c)
	if !ok {
		return
	}
	summary, ok := h.loadSummary(c, contract)
	if !ok {
		return
	}

	data, filename, err := h.exportSvc.AdjustmentCSV(contract, summary)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	sendFile(c, data, filename, "text/csv")
}

// AdjustmentXLSX downloads the adjustment summary as an Excel workbook
func (h *ExportHandler) AdjustmentXLSX(c *gin.Context) {
	contract, ok := h.loadContract(c)
	if !ok {
		return
	}
	summary, ok := h.loadSummary(c, contract)
	if !ok {
		return
	}

	data, filename, err := h.exportSvc.AdjustmentXLSX(contract, summary)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	sendFile(c, data, filename, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
}

// PlanPDF downloads the payment plan as PDF
func (h *ExportHandler) PlanPDF(c *gin.Context) {
	contract, ok := h.loadContract(c)
	if !ok {
		return
	}

	plan, _, err := h.installmentSvc.PlanFor(c.Request.Context(), contract)
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}

	data, filename, err := h.exportSvc.PlanPDF(contract, plan)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	sendFile(c, data, filename, "application/pdf")
}

// StatementPDF downloads the rendered HTML statement as PDF
func (h *ExportHandler) StatementPDF(c *gin.Context) {
	contract, ok := h.loadContract(c)
	if !ok {
		return
	}
	summary, ok := h.loadSummary(c, contract)
	if !ok {
		return
	}

	data, filename, err := h.exportSvc.StatementPDF(contract, summary)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	sendFile(c, data, filename, "application/pdf")
}
