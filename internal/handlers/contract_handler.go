package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/ywpark/brickpay-api/internal/repository"
	"github.com/ywpark/brickpay-api/internal/services"
)

// ContractHandler serves the contract surface: lifecycle, payment plan and
// adjustment summary
type ContractHandler struct {
	contractSvc    *services.ContractService
	installmentSvc *services.InstallmentService
	adjustmentSvc  *services.AdjustmentService
	repos          *repository.Repositories
}

// NewContractHandler creates a new contract handler
func NewContractHandler(contractSvc *services.ContractService, installmentSvc *services.InstallmentService, adjustmentSvc *services.AdjustmentService, repos *repository.Repositories) *ContractHandler {
	return &ContractHandler{
		contractSvc:    contractSvc,
		installmentSvc: installmentSvc,
		adjustmentSvc:  adjustmentSvc,
		repos:          repos,
	}
}

// Index lists contracts with filters and pagination
func (h *ContractHandler) Index(c *gin.Context) {
	query := &repository.ContractQuery{}
	query.Page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	query.PerPage, _ = strconv.Atoi(c.DefaultQuery("per_page", "20"))
	query.Status = c.Query("status")
	query.ActiveOnly = c.Query("active") == "true"
	if projectID, err := strconv.ParseUint(c.Query("project_id"), 10, 32); err == nil {
		query.ProjectID = uint(projectID)
	}
	if orderGroupID, err := strconv.ParseUint(c.Query("order_group_id"), 10, 32); err == nil {
		query.OrderGroupID = uint(orderGroupID)
	}
	if unitTypeID, err := strconv.ParseUint(c.Query("unit_type_id"), 10, 32); err == nil {
		query.UnitTypeID = uint(unitTypeID)
	}

	contracts, total, err := h.repos.Contract.List(c.Request.Context(), query)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	responses := make([]interface{}, 0, len(contracts))
	for i := range contracts {
		responses = append(responses, contracts[i].ToResponse())
	}

	c.JSON(http.StatusOK, gin.H{
		"contracts": responses,
		"pagination": gin.H{
			"page":        query.Page,
			"per_page":    query.PerPage,
			"total":       total,
			"total_pages": (total + int64(query.PerPage) - 1) / int64(query.PerPage),
		},
	})
}

// Show returns one contract with its cached price
func (h *ContractHandler) Show(c *gin.Context) {
	contractID, ok := paramUint(c, "contract_id")
	if !ok {
		return
	}

	contract, err := h.repos.Contract.FindByIDWithDetails(c.Request.Context(), contractID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "contract not found"})
		return
	}

	c.JSON(http.StatusOK, contract.ToResponse())
}

// Create registers a new contract
func (h *ContractHandler) Create(c *gin.Context) {
	var req services.CreateContractRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	contract, err := h.contractSvc.Create(c.Request.Context(), &req)
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, contract.ToResponse())
}

// Activate moves a pending contract to active
func (h *ContractHandler) Activate(c *gin.Context) {
	contractID, ok := paramUint(c, "contract_id")
	if !ok {
		return
	}

	contract, err := h.contractSvc.Activate(c.Request.Context(), contractID)
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, contract.ToResponse())
}

// Terminate soft-cancels a contract
func (h *ContractHandler) Terminate(c *gin.Context) {
	contractID, ok := paramUint(c, "contract_id")
	if !ok {
		return
	}

	contract, err := h.contractSvc.Terminate(c.Request.Context(), contractID)
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, contract.ToResponse())
}

// AssignUnit rebinds a contract to another key unit
func (h *ContractHandler) AssignUnit(c *gin.Context) {
	contractID, ok := paramUint(c, "contract_id")
	if !ok {
		return
	}

	var req struct {
		KeyUnitID uint `json:"key_unit_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.contractSvc.AssignUnit(c.Request.Context(), contractID, req.KeyUnitID); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "unit assigned"})
}

// Plan returns the per-installment payment plan for a contract
func (h *ContractHandler) Plan(c *gin.Context) {
	contractID, ok := paramUint(c, "contract_id")
	if !ok {
		return
	}

	contract, err := h.repos.Contract.FindByIDWithDetails(c.Request.Context(), contractID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "contract not found"})
		return
	}

	plan, price, err := h.installmentSvc.PlanFor(c.Request.Context(), contract)
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"contract_id": contract.ID,
		"price":       price,
		"plan":        plan,
	})
}

// Adjustment returns the discount/penalty position as of a reference date
// (as_of query param, default today)
func (h *ContractHandler) Adjustment(c *gin.Context) {
	contractID, ok := paramUint(c, "contract_id")
	if !ok {
		return
	}

	asOf := time.Now()
	if raw := c.Query("as_of"); raw != "" {
		parsed, err := time.Parse("2006-01-02", raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "as_of must be YYYY-MM-DD"})
			return
		}
		asOf = parsed
	}

	contract, err := h.repos.Contract.FindByIDWithDetails(c.Request.Context(), contractID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "contract not found"})
		return
	}

	summary, err := h.adjustmentSvc.Summary(c.Request.Context(), contract, asOf)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, summary)
}

// Recompute enqueues a project-wide price cache rewrite
func (h *ContractHandler) Recompute(c *gin.Context) {
	projectID, ok := paramUint(c, "project_id")
	if !ok {
		return
	}

	h.contractSvc.EnqueueProjectRecompute(projectID)
	c.JSON(http.StatusAccepted, gin.H{"message": "recompute scheduled", "project_id": projectID})
}
