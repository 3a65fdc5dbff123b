package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/ywpark/brickpay-api/internal/models"
	"github.com/ywpark/brickpay-api/internal/repository"
	"github.com/ywpark/brickpay-api/internal/services"
)

// entryRequest carries the input for one accounting entry
type entryRequest struct {
	BankTransactionID  uint   `json:"bank_transaction_id" binding:"required"`
	AccountID          uint   `json:"account_id" binding:"required"`
	ContractID         *uint  `json:"contract_id"`
	InstallmentOrderID *uint  `json:"installment_order_id"`
	Amount             int64  `json:"amount" binding:"required"`
	EntryDate          string `json:"entry_date" binding:"required"` // YYYY-MM-DD
	Note               string `json:"note"`
}

func (r *entryRequest) toModel() (*models.AccountingEntry, error) {
	entryDate, err := time.Parse("2006-01-02", r.EntryDate)
	if err != nil {
		return nil, err
	}
	return &models.AccountingEntry{
		BankTransactionID:  r.BankTransactionID,
		AccountID:          r.AccountID,
		ContractID:         r.ContractID,
		InstallmentOrderID: r.InstallmentOrderID,
		Amount:             r.Amount,
		EntryDate:          entryDate,
		Note:               r.Note,
	}, nil
}

// LedgerHandler serves accounting entries, bulk import and the cash book
type LedgerHandler struct {
	reconciliationSvc *services.ReconciliationService
	repos             *repository.Repositories
}

// NewLedgerHandler creates a new ledger handler
func NewLedgerHandler(reconciliationSvc *services.ReconciliationService, repos *repository.Repositories) *LedgerHandler {
	return &LedgerHandler{reconciliationSvc: reconciliationSvc, repos: repos}
}

// CreateEntry records one accounting entry and reconciles its projection
func (h *LedgerHandler) CreateEntry(c *gin.Context) {
	var req entryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	entry, err := req.toModel()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "entry_date must be YYYY-MM-DD"})
		return
	}

	ctx := c.Request.Context()
	if err := h.repos.Ledger.CreateEntry(ctx, entry); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}
	if err := h.reconciliationSvc.SyncEntry(ctx, entry, services.ImportContext{}); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, entry)
}

// UpdateEntry rewrites an accounting entry and re-reconciles it
func (h *LedgerHandler) UpdateEntry(c *gin.Context) {
	entryID, ok := paramUint(c, "entry_id")
	if !ok {
		return
	}

	ctx := c.Request.Context()
	entry, err := h.repos.Ledger.FindEntry(ctx, entryID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "entry not found"})
		return
	}

	var req entryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	updated, err := req.toModel()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "entry_date must be YYYY-MM-DD"})
		return
	}

	entry.AccountID = updated.AccountID
	entry.ContractID = updated.ContractID
	entry.InstallmentOrderID = updated.InstallmentOrderID
	entry.Amount = updated.Amount
	entry.EntryDate = updated.EntryDate
	entry.Note = updated.Note
	entry.Account = models.Account{}

	if err := h.repos.Ledger.UpdateEntry(ctx, entry); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}
	if err := h.reconciliationSvc.SyncEntry(ctx, entry, services.ImportContext{}); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, entry)
}

// DeleteEntry removes an accounting entry along with its payment projection
// and re-validates the parent transaction balance
func (h *LedgerHandler) DeleteEntry(c *gin.Context) {
	entryID, ok := paramUint(c, "entry_id")
	if !ok {
		return
	}

	if err := h.reconciliationSvc.DeleteEntry(c.Request.Context(), entryID); err != nil {
		if errors.Is(err, services.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "entry not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"deleted": entryID})
}

// BulkImport loads a batch of accounting entries in one transaction
func (h *LedgerHandler) BulkImport(c *gin.Context) {
	var req struct {
		Entries []entryRequest `json:"entries" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	entries := make([]models.AccountingEntry, 0, len(req.Entries))
	for i := range req.Entries {
		entry, err := req.Entries[i].toModel()
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "entry_date must be YYYY-MM-DD"})
			return
		}
		entries = append(entries, *entry)
	}

	batchID, err := h.reconciliationSvc.BulkImport(c.Request.Context(), entries)
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"batch_id": batchID, "entries": len(entries)})
}

// ShowTransaction returns a bank transaction with its entries, children and
// derived balance flags
func (h *LedgerHandler) ShowTransaction(c *gin.Context) {
	txnID, ok := paramUint(c, "transaction_id")
	if !ok {
		return
	}

	txn, err := h.repos.Ledger.FindTransactionWithEntries(c.Request.Context(), txnID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "transaction not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"transaction":       txn,
		"entries_balanced":  txn.EntriesBalanced(),
		"children_balanced": txn.ChildrenBalanced(),
	})
}

// Mismatches lists payment projections flagged by reclassification
func (h *LedgerHandler) Mismatches(c *gin.Context) {
	projectID, ok := paramUint(c, "project_id")
	if !ok {
		return
	}

	payments, err := h.repos.Payment.ListMismatched(c.Request.Context(), projectID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"payments": payments})
}

// CashBook lists the flat legacy ledger of a project
func (h *LedgerHandler) CashBook(c *gin.Context) {
	projectID, ok := paramUint(c, "project_id")
	if !ok {
		return
	}

	rows, err := h.repos.Ledger.ListCashBook(c.Request.Context(), projectID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	responses := make([]models.ProjectCashBookResponse, 0, len(rows))
	for i := range rows {
		responses = append(responses, rows[i].ToResponse())
	}

	c.JSON(http.StatusOK, gin.H{"cash_book": responses})
}
