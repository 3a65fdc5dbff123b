package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/ywpark/brickpay-api/internal/models"
	"github.com/ywpark/brickpay-api/internal/repository"
	"github.com/ywpark/brickpay-api/pkg/logger"
)

// ImportContext is threaded explicitly through reconciliation calls. Bulk
// suppresses per-row balance writes so an import touches each bank
// transaction once, in the closing pass.
type ImportContext struct {
	Bulk    bool
	BatchID string
}

// ReconciliationService keeps the denormalized ContractPayment projection in
// step with the accounting entries it derives from.
//
// An entry on a payment-bearing account gets (or updates) a projection row.
// An entry reclassified to a non-payment account keeps its projection but
// flags it mismatched; projections are surfaced, never auto-deleted.
type ReconciliationService struct {
	repos *repository.Repositories
}

// NewReconciliationService creates a new reconciliation service
func NewReconciliationService(repos *repository.Repositories) *ReconciliationService {
	return &ReconciliationService{repos: repos}
}

// SyncEntry reconciles one accounting entry with its payment projection and
// rechecks the parent transaction balance (unless importing in bulk)
func (s *ReconciliationService) SyncEntry(ctx context.Context, entry *models.AccountingEntry, importCtx ImportContext) error {
	if _, err := s.syncProjection(ctx, s.repos, entry, importCtx); err != nil {
		return err
	}
	if importCtx.Bulk {
		return nil
	}
	return s.recheckBalance(ctx, s.repos, entry.BankTransactionID)
}

// syncProjection reports whether the entry's projection ended up mismatched.
// In bulk mode the per-row mismatch warning is suppressed; the caller reports
// the aggregate instead.
func (s *ReconciliationService) syncProjection(ctx context.Context, repos *repository.Repositories, entry *models.AccountingEntry, importCtx ImportContext) (bool, error) {
	account := entry.Account
	if account.ID == 0 {
		found, err := repos.Ledger.FindAccount(ctx, entry.AccountID)
		if err != nil {
			return false, fmt.Errorf("failed to load account %d: %w", entry.AccountID, err)
		}
		account = *found
	}

	existing, found, err := repos.Payment.FindByEntry(ctx, entry.ID)
	if err != nil {
		return false, fmt.Errorf("failed to look up payment projection: %w", err)
	}

	if !account.IsPayment {
		// Reclassified away from a payment account: flag, never delete
		if !found {
			return false, nil
		}
		changed := false
		if !existing.IsPaymentMismatch {
			existing.IsPaymentMismatch = true
			changed = true
		}
		if !uintPtrEqual(existing.ContractID, entry.ContractID) {
			existing.ContractID = entry.ContractID
			changed = true
		}
		if !changed {
			return true, nil
		}
		if !importCtx.Bulk {
			logger.Warn("payment projection mismatch",
				"accounting_entry_id", entry.ID, "account_code", account.Code)
		}
		return true, repos.Payment.Update(ctx, existing)
	}

	if entry.InstallmentOrderID != nil {
		_, orderFound, err := repos.Pricing.FindInstallmentOrder(ctx, *entry.InstallmentOrderID)
		if err != nil {
			return false, fmt.Errorf("failed to look up installment order: %w", err)
		}
		if !orderFound {
			return false, fmt.Errorf("%w: installment order %d does not exist", ErrInvalidInput, *entry.InstallmentOrderID)
		}
	}

	if !found {
		txn, err := repos.Ledger.FindTransaction(ctx, entry.BankTransactionID)
		if err != nil {
			return false, fmt.Errorf("failed to load bank transaction %d: %w", entry.BankTransactionID, err)
		}
		return false, repos.Payment.Create(ctx, &models.ContractPayment{
			AccountingEntryID:  entry.ID,
			ProjectID:          txn.ProjectID,
			ContractID:         entry.ContractID,
			InstallmentOrderID: entry.InstallmentOrderID,
			Amount:             entry.Amount,
			IncomeDate:         entry.EntryDate,
		})
	}

	// Update only when something actually moved
	changed := false
	if existing.Amount != entry.Amount {
		existing.Amount = entry.Amount
		changed = true
	}
	if !existing.IncomeDate.Equal(entry.EntryDate) {
		existing.IncomeDate = entry.EntryDate
		changed = true
	}
	if !uintPtrEqual(existing.ContractID, entry.ContractID) {
		existing.ContractID = entry.ContractID
		changed = true
	}
	if !uintPtrEqual(existing.InstallmentOrderID, entry.InstallmentOrderID) {
		existing.InstallmentOrderID = entry.InstallmentOrderID
		changed = true
	}
	if existing.IsPaymentMismatch {
		existing.IsPaymentMismatch = false
		changed = true
	}
	if !changed {
		return false, nil
	}
	return false, repos.Payment.Update(ctx, existing)
}

// recheckBalance writes IsBalanced back only when the derived state differs
// from the stored one
func (s *ReconciliationService) recheckBalance(ctx context.Context, repos *repository.Repositories, bankTransactionID uint) error {
	txn, err := repos.Ledger.FindTransaction(ctx, bankTransactionID)
	if err != nil {
		return fmt.Errorf("failed to load bank transaction %d: %w", bankTransactionID, err)
	}

	sum, err := repos.Ledger.SumEntries(ctx, bankTransactionID)
	if err != nil {
		return fmt.Errorf("failed to sum entries: %w", err)
	}

	balanced := sum == txn.Amount()
	if balanced == txn.IsBalanced {
		return nil
	}
	return repos.Ledger.SetTransactionBalanced(ctx, bankTransactionID, balanced)
}

// BulkImport persists a batch of accounting entries and reconciles their
// projections inside one database transaction, then rechecks each touched
// bank transaction exactly once. Per-row mismatch warnings are suppressed
// and reported as one aggregate. Returns the batch ID assigned to the run.
func (s *ReconciliationService) BulkImport(ctx context.Context, entries []models.AccountingEntry) (string, error) {
	batchID := uuid.NewString()
	importCtx := ImportContext{Bulk: true, BatchID: batchID}

	touched := make(map[uint]struct{})
	mismatches := 0

	err := s.repos.Transaction(func(txRepos *repository.Repositories) error {
		for i := range entries {
			if err := txRepos.Ledger.CreateEntry(ctx, &entries[i]); err != nil {
				return fmt.Errorf("failed to create entry %d of %d: %w", i+1, len(entries), err)
			}
			mismatched, err := s.syncProjection(ctx, txRepos, &entries[i], importCtx)
			if err != nil {
				return err
			}
			if mismatched {
				mismatches++
			}
			touched[entries[i].BankTransactionID] = struct{}{}
		}

		// Closing pass: one balance recheck per bank transaction
		for id := range touched {
			if err := s.recheckBalance(ctx, txRepos, id); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return "", err
	}

	logger.Info("bulk import finished",
		"batch_id", batchID, "entries", len(entries), "transactions", len(touched), "mismatches", mismatches)
	return batchID, nil
}

// DeleteEntry removes an accounting entry together with its payment
// projection, then rechecks the parent transaction balance. A projection
// without its entry would be phantom income, so it goes with the entry.
func (s *ReconciliationService) DeleteEntry(ctx context.Context, entryID uint) error {
	entry, err := s.repos.Ledger.FindEntry(ctx, entryID)
	if err != nil {
		return fmt.Errorf("%w: accounting entry %d", ErrNotFound, entryID)
	}

	projection, found, err := s.repos.Payment.FindByEntry(ctx, entry.ID)
	if err != nil {
		return fmt.Errorf("failed to look up payment projection: %w", err)
	}
	if found {
		if err := s.repos.Payment.Delete(ctx, projection.ID); err != nil {
			return fmt.Errorf("failed to delete payment projection: %w", err)
		}
	}

	if err := s.repos.Ledger.DeleteEntry(ctx, entry.ID); err != nil {
		return fmt.Errorf("failed to delete entry %d: %w", entry.ID, err)
	}

	return s.recheckBalance(ctx, s.repos, entry.BankTransactionID)
}

func uintPtrEqual(a, b *uint) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
