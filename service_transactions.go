package authzkit

import (
	"context"
	"fmt"
	"time"

	"github.com/fernandezvara/dbkit"
)

// Transaction executes a function against a service bound to one database
// transaction. If the function returns an error the transaction is rolled
// back, otherwise it is committed. Nested calls reuse the open transaction
// via a savepoint.
//
// Example:
//
//	err := service.Transaction(ctx, func(txs *authzkit.Service) error {
//	    if err := txs.AppendUserRoles(ctx, userID, roleIDs); err != nil {
//	        return err // rollback
//	    }
//	    return txs.RemoveUserRoles(ctx, userID, oldRoleIDs)
//	})
func (s *Service) Transaction(ctx context.Context, fn func(txs *Service) error) error {
	start := time.Now()
	err := s.runInTx(ctx, fn)
	s.txMonitor.recordTransaction(time.Since(start), err == nil)
	return err
}

// runInTx is the internal transaction wrapper used by every multi-step
// mutation. All reads and writes inside fn go through the transaction-bound
// service clone, so a failure anywhere rolls the store back to its
// pre-operation state.
func (s *Service) runInTx(ctx context.Context, fn func(txs *Service) error) error {
	// Already inside a transaction: nest with a savepoint.
	if tx, ok := s.db.(*dbkit.Tx); ok {
		return tx.Transaction(ctx, func(inner *dbkit.Tx) error {
			return fn(s.withDB(inner))
		})
	}

	db, ok := s.db.(*dbkit.DBKit)
	if !ok {
		return fmt.Errorf("transaction support requires a dbkit.DBKit or dbkit.Tx instance")
	}
	return db.Transaction(ctx, func(tx *dbkit.Tx) error {
		return fn(s.withDB(tx))
	})
}

// ReadOnlyTransaction executes a function within a read-only transaction,
// useful for multi-query reads that want a consistent snapshot.
func (s *Service) ReadOnlyTransaction(ctx context.Context, fn func(txs *Service) error) error {
	db, ok := s.db.(*dbkit.DBKit)
	if !ok {
		// Already transaction-bound; a nested read-only scope adds nothing.
		return fn(s)
	}
	return db.TransactionWithOptions(ctx, dbkit.ReadOnlyTxOptions(), func(tx *dbkit.Tx) error {
		return fn(s.withDB(tx))
	})
}

// GetTransactionMetrics returns the current transaction performance metrics.
func (s *Service) GetTransactionMetrics() TransactionMetrics {
	return s.txMonitor.getMetrics()
}

// ResetTransactionMetrics resets all transaction metrics.
func (s *Service) ResetTransactionMetrics() {
	s.txMonitor.reset()
}

// IsTransactionHealthy checks if transaction performance is within
// acceptable thresholds: under 5% failures and under one second average
// duration, once enough samples exist.
func (s *Service) IsTransactionHealthy() bool {
	metrics := s.txMonitor.getMetrics()

	if metrics.TotalTransactions < 10 {
		return true
	}
	failureRate := float64(metrics.FailedTransactions) / float64(metrics.TotalTransactions)
	if failureRate > 0.05 {
		return false
	}
	return metrics.AverageDuration <= time.Second
}
