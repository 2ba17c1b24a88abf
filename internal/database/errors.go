// ViralAI - Social Content Generation Backend
// Copyright 2026 NetRider88
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/NetRider88/viralAI

package database

import (
	"errors"
	"io"
	"strings"

	"github.com/NetRider88/viralAI/internal/logging"
	"github.com/NetRider88/viralAI/internal/metrics"
)

var (
	// ErrNotFound is returned when a lookup matches no row.
	ErrNotFound = errors.New("record not found")

	// ErrDuplicate is returned when an insert violates a unique constraint.
	ErrDuplicate = errors.New("duplicate record")
)

// closeWithLog closes a resource and logs any error
func closeWithLog(closer io.Closer, resourceType string) {
	if closer == nil {
		return
	}
	if err := closer.Close(); err != nil {
		logging.Warn().Str("type", resourceType).Err(err).Msg("Failed to close resource")
	}
}

// closeQuietly closes a resource and explicitly ignores any error
func closeQuietly(closer io.Closer) {
	if closer != nil {
		_ = closer.Close()
	}
}

// rollbackQuietly is deferred after BeginTx; it is a no-op once committed.
func rollbackQuietly(tx interface{ Rollback() error }) {
	_ = tx.Rollback()
}

// isTransactionConflict reports DuckDB optimistic-concurrency failures.
func isTransactionConflict(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "Transaction conflict") ||
		strings.Contains(msg, "Conflict on update") ||
		strings.Contains(msg, "cannot update a table that has been altered")
}

// isInternalError reports DuckDB INTERNAL errors, which are never retried.
func isInternalError(err error) bool {
	return err != nil && strings.Contains(err.Error(), "INTERNAL Error")
}

// isUniqueViolation reports primary key and unique constraint failures.
func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "Duplicate key") ||
		strings.Contains(msg, "violates unique constraint") ||
		strings.Contains(msg, "violates primary key constraint")
}

func recordConflict(table string) {
	metrics.DBTransactionConflicts.WithLabelValues(table).Inc()
}
