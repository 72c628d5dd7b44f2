package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
)

// nextNumber generates PREFIX-YYYY-MM-NNNN identifiers, sequential
// within the current month, by counting existing rows with the month's
// prefix. Matches the numbering scheme used across farms, policies and
// claims.
func nextNumber(ctx context.Context, db *sqlx.DB, prefix, table, column string) (string, error) {
	now := time.Now().UTC()
	monthPrefix := fmt.Sprintf("%s-%04d-%02d-", prefix, now.Year(), int(now.Month()))

	var count int
	query := fmt.Sprintf(`SELECT COUNT(*) FROM %s WHERE %s LIKE $1`, table, column)
	if err := db.GetContext(ctx, &count, query, monthPrefix+"%"); err != nil {
		return "", fmt.Errorf("failed to count %s numbers: %w", table, err)
	}

	return fmt.Sprintf("%s%04d", monthPrefix, count+1), nil
}
