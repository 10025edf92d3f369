package postgres

import (
	"errors"

	"github.com/lib/pq"
)

// uniqueViolation is the postgres error code for duplicate keys. It is
// the one write failure that is an expected outcome (re-liking, racing
// match upserts) rather than a real error.
const uniqueViolation = "23505"

// foreignKeyViolation fires when a row points at a user that does not
// exist, e.g. liking a deleted account. Retrying cannot fix it.
const foreignKeyViolation = "23503"

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == uniqueViolation
}

func isForeignKeyViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == foreignKeyViolation
}

func constraintName(err error) string {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Constraint
	}
	return ""
}
