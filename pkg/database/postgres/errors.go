package postgres

import (
	"github.com/lib/pq"
	"github.com/pkg/errors"
)

// IsUniqueViolation reports whether err is a postgres unique_violation (23505) on constraint.
// An empty constraint matches any unique violation.
func IsUniqueViolation(err error, constraint string) bool {
	var pqErr *pq.Error
	if !errors.As(err, &pqErr) {
		return false
	}
	if pqErr.Code != "23505" {
		return false
	}
	return constraint == "" || pqErr.Constraint == constraint
}
