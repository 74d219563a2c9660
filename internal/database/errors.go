package database

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"net"

	"github.com/go-sql-driver/mysql"
	"github.com/lib/pq"

	apperrors "github.com/allisson/codepool/internal/errors"
)

const (
	pqUniqueViolation        = pq.ErrorCode("23505")
	pqConnectionExceptionCls = pq.ErrorClass("08")
	mysqlDuplicateEntry      = 1062
)

// ErrStoreUnavailable indicates the database could not be reached. Nothing was mutated,
// so callers may retry.
var ErrStoreUnavailable = apperrors.Wrap(apperrors.ErrUnavailable, "store unavailable")

// IsUniqueViolation reports whether err is a unique constraint violation from either
// supported driver.
func IsUniqueViolation(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == pqUniqueViolation
	}
	var myErr *mysql.MySQLError
	if errors.As(err, &myErr) {
		return myErr.Number == mysqlDuplicateEntry
	}
	return false
}

// IsConnectionError reports whether err means the store was unreachable or timed out.
func IsConnectionError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, driver.ErrBadConn) || errors.Is(err, sql.ErrConnDone) ||
		errors.Is(err, mysql.ErrInvalidConn) || errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code.Class() == pqConnectionExceptionCls
	}
	var netErr net.Error
	return errors.As(err, &netErr)
}

// Classify wraps connection failures with ErrStoreUnavailable and returns any other
// error unchanged.
func Classify(err error) error {
	if IsConnectionError(err) && !errors.Is(err, ErrStoreUnavailable) {
		return errors.Join(ErrStoreUnavailable, err)
	}
	return err
}
