package repository

import (
	"errors"

	"github.com/go-sql-driver/mysql"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

var (
	ErrNotFound             = errors.New("NOT_FOUND")
	ErrSourceDuplicate      = errors.New("SOURCE_DUPLICATE")
	ErrUserSourceDuplicate  = errors.New("USER_SOURCE_DUPLICATE")
	ErrTransactionDuplicate = errors.New("TRANSACTION_DUPLICATE")
	ErrNoRowsAffected       = errors.New("NO_ROWS_AFFECTED")
)

const (
	mysqlDuplicateEntry     = 1062
	postgresUniqueViolation = "23505"
	sqliteConstraintUnique  = 2067
	sqliteConstraintPK      = 1555
)

// sqliteError matches the error type of the pure-Go sqlite driver without
// importing it into production code.
type sqliteError interface {
	Code() int
}

// isDuplicateKey reports whether err is a unique constraint violation from any
// of the supported drivers.
func isDuplicateKey(err error) bool {
	if err == nil {
		return false
	}

	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}

	var mysqlErr *mysql.MySQLError
	if errors.As(err, &mysqlErr) && mysqlErr.Number == mysqlDuplicateEntry {
		return true
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == postgresUniqueViolation {
		return true
	}

	var liteErr sqliteError
	if errors.As(err, &liteErr) {
		code := liteErr.Code()
		return code == sqliteConstraintUnique || code == sqliteConstraintPK
	}

	return false
}
