// Package repository holds the MySQL data access layer.  Repositories run
// hand-written SQL through database/sql; filters are expressed as Scopes
// and list queries return Paginated results.
//
// The sentinel errors below let higher layers tell failure scenarios apart
// without inspecting driver errors.
package repository

import (
	"database/sql"
	"errors"

	"github.com/go-sql-driver/mysql"
)

// ErrNotFound is returned when a looked-up row does not exist.  Handlers
// translate it into a 404.
var ErrNotFound = errors.New("not found")

// ErrForbidden is returned when the caller attempts an operation on a
// resource they do not own.  Handlers translate it into a 403.
var ErrForbidden = errors.New("forbidden")

// ErrConflict is returned when the current state of a row does not allow
// the requested change, such as deciding on a completed reservation.
// Handlers translate it into a 409.
var ErrConflict = errors.New("conflict")

// ErrDuplicate is returned when a unique constraint rejects an insert, for
// example a second review of the same reservation.
var ErrDuplicate = errors.New("duplicate")

// ErrEmailExists is the ErrDuplicate flavour raised on registration.
var ErrEmailExists = errors.New("email already exists")

// mysqlDuplicateEntry is ER_DUP_ENTRY.
const mysqlDuplicateEntry = 1062

// isDuplicate reports whether err is a MySQL unique key violation.
func isDuplicate(err error) bool {
	var me *mysql.MySQLError
	return errors.As(err, &me) && me.Number == mysqlDuplicateEntry
}

// notFound maps sql.ErrNoRows onto ErrNotFound and leaves other errors as is.
func notFound(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	return err
}
