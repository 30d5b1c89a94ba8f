package apperr

import (
	"context"
	"database/sql/driver"
	"errors"
	"io"
	"net"
	"strings"
	"syscall"

	"github.com/jackc/pgx/v5/pgconn"
)

// SQLSTATE raised by Postgres when row-level security policies reference
// each other in a loop.
const pgInfiniteRecursion = "42P17"

var (
	recursionMarkers  = []string{"recursion", "infinite loop", "policy"}
	connectionMarkers = []string{"fetch", "network", "failed to fetch", "connection refused"}
)

// Classify tags err with CodeRecursion or CodeConnection when it indicates an
// authorization-policy loop or an unreachable backend. Typed driver and
// network errors are checked first; message substrings are the fallback for
// errors that carry no type information. Any other error is returned as is,
// and nil stays nil.
func Classify(err error) error {
	if err == nil {
		return nil
	}
	var e *Error
	if errors.As(err, &e) && (e.Code == CodeRecursion || e.Code == CodeConnection) {
		return err
	}
	switch KindOf(err) {
	case CodeRecursion:
		return Wrap(err, CodeRecursion, ErrRecursion.Message)
	case CodeConnection:
		return Wrap(err, CodeConnection, ErrConnection.Message)
	}
	return err
}

// KindOf reports which special kind err belongs to, or "" for neither.
func KindOf(err error) Code {
	if err == nil {
		return ""
	}
	if code := CodeOf(err); code == CodeRecursion || code == CodeConnection {
		return code
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		if pgErr.Code == pgInfiniteRecursion {
			return CodeRecursion
		}
		return byMessage(pgErr.Message)
	}

	var connErr *pgconn.ConnectError
	if errors.As(err, &connErr) {
		return CodeConnection
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		return CodeConnection
	}
	if errors.Is(err, driver.ErrBadConn) ||
		errors.Is(err, syscall.ECONNREFUSED) ||
		errors.Is(err, syscall.ECONNRESET) ||
		errors.Is(err, io.ErrUnexpectedEOF) {
		return CodeConnection
	}
	if errors.Is(err, context.Canceled) {
		return ""
	}

	return byMessage(err.Error())
}

// byMessage is the substring fallback. "policy" matches any message that
// mentions a policy, not only recursion ones.
func byMessage(msg string) Code {
	msg = strings.ToLower(msg)
	for _, m := range recursionMarkers {
		if strings.Contains(msg, m) {
			return CodeRecursion
		}
	}
	for _, m := range connectionMarkers {
		if strings.Contains(msg, m) {
			return CodeConnection
		}
	}
	return ""
}
