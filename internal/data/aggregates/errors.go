package aggregates

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"strings"

	"github.com/mattn/go-sqlite3"
	domainagg "github.com/mestudy/mestudy-core/internal/domain/aggregates"
	"github.com/mestudy/mestudy-core/internal/domain/learning"
	"gorm.io/gorm"
)

// ValidationError, InvariantError and PartialFailureError are raised inside a
// write body. MapError stamps the operation name onto them.
func ValidationError(format string, args ...any) error {
	return domainagg.Errorf(domainagg.CodeValidation, "", format, args...)
}

func InvariantError(format string, args ...any) error {
	return domainagg.Errorf(domainagg.CodeInvariantViolation, "", format, args...)
}

func PartialFailureError(format string, args ...any) error {
	return domainagg.Errorf(domainagg.CodePartialFailure, "", format, args...)
}

var sentinelCodes = []struct {
	err  error
	code domainagg.ErrorCode
}{
	{gorm.ErrRecordNotFound, domainagg.CodeNotFound},
	{gorm.ErrDuplicatedKey, domainagg.CodeConstraintViolation},
	{gorm.ErrForeignKeyViolated, domainagg.CodeConstraintViolation},
	{sql.ErrConnDone, domainagg.CodeNotConnected},
	{learning.ErrUnknownValue, domainagg.CodeSerialization},
	{context.Canceled, domainagg.CodeRetryable},
	{context.DeadlineExceeded, domainagg.CodeRetryable},
}

// MapError gives err a domain code. Errors that already carry one keep it.
func MapError(op string, err error) error {
	if err == nil {
		return nil
	}
	var de *domainagg.Error
	if errors.As(err, &de) {
		if de.Op == "" {
			de.Op = op
		}
		return err
	}
	return domainagg.Wrap(classify(err), op, err)
}

func classify(err error) domainagg.ErrorCode {
	for _, s := range sentinelCodes {
		if errors.Is(err, s.err) {
			return s.code
		}
	}

	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		switch sqliteErr.Code {
		case sqlite3.ErrBusy, sqlite3.ErrLocked:
			return domainagg.CodeRetryable
		case sqlite3.ErrConstraint:
			return domainagg.CodeConstraintViolation
		case sqlite3.ErrCantOpen, sqlite3.ErrNotADB, sqlite3.ErrReadonly:
			return domainagg.CodeNotConnected
		}
	}

	var syntaxErr *json.SyntaxError
	var typeErr *json.UnmarshalTypeError
	var unsupported *json.UnsupportedTypeError
	var marshalErr *json.MarshalerError
	if errors.As(err, &syntaxErr) || errors.As(err, &typeErr) || errors.As(err, &unsupported) || errors.As(err, &marshalErr) {
		return domainagg.CodeSerialization
	}

	// Errors surfaced as plain text by database/sql or an untranslated driver path.
	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "constraint failed"):
		return domainagg.CodeConstraintViolation
	case strings.Contains(msg, "database is closed"), strings.Contains(msg, "unable to open database"):
		return domainagg.CodeNotConnected
	case strings.Contains(msg, "database is locked"), strings.Contains(msg, "database table is locked"):
		return domainagg.CodeRetryable
	}
	return domainagg.CodeInternal
}
