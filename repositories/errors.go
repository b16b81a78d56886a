package repositories

import (
	"errors"
	"fmt"

	"github.com/mattn/go-sqlite3"
)

// ReferentialError reports a foreign key constraint violation that
// blocked a write or delete
type ReferentialError struct {
	Op  string
	Err error
}

func (e *ReferentialError) Error() string {
	return fmt.Sprintf("%s: referential constraint violated: %v", e.Op, e.Err)
}

func (e *ReferentialError) Unwrap() error {
	return e.Err
}

// wrapWriteError normalizes sqlite foreign key failures into
// ReferentialError and wraps everything else with the operation name
func wrapWriteError(op string, err error) error {
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) && sqliteErr.ExtendedCode == sqlite3.ErrConstraintForeignKey {
		return &ReferentialError{Op: op, Err: err}
	}
	return fmt.Errorf("%s: %w", op, err)
}
