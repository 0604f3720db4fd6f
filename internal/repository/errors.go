// Package repository defines error helpers shared across the individual
// repositories.  Entity-specific sentinels (ErrStationExists,
// ErrTrainNotFound, ...) live next to the repository that produces
// them; this file holds what is common to all of them.
package repository

import "strings"

// isDuplicateKey reports whether the error is a MySQL duplicate-key
// violation (error 1062).  The driver does not expose a typed error
// for this, so repositories match on the error code substring.
func isDuplicateKey(err error) bool {
    return err != nil && strings.Contains(err.Error(), "1062")
}

// isForeignKeyViolation reports whether the error is a MySQL foreign
// key failure (error 1452), raised when an insert references a row
// that does not exist.
func isForeignKeyViolation(err error) bool {
    return err != nil && strings.Contains(err.Error(), "1452")
}
