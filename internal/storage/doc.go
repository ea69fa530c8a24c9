// Package storage defines the narrow data-store contract seeders run against.
//
// Readers serve precondition checks, filters, and validators. Writes happen
// only inside Store.WithTx, whose Tx is committed when the callback returns
// nil and rolled back otherwise. Implementations live in subpackages.
//
// # Error Types
//
//   - ErrNotFound: a referenced record is missing.
//   - ErrInvalidIdentifier: a table or column name is not a plain identifier.
//   - ErrEmptyRow: an insert carried no columns.
//   - ErrConflict: a write violated a uniqueness or foreign key constraint.
package storage
