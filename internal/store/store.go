// Package store holds all SQL data access. Functions take database.DB so
// handlers and tests can supply pgxpool or FakeDB interchangeably.
package store

import "errors"

var (
	// ErrNotFound marks affected-row-count misses that pgx does not surface
	// as pgx.ErrNoRows (UPDATE/DELETE with no matching row).
	ErrNotFound = errors.New("not found")

	ErrProductNotFound   = errors.New("product not found")
	ErrInsufficientStock = errors.New("insufficient stock")
)
