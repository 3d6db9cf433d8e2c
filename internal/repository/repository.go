// Package repository contains data access layer abstractions.
// Implementations live in subpackages (e.g. postgres) inside this directory.
// Methods take a dbx.DBTX so the same repository runs standalone against the
// pool or inside a multi-row transaction; none of them contain business
// logic. Multi-row invariants are composed by the services.
package repository

// PageQuery holds limit/offset pagination parameters.
type PageQuery struct {
	Limit  int
	Offset int
}

// PageResult is a generic pagination result wrapper.
type PageResult[T any] struct {
	Items []T
	Total int
}
