// Package postgres holds the PostgreSQL implementations of the repository
// interfaces. Queries are parameterized database/sql; no business logic.
// Engagement inserts use ON CONFLICT DO NOTHING instead of catching unique
// violations: a raised error would abort the surrounding transaction.
package postgres
